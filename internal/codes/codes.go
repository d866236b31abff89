// Package codes provides editing-time helpers for qr and barcode
// blocks: payload preflight and QR export. Final receipt rendering is
// the print service's job, not ours.
package codes

import (
	"fmt"

	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/twooffive"
	"github.com/skip2/go-qrcode"
)

// CheckBarcode verifies that a barcode block's payload can actually be
// encoded in the configured format, so operators find out while editing
// rather than at the printer.
func CheckBarcode(format, value string) error {
	if value == "" {
		return fmt.Errorf("barcode value is empty")
	}

	if format == "" {
		format = "CODE128"
	}

	var err error
	switch format {
	case "CODE128":
		_, err = code128.Encode(value)
	case "CODE39":
		_, err = code39.Encode(value, false, false)
	case "EAN13", "EAN8":
		_, err = ean.Encode(value)
	case "ITF":
		_, err = twooffive.Encode(value, true)
	default:
		return fmt.Errorf("unknown barcode format: %s", format)
	}

	if err != nil {
		return fmt.Errorf("value %q is not encodable as %s: %w", value, format, err)
	}
	return nil
}

// QRPNG renders a QR payload as a PNG, used to let operators preview
// the qr block's target before saving a template.
func QRPNG(value string, size int) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("qr value is empty")
	}
	if size <= 0 {
		size = 256
	}

	png, err := qrcode.Encode(value, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
