package codes

import (
	"bytes"
	"testing"
)

func TestCheckBarcode_Code128(t *testing.T) {
	if err := CheckBarcode("CODE128", "ORDER-12345"); err != nil {
		t.Errorf("Expected valid CODE128 payload, got error: %v", err)
	}
}

func TestCheckBarcode_DefaultFormat(t *testing.T) {
	// Empty format falls back to CODE128
	if err := CheckBarcode("", "ORDER-12345"); err != nil {
		t.Errorf("Expected default format to accept payload, got error: %v", err)
	}
}

func TestCheckBarcode_EAN13(t *testing.T) {
	if err := CheckBarcode("EAN13", "5901234123457"); err != nil {
		t.Errorf("Expected valid EAN13 payload, got error: %v", err)
	}
	if err := CheckBarcode("EAN13", "not-a-number"); err == nil {
		t.Error("Expected error for non-numeric EAN13 payload")
	}
}

func TestCheckBarcode_ITF(t *testing.T) {
	if err := CheckBarcode("ITF", "12345678"); err != nil {
		t.Errorf("Expected valid ITF payload, got error: %v", err)
	}
	if err := CheckBarcode("ITF", "letters"); err == nil {
		t.Error("Expected error for non-numeric ITF payload")
	}
}

func TestCheckBarcode_EmptyValue(t *testing.T) {
	if err := CheckBarcode("CODE128", ""); err == nil {
		t.Error("Expected error for empty payload")
	}
}

func TestCheckBarcode_UnknownFormat(t *testing.T) {
	if err := CheckBarcode("AZTEC", "hello"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestQRPNG(t *testing.T) {
	png, err := QRPNG("https://example.com/feedback", 256)
	if err != nil {
		t.Fatalf("Failed to encode qr: %v", err)
	}

	// PNG magic bytes
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("Expected PNG output")
	}
}

func TestQRPNG_DefaultSize(t *testing.T) {
	png, err := QRPNG("https://example.com", 0)
	if err != nil {
		t.Fatalf("Failed to encode qr with default size: %v", err)
	}
	if len(png) == 0 {
		t.Error("Expected non-empty PNG")
	}
}

func TestQRPNG_EmptyValue(t *testing.T) {
	if _, err := QRPNG("", 256); err == nil {
		t.Error("Expected error for empty payload")
	}
}
