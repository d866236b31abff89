package scanner

import (
	"context"
	"fmt"
	"strings"

	"github.com/thereceipt/template-engine/pkg/templateformat"
)

// HeuristicAnalyzer is a local stand-in for the hosted analysis service.
// It guesses the document kind from the filename so the scan flow can be
// exercised end to end without network access; production deployments
// inject a real Analyzer instead.
type HeuristicAnalyzer struct{}

// Analyze implements Analyzer
func (HeuristicAnalyzer) Analyze(_ context.Context, upload Upload) (*templateformat.AIScanResult, error) {
	name := strings.ToLower(upload.Filename)

	switch {
	case strings.Contains(name, "kitchen"):
		return &templateformat.AIScanResult{
			Confidence:   0.92,
			DetectedType: templateformat.TypeKitchen,
			RawAnalysis:  fmt.Sprintf("filename %q matched kitchen heuristic", upload.Filename),
			Template: &templateformat.Partial{
				ShowItemPrices:    templateformat.Bool(false),
				ShowTax:           templateformat.Bool(false),
				ShowCourseHeaders: templateformat.Bool(true),
				FontSize:          templateformat.String("large"),
			},
		}, nil
	case strings.Contains(name, "invoice"):
		return &templateformat.AIScanResult{
			Confidence:   0.88,
			DetectedType: templateformat.TypeInvoice,
			RawAnalysis:  fmt.Sprintf("filename %q matched invoice heuristic", upload.Filename),
			Template: &templateformat.Partial{
				ShowBarcode:   templateformat.Bool(true),
				InvoicePrefix: templateformat.String("INV-"),
			},
		}, nil
	case strings.Contains(name, "delivery"):
		return &templateformat.AIScanResult{
			Confidence:   0.85,
			DetectedType: templateformat.TypeDelivery,
			RawAnalysis:  fmt.Sprintf("filename %q matched delivery heuristic", upload.Filename),
			Template: &templateformat.Partial{
				ShowQRCode:  templateformat.Bool(true),
				ShowTipLine: templateformat.Bool(false),
			},
		}, nil
	}

	return &templateformat.AIScanResult{
		Confidence:   0.5,
		DetectedType: templateformat.TypeCustomer,
		RawAnalysis:  fmt.Sprintf("no heuristic matched %q, assuming customer receipt", upload.Filename),
		Template:     &templateformat.Partial{},
	}, nil
}
