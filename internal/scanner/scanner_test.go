package scanner

import (
	"context"
	"errors"
	"testing"

	"github.com/thereceipt/template-engine/pkg/templateformat"
)

func TestSupportedFormat(t *testing.T) {
	supported := []string{"receipt.jpg", "receipt.JPEG", "menu.png", "scan.webp", "invoice.pdf"}
	for _, name := range supported {
		if !SupportedFormat(name) {
			t.Errorf("Expected '%s' to be supported", name)
		}
	}

	unsupported := []string{"receipt.gif", "receipt.bmp", "receipt.txt", "receipt", "archive.zip"}
	for _, name := range unsupported {
		if SupportedFormat(name) {
			t.Errorf("Expected '%s' to be rejected", name)
		}
	}
}

type failingAnalyzer struct {
	called bool
}

func (f *failingAnalyzer) Analyze(_ context.Context, _ Upload) (*templateformat.AIScanResult, error) {
	f.called = true
	return nil, errors.New("analysis backend down")
}

func TestScan_RejectsBeforeAnalysis(t *testing.T) {
	analyzer := &failingAnalyzer{}
	svc := NewService(analyzer)

	_, err := svc.Scan(context.Background(), Upload{Filename: "receipt.gif"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if analyzer.called {
		t.Error("Expected format rejection to happen before the analyzer runs")
	}
}

func TestScan_WrapsAnalyzerError(t *testing.T) {
	svc := NewService(&failingAnalyzer{})

	_, err := svc.Scan(context.Background(), Upload{Filename: "receipt.jpg"})
	if err == nil {
		t.Fatal("Expected analyzer failure to surface")
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		t.Error("Analyzer failure should not look like a format rejection")
	}
}

func TestScan_KitchenTicketEndToEnd(t *testing.T) {
	svc := NewService(HeuristicAnalyzer{})

	result, err := svc.Scan(context.Background(), Upload{Filename: "kitchen_ticket.jpg"})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.DetectedType != templateformat.TypeKitchen {
		t.Errorf("Expected kitchen type, got '%s'", result.DetectedType)
	}
	if result.Confidence <= 0 || result.Confidence > 1 {
		t.Errorf("Confidence out of range: %f", result.Confidence)
	}

	tmpl := BuildTemplate(result)

	if tmpl.ID == "" {
		t.Error("Expected a generated id")
	}
	if tmpl.Type != templateformat.TypeKitchen {
		t.Errorf("Expected kitchen template, got '%s'", tmpl.Type)
	}

	// Detected fields
	if tmpl.ShowItemPrices {
		t.Error("Expected showItemPrices false for a kitchen ticket")
	}
	if tmpl.ShowTax {
		t.Error("Expected showTax false for a kitchen ticket")
	}
	if !tmpl.ShowCourseHeaders {
		t.Error("Expected showCourseHeaders true for a kitchen ticket")
	}
	if tmpl.FontSize != "large" {
		t.Errorf("Expected large font, got '%s'", tmpl.FontSize)
	}

	// Undetected fields fall back to defaults
	if !tmpl.ShowLogo || !tmpl.ShowDateTime || !tmpl.ShowOrderNumber {
		t.Error("Expected undetected flags to keep factory defaults")
	}
	if tmpl.PaperWidth != "80mm" {
		t.Errorf("Expected default paper width, got '%s'", tmpl.PaperWidth)
	}
	if len(tmpl.Blocks) == 0 {
		t.Error("Expected the default block layout")
	}

	if err := templateformat.Validate(tmpl); err != nil {
		t.Errorf("Expected scan draft to validate, got error: %v", err)
	}
}

func TestBuildTemplate_NamePrefixAndFallback(t *testing.T) {
	tmpl := BuildTemplate(&templateformat.AIScanResult{
		DetectedType: templateformat.TypeInvoice,
		Template: &templateformat.Partial{
			HeaderLines: []string{"Harbor Grill"},
		},
	})
	if tmpl.Name != "AI: Harbor Grill" {
		t.Errorf("Expected name from first header line, got '%s'", tmpl.Name)
	}

	tmpl = BuildTemplate(&templateformat.AIScanResult{
		DetectedType: templateformat.TypeInvoice,
	})
	if tmpl.Name != "AI: Invoice" {
		t.Errorf("Expected name from type label, got '%s'", tmpl.Name)
	}
}

func TestBuildTemplate_DistinctIDs(t *testing.T) {
	result := &templateformat.AIScanResult{DetectedType: templateformat.TypeCustomer}

	a := BuildTemplate(result)
	b := BuildTemplate(result)
	if a.ID == b.ID {
		t.Error("Expected each build to generate its own id")
	}
}
