// Package scanner turns uploaded documents into draft templates via an
// external analysis collaborator.
package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/thereceipt/template-engine/pkg/templateformat"
)

// Upload is a document handed in for analysis
type Upload struct {
	Filename string
	Data     []byte
}

// Analyzer is the external document-analysis collaborator. One call,
// one outcome; no streaming, no partial results.
type Analyzer interface {
	Analyze(ctx context.Context, upload Upload) (*templateformat.AIScanResult, error)
}

// ErrUnsupportedFormat is returned before the analyzer is ever invoked,
// so callers can reject bad uploads without paying for an analysis call.
var ErrUnsupportedFormat = fmt.Errorf("unsupported file format")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".pdf":  true,
}

// SupportedFormat reports whether the filename's extension is accepted
func SupportedFormat(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Service runs uploads through the format check and the analyzer
type Service struct {
	analyzer Analyzer
}

// NewService creates a scan service around an analyzer
func NewService(analyzer Analyzer) *Service {
	return &Service{analyzer: analyzer}
}

// Scan checks the upload format, then performs a single analysis call
func (s *Service) Scan(ctx context.Context, upload Upload) (*templateformat.AIScanResult, error) {
	if !SupportedFormat(upload.Filename) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(upload.Filename))
	}

	result, err := s.analyzer.Analyze(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return result, nil
}

// BuildTemplate converts a scan result into a complete template. The
// detected partial is layered over the factory defaults: anything the
// analyzer did not detect falls back rather than being left unset. The
// confidence score is informational only and never gates acceptance;
// the operator reviews the draft before saving it.
func BuildTemplate(result *templateformat.AIScanResult) *templateformat.ReceiptTemplate {
	partial := templateformat.Partial{}
	if result.Template != nil {
		partial = *result.Template
	}

	partial.ID = uuid.New().String()
	partial.Type = templateformat.Type(result.DetectedType)
	partial.Name = templateformat.String("AI: " + scannedName(result))

	return templateformat.NewTemplate(partial)
}

// scannedName prefers the first detected header line, falling back to
// the detected type's display label.
func scannedName(result *templateformat.AIScanResult) string {
	if result.Template != nil && len(result.Template.HeaderLines) > 0 {
		if line := strings.TrimSpace(result.Template.HeaderLines[0]); line != "" {
			return line
		}
	}
	return templateformat.MetaForType(result.DetectedType).Label
}
