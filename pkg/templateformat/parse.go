package templateformat

import (
	"encoding/json"
	"fmt"
	"os"
)

// Parse parses a .template file from a byte slice
func Parse(data []byte) (*ReceiptTemplate, error) {
	var t ReceiptTemplate
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	// Older documents stored sparse order values; renormalize before
	// validating so the density invariant holds for everything we load.
	if len(t.Blocks) > 0 {
		NormalizeOrder(t.Blocks)
	}

	if err := Validate(&t); err != nil {
		return nil, err
	}

	return &t, nil
}

// ParseFile parses a .template file from disk
func ParseFile(path string) (*ReceiptTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	return Parse(data)
}

// ToJSON converts a ReceiptTemplate to JSON bytes
func (t *ReceiptTemplate) ToJSON() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// SaveToFile saves a ReceiptTemplate to a file
func (t *ReceiptTemplate) SaveToFile(path string) error {
	data, err := t.ToJSON()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
