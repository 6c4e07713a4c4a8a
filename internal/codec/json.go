package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"menud/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a JSON array of menu items
func (c *JSONCodec) Parse(r io.Reader) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	for i := range items {
		items[i].Normalize()
	}
	return items, nil
}

// Export writes menu items as an indented JSON array
func (c *JSONCodec) Export(items []domain.MenuItem, w io.Writer) error {
	if items == nil {
		items = []domain.MenuItem{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(items); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
