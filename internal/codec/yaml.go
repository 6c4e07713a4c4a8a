package codec

import (
	"fmt"
	"io"

	"menud/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export.
//
// The document is a mapping with a single "items" list:
//
//	items:
//	  - id: 1
//	    title: Sandwich
//	    section: [Lunch]
//	    modifiers: [no pickles, no mayo]
type YAMLCodec struct{}

// yamlDocument is the top-level YAML structure
type yamlDocument struct {
	Items []domain.MenuItem `yaml:"items"`
}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse imports menu items from YAML
func (c *YAMLCodec) Parse(r io.Reader) ([]domain.MenuItem, error) {
	var doc yamlDocument
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return []domain.MenuItem{}, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i := range doc.Items {
		doc.Items[i].Normalize()
	}
	if doc.Items == nil {
		doc.Items = []domain.MenuItem{}
	}
	return doc.Items, nil
}

// Export writes menu items as YAML
func (c *YAMLCodec) Export(items []domain.MenuItem, w io.Writer) error {
	if items == nil {
		items = []domain.MenuItem{}
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(yamlDocument{Items: items}); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
