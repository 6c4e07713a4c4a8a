package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"menud/internal/domain"
)

// Importer interface for importing menu items from various formats
type Importer interface {
	Parse(r io.Reader) ([]domain.MenuItem, error)
	Format() string
}

// Exporter interface for exporting menu items to various formats
type Exporter interface {
	Export(items []domain.MenuItem, w io.Writer) error
	Format() string
}

// Codec both imports and exports
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec registered for a format name
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q, must be 'json' or 'yaml'", format)
	}
}

// ForPath picks a codec from a file extension
func ForPath(path string) (Codec, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("cannot infer format of %s", path)
	}
	return ForFormat(ext)
}
