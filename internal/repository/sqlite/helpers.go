package sqlite

import (
	"encoding/json"
	"fmt"

	"menud/internal/domain"
)

// ============================================================================
// JSON List Helpers
// ============================================================================

// marshalList encodes a string list for a TEXT column.
// nil encodes as "[]" so stored values always decode.
func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unmarshalList decodes a TEXT column written by marshalList.
// Empty and "null" columns decode to an empty list.
func unmarshalList(raw string) ([]string, error) {
	values := []string{}
	if raw == "" || raw == "null" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// ============================================================================
// Item Row Scanner
// ============================================================================
//
// Column order must match between itemColumns, scanArgs() and
// itemInsertArgs().

// itemRow holds all columns from an item query for scanning
type itemRow struct {
	ID            int
	Title         string
	SectionJSON   string
	ModifiersJSON string
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match itemColumns order exactly: id, title, section, modifiers
func (r *itemRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,            // 1
		&r.Title,         // 2
		&r.SectionJSON,   // 3
		&r.ModifiersJSON, // 4
	}
}

// toDomain converts the scanned row to a domain.MenuItem
func (r *itemRow) toDomain() (*domain.MenuItem, error) {
	section, err := unmarshalList(r.SectionJSON)
	if err != nil {
		return nil, fmt.Errorf("unmarshal section of item %d: %w", r.ID, err)
	}

	modifiers, err := unmarshalList(r.ModifiersJSON)
	if err != nil {
		return nil, fmt.Errorf("unmarshal modifiers of item %d: %w", r.ID, err)
	}

	return &domain.MenuItem{
		ID:        r.ID,
		Title:     r.Title,
		Section:   section,
		Modifiers: modifiers,
	}, nil
}

// itemColumns is the SELECT column list for item queries
const itemColumns = `id, title, section, modifiers`

// ============================================================================
// Item Write Helpers
// ============================================================================

// itemInsertArgs prepares arguments for item INSERT/UPSERT
// Returns: id, title, section, modifiers
func itemInsertArgs(item *domain.MenuItem) ([]interface{}, error) {
	section, err := marshalList(item.Section)
	if err != nil {
		return nil, fmt.Errorf("marshal section: %w", err)
	}

	modifiers, err := marshalList(item.Modifiers)
	if err != nil {
		return nil, fmt.Errorf("marshal modifiers: %w", err)
	}

	return []interface{}{
		item.ID,
		item.Title,
		section,
		modifiers,
	}, nil
}
