package domain

import (
	"fmt"
	"slices"
	"strings"
)

// MenuItem is a dish or drink on the menu
type MenuItem struct {
	ID        int      `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Section   []string `json:"section" yaml:"section"`
	Modifiers []string `json:"modifiers" yaml:"modifiers"`
}

// NewMenuItem creates a menu item, normalizing a nil modifier list to empty
func NewMenuItem(id int, title string, section, modifiers []string) *MenuItem {
	item := &MenuItem{
		ID:        id,
		Title:     title,
		Section:   section,
		Modifiers: modifiers,
	}
	item.Normalize()
	return item
}

// Normalize replaces nil lists with empty ones so they encode as []
func (m *MenuItem) Normalize() {
	if m.Section == nil {
		m.Section = []string{}
	}
	if m.Modifiers == nil {
		m.Modifiers = []string{}
	}
}

// Validate checks the fields every stored item must carry
func (m *MenuItem) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: title of item is needed", ErrValidation)
	}
	if len(m.Section) == 0 {
		return fmt.Errorf("%w: section not specified", ErrValidation)
	}
	for _, s := range m.Section {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: section names cannot be blank", ErrValidation)
		}
	}
	return nil
}

// InSection reports whether the item is served in the named section.
// Matching is exact against the decoded list.
func (m *MenuItem) InSection(section string) bool {
	return slices.Contains(m.Section, section)
}

// Clone returns a deep copy of the item
func (m *MenuItem) Clone() *MenuItem {
	return &MenuItem{
		ID:        m.ID,
		Title:     m.Title,
		Section:   slices.Clone(m.Section),
		Modifiers: slices.Clone(m.Modifiers),
	}
}

// ItemPatch holds the optional fields of a partial update.
// A nil pointer or empty list means "leave unchanged".
type ItemPatch struct {
	Title     *string  `json:"title,omitempty"`
	Section   []string `json:"section,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// IsEmpty reports whether the patch would change nothing
func (p ItemPatch) IsEmpty() bool {
	return (p.Title == nil || *p.Title == "") && len(p.Section) == 0 && len(p.Modifiers) == 0
}

// Apply overwrites the supplied fields on item and reports whether anything changed
func (p ItemPatch) Apply(item *MenuItem) bool {
	changed := false
	if p.Title != nil && *p.Title != "" && *p.Title != item.Title {
		item.Title = *p.Title
		changed = true
	}
	if len(p.Section) > 0 && !slices.Equal(p.Section, item.Section) {
		item.Section = slices.Clone(p.Section)
		changed = true
	}
	if len(p.Modifiers) > 0 && !slices.Equal(p.Modifiers, item.Modifiers) {
		item.Modifiers = slices.Clone(p.Modifiers)
		changed = true
	}
	return changed
}
