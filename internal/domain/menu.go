package domain

import "fmt"

// DefaultSections is the section enumeration used when none is configured
var DefaultSections = []string{"Lunch", "Dinner"}

// SectionMenu is the grouped presentation returned by the aggregate read
type SectionMenu []MenuSection

// MenuSection is one "<Section> Specials" block
type MenuSection struct {
	ID    int         `json:"id"`
	Title string      `json:"title"`
	Items []MenuEntry `json:"items"`
}

// MenuEntry is an item as it appears inside a section block.
// ID is position-local and unrelated to the storage id.
type MenuEntry struct {
	ID        int            `json:"id"`
	Title     string         `json:"title"`
	Modifiers []MenuModifier `json:"modifiers"`
}

// MenuModifier is a numbered modifier inside a menu entry
type MenuModifier struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// SectionTitle returns the display title of a section block
func SectionTitle(section string) string {
	return fmt.Sprintf("%s Specials", section)
}

// BuildMenu groups items into one block per section, in the order given.
// Items keep their relative order within a block, and an item listed in
// several sections appears once in each.
func BuildMenu(sections []string, items []MenuItem) SectionMenu {
	menu := make(SectionMenu, 0, len(sections))

	for _, section := range sections {
		block := MenuSection{
			ID:    len(menu) + 1,
			Title: SectionTitle(section),
			Items: []MenuEntry{},
		}

		for i := range items {
			if !items[i].InSection(section) {
				continue
			}
			block.Items = append(block.Items, newMenuEntry(len(block.Items)+1, &items[i]))
		}

		menu = append(menu, block)
	}

	return menu
}

func newMenuEntry(id int, item *MenuItem) MenuEntry {
	entry := MenuEntry{
		ID:        id,
		Title:     item.Title,
		Modifiers: make([]MenuModifier, 0, len(item.Modifiers)),
	}
	for i, mod := range item.Modifiers {
		entry.Modifiers = append(entry.Modifiers, MenuModifier{ID: i + 1, Title: mod})
	}
	return entry
}
