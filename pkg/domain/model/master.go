package model

import "github.com/m-mizutani/goerr/v2"

// MasterItem is one entry of a master table. ID and Name are unique within
// their table. Count is an occurrence weight carried from the source data and
// is informational only.
type MasterItem struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Validate checks if the MasterItem has a usable shape
func (m MasterItem) Validate() error {
	if m.ID <= 0 {
		return goerr.New("master item ID must be positive", goerr.V("id", m.ID))
	}
	if m.Name == "" {
		return goerr.New("master item name is required", goerr.V("id", m.ID))
	}
	return nil
}

// MasterTable is an immutable master list with id and name indexes
type MasterTable struct {
	items  []MasterItem
	byID   map[int]MasterItem
	byName map[string]int
}

// NewMasterTable builds an indexed table from master items. Duplicate IDs or
// names and malformed items are rejected.
func NewMasterTable(items []MasterItem) (MasterTable, error) {
	t := MasterTable{
		items:  make([]MasterItem, len(items)),
		byID:   make(map[int]MasterItem, len(items)),
		byName: make(map[string]int, len(items)),
	}
	copy(t.items, items)

	for _, item := range t.items {
		if err := item.Validate(); err != nil {
			return MasterTable{}, goerr.Wrap(err, "invalid master item")
		}
		if _, exists := t.byID[item.ID]; exists {
			return MasterTable{}, goerr.New("duplicate master item ID", goerr.V("id", item.ID))
		}
		if _, exists := t.byName[item.Name]; exists {
			return MasterTable{}, goerr.New("duplicate master item name",
				goerr.V("id", item.ID),
				goerr.V("name", item.Name),
			)
		}
		t.byID[item.ID] = item
		t.byName[item.Name] = item.ID
	}

	return t, nil
}

// Len returns the number of items in the table
func (t MasterTable) Len() int {
	return len(t.items)
}

// Items returns the table contents in source order. The returned slice is a
// copy and safe to modify.
func (t MasterTable) Items() []MasterItem {
	items := make([]MasterItem, len(t.items))
	copy(items, t.items)
	return items
}

// ByID looks up an item by its ID
func (t MasterTable) ByID(id int) (MasterItem, bool) {
	item, ok := t.byID[id]
	return item, ok
}

// IDByName resolves a name to its item ID by exact match
func (t MasterTable) IDByName(name string) (int, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Names returns all item names in source order
func (t MasterTable) Names() []string {
	names := make([]string, len(t.items))
	for i, item := range t.items {
		names[i] = item.Name
	}
	return names
}
