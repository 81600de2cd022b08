package models

import "encoding/json"

// CategorySummary counts the tickets a user holds in one category
type CategorySummary struct {
	CategoryName  string   `json:"ticket_category_name"`
	OwnedCount    uint64   `json:"own_total"`
	ApprovedCount uint64   `json:"approved_total"` // reserved, always 0
	TicketIDs     []uint64 `json:"ticket_id_list"`
}

// CategoryMap holds category summaries keyed by name and iterates in the
// order categories were first added.
type CategoryMap struct {
	byName map[string]*CategorySummary
	order  []string
}

func NewCategoryMap() *CategoryMap {
	return &CategoryMap{
		byName: make(map[string]*CategorySummary),
		order:  make([]string, 0),
	}
}

// Get returns the summary for name, if present
func (m *CategoryMap) Get(name string) (*CategorySummary, bool) {
	s, ok := m.byName[name]
	return s, ok
}

// Put inserts a summary. Replacing an existing key keeps its original position.
func (m *CategoryMap) Put(s *CategorySummary) {
	if _, exists := m.byName[s.CategoryName]; !exists {
		m.order = append(m.order, s.CategoryName)
	}
	m.byName[s.CategoryName] = s
}

func (m *CategoryMap) Len() int {
	return len(m.order)
}

// Keys returns category names in first-seen order
func (m *CategoryMap) Keys() []string {
	keys := make([]string, len(m.order))
	copy(keys, m.order)
	return keys
}

// Summaries returns copies of the summaries in first-seen order
func (m *CategoryMap) Summaries() []CategorySummary {
	out := make([]CategorySummary, 0, len(m.order))
	for _, name := range m.order {
		s := *m.byName[name]
		s.TicketIDs = append([]uint64(nil), s.TicketIDs...)
		out = append(out, s)
	}
	return out
}

// MarshalJSON renders the map as an array so the category order survives encoding
func (m *CategoryMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Summaries())
}
