package onboarding

import "slices"

// Selection is an ordered set of picked items.
type Selection struct {
	items []string
}

// Toggle adds item at the end, or removes it if already selected.
// It reports whether item is selected afterwards.
func (s *Selection) Toggle(item string) bool {
	if i := slices.Index(s.items, item); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
		return false
	}
	s.items = append(s.items, item)
	return true
}

// Add selects item unless it is already selected.
func (s *Selection) Add(item string) {
	if !s.Contains(item) {
		s.items = append(s.items, item)
	}
}

// Contains reports whether item is selected.
func (s *Selection) Contains(item string) bool {
	return slices.Contains(s.items, item)
}

// Items returns the selected items in selection order.
func (s *Selection) Items() []string {
	return append([]string(nil), s.items...)
}

// Len returns the number of selected items.
func (s *Selection) Len() int { return len(s.items) }
