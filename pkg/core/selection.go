package core

// Selection is an ordered set of note ids, independent of what is currently visible.
type Selection struct {
	ids   []string
	index map[string]struct{}
}

// NewSelection creates a selection holding ids, deduplicated.
func NewSelection(ids ...string) *Selection {
	s := &Selection{index: make(map[string]struct{})}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

func (s *Selection) add(id string) {
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func (s *Selection) remove(id string) {
	if _, ok := s.index[id]; !ok {
		return
	}
	delete(s.index, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Toggle flips the membership of a single id.
func (s *Selection) Toggle(id string) {
	if s.Has(id) {
		s.remove(id)
		return
	}
	s.add(id)
}

// SelectAll toggles the visible ids only. When every visible id is already selected
// they are deselected; otherwise they are unioned in. Off-screen ids are untouched.
func (s *Selection) SelectAll(visible []Note) {
	if len(visible) == 0 {
		return
	}
	if s.Status(visible).All {
		for _, n := range visible {
			s.remove(n.ID)
		}
		return
	}
	for _, n := range visible {
		s.add(n.ID)
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = nil
	s.index = make(map[string]struct{})
}

// SelectionStatus is the select-all checkbox state derived against the visible set.
type SelectionStatus struct {
	All    bool // every visible note is selected (and at least one is visible)
	Some   bool // indeterminate: some but not all visible notes are selected
	InView int
}

// Status intersects the selection with the visible notes.
func (s *Selection) Status(visible []Note) SelectionStatus {
	var st SelectionStatus
	for _, n := range visible {
		if s.Has(n.ID) {
			st.InView++
		}
	}
	st.All = len(visible) > 0 && st.InView == len(visible)
	st.Some = st.InView > 0 && !st.All
	return st
}
