package core

import "fmt"

// BulkResult reports the outcome of a bulk category toggle.
type BulkResult struct {
	Category string
	Removed  bool // true when the category was removed from the selection
	Affected int  // notes actually changed
}

// BulkToggleCategory adds or removes a category across a selection.
// The decision is taken once: if every selected note already has the category it is
// removed from all of them, otherwise it is added to exactly those lacking it.
func (s *Service) BulkToggleCategory(ids []string, category string) (BulkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved, err := s.resolveCategories([]string{category}, nil)
	if err != nil {
		return BulkResult{}, err
	}
	if len(resolved) == 0 {
		return BulkResult{}, fmt.Errorf("%w: empty category name", ErrInvalidInput)
	}
	name := resolved[0]
	result := BulkResult{Category: name}

	selected := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}

	var targets []int
	allHave := true
	for i, n := range s.notes {
		if _, ok := selected[n.ID]; !ok {
			continue
		}
		if n.IsSystem() && !s.privileged {
			return BulkResult{}, fmt.Errorf("note %q: %w", n.ID, ErrPermissionDenied)
		}
		targets = append(targets, i)
		if !n.HasCategory(name) {
			allHave = false
		}
	}
	if len(targets) == 0 {
		return result, nil
	}

	result.Removed = allHave
	now := s.now()
	for _, i := range targets {
		n := s.notes[i]
		switch {
		case allHave:
			kept := make([]string, 0, len(n.Categories))
			for _, c := range n.Categories {
				if c != name {
					kept = append(kept, c)
				}
			}
			n.Categories = kept
		case !n.HasCategory(name):
			n.Categories = append(append([]string(nil), n.Categories...), name)
		default:
			continue
		}
		n.UpdatedAt = now
		s.notes[i] = n
		result.Affected++
	}
	s.markDirty(dirtyNotes)

	s.logger.Debug("bulk category toggle", "category", name, "removed", result.Removed, "affected", result.Affected)
	return result, nil
}
