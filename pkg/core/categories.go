package core

import (
	"fmt"
	"strings"
)

// CreateCategory appends a new, unpinned category.
func (s *Service) CreateCategory(name string, color Color) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit := s.opts.limits.MaxCategories; len(s.categories) >= limit {
		return Category{}, fmt.Errorf("%w: limit of %d categories reached", ErrCapacityExceeded, limit)
	}

	name = strings.TrimSpace(name)
	if err := validateCategoryFields(name, color, s.opts.limits); err != nil {
		return Category{}, err
	}
	if findCategoryByName(s.categories, name) >= 0 {
		return Category{}, fmt.Errorf("%q: %w", name, ErrDuplicateName)
	}

	c := Category{ID: s.opts.newID(), Name: name, Color: color}
	s.categories = append(s.categories, c)
	s.markDirty(dirtyCategories)

	s.logger.Debug("category created", "id", c.ID, "name", c.Name)
	return c, nil
}

// UpdateCategory renames, recolors or (un)pins a category.
// A rename is propagated to every non-system note referencing the old name.
func (s *Service) UpdateCategory(id string, patch CategoryPatch) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := findCategoryByID(s.categories, id)
	if i < 0 {
		return Category{}, fmt.Errorf("category %q: %w", id, ErrNotFound)
	}

	next := s.categories[i]
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Color != nil {
		next.Color = *patch.Color
	}
	if patch.IsPinned != nil {
		next.IsPinned = *patch.IsPinned
	}

	if err := validateCategoryFields(next.Name, next.Color, s.opts.limits); err != nil {
		return Category{}, err
	}
	if j := findCategoryByName(s.categories, next.Name); j >= 0 && j != i {
		return Category{}, fmt.Errorf("%q: %w", next.Name, ErrDuplicateName)
	}
	if next.IsPinned && !s.categories[i].IsPinned {
		if limit := s.opts.limits.MaxPinnedCategories; pinnedCount(s.categories) >= limit {
			return Category{}, fmt.Errorf("%w: at most %d pinned categories", ErrPinLimitExceeded, limit)
		}
	}

	updated := append([]Category(nil), s.categories...)
	updated[i] = next
	if err := s.commitCategoriesLocked(updated); err != nil {
		return Category{}, err
	}
	return next, nil
}

// DeleteCategory removes a category and strips its name from every non-system note.
// Notes are never deleted. Deleting an absent category is a no-op.
func (s *Service) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := findCategoryByID(s.categories, id)
	if i < 0 {
		return nil
	}
	name := s.categories[i].Name

	for j, n := range s.notes {
		if n.IsSystem() || !n.HasCategory(name) {
			continue
		}
		kept := make([]string, 0, len(n.Categories))
		for _, c := range n.Categories {
			if c != name {
				kept = append(kept, c)
			}
		}
		s.notes[j].Categories = kept
		s.markDirty(dirtyNotes)
	}

	s.categories = append(s.categories[:i:i], s.categories[i+1:]...)
	s.markDirty(dirtyCategories)

	s.logger.Debug("category deleted", "id", id, "name", name)
	return nil
}

// CommitCategories replaces the whole category collection, as the batch category editor does.
// The batch is validated as a whole; then every non-system note has its names remapped by
// category id and names absent from the new collection are dropped.
func (s *Service) CommitCategories(categories []Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitCategoriesLocked(categories)
}

func (s *Service) commitCategoriesLocked(categories []Category) error {
	next := make([]Category, len(categories))
	ids := make(map[string]struct{}, len(categories))
	names := make(map[string]struct{}, len(categories))
	pinned := 0

	if limit := s.opts.limits.MaxCategories; len(categories) > limit {
		return fmt.Errorf("%w: limit of %d categories reached", ErrCapacityExceeded, limit)
	}

	for i, c := range categories {
		c.Name = strings.TrimSpace(c.Name)
		if c.ID == "" {
			c.ID = s.opts.newID()
		}
		if err := validateCategoryFields(c.Name, c.Color, s.opts.limits); err != nil {
			return err
		}
		if _, ok := ids[c.ID]; ok {
			return fmt.Errorf("%w: duplicate category id %q", ErrInvalidInput, c.ID)
		}
		key := strings.ToLower(c.Name)
		if _, ok := names[key]; ok {
			return fmt.Errorf("%q: %w", c.Name, ErrDuplicateName)
		}
		if c.IsPinned {
			pinned++
		}
		ids[c.ID] = struct{}{}
		names[key] = struct{}{}
		next[i] = c
	}
	if limit := s.opts.limits.MaxPinnedCategories; pinned > limit {
		return fmt.Errorf("%w: at most %d pinned categories", ErrPinLimitExceeded, limit)
	}

	rename := make(map[string]string, len(s.categories))
	for _, old := range s.categories {
		if j := findCategoryByID(next, old.ID); j >= 0 {
			rename[old.Name] = next[j].Name
		}
	}
	present := make(map[string]struct{}, len(next))
	for _, c := range next {
		present[c.Name] = struct{}{}
	}

	for i, n := range s.notes {
		if n.IsSystem() {
			continue
		}
		remapped := make([]string, 0, len(n.Categories))
		for _, name := range n.Categories {
			if to, ok := rename[name]; ok {
				name = to
			}
			if _, ok := present[name]; ok {
				remapped = append(remapped, name)
			}
		}
		remapped = normalizeCategories(remapped)
		if !equalStrings(remapped, n.Categories) {
			s.notes[i].Categories = remapped
			s.markDirty(dirtyNotes)
		}
	}

	s.categories = next
	s.markDirty(dirtyCategories)
	s.logger.Debug("categories committed", "count", len(next))
	return nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
