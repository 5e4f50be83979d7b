package core

import (
	"fmt"
	"strings"
)

// CreateNote validates the input and prepends a new note to the collection.
func (s *Service) CreateNote(in NoteInput) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit := s.opts.limits.MaxNotes; len(s.notes) >= limit {
		return Note{}, fmt.Errorf("%w: limit of %d notes reached", ErrCapacityExceeded, limit)
	}

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if err := validateNoteFields(title, content, s.opts.limits); err != nil {
		return Note{}, err
	}

	categories, err := s.resolveCategories(in.Categories, nil)
	if err != nil {
		return Note{}, err
	}

	if title == "" {
		title = DefaultNoteTitle
	}
	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = s.prefs.Nickname
	}
	if author == "" {
		author = DefaultAuthor
	}

	n := Note{
		ID:         s.opts.newID(),
		Title:      title,
		Content:    content,
		Summary:    strings.TrimSpace(in.Summary),
		Author:     author,
		UpdatedAt:  s.now(),
		Categories: categories,
		IsPinned:   in.IsPinned,
	}
	s.notes = append([]Note{n}, s.notes...)
	s.markDirty(dirtyNotes)

	s.logger.Debug("note created", "id", n.ID)
	return n.clone(), nil
}

// UpdateNote applies patch to the note with the given id and refreshes its timestamp.
func (s *Service) UpdateNote(id string, patch NotePatch) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateNoteLocked(id, patch)
}

// UpdateNoteIfUnchanged applies patch only while the stored note still equals expected,
// as read earlier through Note. Any mutation in between yields ErrStale and nothing is written.
func (s *Service) UpdateNoteIfUnchanged(expected Note, patch NotePatch) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfNote(expected.ID)
	if i < 0 {
		return Note{}, fmt.Errorf("note %q: %w", expected.ID, ErrNotFound)
	}
	if !s.notes[i].sameAs(expected) {
		return Note{}, fmt.Errorf("note %q: %w", expected.ID, ErrStale)
	}
	return s.updateNoteLocked(expected.ID, patch)
}

func (s *Service) updateNoteLocked(id string, patch NotePatch) (Note, error) {
	i := s.indexOfNote(id)
	if i < 0 {
		return Note{}, fmt.Errorf("note %q: %w", id, ErrNotFound)
	}
	current := s.notes[i]
	if current.IsSystem() && !s.privileged {
		return Note{}, fmt.Errorf("note %q: %w", id, ErrPermissionDenied)
	}

	next := current.clone()
	if patch.Title != nil {
		next.Title = strings.TrimSpace(*patch.Title)
		if next.Title == "" {
			next.Title = DefaultNoteTitle
		}
	}
	if patch.Content != nil {
		next.Content = strings.TrimSpace(*patch.Content)
	}
	if patch.Summary != nil {
		next.Summary = strings.TrimSpace(*patch.Summary)
	}
	if patch.Author != nil {
		next.Author = strings.TrimSpace(*patch.Author)
	}
	if patch.IsPinned != nil {
		next.IsPinned = *patch.IsPinned
	}
	if patch.Categories != nil {
		categories, err := s.resolveCategories(*patch.Categories, current.Categories)
		if err != nil {
			return Note{}, err
		}
		next.Categories = categories
	}

	if err := validateNoteFields(next.Title, next.Content, s.opts.limits); err != nil {
		return Note{}, err
	}

	next.ID = current.ID
	next.UpdatedAt = s.now()
	s.notes[i] = next
	s.markDirty(dirtyNotes)

	s.logger.Debug("note updated", "id", id)
	return next.clone(), nil
}

// TogglePin flips the pin flag of a note.
func (s *Service) TogglePin(id string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfNote(id)
	if i < 0 {
		return Note{}, fmt.Errorf("note %q: %w", id, ErrNotFound)
	}
	pinned := !s.notes[i].IsPinned
	return s.updateNoteLocked(id, NotePatch{IsPinned: &pinned})
}

// DeleteNote removes a note. Deleting an absent note is a no-op.
func (s *Service) DeleteNote(id string) error {
	_, err := s.DeleteNotes([]string{id})
	return err
}

// DeleteNotes removes every note whose id is listed and returns how many were removed.
// The operation is all-or-nothing: a system note in the set without privilege aborts it.
func (s *Service) DeleteNotes(ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	targets := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		targets[id] = struct{}{}
	}

	for _, n := range s.notes {
		if _, ok := targets[n.ID]; ok && n.IsSystem() && !s.privileged {
			return 0, fmt.Errorf("note %q: %w", n.ID, ErrPermissionDenied)
		}
	}

	kept := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		if _, ok := targets[n.ID]; ok {
			continue
		}
		kept = append(kept, n)
	}
	removed := len(s.notes) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	s.notes = kept
	s.markDirty(dirtyNotes)

	s.logger.Debug("notes deleted", "count", removed)
	return removed, nil
}

// resolveCategories canonicalizes requested names against the category collection.
// Names already present on the note (prior) are kept even when they no longer resolve.
func (s *Service) resolveCategories(names, prior []string) ([]string, error) {
	names = normalizeCategories(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		switch {
		case contains(prior, name):
		case strings.EqualFold(name, SystemCategory):
			if !s.privileged {
				return nil, fmt.Errorf("category %q: %w", SystemCategory, ErrPermissionDenied)
			}
			name = SystemCategory
		default:
			i := findCategoryByName(s.categories, name)
			if i < 0 {
				return nil, fmt.Errorf("%q: %w", name, ErrUnknownCategory)
			}
			name = s.categories[i].Name
		}
		out = append(out, name)
	}
	return normalizeCategories(out), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
