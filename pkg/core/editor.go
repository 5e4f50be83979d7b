package core

import (
	"fmt"
	"slices"
	"strings"
)

// EditorMode is the state of an editor session.
type EditorMode int

const (
	EditorClosed EditorMode = iota
	EditorNew
	EditorEditable
	EditorReadOnly
)

func (m EditorMode) String() string {
	switch m {
	case EditorNew:
		return "new"
	case EditorEditable:
		return "editable"
	case EditorReadOnly:
		return "read-only"
	default:
		return "closed"
	}
}

// EditorPrompt is a confirmation sub-state the session is waiting on.
type EditorPrompt int

const (
	PromptNone EditorPrompt = iota
	PromptDiscard
	PromptDuplicate
)

func (p EditorPrompt) String() string {
	switch p {
	case PromptDiscard:
		return "discard"
	case PromptDuplicate:
		return "duplicate"
	default:
		return "none"
	}
}

// Draft holds the editable fields of a note.
// A blank Author is saved as the nickname preference.
type Draft struct {
	Title      string
	Content    string
	Summary    string
	Author     string
	Categories []string
	IsPinned   bool
}

func draftOf(n Note) Draft {
	return Draft{
		Title:      n.Title,
		Content:    n.Content,
		Summary:    n.Summary,
		Author:     n.Author,
		Categories: append([]string(nil), n.Categories...),
		IsPinned:   n.IsPinned,
	}
}

// sameContent compares trimmed title, trimmed content and the sorted category set.
func sameContent(aTitle, aContent string, aCats []string, bTitle, bContent string, bCats []string) bool {
	if strings.TrimSpace(aTitle) != strings.TrimSpace(bTitle) ||
		strings.TrimSpace(aContent) != strings.TrimSpace(bContent) {
		return false
	}
	a := slices.Sorted(slices.Values(normalizeCategories(aCats)))
	b := slices.Sorted(slices.Values(normalizeCategories(bCats)))
	return slices.Equal(a, b)
}

// Editor is a single note editing session bound to a Service.
type Editor struct {
	svc    *Service
	mode   EditorMode
	prompt EditorPrompt
	noteID string
	loaded Draft
	draft  Draft
}

// NewEditor creates a closed editor over svc.
func NewEditor(svc *Service) *Editor {
	return &Editor{svc: svc}
}

// Mode returns the current session state.
func (e *Editor) Mode() EditorMode { return e.mode }

// Prompt returns the pending confirmation, if any.
func (e *Editor) Prompt() EditorPrompt { return e.prompt }

// NoteID returns the id of the note being edited; empty for a new note.
func (e *Editor) NoteID() string { return e.noteID }

// Draft returns a copy of the local edits.
func (e *Editor) Draft() Draft {
	d := e.draft
	d.Categories = append([]string(nil), d.Categories...)
	return d
}

// OpenNew starts a session for a new note. It fails early when the collection is full.
func (e *Editor) OpenNew() error {
	e.svc.mu.RLock()
	count, limit := len(e.svc.notes), e.svc.opts.limits.MaxNotes
	e.svc.mu.RUnlock()
	if count >= limit {
		return fmt.Errorf("%w: limit of %d notes reached", ErrCapacityExceeded, limit)
	}
	e.reset()
	e.mode = EditorNew
	return nil
}

// Open starts a session over an existing note. System notes open read-only without privilege.
func (e *Editor) Open(id string) error {
	n, err := e.svc.Note(id)
	if err != nil {
		return err
	}
	e.reset()
	e.noteID = n.ID
	e.loaded = draftOf(n)
	e.draft = draftOf(n)
	e.mode = EditorEditable
	if n.IsSystem() && !e.svc.Privileged() {
		e.mode = EditorReadOnly
	}
	return nil
}

// Edit replaces the local draft.
func (e *Editor) Edit(d Draft) error {
	if err := e.mutable(); err != nil {
		return err
	}
	if e.prompt != PromptNone {
		return fmt.Errorf("%s prompt: %w", e.prompt, ErrConfirmationPending)
	}
	d.Categories = append([]string(nil), d.Categories...)
	e.draft = d
	return nil
}

// Dirty reports whether the draft differs from the loaded note by title, content or category set.
func (e *Editor) Dirty() bool {
	return !sameContent(e.draft.Title, e.draft.Content, e.draft.Categories,
		e.loaded.Title, e.loaded.Content, e.loaded.Categories)
}

// Cancel closes the session. An existing note with unsaved edits moves to the discard prompt instead.
func (e *Editor) Cancel() error {
	switch e.mode {
	case EditorClosed:
		return ErrEditorClosed
	case EditorEditable:
		if e.Dirty() {
			e.prompt = PromptDiscard
			return nil
		}
	}
	e.reset()
	return nil
}

// Discard drops the local edits and closes. Valid only from the discard prompt.
func (e *Editor) Discard() error {
	if e.prompt != PromptDiscard {
		return fmt.Errorf("%w: nothing to discard", ErrInvalidInput)
	}
	e.reset()
	return nil
}

// KeepEditing dismisses the pending prompt and returns to editing.
func (e *Editor) KeepEditing() error {
	if e.mode == EditorClosed {
		return ErrEditorClosed
	}
	e.prompt = PromptNone
	return nil
}

// SaveAndClose saves from the discard prompt.
func (e *Editor) SaveAndClose() (Note, error) {
	if e.prompt != PromptDiscard {
		return Note{}, fmt.Errorf("%w: no discard prompt", ErrInvalidInput)
	}
	e.prompt = PromptNone
	return e.Save()
}

// Save commits the draft and closes. A draft identical to another user note moves to the
// duplicate prompt and returns ErrDuplicateNote without committing.
func (e *Editor) Save() (Note, error) {
	if err := e.mutable(); err != nil {
		return Note{}, err
	}
	if e.prompt != PromptNone {
		return Note{}, fmt.Errorf("%s prompt: %w", e.prompt, ErrConfirmationPending)
	}
	if id, ok := e.svc.findDuplicate(e.draft, e.noteID); ok {
		e.prompt = PromptDuplicate
		return Note{}, fmt.Errorf("matches note %q: %w", id, ErrDuplicateNote)
	}
	return e.commit()
}

// ConfirmSave commits despite the duplicate warning.
func (e *Editor) ConfirmSave() (Note, error) {
	if e.prompt != PromptDuplicate {
		return Note{}, fmt.Errorf("%w: no duplicate prompt", ErrInvalidInput)
	}
	return e.commit()
}

func (e *Editor) commit() (Note, error) {
	d := e.draft
	var (
		n   Note
		err error
	)
	if e.mode == EditorNew {
		n, err = e.svc.CreateNote(NoteInput{
			Title:      d.Title,
			Content:    d.Content,
			Summary:    d.Summary,
			Author:     d.Author,
			Categories: d.Categories,
			IsPinned:   d.IsPinned,
		})
	} else {
		cats := d.Categories
		author := e.svc.authorOr(d.Author)
		n, err = e.svc.UpdateNote(e.noteID, NotePatch{
			Title:      &d.Title,
			Content:    &d.Content,
			Summary:    &d.Summary,
			Author:     &author,
			Categories: &cats,
			IsPinned:   &d.IsPinned,
		})
	}
	if err != nil {
		e.prompt = PromptNone
		return Note{}, err
	}
	e.reset()
	return n, nil
}

// authorOr returns the trimmed author, else the nickname preference, else DefaultAuthor.
func (s *Service) authorOr(author string) string {
	if a := strings.TrimSpace(author); a != "" {
		return a
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.prefs.Nickname != "" {
		return s.prefs.Nickname
	}
	return DefaultAuthor
}

func (e *Editor) mutable() error {
	switch e.mode {
	case EditorClosed:
		return ErrEditorClosed
	case EditorReadOnly:
		return ErrReadOnly
	}
	return nil
}

func (e *Editor) reset() {
	e.mode = EditorClosed
	e.prompt = PromptNone
	e.noteID = ""
	e.loaded = Draft{}
	e.draft = Draft{}
}

// findDuplicate looks for a non-system note other than exclude with the same content identity.
// The draft is compared as it would be stored: default title and canonical category names.
func (s *Service) findDuplicate(d Draft, exclude string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = DefaultNoteTitle
	}
	cats := make([]string, 0, len(d.Categories))
	for _, name := range normalizeCategories(d.Categories) {
		switch i := findCategoryByName(s.categories, name); {
		case i >= 0:
			name = s.categories[i].Name
		case strings.EqualFold(name, SystemCategory):
			name = SystemCategory
		}
		cats = append(cats, name)
	}

	for _, n := range s.notes {
		if n.ID == exclude || n.IsSystem() {
			continue
		}
		if sameContent(title, d.Content, cats, n.Title, n.Content, n.Categories) {
			return n.ID, true
		}
	}
	return "", false
}
