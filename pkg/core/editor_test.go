package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/smartnotes/pkg/core"
)

func TestEditor_NewNote(t *testing.T) {
	svc, _ := newTestService(t)
	ed := core.NewEditor(svc)

	require.ErrorIs(t, ed.Edit(core.Draft{Title: "x"}), core.ErrEditorClosed)

	require.NoError(t, ed.OpenNew())
	assert.Equal(t, core.EditorNew, ed.Mode())
	require.NoError(t, ed.Edit(core.Draft{Title: "Plan", Content: "steps", Categories: []string{"Work"}}))

	n, err := ed.Save()
	require.NoError(t, err)
	assert.Equal(t, "Plan", n.Title)
	assert.Equal(t, core.EditorClosed, ed.Mode())
	assert.Len(t, svc.Notes(), 1)
}

func TestEditor_CancelNewNoteNeverPrompts(t *testing.T) {
	svc, _ := newTestService(t)
	ed := core.NewEditor(svc)
	require.NoError(t, ed.OpenNew())
	require.NoError(t, ed.Edit(core.Draft{Title: "scratch"}))

	require.NoError(t, ed.Cancel())
	assert.Equal(t, core.EditorClosed, ed.Mode())
	assert.Empty(t, svc.Notes())
}

func TestEditor_OpenNewAtCapacity(t *testing.T) {
	svc, _ := newTestService(t, core.WithMaxNotes(1))
	mustCreate(t, svc, "only")
	ed := core.NewEditor(svc)
	assert.ErrorIs(t, ed.OpenNew(), core.ErrCapacityExceeded)
	assert.Equal(t, core.EditorClosed, ed.Mode())
}

func TestEditor_DiscardPrompt(t *testing.T) {
	svc, _ := newTestService(t)
	n := mustCreate(t, svc, "draft", "Work")
	ed := core.NewEditor(svc)

	require.NoError(t, ed.Open(n.ID))
	assert.Equal(t, core.EditorEditable, ed.Mode())
	assert.False(t, ed.Dirty())

	// Whitespace and category order are not edits.
	require.NoError(t, ed.Edit(core.Draft{Title: " draft ", Content: n.Content, Categories: []string{"Work"}}))
	assert.False(t, ed.Dirty())
	require.NoError(t, ed.Cancel())
	assert.Equal(t, core.EditorClosed, ed.Mode())

	require.NoError(t, ed.Open(n.ID))
	require.NoError(t, ed.Edit(core.Draft{Title: "changed", Content: n.Content}))
	require.NoError(t, ed.Cancel())
	assert.Equal(t, core.PromptDiscard, ed.Prompt())
	assert.Equal(t, core.EditorEditable, ed.Mode())
	assert.ErrorIs(t, ed.Edit(core.Draft{}), core.ErrConfirmationPending)

	t.Run("KeepEditing", func(t *testing.T) {
		require.NoError(t, ed.KeepEditing())
		assert.Equal(t, core.PromptNone, ed.Prompt())
		require.NoError(t, ed.Cancel())
	})

	t.Run("SaveAndClose", func(t *testing.T) {
		saved, err := ed.SaveAndClose()
		require.NoError(t, err)
		assert.Equal(t, "changed", saved.Title)
		assert.Empty(t, saved.Categories)
		assert.Equal(t, core.EditorClosed, ed.Mode())
	})

	t.Run("Discard", func(t *testing.T) {
		require.NoError(t, ed.Open(n.ID))
		require.NoError(t, ed.Edit(core.Draft{Title: "thrown away"}))
		require.NoError(t, ed.Cancel())
		require.NoError(t, ed.Discard())
		got, _ := svc.Note(n.ID)
		assert.Equal(t, "changed", got.Title)
	})
}

func TestEditor_DuplicatePrompt(t *testing.T) {
	svc, _ := newTestService(t)
	orig, err := svc.CreateNote(core.NoteInput{Title: "Same", Content: "body", Categories: []string{"Ideas", "Work"}})
	require.NoError(t, err)

	ed := core.NewEditor(svc)
	require.NoError(t, ed.OpenNew())
	require.NoError(t, ed.Edit(core.Draft{Title: " Same", Content: "body ", Categories: []string{"Work", "Ideas"}, IsPinned: true}))

	_, err = ed.Save()
	require.ErrorIs(t, err, core.ErrDuplicateNote)
	assert.Equal(t, core.PromptDuplicate, ed.Prompt())
	assert.Len(t, svc.Notes(), 1)

	n, err := ed.ConfirmSave()
	require.NoError(t, err)
	assert.NotEqual(t, orig.ID, n.ID)
	assert.Len(t, svc.Notes(), 2)

	t.Run("EditingItselfIsNotADuplicate", func(t *testing.T) {
		require.NoError(t, ed.Open(orig.ID))
		pinned := ed.Draft()
		pinned.IsPinned = true
		require.NoError(t, ed.Edit(pinned))
		_, err := ed.Save()
		// The copy made above still matches.
		assert.ErrorIs(t, err, core.ErrDuplicateNote)
		require.NoError(t, ed.KeepEditing())
		require.NoError(t, ed.Cancel())
	})
}

func TestEditor_ReadOnlySystemNote(t *testing.T) {
	svc := core.NewService(NewMockStore(), core.WithClock(steppingClock()))
	require.NoError(t, svc.Load(context.Background()))
	ed := core.NewEditor(svc)

	require.NoError(t, ed.Open(core.WelcomeNoteID))
	assert.Equal(t, core.EditorReadOnly, ed.Mode())
	assert.ErrorIs(t, ed.Edit(core.Draft{Title: "hack"}), core.ErrReadOnly)
	_, err := ed.Save()
	assert.ErrorIs(t, err, core.ErrReadOnly)
	require.NoError(t, ed.Cancel())
	assert.Equal(t, core.EditorClosed, ed.Mode())

	svc.SetPrivileged(true)
	require.NoError(t, ed.Open(core.WelcomeNoteID))
	assert.Equal(t, core.EditorEditable, ed.Mode())
}

func TestEditor_OpenMissing(t *testing.T) {
	svc, _ := newTestService(t)
	ed := core.NewEditor(svc)
	assert.ErrorIs(t, ed.Open("missing"), core.ErrNotFound)
}

func TestEditor_SummaryAndAuthor(t *testing.T) {
	svc, _ := newTestService(t)
	prefs := svc.Preferences()
	prefs.Nickname = "Ada"
	require.NoError(t, svc.SetPreferences(prefs))
	ed := core.NewEditor(svc)

	require.NoError(t, ed.OpenNew())
	require.NoError(t, ed.Edit(core.Draft{Title: "Trip", Content: "pack", Summary: " packing list ", Author: " Grace "}))
	n, err := ed.Save()
	require.NoError(t, err)
	assert.Equal(t, "packing list", n.Summary)
	assert.Equal(t, "Grace", n.Author)

	require.NoError(t, ed.Open(n.ID))
	d := ed.Draft()
	assert.Equal(t, "packing list", d.Summary)
	assert.Equal(t, "Grace", d.Author)

	d.Summary = "updated"
	d.Author = "  "
	require.NoError(t, ed.Edit(d))
	assert.False(t, ed.Dirty(), "summary and author are not content edits")
	got, err := ed.Save()
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Summary)
	assert.Equal(t, "Ada", got.Author, "a blank author falls back to the nickname")
}

func TestEditor_DuplicateComparesStoredForm(t *testing.T) {
	t.Run("Blank Title Matches Default", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.CreateNote(core.NoteInput{Content: "body"})
		require.NoError(t, err)

		ed := core.NewEditor(svc)
		require.NoError(t, ed.OpenNew())
		require.NoError(t, ed.Edit(core.Draft{Title: "  ", Content: "body"}))
		_, err = ed.Save()
		assert.ErrorIs(t, err, core.ErrDuplicateNote)
		assert.Len(t, svc.Notes(), 1)
	})

	t.Run("Category Case Is Canonicalized", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.CreateNote(core.NoteInput{Title: "Same", Content: "body", Categories: []string{"Work"}})
		require.NoError(t, err)

		ed := core.NewEditor(svc)
		require.NoError(t, ed.OpenNew())
		require.NoError(t, ed.Edit(core.Draft{Title: "Same", Content: "body", Categories: []string{"work"}}))
		_, err = ed.Save()
		assert.ErrorIs(t, err, core.ErrDuplicateNote)
	})

	t.Run("Author And Summary Are Ignored", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.CreateNote(core.NoteInput{Title: "Same", Content: "body", Author: "Ada", Summary: "one"})
		require.NoError(t, err)

		ed := core.NewEditor(svc)
		require.NoError(t, ed.OpenNew())
		require.NoError(t, ed.Edit(core.Draft{Title: "Same", Content: "body", Author: "Grace", Summary: "two"}))
		_, err = ed.Save()
		assert.ErrorIs(t, err, core.ErrDuplicateNote)
	})
}
