package core_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/smartnotes/pkg/core"
)

func TestExport(t *testing.T) {
	store := NewMockStore()
	svc := core.NewService(store, core.WithClock(steppingClock()))
	require.NoError(t, svc.Load(context.Background()))
	user := mustCreate(t, svc, "mine", "Work")

	t.Run("SkipsSystemAndUnmodifiedWelcome", func(t *testing.T) {
		doc := svc.Export(core.ExportOptions{Notes: true})
		ids := make([]string, 0, len(doc.Notes))
		for _, n := range doc.Notes {
			ids = append(ids, n.ID)
		}
		assert.Contains(t, ids, user.ID)
		assert.NotContains(t, ids, core.WelcomeNoteID)
		assert.Nil(t, doc.Categories)
	})

	t.Run("EditedWelcomeIsExported", func(t *testing.T) {
		svc.SetPrivileged(true)
		defer svc.SetPrivileged(false)
		title := "My welcome"
		_, err := svc.UpdateNote(core.WelcomeNoteID, core.NotePatch{Title: &title})
		require.NoError(t, err)

		doc := svc.Export(core.ExportOptions{Notes: true, Categories: true})
		found := false
		for _, n := range doc.Notes {
			found = found || n.ID == core.WelcomeNoteID
		}
		assert.True(t, found)
		assert.Len(t, doc.Categories, 4)
	})

	t.Run("AnnouncementsNeedPrivilege", func(t *testing.T) {
		svc.SetPrivileged(true)
		sys, err := svc.CreateNote(core.NoteInput{Title: "news", Categories: []string{core.SystemCategory}})
		require.NoError(t, err)
		doc := svc.Export(core.ExportOptions{Notes: true})
		assert.Contains(t, noteIDs(doc.Notes), sys.ID)

		svc.SetPrivileged(false)
		doc = svc.Export(core.ExportOptions{Notes: true})
		assert.NotContains(t, noteIDs(doc.Notes), sys.ID)
	})
}

func noteIDs(notes []core.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestDocument_Codec(t *testing.T) {
	doc := core.Document{
		Notes: []core.Note{{
			ID: "n1", Title: "T", Content: "C", Author: "Ann", UpdatedAt: 1704888000000,
			Categories: []string{"Work"}, IsPinned: true,
		}},
		Categories: []core.Category{{ID: "c1", Name: "Work", Color: core.ColorIndigo}},
	}

	for _, format := range []core.Format{core.FormatJSON, core.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, core.EncodeDocument(&buf, doc, format))
			assert.Contains(t, buf.String(), "updatedAt")
			assert.Contains(t, buf.String(), "isPinned")

			got, err := core.DecodeDocument(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, doc, got)
		})
	}
}

func TestDecodeDocument_Errors(t *testing.T) {
	cases := map[string]string{
		"Malformed":        `{"notes": [`,
		"Empty":            ``,
		"NoteWithoutID":    `{"notes": [{"title": "x"}]}`,
		"CategoryNoName":   `{"categories": [{"id": "c1"}]}`,
		"WrongTypeOfNotes": `{"notes": "nope"}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := core.DecodeDocument(strings.NewReader(input), core.FormatJSON)
			assert.ErrorIs(t, err, core.ErrInvalidImportFormat)
		})
	}

	t.Run("MissingKeysAreEmpty", func(t *testing.T) {
		doc, err := core.DecodeDocument(strings.NewReader(`{"other": 1}`), core.FormatJSON)
		require.NoError(t, err)
		assert.Empty(t, doc.Notes)
		assert.Empty(t, doc.Categories)
	})
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, core.FormatYAML, core.FormatFromPath("backup.YML"))
	assert.Equal(t, core.FormatYAML, core.FormatFromPath("dir/backup.yaml"))
	assert.Equal(t, core.FormatJSON, core.FormatFromPath("backup.json"))
	assert.Equal(t, core.FormatJSON, core.FormatFromPath("backup"))
}

func TestPreviewImport(t *testing.T) {
	doc := core.Document{
		Notes: []core.Note{
			{ID: "1", Author: "Ann"}, {ID: "2", Author: "Bo"}, {ID: "3", Author: "Ann"}, {ID: "4"},
		},
		Categories: []core.Category{{ID: "c", Name: "X"}},
	}
	p := core.PreviewImport(doc)
	assert.Equal(t, 4, p.Notes)
	assert.Equal(t, 1, p.Categories)
	assert.Equal(t, []string{"Ann", "Bo"}, p.Authors)
}

func TestImport_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	doc := core.Document{
		Notes: []core.Note{
			{ID: "n1", Title: "one", Categories: []string{"Travel", "Travel", " "}},
			{ID: "n2", Title: "two"},
		},
		Categories: []core.Category{
			{ID: "c1", Name: "Travel", Color: core.ColorCyan},
			{ID: "c2", Name: "Music", Color: core.Color("sparkly")},
			{ID: "c3", Name: "ideas", Color: core.ColorRed},
		},
	}

	first := svc.Import(doc)
	assert.Equal(t, 2, first.NotesAdded)
	assert.Equal(t, 2, first.CategoriesAdded)
	assert.Equal(t, 1, first.CategoriesSkipped, "ideas collides with Ideas")
	assert.Equal(t, core.ImportPartial, first.Outcome())

	second := svc.Import(doc)
	assert.Zero(t, second.NotesAdded+second.CategoriesAdded)
	assert.Equal(t, core.ImportNothing, second.Outcome())

	n1, err := svc.Note("n1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Travel"}, n1.Categories)
	assert.Equal(t, core.ColorGray, categoryByName(t, svc, "Music").Color)
	assertUniqueNames(t, svc.Categories())
}

func TestImport_FullOutcomeAndNoOverwrite(t *testing.T) {
	svc, _ := newTestService(t)
	existing := mustCreate(t, svc, "original")

	report := svc.Import(core.Document{Notes: []core.Note{{ID: "fresh", Title: "fresh"}}})
	assert.Equal(t, core.ImportFull, report.Outcome())

	report = svc.Import(core.Document{Notes: []core.Note{{ID: existing.ID, Title: "hijack"}}})
	assert.Equal(t, core.ImportNothing, report.Outcome())
	got, _ := svc.Note(existing.ID)
	assert.Equal(t, "original", got.Title)
}

func TestImport_RespectsCapacityAndPinLimit(t *testing.T) {
	limits := core.DefaultLimits()
	limits.MaxNotes = 1
	svc, _ := newTestService(t, core.WithLimits(limits))

	var cats []core.Category
	for _, name := range []string{"P1", "P2", "P3", "P4", "P5", "P6"} {
		cats = append(cats, core.Category{ID: name, Name: name, Color: core.ColorRed, IsPinned: true})
	}
	report := svc.Import(core.Document{
		Notes:      []core.Note{{ID: "a"}, {ID: "b"}},
		Categories: cats,
	})
	assert.Equal(t, 1, report.NotesAdded)
	assert.Equal(t, 1, report.NotesSkipped)
	assert.Equal(t, 6, report.CategoriesAdded)

	pinned := 0
	for _, c := range svc.Categories() {
		if c.IsPinned {
			pinned++
		}
	}
	assert.Equal(t, 5, pinned)
}
