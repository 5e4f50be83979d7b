package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/aretw0/smartnotes/pkg/core"
)

var testLocale = core.Locale{
	Location: time.FixedZone("UTC-3", -3*60*60),
	Language: language.English,
}

func ms(t time.Time) int64 { return t.UnixMilli() }

func titles(notes []core.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Title)
	}
	return out
}

func TestFilterNotes_DateRangeIsInclusiveLocalDays(t *testing.T) {
	loc := testLocale.Location
	notes := []core.Note{
		{ID: "noon", Title: "noon", UpdatedAt: ms(time.Date(2024, 1, 10, 12, 0, 0, 0, loc))},
		{ID: "before", Title: "before", UpdatedAt: ms(time.Date(2024, 1, 9, 23, 59, 59, 999e6, loc))},
		{ID: "after", Title: "after", UpdatedAt: ms(time.Date(2024, 1, 11, 0, 0, 0, 0, loc))},
		{ID: "start", Title: "start", UpdatedAt: ms(time.Date(2024, 1, 10, 0, 0, 0, 0, loc))},
		{ID: "end", Title: "end", UpdatedAt: ms(time.Date(2024, 1, 10, 23, 59, 59, 999e6, loc))},
	}
	vs := core.ViewState{
		Category:  core.AllCategories(),
		DateRange: core.DateRange{Start: "2024-01-10", End: "2024-01-10"},
	}

	got := core.FilterNotes(notes, vs, testLocale)
	assert.Equal(t, []string{"noon", "start", "end"}, titles(got))

	t.Run("OpenStart", func(t *testing.T) {
		vs := vs
		vs.DateRange.Start = ""
		got := core.FilterNotes(notes, vs, testLocale)
		assert.Equal(t, []string{"noon", "before", "start", "end"}, titles(got))
	})

	t.Run("OpenEnd", func(t *testing.T) {
		vs := vs
		vs.DateRange.End = ""
		got := core.FilterNotes(notes, vs, testLocale)
		assert.Equal(t, []string{"noon", "after", "start", "end"}, titles(got))
	})
}

func TestFilterNotes_Categories(t *testing.T) {
	notes := []core.Note{
		{ID: "plain", Title: "plain", Categories: []string{}},
		{ID: "work", Title: "work", Categories: []string{"Work"}},
		{ID: core.WelcomeNoteID, Title: "welcome", Categories: []string{}},
	}

	uncategorized := core.FilterNotes(notes, core.ViewState{Category: core.Uncategorized(), Privileged: true}, testLocale)
	assert.Equal(t, []string{"plain"}, titles(uncategorized))

	named := core.FilterNotes(notes, core.ViewState{Category: core.InCategory("Work")}, testLocale)
	assert.Equal(t, []string{"work"}, titles(named))

	all := core.FilterNotes(notes, core.ViewState{Category: core.AllCategories()}, testLocale)
	assert.Equal(t, []string{"plain", "work"}, titles(all), "welcome note hidden without privilege")

	counters := core.CountNotes(notes, []core.Category{{Name: "Work"}, {Name: "Ideas"}}, 100)
	assert.Equal(t, 1, counters.Uncategorized)
	assert.Equal(t, 1, counters.PerCategory["Work"])
	assert.Equal(t, 0, counters.PerCategory["Ideas"])
	assert.Equal(t, 2, counters.All)
	assert.InDelta(t, 2.0, counters.CapacityPercent, 0.001)
}

func TestFilterNotes_Search(t *testing.T) {
	notes := []core.Note{
		{ID: "1", Title: "Grocery LIST", Content: "milk"},
		{ID: "2", Title: "Ideas", Content: "a shopping list app"},
		{ID: "3", Title: "Other", Content: "nothing here"},
		{ID: "4", Title: "list of news", Categories: []string{core.SystemCategory}},
	}
	got := core.FilterNotes(notes, core.ViewState{Search: "List"}, testLocale)
	assert.Equal(t, []string{"Grocery LIST", "Ideas"}, titles(got))

	got = core.FilterNotes(notes, core.ViewState{Search: "List", Privileged: true}, testLocale)
	assert.Equal(t, []string{"Grocery LIST", "Ideas", "list of news"}, titles(got))
}

func TestSortNotes_PinnedFirst(t *testing.T) {
	base := []core.Note{
		{ID: "1", Title: "cherry", UpdatedAt: 300},
		{ID: "2", Title: "apple", UpdatedAt: 100, IsPinned: true},
		{ID: "3", Title: "Banana", UpdatedAt: 200},
		{ID: "4", Title: "Émile", UpdatedAt: 400, IsPinned: true},
		{ID: "5", Title: "zed", UpdatedAt: 50},
	}

	cases := map[core.SortOption][]string{
		core.SortNewest: {"Émile", "apple", "cherry", "Banana", "zed"},
		core.SortOldest: {"apple", "Émile", "zed", "Banana", "cherry"},
		core.SortAZ:     {"apple", "Émile", "Banana", "cherry", "zed"},
		core.SortZA:     {"Émile", "apple", "zed", "cherry", "Banana"},
	}
	for opt, want := range cases {
		t.Run(string(opt), func(t *testing.T) {
			notes := append([]core.Note(nil), base...)
			core.SortNotes(notes, opt, testLocale)
			assert.Equal(t, want, titles(notes))

			seenUnpinned := false
			for _, n := range notes {
				if !n.IsPinned {
					seenUnpinned = true
				}
				assert.False(t, seenUnpinned && n.IsPinned, "pinned note after unpinned")
			}
		})
	}
}

func TestSortNotes_StableTies(t *testing.T) {
	notes := []core.Note{
		{ID: "a", Title: "same", UpdatedAt: 1},
		{ID: "b", Title: "same", UpdatedAt: 1},
		{ID: "c", Title: "same", UpdatedAt: 1},
	}
	core.SortNotes(notes, core.SortAZ, testLocale)
	assert.Equal(t, []string{"a", "b", "c"}, []string{notes[0].ID, notes[1].ID, notes[2].ID})
}

func TestSortCategories(t *testing.T) {
	categories := []core.Category{
		{ID: "1", Name: "work"},
		{ID: "2", Name: "Ideas", IsPinned: true},
		{ID: "3", Name: "art"},
		{ID: "4", Name: "Zoo", IsPinned: true},
	}
	got := core.SortCategories(categories, "", testLocale)
	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Ideas", "Zoo", "art", "work"}, names)
	assert.Equal(t, "work", categories[0].Name, "input is not reordered")

	filtered := core.SortCategories(categories, "O", testLocale)
	require.Len(t, filtered, 2)
	assert.Equal(t, "Zoo", filtered[0].Name)
	assert.Equal(t, "work", filtered[1].Name)
}

func TestCountNotes_CapacityExcludesSystemNotes(t *testing.T) {
	notes := []core.Note{
		{ID: core.WelcomeNoteID, Categories: []string{core.SystemCategory}},
		{ID: "news", Categories: []string{core.SystemCategory}},
		{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"},
	}
	c := core.CountNotes(notes, nil, 8)
	assert.Equal(t, 4, c.UserNotes)
	assert.InDelta(t, 50.0, c.CapacityPercent, 0.001)
}

func TestService_View(t *testing.T) {
	svc, _ := newTestService(t)
	mustCreate(t, svc, "first", "Work")
	second := mustCreate(t, svc, "second")
	_, err := svc.TogglePin(second.ID)
	require.NoError(t, err)
	mustCreate(t, svc, "third", "Work")

	view := svc.View(core.ViewState{Category: core.AllCategories(), Sort: core.SortNewest}, testLocale)
	assert.Equal(t, []string{"second", "third", "first"}, titles(view.Notes))
	assert.Equal(t, 2, view.Counters.PerCategory["Work"])
	assert.Equal(t, 1, view.Counters.Uncategorized)
	assert.Len(t, view.Categories, 4)
}
