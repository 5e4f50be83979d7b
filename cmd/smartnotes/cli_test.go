package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/smartnotes/pkg/ai"
	"github.com/aretw0/smartnotes/pkg/core"
)

// cli runs commands against one data directory with the fs adapter.
type cli struct {
	t    *testing.T
	data string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("SMARTNOTES_AI_API_KEY", "")
	t.Chdir(t.TempDir())
	return &cli{t: t, data: filepath.Join(t.TempDir(), "notes")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--data", c.data, "--adapter", "fs"}, args...))
	err := root.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "smartnotes %s", strings.Join(args, " "))
	return out
}

func (c *cli) view(args ...string) core.View {
	c.t.Helper()
	var v core.View
	require.NoError(c.t, json.Unmarshal([]byte(c.mustRun(append([]string{"list", "--json"}, args...)...)), &v))
	return v
}

func titles(notes []core.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}

func TestCLI_NoteLifecycle(t *testing.T) {
	c := newCLI(t)

	id := strings.TrimSpace(c.mustRun("note", "add", "Groceries", "-c", "milk, eggs", "-C", "Shopping", "--author", "Sam"))
	require.NotEmpty(t, id)

	out := c.mustRun("list")
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "[Shopping]")
	assert.NotContains(t, out, core.DefaultWelcomeTitle, "system notes are hidden without --admin")

	admin := c.mustRun("--admin", "list")
	assert.Contains(t, admin, core.DefaultWelcomeTitle)

	show := c.mustRun("note", "show", id)
	assert.Contains(t, show, "milk, eggs")
	assert.Contains(t, show, "by Sam")

	c.mustRun("note", "edit", id, "--title", "Groceries v2", "--summary", "weekly run")
	var n core.Note
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("note", "show", id, "--json")), &n))
	assert.Equal(t, "Groceries v2", n.Title)
	assert.Equal(t, "weekly run", n.Summary)
	assert.Equal(t, "Sam", n.Author, "edit keeps the author")
	assert.Equal(t, []string{"Shopping"}, n.Categories)

	assert.Contains(t, c.mustRun("note", "pin", id), "pinned")
	assert.Equal(t, "Groceries v2", c.view().Notes[0].Title, "pinned notes sort first")

	c.mustRun("note", "rm", id)
	_, err := c.run("note", "show", id)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCLI_DuplicateNeedsForce(t *testing.T) {
	c := newCLI(t)
	c.mustRun("note", "add", "Same", "-c", "body")

	_, err := c.run("note", "add", "Same", "-c", "body")
	assert.ErrorIs(t, err, core.ErrDuplicateNote)

	c.mustRun("note", "add", "Same", "-c", "body", "--force")
	assert.Len(t, c.view("Same").Notes, 2)
}

func TestCLI_SystemNotesAreReadOnly(t *testing.T) {
	c := newCLI(t)
	c.mustRun("list")

	_, err := c.run("note", "edit", core.WelcomeNoteID, "--title", "Mine now")
	assert.ErrorIs(t, err, core.ErrReadOnly)

	c.mustRun("--admin", "note", "edit", core.WelcomeNoteID, "--title", "Edited by admin")
	assert.Contains(t, c.mustRun("--admin", "note", "show", core.WelcomeNoteID), "Edited by admin")
}

func TestCLI_Categories(t *testing.T) {
	c := newCLI(t)

	assert.Contains(t, c.mustRun("category", "add", "Travel", "--color", "cyan"), "[Travel]")
	_, err := c.run("category", "add", "travel")
	assert.ErrorIs(t, err, core.ErrDuplicateName)
	_, err = c.run("category", "add", "Music", "--color", "mauve")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	id := strings.TrimSpace(c.mustRun("note", "add", "Lisbon", "-C", "Travel"))
	c.mustRun("category", "edit", "travel", "--name", "Trips")

	var n core.Note
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("note", "show", id, "--json")), &n))
	assert.Equal(t, []string{"Trips"}, n.Categories, "notes follow the rename")

	assert.Contains(t, c.mustRun("category", "pin", "Trips"), "pinned")
	list := c.mustRun("category", "list")
	assert.True(t, strings.Index(list, "Trips") < strings.Index(list, "Work"), "pinned categories come first")

	c.mustRun("category", "rm", "Trips")
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("note", "show", id, "--json")), &n))
	assert.Empty(t, n.Categories)
	assert.Equal(t, []string{"Lisbon"}, titles(c.view("--uncategorized").Notes))
}

func TestCLI_Bulk(t *testing.T) {
	c := newCLI(t)
	a := strings.TrimSpace(c.mustRun("note", "add", "bulk alpha"))
	b := strings.TrimSpace(c.mustRun("note", "add", "bulk beta", "-C", "Work"))
	c.mustRun("note", "add", "unrelated")

	assert.Contains(t, c.mustRun("bulk", "tag", "Work", "--search", "bulk"), "added to 1 notes")
	assert.Len(t, c.view("--category", "Work").Notes, 2)

	assert.Contains(t, c.mustRun("bulk", "tag", "work", a, b), "removed from 2 notes")
	assert.Empty(t, c.view("--category", "Work").Notes)

	assert.Contains(t, c.mustRun("bulk", "delete", "--search", "bulk"), "would delete 2 notes")
	assert.Len(t, c.view("bulk").Notes, 2)

	assert.Contains(t, c.mustRun("bulk", "delete", "--search", "bulk", "--yes"), "deleted 2 notes")
	assert.Empty(t, c.view("bulk").Notes)

	_, err := c.run("--admin", "bulk", "delete", core.WelcomeNoteID, "--yes")
	assert.NoError(t, err, "privileged sessions may delete system notes")
	_, err = c.run("bulk", "tag", "Nope", a)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCLI_ListFilters(t *testing.T) {
	c := newCLI(t)
	c.mustRun("note", "add", "banana")
	c.mustRun("note", "add", "apple")

	assert.Equal(t, []string{"apple", "banana", "Getting started with Smart Notes"}, titles(c.view("--sort", "az").Notes))
	assert.Equal(t, []string{"banana"}, titles(c.view("BANANA").Notes))
	assert.Empty(t, c.view("--to", "2001-01-01").Notes)
	assert.Len(t, c.view("--from", "2001-01-01").Notes, 3)

	_, err := c.run("list", "--from", "not a date")
	assert.Error(t, err)
	_, err = c.run("list", "--sort", "sideways")
	assert.Error(t, err)
	_, err = c.run("list", "--category", "Work", "--uncategorized")
	assert.Error(t, err)
}

func TestCLI_ExportImport(t *testing.T) {
	c := newCLI(t)
	c.mustRun("category", "add", "Recipes", "--color", "orange")
	c.mustRun("note", "add", "Pancakes", "-C", "Recipes", "--author", "Ana")

	file := filepath.Join(t.TempDir(), "backup.yaml")
	assert.Contains(t, c.mustRun("export", file), "exported 2 notes and 5 categories")
	assert.Contains(t, c.mustRun("export", "-", "--categories"), `"categories"`)

	other := &cli{t: t, data: filepath.Join(t.TempDir(), "other")}
	assert.Contains(t, other.mustRun("import", file, "--dry-run"), "2 notes, 5 categories by Ana")
	assert.Len(t, other.view().Notes, 1, "dry run changes nothing")

	out := other.mustRun("import", file)
	assert.Contains(t, out, "partial import, 2 notes and 1 categories added")
	assert.Contains(t, other.mustRun("import", file), "nothing import", "re-import is idempotent")

	v := other.view("--category", "Recipes")
	assert.Equal(t, []string{"Pancakes"}, titles(v.Notes))

	_, err := other.run("import", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	_, err = other.run("import")
	assert.Error(t, err)
}

func TestCLI_Settings(t *testing.T) {
	c := newCLI(t)

	all := c.mustRun("settings", "get")
	assert.Contains(t, all, `aiEnabled=false`)
	assert.Contains(t, all, `theme="blue"`)

	c.mustRun("settings", "set", "nickname", "Robin")
	c.mustRun("settings", "set", "theme", "Violet")
	c.mustRun("settings", "set", "viewMode", "list")
	assert.Equal(t, "Robin\n", c.mustRun("settings", "get", "nickname"))
	assert.Equal(t, "violet\n", c.mustRun("settings", "get", "theme"))
	assert.Equal(t, "list\n", c.mustRun("settings", "get", "viewMode"))

	id := strings.TrimSpace(c.mustRun("note", "add", "Signed"))
	assert.Contains(t, c.mustRun("note", "show", id), "by Robin", "nickname is the default author")

	_, err := c.run("settings", "set", "micEnabled", "maybe")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	_, err = c.run("settings", "set", "viewMode", "cards")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	_, err = c.run("settings", "get", "fontSize")
	assert.Error(t, err)
}

// fakeTransformer answers every call locally.
type fakeTransformer struct{}

func (fakeTransformer) Summarize(ctx context.Context, title, content string) (string, error) {
	return "short: " + title, nil
}

func (fakeTransformer) Improve(ctx context.Context, title, content string, categories []string) (ai.Suggestion, error) {
	return ai.Suggestion{
		Summary:             "improved summary",
		ImprovedText:        strings.ToUpper(content),
		SuggestedTitle:      "Better " + title,
		SuggestedCategories: []string{"Ideas", "Imaginary"},
	}, nil
}

func (fakeTransformer) VerifyFacts(ctx context.Context, content string) (ai.Verification, error) {
	return ai.Verification{Text: "Looks right.", Sources: []ai.Source{{Title: "Atlas", URL: "https://example.org/atlas"}}}, nil
}

func (fakeTransformer) Translate(ctx context.Context, title, content, language string) (ai.Translation, error) {
	return ai.Translation{Title: language + ": " + title, Content: language + ": " + content}, nil
}

func useFakeTransformer(t *testing.T) {
	t.Helper()
	prev := transformerFactory
	transformerFactory = func(ai.Config) (ai.Transformer, error) { return fakeTransformer{}, nil }
	t.Cleanup(func() { transformerFactory = prev })
}

func TestCLI_AI(t *testing.T) {
	c := newCLI(t)
	id := strings.TrimSpace(c.mustRun("note", "add", "Paris", "-c", "capital of france"))

	_, err := c.run("ai", "summarize", id)
	assert.ErrorIs(t, err, ai.ErrAIDisabled, "no api key configured")

	useFakeTransformer(t)
	_, err = c.run("ai", "summarize", id)
	assert.ErrorIs(t, err, ai.ErrAIDisabled, "preference is off")

	c.mustRun("settings", "set", "aiEnabled", "true")
	assert.Equal(t, "short: Paris\n", c.mustRun("ai", "summarize", id))

	out := c.mustRun("ai", "improve", id)
	assert.Contains(t, out, "Better Paris")
	assert.Contains(t, out, "Ideas")
	assert.NotContains(t, out, "Imaginary", "unknown categories are dropped")
	var n core.Note
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("note", "show", id, "--json")), &n))
	assert.Equal(t, "Paris", n.Title, "suggestions are not applied by default")

	c.mustRun("ai", "improve", id, "--title", "--categories")
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("note", "show", id, "--json")), &n))
	assert.Equal(t, "Better Paris", n.Title)
	assert.Equal(t, []string{"Ideas"}, n.Categories)
	assert.Equal(t, "capital of france", n.Content)

	assert.Contains(t, c.mustRun("ai", "verify", id), "[Atlas](https://example.org/atlas)")
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("note", "show", id, "--json")), &n))
	assert.Contains(t, n.Content, "**Fact check:**")

	c.mustRun("ai", "translate", id, "pt")
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("note", "show", id, "--json")), &n))
	assert.Equal(t, "pt: Better Paris", n.Title)

	_, err = c.run("ai", "summarize", "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCLI_Recover(t *testing.T) {
	c := newCLI(t)
	c.mustRun("note", "add", "Precious")

	_, err := c.run("recover")
	assert.ErrorIs(t, err, core.ErrNotFound, "no snapshot yet")

	assert.Contains(t, c.mustRun("recover", "--snapshot"), "autosave.json")
	assert.Contains(t, c.mustRun("recover"), "3 notes, 4 categories")

	c.mustRun("bulk", "delete", "--yes")
	assert.Empty(t, c.view().Notes)

	assert.Contains(t, c.mustRun("recover", "--restore"), "restored 3 notes")
	assert.Contains(t, titles(c.view().Notes), "Precious")
}

func TestCLI_StatusAndVersion(t *testing.T) {
	c := newCLI(t)

	var report statusReport
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("status")), &report))
	assert.Equal(t, "fs", report.Adapter)
	assert.Equal(t, "fs-store", report.StoreType)
	assert.Equal(t, c.data, report.DataDir)
	assert.NotEmpty(t, report.Recovery)

	assert.Contains(t, c.mustRun("version"), "smartnotes version")

	_, err := c.run("--adapter", "floppy", "status")
	assert.Error(t, err)
}
