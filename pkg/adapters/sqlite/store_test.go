package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/smartnotes/pkg/adapters/sqlite"
	"github.com/aretw0/smartnotes/pkg/core"
)

func TestStore_InMemory(t *testing.T) {
	ctx := context.Background()
	s := sqlite.NewStore(sqlite.Config{Path: sqlite.MemoryPath})
	require.NoError(t, s.Initialize(ctx))
	defer s.Close()

	in := []core.Note{
		{ID: "z", Title: "last alphabetically, first in order", Categories: []string{}},
		{ID: "a", Title: "second", Categories: []string{"Work"}, IsPinned: true},
	}
	require.NoError(t, s.SaveNotes(ctx, in))

	got, err := s.LoadNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, got, "collection order is kept by position")

	require.NoError(t, s.SaveNotes(ctx, in[1:]))
	got, err = s.LoadNotes(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, s.PutSetting(ctx, "theme", []byte(`"red"`)))
	require.NoError(t, s.PutSetting(ctx, "theme", []byte(`"blue"`)))
	v, ok, err := s.GetSetting(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"blue"`, string(v))

	_, ok, err = s.GetSetting(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_FileWithService(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "notes.db")

	s := sqlite.NewStore(sqlite.Config{Path: path})
	svc := core.NewService(s)
	require.NoError(t, svc.Load(ctx))
	require.NoError(t, svc.Close(ctx))
	require.NoError(t, s.Close())

	reopened := sqlite.NewStore(sqlite.Config{Path: path})
	defer reopened.Close()
	svc = core.NewService(reopened)
	require.NoError(t, svc.Load(ctx))
	notes := svc.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, core.WelcomeNoteID, notes[0].ID)
	assert.Equal(t, "sqlite-store", svc.State().(core.ServiceState).StoreType)
}
