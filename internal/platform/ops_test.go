package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/smartnotes/internal/platform"
	"github.com/aretw0/smartnotes/pkg/adapters/badger"
	"github.com/aretw0/smartnotes/pkg/adapters/fs"
	"github.com/aretw0/smartnotes/pkg/adapters/memory"
	"github.com/aretw0/smartnotes/pkg/adapters/sqlite"
	"github.com/aretw0/smartnotes/pkg/core"
)

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()

	t.Run("memory", func(t *testing.T) {
		store, path, err := platform.OpenStore("", platform.WithAdapter(platform.AdapterMemory))
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, store)
		assert.Empty(t, path)
	})

	t.Run("fs", func(t *testing.T) {
		store, path, err := platform.OpenStore(dir, platform.WithAdapter(platform.AdapterFS))
		require.NoError(t, err)
		assert.IsType(t, &fs.Store{}, store)
		assert.Equal(t, dir, path)
	})

	t.Run("badger", func(t *testing.T) {
		store, _, err := platform.OpenStore(dir)
		require.NoError(t, err)
		assert.IsType(t, &badger.Store{}, store, "badger is the default adapter")
	})

	t.Run("sqlite in memory", func(t *testing.T) {
		store, path, err := platform.OpenStore(sqlite.MemoryPath, platform.WithAdapter(platform.AdapterSQLite))
		require.NoError(t, err)
		assert.IsType(t, &sqlite.Store{}, store)
		assert.Empty(t, path)
	})

	t.Run("unknown adapter", func(t *testing.T) {
		_, _, err := platform.OpenStore(dir, platform.WithAdapter("floppy"))
		assert.ErrorContains(t, err, "unknown adapter")
	})

	t.Run("must exist", func(t *testing.T) {
		_, _, err := platform.OpenStore(filepath.Join(dir, "missing"),
			platform.WithAdapter(platform.AdapterSQLite), platform.WithMustExist(true))
		assert.Error(t, err)
	})

	t.Run("injected store wins", func(t *testing.T) {
		injected := memory.NewStore()
		store, _, err := platform.OpenStore(dir, platform.WithAdapter("floppy"), platform.WithStore(injected))
		require.NoError(t, err)
		assert.Same(t, injected, store)
	})
}

func TestNew_PersistsAcrossSessions(t *testing.T) {
	for _, adapter := range []string{platform.AdapterFS, platform.AdapterBadger, platform.AdapterSQLite} {
		t.Run(adapter, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			opts := []platform.Option{platform.WithAdapter(adapter), platform.WithSyncWrites(false)}

			sess, err := platform.New(ctx, dir, opts...)
			require.NoError(t, err)
			assert.Len(t, sess.Service.Notes(), 2, "fresh store is seeded")
			require.NotNil(t, sess.Recovery)

			n, err := sess.Service.CreateNote(core.NoteInput{Title: "Kept", Categories: []string{"Ideas"}})
			require.NoError(t, err)
			require.NoError(t, sess.Close(ctx))

			reopened, err := platform.New(ctx, dir, opts...)
			require.NoError(t, err)
			defer reopened.Close(ctx)

			got, err := reopened.Service.Note(n.ID)
			require.NoError(t, err)
			assert.Equal(t, "Kept", got.Title)
			assert.Len(t, reopened.Service.Notes(), 3)
		})
	}
}

func TestNew_Options(t *testing.T) {
	ctx := context.Background()
	limits := core.DefaultLimits()
	limits.MaxNotes = 1
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	sess, err := platform.New(ctx, "",
		platform.WithAdapter(platform.AdapterMemory),
		platform.WithSeed(false),
		platform.WithPrivileged(true),
		platform.WithLimits(limits),
		platform.WithClock(func() time.Time { return fixed }),
	)
	require.NoError(t, err)
	defer sess.Close(ctx)

	assert.Nil(t, sess.Recovery, "memory sessions have no recovery slot")
	assert.True(t, sess.Service.Privileged())
	assert.Empty(t, sess.Service.Notes())

	n, err := sess.Service.CreateNote(core.NoteInput{Title: "only"})
	require.NoError(t, err)
	assert.Equal(t, fixed.UnixMilli(), n.UpdatedAt)

	_, err = sess.Service.CreateNote(core.NoteInput{Title: "one too many"})
	assert.ErrorIs(t, err, core.ErrCapacityExceeded)
}

func TestNew_RecoveryDisabled(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	sess, err := platform.New(ctx, dir, platform.WithAdapter(platform.AdapterFS), platform.WithRecovery(false))
	require.NoError(t, err)
	defer sess.Close(ctx)

	assert.Nil(t, sess.Recovery)
	assert.ErrorIs(t, sess.Service.Snapshot(ctx), core.ErrNotFound)
	_, err = os.Stat(filepath.Join(dir, fs.RecoveryFile))
	assert.True(t, os.IsNotExist(err))
}
