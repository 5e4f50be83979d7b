package fs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/smartnotes/pkg/core"
)

type countingImporter struct {
	calls atomic.Int32
}

func (c *countingImporter) Import(doc core.Document) core.ImportReport {
	c.calls.Add(1)
	return core.ImportReport{NotesAdded: len(doc.Notes)}
}

func TestInbox_DrainRejectsLateDispatches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "late.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"notes": [{"id": "n1", "title": "late"}]}`), 0644))

	imp := &countingImporter{}
	in := NewInbox(InboxConfig{Dir: dir}, imp)
	ctx := context.Background()

	// Timer callbacks dispatch from their own goroutines while the worker drains.
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in.dispatch(ctx, path)
		}()
	}
	in.drain()
	wg.Wait()
	in.inflight.Wait()

	before := imp.calls.Load()
	in.dispatch(ctx, path)
	in.debounce(ctx, path)
	in.inflight.Wait()

	assert.Equal(t, before, imp.calls.Load())
	in.mu.Lock()
	assert.Empty(t, in.timers)
	in.mu.Unlock()

	processed, failed := in.Counts()
	assert.Equal(t, int(before), processed)
	assert.Zero(t, failed)
}
