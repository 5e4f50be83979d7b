package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/smartnotes/pkg/core"
)

// Recovery keeps the periodic full snapshot in its own file.
type Recovery struct {
	path string
	mu   sync.Mutex
}

// NewRecovery stores snapshots in dir/autosave.json.
func NewRecovery(dir string) *Recovery {
	return &Recovery{path: filepath.Join(dir, RecoveryFile)}
}

// Path returns the snapshot file location.
func (r *Recovery) Path() string {
	return r.path
}

// WriteSnapshot overwrites the snapshot file.
func (r *Recovery) WriteSnapshot(ctx context.Context, snap core.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create recovery directory: %w", err)
	}
	_, err := writeJSONAtomic(r.path, snap)
	return err
}

// ReadSnapshot returns the last snapshot, or core.ErrNotFound when none was written.
func (r *Recovery) ReadSnapshot(ctx context.Context) (core.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var snap core.Snapshot
	ok, err := readJSON(r.path, &snap)
	if err != nil {
		return core.Snapshot{}, err
	}
	if !ok {
		return core.Snapshot{}, fmt.Errorf("recovery snapshot %s: %w", r.path, core.ErrNotFound)
	}
	return snap, nil
}

var _ core.RecoveryWriter = (*Recovery)(nil)
