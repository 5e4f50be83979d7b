// Package fs implements the persistence ports on plain files.
//
// The note collection lives in notes.json and the preference keys in settings.json,
// both rewritten in full through an atomic temp-file rename. The recovery snapshot
// is a third file (autosave.json) so a damaged primary file never takes it down too.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/smartnotes/pkg/core"
)

const (
	NotesFile    = "notes.json"
	SettingsFile = "settings.json"
	RecoveryFile = "autosave.json"
)

// Config holds the configuration for the filesystem store.
type Config struct {
	Path      string
	MustExist bool
	Logger    *slog.Logger
}

// Store implements core.Store on JSON files under a data directory.
type Store struct {
	Path   string
	config Config

	mu        sync.RWMutex
	writes    int
	lastWrite time.Time
	sizes     map[string]int64
}

// NewStore creates a new filesystem-backed store.
func NewStore(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Store{Path: config.Path, config: config, sizes: make(map[string]int64)}
}

// Initialize creates the data directory unless MustExist is set.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", s.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", s.Path)
		}
		return nil
	}
	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// LoadNotes reads notes.json. A missing file is an empty collection.
func (s *Store) LoadNotes(ctx context.Context) ([]core.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var notes []core.Note
	if _, err := readJSON(filepath.Join(s.Path, NotesFile), &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []core.Note{}
	}
	return notes, nil
}

// SaveNotes rewrites notes.json with the whole collection.
func (s *Store) SaveNotes(ctx context.Context, notes []core.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if notes == nil {
		notes = []core.Note{}
	}
	size, err := writeJSONAtomic(filepath.Join(s.Path, NotesFile), notes)
	if err != nil {
		return err
	}
	s.recordWrite(NotesFile, size)
	s.config.Logger.Debug("notes written", "path", s.Path, "count", len(notes), "bytes", size)
	return nil
}

// GetSetting returns the raw JSON value stored under key.
func (s *Store) GetSetting(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings, err := s.readSettings()
	if err != nil {
		return nil, false, err
	}
	raw, ok := settings[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(raw), true, nil
}

// PutSetting rewrites settings.json with key replaced.
func (s *Store) PutSetting(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("setting %q: value is not valid json", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.readSettings()
	if err != nil {
		return err
	}
	settings[key] = json.RawMessage(value)
	size, err := writeJSONAtomic(filepath.Join(s.Path, SettingsFile), settings)
	if err != nil {
		return err
	}
	s.recordWrite(SettingsFile, size)
	return nil
}

func (s *Store) readSettings() (map[string]json.RawMessage, error) {
	settings := make(map[string]json.RawMessage)
	if _, err := readJSON(filepath.Join(s.Path, SettingsFile), &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// recordWrite must be called with s.mu held.
func (s *Store) recordWrite(file string, size int64) {
	s.writes++
	s.lastWrite = time.Now()
	s.sizes[file] = size
}

// Close is a no-op; every write is already durable.
func (s *Store) Close() error {
	return nil
}

var _ core.Store = (*Store)(nil)
