// Package memory implements core.Store in process memory. Nothing survives Close.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/smartnotes/pkg/core"
)

// Store keeps the collections in maps guarded by a mutex. Values are copied on the way in and out.
type Store struct {
	mu       sync.RWMutex
	notes    []core.Note
	settings map[string][]byte
	closed   bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{settings: make(map[string][]byte)}
}

func (s *Store) Initialize(ctx context.Context) error { return nil }

func (s *Store) LoadNotes(ctx context.Context) ([]core.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyNotes(s.notes), nil
}

func (s *Store) SaveNotes(ctx context.Context, notes []core.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = copyNotes(notes)
	return nil
}

func (s *Store) GetSetting(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.settings[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) PutSetting(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func copyNotes(in []core.Note) []core.Note {
	out := make([]core.Note, len(in))
	for i, n := range in {
		n.Categories = append([]string{}, n.Categories...)
		out[i] = n
	}
	return out
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Notes    int  `json:"notes"`
	Settings int  `json:"settings"`
	Closed   bool `json:"closed"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{Notes: len(s.notes), Settings: len(s.settings), Closed: s.closed}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory-store"
}

var (
	_ core.Store                   = (*Store)(nil)
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
)
