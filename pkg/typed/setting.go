// Package typed provides type-safe access to the scalar preference keys of a store.
package typed

import (
	"context"
	"encoding/json"
	"fmt"
)

// KV is the subset of a store needed to read and write encoded settings.
// core.Store satisfies it.
type KV interface {
	GetSetting(ctx context.Context, key string) ([]byte, bool, error)
	PutSetting(ctx context.Context, key string, value []byte) error
}

// Setting wraps a single key with a typed JSON codec and a fallback value.
type Setting[T any] struct {
	kv       KV
	key      string
	fallback T
}

// NewSetting creates a typed accessor for key. Fallback is returned by Get
// when the key is absent or holds a value that no longer decodes.
func NewSetting[T any](kv KV, key string, fallback T) *Setting[T] {
	return &Setting[T]{kv: kv, key: key, fallback: fallback}
}

// Key returns the underlying setting key.
func (s *Setting[T]) Key() string {
	return s.key
}

// Get retrieves the typed value. The boolean is false when the fallback was used.
func (s *Setting[T]) Get(ctx context.Context) (T, bool, error) {
	raw, ok, err := s.kv.GetSetting(ctx, s.key)
	if err != nil {
		return s.fallback, false, fmt.Errorf("failed to read setting %q: %w", s.key, err)
	}
	if !ok || len(raw) == 0 {
		return s.fallback, false, nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		// Undecodable values fall back.
		return s.fallback, false, nil
	}
	return v, true, nil
}

// Put encodes and persists v.
func (s *Setting[T]) Put(ctx context.Context, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal setting %q: %w", s.key, err)
	}
	if err := s.kv.PutSetting(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to write setting %q: %w", s.key, err)
	}
	return nil
}
