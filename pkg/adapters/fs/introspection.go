package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path      string     `json:"path"`
	MustExist bool       `json:"must_exist"`
	Writes    int        `json:"writes"`
	LastWrite *time.Time `json:"last_write,omitempty"`

	// Sizes holds the byte size of each file as last written by this store.
	Sizes map[string]int64 `json:"sizes,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := StoreState{
		Path:      s.Path,
		MustExist: s.config.MustExist,
		Writes:    s.writes,
	}
	if len(s.sizes) > 0 {
		st.Sizes = make(map[string]int64, len(s.sizes))
		for f, n := range s.sizes {
			st.Sizes[f] = n
		}
	}
	if !s.lastWrite.IsZero() {
		last := s.lastWrite
		st.LastWrite = &last
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
