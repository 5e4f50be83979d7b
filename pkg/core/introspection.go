package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Notes        int       `json:"notes"`
	Categories   int       `json:"categories"`
	Privileged   bool      `json:"privileged"`
	Dirty        bool      `json:"dirty"`
	Running      bool      `json:"running"`
	StoreType    string    `json:"store_type"`
	LastSync     time.Time `json:"last_sync,omitempty"`
	LastSnapshot time.Time `json:"last_snapshot,omitempty"`
	SyncErrors   int       `json:"sync_errors"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storeType := "unknown"
	if s.store != nil {
		storeType = "store"
		if comp, ok := s.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	return ServiceState{
		Notes:        len(s.notes),
		Categories:   len(s.categories),
		Privileged:   s.privileged,
		Dirty:        s.dirty != 0,
		Running:      s.cancel != nil,
		StoreType:    storeType,
		LastSync:     s.lastSync,
		LastSnapshot: s.lastSnapshot,
		SyncErrors:   s.syncErrors,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
