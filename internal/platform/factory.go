package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/smartnotes/pkg/adapters/fs"
	"github.com/aretw0/smartnotes/pkg/core"
)

// Session bundles a loaded service with the resources it owns.
type Session struct {
	Service  *core.Service
	Store    core.Store
	Recovery *fs.Recovery // nil when the recovery slot is disabled
	Path     string       // resolved data directory; empty for in-memory stores
}

// Close stops the background loops, flushes pending writes and closes the store.
func (s *Session) Close(ctx context.Context) error {
	return errors.Join(s.Service.Close(ctx), s.Store.Close())
}

// New opens the store, builds the service and loads the session.
//
//	sess, err := platform.New("./notes", platform.WithAdapter("sqlite"))
//
// The URI argument is the data directory (sqlite also accepts ":memory:").
func New(ctx context.Context, uri string, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, path, err := openStore(uri, o)
	if err != nil {
		return nil, err
	}

	svcOpts := []core.Option{
		core.WithLogger(loggerOf(o)),
		core.WithPrivileged(o.privileged),
		core.WithSeed(o.seed),
	}
	if o.limits != nil {
		svcOpts = append(svcOpts, core.WithLimits(*o.limits))
	}
	if o.clock != nil {
		svcOpts = append(svcOpts, core.WithClock(o.clock))
	}

	var rec *fs.Recovery
	if o.recovery && path != "" {
		rec = fs.NewRecovery(path)
		svcOpts = append(svcOpts, core.WithRecovery(rec))
	}

	svc := core.NewService(store, svcOpts...)
	if err := svc.Load(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to open %s store: %w", o.adapter, err)
	}

	loggerOf(o).Debug("session opened", "adapter", o.adapter, "path", path)
	return &Session{Service: svc, Store: store, Recovery: rec, Path: path}, nil
}
