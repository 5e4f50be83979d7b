package smartnotes

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/smartnotes/internal/platform"
	"github.com/aretw0/smartnotes/pkg/core"
)

// --- Types ---

// Session is a loaded service together with the store and recovery slot it owns.
type Session = platform.Session

// Store is the persistence port implemented by every adapter.
type Store = core.Store

// --- Configuration ---

// Option defines a functional option for configuring a session.
type Option = platform.Option

// Adapter names accepted by WithAdapter.
const (
	AdapterMemory = platform.AdapterMemory
	AdapterFS     = platform.AdapterFS
	AdapterBadger = platform.AdapterBadger
	AdapterSQLite = platform.AdapterSQLite
)

// WithLogger sets the logger for the service and its store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore allows injecting a custom store.
func WithStore(store Store) Option {
	return platform.WithStore(store)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithLimits overrides the capacity and length bounds.
func WithLimits(l core.Limits) Option {
	return platform.WithLimits(l)
}

// WithPrivileged opens the session with elevated privilege.
func WithPrivileged(privileged bool) Option {
	return platform.WithPrivileged(privileged)
}

// WithSeed controls whether an empty store receives the welcome notes.
func WithSeed(seed bool) Option {
	return platform.WithSeed(seed)
}

// WithRecovery enables or disables the recovery snapshot file.
func WithRecovery(enabled bool) Option {
	return platform.WithRecovery(enabled)
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the sandbox used when running via `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithClock replaces the wall clock of the service.
func WithClock(clock func() time.Time) Option {
	return platform.WithClock(clock)
}

// --- Factory ---

// New opens the store, builds the service and loads the session.
func New(ctx context.Context, path string, opts ...Option) (*Session, error) {
	return platform.New(ctx, path, opts...)
}

// OpenStore builds the configured store without loading it.
func OpenStore(path string, opts ...Option) (Store, string, error) {
	return platform.OpenStore(path, opts...)
}

// --- Safety & Utils ---

// ResolveDataPath determines the actual data directory based on safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot recursively looks upwards for a .smartnotes directory or smartnotes.yaml file.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
