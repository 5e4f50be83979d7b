package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/smartnotes/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterMemory = "memory"
	AdapterFS     = "fs"
	AdapterBadger = "badger"
	AdapterSQLite = "sqlite"
)

// DefaultAdapter is the durable adapter used when none is configured.
const DefaultAdapter = AdapterBadger

// options holds the internal configuration for a smartnotes session.
type options struct {
	store      core.Store
	logger     *slog.Logger
	adapter    string
	limits     *core.Limits
	privileged bool
	seed       bool
	recovery   bool
	mustExist  bool
	syncWrites bool
	forceTemp  bool
	devSafety  bool
	clock      func() time.Time
}

// Option defines a functional option for configuring a session.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:    DefaultAdapter,
		seed:       true,
		recovery:   true,
		syncWrites: true,
		devSafety:  true,
	}
}

// WithLogger sets the logger for the service and its store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore allows injecting a custom store (e.g. mock).
// If provided, the adapter selection is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter selects the storage adapter by name: "memory", "fs", "badger" or "sqlite".
// Defaults to "badger".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithLimits overrides the capacity and length bounds.
func WithLimits(l core.Limits) Option {
	return func(o *options) {
		o.limits = &l
	}
}

// WithPrivileged opens the session with elevated privilege.
func WithPrivileged(privileged bool) Option {
	return func(o *options) {
		o.privileged = privileged
	}
}

// WithSeed controls whether an empty store receives the welcome notes.
func WithSeed(seed bool) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithRecovery enables or disables the recovery snapshot file. Enabled by default
// for every adapter except memory.
func WithRecovery(enabled bool) Option {
	return func(o *options) {
		o.recovery = enabled
	}
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithSyncWrites controls fsync on every badger commit.
func WithSyncWrites(enabled bool) Option {
	return func(o *options) {
		o.syncWrites = enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run`.
// By default (true) the data directory is re-rooted under the system temp dir.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithClock replaces the wall clock of the service.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}
