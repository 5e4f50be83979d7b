package core

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Limits holds the configured capacity and length bounds.
type Limits struct {
	MaxNotes              int
	MaxCategories         int
	MaxPinnedCategories   int
	MaxTitleLength        int
	MaxContentLength      int
	MaxCategoryNameLength int

	// SnapshotInterval is the period of the full recovery snapshot. Zero disables it.
	SnapshotInterval time.Duration
}

// DefaultLimits returns the production limits.
func DefaultLimits() Limits {
	return Limits{
		MaxNotes:              5000,
		MaxCategories:         120,
		MaxPinnedCategories:   5,
		MaxTitleLength:        120,
		MaxContentLength:      30000,
		MaxCategoryNameLength: 100,
		SnapshotInterval:      30 * time.Second,
	}
}

// options holds the internal configuration for the Service.
type options struct {
	limits     Limits
	logger     *slog.Logger
	clock      func() time.Time
	newID      func() string
	privileged bool
	recovery   RecoveryWriter
	seed       bool
}

// Option defines a functional option for configuring the Service.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		limits: DefaultLimits(),
		logger: nil,
		clock:  time.Now,
		newID:  uuid.NewString,
		seed:   true,
	}
}

// WithLimits overrides the capacity and length bounds.
func WithLimits(l Limits) Option {
	return func(o *options) {
		o.limits = l
	}
}

// WithMaxNotes overrides only the note capacity.
func WithMaxNotes(n int) Option {
	return func(o *options) {
		o.limits.MaxNotes = n
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock replaces the wall clock (useful for testing).
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithIDGenerator replaces the uuid generator (useful for testing).
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

// WithPrivileged grants elevated privilege: system notes become visible and editable.
func WithPrivileged(privileged bool) Option {
	return func(o *options) {
		o.privileged = privileged
	}
}

// WithRecovery sets the destination of periodic full snapshots.
func WithRecovery(r RecoveryWriter) Option {
	return func(o *options) {
		o.recovery = r
	}
}

// WithSeed controls whether an empty store is seeded with the welcome notes on Load.
func WithSeed(seed bool) Option {
	return func(o *options) {
		o.seed = seed
	}
}
