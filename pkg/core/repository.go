package core

import "context"

// Store defines the contract for the durable backing of a session.
// Adhering to this interface allows the core to be independent of the
// underlying storage mechanism (files, BadgerDB, SQLite, memory).
type Store interface {
	// Initialize ensures the underlying storage is ready (directories, schema).
	Initialize(ctx context.Context) error

	// LoadNotes returns the whole note collection in stored order.
	LoadNotes(ctx context.Context) ([]Note, error)

	// SaveNotes replaces the whole note collection. It is a full overwrite, never a merge.
	SaveNotes(ctx context.Context, notes []Note) error

	// GetSetting returns the raw encoded value of a preference key.
	// The boolean is false when the key was never written.
	GetSetting(ctx context.Context, key string) ([]byte, bool, error)

	// PutSetting writes the raw encoded value of a preference key.
	PutSetting(ctx context.Context, key string, value []byte) error

	// Close releases the underlying resources.
	Close() error
}

// Setting keys used by the service.
const (
	SettingCategories      = "categories"
	SettingNickname        = "nickname"
	SettingTheme           = "theme"
	SettingViewMode        = "viewMode"
	SettingMicEnabled      = "micEnabled"
	SettingAIEnabled       = "aiEnabled"
	SettingHideSystemNotes = "hideSystemNotes"
)

// Snapshot is a full copy of the session collections written to the recovery slot.
type Snapshot struct {
	Notes      []Note     `json:"notes"`
	Categories []Category `json:"categories"`
	Timestamp  int64      `json:"timestamp"`
}

// RecoveryWriter persists periodic snapshots to a location distinct from the primary Store.
type RecoveryWriter interface {
	WriteSnapshot(ctx context.Context, snap Snapshot) error
	ReadSnapshot(ctx context.Context) (Snapshot, error)
}
