// Package sqlite implements core.Store on SQLite through the pure-Go glebarez driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/introspection"
	_ "github.com/glebarez/go-sqlite"

	"github.com/aretw0/smartnotes/pkg/core"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Config holds configuration for the SQLite store.
type Config struct {
	Path   string
	Logger *slog.Logger
}

// Store implements core.Store on two tables: notes(id, position, doc) and settings(key, value).
type Store struct {
	config Config

	mu     sync.RWMutex
	conn   *sql.DB
	writes int
}

// NewStore creates an unopened store.
func NewStore(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Store{config: config}
}

// Initialize opens the database and creates the schema.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return nil
	}
	if s.config.Path == "" {
		return errors.New("sqlite path is required")
	}
	if s.config.Path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(s.config.Path), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", s.config.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps an in-memory database alive and serializes writers.
	conn.SetMaxOpenConns(1)
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if err := migrate(ctx, conn); err != nil {
		conn.Close()
		return fmt.Errorf("failed to migrate: %w", err)
	}
	s.conn = conn
	s.config.Logger.Debug("sqlite store ready", "path", s.config.Path)
	return nil
}

func migrate(ctx context.Context, conn *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			doc TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, q := range queries {
		if _, err := conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

func (s *Store) db() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.conn == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.conn, nil
}

// LoadNotes returns the notes ordered by their saved position.
func (s *Store) LoadNotes(ctx context.Context) ([]core.Note, error) {
	conn, err := s.db()
	if err != nil {
		return nil, err
	}
	rows, err := conn.QueryContext(ctx, `SELECT doc FROM notes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := []core.Note{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var n core.Note
		if err := json.Unmarshal([]byte(doc), &n); err != nil {
			return nil, fmt.Errorf("failed to decode note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// SaveNotes replaces the table contents in one transaction.
func (s *Store) SaveNotes(ctx context.Context, notes []core.Note) error {
	conn, err := s.db()
	if err != nil {
		return err
	}
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("failed to clear notes: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO notes (id, position, doc) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, n := range notes {
		doc, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("failed to encode note %s: %w", n.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, n.ID, i, string(doc)); err != nil {
			return fmt.Errorf("failed to insert note %s: %w", n.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit notes: %w", err)
	}
	s.recordWrite()
	return nil
}

func (s *Store) GetSetting(ctx context.Context, key string) ([]byte, bool, error) {
	conn, err := s.db()
	if err != nil {
		return nil, false, err
	}
	var value string
	err = conn.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *Store) PutSetting(ctx context.Context, key string, value []byte) error {
	conn, err := s.db()
	if err != nil {
		return err
	}
	_, err = conn.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	s.recordWrite()
	return nil
}

func (s *Store) recordWrite() {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Path   string `json:"path"`
	Open   bool   `json:"open"`
	Writes int    `json:"writes"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{Path: s.config.Path, Open: s.conn != nil, Writes: s.writes}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite-store"
}

var (
	_ core.Store                   = (*Store)(nil)
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
)
