package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/smartnotes/pkg/typed"
)

// Preferences are the scalar settings persisted next to the collections.
type Preferences struct {
	Nickname        string     `json:"nickname"`
	Theme           ThemeColor `json:"theme"`
	ViewMode        ViewMode   `json:"viewMode"`
	MicEnabled      bool       `json:"micEnabled"`
	AIEnabled       bool       `json:"aiEnabled"`
	HideSystemNotes bool       `json:"hideSystemNotes"`
}

// DefaultPreferences returns the preferences of a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ColorBlue, ViewMode: ViewGrid}
}

type dirtyFlags uint8

const (
	dirtyNotes dirtyFlags = 1 << iota
	dirtyCategories
	dirtyPreferences
)

// Service owns the note and category collections of a session.
// The in-memory collections are the source of truth; the Store is synced
// after every mutation and never read again until the next Load.
type Service struct {
	mu sync.RWMutex

	store  Store
	opts   *options
	logger *slog.Logger

	notes      []Note
	categories []Category
	prefs      Preferences
	privileged bool
	loaded     bool

	flushMu sync.Mutex

	dirty  dirtyFlags
	signal chan struct{}
	cancel context.CancelFunc
	done   chan struct{}

	lastSync     time.Time
	lastSnapshot time.Time
	syncErrors   int
}

// NewService creates a new Service over store.
func NewService(store Store, opts ...Option) *Service {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:      store,
		opts:       o,
		logger:     logger,
		prefs:      DefaultPreferences(),
		categories: DefaultCategories(),
		notes:      []Note{},
		privileged: o.privileged,
		signal:     make(chan struct{}, 1),
	}
}

// Load reads the collections and preferences from the store.
// An empty note collection is seeded with the welcome notes unless seeding is disabled.
func (s *Service) Load(ctx context.Context) error {
	if err := s.store.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	notes, err := s.store.LoadNotes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load notes: %w", err)
	}

	categories, _, err := typed.NewSetting(s.store, SettingCategories, DefaultCategories()).Get(ctx)
	if err != nil {
		return err
	}

	prefs, err := s.loadPreferences(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = make([]Note, 0, len(notes))
	for _, n := range notes {
		n.Categories = normalizeCategories(n.Categories)
		s.notes = append(s.notes, n)
	}
	s.categories = sanitizeCategories(categories)
	s.prefs = prefs
	s.loaded = true

	if len(s.notes) == 0 && s.opts.seed {
		s.notes = seedNotes(s.opts.clock(), s.opts.newID)
		s.markDirty(dirtyNotes)
		s.logger.Info("seeded empty store with welcome notes")
	}

	s.logger.Debug("session loaded", "notes", len(s.notes), "categories", len(s.categories))
	return nil
}

func (s *Service) loadPreferences(ctx context.Context) (Preferences, error) {
	def := DefaultPreferences()
	var p Preferences
	var err error

	if p.Nickname, _, err = typed.NewSetting(s.store, SettingNickname, def.Nickname).Get(ctx); err != nil {
		return def, err
	}
	if p.Theme, _, err = typed.NewSetting(s.store, SettingTheme, def.Theme).Get(ctx); err != nil {
		return def, err
	}
	if p.ViewMode, _, err = typed.NewSetting(s.store, SettingViewMode, def.ViewMode).Get(ctx); err != nil {
		return def, err
	}
	if p.MicEnabled, _, err = typed.NewSetting(s.store, SettingMicEnabled, false).Get(ctx); err != nil {
		return def, err
	}
	if p.AIEnabled, _, err = typed.NewSetting(s.store, SettingAIEnabled, false).Get(ctx); err != nil {
		return def, err
	}
	if p.HideSystemNotes, _, err = typed.NewSetting(s.store, SettingHideSystemNotes, false).Get(ctx); err != nil {
		return def, err
	}

	if !p.Theme.Valid() {
		p.Theme = def.Theme
	}
	if p.ViewMode != ViewGrid && p.ViewMode != ViewList {
		p.ViewMode = def.ViewMode
	}
	return p, nil
}

func (s *Service) savePreferences(ctx context.Context, p Preferences) error {
	if err := typed.NewSetting(s.store, SettingNickname, "").Put(ctx, p.Nickname); err != nil {
		return err
	}
	if err := typed.NewSetting[ThemeColor](s.store, SettingTheme, "").Put(ctx, p.Theme); err != nil {
		return err
	}
	if err := typed.NewSetting[ViewMode](s.store, SettingViewMode, "").Put(ctx, p.ViewMode); err != nil {
		return err
	}
	if err := typed.NewSetting(s.store, SettingMicEnabled, false).Put(ctx, p.MicEnabled); err != nil {
		return err
	}
	if err := typed.NewSetting(s.store, SettingAIEnabled, false).Put(ctx, p.AIEnabled); err != nil {
		return err
	}
	return typed.NewSetting(s.store, SettingHideSystemNotes, false).Put(ctx, p.HideSystemNotes)
}

// sanitizeCategories repairs a loaded collection: unknown colors fall back to gray.
func sanitizeCategories(in []Category) []Category {
	out := make([]Category, 0, len(in))
	for _, c := range in {
		if !c.Color.Valid() {
			c.Color = ColorGray
		}
		out = append(out, c)
	}
	return out
}

// Limits returns the configured limits.
func (s *Service) Limits() Limits {
	return s.opts.limits
}

// Privileged reports whether the session holds elevated privilege.
func (s *Service) Privileged() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.privileged
}

// SetPrivileged toggles elevated privilege for the session.
func (s *Service) SetPrivileged(privileged bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.privileged = privileged
	s.logger.Info("privilege changed", "privileged", privileged)
}

// Notes returns a copy of the note collection in stored order.
func (s *Service) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneNotes(s.notes)
}

// Categories returns a copy of the category collection.
func (s *Service) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Category(nil), s.categories...)
}

// Note returns a copy of the note with the given id.
func (s *Service) Note(id string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOfNote(id)
	if i < 0 {
		return Note{}, fmt.Errorf("note %q: %w", id, ErrNotFound)
	}
	return s.notes[i].clone(), nil
}

// Preferences returns the current preferences.
func (s *Service) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// SetPreferences replaces the preferences.
func (s *Service) SetPreferences(p Preferences) error {
	if !p.Theme.Valid() {
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidInput, p.Theme)
	}
	if p.ViewMode != ViewGrid && p.ViewMode != ViewList {
		return fmt.Errorf("%w: unknown view mode %q", ErrInvalidInput, p.ViewMode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = p
	s.markDirty(dirtyPreferences)
	return nil
}

func (s *Service) indexOfNote(id string) int {
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) now() int64 {
	return s.opts.clock().UnixMilli()
}
