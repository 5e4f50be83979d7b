package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/smartnotes/pkg/typed"
)

// markDirty records which collections changed and wakes the flusher.
// Callers must hold s.mu.
func (s *Service) markDirty(f dirtyFlags) {
	s.dirty |= f
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// Start launches the background flusher and, when a recovery slot is configured,
// the periodic snapshot. It returns immediately; Close stops both.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	interval := s.opts.limits.SnapshotInterval
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(done)

		var tick <-chan time.Time
		if s.opts.recovery != nil && interval > 0 {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-s.signal:
				if err := s.Flush(ctx); err != nil && !errors.Is(err, context.Canceled) {
					s.logger.Error("background sync failed", "error", err)
				}
			case <-tick:
				if err := s.Snapshot(ctx); err != nil && !errors.Is(err, context.Canceled) {
					s.logger.Warn("recovery snapshot failed", "error", err)
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("sync loop panic", "error", err)
	}))
}

// Flush writes every dirty collection to the store.
// On failure the flags stay set so the next flush retries; the in-memory state is kept.
// Flushes run one at a time so an older copy never lands after a newer one.
func (s *Service) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	flags := s.dirty
	s.dirty = 0
	notes := cloneNotes(s.notes)
	categories := append([]Category(nil), s.categories...)
	prefs := s.prefs
	s.mu.Unlock()

	if flags == 0 {
		return nil
	}

	var errs []error
	if flags&dirtyNotes != 0 {
		if err := s.store.SaveNotes(ctx, notes); err != nil {
			errs = append(errs, fmt.Errorf("failed to save notes: %w", err))
		} else {
			flags &^= dirtyNotes
		}
	}
	if flags&dirtyCategories != 0 {
		if err := typed.NewSetting(s.store, SettingCategories, categories).Put(ctx, categories); err != nil {
			errs = append(errs, fmt.Errorf("failed to save categories: %w", err))
		} else {
			flags &^= dirtyCategories
		}
	}
	if flags&dirtyPreferences != 0 {
		if err := s.savePreferences(ctx, prefs); err != nil {
			errs = append(errs, fmt.Errorf("failed to save preferences: %w", err))
		} else {
			flags &^= dirtyPreferences
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(errs) > 0 {
		s.dirty |= flags
		s.syncErrors++
		return errors.Join(errs...)
	}
	s.lastSync = s.opts.clock()
	s.logger.Debug("store synced", "notes", len(notes), "categories", len(categories))
	return nil
}

// Snapshot writes the full state to the recovery slot.
func (s *Service) Snapshot(ctx context.Context) error {
	if s.opts.recovery == nil {
		return fmt.Errorf("recovery slot: %w", ErrNotFound)
	}
	s.mu.RLock()
	snap := Snapshot{
		Notes:      cloneNotes(s.notes),
		Categories: append([]Category(nil), s.categories...),
		Timestamp:  s.now(),
	}
	s.mu.RUnlock()

	if err := s.opts.recovery.WriteSnapshot(ctx, snap); err != nil {
		return err
	}
	s.mu.Lock()
	s.lastSnapshot = s.opts.clock()
	s.mu.Unlock()
	return nil
}

// RestoreFromRecovery replaces the collections with the last recovery snapshot.
// Preferences are untouched. The restored state is synced on the next flush.
func (s *Service) RestoreFromRecovery(ctx context.Context) (Snapshot, error) {
	if s.opts.recovery == nil {
		return Snapshot{}, fmt.Errorf("recovery slot: %w", ErrNotFound)
	}
	snap, err := s.opts.recovery.ReadSnapshot(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = make([]Note, 0, len(snap.Notes))
	for _, n := range snap.Notes {
		n.Categories = normalizeCategories(n.Categories)
		s.notes = append(s.notes, n)
	}
	s.categories = sanitizeCategories(snap.Categories)
	s.markDirty(dirtyNotes | dirtyCategories)

	s.logger.Info("restored from recovery snapshot", "notes", len(s.notes), "timestamp", snap.Timestamp)
	return snap, nil
}

// Close stops the background loop and flushes pending changes.
// The store itself is left open; its owner closes it.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.Flush(ctx)
}
