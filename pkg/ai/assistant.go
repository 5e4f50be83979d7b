package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/smartnotes/pkg/core"
)

// Assistant runs transforms on notes of a service and writes the results back.
// The remote call works on a snapshot with no lock held. The write-back is conditional:
// a note deleted meanwhile fails with core.ErrNotFound, a note edited meanwhile with
// core.ErrStale, and in both cases the result is dropped.
type Assistant struct {
	t      Transformer
	svc    *core.Service
	logger *slog.Logger
}

// NewAssistant binds a transformer to a service.
func NewAssistant(t Transformer, svc *core.Service, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{t: t, svc: svc, logger: logger}
}

// ImproveOptions selects which parts of a suggestion are applied.
type ImproveOptions struct {
	Text       bool
	Title      bool
	Summary    bool
	Categories bool
}

// ApplyAll applies every part of a suggestion.
func ApplyAll() ImproveOptions {
	return ImproveOptions{Text: true, Title: true, Summary: true, Categories: true}
}

func (a *Assistant) snapshot(id string) (core.Note, error) {
	if a.t == nil || !a.svc.Preferences().AIEnabled {
		return core.Note{}, ErrAIDisabled
	}
	n, err := a.svc.Note(id)
	if err != nil {
		return core.Note{}, err
	}
	if n.IsSystem() && !a.svc.Privileged() {
		return core.Note{}, fmt.Errorf("note %q: %w", id, core.ErrPermissionDenied)
	}
	return n, nil
}

func (a *Assistant) apply(read core.Note, patch core.NotePatch, op string) (core.Note, error) {
	n, err := a.svc.UpdateNoteIfUnchanged(read, patch)
	if err != nil {
		a.logger.Warn("ai result discarded", "op", op, "id", read.ID, "error", err)
		return core.Note{}, err
	}
	a.logger.Info("ai result applied", "op", op, "id", read.ID)
	return n, nil
}

// Summarize stores a one-sentence summary on the note.
func (a *Assistant) Summarize(ctx context.Context, id string) (core.Note, error) {
	n, err := a.snapshot(id)
	if err != nil {
		return core.Note{}, err
	}
	summary, err := a.t.Summarize(ctx, n.Title, n.Content)
	if err != nil {
		return core.Note{}, err
	}
	return a.apply(n, core.NotePatch{Summary: &summary}, "summarize")
}

// Improve asks for a rewrite. With a zero ImproveOptions nothing is written.
func (a *Assistant) Improve(ctx context.Context, id string, opts ImproveOptions) (Suggestion, core.Note, error) {
	n, err := a.snapshot(id)
	if err != nil {
		return Suggestion{}, core.Note{}, err
	}
	names := make([]string, 0)
	for _, c := range a.svc.Categories() {
		names = append(names, c.Name)
	}
	s, err := a.t.Improve(ctx, n.Title, n.Content, names)
	if err != nil {
		return Suggestion{}, core.Note{}, err
	}
	s.SuggestedCategories = restrictCategories(s.SuggestedCategories, names)

	var patch core.NotePatch
	changed := false
	if opts.Text && strings.TrimSpace(s.ImprovedText) != "" {
		patch.Content = &s.ImprovedText
		changed = true
	}
	if opts.Title && strings.TrimSpace(s.SuggestedTitle) != "" {
		patch.Title = &s.SuggestedTitle
		changed = true
	}
	if opts.Summary && strings.TrimSpace(s.Summary) != "" {
		patch.Summary = &s.Summary
		changed = true
	}
	if opts.Categories && len(s.SuggestedCategories) > 0 {
		merged := append(append([]string(nil), n.Categories...), s.SuggestedCategories...)
		patch.Categories = &merged
		changed = true
	}
	if !changed {
		return s, n, nil
	}
	updated, err := a.apply(n, patch, "improve")
	if err != nil {
		return s, core.Note{}, err
	}
	return s, updated, nil
}

// VerifyFacts appends the fact-check report and its sources to the note content.
func (a *Assistant) VerifyFacts(ctx context.Context, id string) (Verification, core.Note, error) {
	n, err := a.snapshot(id)
	if err != nil {
		return Verification{}, core.Note{}, err
	}
	v, err := a.t.VerifyFacts(ctx, n.Content)
	if err != nil {
		return Verification{}, core.Note{}, err
	}
	content := n.Content + "\n\n---\n**Fact check:**\n" + v.Markdown()
	updated, err := a.apply(n, core.NotePatch{Content: &content}, "verify")
	if err != nil {
		return v, core.Note{}, err
	}
	return v, updated, nil
}

// Translate replaces the title and content with their translation.
func (a *Assistant) Translate(ctx context.Context, id, language string) (core.Note, error) {
	if strings.TrimSpace(language) == "" {
		return core.Note{}, fmt.Errorf("%w: target language is required", core.ErrInvalidInput)
	}
	n, err := a.snapshot(id)
	if err != nil {
		return core.Note{}, err
	}
	tr, err := a.t.Translate(ctx, n.Title, n.Content, language)
	if err != nil {
		return core.Note{}, err
	}
	return a.apply(n, core.NotePatch{Title: &tr.Title, Content: &tr.Content}, "translate")
}
