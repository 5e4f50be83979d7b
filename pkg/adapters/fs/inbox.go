package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/smartnotes/pkg/core"
)

// DefaultInboxPattern matches every importable document at any depth.
const DefaultInboxPattern = "**/*.{json,yaml,yml}"

const inboxDebounce = 50 * time.Millisecond

// Importer merges a decoded document. *core.Service satisfies it.
type Importer interface {
	Import(doc core.Document) core.ImportReport
}

// InboxConfig configures a watched import directory.
type InboxConfig struct {
	Dir     string
	Pattern string
	Logger  *slog.Logger

	// OnImport is called after every file, successful or not.
	OnImport func(path string, report core.ImportReport, err error)
}

// Inbox watches a directory and imports every matching document dropped into it.
// Files already present when it starts are imported by an initial scan.
type Inbox struct {
	*worker.BaseWorker
	config   InboxConfig
	importer Importer
	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc

	mu        sync.Mutex
	stopping  bool
	timers    map[string]*time.Timer
	inflight  sync.WaitGroup
	processed int
	failed    int
}

// NewInbox creates an inbox worker feeding importer.
func NewInbox(config InboxConfig, importer Importer) *Inbox {
	if config.Pattern == "" {
		config.Pattern = DefaultInboxPattern
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Inbox{
		BaseWorker: worker.NewBaseWorker("inbox-watcher"),
		config:     config,
		importer:   importer,
		timers:     make(map[string]*time.Timer),
	}
}

func (in *Inbox) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	status := in.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("inbox already started (status: %s)", status)
	}
	if !doublestar.ValidatePattern(in.config.Pattern) {
		return fmt.Errorf("invalid inbox pattern %q", in.config.Pattern)
	}
	if err := os.MkdirAll(in.config.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create inbox directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := in.addRecursive(watcher, in.config.Dir); err != nil {
		_ = watcher.Close()
		return err
	}
	in.watcher = watcher

	runCtx, cancel := context.WithCancel(ctx)
	in.cancel = cancel

	in.SetStatus(worker.StatusRunning)
	in.scan(runCtx)
	return in.StartFunc(runCtx, in.run)
}

func (in *Inbox) Stop(ctx context.Context) error {
	if in.cancel != nil {
		in.StopRequested = true
		in.cancel()
	}
	return in.BaseWorker.Stop(ctx)
}

func (in *Inbox) State() worker.State {
	return in.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"dir":               in.config.Dir,
			"pattern":           in.config.Pattern,
		}
	})
}

func (in *Inbox) addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// scan imports the files already sitting in the inbox.
func (in *Inbox) scan(ctx context.Context) {
	matches, err := doublestar.Glob(os.DirFS(in.config.Dir), in.config.Pattern)
	if err != nil {
		in.config.Logger.Warn("inbox scan failed", "dir", in.config.Dir, "error", err)
		return
	}
	for _, rel := range matches {
		in.dispatch(ctx, filepath.Join(in.config.Dir, filepath.FromSlash(rel)))
	}
}

// matches reports whether an absolute path falls under the inbox pattern.
func (in *Inbox) matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, TempFilePrefix) || strings.HasPrefix(base, ".") {
		return false
	}
	rel, err := filepath.Rel(in.config.Dir, path)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(in.config.Pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

func (in *Inbox) run(ctx context.Context) error {
	defer in.drain()
	defer in.watcher.Close()
	defer in.cancel()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-in.watcher.Events:
			if !ok {
				if in.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			in.handle(ctx, event)

		case wErr, ok := <-in.watcher.Errors:
			if !ok {
				if in.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			in.config.Logger.Error("fsnotify error", "error", wErr)
		}
	}
}

func (in *Inbox) handle(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := in.addRecursive(in.watcher, event.Name); err != nil {
				in.config.Logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}
	if !in.matches(event.Name) {
		return
	}
	in.debounce(ctx, event.Name)
}

// debounce collapses the create/write bursts of a single file copy into one import.
func (in *Inbox) debounce(ctx context.Context, path string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.stopping {
		return
	}
	if t, ok := in.timers[path]; ok {
		t.Stop()
	}
	in.timers[path] = time.AfterFunc(inboxDebounce, func() {
		in.mu.Lock()
		delete(in.timers, path)
		in.mu.Unlock()
		in.dispatch(ctx, path)
	})
}

// drain refuses new dispatches, cancels pending timers and waits for running imports.
func (in *Inbox) drain() {
	in.mu.Lock()
	in.stopping = true
	for path, t := range in.timers {
		t.Stop()
		delete(in.timers, path)
	}
	in.mu.Unlock()

	in.inflight.Wait()
}

func (in *Inbox) dispatch(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	in.mu.Lock()
	if in.stopping {
		in.mu.Unlock()
		return
	}
	in.inflight.Add(1)
	in.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer in.inflight.Done()
		_, err := in.ImportFile(ctx, path)
		return err
	}, lifecycle.WithErrorHandler(func(err error) {
		in.config.Logger.Error("inbox import panic", "path", path, "error", err)
	}))
}

// ImportFile decodes one file and merges it. The format follows the file extension.
func (in *Inbox) ImportFile(ctx context.Context, path string) (core.ImportReport, error) {
	report, err := importFile(ctx, path, in.importer)

	in.mu.Lock()
	if err != nil {
		in.failed++
	} else {
		in.processed++
	}
	in.mu.Unlock()

	if err != nil {
		in.config.Logger.Warn("inbox file rejected", "path", path, "error", err)
	} else {
		in.config.Logger.Info("inbox file imported",
			"path", path,
			"notes_added", report.NotesAdded,
			"categories_added", report.CategoriesAdded,
		)
	}
	if in.config.OnImport != nil {
		in.config.OnImport(path, report, err)
	}
	return report, err
}

func importFile(ctx context.Context, path string, importer Importer) (core.ImportReport, error) {
	if err := ctx.Err(); err != nil {
		return core.ImportReport{}, err
	}
	doc, err := ReadDocument(path)
	if err != nil {
		return core.ImportReport{}, err
	}
	return importer.Import(doc), nil
}

// Counts returns how many files were imported and rejected so far.
func (in *Inbox) Counts() (processed, failed int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.processed, in.failed
}
