package platform

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/smartnotes/pkg/adapters/badger"
	"github.com/aretw0/smartnotes/pkg/adapters/fs"
	"github.com/aretw0/smartnotes/pkg/adapters/memory"
	"github.com/aretw0/smartnotes/pkg/adapters/sqlite"
	"github.com/aretw0/smartnotes/pkg/core"
)

// File and directory names inside a data directory.
const (
	BadgerDirName  = "badger"
	SQLiteFileName = "smartnotes.db"
)

// Adapters lists the accepted adapter names.
func Adapters() []string {
	return []string{AdapterMemory, AdapterFS, AdapterBadger, AdapterSQLite}
}

// OpenStore builds the store selected by the options without initializing it.
// The 'uri' argument is the data directory; sqlite also accepts ":memory:".
// It returns the store and the resolved data directory ("" for in-memory stores).
func OpenStore(uri string, opts ...Option) (core.Store, string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return openStore(uri, o)
}

func openStore(uri string, o *options) (core.Store, string, error) {
	if o.store != nil {
		return o.store, "", nil
	}

	if o.adapter == AdapterMemory || (o.adapter == AdapterSQLite && uri == sqlite.MemoryPath) {
		if o.adapter == AdapterMemory {
			return memory.NewStore(), "", nil
		}
		return sqlite.NewStore(sqlite.Config{Path: sqlite.MemoryPath, Logger: o.logger}), "", nil
	}

	path := resolvePath(uri, o)
	if o.mustExist {
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			return nil, "", fmt.Errorf("data directory does not exist: %s", path)
		}
	}

	switch o.adapter {
	case AdapterFS:
		return fs.NewStore(fs.Config{Path: path, MustExist: o.mustExist, Logger: o.logger}), path, nil
	case AdapterBadger:
		cfg := badger.DefaultConfig(filepath.Join(path, BadgerDirName))
		cfg.SyncWrites = o.syncWrites
		cfg.Logger = o.logger
		return badger.NewStore(cfg), path, nil
	case AdapterSQLite:
		return sqlite.NewStore(sqlite.Config{Path: filepath.Join(path, SQLiteFileName), Logger: o.logger}), path, nil
	default:
		return nil, "", fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// resolvePath applies the dev sandbox rules to the data directory.
func resolvePath(uri string, o *options) string {
	useTemp := o.forceTemp || (IsDevRun() && o.devSafety)
	resolved := ResolveDataPath(uri, useTemp)

	if o.logger != nil && IsDevRun() {
		if o.devSafety {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		} else {
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}
	if o.logger != nil && useTemp && resolved != uri {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", uri, "resolved_path", resolved)
	}
	return resolved
}

func loggerOf(o *options) *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}
