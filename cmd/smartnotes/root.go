package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/smartnotes/internal/config"
	"github.com/aretw0/smartnotes/internal/platform"
)

// app carries the resolved configuration between the root command and its children.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "smartnotes",
		Short: "Local-first notes with categories, pins and an AI collaborator",
		Long: `smartnotes keeps your notes and categories in a local store (BadgerDB, SQLite or JSON files).
Every mutation is validated against the collection limits and flushed on exit;
a recovery snapshot is kept next to the store.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			opts := &slog.HandlerOptions{
				Level: level,
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
			slog.SetDefault(a.logger)

			if cfg.File != "" {
				a.logger.Debug("config loaded", "file", cfg.File)
			}
			return nil
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newNoteCmd(a),
		newListCmd(a),
		newCategoryCmd(a),
		newBulkCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newAICmd(a),
		newSettingsCmd(a),
		newRecoverCmd(a),
		newStatusCmd(a),
		newVersionCmd(),
	)
	return root
}

// withSession opens the configured session, runs fn and flushes on the way out.
func (a *app) withSession(ctx context.Context, fn func(*platform.Session) error) error {
	sess, err := platform.New(ctx, a.cfg.DataDir, a.cfg.PlatformOptions(a.logger)...)
	if err != nil {
		return fmt.Errorf("failed to open notes: %w", err)
	}
	runErr := fn(sess)
	return errors.Join(runErr, sess.Close(context.WithoutCancel(ctx)))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
