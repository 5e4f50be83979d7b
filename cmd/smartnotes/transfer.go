package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/smartnotes/internal/platform"
	"github.com/aretw0/smartnotes/pkg/adapters/fs"
	"github.com/aretw0/smartnotes/pkg/core"
)

func newExportCmd(a *app) *cobra.Command {
	var notes, categories bool
	cmd := &cobra.Command{
		Use:   "export <file|->",
		Short: "Export notes and categories as JSON or YAML",
		Long: `Export writes a document with "notes" and "categories" arrays.
The format follows the file extension (.json, .yaml, .yml); "-" writes JSON to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("notes") && !cmd.Flags().Changed("categories") {
				notes, categories = true, true
			}
			if !notes && !categories {
				return fmt.Errorf("nothing to export")
			}
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				doc := sess.Service.Export(core.ExportOptions{Notes: notes, Categories: categories})
				if args[0] == "-" {
					return core.EncodeDocument(cmd.OutOrStdout(), doc, core.FormatJSON)
				}
				if err := fs.WriteDocument(args[0], doc); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d notes and %d categories to %s\n",
					len(doc.Notes), len(doc.Categories), args[0])
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&notes, "notes", false, "include notes")
	cmd.Flags().BoolVar(&categories, "categories", false, "include categories")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var dryRun, watch bool
	cmd := &cobra.Command{
		Use:   "import <file> | --watch [dir]",
		Short: "Merge an exported document into your notes",
		Long: `Import adds the notes and categories whose ids (and category names) are new.
Existing entries are never overwritten, so importing the same file twice is harmless.

With --watch, every .json/.yaml file dropped into the inbox directory is imported
until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				dir := a.cfg.Inbox
				if len(args) == 1 {
					dir = args[0]
				}
				return a.watchInbox(cmd, dir)
			}
			if len(args) != 1 {
				return fmt.Errorf("import needs a file (or --watch)")
			}

			doc, err := fs.ReadDocument(args[0])
			if err != nil {
				return err
			}
			if dryRun {
				p := core.PreviewImport(doc)
				fmt.Fprintf(cmd.OutOrStdout(), "%d notes, %d categories", p.Notes, p.Categories)
				if len(p.Authors) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), " by %s", strings.Join(p.Authors, ", "))
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			}
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				report := sess.Service.Import(doc)
				printReport(cmd, args[0], report)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only preview what the file contains")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep importing files dropped into the inbox directory")
	return cmd
}

func printReport(cmd *cobra.Command, path string, r core.ImportReport) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s import, %d notes and %d categories added (%d and %d skipped)\n",
		path, r.Outcome(), r.NotesAdded, r.CategoriesAdded, r.NotesSkipped, r.CategoriesSkipped)
}

// watchInbox runs the session with background sync while the inbox feeds it.
func (a *app) watchInbox(cmd *cobra.Command, dir string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.withSession(ctx, func(sess *platform.Session) error {
		sess.Service.Start(ctx)

		inbox := fs.NewInbox(fs.InboxConfig{
			Dir:    dir,
			Logger: a.logger,
			OnImport: func(path string, report core.ImportReport, err error) {
				if err == nil {
					printReport(cmd, path, report)
				}
			},
		}, sess.Service)
		if err := inbox.Start(ctx); err != nil {
			return err
		}
		a.logger.Info("watching inbox", "dir", dir)

		<-ctx.Done()
		processed, failed := inbox.Counts()
		a.logger.Info("inbox stopped", "imported", processed, "rejected", failed)
		return inbox.Stop(context.WithoutCancel(ctx))
	})
}
