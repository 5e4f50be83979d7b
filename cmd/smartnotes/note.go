package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/smartnotes/internal/platform"
	"github.com/aretw0/smartnotes/pkg/core"
)

type noteFlags struct {
	title      string
	content    string
	summary    string
	author     string
	categories []string
	pin        bool
	force      bool
}

func (f *noteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "note title")
	cmd.Flags().StringVarP(&f.content, "content", "c", "", "note body")
	cmd.Flags().StringVar(&f.summary, "summary", "", "short summary")
	cmd.Flags().StringVar(&f.author, "author", "", "author (default: your nickname)")
	cmd.Flags().StringSliceVarP(&f.categories, "category", "C", nil, "category name (repeatable)")
	cmd.Flags().BoolVar(&f.pin, "pin", false, "pin the note")
	cmd.Flags().BoolVar(&f.force, "force", false, "save even when an identical note exists")
}

func newNoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Create, show, edit, pin and delete notes",
	}
	cmd.AddCommand(
		newNoteAddCmd(a),
		newNoteShowCmd(a),
		newNoteEditCmd(a),
		newNotePinCmd(a),
		newNoteRmCmd(a),
	)
	return cmd
}

// saveDraft runs Save and, when forced, confirms the duplicate prompt.
func saveDraft(ed *core.Editor, force bool) (core.Note, error) {
	n, err := ed.Save()
	if errors.Is(err, core.ErrDuplicateNote) {
		if !force {
			return core.Note{}, fmt.Errorf("%w (use --force to save anyway)", err)
		}
		return ed.ConfirmSave()
	}
	return n, err
}

func newNoteAddCmd(a *app) *cobra.Command {
	f := &noteFlags{}
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a note",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				f.title = args[0]
			}
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				ed := core.NewEditor(sess.Service)
				if err := ed.OpenNew(); err != nil {
					return err
				}
				if err := ed.Edit(core.Draft{
					Title:      f.title,
					Content:    f.content,
					Summary:    f.summary,
					Author:     f.author,
					Categories: f.categories,
					IsPinned:   f.pin,
				}); err != nil {
					return err
				}
				n, err := saveDraft(ed, f.force)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n.ID)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newNoteShowCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				n, err := sess.Service.Note(args[0])
				if err != nil {
					return err
				}
				if n.IsSystem() && !sess.Service.Privileged() {
					return fmt.Errorf("note %s: %w", n.ID, core.ErrNotFound)
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(n)
				}
				renderNote(cmd.OutOrStdout(), n, sess.Service.Categories())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newNoteEditCmd(a *app) *cobra.Command {
	f := &noteFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the fields of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				ed := core.NewEditor(sess.Service)
				if err := ed.Open(args[0]); err != nil {
					return err
				}
				d := ed.Draft()
				if cmd.Flags().Changed("title") {
					d.Title = f.title
				}
				if cmd.Flags().Changed("content") {
					d.Content = f.content
				}
				if cmd.Flags().Changed("summary") {
					d.Summary = f.summary
				}
				if cmd.Flags().Changed("author") {
					d.Author = f.author
				}
				if cmd.Flags().Changed("category") {
					d.Categories = f.categories
				}
				if cmd.Flags().Changed("pin") {
					d.IsPinned = f.pin
				}
				if err := ed.Edit(d); err != nil {
					if errors.Is(err, core.ErrReadOnly) {
						return fmt.Errorf("%w: system notes need --admin", err)
					}
					return err
				}
				n, err := saveDraft(ed, f.force)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", n.ID)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newNotePinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Toggle the pin of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				n, err := sess.Service.TogglePin(args[0])
				if err != nil {
					return err
				}
				state := "unpinned"
				if n.IsPinned {
					state = "pinned"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, n.ID)
				return nil
			})
		},
	}
}

func newNoteRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete notes",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				if len(args) == 1 {
					if _, err := sess.Service.Note(args[0]); err != nil {
						return err
					}
					if err := sess.Service.DeleteNote(args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
					return nil
				}
				removed, err := sess.Service.DeleteNotes(args)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d of %s\n", removed, strings.Join(args, ", "))
				return nil
			})
		},
	}
}
