package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/smartnotes/internal/platform"
	"github.com/aretw0/smartnotes/pkg/core"
)

type bulkFlags struct {
	filterFlags
	search string
}

func (f *bulkFlags) register(cmd *cobra.Command) {
	f.filterFlags.register(cmd)
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "select every note matching this search")
}

// selection builds the target set: explicit ids, or every visible note under the filters.
func (f *bulkFlags) selection(a *app, sess *platform.Session, ids []string) (*core.Selection, core.SelectionStatus, error) {
	loc := a.cfg.CoreLocale()
	vs, err := f.viewState(f.search, loc.Location)
	if err != nil {
		return nil, core.SelectionStatus{}, err
	}
	visible := sess.Service.View(vs, loc).Notes

	sel := core.NewSelection(ids...)
	if len(ids) == 0 {
		sel.SelectAll(visible)
	}
	return sel, sel.Status(visible), nil
}

func newBulkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Act on many notes at once",
		Long: `Bulk commands act on the ids given as arguments or, without ids,
on every note visible under the filter flags.`,
	}
	cmd.AddCommand(newBulkTagCmd(a), newBulkDeleteCmd(a))
	return cmd
}

func newBulkTagCmd(a *app) *cobra.Command {
	f := &bulkFlags{}
	cmd := &cobra.Command{
		Use:   "tag <category> [id...]",
		Short: "Toggle a category across the selection",
		Long: `If every selected note already has the category it is removed from all of them;
otherwise it is added to the notes lacking it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				c, err := findCategory(sess.Service, args[0])
				if err != nil {
					return err
				}
				sel, _, err := f.selection(a, sess, args[1:])
				if err != nil {
					return err
				}
				if sel.Len() == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing selected")
					return nil
				}
				res, err := sess.Service.BulkToggleCategory(sel.IDs(), c.Name)
				if err != nil {
					return err
				}
				verb := "added to"
				if res.Removed {
					verb = "removed from"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d notes\n", chip(c.Name, c.Color), verb, res.Affected)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newBulkDeleteCmd(a *app) *cobra.Command {
	f := &bulkFlags{}
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete [id...]",
		Short: "Delete the selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				sel, status, err := f.selection(a, sess, args)
				if err != nil {
					return err
				}
				if sel.Len() == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing selected")
					return nil
				}
				if !yes {
					fmt.Fprintf(cmd.OutOrStdout(), "would delete %d notes (%d in view); rerun with --yes to confirm\n", sel.Len(), status.InView)
					return nil
				}
				removed, err := sess.Service.DeleteNotes(sel.IDs())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d notes\n", removed)
				return nil
			})
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	return cmd
}
