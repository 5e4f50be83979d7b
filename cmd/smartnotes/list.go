package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/aretw0/smartnotes/internal/platform"
	"github.com/aretw0/smartnotes/pkg/core"
)

// filterFlags are shared by list and the bulk commands.
type filterFlags struct {
	category      string
	uncategorized bool
	from          string
	to            string
	sort          string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "only notes in this category")
	cmd.Flags().BoolVar(&f.uncategorized, "uncategorized", false, "only notes without categories")
	cmd.Flags().StringVar(&f.from, "from", "", "first day to include (any common date format)")
	cmd.Flags().StringVar(&f.to, "to", "", "last day to include (any common date format)")
	cmd.Flags().StringVar(&f.sort, "sort", string(core.SortNewest), "newest, oldest, az or za")
}

// viewState translates the flags into a view state evaluated in loc.
func (f *filterFlags) viewState(search string, loc *time.Location) (core.ViewState, error) {
	vs := core.ViewState{Search: search, Category: core.AllCategories(), Sort: core.SortOption(f.sort)}
	switch vs.Sort {
	case core.SortNewest, core.SortOldest, core.SortAZ, core.SortZA:
	default:
		return vs, fmt.Errorf("unknown sort %q", f.sort)
	}

	if f.uncategorized && f.category != "" {
		return vs, fmt.Errorf("--category and --uncategorized are exclusive")
	}
	if f.uncategorized {
		vs.Category = core.Uncategorized()
	} else if f.category != "" {
		vs.Category = core.InCategory(f.category)
	}

	var err error
	if vs.DateRange.Start, err = parseDay(f.from, loc); err != nil {
		return vs, err
	}
	if vs.DateRange.End, err = parseDay(f.to, loc); err != nil {
		return vs, err
	}
	return vs, nil
}

func parseDay(s string, loc *time.Location) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t.In(loc).Format(core.DateLayout), nil
}

func newListCmd(a *app) *cobra.Command {
	f := &filterFlags{}
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list [search]",
		Aliases: []string{"ls"},
		Short:   "List the visible notes",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := a.cfg.CoreLocale()
			vs, err := f.viewState(strings.Join(args, " "), loc.Location)
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				view := sess.Service.View(vs, loc)
				out := cmd.OutOrStdout()

				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(view)
				}

				colors := categoryColors(view.Categories)
				for _, n := range view.Notes {
					renderNoteLine(out, n, colors)
				}
				fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d of %d notes, %d uncategorized, capacity %.1f%%",
					len(view.Notes), view.Counters.All, view.Counters.Uncategorized, view.Counters.CapacityPercent)))
				return nil
			})
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}
