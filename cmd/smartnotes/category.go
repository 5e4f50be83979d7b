package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/smartnotes/internal/platform"
	"github.com/aretw0/smartnotes/pkg/core"
)

func newCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}
	cmd.AddCommand(
		newCategoryListCmd(a),
		newCategoryAddCmd(a),
		newCategoryEditCmd(a),
		newCategoryPinCmd(a),
		newCategoryRmCmd(a),
	)
	return cmd
}

// findCategory resolves an id or a case-insensitive name.
func findCategory(svc *core.Service, ref string) (core.Category, error) {
	for _, c := range svc.Categories() {
		if c.ID == ref || strings.EqualFold(c.Name, strings.TrimSpace(ref)) {
			return c, nil
		}
	}
	return core.Category{}, fmt.Errorf("category %q: %w", ref, core.ErrNotFound)
}

func parseColorFlag(s string) (core.Color, error) {
	c, ok := core.ParseColor(s)
	if !ok {
		names := make([]string, len(core.Palette))
		for i, p := range core.Palette {
			names[i] = string(p)
		}
		return "", fmt.Errorf("%w: unknown color %q (one of %s)", core.ErrInvalidInput, s, strings.Join(names, ", "))
	}
	return c, nil
}

func newCategoryListCmd(a *app) *cobra.Command {
	var (
		search string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories, pinned first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := a.cfg.CoreLocale()
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				view := sess.Service.View(core.ViewState{Category: core.AllCategories(), CategorySearch: search}, loc)
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(view.Categories)
				}
				for _, c := range view.Categories {
					renderCategoryLine(cmd.OutOrStdout(), c, view.Counters.PerCategory[c.Name])
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "substring filter on names")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newCategoryAddCmd(a *app) *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseColorFlag(color)
			if err != nil {
				return err
			}
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				created, err := sess.Service.CreateCategory(args[0], c)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s %s\n", created.ID, chip(created.Name, created.Color))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&color, "color", string(core.ColorBlue), "palette color")
	return cmd
}

func newCategoryEditCmd(a *app) *cobra.Command {
	var name, color string
	cmd := &cobra.Command{
		Use:   "edit <id|name>",
		Short: "Rename or recolor a category; notes follow the rename",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch core.CategoryPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("color") {
				c, err := parseColorFlag(color)
				if err != nil {
					return err
				}
				patch.Color = &c
			}
			if patch.Name == nil && patch.Color == nil {
				return fmt.Errorf("nothing to change: pass --name or --color")
			}
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				c, err := findCategory(sess.Service, args[0])
				if err != nil {
					return err
				}
				updated, err := sess.Service.UpdateCategory(c.ID, patch)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %s %s\n", updated.ID, chip(updated.Name, updated.Color))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&color, "color", "", "new palette color")
	return cmd
}

func newCategoryPinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id|name>",
		Short: "Toggle the pin of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				c, err := findCategory(sess.Service, args[0])
				if err != nil {
					return err
				}
				pinned := !c.IsPinned
				updated, err := sess.Service.UpdateCategory(c.ID, core.CategoryPatch{IsPinned: &pinned})
				if err != nil {
					return err
				}
				state := "unpinned"
				if updated.IsPinned {
					state = "pinned"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, updated.Name)
				return nil
			})
		},
	}
}

func newCategoryRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id|name>",
		Aliases: []string{"delete"},
		Short:   "Delete a category and strip it from every note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				c, err := findCategory(sess.Service, args[0])
				if err != nil {
					return err
				}
				if err := sess.Service.DeleteCategory(c.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", c.Name)
				return nil
			})
		},
	}
}
