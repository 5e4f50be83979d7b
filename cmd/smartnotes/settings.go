package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/smartnotes/internal/platform"
	"github.com/aretw0/smartnotes/pkg/core"
)

// preferenceKeys lists the keys accepted by settings get/set.
var preferenceKeys = []string{
	core.SettingNickname,
	core.SettingTheme,
	core.SettingViewMode,
	core.SettingMicEnabled,
	core.SettingAIEnabled,
	core.SettingHideSystemNotes,
}

func preferenceMap(p core.Preferences) map[string]any {
	return map[string]any{
		core.SettingNickname:        p.Nickname,
		core.SettingTheme:           p.Theme,
		core.SettingViewMode:        p.ViewMode,
		core.SettingMicEnabled:      p.MicEnabled,
		core.SettingAIEnabled:       p.AIEnabled,
		core.SettingHideSystemNotes: p.HideSystemNotes,
	}
}

// setPreference parses value for key into p.
func setPreference(p *core.Preferences, key, value string) error {
	parseBool := func(dst *bool) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false", core.ErrInvalidInput, key)
		}
		*dst = b
		return nil
	}

	switch key {
	case core.SettingNickname:
		p.Nickname = strings.TrimSpace(value)
	case core.SettingTheme:
		c, err := parseColorFlag(value)
		if err != nil {
			return err
		}
		p.Theme = c
	case core.SettingViewMode:
		switch m := core.ViewMode(strings.ToLower(value)); m {
		case core.ViewGrid, core.ViewList:
			p.ViewMode = m
		default:
			return fmt.Errorf("%w: viewMode is grid or list", core.ErrInvalidInput)
		}
	case core.SettingMicEnabled:
		return parseBool(&p.MicEnabled)
	case core.SettingAIEnabled:
		return parseBool(&p.AIEnabled)
	case core.SettingHideSystemNotes:
		return parseBool(&p.HideSystemNotes)
	default:
		return fmt.Errorf("unknown setting %q (one of %s)", key, strings.Join(preferenceKeys, ", "))
	}
	return nil
}

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read or change preferences",
	}

	get := &cobra.Command{
		Use:   "get [key]",
		Short: "Print one preference, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				prefs := preferenceMap(sess.Service.Preferences())
				if len(args) == 1 {
					v, ok := prefs[args[0]]
					if !ok {
						return fmt.Errorf("unknown setting %q (one of %s)", args[0], strings.Join(preferenceKeys, ", "))
					}
					fmt.Fprintln(cmd.OutOrStdout(), v)
					return nil
				}
				keys := make([]string, 0, len(prefs))
				for k := range prefs {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					v, _ := json.Marshal(prefs[k])
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, v)
				}
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				p := sess.Service.Preferences()
				if err := setPreference(&p, args[0], args[1]); err != nil {
					return err
				}
				if err := sess.Service.SetPreferences(p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%v\n", args[0], preferenceMap(p)[args[0]])
				return nil
			})
		},
	}

	cmd.AddCommand(get, set)
	return cmd
}
