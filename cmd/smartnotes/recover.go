package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/smartnotes/internal/platform"
	"github.com/aretw0/smartnotes/pkg/core"
)

func newRecoverCmd(a *app) *cobra.Command {
	var restore, snapshot bool
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Inspect, write or restore the recovery snapshot",
		Long: `The recovery snapshot is a full copy of notes and categories kept apart from the store.
It is refreshed every 30 seconds while a long-running command (import --watch) is active.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if restore && snapshot {
				return fmt.Errorf("--restore and --snapshot are exclusive")
			}
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				if sess.Recovery == nil {
					return fmt.Errorf("the %s adapter keeps no recovery snapshot: %w", a.cfg.Adapter, core.ErrNotFound)
				}
				out := cmd.OutOrStdout()
				switch {
				case snapshot:
					if err := sess.Service.Snapshot(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintf(out, "snapshot written to %s\n", sess.Recovery.Path())
				case restore:
					snap, err := sess.Service.RestoreFromRecovery(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "restored %d notes and %d categories from %s\n",
						len(snap.Notes), len(snap.Categories), time.UnixMilli(snap.Timestamp).Local().Format(time.RFC3339))
				default:
					snap, err := sess.Recovery.ReadSnapshot(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s\n%d notes, %d categories, taken %s\n", sess.Recovery.Path(),
						len(snap.Notes), len(snap.Categories), time.UnixMilli(snap.Timestamp).Local().Format(time.RFC3339))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&restore, "restore", false, "replace notes and categories with the snapshot")
	cmd.Flags().BoolVar(&snapshot, "snapshot", false, "write a snapshot now")
	return cmd
}
