package main

import (
	"encoding/json"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/smartnotes/internal/platform"
)

type statusReport struct {
	ConfigFile string `json:"config_file,omitempty"`
	Adapter    string `json:"adapter"`
	DataDir    string `json:"data_dir,omitempty"`
	Recovery   string `json:"recovery,omitempty"`
	Service    any    `json:"service"`
	Store      any    `json:"store,omitempty"`
	StoreType  string `json:"store_type,omitempty"`
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the internal state of the session as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(sess *platform.Session) error {
				report := statusReport{
					ConfigFile: a.cfg.File,
					Adapter:    a.cfg.Adapter,
					DataDir:    sess.Path,
					Service:    sess.Service.State(),
				}
				if sess.Recovery != nil {
					report.Recovery = sess.Recovery.Path()
				}
				if st, ok := sess.Store.(introspection.Introspectable); ok {
					report.Store = st.State()
				}
				if c, ok := sess.Store.(introspection.Component); ok {
					report.StoreType = c.ComponentType()
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			})
		},
	}
}
