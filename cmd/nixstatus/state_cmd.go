package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newStateCmd prints the stored record without running a check.
func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the last recorded sync state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			rec := cfg.Store().Load()
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, cfg.Messages().Render(rec)); err != nil {
				return err
			}
			if !rec.IsSynced() {
				_, err = fmt.Fprintf(out, "last seen revision: %s\n", rec.Revision)
			}
			return err
		},
	}
}

func newStatePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state-path",
		Short: "Print the state file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cfg.Store().Path())
			return err
		},
	}
}
