// Init command for the pebble CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and the items table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := a.openItems(cmd)
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "pebble initialized")
			fmt.Fprintln(out, "  config:", a.configDir)
			fmt.Fprintln(out, "  driver:", a.cfg.Driver)
			if a.dataDir != "" {
				fmt.Fprintln(out, "  data:  ", a.dataDir)
			}
			return nil
		},
	}
}
