package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pebble/pkg/pebble"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pebble version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "pebble", pebble.Version)
		},
	}
}
