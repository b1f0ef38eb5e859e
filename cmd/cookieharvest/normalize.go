package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/use-agent/cookieharvest/target"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <domain>...",
		Short: "Print the URL each domain would be visited at",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, u := range target.NormalizeAll(args) {
				fmt.Fprintln(cmd.OutOrStdout(), u)
			}
		},
	}
}
