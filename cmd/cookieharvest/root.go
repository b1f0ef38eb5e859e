package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time using
// -ldflags "-X main.Version=1.2.3".
var Version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cookieharvest",
		Short:         "Visit websites like a person would and collect the cookies they set.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(newRunCmd(), newNormalizeCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "cookieharvest "+Version)
		},
	}
}
