package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"portcall/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "portsim",
		Short: "Port-of-entry admission simulator",
		Long: `portsim simulates vessels arriving at a port: three regulatory authorities
vote on whether each vessel needs an inspection, then the dock admits vessels
onto a fixed number of berths, serving priority vessels first.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.EventsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
