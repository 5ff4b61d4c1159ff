package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, injected at build time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rewind365",
	Short: "Daily digest of Teams channels and Outlook folders",
	Long: `rewind365 serves the Rewind365 Teams tab: a configuration page for picking
the Teams channels and Outlook folders to monitor, and a daily digest of their
activity grouped by priority.

The digest command prints the same digest to the terminal.`,
	Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
