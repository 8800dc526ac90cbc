// Package cli wires the sheetgate commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sheetgate",
	Short: "Governed tool gateway for spreadsheet backends",
	Long:  "Exposes spreadsheet operations as MCP tools behind a single admission pipeline:\nvalidation, rate limiting, error classification, and an auditable call record.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
