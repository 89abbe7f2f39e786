// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "zonekeeper",
	Short: "ZoneKeeper is a web-based administration console for DNS zones",
	Long: `ZoneKeeper is a web-based administration console for DNS zones
that provides an easy-to-use interface for managing zones and records,
with multi-format import and export (BIND, JSON, CSV).`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
