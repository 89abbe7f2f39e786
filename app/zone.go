package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zonekeeper/zonekeeper/internal/codec"
	"github.com/zonekeeper/zonekeeper/internal/config"
	"github.com/zonekeeper/zonekeeper/internal/daemon"
	"github.com/zonekeeper/zonekeeper/internal/importer"
	"github.com/zonekeeper/zonekeeper/internal/logger"
	"github.com/zonekeeper/zonekeeper/internal/web/handler/exporting"
)

func init() { //nolint: gochecknoinits
	zoneImportCmd.Flags().StringVar(&importFormat, "format", "", "Input format: bind, json or csv (auto-detected when empty)")
	zoneImportCmd.Flags().StringVar(&importMode, "mode", "skip", "Conflict mode: skip, overwrite or merge")
	zoneImportCmd.Flags().BoolVar(&importStrict, "strict", false, "Abort on the first malformed line")
	zoneImportCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Preview only, commit nothing")

	zoneExportCmd.Flags().StringVar(&exportFormat, "format", "bind", "Output format: bind, json or csv")

	zoneCmd.AddCommand(zoneImportCmd)
	zoneCmd.AddCommand(zoneExportCmd)
	rootCmd.AddCommand(zoneCmd)
}

var (
	importFormat string
	importMode   string
	importStrict bool
	importDryRun bool
	exportFormat string

	zoneCmd = &cobra.Command{
		Use:   "zone",
		Short: "Zone maintenance commands",
	}

	zoneImportCmd = &cobra.Command{
		Use:   "import <file>",
		Short: "Import zones from a BIND, JSON or CSV file",
		Args:  cobra.ExactArgs(1),
		PreRun: func(_ *cobra.Command, _ []string) {
			loadConfigAndLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			mode, err := importer.ParseConflictMode(importMode)
			if err != nil {
				return err
			}

			result, err := importer.Import(
				string(content),
				codec.Format(importFormat),
				codec.DecodeOptions{Strict: importStrict},
			)
			if err != nil {
				return err
			}

			for _, report := range result.Reports {
				fmt.Printf("%s: %d records, %d errors, %d warnings\n",
					report.Zone, report.RecordCount, len(report.Errors), len(report.Warnings))
			}

			for _, perr := range result.ParseErrors {
				fmt.Printf("parse error: %s\n", perr.Error())
			}

			if importDryRun {
				return nil
			}

			zoneStore, err := daemon.NewStore(&cfg)
			if err != nil {
				return err
			}

			outcomes, err := importer.Commit(cmd.Context(), zoneStore, result, mode)
			if err != nil {
				return err
			}

			for _, outcome := range outcomes {
				if outcome.Message != "" {
					fmt.Printf("%s: %s (%s)\n", outcome.Zone, outcome.Status, outcome.Message)
					continue
				}

				fmt.Printf("%s: %s\n", outcome.Zone, outcome.Status)
			}

			return nil
		},
	}

	zoneExportCmd = &cobra.Command{
		Use:   "export <zone>",
		Short: "Export a zone as BIND, JSON or CSV to stdout",
		Args:  cobra.ExactArgs(1),
		PreRun: func(_ *cobra.Command, _ []string) {
			loadConfigAndLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := codec.ParseFormat(exportFormat)
			if err != nil {
				return err
			}

			zoneStore, err := daemon.NewStore(&cfg)
			if err != nil {
				return err
			}

			z, err := zoneStore.GetZone(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			content, err := exporting.Render(z, format, codec.EncodeOptions{IncludeSOANS: true})
			if err != nil {
				return err
			}

			fmt.Print(content)

			return nil
		},
	}
)

// loadConfigAndLogger shares the start command's bootstrap with the
// maintenance commands.
func loadConfigAndLogger() {
	if cfg, err = config.ReadConfig(configPath); err != nil {
		panic(err)
	}

	if err = logger.Init(cfg.Log); err != nil {
		panic(err)
	}
}
