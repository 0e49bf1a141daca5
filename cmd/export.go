package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/waytrace/waytrace/internal"
	"github.com/waytrace/waytrace/internal/export"
)

var (
	format     string
	outputPath string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <trace.db> [matcher]",
	Short: "Export matching messages from a recorded trace",
	Long: `Replay a recorded trace, select the messages matching the given
expression, and write them with per-connection statistics in the chosen
format (json, jsonl, yaml, md).

Examples:
  waytrace export trace.db --format yaml
  waytrace export trace.db "wl_surface" --format md -o surfaces.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		matcher := internal.Always
		if len(args) > 1 {
			m, err := internal.ParseMatcher(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			matcher = m.Simplify()
		}

		store, err := internal.OpenStore(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		records, err := store.Records()
		if err != nil {
			return err
		}

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		report := internal.BuildReport(args[0], records, matcher, catalog)

		out := os.Stdout
		if outputPath != "" {
			f, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() { _ = f.Close() }()
			out = f
		}

		if err := exporter.Export(report, out); err != nil {
			return &internal.ExportError{Format: format, Err: err}
		}
		if outputPath != "" {
			internal.LogInfo("Exported %d messages to %s", len(report.Records), outputPath)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&format, "format", "json", "Export format: json, jsonl, yaml, md")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
