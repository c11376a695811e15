// ABOUTME: CLI command for exporting training history.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/storage"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export training history",
	Long: `Export the full training history.

FORMATS:

  json       Full JSON dump (settings, exercises, sessions, records, stats)
  yaml       Readable YAML with one row per set
  markdown   Records, bodyweight, and sessions by date

OPTIONS:

  --output, -o   Write to file instead of stdout

EXAMPLES:

  gymlog export json -o backup.json
  gymlog export markdown > history.md`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format := args[0]

		var data []byte
		var typ storage.ExportType
		var err error

		switch format {
		case "json":
			typ = storage.ExportJSONHistory
			data, err = db.ExportJSON(ctx)
		case "yaml":
			typ = storage.ExportYAMLHistory
			data, err = db.ExportYAML(ctx)
		case "markdown", "md":
			typ = storage.ExportMarkdownHistory
			var md string
			md, err = db.ExportMarkdown(ctx)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}

		return db.RecordExport(ctx, typ)
	},
}

var exportHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous exports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exports, err := db.ListExports(cmd.Context())
		if err != nil {
			return err
		}
		if len(exports) == 0 {
			fmt.Println("No exports yet.")
			return nil
		}
		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"When", "Type"})
		for _, e := range exports {
			t.AppendRow(table.Row{e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Type})
		}
		t.Render()
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.AddCommand(exportHistoryCmd)
	rootCmd.AddCommand(exportCmd)
}
