// ABOUTME: CLI commands for session snapshot backups.
// ABOUTME: Lists stored snapshots and purges stale temporary ones.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/backup"
	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

var backupKind string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Inspect session snapshot backups",
	Long: `Every logged set writes a temporary snapshot of its session and every
finished session writes a final one. Snapshots live in a badger store in the
backups directory next to the database.

Disable backups by setting "backups": false in the config file.`,
}

var backupListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored snapshots",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBackups(); err != nil {
			return err
		}
		kind := backup.Kind(backupKind)
		if kind != backup.KindTmp && kind != backup.KindFinal {
			return fmt.Errorf("unknown kind: %s (use tmp or final)", backupKind)
		}

		entries, err := backups.List(cmd.Context(), kind)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("No %s snapshots.\n", kind)
			return nil
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Date", "Session", "Taken", "Size"})
		for _, e := range entries {
			t.AppendRow(table.Row{e.Date, models.ShortID(e.SessionID), e.CreatedAt.Local().Format("15:04:05"), e.Size})
		}
		t.Render()
		return nil
	},
}

var backupPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete temporary snapshots except those of the last workout day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBackups(); err != nil {
			return err
		}
		var keep models.Date
		var ok bool
		err := db.View(cmd.Context(), func(tx *storage.Tx) error {
			var err error
			keep, ok, err = tx.LatestArchivedDate()
			return err
		})
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("No finished sessions yet; nothing to purge.")
			return nil
		}

		n, err := backups.PurgeTmp(cmd.Context(), keep)
		if err != nil {
			return fmt.Errorf("failed to purge backups: %w", err)
		}
		color.Yellow("✗ Purged %d temporary snapshots (kept %s)", n, keep)
		return nil
	},
}

func requireBackups() error {
	if backups == nil {
		return fmt.Errorf("backups are disabled")
	}
	return nil
}

func init() {
	backupListCmd.Flags().StringVarP(&backupKind, "kind", "k", string(backup.KindFinal), "snapshot kind: tmp or final")
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupPurgeCmd)
	rootCmd.AddCommand(backupCmd)
}
