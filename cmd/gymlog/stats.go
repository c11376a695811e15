// ABOUTME: CLI commands for lifetime stats and personal records.
// ABOUTME: Rebuild subcommands recompute both from logged sets.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Lifetime training totals",
	Long: `Lifetime totals across finished sessions: sessions, sets, volume load
(reps x load), and training time. Totals are kept up to date as sessions are
finished and corrected; 'gymlog stats rebuild' recomputes them from scratch.`,
}

var statsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show lifetime totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var g *models.GlobalStats
		err := db.View(cmd.Context(), func(tx *storage.Tx) error {
			var err error
			g, err = tx.GetGlobalStats()
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}
		printStats(g)
		return nil
	},
}

var statsRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Recompute lifetime totals from session snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := keeper.Rebuild(cmd.Context(), db)
		if err != nil {
			return fmt.Errorf("failed to rebuild stats: %w", err)
		}
		color.Green("✓ Rebuilt stats")
		printStats(g)
		return nil
	},
}

var recordsCmd = &cobra.Command{
	Use:     "records",
	Aliases: []string{"pr", "prs"},
	Short:   "Personal records",
	Long: `A personal record is the heaviest load lifted in a working set of an
exercise. Ties keep the earlier set.`,
}

var recordsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List personal records",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		type row struct {
			record *models.PersonalRecord
			name   string
		}
		var rows []row
		err := db.View(cmd.Context(), func(tx *storage.Tx) error {
			recs, err := tx.ListRecords()
			if err != nil {
				return err
			}
			for _, r := range recs {
				name := models.ShortID(r.ExerciseID)
				if ex, err := tx.GetExercise(r.ExerciseID); err == nil {
					name = ex.Name
				}
				rows = append(rows, row{record: r, name: name})
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}
		if len(rows) == 0 {
			fmt.Println("No records yet. Finish a session with working sets.")
			return nil
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Exercise", "Max load", "Date", "Session"})
		for _, r := range rows {
			t.AppendRow(table.Row{
				r.name,
				formatNumber(r.record.Value),
				r.record.AchievedAt.Format("2006-01-02"),
				models.ShortID(r.record.SessionID),
			})
		}
		t.Render()
		return nil
	},
}

var recordsRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Recompute every personal record from logged sets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := tracker.RebuildAll(cmd.Context(), db)
		if err != nil {
			return fmt.Errorf("failed to rebuild records: %w", err)
		}
		color.Green("✓ Recomputed records for %d exercises", n)
		return nil
	},
}

func printStats(g *models.GlobalStats) {
	fmt.Printf("Sessions completed:  %d\n", g.TotalSessionsCompleted)
	fmt.Printf("Sets logged:         %d\n", g.TotalSetsLogged)
	fmt.Printf("Volume load:         %s\n", formatNumber(g.TotalVolumeLoad))
	fmt.Printf("Training time:       %s\n", formatDuration(g.TotalWorkoutDurationSec))
}

func init() {
	statsCmd.AddCommand(statsShowCmd)
	statsCmd.AddCommand(statsRebuildCmd)
	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsRebuildCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(recordsCmd)
}
