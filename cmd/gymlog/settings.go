// ABOUTME: CLI commands for user settings and the bodyweight log.
// ABOUTME: Settings drive the week anchor, default rest days, and weight unit.
package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

var (
	settingsAnchor string
	settingsRest   string
	settingsUnit   string

	bodyweightDate string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change schedule settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := db.Settings(cmd.Context())
		if err != nil {
			return err
		}
		if s == nil {
			fmt.Println("No settings stored.")
			return nil
		}
		fmt.Printf("Week starts on:   %s\n", s.AnchorWeekday)
		fmt.Printf("Default rest:     %s\n", weekdayList(s.DefaultRestWeekdays))
		fmt.Printf("Weight unit:      %s\n", s.WeightUnit)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings",
	Long: `Change schedule settings. Only the given flags change.

EXAMPLES:

  gymlog settings set --anchor monday
  gymlog settings set --rest sun,wed
  gymlog settings set --rest none
  gymlog settings set --unit lb`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("anchor") && !flags.Changed("rest") && !flags.Changed("unit") {
			return fmt.Errorf("nothing to change (use --anchor, --rest, or --unit)")
		}

		var anchor time.Weekday
		var rest []time.Weekday
		var err error
		if flags.Changed("anchor") {
			if anchor, err = parseWeekday(settingsAnchor); err != nil {
				return err
			}
		}
		if flags.Changed("rest") {
			if rest, err = parseWeekdays(settingsRest); err != nil {
				return err
			}
		}
		unit := models.WeightUnit(strings.ToUpper(settingsUnit))

		err = db.UpdateSettings(cmd.Context(), func(s *models.Settings) {
			if flags.Changed("anchor") {
				s.AnchorWeekday = anchor
			}
			if flags.Changed("rest") {
				s.DefaultRestWeekdays = rest
			}
			if flags.Changed("unit") {
				s.WeightUnit = unit
			}
		})
		if err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		color.Green("✓ Settings updated")
		return nil
	},
}

var bodyweightCmd = &cobra.Command{
	Use:     "bodyweight",
	Aliases: []string{"bw"},
	Short:   "Log and list bodyweight",
}

var bodyweightAddCmd = &cobra.Command{
	Use:   "add <weight>",
	Short: "Record bodyweight for a day (default today)",
	Long: `Record bodyweight in your configured unit. One reading per day; a second
reading on the same day replaces the first.

EXAMPLES:

  gymlog bodyweight add 82.5
  gymlog bodyweight add 82.1 --date 2026-02-20`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[0])
		}
		date, err := dateArg([]string{bodyweightDate}, 0)
		if err != nil {
			return err
		}

		unit := models.UnitKG
		if s, err := db.Settings(cmd.Context()); err == nil && s != nil {
			unit = s.WeightUnit
		}

		b := models.NewBodyweight(date, weight, unit)
		err = db.Update(cmd.Context(), func(tx *storage.Tx) error {
			return tx.UpsertBodyweight(b)
		})
		if err != nil {
			return fmt.Errorf("failed to record bodyweight: %w", err)
		}
		color.Green("✓ Recorded bodyweight")
		fmt.Printf("  %s %s %s\n", date, formatNumber(weight), unit)
		return nil
	},
}

var bodyweightListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List bodyweight readings",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var list []*models.Bodyweight
		err := db.View(cmd.Context(), func(tx *storage.Tx) error {
			var err error
			list, err = tx.ListBodyweights()
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to list bodyweight: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No bodyweight readings.")
			return nil
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Date", "Weight", "Unit"})
		for _, b := range list {
			t.AppendRow(table.Row{b.Date, formatNumber(b.Weight), b.Unit})
		}
		t.Render()
		return nil
	},
}

// parseWeekdays parses a comma-separated weekday list; "none" clears it.
func parseWeekdays(s string) ([]time.Weekday, error) {
	if strings.EqualFold(strings.TrimSpace(s), "none") || strings.TrimSpace(s) == "" {
		return []time.Weekday{}, nil
	}
	var out []time.Weekday
	for _, part := range strings.Split(s, ",") {
		wd, err := parseWeekday(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, wd) {
			out = append(out, wd)
		}
	}
	return out, nil
}

func init() {
	settingsSetCmd.Flags().StringVar(&settingsAnchor, "anchor", "", "first day of the week (name or 0-6)")
	settingsSetCmd.Flags().StringVar(&settingsRest, "rest", "", "default rest weekdays, comma separated, or none")
	settingsSetCmd.Flags().StringVar(&settingsUnit, "unit", "", "weight unit: kg or lb")
	bodyweightAddCmd.Flags().StringVar(&bodyweightDate, "date", "", "date of the reading (YYYY-MM-DD)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	bodyweightCmd.AddCommand(bodyweightAddCmd)
	bodyweightCmd.AddCommand(bodyweightListCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(bodyweightCmd)
}
