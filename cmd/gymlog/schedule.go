// ABOUTME: CLI commands for the weekly schedule.
// ABOUTME: Supports generate, week, month, skip, shift, rest, and convert subcommands.
package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/harperreed/gymlog/internal/models"
)

var scheduleCmd = &cobra.Command{
	Use:     "schedule",
	Aliases: []string{"sched", "s"},
	Short:   "View and edit the training schedule",
	Long: `The schedule holds one entry per calendar day: a planned workout from the
active program or a rest day. Weeks start on the anchor weekday from settings.

WORKFLOW:

  1. Generate the week:     gymlog schedule generate
  2. Look at it:            gymlog schedule week
  3. Adjust as life happens:
       gymlog schedule skip 2026-02-25
       gymlog schedule shift 2026-02-25            # do it today instead
       gymlog schedule rest 2026-02-25             # swap onto a rest day
       gymlog schedule convert 2026-02-25          # just make it a rest day

Generating never overwrites an existing day, so it is safe to run repeatedly.`,
}

var scheduleGenerateCmd = &cobra.Command{
	Use:     "generate [date]",
	Aliases: []string{"gen"},
	Short:   "Plan the week containing a date (default today)",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args, 0)
		if err != nil {
			return err
		}
		n, err := scheduler.GenerateWeek(cmd.Context(), date)
		if err != nil {
			return fmt.Errorf("failed to generate week: %w", err)
		}

		color.Green("✓ Planned %d new days", n)
		entries, err := scheduler.Week(cmd.Context(), date)
		if err != nil {
			return err
		}
		printSchedule(cmd.OutOrStdout(), entries, models.Today())
		return nil
	},
}

var scheduleWeekCmd = &cobra.Command{
	Use:     "week [date]",
	Aliases: []string{"w"},
	Short:   "Show the week containing a date (default today)",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args, 0)
		if err != nil {
			return err
		}
		entries, err := scheduler.Week(cmd.Context(), date)
		if err != nil {
			return fmt.Errorf("failed to get week: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("Nothing planned. Run 'gymlog schedule generate'.")
			return nil
		}
		printSchedule(cmd.OutOrStdout(), entries, models.Today())
		return nil
	},
}

var scheduleMonthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Show the stored entries of a month (default this month)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		month := time.Now()
		if len(args) == 1 {
			var err error
			month, err = time.Parse("2006-01", args[0])
			if err != nil {
				return fmt.Errorf("invalid month %q (use YYYY-MM)", args[0])
			}
		}
		entries, err := scheduler.Month(cmd.Context(), month.Year(), month.Month())
		if err != nil {
			return fmt.Errorf("failed to get month: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("Nothing planned this month.")
			return nil
		}
		printSchedule(cmd.OutOrStdout(), entries, models.Today())
		return nil
	},
}

var scheduleSkipCmd = &cobra.Command{
	Use:   "skip [date]",
	Short: "Mark a day as skipped",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args, 0)
		if err != nil {
			return err
		}
		if err := scheduler.MarkSkipped(cmd.Context(), date); err != nil {
			return err
		}
		color.Yellow("✗ Skipped %s", date)
		return nil
	},
}

var scheduleShiftCmd = &cobra.Command{
	Use:   "shift <from> [to]",
	Short: "Do a planned workout on another day and push the rest of the schedule back",
	Long: `Perform the planned workout on <from> on <to> instead (default today).

The original day is kept as skipped, every later day moves one day later, and
the workout is planned on <to>, replacing whatever was there.

EXAMPLES:

  gymlog schedule shift 2026-02-25               # do Wednesday's workout today
  gymlog schedule shift 2026-02-25 2026-02-24    # explicit target`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := dateArg(args, 0)
		if err != nil {
			return err
		}
		to, err := dateArg(args, 1)
		if err != nil {
			return err
		}
		if err := scheduler.PerformNowAndShift(cmd.Context(), from, to); err != nil {
			return err
		}
		color.Green("✓ Moved workout from %s to %s", from, to)
		return nil
	},
}

var scheduleRestCmd = &cobra.Command{
	Use:   "rest [date]",
	Short: "Take a rest day, swapping the workout onto a default rest day if possible",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args, 0)
		if err != nil {
			return err
		}
		swapped, err := scheduler.InsertRestDay(cmd.Context(), date)
		if err != nil {
			return err
		}
		if swapped {
			color.Green("✓ %s is a rest day; its workout moved to a rest day this week", date)
		} else {
			color.Green("✓ %s is a rest day", date)
		}
		return nil
	},
}

var scheduleConvertCmd = &cobra.Command{
	Use:   "convert [date]",
	Short: "Convert a planned workout into a rest day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args, 0)
		if err != nil {
			return err
		}
		if err := scheduler.ConvertWorkoutToRest(cmd.Context(), date); err != nil {
			return err
		}
		color.Green("✓ Converted %s to a rest day", date)
		return nil
	},
}

func printSchedule(out io.Writer, entries []*models.ScheduleEntry, today models.Date) {
	t := newTable(out)
	t.AppendHeader(table.Row{"", "Date", "Day", "Title", "State", "Session"})
	for _, e := range entries {
		marker := ""
		if e.Date == today {
			marker = "▶"
		}
		linked := ""
		if e.LinkedSessionID != nil {
			linked = models.ShortID(*e.LinkedSessionID)
		}
		t.AppendRow(table.Row{
			marker,
			e.Date,
			e.Date.Weekday().String()[:3],
			truncate(e.Title, 30),
			e.State,
			linked,
		})
	}
	t.Render()
}

func init() {
	scheduleCmd.AddCommand(scheduleGenerateCmd)
	scheduleCmd.AddCommand(scheduleWeekCmd)
	scheduleCmd.AddCommand(scheduleMonthCmd)
	scheduleCmd.AddCommand(scheduleSkipCmd)
	scheduleCmd.AddCommand(scheduleShiftCmd)
	scheduleCmd.AddCommand(scheduleRestCmd)
	scheduleCmd.AddCommand(scheduleConvertCmd)
	rootCmd.AddCommand(scheduleCmd)
}
