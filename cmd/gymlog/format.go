// ABOUTME: Shared CLI helpers for argument parsing and table output.
// ABOUTME: Dates are YYYY-MM-DD; weekdays accept names or 0-6.
package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

// dateArg returns the date at args[i], or today when absent.
func dateArg(args []string, i int) (models.Date, error) {
	if len(args) <= i || args[i] == "" || args[i] == "today" {
		return models.Today(), nil
	}
	d, err := models.ParseDate(args[i])
	if err != nil {
		return "", fmt.Errorf("invalid date %q (use YYYY-MM-DD)", args[i])
	}
	return d, nil
}

// parseWeekday accepts a weekday name, a three-letter prefix, or 0-6 with Sunday as 0.
func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("weekday out of range: %d", n)
		}
		return time.Weekday(n), nil
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday: %s", s)
}

func weekdayList(days []time.Weekday) string {
	if len(days) == 0 {
		return "none"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}

// resolveExercise finds an exercise by id, id suffix, or name.
func resolveExercise(ctx context.Context, ref string) (*models.Exercise, error) {
	var ex *models.Exercise
	err := db.View(ctx, func(tx *storage.Tx) error {
		var err error
		ex, err = tx.FindExerciseByName(ref)
		if err != nil || ex != nil {
			return err
		}
		id, err := tx.ResolveID("exercises", ref)
		if err != nil {
			return err
		}
		ex, err = tx.GetExercise(id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("exercise %q: %w", ref, err)
	}
	return ex, nil
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	return t
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func optFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatNumber(*v)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDuration(sec int64) string {
	d := time.Duration(sec) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm%02ds", m, int(d.Seconds())%60)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
