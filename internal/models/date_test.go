// ABOUTME: Tests for the Date type and anchored-week arithmetic.
// ABOUTME: Covers parsing, day arithmetic across month ends, and week starts.
package models

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    Date
		wantErr bool
	}{
		{"2026-02-24", "2026-02-24", false},
		{"2026-2-24", "", true},
		{"24-02-2026", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDate(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateAddDays(t *testing.T) {
	tests := []struct {
		date Date
		n    int
		want Date
	}{
		{"2026-02-28", 1, "2026-03-01"},
		{"2024-02-28", 1, "2024-02-29"},
		{"2026-01-01", -1, "2025-12-31"},
		{"2026-03-29", 1, "2026-03-30"},
	}

	for _, tt := range tests {
		if got := tt.date.AddDays(tt.n); got != tt.want {
			t.Errorf("%s.AddDays(%d) = %s, want %s", tt.date, tt.n, got, tt.want)
		}
	}
}

func TestStartOfAnchoredWeek(t *testing.T) {
	tests := []struct {
		name   string
		date   Date
		anchor time.Weekday
		want   Date
	}{
		{"tuesday anchored sunday", "2026-02-24", time.Sunday, "2026-02-22"},
		{"sunday anchored sunday", "2026-02-22", time.Sunday, "2026-02-22"},
		{"saturday anchored sunday", "2026-02-28", time.Sunday, "2026-02-22"},
		{"tuesday anchored monday", "2026-02-24", time.Monday, "2026-02-23"},
		{"sunday anchored monday", "2026-02-22", time.Monday, "2026-02-16"},
		{"tuesday anchored wednesday", "2026-02-24", time.Wednesday, "2026-02-18"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartOfAnchoredWeek(tt.date, tt.anchor)
			if got != tt.want {
				t.Errorf("StartOfAnchoredWeek(%s, %s) = %s, want %s", tt.date, tt.anchor, got, tt.want)
			}
			if got.Weekday() != tt.anchor {
				t.Errorf("week start %s is a %s, want %s", got, got.Weekday(), tt.anchor)
			}
		})
	}
}

func TestWeekDates(t *testing.T) {
	dates := WeekDates("2026-02-24", time.Sunday)
	if len(dates) != 7 {
		t.Fatalf("expected 7 dates, got %d", len(dates))
	}
	if dates[0] != "2026-02-22" || dates[6] != "2026-02-28" {
		t.Errorf("unexpected week range %s..%s", dates[0], dates[6])
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			t.Errorf("dates not ascending at %d: %s, %s", i, dates[i-1], dates[i])
		}
	}
}
