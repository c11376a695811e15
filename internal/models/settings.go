// ABOUTME: User settings singleton consumed by the schedule engine.
// ABOUTME: Absence of settings disables schedule generation.
package models

import (
	"slices"
	"time"
)

// SettingsID is the fixed key of the settings row.
const SettingsID = "USER"

// WeightUnit is the display unit for loads and bodyweight.
type WeightUnit string

const (
	UnitKG WeightUnit = "KG"
	UnitLB WeightUnit = "LB"
)

// Settings holds per-user scheduling preferences.
type Settings struct {
	AnchorWeekday       time.Weekday   `json:"anchor_weekday" validate:"min=0,max=6"`
	DefaultRestWeekdays []time.Weekday `json:"default_rest_weekdays" validate:"dive,min=0,max=6"`
	WeightUnit          WeightUnit     `json:"weight_unit" validate:"oneof=KG LB"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// DefaultSettings returns the settings seeded on first run: weeks anchored on
// Sunday, Sunday as the default rest day, kilograms.
func DefaultSettings() *Settings {
	now := time.Now()
	return &Settings{
		AnchorWeekday:       time.Sunday,
		DefaultRestWeekdays: []time.Weekday{time.Sunday},
		WeightUnit:          UnitKG,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// IsDefaultRestDay reports whether wd is one of the configured rest weekdays.
func (s *Settings) IsDefaultRestDay(wd time.Weekday) bool {
	return slices.Contains(s.DefaultRestWeekdays, wd)
}
