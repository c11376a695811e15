// ABOUTME: User settings persistence and first-run default rows.
// ABOUTME: DB also serves as the settings and program provider for the engine packages.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/gymlog/internal/models"
)

// GetSettings returns the user settings, or nil when none are stored.
func (t *Tx) GetSettings() (*models.Settings, error) {
	var s models.Settings
	var anchor int
	var rest, unit, createdAt, updatedAt string
	err := t.tx.QueryRow(`SELECT anchor_weekday, default_rest_weekdays, weight_unit, created_at, updated_at
		FROM settings WHERE id = ?`, models.SettingsID).
		Scan(&anchor, &rest, &unit, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	s.AnchorWeekday = time.Weekday(anchor)
	if err := json.Unmarshal([]byte(rest), &s.DefaultRestWeekdays); err != nil {
		return nil, fmt.Errorf("decode rest weekdays: %w", err)
	}
	s.WeightUnit = models.WeightUnit(unit)
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}

// PutSettings validates and stores the user settings.
func (t *Tx) PutSettings(s *models.Settings) error {
	if err := models.Validate(s); err != nil {
		return err
	}
	if s.DefaultRestWeekdays == nil {
		s.DefaultRestWeekdays = []time.Weekday{}
	}
	rest, err := json.Marshal(s.DefaultRestWeekdays)
	if err != nil {
		return fmt.Errorf("encode rest weekdays: %w", err)
	}
	_, err = t.tx.Exec(`INSERT INTO settings (id, anchor_weekday, default_rest_weekdays, weight_unit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			anchor_weekday = excluded.anchor_weekday,
			default_rest_weekdays = excluded.default_rest_weekdays,
			weight_unit = excluded.weight_unit,
			updated_at = excluded.updated_at`,
		models.SettingsID, int(s.AnchorWeekday), string(rest), string(s.WeightUnit),
		formatTime(s.CreatedAt), formatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put settings: %w", err)
	}
	return nil
}

// EnsureDefaults creates the settings and GLOBAL stats rows when missing.
// Existing rows are left untouched.
func (d *DB) EnsureDefaults(ctx context.Context) error {
	return d.Update(ctx, func(tx *Tx) error {
		s, err := tx.GetSettings()
		if err != nil {
			return err
		}
		if s == nil {
			if err := tx.PutSettings(models.DefaultSettings()); err != nil {
				return err
			}
		}

		var n int
		if err := tx.tx.QueryRow(`SELECT COUNT(*) FROM global_stats`).Scan(&n); err != nil {
			return fmt.Errorf("check global stats: %w", err)
		}
		if n == 0 {
			return tx.PutGlobalStats(&models.GlobalStats{LastUpdatedAt: time.Now()})
		}
		return nil
	})
}

// Settings returns the user settings, or nil when none are stored.
func (d *DB) Settings(ctx context.Context) (*models.Settings, error) {
	var s *models.Settings
	err := d.View(ctx, func(tx *Tx) error {
		var err error
		s, err = tx.GetSettings()
		return err
	})
	return s, err
}

// UpdateSettings applies fn to the stored settings and saves the result.
// Without stored settings nothing changes.
func (d *DB) UpdateSettings(ctx context.Context, fn func(*models.Settings)) error {
	return d.Update(ctx, func(tx *Tx) error {
		s, err := tx.GetSettings()
		if err != nil || s == nil {
			return err
		}
		fn(s)
		s.UpdatedAt = time.Now()
		return tx.PutSettings(s)
	})
}

// ApplyImportedAnchor copies an imported program's anchor weekday into the
// settings. Imports without an anchor leave the settings alone.
func (d *DB) ApplyImportedAnchor(ctx context.Context, result *models.ImportResult) error {
	if result == nil || result.AnchorWeekday == nil {
		return nil
	}
	return d.UpdateSettings(ctx, func(s *models.Settings) {
		s.AnchorWeekday = time.Weekday(*result.AnchorWeekday)
	})
}
