// ABOUTME: Bodyweight log persistence, one reading per date.
package storage

import (
	"fmt"

	"github.com/harperreed/gymlog/internal/models"
)

// UpsertBodyweight validates b and stores it, replacing any reading on the same date.
func (t *Tx) UpsertBodyweight(b *models.Bodyweight) error {
	if err := models.Validate(b); err != nil {
		return err
	}
	_, err := t.tx.Exec(`INSERT INTO bodyweights (id, date, weight, unit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			weight = excluded.weight,
			unit = excluded.unit,
			updated_at = excluded.updated_at`,
		b.ID, string(b.Date), b.Weight, string(b.Unit), formatTime(b.CreatedAt), formatTime(b.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert bodyweight for %s: %w", b.Date, err)
	}
	return nil
}

// ListBodyweights returns readings by date, oldest first.
func (t *Tx) ListBodyweights() ([]*models.Bodyweight, error) {
	rows, err := t.tx.Query(`SELECT id, date, weight, unit, created_at, updated_at FROM bodyweights ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list bodyweights: %w", err)
	}
	defer rows.Close()

	var out []*models.Bodyweight
	for rows.Next() {
		var b models.Bodyweight
		var date, unit, createdAt, updatedAt string
		if err := rows.Scan(&b.ID, &date, &b.Weight, &unit, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan bodyweight: %w", err)
		}
		b.Date = models.Date(date)
		b.Unit = models.WeightUnit(unit)
		b.CreatedAt = parseTime(createdAt)
		b.UpdatedAt = parseTime(updatedAt)
		out = append(out, &b)
	}
	return out, rows.Err()
}
