// ABOUTME: Personal record persistence, one row per exercise.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/gymlog/internal/models"
)

const recordColumns = `id, exercise_id, metric, value, session_id, set_id, achieved_at, updated_at`

// FindRecord returns the record for an exercise, or nil.
func (t *Tx) FindRecord(exerciseID string) (*models.PersonalRecord, error) {
	row := t.tx.QueryRow(`SELECT `+recordColumns+` FROM personal_records WHERE exercise_id = ?`, exerciseID)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return r, nil
}

// UpsertRecord inserts or replaces the record of r.ExerciseID.
func (t *Tx) UpsertRecord(r *models.PersonalRecord) error {
	_, err := t.tx.Exec(`INSERT INTO personal_records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(exercise_id) DO UPDATE SET
			metric = excluded.metric,
			value = excluded.value,
			session_id = excluded.session_id,
			set_id = excluded.set_id,
			achieved_at = excluded.achieved_at,
			updated_at = excluded.updated_at`,
		r.ID, r.ExerciseID, string(r.Metric), r.Value, r.SessionID, r.SetID,
		formatTime(r.AchievedAt), formatTime(r.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// DeleteRecord removes the record of an exercise, if any.
func (t *Tx) DeleteRecord(exerciseID string) error {
	if _, err := t.tx.Exec(`DELETE FROM personal_records WHERE exercise_id = ?`, exerciseID); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// ListRecords returns all records, highest value first.
func (t *Tx) ListRecords() ([]*models.PersonalRecord, error) {
	rows, err := t.tx.Query(`SELECT ` + recordColumns + ` FROM personal_records ORDER BY value DESC, exercise_id`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*models.PersonalRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// RecordExerciseIDsForSession returns exercises whose record was set in sessionID.
func (t *Tx) RecordExerciseIDsForSession(sessionID string) ([]string, error) {
	return t.queryIDs(`SELECT exercise_id FROM personal_records WHERE session_id = ? ORDER BY exercise_id`, sessionID)
}

// RecordExerciseIDs returns every exercise that currently holds a record.
func (t *Tx) RecordExerciseIDs() ([]string, error) {
	return t.queryIDs(`SELECT exercise_id FROM personal_records ORDER BY exercise_id`)
}

func scanRecord(row scanner) (*models.PersonalRecord, error) {
	var r models.PersonalRecord
	var metric, achievedAt, updatedAt string

	err := row.Scan(&r.ID, &r.ExerciseID, &metric, &r.Value, &r.SessionID, &r.SetID, &achievedAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	r.Metric = models.RecordMetric(metric)
	r.AchievedAt = parseTime(achievedAt)
	r.UpdatedAt = parseTime(updatedAt)
	return &r, nil
}
