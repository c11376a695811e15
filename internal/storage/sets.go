// ABOUTME: Logged set persistence.
// ABOUTME: Set listings are ordered by creation time, then id, which record scans rely on.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/gymlog/internal/models"
)

const setColumns = `id, session_id, session_exercise_id, exercise_id, set_type, ord,
	reps, load, rir, distance, duration_sec, calories, created_at`

// InsertSet stores a new set.
func (t *Tx) InsertSet(s *models.SetEntry) error {
	_, err := t.tx.Exec(`INSERT INTO set_entries (`+setColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.SessionID, s.SessionExerciseID, s.ExerciseID, string(s.SetType), s.Order,
		s.Reps, s.Load, s.RIR, s.Distance, s.DurationSec, s.Calories, formatTime(s.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert set: %w", err)
	}
	return nil
}

// UpdateSet rewrites the measurable fields of a set.
func (t *Tx) UpdateSet(s *models.SetEntry) error {
	_, err := t.tx.Exec(`UPDATE set_entries SET set_type = ?, reps = ?, load = ?, rir = ?,
		distance = ?, duration_sec = ?, calories = ? WHERE id = ?`,
		string(s.SetType), s.Reps, s.Load, s.RIR, s.Distance, s.DurationSec, s.Calories, s.ID)
	if err != nil {
		return fmt.Errorf("update set %s: %w", models.ShortID(s.ID), err)
	}
	return nil
}

// DeleteSet removes a set.
func (t *Tx) DeleteSet(id string) error {
	if _, err := t.tx.Exec(`DELETE FROM set_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	return nil
}

// FindSet returns the set with id, or nil.
func (t *Tx) FindSet(id string) (*models.SetEntry, error) {
	s, err := scanSet(t.tx.QueryRow(`SELECT `+setColumns+` FROM set_entries WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get set: %w", err)
	}
	return s, nil
}

// CountSetsForSessionExercise counts the sets logged against a session exercise.
func (t *Tx) CountSetsForSessionExercise(sessionExerciseID string) (int, error) {
	var n int
	err := t.tx.QueryRow(`SELECT COUNT(*) FROM set_entries WHERE session_exercise_id = ?`,
		sessionExerciseID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sets: %w", err)
	}
	return n, nil
}

// CountSetsForSession counts the sets logged in a session.
func (t *Tx) CountSetsForSession(sessionID string) (int, error) {
	var n int
	if err := t.tx.QueryRow(`SELECT COUNT(*) FROM set_entries WHERE session_id = ?`, sessionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sets: %w", err)
	}
	return n, nil
}

// ListSetsForSession returns a session's sets in creation order.
func (t *Tx) ListSetsForSession(sessionID string) ([]*models.SetEntry, error) {
	return t.querySets(`SELECT `+setColumns+` FROM set_entries
		WHERE session_id = ? ORDER BY created_at, id`, sessionID)
}

// ListSetsForExercise returns every set of an exercise in creation order.
func (t *Tx) ListSetsForExercise(exerciseID string) ([]*models.SetEntry, error) {
	return t.querySets(`SELECT `+setColumns+` FROM set_entries
		WHERE exercise_id = ? ORDER BY created_at, id`, exerciseID)
}

// ExerciseIDsWithSets returns the distinct exercise ids that have any set.
func (t *Tx) ExerciseIDsWithSets() ([]string, error) {
	return t.queryIDs(`SELECT DISTINCT exercise_id FROM set_entries ORDER BY exercise_id`)
}

func (t *Tx) querySets(query string, args ...any) ([]*models.SetEntry, error) {
	rows, err := t.tx.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	var sets []*models.SetEntry
	for rows.Next() {
		s, err := scanSet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

func (t *Tx) queryIDs(query string, args ...any) ([]string, error) {
	rows, err := t.tx.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanSet(row scanner) (*models.SetEntry, error) {
	var s models.SetEntry
	var setType, createdAt string
	var reps, duration sql.NullInt64
	var load, rir, distance, calories sql.NullFloat64

	err := row.Scan(&s.ID, &s.SessionID, &s.SessionExerciseID, &s.ExerciseID, &setType, &s.Order,
		&reps, &load, &rir, &distance, &duration, &calories, &createdAt)
	if err != nil {
		return nil, err
	}
	s.SetType = models.SetType(setType)
	s.Reps = intPtr(reps)
	s.Load = floatPtr(load)
	s.RIR = floatPtr(rir)
	s.Distance = floatPtr(distance)
	s.DurationSec = intPtr(duration)
	s.Calories = floatPtr(calories)
	s.CreatedAt = parseTime(createdAt)
	return &s, nil
}
