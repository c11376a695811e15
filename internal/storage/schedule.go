// ABOUTME: Schedule entry persistence: one row per calendar date.
// ABOUTME: Deleting an entry clears any session back-reference in the same transaction.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/gymlog/internal/models"
)

const scheduleColumns = `id, date, type, program_id, program_version_id, day_template_id,
	title, state, linked_session_id, created_at, updated_at`

// FindScheduleByDate returns the entry for date, or nil when none exists.
func (t *Tx) FindScheduleByDate(date models.Date) (*models.ScheduleEntry, error) {
	row := t.tx.QueryRow(`SELECT `+scheduleColumns+` FROM schedule_entries WHERE date = ?`, string(date))
	e, err := scanScheduleEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule entry for %s: %w", date, err)
	}
	return e, nil
}

// FindScheduleByID returns the entry with id, or nil when none exists.
func (t *Tx) FindScheduleByID(id string) (*models.ScheduleEntry, error) {
	row := t.tx.QueryRow(`SELECT `+scheduleColumns+` FROM schedule_entries WHERE id = ?`, id)
	e, err := scanScheduleEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule entry: %w", err)
	}
	return e, nil
}

// ListScheduleBetween returns entries with from <= date <= to in date order.
func (t *Tx) ListScheduleBetween(from, to models.Date) ([]*models.ScheduleEntry, error) {
	rows, err := t.tx.Query(`SELECT `+scheduleColumns+` FROM schedule_entries
		WHERE date >= ? AND date <= ? ORDER BY date`, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	defer rows.Close()
	return scanScheduleEntries(rows)
}

// ListScheduleAfter returns entries strictly after date, latest first.
func (t *Tx) ListScheduleAfter(date models.Date) ([]*models.ScheduleEntry, error) {
	rows, err := t.tx.Query(`SELECT `+scheduleColumns+` FROM schedule_entries
		WHERE date > ? ORDER BY date DESC`, string(date))
	if err != nil {
		return nil, fmt.Errorf("list schedule after %s: %w", date, err)
	}
	defer rows.Close()
	return scanScheduleEntries(rows)
}

// InsertScheduleEntry stores a new entry. Fails if the date is already taken.
func (t *Tx) InsertScheduleEntry(e *models.ScheduleEntry) error {
	_, err := t.tx.Exec(`INSERT INTO schedule_entries (`+scheduleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Date), string(e.Type), e.ProgramID, e.ProgramVersionID, e.DayTemplateID,
		e.Title, string(e.State), e.LinkedSessionID, formatTime(e.CreatedAt), formatTime(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert schedule entry for %s: %w", e.Date, err)
	}
	return nil
}

// UpdateScheduleEntry rewrites the mutable fields of an entry.
func (t *Tx) UpdateScheduleEntry(e *models.ScheduleEntry) error {
	_, err := t.tx.Exec(`UPDATE schedule_entries SET type = ?, program_id = ?, program_version_id = ?,
		day_template_id = ?, title = ?, state = ?, linked_session_id = ?, updated_at = ?
		WHERE id = ?`,
		string(e.Type), e.ProgramID, e.ProgramVersionID, e.DayTemplateID, e.Title,
		string(e.State), e.LinkedSessionID, formatTime(e.UpdatedAt), e.ID)
	if err != nil {
		return fmt.Errorf("update schedule entry %s: %w", models.ShortID(e.ID), err)
	}
	return nil
}

// MoveScheduleEntry re-dates an entry, keeping its id and links. Callers
// moving several entries forward must go latest first so dates never collide.
func (t *Tx) MoveScheduleEntry(e *models.ScheduleEntry, to models.Date, now time.Time) error {
	_, err := t.tx.Exec(`UPDATE schedule_entries SET date = ?, updated_at = ? WHERE id = ?`,
		string(to), formatTime(now), e.ID)
	if err != nil {
		return fmt.Errorf("move schedule entry %s to %s: %w", e.Date, to, err)
	}
	e.Date = to
	e.UpdatedAt = now
	return nil
}

// DeleteScheduleEntry removes an entry and nulls the schedule id of any
// session that pointed at it.
func (t *Tx) DeleteScheduleEntry(id string) error {
	if _, err := t.tx.Exec(`UPDATE sessions SET schedule_id = NULL WHERE schedule_id = ?`, id); err != nil {
		return fmt.Errorf("unlink sessions from schedule entry: %w", err)
	}
	if _, err := t.tx.Exec(`DELETE FROM schedule_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}

func scanScheduleEntry(row scanner) (*models.ScheduleEntry, error) {
	var e models.ScheduleEntry
	var date, typ, state, createdAt, updatedAt string
	var programID, versionID, dayID, linked sql.NullString

	err := row.Scan(&e.ID, &date, &typ, &programID, &versionID, &dayID,
		&e.Title, &state, &linked, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	e.Date = models.Date(date)
	e.Type = models.ScheduleType(typ)
	e.State = models.ScheduleState(state)
	e.ProgramID = stringPtr(programID)
	e.ProgramVersionID = stringPtr(versionID)
	e.DayTemplateID = stringPtr(dayID)
	e.LinkedSessionID = stringPtr(linked)
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	return &e, nil
}

func scanScheduleEntries(rows *sql.Rows) ([]*models.ScheduleEntry, error) {
	var entries []*models.ScheduleEntry
	for rows.Next() {
		e, err := scanScheduleEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
