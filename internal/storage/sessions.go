// ABOUTME: Session and session-exercise persistence.
// ABOUTME: Deleting a session cascades to its exercises and sets and clears schedule links.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/gymlog/internal/models"
)

const sessionColumns = `id, schedule_id, program_id, program_version_id, day_template_id, date,
	state, started_at, finished_at, duration_sec, notes, end_log, created_at, updated_at`

// InsertSession stores a new session.
func (t *Tx) InsertSession(s *models.Session) error {
	endLog, err := jsonColumn(s.EndLog)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	_, err = t.tx.Exec(`INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.ScheduleID, s.ProgramID, s.ProgramVersionID, s.DayTemplateID, string(s.Date),
		string(s.State), formatTimePtr(s.StartedAt), formatTimePtr(s.FinishedAt), s.DurationSec,
		s.Notes, endLog, formatTime(s.CreatedAt), formatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// UpdateSession rewrites the mutable fields of a session.
func (t *Tx) UpdateSession(s *models.Session) error {
	endLog, err := jsonColumn(s.EndLog)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	_, err = t.tx.Exec(`UPDATE sessions SET schedule_id = ?, state = ?, started_at = ?,
		finished_at = ?, duration_sec = ?, notes = ?, end_log = ?, updated_at = ?
		WHERE id = ?`,
		s.ScheduleID, string(s.State), formatTimePtr(s.StartedAt), formatTimePtr(s.FinishedAt),
		s.DurationSec, s.Notes, endLog, formatTime(s.UpdatedAt), s.ID)
	if err != nil {
		return fmt.Errorf("update session %s: %w", models.ShortID(s.ID), err)
	}
	return nil
}

// GetSession returns the session with id, or ErrNotFound.
func (t *Tx) GetSession(id string) (*models.Session, error) {
	s, err := scanSession(t.tx.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// FindSessionForSchedule returns the first session on date whose schedule id
// equals scheduleID (both may be absent for ad-hoc sessions), or nil.
func (t *Tx) FindSessionForSchedule(date models.Date, scheduleID *string) (*models.Session, error) {
	row := t.tx.QueryRow(`SELECT `+sessionColumns+` FROM sessions
		WHERE date = ? AND schedule_id IS ?
		ORDER BY created_at, id LIMIT 1`, string(date), scheduleID)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session for %s: %w", date, err)
	}
	return s, nil
}

// FirstSessionReferencing returns the oldest session pointing at a schedule
// entry, or nil.
func (t *Tx) FirstSessionReferencing(scheduleID string) (*models.Session, error) {
	row := t.tx.QueryRow(`SELECT `+sessionColumns+` FROM sessions
		WHERE schedule_id = ? ORDER BY created_at, id LIMIT 1`, scheduleID)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session for schedule entry: %w", err)
	}
	return s, nil
}

// FindActiveSession returns the most recently started in-progress session, or nil.
func (t *Tx) FindActiveSession() (*models.Session, error) {
	row := t.tx.QueryRow(`SELECT ` + sessionColumns + ` FROM sessions
		WHERE state = 'IN_PROGRESS' ORDER BY created_at DESC, id DESC LIMIT 1`)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active session: %w", err)
	}
	return s, nil
}

// ListSessions returns sessions by date, oldest first. A positive limit keeps
// only the most recent ones.
func (t *Tx) ListSessions(limit int) ([]*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY date DESC, created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := t.tx.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}
	return sessions, nil
}

// CountSessionsByState counts sessions in state.
func (t *Tx) CountSessionsByState(state models.SessionState) (int, error) {
	var n int
	if err := t.tx.QueryRow(`SELECT COUNT(*) FROM sessions WHERE state = ?`, string(state)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// LatestArchivedDate returns the date of the most recent archived session.
// ok is false when no session has been archived.
func (t *Tx) LatestArchivedDate() (date models.Date, ok bool, err error) {
	var d sql.NullString
	if err := t.tx.QueryRow(`SELECT MAX(date) FROM sessions WHERE state = 'ARCHIVED'`).Scan(&d); err != nil {
		return "", false, fmt.Errorf("latest archived session: %w", err)
	}
	if !d.Valid {
		return "", false, nil
	}
	return models.Date(d.String), true, nil
}

// DeleteSession removes a session with its exercises and sets and clears
// any schedule entry link to it.
func (t *Tx) DeleteSession(id string) error {
	if _, err := t.tx.Exec(`UPDATE schedule_entries SET linked_session_id = NULL WHERE linked_session_id = ?`, id); err != nil {
		return fmt.Errorf("unlink schedule from session: %w", err)
	}
	if _, err := t.tx.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func scanSession(row scanner) (*models.Session, error) {
	var s models.Session
	var date, state, createdAt, updatedAt string
	var scheduleID, programID, versionID, dayID, notes, endLog sql.NullString
	var startedAt, finishedAt sql.NullString
	var duration sql.NullInt64

	err := row.Scan(&s.ID, &scheduleID, &programID, &versionID, &dayID, &date, &state,
		&startedAt, &finishedAt, &duration, &notes, &endLog, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	s.Date = models.Date(date)
	s.State = models.SessionState(state)
	s.ScheduleID = stringPtr(scheduleID)
	s.ProgramID = stringPtr(programID)
	s.ProgramVersionID = stringPtr(versionID)
	s.DayTemplateID = stringPtr(dayID)
	s.StartedAt = timePtr(startedAt)
	s.FinishedAt = timePtr(finishedAt)
	s.DurationSec = int64Ptr(duration)
	s.Notes = stringPtr(notes)
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	if s.EndLog, err = scanJSONColumn[models.EndLog](endLog); err != nil {
		return nil, err
	}
	return &s, nil
}

const sessionExerciseColumns = `id, session_id, exercise_id, ord, group_id,
	source_day_exercise_id, created_at, updated_at`

// InsertSessionExercise stores a new session exercise.
func (t *Tx) InsertSessionExercise(se *models.SessionExercise) error {
	_, err := t.tx.Exec(`INSERT INTO session_exercises (`+sessionExerciseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		se.ID, se.SessionID, se.ExerciseID, se.Order, se.GroupID, se.SourceDayExerciseID,
		formatTime(se.CreatedAt), formatTime(se.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert session exercise: %w", err)
	}
	return nil
}

// UpdateSessionExercise rewrites the exercise id of a session exercise.
func (t *Tx) UpdateSessionExercise(se *models.SessionExercise) error {
	_, err := t.tx.Exec(`UPDATE session_exercises SET exercise_id = ?, updated_at = ? WHERE id = ?`,
		se.ExerciseID, formatTime(se.UpdatedAt), se.ID)
	if err != nil {
		return fmt.Errorf("update session exercise: %w", err)
	}
	return nil
}

// GetSessionExercise returns the session exercise with id, or ErrNotFound.
func (t *Tx) GetSessionExercise(id string) (*models.SessionExercise, error) {
	row := t.tx.QueryRow(`SELECT `+sessionExerciseColumns+` FROM session_exercises WHERE id = ?`, id)
	se, err := scanSessionExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session exercise %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get session exercise: %w", err)
	}
	return se, nil
}

// ListSessionExercises returns the exercises of a session in order.
func (t *Tx) ListSessionExercises(sessionID string) ([]*models.SessionExercise, error) {
	rows, err := t.tx.Query(`SELECT `+sessionExerciseColumns+` FROM session_exercises
		WHERE session_id = ? ORDER BY ord, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session exercises: %w", err)
	}
	defer rows.Close()

	var out []*models.SessionExercise
	for rows.Next() {
		se, err := scanSessionExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session exercise: %w", err)
		}
		out = append(out, se)
	}
	return out, rows.Err()
}

// MaxSessionExerciseOrder returns the highest order in a session, or 0.
func (t *Tx) MaxSessionExerciseOrder(sessionID string) (int, error) {
	var n int
	err := t.tx.QueryRow(`SELECT COALESCE(MAX(ord), 0) FROM session_exercises WHERE session_id = ?`,
		sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("max session exercise order: %w", err)
	}
	return n, nil
}

func scanSessionExercise(row scanner) (*models.SessionExercise, error) {
	var se models.SessionExercise
	var groupID, sourceID sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&se.ID, &se.SessionID, &se.ExerciseID, &se.Order, &groupID, &sourceID,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	se.GroupID = stringPtr(groupID)
	se.SourceDayExerciseID = stringPtr(sourceID)
	se.CreatedAt = parseTime(createdAt)
	se.UpdatedAt = parseTime(updatedAt)
	return &se, nil
}
