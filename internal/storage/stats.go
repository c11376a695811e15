// ABOUTME: Aggregate statistics persistence: per-session snapshots and the GLOBAL row.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/gymlog/internal/models"
)

// FindSessionStats returns the stored snapshot of a session, or nil.
func (t *Tx) FindSessionStats(sessionID string) (*models.SessionStats, error) {
	var s models.SessionStats
	var updatedAt string
	err := t.tx.QueryRow(`SELECT session_id, sets_count, volume_load, duration_sec, updated_at
		FROM session_stats WHERE session_id = ?`, sessionID).
		Scan(&s.SessionID, &s.SetsCount, &s.VolumeLoad, &s.DurationSec, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session stats: %w", err)
	}
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}

// PutSessionStats inserts or replaces a session snapshot.
func (t *Tx) PutSessionStats(s *models.SessionStats) error {
	_, err := t.tx.Exec(`INSERT INTO session_stats (session_id, sets_count, volume_load, duration_sec, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			sets_count = excluded.sets_count,
			volume_load = excluded.volume_load,
			duration_sec = excluded.duration_sec,
			updated_at = excluded.updated_at`,
		s.SessionID, s.SetsCount, s.VolumeLoad, s.DurationSec, formatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put session stats: %w", err)
	}
	return nil
}

// SumSessionStats folds every session snapshot into one total.
func (t *Tx) SumSessionStats() (*models.SessionStats, error) {
	var s models.SessionStats
	err := t.tx.QueryRow(`SELECT COALESCE(SUM(sets_count), 0), COALESCE(SUM(volume_load), 0),
		COALESCE(SUM(duration_sec), 0) FROM session_stats`).
		Scan(&s.SetsCount, &s.VolumeLoad, &s.DurationSec)
	if err != nil {
		return nil, fmt.Errorf("sum session stats: %w", err)
	}
	s.VolumeLoad = models.RoundVolume(s.VolumeLoad)
	return &s, nil
}

// GetGlobalStats returns the GLOBAL totals, zeroed when the row is missing.
func (t *Tx) GetGlobalStats() (*models.GlobalStats, error) {
	var g models.GlobalStats
	var updatedAt string
	err := t.tx.QueryRow(`SELECT total_sessions_completed, total_sets_logged, total_volume_load,
		total_workout_duration_sec, last_updated_at FROM global_stats WHERE id = ?`, models.GlobalStatsID).
		Scan(&g.TotalSessionsCompleted, &g.TotalSetsLogged, &g.TotalVolumeLoad,
			&g.TotalWorkoutDurationSec, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &g, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get global stats: %w", err)
	}
	g.LastUpdatedAt = parseTime(updatedAt)
	return &g, nil
}

// PutGlobalStats writes the GLOBAL totals.
func (t *Tx) PutGlobalStats(g *models.GlobalStats) error {
	_, err := t.tx.Exec(`INSERT INTO global_stats (id, total_sessions_completed, total_sets_logged,
			total_volume_load, total_workout_duration_sec, last_updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total_sessions_completed = excluded.total_sessions_completed,
			total_sets_logged = excluded.total_sets_logged,
			total_volume_load = excluded.total_volume_load,
			total_workout_duration_sec = excluded.total_workout_duration_sec,
			last_updated_at = excluded.last_updated_at`,
		models.GlobalStatsID, g.TotalSessionsCompleted, g.TotalSetsLogged, g.TotalVolumeLoad,
		g.TotalWorkoutDurationSec, formatTime(g.LastUpdatedAt))
	if err != nil {
		return fmt.Errorf("put global stats: %w", err)
	}
	return nil
}
