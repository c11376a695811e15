// ABOUTME: Builds self-contained session snapshots inside a transaction.
package storage

import (
	"fmt"
	"time"

	"github.com/harperreed/gymlog/internal/models"
)

// snapshotApp names the application in snapshot payloads.
const snapshotApp = "gymlog"

// SessionSnapshot collects a session with its exercises, sets, and the
// exercise registry rows they reference.
func (t *Tx) SessionSnapshot(sessionID string) (*models.SessionSnapshot, error) {
	s, err := t.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	exercises, err := t.ListSessionExercises(sessionID)
	if err != nil {
		return nil, err
	}

	sets, err := t.querySets(`SELECT `+setColumns+` FROM set_entries
		WHERE session_id = ? ORDER BY session_exercise_id, ord, created_at, id`, sessionID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var registry []*models.Exercise
	addExercise := func(id string) error {
		if seen[id] {
			return nil
		}
		seen[id] = true
		ok, err := t.ExerciseExists(id)
		if err != nil || !ok {
			return err
		}
		e, err := t.GetExercise(id)
		if err != nil {
			return err
		}
		registry = append(registry, e)
		return nil
	}
	for _, se := range exercises {
		if err := addExercise(se.ExerciseID); err != nil {
			return nil, fmt.Errorf("snapshot exercises: %w", err)
		}
	}
	for _, set := range sets {
		if err := addExercise(set.ExerciseID); err != nil {
			return nil, fmt.Errorf("snapshot exercises: %w", err)
		}
	}

	return &models.SessionSnapshot{
		App:              snapshotApp,
		SchemaVersion:    models.SnapshotSchemaVersion,
		ExportedAt:       time.Now(),
		Session:          s,
		SessionExercises: exercises,
		Sets:             sets,
		Exercises:        registry,
	}, nil
}
