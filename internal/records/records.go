// ABOUTME: Personal record tracking for the max working-set load of each exercise.
// ABOUTME: Incremental updates on finish, full recomputes after historical edits.
package records

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

// Tracker maintains the personal_records table.
type Tracker struct {
	now func() time.Time
}

// NewTracker creates a tracker using the wall clock.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// WithClock replaces the tracker's clock.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// UpdateForSession folds the best working set of each exercise in a session
// into the records. A record is only replaced by a strictly greater load, so
// ties keep their original attribution.
func (t *Tracker) UpdateForSession(tx *storage.Tx, sessionID string) error {
	sets, err := tx.ListSetsForSession(sessionID)
	if err != nil {
		return fmt.Errorf("update records: %w", err)
	}

	best := make(map[string]*models.SetEntry)
	var exerciseIDs []string
	for _, set := range sets {
		if !set.CountsForRecord() {
			continue
		}
		cur, ok := best[set.ExerciseID]
		if !ok {
			exerciseIDs = append(exerciseIDs, set.ExerciseID)
		}
		if !ok || *set.Load > *cur.Load {
			best[set.ExerciseID] = set
		}
	}

	now := t.now()
	for _, exerciseID := range exerciseIDs {
		candidate := best[exerciseID]
		existing, err := tx.FindRecord(exerciseID)
		if err != nil {
			return fmt.Errorf("update records: %w", err)
		}

		switch {
		case existing == nil:
			existing = models.NewPersonalRecord(candidate, now)
		case *candidate.Load > existing.Value:
			existing.AttributeTo(candidate, now)
		default:
			continue
		}

		if err := tx.UpsertRecord(existing); err != nil {
			return fmt.Errorf("update records: %w", err)
		}
		log.WithFields(log.Fields{
			"exercise_id": exerciseID,
			"session_id":  sessionID,
			"value":       existing.Value,
		}).Debug("personal record set")
	}
	return nil
}

// RecomputeForExercise rebuilds one exercise's record from its full set
// history. The earliest set reaching the maximum wins. When no eligible set
// remains the record is deleted.
func (t *Tracker) RecomputeForExercise(tx *storage.Tx, exerciseID string) error {
	sets, err := tx.ListSetsForExercise(exerciseID)
	if err != nil {
		return fmt.Errorf("recompute record: %w", err)
	}

	var winner *models.SetEntry
	for _, set := range sets {
		if !set.CountsForRecord() {
			continue
		}
		if winner == nil || *set.Load > *winner.Load {
			winner = set
		}
	}

	if winner == nil {
		if err := tx.DeleteRecord(exerciseID); err != nil {
			return fmt.Errorf("recompute record: %w", err)
		}
		return nil
	}

	now := t.now()
	record, err := tx.FindRecord(exerciseID)
	if err != nil {
		return fmt.Errorf("recompute record: %w", err)
	}
	if record == nil {
		record = models.NewPersonalRecord(winner, now)
	} else {
		record.AttributeTo(winner, now)
	}

	if err := tx.UpsertRecord(record); err != nil {
		return fmt.Errorf("recompute record: %w", err)
	}
	return nil
}

// RebuildAll recomputes every exercise that has sets or holds a record, in
// one transaction. It returns the number of exercises processed.
func (t *Tracker) RebuildAll(ctx context.Context, db *storage.DB) (int, error) {
	var n int
	err := db.Update(ctx, func(tx *storage.Tx) error {
		withSets, err := tx.ExerciseIDsWithSets()
		if err != nil {
			return err
		}
		withRecords, err := tx.RecordExerciseIDs()
		if err != nil {
			return err
		}

		seen := make(map[string]bool)
		for _, id := range append(withSets, withRecords...) {
			if seen[id] {
				continue
			}
			seen[id] = true
			if err := t.RecomputeForExercise(tx, id); err != nil {
				return err
			}
		}
		n = len(seen)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("rebuild records: %w", err)
	}
	return n, nil
}
