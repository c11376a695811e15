// ABOUTME: Tests for personal record tracking.
// ABOUTME: Covers strict improvement, earliest-max recompute, and full rebuilds.
package records

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

var testNow = time.Date(2026, 2, 24, 9, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "gymlog-records-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	db, err := storage.Open(filepath.Join(tmpDir, "gymlog.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedSession stores a session with one exercise slot and a set per load.
// Sets are created one minute apart starting at start.
func seedSession(t *testing.T, db *storage.DB, exerciseID string, start time.Time, types []models.SetType, loads []float64) (*models.Session, []*models.SetEntry) {
	t.Helper()
	s := models.NewSession(models.DateOf(start), nil, start)
	se := models.NewSessionExercise(s.ID, exerciseID, 1, start)

	var sets []*models.SetEntry
	err := db.Update(context.Background(), func(tx *storage.Tx) error {
		if err := tx.InsertSession(s); err != nil {
			return err
		}
		if err := tx.InsertSessionExercise(se); err != nil {
			return err
		}
		for i, load := range loads {
			reps := 5
			l := load
			set := models.NewSetEntry(se, i+1, models.SetPayload{SetType: types[i], Reps: &reps, Load: &l},
				start.Add(time.Duration(i)*time.Minute))
			if err := tx.InsertSet(set); err != nil {
				return err
			}
			sets = append(sets, set)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return s, sets
}

func seedExercise(t *testing.T, db *storage.DB) string {
	t.Helper()
	e := models.NewExercise("Bench Press")
	if err := db.Update(context.Background(), func(tx *storage.Tx) error { return tx.CreateExercise(e) }); err != nil {
		t.Fatalf("seed exercise: %v", err)
	}
	return e.ID
}

func findRecord(t *testing.T, db *storage.DB, exerciseID string) *models.PersonalRecord {
	t.Helper()
	var r *models.PersonalRecord
	err := db.View(context.Background(), func(tx *storage.Tx) error {
		var err error
		r, err = tx.FindRecord(exerciseID)
		return err
	})
	if err != nil {
		t.Fatalf("FindRecord failed: %v", err)
	}
	return r
}

func allWorking(n int) []models.SetType {
	types := make([]models.SetType, n)
	for i := range types {
		types[i] = models.SetWorking
	}
	return types
}

func TestUpdateForSession(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	exerciseID := seedExercise(t, db)
	tracker := NewTracker().WithClock(func() time.Time { return testNow })

	// The warmup at 120 is not eligible.
	types := []models.SetType{models.SetWorking, models.SetWorking, models.SetWarmup, models.SetWorking}
	s, sets := seedSession(t, db, exerciseID, testNow, types, []float64{80, 90, 120, 85})

	err := db.Update(ctx, func(tx *storage.Tx) error { return tracker.UpdateForSession(tx, s.ID) })
	if err != nil {
		t.Fatalf("UpdateForSession failed: %v", err)
	}
	r := findRecord(t, db, exerciseID)
	if r == nil || r.Value != 90 || r.SetID != sets[1].ID || r.Metric != models.MetricMaxLoad {
		t.Fatalf("record = %+v, want 90 from second set", r)
	}

	tests := []struct {
		name    string
		load    float64
		wantSet func(newSet *models.SetEntry) string
	}{
		{"tie keeps original", 90, func(*models.SetEntry) string { return sets[1].ID }},
		{"lower keeps original", 60, func(*models.SetEntry) string { return sets[1].ID }},
		{"greater replaces", 95, func(newSet *models.SetEntry) string { return newSet.ID }},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := testNow.Add(time.Duration(i+1) * 24 * time.Hour)
			s2, newSets := seedSession(t, db, exerciseID, start, allWorking(1), []float64{tt.load})
			err := db.Update(ctx, func(tx *storage.Tx) error { return tracker.UpdateForSession(tx, s2.ID) })
			if err != nil {
				t.Fatalf("UpdateForSession failed: %v", err)
			}
			r := findRecord(t, db, exerciseID)
			if want := tt.wantSet(newSets[0]); r.SetID != want {
				t.Errorf("record set = %s, want %s", r.SetID, want)
			}
		})
	}
}

func TestRecomputeForExercisePicksEarliestMax(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	exerciseID := seedExercise(t, db)
	tracker := NewTracker()

	_, sets := seedSession(t, db, exerciseID, testNow, allWorking(3), []float64{100, 80, 100})

	err := db.Update(ctx, func(tx *storage.Tx) error { return tracker.RecomputeForExercise(tx, exerciseID) })
	if err != nil {
		t.Fatalf("RecomputeForExercise failed: %v", err)
	}
	r := findRecord(t, db, exerciseID)
	if r == nil || r.SetID != sets[0].ID || r.Value != 100 {
		t.Fatalf("record = %+v, want first 100", r)
	}
	if !r.AchievedAt.Equal(sets[0].CreatedAt) {
		t.Errorf("AchievedAt = %v, want %v", r.AchievedAt, sets[0].CreatedAt)
	}

	// With no eligible sets left the record is removed.
	err = db.Update(ctx, func(tx *storage.Tx) error {
		for _, set := range sets {
			if err := tx.DeleteSet(set.ID); err != nil {
				return err
			}
		}
		return tracker.RecomputeForExercise(tx, exerciseID)
	})
	if err != nil {
		t.Fatalf("recompute after delete failed: %v", err)
	}
	if r := findRecord(t, db, exerciseID); r != nil {
		t.Errorf("record should be deleted, got %+v", r)
	}
}

func TestRebuildAll(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	exerciseID := seedExercise(t, db)

	_, sets := seedSession(t, db, exerciseID, testNow, allWorking(2), []float64{70, 75})

	n, err := NewTracker().RebuildAll(ctx, db)
	if err != nil {
		t.Fatalf("RebuildAll failed: %v", err)
	}
	if n != 1 {
		t.Errorf("processed %d exercises, want 1", n)
	}
	if r := findRecord(t, db, exerciseID); r == nil || r.SetID != sets[1].ID {
		t.Errorf("record = %+v, want 75", r)
	}
}
