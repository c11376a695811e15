// ABOUTME: Tests for the program catalog: exercise registry and JSON program import.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/harperreed/gymlog/internal/models"
)

const sampleProgram = `{
  "schemaVersion": 1,
  "program": {
    "name": "Upper Lower",
    "anchorWeekday": 1,
    "weekTemplate": {
      "name": "Base week",
      "days": [
        {"weekday": 1, "title": "Upper A", "exercises": [
          {"name": "Bench Press", "order": 1, "prescription": {"target_sets": 3, "target_reps": "5"}},
          {"name": "Barbell Row", "order": 2, "groupId": "A"}
        ]},
        {"weekday": 3, "title": "Lower A", "exercises": [
          {"name": "squat", "order": 1, "isWarmupDefault": true}
        ]}
      ]
    }
  },
  "exercises": [
    {"name": "Squat", "type": "STRENGTH", "defaultUnit": "KG"}
  ]
}`

func TestImportProgram(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	var imp models.ProgramImport
	if err := json.Unmarshal([]byte(sampleProgram), &imp); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}

	result, err := db.ImportProgram(ctx, &imp)
	if err != nil {
		t.Fatalf("ImportProgram failed: %v", err)
	}
	if result.AnchorWeekday == nil || *result.AnchorWeekday != 1 {
		t.Errorf("AnchorWeekday = %v, want 1", result.AnchorWeekday)
	}

	p, err := db.ActiveProgram(ctx)
	if err != nil {
		t.Fatalf("ActiveProgram failed: %v", err)
	}
	if p == nil || p.Program.ID != result.ProgramID || p.VersionID != result.VersionID {
		t.Fatalf("active program mismatch: %+v", p)
	}
	if len(p.Days) != 2 {
		t.Fatalf("expected 2 day templates, got %d", len(p.Days))
	}

	upper := p.DayFor(time.Monday)
	if upper == nil || upper.Title != "Upper A" || len(upper.Exercises) != 2 {
		t.Fatalf("unexpected Monday template: %+v", upper)
	}
	if upper.Exercises[0].Prescription == nil || upper.Exercises[0].Prescription.TargetReps != "5" {
		t.Errorf("prescription lost: %+v", upper.Exercises[0].Prescription)
	}
	if upper.Exercises[1].GroupID == nil || *upper.Exercises[1].GroupID != "A" {
		t.Errorf("group id lost: %+v", upper.Exercises[1].GroupID)
	}
	if p.DayFor(time.Sunday) != nil {
		t.Error("Sunday should have no template")
	}

	// "squat" in the day resolves to the embedded "Squat" exercise.
	mustView(t, db, func(tx *Tx) error {
		exercises, err := tx.ListExercises(false)
		if err != nil {
			return err
		}
		if len(exercises) != 3 {
			t.Errorf("expected 3 exercises, got %d", len(exercises))
		}
		squat, err := tx.FindExerciseByName("SQUAT")
		if err != nil {
			return err
		}
		lower := p.DayFor(time.Wednesday)
		if squat == nil || lower.Exercises[0].ExerciseID != squat.ID {
			t.Errorf("day exercise not linked to existing squat")
		}
		if !lower.Exercises[0].IsWarmupDefault {
			t.Error("warmup default lost")
		}
		return nil
	})
}

func TestImportProgramLatestIsActive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"First", "Second"} {
		imp := &models.ProgramImport{
			SchemaVersion: 1,
			Program: models.ProgramImportBody{
				Name: name,
				WeekTemplate: models.ImportWeekTemplate{Days: []models.ImportDay{
					{Weekday: 2, Title: name + " day", Exercises: []models.ImportDayExercise{{Name: "Deadlift"}}},
				}},
			},
		}
		if _, err := db.ImportProgram(ctx, imp); err != nil {
			t.Fatalf("ImportProgram(%s) failed: %v", name, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	p, err := db.ActiveProgram(ctx)
	if err != nil {
		t.Fatalf("ActiveProgram failed: %v", err)
	}
	if p.Program.Name != "Second" {
		t.Errorf("active program = %s, want Second", p.Program.Name)
	}
}

func TestImportProgramRejectsInvalid(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name string
		imp  models.ProgramImport
	}{
		{"wrong schema version", models.ProgramImport{
			SchemaVersion: 2,
			Program: models.ProgramImportBody{Name: "X", WeekTemplate: models.ImportWeekTemplate{
				Days: []models.ImportDay{{Weekday: 1, Title: "A"}},
			}},
		}},
		{"no days", models.ProgramImport{
			SchemaVersion: 1,
			Program:       models.ProgramImportBody{Name: "X"},
		}},
		{"duplicate weekday", models.ProgramImport{
			SchemaVersion: 1,
			Program: models.ProgramImportBody{Name: "X", WeekTemplate: models.ImportWeekTemplate{
				Days: []models.ImportDay{{Weekday: 1, Title: "A"}, {Weekday: 1, Title: "B"}},
			}},
		}},
		{"unknown exercise id", models.ProgramImport{
			SchemaVersion: 1,
			Program: models.ProgramImportBody{Name: "X", WeekTemplate: models.ImportWeekTemplate{
				Days: []models.ImportDay{{Weekday: 1, Title: "A", Exercises: []models.ImportDayExercise{
					{ExerciseID: "does-not-exist"},
				}}},
			}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.ImportProgram(ctx, &tt.imp)
			if !errors.Is(err, models.ErrPrecondition) {
				t.Errorf("expected precondition error, got %v", err)
			}
		})
	}

	p, err := db.ActiveProgram(ctx)
	if err != nil {
		t.Fatalf("ActiveProgram failed: %v", err)
	}
	if p != nil {
		t.Errorf("failed imports left a program behind: %+v", p.Program)
	}
}

func TestCreateExerciseNameUnique(t *testing.T) {
	db := setupTestDB(t)
	seedExercise(t, db, "Bench Press")

	err := db.Update(context.Background(), func(tx *Tx) error {
		return tx.CreateExercise(models.NewExercise("bench press"))
	})
	if err == nil {
		t.Error("expected duplicate name (case-insensitive) to fail")
	}
}
