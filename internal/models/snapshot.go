// ABOUTME: Self-contained session snapshot used for backups and session detail views.
package models

import "time"

// SnapshotSchemaVersion is bumped when the snapshot layout changes.
const SnapshotSchemaVersion = 1

// SessionSnapshot bundles a session with everything needed to restore it.
type SessionSnapshot struct {
	App              string             `json:"app"`
	SchemaVersion    int                `json:"schema_version"`
	ExportedAt       time.Time          `json:"exported_at"`
	Session          *Session           `json:"session"`
	SessionExercises []*SessionExercise `json:"session_exercises"`
	Sets             []*SetEntry        `json:"sets"`
	Exercises        []*Exercise        `json:"exercises"`
}

// SetsFor returns the sets of one session exercise in order.
func (s *SessionSnapshot) SetsFor(sessionExerciseID string) []*SetEntry {
	var out []*SetEntry
	for _, set := range s.Sets {
		if set.SessionExerciseID == sessionExerciseID {
			out = append(out, set)
		}
	}
	return out
}

// ExerciseName resolves an exercise id to its name, falling back to the id.
func (s *SessionSnapshot) ExerciseName(id string) string {
	for _, e := range s.Exercises {
		if e.ID == id {
			return e.Name
		}
	}
	return id
}
