// ABOUTME: Logged set model plus the payloads used to create and patch sets.
// ABOUTME: Volume and record eligibility are derived here.
package models

import "time"

// SetType classifies a logged set.
type SetType string

const (
	SetWarmup  SetType = "WARMUP"
	SetWorking SetType = "WORKING"
	SetCardio  SetType = "CARDIO"
	SetOther   SetType = "OTHER"
)

// IsValidSetType checks if s names a set type.
func IsValidSetType(s string) bool {
	switch SetType(s) {
	case SetWarmup, SetWorking, SetCardio, SetOther:
		return true
	}
	return false
}

// SetEntry is one logged set.
type SetEntry struct {
	ID                string    `json:"id"`
	SessionID         string    `json:"session_id"`
	SessionExerciseID string    `json:"session_exercise_id"`
	ExerciseID        string    `json:"exercise_id"`
	SetType           SetType   `json:"set_type"`
	Order             int       `json:"order"`
	Reps              *int      `json:"reps,omitempty"`
	Load              *float64  `json:"load,omitempty"`
	RIR               *float64  `json:"rir,omitempty"`
	Distance          *float64  `json:"distance,omitempty"`
	DurationSec       *int      `json:"duration_sec,omitempty"`
	Calories          *float64  `json:"calories,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Volume returns reps x load, or 0 when either is missing.
func (s *SetEntry) Volume() float64 {
	if s.Reps == nil || s.Load == nil {
		return 0
	}
	return float64(*s.Reps) * *s.Load
}

// CountsForRecord reports whether the set is a working set with a load.
func (s *SetEntry) CountsForRecord() bool {
	return s.SetType == SetWorking && s.Load != nil
}

// SetPayload is the input for logging a set.
type SetPayload struct {
	SetType     SetType  `json:"set_type" validate:"oneof=WARMUP WORKING CARDIO OTHER"`
	Reps        *int     `json:"reps,omitempty" validate:"omitempty,min=0"`
	Load        *float64 `json:"load,omitempty" validate:"omitempty,min=0"`
	RIR         *float64 `json:"rir,omitempty" validate:"omitempty,min=0"`
	Distance    *float64 `json:"distance,omitempty" validate:"omitempty,min=0"`
	DurationSec *int     `json:"duration_sec,omitempty" validate:"omitempty,min=0"`
	Calories    *float64 `json:"calories,omitempty" validate:"omitempty,min=0"`
}

// NewSetEntry builds a set for a session exercise at the given order.
func NewSetEntry(se *SessionExercise, order int, p SetPayload, now time.Time) *SetEntry {
	return &SetEntry{
		ID:                NewIDAt(now),
		SessionID:         se.SessionID,
		SessionExerciseID: se.ID,
		ExerciseID:        se.ExerciseID,
		SetType:           p.SetType,
		Order:             order,
		Reps:              p.Reps,
		Load:              p.Load,
		RIR:               p.RIR,
		Distance:          p.Distance,
		DurationSec:       p.DurationSec,
		Calories:          p.Calories,
		CreatedAt:         now,
	}
}

// SetPatch lists the fields a historical correction may change. Nil fields are
// left untouched.
type SetPatch struct {
	SetType     *SetType `json:"set_type,omitempty" validate:"omitempty,oneof=WARMUP WORKING CARDIO OTHER"`
	Reps        *int     `json:"reps,omitempty" validate:"omitempty,min=0"`
	Load        *float64 `json:"load,omitempty" validate:"omitempty,min=0"`
	RIR         *float64 `json:"rir,omitempty" validate:"omitempty,min=0"`
	Distance    *float64 `json:"distance,omitempty" validate:"omitempty,min=0"`
	DurationSec *int     `json:"duration_sec,omitempty" validate:"omitempty,min=0"`
	Calories    *float64 `json:"calories,omitempty" validate:"omitempty,min=0"`
}

// Apply copies the non-nil patch fields onto s.
func (p SetPatch) Apply(s *SetEntry) {
	if p.SetType != nil {
		s.SetType = *p.SetType
	}
	if p.Reps != nil {
		s.Reps = p.Reps
	}
	if p.Load != nil {
		s.Load = p.Load
	}
	if p.RIR != nil {
		s.RIR = p.RIR
	}
	if p.Distance != nil {
		s.Distance = p.Distance
	}
	if p.DurationSec != nil {
		s.DurationSec = p.DurationSec
	}
	if p.Calories != nil {
		s.Calories = p.Calories
	}
}
