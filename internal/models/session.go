// ABOUTME: Session model and its lifecycle state machine.
// ABOUTME: PLANNED -> IN_PROGRESS -> COMPLETED -> ARCHIVED, enforced by Transition.
package models

import (
	"fmt"
	"slices"
	"time"
)

// SessionState is the lifecycle state of a workout occurrence.
type SessionState string

const (
	SessionPlanned    SessionState = "PLANNED"
	SessionInProgress SessionState = "IN_PROGRESS"
	SessionCompleted  SessionState = "COMPLETED"
	SessionArchived   SessionState = "ARCHIVED"
)

var sessionTransitions = map[SessionState][]SessionState{
	SessionPlanned:    {SessionInProgress, SessionCompleted},
	SessionInProgress: {SessionCompleted},
	SessionCompleted:  {SessionArchived},
	SessionArchived:   nil,
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s SessionState) CanTransitionTo(next SessionState) bool {
	return slices.Contains(sessionTransitions[s], next)
}

// IsFinished reports whether the session has been completed (and possibly archived).
func (s SessionState) IsFinished() bool {
	return s == SessionCompleted || s == SessionArchived
}

// EndLog holds the post-workout self ratings.
type EndLog struct {
	Performance    int    `json:"performance" validate:"min=1,max=5"`
	Energy         int    `json:"energy" validate:"min=1,max=5"`
	MindMuscle     int    `json:"mind_muscle" validate:"min=1,max=5"`
	MentalState    string `json:"mental_state,omitempty"`
	PreWorkoutUsed string `json:"pre_workout_used,omitempty"`
}

// Session is one concrete workout occurrence.
type Session struct {
	ID               string       `json:"id"`
	ScheduleID       *string      `json:"schedule_id,omitempty"`
	ProgramID        *string      `json:"program_id,omitempty"`
	ProgramVersionID *string      `json:"program_version_id,omitempty"`
	DayTemplateID    *string      `json:"day_template_id,omitempty"`
	Date             Date         `json:"date"`
	State            SessionState `json:"state"`
	StartedAt        *time.Time   `json:"started_at,omitempty"`
	FinishedAt       *time.Time   `json:"finished_at,omitempty"`
	DurationSec      *int64       `json:"duration_sec,omitempty"`
	Notes            *string      `json:"notes,omitempty"`
	EndLog           *EndLog      `json:"end_log,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// NewSession creates an in-progress session for date, linked to entry when given.
func NewSession(date Date, entry *ScheduleEntry, now time.Time) *Session {
	s := &Session{
		ID:        NewIDAt(now),
		Date:      date,
		State:     SessionInProgress,
		StartedAt: &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if entry != nil {
		scheduleID := entry.ID
		s.ScheduleID = &scheduleID
		s.ProgramID = entry.ProgramID
		s.ProgramVersionID = entry.ProgramVersionID
		s.DayTemplateID = entry.DayTemplateID
	}
	return s
}

// Transition moves the session to next, rejecting moves outside the state machine.
func (s *Session) Transition(next SessionState, now time.Time) error {
	if !s.State.CanTransitionTo(next) {
		return fmt.Errorf("%w: session %s cannot move from %s to %s",
			ErrInvalidTransition, ShortID(s.ID), s.State, next)
	}
	s.State = next
	s.UpdatedAt = now
	return nil
}

// Start promotes a planned session to in-progress, keeping an existing start time.
func (s *Session) Start(now time.Time) error {
	if err := s.Transition(SessionInProgress, now); err != nil {
		return err
	}
	if s.StartedAt == nil {
		s.StartedAt = &now
	}
	return nil
}

// Complete stamps the finish time, duration, and end log and moves to COMPLETED.
// Duration is measured from StartedAt (now when unset) and never negative.
func (s *Session) Complete(endLog *EndLog, now time.Time) error {
	started := now
	if s.StartedAt != nil {
		started = *s.StartedAt
	}
	duration := int64(now.Sub(started) / time.Second)
	if duration < 0 {
		duration = 0
	}
	if err := s.Transition(SessionCompleted, now); err != nil {
		return err
	}
	s.FinishedAt = &now
	s.DurationSec = &duration
	s.EndLog = endLog
	return nil
}

// Duration returns the recorded duration in seconds, or 0.
func (s *Session) Duration() int64 {
	if s.DurationSec == nil {
		return 0
	}
	return *s.DurationSec
}

// SessionExercise is an ordered exercise slot inside a session.
type SessionExercise struct {
	ID                  string    `json:"id"`
	SessionID           string    `json:"session_id"`
	ExerciseID          string    `json:"exercise_id"`
	Order               int       `json:"order"`
	GroupID             *string   `json:"group_id,omitempty"`
	SourceDayExerciseID *string   `json:"source_day_exercise_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewSessionExercise creates a session exercise at the given order.
func NewSessionExercise(sessionID, exerciseID string, order int, now time.Time) *SessionExercise {
	return &SessionExercise{
		ID:         NewIDAt(now),
		SessionID:  sessionID,
		ExerciseID: exerciseID,
		Order:      order,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ExerciseMode selects between appending and replacing a session exercise.
type ExerciseMode string

const (
	ExerciseAdd  ExerciseMode = "ADD"
	ExerciseSwap ExerciseMode = "SWAP"
)

// ExerciseChange describes an add or swap request.
type ExerciseChange struct {
	Mode       ExerciseMode `json:"mode" validate:"oneof=ADD SWAP"`
	TargetID   string       `json:"target_id,omitempty" validate:"required_if=Mode SWAP"`
	ExerciseID string       `json:"exercise_id" validate:"required"`
}
