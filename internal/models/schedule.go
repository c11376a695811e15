// ABOUTME: Schedule entry model: one planned workout or rest day per date.
// ABOUTME: Entries are produced by the generator and mutated by the editor and sessions.
package models

import "time"

// ScheduleType distinguishes workout days from rest days.
type ScheduleType string

const (
	ScheduleWorkout ScheduleType = "WORKOUT"
	ScheduleRest    ScheduleType = "REST"
)

// ScheduleState is the lifecycle state of a schedule entry.
type ScheduleState string

const (
	SchedulePlanned   ScheduleState = "PLANNED"
	ScheduleCompleted ScheduleState = "COMPLETED"
	ScheduleSkipped   ScheduleState = "SKIPPED"
)

// RestTitle is the title given to rest entries.
const RestTitle = "Rest"

// ScheduleEntry is the planned occurrence for one calendar date.
type ScheduleEntry struct {
	ID               string        `json:"id"`
	Date             Date          `json:"date"`
	Type             ScheduleType  `json:"type"`
	ProgramID        *string       `json:"program_id,omitempty"`
	ProgramVersionID *string       `json:"program_version_id,omitempty"`
	DayTemplateID    *string       `json:"day_template_id,omitempty"`
	Title            string        `json:"title"`
	State            ScheduleState `json:"state"`
	LinkedSessionID  *string       `json:"linked_session_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// NewRestEntry creates a planned rest entry for date.
func NewRestEntry(date Date, now time.Time) *ScheduleEntry {
	return &ScheduleEntry{
		ID:        NewIDAt(now),
		Date:      date,
		Type:      ScheduleRest,
		Title:     RestTitle,
		State:     SchedulePlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewWorkoutEntry creates a planned workout entry for date from a day template.
func NewWorkoutEntry(date Date, p *ActiveProgram, day *DayTemplate, now time.Time) *ScheduleEntry {
	programID := p.Program.ID
	versionID := p.VersionID
	dayID := day.ID
	return &ScheduleEntry{
		ID:               NewIDAt(now),
		Date:             date,
		Type:             ScheduleWorkout,
		ProgramID:        &programID,
		ProgramVersionID: &versionID,
		DayTemplateID:    &dayID,
		Title:            day.Title,
		State:            SchedulePlanned,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// IsPlannedWorkout reports whether the entry is a workout that has not been
// completed or skipped. Most editor operations only apply to these.
func (e *ScheduleEntry) IsPlannedWorkout() bool {
	return e.Type == ScheduleWorkout && e.State == SchedulePlanned
}

// MakeRest turns the entry into a rest day and drops its template references.
func (e *ScheduleEntry) MakeRest(now time.Time) {
	e.Type = ScheduleRest
	e.Title = RestTitle
	e.ProgramID = nil
	e.ProgramVersionID = nil
	e.DayTemplateID = nil
	e.UpdatedAt = now
}

// MakeWorkoutFrom turns the entry into a planned, unlinked workout carrying
// src's program, template, and title.
func (e *ScheduleEntry) MakeWorkoutFrom(src *ScheduleEntry, now time.Time) {
	e.Type = ScheduleWorkout
	e.ProgramID = src.ProgramID
	e.ProgramVersionID = src.ProgramVersionID
	e.DayTemplateID = src.DayTemplateID
	e.Title = src.Title
	e.State = SchedulePlanned
	e.LinkedSessionID = nil
	e.UpdatedAt = now
}
