// ABOUTME: Program catalog models: exercises, programs, and weekday day templates.
// ABOUTME: Includes the JSON import format for loading a program.
package models

import (
	"time"
)

// ExerciseType classifies an exercise.
type ExerciseType string

const (
	ExerciseStrength ExerciseType = "STRENGTH"
	ExerciseCardio   ExerciseType = "CARDIO"
	ExerciseOther    ExerciseType = "OTHER"
)

// Unit is the default measurement unit of an exercise.
type Unit string

// Exercise is a registry entry. The engine stores only exercise ids.
type Exercise struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        ExerciseType `json:"type"`
	DefaultUnit Unit         `json:"default_unit"`
	Archived    bool         `json:"archived"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewExercise creates a strength exercise measured in kilograms.
func NewExercise(name string) *Exercise {
	now := time.Now()
	return &Exercise{
		ID:          NewIDAt(now),
		Name:        name,
		Type:        ExerciseStrength,
		DefaultUnit: "KG",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NormalizeExerciseType maps unknown values to STRENGTH.
func NormalizeExerciseType(t string) ExerciseType {
	switch ExerciseType(t) {
	case ExerciseCardio, ExerciseOther:
		return ExerciseType(t)
	}
	return ExerciseStrength
}

// NormalizeUnit maps unknown values to KG.
func NormalizeUnit(u string) Unit {
	switch u {
	case "KG", "LB", "MIN", "M", "KM", "CAL", "NONE":
		return Unit(u)
	}
	return "KG"
}

// Prescription is the planned target for an exercise in a day template.
type Prescription struct {
	TargetSets *int    `json:"target_sets,omitempty" yaml:"target_sets,omitempty"`
	TargetReps string  `json:"target_reps,omitempty" yaml:"target_reps,omitempty"`
	TargetRIR  *int    `json:"target_rir,omitempty" yaml:"target_rir,omitempty"`
	RestSec    *int    `json:"rest_sec,omitempty" yaml:"rest_sec,omitempty"`
	Notes      *string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Program is a named training program with one active version.
type Program struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	ActiveVersionID string    `json:"active_version_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DayExercise is one prescribed exercise in a day template.
type DayExercise struct {
	ID              string        `json:"id"`
	DayTemplateID   string        `json:"day_template_id"`
	ExerciseID      string        `json:"exercise_id"`
	Order           int           `json:"order"`
	GroupID         *string       `json:"group_id,omitempty"`
	IsWarmupDefault bool          `json:"is_warmup_default"`
	Prescription    *Prescription `json:"prescription,omitempty"`
}

// DayTemplate is the workout assigned to a weekday.
type DayTemplate struct {
	ID               string        `json:"id"`
	ProgramVersionID string        `json:"program_version_id"`
	Weekday          time.Weekday  `json:"weekday"`
	Title            string        `json:"title"`
	Exercises        []DayExercise `json:"exercises"`
}

// ActiveProgram is the catalog view the engine consumes.
type ActiveProgram struct {
	Program   Program       `json:"program"`
	VersionID string        `json:"version_id"`
	Days      []DayTemplate `json:"days"`
}

// DayFor returns the template for weekday wd, or nil.
func (p *ActiveProgram) DayFor(wd time.Weekday) *DayTemplate {
	if p == nil {
		return nil
	}
	for i := range p.Days {
		if p.Days[i].Weekday == wd {
			return &p.Days[i]
		}
	}
	return nil
}

// ProgramImport is the version 1 JSON format accepted by program import.
type ProgramImport struct {
	SchemaVersion int                     `json:"schemaVersion" validate:"eq=1"`
	Program       ProgramImportBody       `json:"program"`
	Exercises     []ProgramImportExercise `json:"exercises,omitempty" validate:"dive"`
}

// ProgramImportBody is the program section of an import.
type ProgramImportBody struct {
	Name          string             `json:"name" validate:"required,max=200"`
	AnchorWeekday *int               `json:"anchorWeekday,omitempty" validate:"omitempty,min=0,max=6"`
	WeekTemplate  ImportWeekTemplate `json:"weekTemplate"`
}

// ImportWeekTemplate lists the days of the imported week.
type ImportWeekTemplate struct {
	Name string      `json:"name,omitempty"`
	Days []ImportDay `json:"days" validate:"required,min=1,unique=Weekday,dive"`
}

// ImportDay is one weekday of the imported week.
type ImportDay struct {
	Weekday   int                 `json:"weekday" validate:"min=0,max=6"`
	Title     string              `json:"title" validate:"required"`
	Exercises []ImportDayExercise `json:"exercises" validate:"dive"`
}

// ImportDayExercise references an exercise by name or id.
type ImportDayExercise struct {
	Name            string        `json:"name,omitempty" validate:"required_without=ExerciseID"`
	ExerciseID      string        `json:"exerciseId,omitempty" validate:"required_without=Name"`
	Order           int           `json:"order"`
	GroupID         string        `json:"groupId,omitempty"`
	Prescription    *Prescription `json:"prescription,omitempty"`
	IsWarmupDefault bool          `json:"isWarmupDefault,omitempty"`
}

// ProgramImportExercise is an exercise embedded in an import.
type ProgramImportExercise struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type,omitempty"`
	DefaultUnit string `json:"defaultUnit,omitempty"`
}

// ImportResult reports the identifiers created by an import.
type ImportResult struct {
	ProgramID     string `json:"program_id"`
	VersionID     string `json:"version_id"`
	AnchorWeekday *int   `json:"anchor_weekday,omitempty"`
}
