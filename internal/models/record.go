// ABOUTME: Personal record model, one row per exercise.
// ABOUTME: Records are derived from set history and can be rebuilt at any time.
package models

import "time"

// RecordMetric names what a personal record measures.
type RecordMetric string

// MetricMaxLoad is the only tracked record metric.
const MetricMaxLoad RecordMetric = "MAX_LOAD"

// PersonalRecord is the best working-set load ever logged for an exercise.
type PersonalRecord struct {
	ID         string       `json:"id"`
	ExerciseID string       `json:"exercise_id"`
	Metric     RecordMetric `json:"metric"`
	Value      float64      `json:"value"`
	SessionID  string       `json:"session_id"`
	SetID      string       `json:"set_id"`
	AchievedAt time.Time    `json:"achieved_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// NewPersonalRecord creates a max-load record achieved by set.
func NewPersonalRecord(set *SetEntry, now time.Time) *PersonalRecord {
	return &PersonalRecord{
		ID:         NewIDAt(now),
		ExerciseID: set.ExerciseID,
		Metric:     MetricMaxLoad,
		Value:      *set.Load,
		SessionID:  set.SessionID,
		SetID:      set.ID,
		AchievedAt: set.CreatedAt,
		UpdatedAt:  now,
	}
}

// AttributeTo rewrites the record to point at set.
func (r *PersonalRecord) AttributeTo(set *SetEntry, now time.Time) {
	r.Value = *set.Load
	r.SessionID = set.SessionID
	r.SetID = set.ID
	r.AchievedAt = set.CreatedAt
	r.UpdatedAt = now
}
