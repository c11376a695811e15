// ABOUTME: Aggregate statistics models: per-session snapshot and global totals.
// ABOUTME: GlobalStats is a singleton row; snapshots are the delta basis for edits.
package models

import (
	"math"
	"time"
)

// GlobalStatsID is the fixed key of the global stats row.
const GlobalStatsID = "GLOBAL"

// volumeScale fixes volume load totals to thousandths of a load unit.
const volumeScale = 1000

// RoundVolume snaps a volume load to the nearest thousandth. Totals are
// rounded after every addition and subtraction so that incremental updates
// and a full re-sum land on the same float.
func RoundVolume(v float64) float64 {
	r := math.Round(v*volumeScale) / volumeScale
	if r == 0 {
		return 0
	}
	return r
}

// SessionStats is the aggregate of one completed session at its last aggregation.
type SessionStats struct {
	SessionID   string    `json:"session_id"`
	SetsCount   int       `json:"sets_count"`
	VolumeLoad  float64   `json:"volume_load"`
	DurationSec int64     `json:"duration_sec"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GlobalStats is the lifetime aggregate.
type GlobalStats struct {
	TotalSessionsCompleted  int       `json:"total_sessions_completed"`
	TotalSetsLogged         int       `json:"total_sets_logged"`
	TotalVolumeLoad         float64   `json:"total_volume_load"`
	TotalWorkoutDurationSec int64     `json:"total_workout_duration_sec"`
	LastUpdatedAt           time.Time `json:"last_updated_at"`
}

// Add folds a session aggregate into the totals without counting a session.
func (g *GlobalStats) Add(s *SessionStats) {
	g.TotalSetsLogged += s.SetsCount
	g.TotalVolumeLoad = RoundVolume(g.TotalVolumeLoad + s.VolumeLoad)
	g.TotalWorkoutDurationSec += s.DurationSec
}

// Subtract removes a session aggregate from the totals without uncounting a session.
func (g *GlobalStats) Subtract(s *SessionStats) {
	g.TotalSetsLogged -= s.SetsCount
	g.TotalVolumeLoad = RoundVolume(g.TotalVolumeLoad - s.VolumeLoad)
	g.TotalWorkoutDurationSec -= s.DurationSec
}

// Equal compares the totals, ignoring LastUpdatedAt.
func (g *GlobalStats) Equal(other *GlobalStats) bool {
	return g.TotalSessionsCompleted == other.TotalSessionsCompleted &&
		g.TotalSetsLogged == other.TotalSetsLogged &&
		g.TotalVolumeLoad == other.TotalVolumeLoad &&
		g.TotalWorkoutDurationSec == other.TotalWorkoutDurationSec
}
