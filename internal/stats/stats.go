// ABOUTME: Aggregate statistics keeper: per-session snapshots and lifetime totals.
// ABOUTME: Completion adds a session; edits apply the delta against the stored snapshot.
package stats

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

// Keeper maintains session_stats and the GLOBAL totals.
type Keeper struct {
	now func() time.Time
}

// NewKeeper creates a keeper using the wall clock.
func NewKeeper() *Keeper {
	return &Keeper{now: time.Now}
}

// WithClock replaces the keeper's clock.
func (k *Keeper) WithClock(now func() time.Time) *Keeper {
	k.now = now
	return k
}

// Aggregate computes a session's current set count, volume load, and duration.
func (k *Keeper) Aggregate(tx *storage.Tx, sessionID string) (*models.SessionStats, error) {
	session, err := tx.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("aggregate session: %w", err)
	}
	sets, err := tx.ListSetsForSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("aggregate session: %w", err)
	}

	snap := &models.SessionStats{
		SessionID:   sessionID,
		SetsCount:   len(sets),
		DurationSec: session.Duration(),
		UpdatedAt:   k.now(),
	}
	for _, set := range sets {
		snap.VolumeLoad += set.Volume()
	}
	snap.VolumeLoad = models.RoundVolume(snap.VolumeLoad)
	return snap, nil
}

// ApplyCompletion snapshots a newly completed session and adds it to the
// lifetime totals, counting one more completed session.
func (k *Keeper) ApplyCompletion(tx *storage.Tx, sessionID string) error {
	snap, err := k.Aggregate(tx, sessionID)
	if err != nil {
		return err
	}

	global, err := tx.GetGlobalStats()
	if err != nil {
		return fmt.Errorf("apply completion: %w", err)
	}
	global.TotalSessionsCompleted++
	global.Add(snap)
	global.LastUpdatedAt = snap.UpdatedAt

	if err := tx.PutSessionStats(snap); err != nil {
		return fmt.Errorf("apply completion: %w", err)
	}
	if err := tx.PutGlobalStats(global); err != nil {
		return fmt.Errorf("apply completion: %w", err)
	}
	return nil
}

// ApplyEdit re-aggregates an edited session and moves the totals by the
// difference from its previous snapshot. The completed-session count is not
// touched. A session with no previous snapshot is added in full.
func (k *Keeper) ApplyEdit(tx *storage.Tx, sessionID string) error {
	snap, err := k.Aggregate(tx, sessionID)
	if err != nil {
		return err
	}

	prev, err := tx.FindSessionStats(sessionID)
	if err != nil {
		return fmt.Errorf("apply edit: %w", err)
	}
	global, err := tx.GetGlobalStats()
	if err != nil {
		return fmt.Errorf("apply edit: %w", err)
	}

	if prev != nil {
		global.Subtract(prev)
	} else {
		log.WithField("session_id", sessionID).Debug("edited session had no stats snapshot; adding in full")
	}
	global.Add(snap)
	global.LastUpdatedAt = snap.UpdatedAt

	if err := tx.PutSessionStats(snap); err != nil {
		return fmt.Errorf("apply edit: %w", err)
	}
	if err := tx.PutGlobalStats(global); err != nil {
		return fmt.Errorf("apply edit: %w", err)
	}
	return nil
}

// Recompute rebuilds the totals from all session snapshots and the number of
// archived sessions, stores them, and returns them.
func (k *Keeper) Recompute(tx *storage.Tx) (*models.GlobalStats, error) {
	sum, err := tx.SumSessionStats()
	if err != nil {
		return nil, fmt.Errorf("recompute stats: %w", err)
	}
	archived, err := tx.CountSessionsByState(models.SessionArchived)
	if err != nil {
		return nil, fmt.Errorf("recompute stats: %w", err)
	}

	global := &models.GlobalStats{
		TotalSessionsCompleted: archived,
		LastUpdatedAt:          k.now(),
	}
	global.Add(sum)

	if err := tx.PutGlobalStats(global); err != nil {
		return nil, fmt.Errorf("recompute stats: %w", err)
	}
	return global, nil
}

// Rebuild runs Recompute in its own transaction.
func (k *Keeper) Rebuild(ctx context.Context, db *storage.DB) (*models.GlobalStats, error) {
	var global *models.GlobalStats
	err := db.Update(ctx, func(tx *storage.Tx) error {
		var err error
		global, err = k.Recompute(tx)
		return err
	})
	return global, err
}
