// ABOUTME: Session lifecycle manager: start, exercise changes, set logging, finish, edits.
// ABOUTME: Finishing updates records, stats, and the schedule in one transaction.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/records"
	"github.com/harperreed/gymlog/internal/stats"
	"github.com/harperreed/gymlog/internal/storage"
)

// Snapshotter keeps best-effort copies of session snapshots. Failures never
// affect the session itself.
type Snapshotter interface {
	SnapshotAfterSet(ctx context.Context, snap *models.SessionSnapshot) error
	SnapshotOnFinish(ctx context.Context, snap *models.SessionSnapshot) error
}

// Manager drives sessions through PLANNED, IN_PROGRESS, COMPLETED, ARCHIVED.
type Manager struct {
	db        *storage.DB
	records   *records.Tracker
	stats     *stats.Keeper
	snapshots Snapshotter
	now       func() time.Time
}

// NewManager creates a session manager. snapshots may be nil.
func NewManager(db *storage.DB, tracker *records.Tracker, keeper *stats.Keeper, snapshots Snapshotter) *Manager {
	return &Manager{
		db:        db,
		records:   tracker,
		stats:     keeper,
		snapshots: snapshots,
		now:       time.Now,
	}
}

// WithClock replaces the manager clock.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// StartFromSchedule returns the session for date, creating it from the
// schedule entry when needed. A new session is seeded once with the day
// template's exercises. An existing planned session is started; any other
// existing session is returned as is.
func (m *Manager) StartFromSchedule(ctx context.Context, date models.Date) (string, error) {
	now := m.now()
	var sessionID string

	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		entry, err := tx.FindScheduleByDate(date)
		if err != nil {
			return err
		}
		var scheduleID *string
		if entry != nil {
			scheduleID = &entry.ID
		}

		existing, err := tx.FindSessionForSchedule(date, scheduleID)
		if err != nil {
			return err
		}
		if existing != nil {
			sessionID = existing.ID
			if existing.State != models.SessionPlanned {
				return nil
			}
			if err := existing.Start(now); err != nil {
				return err
			}
			return tx.UpdateSession(existing)
		}

		s := models.NewSession(date, entry, now)
		if err := tx.InsertSession(s); err != nil {
			return err
		}
		sessionID = s.ID

		if entry == nil || entry.DayTemplateID == nil {
			return nil
		}
		return seedExercises(tx, s, *entry.DayTemplateID, now)
	})
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	return sessionID, nil
}

func seedExercises(tx *storage.Tx, s *models.Session, dayTemplateID string, now time.Time) error {
	prescribed, err := tx.DayExercises(dayTemplateID)
	if err != nil {
		return err
	}

	for i, de := range prescribed {
		ok, err := tx.ExerciseExists(de.ExerciseID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: template exercise %s is not registered", models.ErrPrecondition, de.ExerciseID)
		}

		se := models.NewSessionExercise(s.ID, de.ExerciseID, i+1, now)
		se.GroupID = de.GroupID
		sourceID := de.ID
		se.SourceDayExerciseID = &sourceID
		if err := tx.InsertSessionExercise(se); err != nil {
			return err
		}
	}
	return nil
}

// ResumeActive returns the id of the in-progress session, if there is one.
func (m *Manager) ResumeActive(ctx context.Context) (id string, ok bool, err error) {
	err = m.db.View(ctx, func(tx *storage.Tx) error {
		s, err := tx.FindActiveSession()
		if err != nil || s == nil {
			return err
		}
		id, ok = s.ID, true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("resume active session: %w", err)
	}
	return id, ok, nil
}

// AddOrSwapExercise appends an exercise to a session or replaces the
// exercise of an existing slot. Sets already logged against a swapped slot
// keep their original exercise. Returns the affected session exercise id.
func (m *Manager) AddOrSwapExercise(ctx context.Context, sessionID string, change models.ExerciseChange) (string, error) {
	if err := models.Validate(&change); err != nil {
		return "", fmt.Errorf("change exercise: %w", err)
	}

	now := m.now()
	var sessionExerciseID string

	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		if _, err := requireSession(tx, sessionID); err != nil {
			return err
		}
		ok, err := tx.ExerciseExists(change.ExerciseID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: exercise %s is not registered", models.ErrPrecondition, change.ExerciseID)
		}

		if change.Mode == models.ExerciseAdd {
			last, err := tx.MaxSessionExerciseOrder(sessionID)
			if err != nil {
				return err
			}
			se := models.NewSessionExercise(sessionID, change.ExerciseID, last+1, now)
			sessionExerciseID = se.ID
			return tx.InsertSessionExercise(se)
		}

		target, err := requireSessionExercise(tx, sessionID, change.TargetID)
		if err != nil {
			return err
		}
		target.ExerciseID = change.ExerciseID
		target.UpdatedAt = now
		sessionExerciseID = target.ID
		return tx.UpdateSessionExercise(target)
	})
	if err != nil {
		return "", fmt.Errorf("change exercise: %w", err)
	}
	return sessionExerciseID, nil
}

// LogSet records a set against a session exercise. The set order is the
// slot's current set count plus one. A planned session is started. After
// commit a temporary snapshot is taken on a best-effort basis.
func (m *Manager) LogSet(ctx context.Context, sessionID, sessionExerciseID string, payload models.SetPayload) (string, error) {
	if err := models.Validate(&payload); err != nil {
		return "", fmt.Errorf("log set: %w", err)
	}

	now := m.now()
	var setID string
	var snap *models.SessionSnapshot

	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		se, err := requireSessionExercise(tx, sessionID, sessionExerciseID)
		if err != nil {
			return err
		}
		s, err := requireSession(tx, sessionID)
		if err != nil {
			return err
		}

		count, err := tx.CountSetsForSessionExercise(se.ID)
		if err != nil {
			return err
		}
		set := models.NewSetEntry(se, count+1, payload, now)
		if err := tx.InsertSet(set); err != nil {
			return err
		}
		setID = set.ID

		if s.State == models.SessionPlanned {
			if err := s.Start(now); err != nil {
				return err
			}
			if err := tx.UpdateSession(s); err != nil {
				return err
			}
		}

		snap = m.buildSnapshot(tx, sessionID)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("log set: %w", err)
	}

	if snap != nil {
		if err := m.snapshots.SnapshotAfterSet(ctx, snap); err != nil {
			log.WithFields(log.Fields{"session_id": sessionID, "kind": "tmp"}).
				WithError(err).Debug("session snapshot failed")
		}
	}
	return setID, nil
}

// Finish completes a session: it stamps the finish time, duration, and end
// log, updates personal records and lifetime stats, takes a final snapshot,
// archives the session, and marks its schedule entry completed. The session
// must have at least one set.
func (m *Manager) Finish(ctx context.Context, sessionID string, endLog *models.EndLog) error {
	if endLog != nil {
		if err := models.Validate(endLog); err != nil {
			return fmt.Errorf("finish session: %w", err)
		}
	}

	now := m.now()
	var snap *models.SessionSnapshot
	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		s, err := requireSession(tx, sessionID)
		if err != nil {
			return err
		}
		count, err := tx.CountSetsForSession(sessionID)
		if err != nil {
			return err
		}
		if count == 0 {
			return models.ErrNoSets
		}

		if err := s.Complete(endLog, now); err != nil {
			return err
		}
		if err := tx.UpdateSession(s); err != nil {
			return err
		}

		if err := m.records.UpdateForSession(tx, sessionID); err != nil {
			return err
		}
		if err := m.stats.ApplyCompletion(tx, sessionID); err != nil {
			return err
		}

		snap = m.buildSnapshot(tx, sessionID)

		if err := s.Transition(models.SessionArchived, now); err != nil {
			return err
		}
		if err := tx.UpdateSession(s); err != nil {
			return err
		}

		if s.ScheduleID == nil {
			return nil
		}
		entry, err := tx.FindScheduleByID(*s.ScheduleID)
		if err != nil || entry == nil {
			return err
		}
		entry.State = models.ScheduleCompleted
		entry.LinkedSessionID = &s.ID
		entry.UpdatedAt = now
		return tx.UpdateScheduleEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}

	if snap != nil {
		if err := m.snapshots.SnapshotOnFinish(ctx, snap); err != nil {
			log.WithFields(log.Fields{"session_id": sessionID, "kind": "final"}).
				WithError(err).Debug("session snapshot failed")
		}
	}

	log.WithField("session_id", sessionID).Debug("session finished")
	return nil
}

// SaveEdited reconciles aggregates after a completed session was edited.
// Stats move by the difference from the stored snapshot. Records are rebuilt
// for every exercise the session touches and for every exercise whose record
// pointed at this session, so removing a record-holding set is picked up.
func (m *Manager) SaveEdited(ctx context.Context, sessionID string) error {
	now := m.now()
	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		s, err := requireFinishedSession(tx, sessionID)
		if err != nil {
			return err
		}

		if err := m.stats.ApplyEdit(tx, sessionID); err != nil {
			return err
		}

		sets, err := tx.ListSetsForSession(sessionID)
		if err != nil {
			return err
		}
		heldHere, err := tx.RecordExerciseIDsForSession(sessionID)
		if err != nil {
			return err
		}

		seen := make(map[string]bool)
		var exerciseIDs []string
		for _, set := range sets {
			if !seen[set.ExerciseID] {
				seen[set.ExerciseID] = true
				exerciseIDs = append(exerciseIDs, set.ExerciseID)
			}
		}
		for _, id := range heldHere {
			if !seen[id] {
				seen[id] = true
				exerciseIDs = append(exerciseIDs, id)
			}
		}

		for _, id := range exerciseIDs {
			if err := m.records.RecomputeForExercise(tx, id); err != nil {
				return err
			}
		}

		s.UpdatedAt = now
		return tx.UpdateSession(s)
	})
	if err != nil {
		return fmt.Errorf("save edited session: %w", err)
	}
	return nil
}

// UpdateSet corrects a set of a completed session. Aggregates are not
// touched until SaveEdited. A missing set is ignored.
func (m *Manager) UpdateSet(ctx context.Context, setID string, patch models.SetPatch) error {
	if err := models.Validate(&patch); err != nil {
		return fmt.Errorf("update set: %w", err)
	}

	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		set, err := tx.FindSet(setID)
		if err != nil || set == nil {
			return err
		}
		if _, err := requireFinishedSession(tx, set.SessionID); err != nil {
			return err
		}
		patch.Apply(set)
		return tx.UpdateSet(set)
	})
	if err != nil {
		return fmt.Errorf("update set: %w", err)
	}
	return nil
}

// DeleteSet removes a set of a completed session. Aggregates are not
// touched until SaveEdited. A missing set is ignored.
func (m *Manager) DeleteSet(ctx context.Context, setID string) error {
	err := m.db.Update(ctx, func(tx *storage.Tx) error {
		set, err := tx.FindSet(setID)
		if err != nil || set == nil {
			return err
		}
		if _, err := requireFinishedSession(tx, set.SessionID); err != nil {
			return err
		}
		return tx.DeleteSet(setID)
	})
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	return nil
}

// Snapshot returns the full detail of one session.
func (m *Manager) Snapshot(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	var snap *models.SessionSnapshot
	err := m.db.View(ctx, func(tx *storage.Tx) error {
		var err error
		snap, err = tx.SessionSnapshot(sessionID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("session detail: %w", err)
	}
	return snap, nil
}

// buildSnapshot collects the snapshot payload inside tx. Errors are logged
// and yield nil, since snapshots are best-effort.
func (m *Manager) buildSnapshot(tx *storage.Tx, sessionID string) *models.SessionSnapshot {
	if m.snapshots == nil {
		return nil
	}
	snap, err := tx.SessionSnapshot(sessionID)
	if err != nil {
		log.WithFields(log.Fields{"session_id": sessionID}).WithError(err).Debug("build session snapshot failed")
		return nil
	}
	return snap
}

func requireSession(tx *storage.Tx, sessionID string) (*models.Session, error) {
	s, err := tx.GetSession(sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: session %s does not exist", models.ErrPrecondition, sessionID)
	}
	return s, err
}

func requireFinishedSession(tx *storage.Tx, sessionID string) (*models.Session, error) {
	s, err := requireSession(tx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.State.IsFinished() {
		return nil, fmt.Errorf("%w: session %s is %s, edits need a completed session",
			models.ErrInvalidTransition, models.ShortID(sessionID), s.State)
	}
	return s, nil
}

func requireSessionExercise(tx *storage.Tx, sessionID, sessionExerciseID string) (*models.SessionExercise, error) {
	se, err := tx.GetSessionExercise(sessionExerciseID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: session exercise %s does not exist", models.ErrPrecondition, sessionExerciseID)
	}
	if err != nil {
		return nil, err
	}
	if se.SessionID != sessionID {
		return nil, fmt.Errorf("%w: session exercise %s belongs to another session",
			models.ErrPrecondition, sessionExerciseID)
	}
	return se, nil
}
