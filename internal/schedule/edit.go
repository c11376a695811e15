// ABOUTME: User edits to the generated schedule: skip, shift, rest-day insertion, conversion.
// ABOUTME: Each edit runs in one transaction and keeps at most one entry per date.
package schedule

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

// MarkSkipped marks the entry on date as skipped. A missing entry is ignored.
func (s *Service) MarkSkipped(ctx context.Context, date models.Date) error {
	now := s.now()
	err := s.db.Update(ctx, func(tx *storage.Tx) error {
		entry, err := tx.FindScheduleByDate(date)
		if err != nil || entry == nil {
			return err
		}
		entry.State = models.ScheduleSkipped
		entry.UpdatedAt = now
		return tx.UpdateScheduleEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("mark skipped: %w", err)
	}
	return nil
}

// PerformNowAndShift moves the planned workout on from to the date to. The
// original entry is kept as skipped history, every later entry slides one day
// forward, and whatever then occupies to is replaced by a fresh planned copy
// of the workout. Does nothing unless from holds a planned workout.
func (s *Service) PerformNowAndShift(ctx context.Context, from, to models.Date) error {
	now := s.now()
	err := s.db.Update(ctx, func(tx *storage.Tx) error {
		original, err := tx.FindScheduleByDate(from)
		if err != nil {
			return err
		}
		if original == nil || !original.IsPlannedWorkout() {
			return nil
		}

		// Keep an unmodified copy for the new entry before marking history.
		workout := *original
		original.State = models.ScheduleSkipped
		original.UpdatedAt = now
		if err := tx.UpdateScheduleEntry(original); err != nil {
			return err
		}

		// Latest first, so a moved entry never lands on an occupied date.
		tail, err := tx.ListScheduleAfter(from)
		if err != nil {
			return err
		}
		for _, entry := range tail {
			if err := tx.MoveScheduleEntry(entry, entry.Date.AddDays(1), now); err != nil {
				return err
			}
		}

		occupant, err := tx.FindScheduleByDate(to)
		if err != nil {
			return err
		}
		if occupant != nil {
			if err := tx.DeleteScheduleEntry(occupant.ID); err != nil {
				return err
			}
		}

		moved := models.NewRestEntry(to, now)
		moved.MakeWorkoutFrom(&workout, now)
		if err := tx.InsertScheduleEntry(moved); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"from":    from,
			"to":      to,
			"shifted": len(tail),
		}).Debug("performed workout now and shifted schedule")
		return nil
	})
	if err != nil {
		return fmt.Errorf("perform now and shift: %w", err)
	}
	return nil
}

// InsertRestDay turns the planned workout on date into a rest day. When the
// same anchored week holds a rest entry on one of the default rest weekdays,
// the workout is swapped onto that date and swapped is true. Otherwise the
// workout is simply dropped. Without settings, or when date is not a planned
// workout, nothing changes.
func (s *Service) InsertRestDay(ctx context.Context, date models.Date) (swapped bool, err error) {
	settings, err := s.settings.Settings(ctx)
	if err != nil {
		return false, fmt.Errorf("insert rest day: %w", err)
	}
	if settings == nil {
		return false, nil
	}

	now := s.now()
	err = s.db.Update(ctx, func(tx *storage.Tx) error {
		entry, err := tx.FindScheduleByDate(date)
		if err != nil {
			return err
		}
		if entry == nil || !entry.IsPlannedWorkout() {
			return nil
		}

		week := models.WeekDates(date, settings.AnchorWeekday)
		candidates, err := tx.ListScheduleBetween(week[0], week[6])
		if err != nil {
			return err
		}

		var rest *models.ScheduleEntry
		for _, c := range candidates {
			if c.Type == models.ScheduleRest && settings.IsDefaultRestDay(c.Date.Weekday()) {
				rest = c
				break
			}
		}

		workout := *entry
		entry.MakeRest(now)
		if rest != nil {
			entry.LinkedSessionID = nil
		}
		if err := tx.UpdateScheduleEntry(entry); err != nil {
			return err
		}
		if rest == nil {
			return nil
		}

		rest.MakeWorkoutFrom(&workout, now)
		if err := tx.UpdateScheduleEntry(rest); err != nil {
			return err
		}
		swapped = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("insert rest day: %w", err)
	}
	return swapped, nil
}

// ConvertWorkoutToRest turns the planned workout on date into a rest day. A
// planned session for the entry that has no sets yet is deleted along with
// its exercises. A planned session that already has sets is kept.
func (s *Service) ConvertWorkoutToRest(ctx context.Context, date models.Date) error {
	now := s.now()
	err := s.db.Update(ctx, func(tx *storage.Tx) error {
		entry, err := tx.FindScheduleByDate(date)
		if err != nil {
			return err
		}
		if entry == nil || !entry.IsPlannedWorkout() {
			return nil
		}

		session, err := tx.FirstSessionReferencing(entry.ID)
		if err != nil {
			return err
		}
		if session != nil && session.State == models.SessionPlanned {
			sets, err := tx.CountSetsForSession(session.ID)
			if err != nil {
				return err
			}
			if sets == 0 {
				if err := tx.DeleteSession(session.ID); err != nil {
					return err
				}
				entry.LinkedSessionID = nil
			}
		}

		entry.MakeRest(now)
		return tx.UpdateScheduleEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("convert workout to rest: %w", err)
	}
	return nil
}
