// ABOUTME: Weekly schedule generation from the active program's day templates.
// ABOUTME: Generation only fills empty dates and is idempotent.
package schedule

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

// GenerateWeek fills the anchored week containing anchorDate. Dates that
// already have an entry are never touched. Weekdays with a day template get a
// planned workout; every other date gets a planned rest day. Without settings
// nothing happens. Returns the number of entries created.
func (s *Service) GenerateWeek(ctx context.Context, anchorDate models.Date) (int, error) {
	settings, err := s.settings.Settings(ctx)
	if err != nil {
		return 0, fmt.Errorf("generate week: %w", err)
	}
	if settings == nil {
		log.Debug("no settings; skipping schedule generation")
		return 0, nil
	}

	program, err := s.catalog.ActiveProgram(ctx)
	if err != nil {
		return 0, fmt.Errorf("generate week: %w", err)
	}

	dates := models.WeekDates(anchorDate, settings.AnchorWeekday)
	now := s.now()
	created := 0

	err = s.db.Update(ctx, func(tx *storage.Tx) error {
		for _, date := range dates {
			existing, err := tx.FindScheduleByDate(date)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}

			var entry *models.ScheduleEntry
			if day := program.DayFor(date.Weekday()); day != nil {
				entry = models.NewWorkoutEntry(date, program, day, now)
			} else {
				entry = models.NewRestEntry(date, now)
			}

			if err := tx.InsertScheduleEntry(entry); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("generate week: %w", err)
	}

	log.WithFields(log.Fields{
		"week_start": dates[0],
		"created":    created,
	}).Debug("generated schedule week")
	return created, nil
}
