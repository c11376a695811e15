// ABOUTME: Schedule service wiring: settings and program providers plus the store.
// ABOUTME: Generation lives in generate.go, user edits in edit.go.
package schedule

import (
	"context"
	"time"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

// SettingsProvider supplies the user settings. A nil result means the user
// has not configured anything yet.
type SettingsProvider interface {
	Settings(ctx context.Context) (*models.Settings, error)
}

// Catalog supplies the active program. A nil result means none is active.
type Catalog interface {
	ActiveProgram(ctx context.Context) (*models.ActiveProgram, error)
}

// Service projects the active program onto calendar dates and applies user
// edits to the resulting schedule.
type Service struct {
	db       *storage.DB
	settings SettingsProvider
	catalog  Catalog
	now      func() time.Time
}

// NewService creates a schedule service.
func NewService(db *storage.DB, settings SettingsProvider, catalog Catalog) *Service {
	return &Service{db: db, settings: settings, catalog: catalog, now: time.Now}
}

// WithClock replaces the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Week returns the stored entries of the anchored week containing date. The
// default anchor is used when no settings exist.
func (s *Service) Week(ctx context.Context, date models.Date) ([]*models.ScheduleEntry, error) {
	anchor, err := s.anchor(ctx)
	if err != nil {
		return nil, err
	}
	dates := models.WeekDates(date, anchor)
	return s.Between(ctx, dates[0], dates[6])
}

// Between returns stored entries with from <= date <= to.
func (s *Service) Between(ctx context.Context, from, to models.Date) ([]*models.ScheduleEntry, error) {
	var entries []*models.ScheduleEntry
	err := s.db.View(ctx, func(tx *storage.Tx) error {
		var err error
		entries, err = tx.ListScheduleBetween(from, to)
		return err
	})
	return entries, err
}

// Month returns the stored entries of a calendar month.
func (s *Service) Month(ctx context.Context, year int, month time.Month) ([]*models.ScheduleEntry, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return s.Between(ctx, models.DateOf(first), models.DateOf(last))
}

func (s *Service) anchor(ctx context.Context) (time.Weekday, error) {
	settings, err := s.settings.Settings(ctx)
	if err != nil {
		return 0, err
	}
	if settings == nil {
		return models.DefaultSettings().AnchorWeekday, nil
	}
	return settings.AnchorWeekday, nil
}
