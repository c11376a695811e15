// ABOUTME: Full history export in JSON, YAML, and Markdown.
// ABOUTME: Every export is recorded in the exports table.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/gymlog/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportType names the kind of export recorded in the exports table.
type ExportType string

const (
	ExportJSONHistory     ExportType = "JSON_FULL_HISTORY"
	ExportYAMLHistory     ExportType = "YAML_FULL_HISTORY"
	ExportMarkdownHistory ExportType = "MARKDOWN_FULL_HISTORY"
)

// ExportData represents the full export format for gymlog data.
type ExportData struct {
	Version     string                    `json:"version" yaml:"version"`
	ExportedAt  time.Time                 `json:"exported_at" yaml:"exported_at"`
	Tool        string                    `json:"tool" yaml:"tool"`
	Settings    *models.Settings          `json:"settings,omitempty" yaml:"-"`
	Exercises   []*models.Exercise        `json:"exercises" yaml:"-"`
	Sessions    []*models.SessionSnapshot `json:"sessions" yaml:"-"`
	Records     []*models.PersonalRecord  `json:"records" yaml:"-"`
	Bodyweights []*models.Bodyweight      `json:"bodyweights" yaml:"-"`
	Stats       *models.GlobalStats       `json:"stats" yaml:"-"`
}

// ExportRecord is one row of the exports table.
type ExportRecord struct {
	ID        string     `json:"id"`
	Type      ExportType `json:"type"`
	CreatedAt time.Time  `json:"created_at"`
}

// GetAllData retrieves all data for export. Sessions are ordered by date.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       snapshotApp,
	}

	err := d.View(ctx, func(tx *Tx) error {
		var err error
		if data.Settings, err = tx.GetSettings(); err != nil {
			return err
		}
		if data.Exercises, err = tx.ListExercises(true); err != nil {
			return err
		}
		if data.Records, err = tx.ListRecords(); err != nil {
			return err
		}
		if data.Bodyweights, err = tx.ListBodyweights(); err != nil {
			return err
		}
		if data.Stats, err = tx.GetGlobalStats(); err != nil {
			return err
		}

		sessions, err := tx.ListSessions(0)
		if err != nil {
			return err
		}
		for _, s := range sessions {
			snap, err := tx.SessionSnapshot(s.ID)
			if err != nil {
				return fmt.Errorf("export session %s: %w", models.ShortID(s.ID), err)
			}
			data.Sessions = append(data.Sessions, snap)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect export data: %w", err)
	}
	return data, nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML, with sessions flattened to readable rows.
func (d *DB) ExportYAML(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}

	exerciseNames := make(map[string]string, len(data.Exercises))
	for _, e := range data.Exercises {
		exerciseNames[e.ID] = e.Name
	}
	name := func(id string) string {
		if n, ok := exerciseNames[id]; ok {
			return n
		}
		return id
	}

	yamlData := struct {
		Version     string           `yaml:"version"`
		ExportedAt  string           `yaml:"exported_at"`
		Tool        string           `yaml:"tool"`
		Records     []yamlRecord     `yaml:"records"`
		Bodyweights []yamlBodyweight `yaml:"bodyweights"`
		Sessions    []yamlSession    `yaml:"sessions"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
	}

	for _, r := range data.Records {
		yamlData.Records = append(yamlData.Records, yamlRecord{
			Exercise:   name(r.ExerciseID),
			MaxLoad:    r.Value,
			AchievedAt: r.AchievedAt.Format(time.RFC3339),
		})
	}

	for _, b := range data.Bodyweights {
		yamlData.Bodyweights = append(yamlData.Bodyweights, yamlBodyweight{
			Date:   string(b.Date),
			Weight: b.Weight,
			Unit:   string(b.Unit),
		})
	}

	for _, snap := range data.Sessions {
		ys := yamlSession{
			ID:          models.ShortID(snap.Session.ID),
			Date:        string(snap.Session.Date),
			State:       string(snap.Session.State),
			DurationSec: snap.Session.Duration(),
			EndLog:      snap.Session.EndLog,
		}
		for _, se := range snap.SessionExercises {
			ye := yamlExercise{Name: name(se.ExerciseID)}
			for _, set := range snap.SetsFor(se.ID) {
				ye.Sets = append(ye.Sets, yamlSet{
					Type:        string(set.SetType),
					Reps:        set.Reps,
					Load:        set.Load,
					RIR:         set.RIR,
					DurationSec: set.DurationSec,
					Distance:    set.Distance,
				})
			}
			ys.Exercises = append(ys.Exercises, ye)
		}
		yamlData.Sessions = append(yamlData.Sessions, ys)
	}

	return yaml.Marshal(yamlData)
}

type yamlRecord struct {
	Exercise   string  `yaml:"exercise"`
	MaxLoad    float64 `yaml:"max_load"`
	AchievedAt string  `yaml:"achieved_at"`
}

type yamlBodyweight struct {
	Date   string  `yaml:"date"`
	Weight float64 `yaml:"weight"`
	Unit   string  `yaml:"unit"`
}

type yamlSession struct {
	ID          string         `yaml:"id"`
	Date        string         `yaml:"date"`
	State       string         `yaml:"state"`
	DurationSec int64          `yaml:"duration_sec,omitempty"`
	EndLog      *models.EndLog `yaml:"end_log,omitempty"`
	Exercises   []yamlExercise `yaml:"exercises,omitempty"`
}

type yamlExercise struct {
	Name string    `yaml:"name"`
	Sets []yamlSet `yaml:"sets,omitempty"`
}

type yamlSet struct {
	Type        string   `yaml:"type"`
	Reps        *int     `yaml:"reps,omitempty"`
	Load        *float64 `yaml:"load,omitempty"`
	RIR         *float64 `yaml:"rir,omitempty"`
	DurationSec *int     `yaml:"duration_sec,omitempty"`
	Distance    *float64 `yaml:"distance,omitempty"`
}

// ExportMarkdown renders the full history as Markdown: record summary,
// bodyweight log, then sessions grouped by date.
func (d *DB) ExportMarkdown(ctx context.Context) (string, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return "", err
	}

	exerciseNames := make(map[string]string, len(data.Exercises))
	for _, e := range data.Exercises {
		exerciseNames[e.ID] = e.Name
	}
	name := func(id string) string {
		if n, ok := exerciseNames[id]; ok {
			return n
		}
		return id
	}

	var sb strings.Builder
	sb.WriteString("# Workout History Export\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", data.ExportedAt.Format(time.RFC3339)))

	sb.WriteString("## PR Summary\n")
	if len(data.Records) == 0 {
		sb.WriteString("- (none)\n")
	} else {
		records := append([]*models.PersonalRecord(nil), data.Records...)
		sort.Slice(records, func(i, j int) bool {
			return name(records[i].ExerciseID) < name(records[j].ExerciseID)
		})
		for _, r := range records {
			sb.WriteString(fmt.Sprintf("- **%s**: %s (max load), %s\n",
				name(r.ExerciseID), formatNumber(r.Value), r.AchievedAt.Local().Format("2006-01-02")))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Bodyweight\n")
	if len(data.Bodyweights) == 0 {
		sb.WriteString("- (none)\n")
	} else {
		for _, b := range data.Bodyweights {
			sb.WriteString(fmt.Sprintf("- %s: %s %s\n", b.Date, formatNumber(b.Weight), b.Unit))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Sessions\n")
	var currentDate models.Date
	for _, snap := range data.Sessions {
		s := snap.Session
		if s.Date != currentDate {
			if currentDate != "" {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("### %s\n", s.Date))
			currentDate = s.Date
		}

		adHoc := ""
		if s.DayTemplateID == nil {
			adHoc = " (ad-hoc)"
		}
		sb.WriteString(fmt.Sprintf("- **Session** (%s)%s\n", s.State, adHoc))
		if s.StartedAt != nil {
			sb.WriteString(fmt.Sprintf("  - Started: %s\n", s.StartedAt.Local().Format("15:04")))
		}
		if s.FinishedAt != nil {
			sb.WriteString(fmt.Sprintf("  - Finished: %s\n", s.FinishedAt.Local().Format("15:04")))
		}
		if s.DurationSec != nil {
			sb.WriteString(fmt.Sprintf("  - Duration: %d min\n", (*s.DurationSec+30)/60))
		}

		for _, se := range snap.SessionExercises {
			sb.WriteString(fmt.Sprintf("  - **%s**\n", name(se.ExerciseID)))
			for _, set := range snap.SetsFor(se.ID) {
				sb.WriteString(fmt.Sprintf("    - %s\n", describeSet(set)))
			}
		}

		if s.EndLog != nil {
			sb.WriteString("  - **End Log**\n")
			sb.WriteString(fmt.Sprintf("    - Performance: %d/5\n", s.EndLog.Performance))
			sb.WriteString(fmt.Sprintf("    - Energy: %d/5\n", s.EndLog.Energy))
			sb.WriteString(fmt.Sprintf("    - Mind-muscle: %d/5\n", s.EndLog.MindMuscle))
			if s.EndLog.MentalState != "" {
				sb.WriteString(fmt.Sprintf("    - Mental: %s\n", s.EndLog.MentalState))
			}
			if s.EndLog.PreWorkoutUsed != "" {
				sb.WriteString(fmt.Sprintf("    - Pre-workout: %s\n", s.EndLog.PreWorkoutUsed))
			}
		}
	}

	return sb.String(), nil
}

// describeSet renders a set as "WORKING • 5 reps • 100 load".
func describeSet(s *models.SetEntry) string {
	parts := []string{string(s.SetType)}
	if s.Reps != nil {
		parts = append(parts, fmt.Sprintf("%d reps", *s.Reps))
	}
	if s.Load != nil {
		parts = append(parts, fmt.Sprintf("%s load", formatNumber(*s.Load)))
	}
	if s.RIR != nil {
		parts = append(parts, fmt.Sprintf("RIR %s", formatNumber(*s.RIR)))
	}
	if s.DurationSec != nil {
		parts = append(parts, fmt.Sprintf("%ds", *s.DurationSec))
	}
	if s.Distance != nil {
		parts = append(parts, fmt.Sprintf("%s dist", formatNumber(*s.Distance)))
	}
	return strings.Join(parts, " • ")
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%g", v)
}

// RecordExport notes that an export of kind typ was produced.
func (d *DB) RecordExport(ctx context.Context, typ ExportType) error {
	now := time.Now()
	return d.Update(ctx, func(tx *Tx) error {
		_, err := tx.tx.Exec(`INSERT INTO exports (id, type, created_at) VALUES (?, ?, ?)`,
			models.NewIDAt(now), string(typ), formatTime(now))
		if err != nil {
			return fmt.Errorf("record export: %w", err)
		}
		return nil
	})
}

// ListExports returns recorded exports, newest first.
func (d *DB) ListExports(ctx context.Context) ([]*ExportRecord, error) {
	var out []*ExportRecord
	err := d.View(ctx, func(tx *Tx) error {
		rows, err := tx.tx.Query(`SELECT id, type, created_at FROM exports ORDER BY created_at DESC, id DESC`)
		if err != nil {
			return fmt.Errorf("list exports: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var r ExportRecord
			var typ, createdAt string
			if err := rows.Scan(&r.ID, &typ, &createdAt); err != nil {
				return fmt.Errorf("scan export: %w", err)
			}
			r.Type = ExportType(typ)
			r.CreatedAt = parseTime(createdAt)
			out = append(out, &r)
		}
		return rows.Err()
	})
	return out, err
}
