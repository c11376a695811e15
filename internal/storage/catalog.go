// ABOUTME: Program catalog storage: exercise registry, program import, active program lookup.
// ABOUTME: The most recently imported program is the active one.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/gymlog/internal/models"
)

const exerciseColumns = `id, name, type, default_unit, archived, created_at, updated_at`

// CreateExercise stores a new exercise. Names are unique, ignoring case.
func (t *Tx) CreateExercise(e *models.Exercise) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: exercise name is required", models.ErrPrecondition)
	}
	_, err := t.tx.Exec(`INSERT INTO exercises (`+exerciseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, string(e.Type), string(e.DefaultUnit), boolInt(e.Archived),
		formatTime(e.CreatedAt), formatTime(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create exercise %q: %w", e.Name, err)
	}
	return nil
}

// GetExercise returns the exercise with id, or ErrNotFound.
func (t *Tx) GetExercise(id string) (*models.Exercise, error) {
	e, err := scanExercise(t.tx.QueryRow(`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exercise %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	return e, nil
}

// ExerciseExists reports whether an exercise with id is registered.
func (t *Tx) ExerciseExists(id string) (bool, error) {
	var n int
	if err := t.tx.QueryRow(`SELECT COUNT(*) FROM exercises WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("check exercise: %w", err)
	}
	return n > 0, nil
}

// FindExerciseByName returns the exercise named name (any case), or nil.
func (t *Tx) FindExerciseByName(name string) (*models.Exercise, error) {
	row := t.tx.QueryRow(`SELECT `+exerciseColumns+` FROM exercises WHERE name = ? COLLATE NOCASE`,
		strings.TrimSpace(name))
	e, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find exercise: %w", err)
	}
	return e, nil
}

// ListExercises returns exercises sorted by name.
func (t *Tx) ListExercises(includeArchived bool) ([]*models.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name COLLATE NOCASE`

	rows, err := t.tx.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var out []*models.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanExercise(row scanner) (*models.Exercise, error) {
	var e models.Exercise
	var typ, unit, createdAt, updatedAt string
	var archived int
	if err := row.Scan(&e.ID, &e.Name, &typ, &unit, &archived, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	e.Type = models.ExerciseType(typ)
	e.DefaultUnit = models.Unit(unit)
	e.Archived = archived != 0
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	return &e, nil
}

// ImportProgram validates imp and stores it as a new program with one
// version. Exercises referenced by name are created when missing; an unknown
// exercise id fails the whole import.
func (d *DB) ImportProgram(ctx context.Context, imp *models.ProgramImport) (*models.ImportResult, error) {
	if err := models.Validate(imp); err != nil {
		return nil, fmt.Errorf("import program: %w", err)
	}

	var result *models.ImportResult
	err := d.Update(ctx, func(tx *Tx) error {
		var err error
		result, err = tx.importProgram(imp, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (t *Tx) importProgram(imp *models.ProgramImport, now time.Time) (*models.ImportResult, error) {
	for _, ex := range imp.Exercises {
		if _, err := t.ensureExercise(ex.ID, ex.Name, ex.Type, ex.DefaultUnit, now); err != nil {
			return nil, err
		}
	}

	programID := models.NewIDAt(now)
	versionID := models.NewIDAt(now)
	body := imp.Program

	_, err := t.tx.Exec(`INSERT INTO programs (id, name, active_version_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`, programID, body.Name, versionID, formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert program: %w", err)
	}

	_, err = t.tx.Exec(`INSERT INTO program_versions (id, program_id, version, anchor_weekday, week_template_name, created_at)
		VALUES (?, ?, 1, ?, ?, ?)`, versionID, programID, body.AnchorWeekday, body.WeekTemplate.Name, formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("insert program version: %w", err)
	}

	for _, day := range body.WeekTemplate.Days {
		dayID := models.NewIDAt(now)
		_, err := t.tx.Exec(`INSERT INTO day_templates (id, program_version_id, weekday, title) VALUES (?, ?, ?, ?)`,
			dayID, versionID, day.Weekday, day.Title)
		if err != nil {
			return nil, fmt.Errorf("insert day template %d: %w", day.Weekday, err)
		}

		for i, de := range day.Exercises {
			exerciseID, err := t.resolveDayExercise(de, now)
			if err != nil {
				return nil, err
			}

			order := de.Order
			if order <= 0 {
				order = i + 1
			}
			var groupID *string
			if de.GroupID != "" {
				groupID = &de.GroupID
			}
			prescription, err := jsonColumn(de.Prescription)
			if err != nil {
				return nil, err
			}

			_, err = t.tx.Exec(`INSERT INTO day_exercises (id, day_template_id, exercise_id, ord, group_id, is_warmup_default, prescription)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				models.NewIDAt(now), dayID, exerciseID, order, groupID, boolInt(de.IsWarmupDefault), prescription)
			if err != nil {
				return nil, fmt.Errorf("insert day exercise: %w", err)
			}
		}
	}

	return &models.ImportResult{
		ProgramID:     programID,
		VersionID:     versionID,
		AnchorWeekday: body.AnchorWeekday,
	}, nil
}

func (t *Tx) resolveDayExercise(de models.ImportDayExercise, now time.Time) (string, error) {
	if de.ExerciseID != "" {
		ok, err := t.ExerciseExists(de.ExerciseID)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("%w: unknown exercise id %s", models.ErrPrecondition, de.ExerciseID)
		}
		return de.ExerciseID, nil
	}
	return t.ensureExercise("", de.Name, "", "", now)
}

// ensureExercise returns the id of the exercise matching id or name, creating
// it when neither matches.
func (t *Tx) ensureExercise(id, name, typ, unit string, now time.Time) (string, error) {
	if id != "" {
		ok, err := t.ExerciseExists(id)
		if err != nil {
			return "", err
		}
		if ok {
			return id, nil
		}
	}

	existing, err := t.FindExerciseByName(name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}

	e := &models.Exercise{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Type:        models.NormalizeExerciseType(typ),
		DefaultUnit: models.NormalizeUnit(unit),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if e.ID == "" {
		e.ID = models.NewIDAt(now)
	}
	if err := t.CreateExercise(e); err != nil {
		return "", err
	}
	return e.ID, nil
}

// ActiveProgram returns the most recently imported program with its day
// templates, or nil when no program exists.
func (t *Tx) ActiveProgram() (*models.ActiveProgram, error) {
	var p models.Program
	var createdAt, updatedAt string
	err := t.tx.QueryRow(`SELECT id, name, active_version_id, created_at, updated_at
		FROM programs ORDER BY created_at DESC, id DESC LIMIT 1`).
		Scan(&p.ID, &p.Name, &p.ActiveVersionID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active program: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)

	days, err := t.listDayTemplates(p.ActiveVersionID)
	if err != nil {
		return nil, err
	}
	return &models.ActiveProgram{Program: p, VersionID: p.ActiveVersionID, Days: days}, nil
}

func (t *Tx) listDayTemplates(versionID string) ([]models.DayTemplate, error) {
	rows, err := t.tx.Query(`SELECT id, program_version_id, weekday, title
		FROM day_templates WHERE program_version_id = ? ORDER BY weekday`, versionID)
	if err != nil {
		return nil, fmt.Errorf("list day templates: %w", err)
	}

	var days []models.DayTemplate
	for rows.Next() {
		var day models.DayTemplate
		var weekday int
		if err := rows.Scan(&day.ID, &day.ProgramVersionID, &weekday, &day.Title); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan day template: %w", err)
		}
		day.Weekday = time.Weekday(weekday)
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list day templates: %w", err)
	}
	rows.Close()

	for i := range days {
		if days[i].Exercises, err = t.DayExercises(days[i].ID); err != nil {
			return nil, err
		}
	}
	return days, nil
}

// DayExercises returns the prescribed exercises of a day template in order.
func (t *Tx) DayExercises(dayID string) ([]models.DayExercise, error) {
	rows, err := t.tx.Query(`SELECT id, day_template_id, exercise_id, ord, group_id, is_warmup_default, prescription
		FROM day_exercises WHERE day_template_id = ? ORDER BY ord, id`, dayID)
	if err != nil {
		return nil, fmt.Errorf("list day exercises: %w", err)
	}
	defer rows.Close()

	var out []models.DayExercise
	for rows.Next() {
		var de models.DayExercise
		var groupID, prescription sql.NullString
		var warmup int
		if err := rows.Scan(&de.ID, &de.DayTemplateID, &de.ExerciseID, &de.Order, &groupID, &warmup, &prescription); err != nil {
			return nil, fmt.Errorf("scan day exercise: %w", err)
		}
		de.GroupID = stringPtr(groupID)
		de.IsWarmupDefault = warmup != 0
		if de.Prescription, err = scanJSONColumn[models.Prescription](prescription); err != nil {
			return nil, err
		}
		out = append(out, de)
	}
	return out, rows.Err()
}

// ActiveProgram returns the active program, or nil when none is imported.
func (d *DB) ActiveProgram(ctx context.Context) (*models.ActiveProgram, error) {
	var p *models.ActiveProgram
	err := d.View(ctx, func(tx *Tx) error {
		var err error
		p, err = tx.ActiveProgram()
		return err
	})
	return p, err
}
