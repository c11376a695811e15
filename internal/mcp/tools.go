// ABOUTME: MCP tool implementations for schedules, sessions, and aggregates.
// ABOUTME: Ids may be given in full or as the short suffix printed by the CLI.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_week",
		Description: "Fill the anchored week containing a date with planned workouts and rest days",
	}, s.handleGenerateWeek)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_week",
		Description: "Get the schedule entries of the anchored week containing a date",
	}, s.handleGetWeek)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "mark_skipped",
		Description: "Mark the schedule entry on a date as skipped",
	}, s.handleMarkSkipped)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "shift_workout",
		Description: "Perform a planned workout on another date and shift the rest of the schedule one day later",
	}, s.handleShiftWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "insert_rest_day",
		Description: "Turn a planned workout into a rest day, swapping it onto a default rest day of the same week when possible",
	}, s.handleInsertRestDay)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "convert_to_rest",
		Description: "Convert a planned workout into a rest day without moving it",
	}, s.handleConvertToRest)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_session",
		Description: "Start (or resume) the workout session for a date",
	}, s.handleStartSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Append an exercise to a session",
	}, s.handleAddExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "swap_exercise",
		Description: "Replace the exercise of a session slot",
	}, s.handleSwapExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_set",
		Description: "Log a set for an exercise slot of a session",
	}, s.handleLogSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "finish_session",
		Description: "Finish a session, updating personal records and lifetime stats",
	}, s.handleFinishSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_set",
		Description: "Correct a set of a completed session; call save_edited_session afterwards",
	}, s.handleUpdateSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_set",
		Description: "Delete a set of a completed session; call save_edited_session afterwards",
	}, s.handleDeleteSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "save_edited_session",
		Description: "Reconcile records and stats after editing a completed session",
	}, s.handleSaveEdited)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_session",
		Description: "Get a session with its exercises and sets",
	}, s.handleGetSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_stats",
		Description: "Get lifetime training totals",
	}, s.handleGetStats)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_records",
		Description: "List personal records (max working-set load per exercise)",
	}, s.handleListRecords)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "import_program",
		Description: "Import a weekly training program from its JSON definition and make it active",
	}, s.handleImportProgram)
}

// Tool input/output types

type dateInput struct {
	Date string `json:"date,omitempty" jsonschema:"Calendar day as YYYY-MM-DD, defaults to today"`
}

type shiftInput struct {
	From string `json:"from" jsonschema:"Date of the planned workout (YYYY-MM-DD)"`
	To   string `json:"to" jsonschema:"Date to perform it on (YYYY-MM-DD)"`
}

type sessionInput struct {
	SessionID string `json:"session_id" jsonschema:"Session ID or short suffix"`
}

type addExerciseInput struct {
	SessionID  string `json:"session_id" jsonschema:"Session ID or short suffix"`
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise ID or short suffix"`
}

type swapExerciseInput struct {
	SessionID         string `json:"session_id" jsonschema:"Session ID or short suffix"`
	SessionExerciseID string `json:"session_exercise_id" jsonschema:"Session exercise slot ID or short suffix"`
	ExerciseID        string `json:"exercise_id" jsonschema:"Replacement exercise ID or short suffix"`
}

type logSetInput struct {
	SessionID         string   `json:"session_id" jsonschema:"Session ID or short suffix"`
	SessionExerciseID string   `json:"session_exercise_id" jsonschema:"Session exercise slot ID or short suffix"`
	SetType           string   `json:"set_type,omitempty" jsonschema:"WARMUP, WORKING, CARDIO or OTHER (default WORKING)"`
	Reps              *int     `json:"reps,omitempty" jsonschema:"Repetitions"`
	Load              *float64 `json:"load,omitempty" jsonschema:"Load in the configured weight unit"`
	RIR               *float64 `json:"rir,omitempty" jsonschema:"Reps in reserve"`
	Distance          *float64 `json:"distance,omitempty" jsonschema:"Distance covered"`
	DurationSec       *int     `json:"duration_sec,omitempty" jsonschema:"Duration in seconds"`
	Calories          *float64 `json:"calories,omitempty" jsonschema:"Calories burned"`
}

type finishInput struct {
	SessionID      string `json:"session_id" jsonschema:"Session ID or short suffix"`
	Performance    int    `json:"performance,omitempty" jsonschema:"Performance rating 1-5"`
	Energy         int    `json:"energy,omitempty" jsonschema:"Energy rating 1-5"`
	MindMuscle     int    `json:"mind_muscle,omitempty" jsonschema:"Mind-muscle connection rating 1-5"`
	MentalState    string `json:"mental_state,omitempty" jsonschema:"Optional note on mental state"`
	PreWorkoutUsed string `json:"pre_workout_used,omitempty" jsonschema:"Optional pre-workout note"`
}

type updateSetInput struct {
	SetID       string   `json:"set_id" jsonschema:"Set ID or short suffix"`
	SetType     string   `json:"set_type,omitempty" jsonschema:"New set type"`
	Reps        *int     `json:"reps,omitempty" jsonschema:"New repetitions"`
	Load        *float64 `json:"load,omitempty" jsonschema:"New load"`
	RIR         *float64 `json:"rir,omitempty" jsonschema:"New reps in reserve"`
	Distance    *float64 `json:"distance,omitempty" jsonschema:"New distance"`
	DurationSec *int     `json:"duration_sec,omitempty" jsonschema:"New duration in seconds"`
	Calories    *float64 `json:"calories,omitempty" jsonschema:"New calories"`
}

type setInput struct {
	SetID string `json:"set_id" jsonschema:"Set ID or short suffix"`
}

type importProgramInput struct {
	Program string `json:"program" jsonschema:"Program definition as a JSON document (schemaVersion 1)"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type idOutput struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type weekOutput struct {
	Entries []*models.ScheduleEntry `json:"entries"`
}

type recordsOutput struct {
	Records []recordView `json:"records"`
}

type recordView struct {
	Exercise   string    `json:"exercise"`
	ExerciseID string    `json:"exercise_id"`
	Value      float64   `json:"value"`
	SessionID  string    `json:"session_id"`
	AchievedAt time.Time `json:"achieved_at"`
}

// Tool handlers

func (s *Server) handleGenerateWeek(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, idOutput, error) {
	date, err := s.dateOrToday(input.Date)
	if err != nil {
		return nil, idOutput{}, err
	}
	n, err := s.schedule.GenerateWeek(ctx, date)
	if err != nil {
		return nil, idOutput{}, err
	}
	return nil, idOutput{
		ID:      string(date),
		Message: fmt.Sprintf("Created %d schedule entries for the week of %s", n, date),
	}, nil
}

func (s *Server) handleGetWeek(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	date, err := s.dateOrToday(input.Date)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.schedule.Week(ctx, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get week: %w", err)
	}
	if entries == nil {
		entries = []*models.ScheduleEntry{}
	}
	return nil, weekOutput{Entries: entries}, nil
}

func (s *Server) handleMarkSkipped(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, simpleOutput, error) {
	date, err := s.dateOrToday(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.schedule.MarkSkipped(ctx, date); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Marked %s as skipped", date)}, nil
}

func (s *Server) handleShiftWorkout(ctx context.Context, req *mcp.CallToolRequest, input shiftInput) (*mcp.CallToolResult, simpleOutput, error) {
	from, err := models.ParseDate(input.From)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	to, err := models.ParseDate(input.To)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.schedule.PerformNowAndShift(ctx, from, to); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Moved the workout from %s to %s", from, to)}, nil
}

func (s *Server) handleInsertRestDay(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, simpleOutput, error) {
	date, err := s.dateOrToday(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	swapped, err := s.schedule.InsertRestDay(ctx, date)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	msg := fmt.Sprintf("%s is now a rest day", date)
	if swapped {
		msg += "; the workout moved to a default rest day this week"
	}
	return nil, simpleOutput{Message: msg}, nil
}

func (s *Server) handleConvertToRest(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, simpleOutput, error) {
	date, err := s.dateOrToday(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.schedule.ConvertWorkoutToRest(ctx, date); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Converted %s to a rest day", date)}, nil
}

func (s *Server) handleStartSession(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, idOutput, error) {
	date, err := s.dateOrToday(input.Date)
	if err != nil {
		return nil, idOutput{}, err
	}
	id, err := s.sessions.StartFromSchedule(ctx, date)
	if err != nil {
		return nil, idOutput{}, err
	}
	return nil, idOutput{ID: id, Message: fmt.Sprintf("Session %s for %s", models.ShortID(id), date)}, nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, idOutput, error) {
	sessionID, err := s.db.ResolveID(ctx, "sessions", input.SessionID)
	if err != nil {
		return nil, idOutput{}, err
	}
	exerciseID, err := s.db.ResolveID(ctx, "exercises", input.ExerciseID)
	if err != nil {
		return nil, idOutput{}, err
	}
	id, err := s.sessions.AddOrSwapExercise(ctx, sessionID, models.ExerciseChange{
		Mode:       models.ExerciseAdd,
		ExerciseID: exerciseID,
	})
	if err != nil {
		return nil, idOutput{}, err
	}
	return nil, idOutput{ID: id, Message: fmt.Sprintf("Added exercise slot %s", models.ShortID(id))}, nil
}

func (s *Server) handleSwapExercise(ctx context.Context, req *mcp.CallToolRequest, input swapExerciseInput) (*mcp.CallToolResult, idOutput, error) {
	sessionID, err := s.db.ResolveID(ctx, "sessions", input.SessionID)
	if err != nil {
		return nil, idOutput{}, err
	}
	targetID, err := s.db.ResolveID(ctx, "session_exercises", input.SessionExerciseID)
	if err != nil {
		return nil, idOutput{}, err
	}
	exerciseID, err := s.db.ResolveID(ctx, "exercises", input.ExerciseID)
	if err != nil {
		return nil, idOutput{}, err
	}
	id, err := s.sessions.AddOrSwapExercise(ctx, sessionID, models.ExerciseChange{
		Mode:       models.ExerciseSwap,
		TargetID:   targetID,
		ExerciseID: exerciseID,
	})
	if err != nil {
		return nil, idOutput{}, err
	}
	return nil, idOutput{ID: id, Message: fmt.Sprintf("Swapped exercise in slot %s", models.ShortID(id))}, nil
}

func (s *Server) handleLogSet(ctx context.Context, req *mcp.CallToolRequest, input logSetInput) (*mcp.CallToolResult, idOutput, error) {
	sessionID, err := s.db.ResolveID(ctx, "sessions", input.SessionID)
	if err != nil {
		return nil, idOutput{}, err
	}
	seID, err := s.db.ResolveID(ctx, "session_exercises", input.SessionExerciseID)
	if err != nil {
		return nil, idOutput{}, err
	}

	setType := models.SetWorking
	if input.SetType != "" {
		setType = models.SetType(input.SetType)
	}
	id, err := s.sessions.LogSet(ctx, sessionID, seID, models.SetPayload{
		SetType:     setType,
		Reps:        input.Reps,
		Load:        input.Load,
		RIR:         input.RIR,
		Distance:    input.Distance,
		DurationSec: input.DurationSec,
		Calories:    input.Calories,
	})
	if err != nil {
		return nil, idOutput{}, err
	}
	return nil, idOutput{ID: id, Message: fmt.Sprintf("Logged %s set %s", setType, models.ShortID(id))}, nil
}

func (s *Server) handleFinishSession(ctx context.Context, req *mcp.CallToolRequest, input finishInput) (*mcp.CallToolResult, simpleOutput, error) {
	sessionID, err := s.db.ResolveID(ctx, "sessions", input.SessionID)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	var endLog *models.EndLog
	if input.Performance != 0 || input.Energy != 0 || input.MindMuscle != 0 {
		endLog = &models.EndLog{
			Performance:    input.Performance,
			Energy:         input.Energy,
			MindMuscle:     input.MindMuscle,
			MentalState:    input.MentalState,
			PreWorkoutUsed: input.PreWorkoutUsed,
		}
	}
	if err := s.sessions.Finish(ctx, sessionID, endLog); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Finished session %s", models.ShortID(sessionID))}, nil
}

func (s *Server) handleUpdateSet(ctx context.Context, req *mcp.CallToolRequest, input updateSetInput) (*mcp.CallToolResult, simpleOutput, error) {
	setID, err := s.db.ResolveID(ctx, "set_entries", input.SetID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	patch := models.SetPatch{
		Reps:        input.Reps,
		Load:        input.Load,
		RIR:         input.RIR,
		Distance:    input.Distance,
		DurationSec: input.DurationSec,
		Calories:    input.Calories,
	}
	if input.SetType != "" {
		st := models.SetType(input.SetType)
		patch.SetType = &st
	}
	if err := s.sessions.UpdateSet(ctx, setID, patch); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Updated set %s", models.ShortID(setID))}, nil
}

func (s *Server) handleDeleteSet(ctx context.Context, req *mcp.CallToolRequest, input setInput) (*mcp.CallToolResult, simpleOutput, error) {
	setID, err := s.db.ResolveID(ctx, "set_entries", input.SetID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.sessions.DeleteSet(ctx, setID); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted set %s", models.ShortID(setID))}, nil
}

func (s *Server) handleSaveEdited(ctx context.Context, req *mcp.CallToolRequest, input sessionInput) (*mcp.CallToolResult, simpleOutput, error) {
	sessionID, err := s.db.ResolveID(ctx, "sessions", input.SessionID)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.sessions.SaveEdited(ctx, sessionID); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Saved edits to session %s", models.ShortID(sessionID))}, nil
}

func (s *Server) handleGetSession(ctx context.Context, req *mcp.CallToolRequest, input sessionInput) (*mcp.CallToolResult, any, error) {
	sessionID, err := s.db.ResolveID(ctx, "sessions", input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	snap, err := s.sessions.Snapshot(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return nil, snap, nil
}

func (s *Server) handleGetStats(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	g, err := s.globalStats(ctx)
	if err != nil {
		return nil, nil, err
	}
	return nil, g, nil
}

func (s *Server) handleListRecords(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	views, err := s.recordViews(ctx)
	if err != nil {
		return nil, nil, err
	}
	return nil, recordsOutput{Records: views}, nil
}

func (s *Server) handleImportProgram(ctx context.Context, req *mcp.CallToolRequest, input importProgramInput) (*mcp.CallToolResult, idOutput, error) {
	var imp models.ProgramImport
	if err := json.Unmarshal([]byte(input.Program), &imp); err != nil {
		return nil, idOutput{}, fmt.Errorf("invalid program JSON: %w", err)
	}
	result, err := s.db.ImportProgram(ctx, &imp)
	if err != nil {
		return nil, idOutput{}, err
	}
	if err := s.db.ApplyImportedAnchor(ctx, result); err != nil {
		return nil, idOutput{}, err
	}
	return nil, idOutput{
		ID:      result.ProgramID,
		Message: fmt.Sprintf("Imported program %q (%s)", imp.Program.Name, models.ShortID(result.ProgramID)),
	}, nil
}

// Helpers

func (s *Server) dateOrToday(raw string) (models.Date, error) {
	if raw == "" {
		return models.DateOf(s.now()), nil
	}
	return models.ParseDate(raw)
}

func (s *Server) globalStats(ctx context.Context) (*models.GlobalStats, error) {
	var g *models.GlobalStats
	err := s.db.View(ctx, func(tx *storage.Tx) error {
		var err error
		g, err = tx.GetGlobalStats()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return g, nil
}

func (s *Server) recordViews(ctx context.Context) ([]recordView, error) {
	views := []recordView{}
	err := s.db.View(ctx, func(tx *storage.Tx) error {
		records, err := tx.ListRecords()
		if err != nil {
			return err
		}
		for _, r := range records {
			name := r.ExerciseID
			if e, err := tx.GetExercise(r.ExerciseID); err == nil {
				name = e.Name
			}
			views = append(views, recordView{
				Exercise:   name,
				ExerciseID: r.ExerciseID,
				Value:      r.Value,
				SessionID:  r.SessionID,
				AchievedAt: r.AchievedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return views, nil
}
