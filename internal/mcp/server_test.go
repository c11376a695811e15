// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Drives a full schedule-to-finish workflow through the tool handlers.
package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/records"
	"github.com/harperreed/gymlog/internal/schedule"
	"github.com/harperreed/gymlog/internal/session"
	"github.com/harperreed/gymlog/internal/stats"
	"github.com/harperreed/gymlog/internal/storage"
)

// 2026-02-24 is a Tuesday.
var testNow = time.Date(2026, 2, 24, 9, 0, 0, 0, time.UTC)

const testProgram = `{
  "schemaVersion": 1,
  "program": {
    "name": "Push Pull",
    "anchorWeekday": 1,
    "weekTemplate": {"days": [
      {"weekday": 2, "title": "Push", "exercises": [{"name": "Bench Press"}, {"name": "Overhead Press"}]},
      {"weekday": 4, "title": "Pull", "exercises": [{"name": "Deadlift"}]}
    ]}
  }
}`

// setupTestServer creates a server over a temp database with default
// settings and a clock advancing one minute per call.
func setupTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "gymlog-mcp-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	db, err := storage.Open(filepath.Join(tmpDir, "gymlog.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults failed: %v", err)
	}

	cur := testNow
	clock := func() time.Time {
		cur = cur.Add(time.Minute)
		return cur
	}
	sched := schedule.NewService(db, db, db).WithClock(clock)
	sessions := session.NewManager(db,
		records.NewTracker().WithClock(clock),
		stats.NewKeeper().WithClock(clock),
		nil,
	).WithClock(clock)

	server, err := NewServer(db, sched, sessions)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	server.now = func() time.Time { return testNow }
	return server, db
}

func importTestProgram(t *testing.T, server *Server) {
	t.Helper()
	_, out, err := server.handleImportProgram(context.Background(), &mcp.CallToolRequest{}, importProgramInput{Program: testProgram})
	if err != nil {
		t.Fatalf("import_program failed: %v", err)
	}
	if out.ID == "" {
		t.Fatal("import_program returned no id")
	}
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t)
	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.db == nil || server.schedule == nil || server.sessions == nil {
		t.Error("Expected services to be wired")
	}
}

func TestImportProgramAppliesAnchor(t *testing.T) {
	server, db := setupTestServer(t)
	importTestProgram(t, server)

	s, err := db.Settings(context.Background())
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if s.AnchorWeekday != time.Monday {
		t.Errorf("AnchorWeekday = %s, want Monday", s.AnchorWeekday)
	}
}

func TestImportProgramErrors(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		program string
	}{
		{"not json", "nope"},
		{"wrong schema version", `{"schemaVersion": 2, "program": {"name": "x", "weekTemplate": {"days": [{"weekday": 1, "title": "A", "exercises": []}]}}}`},
		{"no days", `{"schemaVersion": 1, "program": {"name": "x", "weekTemplate": {"days": []}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := server.handleImportProgram(ctx, &mcp.CallToolRequest{}, importProgramInput{Program: tt.program}); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestScheduleTools(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	req := &mcp.CallToolRequest{}
	importTestProgram(t, server)

	_, gen, err := server.handleGenerateWeek(ctx, req, dateInput{})
	if err != nil {
		t.Fatalf("generate_week failed: %v", err)
	}
	if !strings.Contains(gen.Message, "Created 7") {
		t.Errorf("generate_week message = %q", gen.Message)
	}

	_, out, err := server.handleGetWeek(ctx, req, dateInput{Date: "2026-02-24"})
	if err != nil {
		t.Fatalf("get_week failed: %v", err)
	}
	week := out.(weekOutput)
	// Monday-anchored week from the imported program.
	if len(week.Entries) != 7 || week.Entries[0].Date != "2026-02-23" {
		t.Fatalf("unexpected week: %+v", week.Entries)
	}
	if week.Entries[1].Title != "Push" || week.Entries[3].Title != "Pull" {
		t.Errorf("titles = %q, %q", week.Entries[1].Title, week.Entries[3].Title)
	}

	if _, _, err := server.handleMarkSkipped(ctx, req, dateInput{Date: "2026-02-26"}); err != nil {
		t.Fatalf("mark_skipped failed: %v", err)
	}
	_, out, _ = server.handleGetWeek(ctx, req, dateInput{Date: "2026-02-24"})
	if e := out.(weekOutput).Entries[3]; e.State != models.ScheduleSkipped {
		t.Errorf("Thursday state = %s, want SKIPPED", e.State)
	}

	if _, _, err := server.handleConvertToRest(ctx, req, dateInput{Date: "2026-02-24"}); err != nil {
		t.Fatalf("convert_to_rest failed: %v", err)
	}
	_, out, _ = server.handleGetWeek(ctx, req, dateInput{Date: "2026-02-24"})
	if e := out.(weekOutput).Entries[1]; e.Type != models.ScheduleRest {
		t.Errorf("Tuesday type = %s, want REST", e.Type)
	}

	if _, _, err := server.handleShiftWorkout(ctx, req, shiftInput{From: "bad", To: "2026-02-24"}); err == nil {
		t.Error("expected error for bad date")
	}
	if _, _, err := server.handleInsertRestDay(ctx, req, dateInput{Date: "2026-02-24"}); err != nil {
		t.Errorf("insert_rest_day on rest day = %v", err)
	}
}

func TestSessionWorkflow(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()
	req := &mcp.CallToolRequest{}
	importTestProgram(t, server)

	if _, _, err := server.handleGenerateWeek(ctx, req, dateInput{Date: "2026-02-24"}); err != nil {
		t.Fatalf("generate_week failed: %v", err)
	}

	_, started, err := server.handleStartSession(ctx, req, dateInput{Date: "2026-02-24"})
	if err != nil {
		t.Fatalf("start_session failed: %v", err)
	}
	short := models.ShortID(started.ID)

	_, out, err := server.handleGetSession(ctx, req, sessionInput{SessionID: short})
	if err != nil {
		t.Fatalf("get_session failed: %v", err)
	}
	snap := out.(*models.SessionSnapshot)
	if len(snap.SessionExercises) != 2 {
		t.Fatalf("expected 2 seeded exercises, got %d", len(snap.SessionExercises))
	}
	bench := snap.SessionExercises[0]

	for _, load := range []float64{60, 70} {
		reps, l := 5, load
		_, _, err := server.handleLogSet(ctx, req, logSetInput{
			SessionID:         short,
			SessionExerciseID: models.ShortID(bench.ID),
			Reps:              &reps,
			Load:              &l,
		})
		if err != nil {
			t.Fatalf("log_set failed: %v", err)
		}
	}

	if _, _, err := server.handleFinishSession(ctx, req, finishInput{SessionID: short, Performance: 9}); err == nil {
		t.Error("expected validation error for rating 9")
	}
	if _, _, err := server.handleFinishSession(ctx, req, finishInput{
		SessionID: short, Performance: 4, Energy: 4, MindMuscle: 3,
	}); err != nil {
		t.Fatalf("finish_session failed: %v", err)
	}

	_, out, err = server.handleListRecords(ctx, req, struct{}{})
	if err != nil {
		t.Fatalf("list_records failed: %v", err)
	}
	recs := out.(recordsOutput).Records
	if len(recs) != 1 || recs[0].Exercise != "Bench Press" || recs[0].Value != 70 {
		t.Errorf("records = %+v", recs)
	}

	_, out, err = server.handleGetStats(ctx, req, struct{}{})
	if err != nil {
		t.Fatalf("get_stats failed: %v", err)
	}
	g := out.(*models.GlobalStats)
	if g.TotalSessionsCompleted != 1 || g.TotalSetsLogged != 2 || g.TotalVolumeLoad != 650 {
		t.Errorf("stats = %+v", g)
	}

	// Correct the heavier set and reconcile.
	var setID string
	err = db.View(ctx, func(tx *storage.Tx) error {
		sets, err := tx.ListSetsForSession(started.ID)
		if err != nil {
			return err
		}
		setID = sets[1].ID
		return nil
	})
	if err != nil {
		t.Fatalf("list sets: %v", err)
	}
	load := 50.0
	if _, _, err := server.handleUpdateSet(ctx, req, updateSetInput{SetID: models.ShortID(setID), Load: &load}); err != nil {
		t.Fatalf("update_set failed: %v", err)
	}
	if _, _, err := server.handleSaveEdited(ctx, req, sessionInput{SessionID: short}); err != nil {
		t.Fatalf("save_edited_session failed: %v", err)
	}
	_, out, _ = server.handleListRecords(ctx, req, struct{}{})
	if recs := out.(recordsOutput).Records; len(recs) != 1 || recs[0].Value != 60 {
		t.Errorf("records after edit = %+v", recs)
	}

	if _, _, err := server.handleDeleteSet(ctx, req, setInput{SetID: "missing"}); err == nil {
		t.Error("expected error resolving unknown set")
	}
}

func TestAddAndSwapExercise(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()
	req := &mcp.CallToolRequest{}

	row := models.NewExercise("Barbell Row")
	curl := models.NewExercise("Curl")
	err := db.Update(ctx, func(tx *storage.Tx) error {
		if err := tx.CreateExercise(row); err != nil {
			return err
		}
		return tx.CreateExercise(curl)
	})
	if err != nil {
		t.Fatalf("seed exercises: %v", err)
	}

	_, started, err := server.handleStartSession(ctx, req, dateInput{Date: "2026-03-02"})
	if err != nil {
		t.Fatalf("start_session failed: %v", err)
	}
	_, added, err := server.handleAddExercise(ctx, req, addExerciseInput{SessionID: started.ID, ExerciseID: row.ID})
	if err != nil {
		t.Fatalf("add_exercise failed: %v", err)
	}
	_, swapped, err := server.handleSwapExercise(ctx, req, swapExerciseInput{
		SessionID:         started.ID,
		SessionExerciseID: added.ID,
		ExerciseID:        models.ShortID(curl.ID),
	})
	if err != nil {
		t.Fatalf("swap_exercise failed: %v", err)
	}
	if swapped.ID != added.ID {
		t.Errorf("swap changed slot id: %s != %s", swapped.ID, added.ID)
	}

	_, out, err := server.handleGetSession(ctx, req, sessionInput{SessionID: started.ID})
	if err != nil {
		t.Fatalf("get_session failed: %v", err)
	}
	snap := out.(*models.SessionSnapshot)
	if len(snap.SessionExercises) != 1 || snap.SessionExercises[0].ExerciseID != curl.ID {
		t.Errorf("session exercises = %+v", snap.SessionExercises)
	}
}

func TestResources(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	importTestProgram(t, server)
	if _, _, err := server.handleGenerateWeek(ctx, &mcp.CallToolRequest{}, dateInput{}); err != nil {
		t.Fatalf("generate_week failed: %v", err)
	}

	tests := []struct {
		uri     string
		handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)
		key     string
	}{
		{"gymlog://week", server.handleWeekResource, "entries"},
		{"gymlog://stats", server.handleStatsResource, "total_sessions_completed"},
		{"gymlog://records", server.handleRecordsResource, "records"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			result, err := tt.handler(ctx, &mcp.ReadResourceRequest{})
			if err != nil {
				t.Fatalf("handler failed: %v", err)
			}
			if len(result.Contents) != 1 || result.Contents[0].URI != tt.uri {
				t.Fatalf("unexpected contents: %+v", result.Contents)
			}

			var decoded map[string]any
			if err := json.Unmarshal([]byte(result.Contents[0].Text), &decoded); err != nil {
				t.Fatalf("resource is not JSON: %v", err)
			}
			if _, ok := decoded[tt.key]; !ok {
				t.Errorf("resource missing %q: %s", tt.key, result.Contents[0].Text)
			}
		})
	}
}
