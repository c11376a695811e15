// ABOUTME: Integration tests for gymlog CLI.
// ABOUTME: Builds the binary and drives a full week from program import to records.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

const program = `{
  "schemaVersion": 1,
  "program": {
    "name": "Full Body",
    "anchorWeekday": 0,
    "weekTemplate": {"days": [
      {"weekday": 1, "title": "Day A", "exercises": [{"name": "Squat"}, {"name": "Bench Press"}]},
      {"weekday": 3, "title": "Day B", "exercises": [{"name": "Deadlift"}]},
      {"weekday": 5, "title": "Day A", "exercises": [{"name": "Squat"}, {"name": "Bench Press"}]}
    ]}
  }
}`

var sessionLine = regexp.MustCompile(`Session (\S+) for`)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	binary := filepath.Join(projectRoot, "gymlog")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/gymlog")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(binary)

	// Use temp database and config
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	programPath := filepath.Join(tmpDir, "program.json")
	if err := os.WriteFile(programPath, []byte(program), 0600); err != nil {
		t.Fatal(err)
	}

	run := func(args ...string) (string, error) {
		fullArgs := append([]string{"--db", dbPath}, args...)
		cmd := exec.Command(binary, fullArgs...)
		cmd.Env = append(os.Environ(),
			"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
			"XDG_DATA_HOME="+filepath.Join(tmpDir, "data"),
			"NO_COLOR=1",
		)
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	output, err := run("program", "import", programPath)
	if err != nil {
		t.Fatalf("Failed to import program: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Imported Full Body") {
		t.Errorf("Expected 'Imported Full Body' in output, got: %s", output)
	}

	// 2026-02-23 is a Monday; the week runs Sunday 22 to Saturday 28.
	output, err = run("schedule", "generate", "2026-02-23")
	if err != nil {
		t.Fatalf("Failed to generate week: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Planned 7 new days") || !strings.Contains(output, "Day B") {
		t.Errorf("Unexpected generate output: %s", output)
	}

	// Generating again adds nothing
	output, err = run("schedule", "generate", "2026-02-25")
	if err != nil {
		t.Fatalf("Failed to regenerate week: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Planned 0 new days") {
		t.Errorf("Expected idempotent generate, got: %s", output)
	}

	output, err = run("session", "start", "2026-02-23")
	if err != nil {
		t.Fatalf("Failed to start session: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Squat") || !strings.Contains(output, "Bench Press") {
		t.Errorf("Expected seeded exercises, got: %s", output)
	}

	m := sessionLine.FindStringSubmatch(output)
	if m == nil {
		t.Fatalf("Expected session id in output, got: %s", output)
	}
	sessionID := m[1]
	squatSlot := slotFor(output, "Squat")
	if squatSlot == "" {
		t.Fatalf("Expected a Squat slot row, got: %s", output)
	}

	output, err = run("session", "log", sessionID, squatSlot, "--reps", "5", "--load", "100")
	if err != nil {
		t.Fatalf("Failed to log set: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Logged WORKING set") {
		t.Errorf("Expected 'Logged WORKING set' in output, got: %s", output)
	}

	output, err = run("session", "finish", sessionID, "--performance", "5", "--energy", "4", "--mind-muscle", "4")
	if err != nil {
		t.Fatalf("Failed to finish session: %v\n%s", err, output)
	}

	output, err = run("records", "list")
	if err != nil {
		t.Fatalf("Failed to list records: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Squat") || !strings.Contains(output, "100") {
		t.Errorf("Expected squat record, got: %s", output)
	}

	output, err = run("stats", "show")
	if err != nil {
		t.Fatalf("Failed to show stats: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Sessions completed:  1") || !strings.Contains(output, "Volume load:         500") {
		t.Errorf("Unexpected stats: %s", output)
	}

	output, err = run("schedule", "week", "2026-02-23")
	if err != nil {
		t.Fatalf("Failed to show week: %v\n%s", err, output)
	}
	if !strings.Contains(output, "COMPLETED") {
		t.Errorf("Expected Monday to be COMPLETED, got: %s", output)
	}
}

// slotFor returns the slot id cell of the table row naming exercise.
func slotFor(output, exercise string) string {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, exercise) {
			continue
		}
		cells := strings.Split(line, "│")
		if len(cells) > 2 {
			return strings.TrimSpace(cells[1])
		}
	}
	return ""
}
