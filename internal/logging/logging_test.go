// ABOUTME: Tests for logrus level parsing and setup.
package logging

import (
	"bytes"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestGetLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"DEBUG", log.DebugLevel},
		{" info ", log.InfoLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"trace", log.TraceLevel},
		{"", DefaultLevel},
		{"verbose", DefaultLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := GetLevel(tt.in); got != tt.want {
				t.Errorf("GetLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetup(t *testing.T) {
	prevLevel, prevOut := log.GetLevel(), log.StandardLogger().Out
	t.Cleanup(func() {
		log.SetLevel(prevLevel)
		log.SetOutput(prevOut)
	})

	var buf bytes.Buffer
	Setup("info", &buf)

	log.Debug("hidden")
	log.WithField("session_id", "abc").Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug line written at info level")
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "session_id=abc") {
		t.Errorf("unexpected output: %q", out)
	}
}
