// ABOUTME: Process-wide logrus setup for the CLI and MCP server.
// ABOUTME: Logs go to stderr so command output on stdout stays clean.
package logging

import (
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// DefaultLevel is used when no level or an unknown level is configured.
const DefaultLevel = log.WarnLevel

// GetLevel maps a level name to a logrus level, falling back to DefaultLevel.
func GetLevel(name string) log.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return DefaultLevel
	}
}

// Setup configures the standard logger's level, output, and text format.
func Setup(level string, out io.Writer) {
	log.SetLevel(GetLevel(level))
	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		TimestampFormat:  "2006-01-02T15:04:05.000Z07:00",
		QuoteEmptyFields: true,
	})
}
