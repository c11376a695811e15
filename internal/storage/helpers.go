// ABOUTME: Column conversion helpers shared by the storage files.
// ABOUTME: Timestamps are fixed-width UTC text so they sort lexically.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout has millisecond precision and a fixed width, so ORDER BY on the
// text column matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func timePtr(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// jsonColumn marshals v for a nullable TEXT column. Nil pointers become NULL.
func jsonColumn[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal column: %w", err)
	}
	return string(data), nil
}

// scanJSONColumn unmarshals a nullable TEXT column into a new T.
func scanJSONColumn[T any](ns sql.NullString) (*T, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal([]byte(ns.String), &v); err != nil {
		return nil, fmt.Errorf("unmarshal column: %w", err)
	}
	return &v, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
