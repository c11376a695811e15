// ABOUTME: Entity identifier generation for gymlog records.
// ABOUTME: ULIDs sort by creation time, so ordering by id follows insertion order.
package models

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a new monotonic ULID string.
func NewID() string {
	return NewIDAt(time.Now())
}

// NewIDAt returns a new ULID whose timestamp component is t.
func NewIDAt(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// ShortID returns the last 8 characters of an id for display. The leading
// characters of a ULID encode its timestamp and collide between nearby records.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}
