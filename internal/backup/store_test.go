// ABOUTME: Tests for the badger snapshot store.
// ABOUTME: Covers key layout, round trips, listing, and tmp retention.
package backup

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/gymlog/internal/models"
)

var testNow = time.Date(2026, 2, 24, 9, 0, 0, 0, time.UTC)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	cur := testNow
	return s.WithClock(func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	})
}

func testSnapshot(date models.Date) *models.SessionSnapshot {
	s := models.NewSession(date, nil, testNow)
	return &models.SessionSnapshot{
		App:           "gymlog",
		SchemaVersion: models.SnapshotSchemaVersion,
		ExportedAt:    testNow,
		Session:       s,
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	snap := testSnapshot("2026-02-24")

	if err := store.SnapshotAfterSet(ctx, snap); err != nil {
		t.Fatalf("SnapshotAfterSet failed: %v", err)
	}
	if err := store.SnapshotOnFinish(ctx, snap); err != nil {
		t.Fatalf("SnapshotOnFinish failed: %v", err)
	}

	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(all))
	}

	final, err := store.List(ctx, KindFinal)
	if err != nil {
		t.Fatalf("List final failed: %v", err)
	}
	if len(final) != 1 {
		t.Fatalf("expected 1 final snapshot, got %d", len(final))
	}
	e := final[0]
	if e.Date != "2026-02-24" || e.SessionID != snap.Session.ID || e.Size == 0 {
		t.Errorf("entry = %+v", e)
	}
	if !strings.HasPrefix(e.Key, "final/2026-02-24/"+snap.Session.ID+"/") {
		t.Errorf("key = %q", e.Key)
	}
	if !e.CreatedAt.Equal(testNow.Add(2 * time.Second)) {
		t.Errorf("CreatedAt = %v", e.CreatedAt)
	}

	got, err := store.Get(ctx, e.Key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Session.ID != snap.Session.ID || got.App != "gymlog" {
		t.Errorf("decoded snapshot = %+v", got)
	}
}

func TestGetMissing(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.Get(context.Background(), "final/2026-01-01/x/y")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotWithoutSession(t *testing.T) {
	store := setupTestStore(t)
	if err := store.SnapshotAfterSet(context.Background(), &models.SessionSnapshot{}); err == nil {
		t.Error("expected error for snapshot without session")
	}
}

func TestPurgeTmpKeepsDateAndFinals(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, date := range []models.Date{"2026-02-20", "2026-02-22", "2026-02-24"} {
		snap := testSnapshot(date)
		for i := 0; i < 2; i++ {
			if err := store.SnapshotAfterSet(ctx, snap); err != nil {
				t.Fatalf("SnapshotAfterSet failed: %v", err)
			}
		}
		if err := store.SnapshotOnFinish(ctx, snap); err != nil {
			t.Fatalf("SnapshotOnFinish failed: %v", err)
		}
	}

	removed, err := store.PurgeTmp(ctx, "2026-02-24")
	if err != nil {
		t.Fatalf("PurgeTmp failed: %v", err)
	}
	if removed != 4 {
		t.Errorf("removed = %d, want 4", removed)
	}

	tmp, err := store.List(ctx, KindTmp)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tmp) != 2 {
		t.Fatalf("expected 2 tmp snapshots left, got %d", len(tmp))
	}
	for _, e := range tmp {
		if e.Date != "2026-02-24" {
			t.Errorf("unexpected tmp snapshot kept: %s", e.Key)
		}
	}

	final, err := store.List(ctx, KindFinal)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(final) != 3 {
		t.Errorf("final snapshots = %d, want 3", len(final))
	}

	// Nothing left to purge.
	if removed, err := store.PurgeTmp(ctx, "2026-02-24"); err != nil || removed != 0 {
		t.Errorf("second PurgeTmp = %d, %v", removed, err)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.SnapshotOnFinish(context.Background(), testSnapshot("2026-02-24")); err != nil {
		t.Fatalf("SnapshotOnFinish failed: %v", err)
	}
	store.Close()

	store, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()
	entries, err := store.List(context.Background(), KindFinal)
	if err != nil || len(entries) != 1 {
		t.Errorf("List after reopen = %v, %v", entries, err)
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key string
		ok  bool
	}{
		{"tmp/2026-02-24/01ABC/20260224T090001.000Z-6f1c2d3e-aaaa-bbbb-cccc-123456789012", true},
		{"final/2026-02-24/01ABC/20260224T090001.000Z-x", true},
		{"other/2026-02-24/01ABC/20260224T090001.000Z-x", false},
		{"tmp/2026-02-24/01ABC", false},
		{"tmp/2026-02-24/01ABC/garbage", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, ok := parseKey(tt.key)
			if ok != tt.ok {
				t.Errorf("parseKey(%q) ok = %v, want %v", tt.key, ok, tt.ok)
			}
		})
	}
}
