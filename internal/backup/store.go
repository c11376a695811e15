// ABOUTME: Badger-backed store for session snapshot backups.
// ABOUTME: Temporary snapshots follow each logged set; final ones are written on finish.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/harperreed/gymlog/internal/models"
)

// Kind separates short-lived per-set snapshots from permanent finish snapshots.
type Kind string

const (
	KindTmp   Kind = "tmp"
	KindFinal Kind = "final"
)

const stampLayout = "20060102T150405.000Z"

// ErrNotFound is returned by Get for an unknown key.
var ErrNotFound = errors.New("backup not found")

// Entry describes one stored snapshot without decoding it.
type Entry struct {
	Key       string      `json:"key"`
	Kind      Kind        `json:"kind"`
	Date      models.Date `json:"date"`
	SessionID string      `json:"session_id"`
	CreatedAt time.Time   `json:"created_at"`
	Size      int64       `json:"size"`
}

// Store keeps snapshots under keys of the form
// <kind>/<date>/<session id>/<timestamp>-<uuid>.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// Open opens (creating if needed) a snapshot store in dir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("backup directory is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create backup directory %s: %w", dir, err)
	}
	return open(badger.DefaultOptions(dir).WithSyncWrites(true))
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	opts = opts.WithNumVersionsToKeep(1).WithLogger(badgerLogger{log.WithField("component", "backup")})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open backup store: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// WithClock replaces the store clock used for key timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Close releases the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// SnapshotAfterSet writes a temporary snapshot of an in-flight session.
func (s *Store) SnapshotAfterSet(ctx context.Context, snap *models.SessionSnapshot) error {
	_, err := s.put(ctx, KindTmp, snap)
	return err
}

// SnapshotOnFinish writes a permanent snapshot of a finished session.
func (s *Store) SnapshotOnFinish(ctx context.Context, snap *models.SessionSnapshot) error {
	_, err := s.put(ctx, KindFinal, snap)
	return err
}

func (s *Store) put(ctx context.Context, kind Kind, snap *models.SessionSnapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if snap == nil || snap.Session == nil {
		return "", errors.New("snapshot has no session")
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s/%s-%s", kind, snap.Session.Date, snap.Session.ID,
		s.now().UTC().Format(stampLayout), uuid.NewString())
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return "", fmt.Errorf("write %s snapshot: %w", kind, err)
	}

	log.WithFields(log.Fields{"key": key, "bytes": len(data)}).Debug("stored session snapshot")
	return key, nil
}

// List returns the stored snapshots of kind in key order, which is date
// order. An empty kind lists everything.
func (s *Store) List(ctx context.Context, kind Kind) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var prefix []byte
	if kind != "" {
		prefix = []byte(string(kind) + "/")
	}

	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			e, ok := parseKey(string(item.KeyCopy(nil)))
			if !ok {
				continue
			}
			e.Size = item.ValueSize()
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return entries, nil
}

// Get decodes the snapshot stored under key.
func (s *Store) Get(ctx context.Context, key string) (*models.SessionSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap models.SessionSnapshot
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return &snap, nil
}

// PurgeTmp deletes every temporary snapshot not dated keepDate. Final
// snapshots are never touched. Returns the number of snapshots removed.
func (s *Store) PurgeTmp(ctx context.Context, keepDate models.Date) (int, error) {
	entries, err := s.List(ctx, KindTmp)
	if err != nil {
		return 0, err
	}

	var doomed [][]byte
	for _, e := range entries {
		if e.Date != keepDate {
			doomed = append(doomed, []byte(e.Key))
		}
	}
	if len(doomed) == 0 {
		return 0, nil
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range doomed {
		if err := wb.Delete(key); err != nil {
			return 0, fmt.Errorf("purge tmp snapshots: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("purge tmp snapshots: %w", err)
	}

	log.WithFields(log.Fields{"kept_date": keepDate, "removed": len(doomed)}).Debug("purged tmp snapshots")
	return len(doomed), nil
}

func parseKey(key string) (Entry, bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 4 {
		return Entry{}, false
	}
	kind := Kind(parts[0])
	if kind != KindTmp && kind != KindFinal {
		return Entry{}, false
	}

	stamp, _, _ := strings.Cut(parts[3], "-")
	created, err := time.Parse(stampLayout, stamp)
	if err != nil {
		return Entry{}, false
	}

	return Entry{
		Key:       key,
		Kind:      kind,
		Date:      models.Date(parts[1]),
		SessionID: parts[2],
		CreatedAt: created,
	}, true
}

// badgerLogger routes badger's internal logging through logrus, demoting
// its chatty info output to debug.
type badgerLogger struct {
	entry *log.Entry
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(strings.TrimRight(format, "\n"), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.entry.Warnf(strings.TrimRight(format, "\n"), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.entry.Debugf(strings.TrimRight(format, "\n"), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(strings.TrimRight(format, "\n"), args...)
}
