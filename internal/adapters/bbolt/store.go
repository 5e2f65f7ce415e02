// Package bbolt implements ports.SnapshotStore using bbolt (embedded B+ tree).
// Each project gets its own top-level bucket holding a "snapshot" sub-bucket:
// run metadata under one key, and one JSON value per rendered type in a nested
// "entries" bucket. Saves are transactional: a crash mid-write cannot corrupt
// the previously committed snapshot.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/corey/pseudo/internal/ports"
)

// Bucket keys
var (
	bucketSnapshot = []byte("snapshot")
	bucketEntries  = []byte("entries")
	keyMeta        = []byte("meta")
)

// Store implements ports.SnapshotStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ ports.SnapshotStore = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path. Another
// process holding the database makes this fail after one second.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

type snapshotMeta struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveSnapshot replaces the stored snapshot for a project. A snapshot without
// a RunID gets a fresh one, and a zero CreatedAt is set to now; both are
// written back to snap.
func (s *Store) SaveSnapshot(projectID string, snap *ports.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}
	if snap.RunID == "" {
		snap.RunID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	meta, err := json.Marshal(snapshotMeta{RunID: snap.RunID, CreatedAt: snap.CreatedAt})
	if err != nil {
		return fmt.Errorf("marshal snapshot meta: %w", err)
	}
	entries := make(map[string][]byte, len(snap.Entries))
	for key, e := range snap.Entries {
		if e == nil {
			continue
		}
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal entry %s: %w", key, err)
		}
		entries[key] = data
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		proj, err := tx.CreateBucketIfNotExists([]byte(projectID))
		if err != nil {
			return err
		}
		if err := proj.DeleteBucket(bucketSnapshot); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		sb, err := proj.CreateBucket(bucketSnapshot)
		if err != nil {
			return err
		}
		if err := sb.Put(keyMeta, meta); err != nil {
			return err
		}
		eb, err := sb.CreateBucket(bucketEntries)
		if err != nil {
			return err
		}
		for key, data := range entries {
			if err := eb.Put([]byte(key), data); err != nil {
				return fmt.Errorf("put %s: %w", key, err)
			}
		}
		return nil
	})
}

// LoadSnapshot retrieves the snapshot for a project.
// Returns nil, nil if no snapshot exists.
func (s *Store) LoadSnapshot(projectID string) (*ports.Snapshot, error) {
	var meta []byte
	raw := make(map[string][]byte)

	err := s.db.View(func(tx *bolt.Tx) error {
		proj := tx.Bucket([]byte(projectID))
		if proj == nil {
			return nil
		}
		sb := proj.Bucket(bucketSnapshot)
		if sb == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := sb.Get(keyMeta); v != nil {
			meta = make([]byte, len(v))
			copy(meta, v)
		}
		eb := sb.Bucket(bucketEntries)
		if eb == nil {
			return nil
		}
		return eb.ForEach(func(k, v []byte) error {
			data := make([]byte, len(v))
			copy(data, v)
			raw[string(k)] = data
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if meta == nil {
		return nil, nil
	}

	var m snapshotMeta
	if err := json.Unmarshal(meta, &m); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot meta: %w", err)
	}
	snap := &ports.Snapshot{
		RunID:     m.RunID,
		CreatedAt: m.CreatedAt,
		Entries:   make(map[string]*ports.SnapshotEntry, len(raw)),
	}
	for key, data := range raw {
		var e ports.SnapshotEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("unmarshal entry %s: %w", key, err)
		}
		snap.Entries[key] = &e
	}
	return snap, nil
}

// DeleteSnapshot removes all data for a project.
// Idempotent: deleting a nonexistent project is not an error.
func (s *Store) DeleteSnapshot(projectID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(projectID)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		return nil
	})
}
