package ports

import (
	"fmt"
	"time"
)

// SnapshotStore persists rendered pseudo-code so later runs can detect drift.
// The backing store (bbolt) is project-scoped: each projectID gets its own
// namespace.
//
// Crash safety: SaveSnapshot must be transactional. A crash mid-write must not
// corrupt the previously committed snapshot.
type SnapshotStore interface {
	// SaveSnapshot replaces the stored snapshot for a project.
	SaveSnapshot(projectID string, snap *Snapshot) error

	// LoadSnapshot retrieves the stored snapshot for a project.
	// Returns nil, nil if none was ever saved.
	LoadSnapshot(projectID string) (*Snapshot, error)

	// DeleteSnapshot removes the stored snapshot. Idempotent.
	DeleteSnapshot(projectID string) error

	Close() error
}

// Snapshot is one complete render of a project.
type Snapshot struct {
	RunID     string                    `json:"run_id"`
	CreatedAt time.Time                 `json:"created_at"`
	Entries   map[string]*SnapshotEntry `json:"entries"` // key: SnapshotKey
}

// SnapshotEntry is the rendered text of one type.
type SnapshotEntry struct {
	File string `json:"file"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// SnapshotKey builds the entry key for a type declared in a project-relative
// file. typeName is nesting-qualified ("Red.Node"); ordinal counts earlier
// types of that file with the same qualified name, and is 0 for the first.
func SnapshotKey(file, typeName string, ordinal int) string {
	if ordinal > 0 {
		return fmt.Sprintf("%s#%s(%d)", file, typeName, ordinal+1)
	}
	return file + "#" + typeName
}
