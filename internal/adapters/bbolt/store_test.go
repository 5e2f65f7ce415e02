package bbolt

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/pseudo/internal/ports"
)

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func makeTestSnapshot() *ports.Snapshot {
	entries := map[string]*ports.SnapshotEntry{}
	for _, e := range []ports.SnapshotEntry{
		{File: "Models/Point.cs", Type: "Point", Text: "class Point\n{\n\tint X;\n}"},
		{File: "Models/User.cs", Type: "User", Text: "public class User\n{\n\tpublic string Name { get; set; }\n}"},
		{File: "Models/User.cs", Type: "Address", Text: "public class Address\n{\n}"},
	} {
		entries[ports.SnapshotKey(e.File, e.Type, 0)] = &e
	}
	return &ports.Snapshot{Entries: entries}
}

func TestStore_SaveLoadSnapshot_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	snap := makeTestSnapshot()

	require.NoError(t, store.SaveSnapshot("proj-1", snap))

	// RunID and CreatedAt are filled in on save.
	_, err := uuid.Parse(snap.RunID)
	require.NoError(t, err, "run id should be a uuid")
	assert.False(t, snap.CreatedAt.IsZero())

	got, err := store.LoadSnapshot("proj-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap.RunID, got.RunID)
	assert.True(t, snap.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, snap.Entries, got.Entries)
	assert.Equal(t, "class Point\n{\n\tint X;\n}", got.Entries["Models/Point.cs#Point"].Text)
}

func TestStore_SaveKeepsGivenRunID(t *testing.T) {
	store, _ := newTestStore(t)
	snap := makeTestSnapshot()
	snap.RunID = "fixed-run"
	snap.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, store.SaveSnapshot("p", snap))
	got, err := store.LoadSnapshot("p")
	require.NoError(t, err)
	assert.Equal(t, "fixed-run", got.RunID)
	assert.True(t, snap.CreatedAt.Equal(got.CreatedAt))
}

func TestStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)
	got, err := store.LoadSnapshot("never-saved")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_SaveReplacesPrevious(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveSnapshot("p", makeTestSnapshot()))

	smaller := &ports.Snapshot{Entries: map[string]*ports.SnapshotEntry{
		"A.cs#A": {File: "A.cs", Type: "A", Text: "class A\n{\n}"},
	}}
	require.NoError(t, store.SaveSnapshot("p", smaller))

	got, err := store.LoadSnapshot("p")
	require.NoError(t, err)
	require.Len(t, got.Entries, 1, "entries from the previous snapshot must not survive")
	assert.Contains(t, got.Entries, "A.cs#A")
}

func TestStore_EmptySnapshot(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveSnapshot("p", &ports.Snapshot{}))
	got, err := store.LoadSnapshot("p")
	require.NoError(t, err)
	require.NotNil(t, got, "an empty snapshot is still a snapshot")
	assert.Empty(t, got.Entries)
}

func TestStore_NilSnapshot(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Error(t, store.SaveSnapshot("p", nil))
}

func TestStore_ProjectScoped(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveSnapshot("proj-a", makeTestSnapshot()))
	require.NoError(t, store.SaveSnapshot("proj-b", &ports.Snapshot{}))

	a, err := store.LoadSnapshot("proj-a")
	require.NoError(t, err)
	b, err := store.LoadSnapshot("proj-b")
	require.NoError(t, err)
	assert.Len(t, a.Entries, 3)
	assert.Empty(t, b.Entries)

	require.NoError(t, store.DeleteSnapshot("proj-b"))
	a, err = store.LoadSnapshot("proj-a")
	require.NoError(t, err)
	assert.Len(t, a.Entries, 3, "deleting one project leaves the others")
}

func TestStore_DeleteSnapshot(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveSnapshot("p", makeTestSnapshot()))
	require.NoError(t, store.DeleteSnapshot("p"))

	got, err := store.LoadSnapshot("p")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Idempotent
	assert.NoError(t, store.DeleteSnapshot("p"))
	assert.NoError(t, store.DeleteSnapshot("never-existed"))
}

func TestStore_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pseudo.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.SaveSnapshot("p", makeTestSnapshot()))
	require.NoError(t, store1.Close())

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()
	got, err := store2.LoadSnapshot("p")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Entries, 3)
}

func TestStore_ConcurrentReads(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveSnapshot("p", makeTestSnapshot()))

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := store.LoadSnapshot("p")
			if err != nil {
				errs <- err
				return
			}
			if len(snap.Entries) != 3 {
				errs <- fmt.Errorf("expected 3 entries, got %d", len(snap.Entries))
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

// =============================================================================
// Lock contention: the 1s timeout prevents hangs
// =============================================================================

func TestStore_OpenTimeout_DoesNotHang(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locked.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	defer store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.Error(t, err, "second open should fail with lock timeout")
	assert.Nil(t, store2)
	assert.Contains(t, err.Error(), "bbolt open")
	assert.Contains(t, err.Error(), "timeout")
	assert.Less(t, elapsed, 3*time.Second, "should complete within 3s, not hang")
}
