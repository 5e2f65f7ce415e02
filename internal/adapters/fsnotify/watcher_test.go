package fsnotify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func startWatcher(t *testing.T, dir string, cfg Config) <-chan string {
	t.Helper()
	w, err := NewWatcher(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(dir, func(path string) { changed <- path }))

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)
	return changed
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Point.cs")
	require.NoError(t, os.WriteFile(file, []byte("class Point {}"), 0644))

	changed := startWatcher(t, dir, Config{})
	require.NoError(t, os.WriteFile(file, []byte("class Point { int X; }"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for file change")
	assert.Equal(t, file, path)
}

func TestWatcher_DetectsNewFile(t *testing.T) {
	dir := t.TempDir()
	changed := startWatcher(t, dir, Config{})

	file := filepath.Join(dir, "User.cs")
	require.NoError(t, os.WriteFile(file, []byte("class User {}"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for new file")
	assert.Equal(t, file, path)
}

func TestWatcher_DetectsDeletedFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Gone.cs")
	require.NoError(t, os.WriteFile(file, []byte("class Gone {}"), 0644))

	changed := startWatcher(t, dir, Config{})
	require.NoError(t, os.Remove(file))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for deleted file")
	assert.Equal(t, file, path)
}

func TestWatcher_IgnoresOtherFilesAndBuildOutput(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "obj")
	vendored := filepath.Join(dir, "Generated")
	require.NoError(t, os.MkdirAll(obj, 0755))
	require.NoError(t, os.MkdirAll(vendored, 0755))

	changed := startWatcher(t, dir, Config{SkipDirs: []string{"Generated"}})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(obj, "Temp.cs"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(vendored, "Auto.cs"), []byte("x"), 0644))

	_, ok := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "non-source files and ignored directories must not trigger")

	// A real source file still does.
	file := filepath.Join(dir, "Real.cs")
	require.NoError(t, os.WriteFile(file, []byte("class Real {}"), 0644))
	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok)
	assert.Equal(t, file, path)
}

func TestWatcher_NewSubdirectoryIsWatched(t *testing.T) {
	dir := t.TempDir()
	changed := startWatcher(t, dir, Config{})

	sub := filepath.Join(dir, "Models")
	require.NoError(t, os.MkdirAll(sub, 0755))
	time.Sleep(100 * time.Millisecond)

	file := filepath.Join(sub, "Order.cs")
	require.NoError(t, os.WriteFile(file, []byte("class Order {}"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok)
	assert.Equal(t, file, path)
}

func TestWatcher_CustomExtensions(t *testing.T) {
	w, err := NewWatcher(Config{Extensions: []string{".CSX"}})
	require.NoError(t, err)
	defer w.Stop()

	assert.True(t, w.relevant("/p", "/p/Script.csx"))
	assert.False(t, w.relevant("/p", "/p/Point.cs"))
}

func TestWatcher_StopCleanup(t *testing.T) {
	w, err := NewWatcher(Config{})
	require.NoError(t, err)
	require.NoError(t, w.Watch(t.TempDir(), func(string) {}))

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop(), "second Stop is a no-op")
}

func TestWatcher_ReportsAfterLastWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Point.cs")
	require.NoError(t, os.WriteFile(file, []byte("class Point {}"), 0644))

	w, err := NewWatcher(Config{})
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	seen := make(chan string, 10)
	require.NoError(t, w.Watch(dir, func(path string) {
		data, _ := os.ReadFile(path)
		seen <- string(data)
	}))
	time.Sleep(50 * time.Millisecond)

	// Truncate, then write in steps faster than the debounce interval.
	require.NoError(t, os.WriteFile(file, nil, 0644))
	for _, content := range []string{"class Point", "class Point { int X; }"} {
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	}

	content, ok := waitForCallback(seen, 2*time.Second)
	require.True(t, ok, "expected callback after the burst")
	assert.Equal(t, "class Point { int X; }", content)

	_, again := waitForCallback(seen, 200*time.Millisecond)
	assert.False(t, again, "one burst is one report")
}

func TestWatcher_StopDropsPending(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(Config{})
	require.NoError(t, err)

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(dir, func(path string) { changed <- path }))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "User.cs"), []byte("class User {}"), 0644))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, w.Stop())

	_, ok := waitForCallback(changed, 200*time.Millisecond)
	assert.False(t, ok, "no report after Stop")
}
