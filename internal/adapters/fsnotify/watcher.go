// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It recursively watches a project directory, reports only source files with a
// watched extension, skips build output and tool directories, and debounces
// rapid events: a file is reported once it has been quiet for a short
// interval, so an editor that truncates and then writes is seen after the
// final write.
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/corey/pseudo/internal/ports"
)

// Directories always ignored when watching.
var ignoreDirs = map[string]bool{
	".git":         true,
	".vs":          true,
	".idea":        true,
	".vscode":      true,
	".pseudo":      true,
	"bin":          true,
	"obj":          true,
	"node_modules": true,
	"packages":     true,
	"TestResults":  true,
}

const debounceInterval = 50 * time.Millisecond

// Config selects what the watcher reports.
type Config struct {
	// Extensions lists the file extensions (with dot) that trigger onChange.
	// Empty means ".cs".
	Extensions []string
	// SkipDirs adds directory names to the built-in ignore list.
	SkipDirs []string
}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw   *fsnotify.Watcher
	exts map[string]bool
	skip map[string]bool
	done chan struct{}

	mu      sync.Mutex
	stopped bool
	timers  map[string]*time.Timer // pending debounced reports per path
}

var _ ports.Watcher = (*Watcher)(nil)

// NewWatcher creates a new file system watcher.
func NewWatcher(cfg Config) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:     fw,
		exts:   make(map[string]bool),
		skip:   make(map[string]bool, len(ignoreDirs)+len(cfg.SkipDirs)),
		done:   make(chan struct{}),
		timers: make(map[string]*time.Timer),
	}
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = []string{".cs"}
	}
	for _, ext := range exts {
		w.exts[strings.ToLower(ext)] = true
	}
	for name := range ignoreDirs {
		w.skip[name] = true
	}
	for _, name := range cfg.SkipDirs {
		w.skip[name] = true
	}
	return w, nil
}

// Watch starts monitoring projectPath recursively.
// onChange is called with the absolute path of each changed source file,
// including removed and renamed ones.
func (w *Watcher) Watch(projectPath string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return err
	}

	// Walk and add all directories
	err = filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if w.skip[info.Name()] && path != absPath {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := event.Name

				// New directories join the watch list
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(path); err == nil && info.IsDir() {
						if !w.skip[info.Name()] {
							w.fw.Add(path)
						}
						continue
					}
				}

				if !w.relevant(absPath, path) {
					continue
				}

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					w.schedule(path, onChange)
				}

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed; fsnotify recovers automatically

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// schedule reports path after debounceInterval without further events for it.
// A new event restarts the wait.
func (w *Watcher) schedule(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(debounceInterval)
		return
	}
	w.timers[path] = time.AfterFunc(debounceInterval, func() { w.fire(path, onChange) })
}

// fire runs under mu so Stop cannot return while onChange is running.
func (w *Watcher) fire(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	delete(w.timers, path)
	onChange(path)
}

// Stop ends monitoring and releases all resources. Pending reports are
// dropped. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	close(w.done)
	return w.fw.Close()
}

// relevant reports whether path is a watched source file outside any ignored
// directory below root.
func (w *Watcher) relevant(root, path string) bool {
	if !w.exts[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.Dir(rel), string(filepath.Separator)) {
		if w.skip[part] {
			return false
		}
	}
	return true
}
