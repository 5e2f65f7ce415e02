package ports

// Watcher reports saved, created and deleted source files below a project
// root so the app can re-render them.
//
// Filtering is the adapter's job: onChange only ever sees files with a watched
// extension outside build output and tool directories (bin, obj, .git,
// .pseudo, ...). Bursts of writes to one file arrive as a single call.
type Watcher interface {
	// Watch registers projectPath recursively, including directories created
	// later, and returns once monitoring has started. onChange receives
	// absolute paths and may run on any goroutine; it should hand work off
	// rather than block.
	Watch(projectPath string, onChange func(filePath string)) error

	// Stop releases the underlying watches. No onChange call starts after it
	// returns. Calling it again is a no-op.
	Stop() error
}
