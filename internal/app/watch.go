package app

import (
	"context"
	"fmt"
	"os"
)

// Watch parses the project, then re-renders every source file the watcher
// reports until ctx is done. onResult receives the project-relative file and
// its result; a deleted file, or one grown past MaxFileSize, yields an empty
// result. Marker bases resolve
// against the latest parse of every file.
func (a *App) Watch(ctx context.Context, onResult func(file string, res *Result)) error {
	if a.watcher == nil {
		return ErrNoWatcher
	}
	files, err := ScanFiles(a.scanOptions(), a.root)
	if err != nil {
		return err
	}
	cache, err := a.parseFiles(ctx, files)
	if err != nil {
		return err
	}

	changed := make(chan string, 64)
	err = a.watcher.Watch(a.root, func(path string) {
		select {
		case changed <- path:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", a.root, err)
	}
	defer a.watcher.Stop()
	a.log.Info("watching", "root", a.root, "files", len(cache))

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changed:
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				delete(cache, path)
				a.log.Debug("file removed", "file", a.rel(path))
				onResult(a.rel(path), &Result{})
				continue
			}
			if info.Size() > a.cfg.MaxFileSize {
				// Render skips it too, so it drops out like a deleted file.
				delete(cache, path)
				a.log.Debug("file too large", "file", a.rel(path), "size", info.Size())
				onResult(a.rel(path), &Result{})
				continue
			}
			hs, err := a.parseFile(path)
			if err != nil {
				a.log.Warn("parse failed", "file", a.rel(path), "err", err)
				continue
			}
			cache[path] = hs
			res := a.render(cache, []string{path})
			a.log.Info("file rendered", "file", a.rel(path), "count", len(res.Outputs))
			onResult(a.rel(path), res)
		}
	}
}
