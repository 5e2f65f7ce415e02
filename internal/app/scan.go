package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanOptions controls file discovery.
type ScanOptions struct {
	SkipDirs    []string
	MaxFileSize int64                  // files larger than this are skipped; <= 0 means no limit
	Supports    func(ext string) bool // nil means ".cs" only
}

// ScanFiles returns the absolute paths of the source files under each path, in
// sorted order without duplicates. A path may name a directory, walked
// recursively, or a single file, which is kept when its extension is supported
// even if it lives in a skipped directory.
func ScanFiles(opts ScanOptions, paths ...string) ([]string, error) {
	skip := make(map[string]bool, len(opts.SkipDirs))
	for _, d := range opts.SkipDirs {
		skip[d] = true
	}
	supports := opts.Supports
	if supports == nil {
		supports = func(ext string) bool { return ext == ".cs" }
	}
	keep := func(path string, size int64) bool {
		if opts.MaxFileSize > 0 && size > opts.MaxFileSize {
			return false
		}
		return supports(strings.ToLower(filepath.Ext(path)))
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", p, err)
		}
		if !info.IsDir() {
			if keep(abs, info.Size()) {
				add(abs)
			}
			continue
		}

		err = filepath.Walk(abs, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // skip unreadable
			}
			if info.IsDir() {
				if skip[info.Name()] && path != abs {
					return filepath.SkipDir
				}
				return nil
			}
			if keep(path, info.Size()) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
