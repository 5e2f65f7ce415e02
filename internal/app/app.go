// Package app wires the parser, converter, snapshot store and watcher into the
// operations the CLI exposes: render, snapshot, check and watch.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/corey/pseudo/internal/domain/convert"
	"github.com/corey/pseudo/internal/domain/extractor"
	"github.com/corey/pseudo/internal/logging"
	"github.com/corey/pseudo/internal/ports"
)

var (
	// ErrNoParser is returned when the binary carries no C# grammar.
	ErrNoParser = errors.New("no C# parser available: binary built without tree-sitter")
	// ErrNoStore is returned by snapshot operations on an App without a store.
	ErrNoStore = errors.New("no snapshot store configured")
	// ErrNoWatcher is returned by Watch on an App without a watcher.
	ErrNoWatcher = errors.New("no file watcher configured")
)

// Options configures an App. Store and Watcher are only needed by the
// operations that use them.
type Options struct {
	Root    string
	Config  *Config
	Parser  ports.Parser
	Store   ports.SnapshotStore
	Watcher ports.Watcher
	Logger  *slog.Logger
}

// App renders the C# types of one project.
type App struct {
	root      string
	projectID string
	cfg       *Config
	parser    ports.Parser
	store     ports.SnapshotStore
	watcher   ports.Watcher
	log       *slog.Logger
	conv      *convert.Converter
}

// New creates an App rooted at opts.Root. A nil Config means DefaultConfig.
func New(opts Options) (*App, error) {
	if opts.Parser == nil {
		return nil, ErrNoParser
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Workers < 1 {
		c := *cfg
		c.Workers = runtime.GOMAXPROCS(0)
		cfg = &c
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &App{
		root:      root,
		projectID: filepath.Base(root),
		cfg:       cfg,
		parser:    opts.Parser,
		store:     opts.Store,
		watcher:   opts.Watcher,
		log:       logger,
		conv:      convert.New(extractor.New(extractor.Config{VoidTypes: cfg.VoidTypes})),
	}, nil
}

// Root returns the absolute project root.
func (a *App) Root() string { return a.root }

// ProjectID returns the snapshot namespace of the project.
func (a *App) ProjectID() string { return a.projectID }

// Close releases the snapshot store and stops the watcher.
func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Stop())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}

// Output is the pseudo-code of one type.
type Output struct {
	Key  string // "file#Outer.Type", see ports.SnapshotKey
	File string // project-relative, slash separated
	Type string
	Text string
}

// Failure is one type that could not be rendered.
type Failure struct {
	File     string
	Type     string
	Location string
	Err      error
}

// Reason returns the failure message without the type and location prefix.
func (f Failure) Reason() string {
	var ee *extractor.ExtractionError
	if errors.As(f.Err, &ee) {
		if ee.Member != "" {
			return ee.Member + ": " + ee.Err.Error()
		}
		return ee.Err.Error()
	}
	return f.Err.Error()
}

// Result is the outcome of a render: files in sorted order, types in source
// order within a file.
type Result struct {
	Outputs  []Output
	Failures []Failure
}

// Texts returns the rendered texts in order.
func (r *Result) Texts() []string {
	out := make([]string, len(r.Outputs))
	for i, o := range r.Outputs {
		out[i] = o.Text
	}
	return out
}

// Render converts the types declared in paths (files or directories, the
// project root when empty). Marker bases resolve across the whole project, so
// a type in a rendered file may implement the marker through a base declared
// elsewhere.
func (a *App) Render(ctx context.Context, paths ...string) (*Result, error) {
	if len(paths) == 0 {
		paths = []string{a.root}
	}
	opts := a.scanOptions()
	targets, err := ScanFiles(opts, paths...)
	if err != nil {
		return nil, err
	}

	files := targets
	if a.cfg.EffectiveMarker() != "" {
		project, err := ScanFiles(opts, a.root)
		if err != nil {
			return nil, err
		}
		files = mergeSorted(project, targets)
	}

	parsed, err := a.parseFiles(ctx, files)
	if err != nil {
		return nil, err
	}
	return a.render(parsed, targets), nil
}

func (a *App) scanOptions() ScanOptions {
	return ScanOptions{
		SkipDirs:    a.cfg.SkipDirs,
		MaxFileSize: a.cfg.MaxFileSize,
		Supports:    a.parser.SupportsExtension,
	}
}

// parseFiles parses files concurrently. An unreadable file is logged and
// skipped.
func (a *App) parseFiles(ctx context.Context, files []string) (map[string][]ports.TypeHandle, error) {
	handles := make([][]ports.TypeHandle, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			hs, err := a.parseFile(file)
			if err != nil {
				return err
			}
			handles[i] = hs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	parsed := make(map[string][]ports.TypeHandle, len(files))
	for i, file := range files {
		parsed[file] = handles[i]
	}
	return parsed, nil
}

func (a *App) parseFile(file string) ([]ports.TypeHandle, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		a.log.Warn("skip unreadable file", "file", file, "err", err)
		return nil, nil
	}
	hs, err := a.parser.ParseHandles(a.rel(file), src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", a.rel(file), err)
	}
	return hs, nil
}

// render applies the marker over every parsed handle and converts those
// declared in targets.
func (a *App) render(parsed map[string][]ports.TypeHandle, targets []string) *Result {
	files := make([]string, 0, len(parsed))
	for f := range parsed {
		files = append(files, f)
	}
	slices.Sort(files)

	var (
		all    []ports.TypeHandle
		fileOf []string
	)
	for _, f := range files {
		for _, h := range parsed[f] {
			all = append(all, h)
			fileOf = append(fileOf, f)
		}
	}

	want := make(map[string]bool, len(targets))
	for _, t := range targets {
		want[t] = true
	}
	var (
		selected []ports.TypeHandle
		selFile  []string
	)
	for _, i := range implementing(all, a.cfg.EffectiveMarker()) {
		if want[fileOf[i]] {
			selected = append(selected, all[i])
			selFile = append(selFile, a.rel(fileOf[i]))
		}
	}

	// Keys count same-named types over the whole selection, so a failing
	// duplicate does not shift the key of the next one.
	keys := make([]string, len(selected))
	seen := make(map[string]int)
	for i, h := range selected {
		name := qualifiedName(h)
		keys[i] = ports.SnapshotKey(selFile[i], name, seen[selFile[i]+"#"+name])
		seen[selFile[i]+"#"+name]++
	}

	batch := a.conv.Batch(selected, a.cfg.Workers)
	res := &Result{}
	for _, s := range batch.Successes {
		res.Outputs = append(res.Outputs, Output{
			Key:  keys[s.Index],
			File: selFile[s.Index],
			Type: s.Name,
			Text: s.Text,
		})
	}
	for _, f := range batch.Failures {
		fail := Failure{File: selFile[f.Index], Type: f.Name, Err: f.Err}
		if loc, ok := selected[f.Index].(ports.Locator); ok {
			fail.Location = loc.Location()
		}
		a.log.Warn("type skipped", "type", fail.Type, "location", fail.Location, "err", fail.Err)
		res.Failures = append(res.Failures, fail)
	}
	a.log.Debug("render", "files", len(targets), "count", len(res.Outputs), "failed", len(res.Failures))
	return res
}

func qualifiedName(h ports.TypeHandle) string {
	if q, ok := h.(ports.Qualifier); ok {
		return q.QualifiedName()
	}
	return h.Name()
}

// rel returns file relative to the project root with forward slashes, or the
// cleaned path when it lies outside the root.
func (a *App) rel(file string) string {
	r, err := filepath.Rel(a.root, file)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(filepath.Clean(file))
	}
	return filepath.ToSlash(r)
}

// mergeSorted merges two sorted, duplicate-free lists.
func mergeSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
