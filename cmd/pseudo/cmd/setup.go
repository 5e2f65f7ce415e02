package cmd

import (
	"fmt"
	"log/slog"

	"github.com/corey/pseudo/internal/adapters/bbolt"
	"github.com/corey/pseudo/internal/adapters/fsnotify"
	"github.com/corey/pseudo/internal/app"
	"github.com/corey/pseudo/internal/logging"
	"github.com/corey/pseudo/internal/ports"
)

// env is the resolved project context every command starts from.
type env struct {
	root    string
	paths   *app.Paths
	cfg     *app.Config
	cfgFile string // "" when running on defaults
	log     *slog.Logger
	closers []func()
}

// loadEnv resolves the project root, loads its configuration and opens the
// log file. Call close when done.
func loadEnv() (*env, error) {
	root := projectRoot()
	cfg, cfgFile, err := app.LoadProjectConfig(root)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	paths := app.NewPaths(root)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create %s: %w", paths.Root, err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if verbose {
		level = slog.LevelDebug
	}
	logger, cleanup, err := logging.Setup(paths.Log, level, verbose)
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}

	return &env{
		root:    root,
		paths:   paths,
		cfg:     cfg,
		cfgFile: cfgFile,
		log:     logger,
		closers: []func(){cleanup},
	}, nil
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

type appNeeds struct {
	store   bool
	watcher bool
}

// openApp builds the application with the adapters the command needs.
func (e *env) openApp(needs appNeeds) (*app.App, error) {
	parser, closeParser := newParser(e.root, e.cfg.GrammarPaths)
	if parser == nil {
		return nil, app.ErrNoParser
	}
	e.closers = append(e.closers, closeParser)

	opts := app.Options{
		Root:   e.root,
		Config: e.cfg,
		Parser: parser,
		Logger: e.log,
	}
	if needs.store {
		store, err := bbolt.NewStore(e.paths.DB)
		if err != nil {
			if isDBLockError(err) {
				return nil, fmt.Errorf("%w\n%s", err, diagnoseDBLock(e.paths.DB))
			}
			return nil, fmt.Errorf("open store: %w", err)
		}
		opts.Store = store
	}
	if needs.watcher {
		w, err := fsnotify.NewWatcher(fsnotify.Config{
			Extensions: sourceExtensions(parser),
			SkipDirs:   e.cfg.SkipDirs,
		})
		if err != nil {
			if opts.Store != nil {
				opts.Store.Close()
			}
			return nil, fmt.Errorf("watcher: %w", err)
		}
		opts.Watcher = w
	}

	a, err := app.New(opts)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, func() {
		if err := a.Close(); err != nil {
			e.log.Warn("close", "err", err)
		}
	})
	return a, nil
}

// sourceExtensions lists the file extensions the parser accepts.
func sourceExtensions(p ports.Parser) []string {
	var exts []string
	for _, ext := range []string{".cs", ".csx"} {
		if p.SupportsExtension(ext) {
			exts = append(exts, ext)
		}
	}
	return exts
}
