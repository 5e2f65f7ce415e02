package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// StateDir is the per-project directory holding pseudo's own files.
const StateDir = ".pseudo"

// Paths locates the files pseudo keeps under <project>/.pseudo.
type Paths struct {
	Project     string // project root
	Root        string // <project>/.pseudo
	DB          string // snapshot database
	LogDir      string
	Log         string // JSON log, appended to by every command
	GrammarsDir string // shared-library grammars for lean builds
	GitIgnore   string // keeps the state directory out of version control
}

// NewPaths resolves the state paths of a project.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, StateDir)
	logDir := filepath.Join(root, "log")
	return &Paths{
		Project:     projectRoot,
		Root:        root,
		DB:          filepath.Join(root, "pseudo.db"),
		LogDir:      logDir,
		Log:         filepath.Join(logDir, "pseudo.log"),
		GrammarsDir: filepath.Join(root, "grammars"),
		GitIgnore:   filepath.Join(root, ".gitignore"),
	}
}

// EnsureDirs creates the state directories and, on first use, a .gitignore
// that ignores everything in them. An existing .gitignore is left alone.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.GrammarsDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(p.GitIgnore, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString("*\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
