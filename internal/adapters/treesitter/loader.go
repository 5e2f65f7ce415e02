package treesitter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// GrammarDirEnv names a directory searched before the default grammar paths.
const GrammarDirEnv = "PSEUDO_GRAMMARS"

// DynamicLoader resolves grammars that are not compiled in from shared
// libraries, opened with purego so lean builds need no C toolchain. A grammar
// is opened at most once per loader.
type DynamicLoader struct {
	dirs []string

	mu    sync.Mutex
	langs map[string]*tree_sitter.Language
	libs  []uintptr // dlopen handles, kept for the loader's lifetime
}

// NewDynamicLoader creates a loader searching dirs in order.
func NewDynamicLoader(dirs []string) *DynamicLoader {
	return &DynamicLoader{
		dirs:  dirs,
		langs: make(map[string]*tree_sitter.Language),
	}
}

// DefaultGrammarPaths returns $PSEUDO_GRAMMARS when set, then the project's
// .pseudo/grammars, then ~/.pseudo/grammars.
func DefaultGrammarPaths(projectRoot string) []string {
	var dirs []string
	if env := os.Getenv(GrammarDirEnv); env != "" {
		dirs = append(dirs, env)
	}
	if projectRoot != "" {
		dirs = append(dirs, filepath.Join(projectRoot, ".pseudo", "grammars"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".pseudo", "grammars"))
	}
	return dirs
}

// LibExtension returns the shared library extension for the current platform.
func LibExtension() string {
	if runtime.GOOS == "darwin" {
		return ".dylib"
	}
	return ".so"
}

// CSymbolName returns the entry point a grammar library exports:
// tree_sitter_<name> with dashes turned into underscores.
func CSymbolName(lang string) string {
	return "tree_sitter_" + strings.ReplaceAll(lang, "-", "_")
}

// libNames lists the file names accepted for lang, in lookup order: the
// underscore spelling, the dashed spelling, and the name the tree-sitter CLI
// gives a built grammar (libtree-sitter-c-sharp.so).
func libNames(lang string) []string {
	ext := LibExtension()
	dashed := strings.ReplaceAll(lang, "_", "-")
	names := []string{lang + ext}
	if dashed != lang {
		names = append(names, dashed+ext)
	}
	return append(names, "libtree-sitter-"+dashed+ext)
}

// GrammarPath returns the first library for lang found in the search
// directories, or "".
func (dl *DynamicLoader) GrammarPath(lang string) string {
	for _, dir := range dl.dirs {
		for _, name := range libNames(lang) {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// LoadGrammar opens the library for lang and returns its language.
func (dl *DynamicLoader) LoadGrammar(lang string) (*tree_sitter.Language, error) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	if l, ok := dl.langs[lang]; ok {
		return l, nil
	}

	path := dl.GrammarPath(lang)
	if path == "" {
		return nil, fmt.Errorf("grammar %s: no %s in search paths %v", lang, strings.Join(libNames(lang), ", "), dl.dirs)
	}
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("grammar %s: dlopen %s: %w", lang, path, err)
	}
	dl.libs = append(dl.libs, lib)

	sym := CSymbolName(lang)
	addr, err := purego.Dlsym(lib, sym)
	if err != nil {
		return nil, fmt.Errorf("grammar %s: %s has no symbol %s: %w", lang, path, sym, err)
	}
	var entry func() uintptr
	purego.RegisterFunc(&entry, addr)
	ptr := entry()
	if ptr == 0 {
		return nil, fmt.Errorf("grammar %s: %s() returned null", lang, sym)
	}

	// The TSLanguage is static data inside the library, outside the Go heap.
	l := tree_sitter.NewLanguage(*(*unsafe.Pointer)(unsafe.Pointer(&ptr)))
	dl.langs[lang] = l
	return l, nil
}

// Close drops the loaded languages. Libraries stay mapped: trees built from
// them may still be referenced.
func (dl *DynamicLoader) Close() {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.libs = nil
	dl.langs = make(map[string]*tree_sitter.Language)
}

// SearchPaths returns the directories searched, in order.
func (dl *DynamicLoader) SearchPaths() []string {
	return dl.dirs
}
