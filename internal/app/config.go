package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFiles are the project config file names, in lookup order.
var ConfigFiles = []string{".pseudo.yaml", ".pseudo.yml", ".pseudo.json"}

// DefaultMarker is the interface a type must implement to be rendered.
const DefaultMarker = "IAnalyzable"

// defaultSkipDirs lists directories never scanned (matches the fsnotify watcher).
var defaultSkipDirs = []string{
	".git",
	".vs",
	".idea",
	".vscode",
	StateDir,
	"bin",
	"obj",
	"node_modules",
	"packages",
	"TestResults",
}

// Config is the project configuration: defaults merged with an optional
// .pseudo.yaml (or .pseudo.json) at the project root.
type Config struct {
	Marker       string   `yaml:"marker" json:"marker"`
	AllTypes     bool     `yaml:"allTypes" json:"allTypes"`
	VoidTypes    []string `yaml:"voidTypes" json:"voidTypes"`
	Workers      int      `yaml:"workers" json:"workers"`
	SkipDirs     []string `yaml:"skipDirs" json:"skipDirs"`
	MaxFileSize  int64    `yaml:"maxFileSize" json:"maxFileSize"`
	GrammarPaths []string `yaml:"grammarPaths,omitempty" json:"grammarPaths,omitempty"`
	LogLevel     string   `yaml:"logLevel" json:"logLevel"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Marker:      DefaultMarker,
		VoidTypes:   []string{"void"},
		Workers:     runtime.GOMAXPROCS(0),
		SkipDirs:    slices.Clone(defaultSkipDirs),
		MaxFileSize: 1 << 20,
		LogLevel:    "info",
	}
}

// LoadProjectConfig returns the defaults merged with the first config file
// found in root, and the path of that file ("" when there is none).
func LoadProjectConfig(root string) (*Config, string, error) {
	cfg := DefaultConfig()
	for _, name := range ConfigFiles {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := cfg.LoadFile(path); err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	return cfg, "", nil
}

// LoadFile loads configuration from a file (YAML or JSON based on extension)
// and merges it over c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			if err := json.Unmarshal(data, &loaded); err != nil {
				return fmt.Errorf("unable to parse config as YAML or JSON")
			}
		}
	}

	c.merge(&loaded)
	return c.Validate()
}

// merge overlays the values set in loaded. Skip directories and grammar paths
// extend the defaults; everything else replaces them.
func (c *Config) merge(loaded *Config) {
	if loaded.Marker != "" {
		c.Marker = loaded.Marker
	}
	if loaded.AllTypes {
		c.AllTypes = true
	}
	if loaded.VoidTypes != nil {
		c.VoidTypes = loaded.VoidTypes
	}
	if loaded.Workers > 0 {
		c.Workers = loaded.Workers
	}
	for _, d := range loaded.SkipDirs {
		if !slices.Contains(c.SkipDirs, d) {
			c.SkipDirs = append(c.SkipDirs, d)
		}
	}
	if loaded.MaxFileSize > 0 {
		c.MaxFileSize = loaded.MaxFileSize
	}
	c.GrammarPaths = append(c.GrammarPaths, loaded.GrammarPaths...)
	if loaded.LogLevel != "" {
		c.LogLevel = loaded.LogLevel
	}
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if slices.Contains(c.VoidTypes, "") {
		errs = append(errs, errors.New("voidTypes must not contain empty names"))
	}
	if c.MaxFileSize < 1 {
		errs = append(errs, fmt.Errorf("maxFileSize must be positive, got %d", c.MaxFileSize))
	}
	return errors.Join(errs...)
}

// EffectiveMarker returns the marker in force, "" when every type is kept.
func (c *Config) EffectiveMarker() string {
	if c.AllTypes {
		return ""
	}
	return c.Marker
}

// YAML renders the configuration the way a .pseudo.yaml would hold it.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
