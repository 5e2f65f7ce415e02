package app

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "IAnalyzable", cfg.Marker)
	assert.False(t, cfg.AllTypes)
	assert.Equal(t, []string{"void"}, cfg.VoidTypes)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Workers)
	assert.Contains(t, cfg.SkipDirs, "obj")
	assert.Contains(t, cfg.SkipDirs, ".pseudo")
	assert.Equal(t, int64(1<<20), cfg.MaxFileSize)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "IAnalyzable", cfg.EffectiveMarker())
}

func TestLoadProjectConfig_None(t *testing.T) {
	cfg, path, err := LoadProjectConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "", path)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadProjectConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	content := `marker: IRenderable
voidTypes: [void, Task]
workers: 3
skipDirs: [Generated, obj]
logLevel: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pseudo.yaml"), []byte(content), 0644))

	cfg, path, err := LoadProjectConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".pseudo.yaml"), path)
	assert.Equal(t, "IRenderable", cfg.Marker)
	assert.Equal(t, []string{"void", "Task"}, cfg.VoidTypes)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Contains(t, cfg.SkipDirs, "Generated")
	assert.Contains(t, cfg.SkipDirs, ".git", "skip dirs extend the defaults")

	count := 0
	for _, d := range cfg.SkipDirs {
		if d == "obj" {
			count++
		}
	}
	assert.Equal(t, 1, count, "duplicates are not added twice")
}

func TestLoadProjectConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pseudo.json"), []byte(`{"allTypes": true, "maxFileSize": 2048}`), 0644))

	cfg, _, err := LoadProjectConfig(dir)
	require.NoError(t, err)
	assert.True(t, cfg.AllTypes)
	assert.Equal(t, int64(2048), cfg.MaxFileSize)
	assert.Equal(t, "", cfg.EffectiveMarker())
	assert.Equal(t, "IAnalyzable", cfg.Marker, "unset keys keep their defaults")
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, ".pseudo.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("marker: [unclosed"), 0644))
	err := DefaultConfig().LoadFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing YAML config")

	empty := filepath.Join(dir, "empty-void.yaml")
	require.NoError(t, os.WriteFile(empty, []byte(`voidTypes: [""]`), 0644))
	err = DefaultConfig().LoadFile(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "voidTypes")

	assert.Error(t, DefaultConfig().LoadFile(filepath.Join(dir, "missing.yaml")))
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Marker = "IShape"
	out, err := cfg.YAML()
	require.NoError(t, err)

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, *cfg, back)
}
