package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/pydeploy/core/models"
)

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("build:\n  onefile: true\n  gui: pyqt5\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Build.OneFile)
	assert.True(t, cfg.Build.Clean)
	assert.Equal(t, models.GUIPyQt5, cfg.Build.GUI)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
}

func TestParseFull(t *testing.T) {
	data := []byte(`
tool: /opt/pyinstaller
base_dir: /opt/app
build:
  name: Game
  icon: icon.ico
  clean: false
  noconsole: true
  hidden_imports: [requests, yaml]
  excludes: [numpy, mylib]
watch:
  debounce: 2s
  build: true
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "/opt/pyinstaller", cfg.Tool)
	assert.Equal(t, "/opt/app", cfg.ResolveBaseDir())
	assert.False(t, cfg.Build.Clean)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.True(t, cfg.Watch.Build)

	opts := cfg.BuildOptions("/src/game.py")
	assert.Equal(t, "Game", opts.OutputName)
	assert.False(t, opts.CleanBuild)
	assert.True(t, opts.NoConsole)
	assert.Equal(t, []string{"requests", "yaml"}, opts.HiddenImports)
	assert.Equal(t, []string{"numpy"}, opts.ExcludeSelections)
	assert.Equal(t, []string{"mylib"}, opts.CustomExcludes)
}

func TestParseRejectsUnknownFramework(t *testing.T) {
	_, err := Parse([]byte("build:\n  gui: swing\n"))
	assert.Error(t, err)
}

func TestBuildOptionsDefaultName(t *testing.T) {
	opts := Default().BuildOptions("/src/tool.py")
	assert.Equal(t, "tool", opts.OutputName)
	assert.True(t, opts.CleanBuild)
}

func TestLoadDirMissingFile(t *testing.T) {
	t.Setenv(EnvTool, "")
	t.Setenv(EnvBaseDir, "")
	t.Setenv(EnvVerbose, "")

	cfg, err := LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDirEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("tool: from-file\nverbose: false\n"), 0o644))
	t.Setenv(EnvTool, "from-env")
	t.Setenv(EnvVerbose, "true")
	t.Setenv(EnvBaseDir, "")

	cfg, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Tool)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, filepath.Join(dir, FileName), cfg.Path)
}

func TestLoadDirDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PYDEPLOY_BASE_DIR=/from/dotenv\n"), 0o644))
	prev, had := os.LookupEnv(EnvBaseDir)
	require.NoError(t, os.Unsetenv(EnvBaseDir))
	t.Cleanup(func() {
		if had {
			os.Setenv(EnvBaseDir, prev)
		} else {
			os.Unsetenv(EnvBaseDir)
		}
	})

	cfg, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "/from/dotenv", cfg.BaseDir)
}

func TestLoadDirInvalidVerbose(t *testing.T) {
	t.Setenv(EnvVerbose, "sometimes")

	_, err := LoadDir(t.TempDir())
	assert.Error(t, err)
}
