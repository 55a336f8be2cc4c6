package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/tristendillon/pydeploy/core/exclude"
	"github.com/tristendillon/pydeploy/core/logger"
	"github.com/tristendillon/pydeploy/core/models"
	"gopkg.in/yaml.v3"
)

const (
	FileName = "pydeploy.yaml"

	EnvTool    = "PYDEPLOY_TOOL"
	EnvBaseDir = "PYDEPLOY_BASE_DIR"
	EnvVerbose = "PYDEPLOY_VERBOSE"
)

type Config struct {
	// Tool overrides packaging tool discovery when set.
	Tool string `yaml:"tool"`
	// BaseDir is where the bundled libs/ directory is looked up. Empty means
	// the working directory.
	BaseDir string `yaml:"base_dir"`
	Verbose bool   `yaml:"verbose"`
	Build   Build  `yaml:"build"`
	Watch   Watch  `yaml:"watch"`

	// Path of the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

type Build struct {
	Name          string              `yaml:"name"`
	Icon          string              `yaml:"icon"`
	Clean         bool                `yaml:"clean"`
	OneFile       bool                `yaml:"onefile"`
	NoConsole     bool                `yaml:"noconsole"`
	GUI           models.GUIFramework `yaml:"gui"`
	HiddenImports []string            `yaml:"hidden_imports"`
	Excludes      []string            `yaml:"excludes"`
	AutoExclude   bool                `yaml:"auto_exclude"`
}

type Watch struct {
	Debounce time.Duration `yaml:"debounce"`
	Build    bool          `yaml:"build"`
}

func Default() *Config {
	return &Config{
		Build: Build{
			Clean: true,
		},
		Watch: Watch{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Load reads pydeploy.yaml from the working directory, then applies .env and
// environment overrides.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working dir: %w", err)
	}
	return LoadDir(wd)
}

func LoadDir(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to load .env: %v", err)
	}

	cfg, err := LoadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a single config file. A missing file yields Default().
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Debug("No config file found, using default config")
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.Path = path
	logger.Debug("Config file found: %s", path)
	logger.Debug("Config: %+v", *cfg)
	return cfg, nil
}

// Parse decodes YAML on top of the defaults, so omitted keys keep their
// default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = Default().Watch.Debounce
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvTool); v != "" {
		c.Tool = v
	}
	if v := os.Getenv(EnvBaseDir); v != "" {
		c.BaseDir = v
	}
	if v := os.Getenv(EnvVerbose); v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvVerbose, v, err)
		}
		c.Verbose = verbose
	}
	return nil
}

// ResolveBaseDir returns BaseDir, or the working directory when unset.
func (c *Config) ResolveBaseDir() string {
	if c.BaseDir != "" {
		return c.BaseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// BuildOptions returns the configured defaults for source. Exclusions that
// name catalog entries become selections; the rest are custom entries.
func (c *Config) BuildOptions(source string) models.BuildOptions {
	opts := models.BuildOptions{
		SourceFile:    source,
		CleanBuild:    c.Build.Clean,
		OneFile:       c.Build.OneFile,
		NoConsole:     c.Build.NoConsole,
		OutputName:    c.Build.Name,
		IconPath:      c.Build.Icon,
		GUIFramework:  c.Build.GUI,
		HiddenImports: append([]string(nil), c.Build.HiddenImports...),
	}
	for _, name := range c.Build.Excludes {
		if exclude.Contains(name) {
			opts.ExcludeSelections = append(opts.ExcludeSelections, name)
		} else {
			opts.CustomExcludes = append(opts.CustomExcludes, name)
		}
	}
	return opts.WithDefaults()
}
