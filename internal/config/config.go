package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/shinji-kodama/quick-proj/internal/scanner"
)

const (
	// AppName is the directory name used under the XDG config home.
	AppName = "quick-proj"

	// FileName is the name of the configuration file.
	FileName = "config.toml"

	// EnvPrefix is the prefix of environment variable overrides.
	EnvPrefix = "QUICK_PROJ"

	// PathEnv names the environment variable that relocates the config file.
	PathEnv = EnvPrefix + "_CONFIG"

	// DefaultEditor is used when neither the CLI, the config nor $EDITOR
	// names an editor.
	DefaultEditor = "code"

	// DefaultMaxDepth is the default traversal depth below each root.
	DefaultMaxDepth = 4
)

// ErrRootNotFound is returned when a root path to add does not exist or is
// not a directory.
var ErrRootNotFound = errors.New("root path not found")

// Config is the persisted application configuration.
type Config struct {
	// RootPaths are the canonical absolute search roots, in insertion order.
	RootPaths []string `mapstructure:"root_paths" toml:"root_paths"`

	// Editor is the preferred editor command. Empty means unset.
	Editor string `mapstructure:"editor" toml:"editor,omitempty"`

	// MaxDepth bounds traversal depth below each root.
	MaxDepth int `mapstructure:"max_depth" toml:"max_depth"`

	// ProjectMarkers are the file or directory names identifying a project,
	// in priority order.
	ProjectMarkers []string `mapstructure:"project_markers" toml:"project_markers"`

	// ExcludeDirs are directory names never descended into.
	ExcludeDirs []string `mapstructure:"exclude_dirs" toml:"exclude_dirs"`

	// LogFile enables the rotated JSON debug log when set.
	LogFile string `mapstructure:"log_file" toml:"log_file,omitempty"`
}

// DefaultProjectMarkers returns the built-in marker list.
func DefaultProjectMarkers() []string {
	return []string{
		".git",
		"Cargo.toml",
		"package.json",
		"go.mod",
		"pyproject.toml",
		"setup.py",
		"pom.xml",
		"build.gradle",
		"Makefile",
		"CMakeLists.txt",
		"composer.json",
		"Gemfile",
		"mix.exs",
		"deno.json",
	}
}

// DefaultExcludeDirs returns the built-in list of excluded directory names.
func DefaultExcludeDirs() []string {
	return []string{
		"node_modules",
		"target",
		".venv",
		"venv",
		"__pycache__",
		".cache",
		"dist",
		"build",
		".next",
		".nuxt",
		"vendor",
	}
}

// DefaultConfig returns a configuration with no roots and built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		RootPaths:      []string{},
		MaxDepth:       DefaultMaxDepth,
		ProjectMarkers: DefaultProjectMarkers(),
		ExcludeDirs:    DefaultExcludeDirs(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/quick-proj/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, FileName)
}

// ResolvePath picks the config file location: an explicit flag value wins,
// then QUICK_PROJ_CONFIG, then DefaultPath.
func ResolvePath(flagValue string, lookupEnv func(string) (string, bool)) string {
	if flagValue != "" {
		return flagValue
	}
	if lookupEnv != nil {
		if v, ok := lookupEnv(PathEnv); ok && v != "" {
			return v
		}
	}
	return DefaultPath()
}

// Load reads the configuration at path, applying QUICK_PROJ_ environment
// overrides on top of the file and the defaults.
func Load(path string) (*Config, error) {
	return load(path, true)
}

// load builds a viper instance for path. withEnv controls whether
// environment overrides are applied.
func load(path string, withEnv bool) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	defaults := DefaultConfig()
	v.SetDefault("root_paths", defaults.RootPaths)
	v.SetDefault("editor", defaults.Editor)
	v.SetDefault("max_depth", defaults.MaxDepth)
	v.SetDefault("project_markers", defaults.ProjectMarkers)
	v.SetDefault("exclude_dirs", defaults.ExcludeDirs)
	v.SetDefault("log_file", defaults.LogFile)

	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to access config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	if cfg.RootPaths == nil {
		cfg.RootPaths = []string{}
	}
	return &cfg, nil
}

// Save writes c to path under the config lock.
func (c *Config) Save(path string) error {
	unlock, err := lock(path)
	if err != nil {
		return err
	}
	defer unlock()

	return c.write(path)
}

// Update loads the file at path (without environment overrides), applies fn
// and saves the result, all under the config lock. If fn returns an error
// nothing is written. The updated configuration is returned.
func Update(path string, fn func(*Config) error) (*Config, error) {
	unlock, err := lock(path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	cfg, err := load(path, false)
	if err != nil {
		return nil, err
	}
	if err := fn(cfg); err != nil {
		return nil, err
	}
	if err := cfg.write(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// lock takes the exclusive lock guarding path and returns its release
// function.
func lock(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	fl := flock.New(path + ".lock")
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("failed to lock config file: %w", err)
	}
	return func() { _ = fl.Unlock() }, nil
}

// write marshals c and replaces path atomically. The caller holds the lock.
func (c *Config) write(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+FileName+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary config file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the scan parameters. Errors wrap scanner.ErrInvalidConfig.
func (c *Config) Validate() error {
	return c.ScanConfig().Validate()
}

// ScanConfig converts c into the scanner's configuration.
func (c *Config) ScanConfig() scanner.Config {
	return scanner.Config{
		Markers:     slices.Clone(c.ProjectMarkers),
		ExcludeDirs: slices.Clone(c.ExcludeDirs),
		MaxDepth:    c.MaxDepth,
	}
}

// AddRootPath expands, canonicalises and appends path. It returns the
// canonical path and whether it was newly added; adding a root twice is a
// no-op. A path that does not exist or is not a directory yields an error
// wrapping ErrRootNotFound.
func (c *Config) AddRootPath(path string) (string, bool, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", false, err
	}

	canonical, err := canonicalize(expanded)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s", ErrRootNotFound, expanded)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s", ErrRootNotFound, expanded)
	}
	if !info.IsDir() {
		return "", false, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, expanded)
	}

	if slices.Contains(c.RootPaths, canonical) {
		return canonical, false, nil
	}
	c.RootPaths = append(c.RootPaths, canonical)
	return canonical, true, nil
}

// RemoveRootPath removes path from the roots and reports whether it was
// present. The path is canonicalised when it still exists, so a root that
// was deleted from disk can be removed by its recorded spelling.
func (c *Config) RemoveRootPath(path string) (bool, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return false, err
	}

	target, err := canonicalize(expanded)
	if err != nil {
		target, err = filepath.Abs(expanded)
		if err != nil {
			return false, fmt.Errorf("failed to resolve %s: %w", expanded, err)
		}
	}

	before := len(c.RootPaths)
	c.RootPaths = slices.DeleteFunc(c.RootPaths, func(p string) bool {
		return p == target
	})
	return len(c.RootPaths) < before, nil
}

// SetEditor records the preferred editor.
func (c *Config) SetEditor(editor string) {
	c.Editor = strings.TrimSpace(editor)
}

// ResolveEditor picks the editor to launch: the CLI value, then the config,
// then $EDITOR, then DefaultEditor.
func (c *Config) ResolveEditor(cliEditor string, lookupEnv func(string) (string, bool)) string {
	if cliEditor != "" {
		return cliEditor
	}
	if c.Editor != "" {
		return c.Editor
	}
	if lookupEnv != nil {
		if v, ok := lookupEnv("EDITOR"); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return DefaultEditor
}

// ExpandPath replaces a leading "~" with the user's home directory.
// "~user" forms are left untouched.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}

	home := xdg.Home
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// canonicalize returns the absolute, symlink-resolved form of path.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
