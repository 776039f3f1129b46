package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/quick-proj/internal/scanner"
)

// configPath returns a config file location inside a fresh temp directory.
func configPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), AppName, FileName)
}

// canonicalDir creates a directory and returns its symlink-resolved path.
func canonicalDir(t *testing.T, parts ...string) string {
	t.Helper()

	dir := filepath.Join(append([]string{t.TempDir()}, parts...)...)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	return resolved
}

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// TestLoad_MissingFileReturnsDefaults verifies the first-run behaviour.
func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(configPath(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 4, cfg.MaxDepth)
	assert.Len(t, cfg.ProjectMarkers, 14)
	assert.Len(t, cfg.ExcludeDirs, 11)
	assert.Empty(t, cfg.RootPaths)
}

// TestLoad_PartialFileKeepsDefaults verifies that keys missing from the file
// fall back to their defaults.
func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := configPath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`
root_paths = ["/home/user/src"]
editor = "nvim"
max_depth = 2
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/home/user/src"}, cfg.RootPaths)
	assert.Equal(t, "nvim", cfg.Editor)
	assert.Equal(t, 2, cfg.MaxDepth)
	assert.Equal(t, DefaultProjectMarkers(), cfg.ProjectMarkers)
	assert.Equal(t, DefaultExcludeDirs(), cfg.ExcludeDirs)
}

// TestLoad_InvalidFile verifies that malformed TOML is reported.
func TestLoad_InvalidFile(t *testing.T) {
	path := configPath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("max_depth = = 3\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

// TestLoad_EnvOverrides verifies QUICK_PROJ_ environment overrides.
func TestLoad_EnvOverrides(t *testing.T) {
	path := configPath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("max_depth = 2\neditor = \"vim\"\n"), 0o644))

	t.Setenv("QUICK_PROJ_MAX_DEPTH", "7")
	t.Setenv("QUICK_PROJ_EDITOR", "zed")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.MaxDepth)
	assert.Equal(t, "zed", cfg.Editor)
}

// TestSave_RoundTrip verifies that a saved configuration loads back equal.
func TestSave_RoundTrip(t *testing.T) {
	path := configPath(t)

	cfg := DefaultConfig()
	cfg.RootPaths = []string{"/a", "/b"}
	cfg.Editor = "cursor"
	cfg.MaxDepth = 6
	cfg.LogFile = "/tmp/quick-proj.log"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	// Only the config and its lock file remain; the temp file was renamed.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{FileName, FileName + ".lock"}, names)
}

// TestUpdate_DoesNotPersistEnv verifies that environment overrides are not
// written back by a read-modify-write.
func TestUpdate_DoesNotPersistEnv(t *testing.T) {
	path := configPath(t)
	t.Setenv("QUICK_PROJ_MAX_DEPTH", "9")

	_, err := Update(path, func(c *Config) error {
		c.SetEditor("nvim")
		return nil
	})
	require.NoError(t, err)

	stored, err := load(path, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxDepth, stored.MaxDepth)
	assert.Equal(t, "nvim", stored.Editor)
}

// TestUpdate_ErrorSkipsWrite verifies that a failing mutation leaves the file
// untouched.
func TestUpdate_ErrorSkipsWrite(t *testing.T) {
	path := configPath(t)

	_, err := Update(path, func(c *Config) error {
		_, _, err := c.AddRootPath(filepath.Join(t.TempDir(), "missing"))
		return err
	})
	require.ErrorIs(t, err, ErrRootNotFound)

	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

// TestUpdate_ConcurrentAddsKeepAllRoots verifies that the lock serialises
// concurrent read-modify-write cycles.
func TestUpdate_ConcurrentAddsKeepAllRoots(t *testing.T) {
	path := configPath(t)

	const n = 8
	roots := make([]string, n)
	for i := range roots {
		roots[i] = canonicalDir(t, "root")
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range roots {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = Update(path, func(c *Config) error {
				_, _, err := c.AddRootPath(roots[i])
				return err
			})
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, roots, cfg.RootPaths)
}

// TestAddRootPath verifies canonicalisation, deduplication and error cases.
func TestAddRootPath(t *testing.T) {
	dir := canonicalDir(t, "src")
	cfg := DefaultConfig()

	got, added, err := cfg.AddRootPath(dir + "/./")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, dir, got)

	_, added, err = cfg.AddRootPath(dir)
	require.NoError(t, err)
	assert.False(t, added, "adding the same root twice is a no-op")
	assert.Equal(t, []string{dir}, cfg.RootPaths)

	_, _, err = cfg.AddRootPath(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrRootNotFound)

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, _, err = cfg.AddRootPath(file)
	assert.ErrorIs(t, err, ErrRootNotFound)
}

// TestAddRootPath_Symlink verifies that a symlinked root is stored resolved.
func TestAddRootPath_Symlink(t *testing.T) {
	target := canonicalDir(t, "real")
	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(target, link))

	cfg := DefaultConfig()
	got, added, err := cfg.AddRootPath(link)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, target, got)
}

// TestRemoveRootPath verifies removal of existing and vanished roots.
func TestRemoveRootPath(t *testing.T) {
	dir := canonicalDir(t, "src")
	gone := filepath.Join(canonicalDir(t), "deleted")

	cfg := DefaultConfig()
	cfg.RootPaths = []string{dir, gone}

	removed, err := cfg.RemoveRootPath(dir)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = cfg.RemoveRootPath(gone)
	require.NoError(t, err)
	assert.True(t, removed, "a root missing on disk is matched by its absolute path")

	removed, err = cfg.RemoveRootPath(dir)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Empty(t, cfg.RootPaths)
}

// TestResolveEditor verifies the CLI > config > $EDITOR > default priority.
func TestResolveEditor(t *testing.T) {
	tests := []struct {
		name     string
		cli      string
		config   string
		env      map[string]string
		expected string
	}{
		{"cli wins", "zed", "vim", map[string]string{"EDITOR": "emacs"}, "zed"},
		{"config next", "", "vim", map[string]string{"EDITOR": "emacs"}, "vim"},
		{"env next", "", "", map[string]string{"EDITOR": "emacs"}, "emacs"},
		{"blank env ignored", "", "", map[string]string{"EDITOR": "  "}, DefaultEditor},
		{"default", "", "", nil, DefaultEditor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.SetEditor(tt.config)
			assert.Equal(t, tt.expected, cfg.ResolveEditor(tt.cli, envMap(tt.env)))
		})
	}
}

// TestResolvePath verifies the config location priority.
func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/flag.toml", ResolvePath("/flag.toml", envMap(map[string]string{PathEnv: "/env.toml"})))
	assert.Equal(t, "/env.toml", ResolvePath("", envMap(map[string]string{PathEnv: "/env.toml"})))
	assert.Equal(t, DefaultPath(), ResolvePath("", noEnv))
	assert.Equal(t, FileName, filepath.Base(DefaultPath()))
}

// TestExpandPath verifies tilde expansion.
func TestExpandPath(t *testing.T) {
	home, err := ExpandPath("~")
	require.NoError(t, err)
	require.NotEmpty(t, home)

	got, err := ExpandPath("~/src")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "src"), got)

	for _, p := range []string{"/abs/path", "rel/path", "~user/src", ""} {
		got, err := ExpandPath(p)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

// TestValidate verifies that scan parameters are checked.
func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.MaxDepth = -1
	assert.ErrorIs(t, cfg.Validate(), scanner.ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.ProjectMarkers = nil
	assert.ErrorIs(t, cfg.Validate(), scanner.ErrInvalidConfig)
}

// TestScanConfig verifies the conversion and that it copies the slices.
func TestScanConfig(t *testing.T) {
	cfg := DefaultConfig()
	sc := cfg.ScanConfig()

	assert.Equal(t, cfg.MaxDepth, sc.MaxDepth)
	assert.Equal(t, cfg.ProjectMarkers, sc.Markers)
	assert.Equal(t, cfg.ExcludeDirs, sc.ExcludeDirs)

	sc.Markers[0] = "changed"
	assert.Equal(t, ".git", cfg.ProjectMarkers[0])
}
