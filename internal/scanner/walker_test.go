package scanner

import (
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMemTree builds an in-memory tree from directory paths and file paths.
// Entries ending in "/" are created as directories, others as empty files.
func newMemTree(t *testing.T, entries ...string) billy.Filesystem {
	t.Helper()

	fs := memfs.New()
	for _, e := range entries {
		if e[len(e)-1] == '/' {
			require.NoError(t, fs.MkdirAll(e, 0o755))
			continue
		}
		require.NoError(t, util.WriteFile(fs, e, nil, 0o644))
	}
	return fs
}

// collectDirs walks root and returns every yielded directory.
func collectDirs(t *testing.T, w *Walker, root string) []string {
	t.Helper()

	var dirs []string
	err := w.Walk(root, func(dir string, _ int) error {
		dirs = append(dirs, dir)
		return nil
	})
	require.NoError(t, err)
	return dirs
}

// TestWalker_YieldsDirectoriesOnly verifies that files are never yielded and
// that the root comes first.
func TestWalker_YieldsDirectoriesOnly(t *testing.T) {
	fs := newMemTree(t, "/r/a/file.txt", "/r/b/c/", "/r/README.md")
	w := NewWalker(fs, NewMarkerSet([]string{".git"}, nil), 5, nil, nil)

	dirs := collectDirs(t, w, "/r")

	require.NotEmpty(t, dirs)
	assert.Equal(t, "/r", dirs[0])
	assert.ElementsMatch(t, []string{"/r", "/r/a", "/r/b", "/r/b/c"}, dirs)
}

// TestWalker_DepthBound verifies that depth is counted from the root.
func TestWalker_DepthBound(t *testing.T) {
	fs := newMemTree(t, "/r/one/two/three/")

	tests := []struct {
		maxDepth int
		expected []string
	}{
		{0, []string{"/r"}},
		{1, []string{"/r", "/r/one"}},
		{2, []string{"/r", "/r/one", "/r/one/two"}},
	}

	for _, tt := range tests {
		w := NewWalker(fs, NewMarkerSet([]string{".git"}, nil), tt.maxDepth, nil, nil)
		assert.Equal(t, tt.expected, collectDirs(t, w, "/r"))
	}
}

// TestWalker_ReportsDepth verifies the depth argument passed to WalkFunc.
func TestWalker_ReportsDepth(t *testing.T) {
	fs := newMemTree(t, "/r/one/two/")
	w := NewWalker(fs, NewMarkerSet([]string{".git"}, nil), 5, nil, nil)

	depths := map[string]int{}
	require.NoError(t, w.Walk("/r", func(dir string, depth int) error {
		depths[dir] = depth
		return nil
	}))

	assert.Equal(t, map[string]int{"/r": 0, "/r/one": 1, "/r/one/two": 2}, depths)
}

// TestWalker_ExcludedDirectoriesPruned verifies that excluded names are not
// entered at any depth.
func TestWalker_ExcludedDirectoriesPruned(t *testing.T) {
	fs := newMemTree(t, "/r/node_modules/pkg/", "/r/app/node_modules/x/", "/r/app/src/")
	w := NewWalker(fs, NewMarkerSet([]string{".git"}, []string{"node_modules"}), 5, nil, nil)

	assert.ElementsMatch(t, []string{"/r", "/r/app", "/r/app/src"}, collectDirs(t, w, "/r"))
}

// TestWalker_SkipDir verifies that returning SkipDir prunes only that subtree.
func TestWalker_SkipDir(t *testing.T) {
	fs := newMemTree(t, "/r/skip/inner/", "/r/keep/inner/")
	w := NewWalker(fs, NewMarkerSet([]string{".git"}, nil), 5, nil, nil)

	var dirs []string
	require.NoError(t, w.Walk("/r", func(dir string, _ int) error {
		dirs = append(dirs, dir)
		if dir == "/r/skip" {
			return SkipDir
		}
		return nil
	}))

	assert.ElementsMatch(t, []string{"/r", "/r/skip", "/r/keep", "/r/keep/inner"}, dirs)
}

// TestWalker_CallbackErrorStopsWalk verifies that errors other than SkipDir
// are returned from Walk.
func TestWalker_CallbackErrorStopsWalk(t *testing.T) {
	fs := newMemTree(t, "/r/a/", "/r/b/")
	w := NewWalker(fs, NewMarkerSet([]string{".git"}, nil), 5, nil, nil)

	boom := errors.New("boom")
	err := w.Walk("/r", func(dir string, _ int) error {
		if dir != "/r" {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

// TestWalker_MissingRoot verifies that an unusable root is an error for the
// caller to absorb.
func TestWalker_MissingRoot(t *testing.T) {
	fs := newMemTree(t, "/r/file")
	w := NewWalker(fs, NewMarkerSet([]string{".git"}, nil), 5, nil, nil)

	assert.Error(t, w.Walk("/missing", func(string, int) error { return nil }))
	assert.Error(t, w.Walk("/r/file", func(string, int) error { return nil }))
}

// TestWalker_SymlinksNotFollowed verifies that a symlinked directory is
// yielded under its resolved path but never entered.
func TestWalker_SymlinksNotFollowed(t *testing.T) {
	fs := newMemTree(t, "/r/real/", "/elsewhere/deep/")
	require.NoError(t, fs.Symlink("/elsewhere", "/r/link"))
	w := NewWalker(fs, NewMarkerSet([]string{".git"}, nil), 5, nil, nil)

	depths := map[string]int{}
	require.NoError(t, w.Walk("/r", func(dir string, depth int) error {
		depths[dir] = depth
		return nil
	}))

	assert.Equal(t, map[string]int{"/r": 0, "/r/real": 1, "/elsewhere": 1}, depths)
}

// TestWalker_SymlinkChainResolved verifies relative and chained links.
func TestWalker_SymlinkChainResolved(t *testing.T) {
	fs := newMemTree(t, "/r/", "/data/proj/")
	require.NoError(t, fs.Symlink("../data/proj", "/r/hop"))
	require.NoError(t, fs.Symlink("hop", "/r/alias"))
	w := NewWalker(fs, NewMarkerSet([]string{".git"}, nil), 5, nil, nil)

	assert.ElementsMatch(t, []string{"/r", "/data/proj", "/data/proj"}, collectDirs(t, w, "/r"))
}

// TestWalker_SymlinkFiltering verifies that links to files, dangling links
// and links with excluded or ignored names are not yielded.
func TestWalker_SymlinkFiltering(t *testing.T) {
	fs := newMemTree(t, "/r/file.txt", "/target/")
	require.NoError(t, fs.Symlink("/r/file.txt", "/r/to-file"))
	require.NoError(t, fs.Symlink("/nowhere", "/r/dangling"))
	require.NoError(t, fs.Symlink("/target", "/r/node_modules"))
	require.NoError(t, fs.Symlink("/target", "/r/hidden"))
	require.NoError(t, util.WriteFile(fs, "/r/.ignore", []byte("hidden\n"), 0o644))
	w := NewWalker(fs, NewMarkerSet([]string{".git"}, []string{"node_modules"}), 5, nil, nil)

	assert.Equal(t, []string{"/r"}, collectDirs(t, w, "/r"))
}

// TestWalker_SymlinkCallbackError verifies that a callback error on a linked
// directory stops the walk.
func TestWalker_SymlinkCallbackError(t *testing.T) {
	fs := newMemTree(t, "/r/", "/target/")
	require.NoError(t, fs.Symlink("/target", "/r/link"))
	w := NewWalker(fs, NewMarkerSet([]string{".git"}, nil), 5, nil, nil)

	boom := errors.New("boom")
	err := w.Walk("/r", func(dir string, _ int) error {
		if dir == "/target" {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

// TestWalker_Gitignore verifies per-directory ignore files, their scoping
// and negation.
func TestWalker_Gitignore(t *testing.T) {
	fs := newMemTree(t,
		"/r/build-output/",
		"/r/logs/keep/",
		"/r/logs/drop/",
		"/r/sub/tmp/",
		"/r/other/tmp/",
	)
	require.NoError(t, util.WriteFile(fs, "/r/.git", []byte("gitdir: /repos/r\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/r/.gitignore", []byte("build-output/\nlogs/*\n!logs/keep\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/r/sub/.ignore", []byte("tmp\n"), 0o644))
	w := NewWalker(fs, NewMarkerSet([]string{".git"}, nil), 5, nil, nil)

	assert.ElementsMatch(t, []string{
		"/r",
		"/r/logs",
		"/r/logs/keep",
		"/r/sub",
		"/r/other",
		"/r/other/tmp", // the .ignore in /r/sub does not apply here
	}, collectDirs(t, w, "/r"))
}

// TestWalker_GitInfoExclude verifies that a repository's info/exclude rules
// apply to its working tree.
func TestWalker_GitInfoExclude(t *testing.T) {
	fs := newMemTree(t, "/r/repo/.git/info/", "/r/repo/secret/", "/r/repo/src/")
	require.NoError(t, util.WriteFile(fs, "/r/repo/.git/info/exclude", []byte("# local\nsecret\n"), 0o644))
	w := NewWalker(fs, NewMarkerSet([]string{"go.mod"}, []string{".git"}), 5, nil, nil)

	assert.ElementsMatch(t, []string{"/r", "/r/repo", "/r/repo/src"}, collectDirs(t, w, "/r"))
}

// TestWalker_GlobalPatterns verifies that patterns handed to NewWalker apply
// throughout a repository.
func TestWalker_GlobalPatterns(t *testing.T) {
	fs := newMemTree(t, "/r/.git/", "/r/.idea/", "/r/a/.idea/", "/r/a/src/")
	global := []gitignore.Pattern{gitignore.ParsePattern(".idea", nil)}
	w := NewWalker(fs, NewMarkerSet([]string{"go.mod"}, []string{".git"}), 5, global, nil)

	assert.ElementsMatch(t, []string{"/r", "/r/a", "/r/a/src"}, collectDirs(t, w, "/r"))
}

// TestWalker_GitRulesOutsideRepository verifies that .gitignore files and
// global patterns are not applied outside a repository while .ignore files
// still are.
func TestWalker_GitRulesOutsideRepository(t *testing.T) {
	fs := newMemTree(t, "/r/build/", "/r/.idea/", "/r/tmp/", "/r/src/")
	require.NoError(t, util.WriteFile(fs, "/r/.gitignore", []byte("build/\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/r/.ignore", []byte("tmp/\n"), 0o644))
	global := []gitignore.Pattern{gitignore.ParsePattern(".idea", nil)}
	w := NewWalker(fs, NewMarkerSet([]string{"go.mod"}, nil), 5, global, nil)

	assert.ElementsMatch(t, []string{"/r", "/r/build", "/r/.idea", "/r/src"}, collectDirs(t, w, "/r"))
}

// TestWalker_NestedRepositoryScope verifies that git rules start applying at
// the directory holding ".git" and not at its siblings.
func TestWalker_NestedRepositoryScope(t *testing.T) {
	fs := newMemTree(t,
		"/r/plain/out/",
		"/r/repo/.git/",
		"/r/repo/out/",
		"/r/repo/.idea/",
		"/r/repo/src/",
	)
	require.NoError(t, util.WriteFile(fs, "/r/plain/.gitignore", []byte("out\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/r/repo/.gitignore", []byte("out\n"), 0o644))
	global := []gitignore.Pattern{gitignore.ParsePattern(".idea", nil)}
	w := NewWalker(fs, NewMarkerSet([]string{"go.mod"}, []string{".git"}), 5, global, nil)

	assert.ElementsMatch(t, []string{
		"/r",
		"/r/plain",
		"/r/plain/out",
		"/r/repo",
		"/r/repo/src",
	}, collectDirs(t, w, "/r"))
}

// TestWalker_RepositoryAboveRoot verifies that a root inside a repository's
// working tree gets git rules even though ".git" sits above it.
func TestWalker_RepositoryAboveRoot(t *testing.T) {
	fs := newMemTree(t, "/w/.git/", "/w/r/build/", "/w/r/.idea/", "/w/r/src/")
	require.NoError(t, util.WriteFile(fs, "/w/r/.gitignore", []byte("build/\n"), 0o644))
	global := []gitignore.Pattern{gitignore.ParsePattern(".idea", nil)}
	w := NewWalker(fs, NewMarkerSet([]string{"go.mod"}, nil), 5, global, nil)

	assert.ElementsMatch(t, []string{"/w/r", "/w/r/src"}, collectDirs(t, w, "/w/r"))
}

// TestParsePatterns verifies that comments and blank lines are dropped.
func TestParsePatterns(t *testing.T) {
	patterns := parsePatterns("# comment\n\n  \nbuild/\r\n*.log\n", nil)
	require.Len(t, patterns, 2)

	assert.Equal(t, gitignore.Exclude, patterns[0].Match([]string{"build"}, true))
	assert.Equal(t, gitignore.NoMatch, patterns[0].Match([]string{"build"}, false))
	assert.Equal(t, gitignore.Exclude, patterns[1].Match([]string{"a", "x.log"}, false))
}
