package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"
)

// SkipDir can be returned by a WalkFunc to prevent the walker from
// descending into the directory it was called with.
var SkipDir = fs.SkipDir

// ".ignore" follows the convention of ripgrep and fd for rules that should
// apply to search tools but not to git, so it is honoured outside
// repositories too.
const (
	gitIgnoreFile    = ".gitignore"
	searchIgnoreFile = ".ignore"
)

// maxLinkHops bounds symlink chains followed when resolving a linked
// directory.
const maxLinkHops = 40

// WalkFunc is called once for every directory the walker yields, including
// the root itself at depth 0. Returning SkipDir prunes the directory's
// subtree; returning any other error stops the walk and Walk returns it.
// A symlinked directory is yielded under its resolved path and is never
// descended into, whatever fn returns.
type WalkFunc func(dir string, depth int) error

// Walker enumerates the directories beneath one root.
//
// Traversal rules:
//   - the root is depth 0 and directories deeper than maxDepth are never
//     yielded;
//   - directories whose name is excluded by the MarkerSet are never entered
//     (the root itself always is);
//   - a symbolic link to a directory is yielded once, resolved, but never
//     entered, which keeps the walk cycle free;
//   - .ignore files apply everywhere; .gitignore files, .git/info/exclude
//     and the global patterns handed to NewWalker apply only inside a git
//     repository, i.e. below a directory holding ".git" (the root's
//     ancestors included);
//   - hidden directories are traversed, since markers such as ".git" are
//     hidden themselves;
//   - directories that cannot be listed are skipped silently.
//
// The walk is depth-first, sequential and not restartable: each Walk call
// performs a fresh traversal.
type Walker struct {
	fs       billy.Filesystem
	markers  MarkerSet
	maxDepth int
	global   []gitignore.Pattern
	logger   *zap.Logger

	// resolveLink maps a symlink path to the directory it points at.
	resolveLink func(string) (string, error)
}

// NewWalker creates a Walker over fs. global holds ignore patterns that apply
// everywhere below the root, typically the user's core.excludesfile.
func NewWalker(fs billy.Filesystem, markers MarkerSet, maxDepth int, global []gitignore.Pattern, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Walker{
		fs:       fs,
		markers:  markers,
		maxDepth: maxDepth,
		global:   global,
		logger:   logger,
	}
	w.resolveLink = w.readLink
	return w
}

// Walk traverses root and calls fn for every directory it yields.
// It returns an error when root cannot be used as a directory, or when fn
// returns an error other than SkipDir.
func (w *Walker) Walk(root string, fn WalkFunc) error {
	// The root is resolved with Stat rather than Lstat: a configured root
	// that is itself a symlink is an explicit user choice.
	info, err := w.fs.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", root)
	}

	var patterns []gitignore.Pattern
	inRepo := w.repositoryAbove(root)
	if inRepo {
		patterns = w.global
	}
	return w.walkDir(root, nil, 0, inRepo, patterns, fn)
}

// repositoryAbove reports whether one of root's ancestors holds ".git".
func (w *Walker) repositoryAbove(root string) bool {
	for dir := filepath.Dir(root); ; dir = filepath.Dir(dir) {
		if w.hasGit(dir) {
			return true
		}
		if filepath.Dir(dir) == dir {
			return false
		}
	}
}

// hasGit reports whether dir holds a ".git" entry. A file counts too, since
// linked worktrees and submodules use one.
func (w *Walker) hasGit(dir string) bool {
	_, err := w.fs.Lstat(w.fs.Join(dir, ".git"))
	return err == nil
}

// walkDir visits dir and recurses into its eligible subdirectories.
// rel holds dir's path segments relative to the root, the form gitignore
// patterns are matched against. inRepo tells whether an ancestor of dir
// holds a ".git" entry.
func (w *Walker) walkDir(dir string, rel []string, depth int, inRepo bool, patterns []gitignore.Pattern, fn WalkFunc) error {
	if err := fn(dir, depth); err != nil {
		if errors.Is(err, SkipDir) {
			return nil
		}
		return err
	}

	if depth >= w.maxDepth {
		return nil
	}

	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		w.logger.Debug("skipping unreadable directory", zap.String("dir", dir), zap.Error(err))
		return nil
	}

	if !inRepo && w.hasGit(dir) {
		inRepo = true
		patterns = slices.Concat(w.global, patterns)
	}
	patterns = w.loadIgnorePatterns(dir, rel, inRepo, patterns)
	matcher := gitignore.NewMatcher(patterns)

	for _, entry := range entries {
		name := entry.Name()
		child := w.fs.Join(dir, name)

		// ReadDir reports entries with lstat semantics.
		link := entry.Mode()&os.ModeSymlink != 0
		if link {
			if info, err := w.fs.Stat(child); err != nil || !info.IsDir() {
				continue
			}
		} else if !entry.IsDir() {
			continue
		}

		if w.markers.IsExcluded(name) {
			continue
		}

		childRel := append(slices.Clone(rel), name)
		if matcher.Match(childRel, true) {
			w.logger.Debug("skipping ignored directory", zap.String("dir", child))
			continue
		}

		if link {
			if err := w.visitLink(child, depth+1, fn); err != nil {
				return err
			}
			continue
		}

		if err := w.walkDir(child, childRel, depth+1, inRepo, patterns, fn); err != nil {
			return err
		}
	}
	return nil
}

// visitLink yields the directory a symlink points at without entering it.
func (w *Walker) visitLink(link string, depth int, fn WalkFunc) error {
	target, err := w.resolveLink(link)
	if err != nil {
		w.logger.Debug("skipping unresolvable symlink", zap.String("link", link), zap.Error(err))
		return nil
	}
	if err := fn(target, depth); err != nil && !errors.Is(err, SkipDir) {
		return err
	}
	return nil
}

// readLink follows a chain of symlinks through the walker's filesystem.
func (w *Walker) readLink(path string) (string, error) {
	for range maxLinkHops {
		info, err := w.fs.Lstat(path)
		if err != nil {
			return "", err
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return path, nil
		}
		target, err := w.fs.Readlink(path)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(target) {
			target = w.fs.Join(filepath.Dir(path), target)
		}
		path = filepath.Clean(target)
	}
	return "", fmt.Errorf("too many levels of symbolic links at %s", path)
}

// loadIgnorePatterns returns inherited extended with the rules declared in
// dir. Git's own files are read only when inRepo is set. The inherited
// slice is never modified, so sibling directories do not see each other's
// rules.
func (w *Walker) loadIgnorePatterns(dir string, rel []string, inRepo bool, inherited []gitignore.Pattern) []gitignore.Pattern {
	var local []gitignore.Pattern

	if inRepo {
		local = append(local, w.readPatternFile(w.fs.Join(dir, gitIgnoreFile), rel)...)

		// A repository's info/exclude applies to its whole working tree.
		if info, err := w.fs.Lstat(w.fs.Join(dir, ".git")); err == nil && info.IsDir() {
			local = append(local, w.readPatternFile(w.fs.Join(dir, ".git", "info", "exclude"), rel)...)
		}
	}
	local = append(local, w.readPatternFile(w.fs.Join(dir, searchIgnoreFile), rel)...)

	if len(local) == 0 {
		return inherited
	}
	return slices.Concat(inherited, local)
}

// readPatternFile parses a gitignore-format file. Missing or unreadable
// files yield no patterns.
func (w *Walker) readPatternFile(path string, domain []string) []gitignore.Pattern {
	data, err := util.ReadFile(w.fs, path)
	if err != nil {
		return nil
	}
	return parsePatterns(string(data), domain)
}

// parsePatterns converts gitignore file content into patterns scoped to
// domain. Blank lines and comments are dropped.
func parsePatterns(content string, domain []string) []gitignore.Pattern {
	var patterns []gitignore.Pattern
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, domain))
	}
	return patterns
}
