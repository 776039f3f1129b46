package scanner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shinji-kodama/quick-proj/internal/model"
)

// ErrInvalidConfig is returned (wrapped) when the scan configuration or the
// root list is malformed. It is the only error class Scan reports for
// reasons other than context cancellation.
var ErrInvalidConfig = errors.New("invalid scan configuration")

// Config holds the scan parameters. The Scanner copies what it needs at
// construction time and never modifies the caller's slices.
type Config struct {
	// Markers are the file or directory names whose presence makes a
	// directory a project. Order matters: the first present marker is
	// the one reported.
	Markers []string

	// ExcludeDirs are directory names never descended into, at any depth.
	ExcludeDirs []string

	// MaxDepth bounds traversal depth relative to each root (root = 0).
	MaxDepth int
}

// Validate reports configuration problems as ErrInvalidConfig.
func (c Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must not be negative (got %d)", ErrInvalidConfig, c.MaxDepth)
	}
	if len(c.Markers) == 0 {
		return fmt.Errorf("%w: at least one project marker is required", ErrInvalidConfig)
	}
	for _, m := range c.Markers {
		if err := validateEntryName("project marker", m); err != nil {
			return err
		}
	}
	for _, d := range c.ExcludeDirs {
		if err := validateEntryName("exclude directory", d); err != nil {
			return err
		}
	}
	return nil
}

// validateEntryName checks that name can match a single directory entry.
func validateEntryName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, kind)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %s %q must be a plain entry name", ErrInvalidConfig, kind, name)
	}
	return nil
}

// Option customises a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for debug traces of skipped roots and
// directories. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConcurrency caps the number of roots scanned at the same time.
// Values below 1 select the default, min(len(roots), GOMAXPROCS).
func WithConcurrency(n int) Option {
	return func(s *Scanner) {
		s.concurrency = n
	}
}

// WithFilesystem makes the scanner read fs instead of the host filesystem.
// Root paths are then only cleaned, not symlink-resolved, since billy
// filesystems expose no EvalSymlinks equivalent. Symlinked directories
// below a root are resolved link by link through fs.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(s *Scanner) {
		s.fs = fs
		s.resolveLink = nil
		s.canonicalize = func(root string) (string, error) {
			cleaned := filepath.Clean(root)
			if _, err := fs.Stat(cleaned); err != nil {
				return "", err
			}
			return cleaned, nil
		}
	}
}

// WithGlobalIgnore controls whether the user's global and system git
// excludes files are honoured. Enabled by default.
func WithGlobalIgnore(enabled bool) Option {
	return func(s *Scanner) {
		s.globalIgnore = enabled
	}
}

// Scanner finds projects beneath a list of roots.
//
// A Scanner holds no state between Scan calls: every call performs a full
// traversal and builds new Project values. It is safe for concurrent use.
type Scanner struct {
	markers      MarkerSet
	maxDepth     int
	fs           billy.Filesystem
	canonicalize func(string) (string, error)
	resolveLink  func(string) (string, error)
	globalIgnore bool
	concurrency  int
	logger       *zap.Logger

	detector *Detector
	walker   *Walker
}

// New validates cfg and creates a Scanner.
func New(cfg Config, opts ...Option) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Scanner{
		markers:      NewMarkerSet(cfg.Markers, cfg.ExcludeDirs),
		maxDepth:     cfg.MaxDepth,
		fs:           osfs.New("/"),
		canonicalize: canonicalPath,
		resolveLink:  canonicalPath,
		globalIgnore: true,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var global []gitignore.Pattern
	if s.globalIgnore {
		global = loadGlobalPatterns(s.fs, s.logger)
	}

	s.detector = NewDetector(s.fs, s.markers)
	s.walker = NewWalker(s.fs, s.markers, s.maxDepth, global, s.logger)
	if s.resolveLink != nil {
		s.walker.resolveLink = s.resolveLink
	}
	return s, nil
}

// Scan searches every root concurrently and returns the deduplicated
// projects sorted by case-insensitive name (ties ordered by path).
//
// Missing or unreadable roots contribute nothing; they are not errors.
// An empty result is valid. Scan fails only for a malformed root list
// (ErrInvalidConfig) or when ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, roots []string) ([]model.Project, error) {
	if err := validateRoots(roots); err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return []model.Project{}, nil
	}

	// Each worker owns one slot; the merge below runs only after Wait,
	// so no locking is needed.
	perRoot := make([][]model.Project, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerCount(len(roots)))
	for i, root := range roots {
		g.Go(func() error {
			found, err := s.scanRoot(gctx, root)
			if err != nil {
				return err
			}
			perRoot[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	projects := mergeResults(perRoot)
	sortProjects(projects)

	s.logger.Debug("scan finished", zap.Int("roots", len(roots)), zap.Int("projects", len(projects)))
	return projects, nil
}

// scanRoot walks a single root sequentially and applies nested-project
// suppression. Filesystem failures degrade the root to no results; only a
// context error is returned.
func (s *Scanner) scanRoot(ctx context.Context, root string) ([]model.Project, error) {
	log := s.logger.With(zap.String("root", root))

	canonical, err := s.canonicalize(root)
	if err != nil {
		log.Debug("root unavailable, skipping", zap.Error(err))
		return nil, nil
	}

	claimed := newAncestorSet(canonical)
	var projects []model.Project

	err = s.walker.Walk(canonical, func(dir string, depth int) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		// The walker already prunes excluded names below the root; this
		// only matters for a root that itself carries an excluded name.
		if dir == canonical && s.markers.IsExcluded(filepath.Base(dir)) {
			return nil
		}

		if claimed.covers(dir) {
			return SkipDir
		}

		marker, ok := s.detector.Detect(dir)
		if !ok {
			return nil
		}

		projects = append(projects, model.NewProject(dir, marker))
		claimed.add(dir)
		log.Debug("project detected", zap.String("path", dir), zap.String("marker", marker), zap.Int("depth", depth))

		// Nothing below a project can qualify, so do not walk it.
		return SkipDir
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Debug("walk failed, root contributes no projects", zap.Error(err))
		return nil, nil
	}

	return projects, nil
}

// workerCount returns the errgroup limit for n roots.
func (s *Scanner) workerCount(n int) int {
	limit := s.concurrency
	if limit < 1 {
		limit = runtime.GOMAXPROCS(0)
	}
	if limit > n {
		limit = n
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}

// validateRoots checks that every root is a non-empty absolute path.
func validateRoots(roots []string) error {
	for i, root := range roots {
		if strings.TrimSpace(root) == "" {
			return fmt.Errorf("%w: root path #%d is empty", ErrInvalidConfig, i+1)
		}
		if !filepath.IsAbs(root) {
			return fmt.Errorf("%w: root path %q is not absolute", ErrInvalidConfig, root)
		}
	}
	return nil
}

// mergeResults concatenates per-root results in root order, keeping the
// first occurrence of every path.
func mergeResults(perRoot [][]model.Project) []model.Project {
	seen := make(map[string]struct{})
	merged := make([]model.Project, 0)

	for _, found := range perRoot {
		for _, p := range found {
			if _, dup := seen[p.Path]; dup {
				continue
			}
			seen[p.Path] = struct{}{}
			merged = append(merged, p)
		}
	}
	return merged
}

// sortProjects orders projects by case-insensitive name, then by path so
// that equal names still produce a reproducible order.
func sortProjects(projects []model.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		a, b := strings.ToLower(projects[i].Name), strings.ToLower(projects[j].Name)
		if a != b {
			return a < b
		}
		return projects[i].Path < projects[j].Path
	})
}

// canonicalPath makes root absolute and resolves symlinks, so the same
// directory reached through different spellings dedups to one project.
func canonicalPath(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// loadGlobalPatterns reads the system and user git excludes files.
// Errors only mean fewer rules, never a failed scan.
func loadGlobalPatterns(fs billy.Filesystem, logger *zap.Logger) []gitignore.Pattern {
	var patterns []gitignore.Pattern

	system, err := gitignore.LoadSystemPatterns(fs)
	if err != nil {
		logger.Debug("failed to load system git excludes", zap.Error(err))
	}
	patterns = append(patterns, system...)

	global, err := gitignore.LoadGlobalPatterns(fs)
	if err != nil {
		logger.Debug("failed to load global git excludes", zap.Error(err))
	}
	return append(patterns, global...)
}
