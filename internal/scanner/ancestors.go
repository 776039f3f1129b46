package scanner

import (
	"path/filepath"
)

// ancestorSet records the projects detected so far within one root's
// traversal. It is owned by a single scanRoot call and never shared.
type ancestorSet struct {
	root string
	dirs map[string]struct{}
}

func newAncestorSet(root string) *ancestorSet {
	return &ancestorSet{
		root: filepath.Clean(root),
		dirs: make(map[string]struct{}),
	}
}

func (s *ancestorSet) add(dir string) {
	s.dirs[filepath.Clean(dir)] = struct{}{}
}

// covers reports whether a strict ancestor of dir, between dir's parent and
// the root inclusive, has already been detected as a project.
func (s *ancestorSet) covers(dir string) bool {
	dir = filepath.Clean(dir)
	if dir == s.root || len(s.dirs) == 0 {
		return false
	}

	for cur := filepath.Dir(dir); ; {
		if _, ok := s.dirs[cur]; ok {
			return true
		}
		if cur == s.root {
			return false
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached the filesystem root without meeting the scan root:
			// dir is not below this root at all.
			return false
		}
		cur = parent
	}
}
