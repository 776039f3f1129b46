// Package scanner locates project directories beneath a set of search roots.
//
// A directory is a project when it directly contains one of the configured
// marker entries (".git", "go.mod", "package.json", ...). The scan works
// per root:
//
//	Walker   -> depth-bounded, ignore-aware traversal yielding directories
//	Detector -> first marker present in a directory, in configured order
//	Scanner  -> nested-project suppression, parallel roots, merge + sort
//
// Once a directory is classified as a project none of its descendants can
// be reported separately within the same root. Roots are scanned in
// parallel on a bounded errgroup; each root's traversal is sequential and
// owns its own suppression state. Per-root results are merged in a single
// goroutine after all workers finish, removing exact duplicate paths, and
// the final list is sorted by case-insensitive name.
//
// Filesystem problems met during a scan (missing roots, unreadable
// directories, failed stat calls) never fail the scan. They only reduce
// the number of projects found. Only invalid configuration, reported as
// ErrInvalidConfig, is returned to the caller.
package scanner
