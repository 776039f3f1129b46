package scanner

import (
	"github.com/go-git/go-billy/v5"
)

// Detector decides whether a directory is a project root.
type Detector struct {
	fs      billy.Filesystem
	markers MarkerSet
}

// NewDetector creates a Detector that checks for markers on fs.
func NewDetector(fs billy.Filesystem, markers MarkerSet) *Detector {
	return &Detector{fs: fs, markers: markers}
}

// Detect returns the first marker, in configured order, that exists inside
// dir as a file or a directory. The boolean is false when none exists.
//
// Stat failures of any kind (not found, permission denied, a directory
// removed mid-scan) count as "marker absent", so a single unreadable
// directory never aborts a scan.
func (d *Detector) Detect(dir string) (string, bool) {
	for _, marker := range d.markers.Markers() {
		if _, err := d.fs.Stat(d.fs.Join(dir, marker)); err == nil {
			return marker, true
		}
	}
	return "", false
}
