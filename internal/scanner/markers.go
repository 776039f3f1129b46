package scanner

// MarkerSet classifies directory entry names as project markers or as
// excluded directories. It performs no filesystem access.
//
// Markers keep their configured order: Detector tests them in that order so
// the reported marker for a directory holding several of them is stable
// across runs.
type MarkerSet struct {
	markers  []string
	isMarker map[string]struct{}
	excluded map[string]struct{}
}

// NewMarkerSet builds a MarkerSet from the configured marker and exclude
// lists. Duplicate markers collapse to their first position.
func NewMarkerSet(markers, excludeDirs []string) MarkerSet {
	ms := MarkerSet{
		markers:  make([]string, 0, len(markers)),
		isMarker: make(map[string]struct{}, len(markers)),
		excluded: make(map[string]struct{}, len(excludeDirs)),
	}
	for _, m := range markers {
		if _, dup := ms.isMarker[m]; dup {
			continue
		}
		ms.isMarker[m] = struct{}{}
		ms.markers = append(ms.markers, m)
	}
	for _, d := range excludeDirs {
		ms.excluded[d] = struct{}{}
	}
	return ms
}

// IsMarker reports whether name is a configured project marker.
func (ms MarkerSet) IsMarker(name string) bool {
	_, ok := ms.isMarker[name]
	return ok
}

// IsExcluded reports whether a directory called name must never be
// traversed.
func (ms MarkerSet) IsExcluded(name string) bool {
	_, ok := ms.excluded[name]
	return ok
}

// Markers returns the markers in configured order. The returned slice must
// not be modified.
func (ms MarkerSet) Markers() []string {
	return ms.markers
}
