package model

import "time"

// FeatureVector is one engineered row for a (segment, day): the canonical
// ordered feature values plus the RUL label. Names is shared across all rows
// produced by one engineer instance; Values is index-aligned with it.
type FeatureVector struct {
	SegmentID string
	Day       int
	Date      time.Time
	Names     []string
	Values    []float64
	RUL       float64
}

// Value returns the named feature, or false when the name is not present.
// Linear scan is fine at 105 features; this is a test/debug convenience, the
// inference path works on the aligned slice directly.
func (f FeatureVector) Value(name string) (float64, bool) {
	for i, n := range f.Names {
		if n == name {
			return f.Values[i], true
		}
	}
	return 0, false
}
