package sparse

// MarkerSet is ordered collection of markers index-aligned with the point array
// passed to motion estimator on the next frame.
type MarkerSet struct {
	markers           []*Marker
	historyLength     int
	movementThreshold float64
}

// NewMarkerSet creates empty marker set. Every marker created by Reseed inherits given history length and movement threshold.
func NewMarkerSet(historyLength int, movementThreshold float64) *MarkerSet {
	return &MarkerSet{
		markers:           make([]*Marker, 0),
		historyLength:     historyLength,
		movementThreshold: movementThreshold,
	}
}

// Len returns number of markers
func (set *MarkerSet) Len() int {
	return len(set.markers)
}

// Markers returns copy of markers slice. Markers themselves are shared.
func (set *MarkerSet) Markers() []*Marker {
	markers := make([]*Marker, len(set.markers))
	copy(markers, set.markers)
	return markers
}

// Points returns newest position of every marker in index order
func (set *MarkerSet) Points() []Point {
	points := make([]Point, len(set.markers))
	for i, marker := range set.markers {
		points[i] = marker.Newest()
	}
	return points
}

// Reseed discards all markers and creates one new marker per detected point
func (set *MarkerSet) Reseed(points []Point) {
	markers := make([]*Marker, 0, len(points))
	for _, point := range points {
		markers = append(markers, NewMarker(set.historyLength, set.movementThreshold, point))
	}
	set.markers = markers
}

// Reconcile keeps only markers whose point has been found by motion estimator.
// Status must be index-aligned with markers, otherwise *ReconciliationError is returned and set is left untouched.
func (set *MarkerSet) Reconcile(status []bool) error {
	if len(status) != len(set.markers) {
		return &ReconciliationError{
			Markers: len(set.markers),
			Status:  len(status),
			Valid:   countValid(status),
			Reason:  "status array is not aligned with markers",
		}
	}
	kept := make([]*Marker, 0, len(set.markers))
	for i, found := range status {
		if found {
			kept = append(kept, set.markers[i])
		}
	}
	set.markers = kept
	return nil
}

// UpdatePositions appends survivor points to markers index-wise and re-classifies movement.
// Markers beyond the number of survivors are dropped from the tail.
// More survivors than markers is a contract violation and results in *ReconciliationError.
func (set *MarkerSet) UpdatePositions(survivors []Point) error {
	if len(survivors) > len(set.markers) {
		return &ReconciliationError{
			Markers:   len(set.markers),
			Status:    -1,
			Valid:     -1,
			Survivors: len(survivors),
			Reason:    "more survivor points than markers",
		}
	}
	if len(set.markers) > len(survivors) {
		set.markers = set.markers[:len(survivors)]
	}
	for i, point := range survivors {
		set.markers[i].AddPosition(point)
		set.markers[i].ClassifyMovement()
	}
	return nil
}

// MovingSubset returns markers flagged as moving, in index order
func (set *MarkerSet) MovingSubset() []*Marker {
	moving := make([]*Marker, 0)
	for _, marker := range set.markers {
		if marker.IsMoving() {
			moving = append(moving, marker)
		}
	}
	return moving
}

// MovingCount returns number of markers flagged as moving
func (set *MarkerSet) MovingCount() int {
	count := 0
	for _, marker := range set.markers {
		if marker.IsMoving() {
			count++
		}
	}
	return count
}

func countValid(status []bool) int {
	valid := 0
	for _, found := range status {
		if found {
			valid++
		}
	}
	return valid
}
