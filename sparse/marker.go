package sparse

import (
	"math"

	"github.com/google/uuid"
)

// Marker is a single tracked feature point with a bounded position history.
// Movement flag is derived from the oldest and newest retained positions only.
type Marker struct {
	id                uuid.UUID
	track             []Point
	maxTrackLen       int
	movementThreshold float64
	moving            bool
}

// NewMarker creates marker seeded with a single position. Marker is considered still until it gets second sample.
func NewMarker(maxTrackLen int, movementThreshold float64, position Point) *Marker {
	marker := Marker{
		id:                uuid.New(),
		track:             make([]Point, 0, maxTrackLen),
		maxTrackLen:       maxTrackLen,
		movementThreshold: movementThreshold,
		moving:            false,
	}
	marker.track = append(marker.track, position)
	return &marker
}

// GetID returns marker's identifier
func (marker *Marker) GetID() uuid.UUID {
	return marker.id
}

// GetTrack returns copy of marker's retained positions, oldest first
func (marker *Marker) GetTrack() []Point {
	track := make([]Point, len(marker.track))
	copy(track, marker.track)
	return track
}

// GetMaxTrackLen returns marker's max track length
func (marker *Marker) GetMaxTrackLen() int {
	return marker.maxTrackLen
}

// Len returns number of retained positions
func (marker *Marker) Len() int {
	return len(marker.track)
}

// Newest returns most recently observed position
func (marker *Marker) Newest() Point {
	return marker.track[len(marker.track)-1]
}

// Oldest returns oldest retained position
func (marker *Marker) Oldest() Point {
	return marker.track[0]
}

// IsMoving returns result of the last movement classification
func (marker *Marker) IsMoving() bool {
	return marker.moving
}

// AddPosition appends position and evicts the oldest one when track exceeds its limit
func (marker *Marker) AddPosition(position Point) {
	marker.track = append(marker.track, position)
	if len(marker.track) > marker.maxTrackLen {
		marker.track = marker.track[1:]
	}
}

// ClassifyMovement marks marker as moving when displacement along either axis between
// the oldest and newest retained positions exceeds movement threshold.
// Single-sample markers keep their previous flag.
func (marker *Marker) ClassifyMovement() {
	if len(marker.track) <= 1 {
		return
	}
	oldest := marker.Oldest()
	newest := marker.Newest()
	marker.moving = math.Abs(newest.X-oldest.X) > marker.movementThreshold ||
		math.Abs(newest.Y-oldest.Y) > marker.movementThreshold
}

// Direction returns vector from the oldest retained position to the newest one.
// Second value is false when there are less than two samples.
func (marker *Marker) Direction() (Point, bool) {
	if len(marker.track) < 2 {
		return Point{}, false
	}
	return marker.Newest().Sub(marker.Oldest()), true
}

// SamePosition checks exact equality of the newest position against given one
func (marker *Marker) SamePosition(position Point) bool {
	return marker.Newest() == position
}
