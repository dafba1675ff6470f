package sparse

import (
	"image"

	"gonum.org/v1/gonum/stat"
)

// Estimate is aggregated position and direction of moving markers for a single frame
type Estimate struct {
	Center    image.Point
	Direction image.Point
}

// CenterPoint returns mean of the newest positions of moving markers, truncated toward zero.
// Second value is false when there are no moving markers.
func CenterPoint(moving []*Marker) (image.Point, bool) {
	if len(moving) == 0 {
		return image.Point{}, false
	}
	xs := make([]float64, len(moving))
	ys := make([]float64, len(moving))
	for i, marker := range moving {
		newest := marker.Newest()
		xs[i] = newest.X
		ys[i] = newest.Y
	}
	return meanPoint(xs, ys), true
}

// MoveDirection returns mean of the direction vectors of moving markers, truncated toward zero.
// Second value is false when there are no moving markers.
func MoveDirection(moving []*Marker) (image.Point, bool) {
	if len(moving) == 0 {
		return image.Point{}, false
	}
	xs := make([]float64, len(moving))
	ys := make([]float64, len(moving))
	for i, marker := range moving {
		// Single-sample markers contribute zero vector
		direction, _ := marker.Direction()
		xs[i] = direction.X
		ys[i] = direction.Y
	}
	return meanPoint(xs, ys), true
}

// Aggregate reduces moving markers into a single estimate
func Aggregate(moving []*Marker) (Estimate, bool) {
	center, ok := CenterPoint(moving)
	if !ok {
		return Estimate{}, false
	}
	direction, _ := MoveDirection(moving)
	return Estimate{
		Center:    center,
		Direction: direction,
	}, true
}

func meanPoint(xs, ys []float64) image.Point {
	return NewPoint(stat.Mean(xs, nil), stat.Mean(ys, nil)).Truncate()
}
