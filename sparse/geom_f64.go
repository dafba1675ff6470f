package sparse

import (
	"image"
	"math"
)

// Point is a sub-pixel position reported by feature detection or motion estimation
type Point struct {
	X float64
	Y float64
}

func NewPoint(x, y float64) Point {
	return Point{
		X: x,
		Y: y,
	}
}

func NewPointFrom(point image.Point) Point {
	return Point{
		X: float64(point.X),
		Y: float64(point.Y),
	}
}

// Sub returns vector from other to p
func (p Point) Sub(other Point) Point {
	return Point{
		X: p.X - other.X,
		Y: p.Y - other.Y,
	}
}

// Truncate converts point to integer coordinates, truncating toward zero
func (p Point) Truncate() image.Point {
	return image.Point{
		X: int(p.X),
		Y: int(p.Y),
	}
}

func euclideanDistance(p1, p2 Point) float64 {
	return math.Sqrt(math.Pow(p1.X-p2.X, 2) + math.Pow(p1.Y-p2.Y, 2))
}
