package cvflow

import (
	"github.com/LdDl/sparse-flow-go/sparse"
	"gocv.io/x/gocv"
)

// pointsFromMat reads points either from Nx1 two-channel matrix or from Nx2 single-channel one
func pointsFromMat(mat gocv.Mat) []sparse.Point {
	if mat.Empty() {
		return nil
	}
	points := make([]sparse.Point, mat.Rows())
	for i := 0; i < mat.Rows(); i++ {
		if mat.Channels() == 2 {
			vec := mat.GetVecfAt(i, 0)
			points[i] = sparse.NewPoint(float64(vec[0]), float64(vec[1]))
		} else {
			points[i] = sparse.NewPoint(float64(mat.GetFloatAt(i, 0)), float64(mat.GetFloatAt(i, 1)))
		}
	}
	return points
}

// matFromPoints builds Nx2 CV_32F matrix accepted by optical flow
func matFromPoints(points []sparse.Point) gocv.Mat {
	mat := gocv.NewMatWithSize(len(points), 2, gocv.MatTypeCV32F)
	for i, point := range points {
		mat.SetFloatAt(i, 0, float32(point.X))
		mat.SetFloatAt(i, 1, float32(point.Y))
	}
	return mat
}
