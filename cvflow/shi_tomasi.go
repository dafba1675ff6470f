package cvflow

import (
	"github.com/LdDl/sparse-flow-go/sparse"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ShiTomasi is sparse.FeatureSource finding strongest corners in grayscale frame.
// Block size from sparse.DetectorParams is not exposed by gocv binding and OpenCV default (3) is used.
type ShiTomasi struct{}

// NewShiTomasi creates new instance of ShiTomasi
func NewShiTomasi() *ShiTomasi {
	return &ShiTomasi{}
}

// Detect returns found corners. Empty result is not an error.
func (detector *ShiTomasi) Detect(gray gocv.Mat, params sparse.DetectorParams) ([]sparse.Point, error) {
	if gray.Empty() {
		return nil, errors.New("grayscale frame is empty")
	}
	corners := gocv.NewMat()
	defer corners.Close()
	gocv.GoodFeaturesToTrack(gray, &corners, params.MaxCorners, params.QualityLevel, params.MinDistance)
	return pointsFromMat(corners), nil
}
