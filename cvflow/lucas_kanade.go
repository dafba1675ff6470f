package cvflow

import (
	"github.com/LdDl/sparse-flow-go/sparse"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// LucasKanade is sparse.MotionEstimator based on pyramidal Lucas-Kanade optical flow
type LucasKanade struct{}

// NewLucasKanade creates new instance of LucasKanade
func NewLucasKanade() *LucasKanade {
	return &LucasKanade{}
}

// Track finds previous points in the current frame.
// Survivors keep relative order of points with status 1.
func (estimator *LucasKanade) Track(prevGray, curGray gocv.Mat, prevPoints []sparse.Point, params sparse.EstimatorParams) (sparse.TrackResult, bool, error) {
	if prevGray.Empty() || curGray.Empty() {
		return sparse.TrackResult{}, false, errors.New("frames for optical flow must not be empty")
	}
	if len(prevPoints) == 0 {
		return sparse.TrackResult{}, false, nil
	}
	prevPts := matFromPoints(prevPoints)
	defer prevPts.Close()
	nextPts := gocv.NewMat()
	defer nextPts.Close()
	status := gocv.NewMat()
	defer status.Close()
	errMat := gocv.NewMat()
	defer errMat.Close()

	criteria := gocv.NewTermCriteria(gocv.Count|gocv.EPS, params.Criteria.MaxCount, params.Criteria.Epsilon)
	gocv.CalcOpticalFlowPyrLKWithParams(prevGray, curGray, prevPts, nextPts, &status, &errMat,
		params.WindowSize, params.MaxPyramidLevel, criteria, 0, 1e-4)

	if status.Empty() || nextPts.Empty() {
		return sparse.TrackResult{}, false, nil
	}
	if status.Rows() != len(prevPoints) {
		return sparse.TrackResult{}, false, errors.Errorf("optical flow returned %d statuses for %d points", status.Rows(), len(prevPoints))
	}

	nextPoints := pointsFromMat(nextPts)
	result := sparse.TrackResult{
		Survivors: make([]sparse.Point, 0, len(prevPoints)),
		Status:    make([]bool, len(prevPoints)),
		Errors:    make([]float32, len(prevPoints)),
	}
	for i := range prevPoints {
		if !errMat.Empty() {
			result.Errors[i] = errMat.GetFloatAt(i, 0)
		}
		if status.GetUCharAt(i, 0) != 1 {
			continue
		}
		result.Status[i] = true
		result.Survivors = append(result.Survivors, nextPoints[i])
	}
	if len(result.Survivors) == 0 {
		return result, false, nil
	}
	return result, true, nil
}
