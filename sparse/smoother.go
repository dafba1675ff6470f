package sparse

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
)

// EstimateSmoother eases follower position toward aggregated center using 2D Kalman filter.
// It is restarted every time estimate disappears.
type EstimateSmoother struct {
	dt       float64
	tracker  *kalman_filter.Kalman2D
	position Point
}

// NewEstimateSmoother creates smoother with given time step between frames
func NewEstimateSmoother(dt float64) *EstimateSmoother {
	return &EstimateSmoother{
		dt: dt,
	}
}

// Active reports whether smoother currently follows an estimate
func (smoother *EstimateSmoother) Active() bool {
	return smoother.tracker != nil
}

// Position returns smoothed position. Second value is false when smoother is not active.
func (smoother *EstimateSmoother) Position() (Point, bool) {
	if smoother.tracker == nil {
		return Point{}, false
	}
	return smoother.position, true
}

// Observe executes prediction and update steps of Kalman filter for new measurement.
// First measurement after Reset initializes filter state.
func (smoother *EstimateSmoother) Observe(measurement Point) error {
	if smoother.tracker == nil {
		/* Kalman filter props */
		ux := 1.0
		uy := 1.0
		stdDevA := 2.0
		stdDevMx := 0.1
		stdDevMy := 0.1
		smoother.tracker = kalman_filter.NewKalman2D(smoother.dt, ux, uy, stdDevA, stdDevMx, stdDevMy, kalman_filter.WithState2D(measurement.X, measurement.Y))
		smoother.position = measurement
		return nil
	}
	smoother.tracker.Predict()
	err := smoother.tracker.Update(measurement.X, measurement.Y)
	if err != nil {
		return errors.Wrap(err, "Can't update estimate smoother")
	}
	stateX, stateY := smoother.tracker.GetState()
	smoother.position = Point{X: stateX, Y: stateY}
	return nil
}

// Reset drops filter state
func (smoother *EstimateSmoother) Reset() {
	smoother.tracker = nil
	smoother.position = Point{}
}
