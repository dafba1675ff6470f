package sparse

// Decision is outcome of a single hysteresis observation
type Decision uint16

const (
	// DecisionTrack keeps current markers
	DecisionTrack Decision = iota
	// DecisionReseed discards current markers and requests fresh feature detection
	DecisionReseed
)

func (d Decision) String() string {
	switch d {
	case DecisionTrack:
		return "track"
	case DecisionReseed:
		return "reseed"
	default:
		return "unknown"
	}
}

// Hysteresis tolerates a few frames without enough moving markers before requesting reseed
type Hysteresis struct {
	// Number of consecutive quiet frames that triggers reseed
	resetTimeThreshold int
	// Number of moving markers that has to be exceeded to consider frame healthy
	movingMarkersLockCount int
	counter                int
}

// NewHysteresis creates new instance of Hysteresis
func NewHysteresis(resetTimeThreshold, movingMarkersLockCount int) *Hysteresis {
	return &Hysteresis{
		resetTimeThreshold:     resetTimeThreshold,
		movingMarkersLockCount: movingMarkersLockCount,
		counter:                0,
	}
}

// Observe consumes number of moving markers measured after current frame has been reconciled and classified.
// Counter is reset when reseed is requested.
func (h *Hysteresis) Observe(movingCount int) Decision {
	if movingCount > h.movingMarkersLockCount {
		h.counter = 0
	} else {
		h.counter++
	}
	if h.counter >= h.resetTimeThreshold {
		h.counter = 0
		return DecisionReseed
	}
	return DecisionTrack
}

// Reset sets counter to zero
func (h *Hysteresis) Reset() {
	h.counter = 0
}

// Counter returns number of consecutive quiet frames observed so far
func (h *Hysteresis) Counter() int {
	return h.counter
}
