package sparse

// FeatureSource locates candidate points in a grayscale frame.
// F is the frame handle type of the underlying computer-vision library.
type FeatureSource[F any] interface {
	Detect(gray F, params DetectorParams) ([]Point, error)
}

// TrackResult is outcome of motion estimation between two frames.
// Status is index-aligned with previous points, Survivors contains positions of valid ones in their previous relative order.
type TrackResult struct {
	Survivors []Point
	Status    []bool
	Errors    []float32
}

// MotionEstimator matches previous points in the current frame.
// Second value is false when estimator produced no correspondences at all.
type MotionEstimator[F any] interface {
	Track(prevGray, curGray F, prevPoints []Point, params EstimatorParams) (TrackResult, bool, error)
}

// Preprocessor prepares raw frame for detection and tracking (blur, color conversion, cropping).
// Returned frame is owned by the session and handed back to FrameRetainer.Discard when no longer needed.
type Preprocessor[F any] interface {
	Prepare(frame F) (F, error)
}

// FrameRetainer manages lifetime of frames kept between two Feed calls
type FrameRetainer[F any] interface {
	// Retain returns frame handle which stays valid after caller reuses its own frame
	Retain(frame F) F
	// Discard releases frame obtained from Retain or Preprocessor
	Discard(frame F)
}

// keepAsIs is FrameRetainer for frame types without external resources
type keepAsIs[F any] struct{}

func (keepAsIs[F]) Retain(frame F) F { return frame }
func (keepAsIs[F]) Discard(F)        {}
