package sparse

import (
	"image"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// State is lifecycle state of a tracking session
type State uint16

const (
	// StateBootstrap means there is no previous frame yet: next frame is used for seeding only
	StateBootstrap State = iota
	// StateTracking means markers are followed with motion estimator
	StateTracking
	// StateReleased means session does not accept frames anymore
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateBootstrap:
		return "bootstrap"
	case StateTracking:
		return "tracking"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// ReseedReason describes why marker set has been regenerated
type ReseedReason string

const (
	// ReseedHysteresis - not enough moving markers for too long
	ReseedHysteresis ReseedReason = "hysteresis"
	// ReseedTrackingLost - motion estimator found no correspondences
	ReseedTrackingLost ReseedReason = "tracking_lost"
	// ReseedNoPoints - previous detection returned no points to track
	ReseedNoPoints ReseedReason = "no_points"
)

// Collaborators groups external computer-vision operations used by session.
// Detector and Estimator are mandatory.
type Collaborators[F any] struct {
	Detector  FeatureSource[F]
	Estimator MotionEstimator[F]
	// Optional. When nil frames are treated as already preprocessed grayscale frames
	Preprocessor Preprocessor[F]
	// Optional. When nil frames are kept as is
	Retainer FrameRetainer[F]
}

// Stats holds per-session counters
type Stats struct {
	Frames          int
	Estimates       int
	Reseeds         map[ReseedReason]int
	LastMovingCount int
}

// Option configures optional session behaviour
type Option func(*options)

type options struct {
	logger      zerolog.Logger
	smoothing   bool
	smoothingDT float64
}

// WithLogger sets logger for session events. Default is zerolog.Nop()
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSmoothing enables Kalman smoothing of aggregated center with given time step between frames
func WithSmoothing(dt float64) Option {
	return func(o *options) {
		o.smoothing = true
		o.smoothingDT = dt
	}
}

// Session follows sparse feature points frame-to-frame and reduces moving ones into a single estimate.
// Session is not safe for concurrent use: frames must be fed sequentially. Independent video feeds need independent sessions.
type Session[F any] struct {
	cfg           Config
	collaborators Collaborators[F]
	logger        zerolog.Logger

	markers    *MarkerSet
	hysteresis *Hysteresis
	smoother   *EstimateSmoother

	state      State
	prevGray   F
	hasPrev    bool
	prevPoints []Point

	estimate    Estimate
	hasEstimate bool

	stats Stats
}

// NewSessionDefault creates session with DefaultConfig()
func NewSessionDefault[F any](collaborators Collaborators[F], opts ...Option) (*Session[F], error) {
	return NewSession(DefaultConfig(), collaborators, opts...)
}

// NewSession creates new instance of Session
func NewSession[F any](cfg Config, collaborators Collaborators[F], opts ...Option) (*Session[F], error) {
	err := cfg.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "Invalid session configuration")
	}
	if collaborators.Detector == nil {
		return nil, errors.New("feature source must be provided")
	}
	if collaborators.Estimator == nil {
		return nil, errors.New("motion estimator must be provided")
	}
	if collaborators.Retainer == nil {
		collaborators.Retainer = keepAsIs[F]{}
	}
	o := options{
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	session := Session[F]{
		cfg:           cfg,
		collaborators: collaborators,
		logger:        o.logger,
		markers:       NewMarkerSet(cfg.HistoryLength, cfg.MovementThreshold),
		hysteresis:    NewHysteresis(cfg.ResetTimeThreshold, cfg.MovingMarkersLockCount),
		state:         StateBootstrap,
		stats: Stats{
			Reseeds: make(map[ReseedReason]int),
		},
	}
	if o.smoothing {
		session.smoother = NewEstimateSmoother(o.smoothingDT)
	}
	return &session, nil
}

// Config returns session configuration
func (session *Session[F]) Config() Config {
	return session.cfg
}

// State returns current lifecycle state
func (session *Session[F]) State() State {
	return session.state
}

// Markers returns current markers in index order
func (session *Session[F]) Markers() []*Marker {
	return session.markers.Markers()
}

// MovingMarkers returns markers classified as moving on the last frame
func (session *Session[F]) MovingMarkers() []*Marker {
	return session.markers.MovingSubset()
}

// Stats returns copy of session counters
func (session *Session[F]) Stats() Stats {
	stats := session.stats
	stats.Reseeds = make(map[ReseedReason]int, len(session.stats.Reseeds))
	for reason, count := range session.stats.Reseeds {
		stats.Reseeds[reason] = count
	}
	return stats
}

// Estimate returns estimate computed for the last frame
func (session *Session[F]) Estimate() (Estimate, bool) {
	return session.estimate, session.hasEstimate
}

// CurrentPosition returns aggregated center of moving markers for the last frame
func (session *Session[F]) CurrentPosition() (image.Point, bool) {
	return session.estimate.Center, session.hasEstimate
}

// CurrentDirection returns aggregated direction of moving markers for the last frame
func (session *Session[F]) CurrentDirection() (image.Point, bool) {
	return session.estimate.Direction, session.hasEstimate
}

// SmoothedPosition returns Kalman-smoothed center. Second value is false when smoothing is disabled or there is no estimate.
func (session *Session[F]) SmoothedPosition() (Point, bool) {
	if session.smoother == nil {
		return Point{}, false
	}
	return session.smoother.Position()
}

// Feed advances session by exactly one frame.
// Absence of points or estimate is not an error: check CurrentPosition() afterwards.
// Errors are either wrapped collaborator failures or *ReconciliationError.
func (session *Session[F]) Feed(frame F) error {
	if session.state == StateReleased {
		return ErrReleased
	}
	session.clearEstimate()
	cur, err := session.prepare(frame)
	if err != nil {
		return errors.Wrap(err, "Can't prepare frame")
	}
	session.stats.Frames++

	// Motion estimation requires two frames: first one is used for seeding only
	if !session.hasPrev {
		return session.seed(cur, "")
	}
	if len(session.prevPoints) == 0 {
		return session.seed(cur, ReseedNoPoints)
	}

	result, ok, err := session.collaborators.Estimator.Track(session.prevGray, cur, session.prevPoints, session.cfg.Estimator)
	if err != nil {
		session.collaborators.Retainer.Discard(cur)
		return errors.Wrap(err, "Can't track points")
	}
	if !ok || len(result.Survivors) == 0 {
		return session.seed(cur, ReseedTrackingLost)
	}

	err = session.reconcile(result)
	if err != nil {
		session.logger.Error().Err(err).Msg("Markers are not aligned with motion estimator output, session is restarted")
		session.collaborators.Retainer.Discard(cur)
		session.restart()
		return err
	}

	moving := session.markers.MovingSubset()
	session.stats.LastMovingCount = len(moving)
	decision := session.hysteresis.Observe(len(moving))
	if decision == DecisionReseed {
		return session.seed(cur, ReseedHysteresis)
	}

	session.advance(cur, result.Survivors)
	return session.aggregate(moving)
}

// Release drops retained frame and closes collaborators which implement io.Closer.
// It is safe to call Release multiple times.
func (session *Session[F]) Release() error {
	if session.state == StateReleased {
		return nil
	}
	session.dropPrevious()
	session.markers.Reseed(nil)
	session.clearEstimate()
	session.state = StateReleased

	var firstErr error
	closers := []any{
		session.collaborators.Detector,
		session.collaborators.Estimator,
		session.collaborators.Preprocessor,
	}
	for _, collaborator := range closers {
		closer, ok := collaborator.(io.Closer)
		if !ok {
			continue
		}
		err := closer.Close()
		if err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "Can't close collaborator")
		}
	}
	return firstErr
}

func (session *Session[F]) prepare(frame F) (F, error) {
	if session.collaborators.Preprocessor != nil {
		return session.collaborators.Preprocessor.Prepare(frame)
	}
	return session.collaborators.Retainer.Retain(frame), nil
}

// seed replaces markers with freshly detected points. Empty reason means bootstrap.
func (session *Session[F]) seed(cur F, reason ReseedReason) error {
	points, err := session.collaborators.Detector.Detect(cur, session.cfg.Detector)
	if err != nil {
		session.collaborators.Retainer.Discard(cur)
		session.restart()
		return errors.Wrap(err, "Can't detect features")
	}
	session.markers.Reseed(points)
	session.hysteresis.Reset()
	if session.smoother != nil {
		session.smoother.Reset()
	}
	session.advance(cur, points)

	if reason == "" {
		session.logger.Debug().Int("points", len(points)).Msg("Markers seeded")
		return nil
	}
	session.stats.Reseeds[reason]++
	event := session.logger.Debug().
		Str("reason", string(reason)).
		Int("points", len(points))
	if reason == ReseedHysteresis {
		event = event.Int("moving", session.stats.LastMovingCount)
	}
	event.Msg("Markers reseeded")
	return nil
}

func (session *Session[F]) reconcile(result TrackResult) error {
	valid := countValid(result.Status)
	if len(result.Status) != session.markers.Len() || valid != len(result.Survivors) {
		return &ReconciliationError{
			Markers:   session.markers.Len(),
			Status:    len(result.Status),
			Valid:     valid,
			Survivors: len(result.Survivors),
			Reason:    "motion estimator output is not aligned with markers",
		}
	}
	err := session.markers.Reconcile(result.Status)
	if err != nil {
		return err
	}
	return session.markers.UpdatePositions(result.Survivors)
}

func (session *Session[F]) aggregate(moving []*Marker) error {
	estimate, ok := Aggregate(moving)
	if !ok {
		if session.smoother != nil {
			session.smoother.Reset()
		}
		return nil
	}
	session.estimate = estimate
	session.hasEstimate = true
	session.stats.Estimates++
	event := session.logger.Trace().
		Int("moving", len(moving)).
		Int("x", estimate.Center.X).
		Int("y", estimate.Center.Y).
		Int("dx", estimate.Direction.X).
		Int("dy", estimate.Direction.Y)
	if session.smoother == nil {
		event.Msg("Estimate")
		return nil
	}
	center := NewPointFrom(estimate.Center)
	err := session.smoother.Observe(center)
	if err != nil {
		session.smoother.Reset()
		event.Discard()
		return errors.Wrap(err, "Can't smooth estimate")
	}
	smoothed, _ := session.smoother.Position()
	event.Float64("lag", euclideanDistance(center, smoothed)).Msg("Estimate")
	return nil
}

// advance makes cur the previous frame for the next Feed call
func (session *Session[F]) advance(cur F, points []Point) {
	session.dropPrevious()
	session.prevGray = cur
	session.hasPrev = true
	session.prevPoints = make([]Point, len(points))
	copy(session.prevPoints, points)
	session.state = StateTracking
}

func (session *Session[F]) dropPrevious() {
	if session.hasPrev {
		session.collaborators.Retainer.Discard(session.prevGray)
	}
	var zero F
	session.prevGray = zero
	session.hasPrev = false
	session.prevPoints = nil
}

// restart returns session to bootstrap state
func (session *Session[F]) restart() {
	session.dropPrevious()
	session.markers.Reseed(nil)
	session.hysteresis.Reset()
	if session.smoother != nil {
		session.smoother.Reset()
	}
	session.state = StateBootstrap
}

func (session *Session[F]) clearEstimate() {
	session.estimate = Estimate{}
	session.hasEstimate = false
}
