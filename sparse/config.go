package sparse

import (
	"image"

	"github.com/pkg/errors"
)

// DetectorParams are parameters for Shi-Tomasi corner detection
type DetectorParams struct {
	// Maximum number of corners to return
	MaxCorners int
	// Minimal accepted quality of corners relative to the best one
	QualityLevel float64
	// Minimum euclidean distance between returned corners
	MinDistance float64
	// Size of averaging block for derivative covariation matrix
	BlockSize int
}

// TermCriteria defines when iterative search of pyramidal Lucas-Kanade stops
type TermCriteria struct {
	MaxCount int
	Epsilon  float64
}

// EstimatorParams are parameters for pyramidal Lucas-Kanade optical flow
type EstimatorParams struct {
	// Size of search window at each pyramid level
	WindowSize image.Point
	// 0-based maximal pyramid level number
	MaxPyramidLevel int
	Criteria        TermCriteria
}

// Config is configuration of a single tracking session
type Config struct {
	// Number of positions each marker remembers. Default is 5
	HistoryLength int
	// Displacement along either axis which makes marker moving (in pixels). Default is 1.5
	MovementThreshold float64
	// Number of consecutive frames without enough moving markers before reseed. Default is 3
	ResetTimeThreshold int
	// Number of moving markers which has to be exceeded to prevent reseed. Default is 2
	MovingMarkersLockCount int
	Detector               DetectorParams
	Estimator              EstimatorParams
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		HistoryLength:          5,
		MovementThreshold:      1.5,
		ResetTimeThreshold:     3,
		MovingMarkersLockCount: 2,
		Detector: DetectorParams{
			MaxCorners:   300,
			QualityLevel: 0.2,
			MinDistance:  2,
			BlockSize:    7,
		},
		Estimator: EstimatorParams{
			WindowSize:      image.Pt(15, 15),
			MaxPyramidLevel: 2,
			Criteria: TermCriteria{
				MaxCount: 10,
				Epsilon:  0.03,
			},
		},
	}
}

// Validate checks that configuration can drive a session
func (cfg Config) Validate() error {
	if cfg.HistoryLength < 2 {
		return errors.Errorf("history length must be at least 2, got %d", cfg.HistoryLength)
	}
	if cfg.MovementThreshold < 0 {
		return errors.Errorf("movement threshold must be non-negative, got %f", cfg.MovementThreshold)
	}
	if cfg.ResetTimeThreshold < 1 {
		return errors.Errorf("reset time threshold must be positive, got %d", cfg.ResetTimeThreshold)
	}
	if cfg.MovingMarkersLockCount < 0 {
		return errors.Errorf("moving markers lock count must be non-negative, got %d", cfg.MovingMarkersLockCount)
	}
	if cfg.Detector.MaxCorners < 0 {
		return errors.Errorf("max corners must be non-negative, got %d", cfg.Detector.MaxCorners)
	}
	if cfg.Detector.MinDistance < 0 {
		return errors.Errorf("min distance must be non-negative, got %f", cfg.Detector.MinDistance)
	}
	if cfg.Detector.BlockSize < 0 {
		return errors.Errorf("block size must be non-negative, got %d", cfg.Detector.BlockSize)
	}
	if cfg.Detector.QualityLevel <= 0 {
		return errors.Errorf("quality level must be positive, got %f", cfg.Detector.QualityLevel)
	}
	if cfg.Estimator.WindowSize.X <= 0 || cfg.Estimator.WindowSize.Y <= 0 {
		return errors.Errorf("estimator window size must be positive, got %v", cfg.Estimator.WindowSize)
	}
	if cfg.Estimator.MaxPyramidLevel < 0 {
		return errors.Errorf("max pyramid level must be non-negative, got %d", cfg.Estimator.MaxPyramidLevel)
	}
	return nil
}
