package config

import (
	"image"

	"github.com/LdDl/sparse-flow-go/sparse"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ConfigName is name of configuration file without extension
const ConfigName = "sparse-flow"

// Settings holds everything needed to run tracking on a video source
type Settings struct {
	LogLevel string
	// Video file path or camera index
	Source string
	// Gaussian kernel size used before detection and tracking, 0 disables blur
	BlurPower int
	// Enables Kalman smoothing of aggregated position
	Smoothing bool
	// Frames per second used as smoothing time step
	FPS      float64
	Tracking sparse.Config
}

func setDefaults(v *viper.Viper) {
	defaults := sparse.DefaultConfig()

	v.SetDefault("logLevel", "info")
	v.SetDefault("source", "0")
	v.SetDefault("blurPower", 15)
	v.SetDefault("smoothing", false)
	v.SetDefault("fps", 25.0)

	v.SetDefault("tracking.historyLength", defaults.HistoryLength)
	v.SetDefault("tracking.movementThreshold", defaults.MovementThreshold)
	v.SetDefault("tracking.resetTimeThreshold", defaults.ResetTimeThreshold)
	v.SetDefault("tracking.movingMarkersLockCount", defaults.MovingMarkersLockCount)

	v.SetDefault("detector.maxCorners", defaults.Detector.MaxCorners)
	v.SetDefault("detector.qualityLevel", defaults.Detector.QualityLevel)
	v.SetDefault("detector.minDistance", defaults.Detector.MinDistance)
	v.SetDefault("detector.blockSize", defaults.Detector.BlockSize)

	v.SetDefault("estimator.windowWidth", defaults.Estimator.WindowSize.X)
	v.SetDefault("estimator.windowHeight", defaults.Estimator.WindowSize.Y)
	v.SetDefault("estimator.maxPyramidLevel", defaults.Estimator.MaxPyramidLevel)
	v.SetDefault("estimator.criteria.maxCount", defaults.Estimator.Criteria.MaxCount)
	v.SetDefault("estimator.criteria.epsilon", defaults.Estimator.Criteria.Epsilon)
}

// Load reads configuration file from configDir and fills missing values with defaults.
// Supported formats are the ones viper detects by extension (json, yaml, toml).
// Missing file is not an error: defaults are used.
func Load(configDir string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(ConfigName)
	v.AddConfigPath(configDir)

	err := v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "error reading config file")
		}
	}
	return fromViper(v)
}

// LoadFile reads configuration from exact file path
func LoadFile(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	err := v.ReadInConfig()
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Settings, error) {
	settings := Settings{
		LogLevel:  v.GetString("logLevel"),
		Source:    v.GetString("source"),
		BlurPower: v.GetInt("blurPower"),
		Smoothing: v.GetBool("smoothing"),
		FPS:       v.GetFloat64("fps"),
		Tracking: sparse.Config{
			HistoryLength:          v.GetInt("tracking.historyLength"),
			MovementThreshold:      v.GetFloat64("tracking.movementThreshold"),
			ResetTimeThreshold:     v.GetInt("tracking.resetTimeThreshold"),
			MovingMarkersLockCount: v.GetInt("tracking.movingMarkersLockCount"),
			Detector: sparse.DetectorParams{
				MaxCorners:   v.GetInt("detector.maxCorners"),
				QualityLevel: v.GetFloat64("detector.qualityLevel"),
				MinDistance:  v.GetFloat64("detector.minDistance"),
				BlockSize:    v.GetInt("detector.blockSize"),
			},
			Estimator: sparse.EstimatorParams{
				WindowSize:      image.Pt(v.GetInt("estimator.windowWidth"), v.GetInt("estimator.windowHeight")),
				MaxPyramidLevel: v.GetInt("estimator.maxPyramidLevel"),
				Criteria: sparse.TermCriteria{
					MaxCount: v.GetInt("estimator.criteria.maxCount"),
					Epsilon:  v.GetFloat64("estimator.criteria.epsilon"),
				},
			},
		},
	}
	if settings.FPS <= 0 {
		return nil, errors.Errorf("fps must be positive, got %f", settings.FPS)
	}
	err := settings.Tracking.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "invalid tracking configuration")
	}
	return &settings, nil
}
