package main

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LdDl/sparse-flow-go/config"
	"github.com/LdDl/sparse-flow-go/cvflow"
	"github.com/LdDl/sparse-flow-go/sparse"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

var (
	configDir = flag.String("config", ".", "Directory containing sparse-flow.{json,yaml}")
	source    = flag.String("source", "", "Video file or camera index. Overrides value from configuration")
	maxFrames = flag.Int("frames", 0, "Stop after given number of frames, 0 means whole stream")
)

func main() {
	flag.Parse()

	settings, err := config.Load(*configDir)
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("Failed to load config")
	}
	if *source != "" {
		settings.Source = *source
	}
	logger := setupLogging(settings.LogLevel)

	err = run(settings, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Tracking stopped")
	}
}

func setupLogging(level string) zerolog.Logger {
	var logLevelActual zerolog.Level
	switch strings.ToUpper(level) {
	case "TRACE":
		logLevelActual = zerolog.TraceLevel
	case "DEBUG":
		logLevelActual = zerolog.DebugLevel
	case "INFO":
		logLevelActual = zerolog.InfoLevel
	case "WARN":
		logLevelActual = zerolog.WarnLevel
	case "ERROR":
		logLevelActual = zerolog.ErrorLevel
	default:
		logLevelActual = zerolog.InfoLevel
	}
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).Level(logLevelActual).With().Timestamp().Logger()
}

func openCapture(src string) (*gocv.VideoCapture, error) {
	if _, err := os.Stat(src); err == nil {
		return gocv.VideoCaptureFile(src)
	}
	deviceID, err := strconv.Atoi(src)
	if err != nil {
		return nil, errors.Errorf("source '%s' is neither a file nor a camera index", src)
	}
	return gocv.VideoCaptureDevice(deviceID)
}

func run(settings *config.Settings, logger zerolog.Logger) error {
	capture, err := openCapture(settings.Source)
	if err != nil {
		return errors.Wrap(err, "Can't open video source")
	}
	defer capture.Close()

	preprocessor, err := cvflow.NewBlurGray(settings.BlurPower)
	if err != nil {
		return err
	}
	opts := []sparse.Option{
		sparse.WithLogger(logger.With().Str("source", settings.Source).Logger()),
	}
	if settings.Smoothing {
		opts = append(opts, sparse.WithSmoothing(1.0/settings.FPS))
	}
	session, err := sparse.NewSession(settings.Tracking, sparse.Collaborators[gocv.Mat]{
		Detector:     cvflow.NewShiTomasi(),
		Estimator:    cvflow.NewLucasKanade(),
		Preprocessor: preprocessor,
		Retainer:     cvflow.MatRetainer{},
	}, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := session.Release(); releaseErr != nil {
			logger.Error().Err(releaseErr).Msg("Can't release tracking session")
		}
	}()

	frame := gocv.NewMat()
	defer frame.Close()

	logger.Info().Str("source", settings.Source).Msg("Tracking started")
	for frameIdx := 0; *maxFrames == 0 || frameIdx < *maxFrames; frameIdx++ {
		if ok := capture.Read(&frame); !ok || frame.Empty() {
			break
		}
		err = session.Feed(frame)
		if err != nil {
			if sparse.IsReconciliationError(err) {
				logger.Error().Err(err).Int("frame", frameIdx).Msg("Tracking state has been reset")
				continue
			}
			return errors.Wrapf(err, "Can't process frame %d", frameIdx)
		}
		position, ok := session.CurrentPosition()
		if !ok {
			logger.Debug().Int("frame", frameIdx).Str("state", session.State().String()).Msg("No estimate")
			continue
		}
		direction, _ := session.CurrentDirection()
		event := logger.Info().
			Int("frame", frameIdx).
			Int("x", position.X).
			Int("y", position.Y).
			Int("dx", direction.X).
			Int("dy", direction.Y)
		if smoothed, ok := session.SmoothedPosition(); ok {
			event = event.Float64("sx", smoothed.X).Float64("sy", smoothed.Y)
		}
		event.Msg("Position")
	}

	stats := session.Stats()
	logger.Info().
		Int("frames", stats.Frames).
		Int("estimates", stats.Estimates).
		Int("reseeds_hysteresis", stats.Reseeds[sparse.ReseedHysteresis]).
		Int("reseeds_tracking_lost", stats.Reseeds[sparse.ReseedTrackingLost]).
		Int("reseeds_no_points", stats.Reseeds[sparse.ReseedNoPoints]).
		Msg("Tracking finished")
	return nil
}
