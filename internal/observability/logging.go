// Package observability builds the zap loggers used across the server.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/emberfall/internal/config"
)

// ServiceName is attached to every JSON log line.
const ServiceName = "emberfall"

// presets maps a configured format to its zap base configuration.
var presets = map[string]func() zap.Config{
	"json": func() zap.Config {
		c := zap.NewProductionConfig()
		c.InitialFields = map[string]any{"service": ServiceName}
		return c
	},
	"console": func() zap.Config {
		c := zap.NewDevelopmentConfig()
		c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return c
	},
}

// NewLogger builds the process logger from the logging section of the config.
//
// Precondition: cfg.Level is a zap level name and cfg.Format is "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	preset, ok := presets[cfg.Format]
	if !ok {
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}

	zc := preset()
	zc.Level = level
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building %s logger: %w", cfg.Format, err)
	}
	return logger, nil
}

// ForGame returns a child logger tagged with a game id and, when non-empty,
// an encounter id.
func ForGame(logger *zap.Logger, gameID, encounterID string) *zap.Logger {
	l := logger.With(zap.String("game_id", gameID))
	if encounterID != "" {
		l = l.With(zap.String("encounter_id", encounterID))
	}
	return l
}
