// Package observability builds the game's structured loggers.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/skirmish/internal/config"
)

// NewLogger creates a structured logger from the given logging configuration.
// Entries go to cfg.File when set, otherwise to stderr. Stdout is never used:
// it belongs to the text presentation.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	zapCfg, err := baseConfig(cfg.Format)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := "stderr"
	if cfg.File != "" {
		sink = cfg.File
	}
	zapCfg.OutputPaths = []string{sink}
	zapCfg.ErrorOutputPaths = []string{sink}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger for %s: %w", sink, err)
	}
	return logger, nil
}

func baseConfig(format string) (zap.Config, error) {
	switch format {
	case "json":
		return zap.NewProductionConfig(), nil
	case "console":
		cfg := zap.NewDevelopmentConfig()
		// Stack traces on every Warn drown the battle log.
		cfg.Development = false
		cfg.DisableStacktrace = true
		return cfg, nil
	default:
		return zap.Config{}, fmt.Errorf("unknown log format %q", format)
	}
}

// Component returns a child logger tagged with the subsystem name.
//
// Precondition: logger must be non-nil.
func Component(logger *zap.Logger, name string) *zap.Logger {
	return logger.Named(name).With(zap.String("component", name))
}
