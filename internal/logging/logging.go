// Package logging builds the application's zerolog logger.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mvanetten/stock-portfolio-analytics/internal/config"
)

// New constructs a logger from the logging configuration. Pretty output uses
// the console writer for local development; otherwise structured JSON goes
// to stderr.
func New(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Pretty {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		logger = zerolog.New(output)
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Logger()
}

// SetGlobal installs the logger as zerolog's package-level default.
func SetGlobal(l zerolog.Logger) {
	log.Logger = l
}
