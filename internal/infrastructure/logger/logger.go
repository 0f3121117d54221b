// Package logger configures the global zerolog logger and carries
// scan-run correlation fields through a context.Context.
package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ContextKey is a type for context keys.
type ContextKey string

// JobIDKey correlates log lines emitted during one scanner run with the
// BackgroundJob record that tracks it.
const JobIDKey ContextKey = "job_id"

// Config holds logger configuration.
type Config struct {
	Level  string
	Format string // "json" or "console"
	Caller bool
}

// Setup initializes the global logger from cfg.
func Setup(cfg Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		})
	}

	if cfg.Caller {
		log.Logger = log.With().Caller().Logger()
	}
}

// WithJobID attaches a scan run's job_id to ctx for later retrieval by
// WithContext.
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, JobIDKey, jobID)
}

// WithContext returns the global logger with ctx's job_id field applied,
// if one was set.
func WithContext(ctx context.Context) zerolog.Logger {
	logger := log.Logger

	if jobID, ok := ctx.Value(JobIDKey).(string); ok && jobID != "" {
		logger = logger.With().Str("job_id", jobID).Logger()
	}

	return logger
}
