package logger

import (
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func New() zerolog.Logger {
	return newWithWriter(output())
}

// ParseLevel falls back to info for empty or unknown names.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || name == "" {
		return zerolog.InfoLevel
	}
	return level
}

// WithRunID tags every event of a single report run.
func WithRunID(logger zerolog.Logger) (zerolog.Logger, string) {
	runID := uuid.New().String()
	return logger.With().Str("run_id", runID).Logger(), runID
}

func newWithWriter(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger()

	logger = logger.Level(zerolog.DebugLevel)

	return logger
}

func output() io.Writer {
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}
	return os.Stdout
}

var Module = fx.Provide(New)
