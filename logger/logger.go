// Package logger builds the component-tagged zerolog loggers used across the
// analysis run.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr so the dataset summary and forecast
// tables keep stdout to themselves. All lines carry the component field.
func New(component, level string, pretty bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, component, level, pretty)
}

// NewWithWriter is New with an explicit destination. Unknown level names
// fall back to info.
func NewWithWriter(w io.Writer, component, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("component", component).Logger()
}
