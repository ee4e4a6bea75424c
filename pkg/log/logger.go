// Package log builds the process logger used by the mirror node CLI and
// services.
package log

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Options select the logger's level and output shape.
type Options struct {
	// Level is a zerolog level name: trace, debug, info, warn, error.
	Level string
	// Pretty switches from JSON lines to a human-readable console format.
	Pretty bool
}

// New builds a zerolog logger writing to w.
func New(w io.Writer, opts Options) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if opts.Pretty {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}
	return logger, nil
}
