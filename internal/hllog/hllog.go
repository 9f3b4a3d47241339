// Package hllog builds the zerolog.Logger instances passed into every
// package's constructor. There is no package-level logger here; callers
// build one with New and inject it explicitly, matching the rest of the
// module's preference for constructor injection over global state.
package hllog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options controls the shape of the constructed logger.
type Options struct {
	// Level is a zerolog level name ("debug", "info", "warn", "error",
	// "disabled"). Defaults to "info" when empty.
	Level string
	// Development switches from structured JSON to a human-readable
	// zerolog.ConsoleWriter, matching local-dev logging in the rest of
	// the pack.
	Development bool
	// Writer overrides the output sink; defaults to os.Stderr.
	Writer io.Writer
}

// New builds a zerolog.Logger per opts. It never touches the global
// zerolog.Logger or zerolog.SetGlobalLevel; the returned logger carries
// its own level.
func New(opts Options) zerolog.Logger {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		if l, err := zerolog.ParseLevel(opts.Level); err == nil {
			level = l
		}
	}

	var w io.Writer = opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if opts.Development {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything, for tests and callers
// that don't want logging.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
