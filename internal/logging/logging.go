// Package logging wraps zerolog with the same package-level-logger shape
// used across this codebase's components: a single configured Logger,
// a SetLevel knob, and Debug/Info/Warn/Error/Fatal accessors.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Get returns the package logger, for components that want to attach
// fields (e.g. With().Str("session_id", id)).
func Get() *zerolog.Logger {
	return &log
}

// SetLevel sets the global zerolog level from a config string, defaulting
// to info for anything unrecognized.
func SetLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
func Fatal() *zerolog.Event { return log.Fatal() }
