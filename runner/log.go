package runner

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// loggerName tags every event the engine emits.
const loggerName = "command_runner"

var (
	logMu      sync.RWMutex
	baseLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Str("logger", loggerName).Logger()
)

// SetLogger replaces the process-wide engine logger. Invocations that
// pass WithLogger are unaffected.
func SetLogger(l zerolog.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	baseLogger = l.With().Str("logger", loggerName).Logger()
}

// Logger returns the process-wide engine logger.
func Logger() zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return baseLogger
}

// runLogger derives the per-invocation logger: run ID attached, level
// floor raised to error when Silent is set.
func runLogger(o *Options, runID string) zerolog.Logger {
	l := Logger()
	if o.Logger != nil {
		l = *o.Logger
	}
	l = l.With().Str("run_id", runID).Logger()
	if o.Silent {
		l = l.Level(zerolog.ErrorLevel)
	}
	return l
}
