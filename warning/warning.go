// Package warning is the advisory diagnostic sink: a condition and a message,
// logged only when the condition is false. Warnings never panic and never
// return errors. Builds tagged `production` compile it down to a no-op.
package warning

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Func is the signature of a diagnostic sink.
type Func func(condition bool, message string)

var defaultLogger atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()
	defaultLogger.Store(&l)
}

// SetLogger replaces the logger used by Warn.
func SetLogger(l zerolog.Logger) {
	defaultLogger.Store(&l)
}

// Enabled reports whether warnings are emitted in this build.
func Enabled() bool {
	return enabled
}

// Warn logs message at warn level when condition is false.
func Warn(condition bool, message string) {
	if !enabled || condition {
		return
	}
	defaultLogger.Load().Warn().Msg(message)
}

// New returns a sink bound to l instead of the package logger.
func New(l zerolog.Logger) Func {
	return func(condition bool, message string) {
		if !enabled || condition {
			return
		}
		l.Warn().Msg(message)
	}
}
