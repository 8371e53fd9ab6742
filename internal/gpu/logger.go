//go:build !nogpu

package gpu

import (
	"log/slog"
	"sync/atomic"
)

var discard = slog.New(slog.DiscardHandler)

// loggerPtr holds the compositor logger; nil means silent.
var loggerPtr atomic.Pointer[slog.Logger]

// slogger returns the logger for compositor diagnostics.
func slogger() *slog.Logger {
	if l := loggerPtr.Load(); l != nil {
		return l
	}
	return discard
}

// SetLogger sets the logger used by the compositors. Records carry a
// component=gpu attribute. Nil silences them again.
func SetLogger(l *slog.Logger) {
	if l == nil {
		loggerPtr.Store(nil)
		return
	}
	loggerPtr.Store(l.With("component", "gpu"))
}
