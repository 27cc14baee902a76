// Package logctx is a thin wrapper over charmbracelet/log with a small set
// of named severities: info, error, receive-path trace, decoded-output
// trace and debug. Nothing here touches a terminal directly; it only
// configures one shared *log.Logger and hands out leveled helpers by name.
package logctx

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Severity picks a log level for a category of message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
	SeverityReceive
	SeverityDecoded
	SeverityDebug
)

var base = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05.000",
})

// Init sets the base logger's minimum level and output destination. Call it
// once at process start; every Logger obtained via For shares the same
// underlying writer and level.
func Init(level log.Level, w io.Writer) {
	if w != nil {
		base.SetOutput(w)
	}
	base.SetLevel(level)
}

// For returns a named, leveled logger for one component. All components
// share the same underlying writer and level, set via Init.
func For(component string) *log.Logger {
	return base.With("component", component)
}

// Log writes msg at the level implied by sev, with keyvals appended as
// structured fields.
func Log(l *log.Logger, sev Severity, msg string, keyvals ...interface{}) {
	switch sev {
	case SeverityError:
		l.Error(msg, keyvals...)
	case SeverityDebug:
		l.Debug(msg, keyvals...)
	case SeverityReceive, SeverityDecoded:
		l.Info(msg, keyvals...)
	default:
		l.Info(msg, keyvals...)
	}
}
