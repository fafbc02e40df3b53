package opentui

import (
	"os"

	"github.com/charmbracelet/log"
)

// LogLevel is the severity of a diagnostic message reported through a
// LogFunc.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "debug"
	case LogInfo:
		return "info"
	case LogWarn:
		return "warn"
	case LogError:
		return "error"
	default:
		return "unknown"
	}
}

// LogFunc is the injectable logging callback the renderer and its
// collaborators report diagnostics through. The core never writes to
// files or stdout on its own; callers decide where messages go and at
// what level to filter them. A nil LogFunc silently discards everything.
type LogFunc func(level LogLevel, msg string, keyvals ...any)

// NewCharmLogFunc adapts a *log.Logger into a LogFunc, mapping each
// LogLevel to the matching charmbracelet/log method.
func NewCharmLogFunc(logger *log.Logger) LogFunc {
	return func(level LogLevel, msg string, keyvals ...any) {
		switch level {
		case LogDebug:
			logger.Debug(msg, keyvals...)
		case LogInfo:
			logger.Info(msg, keyvals...)
		case LogWarn:
			logger.Warn(msg, keyvals...)
		case LogError:
			logger.Error(msg, keyvals...)
		}
	}
}

// DefaultLogFunc returns a LogFunc backed by a charmbracelet/log logger
// writing to stderr. The renderer takes over stdout for cell output, so
// its own diagnostics go to stderr rather than risk interleaving with
// the alt-screen frame the way goli's log_capture.go avoided corrupting
// terminal output by redirecting both streams through pipes.
func DefaultLogFunc() LogFunc {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	return NewCharmLogFunc(logger)
}

// logf calls fn if non-nil, so callers can hold an optional LogFunc field
// without nil-checking at every call site.
func logf(fn LogFunc, level LogLevel, msg string, keyvals ...any) {
	if fn == nil {
		return
	}
	fn(level, msg, keyvals...)
}
