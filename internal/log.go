package internal

import (
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel orders verbosity from quiet to chatty
type LogLevel int

const (
	LogLevelWarn LogLevel = iota
	LogLevelInfo
	LogLevelDebug
)

// ParseLogLevel maps a LOG_LEVEL value onto a level. Unknown or empty
// values default to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WARN", "WARNING":
		return LogLevelWarn
	case "DEBUG":
		return LogLevelDebug
	}
	return LogLevelInfo
}

// Logger writes component-prefixed log lines gated by verbosity. The
// component renders as the bracketed prefix ("[DataReader] ...") so lines
// from one pipeline stage stay greppable.
type Logger struct {
	component string
	level     LogLevel
	out       *log.Logger
}

// NewLogger creates a logger for one component, with verbosity taken from
// the LOG_LEVEL environment variable.
func NewLogger(component string) *Logger {
	return newLogger(component, ParseLogLevel(os.Getenv("LOG_LEVEL")), os.Stderr)
}

func newLogger(component string, level LogLevel, w io.Writer) *Logger {
	return &Logger{component: component, level: level, out: log.New(w, "", log.LstdFlags)}
}

// Warn logs degradations the run survives
func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit(LogLevelWarn, "WARN: "+format, args...)
}

// Info logs pipeline milestones
func (l *Logger) Info(format string, args ...interface{}) {
	l.emit(LogLevelInfo, format, args...)
}

// Debug logs timing and payload chatter
func (l *Logger) Debug(format string, args ...interface{}) {
	l.emit(LogLevelDebug, format, args...)
}

func (l *Logger) emit(level LogLevel, format string, args ...interface{}) {
	if level > l.level {
		return
	}
	l.out.Printf("["+l.component+"] "+format, args...)
}
