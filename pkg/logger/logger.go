package logger

import (
	"log"
	"sync"

	"github.com/fatih/color"
)

// Level represents the severity level of a log message.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	SuccessLevel
	WarnLevel
	ErrorLevel
	CriticalLevel
)

var levelPrefixes = map[Level]string{
	DebugLevel:    "[DEBUG]    ",
	InfoLevel:     "[INFO]     ",
	SuccessLevel:  "[SUCCESS]  ",
	WarnLevel:     "[WARN]     ",
	ErrorLevel:    "[ERROR]    ",
	CriticalLevel: "[CRITICAL] ",
}

var levelColors = map[Level]color.Attribute{
	DebugLevel:    color.FgWhite,
	InfoLevel:     color.FgCyan,
	SuccessLevel:  color.FgGreen,
	WarnLevel:     color.FgYellow,
	ErrorLevel:    color.FgRed,
	CriticalLevel: color.FgHiRed,
}

// Logger is a simple interface for logging messages.
type Logger interface {
	// Debug logs a debug message.
	Debug(format string, args ...interface{})

	// Info logs an informational message.
	Info(format string, args ...interface{})

	// Success logs a completed operation.
	Success(format string, args ...interface{})

	// Warn logs a condition that will be retried automatically.
	Warn(format string, args ...interface{})

	// Error logs a failure that abandons the current unit of work.
	Error(format string, args ...interface{})

	// Critical logs a failure that terminates the process.
	Critical(format string, args ...interface{})
}

// EmptyLogger is a simple implementation of the Logger interface that does nothing.
type EmptyLogger struct{}

var _ Logger = (*EmptyLogger)(nil)

func (l *EmptyLogger) Debug(_ string, _ ...interface{})    {}
func (l *EmptyLogger) Info(_ string, _ ...interface{})     {}
func (l *EmptyLogger) Success(_ string, _ ...interface{})  {}
func (l *EmptyLogger) Warn(_ string, _ ...interface{})     {}
func (l *EmptyLogger) Error(_ string, _ ...interface{})    {}
func (l *EmptyLogger) Critical(_ string, _ ...interface{}) {}

// StdLogger is a standard implementation of the Logger interface that logs messages to the console.
type StdLogger struct {
	enableColoring bool
	level          Level
	mu             sync.Mutex
}

var _ Logger = (*StdLogger)(nil)

func NewStdLogger(enableColoring bool, level Level) *StdLogger {
	return &StdLogger{
		enableColoring: enableColoring,
		level:          level,
	}
}

// formatMessage formats the log message with the level prefix and coloring if enabled.
func (l *StdLogger) formatMessage(level Level, format string) string {
	prefix := levelPrefixes[level]
	if l.enableColoring {
		prefix = color.New(levelColors[level]).Sprint(prefix)
	}
	return prefix + format
}

func (l *StdLogger) logAt(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level <= level {
		log.Printf(l.formatMessage(level, format), args...)
	}
}

func (l *StdLogger) Debug(format string, args ...interface{}) {
	l.logAt(DebugLevel, format, args...)
}

func (l *StdLogger) Info(format string, args ...interface{}) {
	l.logAt(InfoLevel, format, args...)
}

func (l *StdLogger) Success(format string, args ...interface{}) {
	l.logAt(SuccessLevel, format, args...)
}

func (l *StdLogger) Warn(format string, args ...interface{}) {
	l.logAt(WarnLevel, format, args...)
}

func (l *StdLogger) Error(format string, args ...interface{}) {
	l.logAt(ErrorLevel, format, args...)
}

func (l *StdLogger) Critical(format string, args ...interface{}) {
	l.logAt(CriticalLevel, format, args...)
}
