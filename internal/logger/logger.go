// Package logger wraps logrus with the fields and outputs teamlens uses.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Fields is a set of structured log fields
type Fields = logrus.Fields

// Logger is a leveled, structured logger
type Logger struct {
	logger *logrus.Logger
	fields Fields
	closer io.Closer
}

// Options configures a Logger
type Options struct {
	// Level is a logrus level name; unknown names fall back to info
	Level string
	// JSON selects the JSON formatter instead of text
	JSON bool
	// Output defaults to stderr
	Output io.Writer
}

// New creates a logger writing to opts.Output
func New(opts Options) *Logger {
	l := logrus.New()
	l.Out = os.Stderr
	if opts.Output != nil {
		l.Out = opts.Output
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if opts.JSON {
		l.SetFormatter(&logrus.JSONFormatter{
			PrettyPrint: false,
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			PadLevelText:  true,
		})
	}

	return &Logger{logger: l}
}

// NewFile creates a logger appending to path.
// The TUI owns the terminal, so interactive commands log here.
func NewFile(path string, opts Options) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	opts.Output = f
	l := New(opts)
	l.closer = f
	return l, nil
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return New(Options{Output: io.Discard, Level: "panic"})
}

// With returns a child logger that always carries fields
func (l *Logger) With(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{logger: l.logger, fields: merged}
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, fields ...Fields) {
	l.logWithFields(logrus.DebugLevel, msg, fields...)
}

// Info logs an info-level message.
func (l *Logger) Info(msg string, fields ...Fields) {
	l.logWithFields(logrus.InfoLevel, msg, fields...)
}

// Warn logs a warn-level message.
func (l *Logger) Warn(msg string, fields ...Fields) {
	l.logWithFields(logrus.WarnLevel, msg, fields...)
}

// Error logs an error-level message.
func (l *Logger) Error(msg string, fields ...Fields) {
	l.logWithFields(logrus.ErrorLevel, msg, fields...)
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) logWithFields(level logrus.Level, msg string, fields ...Fields) {
	if l == nil {
		return
	}
	entry := logrus.NewEntry(l.logger)
	if len(l.fields) > 0 {
		entry = entry.WithFields(l.fields)
	}
	for _, field := range fields {
		entry = entry.WithFields(field)
	}
	entry.Log(level, msg)
}
