// Package logging wraps logrus behind the small interface evhttpd.Logger
// expects, with field-based structured output standing in for the original
// implementation's plain sprintf'd log lines.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Config controls the process-wide logger: level, output format, and
// destination.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text, json
	Output string // "", "stderr", "stdout", or a file path
}

// Logger adapts a *logrus.Entry to evhttpd.Logger and supervisor.Logger.
type Logger struct {
	entry *logrus.Entry
}

// New builds a Logger from cfg. If Output names a file, the returned
// io.Closer must be closed by the caller on shutdown; it is nil otherwise.
func New(cfg Config) (*Logger, io.Closer, error) {
	l := logrus.New()

	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(orDefault(cfg.Level, "info"))
	if err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	l.SetLevel(level)

	var closer io.Closer
	switch cfg.Output {
	case "", "stderr":
		l.SetOutput(os.Stderr)
	case "stdout":
		l.SetOutput(os.Stdout)
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %q: %w", cfg.Output, err)
		}
		l.SetOutput(f)
		closer = f
	}

	return &Logger{entry: logrus.NewEntry(l)}, closer, nil
}

// WithField returns a derived Logger carrying an additional structured
// field, used for per-worker context such as a worker ID.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
