// Package logging builds the zerolog logger for a run. The terminal UI owns
// stdout, so logs normally go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/todolist/internal/config"
)

// Logger pairs the root logger with the file it writes to.
type Logger struct {
	zerolog.Logger
	Session string
	closer  io.Closer
}

// New opens the configured destination and returns a logger tagged with a
// fresh session id.
func New(cfg config.LogConfig) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var (
		w      io.Writer
		closer io.Closer
	)
	if cfg.File != "" && cfg.File != "-" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	} else {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	return newLogger(w, level, closer), nil
}

// NewWriter logs to w; used by tests.
func NewWriter(w io.Writer, level zerolog.Level) *Logger {
	return newLogger(w, level, nil)
}

func newLogger(w io.Writer, level zerolog.Level, closer io.Closer) *Logger {
	session := uuid.NewString()
	zl := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("session", session).
		Logger()
	return &Logger{Logger: zl, Session: session, closer: closer}
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
