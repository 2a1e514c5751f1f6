// Package logging builds the application logger on charmbracelet/log.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	gormlogger "gorm.io/gorm/logger"
)

// Options holds configuration for the application logger.
type Options struct {
	Level           string
	Prefix          string
	ReportTimestamp bool
}

// DefaultOptions returns quiet defaults suitable for CLI use.
func DefaultOptions() Options {
	return Options{
		Level:  "warn",
		Prefix: "todo",
	}
}

// New creates a logger writing to w. An unknown level falls back to warn
// and is reported on the new logger.
func New(w io.Writer, opts Options) *log.Logger {
	level, levelErr := ParseLevel(opts.Level)
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.ReportTimestamp,
		TimeFormat:      time.DateTime,
	})
	if levelErr != nil {
		logger.Warn("using warn level", "err", levelErr)
	}
	return logger
}

// NewFile creates a logger appending to path. The full-screen UI owns the
// terminal, so it logs here instead of stderr.
func NewFile(path string, opts Options) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	opts.ReportTimestamp = true
	return New(f, opts), f, nil
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel parses a level name. An empty name means warn.
func ParseLevel(s string) (log.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return log.WarnLevel, nil
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.WarnLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// Gorm adapts logger for gorm. SQL tracing is only enabled at debug level.
func Gorm(logger *log.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	switch logger.GetLevel() {
	case log.DebugLevel:
		level = gormlogger.Info
	case log.ErrorLevel, log.FatalLevel:
		level = gormlogger.Error
	}
	return gormlogger.New(logger.WithPrefix("gorm"), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
