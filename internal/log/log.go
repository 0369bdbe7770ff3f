// Package log provides category-scoped structured logging for tickwatch.
//
// The terminal UI owns stdout, so log output goes to a file. Until Init is
// called every call is discarded.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Category groups log lines by subsystem.
type Category string

const (
	CatEngine Category = "engine"
	CatCue    Category = "cue"
	CatSound  Category = "sound"
	CatConfig Category = "config"
	CatUI     Category = "ui"
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Options configures the package logger.
type Options struct {
	// Path is the log file. Parent directories are created as needed.
	Path string
	// Debug enables debug-level lines.
	Debug bool
}

// Init opens the log file and installs a JSON handler writing to it.
// The returned function closes the file and restores the discard logger.
func Init(opts Options) (func() error, error) {
	if opts.Path == "" {
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	SetOutput(f, level)

	return func() error {
		SetOutput(io.Discard, slog.LevelInfo)
		return f.Close()
	}, nil
}

// SetOutput replaces the destination of all log calls.
func SetOutput(w io.Writer, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs at debug level.
func Debug(cat Category, msg string, args ...any) {
	current().Debug(msg, append([]any{"cat", string(cat)}, args...)...)
}

// Info logs at info level.
func Info(cat Category, msg string, args ...any) {
	current().Info(msg, append([]any{"cat", string(cat)}, args...)...)
}

// Warn logs at warn level.
func Warn(cat Category, msg string, args ...any) {
	current().Warn(msg, append([]any{"cat", string(cat)}, args...)...)
}

// ErrorErr logs err at error level under the "error" key.
func ErrorErr(cat Category, msg string, err error, args ...any) {
	current().Error(msg, append([]any{"cat", string(cat), "error", err}, args...)...)
}
