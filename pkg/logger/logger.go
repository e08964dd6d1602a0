package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance
var Log = slog.Default()

// FileOptions configures the optional rotating log file
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Setup initializes the global logger based on the environment.
// When file.Path is set, records are written to stdout and to a rotating file.
func Setup(env string, file FileOptions) {
	var out io.Writer = os.Stdout
	if file.Path != "" {
		out = io.MultiWriter(os.Stdout, newRotator(file))
	}

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if env == "development" {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

func newRotator(file FileOptions) *lumberjack.Logger {
	r := &lumberjack.Logger{
		Filename:   file.Path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	if file.MaxSizeMB > 0 {
		r.MaxSize = file.MaxSizeMB
	}
	if file.MaxBackups > 0 {
		r.MaxBackups = file.MaxBackups
	}
	if file.MaxAgeDays > 0 {
		r.MaxAge = file.MaxAgeDays
	}
	return r
}

// Info logs an info message
func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}
