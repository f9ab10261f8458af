// Package logging configures the process-wide slog logger.
//
// Development output is colored text via tint; production output is JSON
// so it can be shipped to a log collector.
//
// Environment variables:
//
//	LOG_LEVEL:   debug, info, warn, error (default: info)
//	ENVIRONMENT: production selects JSON output
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default logger based on LOG_LEVEL and ENVIRONMENT.
func Setup() {
	slog.SetDefault(New(os.Stderr, os.Getenv("ENVIRONMENT"), ParseLevel(os.Getenv("LOG_LEVEL"))))
}

// New builds a logger writing to w. environment "production" selects JSON.
func New(w io.Writer, environment string, level slog.Level) *slog.Logger {
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
		NoColor:    !isTerminal(w),
	}))
}

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
