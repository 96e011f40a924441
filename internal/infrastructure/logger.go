// Package infrastructure builds the process-wide facilities the rest of
// the module receives by injection: the slog logger and the trace-id
// request context helpers.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"pricecal/internal/config"
)

// NewLogger creates the application logger from configuration. It is
// constructed once at startup and passed down; nothing else in the module
// reads logging configuration.
func NewLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout", "":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		output = file
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

// ParseLevel maps a config string onto a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
