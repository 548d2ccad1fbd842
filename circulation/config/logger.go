package config

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogHandler creates the slog handler described by the log config.
func NewLogHandler(c LogConfig, w io.Writer) slog.Handler {
	options := &slog.HandlerOptions{Level: ParseLevel(c.Level)}

	if c.Format == "text" {
		return slog.NewTextHandler(w, options)
	}

	return slog.NewJSONHandler(w, options)
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else is info.
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
