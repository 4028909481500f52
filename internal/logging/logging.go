// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
)

// Levels lists the accepted level names. An empty name means info.
var Levels = []string{"debug", "info", "warn", "warning", "error"}

// Formats lists the accepted handler formats. An empty name means text.
var Formats = []string{"text", "json"}

// ParseLevel maps a configured level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q, want one of %s", name, strings.Join(Levels, ", "))
}

// New returns a logger writing to w in the given format (text or json).
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if err := CheckFormat(format); err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// CheckFormat reports whether format names a known handler.
func CheckFormat(format string) error {
	if format == "" || slices.Contains(Formats, strings.ToLower(format)) {
		return nil
	}
	return fmt.Errorf("unknown log format %q, want one of %s", format, strings.Join(Formats, ", "))
}
