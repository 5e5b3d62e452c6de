// ABOUTME: Structured diagnostic logging built on charmbracelet/log
// ABOUTME: Parses configured levels and builds the process logger

package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ParseLevel converts a config or flag value into a log level.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "", "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.WarnLevel, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", level)
	}
}

// New returns a logger writing to w at the given level.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       log.TextFormatter,
		ReportTimestamp: lvl == log.DebugLevel,
		Prefix:          "todo",
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
