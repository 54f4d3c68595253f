// Package logging builds the zerolog loggers used across imagedrop.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New creates a logger writing to w at the given level. format is
// "json" or "console"; an empty level means info.
func New(level, format string, w io.Writer) (zerolog.Logger, error) {
	if level == "" {
		level = zerolog.InfoLevel.String()
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch strings.ToLower(format) {
	case "", FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q: must be %s or %s", format, FormatJSON, FormatConsole)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
