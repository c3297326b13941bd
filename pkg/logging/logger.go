package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// NewLogger cria um *slog.Logger que escreve em stderr pelo logger do pterm.
func NewLogger(level string) *slog.Logger {
	return NewLoggerWithWriter(os.Stderr, level)
}

// NewLoggerWithWriter é NewLogger com destino configurável.
func NewLoggerWithWriter(w io.Writer, level string) *slog.Logger {
	logger := pterm.DefaultLogger.
		WithLevel(toPtermLevel(ParseLogLevel(level))).
		WithWriter(w)
	return slog.New(pterm.NewSlogHandler(logger))
}

// ParseLogLevel converts a string log level to slog.Level.
// Defaults to slog.LevelInfo for unrecognized strings.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func toPtermLevel(level slog.Level) pterm.LogLevel {
	switch {
	case level <= slog.LevelDebug:
		return pterm.LogLevelDebug
	case level <= slog.LevelInfo:
		return pterm.LogLevelInfo
	case level <= slog.LevelWarn:
		return pterm.LogLevelWarn
	default:
		return pterm.LogLevelError
	}
}
