package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}

func TestToPtermLevel(t *testing.T) {
	assert.Equal(t, pterm.LogLevelDebug, toPtermLevel(slog.LevelDebug))
	assert.Equal(t, pterm.LogLevelInfo, toPtermLevel(slog.LevelInfo))
	assert.Equal(t, pterm.LogLevelWarn, toPtermLevel(slog.LevelWarn))
	assert.Equal(t, pterm.LogLevelError, toPtermLevel(slog.LevelError))
}

func TestNewLoggerWithWriter(t *testing.T) {
	t.Run("writes enabled levels", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(&buf, "debug")
		require.NotNil(t, logger)

		logger.Debug("loaded source", "records", 3)

		assert.Contains(t, buf.String(), "loaded source")
	})

	t.Run("drops messages below the level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(&buf, "error")

		logger.Info("scoring batch")

		assert.Empty(t, buf.String())
	})
}
