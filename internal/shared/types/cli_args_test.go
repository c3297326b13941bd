package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIArgs_Merge(t *testing.T) {
	cfg := &Config{
		Inputs:      []string{"clients.csv"},
		Mode:        ModeIsolated,
		Concurrency: 8,
		ModelURL:    "http://serving:8501",
		ReportType:  []string{"pdf"},
		LogLevel:    "debug",
	}

	t.Run("fills unset flags from the config file", func(t *testing.T) {
		args := &CLIArgs{Mode: ModeBatch, Concurrency: 4, ReportType: []string{"csv"}}

		args.Merge(cfg, func(string) bool { return false })

		assert.Equal(t, []string{"clients.csv"}, args.Inputs)
		assert.Equal(t, ModeIsolated, args.Mode)
		assert.Equal(t, 8, args.Concurrency)
		assert.Equal(t, "http://serving:8501", args.ModelURL)
		assert.Equal(t, []string{"pdf"}, args.ReportType)
		assert.Equal(t, "debug", args.LogLevel)
	})

	t.Run("explicit flags win", func(t *testing.T) {
		args := &CLIArgs{Mode: ModeBatch, ModelURL: "http://local:8501"}
		explicit := map[string]bool{"mode": true, "model-url": true}

		args.Merge(cfg, func(flag string) bool { return explicit[flag] })

		assert.Equal(t, ModeBatch, args.Mode)
		assert.Equal(t, "http://local:8501", args.ModelURL)
		assert.Equal(t, []string{"clients.csv"}, args.Inputs)
	})

	t.Run("nil config is a no-op", func(t *testing.T) {
		args := &CLIArgs{Mode: ModeBatch}
		args.Merge(nil, func(string) bool { return false })
		assert.Equal(t, ModeBatch, args.Mode)
	})
}
