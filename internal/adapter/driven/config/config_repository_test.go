package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/diillson/consumption-fraud-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFile_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "fraud.toml",
			content: `inputs = ["clients.csv", "s3://records/clients.jsonl"]
mode = "isolated"
concurrency = 8
model_url = "http://serving:8501"
report_type = ["csv", "pdf"]
`,
		},
		{
			name: "yaml",
			file: "fraud.yaml",
			content: `inputs:
  - clients.csv
  - s3://records/clients.jsonl
mode: isolated
concurrency: 8
model_url: http://serving:8501
report_type: [csv, pdf]
`,
		},
		{
			name: "json",
			file: "fraud.json",
			content: `{"inputs": ["clients.csv", "s3://records/clients.jsonl"], "mode": "isolated",
"concurrency": 8, "model_url": "http://serving:8501", "report_type": ["csv", "pdf"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfigRepository().LoadConfigFile(writeFile(t, tt.file, tt.content))

			require.NoError(t, err)
			assert.Equal(t, []string{"clients.csv", "s3://records/clients.jsonl"}, cfg.Inputs)
			assert.Equal(t, types.ModeIsolated, cfg.Mode)
			assert.Equal(t, 8, cfg.Concurrency)
			assert.Equal(t, "http://serving:8501", cfg.ModelURL)
			assert.Equal(t, []string{"csv", "pdf"}, cfg.ReportType)
		})
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	repo := NewConfigRepository()

	t.Run("missing file", func(t *testing.T) {
		_, err := repo.LoadConfigFile(filepath.Join(t.TempDir(), "nope.toml"))
		assert.ErrorContains(t, err, "error accessing config file")
	})

	t.Run("directory", func(t *testing.T) {
		_, err := repo.LoadConfigFile(t.TempDir())
		assert.ErrorContains(t, err, "is a directory")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := repo.LoadConfigFile(writeFile(t, "fraud.ini", "mode=batch"))
		assert.ErrorContains(t, err, "unsupported config file format: .ini")
	})

	t.Run("broken yaml", func(t *testing.T) {
		_, err := repo.LoadConfigFile(writeFile(t, "fraud.yml", "inputs: [unterminated"))
		assert.ErrorContains(t, err, "error parsing YAML file")
	})

	t.Run("unknown json field", func(t *testing.T) {
		_, err := repo.LoadConfigFile(writeFile(t, "fraud.json", `{"threshold": 0.4}`))
		assert.ErrorContains(t, err, "error parsing JSON file")
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := repo.LoadConfigFile(writeFile(t, "fraud.toml", `mode = "streaming"`))
		assert.ErrorContains(t, err, `unknown mode "streaming"`)
	})

	t.Run("unknown report type", func(t *testing.T) {
		_, err := repo.LoadConfigFile(writeFile(t, "fraud.toml", `report_type = ["xlsx"]`))
		assert.ErrorContains(t, err, `unknown report type "xlsx"`)
	})

	t.Run("bad upload uri", func(t *testing.T) {
		_, err := repo.LoadConfigFile(writeFile(t, "fraud.toml", `upload = "records/reports"`))
		assert.ErrorContains(t, err, "not an s3 uri")
	})
}
