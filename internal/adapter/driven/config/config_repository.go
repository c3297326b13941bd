package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/consumption-fraud-go/internal/domain/repository"
	"github.com/diillson/consumption-fraud-go/internal/shared/types"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

var validReportTypes = map[string]bool{"csv": true, "json": true, "pdf": true}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON e valida
// os valores que não dependem de flags.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := decodeConfig(fileData, strings.ToLower(filepath.Ext(filePath)))
	if err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}
	return cfg, nil
}

func decodeConfig(data []byte, ext string) (*types.Config, error) {
	var cfg types.Config

	switch ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return &cfg, nil
}

func validateConfig(cfg *types.Config) error {
	switch cfg.Mode {
	case "", types.ModeBatch, types.ModeIsolated:
	default:
		return fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	if cfg.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", cfg.Concurrency)
	}
	if cfg.ModelTimeout < 0 {
		return fmt.Errorf("model_timeout must not be negative, got %d", cfg.ModelTimeout)
	}
	for _, rt := range cfg.ReportType {
		if !validReportTypes[strings.ToLower(rt)] {
			return fmt.Errorf("unknown report type %q", rt)
		}
	}
	if cfg.Upload != "" {
		if _, _, err := types.ParseS3URI(cfg.Upload); err != nil {
			return err
		}
	}
	return nil
}
