package repository

import (
	"github.com/diillson/consumption-fraud-go/internal/shared/types"
)

// ConfigRepository loads the optional run configuration (inputs, classifier
// endpoint, reports, AWS settings) from a TOML, YAML or JSON file.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
}
