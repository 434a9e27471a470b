package repository

import (
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration files.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	ApplyEnvOverrides(cfg *types.Config) error
}
