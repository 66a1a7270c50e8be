package repository

import (
	"github.com/diillson/aws-finops-trends/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	LoadEnvironment(envFile string) (*types.Config, error)
}
