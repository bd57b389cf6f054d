package repository

import (
	"github.com/diillson/finanzas-dashboard-go/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration files.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.Config, error)
	// Resolve merges the optional file, the environment and the CLI flags.
	Resolve(args *types.CLIArgs) (*types.Config, error)
}
