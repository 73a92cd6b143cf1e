package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvConfigPath names the environment variable that points at a config file
const EnvConfigPath = "MDTASK_CONFIG"

// DefaultConfigPath returns the config file used when --config is not given
// Priority order:
//  1. MDTASK_CONFIG environment variable (if set)
//  2. <user config dir>/mdtask/config.yaml
func DefaultConfigPath() (string, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}

	return filepath.Join(dir, "mdtask", "config.yaml"), nil
}

// Load resolves the config path and loads it; an explicit path wins over the default
// Without an explicit path and without a user config directory, defaults are returned
func Load(explicitPath string) (*Config, string, error) {
	path := explicitPath
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return DefaultConfig(), "", nil
		}
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
