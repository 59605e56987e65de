package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads ~/.config/restman/config.yaml on top of the defaults. A missing
// file is not an error; a malformed one is, so a typo never silently resets
// every setting.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(filepath.Join(home, ".config", "restman", "config.yaml"))
}

// LoadFrom reads the config file at the given path on top of the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyDefaults(cfg), nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch cfg.Backend {
	case BackendFile, BackendSQLite:
	case "":
		cfg.Backend = BackendFile
	default:
		return cfg, fmt.Errorf("unknown backend %q in %s", cfg.Backend, path)
	}
	return applyDefaults(cfg), nil
}

func applyDefaults(cfg Config) Config {
	if cfg.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.DataDir = filepath.Join(home, ".local", "share", "restman")
		} else {
			cfg.DataDir = ".restman"
		}
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = DefaultConfig().DefaultTimeout
	}
	return cfg
}
