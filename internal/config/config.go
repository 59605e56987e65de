// Package config loads application settings from the user's config file.
package config

import "time"

// Backend selects the persistence implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	DataDir        string        `yaml:"data_dir"`
	Backend        Backend       `yaml:"backend"`
	DefaultTimeout time.Duration `yaml:"default_timeout"`
	FollowRedirect bool          `yaml:"follow_redirects"`
	VerifySSL      bool          `yaml:"verify_ssl"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Backend:        BackendFile,
		DefaultTimeout: 30 * time.Second,
		FollowRedirect: true,
		VerifySSL:      true,
	}
}
