package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure. All fields are
// optional; unset values fall through to defaults.
type FileConfig struct {
	ServerPort         string `toml:"server_port"`
	UpstreamBaseURL    string `toml:"upstream_base_url"`
	DisableSSLVerify   *bool  `toml:"disable_ssl_verify"`
	ModelFilterFile    string `toml:"model_filter_file"`
	UpstreamTimeoutSec *int   `toml:"upstream_timeout_seconds"`
	ModelCacheTTLSec   *int   `toml:"model_cache_ttl_seconds"`
	RequestLogDB       string `toml:"request_log_db"`
	LogLevel           string `toml:"log_level"`
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	cfg := &FileConfig{}

	path := ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
