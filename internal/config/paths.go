package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the path to the modelgate data directory.
// - Windows: %APPDATA%\modelgate
// - Other OS: ~/.modelgate
func DataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "modelgate")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".modelgate"
	}
	return filepath.Join(home, ".modelgate")
}

// ConfigPath returns the path to the config file (~/.modelgate/config.toml).
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}
