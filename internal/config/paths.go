package config

import (
	"os"
	"path/filepath"
)

const (
	// ProjectConfigName is the project-level config file name.
	ProjectConfigName = ".kac.yml"
	// TOMLProjectConfigName is the alternative TOML project config file name.
	TOMLProjectConfigName = ".kac.toml"
	// LegacyProjectConfigName is the deprecated JSON project config file name.
	LegacyProjectConfigName = ".kac.json"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/kac/config.yml
// - macOS: ~/Library/Application Support/kac/config.yml
// - Windows: %APPDATA%\kac\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "kac", "config.yml"), nil
}

// ProjectConfigPath returns the path to the project-level config file in dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigName)
}

// LegacyProjectConfigPath returns the path to the legacy project-level JSON config file in dir.
func LegacyProjectConfigPath(dir string) string {
	return filepath.Join(dir, LegacyProjectConfigName)
}

// TOMLProjectConfigPath returns the path to the TOML project config file in dir.
func TOMLProjectConfigPath(dir string) string {
	return filepath.Join(dir, TOMLProjectConfigName)
}
