// Package config provides hierarchical configuration management for kac using koanf.
// Configuration is loaded with priority: environment variables > project config (.kac.yml)
// > user config (~/.config/kac/config.yml) > defaults. A .kac.toml project file is read
// when no .kac.yml exists, and a legacy .kac.json file when neither does.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kac-dev/kac/internal/changelog"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as configuration.
const EnvPrefix = "KAC_"

// Configuration holds the settings that can be given outside the command line.
// Every field mirrors the flag of the same name.
type Configuration struct {
	// File is the changelog path, relative to the working directory.
	File string `koanf:"file" yaml:"file" json:"file"`
	// Format is the output variant: compact or markdownlint.
	Format string `koanf:"format" yaml:"format" json:"format"`
	// URL overrides the repository base URL used in version links.
	URL string `koanf:"url" yaml:"url" json:"url"`
	// HTTPS selects the scheme when rewriting ssh remotes.
	HTTPS bool `koanf:"https" yaml:"https" json:"https"`
	// Head overrides the head ref used in the unreleased comparison link.
	Head string `koanf:"head" yaml:"head" json:"head"`
	// Quiet reports errors without a failing exit code.
	Quiet bool `koanf:"quiet" yaml:"quiet" json:"quiet"`
	// NoVPrefix renders tags as the bare version.
	NoVPrefix bool `koanf:"no_v_prefix" yaml:"no_v_prefix" json:"no_v_prefix"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// Dir is the directory project config files are looked up in (default: current directory).
	Dir string
	// ProjectConfigPath overrides the project config path (default: <Dir>/.kac.yml)
	ProjectConfigPath string
	// WarningWriter receives legacy config warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses legacy config warnings
	SkipWarnings bool
}

// LoadWithOptions loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts, warningWriter); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads ~/.config/kac/config.yml when present.
func loadUserConfig(k *koanf.Koanf) error {
	userPath, err := UserConfigPath()
	if err != nil || !fileExists(userPath) {
		return nil
	}
	if err := loadYAMLConfig(k, userPath, "user"); err != nil {
		return fmt.Errorf("loading user YAML config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project file (YAML preferred, legacy JSON supported).
// An explicit path must exist; the default locations are optional.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions, warningWriter io.Writer) error {
	if opts.ProjectConfigPath != "" {
		if !fileExists(opts.ProjectConfigPath) {
			return fmt.Errorf("project config %s: %w", opts.ProjectConfigPath, os.ErrNotExist)
		}
		switch strings.ToLower(filepath.Ext(opts.ProjectConfigPath)) {
		case ".json":
			return loadJSONConfig(k, opts.ProjectConfigPath)
		case ".toml":
			return loadTOMLConfig(k, opts.ProjectConfigPath)
		}
		return loadYAMLConfig(k, opts.ProjectConfigPath, "project")
	}

	yamlPath := ProjectConfigPath(opts.Dir)
	tomlPath := TOMLProjectConfigPath(opts.Dir)
	legacyPath := LegacyProjectConfigPath(opts.Dir)
	yamlExists := fileExists(yamlPath)
	tomlExists := fileExists(tomlPath)
	legacyExists := fileExists(legacyPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath, "project"); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		if tomlExists && !opts.SkipWarnings {
			fmt.Fprintf(warningWriter, "Warning: %s ignored, using %s\n\n", tomlPath, yamlPath)
		}
		if legacyExists && !opts.SkipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n\n", legacyPath, yamlPath)
		}
	case tomlExists:
		if err := loadTOMLConfig(k, tomlPath); err != nil {
			return fmt.Errorf("loading project TOML config: %w", err)
		}
	case legacyExists:
		if err := loadJSONConfig(k, legacyPath); err != nil {
			return fmt.Errorf("loading legacy project JSON config: %w", err)
		}
		if !opts.SkipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Rename it to %s and convert it to YAML.\n\n", ProjectConfigName)
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

func loadJSONConfig(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load project config %s: %w", path, err)
	}
	return nil
}

func loadTOMLConfig(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), tomlParser{}); err != nil {
		return fmt.Errorf("failed to load project config %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	return &cfg, nil
}

// ChangelogFormat returns the parsed output format. ok is false when Format
// was overridden after loading with a name ParseFormat does not know.
func (c *Configuration) ChangelogFormat() (f changelog.Format, ok bool) {
	return changelog.ParseFormat(c.Format)
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: KAC_NO_V_PREFIX -> no_v_prefix
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}
