package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileName is the conventional config file name looked up in the working directory.
const FileName = "ujv.yaml"

// Config holds ujv configuration.
type Config struct {
	// CapabilitiesDir is where fragment files live, relative to the main
	// document's directory unless absolute.
	CapabilitiesDir string `yaml:"capabilities_dir" env:"UJV_CAPABILITIES_DIR"`
	// OutputDir receives rendered artifacts, relative to the working directory.
	OutputDir string `yaml:"output_dir" env:"UJV_OUTPUT_DIR"`
	// Template optionally replaces the embedded HTML template.
	Template string `yaml:"template,omitempty" env:"UJV_TEMPLATE"`
}

// Default returns a Config with the conventional directory names.
func Default() Config {
	return Config{
		CapabilitiesDir: "capabilities",
		OutputDir:       "output",
	}
}

// Init writes a default config file into dir.
func Init(dir string, force bool) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	cfg := Default()
	if err := cfg.Save(path); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads the config file at path, if it exists, over the defaults and then
// applies environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("cannot read config at %s: %w", path, err)
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Save writes the config as YAML to path.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Set sets a config value by key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "capabilities_dir":
		if value == "" {
			return fmt.Errorf("capabilities_dir cannot be empty")
		}
		c.CapabilitiesDir = value
	case "output_dir":
		if value == "" {
			return fmt.Errorf("output_dir cannot be empty")
		}
		c.OutputDir = value
	case "template":
		c.Template = value
	default:
		return fmt.Errorf("unknown config key: %s (valid keys: capabilities_dir, output_dir, template)", key)
	}
	return nil
}

// FragmentDir returns the fragment directory for a main document at docPath.
func (c Config) FragmentDir(docPath string) string {
	if filepath.IsAbs(c.CapabilitiesDir) {
		return c.CapabilitiesDir
	}
	return filepath.Join(filepath.Dir(docPath), c.CapabilitiesDir)
}

// FragmentPath returns the expected path of the fragment file for stem.
func (c Config) FragmentPath(docPath, stem string) string {
	return filepath.Join(c.FragmentDir(docPath), stem+".md")
}

// OutputPath returns the default artifact path for a main document.
func (c Config) OutputPath(docPath string) string {
	base := filepath.Base(docPath)
	stem := base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(c.OutputDir, stem+".html")
}
