// Package config loads the project file .migrate.yaml.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up in the run root.
const FileName = ".migrate.yaml"

// Config mirrors .migrate.yaml. Zero values mean "use the default".
type Config struct {
	// Recipes are activated in order.
	Recipes []string `yaml:"recipes"`

	// Include holds doublestar patterns, relative to the root, that files
	// must match. Empty means every Java file.
	Include []string `yaml:"include"`

	// Exclude holds directory names skipped in addition to the defaults.
	Exclude []string `yaml:"exclude"`

	Workers     int           `yaml:"workers"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxFileSize int64         `yaml:"maxFileSize"`
	DryRun      bool          `yaml:"dryRun"`

	// RecipeFiles are YAML files declaring additional composite recipes.
	// Relative paths are resolved against the configuration file.
	RecipeFiles []string `yaml:"recipeFiles"`
}

// Decode reads a configuration document. Unknown keys are an error.
func Decode(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i, file := range cfg.RecipeFiles {
		if !filepath.IsAbs(file) {
			cfg.RecipeFiles[i] = filepath.Join(dir, file)
		}
	}
	return cfg, nil
}

// Find returns the configuration of root, or an empty configuration when
// root has no .migrate.yaml.
func Find(root string) (*Config, error) {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return Load(path)
}

// Validate checks value ranges and include patterns.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("maxFileSize must not be negative, got %d", c.MaxFileSize)
	}
	for _, p := range c.Include {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid include pattern %q", p)
		}
	}
	return nil
}
