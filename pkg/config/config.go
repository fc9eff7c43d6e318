// Package config provides configuration loading and management for spectralsim.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"spectralsim/pkg/history"
	"spectralsim/pkg/sensitivity"
	"spectralsim/pkg/simulation"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Simulation parameters
	Simulation struct {
		// Types are the registry names of the simulators to run
		Types []string `yaml:"types"`

		// Deficiency selects the colour vision deficiency for colour blindness
		Deficiency string `yaml:"deficiency"`

		// Gamma is applied as channel^(1/gamma) after normalization
		Gamma float64 `yaml:"gamma"`

		// Workers is the number of goroutines used for band accumulation
		Workers int `yaml:"workers"`

		// Bands are the band numbers mapped to R, G and B by band choice
		Bands []int `yaml:"bands"`
	} `yaml:"simulation"`

	// Cone model parameters
	Cone struct {
		// TablePath is an optional CSV of cone fundamentals replacing the
		// embedded table
		TablePath string `yaml:"tablePath"`
	} `yaml:"cone"`

	// Loader parameters
	Loader struct {
		// MetadataPath is the text file listing centre wavelengths
		MetadataPath string `yaml:"metadataPath"`

		// Section overrides the metadata section name
		Section string `yaml:"section"`
	} `yaml:"loader"`

	// Output parameters
	Output struct {
		// Dir is where rendered images are written
		Dir string `yaml:"dir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`

		// Order is the history order results are written in
		Order string `yaml:"order"`

		// KeepExisting skips outputs whose file already exists
		KeepExisting bool `yaml:"keepExisting"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Simulation.Types = []string{simulation.HumanVision}
	cfg.Simulation.Deficiency = sensitivity.Deuteranopia.String()
	cfg.Simulation.Gamma = 1.0
	cfg.Simulation.Workers = runtime.NumCPU()

	cfg.Output.Dir = "simulations"
	cfg.Output.Verbose = false
	cfg.Output.Order = history.ByDate.String()

	return cfg
}

// Validate checks values that would otherwise fail deep inside a simulation
func (c *Config) Validate() error {
	var errs []error
	if !(c.Simulation.Gamma > 0) || math.IsInf(c.Simulation.Gamma, 0) {
		errs = append(errs, fmt.Errorf("gamma must be positive, got %g", c.Simulation.Gamma))
	}
	if c.Simulation.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Simulation.Workers))
	}
	if _, err := sensitivity.ParseDeficiency(c.Simulation.Deficiency); err != nil {
		errs = append(errs, err)
	}
	if _, err := history.ParseOrder(c.Output.Order); err != nil {
		errs = append(errs, err)
	}
	if len(c.Simulation.Types) == 0 {
		errs = append(errs, errors.New("no simulation types selected"))
	}
	return errors.Join(errs...)
}

// LoadConfig reads configPath over the defaults. An empty path or a
// missing file yields DefaultConfig; keys absent from the file keep their
// default values.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML, creating parent directories as needed
func SaveConfig(cfg *Config, configPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// CreateDefaultConfigFile writes DefaultConfig to configPath
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// SimulationOptions converts the configuration into registry options,
// loading the cone table file when one is configured
func (c *Config) SimulationOptions() (simulation.Options, error) {
	opts := simulation.Options{
		Deficiency: c.Simulation.Deficiency,
		Gamma:      c.Simulation.Gamma,
		Workers:    c.Simulation.Workers,
	}
	if c.Cone.TablePath != "" {
		table, err := sensitivity.LoadConeTableFile(c.Cone.TablePath)
		if err != nil {
			return opts, err
		}
		opts.ConeTable = table
	}
	return opts, nil
}
