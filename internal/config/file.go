package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// File is the YAML service configuration.
type File struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	// Catalog is an INI sensor catalog; empty uses the built-in one.
	Catalog string `yaml:"catalog"`

	Display  Display  `yaml:"display"`
	Detector Detector `yaml:"detector"`
}

// Display describes the host screen sessions render on.
type Display struct {
	Density     float64 `yaml:"density"`
	FocusAreaDP int     `yaml:"focus_area_dp"`
}

// Detector configures frame face detection.
type Detector struct {
	Enabled   bool    `yaml:"enabled"`
	Model     string  `yaml:"model"`
	Threshold float64 `yaml:"threshold"`
}

// Default returns the configuration used when no file exists.
func Default() File {
	return File{
		Port:     DefaultPort,
		LogLevel: DefaultLogLevel,
		Display: Display{
			Density:     DefaultDensity,
			FocusAreaDP: DefaultFocusAreaDP,
		},
		Detector: Detector{
			Model:     DefaultModelPath,
			Threshold: 0.5,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (File, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("invalid config %s: %v", path, errs)
	}
	return cfg, nil
}

// Validate checks the configuration values.
// Returns a list of validation errors, or nil if valid.
func (f *File) Validate() []string {
	var errs []string

	if f.Port == "" {
		errs = append(errs, "port is required")
	} else if p, err := strconv.Atoi(f.Port); err != nil || p < 1 || p > 65535 {
		errs = append(errs, "port must be between 1 and 65535")
	}

	switch f.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, "log_level must be debug, info, warn or error")
	}

	if f.Display.Density <= 0 {
		errs = append(errs, "display.density must be positive")
	}
	if f.Display.FocusAreaDP <= 0 {
		errs = append(errs, "display.focus_area_dp must be positive")
	}

	if f.Detector.Threshold <= 0 || f.Detector.Threshold > 1 {
		errs = append(errs, "detector.threshold must be in (0, 1]")
	}
	if f.Detector.Enabled && f.Detector.Model == "" {
		errs = append(errs, "detector.model is required when the detector is enabled")
	}

	return errs
}

