// Package config provides configuration helpers for go-camview commands:
// environment lookups with defaults and the YAML service file.
package config

import (
	"os"
	"strconv"
)

// Defaults used when neither flags, environment nor the config file set a value.
const (
	DefaultPort        = "8080"
	DefaultLogLevel    = "info"
	DefaultConfigPath  = "camview.yaml"
	DefaultModelPath   = "models/face_detection_yunet.onnx"
	DefaultDensity     = 1.0
	DefaultFocusAreaDP = 48
)

// ConfigPath returns the service config file from CAMVIEW_CONFIG or the default.
func ConfigPath() string {
	return Env("CAMVIEW_CONFIG", DefaultConfigPath)
}

// ServerURL returns the daemon URL for clients from CAMVIEW_URL.
func ServerURL() string {
	return Env("CAMVIEW_URL", "http://localhost:"+DefaultPort)
}

// ApplyEnv overlays CAMVIEW_PORT, LOG_LEVEL, CAMVIEW_CATALOG,
// CAMVIEW_DENSITY and CAMVIEW_MODEL onto f. Setting CAMVIEW_MODEL enables
// the detector.
func (f *File) ApplyEnv() {
	f.Port = Env("CAMVIEW_PORT", f.Port)
	f.LogLevel = Env("LOG_LEVEL", f.LogLevel)
	f.Catalog = Env("CAMVIEW_CATALOG", f.Catalog)
	f.Display.Density = EnvFloat("CAMVIEW_DENSITY", f.Display.Density)
	if m := os.Getenv("CAMVIEW_MODEL"); m != "" {
		f.Detector.Enabled = true
		f.Detector.Model = m
	}
}

// Env returns the value of key, or def when unset or empty.
func Env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvFloat returns key parsed as a float, or def when unset or malformed.
func EnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
