// Package camera holds the capture parameters of an attached sensor and the
// capabilities they are validated against. Parameters can be changed at
// runtime through a Manager, one per preview session.
package camera

import (
	"fmt"

	"github.com/teslashibe/go-camview/pkg/geometry"
)

// Capabilities describes what a sensor supports. Empty lists mean the
// parameter is not adjustable on that sensor.
type Capabilities struct {
	FlashModes   []string `json:"flash_modes,omitempty"`
	FocusModes   []string `json:"focus_modes,omitempty"`
	WhiteBalance []string `json:"white_balance,omitempty"`
	SceneModes   []string `json:"scene_modes,omitempty"`
	ColorEffects []string `json:"color_effects,omitempty"`

	PictureSizes []geometry.Resolution `json:"picture_sizes,omitempty"`

	// Exposure compensation index range; both zero means unsupported.
	MinExposure int `json:"min_exposure"`
	MaxExposure int `json:"max_exposure"`

	// MaxZoom is the highest zoom index; 0 means zoom is unsupported.
	MaxZoom int `json:"max_zoom"`

	MaxFocusAreas    int  `json:"max_focus_areas"`
	MaxMeteringAreas int  `json:"max_metering_areas"`
	FaceDetection    bool `json:"face_detection"`
}

// Common mode values.
const (
	FlashOff   = "off"
	FlashAuto  = "auto"
	FlashOn    = "on"
	FlashTorch = "torch"

	FocusAuto       = "auto"
	FocusContinuous = "continuous-picture"
	FocusFixed      = "fixed"

	WhiteBalanceAuto = "auto"
	SceneAuto        = "auto"
	SceneNight       = "night"
	SceneAction      = "action"
	ScenePortrait    = "portrait"
	EffectNone       = "none"
)

// ZoomSupported reports whether the sensor can zoom.
func (c Capabilities) ZoomSupported() bool { return c.MaxZoom > 0 }

// ExposureSupported reports whether exposure compensation can be adjusted.
func (c Capabilities) ExposureSupported() bool { return c.MinExposure != 0 || c.MaxExposure != 0 }

// FocusAreasSupported reports whether touch-to-focus areas can be set.
func (c Capabilities) FocusAreasSupported() bool { return c.MaxFocusAreas > 0 }

// MeteringAreasSupported reports whether metering areas can be set.
func (c Capabilities) MeteringAreasSupported() bool { return c.MaxMeteringAreas > 0 }

// Map returns the capabilities as a map for JSON responses.
func (c Capabilities) Map() map[string]interface{} {
	return map[string]interface{}{
		"flash_modes":        c.FlashModes,
		"focus_modes":        c.FocusModes,
		"white_balance":      c.WhiteBalance,
		"scene_modes":        c.SceneModes,
		"color_effects":      c.ColorEffects,
		"picture_sizes":      c.PictureSizes,
		"exposure_range":     []int{c.MinExposure, c.MaxExposure},
		"max_zoom":           c.MaxZoom,
		"zoom_supported":     c.ZoomSupported(),
		"max_focus_areas":    c.MaxFocusAreas,
		"max_metering_areas": c.MaxMeteringAreas,
		"face_detection":     c.FaceDetection,
	}
}

// Parameters holds the adjustable capture settings of an attached sensor.
type Parameters struct {
	FlashMode    string `json:"flash_mode,omitempty"`
	FocusMode    string `json:"focus_mode,omitempty"`
	WhiteBalance string `json:"white_balance,omitempty"`
	SceneMode    string `json:"scene_mode,omitempty"`
	ColorEffect  string `json:"color_effect,omitempty"`

	// ExposureCompensation is an index in [MinExposure, MaxExposure].
	ExposureCompensation int `json:"exposure_compensation"`

	// Zoom is an index in [0, MaxZoom].
	Zoom int `json:"zoom"`

	// JPEGQuality 1-100.
	JPEGQuality int `json:"jpeg_quality"`

	PictureSize geometry.Resolution `json:"picture_size"`
}

// DefaultParameters returns the first supported value of every mode, no
// exposure compensation and no zoom.
func DefaultParameters(caps Capabilities) Parameters {
	return Parameters{
		FlashMode:            first(caps.FlashModes),
		FocusMode:            first(caps.FocusModes),
		WhiteBalance:         first(caps.WhiteBalance),
		SceneMode:            first(caps.SceneModes),
		ColorEffect:          first(caps.ColorEffects),
		ExposureCompensation: 0,
		Zoom:                 0,
		JPEGQuality:          90,
		PictureSize:          largest(caps.PictureSizes),
	}
}

// Validate checks the parameters against caps.
// Returns a list of validation errors, or nil if valid.
func (p *Parameters) Validate(caps Capabilities) []string {
	var errors []string

	if !supported(caps.FlashModes, p.FlashMode) {
		errors = append(errors, fmt.Sprintf("flash_mode %q not supported", p.FlashMode))
	}
	if !supported(caps.FocusModes, p.FocusMode) {
		errors = append(errors, fmt.Sprintf("focus_mode %q not supported", p.FocusMode))
	}
	if !supported(caps.WhiteBalance, p.WhiteBalance) {
		errors = append(errors, fmt.Sprintf("white_balance %q not supported", p.WhiteBalance))
	}
	if !supported(caps.SceneModes, p.SceneMode) {
		errors = append(errors, fmt.Sprintf("scene_mode %q not supported", p.SceneMode))
	}
	if !supported(caps.ColorEffects, p.ColorEffect) {
		errors = append(errors, fmt.Sprintf("color_effect %q not supported", p.ColorEffect))
	}

	if p.ExposureCompensation < caps.MinExposure || p.ExposureCompensation > caps.MaxExposure {
		errors = append(errors, fmt.Sprintf("exposure_compensation must be between %d and %d",
			caps.MinExposure, caps.MaxExposure))
	}
	if p.Zoom < 0 || p.Zoom > caps.MaxZoom {
		errors = append(errors, fmt.Sprintf("zoom must be between 0 and %d", caps.MaxZoom))
	}
	if p.JPEGQuality < 1 || p.JPEGQuality > 100 {
		errors = append(errors, "jpeg_quality must be between 1 and 100")
	}
	if !p.PictureSize.IsZero() && len(caps.PictureSizes) > 0 && !containsSize(caps.PictureSizes, p.PictureSize) {
		errors = append(errors, fmt.Sprintf("picture_size %s not supported", p.PictureSize))
	}

	return errors
}

// supported treats an empty value as "leave unset" and an empty list as "not adjustable".
func supported(list []string, v string) bool {
	if v == "" {
		return true
	}
	return indexOf(list, v) >= 0
}

func first(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}

func largest(sizes []geometry.Resolution) geometry.Resolution {
	var best geometry.Resolution
	for _, s := range sizes {
		if s.Width*s.Height > best.Width*best.Height {
			best = s
		}
	}
	return best
}

func containsSize(sizes []geometry.Resolution, r geometry.Resolution) bool {
	for _, s := range sizes {
		if s == r {
			return true
		}
	}
	return false
}
