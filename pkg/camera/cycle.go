package camera

import "fmt"

// Cycle targets accepted by Manager.Cycle.
const (
	CycleFlash        = "flash"
	CycleExposure     = "exposure"
	CycleColorEffect  = "color_effect"
	CycleZoom         = "zoom"
	CycleWhiteBalance = "white_balance"
	CycleScene        = "scene"
	CycleFocus        = "focus"
)

// CycleNames lists the parameters that can be stepped through.
func CycleNames() []string {
	return []string{CycleFlash, CycleExposure, CycleColorEffect, CycleZoom, CycleWhiteBalance, CycleScene, CycleFocus}
}

// nextInList returns the value after current, wrapping. An unknown current
// value moves to the first entry.
func nextInList(list []string, current string) string {
	if len(list) == 0 {
		return current
	}
	return list[(indexOf(list, current)+1)%len(list)]
}

// Next returns p with the named parameter advanced to its next supported value.
func (p Parameters) Next(name string, caps Capabilities) (Parameters, error) {
	switch name {
	case CycleFlash:
		p.FlashMode = NextFlashMode(p, caps)
	case CycleColorEffect:
		p.ColorEffect = NextColorEffect(p, caps)
	case CycleWhiteBalance:
		p.WhiteBalance = NextWhiteBalance(p, caps)
	case CycleScene:
		p.SceneMode = NextSceneMode(p, caps)
	case CycleFocus:
		p.FocusMode = nextInList(caps.FocusModes, p.FocusMode)
	case CycleExposure:
		if !caps.ExposureSupported() {
			return p, fmt.Errorf("exposure compensation not supported")
		}
		p.ExposureCompensation++
		if p.ExposureCompensation > caps.MaxExposure {
			p.ExposureCompensation = caps.MinExposure
		}
	case CycleZoom:
		if !caps.ZoomSupported() {
			return p, fmt.Errorf("zoom not supported")
		}
		p.Zoom = NextZoom(p, caps)
	default:
		return p, fmt.Errorf("unknown parameter: %s", name)
	}
	return p, nil
}

// NextFlashMode returns the flash mode after p's.
func NextFlashMode(p Parameters, caps Capabilities) string {
	return nextInList(caps.FlashModes, p.FlashMode)
}

func NextColorEffect(p Parameters, caps Capabilities) string {
	return nextInList(caps.ColorEffects, p.ColorEffect)
}

func NextWhiteBalance(p Parameters, caps Capabilities) string {
	return nextInList(caps.WhiteBalance, p.WhiteBalance)
}

func NextSceneMode(p Parameters, caps Capabilities) string {
	return nextInList(caps.SceneModes, p.SceneMode)
}

// NextExposure steps compensation up by one index, wrapping from max to min.
func NextExposure(p Parameters, caps Capabilities) int {
	next, _ := p.Next(CycleExposure, caps)
	return next.ExposureCompensation
}

// NextZoom returns (zoom+1) % maxZoom, or 0 when zoom is unsupported.
func NextZoom(p Parameters, caps Capabilities) int {
	if !caps.ZoomSupported() {
		return 0
	}
	return (p.Zoom + 1) % caps.MaxZoom
}
