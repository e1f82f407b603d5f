package camera

// Preset names for common configurations
const (
	PresetDefault  = "default"
	PresetNight    = "night"
	PresetAction   = "action"
	PresetPortrait = "portrait"
	PresetBright   = "bright"
	PresetZoom2x   = "zoom2x"
	PresetTorch    = "torch"
)

// PresetNames returns the list of available preset names.
func PresetNames() []string {
	return []string{
		PresetDefault,
		PresetNight,
		PresetAction,
		PresetPortrait,
		PresetBright,
		PresetZoom2x,
		PresetTorch,
	}
}

// Presets returns all presets resolved against caps.
func Presets(caps Capabilities) map[string]Parameters {
	out := make(map[string]Parameters, len(PresetNames()))
	for _, name := range PresetNames() {
		if p := GetPreset(name, caps); p != nil {
			out[name] = *p
		}
	}
	return out
}

// GetPreset returns a preset by name, or nil if not found. Settings the
// sensor does not support are left at their defaults.
func GetPreset(name string, caps Capabilities) *Parameters {
	p := DefaultParameters(caps)

	switch name {
	case PresetDefault:
	case PresetNight:
		// Long exposure scene, no flash, brighter.
		setIfSupported(&p.SceneMode, caps.SceneModes, SceneNight)
		setIfSupported(&p.FlashMode, caps.FlashModes, FlashOff)
		p.ExposureCompensation = caps.MaxExposure / 2
	case PresetAction:
		setIfSupported(&p.SceneMode, caps.SceneModes, SceneAction)
		setIfSupported(&p.FocusMode, caps.FocusModes, FocusContinuous)
	case PresetPortrait:
		setIfSupported(&p.SceneMode, caps.SceneModes, ScenePortrait)
		setIfSupported(&p.FlashMode, caps.FlashModes, FlashAuto)
	case PresetBright:
		// Slightly darker to preserve highlights.
		if caps.MinExposure < 0 {
			p.ExposureCompensation = -1
		}
	case PresetZoom2x:
		p.Zoom = caps.MaxZoom / 2
	case PresetTorch:
		setIfSupported(&p.FlashMode, caps.FlashModes, FlashTorch)
	default:
		return nil
	}
	return &p
}

func setIfSupported(field *string, list []string, v string) {
	if indexOf(list, v) >= 0 {
		*field = v
	}
}
