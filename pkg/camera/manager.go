package camera

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/teslashibe/go-camview/pkg/geometry"
)

// Manager holds the current parameters of one attached sensor and handles updates.
type Manager struct {
	caps   Capabilities
	params Parameters
	mu     sync.RWMutex

	// Callback when parameters change (for applying to the sensor)
	OnChange func(p Parameters) error
}

// NewManager creates a manager with the default parameters for caps.
func NewManager(caps Capabilities) *Manager {
	return &Manager{
		caps:   caps,
		params: DefaultParameters(caps),
	}
}

// Capabilities returns the capabilities parameters are validated against.
func (m *Manager) Capabilities() Capabilities {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.caps
}

// Parameters returns the current parameters.
func (m *Manager) Parameters() Parameters {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.params
}

// SetParameters validates and stores p.
func (m *Manager) SetParameters(p Parameters) error {
	m.mu.RLock()
	caps := m.caps
	m.mu.RUnlock()

	if errors := p.Validate(caps); len(errors) > 0 {
		return fmt.Errorf("validation failed: %v", errors)
	}

	m.mu.Lock()
	m.params = p
	callback := m.OnChange
	m.mu.Unlock()

	if callback != nil {
		if err := callback(p); err != nil {
			return fmt.Errorf("failed to apply parameters: %w", err)
		}
	}

	return nil
}

// UpdateParameters updates specific fields of the parameters.
// Accepts a map of field names to values; a "preset" key is applied first.
func (m *Manager) UpdateParameters(values map[string]interface{}) error {
	m.mu.RLock()
	p := m.params
	caps := m.caps
	m.mu.RUnlock()

	if presetName, ok := values["preset"].(string); ok {
		preset := GetPreset(presetName, caps)
		if preset == nil {
			return fmt.Errorf("unknown preset: %s", presetName)
		}
		p = *preset
	}

	for key, value := range values {
		switch key {
		case "preset":
		case "flash_mode":
			if v, ok := value.(string); ok {
				p.FlashMode = v
			}
		case "focus_mode":
			if v, ok := value.(string); ok {
				p.FocusMode = v
			}
		case "white_balance":
			if v, ok := value.(string); ok {
				p.WhiteBalance = v
			}
		case "scene_mode":
			if v, ok := value.(string); ok {
				p.SceneMode = v
			}
		case "color_effect":
			if v, ok := value.(string); ok {
				p.ColorEffect = v
			}
		case "exposure_compensation":
			v, ok := toInt(value)
			if !ok {
				return fmt.Errorf("exposure_compensation must be an integer, got %v", value)
			}
			p.ExposureCompensation = v
		case "zoom":
			v, ok := toInt(value)
			if !ok {
				return fmt.Errorf("zoom must be an integer, got %v", value)
			}
			p.Zoom = v
		case "jpeg_quality":
			v, ok := toInt(value)
			if !ok {
				return fmt.Errorf("jpeg_quality must be an integer, got %v", value)
			}
			p.JPEGQuality = v
		case "picture_size":
			if v, ok := value.(string); ok {
				r, err := geometry.ParseResolution(v)
				if err != nil {
					return err
				}
				p.PictureSize = r
			}
		default:
			return fmt.Errorf("unknown parameter: %s", key)
		}
	}

	return m.SetParameters(p)
}

// Cycle advances the named parameter to its next supported value and
// returns the new parameters.
func (m *Manager) Cycle(name string) (Parameters, error) {
	m.mu.RLock()
	p, caps := m.params, m.caps
	m.mu.RUnlock()

	next, err := p.Next(name, caps)
	if err != nil {
		return p, err
	}
	if err := m.SetParameters(next); err != nil {
		return p, err
	}
	return next, nil
}

// Reset swaps the capabilities (e.g. after switching sensors) and restores
// default parameters.
func (m *Manager) Reset(caps Capabilities) {
	m.mu.Lock()
	m.caps = caps
	m.params = DefaultParameters(caps)
	m.mu.Unlock()
}

// toInt accepts integral numbers only; 1.7 is not a zoom index.
func toInt(v interface{}) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		if val != math.Trunc(val) {
			return 0, false
		}
		return int(val), true
	case json.Number:
		i, err := val.Int64()
		if err == nil {
			return int(i), true
		}
	}
	return 0, false
}
