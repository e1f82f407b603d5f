package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-camview/pkg/session"
)

// Script is a recorded sequence of host events. Event fields use the same
// names as the JSON wire format.
type Script struct {
	Density float64          `yaml:"density"`
	Events  []map[string]any `yaml:"events"`
}

// defaultScript walks a back sensor through a portrait layout, a rotation to
// landscape, a focus touch and a switch to the front sensor.
const defaultScript = `
density: 2.625
events:
  - {kind: surface_created}
  - {kind: attach, sensor_id: "0", rotation: 0}
  - {kind: layout, width: 1080, height: 1920}
  - {kind: device_orientation, degrees: 2}
  - {kind: device_orientation, degrees: 88}
  - {kind: display_rotation, surface: 1}
  - {kind: layout, width: 1920, height: 1080}
  - {kind: mode, mode: focus}
  - {kind: touch, x: 960, y: 540}
  - {kind: grid, line_width: 1}
  - {kind: cycle, name: flash}
  - {kind: switch_camera}
  - {kind: stop}
`

// ParseScript decodes a YAML script into events.
func ParseScript(data []byte) (float64, []session.Event, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return 0, nil, fmt.Errorf("parse script: %w", err)
	}

	events := make([]session.Event, 0, len(s.Events))
	for i, raw := range s.Events {
		b, err := json.Marshal(raw)
		if err != nil {
			return 0, nil, fmt.Errorf("event %d: %w", i, err)
		}
		var ev session.Event
		if err := json.Unmarshal(b, &ev); err != nil {
			return 0, nil, fmt.Errorf("event %d: %w", i, err)
		}
		if ev.Kind == "" {
			return 0, nil, fmt.Errorf("event %d: missing kind", i)
		}
		events = append(events, ev)
	}
	return s.Density, events, nil
}

// LoadScript reads path, or the built-in script when path is empty.
func LoadScript(path string) (float64, []session.Event, error) {
	if path == "" {
		return ParseScript([]byte(defaultScript))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, nil, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(data)
}
