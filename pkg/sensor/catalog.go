// Package sensor describes the image sensors a device exposes: which way
// they face, how they are mounted, and what they support.
package sensor

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/teslashibe/go-camview/pkg/camera"
	"github.com/teslashibe/go-camview/pkg/geometry"
)

const sectionPrefix = "sensor."

// ErrNotFound is returned when no sensor matches a lookup.
var ErrNotFound = errors.New("sensor: not found")

// Facing values.
const (
	FacingBack  = "back"
	FacingFront = "front"
)

// Descriptor is one sensor of the catalog.
type Descriptor struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Facing       string                `json:"facing"`
	Orientation  int                   `json:"orientation"`
	PreviewSizes []geometry.Resolution `json:"preview_sizes"`
	Capabilities camera.Capabilities   `json:"capabilities"`
}

// Front reports whether the sensor faces the user.
func (d Descriptor) Front() bool { return d.Facing == FacingFront }

// Catalog is an ordered set of sensors.
type Catalog struct {
	sensors []Descriptor
}

// NewCatalog builds a catalog from descriptors, keeping their order.
func NewCatalog(sensors ...Descriptor) (*Catalog, error) {
	seen := make(map[string]bool, len(sensors))
	for _, s := range sensors {
		if s.ID == "" {
			return nil, fmt.Errorf("sensor: empty id")
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("sensor: duplicate id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return &Catalog{sensors: append([]Descriptor(nil), sensors...)}, nil
}

// LoadCatalog reads a catalog INI file with one [sensor.<id>] section per sensor.
func LoadCatalog(path string) (*Catalog, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog file: %w", err)
	}
	return fromINI(cfg)
}

// ParseCatalog reads a catalog from INI text.
func ParseCatalog(data []byte) (*Catalog, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return fromINI(cfg)
}

func fromINI(cfg *ini.File) (*Catalog, error) {
	var sensors []Descriptor
	for _, section := range cfg.Sections() {
		id, ok := strings.CutPrefix(section.Name(), sectionPrefix)
		if !ok {
			continue
		}
		d, err := parseSection(id, section)
		if err != nil {
			return nil, err
		}
		sensors = append(sensors, d)
	}
	if len(sensors) == 0 {
		return nil, fmt.Errorf("sensor: catalog has no [%s<id>] sections", sectionPrefix)
	}
	return NewCatalog(sensors...)
}

func parseSection(id string, section *ini.Section) (Descriptor, error) {
	d := Descriptor{
		ID:          id,
		Name:        section.Key("name").MustString(id),
		Facing:      strings.ToLower(section.Key("facing").MustString(FacingBack)),
		Orientation: section.Key("orientation").MustInt(90),
	}

	if d.Facing != FacingBack && d.Facing != FacingFront {
		return d, fmt.Errorf("sensor %s: facing must be %q or %q, got %q", id, FacingBack, FacingFront, d.Facing)
	}
	if d.Orientation < 0 || d.Orientation >= 360 {
		return d, fmt.Errorf("sensor %s: orientation must be in [0, 360), got %d", id, d.Orientation)
	}

	var err error
	if d.PreviewSizes, err = parseSizes(section.Key("preview_sizes").String()); err != nil {
		return d, fmt.Errorf("sensor %s: preview_sizes: %w", id, err)
	}
	pictures, err := parseSizes(section.Key("picture_sizes").String())
	if err != nil {
		return d, fmt.Errorf("sensor %s: picture_sizes: %w", id, err)
	}

	d.Capabilities = camera.Capabilities{
		FlashModes:       list(section.Key("flash_modes").String()),
		FocusModes:       list(section.Key("focus_modes").String()),
		WhiteBalance:     list(section.Key("white_balance").String()),
		SceneModes:       list(section.Key("scene_modes").String()),
		ColorEffects:     list(section.Key("color_effects").String()),
		PictureSizes:     pictures,
		MinExposure:      section.Key("min_exposure").MustInt(0),
		MaxExposure:      section.Key("max_exposure").MustInt(0),
		MaxZoom:          section.Key("max_zoom").MustInt(0),
		MaxFocusAreas:    section.Key("max_focus_areas").MustInt(0),
		MaxMeteringAreas: section.Key("max_metering_areas").MustInt(0),
		FaceDetection:    section.Key("face_detection").MustBool(false),
	}
	if d.Capabilities.MinExposure > d.Capabilities.MaxExposure {
		return d, fmt.Errorf("sensor %s: min_exposure > max_exposure", id)
	}
	return d, nil
}

// list parses a comma-separated value.
func list(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseSizes(s string) ([]geometry.Resolution, error) {
	var sizes []geometry.Resolution
	for _, item := range list(s) {
		r, err := geometry.ParseResolution(item)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, r)
	}
	return sizes, nil
}

// All returns the sensors in catalog order.
func (c *Catalog) All() []Descriptor {
	return append([]Descriptor(nil), c.sensors...)
}

// IDs returns sensor ids sorted.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.sensors))
	for _, s := range c.sensors {
		ids = append(ids, s.ID)
	}
	sort.Strings(ids)
	return ids
}

// Find returns the sensor with the given id.
func (c *Catalog) Find(id string) (Descriptor, error) {
	for _, s := range c.sensors {
		if s.ID == id {
			return s, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// First returns the first sensor facing the requested way.
func (c *Catalog) First(front bool) (Descriptor, error) {
	for _, s := range c.sensors {
		if s.Front() == front {
			return s, nil
		}
	}
	facing := FacingBack
	if front {
		facing = FacingFront
	}
	return Descriptor{}, fmt.Errorf("%w: no %s sensor", ErrNotFound, facing)
}

// HasFront reports whether any sensor faces the user.
func (c *Catalog) HasFront() bool {
	_, err := c.First(true)
	return err == nil
}

// Switch returns the first sensor facing the other way from currentID. If the
// catalog has no such sensor the current one is returned unchanged.
func (c *Catalog) Switch(currentID string) (Descriptor, error) {
	cur, err := c.Find(currentID)
	if err != nil {
		return Descriptor{}, err
	}
	other, err := c.First(!cur.Front())
	if err != nil {
		return cur, nil
	}
	return other, nil
}

// Default returns the first back sensor, or the first sensor of any facing.
func (c *Catalog) Default() (Descriptor, error) {
	if d, err := c.First(false); err == nil {
		return d, nil
	}
	if len(c.sensors) == 0 {
		return Descriptor{}, ErrNotFound
	}
	return c.sensors[0], nil
}
