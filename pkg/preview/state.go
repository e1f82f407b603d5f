// Package preview models one camera preview surface: its lifecycle, the
// sensor attached to it, the chosen preview size and where the preview sits
// on screen. State is a plain value; every event returns the next State.
package preview

import (
	"errors"
	"fmt"
	"math"

	"github.com/teslashibe/go-camview/pkg/geometry"
	"github.com/teslashibe/go-camview/pkg/sensor"
)

// Status of the preview surface.
type Status string

const (
	StatusError     Status = "error"
	StatusNoSurface Status = "no_surface"
	StatusReady     Status = "ready"
	StatusStarted   Status = "started"
	StatusStopped   Status = "stopped"
)

// Mode is the active touch selection mode. Focus and metering are exclusive.
type Mode string

const (
	ModeNone     Mode = "none"
	ModeFocus    Mode = "focus"
	ModeMetering Mode = "metering"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNone, ModeFocus, ModeMetering:
		return m, nil
	case "":
		return ModeNone, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Minimum touch area edge in density-independent pixels.
const (
	AreaWidthMinimumDP  = 48
	AreaHeightMinimumDP = 48
)

var (
	ErrNoSurface   = errors.New("preview: no surface")
	ErrNotAttached = errors.New("preview: no sensor attached")
	ErrUnknownMode = errors.New("preview: unknown selection mode")
)

// Extent is a width and height in pixels.
type Extent struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// State is everything the preview knows. It is safe to copy.
type State struct {
	Status      Status                    `json:"status"`
	Mode        Mode                      `json:"mode"`
	Orientation geometry.OrientationState `json:"orientation"`

	// DisplayOrientation is the angle the preview must be rotated clockwise to appear upright.
	DisplayOrientation int `json:"display_orientation"`

	Attached     bool                  `json:"attached"`
	SensorID     string                `json:"sensor_id,omitempty"`
	PreviewSizes []geometry.Resolution `json:"-"`

	Surface     Extent              `json:"surface"`
	PreviewSize geometry.Resolution `json:"preview_size"`
	Measured    Extent              `json:"measured"`
	Overlay     geometry.Rect       `json:"overlay"`

	Density   float64 `json:"density"`
	FocusArea Extent  `json:"focus_area"`

	DeviceRotation string `json:"device_rotation,omitempty"`
	tracker        geometry.OrientationTracker
}

// New returns the state of a preview with no surface and nothing attached.
// density scales dp values to pixels; non-positive means 1.
func New(density float64) State {
	if density <= 0 {
		density = 1
	}
	return State{
		Status:  StatusNoSurface,
		Mode:    ModeNone,
		Density: density,
		FocusArea: Extent{
			Width:  dpToPx(AreaWidthMinimumDP, density),
			Height: dpToPx(AreaHeightMinimumDP, density),
		},
	}
}

// WithFocusArea overrides the square touch area edge, in dp.
func (s State) WithFocusArea(dp int) State {
	if dp > 0 {
		px := dpToPx(dp, s.Density)
		s.FocusArea = Extent{Width: px, Height: px}
	}
	return s
}

func dpToPx(dp int, density float64) int {
	return int(math.Floor(float64(dp)*density + 0.5))
}

func (s State) hasSurface() bool {
	return s.Status != StatusNoSurface && s.Status != StatusError
}

// SurfaceCreated marks the surface available. The preview starts right away
// if a sensor is attached.
func (s State) SurfaceCreated() State {
	s.Status = StatusReady
	if s.Attached {
		s.Status = StatusStarted
	}
	return s
}

// SurfaceDestroyed drops the surface and its layout.
func (s State) SurfaceDestroyed() State {
	s.Status = StatusNoSurface
	s.Surface = Extent{}
	s.Measured = Extent{}
	s.Overlay = geometry.Rect{}
	return s
}

// Start begins the preview.
func (s State) Start() (State, error) {
	if !s.hasSurface() {
		return s, ErrNoSurface
	}
	if !s.Attached {
		return s, ErrNotAttached
	}
	s.Status = StatusStarted
	return s, nil
}

// Stop halts a started preview. Other states are returned unchanged.
func (s State) Stop() State {
	if s.Status == StatusStarted {
		s.Status = StatusStopped
	}
	return s
}

// Fail records an unrecoverable sensor error.
func (s State) Fail() State {
	s.Status = StatusError
	return s
}

// Attach binds a sensor to the preview with the given display rotation in
// degrees. The display orientation is recomputed, and so is the preview size
// if the surface has already been laid out.
func (s State) Attach(desc sensor.Descriptor, displayRotation int) (State, error) {
	s.Attached = true
	s.SensorID = desc.ID
	s.PreviewSizes = desc.PreviewSizes
	s.PreviewSize = geometry.Resolution{}
	s.Orientation = geometry.OrientationState{
		DisplayRotation: displayRotation,
		SensorMount:     desc.Orientation,
		Front:           desc.Front(),
	}
	s.DisplayOrientation = geometry.DisplayOrientation(s.Orientation)

	if s.Status == StatusReady || s.Status == StatusStopped {
		s.Status = StatusStarted
	}
	if s.Surface.Width > 0 && s.Surface.Height > 0 {
		return s.Layout(s.Surface.Width, s.Surface.Height)
	}
	return s, nil
}

// Detach releases the sensor. The surface layout is kept.
func (s State) Detach() State {
	s.Attached = false
	s.SensorID = ""
	s.PreviewSizes = nil
	s.PreviewSize = geometry.Resolution{}
	if s.hasSurface() {
		s.Status = StatusReady
	}
	if s.Surface.Width > 0 && s.Surface.Height > 0 {
		s = s.measure()
	}
	return s
}

// RotateDisplay updates the display rotation. It reports whether the rotation
// changed; the display orientation is only recomputed when it did.
func (s State) RotateDisplay(displayRotation int) (State, bool) {
	if s.Orientation.DisplayRotation == displayRotation {
		return s, false
	}
	s.Orientation.DisplayRotation = displayRotation
	s.DisplayOrientation = geometry.DisplayOrientation(s.Orientation)
	return s, true
}

// Layout sizes the preview inside a width x height surface. When no supported
// size fits, the previous preview size is kept, the layout still completes and
// the returned error wraps geometry.ErrNoMatchingResolution.
func (s State) Layout(width, height int) (State, error) {
	if width <= 0 || height <= 0 {
		return s, fmt.Errorf("%w: %dx%d", geometry.ErrInvalidExtent, width, height)
	}
	s.Surface = Extent{Width: width, Height: height}

	var selectErr error
	if s.Attached {
		size, err := geometry.SelectPreviewSizeErr(s.PreviewSizes, width, height)
		if err != nil {
			selectErr = err
		} else {
			s.PreviewSize = size
		}
	}
	return s.measure(), selectErr
}

func (s State) measure() State {
	w, h := geometry.MeasurePreview(s.PreviewSize, s.Surface.Width, s.Surface.Height)
	s.Measured = Extent{Width: w, Height: h}
	s.Overlay = geometry.CenterIn(geometry.Rect{Right: s.Surface.Width, Bottom: s.Surface.Height}, w, h)
	return s
}

// SetMode switches the touch selection mode.
func (s State) SetMode(m Mode) (State, error) {
	if _, err := ParseMode(string(m)); err != nil {
		return s, err
	}
	if m == "" {
		m = ModeNone
	}
	s.Mode = m
	return s, nil
}

// Transformer maps between the overlay bounds and sensor space.
func (s State) Transformer() (*geometry.Transformer, error) {
	return geometry.NewTransformer(s.Orientation, s.Overlay)
}

// DeviceOrientation feeds a raw device orientation reading (degrees) and
// reports whether the device crossed into another rotation class.
func (s State) DeviceOrientation(raw int) (State, geometry.Rotation, bool) {
	r, changed := s.tracker.Update(raw)
	if changed {
		s.DeviceRotation = r.String()
	}
	return s, r, changed
}
