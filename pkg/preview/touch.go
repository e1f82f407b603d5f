package preview

import (
	"math"

	"github.com/teslashibe/go-camview/pkg/geometry"
)

// TouchKind says what a touch asks the camera to do.
type TouchKind string

const (
	TouchAutoFocus    TouchKind = "auto_focus"
	TouchFocusArea    TouchKind = "focus_area"
	TouchMeteringArea TouchKind = "metering_area"
)

// TouchResult is the outcome of a touch. Area is set for the area kinds and
// is in sensor space.
type TouchResult struct {
	Kind TouchKind      `json:"kind"`
	Area *geometry.Rect `json:"area,omitempty"`
}

// Touch resolves a touch at (x, y) in surface coordinates. With a selection
// mode active and the point inside the overlay, the area around the point is
// returned; any other touch requests a plain auto-focus.
func (s State) Touch(x, y float64) (TouchResult, error) {
	if s.Mode == ModeNone || s.Mode == "" {
		return TouchResult{Kind: TouchAutoFocus}, nil
	}
	if s.Overlay.Empty() {
		return TouchResult{}, geometry.ErrDegenerateBounds
	}
	if !s.Overlay.Contains(round(x), round(y)) {
		return TouchResult{Kind: TouchAutoFocus}, nil
	}

	area, err := geometry.AreaAt(s.Orientation, s.Overlay, x, y, s.FocusArea.Width, s.FocusArea.Height)
	if err != nil {
		return TouchResult{}, err
	}
	kind := TouchFocusArea
	if s.Mode == ModeMetering {
		kind = TouchMeteringArea
	}
	return TouchResult{Kind: kind, Area: &area}, nil
}

// Faces maps sensor-space faces into surface coordinates for drawing.
func (s State) Faces(faces []geometry.Face) ([]geometry.Face, error) {
	t, err := s.Transformer()
	if err != nil {
		return nil, err
	}
	return t.FacesToDisplay(faces), nil
}

func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
