package session

import (
	"github.com/teslashibe/go-camview/pkg/camera"
	"github.com/teslashibe/go-camview/pkg/geometry"
	"github.com/teslashibe/go-camview/pkg/preview"
)

// Event kinds accepted by Session.Apply.
const (
	KindSurfaceCreated    = "surface_created"
	KindSurfaceDestroyed  = "surface_destroyed"
	KindLayout            = "layout"
	KindDisplayRotation   = "display_rotation"
	KindDeviceOrientation = "device_orientation"
	KindAttach            = "attach"
	KindDetach            = "detach"
	KindSwitchCamera      = "switch_camera"
	KindStart             = "start"
	KindStop              = "stop"
	KindSensorError       = "sensor_error"
	KindMode              = "mode"
	KindTouch             = "touch"
	KindFaces             = "faces"
	KindParameters        = "parameters"
	KindCycle             = "cycle"
	KindGrid              = "grid"
)

// Event is a host event for one preview. Only the fields of its kind are read.
type Event struct {
	Kind string `json:"kind"`

	// layout
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// display_rotation (degrees) and attach
	Rotation *int `json:"rotation,omitempty"`
	// display_rotation as a surface rotation index 0..3, used when Rotation is nil
	Surface *int `json:"surface,omitempty"`

	// device_orientation
	Degrees int `json:"degrees,omitempty"`

	// attach
	SensorID string `json:"sensor_id,omitempty"`

	// mode
	Mode string `json:"mode,omitempty"`

	// touch
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// faces, in sensor space
	Faces []geometry.Face `json:"faces,omitempty"`
	// font ascent for face labels; zero skips labels
	Ascent float64 `json:"ascent,omitempty"`

	// parameters
	Parameters map[string]interface{} `json:"parameters,omitempty"`

	// cycle
	Name string `json:"name,omitempty"`

	// grid line width in dp
	LineWidth int `json:"line_width,omitempty"`
}

// Result is what an event produced. State is always the state after the event.
type Result struct {
	Session string        `json:"session"`
	Kind    string        `json:"kind"`
	State   preview.State `json:"state"`

	// Changed reports rotation changes for display_rotation and device_orientation.
	Changed  bool   `json:"changed,omitempty"`
	Rotation string `json:"rotation,omitempty"`

	Touch      *preview.TouchResult `json:"touch,omitempty"`
	Faces      []geometry.Face      `json:"faces,omitempty"`
	// Primary is the ID of the most prominent detected face, 0 when none.
	Primary    int                  `json:"primary,omitempty"`
	Labels     []preview.Label      `json:"labels,omitempty"`
	Grid       *preview.Grid        `json:"grid,omitempty"`
	Parameters *camera.Parameters   `json:"parameters,omitempty"`

	// Warning carries a non-fatal condition, e.g. no preview size fit the surface.
	Warning string `json:"warning,omitempty"`
}

// Reply is the envelope written back for each event on a streaming
// transport. Exactly one of Result and Error is set; Code carries the HTTP
// status the error would map to.
type Reply struct {
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
	Code   int     `json:"code,omitempty"`
}
