// Package session hosts isolated preview sessions. Each session owns its
// preview state, attached sensor and capture parameters; events for one
// session are applied one at a time.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/teslashibe/go-camview/internal/log"
	"github.com/teslashibe/go-camview/pkg/camera"
	"github.com/teslashibe/go-camview/pkg/facedetect"
	"github.com/teslashibe/go-camview/pkg/geometry"
	"github.com/teslashibe/go-camview/pkg/preview"
	"github.com/teslashibe/go-camview/pkg/sensor"
)

var (
	ErrNotFound     = errors.New("session: not found")
	ErrUnknownEvent = errors.New("session: unknown event kind")
	ErrInvalidEvent = errors.New("session: invalid event")
	ErrUnsupported  = errors.New("session: not supported by sensor")
)

// Session is one preview instance.
type Session struct {
	ID      string
	Created time.Time

	mu      sync.Mutex
	state   preview.State
	catalog *sensor.Catalog
	sensor  *sensor.Descriptor
	camera  *camera.Manager
}

func newSession(id string, catalog *sensor.Catalog, density float64, focusAreaDP int) *Session {
	s := &Session{
		ID:      id,
		Created: time.Now(),
		state:   preview.New(density).WithFocusArea(focusAreaDP),
		catalog: catalog,
		camera:  camera.NewManager(camera.Capabilities{}),
	}
	logger := log.Component("camera").With("session", id)
	s.camera.OnChange = func(p camera.Parameters) error {
		logger.Debug("parameters applied", "flash", p.FlashMode, "focus", p.FocusMode,
			"exposure", p.ExposureCompensation, "zoom", p.Zoom, "scene", p.SceneMode)
		return nil
	}
	return s
}

// State returns a copy of the current preview state.
func (s *Session) State() preview.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Sensor returns the attached sensor, if any.
func (s *Session) Sensor() (sensor.Descriptor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sensor == nil {
		return sensor.Descriptor{}, false
	}
	return *s.sensor, true
}

// Parameters returns the capture parameters of the attached sensor.
func (s *Session) Parameters() camera.Parameters {
	return s.camera.Parameters()
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	ID         string             `json:"id"`
	Created    time.Time          `json:"created"`
	State      preview.State      `json:"state"`
	Sensor     *sensor.Descriptor `json:"sensor,omitempty"`
	Parameters *camera.Parameters `json:"parameters,omitempty"`
}

// Snapshot returns the session's state, sensor and parameters together.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{ID: s.ID, Created: s.Created, State: s.state}
	if s.sensor != nil {
		desc := *s.sensor
		p := s.camera.Parameters()
		snap.Sensor = &desc
		snap.Parameters = &p
	}
	return snap
}

// Apply runs one event against the session. On error the state is unchanged.
func (s *Session) Apply(ev Event) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{Session: s.ID, Kind: ev.Kind}
	next, err := s.apply(ev, &res)
	if err != nil {
		log.Debug("event rejected", "session", s.ID, "kind", ev.Kind, "error", err)
		res.State = s.state
		return res, err
	}
	s.state = next
	res.State = next
	return res, nil
}

func (s *Session) apply(ev Event, res *Result) (preview.State, error) {
	st := s.state

	switch ev.Kind {
	case KindSurfaceCreated:
		return st.SurfaceCreated(), nil

	case KindSurfaceDestroyed:
		return st.SurfaceDestroyed(), nil

	case KindStart:
		return st.Start()

	case KindStop:
		return st.Stop(), nil

	case KindSensorError:
		log.Warn("sensor error reported", "session", s.ID, "sensor", st.SensorID)
		return st.Fail(), nil

	case KindLayout:
		next, err := st.Layout(ev.Width, ev.Height)
		if errors.Is(err, geometry.ErrNoMatchingResolution) {
			res.Warning = err.Error()
			return next, nil
		}
		return next, err

	case KindDisplayRotation:
		d, err := displayRotation(ev)
		if err != nil {
			return st, err
		}
		next, changed := st.RotateDisplay(d)
		res.Changed = changed
		return next, nil

	case KindDeviceOrientation:
		next, _, changed := st.DeviceOrientation(ev.Degrees)
		res.Changed = changed
		res.Rotation = next.DeviceRotation
		return next, nil

	case KindAttach:
		desc, err := s.lookup(ev.SensorID)
		if err != nil {
			return st, err
		}
		rotation := st.Orientation.DisplayRotation
		if ev.Rotation != nil || ev.Surface != nil {
			if rotation, err = displayRotation(ev); err != nil {
				return st, err
			}
		}
		return s.attach(st, desc, rotation, res)

	case KindSwitchCamera:
		if s.sensor == nil {
			return st, preview.ErrNotAttached
		}
		desc, err := s.catalog.Switch(s.sensor.ID)
		if err != nil {
			return st, err
		}
		return s.attach(st, desc, st.Orientation.DisplayRotation, res)

	case KindDetach:
		s.sensor = nil
		s.camera.Reset(camera.Capabilities{})
		return st.Detach(), nil

	case KindMode:
		m, err := preview.ParseMode(ev.Mode)
		if err != nil {
			return st, err
		}
		if err := s.checkMode(m); err != nil {
			return st, err
		}
		return st.SetMode(m)

	case KindTouch:
		touch, err := st.Touch(ev.X, ev.Y)
		if err != nil {
			return st, err
		}
		res.Touch = &touch
		return st, nil

	case KindFaces:
		if err := s.checkFaceDetection(); err != nil {
			return st, err
		}
		faces, err := st.Faces(ev.Faces)
		if err != nil {
			return st, err
		}
		res.Faces = faces
		if ev.Ascent != 0 {
			for _, f := range faces {
				res.Labels = append(res.Labels, preview.FaceLabel(f, ev.Ascent))
			}
		}
		return st, nil

	case KindParameters:
		if s.sensor == nil {
			return st, preview.ErrNotAttached
		}
		if err := s.camera.UpdateParameters(ev.Parameters); err != nil {
			return st, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
		}
		p := s.camera.Parameters()
		res.Parameters = &p
		return st, nil

	case KindCycle:
		if s.sensor == nil {
			return st, preview.ErrNotAttached
		}
		p, err := s.camera.Cycle(ev.Name)
		if err != nil {
			return st, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		res.Parameters = &p
		return st, nil

	case KindGrid:
		lineWidth := ev.LineWidth
		if lineWidth <= 0 {
			lineWidth = 1
		}
		grid := preview.ThirdsGrid(st.Overlay, preview.StrokeWidth(lineWidth, st.Density))
		res.Grid = &grid
		return st, nil
	}

	return st, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
}

func (s *Session) lookup(id string) (sensor.Descriptor, error) {
	if id == "" {
		return s.catalog.Default()
	}
	return s.catalog.Find(id)
}

func (s *Session) attach(st preview.State, desc sensor.Descriptor, rotation int, res *Result) (preview.State, error) {
	next, err := st.Attach(desc, rotation)
	if errors.Is(err, geometry.ErrNoMatchingResolution) {
		res.Warning = err.Error()
		err = nil
	}
	if err != nil {
		return st, err
	}

	// Area selection the new sensor cannot honour is switched off.
	if s.checkModeFor(next.Mode, desc.Capabilities) != nil {
		next.Mode = preview.ModeNone
	}

	s.sensor = &desc
	s.camera.Reset(desc.Capabilities)
	p := s.camera.Parameters()
	res.Parameters = &p

	log.Debug("sensor attached", "session", s.ID, "sensor", desc.ID,
		"facing", desc.Facing, "display_orientation", next.DisplayOrientation)
	return next, nil
}

func (s *Session) checkMode(m preview.Mode) error {
	if m == preview.ModeNone {
		return nil
	}
	if s.sensor == nil {
		return preview.ErrNotAttached
	}
	return s.checkModeFor(m, s.sensor.Capabilities)
}

func (s *Session) checkModeFor(m preview.Mode, caps camera.Capabilities) error {
	switch {
	case m == preview.ModeFocus && !caps.FocusAreasSupported():
		return fmt.Errorf("%w: focus areas", ErrUnsupported)
	case m == preview.ModeMetering && !caps.MeteringAreasSupported():
		return fmt.Errorf("%w: metering areas", ErrUnsupported)
	}
	return nil
}

func (s *Session) checkFaceDetection() error {
	if s.sensor == nil {
		return preview.ErrNotAttached
	}
	if !s.sensor.Capabilities.FaceDetection {
		return fmt.Errorf("%w: face detection", ErrUnsupported)
	}
	return nil
}

func displayRotation(ev Event) (int, error) {
	switch {
	case ev.Rotation != nil:
		d := *ev.Rotation
		if d < 0 || d >= 360 || d%90 != 0 {
			return 0, fmt.Errorf("%w: display rotation %d is not 0, 90, 180 or 270", ErrInvalidEvent, d)
		}
		return d, nil
	case ev.Surface != nil:
		if *ev.Surface < 0 || *ev.Surface > 3 {
			return 0, fmt.Errorf("%w: surface rotation index %d", ErrInvalidEvent, *ev.Surface)
		}
		return geometry.DisplayRotationFromSurface(*ev.Surface), nil
	}
	return 0, fmt.Errorf("%w: rotation or surface required", ErrInvalidEvent)
}

// DetectFaces runs det on a native-orientation frame and applies the faces it
// finds as a faces event. Result.Primary names the most prominent face.
func (s *Session) DetectFaces(det facedetect.Detector, frame []byte, ascent float64) (Result, error) {
	s.mu.Lock()
	err := s.checkFaceDetection()
	s.mu.Unlock()
	if err != nil {
		return Result{Session: s.ID, Kind: KindFaces, State: s.State()}, err
	}

	dets, err := det.Detect(frame)
	if err != nil {
		return Result{Session: s.ID, Kind: KindFaces, State: s.State()}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	res, err := s.Apply(Event{Kind: KindFaces, Faces: facedetect.ToSensorFaces(dets), Ascent: ascent})
	if err != nil {
		return res, err
	}
	if best := facedetect.SelectBest(dets); best != nil {
		for i := range dets {
			if &dets[i] == best {
				res.Primary = i + 1
			}
		}
	}
	return res, nil
}
