package server

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-camview/internal/log"
	"github.com/teslashibe/go-camview/pkg/geometry"
	"github.com/teslashibe/go-camview/pkg/session"
)

const sessionKey = "session"

// requireSession resolves :id and stores the session in Locals.
func (s *Server) requireSession(c *fiber.Ctx) error {
	sess, err := s.store.Get(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	c.Locals(sessionKey, sess)
	return c.Next()
}

func sessionOf(local interface{}) *session.Session {
	sess, _ := local.(*session.Session)
	return sess
}

// apply runs ev and broadcasts the result to /ws/events subscribers.
func (s *Server) apply(sess *session.Session, ev session.Event) (session.Result, error) {
	res, err := sess.Apply(ev)
	if err != nil {
		return res, err
	}
	if err := s.events.BroadcastJSON(sess.ID, res); err != nil {
		log.Warn("broadcast failed", "session", sess.ID, "error", err)
	}
	return res, nil
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"sessions":    s.store.Len(),
		"subscribers": s.events.ClientCount(),
		"detector":    s.faceDetector() != nil,
	})
}

func (s *Server) handleSensors(c *fiber.Ctx) error {
	return c.JSON(s.store.Catalog().All())
}

func (s *Server) handleCapabilities(c *fiber.Ctx) error {
	desc, err := s.store.Catalog().Find(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.NewError(fiber.StatusNotFound, err.Error()))
	}
	return c.JSON(desc.Capabilities.Map())
}

func (s *Server) handleListSessions(c *fiber.Ctx) error {
	list := s.store.List()
	out := make([]session.Snapshot, 0, len(list))
	for _, sess := range list {
		out = append(out, sess.Snapshot())
	}
	return c.JSON(out)
}

// CreateSessionRequest is the optional body of POST /api/sessions.
type CreateSessionRequest struct {
	Density float64 `json:"density"`
}

func (s *Server) handleCreateSession(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return errorJSON(c, fiber.NewError(fiber.StatusBadRequest, "invalid body: "+err.Error()))
		}
	}
	sess := s.store.Create(req.Density)
	return c.Status(fiber.StatusCreated).JSON(sess.Snapshot())
}

func (s *Server) handleGetSession(c *fiber.Ctx) error {
	return c.JSON(sessionOf(c.Locals(sessionKey)).Snapshot())
}

func (s *Server) handleDeleteSession(c *fiber.Ctx) error {
	if err := s.store.Delete(c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleEvent(c *fiber.Ctx) error {
	var ev session.Event
	if err := json.Unmarshal(c.Body(), &ev); err != nil {
		return errorJSON(c, fiber.NewError(fiber.StatusBadRequest, "invalid event: "+err.Error()))
	}
	res, err := s.apply(sessionOf(c.Locals(sessionKey)), ev)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(res)
}

// handleFrame runs face detection on a JPEG body. ?ascent= adds score labels.
func (s *Server) handleFrame(c *fiber.Ctx) error {
	det := s.faceDetector()
	if det == nil {
		return errorJSON(c, fiber.NewError(fiber.StatusServiceUnavailable, "face detector not configured"))
	}
	if len(c.Body()) == 0 {
		return errorJSON(c, fiber.NewError(fiber.StatusBadRequest, "empty frame"))
	}

	sess := sessionOf(c.Locals(sessionKey))
	res, err := sess.DetectFaces(det, c.Body(), c.QueryFloat("ascent", 0))
	if err != nil {
		return errorJSON(c, err)
	}
	if err := s.events.BroadcastJSON(sess.ID, res); err != nil {
		log.Warn("broadcast failed", "session", sess.ID, "error", err)
	}
	return c.JSON(res)
}

// OrientationResponse is returned by GET /api/geometry/orientation.
type OrientationResponse struct {
	State              geometry.OrientationState `json:"state"`
	DisplayOrientation int                       `json:"display_orientation"`
	Unmirrored         int                       `json:"unmirrored"`
}

func (s *Server) handleOrientation(c *fiber.Ctx) error {
	st := geometry.OrientationState{
		DisplayRotation: c.QueryInt("display_rotation", 0),
		SensorMount:     c.QueryInt("sensor_mount", 0),
		Front:           c.QueryBool("front", false),
	}
	if r := st.DisplayRotation; r < 0 || r >= 360 || r%90 != 0 {
		return errorJSON(c, fmt.Errorf("%w: display_rotation %d is not 0, 90, 180 or 270", session.ErrInvalidEvent, r))
	}
	if m := st.SensorMount; m < 0 || m >= 360 {
		return errorJSON(c, fmt.Errorf("%w: sensor_mount %d is outside [0, 360)", session.ErrInvalidEvent, m))
	}
	return c.JSON(OrientationResponse{
		State:              st,
		DisplayOrientation: geometry.DisplayOrientation(st),
		Unmirrored:         geometry.UnmirroredOrientation(st),
	})
}

// PreviewSizeRequest is the body of POST /api/geometry/preview-size. Sizes
// are "WIDTHxHEIGHT" strings; when empty the sizes of SensorID (or the
// default sensor) are used.
type PreviewSizeRequest struct {
	Sizes    []string `json:"sizes"`
	SensorID string   `json:"sensor_id"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
}

// PreviewSizeResponse is the chosen size and where it lands on the surface.
type PreviewSizeResponse struct {
	Size     geometry.Resolution `json:"size"`
	Measured struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"measured"`
	Overlay geometry.Rect `json:"overlay"`
}

func (s *Server) handlePreviewSize(c *fiber.Ctx) error {
	var req PreviewSizeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return errorJSON(c, fiber.NewError(fiber.StatusBadRequest, "invalid body: "+err.Error()))
	}

	var sizes []geometry.Resolution
	for _, v := range req.Sizes {
		r, err := geometry.ParseResolution(v)
		if err != nil {
			return errorJSON(c, fmt.Errorf("%w: %v", session.ErrInvalidEvent, err))
		}
		sizes = append(sizes, r)
	}
	if len(sizes) == 0 {
		catalog := s.store.Catalog()
		desc, err := catalog.Default()
		if req.SensorID != "" {
			desc, err = catalog.Find(req.SensorID)
		}
		if err != nil {
			return errorJSON(c, fiber.NewError(fiber.StatusNotFound, err.Error()))
		}
		sizes = desc.PreviewSizes
	}

	size, err := geometry.SelectPreviewSizeErr(sizes, req.Width, req.Height)
	if err != nil {
		return errorJSON(c, err)
	}

	var resp PreviewSizeResponse
	resp.Size = size
	resp.Measured.Width, resp.Measured.Height = geometry.MeasurePreview(size, req.Width, req.Height)
	resp.Overlay = geometry.CenterIn(geometry.Rect{Right: req.Width, Bottom: req.Height},
		resp.Measured.Width, resp.Measured.Height)
	return c.JSON(resp)
}
