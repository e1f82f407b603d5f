package server

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-camview/internal/log"
	"github.com/teslashibe/go-camview/pkg/hub"
	"github.com/teslashibe/go-camview/pkg/session"
)

const maxEventSize = 64 * 1024

// handleSessionWS is the host event loop for one session: each text message
// is an Event and is answered with exactly one Reply, in order.
func (s *Server) handleSessionWS(c *websocket.Conn) {
	sess := sessionOf(c.Locals(sessionKey))
	if sess == nil {
		c.Close()
		return
	}
	logger := log.With("session", sess.ID, "remote", c.RemoteAddr().String())
	logger.Debug("event stream opened")
	defer logger.Debug("event stream closed")

	c.SetReadLimit(maxEventSize)
	for {
		mt, data, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("event stream read failed", "error", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		var reply session.Reply
		var ev session.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			reply.Error = "invalid event: " + err.Error()
			reply.Code = fiber.StatusBadRequest
		} else if res, err := s.apply(sess, ev); err != nil {
			reply.Error = err.Error()
			reply.Code = statusFor(err)
		} else {
			reply.Result = &res
		}

		if err := c.WriteJSON(reply); err != nil {
			logger.Warn("event stream write failed", "error", err)
			return
		}
	}
}

// handleEventsWS streams applied results. ?session= limits the stream to one
// session.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	hub.NewClient(s.events, c, c.Query("session")).Run()
}
