// Package client talks to a camview server: REST for session management and
// a websocket per session for streaming host events.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-camview/internal/httpc"
	"github.com/teslashibe/go-camview/pkg/sensor"
	"github.com/teslashibe/go-camview/pkg/server"
	"github.com/teslashibe/go-camview/pkg/session"
)

// DefaultSendTimeout applies to Send when ctx has no deadline.
const DefaultSendTimeout = 10 * time.Second

// Error is an error reported by the server.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("camview: %d: %s", e.Code, e.Message)
}

// Client is a camview API client.
type Client struct {
	baseURL string
	dialer  *websocket.Dialer
}

// New returns a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		dialer: &websocket.Dialer{
			HandshakeTimeout: httpc.DefaultConnectTimeout,
		},
	}
}

func (c *Client) url(path string) string { return c.baseURL + path }

// remote turns an httpc status error carrying {"error": ...} into *Error.
func remote(err error) error {
	var se *httpc.StatusError
	if !errors.As(err, &se) {
		return err
	}
	var body struct {
		Error string `json:"error"`
	}
	msg := se.Body
	if json.Unmarshal([]byte(se.Body), &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &Error{Code: se.Code, Message: msg}
}

// Health returns the server health document.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := httpc.GetJSON(ctx, c.url("/api/health"), &out); err != nil {
		return nil, remote(err)
	}
	return out, nil
}

// Sensors lists the server's sensor catalog.
func (c *Client) Sensors(ctx context.Context) ([]sensor.Descriptor, error) {
	var out []sensor.Descriptor
	if err := httpc.GetJSON(ctx, c.url("/api/sensors"), &out); err != nil {
		return nil, remote(err)
	}
	return out, nil
}

// CreateSession starts a session. density <= 0 uses the server default.
func (c *Client) CreateSession(ctx context.Context, density float64) (session.Snapshot, error) {
	var out session.Snapshot
	err := httpc.PostJSON(ctx, c.url("/api/sessions"), server.CreateSessionRequest{Density: density}, &out)
	return out, remote(err)
}

// GetSession fetches a session snapshot.
func (c *Client) GetSession(ctx context.Context, id string) (session.Snapshot, error) {
	var out session.Snapshot
	err := httpc.GetJSON(ctx, c.url("/api/sessions/"+url.PathEscape(id)), &out)
	return out, remote(err)
}

// DeleteSession ends a session.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return remote(httpc.DeleteJSON(ctx, c.url("/api/sessions/"+url.PathEscape(id)), nil))
}

// Apply sends a single event over REST.
func (c *Client) Apply(ctx context.Context, id string, ev session.Event) (session.Result, error) {
	var out session.Result
	err := httpc.PostJSON(ctx, c.url("/api/sessions/"+url.PathEscape(id)+"/events"), ev, &out)
	return out, remote(err)
}

// Dial opens the event stream of a session.
func (c *Client) Dial(ctx context.Context, id string) (*Conn, error) {
	u := c.url("/ws/sessions/" + url.PathEscape(id))
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}

	ws, resp, err := c.dialer.DialContext(ctx, u, nil)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return nil, &Error{Code: resp.StatusCode, Message: "dial " + id + ": " + err.Error()}
		}
		return nil, fmt.Errorf("dial session %s: %w", id, err)
	}
	return &Conn{ws: ws}, nil
}

// Conn is an open session event stream. Send is safe for concurrent use;
// requests are answered in order.
type Conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

// Send applies ev and waits for its result.
func (c *Conn) Send(ctx context.Context, ev session.Event) (session.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(DefaultSendTimeout)
	}
	c.ws.SetWriteDeadline(deadline)
	c.ws.SetReadDeadline(deadline)

	if err := c.ws.WriteJSON(ev); err != nil {
		return session.Result{}, fmt.Errorf("send %s: %w", ev.Kind, err)
	}
	var reply session.Reply
	if err := c.ws.ReadJSON(&reply); err != nil {
		return session.Result{}, fmt.Errorf("read %s reply: %w", ev.Kind, err)
	}
	if reply.Error != "" {
		return session.Result{}, &Error{Code: reply.Code, Message: reply.Error}
	}
	if reply.Result == nil {
		return session.Result{}, fmt.Errorf("empty reply to %s", ev.Kind)
	}
	return *reply.Result, nil
}

// Close sends a close frame and closes the connection.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.ws.Close()
}
