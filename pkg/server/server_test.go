package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-camview/pkg/facedetect"
	"github.com/teslashibe/go-camview/pkg/geometry"
	"github.com/teslashibe/go-camview/pkg/preview"
	"github.com/teslashibe/go-camview/pkg/sensor"
	"github.com/teslashibe/go-camview/pkg/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(session.NewStore(nil, 1), "0")
}

// call sends a request through app.Test and returns status and body.
func call(t *testing.T, s *Server, method, path string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		r = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func decode(t *testing.T, data []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
}

func createSession(t *testing.T, s *Server) string {
	t.Helper()
	code, body := call(t, s, http.MethodPost, "/api/sessions", nil)
	if code != http.StatusCreated {
		t.Fatalf("create: %d %s", code, body)
	}
	var snap session.Snapshot
	decode(t, body, &snap)
	return snap.ID
}

func sendEvent(t *testing.T, s *Server, id string, ev session.Event) session.Result {
	t.Helper()
	code, body := call(t, s, http.MethodPost, "/api/sessions/"+id+"/events", ev)
	if code != http.StatusOK {
		t.Fatalf("event %s: %d %s", ev.Kind, code, body)
	}
	var res session.Result
	decode(t, body, &res)
	return res
}

func intPtr(v int) *int { return &v }

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, body := call(t, s, http.MethodGet, "/api/health", nil)
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	var got map[string]any
	decode(t, body, &got)
	if got["status"] != "ok" || got["detector"] != false {
		t.Errorf("health = %v", got)
	}
}

func TestSensors(t *testing.T) {
	s := newTestServer(t)
	code, body := call(t, s, http.MethodGet, "/api/sensors", nil)
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	var got []struct {
		ID     string `json:"id"`
		Facing string `json:"facing"`
	}
	decode(t, body, &got)
	if len(got) != 2 || got[0].ID != "0" || got[1].Facing != "front" {
		t.Errorf("sensors = %+v", got)
	}
}

func TestSensorCapabilities(t *testing.T) {
	s := newTestServer(t)
	code, body := call(t, s, http.MethodGet, "/api/sensors/0/capabilities", nil)
	if code != http.StatusOK {
		t.Fatalf("status %d %s", code, body)
	}
	var got map[string]any
	decode(t, body, &got)
	if got["face_detection"] != true || got["zoom_supported"] != true {
		t.Errorf("capabilities = %v", got)
	}
	if r, ok := got["exposure_range"].([]any); !ok || len(r) != 2 {
		t.Errorf("exposure_range = %v", got["exposure_range"])
	}

	if code, _ := call(t, s, http.MethodGet, "/api/sensors/9/capabilities", nil); code != http.StatusNotFound {
		t.Errorf("unknown sensor: status %d, want 404", code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	code, body := call(t, s, http.MethodPost, "/api/sessions", CreateSessionRequest{Density: 2})
	if code != http.StatusCreated {
		t.Fatalf("create: %d %s", code, body)
	}
	var snap session.Snapshot
	decode(t, body, &snap)
	if snap.State.FocusArea.Width != 96 {
		t.Errorf("focus area = %+v", snap.State.FocusArea)
	}
	id := snap.ID

	sendEvent(t, s, id, session.Event{Kind: session.KindSurfaceCreated})
	res := sendEvent(t, s, id, session.Event{Kind: session.KindAttach, SensorID: "0", Rotation: intPtr(0)})
	if res.State.DisplayOrientation != 90 || res.Parameters == nil {
		t.Errorf("attach: orientation %d parameters %v", res.State.DisplayOrientation, res.Parameters)
	}

	res = sendEvent(t, s, id, session.Event{Kind: session.KindLayout, Width: 1000, Height: 700})
	if res.State.PreviewSize != (geometry.Resolution{Width: 720, Height: 480}) {
		t.Errorf("preview size = %v", res.State.PreviewSize)
	}

	sendEvent(t, s, id, session.Event{Kind: session.KindMode, Mode: "focus"})
	res = sendEvent(t, s, id, session.Event{Kind: session.KindTouch, X: 500, Y: 350})
	if res.Touch == nil || res.Touch.Kind != preview.TouchFocusArea || res.Touch.Area == nil {
		t.Errorf("touch = %+v", res.Touch)
	}

	code, body = call(t, s, http.MethodGet, "/api/sessions/"+id, nil)
	if code != http.StatusOK {
		t.Fatalf("get: %d", code)
	}
	decode(t, body, &snap)
	if snap.Sensor == nil || snap.Sensor.ID != "0" || snap.State.Mode != preview.ModeFocus {
		t.Errorf("snapshot = %+v", snap)
	}

	code, body = call(t, s, http.MethodGet, "/api/sessions", nil)
	var list []session.Snapshot
	decode(t, body, &list)
	if code != http.StatusOK || len(list) != 1 {
		t.Errorf("list: %d %d", code, len(list))
	}

	if code, _ := call(t, s, http.MethodDelete, "/api/sessions/"+id, nil); code != http.StatusNoContent {
		t.Errorf("delete: %d", code)
	}
	if code, _ := call(t, s, http.MethodGet, "/api/sessions/"+id, nil); code != http.StatusNotFound {
		t.Errorf("get after delete: %d", code)
	}
}

func TestEventErrors(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	tests := []struct {
		name string
		path string
		body any
		want int
	}{
		{"start without surface", "/api/sessions/" + id + "/events", session.Event{Kind: session.KindStart}, http.StatusConflict},
		{"unknown kind", "/api/sessions/" + id + "/events", session.Event{Kind: "zoom"}, http.StatusUnprocessableEntity},
		{"bad rotation", "/api/sessions/" + id + "/events", session.Event{Kind: session.KindDisplayRotation, Rotation: intPtr(45)}, http.StatusUnprocessableEntity},
		{"malformed json", "/api/sessions/" + id + "/events", []byte("{"), http.StatusBadRequest},
		{"unknown session", "/api/sessions/6f1c2b8e-4d1a-4c55-9a53-3d2f0f7e9a10/events", session.Event{Kind: session.KindStart}, http.StatusNotFound},
		{"malformed id", "/api/sessions/nope/events", session.Event{Kind: session.KindStart}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := call(t, s, http.MethodPost, tt.path, tt.body)
			if code != tt.want {
				t.Errorf("status = %d, want %d (%s)", code, tt.want, body)
			}
			var e map[string]string
			decode(t, body, &e)
			if e["error"] == "" {
				t.Errorf("missing error message: %s", body)
			}
		})
	}
}

type fakeDetector struct{ dets []facedetect.Detection }

func (f fakeDetector) Detect([]byte) ([]facedetect.Detection, error) { return f.dets, nil }
func (f fakeDetector) Close() error                                  { return nil }

func TestFrames(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)
	path := "/api/sessions/" + id + "/frames?ascent=-10"

	if code, _ := call(t, s, http.MethodPost, path, []byte{0xff, 0xd8}); code != http.StatusServiceUnavailable {
		t.Errorf("without detector: %d", code)
	}

	s.SetDetector(fakeDetector{dets: []facedetect.Detection{{X: 0.25, Y: 0.25, W: 0.5, H: 0.5, Confidence: 0.9}}})
	if code, _ := call(t, s, http.MethodPost, path, []byte{0xff, 0xd8}); code != http.StatusConflict {
		t.Errorf("without sensor: %d", code)
	}

	sendEvent(t, s, id, session.Event{Kind: session.KindSurfaceCreated})
	sendEvent(t, s, id, session.Event{Kind: session.KindAttach})
	sendEvent(t, s, id, session.Event{Kind: session.KindLayout, Width: 1000, Height: 700})

	code, body := call(t, s, http.MethodPost, path, []byte{0xff, 0xd8})
	if code != http.StatusOK {
		t.Fatalf("frame: %d %s", code, body)
	}
	var res session.Result
	decode(t, body, &res)
	if len(res.Faces) != 1 || res.Faces[0].Score != 90 || len(res.Labels) != 1 || res.Primary != 1 {
		t.Errorf("result = %+v", res)
	}

	if code, _ := call(t, s, http.MethodPost, path, []byte{}); code != http.StatusBadRequest {
		t.Errorf("empty frame: %d", code)
	}
}

func TestFrames_FaceDetectionUnsupported(t *testing.T) {
	catalog, err := sensor.ParseCatalog([]byte(`
[sensor.0]
facing         = back
preview_sizes  = 640x480
face_detection = false
`))
	if err != nil {
		t.Fatal(err)
	}
	s := New(session.NewStore(catalog, 1), "0")
	s.SetDetector(fakeDetector{dets: []facedetect.Detection{{X: 0.25, Y: 0.25, W: 0.5, H: 0.5, Confidence: 0.9}}})
	id := createSession(t, s)
	sendEvent(t, s, id, session.Event{Kind: session.KindSurfaceCreated})
	sendEvent(t, s, id, session.Event{Kind: session.KindAttach})
	sendEvent(t, s, id, session.Event{Kind: session.KindLayout, Width: 640, Height: 480})

	code, body := call(t, s, http.MethodPost, "/api/sessions/"+id+"/frames", []byte{0xff, 0xd8})
	if code != http.StatusUnprocessableEntity || !strings.Contains(string(body), "face detection") {
		t.Errorf("frames: %d %s", code, body)
	}
	code, body = call(t, s, http.MethodPost, "/api/sessions/"+id+"/events", session.Event{Kind: session.KindFaces})
	if code != http.StatusUnprocessableEntity {
		t.Errorf("faces event: %d %s", code, body)
	}
}

func TestOrientation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		query string
		want  int
	}{
		{"display_rotation=0&sensor_mount=90", 90},
		{"display_rotation=90&sensor_mount=90", 0},
		{"display_rotation=0&sensor_mount=270&front=true", 90},
		{"display_rotation=270&sensor_mount=270&front=true", 180},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			code, body := call(t, s, http.MethodGet, "/api/geometry/orientation?"+tt.query, nil)
			if code != http.StatusOK {
				t.Fatalf("status %d %s", code, body)
			}
			var got OrientationResponse
			decode(t, body, &got)
			if got.DisplayOrientation != tt.want {
				t.Errorf("display orientation = %d, want %d", got.DisplayOrientation, tt.want)
			}
		})
	}

	if code, _ := call(t, s, http.MethodGet, "/api/geometry/orientation?display_rotation=45", nil); code != http.StatusUnprocessableEntity {
		t.Errorf("bad rotation: %d", code)
	}
}

func TestPreviewSize(t *testing.T) {
	s := newTestServer(t)

	code, body := call(t, s, http.MethodPost, "/api/geometry/preview-size", PreviewSizeRequest{Width: 1000, Height: 700})
	if code != http.StatusOK {
		t.Fatalf("status %d %s", code, body)
	}
	var got PreviewSizeResponse
	decode(t, body, &got)
	if got.Size != (geometry.Resolution{Width: 720, Height: 480}) {
		t.Errorf("size = %v", got.Size)
	}
	if got.Overlay != (geometry.Rect{Left: 0, Top: 17, Right: 1000, Bottom: 684}) {
		t.Errorf("overlay = %v", got.Overlay)
	}

	code, body = call(t, s, http.MethodPost, "/api/geometry/preview-size",
		PreviewSizeRequest{Sizes: []string{"640x480"}, Width: 800, Height: 600})
	decode(t, body, &got)
	if code != http.StatusOK || got.Size != (geometry.Resolution{Width: 640, Height: 480}) {
		t.Errorf("explicit sizes: %d %v", code, got.Size)
	}

	for name, req := range map[string]PreviewSizeRequest{
		"no match":    {Sizes: []string{"640x480"}, Width: 100, Height: 100},
		"bad size":    {Sizes: []string{"640"}, Width: 800, Height: 600},
		"zero extent": {Width: 0, Height: 600},
	} {
		if code, body := call(t, s, http.MethodPost, "/api/geometry/preview-size", req); code != http.StatusUnprocessableEntity {
			t.Errorf("%s: %d %s", name, code, body)
		}
	}
	if code, _ := call(t, s, http.MethodPost, "/api/geometry/preview-size", PreviewSizeRequest{SensorID: "9", Width: 800, Height: 600}); code != http.StatusNotFound {
		t.Errorf("unknown sensor: %d", code)
	}
}

// serve runs s on a loopback listener and returns its ws base URL.
func serve(t *testing.T, s *Server) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go s.Listener(ln)
	t.Cleanup(func() { s.Shutdown() })
	return "ws://" + ln.Addr().String()
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, ev session.Event) session.Reply {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(ev); err != nil {
		t.Fatal(err)
	}
	var reply session.Reply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatal(err)
	}
	return reply
}

func TestSessionWebsocket(t *testing.T) {
	s := newTestServer(t)
	id := s.Store().Create(0).ID
	base := serve(t, s)

	conn := dial(t, base+"/ws/sessions/"+id)

	reply := roundTrip(t, conn, session.Event{Kind: session.KindStart})
	if reply.Result != nil || reply.Code != http.StatusConflict || reply.Error == "" {
		t.Errorf("start without surface: %+v", reply)
	}

	reply = roundTrip(t, conn, session.Event{Kind: session.KindSurfaceCreated})
	if reply.Result == nil || reply.Result.State.Status != preview.StatusReady {
		t.Fatalf("surface created: %+v", reply)
	}

	reply = roundTrip(t, conn, session.Event{Kind: session.KindAttach, SensorID: "1", Surface: intPtr(1)})
	if reply.Result == nil || reply.Result.State.DisplayOrientation != 0 || !reply.Result.State.Orientation.Front {
		t.Fatalf("attach front: %+v", reply)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&reply); err != nil || reply.Code != http.StatusBadRequest {
		t.Errorf("malformed event: %+v %v", reply, err)
	}
}

func TestSessionWebsocket_UnknownSession(t *testing.T) {
	s := newTestServer(t)
	base := serve(t, s)

	_, resp, err := websocket.DefaultDialer.Dial(base+"/ws/sessions/6f1c2b8e-4d1a-4c55-9a53-3d2f0f7e9a10", nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %v", resp)
	}
}

func TestEventsWebsocket(t *testing.T) {
	s := newTestServer(t)
	watched := s.Store().Create(0).ID
	other := s.Store().Create(0).ID
	base := serve(t, s)

	events := dial(t, base+"/ws/events?session="+watched)
	deadline := time.Now().Add(5 * time.Second)
	for s.Hub().ClientCount() < 1 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	roundTrip(t, dial(t, base+"/ws/sessions/"+other), session.Event{Kind: session.KindSurfaceCreated})
	roundTrip(t, dial(t, base+"/ws/sessions/"+watched), session.Event{Kind: session.KindSurfaceCreated})

	events.SetReadDeadline(time.Now().Add(5 * time.Second))
	var res session.Result
	if err := events.ReadJSON(&res); err != nil {
		t.Fatal(err)
	}
	if res.Session != watched || res.Kind != session.KindSurfaceCreated {
		t.Errorf("broadcast = %+v", res)
	}
}

func TestUpgradeRequired(t *testing.T) {
	s := newTestServer(t)
	code, body := call(t, s, http.MethodGet, "/ws/events", nil)
	if code != http.StatusUpgradeRequired || !strings.Contains(string(body), "error") {
		t.Errorf("plain GET on /ws: %d %s", code, body)
	}
}
