// Package server exposes preview sessions over HTTP and websockets.
package server

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-camview/internal/log"
	"github.com/teslashibe/go-camview/pkg/facedetect"
	"github.com/teslashibe/go-camview/pkg/hub"
	"github.com/teslashibe/go-camview/pkg/session"
)

// ShutdownTimeout bounds how long Shutdown waits for open connections.
const ShutdownTimeout = 5 * time.Second

// Server hosts the session API.
type Server struct {
	app   *fiber.App
	port  string
	store *session.Store

	detMu    sync.RWMutex
	detector facedetect.Detector

	// Results of every applied event, tagged with the session ID
	events  *hub.Hub
	hubOnce sync.Once
}

// New creates a server for store listening on port.
func New(store *session.Store, port string) *Server {
	s := &Server{
		port:   port,
		store:  store,
		events: hub.New("events"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "camview",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Get("/sensors", s.handleSensors)
	api.Get("/sensors/:id/capabilities", s.handleCapabilities)
	api.Get("/sessions", s.handleListSessions)
	api.Post("/sessions", s.handleCreateSession)
	api.Get("/sessions/:id", s.requireSession, s.handleGetSession)
	api.Delete("/sessions/:id", s.handleDeleteSession)
	api.Post("/sessions/:id/events", s.requireSession, s.handleEvent)
	api.Post("/sessions/:id/frames", s.requireSession, s.handleFrame)
	api.Get("/geometry/orientation", s.handleOrientation)
	api.Post("/geometry/preview-size", s.handlePreviewSize)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/sessions/:id", s.requireSession, websocket.New(s.handleSessionWS))
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// SetDetector enables POST /api/sessions/:id/frames. nil disables it.
func (s *Server) SetDetector(det facedetect.Detector) {
	s.detMu.Lock()
	s.detector = det
	s.detMu.Unlock()
}

func (s *Server) faceDetector() facedetect.Detector {
	s.detMu.RLock()
	defer s.detMu.RUnlock()
	return s.detector
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Hub returns the hub results are broadcast on.
func (s *Server) Hub() *hub.Hub { return s.events }

// Store returns the session store.
func (s *Server) Store() *session.Store { return s.store }

func (s *Server) startHub() {
	s.hubOnce.Do(func() { go s.events.Run() })
}

// Start listens on the configured port and blocks until shutdown.
func (s *Server) Start() error {
	fmt.Printf("🌐 camview API: http://localhost:%s/api\n", s.port)
	s.startHub()
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("server stopped", "error", err)
		}
	}()
}

// Listener serves on an existing listener and blocks until shutdown.
func (s *Server) Listener(ln net.Listener) error {
	s.startHub()
	return s.app.Listener(ln)
}

// Shutdown stops the hub and gracefully stops the server.
func (s *Server) Shutdown() error {
	s.events.Stop()
	return s.app.ShutdownWithTimeout(ShutdownTimeout)
}
