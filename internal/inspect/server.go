// Package inspect serves a small HTTP API for watching and poking a running
// field. Handlers never touch the engine directly; they enqueue commands and
// read the published stats.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/iburimskiy/glowfield/internal/config"
	"github.com/iburimskiy/glowfield/internal/field"
	game_log "github.com/iburimskiy/glowfield/internal/log"
)

type zone struct {
	rect     field.Rect
	category string
}

// Server is the inspection API. It also locates the attractors it created so
// host reconciliation keeps them alive.
type Server struct {
	cfg   config.Inspect
	queue *Queue
	feed  *Feed
	log   *game_log.Logger

	mu    sync.RWMutex
	zones map[field.Handle]zone

	router     chi.Router
	httpServer *http.Server
	upgrader   websocket.Upgrader
	done       chan struct{}
	stopOnce   sync.Once
}

func New(cfg config.Inspect, queue *Queue, feed *Feed, logger *game_log.Logger) *Server {
	if logger == nil {
		logger = game_log.Discard()
	}
	if cfg.StatsInterval <= 0 {
		cfg.StatsInterval = time.Second
	}
	s := &Server{
		cfg:   cfg,
		queue: queue,
		feed:  feed,
		log:   logger,
		zones: make(map[field.Handle]zone),
		done:  make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.log, NoColor: true}))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/stats", s.handleStats)
	r.Route("/attractors", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Put("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})
	r.Get("/ws", s.handleStream)
	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address until Shutdown. It returns at once
// if Shutdown already ran.
func (s *Server) Start() error {
	select {
	case <-s.done:
		return nil
	default:
	}
	s.log.Infof("inspect: listening on %s", s.cfg.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("inspect server: %w", err)
	}
	return nil
}

// Shutdown stops streams and the listener. It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.done) })
	return s.httpServer.Shutdown(ctx)
}

// Locate reports the rect of an attractor created through the API.
func (s *Server) Locate(h field.Handle) (field.Rect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	z, ok := s.zones[h]
	return z.rect, ok
}

type attractorRequest struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Category string  `json:"category"`
}

func (a attractorRequest) rect() field.Rect {
	return field.Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
}

type attractorResponse struct {
	ID string `json:"id"`
}

func decodeAttractor(r *http.Request) (attractorRequest, error) {
	var req attractorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("invalid body: %w", err)
	}
	if req.Width < 0 || req.Height < 0 {
		return req, errors.New("width and height must not be negative")
	}
	return req, nil
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.feed.Load())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAttractor(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h := field.NewHandle()
	rect := req.rect()

	s.mu.Lock()
	s.zones[h] = zone{rect: rect, category: req.Category}
	s.mu.Unlock()

	if !s.queue.Push(func(e *field.Engine) { e.RegisterAttractor(h, rect, req.Category) }) {
		s.forget(h)
		http.Error(w, "command queue full", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusCreated, attractorResponse{ID: h.String()})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	h, ok := s.lookup(w, r)
	if !ok {
		return
	}
	req, err := decodeAttractor(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rect := req.rect()

	s.mu.Lock()
	z := s.zones[h]
	z.rect = rect
	s.zones[h] = z
	s.mu.Unlock()

	if !s.queue.Push(func(e *field.Engine) { e.RepositionAttractor(h, rect) }) {
		http.Error(w, "command queue full", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, attractorResponse{ID: h.String()})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	h, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.forget(h)
	// A full queue is fine here: reconcile drops the zone once Locate misses.
	s.queue.Push(func(e *field.Engine) { e.UnregisterAttractor(h) })
	w.WriteHeader(http.StatusNoContent)
}

// lookup parses the id path parameter and writes the error response when it
// is malformed or unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (field.Handle, bool) {
	h, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return field.Handle{}, false
	}
	if _, ok := s.Locate(h); !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return field.Handle{}, false
	}
	return h, true
}

func (s *Server) forget(h field.Handle) {
	s.mu.Lock()
	delete(s.zones, h)
	s.mu.Unlock()
}

// handleStream pushes a stats snapshot every interval until the client goes
// away or the server shuts down.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("inspect: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.log.Debugf("inspect: websocket read: %v", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(s.cfg.StatsInterval)
	defer ticker.Stop()
	for {
		if err := conn.WriteJSON(s.feed.Load()); err != nil {
			s.log.Debugf("inspect: websocket write: %v", err)
			return
		}
		select {
		case <-ticker.C:
		case <-gone:
			return
		case <-s.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
