// Package server provides the HTTP server for the touchwall exhibit system.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lumenlab/touchwall/internal/server/api"
	"github.com/lumenlab/touchwall/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Frames    FrameSource
	Events    *EventHub

	// OnMediaFinished is invoked when the media player reports playback
	// completion, which re-arms the wall for the next touch.
	OnMediaFinished func()
}

// Server represents the HTTP server for the touchwall application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/media/finished", s.handleMediaFinished)

	if s.config.Store != nil {
		hotspotHandler := api.NewHotspotHandler(s.config.Store)
		s.mux.Handle("/api/hotspots", hotspotHandler)
		s.mux.Handle("/api/hotspots/", hotspotHandler)

		activationHandler := api.NewActivationHandler(s.config.Store)
		s.mux.Handle("/api/activations", activationHandler)
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames))
	}

	if s.config.Events != nil {
		s.mux.Handle("/api/events", s.config.Events)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleMediaFinished handles POST requests from the media player when
// playback of a hotspot's content completes.
func (s *Server) handleMediaFinished(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.config.OnMediaFinished != nil {
		s.config.OnMediaFinished()
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
