// Package api provides HTTP API handlers for the touchwall exhibit system.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/lumenlab/touchwall/internal/store"
)

// HotspotHandler handles HTTP requests for hotspot resources.
type HotspotHandler struct {
	store *store.Store
}

// NewHotspotHandler creates a new HotspotHandler with the given store.
func NewHotspotHandler(s *store.Store) *HotspotHandler {
	return &HotspotHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *HotspotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/hotspots or /api/hotspots/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/hotspots")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id, err := strconv.Atoi(path)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hotspot ID")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createHotspotRequest struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Media  string  `json:"media"`
	ProjX  float64 `json:"proj_x"`
	ProjY  float64 `json:"proj_y"`
	Radius float64 `json:"radius"`
}

type updateHotspotRequest struct {
	Name    *string  `json:"name"`
	Media   *string  `json:"media"`
	ProjX   *float64 `json:"proj_x"`
	ProjY   *float64 `json:"proj_y"`
	Radius  *float64 `json:"radius"`
	Enabled *bool    `json:"enabled"`
}

type hotspotResponse struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Media     string  `json:"media"`
	ProjX     float64 `json:"proj_x"`
	ProjY     float64 `json:"proj_y"`
	Radius    float64 `json:"radius"`
	Enabled   bool    `json:"enabled"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type listHotspotsResponse struct {
	Hotspots []hotspotResponse `json:"hotspots"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Hotspot to a hotspotResponse.
func toResponse(h *store.Hotspot) hotspotResponse {
	return hotspotResponse{
		ID:        h.ID,
		Name:      h.Name,
		Media:     h.Media,
		ProjX:     h.ProjX,
		ProjY:     h.ProjY,
		Radius:    h.Radius,
		Enabled:   h.Enabled,
		CreatedAt: h.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: h.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/hotspots and returns all hotspots.
func (h *HotspotHandler) list(w http.ResponseWriter, r *http.Request) {
	hotspots, err := h.store.Hotspots().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list hotspots")
		return
	}

	response := listHotspotsResponse{
		Hotspots: make([]hotspotResponse, 0, len(hotspots)),
	}

	for _, hs := range hotspots {
		response.Hotspots = append(response.Hotspots, toResponse(hs))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/hotspots/{id} and returns a single hotspot.
func (h *HotspotHandler) get(w http.ResponseWriter, r *http.Request, id int) {
	hs, err := h.store.Hotspots().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Hotspot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get hotspot")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(hs))
}

// create handles POST /api/hotspots and creates a new hotspot.
func (h *HotspotHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createHotspotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ID <= 0 {
		writeError(w, http.StatusBadRequest, "ID must be positive")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	radius := req.Radius
	if radius == 0 {
		radius = 0.03
	}
	if radius < 0 {
		writeError(w, http.StatusBadRequest, "Radius must be positive")
		return
	}

	hs := &store.Hotspot{
		ID:      req.ID,
		Name:    req.Name,
		Media:   req.Media,
		ProjX:   req.ProjX,
		ProjY:   req.ProjY,
		Radius:  radius,
		Enabled: true,
	}

	if err := h.store.Hotspots().Create(hs); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create hotspot")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(hs))
}

// update handles PUT /api/hotspots/{id} and updates an existing hotspot.
func (h *HotspotHandler) update(w http.ResponseWriter, r *http.Request, id int) {
	hs, err := h.store.Hotspots().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Hotspot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get hotspot")
		return
	}

	var req updateHotspotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != nil {
		hs.Name = *req.Name
	}
	if req.Media != nil {
		hs.Media = *req.Media
	}
	if req.ProjX != nil {
		hs.ProjX = *req.ProjX
	}
	if req.ProjY != nil {
		hs.ProjY = *req.ProjY
	}
	if req.Radius != nil {
		if *req.Radius <= 0 {
			writeError(w, http.StatusBadRequest, "Radius must be positive")
			return
		}
		hs.Radius = *req.Radius
	}
	if req.Enabled != nil {
		hs.Enabled = *req.Enabled
	}

	if err := h.store.Hotspots().Update(hs); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update hotspot")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(hs))
}

// delete handles DELETE /api/hotspots/{id} and removes a hotspot.
func (h *HotspotHandler) delete(w http.ResponseWriter, r *http.Request, id int) {
	err := h.store.Hotspots().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Hotspot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete hotspot")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
