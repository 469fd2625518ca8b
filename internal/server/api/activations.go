package api

import (
	"net/http"
	"strconv"

	"github.com/lumenlab/touchwall/internal/store"
)

const defaultActivationLimit = 50

// ActivationHandler serves the activation history.
type ActivationHandler struct {
	store *store.Store
}

// NewActivationHandler creates a new ActivationHandler with the given store.
func NewActivationHandler(s *store.Store) *ActivationHandler {
	return &ActivationHandler{store: s}
}

type activationResponse struct {
	ID          string `json:"id"`
	HotspotID   int    `json:"hotspot_id"`
	ActivatedAt string `json:"activated_at"`
}

type listActivationsResponse struct {
	Activations []activationResponse `json:"activations"`
	Counts      map[int]int          `json:"counts"`
}

// ServeHTTP handles GET /api/activations with an optional limit query
// parameter.
func (h *ActivationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultActivationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	activations, err := h.store.Activations().ListRecent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list activations")
		return
	}

	counts, err := h.store.Activations().CountByHotspot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count activations")
		return
	}

	response := listActivationsResponse{
		Activations: make([]activationResponse, 0, len(activations)),
		Counts:      counts,
	}
	for _, a := range activations {
		response.Activations = append(response.Activations, activationResponse{
			ID:          a.ID,
			HotspotID:   a.HotspotID,
			ActivatedAt: a.ActivatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
