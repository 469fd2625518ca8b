package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/lumenlab/touchwall/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestHotspotHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewHotspotHandler(s)

	hs := &store.Hotspot{
		ID:      1,
		Name:    "volcano",
		Media:   "volcano.mp4",
		ProjX:   640,
		ProjY:   360,
		Radius:  0.03,
		Enabled: true,
	}
	if err := s.Hotspots().Create(hs); err != nil {
		t.Fatalf("failed to create hotspot: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/hotspots", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var response listHotspotsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Hotspots) != 1 {
		t.Fatalf("expected 1 hotspot, got %d", len(response.Hotspots))
	}
	if response.Hotspots[0].Name != "volcano" {
		t.Errorf("expected name volcano, got %s", response.Hotspots[0].Name)
	}
}

func TestHotspotHandler_Create(t *testing.T) {
	s := newTestStore(t)
	handler := NewHotspotHandler(s)

	body, _ := json.Marshal(createHotspotRequest{
		ID:     2,
		Name:   "dinosaur",
		Media:  "dinosaur.mp4",
		ProjX:  320,
		ProjY:  240,
		Radius: 0.05,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/hotspots", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var response hotspotResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.ID != 2 || response.Radius != 0.05 || !response.Enabled {
		t.Errorf("unexpected response: %+v", response)
	}

	// The hotspot is persisted.
	if _, err := s.Hotspots().GetByID(2); err != nil {
		t.Errorf("hotspot not persisted: %v", err)
	}
}

func TestHotspotHandler_CreateValidation(t *testing.T) {
	s := newTestStore(t)
	handler := NewHotspotHandler(s)

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid JSON", body: "{"},
		{name: "missing name", body: `{"id": 1}`},
		{name: "non-positive id", body: `{"id": 0, "name": "x"}`},
		{name: "negative radius", body: `{"id": 1, "name": "x", "radius": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/hotspots", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestHotspotHandler_Update(t *testing.T) {
	s := newTestStore(t)
	handler := NewHotspotHandler(s)

	hs := &store.Hotspot{ID: 1, Name: "volcano", ProjX: 100, ProjY: 100, Radius: 0.03, Enabled: true}
	if err := s.Hotspots().Create(hs); err != nil {
		t.Fatalf("failed to create hotspot: %v", err)
	}

	body := []byte(`{"name": "eruption", "enabled": false}`)
	req := httptest.NewRequest(http.MethodPut, "/api/hotspots/1", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	updated, err := s.Hotspots().GetByID(1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.Name != "eruption" || updated.Enabled {
		t.Errorf("update not applied: %+v", updated)
	}
	// Fields not in the request are untouched.
	if updated.ProjX != 100 {
		t.Errorf("ProjX = %v, want 100", updated.ProjX)
	}
}

func TestHotspotHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	handler := NewHotspotHandler(s)

	hs := &store.Hotspot{ID: 1, Name: "volcano", ProjX: 100, ProjY: 100, Radius: 0.03, Enabled: true}
	if err := s.Hotspots().Create(hs); err != nil {
		t.Fatalf("failed to create hotspot: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/hotspots/1", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/hotspots/1", nil)
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d after delete, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestHotspotHandler_InvalidID(t *testing.T) {
	s := newTestStore(t)
	handler := NewHotspotHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/hotspots/abc", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestActivationHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewActivationHandler(s)

	hs := &store.Hotspot{ID: 1, Name: "volcano", ProjX: 100, ProjY: 100, Radius: 0.03, Enabled: true}
	if err := s.Hotspots().Create(hs); err != nil {
		t.Fatalf("failed to create hotspot: %v", err)
	}

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := s.Activations().Record(1, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/activations?limit=2", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listActivationsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Activations) != 2 {
		t.Errorf("expected 2 activations with limit=2, got %d", len(response.Activations))
	}
	if response.Counts[1] != 3 {
		t.Errorf("counts[1] = %d, want 3", response.Counts[1])
	}
}

func TestActivationHandler_InvalidLimit(t *testing.T) {
	s := newTestStore(t)
	handler := NewActivationHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/activations?limit=-1", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}
