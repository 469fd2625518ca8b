package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang/geo/r2"

	"github.com/lumenlab/touchwall/internal/app"
	"github.com/lumenlab/touchwall/internal/calib"
	"github.com/lumenlab/touchwall/internal/detector"
	"github.com/lumenlab/touchwall/internal/server"
	"github.com/lumenlab/touchwall/internal/store"
)

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	calibrator := calib.NewCalibrator(calib.DefaultLayout())
	calibrator.SkipCalibration()

	application := app.New(app.Config{
		Store:           s,
		MotionThresh:    0.05,
		ProjectorWidth:  320,
		ProjectorHeight: 240,
	}, calibrator)

	mockDetector := detector.NewMockDetector()
	application.SetDetector(mockDetector)

	srv := server.New(server.Config{
		Store:           s,
		Frames:          application,
		Events:          application.Events(),
		OnMediaFinished: application.MediaFinished,
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("CreateHotspot", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/hotspots",
			"application/json",
			strings.NewReader(`{"id": 1, "name": "volcano", "proj_x": 0.5, "proj_y": 0.5, "radius": 0.05}`),
		)
		if err != nil {
			t.Fatalf("create hotspot error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
	})

	t.Run("LoadHotspots", func(t *testing.T) {
		if err := application.LoadHotspots(); err != nil {
			t.Fatalf("LoadHotspots() error = %v", err)
		}
		if len(application.Arbiter().Hotspots()) != 1 {
			t.Fatalf("expected 1 hotspot loaded")
		}
	})

	t.Run("TouchActivates", func(t *testing.T) {
		mockDetector.SetHands([]detector.HandLandmarks{detector.HandAt(r2.Point{X: 0.5, Y: 0.5})})

		hands, err := mockDetector.Detect(nil)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		tips := detector.Fingertips(hands)

		base := time.Now()
		for elapsed := time.Duration(0); elapsed <= 1500*time.Millisecond; elapsed += 50 * time.Millisecond {
			application.Arbiter().Update(tips, base.Add(elapsed))
		}

		active := application.Arbiter().Active()
		if active == nil || active.ID != 1 {
			t.Fatal("expected the volcano hotspot to be active")
		}
	})

	t.Run("ActivationLogged", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/activations")
		if err != nil {
			t.Fatalf("list activations error = %v", err)
		}
		defer resp.Body.Close()

		var payload struct {
			Activations []struct {
				HotspotID int `json:"hotspot_id"`
			} `json:"activations"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(payload.Activations) != 1 || payload.Activations[0].HotspotID != 1 {
			t.Errorf("activations = %+v, want one for hotspot 1", payload.Activations)
		}
	})

	t.Run("MediaFinishedRearms", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/media/finished", "application/json", nil)
		if err != nil {
			t.Fatalf("media finished error = %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
		}
		if application.Arbiter().Active() != nil {
			t.Error("expected no active hotspot after media finished")
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, _ := client.Get(ts.URL + "/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after app operations")
		}
		resp.Body.Close()
	})
}
