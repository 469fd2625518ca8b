package app

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lumenlab/touchwall/internal/calib"
	"github.com/lumenlab/touchwall/internal/detector"
	"github.com/lumenlab/touchwall/internal/store"

	"github.com/golang/geo/r2"
)

func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	calibrator := calib.NewCalibrator(calib.DefaultLayout())
	calibrator.SkipCalibration()

	a := New(Config{Store: s, ProjectorWidth: 320, ProjectorHeight: 240}, calibrator)
	return a, s
}

func TestApp_TouchActivationFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, s := newTestApp(t)

	// With a skipped calibration, projector positions pass through
	// unchanged, so hotspot centers can be given in normalized units.
	s.Hotspots().Create(&store.Hotspot{
		ID: 1, Name: "volcano", ProjX: 0.5, ProjY: 0.5, Radius: 0.05, Enabled: true,
	})
	s.Hotspots().Create(&store.Hotspot{
		ID: 2, Name: "glacier", ProjX: 0.2, ProjY: 0.2, Radius: 0.05, Enabled: true,
	})

	var activated []string
	a.config.OnActivation = func(id int, name string) {
		activated = append(activated, name)
	}

	if err := a.LoadHotspots(); err != nil {
		t.Fatalf("LoadHotspots() error = %v", err)
	}
	if len(a.Arbiter().Hotspots()) != 2 {
		t.Fatalf("expected 2 hotspots, got %d", len(a.Arbiter().Hotspots()))
	}

	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.HandAt(r2.Point{X: 0.5, Y: 0.5})})
	a.SetDetector(mock)

	hands, err := a.Detector().Detect(nil)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	tips := detector.Fingertips(hands)

	// Hold a fingertip on the volcano hotspot through the full press.
	base := time.Now()
	for elapsed := time.Duration(0); elapsed <= 1500*time.Millisecond; elapsed += 100 * time.Millisecond {
		a.Arbiter().Update(tips, base.Add(elapsed))
	}

	if len(activated) != 1 || activated[0] != "volcano" {
		t.Fatalf("activations = %v, want [volcano]", activated)
	}

	active := a.Arbiter().Active()
	if active == nil || active.ID != 1 {
		t.Error("volcano hotspot should be active")
	}

	// The activation was persisted.
	counts, err := s.Activations().CountByHotspot()
	if err != nil {
		t.Fatalf("CountByHotspot() error = %v", err)
	}
	if counts[1] != 1 {
		t.Errorf("counts[1] = %d, want 1", counts[1])
	}

	// Media completion re-arms the wall.
	a.MediaFinished()
	if a.Arbiter().Active() != nil {
		t.Error("no hotspot should be active after media finished")
	}
}

func TestApp_LoadHotspotsSkipsDisabled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, s := newTestApp(t)

	s.Hotspots().Create(&store.Hotspot{
		ID: 1, Name: "on", ProjX: 0.5, ProjY: 0.5, Radius: 0.05, Enabled: true,
	})
	s.Hotspots().Create(&store.Hotspot{
		ID: 2, Name: "off", ProjX: 0.2, ProjY: 0.2, Radius: 0.05, Enabled: false,
	})

	if err := a.LoadHotspots(); err != nil {
		t.Fatalf("LoadHotspots() error = %v", err)
	}

	hotspots := a.Arbiter().Hotspots()
	if len(hotspots) != 1 || hotspots[0].ID != 1 {
		t.Errorf("expected only the enabled hotspot, got %d", len(hotspots))
	}
}

func TestApp_SnapshotJPEG(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, _ := newTestApp(t)

	data, err := a.SnapshotJPEG()
	if err != nil {
		t.Fatalf("SnapshotJPEG() error = %v", err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("expected JPEG magic bytes")
	}
}

func TestApp_EnableDisable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, _ := newTestApp(t)

	if a.IsEnabled() {
		t.Error("app should start disabled")
	}
	a.SetEnabled(true)
	if !a.IsEnabled() {
		t.Error("app should be enabled")
	}
}

func TestApp_CooldownSetting(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, s := newTestApp(t)

	s.Hotspots().Create(&store.Hotspot{
		ID: 1, Name: "volcano", ProjX: 0.5, ProjY: 0.5, Radius: 0.05, Enabled: true,
	})
	if err := s.Settings().Set("cooldown_ms", "200"); err != nil {
		t.Fatalf("Settings().Set() error = %v", err)
	}

	if err := a.LoadHotspots(); err != nil {
		t.Fatalf("LoadHotspots() error = %v", err)
	}

	tips := []r2.Point{{X: 0.5, Y: 0.5}}

	// A 300ms hold activates with the shortened cooldown but would not
	// with the default.
	base := time.Now()
	for elapsed := time.Duration(0); elapsed <= 300*time.Millisecond; elapsed += 50 * time.Millisecond {
		a.Arbiter().Update(tips, base.Add(elapsed))
	}

	active := a.Arbiter().Active()
	if active == nil || active.ID != 1 {
		t.Fatalf("Active() = %v, want hotspot 1", active)
	}
}

func TestApp_OffDiagonalHotspotPlacement(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, s := newTestApp(t)

	// ProjX is horizontal, ProjY vertical. With a skipped calibration the
	// normalized hitbox center must come out at (x=ProjX, y=ProjY), not at
	// the transposed position.
	s.Hotspots().Create(&store.Hotspot{
		ID: 1, Name: "reef", ProjX: 0.7, ProjY: 0.3, Radius: 0.05, Enabled: true,
	})

	if err := a.LoadHotspots(); err != nil {
		t.Fatalf("LoadHotspots() error = %v", err)
	}

	hs := a.Arbiter().Hotspots()
	if len(hs) != 1 {
		t.Fatalf("expected 1 hotspot, got %d", len(hs))
	}
	if center := hs[0].Center(); center != (r2.Point{X: 0.7, Y: 0.3}) {
		t.Fatalf("hitbox center = %v, want {0.7 0.3}", center)
	}

	// A touch held at the transposed position must not charge the hotspot.
	base := time.Now()
	transposed := []r2.Point{{X: 0.3, Y: 0.7}}
	for elapsed := time.Duration(0); elapsed <= 1500*time.Millisecond; elapsed += 100 * time.Millisecond {
		a.Arbiter().Update(transposed, base.Add(elapsed))
	}
	if a.Arbiter().Active() != nil {
		t.Fatal("transposed touch position should not activate")
	}

	// A touch at the defined position does.
	onTarget := []r2.Point{{X: 0.7, Y: 0.3}}
	base = time.Now()
	for elapsed := time.Duration(0); elapsed <= 1500*time.Millisecond; elapsed += 100 * time.Millisecond {
		a.Arbiter().Update(onTarget, base.Add(elapsed))
	}
	active := a.Arbiter().Active()
	if active == nil || active.ID != 1 {
		t.Fatalf("Active() = %v, want hotspot 1", active)
	}
}

func TestApp_ConcurrentRearm(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, s := newTestApp(t)

	s.Hotspots().Create(&store.Hotspot{
		ID: 1, Name: "volcano", ProjX: 0.5, ProjY: 0.5, Radius: 0.05, Enabled: true,
	})
	if err := a.LoadHotspots(); err != nil {
		t.Fatalf("LoadHotspots() error = %v", err)
	}

	// Re-arm requests arrive from HTTP-handler and tray goroutines while
	// the pipeline keeps updating; both paths must be safe to interleave.
	tips := []r2.Point{{X: 0.5, Y: 0.5}}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		base := time.Now()
		for i := 0; i < 500; i++ {
			a.updateArbiter(tips, base.Add(time.Duration(i)*10*time.Millisecond))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			a.MediaFinished()
		}
	}()
	wg.Wait()
}

func TestApp_SnapshotJPEGAfterStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, _ := newTestApp(t)

	if _, err := a.SnapshotJPEG(); err != nil {
		t.Fatalf("SnapshotJPEG() before stop error = %v", err)
	}

	// The HTTP server keeps serving the stream after shutdown begins;
	// snapshots must fail cleanly instead of encoding a released canvas.
	a.Stop()

	if _, err := a.SnapshotJPEG(); !errors.Is(err, ErrStopped) {
		t.Fatalf("SnapshotJPEG() after stop error = %v, want ErrStopped", err)
	}
}
