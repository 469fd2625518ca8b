// Package app provides the main application logic for the touchwall exhibit system.
package app

import (
	"errors"
	"image"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/golang/geo/r2"
	"gocv.io/x/gocv"

	"github.com/lumenlab/touchwall/internal/calib"
	"github.com/lumenlab/touchwall/internal/capture"
	"github.com/lumenlab/touchwall/internal/detector"
	"github.com/lumenlab/touchwall/internal/feedback"
	"github.com/lumenlab/touchwall/internal/hotspot"
	"github.com/lumenlab/touchwall/internal/render"
	"github.com/lumenlab/touchwall/internal/server"
	"github.com/lumenlab/touchwall/internal/store"
)

// ErrStopped is returned by frame accessors after Stop has released the
// canvas.
var ErrStopped = errors.New("app: stopped")

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active touch detection.
	ActiveFPS = 30
	// IdleTimeoutMs is the time in milliseconds to wait before switching back to idle mode.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	Store           *store.Store
	CameraID        int
	MotionThresh    float64
	ProjectorWidth  int
	ProjectorHeight int

	// OnActivation, when set, is invoked after the built-in activation
	// handling (logging, chime, broadcast). The tray uses it to show the
	// last activated hotspot.
	OnActivation func(id int, name string)
}

// App orchestrates frame capture, fingertip detection, hotspot state, and
// projector output.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	calibrator *calib.Calibrator
	chime      *feedback.Chime
	events     *server.EventHub

	// arbMu serializes arbiter access: the pipeline updates it every tick
	// while re-arm requests arrive from HTTP-handler and tray goroutines.
	arbiter *hotspot.Arbiter
	arbMu   sync.Mutex

	canvas   *render.Canvas
	canvasMu sync.Mutex

	// hotspot id to projector pixel position, for drawing
	centers map[int]image.Point
	names   map[int]string

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
}

// New creates a new App instance with the given configuration. The
// calibrator must already hold a calibration (or have been skipped).
func New(config Config, calibrator *calib.Calibrator) *App {
	if config.ProjectorWidth <= 0 {
		config.ProjectorWidth = 1920
	}
	if config.ProjectorHeight <= 0 {
		config.ProjectorHeight = 1080
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		motion:     capture.NewMotionDetector(config.MotionThresh),
		calibrator: calibrator,
		chime:      feedback.NewChime(),
		events:     server.NewEventHub(),
		canvas:     render.NewCanvas(config.ProjectorWidth, config.ProjectorHeight),
		centers:    make(map[int]image.Point),
		names:      make(map[int]string),
	}
	a.arbiter = hotspot.NewArbiter(hotspot.ActivationListenerFunc(a.onActivated))

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// LoadHotspots reads enabled hotspot definitions from the database and
// places them in normalized camera space via the calibration.
func (a *App) LoadHotspots() error {
	if a.config.Store == nil {
		return nil
	}

	defs, err := a.config.Store.Hotspots().ListEnabled()
	if err != nil {
		return err
	}

	// The press cooldown can be tuned per exhibit via the settings table.
	var cooldown time.Duration
	if raw, err := a.config.Store.Settings().Get("cooldown_ms"); err == nil {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			cooldown = time.Duration(ms) * time.Millisecond
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	arbiter := hotspot.NewArbiter(hotspot.ActivationListenerFunc(a.onActivated))
	centers := make(map[int]image.Point)
	names := make(map[int]string)

	for _, def := range defs {
		// Stored positions are conventional pixels (ProjX horizontal); the
		// calibrator's projector side is (row, col).
		projPos := r2.Point{X: def.ProjY, Y: def.ProjX}
		center, err := a.calibrator.ToNormalizedCameraSpace(projPos)
		if err != nil {
			return err
		}

		arbiter.Add(hotspot.New(def.ID, center, def.Radius, cooldown))
		centers[def.ID] = image.Point{X: int(def.ProjX), Y: int(def.ProjY)}
		names[def.ID] = def.Name
	}

	a.arbMu.Lock()
	a.arbiter = arbiter
	a.arbMu.Unlock()
	a.centers = centers
	a.names = names

	log.Printf("Loaded %d hotspots from database", len(defs))
	return nil
}

// onActivated handles a hotspot activation from the arbiter.
func (a *App) onActivated(id int) {
	name := a.names[id]
	log.Printf("Hotspot activated: %s (ID: %d)", name, id)

	if a.config.Store != nil {
		if _, err := a.config.Store.Activations().Record(id, time.Now()); err != nil {
			log.Printf("Failed to record activation: %v", err)
		}
	}

	a.chime.PlayActivation()
	a.events.BroadcastActivation(id)

	if a.config.OnActivation != nil {
		a.config.OnActivation(id, name)
	}
}

// MediaFinished re-arms the wall after the media player reports that
// playback completed.
func (a *App) MediaFinished() {
	a.arbMu.Lock()
	a.arbiter.OnMediaFinished()
	a.arbMu.Unlock()

	a.chime.PlayRelease()
	log.Println("Media finished, wall re-armed")
}

// SetEnabled enables or disables touch detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether touch detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the fingertip detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera, for running against recorded frames.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SnapshotJPEG encodes the current projector canvas as JPEG. It
// implements server.FrameSource for the MJPEG stream. After Stop it
// returns ErrStopped; the HTTP server may outlive the pipeline.
func (a *App) SnapshotJPEG() ([]byte, error) {
	a.canvasMu.Lock()
	defer a.canvasMu.Unlock()

	if a.canvas.Mat().Closed() {
		return nil, ErrStopped
	}

	buf, err := gocv.IMEncode(".jpg", *a.canvas.Mat())
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}

// Display shows the current projector canvas in win. It returns false
// when the window was closed or the app stopped.
func (a *App) Display(win *render.Window) bool {
	a.canvasMu.Lock()
	defer a.canvasMu.Unlock()
	if a.canvas.Mat().Closed() {
		return false
	}
	return win.Show(a.canvas.Mat())
}

// Events returns the WebSocket event hub.
func (a *App) Events() *server.EventHub {
	return a.events
}

// Arbiter returns the hotspot arbiter.
func (a *App) Arbiter() *hotspot.Arbiter {
	return a.arbiter
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Start begins the touch detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	if err := a.chime.Initialize(); err != nil {
		log.Printf("Audio unavailable: %v", err)
	}

	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Touch pipeline started")
	return nil
}

// Stop halts the pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	a.chime.Cleanup()

	a.canvasMu.Lock()
	a.canvas.Close()
	a.canvasMu.Unlock()

	log.Println("Touch pipeline stopped")
}
