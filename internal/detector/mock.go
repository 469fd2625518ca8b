package detector

import (
	"sync"

	"github.com/golang/geo/r2"
	"gocv.io/x/gocv"
)

// MockDetector is a Detector implementation for testing. It returns
// preconfigured hands without running any inference.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a mock detector that returns no hands.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned by subsequent Detect calls.
func (d *MockDetector) SetHands(hands []HandLandmarks) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hands = hands
}

// SetError makes subsequent Detect calls fail with err.
func (d *MockDetector) SetError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

// Detect returns the configured hands or error.
func (d *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	out := make([]HandLandmarks, len(d.hands))
	copy(out, d.hands)
	return out, nil
}

// CallCount reports how many times Detect has been called.
func (d *MockDetector) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// Close marks the detector closed.
func (d *MockDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (d *MockDetector) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// HandAt builds a hand whose index fingertip sits at p in normalized
// camera space. The remaining landmarks are offset below the fingertip so
// the hand has a plausible shape.
func HandAt(p r2.Point) HandLandmarks {
	var h HandLandmarks
	h.Handedness = "Right"
	h.Score = 0.95
	for i := range h.Points {
		h.Points[i] = Point3D{X: p.X, Y: p.Y + 0.02*float64(i%4+1), Z: 0}
	}
	for _, idx := range FingertipIndices {
		h.Points[idx] = Point3D{X: p.X, Y: p.Y, Z: 0}
	}
	return h
}
