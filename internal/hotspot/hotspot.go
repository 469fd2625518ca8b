package hotspot

import (
	"math"
	"time"

	"github.com/golang/geo/r2"
)

// DefaultRadius is the hotspot radius in normalized camera space.
const DefaultRadius = 0.03

// Visual constants for the projector rendering of a hotspot.
const (
	// ringRadiusScale converts a normalized radius to an on-screen pixel
	// radius. 800 gives a drawn ring slightly smaller than the hitbox.
	ringRadiusScale = 800
	// pulseAmplitudePx and pulseRate shape the oscillation drawn while a
	// hotspot is activated.
	pulseAmplitudePx = 6
	pulseRate        = 3
)

// Hotspot is a circular pressable region. Its center and radius live in
// normalized camera space ([0,1] fractions of the camera frame), so fingertip
// points from the hand-landmark model can be tested directly. Each hotspot
// owns its PressState exclusively.
type Hotspot struct {
	ID int

	center      r2.Point
	radius      float64
	press       *PressState
	activated   bool
	activatedAt time.Time
}

// New creates a hotspot at the given normalized camera-space center. A
// non-positive radius falls back to DefaultRadius.
func New(id int, center r2.Point, radius float64, cooldown time.Duration) *Hotspot {
	if radius <= 0 {
		radius = DefaultRadius
	}
	return &Hotspot{
		ID:     id,
		center: center,
		radius: radius,
		press:  NewPressState(cooldown),
	}
}

// Center returns the hotspot center in normalized camera space.
func (h *Hotspot) Center() r2.Point {
	return h.center
}

// Radius returns the normalized radius.
func (h *Hotspot) Radius() float64 {
	return h.radius
}

// Activated reports whether the hotspot is currently activated.
func (h *Hotspot) Activated() bool {
	return h.activated
}

// Value returns the current press charge in [0,1].
func (h *Hotspot) Value(now time.Time) float64 {
	return h.press.Value(now)
}

// Update feeds one frame of fingertip points to the hotspot and reports
// whether it just activated. An already activated hotspot ignores input
// until the arbiter deactivates it.
func (h *Hotspot) Update(fingertips []r2.Point, now time.Time) bool {
	if h.activated {
		return false
	}

	inside := false
	for _, p := range fingertips {
		if h.contains(p) {
			inside = true
			break
		}
	}

	if !inside {
		h.press.Release(now)
		return false
	}

	if h.press.Press(now) {
		h.Activate(now)
		return true
	}
	return false
}

func (h *Hotspot) contains(p r2.Point) bool {
	d := h.center.Sub(p)
	return d.Dot(d) <= h.radius*h.radius
}

// Activate latches the hotspot as activated. Idempotent: a second call does
// not move the activation time.
func (h *Hotspot) Activate(now time.Time) {
	if h.activated {
		return
	}
	h.activated = true
	h.activatedAt = now
}

// Deactivate clears the activation latch. Idempotent. The press state is
// kept: a freshly deactivated hotspot resumes from its current charge and
// decays normally if no finger is present.
func (h *Hotspot) Deactivate() {
	h.activated = false
}

// VisualState is the derived view a renderer draws for one hotspot: an outer
// ring at the hitbox edge and an inner fill that grows with the press charge,
// pulsing while activated.
type VisualState struct {
	RingRadiusPx float64
	FillRadiusPx float64
	Pulsing      bool
}

// VisualState computes the render view for the given instant.
func (h *Hotspot) VisualState(now time.Time) VisualState {
	ring := ringRadiusScale * h.radius
	fill := ring * h.press.Value(now)
	if h.activated {
		since := now.Sub(h.activatedAt).Seconds()
		fill += pulseAmplitudePx*math.Sin(pulseRate*since) + pulseAmplitudePx
	}
	return VisualState{
		RingRadiusPx: ring,
		FillRadiusPx: fill,
		Pulsing:      h.activated,
	}
}
