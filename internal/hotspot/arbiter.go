package hotspot

import (
	"time"

	"github.com/golang/geo/r2"
)

// ActivationListener receives hotspot activation events, exactly once per
// activation, always from the control-loop thread.
type ActivationListener interface {
	OnHotspotActivated(id int)
}

// ActivationListenerFunc adapts a function to the ActivationListener
// interface.
type ActivationListenerFunc func(id int)

// OnHotspotActivated calls f(id).
func (f ActivationListenerFunc) OnHotspotActivated(id int) {
	f(id)
}

// Arbiter owns the ordered hotspot collection and enforces that at most one
// hotspot is activated at any time. It is constructed once at session start;
// there is no process-wide hotspot state.
type Arbiter struct {
	hotspots []*Hotspot
	listener ActivationListener
}

// NewArbiter creates an arbiter reporting activations to listener, which may
// be nil when no event sink is wanted.
func NewArbiter(listener ActivationListener) *Arbiter {
	return &Arbiter{listener: listener}
}

// Add appends a hotspot. Iteration order is insertion order, which also
// decides same-frame activation ties.
func (a *Arbiter) Add(h *Hotspot) {
	a.hotspots = append(a.hotspots, h)
}

// Hotspots returns the hotspots in iteration order.
func (a *Arbiter) Hotspots() []*Hotspot {
	return a.hotspots
}

// Update feeds one frame of fingertip points to every hotspot, using a
// single timestamp so hysteresis arithmetic is consistent across the whole
// frame. When a hotspot activates, every other hotspot is deactivated before
// its event is emitted. If more than one hotspot would cross the activation
// threshold in the same frame, the first in iteration order wins; the rest
// are deactivated without an event.
func (a *Arbiter) Update(fingertips []r2.Point, now time.Time) {
	var winner *Hotspot
	for _, h := range a.hotspots {
		if !h.Update(fingertips, now) {
			continue
		}
		if winner != nil {
			h.Deactivate()
			continue
		}
		winner = h
		for _, other := range a.hotspots {
			if other != h {
				other.Deactivate()
			}
		}
		if a.listener != nil {
			a.listener.OnHotspotActivated(h.ID)
		}
	}
}

// OnMediaFinished deactivates all hotspots unconditionally, re-arming them
// after externally driven media content ends.
func (a *Arbiter) OnMediaFinished() {
	for _, h := range a.hotspots {
		h.Deactivate()
	}
}

// Active returns the currently activated hotspot, or nil.
func (a *Arbiter) Active() *Hotspot {
	for _, h := range a.hotspots {
		if h.Activated() {
			return h
		}
	}
	return nil
}

// State is a point-in-time snapshot of one hotspot, used for broadcasting
// pressure values to render and monitoring clients.
type State struct {
	ID        int     `json:"id"`
	Value     float64 `json:"value"`
	Activated bool    `json:"activated"`
}

// States snapshots every hotspot at the given instant, in iteration order.
func (a *Arbiter) States(now time.Time) []State {
	states := make([]State, len(a.hotspots))
	for i, h := range a.hotspots {
		states[i] = State{
			ID:        h.ID,
			Value:     h.Value(now),
			Activated: h.Activated(),
		}
	}
	return states
}
