// Package hotspot turns noisy per-frame fingertip samples into debounced,
// mutually exclusive activation events for circular projected regions.
package hotspot

import "time"

// DefaultCooldown is how long a finger must dwell on a hotspot to register a
// full press. Once the finger leaves, the charge also takes this long to
// drain completely.
const DefaultCooldown = 1500 * time.Millisecond

// PressState is the hysteresis state machine behind a hotspot. It models the
// press as an analog charge in [0,1] that rises while a finger is over the
// region and decays while it is not, which makes detection resistant to
// momentary flicker in the finger signal without buffering past samples.
//
// Timestamps are supplied by the caller; use one monotonic reading per frame.
type PressState struct {
	cooldown          time.Duration
	fingerPresent     bool
	lastTransition    time.Time
	valueAtTransition float64
}

// NewPressState creates an uncharged PressState. A non-positive cooldown
// falls back to DefaultCooldown.
func NewPressState(cooldown time.Duration) *PressState {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &PressState{cooldown: cooldown}
}

// FingerPresent reports whether the last sample had a finger over the region.
func (s *PressState) FingerPresent() bool {
	return s.fingerPresent
}

// Value returns the current charge in [0,1]. The value is continuous across
// presence transitions: each transition snapshots the charge, so charging
// and draining always resume from where the previous phase left off.
func (s *PressState) Value(now time.Time) float64 {
	elapsed := now.Sub(s.lastTransition).Seconds() / s.cooldown.Seconds()
	if s.fingerPresent {
		return min(1, s.valueAtTransition+elapsed)
	}
	return max(0, s.valueAtTransition-elapsed)
}

// Press records a frame in which a finger is over the region. Returns true
// when the charge has reached 1, whether or not this frame caused the
// presence transition.
func (s *PressState) Press(now time.Time) bool {
	if !s.fingerPresent {
		s.valueAtTransition = s.Value(now)
		s.lastTransition = now
		s.fingerPresent = true
	}
	return s.Value(now) == 1
}

// Release records a frame in which no finger is over the region.
func (s *PressState) Release(now time.Time) {
	if s.fingerPresent {
		s.valueAtTransition = s.Value(now)
		s.lastTransition = now
		s.fingerPresent = false
	}
}
