package hotspot

import (
	"math"
	"testing"
	"time"
)

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time {
	return base.Add(d)
}

func TestPressState_ChargeTiming(t *testing.T) {
	s := NewPressState(DefaultCooldown)

	if got := s.Value(at(0)); got != 0 {
		t.Fatalf("initial Value = %f, want 0", got)
	}

	// Finger arrives at t=0; not yet fully charged.
	if s.Press(at(0)) {
		t.Error("Press at t=0 returned true, want false")
	}

	if got := s.Value(at(750 * time.Millisecond)); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Value at t=0.75s = %f, want 0.5", got)
	}

	// At exactly one cooldown the charge saturates.
	if got := s.Value(at(1500 * time.Millisecond)); got != 1 {
		t.Errorf("Value at t=1.5s = %f, want exactly 1", got)
	}
	if !s.Press(at(1500 * time.Millisecond)) {
		t.Error("Press at t=1.5s returned false, want true")
	}
	if got := s.Value(at(3 * time.Second)); got != 1 {
		t.Errorf("Value stays saturated, got %f", got)
	}
}

func TestPressState_MonotonicSaturation(t *testing.T) {
	s := NewPressState(DefaultCooldown)
	s.Press(at(0))

	prev := 0.0
	for d := time.Duration(0); d <= 2*time.Second; d += 100 * time.Millisecond {
		v := s.Value(at(d))
		if v < prev {
			t.Fatalf("Value decreased while finger present: %f after %f at %v", v, prev, d)
		}
		prev = v
	}

	// Release from full charge: non-increasing, exactly 0 after a cooldown.
	s.Release(at(2 * time.Second))
	prev = 1.0
	for d := 2 * time.Second; d <= 4*time.Second; d += 100 * time.Millisecond {
		v := s.Value(at(d))
		if v > prev {
			t.Fatalf("Value increased while finger absent: %f after %f at %v", v, prev, d)
		}
		prev = v
	}
	if got := s.Value(at(3500 * time.Millisecond)); got != 0 {
		t.Errorf("Value one cooldown after release = %f, want exactly 0", got)
	}
}

func TestPressState_ContinuousAcrossTransitions(t *testing.T) {
	s := NewPressState(DefaultCooldown)

	transitions := []struct {
		when    time.Duration
		present bool
	}{
		{when: 0, present: true},
		{when: 900 * time.Millisecond, present: false},
		{when: 1200 * time.Millisecond, present: true},
		{when: 2 * time.Second, present: false},
	}

	for _, tr := range transitions {
		before := s.Value(at(tr.when))
		if tr.present {
			s.Press(at(tr.when))
		} else {
			s.Release(at(tr.when))
		}
		after := s.Value(at(tr.when))

		if math.Abs(after-before) > 1e-9 {
			t.Errorf("Value jumped at transition %v: %f -> %f", tr.when, before, after)
		}
	}
}

func TestPressState_FlickerResumesCharge(t *testing.T) {
	s := NewPressState(DefaultCooldown)

	// Charge to 0.5, lose the finger for 0.3s (decays to 0.3), regain it.
	s.Press(at(0))
	s.Release(at(750 * time.Millisecond))
	s.Press(at(1050 * time.Millisecond))

	if got := s.Value(at(1050 * time.Millisecond)); math.Abs(got-0.3) > 1e-9 {
		t.Fatalf("Value after flicker = %f, want 0.3", got)
	}

	// Full press needs only the remaining 0.7 of a cooldown.
	full := at(1050*time.Millisecond + 1050*time.Millisecond)
	if !s.Press(full) {
		t.Errorf("Press at %v returned false, want true (resumed charge)", full)
	}
}

func TestPressState_DefaultCooldownFallback(t *testing.T) {
	s := NewPressState(0)

	s.Press(at(0))
	if got := s.Value(at(750 * time.Millisecond)); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Value with fallback cooldown = %f, want 0.5", got)
	}
}
