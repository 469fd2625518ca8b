package feedback

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func TestTone_Stream(t *testing.T) {
	rate := beep.SampleRate(44100)
	tone := NewTone(440, 100*time.Millisecond, rate)

	samples := make([][2]float64, 256)
	n, ok := tone.Stream(samples)

	if !ok {
		t.Error("expected stream to return ok=true")
	}
	if n != 256 {
		t.Errorf("streamed %d samples, want 256", n)
	}

	for i := 0; i < n; i++ {
		if samples[i][0] < -1.0 || samples[i][0] > 1.0 {
			t.Fatalf("sample %d out of range: %f", i, samples[i][0])
		}
		if samples[i][0] != samples[i][1] {
			t.Fatalf("sample %d channels differ", i)
		}
	}

	if tone.Err() != nil {
		t.Errorf("expected no error, got: %v", tone.Err())
	}
}

func TestTone_Ends(t *testing.T) {
	rate := beep.SampleRate(44100)
	duration := 10 * time.Millisecond
	tone := NewTone(440, duration, rate)

	total := 0
	for {
		samples := make([][2]float64, 128)
		n, ok := tone.Stream(samples)
		total += n
		if !ok {
			break
		}
	}

	if want := rate.N(duration); total != want {
		t.Errorf("streamed %d samples, want %d", total, want)
	}
}

func TestTone_FadeIn(t *testing.T) {
	rate := beep.SampleRate(44100)
	tone := NewTone(440, 100*time.Millisecond, rate)

	samples := make([][2]float64, 1)
	tone.Stream(samples)

	// The very first sample is fully attenuated by the fade-in ramp.
	if samples[0][0] != 0 {
		t.Errorf("first sample = %f, want 0", samples[0][0])
	}
}
