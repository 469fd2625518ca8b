// Package feedback plays short audio cues when hotspots activate.
package feedback

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// tone generates a fixed-length sine wave.
type tone struct {
	freq     float64
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

// NewTone creates a sine tone streamer at freq for the given duration.
func NewTone(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{
		freq:     freq,
		duration: rate.N(duration),
		rate:     rate,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.duration {
			return i, false
		}

		val := math.Sin(2 * math.Pi * t.phase)

		// Short linear fade at both ends avoids clicks.
		fade := t.rate.N(5 * time.Millisecond)
		if t.position < fade {
			val *= float64(t.position) / float64(fade)
		}
		if remaining := t.duration - t.position; remaining < fade {
			val *= float64(remaining) / float64(fade)
		}

		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase = t.phase - math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }
