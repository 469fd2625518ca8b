package feedback

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)

	noteDuration = 120 * time.Millisecond
)

// Chime plays a two-note confirmation when a hotspot activates, so
// visitors get audible feedback even before the media starts.
type Chime struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewChime creates a new chime player. Call Initialize before playing.
func NewChime() *Chime {
	return &Chime{mixer: &beep.Mixer{}}
}

// Initialize sets up the audio system.
func (c *Chime) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100))
	if err != nil {
		return err
	}

	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// PlayActivation plays a rising two-note chime.
func (c *Chime) PlayActivation() {
	c.play(660, 880)
}

// PlayRelease plays a single low note when playback finishes and the
// wall re-arms.
func (c *Chime) PlayRelease() {
	c.play(440)
}

func (c *Chime) play(freqs ...float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	notes := make([]beep.Streamer, len(freqs))
	for i, freq := range freqs {
		notes[i] = NewTone(freq, noteDuration, sampleRate)
	}

	speaker.Lock()
	c.mixer.Add(beep.Seq(notes...))
	speaker.Unlock()
}

// Cleanup stops all sounds.
func (c *Chime) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	c.mixer.Clear()
	c.initialized = false
}
