package app

import (
	"log"
	"time"

	"github.com/golang/geo/r2"

	"github.com/lumenlab/touchwall/internal/capture"
	"github.com/lumenlab/touchwall/internal/detector"
	"github.com/lumenlab/touchwall/internal/hotspot"
	"github.com/lumenlab/touchwall/internal/render"
)

// runPipeline is the main touch loop.
//
// Pipeline logic:
// 1. A capture goroutine keeps the latest camera frame in a single slot,
//    so a slow detection pass never builds a frame backlog.
// 2. Start in idle mode (IdleFPS), watching for motion only.
// 3. On motion, switch to active mode (ActiveFPS) and run fingertip
//    detection on each frame.
// 4. Feed fingertips to the arbiter, which drives press state and
//    mutual exclusion across hotspots.
// 5. Redraw the projector canvas and broadcast hotspot states.
// 6. After 2s without motion, drop back to idle mode.
func (a *App) runPipeline() {
	a.mu.RLock()
	stopCh := a.stopCh
	a.mu.RUnlock()

	slot := capture.NewFrameSlot()
	defer slot.Close()

	go a.captureFrames(slot, stopCh)

	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame := slot.Take()
			if frame == nil {
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			// In idle mode the arbiter still runs with no fingertips so
			// charged hotspots decay back to empty.
			var fingertips []r2.Point
			if activeMode {
				hands, err := a.Detector().Detect(frame)
				if err != nil {
					log.Printf("Error detecting hands: %v", err)
				} else {
					fingertips = detector.Fingertips(hands)
				}
			}
			frame.Close()

			now := time.Now()
			states := a.updateArbiter(fingertips, now)

			a.redraw(now)
			a.events.BroadcastStates(states)
		}
	}
}

// captureFrames reads from the camera as fast as it delivers and parks
// each frame in the slot.
func (a *App) captureFrames(slot *capture.FrameSlot, stopCh chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		default:
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		slot.Put(frame)
	}
}

// updateArbiter feeds one frame of fingertips to the arbiter and returns
// the resulting hotspot states for broadcast.
func (a *App) updateArbiter(fingertips []r2.Point, now time.Time) []hotspot.State {
	a.arbMu.Lock()
	defer a.arbMu.Unlock()
	a.arbiter.Update(fingertips, now)
	return a.arbiter.States(now)
}

// redraw renders every hotspot's current visual state onto the canvas.
func (a *App) redraw(now time.Time) {
	a.mu.RLock()
	a.arbMu.Lock()
	overlays := make([]render.Overlay, 0, len(a.centers))
	for _, h := range a.arbiter.Hotspots() {
		center, ok := a.centers[h.ID]
		if !ok {
			continue
		}
		overlays = append(overlays, render.Overlay{
			Center: center,
			Visual: h.VisualState(now),
		})
	}
	a.arbMu.Unlock()
	a.mu.RUnlock()

	a.canvasMu.Lock()
	if !a.canvas.Mat().Closed() {
		a.canvas.Draw(overlays)
	}
	a.canvasMu.Unlock()
}

// Detector returns the fingertip detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
