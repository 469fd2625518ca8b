package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// FrameSlot is a single-slot handoff between a capture goroutine and the
// processing loop. The writer always replaces the stored frame, so a slow
// reader sees the newest frame instead of a growing backlog. Displaced
// frames are closed by the slot; taken frames belong to the reader.
type FrameSlot struct {
	mu     sync.Mutex
	frame  *gocv.Mat
	closed bool
}

// NewFrameSlot creates an empty frame slot.
func NewFrameSlot() *FrameSlot {
	return &FrameSlot{}
}

// Put stores frame as the latest, closing any frame it displaces.
// If the slot has been closed the frame is closed and discarded.
func (s *FrameSlot) Put(frame *gocv.Mat) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		frame.Close()
		return
	}
	if s.frame != nil {
		s.frame.Close()
	}
	s.frame = frame
}

// Take removes and returns the latest frame, or nil when the slot is
// empty. The caller owns the returned Mat and must close it.
func (s *FrameSlot) Take() *gocv.Mat {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame := s.frame
	s.frame = nil
	return frame
}

// Close drops any stored frame and rejects further writes.
func (s *FrameSlot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frame != nil {
		s.frame.Close()
		s.frame = nil
	}
	s.closed = true
}
