// Package detector provides fingertip detection for the hotspot pipeline.
package detector

import "github.com/golang/geo/r2"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbTip     = 4
	IndexTip     = 8
	MiddleTip    = 12
	RingTip      = 16
	PinkyTip     = 20
	NumLandmarks = 21
)

// FingertipIndices are the landmark indices of the five fingertips. These
// only change on a breaking upstream change in the landmark model.
var FingertipIndices = [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// Point3D represents a 3D landmark point. X and Y are normalized to [0,1]
// fractions of the camera frame (x by width, y by height); Z is relative
// depth from the wrist.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected for one hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Fingertips returns this hand's five fingertip positions in normalized
// camera space.
func (h *HandLandmarks) Fingertips() []r2.Point {
	tips := make([]r2.Point, 0, len(FingertipIndices))
	for _, i := range FingertipIndices {
		tips = append(tips, r2.Point{X: h.Points[i].X, Y: h.Points[i].Y})
	}
	return tips
}

// Fingertips flattens the fingertip positions of every detected hand into a
// single point set for hotspot testing. Returns an empty slice for no hands.
func Fingertips(hands []HandLandmarks) []r2.Point {
	tips := make([]r2.Point, 0, len(hands)*len(FingertipIndices))
	for i := range hands {
		tips = append(tips, hands[i].Fingertips()...)
	}
	return tips
}
