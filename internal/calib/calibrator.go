package calib

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
	"gocv.io/x/gocv"

	"github.com/lumenlab/touchwall/internal/transform"
)

// MinCorrespondences is the smallest usable correspondence set: a 2D
// homography has 8 degrees of freedom, requiring at least 4 non-collinear
// point pairs.
const MinCorrespondences = 4

// degenerateDetThreshold flags a fitted matrix as rank-deficient.
const degenerateDetThreshold = 1e-10

// Direction selects which of the two fitted homographies to apply.
type Direction int

const (
	// Forward maps projector space to camera space.
	Forward Direction = iota
	// Inverse maps camera space to projector space.
	Inverse
)

// FrameSize is the pixel dimensions of the calibration photo's camera frame.
type FrameSize struct {
	Width  int
	Height int
}

// CalibrationResult holds both fitted transforms and the camera frame size
// they were fitted against. Immutable once produced.
//
// Forward and Inverse are fit independently from the same correspondence set
// with source and target swapped, rather than inverting one algebraically:
// the least-squares fit is not guaranteed to invert losslessly.
type CalibrationResult struct {
	Forward   transform.Homography
	Inverse   transform.Homography
	FrameSize FrameSize

	// Matched is the number of correspondences the fit used: detected
	// markers whose ids are also in the layout.
	Matched int
}

// Calibrator fits and applies the projector/camera mapping. A Calibrator
// without a successful result rejects all transform requests.
type Calibrator struct {
	layout Layout
	result *CalibrationResult
}

// NewCalibrator creates an uncalibrated Calibrator for the given layout.
func NewCalibrator(layout Layout) *Calibrator {
	return &Calibrator{layout: layout}
}

// Layout returns the marker layout this calibrator expects.
func (c *Calibrator) Layout() Layout {
	return c.layout
}

// Calibrated reports whether a successful calibration result is held.
func (c *Calibrator) Calibrated() bool {
	return c.result != nil
}

// Result returns the current calibration result, or nil before calibration.
func (c *Calibrator) Result() *CalibrationResult {
	return c.result
}

// BeginCalibration renders the pattern image a collaborator must project at
// the given projector dimensions. Pure with respect to calibrator state.
func (c *Calibrator) BeginCalibration(width, height int) (gocv.Mat, error) {
	return RenderPattern(c.layout, width, height)
}

// CompleteCalibration fits both homographies from the observed markers.
//
// Only ids present in both the layout and the observation set contribute.
// Fails with *InsufficientCorrespondencesError when fewer than
// MinCorrespondences ids match, and with ErrDegenerateCorrespondences when
// the matched points are too close to collinear for a stable fit.
func (c *Calibrator) CompleteCalibration(observed []MarkerObservation, size FrameSize) (*CalibrationResult, error) {
	expected := c.layout.Positions()

	observedByID := make(map[int]r2.Point, len(observed))
	for _, obs := range observed {
		observedByID[obs.ID] = obs.Position
	}

	// Deterministic correspondence order.
	ids := make([]int, 0, len(observedByID))
	for id := range observedByID {
		if _, ok := expected[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	if len(ids) < MinCorrespondences {
		return nil, &InsufficientCorrespondencesError{Matched: len(ids), Required: MinCorrespondences}
	}

	projector := make([]r2.Point, len(ids))
	camera := make([]r2.Point, len(ids))
	for i, id := range ids {
		projector[i] = expected[id]
		camera[i] = observedByID[id]
	}

	forward, err := fitHomography(projector, camera)
	if err != nil {
		return nil, err
	}
	inverse, err := fitHomography(camera, projector)
	if err != nil {
		return nil, err
	}

	c.result = &CalibrationResult{
		Forward:   forward,
		Inverse:   inverse,
		FrameSize: size,
		Matched:   len(ids),
	}
	return c.result, nil
}

// SkipCalibration installs the bare axis swap between the (row, col)
// projector convention and camera (x, y), with a 1x1 sentinel frame size.
// For environments where camera and projector are already aligned and points
// are exchanged pre-normalized (pixel-aligned rigs, tests): a fitted forward
// homography absorbs the axis swap, so the skip path must supply it too.
func (c *Calibrator) SkipCalibration() *CalibrationResult {
	c.result = &CalibrationResult{
		Forward:   transform.SwapAxes(),
		Inverse:   transform.SwapAxes(),
		FrameSize: FrameSize{Width: 1, Height: 1},
	}
	return c.result
}

// Project applies the selected homography to a point.
func (c *Calibrator) Project(p r2.Point, dir Direction) (r2.Point, error) {
	if c.result == nil {
		return r2.Point{}, ErrNotCalibrated
	}
	if dir == Inverse {
		return c.result.Inverse.Apply(p), nil
	}
	return c.result.Forward.Apply(p), nil
}

// ToNormalizedCameraSpace maps a projector-space point into the [0,1]
// normalized camera coordinates used by the hand-landmark model (x divided
// by frame width, y by frame height).
//
// The projector side uses (row, col) point order (see Layout.Positions)
// while camera observations are conventional (x, y); the forward homography
// was fit across that axis swap, so its output is already in camera (x, y).
func (c *Calibrator) ToNormalizedCameraSpace(p r2.Point) (r2.Point, error) {
	cam, err := c.Project(p, Forward)
	if err != nil {
		return r2.Point{}, err
	}
	size := c.result.FrameSize
	return r2.Point{
		X: cam.X / float64(size.Width),
		Y: cam.Y / float64(size.Height),
	}, nil
}

// fitHomography estimates the least-squares projective transform mapping src
// points onto dst points.
func fitHomography(src, dst []r2.Point) (transform.Homography, error) {
	srcMat := gocv.NewMatWithSize(len(src), 1, gocv.MatTypeCV64FC2)
	defer srcMat.Close()
	dstMat := gocv.NewMatWithSize(len(dst), 1, gocv.MatTypeCV64FC2)
	defer dstMat.Close()

	for i := range src {
		srcMat.SetDoubleAt(i, 0, src[i].X)
		srcMat.SetDoubleAt(i, 1, src[i].Y)
		dstMat.SetDoubleAt(i, 0, dst[i].X)
		dstMat.SetDoubleAt(i, 1, dst[i].Y)
	}

	mask := gocv.NewMat()
	defer mask.Close()

	fitted := gocv.FindHomography(srcMat, &dstMat, gocv.HomographyMethodAllPoints, 3, &mask, 2000, 0.995)
	defer fitted.Close()

	if fitted.Empty() || fitted.Rows() != 3 || fitted.Cols() != 3 {
		return transform.Homography{}, ErrDegenerateCorrespondences
	}

	var m [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = fitted.GetDoubleAt(i, j)
		}
	}

	h := transform.New(m)
	if !h.IsFinite() || math.Abs(h.Det()) < degenerateDetThreshold {
		return transform.Homography{}, ErrDegenerateCorrespondences
	}
	return h, nil
}
