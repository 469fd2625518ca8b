// Package transform provides planar projective transforms between the
// projector and camera coordinate spaces.
package transform

import (
	"math"

	"github.com/golang/geo/r2"
)

// Homography is a 3x3 projective transform mapping points on one plane to
// points on another, up to scale. The zero value is not usable; construct
// instances with New or Identity.
type Homography struct {
	m [3][3]float64
}

// New creates a Homography from a row-major 3x3 coefficient matrix.
func New(m [3][3]float64) Homography {
	return Homography{m: m}
}

// Identity returns the identity transform.
func Identity() Homography {
	return Homography{m: [3][3]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}}
}

// SwapAxes returns the transform that exchanges the two coordinates. It is
// its own inverse.
func SwapAxes() Homography {
	return Homography{m: [3][3]float64{
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, 1},
	}}
}

// Apply maps a point through the transform: (x', y', w') = M * (x, y, 1),
// returning (x'/w', y'/w').
func (h Homography) Apply(p r2.Point) r2.Point {
	x := h.m[0][0]*p.X + h.m[0][1]*p.Y + h.m[0][2]
	y := h.m[1][0]*p.X + h.m[1][1]*p.Y + h.m[1][2]
	w := h.m[2][0]*p.X + h.m[2][1]*p.Y + h.m[2][2]

	return r2.Point{X: x / w, Y: y / w}
}

// At returns the coefficient at the given row and column.
func (h Homography) At(row, col int) float64 {
	return h.m[row][col]
}

// Det returns the determinant of the coefficient matrix. A determinant close
// to zero indicates a degenerate (non-invertible) transform.
func (h Homography) Det() float64 {
	m := h.m
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// IsFinite reports whether every coefficient is a finite number.
func (h Homography) IsFinite() bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.IsNaN(h.m[i][j]) || math.IsInf(h.m[i][j], 0) {
				return false
			}
		}
	}
	return true
}
