// Package calib establishes the geometric mapping between projector output
// coordinates and camera sensor coordinates using fiducial markers.
package calib

import "github.com/golang/geo/r2"

// Default marker grid parameters. A 6x12 grid of ArUco markers spaced 150px
// apart covers a 1920x1080 projector surface with margin to spare.
const (
	DefaultRows      = 6
	DefaultCols      = 12
	DefaultSpacingPx = 150
	DefaultOriginPx  = 25
)

// Layout deterministically assigns fiducial marker ids to projector-space
// pixel positions. The same layout is used to render the calibration pattern
// and to interpret detected markers, so both sides agree on where each id
// belongs.
type Layout struct {
	Rows      int
	Cols      int
	SpacingPx float64
	OriginPx  float64
}

// DefaultLayout returns the standard calibration grid.
func DefaultLayout() Layout {
	return Layout{
		Rows:      DefaultRows,
		Cols:      DefaultCols,
		SpacingPx: DefaultSpacingPx,
		OriginPx:  DefaultOriginPx,
	}
}

// MarkerCount returns the number of markers in the grid.
func (l Layout) MarkerCount() int {
	return l.Rows * l.Cols
}

// Positions returns the projector-space position of every marker id.
//
// Ids are assigned in row-major order starting at 0. Positions are in the
// pattern's compositing order: X is the offset from the top edge (row axis)
// and Y the offset from the left edge (column axis). Hotspot definitions and
// every other projector-space point in this codebase use the same order; the
// fitted homography maps it onto the camera's conventional (x, y) axes.
func (l Layout) Positions() map[int]r2.Point {
	positions := make(map[int]r2.Point, l.MarkerCount())
	for id := 0; id < l.MarkerCount(); id++ {
		row := id / l.Cols
		col := id % l.Cols
		positions[id] = r2.Point{
			X: l.OriginPx + l.SpacingPx*float64(row),
			Y: l.OriginPx + l.SpacingPx*float64(col),
		}
	}
	return positions
}
