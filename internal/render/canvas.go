// Package render draws hotspot feedback onto the projector output.
package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/lumenlab/touchwall/internal/hotspot"
)

// Overlay colors
var (
	ringColor   = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	fillColor   = color.RGBA{R: 64, G: 160, B: 255, A: 0}
	activeColor = color.RGBA{R: 255, G: 200, B: 0, A: 0}
)

const ringThickness = 3

// Overlay pairs a hotspot's projector-space position with its current
// visual state.
type Overlay struct {
	Center image.Point
	Visual hotspot.VisualState
}

// Canvas is the projector framebuffer. Hotspot rings and fills are drawn
// fresh each frame onto a black background.
type Canvas struct {
	width  int
	height int
	mat    gocv.Mat
}

// NewCanvas creates a black canvas with the projector's dimensions.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		mat:    gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3),
	}
}

// Draw clears the canvas and renders each overlay. Rings are outlines at
// the hotspot's full radius; fills grow with press progress and switch
// color once the hotspot is active.
func (c *Canvas) Draw(overlays []Overlay) {
	c.mat.SetTo(gocv.NewScalar(0, 0, 0, 0))

	for _, o := range overlays {
		fill := fillColor
		if o.Visual.Pulsing {
			fill = activeColor
		}
		if o.Visual.FillRadiusPx > 0 {
			gocv.Circle(&c.mat, o.Center, int(o.Visual.FillRadiusPx), fill, -1)
		}
		gocv.Circle(&c.mat, o.Center, int(o.Visual.RingRadiusPx), ringColor, ringThickness)
	}
}

// SetImage replaces the canvas contents with img, used to project the
// calibration pattern. The image is resized to the canvas dimensions.
func (c *Canvas) SetImage(img gocv.Mat) {
	if img.Channels() == 1 {
		converted := gocv.NewMat()
		defer converted.Close()
		gocv.CvtColor(img, &converted, gocv.ColorGrayToBGR)
		gocv.Resize(converted, &c.mat, image.Point{X: c.width, Y: c.height}, 0, 0, gocv.InterpolationNearestNeighbor)
		return
	}
	gocv.Resize(img, &c.mat, image.Point{X: c.width, Y: c.height}, 0, 0, gocv.InterpolationNearestNeighbor)
}

// Mat exposes the underlying framebuffer for display and streaming.
// The canvas retains ownership.
func (c *Canvas) Mat() *gocv.Mat {
	return &c.mat
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Close releases the framebuffer.
func (c *Canvas) Close() {
	if !c.mat.Closed() {
		c.mat.Close()
	}
}
