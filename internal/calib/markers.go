package calib

import (
	"fmt"
	"image"

	"github.com/golang/geo/r2"
	"gocv.io/x/gocv"
)

// ArUco rendering parameters, shared by the pattern renderer and detector.
const (
	// MarkerSidePx is the rendered side length of each marker.
	MarkerSidePx = 100
	// MarkerBorderBits is the width of the marker's black border.
	MarkerBorderBits = 1
)

// markerDictionary is the ArUco dictionary used for calibration markers.
// 7x7 bits gives enough distinct codes for the full default grid.
const markerDictionary = gocv.ArucoDict7x7_100

// MarkerObservation is one detected fiducial marker: its id and the position
// of its top-left corner in camera pixel coordinates (conventional x, y).
type MarkerObservation struct {
	ID       int
	Position r2.Point
}

// RenderPattern draws the layout's markers onto a white single-channel image
// of the given projector dimensions. The returned Mat is owned by the caller.
func RenderPattern(layout Layout, width, height int) (gocv.Mat, error) {
	pattern := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), height, width, gocv.MatTypeCV8UC1)

	marker := gocv.NewMat()
	defer marker.Close()

	for id, pos := range layout.Positions() {
		// Layout positions are (row, col): X offsets from the top, Y from
		// the left.
		top := int(pos.X)
		left := int(pos.Y)

		if top < 0 || left < 0 || top+MarkerSidePx > height || left+MarkerSidePx > width {
			pattern.Close()
			return gocv.Mat{}, fmt.Errorf("calib: marker %d at (%d, %d) does not fit a %dx%d pattern",
				id, top, left, width, height)
		}

		gocv.ArucoGenerateImageMarker(markerDictionary, id, MarkerSidePx, marker, MarkerBorderBits)

		region := pattern.Region(image.Rect(left, top, left+MarkerSidePx, top+MarkerSidePx))
		marker.CopyTo(&region)
		region.Close()
	}

	return pattern, nil
}

// DetectMarkers finds calibration markers in a camera photo and returns one
// observation per detected id. Returns an empty slice when nothing is found;
// missing markers are not an error here, CompleteCalibration decides whether
// enough survived.
func DetectMarkers(photo gocv.Mat) []MarkerObservation {
	detector := gocv.NewArucoDetectorWithParams(
		gocv.GetPredefinedDictionary(markerDictionary),
		gocv.NewArucoDetectorParameters(),
	)
	defer detector.Close()

	corners, ids, _ := detector.DetectMarkers(photo)

	observations := make([]MarkerObservation, 0, len(ids))
	for i, id := range ids {
		if len(corners[i]) == 0 {
			continue
		}
		topLeft := corners[i][0]
		observations = append(observations, MarkerObservation{
			ID:       id,
			Position: r2.Point{X: float64(topLeft.X), Y: float64(topLeft.Y)},
		})
	}
	return observations
}
