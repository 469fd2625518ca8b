package calib

import (
	"errors"
	"fmt"
)

// ErrNotCalibrated is returned when a transform is requested before any
// successful calibration. This indicates incorrect initialization order in
// the host and should be treated as fatal.
var ErrNotCalibrated = errors.New("calib: transform requested before calibration")

// ErrDegenerateCorrespondences is returned when the correspondence set is
// numerically rank-deficient (for example, near-collinear points) and no
// stable homography can be fit. Recoverable: re-attempt calibration.
var ErrDegenerateCorrespondences = errors.New("calib: degenerate marker correspondences")

// InsufficientCorrespondencesError is returned when fewer marker ids matched
// between the layout and the observed set than a homography fit requires.
// Recoverable: re-attempt calibration.
type InsufficientCorrespondencesError struct {
	Matched  int
	Required int
}

func (e *InsufficientCorrespondencesError) Error() string {
	return fmt.Sprintf("calib: %d matching markers found, at least %d required", e.Matched, e.Required)
}
