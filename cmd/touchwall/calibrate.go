package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/lumenlab/touchwall/internal/calib"
	"github.com/lumenlab/touchwall/internal/capture"
	"github.com/lumenlab/touchwall/internal/render"
)

var (
	calibWidth    int
	calibHeight   int
	calibSettle   time.Duration
	calibWindowed bool
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Run the projector-camera calibration and report its quality",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCalibrate()
	},
}

func init() {
	calibrateCmd.Flags().IntVar(&calibWidth, "width", 1920, "Projector width in pixels")
	calibrateCmd.Flags().IntVar(&calibHeight, "height", 1080, "Projector height in pixels")
	calibrateCmd.Flags().DurationVar(&calibSettle, "settle", 3*time.Second, "Camera settle time with the pattern displayed")
	calibrateCmd.Flags().BoolVar(&calibWindowed, "windowed", false, "Show the pattern in a window instead of fullscreen")
	rootCmd.AddCommand(calibrateCmd)
}

func runCalibrate() error {
	cam := capture.NewCamera(cameraID)
	if err := cam.Open(); err != nil {
		return fmt.Errorf("failed to open camera: %w", err)
	}
	defer cam.Close()

	win := render.NewWindow("Touchwall Calibration", !calibWindowed)
	defer win.Close()

	calibrator, matched, err := performCalibration(cam, win, calibWidth, calibHeight, calibSettle)
	if err != nil {
		return err
	}

	layout := calibrator.Layout()
	fmt.Printf("Matched %d of %d markers\n", matched, layout.MarkerCount())
	fmt.Printf("Mean round-trip error: %.3f px\n", roundTripError(calibrator))

	return nil
}

// performCalibration projects the fiducial pattern, lets the camera
// settle, then fits the projector-camera mapping from one photo.
func performCalibration(cam capture.Camera, win *render.Window, width, height int, settle time.Duration) (*calib.Calibrator, int, error) {
	calibrator := calib.NewCalibrator(calib.DefaultLayout())

	pattern, err := calibrator.BeginCalibration(width, height)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to render pattern: %w", err)
	}
	defer pattern.Close()

	canvas := render.NewCanvas(width, height)
	defer canvas.Close()
	canvas.SetImage(pattern)

	// Keep the pattern on screen while the camera adjusts exposure.
	const tick = 100 * time.Millisecond
	steps := int(settle / tick)
	bar := progressbar.NewOptions(steps,
		progressbar.OptionSetDescription("Letting camera settle"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)
	for i := 0; i < steps; i++ {
		if !win.Show(canvas.Mat()) {
			return nil, 0, fmt.Errorf("calibration window closed")
		}
		time.Sleep(tick)
		bar.Add(1)
	}
	bar.Finish()
	fmt.Fprintln(os.Stderr)

	photo, err := cam.ReadFrame()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to capture photo: %w", err)
	}
	defer photo.Close()

	observed := calib.DetectMarkers(*photo)
	size := calib.FrameSize{Width: photo.Cols(), Height: photo.Rows()}

	result, err := calibrator.CompleteCalibration(observed, size)
	if err != nil {
		return nil, 0, fmt.Errorf("calibration failed: %w", err)
	}

	// Detected markers with ids outside the layout do not contribute to
	// the fit and are not counted.
	return calibrator, result.Matched, nil
}

// roundTripError maps every marker position through the forward and
// inverse homographies and reports the mean displacement in projector
// pixels.
func roundTripError(calibrator *calib.Calibrator) float64 {
	positions := calibrator.Layout().Positions()

	var total float64
	for _, p := range positions {
		cam, err := calibrator.Project(p, calib.Forward)
		if err != nil {
			continue
		}
		back, err := calibrator.Project(cam, calib.Inverse)
		if err != nil {
			continue
		}
		total += back.Sub(p).Norm()
	}

	return total / float64(len(positions))
}
