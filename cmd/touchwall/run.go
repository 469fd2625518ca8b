package main

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumenlab/touchwall/internal/app"
	"github.com/lumenlab/touchwall/internal/calib"
	"github.com/lumenlab/touchwall/internal/capture"
	"github.com/lumenlab/touchwall/internal/render"
	"github.com/lumenlab/touchwall/internal/server"
	"github.com/lumenlab/touchwall/internal/tray"
)

var (
	runAddr      string
	runWidth     int
	runHeight    int
	runSettle    time.Duration
	runWindowed  bool
	runSkipCalib bool
	runMotionPct float64
	runStaticDir string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Calibrate and run the touch wall",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWall()
	},
}

func init() {
	runCmd.Flags().StringVar(&runAddr, "addr", ":8080", "HTTP listen address")
	runCmd.Flags().IntVar(&runWidth, "width", 1920, "Projector width in pixels")
	runCmd.Flags().IntVar(&runHeight, "height", 1080, "Projector height in pixels")
	runCmd.Flags().DurationVar(&runSettle, "settle", 3*time.Second, "Camera settle time during calibration")
	runCmd.Flags().BoolVar(&runWindowed, "windowed", false, "Show projector output in a window instead of fullscreen")
	runCmd.Flags().BoolVar(&runSkipCalib, "skip-calibration", false, "Skip calibration and assume an axis-aligned camera")
	runCmd.Flags().Float64Var(&runMotionPct, "motion-threshold", 0, "Percent of changed pixels that counts as motion")
	runCmd.Flags().StringVar(&runStaticDir, "static", "", "Directory of control panel files to serve")
	rootCmd.AddCommand(runCmd)
}

func runWall() error {
	win := render.NewWindow("Touchwall", !runWindowed)
	defer win.Close()

	var calibrator *calib.Calibrator
	if runSkipCalib {
		calibrator = calib.NewCalibrator(calib.DefaultLayout())
		calibrator.SkipCalibration()
		log.Println("Calibration skipped, assuming axis-aligned camera")
	} else {
		cam := capture.NewCamera(cameraID)
		if err := cam.Open(); err != nil {
			return fmt.Errorf("failed to open camera: %w", err)
		}

		var matched int
		var err error
		calibrator, matched, err = performCalibration(cam, win, runWidth, runHeight, runSettle)
		cam.Close()
		if err != nil {
			return err
		}
		log.Printf("Calibrated with %d markers, mean round-trip error %.3f px",
			matched, roundTripError(calibrator))
	}

	trayUI := tray.New()

	a := app.New(app.Config{
		Store:           DB,
		CameraID:        cameraID,
		MotionThresh:    runMotionPct,
		ProjectorWidth:  runWidth,
		ProjectorHeight: runHeight,
		OnActivation: func(id int, name string) {
			trayUI.SetLastHotspot(name)
		},
	}, calibrator)

	if err := a.LoadHotspots(); err != nil {
		return fmt.Errorf("failed to load hotspots: %w", err)
	}

	if err := a.Start(); err != nil {
		return fmt.Errorf("failed to start pipeline: %w", err)
	}
	a.SetEnabled(true)

	srv := server.New(server.Config{
		StaticDir:       runStaticDir,
		Store:           DB,
		Frames:          a,
		Events:          a.Events(),
		OnMediaFinished: a.MediaFinished,
	})
	go func() {
		log.Printf("Control server listening on %s", runAddr)
		if err := srv.ListenAndServe(runAddr); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Display loop runs on its own locked OS thread so the GUI event
	// pump stays on one thread.
	displayDone := make(chan struct{})
	go func() {
		defer close(displayDone)
		runtime.LockOSThread()

		ticker := time.NewTicker(time.Second / 30)
		defer ticker.Stop()

		for range ticker.C {
			if !a.Display(win) {
				return
			}
		}
	}()

	trayUI.OnToggle(a.SetEnabled)
	trayUI.OnRearm(a.MediaFinished)
	trayUI.OnQuit(func() {
		a.Stop()
	})

	// Blocks until the operator quits from the tray.
	trayUI.Run()

	return nil
}
