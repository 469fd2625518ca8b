package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lumenlab/touchwall/internal/store"
)

// Version is the application version.
const Version = "0.1.0"

var (
	// DB is the database connection shared by subcommands
	DB *store.Store
	// dbPath is the SQLite database path
	dbPath string
	// cameraID selects the capture device
	cameraID int
)

var rootCmd = &cobra.Command{
	Use:     "touchwall",
	Short:   "Projector-camera touch wall for museum exhibits",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if dbPath == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			dataDir := filepath.Join(homeDir, ".touchwall")
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			dbPath = filepath.Join(dataDir, "touchwall.db")
		}

		var err error
		DB, err = store.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if DB != nil {
			DB.Close()
		}
	},
}

// Execute runs the root command with signal-aware context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default: ~/.touchwall/touchwall.db)")
	rootCmd.PersistentFlags().IntVar(&cameraID, "camera", 0, "Camera device ID")
}
