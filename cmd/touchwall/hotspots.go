package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lumenlab/touchwall/internal/store"
)

var (
	addName   string
	addMedia  string
	addProjX  float64
	addProjY  float64
	addRadius float64
)

var hotspotsCmd = &cobra.Command{
	Use:   "hotspots",
	Short: "Manage hotspot definitions",
}

var hotspotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all hotspots with their activation counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHotspotsList()
	},
}

var hotspotsAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add a hotspot at a projector position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid hotspot ID %q", args[0])
		}
		return runHotspotsAdd(id)
	},
}

var hotspotsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a hotspot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid hotspot ID %q", args[0])
		}
		return runHotspotsRemove(id)
	},
}

func init() {
	hotspotsAddCmd.Flags().StringVar(&addName, "name", "", "Hotspot name (required)")
	hotspotsAddCmd.Flags().StringVar(&addMedia, "media", "", "Media file played on activation")
	hotspotsAddCmd.Flags().Float64Var(&addProjX, "x", 0, "Projector X position in pixels")
	hotspotsAddCmd.Flags().Float64Var(&addProjY, "y", 0, "Projector Y position in pixels")
	hotspotsAddCmd.Flags().Float64Var(&addRadius, "radius", 0.03, "Touch radius in normalized camera units")
	hotspotsAddCmd.MarkFlagRequired("name")

	hotspotsCmd.AddCommand(hotspotsListCmd)
	hotspotsCmd.AddCommand(hotspotsAddCmd)
	hotspotsCmd.AddCommand(hotspotsRemoveCmd)
	rootCmd.AddCommand(hotspotsCmd)
}

func runHotspotsList() error {
	hotspots, err := DB.Hotspots().List()
	if err != nil {
		return fmt.Errorf("failed to list hotspots: %w", err)
	}

	if len(hotspots) == 0 {
		fmt.Println("No hotspots defined.")
		return nil
	}

	counts, err := DB.Activations().CountByHotspot()
	if err != nil {
		return fmt.Errorf("failed to count activations: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPOSITION\tRADIUS\tENABLED\tACTIVATIONS")
	fmt.Fprintln(w, "--\t----\t--------\t------\t-------\t-----------")

	for _, h := range hotspots {
		fmt.Fprintf(w, "%d\t%s\t(%.0f, %.0f)\t%.3f\t%v\t%d\n",
			h.ID, h.Name, h.ProjX, h.ProjY, h.Radius, h.Enabled, counts[h.ID])
	}
	w.Flush()

	return nil
}

func runHotspotsAdd(id int) error {
	h := &store.Hotspot{
		ID:      id,
		Name:    addName,
		Media:   addMedia,
		ProjX:   addProjX,
		ProjY:   addProjY,
		Radius:  addRadius,
		Enabled: true,
	}

	if err := DB.Hotspots().Create(h); err != nil {
		return fmt.Errorf("failed to create hotspot: %w", err)
	}

	fmt.Printf("Added hotspot %d (%s) at (%.0f, %.0f)\n", h.ID, h.Name, h.ProjX, h.ProjY)
	return nil
}

func runHotspotsRemove(id int) error {
	if err := DB.Hotspots().Delete(id); err != nil {
		return fmt.Errorf("failed to remove hotspot: %w", err)
	}

	fmt.Printf("Removed hotspot %d\n", id)
	return nil
}
