package main

import (
	"fmt"

	"github.com/philipparndt/godtr/internal/overlay"
	"github.com/philipparndt/godtr/pkg/lattice"
	"github.com/philipparndt/godtr/pkg/tiltseries"
	"github.com/spf13/cobra"
)

var (
	overlayImage int
	overlayCell  string
)

var overlayCmd = &cobra.Command{
	Use:   "overlay [session]",
	Short: "Print the overlay draw list of one tilt image",
	Long: `Print the marks drawn over a tilt image: predicted reflections of the unit
cell (circle-1), measured features (circle-2) and the lines joining paired
reflections (line-1).`,
	Args: cobra.ExactArgs(1),
	RunE: runOverlay,
}

func init() {
	rootCmd.AddCommand(overlayCmd)

	overlayCmd.Flags().IntVarP(&overlayImage, "image", "i", 0, "Index of the tilt image")
	overlayCmd.Flags().StringVar(&overlayCell, "cell", "", "Unit cell file")
}

func runOverlay(cmd *cobra.Command, args []string) error {
	c, err := tiltseries.Load(args[0])
	if err != nil {
		return err
	}

	r := lattice.NewReprojector(cfg.Reprojection.Tolerance, cfg.Reprojection.MatchRadius, cfg.Reprojection.MaxIndex)
	synchronizer := overlay.New(c, r)
	if overlayCell != "" {
		cell, err := lattice.LoadCell(overlayCell)
		if err != nil {
			return err
		}
		synchronizer.SetModel(lattice.NewModel(cell))
	}

	marks, err := synchronizer.Refresh(overlayImage)
	if err != nil {
		return err
	}
	logger.Debug("overlay built", "image", overlayImage, "marks", len(marks))

	out := cmd.OutOrStdout()
	for _, m := range marks {
		switch m.Kind {
		case overlay.Correspondence:
			fmt.Fprintf(out, "%-8s %8.2f %8.2f -> %8.2f %8.2f\n", m.Kind, m.From.X, m.From.Y, m.To.X, m.To.Y)
		default:
			fmt.Fprintf(out, "%-8s %8.2f %8.2f  I=%.3f\n", m.Kind, m.From.X, m.From.Y, m.Intensity)
		}
	}
	return nil
}
