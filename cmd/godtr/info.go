package main

import (
	"fmt"
	"math"

	"github.com/philipparndt/godtr/pkg/tiltseries"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [session]",
	Short: "Display general information about a tilt series",
	Long:  "Show the detector geometry, the tilt range and the number of measured features per image.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	c, err := tiltseries.Load(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Tilt Series Information")
	fmt.Fprintln(out, "=======================")
	if c.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", c.Name)
	}
	fmt.Fprintf(out, "File: %s\n\n", args[0])

	fmt.Fprintln(out, "Geometry:")
	fmt.Fprintf(out, "  Tilt axis: %.2f deg\n", degrees(c.Geometry.Omega))
	fmt.Fprintf(out, "  Centre: (%.1f, %.1f) px\n", c.Geometry.Centre.X, c.Geometry.Centre.Y)
	fmt.Fprintf(out, "  Pixel scale: %.5f nm^-1/px\n\n", c.Geometry.PixelScale)

	fmt.Fprintf(out, "Images: %d\n", c.Count())
	if lo, hi, err := c.TiltRange(); err == nil {
		fmt.Fprintf(out, "  Tilt range: %.2f to %.2f deg\n", degrees(lo), degrees(hi))
	}
	fmt.Fprintf(out, "  Measured features: %d\n\n", c.FeatureCount())

	for i, img := range c.Images {
		features := "not analysed"
		if img.Features != nil {
			features = fmt.Sprintf("%d features", len(img.Features))
		}
		fmt.Fprintf(out, "  %3d  %8.2f deg  %s\n", i, degrees(img.Tilt), features)
	}
	return nil
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
