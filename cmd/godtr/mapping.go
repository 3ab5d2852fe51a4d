package main

import (
	"fmt"
	"math"

	"github.com/philipparndt/godtr/pkg/tiltseries"
	"github.com/spf13/cobra"
)

var mapAxisOffset float64

var mapCmd = &cobra.Command{
	Use:   "map [session]",
	Short: "Map measured features into reciprocal space",
	Long:  "Print the reciprocal space position (nm^-1) and normalised intensity of every measured feature.",
	Args:  cobra.ExactArgs(1),
	RunE:  runMap,
}

func init() {
	rootCmd.AddCommand(mapCmd)

	mapCmd.Flags().Float64Var(&mapAxisOffset, "axis-offset", 0, "Tilt axis offset in degrees")
}

func runMap(cmd *cobra.Command, args []string) error {
	c, err := tiltseries.Load(args[0])
	if err != nil {
		return err
	}
	if mapAxisOffset != 0 {
		c.Geometry.AdjustAxis(mapAxisOffset * math.Pi / 180)
		logger.Info("tilt axis adjusted", "offset", mapAxisOffset)
	}

	out := cmd.OutOrStdout()
	for _, f := range tiltseries.Map(c) {
		fmt.Fprintf(out, "%4d %10.4f %10.4f %10.4f %6.3f\n", f.Image, f.Position.X, f.Position.Y, f.Position.Z, f.Intensity)
	}
	return nil
}
