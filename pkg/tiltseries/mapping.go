package tiltseries

import (
	"math"

	"github.com/philipparndt/godtr/pkg/geometry"
	"gonum.org/v1/gonum/spatial/r3"
)

// MappedFeature is a measured feature placed in reciprocal space
type MappedFeature struct {
	Position  r3.Vec
	Intensity float64
	Image     int
}

// Axis returns the tilt axis as a unit vector in the detector plane
func (g Geometry) Axis() r3.Vec {
	return r3.Vec{X: math.Cos(g.Omega), Y: math.Sin(g.Omega)}
}

// Reciprocal maps a detector position on an image tilted by tilt radians
// into reciprocal space
func (g Geometry) Reciprocal(p geometry.Point, tilt float64) r3.Vec {
	d := p.Sub(g.Centre).Mul(g.PixelScale)
	return r3.Rotate(r3.Vec{X: d.X, Y: d.Y}, -tilt, g.Axis())
}

// Detector maps a reciprocal space vector onto an image tilted by tilt
// radians. The returned excitation is the distance of the vector from the
// image plane in nm^-1.
func (g Geometry) Detector(v r3.Vec, tilt float64) (p geometry.Point, excitation float64) {
	d := r3.Rotate(v, tilt, g.Axis())
	p = geometry.NewPoint(d.X, d.Y).Mul(1 / g.PixelScale).Add(g.Centre)
	return p, d.Z
}

// AdjustAxis rotates the tilt axis by delta radians
func (g *Geometry) AdjustAxis(delta float64) {
	g.Omega += delta
}

// Map places every measured feature of the series in reciprocal space.
// Intensities are normalised to the brightest feature.
func Map(c *Collection) []MappedFeature {
	var peak float64
	for _, img := range c.Images {
		for _, f := range img.Features {
			peak = math.Max(peak, f.Intensity)
		}
	}

	mapped := make([]MappedFeature, 0, c.FeatureCount())
	for i, img := range c.Images {
		for _, f := range img.Features {
			intensity := 1.0
			if peak > 0 {
				intensity = f.Intensity / peak
			}
			mapped = append(mapped, MappedFeature{
				Position:  c.Geometry.Reciprocal(f.Position(), img.Tilt),
				Intensity: intensity,
				Image:     i,
			})
		}
	}
	return mapped
}
