// Package trackball implements the classic virtual trackball: two pointer
// samples on a viewport are lifted onto a sphere blended with a hyperbolic
// sheet and the rotation carrying one onto the other is returned as a unit
// quaternion.
package trackball

import (
	"math"

	"github.com/philipparndt/godtr/pkg/geometry"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Size is the trackball radius in normalised viewport units
const Size = 0.8

// Identity is the rotation that leaves every orientation unchanged
var Identity = quat.Number{Real: 1}

// Rotate returns the incremental rotation for a pointer moving from p0 to p1.
// Both points are normalised to [-1, 1] over the viewport (see
// geometry.Point.Normalized). Equal points yield Identity exactly.
func Rotate(p0, p1 geometry.Point) quat.Number {
	if p0 == p1 {
		return Identity
	}

	a := r3.Vec{X: p0.X, Y: p0.Y, Z: projectToSphere(Size, p0.X, p0.Y)}
	b := r3.Vec{X: p1.X, Y: p1.Y, Z: projectToSphere(Size, p1.X, p1.Y)}

	axis := r3.Cross(b, a)
	if r3.Norm(axis) == 0 {
		return Identity
	}

	t := r3.Norm(r3.Sub(a, b)) / (2.0 * Size)
	t = math.Max(-1, math.Min(1, t))
	phi := 2.0 * math.Asin(t)

	return FromAxisAngle(axis, phi)
}

// FromAxisAngle builds the unit quaternion rotating by phi radians about axis.
// A zero axis yields Identity.
func FromAxisAngle(axis r3.Vec, phi float64) quat.Number {
	if r3.Norm(axis) == 0 {
		return Identity
	}
	u := r3.Unit(axis)
	s := math.Sin(phi / 2)
	return quat.Number{
		Real: math.Cos(phi / 2),
		Imag: u.X * s,
		Jmag: u.Y * s,
		Kmag: u.Z * s,
	}
}

// Compose applies delta on top of orientation and renormalises the result.
// The product follows the trackball's add_quats convention, the Hamilton
// product orientation*delta.
func Compose(delta, orientation quat.Number) quat.Number {
	return Normalize(quat.Mul(orientation, delta))
}

// Normalize scales q to unit length. The zero quaternion maps to Identity.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Identity
	}
	return quat.Scale(1/n, q)
}

// projectToSphere lifts (x, y) onto a sphere of radius r, or onto a
// hyperbolic sheet once the point is far enough from the centre that the
// sphere would be too steep
func projectToSphere(r, x, y float64) float64 {
	d := math.Hypot(x, y)
	if d < r*math.Sqrt2/2 {
		return math.Sqrt(r*r - d*d)
	}
	t := r / math.Sqrt2
	return t * t / d
}
