// Package lattice describes the crystal lattice refined from a tilt series
// and predicts where its reflections appear on each tilt image.
package lattice

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDegenerateCell is returned for cell parameters that do not span 3D space
var ErrDegenerateCell = errors.New("degenerate unit cell")

// Cell is a unit cell given by its reciprocal basis vectors in nm^-1
type Cell struct {
	AStar r3.Vec
	BStar r3.Vec
	CStar r3.Vec
}

// CellFromParameters builds a cell from real-space lengths (nm) and angles
// (degrees)
func CellFromParameters(a, b, c, alpha, beta, gamma float64) (Cell, error) {
	if a <= 0 || b <= 0 || c <= 0 {
		return Cell{}, fmt.Errorf("%w: lengths must be positive (%v, %v, %v)", ErrDegenerateCell, a, b, c)
	}

	ca, cb, cg := cosd(alpha), cosd(beta), cosd(gamma)
	sg := math.Sin(gamma * math.Pi / 180)
	if math.Abs(sg) < 1e-12 {
		return Cell{}, fmt.Errorf("%w: gamma is %v degrees", ErrDegenerateCell, gamma)
	}

	cy := (ca - cb*cg) / sg
	cz2 := 1 - cb*cb - cy*cy
	if cz2 <= 0 {
		return Cell{}, fmt.Errorf("%w: angles %v, %v, %v", ErrDegenerateCell, alpha, beta, gamma)
	}

	// Rows are the real-space basis vectors
	real := mat.NewDense(3, 3, []float64{
		a, 0, 0,
		b * cg, b * sg, 0,
		c * cb, c * cy, c * math.Sqrt(cz2),
	})

	var inv mat.Dense
	if err := inv.Inverse(real); err != nil {
		return Cell{}, fmt.Errorf("%w: %v", ErrDegenerateCell, err)
	}

	// The reciprocal basis vectors are the columns of the inverse
	column := func(j int) r3.Vec {
		return r3.Vec{X: inv.At(0, j), Y: inv.At(1, j), Z: inv.At(2, j)}
	}
	return Cell{AStar: column(0), BStar: column(1), CStar: column(2)}, nil
}

// Reflection returns the reciprocal lattice vector for Miller indices h, k, l
func (c Cell) Reflection(h, k, l int) r3.Vec {
	return r3.Add(r3.Add(
		r3.Scale(float64(h), c.AStar),
		r3.Scale(float64(k), c.BStar)),
		r3.Scale(float64(l), c.CStar))
}

// Axes returns the reciprocal basis vectors in order
func (c Cell) Axes() []r3.Vec {
	return []r3.Vec{c.AStar, c.BStar, c.CStar}
}

// Volume returns the reciprocal cell volume in nm^-3
func (c Cell) Volume() float64 {
	return math.Abs(r3.Dot(c.AStar, r3.Cross(c.BStar, c.CStar)))
}

func cosd(deg float64) float64 {
	return math.Cos(deg * math.Pi / 180)
}

var lastVersion atomic.Uint64

// Model is one refinement result. Version identifies it: every NewModel call
// yields a new, larger Version, so anything derived from an older model can
// be recognised as stale.
type Model struct {
	Cell    Cell
	Version uint64
}

// NewModel wraps a cell as a new lattice model
func NewModel(cell Cell) *Model {
	return &Model{Cell: cell, Version: lastVersion.Add(1)}
}
