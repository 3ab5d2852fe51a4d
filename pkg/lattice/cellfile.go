package lattice

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// cellFile is the on-disk unit cell. Either the real-space parameters or
// the reciprocal basis may be given; the reciprocal basis wins when both are.
type cellFile struct {
	Parameters *parametersFile `yaml:"parameters,omitempty"`
	Reciprocal *reciprocalFile `yaml:"reciprocal,omitempty"`
}

type parametersFile struct {
	A     float64 `yaml:"a"`
	B     float64 `yaml:"b"`
	C     float64 `yaml:"c"`
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
	Gamma float64 `yaml:"gamma"`
}

type reciprocalFile struct {
	AStar [3]float64 `yaml:"aStar,flow"`
	BStar [3]float64 `yaml:"bStar,flow"`
	CStar [3]float64 `yaml:"cStar,flow"`
}

// LoadCell reads a unit cell file
func LoadCell(path string) (Cell, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Cell{}, fmt.Errorf("error reading cell file: %w", err)
	}

	var cf cellFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return Cell{}, fmt.Errorf("error parsing cell file: %w", err)
	}

	switch {
	case cf.Reciprocal != nil:
		cell := Cell{
			AStar: vec(cf.Reciprocal.AStar),
			BStar: vec(cf.Reciprocal.BStar),
			CStar: vec(cf.Reciprocal.CStar),
		}
		if cell.Volume() == 0 {
			return Cell{}, fmt.Errorf("%w: reciprocal basis is coplanar", ErrDegenerateCell)
		}
		return cell, nil
	case cf.Parameters != nil:
		p := cf.Parameters
		return CellFromParameters(p.A, p.B, p.C, p.Alpha, p.Beta, p.Gamma)
	default:
		return Cell{}, fmt.Errorf("cell file %s has neither parameters nor reciprocal basis", path)
	}
}

// SaveCell writes the reciprocal basis of cell to path
func SaveCell(cell Cell, path string) error {
	cf := cellFile{Reciprocal: &reciprocalFile{
		AStar: arr(cell.AStar),
		BStar: arr(cell.BStar),
		CStar: arr(cell.CStar),
	}}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating cell directory: %w", err)
	}

	data, err := yaml.Marshal(&cf)
	if err != nil {
		return fmt.Errorf("error marshaling cell: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing cell file: %w", err)
	}
	return nil
}

func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

func arr(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
