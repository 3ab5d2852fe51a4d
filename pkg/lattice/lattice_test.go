package lattice

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/godtr/pkg/geometry"
	"github.com/philipparndt/godtr/pkg/tiltseries"
	"gonum.org/v1/gonum/spatial/r3"
)

const epsilon = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func nearVec(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < epsilon
}

func TestCellFromParametersCubic(t *testing.T) {
	cell, err := CellFromParameters(2, 2, 2, 90, 90, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !nearVec(cell.AStar, r3.Vec{X: 0.5}) {
		t.Errorf("a* = %v, want (0.5, 0, 0)", cell.AStar)
	}
	if !nearVec(cell.BStar, r3.Vec{Y: 0.5}) {
		t.Errorf("b* = %v, want (0, 0.5, 0)", cell.BStar)
	}
	if !nearVec(cell.CStar, r3.Vec{Z: 0.5}) {
		t.Errorf("c* = %v, want (0, 0, 0.5)", cell.CStar)
	}
	if !near(cell.Volume(), 0.125) {
		t.Errorf("volume = %v, want 0.125", cell.Volume())
	}
}

func TestCellFromParametersMonoclinic(t *testing.T) {
	cell, err := CellFromParameters(1, 2, 3, 90, 100, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Reciprocal and real bases are dual: a.a* = 1, a.b* = 0 ...
	real := []r3.Vec{
		{X: 1},
		{Y: 2},
		{X: 3 * math.Cos(100*math.Pi/180), Z: 3 * math.Sin(100*math.Pi/180)},
	}
	for i, r := range real {
		for j, s := range cell.Axes() {
			want := 0.0
			if i == j {
				want = 1
			}
			if got := r3.Dot(r, s); !near(got, want) {
				t.Errorf("real[%d].recip[%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestCellFromParametersRejectsDegenerate(t *testing.T) {
	cases := []struct {
		name                         string
		a, b, c, alpha, beta, gamma float64
	}{
		{"zero length", 0, 1, 1, 90, 90, 90},
		{"negative length", 1, -1, 1, 90, 90, 90},
		{"flat gamma", 1, 1, 1, 90, 90, 180},
		{"impossible angles", 1, 1, 1, 10, 170, 90},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CellFromParameters(tc.a, tc.b, tc.c, tc.alpha, tc.beta, tc.gamma)
			if !errors.Is(err, ErrDegenerateCell) {
				t.Errorf("expected ErrDegenerateCell, got %v", err)
			}
		})
	}
}

func TestReflection(t *testing.T) {
	cell := Cell{AStar: r3.Vec{X: 1}, BStar: r3.Vec{Y: 2}, CStar: r3.Vec{Z: 3}}
	got := cell.Reflection(1, -1, 2)
	if !nearVec(got, r3.Vec{X: 1, Y: -2, Z: 6}) {
		t.Errorf("Reflection(1,-1,2) = %v", got)
	}
}

func TestNewModelVersionsIncrease(t *testing.T) {
	a := NewModel(Cell{})
	b := NewModel(Cell{})
	if b.Version <= a.Version {
		t.Errorf("versions not increasing: %d then %d", a.Version, b.Version)
	}
}

func TestSaveAndLoadCell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cells", "cell.yaml")
	cell := Cell{AStar: r3.Vec{X: 0.5}, BStar: r3.Vec{X: 0.1, Y: 0.4}, CStar: r3.Vec{Z: 0.25}}

	if err := SaveCell(cell, path); err != nil {
		t.Fatalf("SaveCell failed: %v", err)
	}
	loaded, err := LoadCell(path)
	if err != nil {
		t.Fatalf("LoadCell failed: %v", err)
	}
	if loaded != cell {
		t.Errorf("loaded %v, want %v", loaded, cell)
	}
}

func TestLoadCellParameters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cell.yaml")
	data := "parameters: {a: 4, b: 4, c: 4, alpha: 90, beta: 90, gamma: 90}\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cell, err := LoadCell(path)
	if err != nil {
		t.Fatalf("LoadCell failed: %v", err)
	}
	if !nearVec(cell.AStar, r3.Vec{X: 0.25}) {
		t.Errorf("a* = %v, want (0.25, 0, 0)", cell.AStar)
	}
}

func TestLoadCellErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	if _, err := LoadCell(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadCell(write("empty.yaml", "name: nothing\n")); err == nil {
		t.Error("expected error for file without cell")
	}
	flat := "reciprocal: {aStar: [1, 0, 0], bStar: [0, 1, 0], cStar: [1, 1, 0]}\n"
	if _, err := LoadCell(write("flat.yaml", flat)); !errors.Is(err, ErrDegenerateCell) {
		t.Errorf("expected ErrDegenerateCell, got %v", err)
	}
}

// squareSeries has one untilted image on which the lattice plane l = 0
// of a unit cubic cell lands on a 10 pixel grid around (100, 100)
func squareSeries(features []tiltseries.Feature) *tiltseries.Collection {
	return &tiltseries.Collection{
		Geometry: tiltseries.Geometry{Centre: geometry.NewPoint(100, 100), PixelScale: 0.1},
		Images:   []tiltseries.Image{{Tilt: 0, Features: features}},
	}
}

func unitModel() *Model {
	return NewModel(Cell{AStar: r3.Vec{X: 1}, BStar: r3.Vec{Y: 1}, CStar: r3.Vec{Z: 1}})
}

func TestProjectPairsMeasuredFeature(t *testing.T) {
	c := squareSeries([]tiltseries.Feature{
		{X: 300, Y: 300, Intensity: 5},
		{X: 111, Y: 100.5, Intensity: 7},
	})
	r := NewReprojector(0.05, 3, 1)

	got := r.Project(c, 0, unitModel())
	if len(got) != 8 {
		t.Fatalf("expected 8 excited reflections, got %d", len(got))
	}

	paired := 0
	for _, f := range got {
		if f.HKL[2] != 0 {
			t.Errorf("reflection %v is off the image plane", f.HKL)
		}
		wantX := 100 + 10*float64(f.HKL[0])
		wantY := 100 + 10*float64(f.HKL[1])
		if !near(f.X, wantX) || !near(f.Y, wantY) {
			t.Errorf("reflection %v at (%v, %v), want (%v, %v)", f.HKL, f.X, f.Y, wantX, wantY)
		}
		if !near(f.Intensity, 1) {
			t.Errorf("reflection %v intensity = %v, want 1", f.HKL, f.Intensity)
		}
		if f.Partner != nil {
			paired++
			if f.HKL != [3]int{1, 0, 0} || *f.Partner != 1 {
				t.Errorf("unexpected pairing %v -> %d", f.HKL, *f.Partner)
			}
		}
	}
	if paired != 1 {
		t.Errorf("expected exactly one paired reflection, got %d", paired)
	}
}

func TestProjectExcitationFallsOff(t *testing.T) {
	c := squareSeries(nil)
	// Tilting by a small angle about x lifts k off the image plane
	c.Images[0].Tilt = 0.02
	r := NewReprojector(0.05, 3, 1)

	for _, f := range r.Project(c, 0, unitModel()) {
		if f.HKL[1] == 0 && f.HKL[2] == 0 && !near(f.Intensity, 1) {
			t.Errorf("reflection %v on the axis should be fully excited, got %v", f.HKL, f.Intensity)
		}
		if f.HKL[1] != 0 && f.Intensity >= 1 {
			t.Errorf("reflection %v off the axis should be partly excited, got %v", f.HKL, f.Intensity)
		}
		if f.Intensity < 0 || f.Intensity > 1 {
			t.Errorf("reflection %v intensity %v out of range", f.HKL, f.Intensity)
		}
		if f.Partner != nil {
			t.Errorf("no measured features, but %v has a partner", f.HKL)
		}
	}
}

func TestProjectInvalidInputs(t *testing.T) {
	c := squareSeries(nil)
	r := NewReprojector(0.05, 3, 1)

	if got := r.Project(c, 0, nil); got != nil {
		t.Errorf("nil model should give nil, got %v", got)
	}
	if got := r.Project(c, 5, unitModel()); got != nil {
		t.Errorf("bad index should give nil, got %v", got)
	}
}

func TestExtractAndSaveReflections(t *testing.T) {
	c := squareSeries([]tiltseries.Feature{
		{X: 110, Y: 100, Intensity: 7},
		{X: 90, Y: 100, Intensity: 3},
	})
	c.Images = append(c.Images, c.Images[0])
	r := NewReprojector(0.05, 3, 1)
	model := unitModel()

	reflections := ExtractIntensities(c, func(i int) []tiltseries.Feature {
		return r.Project(c, i, model)
	})
	if len(reflections) != 2 {
		t.Fatalf("expected 2 reflections, got %v", reflections)
	}
	if reflections[0].HKL != [3]int{-1, 0, 0} || reflections[0].Intensity != 6 || reflections[0].Observations != 2 {
		t.Errorf("first reflection = %+v", reflections[0])
	}
	if reflections[1].HKL != [3]int{1, 0, 0} || reflections[1].Intensity != 14 {
		t.Errorf("second reflection = %+v", reflections[1])
	}

	path := filepath.Join(t.TempDir(), "out.hkl")
	if err := SaveReflections(reflections, path); err != nil {
		t.Fatalf("SaveReflections failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", data)
	}
	if fields := strings.Fields(lines[1]); strings.Join(fields, " ") != "1 0 0 14.000" {
		t.Errorf("unexpected line %q", lines[1])
	}
}

func TestSaveReflectionsUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.hkl")
	if err := SaveReflections(nil, path); err == nil {
		t.Error("expected error for missing directory")
	}
}
