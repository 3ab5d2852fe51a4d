package overlay

import (
	"errors"
	"testing"

	"github.com/philipparndt/godtr/pkg/geometry"
	"github.com/philipparndt/godtr/pkg/lattice"
	"github.com/philipparndt/godtr/pkg/tiltseries"
	"github.com/philipparndt/godtr/pkg/viewer"
)

// countingProjection predicts two reflections per image, the first paired
// with measured feature 0
type countingProjection struct {
	calls map[int]int
}

func (p *countingProjection) Project(c *tiltseries.Collection, index int, m *lattice.Model) []tiltseries.Feature {
	p.calls[index]++
	partner := 0
	return []tiltseries.Feature{
		{X: 10, Y: 10, Intensity: 0.5, Partner: &partner},
		{X: 50, Y: 50, Intensity: 1},
	}
}

func series() *tiltseries.Collection {
	return &tiltseries.Collection{Images: []tiltseries.Image{
		{Tilt: 0, Features: []tiltseries.Feature{{X: 12, Y: 11, Intensity: 3}}},
		{Tilt: 0.1},
	}}
}

func newSynchronizer() (*Synchronizer, *countingProjection) {
	p := &countingProjection{calls: map[int]int{}}
	return New(series(), p), p
}

func TestRefreshWithoutModel(t *testing.T) {
	s, p := newSynchronizer()

	marks, err := s.Refresh(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(marks) != 1 || marks[0].Kind != Measured {
		t.Errorf("expected only the measured mark, got %v", marks)
	}
	if p.calls[0] != 0 {
		t.Error("reprojection should not run without a model")
	}
}

func TestRefreshOrdering(t *testing.T) {
	s, _ := newSynchronizer()
	s.SetModel(lattice.NewModel(lattice.Cell{}))

	marks, err := s.Refresh(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Kind{Reprojected, Reprojected, Measured, Correspondence}
	if len(marks) != len(want) {
		t.Fatalf("expected %d marks, got %v", len(want), marks)
	}
	for i, k := range want {
		if marks[i].Kind != k {
			t.Errorf("mark %d is %v, want %v", i, marks[i].Kind, k)
		}
	}

	line := marks[3]
	if line.From != geometry.NewPoint(10, 10) || line.To != geometry.NewPoint(12, 11) {
		t.Errorf("unexpected correspondence %v -> %v", line.From, line.To)
	}
	if marks[0].Intensity != 0.5 {
		t.Errorf("expected intensity 0.5, got %v", marks[0].Intensity)
	}
}

func TestRefreshComputesOncePerVersion(t *testing.T) {
	s, p := newSynchronizer()
	s.SetModel(lattice.NewModel(lattice.Cell{}))

	s.Refresh(0)
	s.Refresh(0)
	s.Refresh(1)
	s.Refresh(0)

	if p.calls[0] != 1 || p.calls[1] != 1 {
		t.Errorf("expected one reprojection per image, got %v", p.calls)
	}
}

func TestNewModelVersionInvalidates(t *testing.T) {
	s, p := newSynchronizer()
	m := lattice.NewModel(lattice.Cell{})
	s.SetModel(m)
	s.Refresh(0)

	s.SetModel(m)
	s.Refresh(0)
	if p.calls[0] != 1 {
		t.Errorf("same model should reuse the cache, got %d calls", p.calls[0])
	}

	s.SetModel(lattice.NewModel(lattice.Cell{}))
	if s.Cached(0) {
		t.Error("cache should be invalid after a new model")
	}
	s.Refresh(0)
	if p.calls[0] != 2 {
		t.Errorf("expected recomputation for the new model, got %d calls", p.calls[0])
	}
}

func TestClearingModelDropsPredictions(t *testing.T) {
	s, _ := newSynchronizer()
	s.SetModel(lattice.NewModel(lattice.Cell{}))
	s.Refresh(0)

	s.SetModel(nil)
	marks, _ := s.Refresh(0)
	for _, m := range marks {
		if m.Kind != Measured {
			t.Errorf("unexpected %v mark without a model", m.Kind)
		}
	}
}

func TestImageWithoutFeatures(t *testing.T) {
	s, _ := newSynchronizer()
	s.SetModel(lattice.NewModel(lattice.Cell{}))

	marks, err := s.Refresh(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Partner 0 does not resolve on an image without measured features
	if len(marks) != 2 {
		t.Errorf("expected 2 predicted marks and no lines, got %v", marks)
	}
}

func TestRefreshInvalidIndex(t *testing.T) {
	s, _ := newSynchronizer()
	s.Refresh(0)

	if _, err := s.Refresh(9); err == nil {
		t.Error("expected error for index out of range")
	}
	if s.Current() != nil {
		t.Error("draw list should be cleared after a failed refresh")
	}

	s.Reset(&tiltseries.Collection{})
	if _, err := s.Refresh(0); !errors.Is(err, tiltseries.ErrNoImages) {
		t.Errorf("expected ErrNoImages, got %v", err)
	}
}

func TestFilterKeepsEntries(t *testing.T) {
	s, p := newSynchronizer()
	s.SetModel(lattice.NewModel(lattice.Cell{}))
	marks, _ := s.Refresh(0)

	mapped := Filter(marks, viewer.Mapped)
	measured := Filter(marks, viewer.Measured)
	if len(mapped) != len(marks) || len(measured) != len(marks) {
		t.Fatal("filter must not add or remove entries")
	}
	for i := range marks {
		if mapped[i].Kind != marks[i].Kind || measured[i].Kind != marks[i].Kind {
			t.Errorf("entry %d changed kind", i)
		}
		isMeasured := marks[i].Kind == Measured
		if mapped[i].Emphasized == isMeasured {
			t.Errorf("mapped mode: entry %d (%v) emphasis %v", i, marks[i].Kind, mapped[i].Emphasized)
		}
		if measured[i].Emphasized != isMeasured {
			t.Errorf("measured mode: entry %d (%v) emphasis %v", i, marks[i].Kind, measured[i].Emphasized)
		}
	}
	if p.calls[0] != 1 {
		t.Errorf("filtering must not recompute, got %d calls", p.calls[0])
	}
}

func TestKindString(t *testing.T) {
	if Reprojected.String() != "circle-1" || Measured.String() != "circle-2" || Correspondence.String() != "line-1" {
		t.Error("unexpected kind names")
	}
}
