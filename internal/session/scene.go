package session

import (
	"github.com/philipparndt/godtr/pkg/tiltseries"
	"github.com/philipparndt/godtr/pkg/viewer"
)

// Scene collects what the reconstruction view draws. Mapped mode shows every
// measured feature placed in reciprocal space; measured mode shows the
// lattice reflections weighted by their extracted intensity.
func (s *Session) Scene() viewer.Scene {
	var scene viewer.Scene

	if m := s.overlay.Model(); m != nil {
		scene.Axes = m.Cell.Axes()
		scene.AxisExtent = s.axisExtent()
	}

	if s.view.DisplayMode == viewer.Measured && s.reflections != nil {
		m := s.overlay.Model()
		var peak float64
		for _, r := range s.reflections {
			peak = max(peak, r.Intensity)
		}
		for _, r := range s.reflections {
			intensity := 1.0
			if peak > 0 {
				intensity = r.Intensity / peak
			}
			scene.Points = append(scene.Points, viewer.ScenePoint{
				Position:  m.Cell.Reflection(r.HKL[0], r.HKL[1], r.HKL[2]),
				Intensity: intensity,
			})
		}
		return scene
	}

	for _, f := range tiltseries.Map(s.images) {
		scene.Points = append(scene.Points, viewer.ScenePoint{Position: f.Position, Intensity: f.Intensity})
	}
	return scene
}

// axisExtent is the largest Miller index among the extracted reflections,
// or a small default before extraction
func (s *Session) axisExtent() int {
	extent := 3
	for _, r := range s.reflections {
		for _, i := range r.HKL {
			extent = max(extent, abs(i))
		}
	}
	return extent
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
