package session

import (
	"errors"
	"fmt"

	"github.com/philipparndt/godtr/internal/events"
	"github.com/philipparndt/godtr/pkg/lattice"
	"github.com/philipparndt/godtr/pkg/viewer"
)

// ErrNoLattice is reported by actions that need a lattice model
var ErrNoLattice = errors.New("no lattice model")

var cellActions = []events.Action{events.RefineStep, events.RefineSequence, events.ExtractIntensities}

// Lattice returns the current lattice model, or nil
func (s *Session) Lattice() *lattice.Model {
	return s.overlay.Model()
}

// SetLattice installs a refinement result. A model with a new version
// invalidates every cached reprojection.
func (s *Session) SetLattice(m *lattice.Model) {
	if m == nil {
		s.ClearLattice()
		return
	}
	if old := s.overlay.Model(); old == nil || old.Version != m.Version {
		s.reflections = nil
		s.setEnabled(events.SaveReflections, false)
	}
	s.overlay.SetModel(m)
	s.log.Info("lattice model changed", "version", m.Version)
	s.latticeChanged()
}

// ClearLattice removes the lattice model
func (s *Session) ClearLattice() {
	if s.overlay.Model() == nil {
		return
	}
	s.overlay.SetModel(nil)
	s.reflections = nil
	s.setEnabled(events.SaveReflections, false)
	s.log.Info("lattice model cleared")
	s.latticeChanged()
}

func (s *Session) latticeChanged() {
	s.updateCellActions()
	s.bus.Emit(events.Event{Kind: events.LatticeChanged})
	s.refresh(s.cursor.Index())
	s.bus.RequestRender()
}

func (s *Session) updateCellActions() {
	present := s.overlay.Model() != nil
	for _, a := range cellActions {
		s.setEnabled(a, present)
	}
}

// RefineStep asks the refinement owner for one refinement step. It reports
// false without a lattice model.
func (s *Session) RefineStep() bool {
	return s.request(events.RefineStep, events.RefineStepRequested)
}

// RefineSequence asks the refinement owner for a full refinement sequence
func (s *Session) RefineSequence() bool {
	return s.request(events.RefineSequence, events.RefineSequenceRequested)
}

// ExtractIntensities integrates the measured intensity of every predicted
// reflection over the whole series. Reprojections come from the overlay
// cache and are computed only for images that lack one. The display switches
// to measured mode.
func (s *Session) ExtractIntensities() []lattice.Reflection {
	if s.overlay.Model() == nil {
		s.reportError(fmt.Errorf("cannot extract intensities: %w", ErrNoLattice))
		return nil
	}

	s.reflections = lattice.ExtractIntensities(s.images, s.overlay.Reprojected)
	s.log.Info("intensities extracted", "reflections", len(s.reflections))

	s.view.DisplayMode = viewer.Measured
	s.setEnabled(events.SaveReflections, true)
	s.bus.RequestRender()
	return s.reflections
}

// Reflections returns the last extracted intensities
func (s *Session) Reflections() []lattice.Reflection {
	return s.reflections
}

// SaveReflections writes the extracted intensities to path. Failures are
// reported and returned.
func (s *Session) SaveReflections(path string) error {
	if !s.enabled[events.SaveReflections] {
		err := errors.New("no intensities extracted")
		s.reportError(err)
		return err
	}
	if err := lattice.SaveReflections(s.reflections, path); err != nil {
		s.reportError(err)
		return err
	}
	s.log.Info("reflections saved", "path", path, "count", len(s.reflections))
	return nil
}

// SaveCell writes the unit cell of the current lattice model to path
func (s *Session) SaveCell(path string) error {
	m := s.overlay.Model()
	if m == nil {
		err := fmt.Errorf("cannot save unit cell: %w", ErrNoLattice)
		s.reportError(err)
		return err
	}
	if err := lattice.SaveCell(m.Cell, path); err != nil {
		s.reportError(err)
		return err
	}
	s.log.Info("unit cell saved", "path", path)
	return nil
}

// LoadCell reads a unit cell file and installs it as a new lattice model
func (s *Session) LoadCell(path string) error {
	cell, err := lattice.LoadCell(path)
	if err != nil {
		s.reportError(err)
		return err
	}
	s.SetLattice(lattice.NewModel(cell))
	return nil
}
