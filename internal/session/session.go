// Package session ties the viewer components together for one open tilt
// series. A Session is owned by a single goroutine; the GUI calls it from
// its event loop only.
package session

import (
	"log/slog"

	"github.com/philipparndt/godtr/internal/events"
	"github.com/philipparndt/godtr/internal/input"
	"github.com/philipparndt/godtr/internal/logging"
	"github.com/philipparndt/godtr/internal/overlay"
	"github.com/philipparndt/godtr/internal/stack"
	"github.com/philipparndt/godtr/pkg/geometry"
	"github.com/philipparndt/godtr/pkg/lattice"
	"github.com/philipparndt/godtr/pkg/tiltseries"
	"github.com/philipparndt/godtr/pkg/viewer"
)

// DefaultAxisStep is the tilt axis increment in degrees
const DefaultAxisStep = 0.2

// Options configure a session. Zero values select the defaults.
type Options struct {
	Reprojection overlay.Reprojection
	AxisStep     float64 // degrees
	Bus          *events.Bus
	Logger       *slog.Logger
}

// Session is the state of one viewer window
type Session struct {
	images   *tiltseries.Collection
	view     *viewer.ViewState
	bus      *events.Bus
	log      *slog.Logger
	input    *input.Resolver
	cursor   *stack.Cursor
	overlay  *overlay.Synchronizer
	axisStep float64

	reflections    []lattice.Reflection
	indexerRunning bool
	enabled        map[events.Action]bool

	surface Surface
	closed  bool
}

// New opens a session on images, showing the first image
func New(images *tiltseries.Collection, opts Options) *Session {
	if images == nil {
		images = &tiltseries.Collection{}
	}
	bus := opts.Bus
	if bus == nil {
		bus = events.NewBus()
	}
	step := opts.AxisStep
	if step <= 0 {
		step = DefaultAxisStep
	}

	s := &Session{
		images:   images,
		view:     viewer.NewViewState(),
		bus:      bus,
		log:      logging.OrDefault(opts.Logger),
		axisStep: step,
		enabled:  make(map[events.Action]bool),
	}
	s.input = input.NewResolver(s.view, bus)
	s.overlay = overlay.New(images, opts.Reprojection)
	s.cursor = stack.New(images, bus, s.refresh)

	s.updateCellActions()
	s.updateIndexerActions()
	s.setEnabled(events.SaveReflections, false)
	s.refresh(s.cursor.Index())
	return s
}

// Bus returns the event bus the session publishes on
func (s *Session) Bus() *events.Bus {
	return s.bus
}

// View returns the reconstruction camera
func (s *Session) View() *viewer.ViewState {
	return s.view
}

// Images returns the open tilt series
func (s *Session) Images() *tiltseries.Collection {
	return s.images
}

// Enabled reports whether an action is currently available
func (s *Session) Enabled(a events.Action) bool {
	switch a {
	case events.First, events.Prev, events.Next, events.Last:
		return s.cursor.Enabled(a)
	default:
		return s.enabled[a]
	}
}

func (s *Session) setEnabled(a events.Action, enabled bool) {
	if old, known := s.enabled[a]; known && old == enabled {
		return
	}
	s.enabled[a] = enabled
	s.bus.SetEnabled(a, enabled)
}

// Reload replaces the tilt series, for example after the session file was
// rewritten. Cached reprojections are dropped and the cursor is clamped.
func (s *Session) Reload(images *tiltseries.Collection) {
	if images == nil {
		images = &tiltseries.Collection{}
	}
	index := s.cursor.Index()
	s.images = images
	s.overlay.Reset(images)
	s.cursor = stack.New(images, s.bus, s.refresh)
	s.reflections = nil
	s.setEnabled(events.SaveReflections, false)
	s.log.Info("tilt series reloaded", "name", images.Name, "images", images.Count())
	if !s.cursor.Goto(index) {
		s.refresh(s.cursor.Index())
		s.bus.RequestRender()
	}
}

// Press starts a drag on the reconstruction view
func (s *Session) Press(pos geometry.Point) {
	s.input.Press(pos)
}

// Move continues a drag on a width x height reconstruction view
func (s *Session) Move(pos geometry.Point, mods input.Modifiers, width, height float64) {
	s.input.Move(pos, mods, width, height)
}

// Release ends a drag
func (s *Session) Release() {
	s.input.Release()
}

// Dragging reports whether a drag is in progress
func (s *Session) Dragging() bool {
	return s.input.State() == input.Dragging
}
