// Package input turns pointer drags into camera manipulations
package input

import (
	"github.com/philipparndt/godtr/internal/events"
	"github.com/philipparndt/godtr/pkg/geometry"
	"github.com/philipparndt/godtr/pkg/trackball"
	"github.com/philipparndt/godtr/pkg/viewer"
)

// Modifiers are the modifier keys held during a pointer event
type Modifiers uint8

const (
	Shift Modifiers = 1 << iota
	Control
)

// Mode is the camera manipulation a move event resolves to
type Mode int

const (
	Orbit Mode = iota
	Pan
	Zoom
)

func (m Mode) String() string {
	switch m {
	case Orbit:
		return "orbit"
	case Pan:
		return "pan"
	case Zoom:
		return "zoom"
	default:
		return "unknown"
	}
}

// Classify resolves the manipulation for one event. Control takes
// precedence over Shift.
func Classify(mods Modifiers) Mode {
	switch {
	case mods&Control != 0:
		return Zoom
	case mods&Shift != 0:
		return Pan
	default:
		return Orbit
	}
}

// State of the drag gesture
type State int

const (
	Idle State = iota
	Dragging
)

// Resolver tracks a drag gesture and applies each move to the view.
//
// Every move is classified on its own modifiers and measured against the
// previous sample, not the press position, so a gesture may change from zoom
// to orbit halfway through.
type Resolver struct {
	view   *viewer.ViewState
	bus    *events.Bus
	state  State
	anchor geometry.Point
}

// NewResolver creates a resolver driving view. Render requests go to bus.
func NewResolver(view *viewer.ViewState, bus *events.Bus) *Resolver {
	return &Resolver{view: view, bus: bus}
}

// State returns the gesture state
func (r *Resolver) State() State {
	return r.state
}

// Anchor returns the position the next move is measured against
func (r *Resolver) Anchor() geometry.Point {
	return r.anchor
}

// Press starts a drag at pos
func (r *Resolver) Press(pos geometry.Point) {
	r.state = Dragging
	r.anchor = pos
}

// Move applies one pointer sample of a drag over a width x height viewport.
// It reports the resolved mode, and false when no drag is in progress.
func (r *Resolver) Move(pos geometry.Point, mods Modifiers, width, height float64) (Mode, bool) {
	if r.state != Dragging {
		return Orbit, false
	}

	mode := Classify(mods)
	switch mode {
	case Zoom:
		r.view.Zoom(pos.Y - r.anchor.Y)
	case Pan:
		d := pos.Sub(r.anchor)
		r.view.PanBy(d.X, d.Y)
	case Orbit:
		if width > 0 && height > 0 {
			delta := trackball.Rotate(
				r.anchor.Normalized(width, height),
				pos.Normalized(width, height))
			r.view.Orbit(delta)
		}
	}

	r.anchor = pos
	r.bus.RequestRender()
	return mode, true
}

// Release ends the drag
func (r *Resolver) Release() {
	r.state = Idle
}
