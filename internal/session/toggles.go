package session

import "github.com/philipparndt/godtr/pkg/viewer"

// ToggleProjection switches between orthographic and perspective projection
func (s *Session) ToggleProjection() {
	s.view.ToggleProjection()
	s.bus.RequestRender()
}

// SetProjection selects a projection mode
func (s *Session) SetProjection(p viewer.Projection) {
	s.view.SetProjection(p)
	s.bus.RequestRender()
}

// ToggleDisplayMode switches between mapped and measured features. The
// overlay is restyled, never recomputed.
func (s *Session) ToggleDisplayMode() {
	s.view.ToggleDisplayMode()
	s.bus.RequestRender()
}

// SetDisplayMode selects a display mode
func (s *Session) SetDisplayMode(m viewer.DisplayMode) {
	s.view.DisplayMode = m
	s.bus.RequestRender()
}

// ShowCube shows or hides the reference cube
func (s *Session) ShowCube(show bool) {
	s.view.Visibility.Cube = show
	s.bus.RequestRender()
}

// ShowLines shows or hides the indexing lines
func (s *Session) ShowLines(show bool) {
	s.view.Visibility.Lines = show
	s.bus.RequestRender()
}

// ShowBackground switches between the coloured and the black background
func (s *Session) ShowBackground(show bool) {
	s.view.Visibility.Background = show
	s.bus.RequestRender()
}

// Zoom moves the camera by delta, for example from a scroll wheel
func (s *Session) Zoom(delta float64) {
	s.view.Zoom(delta)
	s.bus.RequestRender()
}
