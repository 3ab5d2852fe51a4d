package session

// Surface is a drawing surface holding resources that must be released
// with it
type Surface interface {
	Release()
}

// AttachSurface makes surf the drawing surface, releasing the previous one
func (s *Session) AttachSurface(surf Surface) {
	if s.closed {
		if surf != nil {
			surf.Release()
		}
		return
	}
	s.releaseSurface()
	s.surface = surf
	s.bus.RequestRender()
}

// Surface returns the attached drawing surface, or nil
func (s *Session) Surface() Surface {
	return s.surface
}

// SurfaceLost releases the drawing surface after its context was lost. The
// session stays open and a new surface may be attached.
func (s *Session) SurfaceLost() {
	s.log.Warn("drawing surface lost")
	s.releaseSurface()
}

// Close releases everything the session holds. It is safe to call more
// than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.releaseSurface()
	s.overlay.Invalidate()
}

// Closed reports whether Close was called
func (s *Session) Closed() bool {
	return s.closed
}

func (s *Session) releaseSurface() {
	if s.surface == nil {
		return
	}
	surf := s.surface
	s.surface = nil
	surf.Release()
}
