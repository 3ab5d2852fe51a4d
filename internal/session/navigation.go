package session

import (
	"github.com/philipparndt/godtr/internal/overlay"
	"github.com/philipparndt/godtr/pkg/tiltseries"
)

// Index returns the current image index
func (s *Session) Index() int {
	return s.cursor.Index()
}

// Count returns the number of images
func (s *Session) Count() int {
	return s.images.Count()
}

// CurrentImage returns the image under the cursor, or nil for an empty series
func (s *Session) CurrentImage() *tiltseries.Image {
	img, err := s.images.Image(s.cursor.Index())
	if err != nil {
		return nil
	}
	return img
}

func (s *Session) First() bool { return s.cursor.First() }
func (s *Session) Prev() bool  { return s.cursor.Prev() }
func (s *Session) Next() bool  { return s.cursor.Next() }
func (s *Session) Last() bool  { return s.cursor.Last() }

// Goto selects image i, clamped to the series
func (s *Session) Goto(i int) bool {
	return s.cursor.Goto(i)
}

// DrawList returns the overlay of the current image with the emphasis of the
// current display mode
func (s *Session) DrawList() []overlay.Mark {
	return overlay.Filter(s.overlay.Current(), s.view.DisplayMode)
}

// refresh rebuilds the overlay for image index. An empty series has
// nothing to draw and is not an error.
func (s *Session) refresh(index int) {
	if s.images.Count() == 0 {
		return
	}
	if _, err := s.overlay.Refresh(index); err != nil {
		s.reportError(err)
		return
	}
	if img := s.CurrentImage(); img != nil {
		s.log.Debug("image selected", "index", index, "tilt", rad2deg(img.Tilt))
	}
}
