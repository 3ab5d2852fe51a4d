package app

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/godtr/internal/input"
	"github.com/philipparndt/godtr/internal/session"
	"github.com/philipparndt/godtr/pkg/geometry"
	"github.com/philipparndt/godtr/pkg/viewer"
)

// scrollZoomFactor converts scroll wheel steps into camera distance
const scrollZoomFactor = 0.5

// ReconstructionView shows the reciprocal space reconstruction and turns
// drags into camera moves: plain drags orbit, Shift pans, Control zooms
type ReconstructionView struct {
	widget.BaseWidget

	session  *session.Session
	renderer *viewer.Renderer
	raster   *canvas.Raster
}

var (
	_ desktop.Mouseable = (*ReconstructionView)(nil)
	_ desktop.Hoverable = (*ReconstructionView)(nil)
	_ fyne.Scrollable   = (*ReconstructionView)(nil)
)

// NewReconstructionView creates the view for s
func NewReconstructionView(s *session.Session) *ReconstructionView {
	v := &ReconstructionView{
		session:  s,
		renderer: viewer.NewRenderer(),
	}
	v.raster = canvas.NewRaster(v.draw)
	v.ExtendBaseWidget(v)
	return v
}

func (v *ReconstructionView) draw(w, h int) image.Image {
	return v.renderer.Render(v.session.Scene(), v.session.View(), w, h)
}

// CreateRenderer implements fyne.Widget
func (v *ReconstructionView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// MinSize keeps the view usable in a split
func (v *ReconstructionView) MinSize() fyne.Size {
	return fyne.NewSize(320, 320)
}

// Release implements session.Surface
func (v *ReconstructionView) Release() {
	v.raster.Generator = func(w, h int) image.Image {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}
}

func (v *ReconstructionView) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	v.session.Press(point(e.Position))
}

func (v *ReconstructionView) MouseUp(*desktop.MouseEvent) {
	v.session.Release()
}

func (v *ReconstructionView) MouseIn(*desktop.MouseEvent) {}

func (v *ReconstructionView) MouseMoved(e *desktop.MouseEvent) {
	if !v.session.Dragging() {
		return
	}
	size := v.Size()
	v.session.Move(point(e.Position), modifiers(e.Modifier), float64(size.Width), float64(size.Height))
}

// MouseOut ends a drag that leaves the view
func (v *ReconstructionView) MouseOut() {
	v.session.Release()
}

func (v *ReconstructionView) Scrolled(e *fyne.ScrollEvent) {
	v.session.Zoom(-float64(e.Scrolled.DY) * scrollZoomFactor)
}

func point(p fyne.Position) geometry.Point {
	return geometry.NewPoint(float64(p.X), float64(p.Y))
}

func modifiers(m fyne.KeyModifier) input.Modifiers {
	var mods input.Modifiers
	if m&fyne.KeyModifierControl != 0 {
		mods |= input.Control
	}
	if m&fyne.KeyModifierShift != 0 {
		mods |= input.Shift
	}
	return mods
}
