package app

import (
	"image"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/godtr/internal/session"
)

// StackView shows the current tilt image with its overlay
type StackView struct {
	widget.BaseWidget

	session *session.Session
	log     *slog.Logger
	raster  *canvas.Raster

	// decoded pixels of the image shown last
	pixelIndex int
	pixels     image.Image
}

// NewStackView creates the image stack view for s
func NewStackView(s *session.Session, logger *slog.Logger) *StackView {
	v := &StackView{session: s, log: logger, pixelIndex: -1}
	v.raster = canvas.NewRaster(v.draw)
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *StackView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// MinSize keeps the view usable in a split
func (v *StackView) MinSize() fyne.Size {
	return fyne.NewSize(320, 320)
}

// Invalidate forgets the decoded pixels, for example after a reload
func (v *StackView) Invalidate() {
	v.pixelIndex = -1
	v.pixels = nil
}

func (v *StackView) draw(w, h int) image.Image {
	img := v.session.CurrentImage()
	if img == nil {
		return composeStack(stackFrame{}, w, h)
	}

	index := v.session.Index()
	if index != v.pixelIndex {
		pixels, err := v.session.Images().Pixels(index)
		if err != nil {
			v.log.Warn("cannot load tilt image", "index", index, "error", err)
		}
		v.pixelIndex = index
		v.pixels = pixels
	}

	return composeStack(stackFrame{
		Pixels:   v.pixels,
		Marks:    v.session.DrawList(),
		Geometry: v.session.Images().Geometry,
		Tilt:     img.Tilt,
	}, w, h)
}
