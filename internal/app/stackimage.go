package app

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/philipparndt/godtr/internal/overlay"
	"github.com/philipparndt/godtr/pkg/geometry"
	"github.com/philipparndt/godtr/pkg/tiltseries"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// stackFrame is everything the image stack view draws for one tilt image
type stackFrame struct {
	Pixels   image.Image // may be nil
	Marks    []overlay.Mark
	Geometry tiltseries.Geometry
	Tilt     float64 // radians
}

var (
	reprojectedColor    = color.RGBA{240, 70, 70, 255}
	measuredColor       = color.RGBA{80, 220, 80, 255}
	correspondenceColor = color.RGBA{250, 220, 60, 255}
	axisLineColor       = color.RGBA{80, 200, 230, 255}
	labelColor          = color.RGBA{255, 255, 255, 255}
)

// frameBounds is the image area in source pixels. Without pixel data the
// beam centre is taken as the middle of the image.
func (f stackFrame) frameBounds() image.Rectangle {
	if f.Pixels != nil {
		return f.Pixels.Bounds()
	}
	w := max(1, int(math.Round(2*f.Geometry.Centre.X)))
	h := max(1, int(math.Round(2*f.Geometry.Centre.Y)))
	return image.Rect(0, 0, w, h)
}

// stackTransform maps source pixels into a view, keeping the aspect ratio
type stackTransform struct {
	scale  float64
	offset geometry.Point
	src    image.Rectangle
}

func newStackTransform(src image.Rectangle, width, height int) stackTransform {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	scale := math.Min(float64(width)/sw, float64(height)/sh)
	return stackTransform{
		scale: scale,
		offset: geometry.NewPoint(
			(float64(width)-sw*scale)/2,
			(float64(height)-sh*scale)/2),
		src: src,
	}
}

func (t stackTransform) apply(p geometry.Point) geometry.Point {
	return geometry.NewPoint(
		(p.X-float64(t.src.Min.X))*t.scale+t.offset.X,
		(p.Y-float64(t.src.Min.Y))*t.scale+t.offset.Y)
}

func (t stackTransform) destRect() image.Rectangle {
	return image.Rect(
		int(math.Round(t.offset.X)),
		int(math.Round(t.offset.Y)),
		int(math.Round(t.offset.X+float64(t.src.Dx())*t.scale)),
		int(math.Round(t.offset.Y+float64(t.src.Dy())*t.scale)))
}

// composeStack draws a tilt image with its overlay into a width x height
// image
func composeStack(f stackFrame, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	if width <= 0 || height <= 0 {
		return dst
	}
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)

	t := newStackTransform(f.frameBounds(), width, height)
	if f.Pixels != nil {
		draw.ApproxBiLinear.Scale(dst, t.destRect(), f.Pixels, f.Pixels.Bounds(), draw.Src, nil)
	}

	drawAxis(dst, t, f.Geometry)

	for _, m := range f.Marks {
		from := t.apply(m.From)
		switch m.Kind {
		case overlay.Reprojected:
			radius := 3 + 4*math.Max(0, math.Min(1, m.Intensity))
			drawCircle(dst, from, radius, shade(reprojectedColor, m.Emphasized))
		case overlay.Measured:
			drawCircle(dst, from, 3, shade(measuredColor, m.Emphasized))
		case overlay.Correspondence:
			drawLine(dst, from, t.apply(m.To), shade(correspondenceColor, m.Emphasized))
		}
	}

	drawScaleBar(dst, t, f.Geometry)
	drawLabel(dst, 6, 16, fmt.Sprintf("tilt %.2f deg", f.Tilt*180/math.Pi))
	return dst
}

// shade dims marks the display mode does not emphasise
func shade(c color.RGBA, emphasized bool) color.RGBA {
	if emphasized {
		return c
	}
	return color.RGBA{c.R / 3, c.G / 3, c.B / 3, 255}
}

// drawAxis draws the tilt axis through the beam centre and a small cross on
// the centre itself
func drawAxis(dst *image.RGBA, t stackTransform, g tiltseries.Geometry) {
	centre := t.apply(g.Centre)
	reach := float64(dst.Bounds().Dx() + dst.Bounds().Dy())
	dir := geometry.NewPoint(math.Cos(g.Omega), math.Sin(g.Omega))
	drawLine(dst, centre.Sub(dir.Mul(reach)), centre.Add(dir.Mul(reach)), axisLineColor)

	drawLine(dst, centre.Add(geometry.NewPoint(-6, 0)), centre.Add(geometry.NewPoint(6, 0)), labelColor)
	drawLine(dst, centre.Add(geometry.NewPoint(0, -6)), centre.Add(geometry.NewPoint(0, 6)), labelColor)
}

// drawScaleBar draws a bar of 1 nm^-1 in the lower left corner
func drawScaleBar(dst *image.RGBA, t stackTransform, g tiltseries.Geometry) {
	if g.PixelScale <= 0 {
		return
	}
	length := t.scale / g.PixelScale
	if length < 2 || length > float64(dst.Bounds().Dx())-20 {
		return
	}
	y := float64(dst.Bounds().Dy() - 12)
	from := geometry.NewPoint(10, y)
	drawLine(dst, from, from.Add(geometry.NewPoint(length, 0)), labelColor)
	drawLabel(dst, 10, int(y)-4, "1/nm")
}

func drawLabel(dst *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// drawLine draws a line with Bresenham's algorithm, clipped to dst
func drawLine(dst *image.RGBA, from, to geometry.Point, c color.RGBA) {
	if !finite(from) || !finite(to) {
		return
	}
	// Bound the number of steps for lines running far outside dst
	limit := float64(4 * (dst.Bounds().Dx() + dst.Bounds().Dy() + 1))
	if d := from.Distance(to); d > limit {
		mid := from.Add(to).Mul(0.5)
		dir := to.Sub(from).Mul(1 / d)
		from = mid.Sub(dir.Mul(limit / 2))
		to = mid.Add(dir.Mul(limit / 2))
	}

	x0, y0 := int(math.Round(from.X)), int(math.Round(from.Y))
	x1, y1 := int(math.Round(to.X)), int(math.Round(to.Y))
	dx, dy := iabs(x1-x0), -iabs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	bounds := dst.Bounds()
	for {
		if (image.Point{X: x0, Y: y0}).In(bounds) {
			dst.SetRGBA(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// drawCircle draws the outline of a circle
func drawCircle(dst *image.RGBA, centre geometry.Point, radius float64, c color.RGBA) {
	if !finite(centre) {
		return
	}
	steps := max(12, int(2*math.Pi*radius))
	prev := centre.Add(geometry.NewPoint(radius, 0))
	for i := 1; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		next := centre.Add(geometry.NewPoint(radius*math.Cos(a), radius*math.Sin(a)))
		drawLine(dst, prev, next, c)
		prev = next
	}
}

func finite(p geometry.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
