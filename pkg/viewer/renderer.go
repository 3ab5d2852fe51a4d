package viewer

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// CubeSize is the edge length of the reference cube in nm^-1
const CubeSize = 100.0

// ScenePoint is a reflection in reciprocal space
type ScenePoint struct {
	Position  r3.Vec
	Intensity float64 // 0..1
}

// Scene is everything the reconstruction view draws
type Scene struct {
	Points []ScenePoint
	// Axes are the reciprocal basis vectors of the current lattice model, if any
	Axes []r3.Vec
	// AxisExtent is how many basis steps the indexing lines run each way
	AxisExtent int
}

// Renderer rasterises a Scene through a ViewState into an image
type Renderer struct {
	PointSize float64
}

// NewRenderer creates a renderer with the default point size
func NewRenderer() *Renderer {
	return &Renderer{PointSize: 3}
}

var (
	backgroundTop    = color.RGBA{20, 30, 70, 255}
	backgroundBottom = color.RGBA{0, 0, 0, 255}
	cubeColor        = color.RGBA{90, 90, 90, 255}
	axisColors       = []color.RGBA{
		{220, 60, 60, 255},
		{60, 200, 60, 255},
		{80, 110, 240, 255},
	}
)

// Render draws the scene into a new image of the given size
func (r *Renderer) Render(scene Scene, view *ViewState, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return img
	}

	fillBackground(img, view.Visibility.Background)

	view.SetViewport(float64(width), float64(height))
	transform := view.Transform()

	buf := newDepthBuffer(img)
	w, h := float64(width), float64(height)

	if view.Visibility.Cube {
		for _, edge := range cubeEdges() {
			drawSegment(buf, transform, edge[0], edge[1], w, h, cubeColor)
		}
	}

	if view.Visibility.Lines && len(scene.Axes) > 0 {
		extent := float64(scene.AxisExtent)
		if extent <= 0 {
			extent = 1
		}
		for i, axis := range scene.Axes {
			from := r3.Scale(-extent, axis)
			to := r3.Scale(extent, axis)
			drawSegment(buf, transform, from, to, w, h, axisColors[i%len(axisColors)])
		}
	}

	for _, p := range scene.Points {
		screen, depth, ok := Project(transform, p.Position, w, h)
		if !ok {
			continue
		}
		buf.spot(screen, r.PointSize/2, depth, pointColor(p.Intensity, view.DisplayMode))
	}

	return img
}

// drawSegment projects both ends of a 3D segment and draws the line if both
// ends are visible
func drawSegment(buf *depthBuffer, transform *mat.Dense, a, b r3.Vec, w, h float64, c color.RGBA) {
	pa, za, okA := Project(transform, a, w, h)
	pb, zb, okB := Project(transform, b, w, h)
	if !okA || !okB {
		return
	}
	buf.line(pa, za, pb, zb, c)
}

func pointColor(intensity float64, mode DisplayMode) color.RGBA {
	i := math.Max(0, math.Min(1, intensity))
	level := uint8(80 + i*175)
	if mode == Measured {
		return color.RGBA{level, level, 60, 255}
	}
	return color.RGBA{level, level, level, 255}
}

func fillBackground(img *image.RGBA, coloured bool) {
	bounds := img.Bounds()
	height := bounds.Dy()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		c := backgroundBottom
		if coloured && height > 1 {
			t := float64(y) / float64(height-1)
			c = color.RGBA{
				R: lerp(backgroundTop.R, backgroundBottom.R, t),
				G: lerp(backgroundTop.G, backgroundBottom.G, t),
				B: lerp(backgroundTop.B, backgroundBottom.B, t),
				A: 255,
			}
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// cubeEdges returns the twelve edges of the reference cube centred on the origin
func cubeEdges() [][2]r3.Vec {
	s := CubeSize / 2
	corners := make([]r3.Vec, 0, 8)
	for _, x := range []float64{-s, s} {
		for _, y := range []float64{-s, s} {
			for _, z := range []float64{-s, s} {
				corners = append(corners, r3.Vec{X: x, Y: y, Z: z})
			}
		}
	}

	edges := make([][2]r3.Vec, 0, 12)
	for i := range corners {
		for j := i + 1; j < len(corners); j++ {
			d := r3.Sub(corners[i], corners[j])
			// Corners that differ in exactly one coordinate share an edge
			if r3.Norm(d) == CubeSize {
				edges = append(edges, [2]r3.Vec{corners[i], corners[j]})
			}
		}
	}
	return edges
}
