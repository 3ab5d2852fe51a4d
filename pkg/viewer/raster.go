package viewer

import (
	"image"
	"image/color"
	"math"

	"github.com/philipparndt/godtr/pkg/geometry"
)

// depthBuffer is a target image with a per-pixel depth. Smaller depth is
// closer to the camera.
type depthBuffer struct {
	img   *image.RGBA
	depth []float64
}

func newDepthBuffer(img *image.RGBA) *depthBuffer {
	b := img.Bounds()
	depth := make([]float64, b.Dx()*b.Dy())
	for i := range depth {
		depth[i] = math.Inf(1)
	}
	return &depthBuffer{img: img, depth: depth}
}

// plot sets the pixel if it is inside the image and closer than what is
// already there
func (d *depthBuffer) plot(x, y int, z float64, c color.RGBA) {
	b := d.img.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	idx := (y-b.Min.Y)*b.Dx() + (x - b.Min.X)
	if z >= d.depth[idx] {
		return
	}
	d.depth[idx] = z
	d.img.SetRGBA(x, y, c)
}

// spot draws a filled disc of the given radius at a constant depth
func (d *depthBuffer) spot(centre geometry.Point, radius, z float64, c color.RGBA) {
	cx, cy := int(math.Round(centre.X)), int(math.Round(centre.Y))
	r := int(math.Ceil(radius))
	r2 := radius * radius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if float64(dx*dx+dy*dy) > r2 {
				continue
			}
			d.plot(cx+dx, cy+dy, z, c)
		}
	}
}

// line draws a segment, interpolating depth between its end points
func (d *depthBuffer) line(from geometry.Point, z1 float64, to geometry.Point, z2 float64, c color.RGBA) {
	delta := to.Sub(from)
	steps := int(math.Ceil(math.Max(math.Abs(delta.X), math.Abs(delta.Y))))
	if steps == 0 {
		d.plot(int(math.Round(from.X)), int(math.Round(from.Y)), z1, c)
		return
	}

	// Segments reaching far off the surface are sampled coarsely
	b := d.img.Bounds()
	limit := 4 * (b.Dx() + b.Dy())
	if steps > limit {
		steps = limit
	}

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := from.Add(delta.Mul(t))
		d.plot(int(math.Round(p.X)), int(math.Round(p.Y)), z1+(z2-z1)*t, c)
	}
}
