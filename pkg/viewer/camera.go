package viewer

import (
	"math"

	"github.com/philipparndt/godtr/pkg/geometry"
	"github.com/philipparndt/godtr/pkg/trackball"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Distance limits and defaults for the reconstruction camera
const (
	MinDistance     = 1.0
	MaxDistance     = 310.0
	DefaultDistance = 150.0

	// PanDivisor scales pointer deltas into pan offset units
	PanDivisor = 5.0

	fieldOfView = 50.0 * math.Pi / 180.0
	nearPlane   = 0.1
	farPlane    = 1000.0
)

// Projection selects how the reconstruction is projected onto the screen
type Projection int

const (
	Orthographic Projection = iota
	Perspective
)

func (p Projection) String() string {
	switch p {
	case Orthographic:
		return "orthographic"
	case Perspective:
		return "perspective"
	default:
		return "unknown"
	}
}

// DisplayMode selects which features are emphasised
type DisplayMode int

const (
	// Mapped shows features mapped from the tilt images
	Mapped DisplayMode = iota
	// Measured shows quantified reflection intensities
	Measured
)

func (m DisplayMode) String() string {
	switch m {
	case Mapped:
		return "mapped"
	case Measured:
		return "measured"
	default:
		return "unknown"
	}
}

// Visibility holds the optional scene decorations
type Visibility struct {
	Cube       bool // 100 nm^-1 reference cube
	Lines      bool // indexing lines along the reciprocal axes
	Background bool // coloured background instead of black
}

// ViewState holds the camera for the reconstruction view
type ViewState struct {
	Orientation quat.Number
	Distance    float64
	Pan         geometry.Point
	Projection  Projection
	DisplayMode DisplayMode
	Visibility  Visibility

	width      float64
	height     float64
	projection *mat.Dense
}

// NewViewState creates a view with the session defaults: rotated half a turn
// about Y, 150 units away, orthographic, mapped features, cube shown
func NewViewState() *ViewState {
	v := &ViewState{
		Orientation: quat.Number{Jmag: 1},
		Distance:    DefaultDistance,
		Projection:  Orthographic,
		DisplayMode: Mapped,
		Visibility:  Visibility{Cube: true},
		width:       640,
		height:      640,
	}
	v.updateProjection()
	return v
}

// Orbit composes an incremental rotation into the orientation
func (v *ViewState) Orbit(delta quat.Number) {
	v.Orientation = trackball.Compose(delta, v.Orientation)
}

// Zoom moves the camera by delta, clamped to [MinDistance, MaxDistance]
func (v *ViewState) Zoom(delta float64) {
	d := v.Distance + delta
	if math.IsNaN(d) {
		return
	}
	v.Distance = math.Max(MinDistance, math.Min(MaxDistance, d))
	v.updateProjection()
}

// PanBy shifts the view by a pointer delta in pixels
func (v *ViewState) PanBy(dx, dy float64) {
	v.Pan.X += dx / PanDivisor
	v.Pan.Y += dy / PanDivisor
}

// SetProjection selects the projection mode and rebuilds the projection matrix
func (v *ViewState) SetProjection(p Projection) {
	v.Projection = p
	v.updateProjection()
}

// ToggleProjection switches between orthographic and perspective projection
func (v *ViewState) ToggleProjection() {
	if v.Projection == Orthographic {
		v.SetProjection(Perspective)
	} else {
		v.SetProjection(Orthographic)
	}
}

// ToggleDisplayMode switches between mapped and measured features
func (v *ViewState) ToggleDisplayMode() {
	if v.DisplayMode == Mapped {
		v.DisplayMode = Measured
	} else {
		v.DisplayMode = Mapped
	}
}

// SetViewport records the drawing surface size
func (v *ViewState) SetViewport(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	v.width = width
	v.height = height
	v.updateProjection()
}

// Viewport returns the current drawing surface size
func (v *ViewState) Viewport() (width, height float64) {
	return v.width, v.height
}

// ProjectionMatrix returns a copy of the projection matrix for the active mode
func (v *ViewState) ProjectionMatrix() *mat.Dense {
	return mat.DenseCopyOf(v.projection)
}

// updateProjection rebuilds the projection matrix. The orthographic volume
// matches the perspective frustum at the camera distance so switching modes
// keeps the scene at roughly the same size.
func (v *ViewState) updateProjection() {
	aspect := v.width / v.height
	top := v.Distance * math.Tan(fieldOfView/2)
	right := top * aspect

	switch v.Projection {
	case Perspective:
		f := 1 / math.Tan(fieldOfView/2)
		v.projection = mat.NewDense(4, 4, []float64{
			f / aspect, 0, 0, 0,
			0, f, 0, 0,
			0, 0, (farPlane + nearPlane) / (nearPlane - farPlane), 2 * farPlane * nearPlane / (nearPlane - farPlane),
			0, 0, -1, 0,
		})
	default:
		v.projection = mat.NewDense(4, 4, []float64{
			1 / right, 0, 0, 0,
			0, 1 / top, 0, 0,
			0, 0, -2 / (farPlane - nearPlane), -(farPlane + nearPlane) / (farPlane - nearPlane),
			0, 0, 0, 1,
		})
	}
}

// modelView returns the transform from reciprocal space into eye space:
// rotate by the orientation, then translate by the pan offset and distance
func (v *ViewState) modelView() *mat.Dense {
	r := rotationMatrix(v.Orientation)
	t := mat.NewDense(4, 4, []float64{
		1, 0, 0, v.Pan.X,
		0, 1, 0, -v.Pan.Y,
		0, 0, 1, -v.Distance,
		0, 0, 0, 1,
	})
	var mv mat.Dense
	mv.Mul(t, r)
	return &mv
}

// Transform returns the combined projection * model-view matrix
func (v *ViewState) Transform() *mat.Dense {
	var m mat.Dense
	m.Mul(v.projection, v.modelView())
	return &m
}

// Project maps a point in reciprocal space to screen pixels. The returned
// depth grows away from the camera; ok is false when the point is outside
// the clip volume.
func Project(transform *mat.Dense, p r3.Vec, width, height float64) (screen geometry.Point, depth float64, ok bool) {
	var clip mat.VecDense
	clip.MulVec(transform, mat.NewVecDense(4, []float64{p.X, p.Y, p.Z, 1}))

	w := clip.AtVec(3)
	if w <= 0 {
		return geometry.Point{}, 0, false
	}
	x := clip.AtVec(0) / w
	y := clip.AtVec(1) / w
	z := clip.AtVec(2) / w
	if z < -1 || z > 1 {
		return geometry.Point{}, 0, false
	}

	screen = geometry.NewPoint((x+1)*width/2, (1-y)*height/2)
	return screen, z, true
}

// rotationMatrix converts a unit quaternion into a homogeneous rotation matrix
func rotationMatrix(q quat.Number) *mat.Dense {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return mat.NewDense(4, 4, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w), 0,
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w), 0,
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y), 0,
		0, 0, 0, 1,
	})
}
