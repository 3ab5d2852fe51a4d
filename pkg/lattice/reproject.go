package lattice

import (
	"math"

	"github.com/philipparndt/godtr/pkg/tiltseries"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Reprojector predicts reflection positions on tilt images and pairs them
// with the measured features
type Reprojector struct {
	// Tolerance is the half-width in nm^-1 of the slab around the image
	// plane in which a reciprocal lattice point counts as excited
	Tolerance float64
	// MatchRadius is the largest distance in pixels between a predicted
	// reflection and the measured feature it is paired with
	MatchRadius float64
	// MaxIndex bounds |h|, |k| and |l|
	MaxIndex int
}

// NewReprojector creates a reprojector
func NewReprojector(tolerance, matchRadius float64, maxIndex int) *Reprojector {
	return &Reprojector{Tolerance: tolerance, MatchRadius: matchRadius, MaxIndex: maxIndex}
}

// Project returns the reflections of m excited on image index of c, each
// paired with the nearest measured feature within MatchRadius. It returns
// nil for a missing model or an invalid index.
func (r *Reprojector) Project(c *tiltseries.Collection, index int, m *Model) []tiltseries.Feature {
	if m == nil {
		return nil
	}
	img, err := c.Image(index)
	if err != nil {
		return nil
	}

	tree := newFeatureTree(img.Features)
	maxDist2 := r.MatchRadius * r.MatchRadius

	var reflections []tiltseries.Feature
	n := r.MaxIndex
	for h := -n; h <= n; h++ {
		for k := -n; k <= n; k++ {
			for l := -n; l <= n; l++ {
				if h == 0 && k == 0 && l == 0 {
					continue
				}
				p, excitation := c.Geometry.Detector(m.Cell.Reflection(h, k, l), img.Tilt)
				if math.Abs(excitation) > r.Tolerance {
					continue
				}

				f := tiltseries.Feature{
					X:         p.X,
					Y:         p.Y,
					Intensity: 1 - math.Abs(excitation)/r.Tolerance,
					HKL:       [3]int{h, k, l},
				}
				if tree != nil {
					nearest, dist2 := tree.Nearest(featurePoint{x: p.X, y: p.Y})
					if nearest != nil && dist2 <= maxDist2 {
						partner := nearest.(featurePoint).index
						f.Partner = &partner
					}
				}
				reflections = append(reflections, f)
			}
		}
	}
	return reflections
}

// featurePoint is a measured feature in the k-d tree, remembering its index
// in the image's feature list
type featurePoint struct {
	x, y  float64
	index int
}

func (p featurePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(featurePoint)
	switch d {
	case 0:
		return p.x - q.x
	case 1:
		return p.y - q.y
	default:
		panic("illegal dimension")
	}
}

func (p featurePoint) Dims() int { return 2 }

func (p featurePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(featurePoint)
	dx, dy := p.x-q.x, p.y-q.y
	return dx*dx + dy*dy
}

type featurePoints []featurePoint

func (p featurePoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p featurePoints) Len() int                              { return len(p) }
func (p featurePoints) Pivot(d kdtree.Dim) int                { return featurePlane{featurePoints: p, Dim: d}.Pivot() }
func (p featurePoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

type featurePlane struct {
	kdtree.Dim
	featurePoints
}

func (p featurePlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.featurePoints[i].x < p.featurePoints[j].x
	case 1:
		return p.featurePoints[i].y < p.featurePoints[j].y
	default:
		panic("illegal dimension")
	}
}
func (p featurePlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p featurePlane) Slice(start, end int) kdtree.SortSlicer {
	p.featurePoints = p.featurePoints[start:end]
	return p
}
func (p featurePlane) Swap(i, j int) {
	p.featurePoints[i], p.featurePoints[j] = p.featurePoints[j], p.featurePoints[i]
}

// newFeatureTree indexes measured features. The tree reorders its input, so
// it works on a copy.
func newFeatureTree(features []tiltseries.Feature) *kdtree.Tree {
	if len(features) == 0 {
		return nil
	}
	points := make(featurePoints, len(features))
	for i, f := range features {
		points[i] = featurePoint{x: f.X, y: f.Y, index: i}
	}
	return kdtree.New(points, false)
}
