package geometry

import "math"

// Point represents a 2D position, either on a tilt image (pixels) or on the
// drawing surface (pointer coordinates)
type Point struct {
	X, Y float64
}

// NewPoint creates a new 2D point
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference between two points
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Mul multiplies the point by a scalar
func (p Point) Mul(scalar float64) Point {
	return Point{X: p.X * scalar, Y: p.Y * scalar}
}

// Length returns the distance of the point from the origin
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the distance between two points
func (p Point) Distance(other Point) float64 {
	return p.Sub(other).Length()
}

// Normalized maps a pointer position on a viewport of the given size to the
// [-1, 1] square used by the trackball, with Y pointing up
func (p Point) Normalized(width, height float64) Point {
	return Point{
		X: (2.0*p.X - width) / width,
		Y: (height - 2.0*p.Y) / height,
	}
}
