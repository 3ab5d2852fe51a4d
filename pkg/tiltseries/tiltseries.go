// Package tiltseries holds the tilt images of a diffraction tomography
// experiment together with the features measured on each of them.
package tiltseries

import (
	"errors"
	"fmt"

	"github.com/philipparndt/godtr/pkg/geometry"
)

// ErrNoImages is returned when an operation needs at least one image
var ErrNoImages = errors.New("tilt series contains no images")

// Feature is a reflection located on a tilt image
type Feature struct {
	X, Y      float64
	Intensity float64

	// Partner is the index of the corresponding measured feature on the
	// same image. It is only set on reprojected features.
	Partner *int

	// HKL are the Miller indices of a reprojected feature
	HKL [3]int
}

// Position returns the feature position in image pixels
func (f Feature) Position() geometry.Point {
	return geometry.NewPoint(f.X, f.Y)
}

// Image is one tilt image of the series
type Image struct {
	Tilt float64 // radians

	// Features are the measured peaks. Nil means the image has not been
	// analysed, which is different from an analysed image with no peaks.
	Features []Feature

	// PixelFile is the path of the image data, resolved against the
	// session file's directory
	PixelFile string
}

// PartnerOf resolves the partner of a reprojected feature against the
// measured features of this image
func (img *Image) PartnerOf(f Feature) (Feature, bool) {
	if f.Partner == nil {
		return Feature{}, false
	}
	i := *f.Partner
	if i < 0 || i >= len(img.Features) {
		return Feature{}, false
	}
	return img.Features[i], true
}

// Geometry describes how detector pixels relate to reciprocal space
type Geometry struct {
	Omega      float64        // in-plane direction of the tilt axis, radians
	Centre     geometry.Point // position of the undiffracted beam, pixels
	PixelScale float64        // nm^-1 per pixel
}

// Collection is an ordered tilt series
type Collection struct {
	Name     string
	Geometry Geometry
	Images   []Image
}

// Count returns the number of images
func (c *Collection) Count() int {
	if c == nil {
		return 0
	}
	return len(c.Images)
}

// Image returns the image at index i
func (c *Collection) Image(i int) (*Image, error) {
	if c.Count() == 0 {
		return nil, ErrNoImages
	}
	if i < 0 || i >= len(c.Images) {
		return nil, fmt.Errorf("image %d out of range [0, %d)", i, len(c.Images))
	}
	return &c.Images[i], nil
}

// TiltRange returns the smallest and largest tilt angle in radians
func (c *Collection) TiltRange() (lo, hi float64, err error) {
	if c.Count() == 0 {
		return 0, 0, ErrNoImages
	}
	lo, hi = c.Images[0].Tilt, c.Images[0].Tilt
	for _, img := range c.Images[1:] {
		lo = min(lo, img.Tilt)
		hi = max(hi, img.Tilt)
	}
	return lo, hi, nil
}

// FeatureCount returns the total number of measured features
func (c *Collection) FeatureCount() int {
	n := 0
	for _, img := range c.Images {
		n += len(img.Features)
	}
	return n
}
