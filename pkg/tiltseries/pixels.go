package tiltseries

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// LoadPixels decodes the image data of a tilt image. TIFF is the usual
// detector format; PNG and JPEG are accepted for convenience.
func LoadPixels(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		img, err := tiff.Decode(file)
		if err != nil {
			return nil, fmt.Errorf("failed to decode TIFF %s: %w", path, err)
		}
		return img, nil
	default:
		img, _, err := image.Decode(file)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return img, nil
	}
}

// Pixels loads the image data of image i. It returns nil without error when
// the image has no pixel file.
func (c *Collection) Pixels(i int) (image.Image, error) {
	img, err := c.Image(i)
	if err != nil {
		return nil, err
	}
	if img.PixelFile == "" {
		return nil, nil
	}
	return LoadPixels(img.PixelFile)
}
