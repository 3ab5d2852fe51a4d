package tiltseries

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveCache writes the image analysis of the series to path in the session
// file format, so it can be reopened without repeating peak detection
func SaveCache(c *Collection, path string) error {
	sf := sessionFile{
		Name: c.Name,
		Geometry: geometryFile{
			Omega:      rad2deg(c.Geometry.Omega),
			Centre:     [2]float64{c.Geometry.Centre.X, c.Geometry.Centre.Y},
			PixelScale: c.Geometry.PixelScale,
		},
		Images: make([]imageFile, 0, len(c.Images)),
	}

	dir := filepath.Dir(path)
	for _, img := range c.Images {
		imf := imageFile{Tilt: rad2deg(img.Tilt)}
		if img.PixelFile != "" {
			imf.Pixels = img.PixelFile
			if rel, err := filepath.Rel(dir, img.PixelFile); err == nil {
				imf.Pixels = rel
			}
		}
		if img.Features != nil {
			features := make([]featureFile, 0, len(img.Features))
			for _, f := range img.Features {
				features = append(features, featureFile{X: f.X, Y: f.Y, Intensity: f.Intensity})
			}
			imf.Features = &features
		}
		sf.Images = append(sf.Images, imf)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating cache directory: %w", err)
	}

	data, err := yaml.Marshal(&sf)
	if err != nil {
		return fmt.Errorf("error marshaling cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing cache file: %w", err)
	}

	return nil
}
