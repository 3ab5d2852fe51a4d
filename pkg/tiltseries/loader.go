package tiltseries

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/philipparndt/godtr/pkg/geometry"
	"gopkg.in/yaml.v3"
)

// sessionFile is the on-disk layout of a tilt series. Angles are stored in
// degrees.
type sessionFile struct {
	Name     string       `yaml:"name,omitempty"`
	Geometry geometryFile `yaml:"geometry"`
	Images   []imageFile  `yaml:"images"`
}

type geometryFile struct {
	Omega      float64    `yaml:"omega"`
	Centre     [2]float64 `yaml:"centre"`
	PixelScale float64    `yaml:"pixelScale"`
}

type imageFile struct {
	Tilt     float64        `yaml:"tilt"`
	Pixels   string         `yaml:"pixels,omitempty"`
	Features *[]featureFile `yaml:"features,omitempty"`
}

type featureFile struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Intensity float64 `yaml:"intensity"`
}

// Load reads a tilt series session file
func Load(path string) (*Collection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	defer file.Close()

	return Parse(file, filepath.Dir(path))
}

// Parse decodes a session from r. Relative pixel paths are resolved against dir.
func Parse(r io.Reader, dir string) (*Collection, error) {
	var sf sessionFile
	if err := yaml.NewDecoder(r).Decode(&sf); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("failed to parse session: empty document")
		}
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	if sf.Geometry.PixelScale < 0 {
		return nil, fmt.Errorf("invalid pixel scale %v", sf.Geometry.PixelScale)
	}
	if sf.Geometry.PixelScale == 0 {
		sf.Geometry.PixelScale = 1
	}

	c := &Collection{
		Name: sf.Name,
		Geometry: Geometry{
			Omega:      deg2rad(sf.Geometry.Omega),
			Centre:     geometry.NewPoint(sf.Geometry.Centre[0], sf.Geometry.Centre[1]),
			PixelScale: sf.Geometry.PixelScale,
		},
		Images: make([]Image, 0, len(sf.Images)),
	}

	for _, imf := range sf.Images {
		img := Image{Tilt: deg2rad(imf.Tilt)}
		if imf.Pixels != "" {
			img.PixelFile = imf.Pixels
			if !filepath.IsAbs(img.PixelFile) && dir != "" {
				img.PixelFile = filepath.Join(dir, img.PixelFile)
			}
		}
		if imf.Features != nil {
			img.Features = make([]Feature, 0, len(*imf.Features))
			for _, ff := range *imf.Features {
				img.Features = append(img.Features, Feature{X: ff.X, Y: ff.Y, Intensity: ff.Intensity})
			}
		}
		c.Images = append(c.Images, img)
	}

	return c, nil
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180
}

func rad2deg(r float64) float64 {
	return r * 180 / math.Pi
}
