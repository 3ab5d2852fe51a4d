package tiltseries

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/godtr/pkg/geometry"
	"golang.org/x/image/tiff"
	"gonum.org/v1/gonum/spatial/r3"
)

const sampleSession = `
name: lysozyme
geometry:
  omega: 90
  centre: [256, 256]
  pixelScale: 0.05
images:
  - tilt: -20
    pixels: img000.png
    features:
      - {x: 300, y: 256, intensity: 40}
      - {x: 256, y: 200, intensity: 80}
  - tilt: 0
    features: []
  - tilt: 20
`

func parseSample(t *testing.T) *Collection {
	t.Helper()
	c, err := Parse(strings.NewReader(sampleSession), "/data/run1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return c
}

func TestParseSession(t *testing.T) {
	c := parseSample(t)

	if c.Name != "lysozyme" {
		t.Errorf("Name failed: expected lysozyme, got %q", c.Name)
	}
	if c.Count() != 3 {
		t.Fatalf("Count failed: expected 3, got %d", c.Count())
	}
	if math.Abs(c.Geometry.Omega-math.Pi/2) > 1e-10 {
		t.Errorf("Omega failed: expected pi/2, got %v", c.Geometry.Omega)
	}
	if math.Abs(c.Images[0].Tilt+20*math.Pi/180) > 1e-10 {
		t.Errorf("Tilt failed: expected -20 degrees in radians, got %v", c.Images[0].Tilt)
	}

	expectedPixels := filepath.Join("/data/run1", "img000.png")
	if c.Images[0].PixelFile != expectedPixels {
		t.Errorf("PixelFile failed: expected %s, got %s", expectedPixels, c.Images[0].PixelFile)
	}
}

func TestParseDistinguishesAbsentFeatures(t *testing.T) {
	c := parseSample(t)

	if len(c.Images[0].Features) != 2 {
		t.Errorf("Features failed: expected 2, got %d", len(c.Images[0].Features))
	}
	if c.Images[1].Features == nil {
		t.Errorf("Features failed: expected empty analysed list, got nil")
	}
	if c.Images[2].Features != nil {
		t.Errorf("Features failed: expected nil for unanalysed image, got %v", c.Images[2].Features)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse(strings.NewReader("images: {not: [a list"), ""); err == nil {
		t.Errorf("Parse failed: expected error for malformed yaml")
	}
	if _, err := Parse(strings.NewReader(""), ""); err == nil {
		t.Errorf("Parse failed: expected error for empty document")
	}
	if _, err := Parse(strings.NewReader("geometry: {pixelScale: -1}"), ""); err == nil {
		t.Errorf("Parse failed: expected error for negative pixel scale")
	}
}

func TestImageOutOfRange(t *testing.T) {
	c := parseSample(t)
	if _, err := c.Image(3); err == nil {
		t.Errorf("Image failed: expected error for index 3")
	}

	empty := &Collection{}
	if _, err := empty.Image(0); !errors.Is(err, ErrNoImages) {
		t.Errorf("Image failed: expected ErrNoImages, got %v", err)
	}
}

func TestTiltRange(t *testing.T) {
	c := parseSample(t)
	lo, hi, err := c.TiltRange()
	if err != nil {
		t.Fatalf("TiltRange failed: %v", err)
	}
	if math.Abs(lo+20*math.Pi/180) > 1e-10 || math.Abs(hi-20*math.Pi/180) > 1e-10 {
		t.Errorf("TiltRange failed: got [%v, %v]", lo, hi)
	}
}

func TestPartnerOf(t *testing.T) {
	c := parseSample(t)
	img := &c.Images[0]

	one := 1
	partner, ok := img.PartnerOf(Feature{Partner: &one})
	if !ok || partner.Intensity != 80 {
		t.Errorf("PartnerOf failed: expected second feature, got %v (%v)", partner, ok)
	}

	if _, ok := img.PartnerOf(Feature{}); ok {
		t.Errorf("PartnerOf failed: expected no partner for unlinked feature")
	}

	bad := 7
	if _, ok := img.PartnerOf(Feature{Partner: &bad}); ok {
		t.Errorf("PartnerOf failed: expected no partner for dangling index")
	}
}

func TestSaveCacheAndReload(t *testing.T) {
	c := parseSample(t)
	c.Images[0].PixelFile = ""
	path := filepath.Join(t.TempDir(), "cache", "analysis.yaml")

	if err := SaveCache(c, path); err != nil {
		t.Fatalf("SaveCache failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reloaded.Count() != c.Count() || reloaded.FeatureCount() != c.FeatureCount() {
		t.Errorf("reload failed: expected %d images / %d features, got %d / %d",
			c.Count(), c.FeatureCount(), reloaded.Count(), reloaded.FeatureCount())
	}
	if reloaded.Images[2].Features != nil {
		t.Errorf("reload failed: unanalysed image gained a feature list")
	}
	if math.Abs(reloaded.Images[0].Tilt-c.Images[0].Tilt) > 1e-10 {
		t.Errorf("reload failed: expected tilt %v, got %v", c.Images[0].Tilt, reloaded.Images[0].Tilt)
	}
}

func TestSaveCacheToUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// A regular file cannot be used as a directory
	if err := SaveCache(parseSample(t), filepath.Join(blocker, "cache.yaml")); err == nil {
		t.Errorf("SaveCache failed: expected error when the directory is a file")
	}
}

func TestReciprocalDetectorRoundTrip(t *testing.T) {
	g := Geometry{Omega: 0.3, Centre: geometry.NewPoint(512, 480), PixelScale: 0.02}
	p := geometry.NewPoint(600, 410)

	for _, tilt := range []float64{-0.6, 0, 0.25, 1.1} {
		v := g.Reciprocal(p, tilt)
		back, excitation := g.Detector(v, tilt)
		if back.Distance(p) > 1e-9 {
			t.Errorf("round trip failed at tilt %v: expected %v, got %v", tilt, p, back)
		}
		if math.Abs(excitation) > 1e-12 {
			t.Errorf("round trip failed at tilt %v: expected zero excitation, got %v", tilt, excitation)
		}
	}
}

func TestReciprocalUntiltedIsInPlane(t *testing.T) {
	g := Geometry{Centre: geometry.NewPoint(100, 100), PixelScale: 0.5}
	v := g.Reciprocal(geometry.NewPoint(110, 90), 0)

	expected := r3.Vec{X: 5, Y: -5}
	if r3.Norm(r3.Sub(v, expected)) > 1e-12 {
		t.Errorf("Reciprocal failed: expected %v, got %v", expected, v)
	}
}

func TestMapNormalisesIntensity(t *testing.T) {
	c := parseSample(t)
	mapped := Map(c)

	if len(mapped) != 2 {
		t.Fatalf("Map failed: expected 2 features, got %d", len(mapped))
	}
	if mapped[0].Intensity != 0.5 || mapped[1].Intensity != 1 {
		t.Errorf("Map failed: expected intensities 0.5 and 1, got %v and %v", mapped[0].Intensity, mapped[1].Intensity)
	}
	for _, m := range mapped {
		if m.Image != 0 {
			t.Errorf("Map failed: expected features from image 0, got %d", m.Image)
		}
	}
}

func TestAdjustAxis(t *testing.T) {
	g := Geometry{Omega: 1}
	g.AdjustAxis(0.5)
	if g.Omega != 1.5 {
		t.Errorf("AdjustAxis failed: expected 1.5, got %v", g.Omega)
	}
}

func TestLoadPixels(t *testing.T) {
	dir := t.TempDir()
	src := image.NewGray(image.Rect(0, 0, 4, 3))
	src.SetGray(1, 1, color.Gray{Y: 200})

	pngPath := filepath.Join(dir, "tilt.png")
	f, err := os.Create(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tiffPath := filepath.Join(dir, "tilt.TIF")
	f, err = os.Create(tiffPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := tiff.Encode(f, src, nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	for _, path := range []string{pngPath, tiffPath} {
		img, err := LoadPixels(path)
		if err != nil {
			t.Fatalf("LoadPixels(%s) failed: %v", path, err)
		}
		if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
			t.Errorf("LoadPixels(%s) failed: expected 4x3, got %v", path, img.Bounds())
		}
		r, _, _, _ := img.At(1, 1).RGBA()
		if r>>8 != 200 {
			t.Errorf("LoadPixels(%s) failed: expected grey 200, got %d", path, r>>8)
		}
	}

	if _, err := LoadPixels(filepath.Join(dir, "missing.tif")); err == nil {
		t.Errorf("LoadPixels failed: expected error for missing file")
	}
}

func TestPixelsWithoutFile(t *testing.T) {
	c := parseSample(t)
	img, err := c.Pixels(1)
	if err != nil || img != nil {
		t.Errorf("Pixels failed: expected nil image and no error, got %v, %v", img, err)
	}
}
