package lattice

import (
	"bufio"
	"cmp"
	"fmt"
	"os"
	"slices"

	"github.com/philipparndt/godtr/pkg/tiltseries"
)

// Reflection is the integrated intensity of one set of Miller indices
type Reflection struct {
	HKL          [3]int
	Intensity    float64
	Observations int
}

// ExtractIntensities sums, per Miller index, the measured intensity of every
// feature paired with a reflection predicted by project. Reflections that
// were never observed are left out.
func ExtractIntensities(c *tiltseries.Collection, project func(index int) []tiltseries.Feature) []Reflection {
	byHKL := make(map[[3]int]*Reflection)
	for i := range c.Images {
		img := &c.Images[i]
		for _, predicted := range project(i) {
			measured, ok := img.PartnerOf(predicted)
			if !ok {
				continue
			}
			r, ok := byHKL[predicted.HKL]
			if !ok {
				r = &Reflection{HKL: predicted.HKL}
				byHKL[predicted.HKL] = r
			}
			r.Intensity += measured.Intensity
			r.Observations++
		}
	}

	list := make([]Reflection, 0, len(byHKL))
	for _, r := range byHKL {
		list = append(list, *r)
	}
	slices.SortFunc(list, func(a, b Reflection) int {
		for i := range a.HKL {
			if c := cmp.Compare(a.HKL[i], b.HKL[i]); c != 0 {
				return c
			}
		}
		return 0
	})
	return list
}

// SaveReflections writes one "h k l intensity" line per reflection
func SaveReflections(reflections []Reflection, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating reflection file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, r := range reflections {
		if _, err := fmt.Fprintf(w, "%4d %4d %4d %12.3f\n", r.HKL[0], r.HKL[1], r.HKL[2], r.Intensity); err != nil {
			return fmt.Errorf("error writing reflection file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("error writing reflection file: %w", err)
	}
	return nil
}
