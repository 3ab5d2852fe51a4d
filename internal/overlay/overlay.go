// Package overlay builds the mark and correspondence overlay for the current
// tilt image, reprojecting the lattice model onto it lazily.
package overlay

import (
	"fmt"

	"github.com/philipparndt/godtr/pkg/geometry"
	"github.com/philipparndt/godtr/pkg/lattice"
	"github.com/philipparndt/godtr/pkg/tiltseries"
	"github.com/philipparndt/godtr/pkg/viewer"
)

// Kind is the visual kind of a draw list entry
type Kind int

const (
	// Reprojected marks a predicted reflection ("circle-1")
	Reprojected Kind = iota
	// Measured marks a measured feature ("circle-2")
	Measured
	// Correspondence joins a predicted reflection to its partner ("line-1")
	Correspondence
)

func (k Kind) String() string {
	switch k {
	case Reprojected:
		return "circle-1"
	case Measured:
		return "circle-2"
	case Correspondence:
		return "line-1"
	default:
		return "unknown"
	}
}

// Mark is one draw list entry. To is only used by Correspondence.
type Mark struct {
	Kind       Kind
	From       geometry.Point
	To         geometry.Point
	Intensity  float64
	Emphasized bool
}

// Reprojection predicts the reflections of a lattice model on one image
type Reprojection interface {
	Project(c *tiltseries.Collection, index int, m *lattice.Model) []tiltseries.Feature
}

type cacheEntry struct {
	version  uint64
	features []tiltseries.Feature
}

// Synchronizer keeps the draw list of the current image consistent with the
// lattice model. Reprojection runs at most once per image and model version.
type Synchronizer struct {
	images  *tiltseries.Collection
	service Reprojection
	model   *lattice.Model
	cache   map[int]cacheEntry
	current []Mark
}

// New creates a synchronizer over images
func New(images *tiltseries.Collection, service Reprojection) *Synchronizer {
	return &Synchronizer{
		images:  images,
		service: service,
		cache:   make(map[int]cacheEntry),
	}
}

// SetModel replaces the lattice model. A model with a different version, or
// nil, invalidates every cached reprojection.
func (s *Synchronizer) SetModel(m *lattice.Model) {
	if s.model != nil && m != nil && s.model.Version == m.Version {
		s.model = m
		return
	}
	s.model = m
	s.Invalidate()
}

// Model returns the current lattice model, or nil
func (s *Synchronizer) Model() *lattice.Model {
	return s.model
}

// Reset switches to a new image collection and drops all cached state
func (s *Synchronizer) Reset(images *tiltseries.Collection) {
	s.images = images
	s.current = nil
	s.Invalidate()
}

// Invalidate drops all cached reprojections
func (s *Synchronizer) Invalidate() {
	clear(s.cache)
}

// Reprojected returns the reflections predicted on image index, computing
// them only if the cache holds nothing for the current model version. It
// returns nil without a model.
func (s *Synchronizer) Reprojected(index int) []tiltseries.Feature {
	if s.model == nil || s.service == nil {
		return nil
	}
	if e, ok := s.cache[index]; ok && e.version == s.model.Version {
		return e.features
	}
	features := s.service.Project(s.images, index, s.model)
	s.cache[index] = cacheEntry{version: s.model.Version, features: features}
	return features
}

// Cached reports whether image index holds a reprojection for the current
// model
func (s *Synchronizer) Cached(index int) bool {
	if s.model == nil {
		return false
	}
	e, ok := s.cache[index]
	return ok && e.version == s.model.Version
}

// Refresh rebuilds the draw list for image index: predicted marks, then
// measured marks, then a line from each predicted mark to its partner.
func (s *Synchronizer) Refresh(index int) ([]Mark, error) {
	img, err := s.images.Image(index)
	if err != nil {
		s.current = nil
		return nil, fmt.Errorf("error refreshing overlay: %w", err)
	}

	reprojected := s.Reprojected(index)
	marks := make([]Mark, 0, 2*len(reprojected)+len(img.Features))

	for _, f := range reprojected {
		marks = append(marks, Mark{Kind: Reprojected, From: f.Position(), Intensity: f.Intensity})
	}
	for _, f := range img.Features {
		marks = append(marks, Mark{Kind: Measured, From: f.Position(), Intensity: f.Intensity})
	}
	for _, f := range reprojected {
		partner, ok := img.PartnerOf(f)
		if !ok {
			continue
		}
		marks = append(marks, Mark{
			Kind:      Correspondence,
			From:      f.Position(),
			To:        partner.Position(),
			Intensity: f.Intensity,
		})
	}

	s.current = marks
	return marks, nil
}

// Current returns the draw list built by the last Refresh
func (s *Synchronizer) Current() []Mark {
	return s.current
}

// Filter marks the entries the display mode emphasises. The list keeps its
// length and order: in Mapped mode the predictions and their
// correspondences stand out, in Measured mode the measured features do.
func Filter(marks []Mark, mode viewer.DisplayMode) []Mark {
	out := make([]Mark, len(marks))
	for i, m := range marks {
		switch mode {
		case viewer.Measured:
			m.Emphasized = m.Kind == Measured
		default:
			m.Emphasized = m.Kind != Measured
		}
		out[i] = m
	}
	return out
}
