package session

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidTiltAxis is reported for tilt axis offsets that are not a
// finite number of degrees within [-180, 180]
var ErrInvalidTiltAxis = errors.New("invalid tilt axis offset")

// AdjustTiltAxis rotates the tilt axis by deg degrees. The reconstruction
// picks the new axis up immediately; overlays follow with the next lattice
// model.
func (s *Session) AdjustTiltAxis(deg float64) {
	s.images.Geometry.AdjustAxis(deg2rad(deg))
	s.log.Info("tilt axis adjusted", "offset", deg, "omega", rad2deg(s.images.Geometry.Omega))
	s.bus.RequestRender()
}

// IncrementTiltAxis rotates the tilt axis by one step
func (s *Session) IncrementTiltAxis() {
	s.AdjustTiltAxis(s.axisStep)
}

// DecrementTiltAxis rotates the tilt axis back by one step
func (s *Session) DecrementTiltAxis() {
	s.AdjustTiltAxis(-s.axisStep)
}

// SetTiltAxisText applies an offset typed by the user. Invalid text is
// reported and leaves the axis unchanged.
func (s *Session) SetTiltAxisText(text string) error {
	deg, err := ParseTiltAxis(text)
	if err != nil {
		s.reportError(err)
		return err
	}
	s.AdjustTiltAxis(deg)
	return nil
}

// ParseTiltAxis parses a tilt axis offset in degrees
func ParseTiltAxis(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidTiltAxis, text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 180 {
		return 0, fmt.Errorf("%w: %q is outside [-180, 180]", ErrInvalidTiltAxis, text)
	}
	return v, nil
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}

func rad2deg(rad float64) float64 {
	return rad * 180 / math.Pi
}
