package rhythm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fogleman/ease"
)

// ErrUnknownCurve is returned when a curve name is not recognised.
var ErrUnknownCurve = errors.New("unknown curve type")

// CurveType selects the shape used to animate towards a pulse.
type CurveType int

const (
	CurveSine CurveType = iota
	CurveSaw
)

func (c CurveType) String() string {
	switch c {
	case CurveSaw:
		return "saw"
	default:
		return "sine"
	}
}

// ParseCurveType parses "sine" or "saw". An empty name is a sine curve.
func ParseCurveType(name string) (CurveType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sine":
		return CurveSine, nil
	case "saw":
		return CurveSaw, nil
	default:
		return CurveSine, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
}

// Func returns the easing function for the curve. Unknown curves fall back to sine.
func (c CurveType) Func() ease.Function {
	switch c {
	case CurveSaw:
		return ease.Linear
	default:
		return ease.InOutSine
	}
}

// Value evaluates the curve at phase, where phase runs from 0 (previous pulse) to 1 (next pulse).
func (c CurveType) Value(phase float64) float64 {
	return c.Func()(Clamp(phase, 0.0, 1.0))
}
