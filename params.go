package boxcad

import (
	"fmt"
	"math"
)

// ShapeKind selects the profile family of the model.
type ShapeKind int

const (
	// ShapeBox is a rectangular box, optionally with rounded inside corners.
	ShapeBox ShapeKind = iota

	// ShapeCylinder is a circular container. InsideWidth is its inside
	// diameter; InsideDepth and the corner-radius fields are ignored.
	ShapeCylinder
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// ThicknessMode selects how wall, top and bottom thickness are derived.
type ThicknessMode int

const (
	// ThicknessUniform applies one thickness value to wall, top and bottom.
	ThicknessUniform ThicknessMode = iota

	// ThicknessCustom uses independent wall, top and bottom values.
	ThicknessCustom
)

func (m ThicknessMode) String() string {
	switch m {
	case ThicknessUniform:
		return "uniform"
	case ThicknessCustom:
		return "custom"
	default:
		return fmt.Sprintf("ThicknessMode(%d)", int(m))
	}
}

// Params describes one model build. All dimensions are in model units
// (millimeters by convention). A Params value is treated as immutable for
// the duration of a build.
type Params struct {
	Shape ShapeKind

	// Inside cavity dimensions.
	InsideWidth  float64
	InsideDepth  float64
	InsideHeight float64

	// IncludeLid adds a second shell that slides over the base with a
	// uniform Clearance gap. With a lid present the base top stays open.
	IncludeLid bool
	Clearance  float64

	// IncludeInsideRadius rounds the inside corners of a box with
	// InsideRadius. The radius is clamped, never rejected (see ClampRadius).
	IncludeInsideRadius bool
	InsideRadius        float64

	Mode      ThicknessMode
	Thickness float64 // uniform mode

	// Custom mode values.
	WallThickness   float64
	TopThickness    float64
	BottomThickness float64
}

// Thickness is the resolved {wall, top, bottom} triple. It is derived once
// per build and handed to every downstream stage, so the box and its lid can
// never disagree on wall values.
type Thickness struct {
	Wall, Top, Bottom float64
}

// ResolveThickness applies the thickness-resolution rule for the chosen mode.
func (p Params) ResolveThickness() Thickness {
	if p.Mode == ThicknessCustom {
		return Thickness{Wall: p.WallThickness, Top: p.TopThickness, Bottom: p.BottomThickness}
	}
	return Thickness{Wall: p.Thickness, Top: p.Thickness, Bottom: p.Thickness}
}

// RadiusEpsilon is the margin subtracted when clamping a corner radius to
// half the shorter planar span. It is absolute, in model units, matching the
// observed behavior of the sizes this tool is used at; it does not scale
// with the model.
const RadiusEpsilon = 0.01

// ClampRadius limits a corner radius to what the w×d footprint can carry.
// The result may be zero or negative, in which case the profile degrades to
// square corners. Callers never see an oversized radius rejected.
func ClampRadius(r, w, d float64) float64 {
	limit := math.Min(w, d)/2 - RadiusEpsilon
	if r > limit {
		return roundTo(limit, 3)
	}
	return r
}

// roundTo rounds v to n decimal digits, the model's working precision.
func roundTo(v float64, n int) float64 {
	scale := math.Pow(10, float64(n))
	return math.Round(v*scale) / scale
}

// Validate checks that the parameters describe buildable geometry.
// It rejects only truly unusable inputs (non-finite or non-positive spans);
// degenerate-but-recoverable combinations are clamped later instead.
func (p Params) Validate() error {
	t := p.ResolveThickness()
	checks := []struct {
		name string
		v    float64
		min  bool // must be strictly positive
	}{
		{"insideWidth", p.InsideWidth, true},
		{"insideDepth", p.InsideDepth, p.Shape == ShapeBox},
		{"insideHeight", p.InsideHeight, true},
		{"wall thickness", t.Wall, true},
		{"top thickness", t.Top, true},
		{"bottom thickness", t.Bottom, true},
		{"clearance", p.Clearance, false},
		{"insideRadius", p.InsideRadius, false},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return fmt.Errorf("boxcad: %s is not finite", c.name)
		}
		if c.v < 0 || (c.min && c.v == 0) {
			return fmt.Errorf("boxcad: %s must be positive, got %g", c.name, c.v)
		}
	}
	return nil
}

// rounded reports whether the box profile carries rounded corners after
// clamping.
func (p Params) rounded() bool {
	if p.Shape != ShapeBox || !p.IncludeInsideRadius {
		return false
	}
	return ClampRadius(p.InsideRadius, p.InsideWidth, p.InsideDepth) > 0
}

// insideRadius returns the effective (clamped) inside corner radius, or 0
// for square corners.
func (p Params) insideRadius() float64 {
	if !p.rounded() {
		return 0
	}
	return ClampRadius(p.InsideRadius, p.InsideWidth, p.InsideDepth)
}
