package boxcad

import "math"

// ProfileElement represents a single edge in a closed planar profile.
type ProfileElement interface {
	isProfileElement()
}

// Line is a straight profile edge between two points.
type Line struct {
	A, B Pt3
}

func (Line) isProfileElement() {}

// Length returns the edge length.
func (l Line) Length() float64 { return l.A.Distance(l.B) }

// Arc is a circular profile edge through three points: start, a point on the
// arc, and end. The on-arc point sits on the diagonal bisector of the corner
// at the target radius, which makes the arc tangent to its neighboring lines
// without explicit tangency constraints.
type Arc struct {
	A, Mid, B Pt3
}

func (Arc) isProfileElement() {}

// Circle is a full circular profile edge: a one-element closed wire.
type Circle struct {
	Center Pt3
	Radius float64
}

func (Circle) isProfileElement() {}

// Profile is an ordered, closed sequence of planar edges in one Z plane.
// Edges connect end-to-start with no gap. A Profile is a transient value:
// it exists only to be handed to the solid synthesizer.
type Profile struct {
	elements []ProfileElement

	origin       Pt3
	width, depth float64
	radius       float64
}

// Elements returns the profile's edges in traversal order.
func (p *Profile) Elements() []ProfileElement { return p.elements }

// Origin returns the profile's minimum corner (or center, for a circle).
func (p *Profile) Origin() Pt3 { return p.origin }

// Radius returns the effective corner radius after clamping (0 for square
// corners; the full radius for a circle profile).
func (p *Profile) Radius() float64 { return p.radius }

// invSqrt2 places an arc midpoint on the 45-degree diagonal bisector.
const invSqrt2 = math.Sqrt2 / 2

// RectProfile builds a plain axis-aligned rectangle: four line edges with
// right-angle corners, traversed from the bottom-left run.
func RectProfile(origin Pt3, width, depth float64) *Profile {
	x, y, z := origin.X, origin.Y, origin.Z
	return &Profile{
		origin: origin,
		width:  width,
		depth:  depth,
		elements: []ProfileElement{
			Line{A: P3(x, y, z), B: P3(x+width, y, z)},
			Line{A: P3(x+width, y, z), B: P3(x+width, y+depth, z)},
			Line{A: P3(x+width, y+depth, z), B: P3(x, y+depth, z)},
			Line{A: P3(x, y+depth, z), B: P3(x, y, z)},
		},
	}
}

// RoundedRectProfile builds a rectangle with rounded corners: four straight
// runs and four 90-degree tangent arcs, eight edges total, starting at the
// bottom-left straight run.
//
// The radius is clamped to min(width, depth)/2 − RadiusEpsilon first. If the
// clamped radius is not strictly positive, or either straight run
// (width − 2·radius, depth − 2·radius) collapses, the profile degrades to a
// plain rectangle. That degradation is deliberate policy for degenerate
// input, not an error.
func RoundedRectProfile(origin Pt3, width, depth, radius float64) *Profile {
	r := ClampRadius(radius, width, depth)
	if r <= 0 || width-2*r <= 0 || depth-2*r <= 0 {
		return RectProfile(origin, width, depth)
	}

	x, y, z := origin.X, origin.Y, origin.Z
	k := r * invSqrt2

	// Corner circle centers.
	se := P3(x+width-r, y+r, z)
	ne := P3(x+width-r, y+depth-r, z)
	nw := P3(x+r, y+depth-r, z)
	sw := P3(x+r, y+r, z)

	return &Profile{
		origin: origin,
		width:  width,
		depth:  depth,
		radius: r,
		elements: []ProfileElement{
			Line{A: P3(x+r, y, z), B: P3(x+width-r, y, z)},
			Arc{A: P3(x+width-r, y, z), Mid: P3(se.X+k, se.Y-k, z), B: P3(x+width, y+r, z)},
			Line{A: P3(x+width, y+r, z), B: P3(x+width, y+depth-r, z)},
			Arc{A: P3(x+width, y+depth-r, z), Mid: P3(ne.X+k, ne.Y+k, z), B: P3(x+width-r, y+depth, z)},
			Line{A: P3(x+width-r, y+depth, z), B: P3(x+r, y+depth, z)},
			Arc{A: P3(x+r, y+depth, z), Mid: P3(nw.X-k, nw.Y+k, z), B: P3(x, y+depth-r, z)},
			Line{A: P3(x, y+depth-r, z), B: P3(x, y+r, z)},
			Arc{A: P3(x, y+r, z), Mid: P3(sw.X-k, sw.Y-k, z), B: P3(x+r, y, z)},
		},
	}
}

// CircleProfile builds a single closed circular wire around a center.
// It feeds the same downstream synthesizer as the rectangular profiles.
func CircleProfile(center Pt3, radius float64) *Profile {
	return &Profile{
		origin: center,
		radius: radius,
		elements: []ProfileElement{
			Circle{Center: center, Radius: radius},
		},
	}
}

// Closed reports whether consecutive edges connect end-to-start, including
// the wrap from the last edge back to the first.
func (p *Profile) Closed() bool {
	if len(p.elements) == 0 {
		return false
	}
	endOf := func(e ProfileElement) (Pt3, bool) {
		switch t := e.(type) {
		case Line:
			return t.B, true
		case Arc:
			return t.B, true
		default:
			return Pt3{}, false
		}
	}
	startOf := func(e ProfileElement) (Pt3, bool) {
		switch t := e.(type) {
		case Line:
			return t.A, true
		case Arc:
			return t.A, true
		default:
			return Pt3{}, false
		}
	}
	for i, e := range p.elements {
		end, ok := endOf(e)
		if !ok {
			// A circle is closed by construction; anything else in the
			// element list would not be.
			return len(p.elements) == 1
		}
		start, _ := startOf(p.elements[(i+1)%len(p.elements)])
		if end.Distance(start) > 1e-9 {
			return false
		}
	}
	return true
}
