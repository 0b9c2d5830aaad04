package occt

import (
	"errors"
	"fmt"
	"math"

	"github.com/solidkit/boxcad/kernel"
)

// coincidence tolerance for wire closure and containment checks
const tol = 1e-7

type edgeKind int

const (
	lineEdge edgeKind = iota
	arcEdge
	circleEdge
)

// Edge is a bounded planar curve: a straight segment, a circular arc through
// three points, or a full circle.
type Edge struct {
	kind    edgeKind
	a, m, b kernel.XYZ // line: a,b; arc: start, on-arc point, end
	center  kernel.XYZ // circle only
	radius  float64    // circle only
}

func (e *Edge) start() kernel.XYZ {
	if e.kind == circleEdge {
		return kernel.XYZ{X: e.center.X + e.radius, Y: e.center.Y, Z: e.center.Z}
	}
	return e.a
}

func (e *Edge) end() kernel.XYZ {
	if e.kind == circleEdge {
		return e.start()
	}
	return e.b
}

func (e *Edge) translated(d kernel.XYZ) *Edge {
	out := *e
	out.a = add(e.a, d)
	out.m = add(e.m, d)
	out.b = add(e.b, d)
	out.center = add(e.center, d)
	return &out
}

// Wire is an ordered, connected sequence of edges in one Z plane.
type Wire struct {
	edges []*Edge
}

// Edges returns the wire's edge list.
func (w *Wire) Edges() []*Edge { return w.edges }

// z returns the wire's plane height, taken from its first control point.
func (w *Wire) z() float64 {
	if len(w.edges) == 0 {
		return 0
	}
	return w.edges[0].start().Z
}

// closed reports whether consecutive edges connect end-to-start and the last
// edge returns to the first. A single full circle is closed by itself.
func (w *Wire) closed() bool {
	if len(w.edges) == 0 {
		return false
	}
	if len(w.edges) == 1 && w.edges[0].kind == circleEdge {
		return true
	}
	for i, e := range w.edges {
		next := w.edges[(i+1)%len(w.edges)]
		if dist(e.end(), next.start()) > tol {
			return false
		}
	}
	return true
}

func (w *Wire) translated(d kernel.XYZ) *Wire {
	out := &Wire{edges: make([]*Edge, len(w.edges))}
	for i, e := range w.edges {
		out.edges[i] = e.translated(d)
	}
	return out
}

// bounds returns the wire's planar bounding box. Arc extremes are
// approximated by their control points plus the arc's axis crossings.
func (w *Wire) bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	grow := func(x, y float64) {
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	for _, e := range w.edges {
		switch e.kind {
		case circleEdge:
			grow(e.center.X-e.radius, e.center.Y-e.radius)
			grow(e.center.X+e.radius, e.center.Y+e.radius)
		case arcEdge:
			grow(e.a.X, e.a.Y)
			grow(e.m.X, e.m.Y)
			grow(e.b.X, e.b.Y)
		default:
			grow(e.a.X, e.a.Y)
			grow(e.b.X, e.b.Y)
		}
	}
	return
}

// Face is a planar face bounded by a single closed wire.
type Face struct {
	outer *Wire
}

// cavity is a coaxial hollow carved out of a solid by a boolean cut.
type cavity struct {
	wire         *Wire
	base, height float64
}

func (c *cavity) top() float64 { return c.base + c.height }

// Solid is a right prism: a closed profile wire extruded along +Z, with an
// optional cavity after a cut. Coordinates are absolute; rigid translations
// are applied eagerly.
type Solid struct {
	outer        *Wire
	base, height float64
	cav          *cavity
}

func (s *Solid) top() float64 { return s.base + s.height }

// openTop reports whether the cavity breaks through the top face.
func (s *Solid) openTop() bool {
	return s.cav != nil && math.Abs(s.cav.top()-s.top()) <= tol
}

// openBottom reports whether the cavity breaks through the bottom face.
func (s *Solid) openBottom() bool {
	return s.cav != nil && math.Abs(s.cav.base-s.base) <= tol
}

func (s *Solid) translated(d kernel.XYZ) *Solid {
	out := &Solid{
		outer:  s.outer.translated(d),
		base:   s.base + d.Z,
		height: s.height,
	}
	if s.cav != nil {
		out.cav = &cavity{
			wire:   s.cav.wire.translated(d),
			base:   s.cav.base + d.Z,
			height: s.cav.height,
		}
	}
	return out
}

// Compound groups independent solids. No fusion takes place.
type Compound struct {
	solids []*Solid
}

// cut subtracts tool from base. The builtin kernel supports the coaxial
// configuration the synthesis pipeline produces: the tool prism strictly
// inside the base footprint, with a Z range inside the base span (flush at
// the top or bottom producing an open shell). Anything else is rejected.
func cut(base, tool *Solid) (*Solid, error) {
	if base.cav != nil || tool.cav != nil {
		return nil, errors.New("cut: operands must be plain prisms")
	}
	bx0, by0, bx1, by1 := base.outer.bounds()
	tx0, ty0, tx1, ty1 := tool.outer.bounds()
	if tx0 < bx0-tol || ty0 < by0-tol || tx1 > bx1+tol || ty1 > by1+tol {
		return nil, fmt.Errorf("cut: tool footprint [%.4g %.4g %.4g %.4g] outside base [%.4g %.4g %.4g %.4g]",
			tx0, ty0, tx1, ty1, bx0, by0, bx1, by1)
	}
	if tool.base < base.base-tol || tool.top() > base.top()+tol {
		return nil, fmt.Errorf("cut: tool span [%.4g, %.4g] outside base span [%.4g, %.4g]",
			tool.base, tool.top(), base.base, base.top())
	}
	return &Solid{
		outer:  base.outer,
		base:   base.base,
		height: base.height,
		cav: &cavity{
			wire:   tool.outer,
			base:   tool.base,
			height: tool.height,
		},
	}, nil
}

// arcCenter computes the circumcenter and radius of the circle through three
// planar points. Fails if the points are collinear.
func arcCenter(a, m, b kernel.XYZ) (kernel.XYZ, float64, error) {
	d := 2 * (a.X*(m.Y-b.Y) + m.X*(b.Y-a.Y) + b.X*(a.Y-m.Y))
	if math.Abs(d) < 1e-12 {
		return kernel.XYZ{}, 0, errors.New("arc through collinear points")
	}
	a2 := a.X*a.X + a.Y*a.Y
	m2 := m.X*m.X + m.Y*m.Y
	b2 := b.X*b.X + b.Y*b.Y
	cx := (a2*(m.Y-b.Y) + m2*(b.Y-a.Y) + b2*(a.Y-m.Y)) / d
	cy := (a2*(b.X-m.X) + m2*(a.X-b.X) + b2*(m.X-a.X)) / d
	c := kernel.XYZ{X: cx, Y: cy, Z: a.Z}
	return c, math.Hypot(a.X-cx, a.Y-cy), nil
}

// arcSweep returns the start angle and signed sweep (positive =
// counter-clockwise) of the arc a..b passing through m.
func arcSweep(a, m, b, center kernel.XYZ) (start, sweep float64) {
	angle := func(p kernel.XYZ) float64 {
		return math.Atan2(p.Y-center.Y, p.X-center.X)
	}
	ta, tm, tb := angle(a), angle(m), angle(b)
	// Counter-clockwise sweep from ta, normalized to [0, 2pi).
	ccw := func(from, to float64) float64 {
		s := to - from
		for s < 0 {
			s += 2 * math.Pi
		}
		for s >= 2*math.Pi {
			s -= 2 * math.Pi
		}
		return s
	}
	if ccw(ta, tm) <= ccw(ta, tb) {
		return ta, ccw(ta, tb)
	}
	return ta, ccw(ta, tb) - 2*math.Pi
}

func add(p, q kernel.XYZ) kernel.XYZ {
	return kernel.XYZ{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

func dist(p, q kernel.XYZ) float64 {
	dx, dy, dz := p.X-q.X, p.Y-q.Y, p.Z-q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
