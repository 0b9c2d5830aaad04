package boxcad

import (
	"math"
	"testing"
)

func countKinds(p *Profile) (lines, arcs, circles int) {
	for _, e := range p.Elements() {
		switch e.(type) {
		case Line:
			lines++
		case Arc:
			arcs++
		case Circle:
			circles++
		}
	}
	return
}

func TestRectProfile(t *testing.T) {
	p := RectProfile(P3(0, 0, 0), 40, 30)

	lines, arcs, circles := countKinds(p)
	if lines != 4 || arcs != 0 || circles != 0 {
		t.Fatalf("got %d lines, %d arcs, %d circles; want 4 lines only", lines, arcs, circles)
	}
	if !p.Closed() {
		t.Error("rectangle profile is not closed")
	}

	// Opposite edges have the footprint spans.
	elems := p.Elements()
	if got := elems[0].(Line).Length(); got != 40 {
		t.Errorf("bottom edge length = %g, want 40", got)
	}
	if got := elems[1].(Line).Length(); got != 30 {
		t.Errorf("right edge length = %g, want 30", got)
	}
}

func TestRoundedRectProfile(t *testing.T) {
	const w, d, r = 40.0, 30.0, 3.0
	p := RoundedRectProfile(P3(0, 0, 0), w, d, r)

	lines, arcs, _ := countKinds(p)
	if lines != 4 || arcs != 4 {
		t.Fatalf("got %d lines, %d arcs; want 4 and 4", lines, arcs)
	}
	if len(p.Elements()) != 8 {
		t.Fatalf("got %d elements, want 8", len(p.Elements()))
	}
	if !p.Closed() {
		t.Error("rounded rectangle profile is not closed")
	}
	if p.Radius() != r {
		t.Errorf("Radius() = %g, want %g", p.Radius(), r)
	}

	// Straight runs shrink by the radius on both ends.
	elems := p.Elements()
	if got := elems[0].(Line).Length(); math.Abs(got-(w-2*r)) > 1e-9 {
		t.Errorf("horizontal run length = %g, want %g", got, w-2*r)
	}
	if got := elems[2].(Line).Length(); math.Abs(got-(d-2*r)) > 1e-9 {
		t.Errorf("vertical run length = %g, want %g", got, d-2*r)
	}
}

func TestRoundedRectProfileArcMidpoints(t *testing.T) {
	const w, d, r = 40.0, 30.0, 3.0
	p := RoundedRectProfile(P3(0, 0, 0), w, d, r)

	// Every arc midpoint sits at distance r from its corner-circle center,
	// on the diagonal bisector of that corner.
	centers := []Pt3{
		P3(w-r, r, 0),   // SE
		P3(w-r, d-r, 0), // NE
		P3(r, d-r, 0),   // NW
		P3(r, r, 0),     // SW
	}
	i := 0
	for _, e := range p.Elements() {
		arc, ok := e.(Arc)
		if !ok {
			continue
		}
		c := centers[i]
		if got := c.Distance(arc.Mid); math.Abs(got-r) > 1e-9 {
			t.Errorf("arc %d midpoint distance from center = %g, want %g", i, got, r)
		}
		if got := c.Distance(arc.A); math.Abs(got-r) > 1e-9 {
			t.Errorf("arc %d start distance from center = %g, want %g", i, got, r)
		}
		if got := c.Distance(arc.B); math.Abs(got-r) > 1e-9 {
			t.Errorf("arc %d end distance from center = %g, want %g", i, got, r)
		}
		i++
	}
	if i != 4 {
		t.Fatalf("found %d arcs, want 4", i)
	}
}

func TestRoundedRectProfileDegrades(t *testing.T) {
	tests := []struct {
		name    string
		w, d, r float64
	}{
		{"zero radius", 40, 30, 0},
		{"negative radius", 40, 30, -2},
		{"clamp collapses radius", 0.01, 0.01, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := RoundedRectProfile(P3(0, 0, 0), tt.w, tt.d, tt.r)
			lines, arcs, _ := countKinds(p)
			if lines != 4 || arcs != 0 {
				t.Errorf("got %d lines, %d arcs; want plain rectangle", lines, arcs)
			}
			if p.Radius() != 0 {
				t.Errorf("Radius() = %g, want 0 after degradation", p.Radius())
			}
		})
	}
}

func TestRoundedRectProfileOversizedRadiusClamps(t *testing.T) {
	// A 10x10 footprint with radius 20 clamps to 4.99 and still produces
	// eight edges instead of failing.
	p := RoundedRectProfile(P3(0, 0, 0), 10, 10, 20)
	if len(p.Elements()) != 8 {
		t.Fatalf("got %d elements, want 8", len(p.Elements()))
	}
	if p.Radius() != 4.99 {
		t.Errorf("Radius() = %g, want 4.99", p.Radius())
	}
	if !p.Closed() {
		t.Error("clamped profile is not closed")
	}
}

func TestCircleProfile(t *testing.T) {
	p := CircleProfile(P3(15, 15, 0), 15)
	if len(p.Elements()) != 1 {
		t.Fatalf("got %d elements, want 1", len(p.Elements()))
	}
	c, ok := p.Elements()[0].(Circle)
	if !ok {
		t.Fatalf("element is %T, want Circle", p.Elements()[0])
	}
	if c.Radius != 15 {
		t.Errorf("radius = %g, want 15", c.Radius)
	}
	if !p.Closed() {
		t.Error("circle profile is not closed")
	}
}

func TestProfileAtElevation(t *testing.T) {
	// Profiles carry their Z plane through every element.
	p := RoundedRectProfile(P3(2, 2, 5), 20, 20, 3)
	for i, e := range p.Elements() {
		var zs []float64
		switch el := e.(type) {
		case Line:
			zs = []float64{el.A.Z, el.B.Z}
		case Arc:
			zs = []float64{el.A.Z, el.Mid.Z, el.B.Z}
		}
		for _, z := range zs {
			if z != 5 {
				t.Fatalf("element %d has point at z=%g, want 5", i, z)
			}
		}
	}
}
