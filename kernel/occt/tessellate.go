package occt

import (
	"math"

	"github.com/solidkit/boxcad/kernel"
)

// Triangulation for preview meshes. Quality is fixed: arcs are flattened at
// a constant angular step, which is plenty for an on-screen preview and keeps
// output size bounded.

// arcStep is the maximum angle covered by one flattened arc segment.
const arcStep = math.Pi / 16

// flattenWire samples a closed wire into a planar polygon ring, in traversal
// order, without repeating the closing point.
func flattenWire(w *Wire) [][2]float64 {
	var ring [][2]float64
	for _, e := range w.edges {
		switch e.kind {
		case lineEdge:
			ring = append(ring, [2]float64{e.a.X, e.a.Y})
		case arcEdge:
			start, sweep := arcSweep(e.a, e.m, e.b, e.center)
			steps := int(math.Ceil(math.Abs(sweep)/arcStep)) + 1
			for i := 0; i < steps; i++ {
				t := start + sweep*float64(i)/float64(steps)
				ring = append(ring, [2]float64{
					e.center.X + e.radius*math.Cos(t),
					e.center.Y + e.radius*math.Sin(t),
				})
			}
		case circleEdge:
			const n = 64
			for i := 0; i < n; i++ {
				t := 2 * math.Pi * float64(i) / n
				ring = append(ring, [2]float64{
					e.center.X + e.radius*math.Cos(t),
					e.center.Y + e.radius*math.Sin(t),
				})
			}
		}
	}
	return ring
}

// meshBuilder accumulates vertices and triangles.
type meshBuilder struct {
	m kernel.Mesh
}

func (b *meshBuilder) vertex(x, y, z float64) uint32 {
	i := uint32(len(b.m.Positions) / 3)
	b.m.Positions = append(b.m.Positions, float32(x), float32(y), float32(z))
	return i
}

func (b *meshBuilder) tri(a, c, d uint32) {
	b.m.Indices = append(b.m.Indices, a, c, d)
}

// ringVertices emits one vertex ring at height z and returns the indices.
func (b *meshBuilder) ringVertices(ring [][2]float64, z float64) []uint32 {
	out := make([]uint32, len(ring))
	for i, p := range ring {
		out[i] = b.vertex(p[0], p[1], z)
	}
	return out
}

// walls connects a bottom and top vertex ring with two triangles per segment.
func (b *meshBuilder) walls(bottom, top []uint32) {
	n := len(bottom)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		b.tri(bottom[i], bottom[j], top[j])
		b.tri(bottom[i], top[j], top[i])
	}
}

// fan triangulates a convex cap from its first vertex.
func (b *meshBuilder) fan(ringIdx []uint32) {
	for i := 1; i < len(ringIdx)-1; i++ {
		b.tri(ringIdx[0], ringIdx[i], ringIdx[i+1])
	}
}

// annulus triangulates the area between an outer and an inner ring by
// zippering the two, advancing whichever side lags. The rings may have
// different sample counts.
func (b *meshBuilder) annulus(outer, inner []uint32) {
	no, ni := len(outer), len(inner)
	i, j := 0, 0
	for i < no || j < ni {
		advanceOuter := j >= ni || (i < no && i*ni <= j*no)
		if advanceOuter {
			b.tri(outer[i%no], outer[(i+1)%no], inner[j%ni])
			i++
		} else {
			b.tri(inner[(j+1)%ni], inner[j%ni], outer[i%no])
			j++
		}
	}
}

func (b *meshBuilder) addSolid(s *Solid) {
	outerRing := flattenWire(s.outer)
	ob := b.ringVertices(outerRing, s.base)
	ot := b.ringVertices(outerRing, s.top())
	b.walls(ob, ot)

	if s.cav == nil {
		b.fan(reverse(ob))
		b.fan(ot)
		return
	}

	innerRing := flattenWire(s.cav.wire)
	ib := b.ringVertices(innerRing, s.cav.base)
	it := b.ringVertices(innerRing, s.cav.top())
	b.walls(ib, it)

	// Bottom cap.
	if s.openBottom() {
		b.annulus(reverse(ob), reverse(ib))
	} else {
		b.fan(reverse(ob))
		b.fan(ib)
	}
	// Top cap.
	if s.openTop() {
		b.annulus(ot, it)
	} else {
		b.fan(ot)
		b.fan(reverse(it))
	}
}

func reverse(in []uint32) []uint32 {
	out := make([]uint32, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

// tessellate triangulates the solids into one shared mesh.
func tessellate(solids []*Solid) *kernel.Mesh {
	b := &meshBuilder{}
	for _, s := range solids {
		b.addSolid(s)
	}
	return &b.m
}
