package occt

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/solidkit/boxcad/kernel"
)

// STEP (ISO 10303-21, AP214) writer for prism solids with optional coaxial
// cavities. Output is deterministic: identical solids serialize to identical
// bytes, which is what makes repeated exports of the same parameters
// byte-comparable.

// stepFile accumulates numbered entity instances for the DATA section.
type stepFile struct {
	entries []string
	n       int
}

// ent appends one entity instance and returns its id.
func (f *stepFile) ent(body string) int {
	f.n++
	f.entries = append(f.entries, fmt.Sprintf("#%d = %s;", f.n, body))
	return f.n
}

// num formats a float in STEP real syntax (a decimal point is mandatory).
func num(v float64) string {
	if v == 0 {
		v = 0 // normalize -0
	}
	s := strconv.FormatFloat(v, 'g', 10, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += "."
	}
	return s
}

func (f *stepFile) point(p kernel.XYZ) int {
	return f.ent(fmt.Sprintf("CARTESIAN_POINT('',(%s,%s,%s))", num(p.X), num(p.Y), num(p.Z)))
}

func (f *stepFile) dir(x, y, z float64) int {
	return f.ent(fmt.Sprintf("DIRECTION('',(%s,%s,%s))", num(x), num(y), num(z)))
}

func (f *stepFile) axis2(origin kernel.XYZ, ax, ref [3]float64) int {
	o := f.point(origin)
	a := f.dir(ax[0], ax[1], ax[2])
	r := f.dir(ref[0], ref[1], ref[2])
	return f.ent(fmt.Sprintf("AXIS2_PLACEMENT_3D('',#%d,#%d,#%d)", o, a, r))
}

func (f *stepFile) vertex(p kernel.XYZ) int {
	return f.ent(fmt.Sprintf("VERTEX_POINT('',#%d)", f.point(p)))
}

func (f *stepFile) line(p kernel.XYZ, dx, dy, dz float64) int {
	pt := f.point(p)
	v := f.ent(fmt.Sprintf("VECTOR('',#%d,1.)", f.dir(dx, dy, dz)))
	return f.ent(fmt.Sprintf("LINE('',#%d,#%d)", pt, v))
}

func (f *stepFile) circle(center kernel.XYZ, radius float64) int {
	ax := f.axis2(center, [3]float64{0, 0, 1}, [3]float64{1, 0, 0})
	return f.ent(fmt.Sprintf("CIRCLE('',#%d,%s)", ax, num(radius)))
}

func (f *stepFile) edgeCurve(v1, v2, curve int) int {
	return f.ent(fmt.Sprintf("EDGE_CURVE('',#%d,#%d,#%d,.T.)", v1, v2, curve))
}

func (f *stepFile) orientedEdge(edge int, forward bool) int {
	o := ".T."
	if !forward {
		o = ".F."
	}
	return f.ent(fmt.Sprintf("ORIENTED_EDGE('',*,*,#%d,%s)", edge, o))
}

func (f *stepFile) edgeLoop(oriented []int) int {
	return f.ent(fmt.Sprintf("EDGE_LOOP('',(%s))", refs(oriented)))
}

func (f *stepFile) plane(origin kernel.XYZ, normal, ref [3]float64) int {
	return f.ent(fmt.Sprintf("PLANE('',#%d)", f.axis2(origin, normal, ref)))
}

func (f *stepFile) cylSurface(center kernel.XYZ, radius float64) int {
	ax := f.axis2(center, [3]float64{0, 0, 1}, [3]float64{1, 0, 0})
	return f.ent(fmt.Sprintf("CYLINDRICAL_SURFACE('',#%d,%s)", ax, num(radius)))
}

// advFace writes an ADVANCED_FACE with one outer bound and optional holes.
func (f *stepFile) advFace(outerLoop int, holes []int, surface int, sameSense bool) int {
	bounds := []int{f.ent(fmt.Sprintf("FACE_OUTER_BOUND('',#%d,.T.)", outerLoop))}
	for _, h := range holes {
		bounds = append(bounds, f.ent(fmt.Sprintf("FACE_BOUND('',#%d,.T.)", h)))
	}
	sense := ".T."
	if !sameSense {
		sense = ".F."
	}
	return f.ent(fmt.Sprintf("ADVANCED_FACE('',(%s),#%d,%s)", refs(bounds), surface, sense))
}

func refs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "#" + strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// ring holds the entity ids generated for one extruded profile wire: the
// boundary edges of both caps and the lateral faces between them.
type ring struct {
	bottomEdges []int
	topEdges    []int
	sideFaces   []int
}

func at(p kernel.XYZ, z float64) kernel.XYZ {
	return kernel.XYZ{X: p.X, Y: p.Y, Z: z}
}

// buildRing emits vertices, edges and lateral faces for wire w extruded from
// z0 to z1. outward selects the material side of the lateral surfaces.
func (f *stepFile) buildRing(w *Wire, z0, z1 float64, outward bool) *ring {
	n := len(w.edges)
	vb := make([]int, n)
	vt := make([]int, n)
	for i, e := range w.edges {
		vb[i] = f.vertex(at(e.start(), z0))
		vt[i] = f.vertex(at(e.start(), z1))
	}

	r := &ring{}
	sideEdges := make([]int, n)
	for i, e := range w.edges {
		p := at(e.start(), z0)
		sideEdges[i] = f.edgeCurve(vb[i], vt[i], f.line(p, 0, 0, 1))
	}

	for i, e := range w.edges {
		next := (i + 1) % n
		var bottomCurve, topCurve, surf int
		switch e.kind {
		case lineEdge:
			dx, dy := e.b.X-e.a.X, e.b.Y-e.a.Y
			l := math.Hypot(dx, dy)
			bottomCurve = f.line(at(e.a, z0), dx/l, dy/l, 0)
			topCurve = f.line(at(e.a, z1), dx/l, dy/l, 0)
			// Outward normal of a clockwise-traversed profile segment.
			surf = f.plane(at(e.a, z0), [3]float64{dy / l, -dx / l, 0}, [3]float64{0, 0, 1})
		default:
			bottomCurve = f.circle(at(e.center, z0), e.radius)
			topCurve = f.circle(at(e.center, z1), e.radius)
			surf = f.cylSurface(at(e.center, z0), e.radius)
		}
		bottom := f.edgeCurve(vb[i], vb[next], bottomCurve)
		top := f.edgeCurve(vt[i], vt[next], topCurve)
		r.bottomEdges = append(r.bottomEdges, bottom)
		r.topEdges = append(r.topEdges, top)

		loop := f.edgeLoop([]int{
			f.orientedEdge(bottom, true),
			f.orientedEdge(sideEdges[next], true),
			f.orientedEdge(top, false),
			f.orientedEdge(sideEdges[i], false),
		})
		r.sideFaces = append(r.sideFaces, f.advFace(loop, nil, surf, outward))
	}
	return r
}

// cap writes a planar cap face at height z. edges bound the outside of the
// face; each entry in holes bounds a cavity opening through the cap. up
// selects the face normal (+Z for top caps, -Z for bottom caps).
func (f *stepFile) cap(edges []int, holes [][]int, z float64, up bool) int {
	outer := make([]int, len(edges))
	for i, e := range edges {
		outer[i] = f.orientedEdge(e, up)
	}
	var holeLoops []int
	for _, h := range holes {
		hl := make([]int, len(h))
		for i, e := range h {
			hl[i] = f.orientedEdge(e, !up)
		}
		holeLoops = append(holeLoops, f.edgeLoop(hl))
	}
	normal := [3]float64{0, 0, 1}
	if !up {
		normal = [3]float64{0, 0, -1}
	}
	surf := f.plane(kernel.XYZ{Z: z}, normal, [3]float64{1, 0, 0})
	return f.advFace(f.edgeLoop(outer), holeLoops, surf, true)
}

// writeSolid emits one solid and returns the id of its MANIFOLD_SOLID_BREP
// (or BREP_WITH_VOIDS for a fully enclosed cavity).
func (f *stepFile) writeSolid(s *Solid) int {
	outer := f.buildRing(s.outer, s.base, s.top(), true)

	switch {
	case s.cav == nil:
		faces := append([]int{}, outer.sideFaces...)
		faces = append(faces,
			f.cap(outer.bottomEdges, nil, s.base, false),
			f.cap(outer.topEdges, nil, s.top(), true))
		shell := f.ent(fmt.Sprintf("CLOSED_SHELL('',(%s))", refs(faces)))
		return f.ent(fmt.Sprintf("MANIFOLD_SOLID_BREP('',#%d)", shell))

	case s.openTop() || s.openBottom():
		inner := f.buildRing(s.cav.wire, s.cav.base, s.cav.top(), false)
		faces := append([]int{}, outer.sideFaces...)
		faces = append(faces, inner.sideFaces...)
		if s.openTop() {
			faces = append(faces,
				f.cap(outer.bottomEdges, nil, s.base, false),
				f.cap(outer.topEdges, [][]int{inner.topEdges}, s.top(), true),
				f.cap(inner.bottomEdges, nil, s.cav.base, true))
		} else {
			faces = append(faces,
				f.cap(outer.topEdges, nil, s.top(), true),
				f.cap(outer.bottomEdges, [][]int{inner.bottomEdges}, s.base, false),
				f.cap(inner.topEdges, nil, s.cav.top(), false))
		}
		shell := f.ent(fmt.Sprintf("CLOSED_SHELL('',(%s))", refs(faces)))
		return f.ent(fmt.Sprintf("MANIFOLD_SOLID_BREP('',#%d)", shell))

	default:
		// Fully enclosed cavity: an internal void shell.
		inner := f.buildRing(s.cav.wire, s.cav.base, s.cav.top(), false)
		outerFaces := append([]int{}, outer.sideFaces...)
		outerFaces = append(outerFaces,
			f.cap(outer.bottomEdges, nil, s.base, false),
			f.cap(outer.topEdges, nil, s.top(), true))
		outerShell := f.ent(fmt.Sprintf("CLOSED_SHELL('',(%s))", refs(outerFaces)))

		innerFaces := append([]int{}, inner.sideFaces...)
		innerFaces = append(innerFaces,
			f.cap(inner.bottomEdges, nil, s.cav.base, true),
			f.cap(inner.topEdges, nil, s.cav.top(), false))
		innerShell := f.ent(fmt.Sprintf("CLOSED_SHELL('',(%s))", refs(innerFaces)))
		void := f.ent(fmt.Sprintf("ORIENTED_CLOSED_SHELL('',*,#%d,.F.)", innerShell))
		return f.ent(fmt.Sprintf("BREP_WITH_VOIDS('',#%d,(#%d))", outerShell, void))
	}
}

// writeStep serializes the solids as one AP214 file.
func writeStep(solids []*Solid) ([]byte, error) {
	if len(solids) == 0 {
		return nil, fmt.Errorf("no solids to write")
	}

	f := &stepFile{}

	mm := f.ent("( LENGTH_UNIT() NAMED_UNIT(*) SI_UNIT(.MILLI.,.METRE.) )")
	uncertainty := f.ent(fmt.Sprintf("UNCERTAINTY_MEASURE_WITH_UNIT(LENGTH_MEASURE(1.E-07),#%d,'distance_accuracy_value','')", mm))
	rad := f.ent("( NAMED_UNIT(*) PLANE_ANGLE_UNIT() SI_UNIT($,.RADIAN.) )")
	sr := f.ent("( NAMED_UNIT(*) SI_UNIT($,.STERADIAN.) SOLID_ANGLE_UNIT() )")
	ctx := f.ent(fmt.Sprintf(
		"( GEOMETRIC_REPRESENTATION_CONTEXT(3) GLOBAL_UNCERTAINTY_ASSIGNED_CONTEXT((#%d)) GLOBAL_UNIT_ASSIGNED_CONTEXT((#%d,#%d,#%d)) REPRESENTATION_CONTEXT('boxcad','3D') )",
		uncertainty, mm, rad, sr))

	items := []int{f.axis2(kernel.XYZ{}, [3]float64{0, 0, 1}, [3]float64{1, 0, 0})}
	for _, s := range solids {
		items = append(items, f.writeSolid(s))
	}
	f.ent(fmt.Sprintf("ADVANCED_BREP_SHAPE_REPRESENTATION('boxcad',(%s),#%d)", refs(items), ctx))

	var buf bytes.Buffer
	buf.WriteString("ISO-10303-21;\n")
	buf.WriteString("HEADER;\n")
	buf.WriteString("FILE_DESCRIPTION(('boxcad model'),'2;1');\n")
	// Fixed timestamp: export output must be reproducible byte-for-byte.
	buf.WriteString("FILE_NAME('model.step','1970-01-01T00:00:00',(''),(''),'boxcad','boxcad','');\n")
	buf.WriteString("FILE_SCHEMA(('AUTOMOTIVE_DESIGN { 1 0 10303 214 1 1 1 1 }'));\n")
	buf.WriteString("ENDSEC;\n")
	buf.WriteString("DATA;\n")
	for _, e := range f.entries {
		buf.WriteString(e)
		buf.WriteByte('\n')
	}
	buf.WriteString("ENDSEC;\n")
	buf.WriteString("END-ISO-10303-21;\n")
	return buf.Bytes(), nil
}
