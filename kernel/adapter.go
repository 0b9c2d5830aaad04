package kernel

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"
)

// candidate is one way of asking a kernel build for a primitive: an operation
// name, an optional kernel version range it applies to, and an optional
// argument rewrite for builds whose overload takes a different shape.
type candidate struct {
	op string

	// versions is a semver constraint on the kernel version; empty means the
	// candidate applies to every build.
	versions string

	// rewrite converts the adapter's canonical arguments into the argument
	// list this overload expects. Nil means pass through unchanged.
	rewrite func(args []any) []any
}

// primitive is the ordered candidate list for one abstract operation.
type primitive struct {
	name       string
	candidates []candidate
}

// The candidate tables accumulate every operation spelling observed across
// kernel builds. Order matters: the first candidate that completes without
// error wins and is memoized, so probing is deterministic for a fixed build.
// Entries that no current build implements are kept deliberately; they cost
// one ErrNotSupported round-trip on the first call only.
var primitives = map[string]primitive{
	"point": {name: "point", candidates: []candidate{
		{op: "Point3"},
		{op: "MakePoint"},
	}},
	"direction": {name: "direction", candidates: []candidate{
		{op: "Dir3"},
		{op: "MakeDir"},
	}},
	"vector": {name: "vector", candidates: []candidate{
		{op: "Vec3"},
		{op: "MakeVec"},
	}},
	"axis": {name: "axis", candidates: []candidate{
		{op: "Axis2Placement"},
		{op: "MakeAxis"},
	}},
	"line-edge": {name: "line-edge", candidates: []candidate{
		{op: "MakeSegment"},
		{op: "MakeEdge"},
		{op: "EdgeFromSegment"},
	}},
	"arc-edge": {name: "arc-edge", candidates: []candidate{
		{op: "MakeArc"},
		{op: "MakeArcOfCircle"},
		{op: "ArcEdge3P"},
	}},
	"circle-edge": {name: "circle-edge", candidates: []candidate{
		{op: "MakeCircleEdge"},
		{op: "MakeCircle"},
	}},
	"wire": {name: "wire", candidates: []candidate{
		{op: "MakeWire"},
		{op: "WireFromEdges"},
	}},
	"face": {name: "face", candidates: []candidate{
		{op: "MakeFace"},
		{op: "FaceFromWire"},
	}},
	"prism": {name: "prism", candidates: []candidate{
		{op: "MakePrism"},
		{op: "ExtrudeLinear"},
	}},
	"pipe": {name: "pipe", candidates: []candidate{
		{op: "MakePipeShell"},
		{op: "MakePipe"},
		{op: "SweepAlongSpine"},
	}},
	"cylinder": {name: "cylinder", candidates: []candidate{
		{op: "MakeCylinder"},
		{op: "CylinderPrimitive"},
	}},
	"box": {name: "box", candidates: []candidate{
		{op: "MakeBox"},
		// Older builds take (dx, dy, dz) from the origin instead of two corners.
		{op: "BoxFromExtents", versions: "< 7.0.0", rewrite: func(args []any) []any {
			a := args[0].(XYZ)
			b := args[1].(XYZ)
			return []any{b.X - a.X, b.Y - a.Y, b.Z - a.Z}
		}},
		{op: "BoxFromCorners"},
	}},
	"cut": {name: "cut", candidates: []candidate{
		{op: "BooleanCut"},
		{op: "Cut"},
	}},
	"translate": {name: "translate", candidates: []candidate{
		{op: "Translate"},
		{op: "TransformTranslate"},
	}},
	"compound": {name: "compound", candidates: []candidate{
		{op: "MakeCompound"},
		{op: "Compound"},
	}},
	"writer": {name: "writer", candidates: []candidate{
		{op: "StepWriterLegacy", versions: "< 7.2.0"},
		{op: "WriteStep"},
		{op: "StepWrite"},
	}},
	"tessellate": {name: "tessellate", candidates: []candidate{
		{op: "Tessellate"},
		{op: "IncrementalMesh"},
	}},
}

// exportTargets are the writer output paths attempted in order.
// Export success is defined by reading non-empty bytes back from one of them,
// not by the writer's own return value.
var exportTargets = []string{"/model.step", "/tmp/model.step", "model.step"}

// Adapter resolves the pipeline's primitive operations against one kernel
// instance. It probes the ordered candidate list for each primitive, accepts
// the first operation that completes without error, and memoizes the winner
// so later calls go straight to it.
//
// An Adapter is not safe for concurrent use; the pipeline is single-threaded
// per build by contract.
type Adapter struct {
	k       Kernel
	trace   *Trace
	version *semver.Version
	winners map[string]int
}

// NewAdapter wraps a kernel. The trace may be nil.
func NewAdapter(k Kernel, trace *Trace) *Adapter {
	v, err := semver.NewVersion(k.Version())
	if err != nil {
		// Unknown version: version-gated candidates are skipped.
		trace.Record("adapter", "unparseable kernel version %q: %v", k.Version(), err)
		v = nil
	}
	return &Adapter{
		k:       k,
		trace:   trace,
		version: v,
		winners: make(map[string]int),
	}
}

// Kernel returns the wrapped kernel.
func (a *Adapter) Kernel() Kernel { return a.k }

// Trace returns the diagnostic trace the adapter records into.
func (a *Adapter) Trace() *Trace { return a.trace }

// applies reports whether the candidate's version constraint admits the
// wrapped kernel build.
func (a *Adapter) applies(c candidate) bool {
	if c.versions == "" {
		return true
	}
	if a.version == nil {
		return false
	}
	constraint, err := semver.NewConstraint(c.versions)
	if err != nil {
		return false
	}
	return constraint.Check(a.version)
}

// resolve runs the ordered candidate list for the named primitive.
// The first success is memoized; if every candidate fails the result is a
// *PrimitiveError carrying the operand summary and the current trace.
func (a *Adapter) resolve(prim string, operands string, args ...any) (any, error) {
	p, ok := primitives[prim]
	if !ok {
		return nil, fmt.Errorf("kernel: unknown primitive %q", prim)
	}

	if i, done := a.winners[prim]; done {
		c := p.candidates[i]
		v, err := a.k.Invoke(c.op, rewriteArgs(c, args)...)
		if err != nil {
			a.trace.Record(prim, "memoized %s failed: %v (%s)", c.op, err, operands)
			return nil, &PrimitiveError{
				Primitive: prim,
				Operands:  operands,
				Attempts:  []string{fmt.Sprintf("%s: %v", c.op, err)},
				Trace:     a.trace.Events(),
			}
		}
		return v, nil
	}

	var attempts []string
	for i, c := range p.candidates {
		if !a.applies(c) {
			continue
		}
		v, err := a.k.Invoke(c.op, rewriteArgs(c, args)...)
		if err == nil {
			a.winners[prim] = i
			return v, nil
		}
		attempts = append(attempts, fmt.Sprintf("%s: %v", c.op, err))
		if !errors.Is(err, ErrNotSupported) {
			a.trace.Record(prim, "%s rejected operands: %v (%s)", c.op, err, operands)
		}
	}

	a.trace.Record(prim, "no candidate succeeded (%s)", operands)
	return nil, &PrimitiveError{
		Primitive: prim,
		Operands:  operands,
		Attempts:  attempts,
		Trace:     a.trace.Events(),
	}
}

func rewriteArgs(c candidate, args []any) []any {
	if c.rewrite == nil {
		return args
	}
	return c.rewrite(args)
}

func xyzStr(p XYZ) string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", p.X, p.Y, p.Z)
}

// Point constructs a kernel point.
func (a *Adapter) Point(p XYZ) (Shape, error) {
	v, err := a.resolve("point", xyzStr(p), p)
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// Direction constructs a kernel unit direction.
func (a *Adapter) Direction(d XYZ) (Shape, error) {
	v, err := a.resolve("direction", xyzStr(d), d)
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// Vector constructs a kernel displacement vector.
func (a *Adapter) Vector(d XYZ) (Shape, error) {
	v, err := a.resolve("vector", xyzStr(d), d)
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// Axis constructs an axis frame from an origin and a direction.
func (a *Adapter) Axis(origin, dir XYZ) (Shape, error) {
	v, err := a.resolve("axis", fmt.Sprintf("origin %s dir %s", xyzStr(origin), xyzStr(dir)), origin, dir)
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// LineEdge constructs a straight edge between two points.
func (a *Adapter) LineEdge(p, q XYZ) (Shape, error) {
	v, err := a.resolve("line-edge", fmt.Sprintf("%s -> %s", xyzStr(p), xyzStr(q)), p, q)
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// ArcEdge constructs a circular arc edge through three points: start, a point
// on the arc, and end.
func (a *Adapter) ArcEdge(start, on, end XYZ) (Shape, error) {
	operands := fmt.Sprintf("%s via %s -> %s", xyzStr(start), xyzStr(on), xyzStr(end))
	v, err := a.resolve("arc-edge", operands, start, on, end)
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// CircleEdge constructs a full circular edge around a center in the Z plane.
func (a *Adapter) CircleEdge(center XYZ, radius float64) (Shape, error) {
	operands := fmt.Sprintf("center %s r=%.4g", xyzStr(center), radius)
	v, err := a.resolve("circle-edge", operands, center, radius)
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// Wire assembles an ordered edge list into a wire.
func (a *Adapter) Wire(edges []Shape) (Shape, error) {
	raw := make([]any, len(edges))
	for i, e := range edges {
		raw[i] = e.Raw()
	}
	v, err := a.resolve("wire", fmt.Sprintf("%d edges", len(edges)), raw...)
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// Face builds a planar face from a single closed wire.
func (a *Adapter) Face(wire Shape) (Shape, error) {
	v, err := a.resolve("face", "closed wire", wire.Raw())
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// Prism extrudes a face (or solid) along a vector.
func (a *Adapter) Prism(shape Shape, dir XYZ) (Shape, error) {
	v, err := a.resolve("prism", fmt.Sprintf("sweep %s", xyzStr(dir)), shape.Raw(), dir)
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// Pipe sweeps a profile wire along a spine wire.
func (a *Adapter) Pipe(profile, spine Shape) (Shape, error) {
	v, err := a.resolve("pipe", "wire along spine", profile.Raw(), spine.Raw())
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// Cylinder constructs a right circular cylinder at the origin, axis +Z.
func (a *Adapter) Cylinder(radius, height float64) (Shape, error) {
	v, err := a.resolve("cylinder", fmt.Sprintf("r=%.4g h=%.4g", radius, height), radius, height)
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// Box constructs an axis-aligned box between two opposite corners.
func (a *Adapter) Box(c1, c2 XYZ) (Shape, error) {
	v, err := a.resolve("box", fmt.Sprintf("%s .. %s", xyzStr(c1), xyzStr(c2)), c1, c2)
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// Cut subtracts tool from base. The argument order is fixed: base is always
// the minuend. Some kernel boolean paths are not symmetric in error behavior,
// so callers must never swap the operands to "get the same geometry".
func (a *Adapter) Cut(base, tool Shape) (Shape, error) {
	v, err := a.resolve("cut", "base minus tool", base.Raw(), tool.Raw())
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// Translate rigidly moves a shape by a displacement. The input shape is
// consumed; only the returned handle remains valid.
func (a *Adapter) Translate(shape Shape, d XYZ) (Shape, error) {
	v, err := a.resolve("translate", fmt.Sprintf("by %s", xyzStr(d)), shape.Raw(), d)
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// Compound groups independent solids into one body for joint export.
// The solids are not fused; each remains independently extractable.
func (a *Adapter) Compound(solids []Shape) (Shape, error) {
	raw := make([]any, len(solids))
	for i, s := range solids {
		raw[i] = s.Raw()
	}
	v, err := a.resolve("compound", fmt.Sprintf("%d solids", len(solids)), raw...)
	if err != nil {
		return Shape{}, err
	}
	return WrapShape(v), nil
}

// Tessellate triangulates a shape for preview.
func (a *Adapter) Tessellate(shape Shape) (*Mesh, error) {
	v, err := a.resolve("tessellate", "shape", shape.Raw())
	if err != nil {
		return nil, err
	}
	m, ok := v.(*Mesh)
	if !ok {
		return nil, fmt.Errorf("kernel: tessellate returned %T, want *Mesh", v)
	}
	return m, nil
}

// WriteExchange drives the kernel's exchange writer and reads the result
// back from the kernel filesystem. The writer's own return value is not
// trusted: success means a non-empty byte buffer was read back. Each target
// path is tried in order before the export is declared failed.
func (a *Adapter) WriteExchange(shape Shape) ([]byte, error) {
	var lastErr error
	fs := a.k.FS()
	for _, target := range exportTargets {
		_, err := a.resolve("writer", "shape -> "+target, shape.Raw(), target)
		if err != nil {
			lastErr = err
			continue
		}
		data, err := afero.ReadFile(fs, target)
		if err != nil {
			a.trace.Record("writer", "wrote %s but read-back failed: %v", target, err)
			lastErr = err
			continue
		}
		_ = fs.Remove(target)
		if len(data) == 0 {
			a.trace.Record("writer", "wrote %s but read back 0 bytes", target)
			continue
		}
		return data, nil
	}
	return nil, &ExportError{Targets: exportTargets, Err: lastErr}
}
