// Package occt is the builtin geometry kernel: an embedded port of an
// OCC-style BREP kernel reduced to the capability surface the synthesis
// pipeline consumes (planar profile edges and wires, prism extrusion,
// coaxial boolean cut, rigid translation, compounding, a STEP writer and a
// triangle tessellator).
//
// The kernel is reached only through its Invoke dispatch table, which keeps
// the operation spellings its several upstream API generations used. The
// adapter in package kernel probes those spellings; this package never
// guarantees any particular one.
//
// Importing the package registers the kernel:
//
//	import _ "github.com/solidkit/boxcad/kernel/occt"
package occt

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/spf13/afero"

	"github.com/solidkit/boxcad/kernel"
)

// buildVersion is the kernel build this port tracks. The adapter gates
// version-specific candidates on it.
const buildVersion = "7.8.1"

func init() {
	kernel.Register(New())
}

// OCCT is the builtin kernel instance.
type OCCT struct {
	ops    map[string]opFunc
	fs     afero.Fs
	logger atomic.Pointer[slog.Logger]
}

type opFunc func(k *OCCT, args []any) (any, error)

// New returns an uninitialized kernel. Most callers rely on the instance
// registered by the package init instead.
func New() *OCCT {
	k := &OCCT{}
	k.logger.Store(nopLogger())
	return k
}

func nopLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

// SetLogger installs a logger. Called by the kernel registry when the
// application configures logging.
func (k *OCCT) SetLogger(l *slog.Logger) {
	if l == nil {
		l = nopLogger()
	}
	k.logger.Store(l)
}

func (k *OCCT) log() *slog.Logger { return k.logger.Load() }

// Name implements kernel.Kernel.
func (k *OCCT) Name() string { return "occt" }

// Version implements kernel.Kernel.
func (k *OCCT) Version() string { return buildVersion }

// Init builds the dispatch table and the transient filesystem the exchange
// writer addresses.
func (k *OCCT) Init() error {
	k.fs = afero.NewMemMapFs()
	k.ops = dispatchTable()
	k.log().Info("occt kernel initialized", "version", buildVersion, "ops", len(k.ops))
	return nil
}

// Close implements kernel.Kernel.
func (k *OCCT) Close() {
	k.ops = nil
	k.fs = nil
}

// FS returns the transient in-memory filesystem for exchange output.
func (k *OCCT) FS() afero.Fs { return k.fs }

// Invoke implements kernel.Kernel.
func (k *OCCT) Invoke(op string, args ...any) (any, error) {
	fn, ok := k.ops[op]
	if !ok {
		return nil, fmt.Errorf("%w: %s", kernel.ErrNotSupported, op)
	}
	v, err := fn(k, args)
	if err != nil {
		k.log().Debug("op failed", "op", op, "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// dispatchTable maps every operation spelling, current and historical, to its
// implementation. Aliases from older API generations dispatch to the same
// handler so existing callers keep working across builds.
func dispatchTable() map[string]opFunc {
	table := map[string]opFunc{
		"Point3":          opPoint,
		"Dir3":            opDir,
		"Vec3":            opPoint, // a raw displacement triple, same layout
		"Axis2Placement":  opAxis,
		"MakeEdge":        opLineEdge,
		"MakeArcOfCircle": opArcEdge,
		"MakeCircleEdge":  opCircleEdge,
		"MakeWire":        opWire,
		"MakeFace":        opFace,
		"MakePrism":       opPrism,
		"MakePipe":        opPipe,
		"MakeCylinder":    opCylinder,
		"MakeBox":         opBox,
		"BooleanCut":      opCut,
		"Translate":       opTranslate,
		"MakeCompound":    opCompound,
		"WriteStep":       opWriteStep,
		"Tessellate":      opTessellate,
	}
	aliases := map[string]string{
		"MakePoint":          "Point3",
		"MakeDir":            "Dir3",
		"MakeVec":            "Vec3",
		"MakeAxis":           "Axis2Placement",
		"EdgeFromSegment":    "MakeEdge",
		"ArcEdge3P":          "MakeArcOfCircle",
		"MakeCircle":         "MakeCircleEdge",
		"WireFromEdges":      "MakeWire",
		"FaceFromWire":       "MakeFace",
		"ExtrudeLinear":      "MakePrism",
		"SweepAlongSpine":    "MakePipe",
		"CylinderPrimitive":  "MakeCylinder",
		"BoxFromCorners":     "MakeBox",
		"Cut":                "BooleanCut",
		"TransformTranslate": "Translate",
		"Compound":           "MakeCompound",
		"StepWrite":          "WriteStep",
		"IncrementalMesh":    "Tessellate",
	}
	for alias, canonical := range aliases {
		table[alias] = table[canonical]
	}
	return table
}

func wantXYZ(args []any, i int) (kernel.XYZ, error) {
	if i >= len(args) {
		return kernel.XYZ{}, fmt.Errorf("missing argument %d", i)
	}
	p, ok := args[i].(kernel.XYZ)
	if !ok {
		return kernel.XYZ{}, fmt.Errorf("argument %d: want XYZ, got %T", i, args[i])
	}
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) ||
		math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) || math.IsInf(p.Z, 0) {
		return kernel.XYZ{}, fmt.Errorf("argument %d: non-finite coordinates", i)
	}
	return p, nil
}

func wantFloat(args []any, i int) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument %d", i)
	}
	f, ok := args[i].(float64)
	if !ok {
		return 0, fmt.Errorf("argument %d: want float64, got %T", i, args[i])
	}
	return f, nil
}

func opPoint(_ *OCCT, args []any) (any, error) {
	return wantXYZ(args, 0)
}

func opDir(_ *OCCT, args []any) (any, error) {
	d, err := wantXYZ(args, 0)
	if err != nil {
		return nil, err
	}
	n := math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
	if n == 0 {
		return nil, fmt.Errorf("zero-length direction")
	}
	return kernel.XYZ{X: d.X / n, Y: d.Y / n, Z: d.Z / n}, nil
}

type axis struct {
	origin, dir kernel.XYZ
}

func opAxis(k *OCCT, args []any) (any, error) {
	origin, err := wantXYZ(args, 0)
	if err != nil {
		return nil, err
	}
	rawDir, err := opDir(k, args[1:])
	if err != nil {
		return nil, err
	}
	return axis{origin: origin, dir: rawDir.(kernel.XYZ)}, nil
}

func opLineEdge(_ *OCCT, args []any) (any, error) {
	a, err := wantXYZ(args, 0)
	if err != nil {
		return nil, err
	}
	b, err := wantXYZ(args, 1)
	if err != nil {
		return nil, err
	}
	if dist(a, b) < tol {
		return nil, fmt.Errorf("degenerate segment at %v", a)
	}
	return &Edge{kind: lineEdge, a: a, b: b}, nil
}

func opArcEdge(_ *OCCT, args []any) (any, error) {
	a, err := wantXYZ(args, 0)
	if err != nil {
		return nil, err
	}
	m, err := wantXYZ(args, 1)
	if err != nil {
		return nil, err
	}
	b, err := wantXYZ(args, 2)
	if err != nil {
		return nil, err
	}
	c, r, err := arcCenter(a, m, b)
	if err != nil {
		return nil, err
	}
	if r < tol {
		return nil, fmt.Errorf("degenerate arc radius %g", r)
	}
	return &Edge{kind: arcEdge, a: a, m: m, b: b, center: c, radius: r}, nil
}

func opCircleEdge(_ *OCCT, args []any) (any, error) {
	c, err := wantXYZ(args, 0)
	if err != nil {
		return nil, err
	}
	r, err := wantFloat(args, 1)
	if err != nil {
		return nil, err
	}
	if r <= 0 {
		return nil, fmt.Errorf("non-positive radius %g", r)
	}
	return &Edge{kind: circleEdge, center: c, radius: r}, nil
}

func opWire(_ *OCCT, args []any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("empty edge list")
	}
	w := &Wire{edges: make([]*Edge, 0, len(args))}
	for i, raw := range args {
		e, ok := raw.(*Edge)
		if !ok {
			return nil, fmt.Errorf("argument %d: want *Edge, got %T", i, raw)
		}
		w.edges = append(w.edges, e)
	}
	return w, nil
}

func opFace(_ *OCCT, args []any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing wire")
	}
	w, ok := args[0].(*Wire)
	if !ok {
		return nil, fmt.Errorf("want *Wire, got %T", args[0])
	}
	if !w.closed() {
		return nil, fmt.Errorf("wire is not closed")
	}
	return &Face{outer: w}, nil
}

func opPrism(_ *OCCT, args []any) (any, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("want face and sweep vector")
	}
	f, ok := args[0].(*Face)
	if !ok {
		return nil, fmt.Errorf("want *Face, got %T", args[0])
	}
	v, err := wantXYZ(args, 1)
	if err != nil {
		return nil, err
	}
	if math.Abs(v.X) > tol || math.Abs(v.Y) > tol || v.Z <= tol {
		return nil, fmt.Errorf("sweep vector must be +Z, got (%g, %g, %g)", v.X, v.Y, v.Z)
	}
	return &Solid{outer: f.outer, base: f.outer.z(), height: v.Z}, nil
}

func opPipe(_ *OCCT, args []any) (any, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("want profile wire and spine wire")
	}
	profile, ok := args[0].(*Wire)
	if !ok {
		return nil, fmt.Errorf("want profile *Wire, got %T", args[0])
	}
	if !profile.closed() {
		return nil, fmt.Errorf("profile wire is not closed")
	}
	spine, ok := args[1].(*Wire)
	if !ok {
		return nil, fmt.Errorf("want spine *Wire, got %T", args[1])
	}
	if len(spine.edges) != 1 || spine.edges[0].kind != lineEdge {
		return nil, fmt.Errorf("spine must be a single straight edge")
	}
	se := spine.edges[0]
	if math.Abs(se.b.X-se.a.X) > tol || math.Abs(se.b.Y-se.a.Y) > tol || se.b.Z <= se.a.Z {
		return nil, fmt.Errorf("spine must run along +Z")
	}
	return &Solid{outer: profile, base: profile.z(), height: se.b.Z - se.a.Z}, nil
}

func opCylinder(_ *OCCT, args []any) (any, error) {
	r, err := wantFloat(args, 0)
	if err != nil {
		return nil, err
	}
	h, err := wantFloat(args, 1)
	if err != nil {
		return nil, err
	}
	if r <= 0 || h <= 0 {
		return nil, fmt.Errorf("non-positive cylinder r=%g h=%g", r, h)
	}
	ring := &Wire{edges: []*Edge{{kind: circleEdge, center: kernel.XYZ{}, radius: r}}}
	return &Solid{outer: ring, base: 0, height: h}, nil
}

func opBox(_ *OCCT, args []any) (any, error) {
	a, err := wantXYZ(args, 0)
	if err != nil {
		return nil, err
	}
	b, err := wantXYZ(args, 1)
	if err != nil {
		return nil, err
	}
	if b.X <= a.X || b.Y <= a.Y || b.Z <= a.Z {
		return nil, fmt.Errorf("degenerate box corners %v .. %v", a, b)
	}
	w := &Wire{edges: []*Edge{
		{kind: lineEdge, a: kernel.XYZ{X: a.X, Y: a.Y, Z: a.Z}, b: kernel.XYZ{X: b.X, Y: a.Y, Z: a.Z}},
		{kind: lineEdge, a: kernel.XYZ{X: b.X, Y: a.Y, Z: a.Z}, b: kernel.XYZ{X: b.X, Y: b.Y, Z: a.Z}},
		{kind: lineEdge, a: kernel.XYZ{X: b.X, Y: b.Y, Z: a.Z}, b: kernel.XYZ{X: a.X, Y: b.Y, Z: a.Z}},
		{kind: lineEdge, a: kernel.XYZ{X: a.X, Y: b.Y, Z: a.Z}, b: kernel.XYZ{X: a.X, Y: a.Y, Z: a.Z}},
	}}
	return &Solid{outer: w, base: a.Z, height: b.Z - a.Z}, nil
}

func opCut(_ *OCCT, args []any) (any, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("want base and tool solids")
	}
	base, ok := args[0].(*Solid)
	if !ok {
		return nil, fmt.Errorf("want base *Solid, got %T", args[0])
	}
	tool, ok := args[1].(*Solid)
	if !ok {
		return nil, fmt.Errorf("want tool *Solid, got %T", args[1])
	}
	return cut(base, tool)
}

func opTranslate(_ *OCCT, args []any) (any, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("want solid and displacement")
	}
	s, ok := args[0].(*Solid)
	if !ok {
		return nil, fmt.Errorf("want *Solid, got %T", args[0])
	}
	d, err := wantXYZ(args, 1)
	if err != nil {
		return nil, err
	}
	return s.translated(d), nil
}

func opCompound(_ *OCCT, args []any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("empty solid list")
	}
	c := &Compound{solids: make([]*Solid, 0, len(args))}
	for i, raw := range args {
		s, ok := raw.(*Solid)
		if !ok {
			return nil, fmt.Errorf("argument %d: want *Solid, got %T", i, raw)
		}
		c.solids = append(c.solids, s)
	}
	return c, nil
}

func solidsOf(v any) ([]*Solid, error) {
	switch s := v.(type) {
	case *Solid:
		return []*Solid{s}, nil
	case *Compound:
		return s.solids, nil
	default:
		return nil, fmt.Errorf("want *Solid or *Compound, got %T", v)
	}
}

func opWriteStep(k *OCCT, args []any) (any, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("want shape and target path")
	}
	solids, err := solidsOf(args[0])
	if err != nil {
		return nil, err
	}
	path, ok := args[1].(string)
	if !ok {
		return nil, fmt.Errorf("want target path string, got %T", args[1])
	}
	data, err := writeStep(solids)
	if err != nil {
		return nil, err
	}
	if err := afero.WriteFile(k.fs, path, data, 0o644); err != nil {
		return nil, err
	}
	k.log().Debug("step written", "path", path, "bytes", len(data), "solids", len(solids))
	return len(data), nil
}

func opTessellate(_ *OCCT, args []any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing shape")
	}
	solids, err := solidsOf(args[0])
	if err != nil {
		return nil, err
	}
	return tessellate(solids), nil
}
