package boxcad

import (
	"bytes"
	"testing"

	"github.com/solidkit/boxcad/kernel/occt"
)

func boxParams() Params {
	return Params{
		Shape:        ShapeBox,
		InsideWidth:  40,
		InsideDepth:  30,
		InsideHeight: 20,
		Mode:         ThicknessUniform,
		Thickness:    2,
	}
}

func solidCount(t *testing.T, data []byte) int {
	t.Helper()
	n, err := occt.CountSolids(data)
	if err != nil {
		t.Fatalf("CountSolids: %v", err)
	}
	return n
}

func TestBuildModelBaseOnly(t *testing.T) {
	data, err := BuildModel(boxParams())
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("BuildModel returned no bytes")
	}
	if !bytes.HasPrefix(data, []byte("ISO-10303-21")) {
		t.Errorf("output does not start with the STEP magic: %q", data[:min(len(data), 20)])
	}
	if n := solidCount(t, data); n != 1 {
		t.Errorf("solid count = %d, want 1", n)
	}
}

func TestBuildModelWithLid(t *testing.T) {
	p := boxParams()
	p.IncludeLid = true
	p.Clearance = 0.2

	data, err := BuildModel(p)
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}
	if n := solidCount(t, data); n != 2 {
		t.Errorf("solid count = %d, want 2 (base and lid)", n)
	}
}

func TestBuildModelRoundedCorners(t *testing.T) {
	p := boxParams()
	p.IncludeInsideRadius = true
	p.InsideRadius = 3

	data, err := BuildModel(p)
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}
	if n := solidCount(t, data); n != 1 {
		t.Errorf("solid count = %d, want 1", n)
	}
}

func TestBuildModelOversizedRadius(t *testing.T) {
	// An oversized radius clamps instead of failing the build.
	p := Params{
		Shape:               ShapeBox,
		InsideWidth:         10,
		InsideDepth:         10,
		InsideHeight:        20,
		IncludeInsideRadius: true,
		InsideRadius:        20,
		Mode:                ThicknessUniform,
		Thickness:           2,
	}
	data, err := BuildModel(p)
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}
	if n := solidCount(t, data); n != 1 {
		t.Errorf("solid count = %d, want 1", n)
	}
}

func TestBuildModelCylinder(t *testing.T) {
	p := Params{
		Shape:        ShapeCylinder,
		InsideWidth:  30,
		InsideHeight: 20,
		Mode:         ThicknessUniform,
		Thickness:    2,
	}
	data, err := BuildModel(p)
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}
	if n := solidCount(t, data); n != 1 {
		t.Errorf("solid count = %d, want 1", n)
	}

	p.IncludeLid = true
	p.Clearance = 0.2
	data, err = BuildModel(p)
	if err != nil {
		t.Fatalf("BuildModel with lid: %v", err)
	}
	if n := solidCount(t, data); n != 2 {
		t.Errorf("solid count with lid = %d, want 2", n)
	}
}

func TestBuildModelCustomThickness(t *testing.T) {
	p := boxParams()
	p.Mode = ThicknessCustom
	p.WallThickness = 1.5
	p.TopThickness = 3
	p.BottomThickness = 1

	data, err := BuildModel(p)
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}
	if n := solidCount(t, data); n != 1 {
		t.Errorf("solid count = %d, want 1", n)
	}
}

func TestBuildModelIdempotent(t *testing.T) {
	p := boxParams()
	p.IncludeLid = true
	p.Clearance = 0.2
	p.IncludeInsideRadius = true
	p.InsideRadius = 3

	first, err := BuildModel(p)
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	second, err := BuildModel(p)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("repeated builds of identical parameters differ byte-for-byte")
	}
}

func TestBuildModelInvalidParams(t *testing.T) {
	p := boxParams()
	p.InsideWidth = 0
	if _, err := BuildModel(p); err == nil {
		t.Error("BuildModel = nil error for zero width")
	}
}

func TestBuildModelWithMesh(t *testing.T) {
	p := boxParams()
	p.IncludeLid = true
	p.Clearance = 0.2

	data, mesh, err := BuildModelWithMesh(p)
	if err != nil {
		t.Fatalf("BuildModelWithMesh: %v", err)
	}
	if n := solidCount(t, data); n != 2 {
		t.Errorf("solid count = %d, want 2", n)
	}
	if mesh == nil {
		t.Fatal("mesh is nil")
	}
	if len(mesh.Positions)%3 != 0 {
		t.Errorf("positions length %d is not a multiple of 3", len(mesh.Positions))
	}
	if len(mesh.Indices) == 0 || len(mesh.Indices)%3 != 0 {
		t.Fatalf("index count %d is not a positive multiple of 3", len(mesh.Indices))
	}
	vertexCount := uint32(len(mesh.Positions) / 3)
	for i, idx := range mesh.Indices {
		if idx >= vertexCount {
			t.Fatalf("index %d at %d out of range (%d vertices)", idx, i, vertexCount)
		}
	}
}

// meshExtent returns the min and max coordinate along the given axis
// (0 = X, 1 = Y, 2 = Z) across all mesh vertices.
func meshExtent(t *testing.T, m *Mesh, axis int) (float64, float64) {
	t.Helper()
	if m == nil || len(m.Positions) < 3 {
		t.Fatal("mesh has no vertices")
	}
	min, max := float64(m.Positions[axis]), float64(m.Positions[axis])
	for i := axis; i < len(m.Positions); i += 3 {
		v := float64(m.Positions[i])
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func TestBuildModelNoLidHeight(t *testing.T) {
	// Without a lid the base is capped: its height is the inside height
	// plus both the bottom and the top wall.
	_, mesh, err := BuildModelWithMesh(boxParams())
	if err != nil {
		t.Fatalf("BuildModelWithMesh: %v", err)
	}
	minZ, maxZ := meshExtent(t, mesh, 2)
	if minZ != 0 {
		t.Errorf("min Z = %g, want 0", minZ)
	}
	if want := 20.0 + 2 + 2; maxZ != want {
		t.Errorf("max Z = %g, want %g", maxZ, want)
	}
}

func TestBuildModelFootprint(t *testing.T) {
	// Outer footprint minus twice the wall recovers the inside footprint.
	p := boxParams()
	_, mesh, err := BuildModelWithMesh(p)
	if err != nil {
		t.Fatalf("BuildModelWithMesh: %v", err)
	}
	const eps = 1e-3
	minX, maxX := meshExtent(t, mesh, 0)
	if got := (maxX - minX) - 2*2; got < p.InsideWidth-eps || got > p.InsideWidth+eps {
		t.Errorf("outer width - 2*wall = %g, want %g", got, p.InsideWidth)
	}
	minY, maxY := meshExtent(t, mesh, 1)
	if got := (maxY - minY) - 2*2; got < p.InsideDepth-eps || got > p.InsideDepth+eps {
		t.Errorf("outer depth - 2*wall = %g, want %g", got, p.InsideDepth)
	}
}

func TestBuildModelLidClearance(t *testing.T) {
	// The lid cavity is the base's outer footprint grown by the clearance
	// on every side. With the lid recentered over the base, the assembly's
	// X span is the inside width plus four walls plus twice the clearance,
	// and its minimum X sits at -(wall + clearance). Clearance zero is a
	// legal flush fit.
	for _, clearance := range []float64{0, 0.2, 1.5} {
		p := boxParams()
		p.IncludeLid = true
		p.Clearance = clearance

		data, mesh, err := BuildModelWithMesh(p)
		if err != nil {
			t.Fatalf("clearance %g: BuildModelWithMesh: %v", clearance, err)
		}
		if n := solidCount(t, data); n != 2 {
			t.Errorf("clearance %g: solid count = %d, want 2", clearance, n)
		}

		const eps = 1e-3
		wall := 2.0
		minX, maxX := meshExtent(t, mesh, 0)
		if want := -(wall + clearance); minX < want-eps || minX > want+eps {
			t.Errorf("clearance %g: min X = %g, want %g", clearance, minX, want)
		}
		if want := p.InsideWidth + 4*wall + 2*clearance; (maxX-minX) < want-eps || (maxX-minX) > want+eps {
			t.Errorf("clearance %g: X span = %g, want %g", clearance, maxX-minX, want)
		}
	}
}

func TestBuildInnerCavityOnly(t *testing.T) {
	p := boxParams()
	p.IncludeInsideRadius = true
	p.InsideRadius = 3

	data, err := BuildInnerCavityOnly(p)
	if err != nil {
		t.Fatalf("BuildInnerCavityOnly: %v", err)
	}
	if data == nil {
		t.Fatal("no cavity exported for a rounded box")
	}
	if n := solidCount(t, data); n != 1 {
		t.Errorf("solid count = %d, want 1", n)
	}
}

func TestBuildInnerCavityOnlySquareCorners(t *testing.T) {
	// Square corners have no distinct rounded cavity to inspect.
	data, err := BuildInnerCavityOnly(boxParams())
	if err != nil {
		t.Fatalf("BuildInnerCavityOnly: %v", err)
	}
	if data != nil {
		t.Errorf("got %d bytes, want nil for square corners", len(data))
	}
}

func TestBuilderTrace(t *testing.T) {
	b, err := NewBuilder()
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if _, err := b.BuildModel(boxParams()); err != nil {
		t.Fatalf("BuildModel: %v", err)
	}
	if b.Trace() == nil {
		t.Fatal("Trace() is nil")
	}
}

func TestProfileSnapshot(t *testing.T) {
	p := boxParams()
	p.IncludeInsideRadius = true
	p.InsideRadius = 3

	png, err := ProfileSnapshot(p, 256)
	if err != nil {
		t.Fatalf("ProfileSnapshot: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("output is not a PNG")
	}
}

func TestProfileSnapshotCylinder(t *testing.T) {
	p := Params{
		Shape:        ShapeCylinder,
		InsideWidth:  30,
		InsideHeight: 20,
		Mode:         ThicknessUniform,
		Thickness:    2,
	}
	png, err := ProfileSnapshot(p, 128)
	if err != nil {
		t.Fatalf("ProfileSnapshot: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("output is not a PNG")
	}
}
