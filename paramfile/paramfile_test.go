package paramfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solidkit/boxcad"
)

func TestLoadFromReaderPlainNumbers(t *testing.T) {
	doc := `
shape: box
insideWidth: 40
insideDepth: 30
insideHeight: 20
thicknessMode: uniform
thickness: 2
`
	p, err := LoadFromReader(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, boxcad.ShapeBox, p.Shape)
	assert.Equal(t, 40.0, p.InsideWidth)
	assert.Equal(t, 30.0, p.InsideDepth)
	assert.Equal(t, 20.0, p.InsideHeight)
	assert.Equal(t, boxcad.ThicknessUniform, p.Mode)
	assert.Equal(t, 2.0, p.Thickness)
	assert.False(t, p.IncludeLid)
}

func TestLoadFromReaderExpressions(t *testing.T) {
	doc := `
shape: box
insideWidth: 40
insideDepth: "insideWidth * 2"
insideHeight: "insideDepth / 4"
thickness: 2
`
	p, err := LoadFromReader(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 80.0, p.InsideDepth)
	assert.Equal(t, 20.0, p.InsideHeight)
}

func TestLoadFromReaderQuotedNumber(t *testing.T) {
	// A quoted plain number is a trivial expression and resolves to itself.
	doc := `
shape: box
insideWidth: "40"
insideDepth: 30
insideHeight: 20
thickness: 2
`
	p, err := LoadFromReader(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 40.0, p.InsideWidth)
}

func TestResolveCyclicExpressions(t *testing.T) {
	doc := `
shape: box
insideWidth: "insideDepth + 1"
insideDepth: "insideWidth + 1"
insideHeight: 20
thickness: 2
`
	_, err := LoadFromReader(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unresolvable or cyclic")
	assert.Contains(t, err.Error(), "insideDepth")
	assert.Contains(t, err.Error(), "insideWidth")
}

func TestResolveUnknownReference(t *testing.T) {
	doc := `
shape: box
insideWidth: "somethingElse * 2"
insideDepth: 30
insideHeight: 20
thickness: 2
`
	_, err := LoadFromReader(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insideWidth")
}

func TestResolveExpressionTooLong(t *testing.T) {
	doc := &Document{
		InsideWidth:  Expr("1 + " + strings.Repeat("0 + ", 400) + "39"),
		InsideDepth:  Num(30),
		InsideHeight: Num(20),
		Thickness:    Num(2),
	}
	err := doc.Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too long")
}

func TestParamsShapeAliases(t *testing.T) {
	tests := []struct {
		in   string
		want boxcad.ShapeKind
	}{
		{"", boxcad.ShapeBox},
		{"box", boxcad.ShapeBox},
		{"rectangular", boxcad.ShapeBox},
		{"Box", boxcad.ShapeBox},
		{"cylinder", boxcad.ShapeCylinder},
		{"circular", boxcad.ShapeCylinder},
	}
	for _, tt := range tests {
		doc := &Document{
			Shape:        tt.in,
			InsideWidth:  Num(40),
			InsideDepth:  Num(30),
			InsideHeight: Num(20),
			Thickness:    Num(2),
		}
		p, err := doc.Params()
		require.NoError(t, err, "shape %q", tt.in)
		assert.Equal(t, tt.want, p.Shape, "shape %q", tt.in)
	}
}

func TestParamsUnknownShape(t *testing.T) {
	doc := &Document{
		Shape:        "dodecahedron",
		InsideWidth:  Num(40),
		InsideDepth:  Num(30),
		InsideHeight: Num(20),
		Thickness:    Num(2),
	}
	_, err := doc.Params()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dodecahedron")
}

func TestParamsValidates(t *testing.T) {
	// Conversion runs the geometric validation, so a structurally fine file
	// with unusable dimensions still fails to load.
	doc := `
shape: box
insideWidth: 0
insideDepth: 30
insideHeight: 20
thickness: 2
`
	_, err := LoadFromReader(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insideWidth")
}

func TestParamsCustomThickness(t *testing.T) {
	doc := `
shape: box
insideWidth: 40
insideDepth: 30
insideHeight: 20
thicknessMode: custom
wallThickness: 1.5
topThickness: 3
bottomThickness: 1
`
	p, err := LoadFromReader(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, boxcad.ThicknessCustom, p.Mode)
	assert.Equal(t, boxcad.Thickness{Wall: 1.5, Top: 3, Bottom: 1}, p.ResolveThickness())
}

func TestLoadAndSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")

	doc := &Document{
		Shape:        "box",
		InsideWidth:  Num(40),
		InsideDepth:  Expr("insideWidth * 0.75"),
		InsideHeight: Num(20),
		IncludeLid:   true,
		Clearance:    Num(0.2),
		Thickness:    Num(2),
	}
	require.NoError(t, Save(path, doc))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30.0, p.InsideDepth)
	assert.True(t, p.IncludeLid)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadDoesNotEscapeDirectory(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(dir, "outside.yaml")
	require.NoError(t, os.WriteFile(outside, []byte("shape: box\n"), 0o644))

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	link := filepath.Join(sub, "link.yaml")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	// The loader opens files relative to their directory root; a symlink
	// pointing outside that root must not resolve.
	_, err := Load(link)
	require.Error(t, err)
}
