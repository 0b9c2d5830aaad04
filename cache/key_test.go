package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solidkit/boxcad"
)

func baseParams() boxcad.Params {
	return boxcad.Params{
		Shape:        boxcad.ShapeBox,
		InsideWidth:  40,
		InsideDepth:  30,
		InsideHeight: 20,
		Mode:         boxcad.ThicknessUniform,
		Thickness:    2,
	}
}

func TestKeyStable(t *testing.T) {
	a := Key(baseParams(), "occt", "7.8.1")
	b := Key(baseParams(), "occt", "7.8.1")
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestKeyVariesWithInputs(t *testing.T) {
	base := Key(baseParams(), "occt", "7.8.1")

	mutations := map[string]func(*boxcad.Params){
		"width":     func(p *boxcad.Params) { p.InsideWidth = 41 },
		"height":    func(p *boxcad.Params) { p.InsideHeight = 21 },
		"lid":       func(p *boxcad.Params) { p.IncludeLid = true },
		"clearance": func(p *boxcad.Params) { p.Clearance = 0.2 },
		"radius":    func(p *boxcad.Params) { p.IncludeInsideRadius = true; p.InsideRadius = 3 },
		"thickness": func(p *boxcad.Params) { p.Thickness = 2.5 },
		"shape":     func(p *boxcad.Params) { p.Shape = boxcad.ShapeCylinder },
	}
	for name, mutate := range mutations {
		p := baseParams()
		mutate(&p)
		assert.NotEqual(t, base, Key(p, "occt", "7.8.1"), "mutation %q did not change the key", name)
	}

	assert.NotEqual(t, base, Key(baseParams(), "occt", "7.9.0"), "kernel version not part of the key")
	assert.NotEqual(t, base, Key(baseParams(), "other", "7.8.1"), "kernel name not part of the key")
}

func TestKeyUsesResolvedThickness(t *testing.T) {
	// Uniform thickness 2 and custom 2/2/2 resolve to the same triple, so
	// their exports are identical and they share a cache entry.
	uniform := baseParams()

	custom := baseParams()
	custom.Mode = boxcad.ThicknessCustom
	custom.Thickness = 0
	custom.WallThickness = 2
	custom.TopThickness = 2
	custom.BottomThickness = 2

	assert.Equal(t, Key(uniform, "occt", "7.8.1"), Key(custom, "occt", "7.8.1"))
}
