package boxcad

import (
	"math"
	"strings"
	"testing"
)

func TestResolveThicknessUniform(t *testing.T) {
	p := Params{Mode: ThicknessUniform, Thickness: 2.5}
	got := p.ResolveThickness()
	want := Thickness{Wall: 2.5, Top: 2.5, Bottom: 2.5}
	if got != want {
		t.Errorf("ResolveThickness() = %+v, want %+v", got, want)
	}
}

func TestResolveThicknessCustom(t *testing.T) {
	p := Params{
		Mode:            ThicknessCustom,
		Thickness:       99, // must be ignored in custom mode
		WallThickness:   1.2,
		TopThickness:    3,
		BottomThickness: 0.8,
	}
	got := p.ResolveThickness()
	want := Thickness{Wall: 1.2, Top: 3, Bottom: 0.8}
	if got != want {
		t.Errorf("ResolveThickness() = %+v, want %+v", got, want)
	}
}

func TestClampRadius(t *testing.T) {
	tests := []struct {
		name    string
		r, w, d float64
		want    float64
	}{
		{"within limit", 3, 40, 30, 3},
		{"at limit", 14.99, 40, 30, 14.99},
		{"oversized square footprint", 20, 10, 10, 4.99},
		{"oversized rectangular footprint", 100, 40, 30, 14.99},
		{"limited by shorter span", 25, 100, 30, 14.99},
		{"zero radius unchanged", 0, 40, 30, 0},
		{"tiny footprint goes nonpositive", 5, 0.01, 0.01, -0.005},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampRadius(tt.r, tt.w, tt.d)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ClampRadius(%g, %g, %g) = %g, want %g", tt.r, tt.w, tt.d, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Params{
		Shape:        ShapeBox,
		InsideWidth:  40,
		InsideDepth:  30,
		InsideHeight: 20,
		Mode:         ThicknessUniform,
		Thickness:    2,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() on valid params: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Params)
		wantSub string
	}{
		{"zero width", func(p *Params) { p.InsideWidth = 0 }, "insideWidth"},
		{"negative width", func(p *Params) { p.InsideWidth = -1 }, "insideWidth"},
		{"zero depth", func(p *Params) { p.InsideDepth = 0 }, "insideDepth"},
		{"zero height", func(p *Params) { p.InsideHeight = 0 }, "insideHeight"},
		{"zero thickness", func(p *Params) { p.Thickness = 0 }, "thickness"},
		{"negative clearance", func(p *Params) { p.Clearance = -0.1 }, "clearance"},
		{"negative radius", func(p *Params) { p.InsideRadius = -1 }, "insideRadius"},
		{"NaN width", func(p *Params) { p.InsideWidth = math.NaN() }, "not finite"},
		{"infinite height", func(p *Params) { p.InsideHeight = math.Inf(1) }, "not finite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Validate() error = %q, want it to mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestValidateCylinderIgnoresDepth(t *testing.T) {
	p := Params{
		Shape:        ShapeCylinder,
		InsideWidth:  30,
		InsideDepth:  0, // irrelevant for circular profiles
		InsideHeight: 20,
		Mode:         ThicknessUniform,
		Thickness:    2,
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateCustomModeChecksAllThree(t *testing.T) {
	p := Params{
		Shape:         ShapeBox,
		InsideWidth:   40,
		InsideDepth:   30,
		InsideHeight:  20,
		Mode:          ThicknessCustom,
		WallThickness: 2,
		TopThickness:  2,
		// BottomThickness left zero.
	}
	if err := p.Validate(); err == nil {
		t.Error("Validate() = nil, want error for zero bottom thickness")
	}
}

func TestRounded(t *testing.T) {
	base := Params{
		Shape:        ShapeBox,
		InsideWidth:  40,
		InsideDepth:  30,
		InsideHeight: 20,
		Mode:         ThicknessUniform,
		Thickness:    2,
	}

	p := base
	if p.rounded() {
		t.Error("rounded() = true without IncludeInsideRadius")
	}

	p.IncludeInsideRadius = true
	p.InsideRadius = 3
	if !p.rounded() {
		t.Error("rounded() = false with radius 3 on 40x30")
	}

	p.Shape = ShapeCylinder
	if p.rounded() {
		t.Error("rounded() = true for cylinder")
	}

	// A radius that clamps to nonpositive means square corners.
	p = base
	p.IncludeInsideRadius = true
	p.InsideRadius = 5
	p.InsideWidth = 0.01
	p.InsideDepth = 0.01
	if p.rounded() {
		t.Error("rounded() = true after clamp collapsed the radius")
	}
}

func TestShapeKindString(t *testing.T) {
	if got := ShapeBox.String(); got != "box" {
		t.Errorf("ShapeBox.String() = %q", got)
	}
	if got := ShapeCylinder.String(); got != "cylinder" {
		t.Errorf("ShapeCylinder.String() = %q", got)
	}
	if got := ThicknessUniform.String(); got != "uniform" {
		t.Errorf("ThicknessUniform.String() = %q", got)
	}
	if got := ThicknessCustom.String(); got != "custom" {
		t.Errorf("ThicknessCustom.String() = %q", got)
	}
}
