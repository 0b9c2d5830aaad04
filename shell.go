package boxcad

import (
	"github.com/solidkit/boxcad/kernel"
)

// buildBaseShell synthesizes the hollow base solid for the chosen shape.
func (b *Builder) buildBaseShell(p Params, t Thickness) (kernel.Shape, error) {
	if p.Shape == ShapeCylinder {
		return b.buildCylinderShell(p, t)
	}
	return b.buildBoxShell(p, t)
}

// buildBoxShell builds the rectangular base: an outer prism, an inset inner
// cavity prism, and their boolean difference.
//
// The outer footprint is the inside footprint grown by the wall on each side;
// the outer corner radius is the inside radius grown by the wall (square
// corners stay square). The outer height covers the cavity plus the bottom,
// plus the top only when no lid is present: with a lid the base top stays
// open, since the lid covers it.
//
// The cut is always cut(outer, inner), never the reverse. The resulting
// geometry would be the same either way, but some kernel boolean paths are
// not symmetric in error behavior.
func (b *Builder) buildBoxShell(p Params, t Thickness) (kernel.Shape, error) {
	innerRadius := p.insideRadius()
	outerRadius := 0.0
	if innerRadius > 0 {
		outerRadius = innerRadius + t.Wall
	}

	outerWidth := p.InsideWidth + 2*t.Wall
	outerDepth := p.InsideDepth + 2*t.Wall
	outerHeight := p.InsideHeight + t.Bottom
	if !p.IncludeLid {
		outerHeight += t.Top
	}

	outer, err := b.extrude(RoundedRectProfile(P3(0, 0, 0), outerWidth, outerDepth, outerRadius), outerHeight)
	if err != nil {
		return kernel.Shape{}, err
	}
	inner, err := b.extrude(
		RoundedRectProfile(P3(t.Wall, t.Wall, t.Bottom), p.InsideWidth, p.InsideDepth, innerRadius),
		p.InsideHeight)
	if err != nil {
		return kernel.Shape{}, err
	}
	return b.ad.Cut(outer, inner)
}

// buildCylinderShell builds the circular base: two coaxial cylinders
// differing only in radius and height, cut inner from outer. The inside
// diameter is InsideWidth.
func (b *Builder) buildCylinderShell(p Params, t Thickness) (kernel.Shape, error) {
	innerRadius := p.InsideWidth / 2
	outerRadius := innerRadius + t.Wall

	outerHeight := p.InsideHeight + t.Bottom
	if !p.IncludeLid {
		outerHeight += t.Top
	}

	outer, err := b.ad.Cylinder(outerRadius, outerHeight)
	if err != nil {
		return kernel.Shape{}, err
	}
	inner, err := b.ad.Cylinder(innerRadius, p.InsideHeight)
	if err != nil {
		return kernel.Shape{}, err
	}
	inner, err = b.ad.Translate(inner, kernel.XYZ{Z: t.Bottom})
	if err != nil {
		return kernel.Shape{}, err
	}
	return b.ad.Cut(outer, inner)
}
