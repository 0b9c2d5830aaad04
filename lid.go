package boxcad

import (
	"github.com/solidkit/boxcad/kernel"
)

// buildLid synthesizes the lid: a second hollow shell whose cavity is the
// base's outer footprint expanded by the clearance on all sides, so the lid
// slides over the base with a uniform gap.
//
// The lid spans the base's full vertical height (inside height plus bottom
// plus top) so the two align when the lid is slipped over. Its cavity is
// open at one end and capped by a wall of bottom thickness at the other.
func (b *Builder) buildLid(p Params, t Thickness) (kernel.Shape, error) {
	if p.Shape == ShapeCylinder {
		return b.buildCylinderLid(p, t)
	}
	return b.buildBoxLid(p, t)
}

func (b *Builder) buildBoxLid(p Params, t Thickness) (kernel.Shape, error) {
	// Footprint chain: base outer -> +clearance -> lid inner -> +wall -> lid outer.
	lidInnerWidth := p.InsideWidth + 2*t.Wall + 2*p.Clearance
	lidInnerDepth := p.InsideDepth + 2*t.Wall + 2*p.Clearance
	lidOuterWidth := lidInnerWidth + 2*t.Wall
	lidOuterDepth := lidInnerDepth + 2*t.Wall

	// Radius chain mirrors the footprint chain; square corners stay square.
	insideRadius := p.insideRadius()
	lidInnerRadius, lidOuterRadius := 0.0, 0.0
	if insideRadius > 0 {
		lidInnerRadius = insideRadius + t.Wall + p.Clearance
		lidOuterRadius = lidInnerRadius + t.Wall
	}

	lidHeight := p.InsideHeight + t.Bottom + t.Top

	outer, err := b.extrude(
		RoundedRectProfile(P3(0, 0, 0), lidOuterWidth, lidOuterDepth, lidOuterRadius), lidHeight)
	if err != nil {
		return kernel.Shape{}, err
	}
	inner, err := b.extrude(
		RoundedRectProfile(P3(t.Wall, t.Wall, t.Bottom), lidInnerWidth, lidInnerDepth, lidInnerRadius),
		lidHeight-t.Bottom)
	if err != nil {
		return kernel.Shape{}, err
	}
	shell, err := b.ad.Cut(outer, inner)
	if err != nil {
		return kernel.Shape{}, err
	}

	// Recenter so the lid cavity is concentric with the base's outer shell
	// when both sit at the same world origin. This is the whole mechanism by
	// which "lid fits over box" is realized; the base's own position is never
	// re-derived.
	offset := t.Wall + p.Clearance
	return b.ad.Translate(shell, kernel.XYZ{X: -offset, Y: -offset})
}

func (b *Builder) buildCylinderLid(p Params, t Thickness) (kernel.Shape, error) {
	// Radius chain: base outer -> +clearance -> lid inner -> +wall -> lid outer.
	baseOuterRadius := p.InsideWidth/2 + t.Wall
	lidInnerRadius := baseOuterRadius + p.Clearance
	lidOuterRadius := lidInnerRadius + t.Wall

	lidHeight := p.InsideHeight + t.Bottom + t.Top

	outer, err := b.ad.Cylinder(lidOuterRadius, lidHeight)
	if err != nil {
		return kernel.Shape{}, err
	}
	inner, err := b.ad.Cylinder(lidInnerRadius, lidHeight-t.Bottom)
	if err != nil {
		return kernel.Shape{}, err
	}
	inner, err = b.ad.Translate(inner, kernel.XYZ{Z: t.Bottom})
	if err != nil {
		return kernel.Shape{}, err
	}
	// Cylinders are built coaxial at the origin; no recentering is needed.
	return b.ad.Cut(outer, inner)
}
