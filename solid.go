package boxcad

import (
	"fmt"

	"github.com/solidkit/boxcad/kernel"
)

// buildWire converts a profile into a kernel wire, edge by edge.
func (b *Builder) buildWire(p *Profile) (kernel.Shape, error) {
	edges := make([]kernel.Shape, 0, len(p.Elements()))
	for _, e := range p.Elements() {
		var (
			edge kernel.Shape
			err  error
		)
		switch t := e.(type) {
		case Line:
			edge, err = b.ad.LineEdge(t.A.xyz(), t.B.xyz())
		case Arc:
			edge, err = b.ad.ArcEdge(t.A.xyz(), t.Mid.xyz(), t.B.xyz())
		case Circle:
			edge, err = b.ad.CircleEdge(t.Center.xyz(), t.Radius)
		default:
			return kernel.Shape{}, fmt.Errorf("boxcad: unknown profile element %T", e)
		}
		if err != nil {
			return kernel.Shape{}, err
		}
		edges = append(edges, edge)
	}
	return b.ad.Wire(edges)
}

// extrude synthesizes a prism solid from a closed profile.
//
// Primary path: close the wire into a planar face and extrude it along +Z.
// If face construction or the prism fails (marginally self-intersecting
// rounded profiles can do that), the wire is instead swept along a straight
// vertical spine. Both paths yield a solid with the same outer boundary and
// height; callers treat them as interchangeable. Failure of both paths is
// fatal for the build.
func (b *Builder) extrude(p *Profile, height float64) (kernel.Shape, error) {
	wire, err := b.buildWire(p)
	if err != nil {
		return kernel.Shape{}, err
	}

	face, primaryErr := b.ad.Face(wire)
	if primaryErr == nil {
		solid, err := b.ad.Prism(face, kernel.XYZ{Z: height})
		if err == nil {
			return solid, nil
		}
		primaryErr = err
	}

	Logger().Warn("planar extrusion failed, sweeping wire along spine",
		"height", height, "error", primaryErr)
	b.trace.Record("prism", "fallback to sweep: %v", primaryErr)

	// The first wire was consumed by the failed face attempt; rebuild it.
	profileWire, err := b.buildWire(p)
	if err != nil {
		return kernel.Shape{}, err
	}
	o := p.Origin()
	spineEdge, err := b.ad.LineEdge(o.xyz(), P3(o.X, o.Y, o.Z+height).xyz())
	if err != nil {
		return kernel.Shape{}, err
	}
	spine, err := b.ad.Wire([]kernel.Shape{spineEdge})
	if err != nil {
		return kernel.Shape{}, err
	}
	return b.ad.Pipe(profileWire, spine)
}
