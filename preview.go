package boxcad

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/vector"
)

// ProfileSnapshot renders a top-view PNG of the model's outer footprint with
// the inner cavity shown as a hole. It is a 2D inspection aid for parameter
// tuning; the 3D preview consumes the mesh from BuildModelWithMesh instead.
//
// size is the output image width and height in pixels.
func ProfileSnapshot(p Params, size int) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if size < 16 {
		return nil, fmt.Errorf("boxcad: snapshot size %d too small", size)
	}
	t := p.ResolveThickness()

	var outer, inner *Profile
	if p.Shape == ShapeCylinder {
		innerRadius := p.InsideWidth / 2
		outer = CircleProfile(P3(0, 0, 0), innerRadius+t.Wall)
		inner = CircleProfile(P3(0, 0, 0), innerRadius)
	} else {
		innerRadius := p.insideRadius()
		outerRadius := 0.0
		if innerRadius > 0 {
			outerRadius = innerRadius + t.Wall
		}
		outer = RoundedRectProfile(P3(0, 0, 0), p.InsideWidth+2*t.Wall, p.InsideDepth+2*t.Wall, outerRadius)
		inner = RoundedRectProfile(P3(t.Wall, t.Wall, 0), p.InsideWidth, p.InsideDepth, innerRadius)
	}

	outerRing := flattenProfile(outer)
	innerRing := flattenProfile(inner)

	// Fit the outer footprint into the image with a fixed margin.
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range outerRing {
		minX = math.Min(minX, pt[0])
		minY = math.Min(minY, pt[1])
		maxX = math.Max(maxX, pt[0])
		maxY = math.Max(maxY, pt[1])
	}
	const margin = 8
	span := math.Max(maxX-minX, maxY-minY)
	if span <= 0 {
		return nil, fmt.Errorf("boxcad: empty footprint")
	}
	scale := float64(size-2*margin) / span
	toPx := func(pt [2]float64) (float32, float32) {
		// Flip Y: model Y grows up, image Y grows down.
		return float32(margin + (pt[0]-minX)*scale),
			float32(float64(size) - margin - (pt[1]-minY)*scale)
	}

	z := vector.NewRasterizer(size, size)
	addRing := func(ring [][2]float64) {
		if len(ring) == 0 {
			return
		}
		x, y := toPx(ring[0])
		z.MoveTo(x, y)
		for _, pt := range ring[1:] {
			x, y = toPx(pt)
			z.LineTo(x, y)
		}
		z.ClosePath()
	}
	addRing(outerRing)
	// The cavity ring in reverse winds the opposite way, cutting a hole
	// under the non-zero fill rule.
	addRing(reverseRing(innerRing))

	mask := image.NewAlpha(image.Rect(0, 0, size, size))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.DrawMask(out, out.Bounds(),
		image.NewUniform(color.RGBA{R: 0x26, G: 0x32, B: 0x38, A: 0xff}),
		image.Point{}, mask, image.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// flattenProfile samples a profile into a planar polygon ring in traversal
// order, without repeating the closing point.
func flattenProfile(p *Profile) [][2]float64 {
	var ring [][2]float64
	for _, e := range p.Elements() {
		switch t := e.(type) {
		case Line:
			ring = append(ring, [2]float64{t.A.X, t.A.Y})
		case Arc:
			ring = append(ring, sampleArc(t)...)
		case Circle:
			const n = 64
			for i := 0; i < n; i++ {
				a := 2 * math.Pi * float64(i) / n
				ring = append(ring, [2]float64{
					t.Center.X + t.Radius*math.Cos(a),
					t.Center.Y + t.Radius*math.Sin(a),
				})
			}
		}
	}
	return ring
}

// sampleArc flattens a three-point arc, including its start point but not
// its end point (the next edge contributes that).
func sampleArc(a Arc) [][2]float64 {
	cx, cy, r, ok := circumcenter(a.A, a.Mid, a.B)
	if !ok {
		return [][2]float64{{a.A.X, a.A.Y}}
	}
	angle := func(x, y float64) float64 { return math.Atan2(y-cy, x-cx) }
	ta, tm, tb := angle(a.A.X, a.A.Y), angle(a.Mid.X, a.Mid.Y), angle(a.B.X, a.B.Y)
	ccw := func(from, to float64) float64 {
		s := math.Mod(to-from, 2*math.Pi)
		if s < 0 {
			s += 2 * math.Pi
		}
		return s
	}
	sweep := ccw(ta, tb)
	if ccw(ta, tm) > sweep {
		sweep -= 2 * math.Pi
	}
	steps := int(math.Ceil(math.Abs(sweep)/(math.Pi/16))) + 1
	out := make([][2]float64, 0, steps)
	for i := 0; i < steps; i++ {
		t := ta + sweep*float64(i)/float64(steps)
		out = append(out, [2]float64{cx + r*math.Cos(t), cy + r*math.Sin(t)})
	}
	return out
}

func circumcenter(a, m, b Pt3) (cx, cy, r float64, ok bool) {
	d := 2 * (a.X*(m.Y-b.Y) + m.X*(b.Y-a.Y) + b.X*(a.Y-m.Y))
	if math.Abs(d) < 1e-12 {
		return 0, 0, 0, false
	}
	a2 := a.X*a.X + a.Y*a.Y
	m2 := m.X*m.X + m.Y*m.Y
	b2 := b.X*b.X + b.Y*b.Y
	cx = (a2*(m.Y-b.Y) + m2*(b.Y-a.Y) + b2*(a.Y-m.Y)) / d
	cy = (a2*(b.X-m.X) + m2*(a.X-b.X) + b2*(m.X-a.X)) / d
	return cx, cy, math.Hypot(a.X-cx, a.Y-cy), true
}

func reverseRing(in [][2]float64) [][2]float64 {
	out := make([][2]float64, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
