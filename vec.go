package boxcad

import (
	"math"

	"github.com/solidkit/boxcad/kernel"
)

// Pt3 represents a 3D position in model space.
type Pt3 struct {
	X, Y, Z float64
}

// P3 is a convenience function to create a Pt3.
func P3(x, y, z float64) Pt3 {
	return Pt3{X: x, Y: y, Z: z}
}

// Add returns the point displaced by a vector.
func (p Pt3) Add(v Vec3) Pt3 {
	return Pt3{X: p.X + v.X, Y: p.Y + v.Y, Z: p.Z + v.Z}
}

// Sub returns the displacement from q to p.
func (p Pt3) Sub(q Pt3) Vec3 {
	return Vec3{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Distance returns the distance between two points.
func (p Pt3) Distance(q Pt3) float64 {
	return p.Sub(q).Length()
}

// xyz converts to the kernel's raw coordinate triple.
func (p Pt3) xyz() kernel.XYZ {
	return kernel.XYZ{X: p.X, Y: p.Y, Z: p.Z}
}

// Vec3 represents a 3D displacement vector.
// Unlike Pt3 which represents a position, Vec3 represents a direction and
// magnitude.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is a convenience function to create a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{X: v.X - w.X, Y: v.Y - w.Y, Z: v.Z - w.Z}
}

// Mul returns the vector scaled by a scalar.
func (v Vec3) Mul(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Neg returns the negation of the vector.
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product of two vectors.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the length of the vector.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns a unit vector in the same direction.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / length, Y: v.Y / length, Z: v.Z / length}
}

// xyz converts to the kernel's raw coordinate triple.
func (v Vec3) xyz() kernel.XYZ {
	return kernel.XYZ{X: v.X, Y: v.Y, Z: v.Z}
}
