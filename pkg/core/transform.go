package core

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrSingularTransform is returned when a transform matrix cannot be inverted
var ErrSingularTransform = errors.New("transform matrix is not invertible")

// Transform is an affine transform together with its cached inverse.
// Points map through the matrix, normals through its inverse transpose.
type Transform struct {
	m   mgl64.Mat4
	inv mgl64.Mat4
}

// NewTransform creates a transform from a matrix, failing if it is singular
func NewTransform(m mgl64.Mat4) (Transform, error) {
	det := m.Det()
	if math.Abs(det) < 1e-12 || math.IsNaN(det) {
		return Transform{}, ErrSingularTransform
	}
	return Transform{m: m, inv: m.Inv()}, nil
}

// IdentityTransform returns the identity transform
func IdentityTransform() Transform {
	return Transform{m: mgl64.Ident4(), inv: mgl64.Ident4()}
}

// Translate returns a translation by offset
func Translate(offset Vec3) Transform {
	return Transform{
		m:   mgl64.Translate3D(offset.X, offset.Y, offset.Z),
		inv: mgl64.Translate3D(-offset.X, -offset.Y, -offset.Z),
	}
}

// Scale returns a non-uniform scale; zero components make it singular
func Scale(factors Vec3) (Transform, error) {
	return NewTransform(mgl64.Scale3D(factors.X, factors.Y, factors.Z))
}

// Rotate returns a rotation of angleDegrees around axis
func Rotate(axis Vec3, angleDegrees float64) (Transform, error) {
	if axis.LengthSquared() == 0 {
		return Transform{}, ErrSingularTransform
	}
	a := axis.Normalize()
	m := mgl64.HomogRotate3D(mgl64.DegToRad(angleDegrees), mgl64.Vec3{a.X, a.Y, a.Z})
	return Transform{m: m, inv: m.Transpose()}, nil
}

// LookAt returns the frame placed at from, looking at at with the given up
// vector. The local -Z axis maps onto the viewing direction.
func LookAt(from, at, up Vec3) (Transform, error) {
	if at.Subtract(from).LengthSquared() == 0 || at.Subtract(from).Cross(up).LengthSquared() == 0 {
		return Transform{}, ErrSingularTransform
	}
	view := mgl64.LookAtV(
		mgl64.Vec3{from.X, from.Y, from.Z},
		mgl64.Vec3{at.X, at.Y, at.Z},
		mgl64.Vec3{up.X, up.Y, up.Z},
	)
	return NewTransform(view.Inv())
}

// FromRows builds a transform from a row-major 4x4 matrix
func FromRows(rows [16]float64) (Transform, error) {
	m := mgl64.Mat4FromRows(
		mgl64.Vec4{rows[0], rows[1], rows[2], rows[3]},
		mgl64.Vec4{rows[4], rows[5], rows[6], rows[7]},
		mgl64.Vec4{rows[8], rows[9], rows[10], rows[11]},
		mgl64.Vec4{rows[12], rows[13], rows[14], rows[15]},
	)
	return NewTransform(m)
}

// Then returns the transform that applies t first and next second
func (t Transform) Then(next Transform) Transform {
	return Transform{m: next.m.Mul4(t.m), inv: t.inv.Mul4(next.inv)}
}

// Inverse returns the inverse transform
func (t Transform) Inverse() Transform {
	return Transform{m: t.inv, inv: t.m}
}

// Matrix returns the forward matrix
func (t Transform) Matrix() mgl64.Mat4 {
	return t.m
}

// Point transforms a point (w = 1)
func (t Transform) Point(p Vec3) Vec3 {
	return mulPoint(t.m, p)
}

// Vector transforms a direction (w = 0)
func (t Transform) Vector(v Vec3) Vec3 {
	return mulVector(t.m, v)
}

// UniformScale returns the scale factor of t when its linear part is a
// rotation times a uniform scale, so that spheres stay spheres
func (t Transform) UniformScale() (float64, bool) {
	const tolerance = 1e-6
	x := t.Vector(NewVec3(1, 0, 0))
	y := t.Vector(NewVec3(0, 1, 0))
	z := t.Vector(NewVec3(0, 0, 1))
	s := x.Length()
	if s == 0 {
		return 0, false
	}
	if math.Abs(y.Length()-s) > tolerance*s || math.Abs(z.Length()-s) > tolerance*s {
		return 0, false
	}
	s2 := s * s
	if math.Abs(x.Dot(y)) > tolerance*s2 || math.Abs(y.Dot(z)) > tolerance*s2 || math.Abs(x.Dot(z)) > tolerance*s2 {
		return 0, false
	}
	return s, true
}

// Normal transforms a surface normal by the inverse transpose. The result is
// not normalized.
func (t Transform) Normal(n Vec3) Vec3 {
	return mulVector(t.inv.Transpose(), n)
}

// InvPoint maps a point back through the inverse transform
func (t Transform) InvPoint(p Vec3) Vec3 {
	return mulPoint(t.inv, p)
}

// InvVector maps a direction back through the inverse transform
func (t Transform) InvVector(v Vec3) Vec3 {
	return mulVector(t.inv, v)
}

// Ray maps a ray forward. The parametric interval is unchanged because the
// direction is not renormalized.
func (t Transform) Ray(r Ray) Ray {
	return Ray{Origin: t.Point(r.Origin), Direction: t.Vector(r.Direction), MinT: r.MinT, MaxT: r.MaxT}
}

// InvRay maps a world-space ray into the local frame, keeping t values comparable
func (t Transform) InvRay(r Ray) Ray {
	return Ray{Origin: t.InvPoint(r.Origin), Direction: t.InvVector(r.Direction), MinT: r.MinT, MaxT: r.MaxT}
}

// Box returns the world-space bounds of a transformed box
func (t Transform) Box(b AABB) AABB {
	if b.IsEmpty() {
		return b
	}
	result := EmptyAABB()
	for corner := 0; corner < 8; corner++ {
		p := Vec3{
			X: pick(corner&1 != 0, b.Max.X, b.Min.X),
			Y: pick(corner&2 != 0, b.Max.Y, b.Min.Y),
			Z: pick(corner&4 != 0, b.Max.Z, b.Min.Z),
		}
		result = result.EnclosePoint(t.Point(p))
	}
	return result
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

func mulPoint(m mgl64.Mat4, p Vec3) Vec3 {
	r := m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	if r[3] != 1 && r[3] != 0 {
		return Vec3{r[0] / r[3], r[1] / r[3], r[2] / r[3]}
	}
	return Vec3{r[0], r[1], r[2]}
}

func mulVector(m mgl64.Mat4, v Vec3) Vec3 {
	r := m.Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, 0})
	return Vec3{r[0], r[1], r[2]}
}
