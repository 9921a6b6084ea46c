package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Sphere is a sphere of the given radius centered at the origin of its local frame
type Sphere struct {
	Radius    float64
	Transform core.Transform
	Material  material.Material

	center      core.Vec3 // World-space center
	worldRadius float64   // Radius after transformation, used for light sampling
	bounds      core.AABB
}

// NewSphere creates a new sphere placed by transform. The transform must
// scale uniformly (see core.Transform.UniformScale); light sampling treats the
// sphere as round in world space.
func NewSphere(radius float64, transform core.Transform, mat material.Material) *Sphere {
	r := math.Abs(radius)
	return &Sphere{
		Radius:      r,
		Transform:   transform,
		Material:    mat,
		center:      transform.Point(core.Vec3{}),
		worldRadius: r * transform.Vector(core.NewVec3(1, 0, 0)).Length(),
		bounds:      transform.Box(core.NewAABB(core.Splat(-r), core.Splat(r))),
	}
}

func (*Sphere) surface() {}

// Intersect tests if a ray intersects with the sphere
func (s *Sphere) Intersect(ray core.Ray) (material.HitInfo, bool) {
	local := s.Transform.InvRay(ray)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := local.Direction.LengthSquared()
	halfB := local.Origin.Dot(local.Direction)
	c := local.Origin.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return material.HitInfo{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if !local.InRange(root) {
		root = (-halfB + sqrtD) / a
		if !local.InRange(root) {
			return material.HitInfo{}, false
		}
	}

	localPoint := local.At(root)
	outward := localPoint.Divide(s.Radius)
	normal := s.Transform.Normal(outward).Normalize()

	return material.HitInfo{
		T:        root,
		P:        s.Transform.Point(localPoint),
		GN:       normal,
		SN:       normal,
		UV:       sphereUV(outward),
		Material: s.Material,
	}, true
}

// sphereUV maps a point on the unit sphere to longitude/latitude coordinates
func sphereUV(p core.Vec3) core.Vec2 {
	theta := math.Acos(math.Max(-1, math.Min(1, -p.Y)))
	phi := math.Atan2(-p.Z, p.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

// Bounds returns the axis-aligned bounding box for this sphere
func (s *Sphere) Bounds() core.AABB {
	return s.bounds
}

// Sample picks a direction uniformly inside the cone subtended by the sphere.
// From inside the sphere every direction hits it, so directions are uniform.
func (s *Sphere) Sample(origin core.Vec3, rv core.Vec2) (EmitterRecord, bool) {
	toCenter := s.center.Subtract(origin)
	dist2 := toCenter.LengthSquared()
	r2 := s.worldRadius * s.worldRadius

	var wi core.Vec3
	var pdf float64
	if dist2 <= r2 {
		wi = core.SampleOnUnitSphere(rv)
		pdf = core.UniformSpherePDF
	} else {
		dist := math.Sqrt(dist2)
		cosThetaMax := math.Sqrt(dist2-r2) / dist
		wi = core.SampleCone(toCenter.Divide(dist), cosThetaMax, rv).Normalize()
		pdf = core.UniformConePDF(cosThetaMax)
	}

	hit, ok := s.Intersect(core.NewRay(origin, wi))
	if !ok {
		// Grazing directions at the rim of the cone can miss numerically
		return EmitterRecord{}, false
	}
	return newEmitterRecord(origin, wi, hit, pdf), true
}

// PDF returns the cone density for directions that hit the sphere
func (s *Sphere) PDF(origin, direction core.Vec3) float64 {
	if _, ok := s.Intersect(core.NewRay(origin, direction)); !ok {
		return 0
	}
	toCenter := s.center.Subtract(origin)
	dist2 := toCenter.LengthSquared()
	r2 := s.worldRadius * s.worldRadius
	if dist2 <= r2 {
		return core.UniformSpherePDF
	}
	cosThetaMax := math.Sqrt(dist2-r2) / math.Sqrt(dist2)
	return core.UniformConePDF(cosThetaMax)
}

// IsEmissive reports whether the sphere's material emits
func (s *Sphere) IsEmissive() bool {
	return isEmissive(s.Material)
}
