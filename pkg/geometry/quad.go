package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// uvEdge keeps quad texture coordinates strictly inside (0, 1)
const uvEdge = 1e-6

// Quad is a rectangle in the local z = 0 plane, centered on the origin with
// the given full size along local x and y. Its outward normal is local +z.
type Quad struct {
	Size      core.Vec2
	Transform core.Transform
	Material  material.Material

	halfX, halfY float64
	normal       core.Vec3 // World-space unit normal
	area         float64   // World-space area
	bounds       core.AABB
}

// NewQuad creates a new quad placed by transform
func NewQuad(size core.Vec2, transform core.Transform, mat material.Material) *Quad {
	halfX, halfY := math.Abs(size.X)/2, math.Abs(size.Y)/2
	edgeX := transform.Vector(core.NewVec3(2*halfX, 0, 0))
	edgeY := transform.Vector(core.NewVec3(0, 2*halfY, 0))
	return &Quad{
		Size:      size,
		Transform: transform,
		Material:  mat,
		halfX:     halfX,
		halfY:     halfY,
		normal:    transform.Normal(core.NewVec3(0, 0, 1)).Normalize(),
		area:      edgeX.Cross(edgeY).Length(),
		bounds:    transform.Box(core.NewAABB(core.NewVec3(-halfX, -halfY, 0), core.NewVec3(halfX, halfY, 0))),
	}
}

func (*Quad) surface() {}

// Intersect tests the ray against the quad's plane and extents
func (q *Quad) Intersect(ray core.Ray) (material.HitInfo, bool) {
	local := q.Transform.InvRay(ray)
	if local.Direction.Z == 0 {
		return material.HitInfo{}, false
	}

	t := -local.Origin.Z / local.Direction.Z
	if !local.InRange(t) {
		return material.HitInfo{}, false
	}

	p := local.At(t)
	if math.Abs(p.X) > q.halfX || math.Abs(p.Y) > q.halfY {
		return material.HitInfo{}, false
	}
	p.Z = 0

	return q.hitAt(t, p), true
}

// hitAt builds the hit record for local point p found at parameter t
func (q *Quad) hitAt(t float64, p core.Vec3) material.HitInfo {
	u := (p.X/q.halfX + 1) / 2
	v := (p.Y/q.halfY + 1) / 2
	return material.HitInfo{
		T:        t,
		P:        q.Transform.Point(p),
		GN:       q.normal,
		SN:       q.normal,
		UV:       core.NewVec2(clampUV(u), clampUV(v)),
		Material: q.Material,
	}
}

func clampUV(x float64) float64 {
	if math.IsNaN(x) {
		return 0.5
	}
	return math.Max(uvEdge, math.Min(1-uvEdge, x))
}

// Bounds returns the bounding box of the quad
func (q *Quad) Bounds() core.AABB {
	return q.bounds
}

// Sample picks a point uniformly by area and converts the density to solid angle
func (q *Quad) Sample(origin core.Vec3, rv core.Vec2) (EmitterRecord, bool) {
	if q.area == 0 {
		return EmitterRecord{}, false
	}
	local := core.NewVec3((2*rv.X-1)*q.halfX, (2*rv.Y-1)*q.halfY, 0)
	point := q.Transform.Point(local)

	toPoint := point.Subtract(origin)
	dist2 := toPoint.LengthSquared()
	if dist2 == 0 {
		return EmitterRecord{}, false
	}
	dist := math.Sqrt(dist2)
	wi := toPoint.Divide(dist)

	cosTheta := math.Abs(wi.Dot(q.normal))
	if cosTheta < 1e-12 {
		return EmitterRecord{}, false
	}
	pdf := dist2 / (cosTheta * q.area)
	return newEmitterRecord(origin, wi, q.hitAt(dist, local), pdf), true
}

// PDF returns the solid-angle density of sampling direction from origin
func (q *Quad) PDF(origin, direction core.Vec3) float64 {
	if q.area == 0 {
		return 0
	}
	wi := direction.Normalize()
	hit, ok := q.Intersect(core.NewRay(origin, wi))
	if !ok {
		return 0
	}
	cosTheta := math.Abs(wi.Dot(q.normal))
	if cosTheta < 1e-12 {
		return 0
	}
	return hit.T * hit.T / (cosTheta * q.area)
}

// IsEmissive reports whether the quad's material emits
func (q *Quad) IsEmissive() bool {
	return isEmissive(q.Material)
}
