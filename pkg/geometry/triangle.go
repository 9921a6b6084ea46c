package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Triangle is a face of a Mesh
type Triangle struct {
	mesh *Mesh
	face int
}

// NewTriangle creates a standalone triangle backed by a single-face mesh
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	mesh, _ := NewMesh(MeshData{
		Positions: []core.Vec3{v0, v1, v2},
		Indices:   [][3]int{{0, 1, 2}},
	}, core.IdentityTransform(), mat)
	return &Triangle{mesh: mesh, face: 0}
}

func (*Triangle) surface() {}

// Vertices returns the world-space corners of the triangle
func (t *Triangle) Vertices() (core.Vec3, core.Vec3, core.Vec3) {
	idx := t.mesh.Indices[t.face]
	return t.mesh.Positions[idx[0]], t.mesh.Positions[idx[1]], t.mesh.Positions[idx[2]]
}

// Intersect uses the Möller-Trumbore algorithm
func (t *Triangle) Intersect(ray core.Ray) (material.HitInfo, bool) {
	const epsilon = 1e-12

	v0, v1, v2 := t.Vertices()
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if math.Abs(a) < epsilon {
		return material.HitInfo{}, false // Ray is parallel to triangle
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(v0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return material.HitInfo{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return material.HitInfo{}, false
	}

	tHit := f * edge2.Dot(q)
	if !ray.InRange(tHit) {
		return material.HitInfo{}, false
	}

	return t.hitAt(tHit, ray.At(tHit), u, v), true
}

// hitAt builds the hit record at barycentric (u, v)
func (t *Triangle) hitAt(tHit float64, p core.Vec3, u, v float64) material.HitInfo {
	v0, v1, v2 := t.Vertices()
	gn := v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	w := 1 - u - v
	idx := t.mesh.Indices[t.face]

	sn := gn
	if t.mesh.Normals != nil {
		n0, n1, n2 := t.mesh.Normals[idx[0]], t.mesh.Normals[idx[1]], t.mesh.Normals[idx[2]]
		blended := n0.Multiply(w).Add(n1.Multiply(u)).Add(n2.Multiply(v))
		if blended.LengthSquared() > 0 {
			sn = blended.Normalize()
		}
	}

	uv := core.NewVec2(u, v)
	if t.mesh.UVs != nil {
		t0, t1, t2 := t.mesh.UVs[idx[0]], t.mesh.UVs[idx[1]], t.mesh.UVs[idx[2]]
		uv = t0.Multiply(w).Add(t1.Multiply(u)).Add(t2.Multiply(v))
	}

	return material.HitInfo{
		T:        tHit,
		P:        p,
		GN:       gn,
		SN:       sn,
		UV:       uv,
		Material: t.mesh.Material,
	}
}

func (t *Triangle) area() float64 {
	v0, v1, v2 := t.Vertices()
	return 0.5 * v1.Subtract(v0).Cross(v2.Subtract(v0)).Length()
}

// Bounds returns the bounding box of the three vertices
func (t *Triangle) Bounds() core.AABB {
	v0, v1, v2 := t.Vertices()
	return core.NewAABBFromPoints(v0, v1, v2)
}

// Sample picks a point uniformly by area and converts the density to solid angle
func (t *Triangle) Sample(origin core.Vec3, rv core.Vec2) (EmitterRecord, bool) {
	area := t.area()
	if area == 0 {
		return EmitterRecord{}, false
	}
	u, v := core.SampleTriangle(rv)
	v0, v1, v2 := t.Vertices()
	point := v0.Add(v1.Subtract(v0).Multiply(u)).Add(v2.Subtract(v0).Multiply(v))

	toPoint := point.Subtract(origin)
	dist2 := toPoint.LengthSquared()
	if dist2 == 0 {
		return EmitterRecord{}, false
	}
	dist := math.Sqrt(dist2)
	wi := toPoint.Divide(dist)

	hit := t.hitAt(dist, point, u, v)
	cosTheta := math.Abs(wi.Dot(hit.GN))
	if cosTheta < 1e-12 {
		return EmitterRecord{}, false
	}
	return newEmitterRecord(origin, wi, hit, dist2/(cosTheta*area)), true
}

// PDF returns the solid-angle density of sampling direction from origin
func (t *Triangle) PDF(origin, direction core.Vec3) float64 {
	area := t.area()
	if area == 0 {
		return 0
	}
	wi := direction.Normalize()
	hit, ok := t.Intersect(core.NewRay(origin, wi))
	if !ok {
		return 0
	}
	cosTheta := math.Abs(wi.Dot(hit.GN))
	if cosTheta < 1e-12 {
		return 0
	}
	return hit.T * hit.T / (cosTheta * area)
}

// IsEmissive reports whether the mesh material emits
func (t *Triangle) IsEmissive() bool {
	return isEmissive(t.mesh.Material)
}
