package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// LinearGroup is a flat list of surfaces tested one after another. It also
// serves as the emitter set: sampling picks a child uniformly.
type LinearGroup struct {
	Surfaces []Surface

	bounds   core.AABB
	emissive bool
}

// NewLinearGroup creates a group over surfaces
func NewLinearGroup(surfaces []Surface) *LinearGroup {
	g := &LinearGroup{Surfaces: surfaces, bounds: core.EmptyAABB()}
	for _, s := range surfaces {
		g.bounds = g.bounds.Enclose(s.Bounds())
		g.emissive = g.emissive || s.IsEmissive()
	}
	return g
}

func (*LinearGroup) surface() {}

// Len returns the number of children
func (g *LinearGroup) Len() int {
	return len(g.Surfaces)
}

// Intersect returns the nearest hit among all children
func (g *LinearGroup) Intersect(ray core.Ray) (material.HitInfo, bool) {
	return intersectAll(g.Surfaces, ray)
}

// intersectAll scans surfaces, shrinking the local ray copy as hits are found
func intersectAll(surfaces []Surface, ray core.Ray) (material.HitInfo, bool) {
	var closest material.HitInfo
	hitAnything := false
	for _, s := range surfaces {
		if hit, ok := s.Intersect(ray); ok {
			closest = hit
			hitAnything = true
			ray.MaxT = hit.T
		}
	}
	return closest, hitAnything
}

// Bounds returns the union of the children's bounds
func (g *LinearGroup) Bounds() core.AABB {
	return g.bounds
}

// Sample chooses a child from rv.X, rescales rv.X for reuse and samples the
// child. The density is the child's density divided by the number of children.
func (g *LinearGroup) Sample(origin core.Vec3, rv core.Vec2) (EmitterRecord, bool) {
	n := len(g.Surfaces)
	if n == 0 {
		return EmitterRecord{}, false
	}
	scaled := rv.X * float64(n)
	index := min(int(scaled), n-1)
	rv.X = min(scaled-float64(index), 1)

	rec, ok := g.Surfaces[index].Sample(origin, rv)
	if !ok || rec.PDF <= 0 {
		return EmitterRecord{}, false
	}
	rec.PDF /= float64(n)
	return rec, true
}

// PDF returns the density with which Sample produces the first child hit
// along direction. Children hidden behind it can only produce occluded
// samples, so they do not contribute.
func (g *LinearGroup) PDF(origin, direction core.Vec3) float64 {
	n := len(g.Surfaces)
	if n == 0 {
		return 0
	}
	ray := core.NewRay(origin, direction)
	var nearest Surface
	for _, s := range g.Surfaces {
		if hit, ok := s.Intersect(ray); ok {
			nearest = s
			ray.MaxT = hit.T
		}
	}
	if nearest == nil {
		return 0
	}
	return nearest.PDF(origin, direction) / float64(n)
}

// IsEmissive reports whether any child emits
func (g *LinearGroup) IsEmissive() bool {
	return g.emissive
}
