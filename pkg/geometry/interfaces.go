package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Surface is anything a ray can hit: primitives and the aggregates built
// from them. Implementations are immutable after construction and safe to
// share between goroutines.
type Surface interface {
	// Intersect returns the closest hit with t in [ray.MinT, ray.MaxT]
	Intersect(ray core.Ray) (material.HitInfo, bool)
	// Bounds returns the world-space bounding box
	Bounds() core.AABB
	// Sample picks a point on the surface as seen from origin for light sampling
	Sample(origin core.Vec3, rv core.Vec2) (EmitterRecord, bool)
	// PDF returns the solid-angle density with which Sample picks direction from origin
	PDF(origin, direction core.Vec3) float64
	// IsEmissive reports whether any part of the surface emits light
	IsEmissive() bool

	surface()
}

// EmitterRecord describes a point sampled on an emitter
type EmitterRecord struct {
	Origin  core.Vec3         // Point the sample was taken from
	Wi      core.Vec3         // Unit direction from Origin toward the sampled point
	PDF     float64           // Solid-angle density of Wi
	Hit     material.HitInfo  // Surface data at the sampled point; Hit.T is the distance
	Emitted core.Vec3         // Radiance leaving the sampled point toward Origin
}

// Weight returns the emitted radiance divided by the sampling density
func (e EmitterRecord) Weight() core.Vec3 {
	if e.PDF <= 0 {
		return core.Vec3{}
	}
	return e.Emitted.Divide(e.PDF)
}

// newEmitterRecord fills in the emission seen from origin along wi
func newEmitterRecord(origin, wi core.Vec3, hit material.HitInfo, pdf float64) EmitterRecord {
	rec := EmitterRecord{Origin: origin, Wi: wi, PDF: pdf, Hit: hit}
	if hit.Material != nil {
		if le, ok := hit.Material.Emitted(core.NewRay(origin, wi), &hit); ok {
			rec.Emitted = le
		}
	}
	return rec
}

func isEmissive(m material.Material) bool {
	return m != nil && m.IsEmissive()
}
