package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Material is the BSDF contract shared by every surface material.
//
// Directions follow one convention throughout: wi is the incident ray
// direction (pointing toward the surface), wo is the scattered direction
// (pointing away from it).
type Material interface {
	// Sample draws an outgoing direction. It returns false when the sampled
	// direction is physically invalid.
	Sample(wi core.Vec3, hit *HitInfo, rv core.Vec2) (ScatterRecord, bool)
	// Eval returns the BSDF value times the cosine foreshortening of wo
	Eval(wi, wo core.Vec3, hit *HitInfo) core.Vec3
	// PDF returns the solid-angle density with which Sample produces wo.
	// It is zero for delta distributions.
	PDF(wi, wo core.Vec3, hit *HitInfo) float64
	// Emitted returns the radiance leaving the surface toward the ray origin
	Emitted(ray core.Ray, hit *HitInfo) (core.Vec3, bool)
	// IsEmissive reports whether the material can emit at all
	IsEmissive() bool
	// IsDelta reports whether every direction Sample produces is specular.
	// Eval and PDF are then zero everywhere and light sampling finds nothing.
	IsDelta() bool

	material()
}

// ScatterRecord is the result of sampling a material
type ScatterRecord struct {
	Attenuation core.Vec3 // Sample weight for specular events
	Wo          core.Vec3 // Sampled outgoing direction (unit length)
	IsSpecular  bool      // Delta distribution: Eval and PDF are not usable
}

// HitInfo describes a ray-surface intersection. It is created fresh for every
// query and copied by value; the Material it references is shared.
type HitInfo struct {
	T        float64   // Parameter t along the ray
	P        core.Vec3 // World-space hit point
	GN       core.Vec3 // Geometric normal (unit, outward)
	SN       core.Vec3 // Shading normal (unit, outward)
	UV       core.Vec2 // Texture coordinates
	Material Material  // Material of the surface that was hit
}

// FrontFacing reports whether wi arrives on the side the geometric normal points to
func (h *HitInfo) FrontFacing(wi core.Vec3) bool {
	return wi.Dot(h.GN) < 0
}

// facing returns the geometric and shading normals flipped toward the side wi arrives from
func (h *HitInfo) facing(wi core.Vec3) (gn, sn core.Vec3) {
	if h.FrontFacing(wi) {
		return h.GN, h.SN
	}
	return h.GN.Negate(), h.SN.Negate()
}

// Scatter samples m and returns the throughput weight of the sample: the
// attenuation for specular events, Eval/PDF otherwise. It returns false when
// the material absorbs the path.
func Scatter(m Material, ray core.Ray, hit *HitInfo, rv core.Vec2) (ScatterRecord, core.Vec3, bool) {
	srec, ok := m.Sample(ray.Direction, hit, rv)
	if !ok {
		return ScatterRecord{}, core.Vec3{}, false
	}
	if srec.IsSpecular {
		return srec, srec.Attenuation, true
	}
	pdf := m.PDF(ray.Direction, srec.Wo, hit)
	if pdf <= 0 {
		return ScatterRecord{}, core.Vec3{}, false
	}
	return srec, m.Eval(ray.Direction, srec.Wo, hit).Divide(pdf), true
}

// noEmission is embedded by materials that never emit
type noEmission struct{}

func (noEmission) Emitted(core.Ray, *HitInfo) (core.Vec3, bool) { return core.Vec3{}, false }
func (noEmission) IsEmissive() bool                             { return false }
