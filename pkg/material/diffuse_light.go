package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// DiffuseLight emits constant radiance from the front face and never reflects
type DiffuseLight struct {
	Emit Texture // Emitted radiance
}

// NewDiffuseLight creates a new emissive material
func NewDiffuseLight(emit Texture) *DiffuseLight {
	return &DiffuseLight{Emit: emit}
}

func (*DiffuseLight) material() {}

func (*DiffuseLight) IsDelta() bool { return false }

// Sample returns a placeholder cosine-hemisphere direction with zero
// attenuation so that the integrators reach the emission step at a light
func (e *DiffuseLight) Sample(wi core.Vec3, hit *HitInfo, rv core.Vec2) (ScatterRecord, bool) {
	_, sn := hit.facing(wi)
	wo := core.SampleCosineHemisphere(sn, rv).Normalize()
	if wo.IsZero() {
		wo = sn
	}
	return ScatterRecord{
		Attenuation: core.Vec3{},
		Wo:          wo,
		IsSpecular:  false,
	}, true
}

// Eval is zero: lights don't reflect
func (e *DiffuseLight) Eval(wi, wo core.Vec3, hit *HitInfo) core.Vec3 {
	return core.Vec3{}
}

// PDF matches the placeholder direction drawn by Sample
func (e *DiffuseLight) PDF(wi, wo core.Vec3, hit *HitInfo) float64 {
	_, sn := hit.facing(wi)
	return core.CosineHemispherePDF(wo.Normalize().Dot(sn))
}

// Emitted returns the emission when the ray arrives on the front face
func (e *DiffuseLight) Emitted(ray core.Ray, hit *HitInfo) (core.Vec3, bool) {
	if !hit.FrontFacing(ray.Direction) {
		return core.Vec3{}, false
	}
	return colorAt(e.Emit, hit), true
}

// IsEmissive is always true
func (e *DiffuseLight) IsEmissive() bool {
	return true
}
