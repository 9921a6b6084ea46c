package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Metal reflects about the shading normal, perturbed by a roughness sphere.
// It is treated as specular: the glossy lobe has no evaluable density.
type Metal struct {
	noEmission
	Albedo    Texture // Metal color
	Roughness Texture // 0 = perfect mirror; reduced to a scalar by luminance
}

// NewMetal creates a new metal material
func NewMetal(albedo, roughness Texture) *Metal {
	return &Metal{Albedo: albedo, Roughness: roughness}
}

func (*Metal) material() {}

// IsDelta is true: every sample is reported as specular, rough or not
func (*Metal) IsDelta() bool { return true }

// Sample reflects wi and perturbs the result; samples that end up below the
// surface are rejected
func (m *Metal) Sample(wi core.Vec3, hit *HitInfo, rv core.Vec2) (ScatterRecord, bool) {
	_, sn := hit.facing(wi)
	reflected := core.Reflect(wi.Normalize(), sn)

	roughness := max(0, scalarAt(m.Roughness, hit, 0))
	if roughness > 0 {
		reflected = reflected.Add(core.SampleOnUnitSphere(rv).Multiply(roughness))
	}
	if reflected.Dot(sn) <= 0 {
		return ScatterRecord{}, false
	}

	return ScatterRecord{
		Attenuation: colorAt(m.Albedo, hit),
		Wo:          reflected.Normalize(),
		IsSpecular:  true,
	}, true
}

// Eval is zero: the distribution is not evaluable pointwise
func (m *Metal) Eval(wi, wo core.Vec3, hit *HitInfo) core.Vec3 {
	return core.Vec3{}
}

// PDF is zero for specular materials
func (m *Metal) PDF(wi, wo core.Vec3, hit *HitInfo) float64 {
	return 0
}
