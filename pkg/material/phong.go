package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Phong is a glossy material whose lobe is a normalized cosine power around
// the mirror-reflection direction
type Phong struct {
	noEmission
	Albedo   Texture
	Exponent float64
}

// NewPhong creates a new Phong material
func NewPhong(albedo Texture, exponent float64) *Phong {
	return &Phong{Albedo: albedo, Exponent: max(0, exponent)}
}

func (*Phong) material() {}

func (*Phong) IsDelta() bool { return false }

// Sample draws from the lobe around the mirror direction, rejecting samples
// below the geometric hemisphere
func (p *Phong) Sample(wi core.Vec3, hit *HitInfo, rv core.Vec2) (ScatterRecord, bool) {
	gn, sn := hit.facing(wi)
	mirror := core.Reflect(wi.Normalize(), sn)
	wo := core.SampleCosinePower(mirror, p.Exponent, rv).Normalize()
	if wo.Dot(gn) <= 0 {
		return ScatterRecord{}, false
	}
	return ScatterRecord{
		Attenuation: colorAt(p.Albedo, hit),
		Wo:          wo,
		IsSpecular:  false,
	}, true
}

// Eval returns albedo times the lobe density, so Eval/PDF equals the albedo
func (p *Phong) Eval(wi, wo core.Vec3, hit *HitInfo) core.Vec3 {
	return colorAt(p.Albedo, hit).Multiply(p.PDF(wi, wo, hit))
}

// PDF returns the cosine-power density about the mirror direction
func (p *Phong) PDF(wi, wo core.Vec3, hit *HitInfo) float64 {
	gn, sn := hit.facing(wi)
	wo = wo.Normalize()
	if wo.Dot(gn) <= 0 {
		return 0
	}
	mirror := core.Reflect(wi.Normalize(), sn)
	return core.CosinePowerPDF(p.Exponent, mirror.Dot(wo))
}
