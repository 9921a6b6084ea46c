package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// BlinnPhong samples a half vector from a cosine-power lobe in a frame built
// around the shading normal and reflects the incident direction about it
type BlinnPhong struct {
	noEmission
	Albedo   Texture
	Exponent float64
}

// NewBlinnPhong creates a new Blinn-Phong material
func NewBlinnPhong(albedo Texture, exponent float64) *BlinnPhong {
	return &BlinnPhong{Albedo: albedo, Exponent: max(0, exponent)}
}

func (*BlinnPhong) material() {}

func (*BlinnPhong) IsDelta() bool { return false }

// Sample draws a half vector and reflects about it
func (b *BlinnPhong) Sample(wi core.Vec3, hit *HitInfo, rv core.Vec2) (ScatterRecord, bool) {
	gn, sn := hit.facing(wi)
	unitWi := wi.Normalize()
	half := core.SampleCosinePower(sn, b.Exponent, rv).Normalize()

	// Half vectors facing away from the viewer cannot produce a reflection
	if unitWi.Dot(half) >= 0 {
		return ScatterRecord{}, false
	}
	wo := core.Reflect(unitWi, half).Normalize()
	if wo.Dot(gn) <= 0 {
		return ScatterRecord{}, false
	}
	return ScatterRecord{
		Attenuation: colorAt(b.Albedo, hit),
		Wo:          wo,
		IsSpecular:  false,
	}, true
}

// Eval returns albedo times the direction density, so Eval/PDF equals the albedo
func (b *BlinnPhong) Eval(wi, wo core.Vec3, hit *HitInfo) core.Vec3 {
	return colorAt(b.Albedo, hit).Multiply(b.PDF(wi, wo, hit))
}

// PDF converts the half-vector density to a density over wo
func (b *BlinnPhong) PDF(wi, wo core.Vec3, hit *HitInfo) float64 {
	gn, sn := hit.facing(wi)
	wo = wo.Normalize()
	if wo.Dot(gn) <= 0 {
		return 0
	}
	half := wo.Subtract(wi.Normalize())
	if half.LengthSquared() == 0 {
		return 0
	}
	half = half.Normalize()
	halfPDF := core.CosinePowerPDF(b.Exponent, half.Dot(sn))
	cosOut := math.Abs(wo.Dot(half))
	if halfPDF == 0 || cosOut == 0 {
		return 0
	}
	return halfPDF / (4 * cosOut)
}
