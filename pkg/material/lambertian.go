package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	noEmission
	Albedo Texture // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo Texture) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

func (*Lambertian) material() {}

func (*Lambertian) IsDelta() bool { return false }

// Sample draws a cosine-weighted direction about the shading normal
func (l *Lambertian) Sample(wi core.Vec3, hit *HitInfo, rv core.Vec2) (ScatterRecord, bool) {
	_, sn := hit.facing(wi)
	wo := core.SampleCosineHemisphere(sn, rv)

	// Catch degenerate samples
	if wo.LengthSquared() < 1e-16 {
		wo = sn
	}
	wo = wo.Normalize()
	if wo.Dot(sn) <= 0 {
		return ScatterRecord{}, false
	}

	return ScatterRecord{
		Attenuation: colorAt(l.Albedo, hit),
		Wo:          wo,
		IsSpecular:  false,
	}, true
}

// Eval returns albedo·cosθ/π
func (l *Lambertian) Eval(wi, wo core.Vec3, hit *HitInfo) core.Vec3 {
	_, sn := hit.facing(wi)
	cosTheta := wo.Normalize().Dot(sn)
	if cosTheta <= 0 {
		return core.Vec3{}
	}
	return colorAt(l.Albedo, hit).Multiply(cosTheta / math.Pi)
}

// PDF returns cosθ/π
func (l *Lambertian) PDF(wi, wo core.Vec3, hit *HitInfo) float64 {
	_, sn := hit.facing(wi)
	return core.CosineHemispherePDF(wo.Normalize().Dot(sn))
}
