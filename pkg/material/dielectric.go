package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	noEmission
	IOR Texture // Index of refraction, reduced to a scalar by luminance
}

// NewDielectric creates a new dielectric material
func NewDielectric(ior Texture) *Dielectric {
	return &Dielectric{IOR: ior}
}

func (*Dielectric) material() {}

func (*Dielectric) IsDelta() bool { return true }

// Sample chooses reflection or refraction with probability given by Schlick's
// Fresnel term, forcing reflection under total internal reflection
func (d *Dielectric) Sample(wi core.Vec3, hit *HitInfo, rv core.Vec2) (ScatterRecord, bool) {
	ior := scalarAt(d.IOR, hit, 1.5)

	// Determine if we're entering or exiting the material
	normal := hit.SN
	refractionRatio := 1.0 / ior
	if !hit.FrontFacing(wi) {
		normal = normal.Negate()
		refractionRatio = ior
	}

	unitDirection := wi.Normalize()
	cosTheta := math.Min(-unitDirection.Dot(normal), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))

	var direction core.Vec3
	cannotRefract := refractionRatio*sinTheta > 1.0
	if cannotRefract || core.Schlick(cosTheta, refractionRatio) > rv.X {
		direction = core.Reflect(unitDirection, normal)
	} else {
		direction = core.Refract(unitDirection, normal, refractionRatio)
	}

	return ScatterRecord{
		Attenuation: core.Splat(1),
		Wo:          direction.Normalize(),
		IsSpecular:  true,
	}, true
}

// Eval is zero: reflection and refraction are delta distributions
func (d *Dielectric) Eval(wi, wo core.Vec3, hit *HitInfo) core.Vec3 {
	return core.Vec3{}
}

// PDF is zero for specular materials
func (d *Dielectric) PDF(wi, wo core.Vec3, hit *HitInfo) float64 {
	return 0
}
