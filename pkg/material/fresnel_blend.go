package material

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// FresnelBlend chooses between a reflected and a refracted sub-material with
// probability given by the Fresnel term at the hit.
//
// Sub-materials may be given by name and bound later with Resolve, so scenes
// can reference materials declared after the blend.
type FresnelBlend struct {
	noEmission
	IOR           Texture
	Reflected     Material
	Refracted     Material
	ReflectedName string
	RefractedName string
}

// NewFresnelBlend creates a blend with both sub-materials already bound
func NewFresnelBlend(ior Texture, reflected, refracted Material) *FresnelBlend {
	return &FresnelBlend{IOR: ior, Reflected: reflected, Refracted: refracted}
}

// NewNamedFresnelBlend creates a blend whose sub-materials are bound by Resolve
func NewNamedFresnelBlend(ior Texture, reflectedName, refractedName string) *FresnelBlend {
	return &FresnelBlend{IOR: ior, ReflectedName: reflectedName, RefractedName: refractedName}
}

func (*FresnelBlend) material() {}

// IsDelta is true only when both sub-materials are. A blend with one smooth
// side has an evaluable part wherever the Fresnel weight of that side is
// non-zero, whichever side Sample picks.
func (f *FresnelBlend) IsDelta() bool {
	return f.Reflected.IsDelta() && f.Refracted.IsDelta()
}

// Resolve binds named sub-materials through lookup. It is called once during
// scene construction; sampling never touches names.
func (f *FresnelBlend) Resolve(lookup func(name string) (Material, bool)) error {
	bind := func(current Material, name, role string) (Material, error) {
		if current != nil {
			return current, nil
		}
		m, ok := lookup(name)
		if !ok {
			return nil, fmt.Errorf("fresnel blend: %s material %q not found", role, name)
		}
		if m == Material(f) {
			return nil, fmt.Errorf("fresnel blend: %s material %q refers to itself", role, name)
		}
		return m, nil
	}
	var err error
	if f.Reflected, err = bind(f.Reflected, f.ReflectedName, "reflected"); err != nil {
		return err
	}
	if f.Refracted, err = bind(f.Refracted, f.RefractedName, "refracted"); err != nil {
		return err
	}
	return nil
}

// fresnel returns the probability of choosing the reflected material
func (f *FresnelBlend) fresnel(wi core.Vec3, hit *HitInfo) float64 {
	ior := scalarAt(f.IOR, hit, 1.5)
	ratio := 1.0 / ior
	if !hit.FrontFacing(wi) {
		ratio = ior
	}
	cosTheta := math.Min(math.Abs(wi.Normalize().Dot(hit.SN)), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	if ratio*sinTheta > 1 {
		return 1
	}
	return core.Schlick(cosTheta, ratio)
}

// Sample delegates to one sub-material, reusing rv.X after rescaling it
func (f *FresnelBlend) Sample(wi core.Vec3, hit *HitInfo, rv core.Vec2) (ScatterRecord, bool) {
	fr := f.fresnel(wi, hit)
	if rv.X < fr {
		rv.X = rv.X / fr
		return f.Reflected.Sample(wi, hit, rv)
	}
	rv.X = math.Min((rv.X-fr)/(1-fr), math.Nextafter(1, 0))
	return f.Refracted.Sample(wi, hit, rv)
}

// Eval mixes the sub-material values by the Fresnel weights
func (f *FresnelBlend) Eval(wi, wo core.Vec3, hit *HitInfo) core.Vec3 {
	fr := f.fresnel(wi, hit)
	return f.Reflected.Eval(wi, wo, hit).Multiply(fr).
		Add(f.Refracted.Eval(wi, wo, hit).Multiply(1 - fr))
}

// PDF mixes the sub-material densities by the Fresnel weights
func (f *FresnelBlend) PDF(wi, wo core.Vec3, hit *HitInfo) float64 {
	fr := f.fresnel(wi, hit)
	return fr*f.Reflected.PDF(wi, wo, hit) + (1-fr)*f.Refracted.PDF(wi, wo, hit)
}
