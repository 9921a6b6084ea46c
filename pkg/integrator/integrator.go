package integrator

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/sampler"
)

// Scene is the read-only view of the world the integrators trace against
type Scene interface {
	// Intersect returns the closest hit along ray
	Intersect(ray core.Ray) (material.HitInfo, bool)
	// Emitters returns the set of emissive surfaces used for light sampling
	Emitters() geometry.Surface
	// Background returns the radiance carried by rays that escape the scene
	Background(ray core.Ray) core.Vec3
}

// Integrator estimates the radiance arriving along a camera ray
type Integrator interface {
	// Li returns one Monte Carlo estimate of the radiance along ray
	Li(scene Scene, s sampler.Sampler, ray core.Ray) core.Vec3

	integrator()
}

// Integrator type names as they appear in scene files
const (
	TypeNormals        = "normals"
	TypeAO             = "ao"
	TypePathTracerMats = "path_tracer_mats"
	TypePathTracerNEE  = "path_tracer_nee"
	TypePathTracerMIS  = "path_tracer_mis"
)

// DefaultMaxBounces is used when a configuration omits max_bounces
const DefaultMaxBounces = 64

// ErrUnknownIntegrator is returned by New for unsupported integrator types
var ErrUnknownIntegrator = errors.New("unknown integrator")

// Config selects and parameterizes an integrator
type Config struct {
	Type       string
	MaxBounces int
}

// DefaultConfig returns the BSDF-sampling path tracer with the default bounce limit
func DefaultConfig() Config {
	return Config{Type: TypePathTracerMats, MaxBounces: DefaultMaxBounces}
}

// New creates the integrator described by cfg
func New(cfg Config) (Integrator, error) {
	if cfg.MaxBounces < 0 {
		return nil, fmt.Errorf("max_bounces must not be negative, got %d", cfg.MaxBounces)
	}
	switch cfg.Type {
	case TypeNormals:
		return &Normals{}, nil
	case TypeAO:
		return &AmbientOcclusion{}, nil
	case TypePathTracerMats, "":
		return &PathTracerMats{MaxBounces: cfg.MaxBounces}, nil
	case TypePathTracerNEE:
		return &PathTracerNEE{MaxBounces: cfg.MaxBounces}, nil
	case TypePathTracerMIS:
		return &PathTracerMIS{MaxBounces: cfg.MaxBounces}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownIntegrator, cfg.Type)
}

// Normals shows the absolute shading normal of the first hit
type Normals struct{}

func (*Normals) integrator() {}

// Li returns |n| at the first hit, black on a miss
func (*Normals) Li(scene Scene, s sampler.Sampler, ray core.Ray) core.Vec3 {
	hit, ok := scene.Intersect(ray)
	if !ok {
		return core.Vec3{}
	}
	return hit.SN.Abs()
}

// AmbientOcclusion reports whether a single material-sampled direction escapes the scene
type AmbientOcclusion struct{}

func (*AmbientOcclusion) integrator() {}

// Li returns white when the sampled direction is unoccluded, black otherwise
func (*AmbientOcclusion) Li(scene Scene, s sampler.Sampler, ray core.Ray) core.Vec3 {
	hit, ok := scene.Intersect(ray)
	if !ok {
		return core.Vec3{}
	}
	srec, ok := hit.Material.Sample(ray.Direction, &hit, s.Next2D())
	if !ok {
		return core.Vec3{}
	}
	if _, occluded := scene.Intersect(core.NewRay(hit.P, srec.Wo)); occluded {
		return core.Vec3{}
	}
	return core.Splat(1)
}

// shadowMatchEpsilon is the distance tolerance between a shadow ray's hit and
// the sampled emitter point
const shadowMatchEpsilon = 1e-5

// lightSample is one explicit emitter sample seen from a hit
type lightSample struct {
	contribution core.Vec3 // eval · emitted / pdf
	lightPDF     float64
	materialPDF  float64
}

// sampleLight samples the emitter set from hit and tests visibility by
// comparing the shadow ray's hit distance with the sampled point
func sampleLight(scene Scene, hit *material.HitInfo, wi core.Vec3, rv core.Vec2) (lightSample, bool) {
	emitters := scene.Emitters()
	if emitters == nil || !emitters.IsEmissive() {
		return lightSample{}, false
	}
	rec, ok := emitters.Sample(hit.P, rv)
	if !ok || rec.PDF <= 0 || rec.Emitted.IsZero() {
		return lightSample{}, false
	}

	// Skip the shadow ray when the material cannot scatter toward the light
	f := hit.Material.Eval(wi, rec.Wi, hit)
	if f.IsZero() {
		return lightSample{}, false
	}

	shadow, ok := scene.Intersect(core.NewRay(hit.P, rec.Wi))
	if !ok || math.Abs(shadow.T-rec.Hit.T) > shadowMatchEpsilon {
		return lightSample{}, false
	}
	return lightSample{
		contribution: f.MultiplyVec(rec.Weight()),
		lightPDF:     rec.PDF,
		materialPDF:  hit.Material.PDF(wi, rec.Wi, hit),
	}, true
}
