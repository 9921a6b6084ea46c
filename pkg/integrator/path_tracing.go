package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/sampler"
)

// PathTracerMats is a path tracer that relies only on BSDF importance
// sampling; light is collected when a path happens to hit an emitter
type PathTracerMats struct {
	MaxBounces int
}

func (*PathTracerMats) integrator() {}

// Li traces one path from ray
func (pt *PathTracerMats) Li(scene Scene, s sampler.Sampler, ray core.Ray) core.Vec3 {
	radiance := core.Vec3{}
	throughput := core.Splat(1)

	for bounce := 0; bounce < pt.MaxBounces; bounce++ {
		hit, ok := scene.Intersect(ray)
		if !ok {
			return radiance.Add(throughput.MultiplyVec(scene.Background(ray)))
		}

		// Emission counts even when the material absorbs the path
		if emitted, ok := hit.Material.Emitted(ray, &hit); ok {
			radiance = radiance.Add(throughput.MultiplyVec(emitted))
		}

		srec, weight, ok := material.Scatter(hit.Material, ray, &hit, s.Next2D())
		if !ok {
			break
		}
		throughput = throughput.MultiplyVec(weight)
		if throughput.IsZero() {
			break
		}
		ray = core.NewRay(hit.P, srec.Wo)
	}
	return radiance
}

// PathTracerNEE adds an explicit light sample at every vertex whose material
// is not purely specular, including vertices where the BSDF sample is
// rejected. Emission found by BSDF sampling is only counted where no light
// sample could have found it: on the camera ray and after specular samples.
type PathTracerNEE struct {
	MaxBounces int
}

func (*PathTracerNEE) integrator() {}

// Li traces one path from ray
func (pt *PathTracerNEE) Li(scene Scene, s sampler.Sampler, ray core.Ray) core.Vec3 {
	radiance := core.Vec3{}
	throughput := core.Splat(1)
	countEmission := true

	for bounce := 0; bounce < pt.MaxBounces; bounce++ {
		hit, ok := scene.Intersect(ray)
		if !ok {
			return radiance.Add(throughput.MultiplyVec(scene.Background(ray)))
		}

		if countEmission {
			if emitted, ok := hit.Material.Emitted(ray, &hit); ok {
				radiance = radiance.Add(throughput.MultiplyVec(emitted))
			}
		}

		bsdfRV, lightRV := s.Next2D(), s.Next2D()
		if !hit.Material.IsDelta() {
			if light, ok := sampleLight(scene, &hit, ray.Direction, lightRV); ok {
				radiance = radiance.Add(throughput.MultiplyVec(light.contribution))
			}
		}

		srec, weight, ok := material.Scatter(hit.Material, ray, &hit, bsdfRV)
		if !ok {
			break
		}
		throughput = throughput.MultiplyVec(weight)
		if throughput.IsZero() {
			break
		}
		countEmission = srec.IsSpecular
		ray = core.NewRay(hit.P, srec.Wo)
	}
	return radiance
}

// PathTracerMIS combines light sampling and BSDF sampling with the power
// heuristic. The weight of BSDF-sampled emission is computed at the vertex
// that sampled the direction and applied when the emitter is reached.
type PathTracerMIS struct {
	MaxBounces int
}

func (*PathTracerMIS) integrator() {}

// Li traces one path from ray
func (pt *PathTracerMIS) Li(scene Scene, s sampler.Sampler, ray core.Ray) core.Vec3 {
	radiance := core.Vec3{}
	throughput := core.Splat(1)
	// Weight for emission found along the current ray; 1 on the camera ray
	// and after specular samples, where no light sample competes
	weightMat := 1.0

	for bounce := 0; bounce < pt.MaxBounces; bounce++ {
		hit, ok := scene.Intersect(ray)
		if !ok {
			return radiance.Add(throughput.MultiplyVec(scene.Background(ray)))
		}

		if emitted, ok := hit.Material.Emitted(ray, &hit); ok {
			radiance = radiance.Add(throughput.MultiplyVec(emitted).Multiply(weightMat))
		}

		bsdfRV, lightRV := s.Next2D(), s.Next2D()
		if !hit.Material.IsDelta() {
			if light, ok := sampleLight(scene, &hit, ray.Direction, lightRV); ok {
				weightLight := core.PowerHeuristic(1, light.lightPDF, 1, light.materialPDF)
				radiance = radiance.Add(throughput.MultiplyVec(light.contribution).Multiply(weightLight))
			}
		}

		srec, weight, ok := material.Scatter(hit.Material, ray, &hit, bsdfRV)
		if !ok {
			break
		}
		// A blend may pick a specular side at a vertex that also took a light
		// sample; that direction has no density for the light sample to match
		weightMat = 1.0
		if !srec.IsSpecular {
			weightMat = pt.materialWeight(scene, &hit, ray.Direction, srec.Wo)
		}

		throughput = throughput.MultiplyVec(weight)
		if throughput.IsZero() {
			break
		}
		ray = core.NewRay(hit.P, srec.Wo)
	}
	return radiance
}

// materialWeight is the power-heuristic weight of the BSDF strategy for wo
func (pt *PathTracerMIS) materialWeight(scene Scene, hit *material.HitInfo, wi, wo core.Vec3) float64 {
	emitters := scene.Emitters()
	if emitters == nil || !emitters.IsEmissive() {
		return 1
	}
	materialPDF := hit.Material.PDF(wi, wo, hit)
	lightPDF := emitters.PDF(hit.P, wo)
	return core.PowerHeuristic(1, materialPDF, 1, lightPDF)
}
