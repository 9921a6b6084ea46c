package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Default returns a small showcase: diffuse, metal, glass and coated spheres
// on a checkered ground under a sky-colored background and a distant lamp
func Default(width, height int) Config {
	cfg := DefaultConfig()

	view, err := core.LookAt(core.NewVec3(0, 0.75, 2), core.NewVec3(0, 0.5, -1), core.NewVec3(0, 1, 0))
	if err != nil {
		panic(err)
	}
	cfg.Camera = CameraConfig{Transform: view, VFov: 40, Width: width, Height: height}
	cfg.Integrator = integrator.Config{Type: integrator.TypePathTracerMIS, MaxBounces: 50}
	cfg.Sampler.Samples = 64
	cfg.Background = core.NewVec3(0.5, 0.7, 1.0)

	red := material.NewLambertian(material.NewConstant(core.NewVec3(0.65, 0.25, 0.2)))
	silver := material.NewMetal(material.NewConstant(core.Splat(0.8)), material.NewConstantScalar(0))
	gold := material.NewMetal(material.NewConstant(core.NewVec3(0.8, 0.6, 0.2)), material.NewConstantScalar(0.3))
	glass := material.NewDielectric(material.NewConstantScalar(1.5))
	coatedRed := material.NewFresnelBlend(material.NewConstantScalar(1.5), silver, red)
	checker := material.NewChecker(
		material.NewConstant(core.NewVec3(0.48, 0.48, 0.0)),
		material.NewConstant(core.Splat(0.9)),
		4,
	)
	lamp := material.NewDiffuseLight(material.NewConstant(core.NewVec3(15.0, 14.0, 13.0)))

	cfg.Surfaces = []geometry.Surface{
		geometry.NewSphere(0.5, core.Translate(core.NewVec3(0, 0.5, -1)), coatedRed),
		geometry.NewSphere(0.5, core.Translate(core.NewVec3(-1, 0.5, -1)), silver),
		geometry.NewSphere(0.5, core.Translate(core.NewVec3(1, 0.5, -1)), gold),
		geometry.NewSphere(0.25, core.Translate(core.NewVec3(0.5, 0.25, -0.5)), glass),
		placedQuad(10000, core.NewVec3(1, 0, 0), -90, core.Vec3{}, material.NewLambertian(checker)),
		geometry.NewSphere(10, core.Translate(core.NewVec3(30, 30.5, 15)), lamp),
	}
	return cfg
}
