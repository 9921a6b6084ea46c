package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
)

// placedQuad returns a size x size quad rotated by angle degrees about axis
// and then moved to center. An unrotated quad faces +Z.
func placedQuad(size float64, axis core.Vec3, angle float64, center core.Vec3, m material.Material) *geometry.Quad {
	transform := core.Translate(center)
	if angle != 0 {
		rotate, err := core.Rotate(axis, angle)
		if err != nil {
			panic(err) // axes below are constant and non-zero
		}
		transform = rotate.Then(transform)
	}
	return geometry.NewQuad(core.NewVec2(size, size), transform, m)
}

// CornellBox returns the classic Cornell box with quad walls, an area light
// and two spheres (mirror and glass)
func CornellBox(width, height int) Config {
	cfg := DefaultConfig()

	from := core.NewVec3(278, 278, -800) // Outside the box looking in
	at := core.NewVec3(278, 278, 0)
	view, err := core.LookAt(from, at, core.NewVec3(0, 1, 0))
	if err != nil {
		panic(err)
	}
	cfg.Camera = CameraConfig{Transform: view, VFov: 40, Width: width, Height: height}
	cfg.Integrator = integrator.Config{Type: integrator.TypePathTracerMIS, MaxBounces: 40}
	cfg.Sampler.Samples = 64

	white := material.NewLambertian(material.NewConstant(core.NewVec3(0.73, 0.73, 0.73)))
	red := material.NewLambertian(material.NewConstant(core.NewVec3(0.65, 0.05, 0.05)))
	green := material.NewLambertian(material.NewConstant(core.NewVec3(0.12, 0.45, 0.15)))
	lamp := material.NewDiffuseLight(material.NewConstant(core.Splat(15)))

	// Standard 555 unit box
	const size = 555.0
	const half = size / 2
	xAxis, yAxis := core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)

	cfg.Surfaces = []geometry.Surface{
		placedQuad(size, xAxis, -90, core.NewVec3(half, 0, half), white),    // Floor
		placedQuad(size, xAxis, 90, core.NewVec3(half, size, half), white),  // Ceiling
		placedQuad(size, yAxis, 180, core.NewVec3(half, half, size), white), // Back wall
		placedQuad(size, yAxis, 90, core.NewVec3(0, half, half), red),       // Left wall
		placedQuad(size, yAxis, -90, core.NewVec3(size, half, half), green), // Right wall

		// Ceiling light, slightly below the ceiling and facing down
		placedQuad(130, xAxis, 90, core.NewVec3(half, size-1, half), lamp),

		geometry.NewSphere(82.5, core.Translate(core.NewVec3(185, 82.5, 169)),
			material.NewMetal(material.NewConstant(core.NewVec3(0.8, 0.8, 0.9)), material.NewConstantScalar(0))),
		geometry.NewSphere(90, core.Translate(core.NewVec3(370, 90, 351)),
			material.NewDielectric(material.NewConstantScalar(1.5))),
	}
	return cfg
}
