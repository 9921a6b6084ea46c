package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
)

// TriangleMeshes returns a scene showcasing mesh geometry: a box, a pyramid
// and a smooth-shaded UV sphere on a ground quad, lit by two spherical lamps
func TriangleMeshes(width, height int) (Config, error) {
	cfg := DefaultConfig()

	view, err := core.LookAt(core.NewVec3(0, 2, 6), core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0))
	if err != nil {
		return Config{}, err
	}
	cfg.Camera = CameraConfig{Transform: view, VFov: 45, Width: width, Height: height}
	cfg.Integrator = integrator.Config{Type: integrator.TypePathTracerMIS, MaxBounces: 40}
	cfg.Sampler.Samples = 32
	cfg.Background = core.NewVec3(0.5, 0.7, 1.0).Multiply(0.3)
	cfg.Accelerator = &AcceleratorConfig{Split: geometry.SplitMiddle}

	warm := material.NewDiffuseLight(material.NewConstant(core.NewVec3(12.0, 11.0, 10.0)))
	cool := material.NewDiffuseLight(material.NewConstant(core.NewVec3(6.0, 7.0, 8.0)))
	ground := material.NewLambertian(material.NewConstantScalar(0.7))
	cfg.Surfaces = []geometry.Surface{
		geometry.NewSphere(1.5, core.Translate(core.NewVec3(2, 6, 3)), warm),
		geometry.NewSphere(0.8, core.Translate(core.NewVec3(-3, 4, 2)), cool),
		placedQuad(1000, core.NewVec3(1, 0, 0), -90, core.Vec3{}, ground),
	}

	redMetal := material.NewMetal(material.NewConstant(core.NewVec3(0.8, 0.2, 0.2)), material.NewConstantScalar(0.1))
	blue := material.NewLambertian(material.NewConstant(core.NewVec3(0.2, 0.3, 0.8)))
	gold := material.NewMetal(material.NewConstant(core.NewVec3(0.8, 0.6, 0.2)), material.NewConstantScalar(0.05))

	meshes := []struct {
		data     geometry.MeshData
		yaw      float64 // Degrees around +Y
		position core.Vec3
		material material.Material
	}{
		{BoxMesh(core.Splat(1)), 30, core.NewVec3(-2, 0.5, 0), redMetal},
		{PyramidMesh(1.5, 2), 45, core.NewVec3(0, 1, 0), blue},
		{UVSphereMesh(0.8, 24, 12), 60, core.NewVec3(2, 0.8, 0), gold},
	}
	for _, m := range meshes {
		rotate, err := core.Rotate(core.NewVec3(0, 1, 0), m.yaw)
		if err != nil {
			return Config{}, err
		}
		mesh, err := geometry.NewMesh(m.data, rotate.Then(core.Translate(m.position)), m.material)
		if err != nil {
			return Config{}, err
		}
		cfg.Surfaces = append(cfg.Surfaces, mesh.Triangles()...)
	}
	return cfg, nil
}

// BoxMesh returns an axis-aligned box centered on the origin
func BoxMesh(size core.Vec3) geometry.MeshData {
	h := size.Multiply(0.5)
	return geometry.MeshData{
		Positions: []core.Vec3{
			core.NewVec3(-h.X, -h.Y, -h.Z), // 0: left-bottom-back
			core.NewVec3(+h.X, -h.Y, -h.Z), // 1: right-bottom-back
			core.NewVec3(+h.X, +h.Y, -h.Z), // 2: right-top-back
			core.NewVec3(-h.X, +h.Y, -h.Z), // 3: left-top-back
			core.NewVec3(-h.X, -h.Y, +h.Z), // 4: left-bottom-front
			core.NewVec3(+h.X, -h.Y, +h.Z), // 5: right-bottom-front
			core.NewVec3(+h.X, +h.Y, +h.Z), // 6: right-top-front
			core.NewVec3(-h.X, +h.Y, +h.Z), // 7: left-top-front
		},
		Indices: [][3]int{
			{0, 2, 1}, {0, 3, 2}, // Back (Z-)
			{4, 5, 6}, {4, 6, 7}, // Front (Z+)
			{0, 4, 7}, {0, 7, 3}, // Left (X-)
			{1, 2, 6}, {1, 6, 5}, // Right (X+)
			{0, 1, 5}, {0, 5, 4}, // Bottom (Y-)
			{3, 7, 6}, {3, 6, 2}, // Top (Y+)
		},
	}
}

// PyramidMesh returns a square-based pyramid centered on the origin
func PyramidMesh(baseSize, height float64) geometry.MeshData {
	b, h := baseSize/2, height/2
	return geometry.MeshData{
		Positions: []core.Vec3{
			core.NewVec3(-b, -h, -b),
			core.NewVec3(+b, -h, -b),
			core.NewVec3(+b, -h, +b),
			core.NewVec3(-b, -h, +b),
			core.NewVec3(0, h, 0), // Apex
		},
		Indices: [][3]int{
			{0, 1, 2}, {0, 2, 3}, // Base
			{0, 4, 1}, {1, 4, 2}, {2, 4, 3}, {3, 4, 0},
		},
	}
}

// UVSphereMesh tessellates a sphere into segments x rings quads split into
// triangles, with per-vertex normals and texture coordinates
func UVSphereMesh(radius float64, segments, rings int) geometry.MeshData {
	var data geometry.MeshData
	for r := 0; r <= rings; r++ {
		v := float64(r) / float64(rings)
		theta := v * math.Pi
		for s := 0; s <= segments; s++ {
			u := float64(s) / float64(segments)
			phi := u * 2 * math.Pi
			n := core.NewVec3(math.Sin(theta)*math.Cos(phi), math.Cos(theta), math.Sin(theta)*math.Sin(phi))
			data.Positions = append(data.Positions, n.Multiply(radius))
			data.Normals = append(data.Normals, n)
			data.UVs = append(data.UVs, core.NewVec2(u, 1-v))
		}
	}

	stride := segments + 1
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := r*stride + s
			b := a + stride
			if r != 0 {
				data.Indices = append(data.Indices, [3]int{a, a + 1, b})
			}
			if r != rings-1 {
				data.Indices = append(data.Indices, [3]int{a + 1, b + 1, b})
			}
		}
	}
	return data
}
