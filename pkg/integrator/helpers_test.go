package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/sampler"
)

// testScene is a minimal Scene over a linear group
type testScene struct {
	root       *geometry.LinearGroup
	emitters   *geometry.LinearGroup
	background core.Vec3
}

func newTestScene(background core.Vec3, surfaces ...geometry.Surface) *testScene {
	var emissive []geometry.Surface
	for _, s := range surfaces {
		if s.IsEmissive() {
			emissive = append(emissive, s)
		}
	}
	return &testScene{
		root:       geometry.NewLinearGroup(surfaces),
		emitters:   geometry.NewLinearGroup(emissive),
		background: background,
	}
}

func (s *testScene) Intersect(ray core.Ray) (material.HitInfo, bool) { return s.root.Intersect(ray) }
func (s *testScene) Emitters() geometry.Surface                       { return s.emitters }
func (s *testScene) Background(core.Ray) core.Vec3                    { return s.background }

// floorQuad returns a quad at height y facing +y
func floorQuad(size, y float64, m material.Material) *geometry.Quad {
	rotate, _ := core.Rotate(core.NewVec3(1, 0, 0), -90)
	return geometry.NewQuad(core.NewVec2(size, size), rotate.Then(core.Translate(core.NewVec3(0, y, 0))), m)
}

// ceilingQuad returns a quad at height y facing -y
func ceilingQuad(size, y float64, m material.Material) *geometry.Quad {
	rotate, _ := core.Rotate(core.NewVec3(1, 0, 0), 90)
	return geometry.NewQuad(core.NewVec2(size, size), rotate.Then(core.Translate(core.NewVec3(0, y, 0))), m)
}

// estimate averages n estimates of Li along ray and returns the mean
// luminance and its standard error
func estimate(integ Integrator, scene Scene, ray core.Ray, n int, seed uint64) (mean, stderr float64) {
	s := sampler.NewIndependent(n, seed, 0)
	sum, sumSq := 0.0, 0.0
	for i := 0; i < n; i++ {
		y := integ.Li(scene, s, ray).Luminance()
		sum += y
		sumSq += y * y
		s.Advance()
	}
	mean = sum / float64(n)
	variance := math.Max(0, sumSq/float64(n)-mean*mean)
	return mean, math.Sqrt(variance / float64(n))
}
