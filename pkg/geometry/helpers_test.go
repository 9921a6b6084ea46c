package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

var (
	white = material.NewLambertian(material.NewConstantScalar(0.8))
	lamp  = material.NewDiffuseLight(material.NewConstantScalar(4))
)

func randomVec2(random *rand.Rand) core.Vec2 {
	return core.NewVec2(random.Float64(), random.Float64())
}

// integrateSurfacePDF estimates ∫pdf dΩ over all directions leaving origin
func integrateSurfacePDF(s Surface, origin core.Vec3, samples int, seed int64) float64 {
	random := rand.New(rand.NewSource(seed))
	sum := 0.0
	for i := 0; i < samples; i++ {
		dir := core.SampleOnUnitSphere(randomVec2(random))
		sum += s.PDF(origin, dir) / core.UniformSpherePDF
	}
	return sum / float64(samples)
}

// checkEmitterSamples verifies that sampled records agree with PDF and Intersect
func checkEmitterSamples(t *testing.T, s Surface, origin core.Vec3) {
	t.Helper()
	random := rand.New(rand.NewSource(42))
	accepted := 0
	for i := 0; i < 1000; i++ {
		rec, ok := s.Sample(origin, randomVec2(random))
		if !ok {
			continue
		}
		accepted++
		if math.Abs(rec.Wi.Length()-1) > 1e-9 {
			t.Fatalf("Wi %v is not unit length", rec.Wi)
		}
		pdf := s.PDF(origin, rec.Wi)
		if math.Abs(pdf-rec.PDF) > 1e-6*math.Max(1, pdf) {
			t.Fatalf("sampled pdf %f, PDF() %f", rec.PDF, pdf)
		}
		hit, ok := s.Intersect(core.NewRay(origin, rec.Wi))
		if !ok {
			t.Fatalf("ray toward sampled point %v missed", rec.Hit.P)
		}
		if math.Abs(hit.T-rec.Hit.T) > 1e-6 {
			t.Fatalf("intersect distance %f, sampled distance %f", hit.T, rec.Hit.T)
		}
		if rec.Hit.P.Subtract(origin).Length()-rec.Hit.T > 1e-6 {
			t.Fatalf("Hit.T %f is not the distance to %v", rec.Hit.T, rec.Hit.P)
		}
	}
	if accepted < 900 {
		t.Errorf("only %d of 1000 samples accepted", accepted)
	}
}
