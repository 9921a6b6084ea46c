package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestGlossy_PDFIntegratesToOne(t *testing.T) {
	normal := core.NewVec3(0, 0, 1)
	wi := core.NewVec3(0, 0, -1)
	tests := []struct {
		name string
		m    Material
	}{
		{"phong", NewPhong(NewConstantScalar(0.8), 10)},
		{"blinn-phong", NewBlinnPhong(NewConstantScalar(0.8), 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := newHit(normal, tt.m)
			integral := integratePDF(tt.m, wi, hit, 400000, 5)
			if math.Abs(integral-1) > 2e-2 {
				t.Errorf("∫pdf = %f, expected 1", integral)
			}
		})
	}
}

func TestGlossy_SampleMatchesPDF(t *testing.T) {
	normal := core.NewVec3(0, 0, 1)
	wi := core.NewVec3(0.5, 0, -1).Normalize()
	tests := map[string]Material{
		"phong":       NewPhong(NewConstantScalar(0.8), 8),
		"blinn-phong": NewBlinnPhong(NewConstantScalar(0.8), 8),
	}
	for name, m := range tests {
		t.Run(name, func(t *testing.T) {
			checkSampleMatchesPDF(t, m, wi, newHit(normal, m))
		})
	}
}

func TestGlossy_RejectsBelowGeometricHemisphere(t *testing.T) {
	normal := core.NewVec3(0, 0, 1)
	// Grazing incidence with a wide lobe produces directions under the surface
	wi := core.NewVec3(1, 0, -0.05).Normalize()
	random := rand.New(rand.NewSource(8))

	for _, m := range []Material{
		NewPhong(NewConstantScalar(0.8), 1),
		NewBlinnPhong(NewConstantScalar(0.8), 1),
	} {
		hit := newHit(normal, m)
		rejected := 0
		for i := 0; i < 5000; i++ {
			srec, ok := m.Sample(wi, hit, randomVec2(random))
			if !ok {
				rejected++
				continue
			}
			if srec.Wo.Dot(hit.GN) <= 0 {
				t.Fatalf("%T accepted a sample below the surface: %v", m, srec.Wo)
			}
			if srec.IsSpecular {
				t.Fatalf("%T must not be specular", m)
			}
			pdf := m.PDF(wi, srec.Wo, hit)
			if pdf <= 0 {
				t.Fatalf("%T sampled a direction with zero density", m)
			}
			weight := m.Eval(wi, srec.Wo, hit).Divide(pdf)
			if weight.Subtract(core.Splat(0.8)).Length() > 1e-9 {
				t.Fatalf("%T Eval/PDF = %v, expected albedo", m, weight)
			}
		}
		if rejected == 0 {
			t.Errorf("%T: expected rejections at grazing incidence", m)
		}
	}
}
