package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestONB_Orthonormal(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, 0, -1),
		NewVec3(1, 0, 0),
		NewVec3(0.3, -0.8, 0.2).Normalize(),
	}
	for _, n := range normals {
		onb := NewONB(n)
		if math.Abs(onb.U.Length()-1) > 1e-9 || math.Abs(onb.V.Length()-1) > 1e-9 {
			t.Errorf("basis for %v is not unit length: %v %v", n, onb.U, onb.V)
		}
		if math.Abs(onb.U.Dot(onb.V)) > 1e-9 || math.Abs(onb.U.Dot(n)) > 1e-9 || math.Abs(onb.V.Dot(n)) > 1e-9 {
			t.Errorf("basis for %v is not orthogonal", n)
		}
		if onb.U.Cross(onb.V).Subtract(n).Length() > 1e-9 {
			t.Errorf("basis for %v is not right-handed", n)
		}
	}
}

// integrateOverSphere estimates ∫ pdf(ω) dω with uniform sphere sampling
func integrateOverSphere(samples int, seed int64, pdf func(dir Vec3) float64) float64 {
	random := rand.New(rand.NewSource(seed))
	sum := 0.0
	for i := 0; i < samples; i++ {
		dir := SampleOnUnitSphere(NewVec2(random.Float64(), random.Float64()))
		sum += pdf(dir) / UniformSpherePDF
	}
	return sum / float64(samples)
}

func TestSamplingPDFs_IntegrateToOne(t *testing.T) {
	axis := NewVec3(0.2, 0.9, -0.1).Normalize()
	tests := []struct {
		name string
		pdf  func(dir Vec3) float64
	}{
		{"cosine hemisphere", func(dir Vec3) float64 { return CosineHemispherePDF(dir.Dot(axis)) }},
		{"cone", func(dir Vec3) float64 {
			if dir.Dot(axis) >= 0.8 {
				return UniformConePDF(0.8)
			}
			return 0
		}},
		{"cosine power 5", func(dir Vec3) float64 { return CosinePowerPDF(5, dir.Dot(axis)) }},
		{"uniform sphere", func(dir Vec3) float64 { return UniformSpherePDF }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integral := integrateOverSphere(200000, 7, tt.pdf)
			if math.Abs(integral-1.0) > 1e-2 {
				t.Errorf("∫pdf = %f, expected 1", integral)
			}
		})
	}
}

func TestSampleCosinePower_StaysInHemisphere(t *testing.T) {
	random := rand.New(rand.NewSource(3))
	axis := NewVec3(0, 1, 0)
	for i := 0; i < 10000; i++ {
		dir := SampleCosinePower(axis, 20, NewVec2(random.Float64(), random.Float64()))
		if dir.Dot(axis) < 0 {
			t.Fatalf("sample %v below the lobe axis", dir)
		}
		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("sample %v not unit length", dir)
		}
	}
}

func TestSampleTriangle_Folds(t *testing.T) {
	a, b := SampleTriangle(NewVec2(0.9, 0.8))
	if math.Abs(a-0.1) > 1e-12 || math.Abs(b-0.2) > 1e-12 {
		t.Errorf("Expected fold to (0.1, 0.2), got (%f, %f)", a, b)
	}
	a, b = SampleTriangle(NewVec2(0.25, 0.5))
	if a != 0.25 || b != 0.5 {
		t.Errorf("Expected unchanged sample, got (%f, %f)", a, b)
	}
}

func TestSchlick_NormalIncidence(t *testing.T) {
	got := Schlick(1.0, 1.0/1.5)
	expected := 0.04
	if math.Abs(got-expected) > 1e-9 {
		t.Errorf("Schlick at normal incidence: got %f, expected %f", got, expected)
	}
	if grazing := Schlick(0, 1.0/1.5); math.Abs(grazing-1) > 1e-9 {
		t.Errorf("Schlick at grazing incidence: got %f, expected 1", grazing)
	}
}

func TestPowerHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		nf       int
		fPdf     float64
		ng       int
		gPdf     float64
		expected float64
	}{
		{
			name:     "Equal PDFs",
			nf:       1,
			fPdf:     0.5,
			ng:       1,
			gPdf:     0.5,
			expected: 0.5,
		},
		{
			name:     "First PDF zero",
			nf:       1,
			fPdf:     0.0,
			ng:       1,
			gPdf:     0.5,
			expected: 0.0,
		},
		{
			name:     "Second PDF zero",
			nf:       1,
			fPdf:     0.5,
			ng:       1,
			gPdf:     0.0,
			expected: 1.0,
		},
		{
			name:     "First PDF higher",
			nf:       1,
			fPdf:     0.8,
			ng:       1,
			gPdf:     0.2,
			expected: 0.941176, // (0.8²) / (0.8² + 0.2²)
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PowerHeuristic(tt.nf, tt.fPdf, tt.ng, tt.gPdf)
			if math.Abs(result-tt.expected) > 1e-5 {
				t.Errorf("PowerHeuristic: got %f, expected %f", result, tt.expected)
			}
		})
	}
}
