package geometry

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/df07/go-pathtracer/pkg/core"
)

var approx = cmpopts.EquateApprox(0, 1e-5)

func TestSphere_Intersect(t *testing.T) {
	sphere := NewSphere(1, core.IdentityTransform(), white)
	ray := core.NewRay(core.NewVec3(-0.25, 0.5, 4.0), core.NewVec3(0, 0, -1))

	hit, ok := sphere.Intersect(ray)
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.T-3.170844) > 1e-5 {
		t.Errorf("Expected t=3.170844, got %f", hit.T)
	}
	expected := core.NewVec3(-0.25, 0.5, 0.829156)
	if diff := cmp.Diff(expected, hit.P, approx); diff != "" {
		t.Errorf("point mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(expected, hit.GN, approx); diff != "" {
		t.Errorf("normal mismatch (-want +got):\n%s", diff)
	}
	if hit.Material != white {
		t.Error("hit should carry the sphere's material")
	}
}

func TestSphere_Intersect_Cases(t *testing.T) {
	sphere := NewSphere(1, core.IdentityTransform(), white)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
	}{
		{"miss", core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0)), false, 0},
		{"front", core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1)), true, 1},
		{"from inside", core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)), true, 1},
		{"behind origin", core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, 1)), false, 0},
		{"unnormalized direction", core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -2)), true, 1},
		{"interval too short", core.NewRaySegment(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1), 0, 1.5), false, 0},
		{"far root only", core.NewRaySegment(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1), 2.5, 10), true, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := sphere.Intersect(tt.ray)
			if ok != tt.shouldHit {
				t.Fatalf("Expected hit=%t, got %t", tt.shouldHit, ok)
			}
			if ok && math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
		})
	}
}

func TestSphere_Transformed(t *testing.T) {
	scale, err := core.Scale(core.NewVec3(2, 2, 2))
	if err != nil {
		t.Fatal(err)
	}
	xf := scale.Then(core.Translate(core.NewVec3(0, 0, -10)))
	sphere := NewSphere(1, xf, white)

	hit, ok := sphere.Intersect(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)))
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.T-8) > 1e-9 {
		t.Errorf("Expected t=8, got %f", hit.T)
	}
	if diff := cmp.Diff(core.NewVec3(0, 0, 1), hit.GN, approx); diff != "" {
		t.Errorf("normal mismatch (-want +got):\n%s", diff)
	}

	expectedBounds := core.NewAABB(core.NewVec3(-2, -2, -12), core.NewVec3(2, 2, -8))
	if diff := cmp.Diff(expectedBounds, sphere.Bounds(), approx); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
}

func TestSphere_NonUniformScaleNormal(t *testing.T) {
	// Ellipsoid stretched along x; normals go through the inverse transpose
	scale, err := core.Scale(core.NewVec3(3, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	sphere := NewSphere(1, scale, white)

	ray := core.NewRay(core.NewVec3(1.5, 5, 0), core.NewVec3(0, -1, 0))
	hit, ok := sphere.Intersect(ray)
	if !ok {
		t.Fatal("Expected hit")
	}
	// Local point is (0.5, √0.75, 0); normal ∝ (0.5/3, √0.75, 0)
	expected := core.NewVec3(0.5/3, math.Sqrt(0.75), 0).Normalize()
	if diff := cmp.Diff(expected, hit.GN, approx); diff != "" {
		t.Errorf("normal mismatch (-want +got):\n%s", diff)
	}
}

func TestSphere_PDFIntegratesToOne(t *testing.T) {
	sphere := NewSphere(1, core.Translate(core.NewVec3(0, 0, -2)), lamp)

	tests := []struct {
		name   string
		origin core.Vec3
	}{
		{"outside", core.NewVec3(0, 0, 0)},
		{"inside", core.NewVec3(0.2, 0.1, -2.3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integral := integrateSurfacePDF(sphere, tt.origin, 1000000, 7)
			if math.Abs(integral-1) > 2e-2 {
				t.Errorf("∫pdf = %f, expected 1", integral)
			}
			checkEmitterSamples(t, sphere, tt.origin)
		})
	}
}

func TestSphere_SampleEmission(t *testing.T) {
	sphere := NewSphere(1, core.Translate(core.NewVec3(0, 0, -3)), lamp)
	rec, ok := sphere.Sample(core.NewVec3(0, 0, 0), core.NewVec2(0.3, 0.7))
	if !ok {
		t.Fatal("Expected sample")
	}
	if rec.Emitted != core.Splat(4) {
		t.Errorf("Expected emission 4, got %v", rec.Emitted)
	}
	weight := rec.Weight()
	if math.Abs(weight.X-4/rec.PDF) > 1e-12 {
		t.Errorf("Weight should be Emitted/PDF, got %v", weight)
	}
	if !sphere.IsEmissive() {
		t.Error("sphere with a light material should be emissive")
	}
}
