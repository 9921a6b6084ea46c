package material

import (
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestDiffuseLight_OneSidedEmission(t *testing.T) {
	emission := core.NewVec3(10, 5, 2)
	light := NewDiffuseLight(NewConstant(emission))
	hit := newHit(core.NewVec3(0, -1, 0), light)

	front := core.NewRay(core.NewVec3(0, -2, 0), core.NewVec3(0, 1, 0))
	if le, ok := light.Emitted(front, hit); !ok || le != emission {
		t.Errorf("Expected emission %v from the front, got %v (ok=%t)", emission, le, ok)
	}

	back := core.NewRay(core.NewVec3(0, 2, 0), core.NewVec3(0, -1, 0))
	if le, ok := light.Emitted(back, hit); ok || !le.IsZero() {
		t.Errorf("Expected no emission from the back, got %v (ok=%t)", le, ok)
	}
	if !light.IsEmissive() {
		t.Error("DiffuseLight must be emissive")
	}
}

func TestDiffuseLight_PlaceholderSample(t *testing.T) {
	light := NewDiffuseLight(NewConstantScalar(1))
	hit := newHit(core.NewVec3(0, 0, 1), light)
	wi := core.NewVec3(0, 0, -1)

	srec, ok := light.Sample(wi, hit, core.NewVec2(0.4, 0.7))
	if !ok {
		t.Fatal("Expected placeholder sample")
	}
	if !srec.Attenuation.IsZero() {
		t.Errorf("Expected zero attenuation, got %v", srec.Attenuation)
	}
	if !light.Eval(wi, srec.Wo, hit).IsZero() {
		t.Error("Lights must not reflect")
	}
	if light.PDF(wi, srec.Wo, hit) <= 0 {
		t.Error("Placeholder sample should have positive density")
	}
}

func TestNonEmitters(t *testing.T) {
	materials := []Material{
		NewLambertian(NewConstantScalar(0.5)),
		NewMetal(NewConstantScalar(0.5), NewConstantScalar(0)),
		NewDielectric(NewConstantScalar(1.5)),
		NewPhong(NewConstantScalar(0.5), 10),
		NewBlinnPhong(NewConstantScalar(0.5), 10),
	}
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	for _, m := range materials {
		hit := newHit(core.NewVec3(0, 0, 1), m)
		if m.IsEmissive() {
			t.Errorf("%T should not be emissive", m)
		}
		if _, ok := m.Emitted(ray, hit); ok {
			t.Errorf("%T should not emit", m)
		}
	}
}
