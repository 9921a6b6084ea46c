package core

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestTransform_RoundTrip(t *testing.T) {
	scale, err := Scale(NewVec3(2, 3, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	rot, err := Rotate(NewVec3(1, 1, 0), 30)
	if err != nil {
		t.Fatal(err)
	}
	xform := scale.Then(rot).Then(Translate(NewVec3(1, -2, 3)))

	p := NewVec3(0.3, -0.7, 1.1)
	if diff := cmp.Diff(p, xform.InvPoint(xform.Point(p)), approx); diff != "" {
		t.Errorf("point round trip mismatch (-want +got):\n%s", diff)
	}
	v := NewVec3(-1, 0.5, 2)
	if diff := cmp.Diff(v, xform.InvVector(xform.Vector(v)), approx); diff != "" {
		t.Errorf("vector round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_ThenOrder(t *testing.T) {
	scale, _ := Scale(NewVec3(2, 2, 2))
	xform := scale.Then(Translate(NewVec3(1, 0, 0)))
	got := xform.Point(NewVec3(1, 1, 1))
	if diff := cmp.Diff(NewVec3(3, 2, 2), got, approx); diff != "" {
		t.Errorf("scale-then-translate mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_NormalUsesInverseTranspose(t *testing.T) {
	// Squash along y: a 45° plane's normal must tilt toward y, not away
	xform, err := Scale(NewVec3(1, 0.5, 1))
	if err != nil {
		t.Fatal(err)
	}
	tangent := NewVec3(1, -1, 0)
	normal := NewVec3(1, 1, 0)

	worldTangent := xform.Vector(tangent)
	worldNormal := xform.Normal(normal)
	if math.Abs(worldTangent.Dot(worldNormal)) > 1e-12 {
		t.Errorf("transformed normal %v is not perpendicular to tangent %v", worldNormal, worldTangent)
	}
	if wrong := xform.Vector(normal); math.Abs(worldTangent.Dot(wrong)) < 1e-6 {
		t.Error("forward transform unexpectedly kept the normal perpendicular")
	}
}

func TestTransform_Singular(t *testing.T) {
	if _, err := Scale(NewVec3(1, 0, 1)); !errors.Is(err, ErrSingularTransform) {
		t.Errorf("Expected ErrSingularTransform, got %v", err)
	}
	if _, err := FromRows([16]float64{}); !errors.Is(err, ErrSingularTransform) {
		t.Errorf("Expected ErrSingularTransform for zero matrix, got %v", err)
	}
	if _, err := LookAt(NewVec3(0, 0, 0), NewVec3(0, 1, 0), NewVec3(0, 1, 0)); !errors.Is(err, ErrSingularTransform) {
		t.Errorf("Expected ErrSingularTransform for degenerate look-at, got %v", err)
	}
}

func TestTransform_LookAtLooksDownNegativeZ(t *testing.T) {
	from := NewVec3(0, 0, 5)
	xform, err := LookAt(from, NewVec3(0, 0, 0), NewVec3(0, 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(from, xform.Point(NewVec3(0, 0, 0)), approx); diff != "" {
		t.Errorf("camera origin mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(NewVec3(0, 0, -1), xform.Vector(NewVec3(0, 0, -1)), approx); diff != "" {
		t.Errorf("viewing direction mismatch (-want +got):\n%s", diff)
	}
}

func TestTransform_Box(t *testing.T) {
	rot, _ := Rotate(NewVec3(0, 0, 1), 45)
	box := rot.Box(NewAABB(NewVec3(-1, -1, 0), NewVec3(1, 1, 0)))
	s := math.Sqrt2
	if math.Abs(box.Max.X-s) > 1e-9 || math.Abs(box.Min.Y+s) > 1e-9 {
		t.Errorf("rotated box %v, expected half-width %f", box, s)
	}
}

func TestTransform_UniformScale(t *testing.T) {
	mustScale := func(v Vec3) Transform {
		s, err := Scale(v)
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	rot, err := Rotate(NewVec3(1, 2, 3), 40)
	if err != nil {
		t.Fatal(err)
	}
	shear, err := FromRows([16]float64{
		1, 0.5, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		xform     Transform
		wantScale float64
		wantOK    bool
	}{
		{"identity", IdentityTransform(), 1, true},
		{"translation", Translate(NewVec3(4, -2, 1)), 1, true},
		{"uniform scale", mustScale(Splat(2.5)), 2.5, true},
		{"rotated uniform scale", mustScale(Splat(3)).Then(rot).Then(Translate(NewVec3(1, 1, 1))), 3, true},
		{"mirrored", mustScale(NewVec3(-2, 2, 2)), 2, true},
		{"non-uniform scale", mustScale(NewVec3(1, 2, 1)), 0, false},
		{"rotated non-uniform scale", mustScale(NewVec3(1, 1, 1.5)).Then(rot), 0, false},
		{"shear", shear, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scale, ok := tt.xform.UniformScale()
			if ok != tt.wantOK {
				t.Fatalf("UniformScale ok = %v, expected %v", ok, tt.wantOK)
			}
			if math.Abs(scale-tt.wantScale) > 1e-9 {
				t.Errorf("UniformScale = %f, expected %f", scale, tt.wantScale)
			}
		})
	}
}
