package loaders

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

func TestParseTransform(t *testing.T) {
	tests := []struct {
		name   string
		json   string
		point  core.Vec3 // Input point
		expect core.Vec3 // Transformed point
	}{
		{"absent", ``, core.NewVec3(1, 2, 3), core.NewVec3(1, 2, 3)},
		{"translate", `{"translate": [1, 2, 3]}`, core.Vec3{}, core.NewVec3(1, 2, 3)},
		{"uniform scale", `{"scale": 2}`, core.NewVec3(1, 2, 3), core.NewVec3(2, 4, 6)},
		{"vector scale", `{"scale": [1, 2, 3]}`, core.NewVec3(1, 1, 1), core.NewVec3(1, 2, 3)},
		{"rotate", `{"axis": [0, 0, 1], "angle": 90}`, core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)},
		{"ops in order", `[{"scale": 2}, {"translate": [1, 0, 0]}]`, core.NewVec3(1, 1, 1), core.NewVec3(3, 2, 2)},
		{"row-major matrix", `[1,0,0,5, 0,1,0,0, 0,0,1,0, 0,0,0,1]`, core.Vec3{}, core.NewVec3(5, 0, 0)},
		{"matrix op", `{"matrix": [1,0,0,0, 0,1,0,-2, 0,0,1,0, 0,0,0,1]}`, core.Vec3{}, core.NewVec3(0, -2, 0)},
		{"look-at", `{"from": [0, 0, 5], "at": [0, 0, 0]}`, core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transform, err := parseTransform([]byte(tt.json))
			if err != nil {
				t.Fatalf("parseTransform: %v", err)
			}
			got := transform.Point(tt.point)
			if diff := cmp.Diff(tt.expect, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("point mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTransform_Errors(t *testing.T) {
	tests := []struct {
		name   string
		json   string
		target error
	}{
		{"zero scale", `{"scale": 0}`, core.ErrSingularTransform},
		{"singular matrix", `[1,0,0,0, 0,1,0,0, 0,0,0,0, 0,0,0,1]`, core.ErrSingularTransform},
		{"short translate", `{"translate": [1, 2]}`, ErrInvalidValue},
		{"two ops in one object", `{"translate": [1, 2, 3], "scale": 2}`, ErrInvalidValue},
		{"axis without angle", `{"axis": [0, 1, 0]}`, ErrMissingField},
		{"look-at without at", `{"from": [0, 0, 1]}`, ErrMissingField},
		{"unknown op", `{"rotate": 90}`, ErrUnknownField},
		{"short matrix", `[1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0]`, ErrInvalidValue},
		{"string", `"identity"`, ErrInvalidValue},
		{"bad list entry", `[{"translate": [1, 0, 0]}, 3]`, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTransform([]byte(tt.json))
			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestParseTexture(t *testing.T) {
	near := &material.HitInfo{P: core.NewVec3(0.1, 0.1, 0.1)}
	far := &material.HitInfo{P: core.NewVec3(0.6, 0.1, 0.1)}

	tests := []struct {
		name   string
		json   string
		hit    *material.HitInfo
		expect core.Vec3
	}{
		{"absent uses default", ``, near, core.Splat(0.7)},
		{"number", `0.5`, near, core.Splat(0.5)},
		{"triple", `[1, 0, 0.25]`, near, core.NewVec3(1, 0, 0.25)},
		{"constant object", `{"type": "constant", "color": 0.25}`, near, core.Splat(0.25)},
		{"checker even", `{"type": "checker", "even": 1, "odd": [0, 0, 1], "scale": 2}`, near, core.Splat(1)},
		{"checker odd", `{"type": "checker", "even": 1, "odd": [0, 0, 1], "scale": 2}`, far, core.NewVec3(0, 0, 1)},
		{"nested checker", `{"type": "checker", "even": {"type": "constant", "color": 0.1}, "odd": 0.9}`, near, core.Splat(0.1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex, err := parseTexture([]byte(tt.json), "albedo", core.Splat(0.7))
			if err != nil {
				t.Fatalf("parseTexture: %v", err)
			}
			got, ok := tex.Value(tt.hit)
			if !ok {
				t.Fatal("texture undefined at hit")
			}
			if got != tt.expect {
				t.Errorf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestParseTexture_Errors(t *testing.T) {
	tests := []struct {
		name   string
		json   string
		target error
	}{
		{"unknown texture", `{"type": "image", "filename": "a.png"}`, ErrUnknownType},
		{"no type", `{"color": 1}`, ErrMissingField},
		{"checker without odd", `{"type": "checker", "even": 1}`, ErrMissingField},
		{"constant without color", `{"type": "constant"}`, ErrMissingField},
		{"extra key", `{"type": "constant", "color": 1, "alpha": 1}`, ErrUnknownField},
		{"string", `"red"`, ErrInvalidValue},
		{"pair", `[1, 2]`, ErrInvalidValue},
		{"negative checker scale", `{"type": "checker", "even": 1, "odd": 0, "scale": -1}`, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTexture([]byte(tt.json), "albedo", core.Vec3{})
			if !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		json   string
		expect core.Vec2
		ok     bool
	}{
		{``, core.NewVec2(1, 1), true},
		{`3`, core.NewVec2(3, 3), true},
		{`[2, 4]`, core.NewVec2(2, 4), true},
		{`[2, 4, 6]`, core.Vec2{}, false},
		{`0`, core.Vec2{}, false},
		{`[-1, 1]`, core.Vec2{}, false},
	}
	for _, tt := range tests {
		got, err := parseSize([]byte(tt.json))
		if (err == nil) != tt.ok {
			t.Errorf("parseSize(%q) error = %v, want ok=%v", tt.json, err, tt.ok)
			continue
		}
		if tt.ok && (math.Abs(got.X-tt.expect.X) > 0 || math.Abs(got.Y-tt.expect.Y) > 0) {
			t.Errorf("parseSize(%q) = %v, want %v", tt.json, got, tt.expect)
		}
	}
}

func TestParseIndices(t *testing.T) {
	want := [][3]int{{0, 1, 2}, {2, 3, 0}}
	for _, in := range []string{`[0, 1, 2, 2, 3, 0]`, `[[0, 1, 2], [2, 3, 0]]`} {
		got, err := parseIndices([]byte(in))
		if err != nil {
			t.Fatalf("parseIndices(%s): %v", in, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("parseIndices(%s) mismatch (-want +got):\n%s", in, diff)
		}
	}

	for _, in := range []string{`[0, 1]`, `[[0, 1]]`, `[0, "a", 2]`} {
		if _, err := parseIndices([]byte(in)); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("parseIndices(%s): expected ErrInvalidValue, got %v", in, err)
		}
	}
}
