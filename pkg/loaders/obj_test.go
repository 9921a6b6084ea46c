package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

func TestReadOBJ(t *testing.T) {
	tests := []struct {
		name   string
		source string
		expect geometry.MeshData
	}{
		{
			name: "positions only",
			source: `# a triangle
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`,
			expect: geometry.MeshData{
				Positions: []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)},
				Indices:   [][3]int{{0, 1, 2}},
			},
		},
		{
			name: "quad is fan triangulated",
			source: `o square
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
s off
f 1 2 3 4
`,
			expect: geometry.MeshData{
				Positions: []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(1, 1, 0), core.NewVec3(0, 1, 0)},
				Indices:   [][3]int{{0, 1, 2}, {0, 2, 3}},
			},
		},
		{
			name: "negative indices with normals",
			source: `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f -3//-1 -2//-1 -1//-1
`,
			expect: geometry.MeshData{
				Positions: []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)},
				Normals:   []core.Vec3{core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1)},
				Indices:   [][3]int{{0, 1, 2}},
			},
		},
		{
			name: "texture seams split vertices",
			source: `v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
vt 0 0
vt 1 0
vt 0 1
vt 0.5 0.5
f 1/1 2/2 3/3
f 2/4 4/2 3/3
`,
			expect: geometry.MeshData{
				Positions: []core.Vec3{
					core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
					core.NewVec3(1, 0, 0), core.NewVec3(1, 1, 0),
				},
				UVs: []core.Vec2{
					core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(0, 1),
					core.NewVec2(0.5, 0.5), core.NewVec2(1, 0),
				},
				Indices: [][3]int{{0, 1, 2}, {3, 4, 2}},
			},
		},
		{
			name: "partial normals are dropped",
			source: `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2 3
`,
			expect: geometry.MeshData{
				Positions: []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)},
				Indices:   [][3]int{{0, 1, 2}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadOBJ(strings.NewReader(tt.source))
			if err != nil {
				t.Fatalf("ReadOBJ: %v", err)
			}
			if diff := cmp.Diff(tt.expect, got); diff != "" {
				t.Errorf("mesh mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadOBJ_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"short vertex", "v 0 0\n"},
		{"bad number", "v 0 a 0\n"},
		{"two corner face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"missing texture coordinate", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1 2/1 3/1\n"},
		{"empty position", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf /1 2 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadOBJ(strings.NewReader(tt.source)); !errors.Is(err, ErrInvalidValue) {
				t.Errorf("expected ErrInvalidValue, got %v", err)
			}
		})
	}
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := LoadOBJ(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Positions) != 3 || len(data.Indices) != 1 {
		t.Errorf("unexpected mesh %+v", data)
	}

	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
