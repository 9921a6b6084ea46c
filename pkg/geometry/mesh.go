package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrInvalidMesh is returned for meshes with inconsistent buffers
var ErrInvalidMesh = errors.New("invalid mesh")

// MeshData holds the raw buffers of a triangle mesh as read from a file or
// a scene description
type MeshData struct {
	Positions []core.Vec3
	Normals   []core.Vec3 // Optional, one per position
	UVs       []core.Vec2 // Optional, one per position
	Indices   [][3]int
}

// Mesh owns the vertex buffers shared by its triangles. Positions and normals
// are stored in world space.
type Mesh struct {
	Positions []core.Vec3
	Normals   []core.Vec3
	UVs       []core.Vec2
	Indices   [][3]int
	Material  material.Material

	bounds core.AABB
}

// NewMesh validates the buffers and bakes the transform into them
func NewMesh(data MeshData, transform core.Transform, mat material.Material) (*Mesh, error) {
	n := len(data.Positions)
	if len(data.Normals) != 0 && len(data.Normals) != n {
		return nil, fmt.Errorf("%w: %d normals for %d positions", ErrInvalidMesh, len(data.Normals), n)
	}
	if len(data.UVs) != 0 && len(data.UVs) != n {
		return nil, fmt.Errorf("%w: %d uvs for %d positions", ErrInvalidMesh, len(data.UVs), n)
	}
	for face, idx := range data.Indices {
		for _, i := range idx {
			if i < 0 || i >= n {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrInvalidMesh, face, i, n)
			}
		}
	}

	mesh := &Mesh{
		Positions: make([]core.Vec3, n),
		Indices:   append([][3]int(nil), data.Indices...),
		Material:  mat,
		bounds:    core.EmptyAABB(),
	}
	for i, p := range data.Positions {
		mesh.Positions[i] = transform.Point(p)
		mesh.bounds = mesh.bounds.EnclosePoint(mesh.Positions[i])
	}
	if len(data.Normals) > 0 {
		mesh.Normals = make([]core.Vec3, n)
		for i, normal := range data.Normals {
			mesh.Normals[i] = transform.Normal(normal).Normalize()
		}
	}
	if len(data.UVs) > 0 {
		mesh.UVs = append([]core.Vec2(nil), data.UVs...)
	}
	return mesh, nil
}

// Triangles returns one lightweight surface per face, all sharing the mesh buffers
func (m *Mesh) Triangles() []Surface {
	triangles := make([]Surface, len(m.Indices))
	for i := range m.Indices {
		triangles[i] = &Triangle{mesh: m, face: i}
	}
	return triangles
}

// Bounds returns the bounding box of all vertices
func (m *Mesh) Bounds() core.AABB {
	return m.bounds
}
