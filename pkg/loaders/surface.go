package loaders

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

type surfaceJSON struct {
	Type      string          `json:"type"`
	Material  json.RawMessage `json:"material"`
	Transform json.RawMessage `json:"transform"`
	Radius    *float64        `json:"radius"`
	Size      json.RawMessage `json:"size"`
	Filename  string          `json:"filename"`
	Positions [][]float64     `json:"positions"`
	Normals   [][]float64     `json:"normals"`
	UVs       [][]float64     `json:"uvs"`
	Indices   json.RawMessage `json:"indices"`
}

// Keys accepted by each surface type besides type, material and transform
var surfaceKeys = map[string][]string{
	"sphere":   {"radius"},
	"quad":     {"size"},
	"triangle": {"positions", "normals", "uvs"},
	"mesh":     {"filename", "positions", "normals", "uvs", "indices"},
}

// surfaceBuilder turns surface records into geometry
type surfaceBuilder struct {
	materials *materialRegistry
	baseDir   string // Directory relative mesh filenames resolve against
	logger    core.Logger
}

// build parses one surface record. Meshes expand into their triangles.
func (b *surfaceBuilder) build(raw []byte) ([]geometry.Surface, error) {
	typ, err := peekType(raw)
	if err != nil {
		return nil, err
	}
	keys, ok := surfaceKeys[typ]
	if !ok {
		return nil, fmt.Errorf("%w: surface %q", ErrUnknownType, typ)
	}
	if err := checkKeys(raw, typ, append([]string{"type", "material", "transform"}, keys...)...); err != nil {
		return nil, err
	}
	var sj surfaceJSON
	if err := decodeStrict(raw, &sj); err != nil {
		return nil, err
	}

	mat, err := b.materials.reference(sj.Material)
	if err != nil {
		return nil, err
	}
	transform, err := parseTransform(sj.Transform)
	if err != nil {
		return nil, err
	}

	switch sj.Type {
	case "sphere":
		radius := 1.0
		if sj.Radius != nil {
			radius = *sj.Radius
		}
		if radius <= 0 {
			return nil, fmt.Errorf("%w: sphere radius must be positive, got %g", ErrInvalidValue, radius)
		}
		if _, ok := transform.UniformScale(); !ok {
			return nil, fmt.Errorf("%w: sphere transform must scale uniformly", ErrInvalidValue)
		}
		return []geometry.Surface{geometry.NewSphere(radius, transform, mat)}, nil

	case "quad":
		size, err := parseSize(sj.Size)
		if err != nil {
			return nil, err
		}
		return []geometry.Surface{geometry.NewQuad(size, transform, mat)}, nil

	case "triangle":
		if len(sj.Positions) != 3 {
			return nil, fmt.Errorf("%w: triangle needs 3 positions, got %d", ErrMissingField, len(sj.Positions))
		}
		data, err := inlineMeshData(sj)
		if err != nil {
			return nil, err
		}
		data.Indices = [][3]int{{0, 1, 2}}
		return b.mesh(data, transform, mat)

	case "mesh":
		return b.buildMesh(sj, transform, mat)
	}
	return nil, fmt.Errorf("%w: surface %q", ErrUnknownType, sj.Type)
}

func (b *surfaceBuilder) buildMesh(sj surfaceJSON, transform core.Transform, mat material.Material) ([]geometry.Surface, error) {
	if sj.Filename != "" {
		if sj.Positions != nil || sj.Indices != nil || sj.Normals != nil || sj.UVs != nil {
			return nil, fmt.Errorf("%w: mesh takes either a filename or inline buffers", ErrInvalidValue)
		}
		path := sj.Filename
		if !filepath.IsAbs(path) {
			path = filepath.Join(b.baseDir, path)
		}

		start := time.Now()
		var data geometry.MeshData
		var err error
		switch strings.ToLower(filepath.Ext(path)) {
		case ".obj":
			data, err = LoadOBJ(path)
		case ".ply":
			data, err = LoadPLY(path)
		default:
			return nil, fmt.Errorf("%w: mesh file %q", ErrUnknownType, sj.Filename)
		}
		if err != nil {
			return nil, err
		}
		b.logger.Printf("Loaded mesh %s: %d vertices, %d triangles in %v",
			sj.Filename, len(data.Positions), len(data.Indices), time.Since(start))
		return b.mesh(data, transform, mat)
	}

	if sj.Positions == nil || sj.Indices == nil {
		return nil, fmt.Errorf("%w: mesh needs a filename or positions and indices", ErrMissingField)
	}
	data, err := inlineMeshData(sj)
	if err != nil {
		return nil, err
	}
	if data.Indices, err = parseIndices(sj.Indices); err != nil {
		return nil, err
	}
	return b.mesh(data, transform, mat)
}

func (b *surfaceBuilder) mesh(data geometry.MeshData, transform core.Transform, mat material.Material) ([]geometry.Surface, error) {
	mesh, err := geometry.NewMesh(data, transform, mat)
	if err != nil {
		return nil, err
	}
	return mesh.Triangles(), nil
}

// parseSize accepts a number (square) or [x, y]; absent means 1x1
func parseSize(raw json.RawMessage) (core.Vec2, error) {
	if len(raw) == 0 {
		return core.NewVec2(1, 1), nil
	}
	v := gjson.ParseBytes(raw)
	var size core.Vec2
	switch {
	case v.Type == gjson.Number:
		size = core.NewVec2(v.Float(), v.Float())
	case v.IsArray() && len(v.Array()) == 2:
		items := v.Array()
		size = core.NewVec2(items[0].Float(), items[1].Float())
	default:
		return core.Vec2{}, fmt.Errorf("%w: size must be a number or [x, y], got %s", ErrInvalidValue, v.Raw)
	}
	if size.X <= 0 || size.Y <= 0 {
		return core.Vec2{}, fmt.Errorf("%w: size must be positive, got %s", ErrInvalidValue, v.Raw)
	}
	return size, nil
}

// inlineMeshData converts the positions, normals and uvs of a record
func inlineMeshData(sj surfaceJSON) (geometry.MeshData, error) {
	var data geometry.MeshData
	for i, p := range sj.Positions {
		v, err := floatsToVec3(fmt.Sprintf("positions[%d]", i), p)
		if err != nil {
			return data, err
		}
		data.Positions = append(data.Positions, v)
	}
	for i, n := range sj.Normals {
		v, err := floatsToVec3(fmt.Sprintf("normals[%d]", i), n)
		if err != nil {
			return data, err
		}
		data.Normals = append(data.Normals, v)
	}
	for i, uv := range sj.UVs {
		if len(uv) != 2 {
			return data, fmt.Errorf("%w: uvs[%d] needs 2 numbers, got %d", ErrInvalidValue, i, len(uv))
		}
		data.UVs = append(data.UVs, core.NewVec2(uv[0], uv[1]))
	}
	return data, nil
}

// parseIndices accepts a flat index list or a list of triples
func parseIndices(raw json.RawMessage) ([][3]int, error) {
	items := gjson.ParseBytes(raw).Array()
	if len(items) > 0 && items[0].IsArray() {
		var triples [][]int
		if err := decodeStrict(raw, &triples); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		faces := make([][3]int, len(triples))
		for i, t := range triples {
			if len(t) != 3 {
				return nil, fmt.Errorf("%w: indices[%d] needs 3 entries, got %d", ErrInvalidValue, i, len(t))
			}
			faces[i] = [3]int{t[0], t[1], t[2]}
		}
		return faces, nil
	}

	var flat []int
	if err := decodeStrict(raw, &flat); err != nil {
		return nil, fmt.Errorf("indices: %w", err)
	}
	if len(flat)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidValue, len(flat))
	}
	faces := make([][3]int, len(flat)/3)
	for i := range faces {
		faces[i] = [3]int{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}
	return faces, nil
}
