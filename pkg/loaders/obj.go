package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// LoadOBJ reads a Wavefront OBJ file
func LoadOBJ(filename string) (geometry.MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return geometry.MeshData{}, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data, err := ReadOBJ(file)
	if err != nil {
		return geometry.MeshData{}, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// objCorner is one face corner: position, texture and normal indices (-1 if absent)
type objCorner struct {
	v, vt, vn int
}

// ReadOBJ parses v, vt, vn and f statements. Polygons are fan-triangulated
// and negative indices count back from the latest element. Corners sharing
// the same v/vt/vn triple share a vertex. Normals and UVs are kept only if
// every corner has them.
func ReadOBJ(r io.Reader) (geometry.MeshData, error) {
	var (
		positions []core.Vec3
		texCoords []core.Vec2
		normals   []core.Vec3
		corners   []objCorner
		faces     [][3]int
	)
	unique := make(map[objCorner]int)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseOBJFloats(fields[1:], 3)
			if err != nil {
				return geometry.MeshData{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, core.NewVec3(v[0], v[1], v[2]))
		case "vt":
			v, err := parseOBJFloats(fields[1:], 2)
			if err != nil {
				return geometry.MeshData{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			texCoords = append(texCoords, core.NewVec2(v[0], v[1]))
		case "vn":
			v, err := parseOBJFloats(fields[1:], 3)
			if err != nil {
				return geometry.MeshData{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, core.NewVec3(v[0], v[1], v[2]))
		case "f":
			if len(fields) < 4 {
				return geometry.MeshData{}, fmt.Errorf("line %d: %w: face needs at least 3 corners", lineNo, ErrInvalidValue)
			}
			polygon := make([]int, 0, len(fields)-1)
			for _, f := range fields[1:] {
				c, err := parseOBJCorner(f, len(positions), len(texCoords), len(normals))
				if err != nil {
					return geometry.MeshData{}, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx, ok := unique[c]
				if !ok {
					idx = len(corners)
					unique[c] = idx
					corners = append(corners, c)
				}
				polygon = append(polygon, idx)
			}
			for i := 1; i+1 < len(polygon); i++ {
				faces = append(faces, [3]int{polygon[0], polygon[i], polygon[i+1]})
			}
		default:
			// Groups, objects, smoothing and material statements carry no geometry
		}
	}
	if err := scanner.Err(); err != nil {
		return geometry.MeshData{}, err
	}

	data := geometry.MeshData{Positions: make([]core.Vec3, len(corners)), Indices: faces}
	hasUV, hasNormal := len(corners) > 0, len(corners) > 0
	for i, c := range corners {
		data.Positions[i] = positions[c.v]
		hasUV = hasUV && c.vt >= 0
		hasNormal = hasNormal && c.vn >= 0
	}
	if hasUV {
		data.UVs = make([]core.Vec2, len(corners))
		for i, c := range corners {
			data.UVs[i] = texCoords[c.vt]
		}
	}
	if hasNormal {
		data.Normals = make([]core.Vec3, len(corners))
		for i, c := range corners {
			data.Normals[i] = normals[c.vn]
		}
	}
	return data, nil
}

func parseOBJFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("%w: expected %d numbers, got %d", ErrInvalidValue, n, len(fields))
	}
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// parseOBJCorner parses v, v/vt, v//vn or v/vt/vn into zero-based indices
func parseOBJCorner(field string, nv, nvt, nvn int) (objCorner, error) {
	parts := strings.Split(field, "/")
	if len(parts) > 3 {
		return objCorner{}, fmt.Errorf("%w: face corner %q", ErrInvalidValue, field)
	}
	c := objCorner{v: -1, vt: -1, vn: -1}
	targets := []*int{&c.v, &c.vt, &c.vn}
	counts := []int{nv, nvt, nvn}
	for i, part := range parts {
		if part == "" {
			if i == 0 {
				return objCorner{}, fmt.Errorf("%w: face corner %q has no position", ErrInvalidValue, field)
			}
			continue
		}
		idx, err := strconv.Atoi(part)
		if err != nil {
			return objCorner{}, fmt.Errorf("%w: face corner %q", ErrInvalidValue, field)
		}
		switch {
		case idx > 0:
			idx--
		case idx < 0:
			idx += counts[i]
		default:
			return objCorner{}, fmt.Errorf("%w: face corner %q uses index 0", ErrInvalidValue, field)
		}
		if idx < 0 || idx >= counts[i] {
			return objCorner{}, fmt.Errorf("%w: face corner %q is out of range", ErrInvalidValue, field)
		}
		*targets[i] = idx
	}
	return c, nil
}
