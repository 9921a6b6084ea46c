package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement
}

// PLYElement is one element block (vertex, face, ...) in file order
type PLYElement struct {
	Name  string
	Count int
	Props []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// LoadPLY loads a PLY file into mesh buffers
func LoadPLY(filename string) (geometry.MeshData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return geometry.MeshData{}, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return geometry.MeshData{}, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadPLY reads ascii or binary PLY data. Vertices need x, y and z; normals
// (nx, ny, nz) and texture coordinates (u/s, v/t) are optional. Polygonal
// faces are fan-triangulated.
func ReadPLY(r io.Reader) (geometry.MeshData, error) {
	br := bufio.NewReaderSize(r, 1024*1024)
	header, err := parsePLYHeader(br)
	if err != nil {
		return geometry.MeshData{}, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "binary_little_endian":
		values = &plyBinaryReader{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &plyBinaryReader{r: br, order: binary.BigEndian}
	case "ascii":
		scanner := bufio.NewScanner(br)
		scanner.Split(bufio.ScanWords)
		values = &plyASCIIReader{scanner: scanner}
	default:
		return geometry.MeshData{}, fmt.Errorf("%w: PLY format %q", ErrUnknownType, header.Format)
	}

	var data geometry.MeshData
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readPLYVertices(values, element, &data)
		case "face":
			err = readPLYFaces(values, element, &data)
		default:
			err = skipPLYElement(values, element)
		}
		if err != nil {
			return geometry.MeshData{}, fmt.Errorf("failed to read PLY %s data: %w", element.Name, err)
		}
	}
	return data, nil
}

// parsePLYHeader reads up to and including the end_header line
func parsePLYHeader(r *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	first := true
	for {
		raw, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("header ended early: %w", err)
		}
		line := strings.TrimSpace(raw)
		if first {
			if line != "ply" {
				return nil, fmt.Errorf("%w: missing ply magic number", ErrInvalidValue)
			}
			first = false
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "format":
			if len(parts) >= 3 {
				header.Format = parts[1]
				header.Version = parts[2]
			}
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: element line %q", ErrInvalidValue, line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: invalid element count: %s", ErrInvalidValue, parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("%w: property before any element", ErrInvalidValue)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}
			el := &header.Elements[len(header.Elements)-1]
			el.Props = append(el.Props, prop)
		}
	}
	if header.Format == "" {
		return nil, fmt.Errorf("%w: format", ErrMissingField)
	}
	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("%w: property definition", ErrInvalidValue)
	}

	prop := PLYProperty{}
	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("%w: list property definition", ErrInvalidValue)
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
	}
	if getTypeSize(prop.Type) == 0 && !prop.IsList ||
		prop.IsList && (getTypeSize(prop.ListType) == 0 || getTypeSize(prop.DataType) == 0) {
		return PLYProperty{}, fmt.Errorf("%w: property type in %q", ErrUnknownType, strings.Join(parts, " "))
	}
	return prop, nil
}

func readPLYVertices(values plyValueReader, element PLYElement, data *geometry.MeshData) error {
	idx := map[string]int{}
	for i, p := range element.Props {
		switch p.Name {
		case "u", "s", "texture_u":
			idx["u"] = i
		case "v", "t", "texture_v":
			idx["v"] = i
		default:
			idx[p.Name] = i
		}
	}
	has := func(names ...string) bool {
		for _, n := range names {
			if _, ok := idx[n]; !ok {
				return false
			}
		}
		return true
	}
	if !has("x", "y", "z") {
		return fmt.Errorf("%w: vertex needs x, y and z", ErrMissingField)
	}
	hasNormals, hasUVs := has("nx", "ny", "nz"), has("u", "v")

	data.Positions = make([]core.Vec3, 0, element.Count)
	if hasNormals {
		data.Normals = make([]core.Vec3, 0, element.Count)
	}
	if hasUVs {
		data.UVs = make([]core.Vec2, 0, element.Count)
	}

	row := make([]float64, len(element.Props))
	for i := 0; i < element.Count; i++ {
		for j, prop := range element.Props {
			if prop.IsList {
				if _, err := readPLYList(values, prop); err != nil {
					return err
				}
				continue
			}
			v, err := values.read(prop.Type)
			if err != nil {
				return fmt.Errorf("vertex %d: %w", i, err)
			}
			row[j] = v
		}
		data.Positions = append(data.Positions, core.NewVec3(row[idx["x"]], row[idx["y"]], row[idx["z"]]))
		if hasNormals {
			data.Normals = append(data.Normals, core.NewVec3(row[idx["nx"]], row[idx["ny"]], row[idx["nz"]]))
		}
		if hasUVs {
			data.UVs = append(data.UVs, core.NewVec2(row[idx["u"]], row[idx["v"]]))
		}
	}
	return nil
}

func readPLYFaces(values plyValueReader, element PLYElement, data *geometry.MeshData) error {
	data.Indices = make([][3]int, 0, element.Count)
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Props {
			if !prop.IsList {
				if _, err := values.read(prop.Type); err != nil {
					return fmt.Errorf("face %d: %w", i, err)
				}
				continue
			}
			list, err := readPLYList(values, prop)
			if err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
			if prop.Name != "vertex_indices" && prop.Name != "vertex_index" {
				continue
			}
			if len(list) < 3 {
				return fmt.Errorf("%w: face %d has %d vertices", ErrInvalidValue, i, len(list))
			}
			for k := 1; k+1 < len(list); k++ {
				data.Indices = append(data.Indices, [3]int{int(list[0]), int(list[k]), int(list[k+1])})
			}
		}
	}
	return nil
}

func skipPLYElement(values plyValueReader, element PLYElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Props {
			var err error
			if prop.IsList {
				_, err = readPLYList(values, prop)
			} else {
				_, err = values.read(prop.Type)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func readPLYList(values plyValueReader, prop PLYProperty) ([]float64, error) {
	n, err := values.read(prop.ListType)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative list length", ErrInvalidValue)
	}
	list := make([]float64, int(n))
	for i := range list {
		if list[i], err = values.read(prop.DataType); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// getTypeSize returns the size in bytes of a PLY data type, 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// plyValueReader yields the next scalar of the body as a float64
type plyValueReader interface {
	read(dataType string) (float64, error)
}

type plyBinaryReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *plyBinaryReader) read(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if _, err := io.ReadFull(b.r, b.buf[:size]); err != nil {
		return 0, err
	}
	switch dataType {
	case "char", "int8":
		return float64(int8(b.buf[0])), nil
	case "uchar", "uint8":
		return float64(b.buf[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(b.buf[:2]))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(b.buf[:2])), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(b.buf[:4]))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(b.buf[:4])), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(b.buf[:4]))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(b.buf[:8])), nil
	}
	return 0, fmt.Errorf("%w: data type %q", ErrUnknownType, dataType)
}

type plyASCIIReader struct {
	scanner *bufio.Scanner
}

func (a *plyASCIIReader) read(string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	v, err := strconv.ParseFloat(a.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return v, nil
}
