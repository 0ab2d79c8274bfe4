package reader

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/lbvh/asset"
	"github.com/achilleasa/lbvh/asset/mesh"
	"github.com/achilleasa/lbvh/log"
	"github.com/achilleasa/lbvh/types"
)

const (
	plyFormatASCII        = "ascii"
	plyFormatLittleEndian = "binary_little_endian"
	plyFormatBigEndian    = "binary_big_endian"
)

// Sizes of the PLY scalar types in bytes.
var plyTypeSizes = map[string]int{
	"char": 1, "int8": 1,
	"uchar": 1, "uint8": 1,
	"short": 2, "int16": 2,
	"ushort": 2, "uint16": 2,
	"int": 4, "int32": 4,
	"uint": 4, "uint32": 4,
	"float": 4, "float32": 4,
	"double": 8, "float64": 8,
}

type plyProperty struct {
	Name string

	// Scalar type or, for list properties, the type of the list items.
	Type string

	IsList    bool
	CountType string
}

type plyElement struct {
	Name       string
	Count      int
	Properties []plyProperty
}

type plyHeader struct {
	Format   string
	Elements []plyElement
}

type plyReader struct {
	logger log.Logger

	// Resource path and current line for error reporting.
	path    string
	lineNum int

	byteOrder binary.ByteOrder
	scratch   [8]byte
}

// Create a new PLY mesh reader.
func newPlyReader() *plyReader {
	return &plyReader{
		logger: log.New("ply reader"),
	}
}

// Read a PLY mesh. Both the ascii and the binary encodings are supported.
// Faces with more than 3 vertices are split into a triangle fan.
func (r *plyReader) Read(res *asset.Resource) (*mesh.Mesh, error) {
	r.logger.Noticef(`parsing mesh from "%s"`, res.Path())
	start := time.Now()

	r.path = res.Path()
	r.lineNum = 0

	br := bufio.NewReader(res)
	header, err := r.parseHeader(br)
	if err != nil {
		return nil, err
	}

	m := mesh.New(res.Name())
	switch header.Format {
	case plyFormatASCII:
		err = r.readASCII(br, header, m)
	case plyFormatLittleEndian:
		r.byteOrder = binary.LittleEndian
		err = r.readBinary(br, header, m)
	case plyFormatBigEndian:
		r.byteOrder = binary.BigEndian
		err = r.readBinary(br, header, m)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Noticef("parsed %d vertices and %d triangles in %d ms", m.VertexCount(), m.TriangleCount(), time.Since(start).Milliseconds())
	return m, nil
}

// Generate an error message that includes the current line number.
func (r *plyReader) emitError(msgFormat string, args ...interface{}) error {
	return fmt.Errorf("[%s: %d] error: %s", r.path, r.lineNum, fmt.Sprintf(msgFormat, args...))
}

// Read the next line from the header.
func (r *plyReader) readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", r.emitError("unexpected end of file while parsing header")
		}
		return "", err
	}
	r.lineNum++
	return strings.TrimSpace(line), nil
}

// Parse the header up to and including the end_header line.
func (r *plyReader) parseHeader(br *bufio.Reader) (*plyHeader, error) {
	magic, err := r.readLine(br)
	if err != nil {
		return nil, err
	}
	if magic != "ply" {
		return nil, r.emitError(`missing "ply" magic`)
	}

	header := &plyHeader{}
	for {
		line, err := r.readLine(br)
		if err != nil {
			return nil, err
		}

		lineTokens := strings.Fields(line)
		if len(lineTokens) == 0 {
			continue
		}

		switch lineTokens[0] {
		case "end_header":
			if header.Format == "" {
				return nil, r.emitError("missing format declaration")
			}
			return header, nil
		case "comment", "obj_info":
		case "format":
			if len(lineTokens) != 3 {
				return nil, r.emitError(`unsupported syntax for "format"; expected 2 arguments; got %d`, len(lineTokens)-1)
			}
			switch lineTokens[1] {
			case plyFormatASCII, plyFormatLittleEndian, plyFormatBigEndian:
				header.Format = lineTokens[1]
			default:
				return nil, r.emitError(`unsupported format "%s"`, lineTokens[1])
			}
		case "element":
			if len(lineTokens) != 3 {
				return nil, r.emitError(`unsupported syntax for "element"; expected 2 arguments; got %d`, len(lineTokens)-1)
			}
			count, err := strconv.Atoi(lineTokens[2])
			if err != nil || count < 0 {
				return nil, r.emitError(`invalid element count "%s"`, lineTokens[2])
			}
			header.Elements = append(header.Elements, plyElement{Name: lineTokens[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, r.emitError(`got "property" without an "element"`)
			}
			prop, err := parsePlyProperty(lineTokens)
			if err != nil {
				return nil, r.emitError("%s", err.Error())
			}
			elem := &header.Elements[len(header.Elements)-1]
			elem.Properties = append(elem.Properties, prop)
		default:
			return nil, r.emitError(`unexpected header keyword "%s"`, lineTokens[0])
		}
	}
}

// Parse a property declaration.
func parsePlyProperty(lineTokens []string) (plyProperty, error) {
	if len(lineTokens) >= 2 && lineTokens[1] == "list" {
		if len(lineTokens) != 5 {
			return plyProperty{}, fmt.Errorf(`unsupported syntax for list "property"; expected 4 arguments; got %d`, len(lineTokens)-1)
		}
		prop := plyProperty{Name: lineTokens[4], Type: lineTokens[3], IsList: true, CountType: lineTokens[2]}
		if _, valid := plyTypeSizes[prop.CountType]; !valid {
			return prop, fmt.Errorf(`unsupported list count type "%s"`, prop.CountType)
		}
		if _, valid := plyTypeSizes[prop.Type]; !valid {
			return prop, fmt.Errorf(`unsupported list item type "%s"`, prop.Type)
		}
		return prop, nil
	}

	if len(lineTokens) != 3 {
		return plyProperty{}, fmt.Errorf(`unsupported syntax for "property"; expected 2 arguments; got %d`, len(lineTokens)-1)
	}
	prop := plyProperty{Name: lineTokens[2], Type: lineTokens[1]}
	if _, valid := plyTypeSizes[prop.Type]; !valid {
		return prop, fmt.Errorf(`unsupported property type "%s"`, prop.Type)
	}
	return prop, nil
}

// The position of the x, y, z coordinates within the vertex properties.
func vertexCoordIndices(elem *plyElement) ([3]int, error) {
	indices := [3]int{-1, -1, -1}
	for propIndex, prop := range elem.Properties {
		if prop.IsList {
			continue
		}
		switch prop.Name {
		case "x":
			indices[0] = propIndex
		case "y":
			indices[1] = propIndex
		case "z":
			indices[2] = propIndex
		}
	}
	for axis, propIndex := range indices {
		if propIndex == -1 {
			return indices, fmt.Errorf(`vertex element is missing the "%c" property`, "xyz"[axis])
		}
	}
	return indices, nil
}

// The position of the vertex index list within the face properties.
func faceIndexListIndex(elem *plyElement) (int, error) {
	for propIndex, prop := range elem.Properties {
		if prop.IsList && (prop.Name == "vertex_indices" || prop.Name == "vertex_index") {
			return propIndex, nil
		}
	}
	return -1, errors.New(`face element is missing the "vertex_indices" list property`)
}

// Append the fan triangulation of a polygon to the mesh.
func addPolygon(m *mesh.Mesh, polygon []uint32) error {
	if len(polygon) < 3 {
		return fmt.Errorf("face must have at least 3 vertices; got %d", len(polygon))
	}
	for i := 1; i < len(polygon)-1; i++ {
		m.AddTriangle(polygon[0], polygon[i], polygon[i+1])
	}
	return nil
}

// Convert a parsed face index to a vertex index.
func toVertexIndex(v float64) (uint32, error) {
	if v < 0 || v > math.MaxUint32 || v != math.Trunc(v) {
		return 0, fmt.Errorf("invalid vertex index %v", v)
	}
	return uint32(v), nil
}

// Read ascii encoded elements. Each element instance occupies one line.
func (r *plyReader) readASCII(br *bufio.Reader, header *plyHeader, m *mesh.Mesh) error {
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	nextLine := func() ([]string, error) {
		for scanner.Scan() {
			r.lineNum++
			if lineTokens := strings.Fields(scanner.Text()); len(lineTokens) != 0 {
				return lineTokens, nil
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, r.emitError("unexpected end of file")
	}

	var polygon []uint32
	for elemIndex := range header.Elements {
		elem := &header.Elements[elemIndex]

		switch elem.Name {
		case "vertex":
			coordIndices, err := vertexCoordIndices(elem)
			if err != nil {
				return r.emitError("%s", err.Error())
			}
			for range elem.Count {
				lineTokens, err := nextLine()
				if err != nil {
					return err
				}
				if len(lineTokens) < len(elem.Properties) {
					return r.emitError("expected %d vertex properties; got %d", len(elem.Properties), len(lineTokens))
				}
				var v types.Vec3
				for axis, propIndex := range coordIndices {
					coord, err := strconv.ParseFloat(lineTokens[propIndex], 32)
					if err != nil {
						return r.emitError("%s", err.Error())
					}
					v[axis] = float32(coord)
				}
				m.AddVertex(v)
			}
		case "face":
			listIndex, err := faceIndexListIndex(elem)
			if err != nil {
				return r.emitError("%s", err.Error())
			}
			for range elem.Count {
				lineTokens, err := nextLine()
				if err != nil {
					return err
				}

				// Walk the properties to locate the index list; properties
				// that precede it may themselves be lists.
				tokIndex := 0
				for propIndex, prop := range elem.Properties {
					count := 1
					if prop.IsList {
						if tokIndex >= len(lineTokens) {
							return r.emitError("missing list length for property %q", prop.Name)
						}
						if count, err = strconv.Atoi(lineTokens[tokIndex]); err != nil || count < 0 {
							return r.emitError(`invalid list length "%s"`, lineTokens[tokIndex])
						}
						tokIndex++
					}
					if count > len(lineTokens)-tokIndex {
						return r.emitError("expected %d values for property %q; got %d", count, prop.Name, len(lineTokens)-tokIndex)
					}

					if propIndex == listIndex {
						polygon = polygon[:0]
						for _, token := range lineTokens[tokIndex : tokIndex+count] {
							index, err := strconv.ParseInt(token, 10, 64)
							if err != nil {
								return r.emitError("%s", err.Error())
							}
							vIndex, err := toVertexIndex(float64(index))
							if err != nil {
								return r.emitError("%s", err.Error())
							}
							polygon = append(polygon, vIndex)
						}
						if err = addPolygon(m, polygon); err != nil {
							return r.emitError("%s", err.Error())
						}
					}
					tokIndex += count
				}
			}
		default:
			r.logger.Infof("skipping %d instances of unsupported element %q", elem.Count, elem.Name)
			for range elem.Count {
				if _, err := nextLine(); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// Read the next binary scalar of the given type.
func (r *plyReader) readScalar(br *bufio.Reader, typ string) (float64, error) {
	size := plyTypeSizes[typ]
	buf := r.scratch[:size]
	if _, err := io.ReadFull(br, buf); err != nil {
		return 0, err
	}

	switch typ {
	case "char", "int8":
		return float64(int8(buf[0])), nil
	case "uchar", "uint8":
		return float64(buf[0]), nil
	case "short", "int16":
		return float64(int16(r.byteOrder.Uint16(buf))), nil
	case "ushort", "uint16":
		return float64(r.byteOrder.Uint16(buf)), nil
	case "int", "int32":
		return float64(int32(r.byteOrder.Uint32(buf))), nil
	case "uint", "uint32":
		return float64(r.byteOrder.Uint32(buf)), nil
	case "float", "float32":
		return float64(math.Float32frombits(r.byteOrder.Uint32(buf))), nil
	default:
		return math.Float64frombits(r.byteOrder.Uint64(buf)), nil
	}
}

// Read the list length for a list property.
func (r *plyReader) readListLength(br *bufio.Reader, prop *plyProperty) (int, error) {
	count, err := r.readScalar(br, prop.CountType)
	if err != nil {
		return 0, err
	}
	if count < 0 || count != math.Trunc(count) {
		return 0, fmt.Errorf("invalid list length %v for property %q", count, prop.Name)
	}
	return int(count), nil
}

// Read binary encoded elements.
func (r *plyReader) readBinary(br *bufio.Reader, header *plyHeader, m *mesh.Mesh) error {
	binaryError := func(elem *plyElement, index int, err error) error {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = errors.New("unexpected end of file")
		}
		return fmt.Errorf("[%s] error: %s %d: %s", r.path, elem.Name, index, err.Error())
	}

	var polygon []uint32
	for elemIndex := range header.Elements {
		elem := &header.Elements[elemIndex]

		var coordIndices [3]int
		listIndex := -1
		var err error
		switch elem.Name {
		case "vertex":
			if coordIndices, err = vertexCoordIndices(elem); err != nil {
				return r.emitError("%s", err.Error())
			}
		case "face":
			if listIndex, err = faceIndexListIndex(elem); err != nil {
				return r.emitError("%s", err.Error())
			}
		default:
			r.logger.Infof("skipping %d instances of unsupported element %q", elem.Count, elem.Name)
		}

		for instance := range elem.Count {
			var v types.Vec3
			for propIndex := range elem.Properties {
				prop := &elem.Properties[propIndex]

				if !prop.IsList {
					value, err := r.readScalar(br, prop.Type)
					if err != nil {
						return binaryError(elem, instance, err)
					}
					if elem.Name == "vertex" {
						for axis, coordIndex := range coordIndices {
							if coordIndex == propIndex {
								v[axis] = float32(value)
							}
						}
					}
					continue
				}

				count, err := r.readListLength(br, prop)
				if err != nil {
					return binaryError(elem, instance, err)
				}
				polygon = polygon[:0]
				for range count {
					value, err := r.readScalar(br, prop.Type)
					if err != nil {
						return binaryError(elem, instance, err)
					}
					if propIndex != listIndex {
						continue
					}
					vIndex, err := toVertexIndex(value)
					if err != nil {
						return binaryError(elem, instance, err)
					}
					polygon = append(polygon, vIndex)
				}
				if propIndex == listIndex {
					if err = addPolygon(m, polygon); err != nil {
						return binaryError(elem, instance, err)
					}
				}
			}

			if elem.Name == "vertex" {
				m.AddVertex(v)
			}
		}
	}

	return nil
}
