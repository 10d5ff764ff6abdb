package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-distributed-raytracer/pkg/core"
	"github.com/df07/go-distributed-raytracer/pkg/geometry"
	"github.com/df07/go-distributed-raytracer/pkg/log"
)

var logger = log.New("loaders")

// ErrMalformedPLY is returned for input that does not follow the PLY layout
var ErrMalformedPLY = errors.New("loaders: malformed PLY")

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "ascii", "binary_little_endian" or "binary_big_endian"
	Version  string
	Elements []PLYElement
}

// PLYElement is one element block declared in the header
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string // Scalar type, empty for lists
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the vertex positions and polygon faces of a mesh
type PLYData struct {
	Vertices []core.Vec3
	Faces    [][]int // Vertex indices per polygon
}

// LoadPLY reads a PLY file and returns its faces as triangles
func LoadPLY(filename string) ([]geometry.Primitive, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	triangles, dropped := data.Triangles()
	logger.Infof("loaded %s: %d vertices, %d faces, %d triangles (%d degenerate dropped) in %v",
		filename, len(data.Vertices), len(data.Faces), len(triangles), dropped, time.Since(startTime))

	return triangles, nil
}

// ReadPLY parses an ASCII or binary PLY stream
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, err
	}

	var body plyBody
	switch header.Format {
	case "ascii":
		body = &asciiBody{reader: reader}
	case "binary_little_endian":
		body = &binaryBody{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		body = &binaryBody{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrMalformedPLY, header.Format)
	}

	data := &PLYData{}
	for _, element := range header.Elements {
		if err := readElement(body, element, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// Triangles fan-triangulates every face, dropping degenerate triangles
func (d *PLYData) Triangles() ([]geometry.Primitive, int) {
	triangles := make([]geometry.Primitive, 0, len(d.Faces))
	dropped := 0

	for _, face := range d.Faces {
		for k := 1; k+1 < len(face); k++ {
			t := geometry.NewTriangle(d.Vertices[face[0]], d.Vertices[face[k]], d.Vertices[face[k+1]])
			if t.IsDegenerate() {
				dropped++
				continue
			}
			triangles = append(triangles, t)
		}
	}
	return triangles, dropped
}

// parsePLYHeader reads header lines up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := readHeaderLine(reader)
	if err != nil {
		return nil, err
	}
	if magic != "ply" {
		return nil, fmt.Errorf("%w: missing ply magic", ErrMalformedPLY)
	}

	for {
		line, err := readHeaderLine(reader)
		if err != nil {
			return nil, err
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
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: bad format line %q", ErrMalformedPLY, line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: bad element line %q", ErrMalformedPLY, line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: invalid element count %q", ErrMalformedPLY, parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("%w: property before any element", ErrMalformedPLY)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			last := &header.Elements[len(header.Elements)-1]
			last.Properties = append(last.Properties, prop)
		default:
			return nil, fmt.Errorf("%w: unknown header keyword %q", ErrMalformedPLY, parts[0])
		}
	}

	if header.Format == "" {
		return nil, fmt.Errorf("%w: missing format line", ErrMalformedPLY)
	}
	return header, nil
}

func readHeaderLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", fmt.Errorf("%w: header ended before end_header", ErrMalformedPLY)
		}
		return "", fmt.Errorf("reading PLY header: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) >= 4 && parts[0] == "list" {
		if scalarSize(parts[1]) == 0 || scalarSize(parts[2]) == 0 {
			return PLYProperty{}, fmt.Errorf("%w: unknown list types %q %q", ErrMalformedPLY, parts[1], parts[2])
		}
		return PLYProperty{Name: parts[3], IsList: true, ListType: parts[1], DataType: parts[2]}, nil
	}
	if len(parts) == 2 {
		if scalarSize(parts[0]) == 0 {
			return PLYProperty{}, fmt.Errorf("%w: unknown property type %q", ErrMalformedPLY, parts[0])
		}
		return PLYProperty{Name: parts[1], Type: parts[0]}, nil
	}
	return PLYProperty{}, fmt.Errorf("%w: invalid property definition %v", ErrMalformedPLY, parts)
}

// readElement reads every instance of an element, keeping vertex positions
// and face indices and discarding everything else
func readElement(body plyBody, element PLYElement, data *PLYData) error {
	// Counts come from the file, so slices grow as records actually arrive
	switch element.Name {
	case "vertex":
		data.Vertices = nil
	case "face":
		data.Faces = nil
	}

	for i := 0; i < element.Count; i++ {
		if err := body.beginRecord(); err != nil {
			return fmt.Errorf("%w: %s %d: %v", ErrMalformedPLY, element.Name, i, err)
		}

		var position [3]float64
		var face []int
		for _, prop := range element.Properties {
			if prop.IsList {
				n, err := body.scalar(prop.ListType)
				if err != nil || n < 0 || n != math.Trunc(n) || n > maxListLength(prop.ListType) {
					return fmt.Errorf("%w: %s %d: bad list length", ErrMalformedPLY, element.Name, i)
				}
				count := int(n)
				values := make([]int, 0, min(count, 16))
				for k := 0; k < count; k++ {
					v, err := body.scalar(prop.DataType)
					if err != nil {
						return fmt.Errorf("%w: %s %d: %v", ErrMalformedPLY, element.Name, i, err)
					}
					if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
						return fmt.Errorf("%w: %s %d: bad list value %v", ErrMalformedPLY, element.Name, i, v)
					}
					values = append(values, int(v))
				}
				if element.Name == "face" && (prop.Name == "vertex_indices" || prop.Name == "vertex_index") {
					face = values
				}
				continue
			}

			v, err := body.scalar(prop.Type)
			if err != nil {
				return fmt.Errorf("%w: %s %d: %v", ErrMalformedPLY, element.Name, i, err)
			}
			if element.Name == "vertex" {
				switch prop.Name {
				case "x":
					position[0] = v
				case "y":
					position[1] = v
				case "z":
					position[2] = v
				}
			}
		}

		switch element.Name {
		case "vertex":
			data.Vertices = append(data.Vertices, core.NewVec3(position[0], position[1], position[2]))
		case "face":
			for _, idx := range face {
				if idx < 0 || idx >= len(data.Vertices) {
					return fmt.Errorf("%w: face %d references vertex %d of %d", ErrMalformedPLY, i, idx, len(data.Vertices))
				}
			}
			data.Faces = append(data.Faces, face)
		}
	}
	return nil
}

// plyBody decodes scalar values in file order
type plyBody interface {
	beginRecord() error
	scalar(typ string) (float64, error)
}

type asciiBody struct {
	reader *bufio.Reader
	fields []string
}

// beginRecord moves to the next non-empty line; one record per line
func (a *asciiBody) beginRecord() error {
	a.fields = nil
	for len(a.fields) == 0 {
		line, err := a.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		a.fields = strings.Fields(line)
	}
	return nil
}

func (a *asciiBody) scalar(typ string) (float64, error) {
	if len(a.fields) == 0 {
		return 0, fmt.Errorf("record too short")
	}
	field := a.fields[0]
	a.fields = a.fields[1:]

	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", typ, field)
	}
	return v, nil
}

type binaryBody struct {
	reader io.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryBody) beginRecord() error { return nil }

func (b *binaryBody) scalar(typ string) (float64, error) {
	size := scalarSize(typ)
	if size == 0 {
		return 0, fmt.Errorf("unknown type %q", typ)
	}
	raw := b.buf[:size]
	if _, err := io.ReadFull(b.reader, raw); err != nil {
		return 0, err
	}

	switch typ {
	case "char", "int8":
		return float64(int8(raw[0])), nil
	case "uchar", "uint8":
		return float64(raw[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(raw))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(raw)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(raw))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(raw)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(raw))), nil
	default:
		return math.Float64frombits(b.order.Uint64(raw)), nil
	}
}

// scalarSize returns the byte size of a PLY scalar type, 0 if unknown
func scalarSize(typ string) int {
	switch typ {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

// maxListLength bounds a list count by the range of its declared type
func maxListLength(typ string) float64 {
	switch typ {
	case "char", "int8":
		return math.MaxInt8
	case "uchar", "uint8":
		return math.MaxUint8
	case "short", "int16":
		return math.MaxInt16
	case "ushort", "uint16":
		return math.MaxUint16
	default:
		return math.MaxInt32
	}
}
