package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/stlview/pkg/geometry"
)

const (
	binaryHeaderSize = 80
	binaryRecordSize = 50
)

// ErrMalformed is returned for input that is neither valid ASCII nor binary STL
var ErrMalformed = errors.New("malformed STL data")

// Parse reads an STL file and returns a Model
func Parse(filename string) (*Model, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseBytes(raw)
}

// Decode reads all of r and parses it as STL
func Decode(r io.Reader) (*Model, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}
	return ParseBytes(raw)
}

// ParseBytes parses an in-memory STL file, detecting ASCII or binary format.
// A binary file is recognized by its size matching the triangle count in the
// header, so binary files whose header starts with "solid" still parse.
func ParseBytes(raw []byte) (*Model, error) {
	if isBinary(raw) {
		return parseBinary(raw)
	}
	if bytes.HasPrefix(bytes.TrimLeft(raw, " \t\r\n"), []byte("solid")) {
		return parseASCII(bytes.NewReader(raw))
	}
	return parseBinary(raw)
}

func isBinary(raw []byte) bool {
	if len(raw) < binaryHeaderSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(raw[binaryHeaderSize:])
	return int64(len(raw)) == binaryHeaderSize+4+int64(count)*binaryRecordSize
}

// parseASCII parses an ASCII STL stream
func parseASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := NewModel("")

	var currentNormal geometry.Vector3
	vertices := make([]geometry.Vector3, 0, 3)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) < 5 || fields[1] != "normal" {
				return nil, fmt.Errorf("%w: line %d: expected 'facet normal x y z'", ErrMalformed, lineNo)
			}
			n, err := parseTriple(fields[2:5])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
			}
			currentNormal = n

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: expected 'vertex x y z'", ErrMalformed, lineNo)
			}
			v, err := parseTriple(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) != 3 {
				return nil, fmt.Errorf("%w: line %d: facet has %d vertices", ErrMalformed, lineNo, len(vertices))
			}
			model.AddTriangle(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			vertices = vertices[:0]
			currentNormal = geometry.Vector3{}

		case "outer", "endloop", "endsolid":
		default:
			return nil, fmt.Errorf("%w: line %d: unexpected keyword %q", ErrMalformed, lineNo, fields[0])
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}
	if model.TriangleCount() == 0 {
		return nil, fmt.Errorf("%w: no facets found", ErrMalformed)
	}

	return model, nil
}

func parseTriple(fields []string) (geometry.Vector3, error) {
	var xyz [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("invalid number %q", f)
		}
		xyz[i] = v
	}
	return geometry.NewVector3(xyz[0], xyz[1], xyz[2]), nil
}

// parseBinary parses a binary STL buffer
func parseBinary(raw []byte) (*Model, error) {
	if len(raw) < binaryHeaderSize+4 {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the binary header", ErrMalformed, len(raw))
	}

	model := NewModel(strings.TrimSpace(string(bytes.TrimRight(raw[:binaryHeaderSize], "\x00"))))

	count := binary.LittleEndian.Uint32(raw[binaryHeaderSize:])
	if count == 0 {
		return nil, fmt.Errorf("%w: no triangles", ErrMalformed)
	}
	need := int64(binaryHeaderSize+4) + int64(count)*binaryRecordSize
	if int64(len(raw)) < need {
		return nil, fmt.Errorf("%w: %d triangles need %d bytes, got %d", ErrMalformed, count, need, len(raw))
	}

	model.Triangles = make([]geometry.Triangle, 0, count)
	offset := binaryHeaderSize + 4
	for i := uint32(0); i < count; i++ {
		record := raw[offset : offset+binaryRecordSize]
		// normal, v1, v2, v3 then a 2-byte attribute count we ignore
		model.AddTriangle(geometry.NewTriangle(
			readVector(record[0:]),
			readVector(record[12:]),
			readVector(record[24:]),
			readVector(record[36:]),
		))
		offset += binaryRecordSize
	}

	return model, nil
}

func readVector(b []byte) geometry.Vector3 {
	return geometry.NewVector3(
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
	)
}

// WriteBinary encodes the model as binary STL
func WriteBinary(w io.Writer, model *Model) error {
	header := make([]byte, binaryHeaderSize)
	copy(header, model.Name)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(model.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	record := make([]byte, binaryRecordSize)
	for i, t := range model.Triangles {
		for j, v := range [4]geometry.Vector3{t.Normal, t.V1, t.V2, t.V3} {
			putVector(record[j*12:], v)
		}
		if _, err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}
	return nil
}

func putVector(b []byte, v geometry.Vector3) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(float32(v.Z)))
}
