// Package obj loads triangulated Wavefront OBJ meshes into flattened
// position, texture coordinate and normal streams suitable for a
// non-indexed draw call.
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	m "github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrIO is returned when the file cannot be opened or read.
	ErrIO = errors.New("obj: io error")
	// ErrMalformedRecord is returned for a v, vt, vn or f record with the
	// wrong number of tokens or a non-numeric token.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrIndexOutOfRange is returned when a face references an attribute
	// that does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")
)

const maxLineLength = 1 << 20

// RecordError describes a failure of a single record.
type RecordError struct {
	Path string
	Line int
	Tag  string
	Err  error
}

func (err *RecordError) Error() string {
	path := err.Path
	if path == "" {
		path = "<input>"
	}
	return fmt.Sprintf("%s:%d: %s: %v", path, err.Line, err.Tag, err.Err)
}

func (err *RecordError) Unwrap() error { return err.Err }

// Policy decides what happens with a bad record.
type Policy int

const (
	// Strict fails the whole load on the first bad record.
	Strict Policy = iota
	// Lenient skips the offending record and continues.
	// Faces with an out-of-range reference are dropped as a whole.
	Lenient
)

func (policy Policy) String() string {
	switch policy {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return "Policy(" + strconv.Itoa(int(policy)) + ")"
	}
}

// Mesh is the flattened output of a load.
//
// Element k of Positions, TexCoords and Normals belongs to the same vertex
// and every three consecutive vertices form one triangle.
type Mesh struct {
	Positions []m.Vec3
	TexCoords []m.Vec2
	Normals   []m.Vec3

	// Skipped contains the records dropped by the Lenient policy.
	Skipped []error
}

// Triangles returns the number of emitted triangles.
func (mesh *Mesh) Triangles() int { return len(mesh.Positions) / 3 }

// Bounds returns the axis-aligned bounds of the emitted positions.
func (mesh *Mesh) Bounds() (min, max m.Vec3) {
	if len(mesh.Positions) == 0 {
		return min, max
	}
	min, max = mesh.Positions[0], mesh.Positions[0]
	for _, p := range mesh.Positions[1:] {
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return min, max
}

// Loader loads OBJ files. The zero value is a strict loader.
type Loader struct {
	Policy Policy
	// Logf, when set, is called for every record skipped by the Lenient policy.
	Logf func(format string, args ...interface{})
}

// Load loads path with the Strict policy.
func Load(path string) (*Mesh, error) {
	return (&Loader{}).Load(path)
}

// Load reads and flattens the mesh at path.
func (loader *Loader) Load(path string) (*Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer file.Close()

	return loader.decode(file, path)
}

// Decode reads and flattens a mesh from r.
func (loader *Loader) Decode(r io.Reader) (*Mesh, error) {
	return loader.decode(r, "")
}

type reference struct {
	position, texcoord, normal int
}

type face struct {
	line int
	refs [3]reference
}

type decoder struct {
	loader *Loader
	path   string
	mesh   *Mesh

	positions []m.Vec3
	texcoords []m.Vec2
	normals   []m.Vec3
	faces     []face
}

func (loader *Loader) decode(r io.Reader, path string) (*Mesh, error) {
	dec := &decoder{
		loader: loader,
		path:   path,
		mesh:   &Mesh{},
	}

	if err := dec.parse(r); err != nil {
		return nil, err
	}
	if err := dec.flatten(); err != nil {
		return nil, err
	}
	return dec.mesh, nil
}

func (dec *decoder) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)

	line := 0
	for scanner.Scan() {
		line++

		text := scanner.Text()
		if comment := strings.IndexByte(text, '#'); comment >= 0 {
			text = text[:comment]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		tag, payload := fields[0], fields[1:]

		var err error
		switch tag {
		case "v":
			var v m.Vec3
			if err = parseFloats(payload, v[:]); err == nil {
				dec.positions = append(dec.positions, v)
			}
		case "vt":
			var uv m.Vec2
			if err = parseFloats(payload, uv[:]); err == nil {
				dec.texcoords = append(dec.texcoords, uv)
			}
		case "vn":
			var n m.Vec3
			if err = parseFloats(payload, n[:]); err == nil {
				dec.normals = append(dec.normals, n)
			}
		case "f":
			f := face{line: line}
			if err = parseFace(payload, &f); err == nil {
				dec.faces = append(dec.faces, f)
			}
		default:
			continue
		}

		if err != nil {
			if err := dec.fail(line, tag, err); err != nil {
				return err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		if dec.path != "" {
			return fmt.Errorf("%w: %s: %w", ErrIO, dec.path, err)
		}
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// fail returns the error to abort with, or nil when the record is skipped.
func (dec *decoder) fail(line int, tag string, err error) error {
	recordErr := &RecordError{
		Path: dec.path,
		Line: line,
		Tag:  tag,
		Err:  err,
	}
	if dec.loader.Policy != Lenient {
		return recordErr
	}

	dec.mesh.Skipped = append(dec.mesh.Skipped, recordErr)
	if dec.loader.Logf != nil {
		dec.loader.Logf("obj: skipping record: %v", recordErr)
	}
	return nil
}

func (dec *decoder) flatten() error {
	n := 3 * len(dec.faces)
	dec.mesh.Positions = make([]m.Vec3, 0, n)
	dec.mesh.TexCoords = make([]m.Vec2, 0, n)
	dec.mesh.Normals = make([]m.Vec3, 0, n)

	for _, f := range dec.faces {
		if err := dec.checkFace(&f); err != nil {
			if err := dec.fail(f.line, "f", err); err != nil {
				return err
			}
			continue
		}

		for _, ref := range f.refs {
			dec.mesh.Positions = append(dec.mesh.Positions, dec.positions[ref.position-1])
			dec.mesh.TexCoords = append(dec.mesh.TexCoords, dec.texcoords[ref.texcoord-1])
			dec.mesh.Normals = append(dec.mesh.Normals, dec.normals[ref.normal-1])
		}
	}
	return nil
}

func (dec *decoder) checkFace(f *face) error {
	for _, ref := range f.refs {
		if err := checkIndex("position", ref.position, len(dec.positions)); err != nil {
			return err
		}
		if err := checkIndex("texcoord", ref.texcoord, len(dec.texcoords)); err != nil {
			return err
		}
		if err := checkIndex("normal", ref.normal, len(dec.normals)); err != nil {
			return err
		}
	}
	return nil
}

func checkIndex(kind string, index, count int) error {
	if index < 1 || index > count {
		return fmt.Errorf("%w: %s %d not in [1, %d]", ErrIndexOutOfRange, kind, index, count)
	}
	return nil
}

func parseFloats(tokens []string, dst []float32) error {
	if len(tokens) != len(dst) {
		return fmt.Errorf("%w: expected %d values, got %d", ErrMalformedRecord, len(dst), len(tokens))
	}
	for i, token := range tokens {
		v, err := strconv.ParseFloat(token, 32)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", ErrMalformedRecord, token)
		}
		dst[i] = float32(v)
	}
	return nil
}

func parseFace(tokens []string, f *face) error {
	if len(tokens) != 3 {
		return fmt.Errorf("%w: expected 3 vertices, got %d", ErrMalformedRecord, len(tokens))
	}
	for i, token := range tokens {
		parts := strings.Split(token, "/")
		if len(parts) != 3 {
			return fmt.Errorf("%w: vertex %q is not p/t/n", ErrMalformedRecord, token)
		}

		var indices [3]int
		for k, part := range parts {
			v, err := strconv.Atoi(part)
			if err != nil {
				return fmt.Errorf("%w: vertex %q is not p/t/n", ErrMalformedRecord, token)
			}
			indices[k] = v
		}
		f.refs[i] = reference{
			position: indices[0],
			texcoord: indices[1],
			normal:   indices[2],
		}
	}
	return nil
}
