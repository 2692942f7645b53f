package obj

import (
	"errors"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	m "github.com/go-gl/mathgl/mgl32"
)

const triangle = `v 0.0 0.0 0.0
v 1.0 0.0 0.0
v 0.0 1.0 0.0
vt 0.0 0.0
vt 1.0 0.0
vt 0.0 1.0
vn 0.0 0.0 1.0
f 1/1/1 2/2/1 3/3/1
`

func decode(t *testing.T, policy Policy, source string) (*Mesh, error) {
	t.Helper()
	loader := &Loader{Policy: policy}
	return loader.Decode(strings.NewReader(source))
}

func mustDecode(t *testing.T, source string) *Mesh {
	t.Helper()
	mesh, err := decode(t, Strict, source)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return mesh
}

func TestTriangle(t *testing.T) {
	mesh := mustDecode(t, triangle)

	expectPositions := []m.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	expectTexCoords := []m.Vec2{{0, 0}, {1, 0}, {0, 1}}
	expectNormals := []m.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}

	if !reflect.DeepEqual(mesh.Positions, expectPositions) {
		t.Errorf("positions: got %v, expected %v", mesh.Positions, expectPositions)
	}
	if !reflect.DeepEqual(mesh.TexCoords, expectTexCoords) {
		t.Errorf("texcoords: got %v, expected %v", mesh.TexCoords, expectTexCoords)
	}
	if !reflect.DeepEqual(mesh.Normals, expectNormals) {
		t.Errorf("normals: got %v, expected %v", mesh.Normals, expectNormals)
	}
	if mesh.Triangles() != 1 {
		t.Errorf("triangles: got %d, expected 1", mesh.Triangles())
	}
	if len(mesh.Skipped) != 0 {
		t.Errorf("unexpected skipped records: %v", mesh.Skipped)
	}
}

func TestLoadFile(t *testing.T) {
	testCases := []struct {
		file      string
		triangles int
		min, max  m.Vec3
	}{
		{file: "triangle.obj", triangles: 1, min: m.Vec3{0, 0, 0}, max: m.Vec3{1, 1, 0}},
		{file: "quad.obj", triangles: 2, min: m.Vec3{-1, -1, 0}, max: m.Vec3{1, 1, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			mesh, err := Load(filepath.Join("testdata", tc.file))
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if mesh.Triangles() != tc.triangles {
				t.Errorf("triangles: got %d, expected %d", mesh.Triangles(), tc.triangles)
			}
			n := 3 * tc.triangles
			if len(mesh.Positions) != n || len(mesh.TexCoords) != n || len(mesh.Normals) != n {
				t.Errorf("lengths: got %d/%d/%d, expected %d",
					len(mesh.Positions), len(mesh.TexCoords), len(mesh.Normals), n)
			}
			min, max := mesh.Bounds()
			if min != tc.min || max != tc.max {
				t.Errorf("bounds: got %v %v, expected %v %v", min, max, tc.min, tc.max)
			}
		})
	}
}

func TestFaceCount(t *testing.T) {
	source := `v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
vt 0 0
vn 0 0 1
f 1/1/1 2/1/1 3/1/1
f 2/1/1 4/1/1 3/1/1
f 4/1/1 1/1/1 2/1/1
f 3/1/1 3/1/1 3/1/1
`
	mesh := mustDecode(t, source)
	if len(mesh.Positions) != 12 || len(mesh.TexCoords) != 12 || len(mesh.Normals) != 12 {
		t.Fatalf("lengths: got %d/%d/%d, expected 12",
			len(mesh.Positions), len(mesh.TexCoords), len(mesh.Normals))
	}
}

func TestFaceOrder(t *testing.T) {
	header := "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nvt 0 0\nvt 1 1\nvn 0 0 1\nvn 0 0 -1\n"
	first := "f 1/1/1 2/1/1 3/1/1\n"
	second := "f 4/2/2 3/2/2 2/2/2\n"

	forward := mustDecode(t, header+first+second)
	backward := mustDecode(t, header+second+first)

	expect := []m.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}, {0, 1, 0}, {1, 0, 0}}
	if !reflect.DeepEqual(forward.Positions, expect) {
		t.Fatalf("positions: got %v, expected %v", forward.Positions, expect)
	}

	if !reflect.DeepEqual(forward.Positions[:3], backward.Positions[3:]) ||
		!reflect.DeepEqual(forward.Positions[3:], backward.Positions[:3]) {
		t.Errorf("reordering faces did not reorder output: %v vs %v", forward.Positions, backward.Positions)
	}
	if !reflect.DeepEqual(forward.Normals[:3], backward.Normals[3:]) ||
		!reflect.DeepEqual(forward.TexCoords[:3], backward.TexCoords[3:]) {
		t.Errorf("attributes did not follow their faces")
	}
}

func TestIndexResolution(t *testing.T) {
	source := `v 0 0 0
v 1 0 0
v 0 1 0
vt 0.25 0.75
vt 0.5 0.5
vn 1 0 0
vn 0 1 0
vn 0 0 1
f 2/2/3 3/1/2 1/2/1
`
	mesh := mustDecode(t, source)
	if got := mesh.Positions[0]; got != (m.Vec3{1, 0, 0}) {
		t.Errorf("position index 2: got %v, expected (1,0,0)", got)
	}
	if got := mesh.TexCoords[1]; got != (m.Vec2{0.25, 0.75}) {
		t.Errorf("texcoord index 1: got %v", got)
	}
	if got := mesh.Normals[0]; got != (m.Vec3{0, 0, 1}) {
		t.Errorf("normal index 3: got %v", got)
	}
}

func TestInterleavedRecords(t *testing.T) {
	// indices count per kind, regardless of how the kinds are interleaved
	source := `vn 0 0 1
v 0 0 0
vt 0 0
v 1 0 0
vt 1 0
vn 0 1 0
v 0 1 0
vt 0 1
f 3/3/2 1/1/1 2/2/2
`
	mesh := mustDecode(t, source)
	expect := []m.Vec3{{0, 1, 0}, {0, 0, 0}, {1, 0, 0}}
	if !reflect.DeepEqual(mesh.Positions, expect) {
		t.Errorf("positions: got %v, expected %v", mesh.Positions, expect)
	}
	expectNormals := []m.Vec3{{0, 1, 0}, {0, 0, 1}, {0, 1, 0}}
	if !reflect.DeepEqual(mesh.Normals, expectNormals) {
		t.Errorf("normals: got %v, expected %v", mesh.Normals, expectNormals)
	}
}

func TestIgnoredLines(t *testing.T) {
	noisy := `# exported by hand

mtllib sun.mtl
o Sun
v 0.0 0.0 0.0

g body
v 1.0 0.0 0.0 # trailing comment
v 0.0 1.0 0.0
vp 0.5 0.5
vt 0.0 0.0
vt 1.0 0.0
vt 0.0 1.0
usemtl Sun
s 1
vn 0.0 0.0 1.0
l 1 2
	f 1/1/1   2/2/1 3/3/1
# end
`
	clean := mustDecode(t, triangle)
	mesh := mustDecode(t, noisy)
	if !reflect.DeepEqual(mesh.Positions, clean.Positions) ||
		!reflect.DeepEqual(mesh.TexCoords, clean.TexCoords) ||
		!reflect.DeepEqual(mesh.Normals, clean.Normals) {
		t.Errorf("ignored lines changed output: %+v vs %+v", mesh, clean)
	}
}

func TestEmpty(t *testing.T) {
	mesh := mustDecode(t, "# nothing here\n")
	if mesh.Triangles() != 0 || len(mesh.TexCoords) != 0 || len(mesh.Normals) != 0 {
		t.Errorf("expected empty mesh, got %+v", mesh)
	}
	min, max := mesh.Bounds()
	if min != (m.Vec3{}) || max != (m.Vec3{}) {
		t.Errorf("bounds of empty mesh: %v %v", min, max)
	}
}

func TestStrictErrors(t *testing.T) {
	testCases := []struct {
		name   string
		source string
		expect error
		line   int
	}{
		{name: "position zero", source: triangle + "f 0/1/1 2/2/1 3/3/1\n", expect: ErrIndexOutOfRange, line: 9},
		{name: "position past end", source: triangle + "f 1/1/1 2/2/1 4/3/1\n", expect: ErrIndexOutOfRange, line: 9},
		{name: "negative position", source: triangle + "f -1/1/1 2/2/1 3/3/1\n", expect: ErrIndexOutOfRange, line: 9},
		{name: "texcoord past end", source: triangle + "f 1/4/1 2/2/1 3/3/1\n", expect: ErrIndexOutOfRange, line: 9},
		{name: "normal past end", source: triangle + "f 1/1/1 2/2/1 3/3/2\n", expect: ErrIndexOutOfRange, line: 9},
		{name: "no texcoords", source: "v 0 0 0\nvn 0 0 1\nf 1/1/1 1/1/1 1/1/1\n", expect: ErrIndexOutOfRange, line: 3},
		{name: "short position", source: "v 1 2\n", expect: ErrMalformedRecord, line: 1},
		{name: "long position", source: "v 1 2 3 1\n", expect: ErrMalformedRecord, line: 1},
		{name: "text position", source: "v 1 two 3\n", expect: ErrMalformedRecord, line: 1},
		{name: "short texcoord", source: "vt 1\n", expect: ErrMalformedRecord, line: 1},
		{name: "text normal", source: "\nvn 0 0 x\n", expect: ErrMalformedRecord, line: 2},
		{name: "quad face", source: triangle + "f 1/1/1 2/2/1 3/3/1 1/1/1\n", expect: ErrMalformedRecord, line: 9},
		{name: "position only face", source: triangle + "f 1 2 3\n", expect: ErrMalformedRecord, line: 9},
		{name: "missing texcoord", source: triangle + "f 1//1 2//1 3//1\n", expect: ErrMalformedRecord, line: 9},
		{name: "text index", source: triangle + "f 1/1/a 2/2/1 3/3/1\n", expect: ErrMalformedRecord, line: 9},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mesh, err := decode(t, Strict, tc.source)
			if err == nil {
				t.Fatalf("expected error, got mesh %+v", mesh)
			}
			if mesh != nil {
				t.Errorf("expected no mesh on error")
			}
			if !errors.Is(err, tc.expect) {
				t.Errorf("got %v, expected %v", err, tc.expect)
			}
			if errors.Is(err, ErrIO) {
				t.Errorf("record error reported as io error: %v", err)
			}

			var recordErr *RecordError
			if !errors.As(err, &recordErr) {
				t.Fatalf("expected *RecordError, got %T", err)
			}
			if recordErr.Line != tc.line {
				t.Errorf("line: got %d, expected %d", recordErr.Line, tc.line)
			}
		})
	}
}

func TestLenient(t *testing.T) {
	source := `v 0 0 0
v 1 0 0
v bad 0 0
v 0 1 0
vt 0 0
vt 1
vn 0 0 1
f 1/1/1 2/1/1 3/1/1
f 1/1/1 2/1/1 9/1/1
f 1/1/1 2/1/1
f 3/1/1 2/1/1 1/1/1
`
	var logged []string
	loader := &Loader{
		Policy: Lenient,
		Logf: func(format string, args ...interface{}) {
			logged = append(logged, format)
		},
	}

	mesh, err := loader.Decode(strings.NewReader(source))
	if err != nil {
		t.Fatalf("lenient decode failed: %v", err)
	}

	if mesh.Triangles() != 2 {
		t.Fatalf("triangles: got %d, expected 2", mesh.Triangles())
	}
	expect := []m.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 1, 0}, {1, 0, 0}, {0, 0, 0}}
	if !reflect.DeepEqual(mesh.Positions, expect) {
		t.Errorf("positions: got %v, expected %v", mesh.Positions, expect)
	}

	if len(mesh.Skipped) != 4 {
		t.Fatalf("skipped: got %d (%v), expected 4", len(mesh.Skipped), mesh.Skipped)
	}
	if len(logged) != len(mesh.Skipped) {
		t.Errorf("logged %d skips, expected %d", len(logged), len(mesh.Skipped))
	}

	var malformed, outOfRange int
	for _, err := range mesh.Skipped {
		switch {
		case errors.Is(err, ErrMalformedRecord):
			malformed++
		case errors.Is(err, ErrIndexOutOfRange):
			outOfRange++
		}
	}
	if malformed != 3 || outOfRange != 1 {
		t.Errorf("skipped kinds: %d malformed, %d out of range", malformed, outOfRange)
	}
}

func TestLoadMissingFile(t *testing.T) {
	for _, policy := range []Policy{Strict, Lenient} {
		t.Run(policy.String(), func(t *testing.T) {
			loader := &Loader{Policy: policy}
			_, err := loader.Load(filepath.Join("testdata", "missing.obj"))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrIO) {
				t.Errorf("expected ErrIO, got %v", err)
			}
			if !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("expected fs.ErrNotExist, got %v", err)
			}
		})
	}
}

func TestLineTooLong(t *testing.T) {
	source := "v 0 0 0\n# " + strings.Repeat("x", maxLineLength) + "\n"
	_, err := decode(t, Lenient, source)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestRecordErrorMessage(t *testing.T) {
	recordErr := &RecordError{Path: "sun.obj", Line: 3, Tag: "f", Err: ErrIndexOutOfRange}
	if got, expect := recordErr.Error(), "sun.obj:3: f: index out of range"; got != expect {
		t.Errorf("got %q, expected %q", got, expect)
	}

	recordErr.Path = ""
	if got, expect := recordErr.Error(), "<input>:3: f: index out of range"; got != expect {
		t.Errorf("got %q, expected %q", got, expect)
	}
}
