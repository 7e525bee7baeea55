package fold

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/fold/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// tetraAngle is the fold angle that closes a regular tetrahedron.
var tetraAngle = math.Acos(-1. / 3)

func loadTetraNet(t *testing.T) *Mesh {
	t.Helper()
	m, err := LoadMesh("testdata/tetra_net.yaml")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// cubeTriangles returns a unit cube with faces wound counter clockwise
// when seen from outside.
func cubeTriangles() []render.Triangle3 {
	v := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	quads := [][4]int{
		{0, 3, 2, 1}, {4, 5, 6, 7}, {0, 1, 5, 4},
		{1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7},
	}
	var tris []render.Triangle3
	for _, q := range quads {
		tris = append(tris,
			render.Triangle3{V: [3]r3.Vec{v[q[0]], v[q[1]], v[q[2]]}},
			render.Triangle3{V: [3]r3.Vec{v[q[0]], v[q[2]], v[q[3]]}},
		)
	}
	return tris
}

func tetraTriangles() []render.Triangle3 {
	a := r3.Vec{X: 1, Y: 1, Z: 1}
	b := r3.Vec{X: 1, Y: -1, Z: -1}
	c := r3.Vec{X: -1, Y: 1, Z: -1}
	d := r3.Vec{X: -1, Y: -1, Z: 1}
	return []render.Triangle3{
		{V: [3]r3.Vec{a, b, c}},
		{V: [3]r3.Vec{a, c, d}},
		{V: [3]r3.Vec{a, d, b}},
		{V: [3]r3.Vec{b, d, c}},
	}
}

func mustWeld(t *testing.T, tris []render.Triangle3) *Mesh {
	t.Helper()
	m, err := FromTriangles(tris, 1e-9)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestValidateTetraNet(t *testing.T) {
	m := loadTetraNet(t)
	if len(m.Vertices) != 6 || len(m.Edges) != 9 || len(m.Faces) != 4 {
		t.Fatalf("unexpected net size %d/%d/%d", len(m.Vertices), len(m.Edges), len(m.Faces))
	}
	for i, e := range m.Edges {
		if !e.External() && math.Abs(e.Angle-math.Pi/2) > 1e-12 {
			t.Errorf("edge %d angle %g, want π/2", i, e.Angle)
		}
	}
	glues, err := m.GluePairs()
	if err != nil {
		t.Fatal(err)
	}
	want := []Glue{
		{Edges: [2]int{0, 1}, Vertices: [2][2]int{{0, 2}, {1, 1}}},
		{Edges: [2]int{2, 7}, Vertices: [2][2]int{{3, 3}, {0, 5}}},
		{Edges: [2]int{5, 8}, Vertices: [2][2]int{{2, 5}, {4, 4}}},
	}
	if len(glues) != len(want) {
		t.Fatalf("got %d glue pairs, want %d", len(glues), len(want))
	}
	for i := range want {
		if glues[i] != want[i] {
			t.Errorf("glue %d: got %+v, want %+v", i, glues[i], want[i])
		}
	}
	if got := m.EdgeFaces(3); len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("edge 3 faces %v, want [0 2]", got)
	}
}

func TestValidateErrors(t *testing.T) {
	for _, test := range []struct {
		name   string
		mangle func(m *Mesh)
		want   error
	}{
		{"match out of range", func(m *Mesh) { m.Edges[0].Match = 42 }, ErrBadMatch},
		{"glued to itself", func(m *Mesh) { m.Edges[0].Match = 0 }, ErrBadMatch},
		{"asymmetric glue", func(m *Mesh) { m.Edges[0].Match = 2 }, ErrBadMatch},
		{"glued to internal", func(m *Mesh) { m.Edges[0].Match = 3 }, ErrBadMatch},
		{"internal on border", func(m *Mesh) { m.Edges[0].Match = Internal; m.Edges[1].Match = Boundary }, ErrNotManifold},
		{"external inside", func(m *Mesh) { m.Edges[3].Match = Boundary }, ErrNotManifold},
		{"flipped face", func(m *Mesh) { m.Faces[1] = Face{1, 4, 2} }, ErrWinding},
	} {
		m := loadTetraNet(t)
		test.mangle(m)
		err := m.Validate()
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got error %v, want %v", test.name, err, test.want)
		}
	}

	for _, test := range []struct {
		name   string
		mangle func(m *Mesh)
	}{
		{"face index", func(m *Mesh) { m.Faces[1][2] = 6 }},
		{"repeated vertex", func(m *Mesh) { m.Faces[1][2] = 1 }},
		{"degenerate face", func(m *Mesh) { m.Vertices[3] = r3.Vec{X: -1, Y: 1.7320508075688772} }},
		{"missing edge", func(m *Mesh) { m.Edges = m.Edges[:8] }},
		{"duplicate edge", func(m *Mesh) { m.Edges[8].V = [2]int{5, 3} }},
		{"infinite angle", func(m *Mesh) { m.Edges[3].Angle = math.Inf(1) }},
		{"no faces", func(m *Mesh) { m.Faces = nil }},
	} {
		m := loadTetraNet(t)
		test.mangle(m)
		if err := m.Validate(); err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}
}

func TestCornerAnglesDefects(t *testing.T) {
	m := loadTetraNet(t)
	for i, c := range m.CornerAngles() {
		for k, a := range c {
			if math.Abs(a-math.Pi/3) > 1e-12 {
				t.Errorf("face %d corner %d: got %g, want π/3", i, k, a)
			}
		}
	}
	// Vertex 1 and 3 of the flat net are surrounded by three faces: π left over.
	defects := m.Defects()
	if math.Abs(defects[1]-math.Pi) > 1e-12 {
		t.Errorf("defect of vertex 1: got %g, want π", defects[1])
	}

	cube, err := FromTriangles(cubeTriangles(), 1e-9)
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for i, d := range cube.Defects() {
		if math.Abs(d-math.Pi/2) > 1e-12 {
			t.Errorf("cube vertex %d defect %g, want π/2", i, d)
		}
		sum += d
	}
	if math.Abs(sum-4*math.Pi) > 1e-9 {
		t.Errorf("total defect %g, want 4π", sum)
	}
}

func TestCloneIndependent(t *testing.T) {
	m := loadTetraNet(t)
	c := m.Clone()
	c.Vertices[0].X = 100
	c.Edges[0].Angle = 1
	c.Faces[0][0] = 5
	if m.Vertices[0].X == 100 || m.Edges[0].Angle == 1 || m.Faces[0][0] == 5 {
		t.Error("clone shares memory with original")
	}
	tris := m.Triangles()
	if len(tris) != 4 || tris[3].V[2] != m.Vertices[5] {
		t.Error("bad triangles")
	}
}
