package fold

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func TestMeshYAMLRoundTrip(t *testing.T) {
	m := loadTetraNet(t)
	m.Edges[4].Angle = -1.234
	var buf bytes.Buffer
	if err := WriteMesh(&buf, m); err != nil {
		t.Fatal(err)
	}
	got, err := ReadMesh(&buf, FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Vertices) != len(m.Vertices) || len(got.Edges) != len(m.Edges) || len(got.Faces) != len(m.Faces) {
		t.Fatal("mesh size changed")
	}
	for i := range m.Vertices {
		if got.Vertices[i] != m.Vertices[i] {
			t.Errorf("vertex %d: got %v, want %v", i, got.Vertices[i], m.Vertices[i])
		}
	}
	for i, e := range m.Edges {
		g := got.Edges[i]
		if g.V != e.V || g.Match != e.Match || math.Abs(g.Angle-e.Angle) > 1e-12 {
			t.Errorf("edge %d: got %+v, want %+v", i, g, e)
		}
	}
	for i := range m.Faces {
		if got.Faces[i] != m.Faces[i] {
			t.Errorf("face %d: got %v, want %v", i, got.Faces[i], m.Faces[i])
		}
	}

	path := filepath.Join(t.TempDir(), "net.yaml")
	if err := SaveMesh(path, m); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMesh(path); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMeshJSON5(t *testing.T) {
	m, err := LoadMesh("testdata/tetra_net.json5")
	if err != nil {
		t.Fatal(err)
	}
	want := loadTetraNet(t)
	for i, e := range m.Edges {
		if e.V != want.Edges[i].V || e.Match != want.Edges[i].Match {
			t.Errorf("edge %d: got %+v, want %+v", i, e, want.Edges[i])
		}
		if e.Angle != 0 {
			t.Errorf("edge %d: angle %g without one given", i, e.Angle)
		}
	}
}

func TestReadMeshErrors(t *testing.T) {
	for _, test := range []struct {
		name, format, data string
	}{
		{"unknown format", "xml", "<mesh/>"},
		{"bad yaml", FormatYAML, "vertices: [[0, 0"},
		{"short vertex", FormatYAML, "vertices: [[0, 0]]\nfaces: []\n"},
		{"fractional index", FormatYAML, "vertices: [[0,0,0],[1,0,0],[0,1,0]]\nedges: [[0.5,1,-2]]\nfaces: [[0,1,2]]\n"},
		{"long face", FormatJSON5, "{vertices: [[0,0,0],[1,0,0],[0,1,0]], faces: [[0,1,2,0]]}"},
		{"invalid topology", FormatJSON5, "{vertices: [[0,0,0],[1,0,0],[0,1,0]], edges: [[0,1,-1],[1,2,-2],[2,0,-2]], faces: [[0,1,2]]}"},
		{"empty", FormatYAML, "vertices: []\n"},
	} {
		if _, err := ReadMesh(strings.NewReader(test.data), test.format); err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}
}
