package fold

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/fold/internal/d3"
	"github.com/soypat/fold/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestFromTriangles(t *testing.T) {
	tris := tetraTriangles()
	// Jitter one copy of every vertex below the weld tolerance.
	tris[3].V[0].X += 1e-7
	tris[3].V[1].Y -= 1e-7
	m, err := FromTriangles(tris, 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 4 || len(m.Edges) != 6 || len(m.Faces) != 4 {
		t.Fatalf("welded tetrahedron has %d/%d/%d vertices/edges/faces", len(m.Vertices), len(m.Edges), len(m.Faces))
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	for i, e := range m.Edges {
		if e.External() {
			t.Errorf("edge %d is external", i)
		}
		// Outward facing normals fold away from each other.
		if math.Abs(e.Angle+tetraAngle) > 1e-6 {
			t.Errorf("edge %d angle %g, want %g", i, e.Angle, -tetraAngle)
		}
	}

	// Without a tolerance the jittered vertices stay apart and open the solid.
	m, err = FromTriangles(tris, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Vertices) != 6 {
		t.Errorf("got %d vertices, want 6", len(m.Vertices))
	}
	var boundary int
	for _, e := range m.Edges {
		if e.Match == Boundary {
			boundary++
		}
	}
	if boundary != 6 {
		t.Errorf("got %d boundary edges, want 6", boundary)
	}
}

func TestFromTrianglesErrors(t *testing.T) {
	if _, err := FromTriangles(nil, 0); err == nil {
		t.Error("expected error for empty model")
	}
	a, b, c, d := r3.Vec{}, r3.Vec{X: 1}, r3.Vec{Y: 1}, r3.Vec{Z: 1}
	fin := []render.Triangle3{
		{V: [3]r3.Vec{a, b, c}},
		{V: [3]r3.Vec{b, a, d}},
		{V: [3]r3.Vec{a, b, r3.Vec{Y: -1}}},
	}
	if _, err := FromTriangles(fin, 1e-9); !errors.Is(err, ErrNotManifold) {
		t.Errorf("got %v, want %v", err, ErrNotManifold)
	}
	collapsed := []render.Triangle3{{V: [3]r3.Vec{a, b, r3.Vec{X: 1e-12}}}}
	if _, err := FromTriangles(collapsed, 1e-9); err == nil {
		t.Error("expected error when every triangle collapses")
	}
}

func TestFromTrianglesOrient(t *testing.T) {
	want := cubeTriangles()
	for flipped := range want {
		tris := cubeTriangles()
		tri := &tris[flipped].V
		tri[1], tri[2] = tri[2], tri[1]
		m, err := FromTriangles(tris, 1e-9)
		if err != nil {
			t.Fatalf("triangle %d flipped: %v", flipped, err)
		}
		if err := m.Validate(); err != nil {
			t.Fatalf("triangle %d flipped: %v", flipped, err)
		}
		// The majority winding wins so every face points outwards again.
		for i, tri := range m.Triangles() {
			if n := tri.Normal(); !d3.EqualWithin(n, want[i].Normal(), 1e-12) {
				t.Errorf("triangle %d flipped: face %d normal %v, want %v", flipped, i, n, want[i].Normal())
			}
		}
		net, err := Unfold(m, 0)
		if err != nil {
			t.Fatalf("triangle %d flipped: %v", flipped, err)
		}
		folded, err := Fold(net, 0)
		if err != nil {
			t.Fatal(err)
		}
		if c, err := folded.Closure(); err != nil || c > 1e-9 {
			t.Errorf("triangle %d flipped: refolded closure %g (%v)", flipped, c, err)
		}
	}
}

func TestFromTrianglesMobius(t *testing.T) {
	var v [5]r3.Vec
	for i := range v {
		s, c := math.Sincos(2 * math.Pi * float64(i) / 5)
		v[i] = r3.Vec{X: c, Y: s}
	}
	var strip []render.Triangle3
	for i := range v {
		strip = append(strip, render.Triangle3{V: [3]r3.Vec{v[i], v[(i+1)%5], v[(i+2)%5]}})
	}
	if _, err := FromTriangles(strip, 1e-9); !errors.Is(err, ErrWinding) {
		t.Errorf("got %v, want %v", err, ErrWinding)
	}
}
