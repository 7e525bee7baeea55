package fold

import (
	"math"
	"testing"

	"github.com/soypat/fold/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestUnfoldRefold(t *testing.T) {
	for _, test := range []struct {
		name string
		tol  float64
		tris func() *Mesh
	}{
		{name: "tetrahedron", tris: func() *Mesh { return mustWeld(t, tetraTriangles()) }},
		{name: "cube", tris: func() *Mesh { return mustWeld(t, cubeTriangles()) }},
	} {
		solid := test.tris()
		for root := range solid.Faces {
			net, err := Unfold(solid, root)
			if err != nil {
				t.Fatalf("%s root %d: %v", test.name, root, err)
			}
			if err := net.Validate(); err != nil {
				t.Fatalf("%s root %d: unfolded net invalid: %v", test.name, root, err)
			}
			if len(net.Faces) != len(solid.Faces) {
				t.Fatalf("%s root %d: %d faces, want %d", test.name, root, len(net.Faces), len(solid.Faces))
			}
			for i, v := range net.Vertices {
				if v.Z != 0 {
					t.Errorf("%s root %d: net vertex %d off plane: %v", test.name, root, i, v)
				}
			}
			if n := net.FaceNormal(root); !d3.EqualWithin(n, r3.Vec{Z: 1}, 1e-12) {
				t.Errorf("%s root %d: root normal %v, want +Z", test.name, root, n)
			}
			// Faces keep their shape.
			want := solid.CornerAngles()
			for i, got := range net.CornerAngles() {
				for k := range got {
					if math.Abs(got[k]-want[i][k]) > 1e-9 {
						t.Errorf("%s root %d: face %d corner %d angle %g, want %g", test.name, root, i, k, got[k], want[i][k])
					}
				}
			}

			folded, err := Fold(net, root)
			if err != nil {
				t.Fatal(err)
			}
			c, err := folded.Closure()
			if err != nil {
				t.Fatal(err)
			}
			if c > 1e-9 {
				t.Errorf("%s root %d: refolded closure %g", test.name, root, c)
			}
			glued, err := folded.Glue()
			if err != nil {
				t.Fatalf("%s root %d: %v", test.name, root, err)
			}
			if len(glued.Vertices) != len(solid.Vertices) || len(glued.Edges) != len(solid.Edges) {
				t.Errorf("%s root %d: glued solid has %d vertices and %d edges, want %d and %d", test.name, root,
					len(glued.Vertices), len(glued.Edges), len(solid.Vertices), len(solid.Edges))
			}
			if err := glued.Validate(); err != nil {
				t.Errorf("%s root %d: %v", test.name, root, err)
			}
		}
	}
}

func TestUnfoldTetraAngles(t *testing.T) {
	solid := mustWeld(t, tetraTriangles())
	net, err := Unfold(solid, 0)
	if err != nil {
		t.Fatal(err)
	}
	var internal, glued int
	for _, e := range net.Edges {
		switch {
		case e.Glued():
			glued++
		case !e.External():
			internal++
			if math.Abs(math.Abs(e.Angle)-tetraAngle) > 1e-9 {
				t.Errorf("internal edge angle %g, want ±%g", e.Angle, tetraAngle)
			}
		default:
			t.Errorf("unexpected boundary edge in the net of a closed solid")
		}
	}
	if internal != 3 || glued != 6 {
		t.Errorf("got %d internal and %d glued edges, want 3 and 6", internal, glued)
	}
	if o := Overlaps(net); len(o) != 0 {
		t.Errorf("tetrahedron net overlaps: %v", o)
	}
	if _, err := Unfold(net, 0); err == nil {
		t.Error("expected error unfolding a net with glued edges")
	}
}

func TestOverlaps(t *testing.T) {
	m := &Mesh{
		Vertices: []r3.Vec{{X: 0}, {X: 2}, {Y: 2}, {X: 1, Y: 1.5}, {X: 1, Y: -1}},
		Faces:    []Face{{0, 1, 2}, {0, 1, 3}, {1, 0, 4}},
	}
	got := Overlaps(m)
	if len(got) != 1 || got[0] != [2]int{0, 1} {
		t.Errorf("got overlaps %v, want [[0 1]]", got)
	}
	if o := Overlaps(loadTetraNet(t)); len(o) != 0 {
		t.Errorf("tetrahedron net overlaps: %v", o)
	}
}
