// Package fold models papercraft nets: triangle meshes whose internal edges
// are folded by a dihedral angle and whose external edges are glued together
// at assembly time. It folds nets into 3D, unfolds 3D meshes into nets and
// solves the fold angles that close a net.
package fold

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/fold/internal/d3"
	"github.com/soypat/fold/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// Special values for Edge.Match.
const (
	// Internal marks an edge shared by two faces of the net. It is folded.
	Internal = -1
	// Boundary marks an external edge that is not glued to anything.
	Boundary = -2
)

var (
	// ErrNotManifold is returned when an edge is not shared by the number of faces its kind requires.
	ErrNotManifold = errors.New("non-manifold edge")
	// ErrDisconnected is returned when faces can not be reached through internal edges.
	ErrDisconnected = errors.New("faces not connected by internal edges")
	// ErrBadMatch is returned for glued edges whose match is invalid.
	ErrBadMatch = errors.New("bad glue match")
	// ErrWinding is returned when two faces sharing an internal edge traverse
	// it in the same direction, i.e. one of them is flipped.
	ErrWinding = errors.New("inconsistent face winding")
)

// Face is a triangle given by three vertex indices.
type Face [3]int

// Edge joins two vertices of a mesh.
type Edge struct {
	V [2]int
	// Match is Internal for fold edges, Boundary for free external edges
	// or the index of the external edge this edge is glued to.
	Match int
	// Angle is the fold angle of an internal edge in radians. Zero leaves
	// the adjacent faces coplanar. Positive angles fold towards the side the
	// root face normal points to.
	Angle float64
}

// External returns true if the edge lies on the border of the net.
func (e Edge) External() bool { return e.Match != Internal }

// Glued returns true if the edge is glued to another edge.
func (e Edge) Glued() bool { return e.Match >= 0 }

// Mesh is an indexed triangle mesh with explicit edges.
type Mesh struct {
	Vertices []r3.Vec
	Edges    []Edge
	Faces    []Face
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: append([]r3.Vec(nil), m.Vertices...),
		Edges:    append([]Edge(nil), m.Edges...),
		Faces:    append([]Face(nil), m.Faces...),
	}
}

// Corners returns the positions of the face's vertices.
func (m *Mesh) Corners(face int) [3]r3.Vec {
	f := m.Faces[face]
	return [3]r3.Vec{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// FaceNormal returns the unit normal of a face following the right hand
// rule over its winding.
func (m *Mesh) FaceNormal(face int) r3.Vec {
	return render.Triangle3{V: m.Corners(face)}.Normal()
}

// FaceCentroid returns the center of gravity of a face.
func (m *Mesh) FaceCentroid(face int) r3.Vec {
	c := m.Corners(face)
	return d3.Set(c[:]).Centroid()
}

// EdgeFaces returns the indices of faces containing both endpoints of edge e.
func (m *Mesh) EdgeFaces(e int) []int {
	v := m.Edges[e].V
	var faces []int
	for i, f := range m.Faces {
		if f.has(v[0]) && f.has(v[1]) {
			faces = append(faces, i)
		}
	}
	return faces
}

// Triangles returns the mesh faces as render triangles.
func (m *Mesh) Triangles() []render.Triangle3 {
	tris := make([]render.Triangle3, len(m.Faces))
	for i := range m.Faces {
		tris[i] = render.Triangle3{V: m.Corners(i)}
	}
	return tris
}

// Validate checks the mesh topology. A valid mesh has in-range indices,
// non-degenerate faces, internal edges shared by exactly two faces, external
// edges belonging to exactly one face and symmetric glue matches. The two
// faces of an internal edge must traverse it in opposite directions.
func (m *Mesh) Validate() error {
	nv := len(m.Vertices)
	if len(m.Faces) == 0 {
		return errors.New("mesh has no faces")
	}
	for i, v := range m.Vertices {
		if math.IsNaN(v.X+v.Y+v.Z) || math.IsInf(v.X+v.Y+v.Z, 0) {
			return fmt.Errorf("vertex %d is not finite: %v", i, v)
		}
	}
	for i, f := range m.Faces {
		for _, vi := range f {
			if vi < 0 || vi >= nv {
				return fmt.Errorf("face %d vertex index %d out of range [0,%d)", i, vi, nv)
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			return fmt.Errorf("face %d repeats a vertex: %v", i, f)
		}
		if m.FaceNormal(i) == (r3.Vec{}) {
			return fmt.Errorf("face %d is degenerate", i)
		}
	}
	seen := make(map[[2]int]int, len(m.Edges))
	for i, e := range m.Edges {
		if e.V[0] < 0 || e.V[0] >= nv || e.V[1] < 0 || e.V[1] >= nv {
			return fmt.Errorf("edge %d vertex index out of range [0,%d): %v", i, nv, e.V)
		}
		if e.V[0] == e.V[1] {
			return fmt.Errorf("edge %d joins vertex %d to itself", i, e.V[0])
		}
		key := edgeKey(e.V[0], e.V[1])
		if j, ok := seen[key]; ok {
			return fmt.Errorf("edges %d and %d join the same vertices %v", j, i, e.V)
		}
		seen[key] = i
		if math.IsNaN(e.Angle) || math.IsInf(e.Angle, 0) {
			return fmt.Errorf("edge %d fold angle not finite", i)
		}
		nf := len(m.EdgeFaces(i))
		switch {
		case e.Match < Boundary || e.Match >= len(m.Edges):
			return fmt.Errorf("edge %d match %d out of range: %w", i, e.Match, ErrBadMatch)
		case e.Match == Internal && nf != 2:
			return fmt.Errorf("internal edge %d belongs to %d faces: %w", i, nf, ErrNotManifold)
		case e.External() && nf != 1:
			return fmt.Errorf("external edge %d belongs to %d faces: %w", i, nf, ErrNotManifold)
		case e.Match == i:
			return fmt.Errorf("edge %d glued to itself: %w", i, ErrBadMatch)
		case e.Glued() && m.Edges[e.Match].Match != i:
			return fmt.Errorf("edge %d glued to %d which is glued to %d: %w", i, e.Match, m.Edges[e.Match].Match, ErrBadMatch)
		case e.Match == Internal:
			faces := m.EdgeFaces(i)
			f0, f1 := m.Faces[faces[0]], m.Faces[faces[1]]
			if f0.traverses(e.V[0], e.V[1]) == f1.traverses(e.V[0], e.V[1]) {
				return fmt.Errorf("faces %d and %d traverse edge %d in the same direction: %w", faces[0], faces[1], i, ErrWinding)
			}
		}
	}
	// Every face side must be a declared edge.
	for i, f := range m.Faces {
		for k := 0; k < 3; k++ {
			if _, ok := seen[edgeKey(f[k], f[(k+1)%3])]; !ok {
				return fmt.Errorf("face %d side %d-%d has no edge", i, f[k], f[(k+1)%3])
			}
		}
	}
	return nil
}

// Glue is a pair of vertices that are joined when two external edges are glued.
type Glue struct {
	Edges    [2]int // indices of the glued edges
	Vertices [2][2]int
}

// GluePairs returns the vertex correspondence of every glued edge pair, each
// pair reported once. Glued edges are traversed in opposite directions by the
// windings of their faces so the first vertex of one edge meets the last vertex
// of the other.
func (m *Mesh) GluePairs() ([]Glue, error) {
	var glues []Glue
	for i, e := range m.Edges {
		if !e.Glued() || e.Match < i {
			continue
		}
		a0, a1, err := m.wound(i)
		if err != nil {
			return nil, err
		}
		b0, b1, err := m.wound(e.Match)
		if err != nil {
			return nil, err
		}
		glues = append(glues, Glue{
			Edges:    [2]int{i, e.Match},
			Vertices: [2][2]int{{a0, b1}, {a1, b0}},
		})
	}
	return glues, nil
}

// wound returns the endpoints of external edge e in the order its face traverses them.
func (m *Mesh) wound(e int) (v0, v1 int, err error) {
	faces := m.EdgeFaces(e)
	if len(faces) != 1 {
		return 0, 0, fmt.Errorf("external edge %d belongs to %d faces: %w", e, len(faces), ErrNotManifold)
	}
	v := m.Edges[e].V
	if m.Faces[faces[0]].traverses(v[0], v[1]) {
		return v[0], v[1], nil
	}
	return v[1], v[0], nil
}

// third returns the vertex of face f that is not on edge e.
func (f Face) third(e Edge) int {
	for _, v := range f {
		if v != e.V[0] && v != e.V[1] {
			return v
		}
	}
	panic("face does not have a third vertex")
}

// traverses reports whether the winding of f goes from vertex a straight to b.
func (f Face) traverses(a, b int) bool {
	for k := 0; k < 3; k++ {
		if f[k] == a && f[(k+1)%3] == b {
			return true
		}
	}
	return false
}

func (f Face) has(v int) bool {
	return f[0] == v || f[1] == v || f[2] == v
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}
