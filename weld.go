package fold

import (
	"errors"
	"fmt"

	"github.com/soypat/fold/render"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ kdtree.Comparable = weldPoint{}

// FromTriangles builds an indexed mesh from a triangle soup such as an STL
// model. Vertices closer than tol are welded into one. Sides shared by two
// triangles become internal edges carrying their dihedral fold angle and
// unshared sides become boundary edges. Triangles that collapse after
// welding are dropped and flipped triangles are turned over to agree with
// their neighbors.
func FromTriangles(model []render.Triangle3, tol float64) (*Mesh, error) {
	if len(model) == 0 {
		return nil, errors.New("empty triangle slice")
	}
	if tol < 0 {
		return nil, errors.New("negative weld tolerance")
	}
	var tree kdtree.Tree
	m := &Mesh{}
	weld := func(v r3.Vec) int {
		q := weldPoint{p: v}
		got, dist2 := tree.Nearest(q)
		if got != nil && dist2 <= tol*tol {
			return got.(weldPoint).idx
		}
		q.idx = len(m.Vertices)
		m.Vertices = append(m.Vertices, v)
		tree.Insert(q, false)
		return q.idx
	}
	for _, t := range model {
		f := Face{weld(t.V[0]), weld(t.V[1]), weld(t.V[2])}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		m.Faces = append(m.Faces, f)
	}
	if len(m.Faces) == 0 {
		return nil, errors.New("all triangles collapsed when welded")
	}
	sides := make(map[[2]int][]int) // faces per side
	var order [][2]int
	for fi, f := range m.Faces {
		for k := 0; k < 3; k++ {
			key := edgeKey(f[k], f[(k+1)%3])
			if sides[key] == nil {
				order = append(order, key)
			}
			sides[key] = append(sides[key], fi)
		}
	}
	g := &faceGraph{adj: make([][]hinge, len(m.Faces))}
	for _, key := range order {
		faces := sides[key]
		switch len(faces) {
		case 1:
			m.Edges = append(m.Edges, Edge{V: key, Match: Boundary})
		case 2:
			g.adj[faces[0]] = append(g.adj[faces[0]], hinge{edge: len(m.Edges), face: faces[1]})
			g.adj[faces[1]] = append(g.adj[faces[1]], hinge{edge: len(m.Edges), face: faces[0]})
			m.Edges = append(m.Edges, Edge{V: key, Match: Internal})
		default:
			return nil, fmt.Errorf("edge %v shared by %d triangles: %w", key, len(faces), ErrNotManifold)
		}
	}
	if err := m.orient(g); err != nil {
		return nil, err
	}
	if err := m.SetDihedral(); err != nil {
		return nil, err
	}
	return m, nil
}

// orient turns faces over so that every internal edge is traversed in
// opposite directions by its two faces. Each connected patch keeps the
// winding of the majority of its faces. Patches that can not be oriented,
// such as a Möbius strip, are an error.
func (m *Mesh) orient(g *faceGraph) error {
	flip := make([]bool, len(m.Faces))
	done := make([]bool, len(m.Faces))
	for start := range m.Faces {
		if done[start] {
			continue
		}
		done[start] = true
		patch := []int{start}
		var bad *hingeEdge
		bf := traverse.BreadthFirst{
			Traverse: func(e graph.Edge) bool {
				h := e.(hingeEdge)
				v := m.Edges[h.edge].V
				// Flip h.face so that, after flipping, both faces cross v in opposite directions.
				need := (m.Faces[h.from].traverses(v[0], v[1]) != flip[h.from]) == m.Faces[h.face].traverses(v[0], v[1])
				switch {
				case !done[h.face]:
					done[h.face] = true
					flip[h.face] = need
					patch = append(patch, h.face)
				case flip[h.face] != need && bad == nil:
					bad = &h
				}
				return true
			},
		}
		bf.Walk(g, simple.Node(start), nil)
		if bad != nil {
			return fmt.Errorf("faces %d and %d can not agree on edge %d: %w", bad.from, bad.face, bad.edge, ErrWinding)
		}
		flipped := 0
		for _, f := range patch {
			if flip[f] {
				flipped++
			}
		}
		if 2*flipped > len(patch) {
			for _, f := range patch {
				flip[f] = !flip[f]
			}
		}
	}
	for i := range m.Faces {
		if flip[i] {
			m.Faces[i][1], m.Faces[i][2] = m.Faces[i][2], m.Faces[i][1]
		}
	}
	return nil
}

// weldPoint is a mesh vertex stored in a kd-tree.
type weldPoint struct {
	p   r3.Vec
	idx int
}

func (a weldPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	b := c.(weldPoint)
	switch d {
	case 0:
		return a.p.X - b.p.X
	case 1:
		return a.p.Y - b.p.Y
	case 2:
		return a.p.Z - b.p.Z
	}
	panic("illegal dimension")
}

func (a weldPoint) Dims() int { return 3 }

func (a weldPoint) Distance(c kdtree.Comparable) float64 {
	b := c.(weldPoint)
	return r3.Norm2(r3.Sub(a.p, b.p))
}
