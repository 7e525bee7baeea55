package fold

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

var _ traverse.Graph = (*faceGraph)(nil)

// faceGraph is the dual graph of a mesh. Faces are nodes joined by their
// internal edges. Neighbors are listed in edge order so traversals are
// deterministic.
type faceGraph struct {
	adj [][]hinge
}

type hinge struct {
	edge int // internal edge shared with face
	face int // neighboring face
}

// faceGraph builds the dual graph of m. It fails if an internal edge is not
// shared by two faces or if those faces are wound inconsistently.
func (m *Mesh) faceGraph() (*faceGraph, error) {
	g := &faceGraph{adj: make([][]hinge, len(m.Faces))}
	for i, e := range m.Edges {
		if e.External() {
			continue
		}
		faces := m.EdgeFaces(i)
		if len(faces) != 2 {
			return nil, fmt.Errorf("internal edge %d belongs to %d faces: %w", i, len(faces), ErrNotManifold)
		}
		if m.Faces[faces[0]].traverses(e.V[0], e.V[1]) == m.Faces[faces[1]].traverses(e.V[0], e.V[1]) {
			return nil, fmt.Errorf("faces %d and %d traverse edge %d in the same direction: %w", faces[0], faces[1], i, ErrWinding)
		}
		g.adj[faces[0]] = append(g.adj[faces[0]], hinge{edge: i, face: faces[1]})
		g.adj[faces[1]] = append(g.adj[faces[1]], hinge{edge: i, face: faces[0]})
	}
	return g, nil
}

func (g *faceGraph) From(id int64) graph.Nodes {
	hs := g.adj[id]
	nodes := make([]graph.Node, len(hs))
	for i, h := range hs {
		nodes[i] = simple.Node(h.face)
	}
	return iterator.NewOrderedNodes(nodes)
}

func (g *faceGraph) Edge(uid, vid int64) graph.Edge {
	for _, h := range g.adj[uid] {
		if int64(h.face) == vid {
			return hingeEdge{from: int(uid), hinge: h}
		}
	}
	return nil
}

// hingeEdge is a faceGraph edge going from face from to h.face.
type hingeEdge struct {
	from int
	hinge
}

func (e hingeEdge) From() graph.Node { return simple.Node(e.from) }
func (e hingeEdge) To() graph.Node   { return simple.Node(e.face) }

func (e hingeEdge) ReversedEdge() graph.Edge {
	return hingeEdge{from: e.face, hinge: hinge{edge: e.edge, face: e.from}}
}

// spanningTree is a breadth first spanning tree over faces joined by internal edges.
type spanningTree struct {
	order  []int   // faces in visiting order, root first
	parent []hinge // hinge to the parent face. Undefined for root.
	inTree []bool  // per edge, true for hinges of the tree
}

func (m *Mesh) spanningTree(root int) (*spanningTree, error) {
	g, err := m.faceGraph()
	if err != nil {
		return nil, err
	}
	t := &spanningTree{
		order:  make([]int, 1, len(m.Faces)),
		parent: make([]hinge, len(m.Faces)),
		inTree: make([]bool, len(m.Edges)),
	}
	t.order[0] = root
	reached := make([]bool, len(m.Faces))
	reached[root] = true
	bf := traverse.BreadthFirst{
		Traverse: func(e graph.Edge) bool {
			h := e.(hingeEdge)
			if !reached[h.face] {
				reached[h.face] = true
				t.parent[h.face] = hinge{edge: h.edge, face: h.from}
				t.inTree[h.edge] = true
				t.order = append(t.order, h.face)
			}
			return true
		},
	}
	bf.Walk(g, simple.Node(root), nil)
	if len(t.order) != len(m.Faces) {
		return nil, fmt.Errorf("%d of %d faces reachable from face %d: %w", len(t.order), len(m.Faces), root, ErrDisconnected)
	}
	return t, nil
}

// glueClasses returns for every vertex the smallest vertex index it meets
// once glued edges are joined, directly or through other glued vertices.
func glueClasses(nv int, glues []Glue) []int {
	g := simple.NewUndirectedGraph()
	for i := 0; i < nv; i++ {
		g.AddNode(simple.Node(i))
	}
	for _, gl := range glues {
		for _, pair := range gl.Vertices {
			if pair[0] != pair[1] {
				g.SetEdge(simple.Edge{F: simple.Node(pair[0]), T: simple.Node(pair[1])})
			}
		}
	}
	class := make([]int, nv)
	for _, cc := range topo.ConnectedComponents(g) {
		lo := nv
		for _, n := range cc {
			lo = min(lo, int(n.ID()))
		}
		for _, n := range cc {
			class[n.ID()] = lo
		}
	}
	return class
}
