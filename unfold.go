package fold

import (
	"fmt"
	"math"

	"github.com/soypat/fold/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Unfold cuts a 3D mesh along a breadth first spanning tree of its faces
// and lays it flat on the z=0 plane with face root at the origin, its first
// edge along +X and its normal along +Z. Tree edges become internal edges
// carrying the fold angle that refolds them, every other shared edge is cut
// into a pair of glued external edges and free edges stay boundary edges.
// Faces keep their winding so Fold(net, root) reproduces m up to a rigid motion.
func Unfold(m *Mesh, root int) (*Mesh, error) {
	if root < 0 || root >= len(m.Faces) {
		return nil, fmt.Errorf("root face %d out of range [0,%d)", root, len(m.Faces))
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	for i, e := range m.Edges {
		if e.Glued() {
			return nil, fmt.Errorf("edge %d is glued, unfold expects a mesh without seams: %w", i, ErrBadMatch)
		}
	}
	tree, err := m.spanningTree(root)
	if err != nil {
		return nil, err
	}
	angles, err := m.Dihedral()
	if err != nil {
		return nil, err
	}
	edgeIdx := make(map[[2]int]int, len(m.Edges))
	for i, e := range m.Edges {
		edgeIdx[edgeKey(e.V[0], e.V[1])] = i
	}

	// toNet maps each face from world coordinates onto the net plane.
	toNet := make([]d3.Transform, len(m.Faces))
	rc := m.Corners(root)
	toNet[root] = d3.Frame(rc[0], rc[1], rc[2]).Rigid()

	net := &Mesh{Faces: make([]Face, len(m.Faces))}
	addVertex := func(v r3.Vec) int {
		// Flatten residual numerical noise off the net plane.
		v.Z = 0
		net.Vertices = append(net.Vertices, v)
		return len(net.Vertices) - 1
	}
	for k, vi := range m.Faces[root] {
		net.Faces[root][k] = addVertex(toNet[root].Transform(m.Vertices[vi]))
	}
	for _, f := range tree.order[1:] {
		h := tree.parent[f]
		e := m.Edges[h.edge]
		parent := m.Faces[h.face]
		a, b := m.Vertices[e.V[0]], m.Vertices[e.V[1]]
		flatten := foldHinge(a, b, m.Vertices[parent.third(e)], m.FaceNormal(h.face), -angles[h.edge])
		toNet[f] = toNet[h.face].Mul(flatten)
		for k, vi := range m.Faces[f] {
			if vi == e.V[0] || vi == e.V[1] {
				// Hinge vertices are shared with the parent face.
				net.Faces[f][k] = net.Faces[h.face][indexOf(parent, vi)]
				continue
			}
			net.Faces[f][k] = addVertex(toNet[f].Transform(m.Vertices[vi]))
		}
	}

	netEdge := make(map[[2]int]int)
	cuts := make(map[int]int) // world edge -> first net copy
	for f, face := range m.Faces {
		for k := 0; k < 3; k++ {
			we := edgeIdx[edgeKey(face[k], face[(k+1)%3])]
			nv := [2]int{net.Faces[f][k], net.Faces[f][(k+1)%3]}
			key := edgeKey(nv[0], nv[1])
			if _, ok := netEdge[key]; ok {
				continue // hinge already added by the other face.
			}
			netEdge[key] = len(net.Edges)
			switch {
			case tree.inTree[we]:
				net.Edges = append(net.Edges, Edge{V: nv, Match: Internal, Angle: angles[we]})
			case m.Edges[we].External():
				net.Edges = append(net.Edges, Edge{V: nv, Match: Boundary})
			default:
				other, ok := cuts[we]
				if !ok {
					cuts[we] = len(net.Edges)
					net.Edges = append(net.Edges, Edge{V: nv, Match: Boundary})
					continue
				}
				net.Edges[other].Match = len(net.Edges)
				net.Edges = append(net.Edges, Edge{V: nv, Match: other})
			}
		}
	}
	return net, nil
}

func indexOf(f Face, v int) int {
	for k := range f {
		if f[k] == v {
			return k
		}
	}
	panic("vertex not in face")
}

// Overlaps returns pairs of faces of a flat net whose triangles overlap when
// laid out on the plane of face 0. Faces that only touch along an edge or at
// a vertex do not overlap. Overlapping nets can not be cut from one sheet.
func Overlaps(net *Mesh) [][2]int {
	if len(net.Faces) == 0 {
		return nil
	}
	c := net.Corners(0)
	toPlane := d3.Frame(c[0], c[1], c[2]).Rigid()
	flat := make([][3]r2.Vec, len(net.Faces))
	var size float64
	for i := range net.Faces {
		for k, v := range net.Corners(i) {
			p := toPlane.Transform(v)
			flat[i][k] = r2.Vec{X: p.X, Y: p.Y}
			size = math.Max(size, math.Max(math.Abs(p.X), math.Abs(p.Y)))
		}
	}
	tol := 1e-9 * math.Max(size, 1)
	var overlaps [][2]int
	for i := range flat {
		for j := i + 1; j < len(flat); j++ {
			if trianglesOverlap(flat[i], flat[j], tol) {
				overlaps = append(overlaps, [2]int{i, j})
			}
		}
	}
	return overlaps
}

// trianglesOverlap reports whether the interiors of two triangles intersect
// using the separating axis theorem. Touching triangles are separated.
func trianglesOverlap(t1, t2 [3]r2.Vec, tol float64) bool {
	for _, tri := range [2][3]r2.Vec{t1, t2} {
		for k := 0; k < 3; k++ {
			edge := r2.Sub(tri[(k+1)%3], tri[k])
			axis := r2.Vec{X: -edge.Y, Y: edge.X}
			min1, max1 := project(t1, axis)
			min2, max2 := project(t2, axis)
			scale := r2.Norm(axis)
			if max1 <= min2+tol*scale || max2 <= min1+tol*scale {
				return false
			}
		}
	}
	return true
}

func project(t [3]r2.Vec, axis r2.Vec) (lo, hi float64) {
	lo = r2.Dot(t[0], axis)
	hi = lo
	for _, v := range t[1:] {
		d := r2.Dot(v, axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}
