package fold

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/fold/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Folded is the result of folding a net.
type Folded struct {
	// Mesh has the net's topology with vertices at their folded positions.
	// A vertex placed by more than one face takes the position of the face
	// closest to the root.
	Mesh *Mesh
	// Faces holds the folded corners of every face in face order.
	Faces [][3]r3.Vec
	// Spread is the largest distance between two placements of the same vertex.
	// It is non-zero when internal edges form loops whose fold angles disagree.
	Spread float64
	// Root is the face that was kept in place.
	Root int
}

// Fold folds a net along its internal edges. Face root stays in place and
// every other face is hinged about the internal edge that joins it to the
// face it was reached from, breadth first. A positive fold angle rotates the
// child face towards the side the parent face normal points to.
func Fold(net *Mesh, root int) (*Folded, error) {
	if root < 0 || root >= len(net.Faces) {
		return nil, fmt.Errorf("root face %d out of range [0,%d)", root, len(net.Faces))
	}
	tree, err := net.spanningTree(root)
	if err != nil {
		return nil, err
	}
	xf := make([]d3.Transform, len(net.Faces))
	for _, f := range tree.order[1:] {
		h := tree.parent[f]
		e := net.Edges[h.edge]
		p := net.Faces[h.face]
		a, b := net.Vertices[e.V[0]], net.Vertices[e.V[1]]
		hinge := foldHinge(a, b, net.Vertices[p.third(e)], net.FaceNormal(h.face), e.Angle)
		xf[f] = xf[h.face].Mul(hinge)
	}

	folded := &Folded{
		Mesh:  net.Clone(),
		Faces: make([][3]r3.Vec, len(net.Faces)),
		Root:  root,
	}
	placed := make([]bool, len(net.Vertices))
	for _, f := range tree.order {
		for k, vi := range net.Faces[f] {
			pos := xf[f].Transform(net.Vertices[vi])
			folded.Faces[f][k] = pos
			if !placed[vi] {
				placed[vi] = true
				folded.Mesh.Vertices[vi] = pos
				continue
			}
			folded.Spread = math.Max(folded.Spread, d3.Dist(pos, folded.Mesh.Vertices[vi]))
		}
	}
	return folded, nil
}

// foldHinge returns the rotation about edge ab by angle such that positive
// angles move points on the far side of the edge (away from the parent face's
// third vertex p) towards the side normal n points to.
func foldHinge(a, b, p, n r3.Vec, angle float64) d3.Transform {
	// A right handed rotation about b-a moves x with velocity (b-a)×(x-a).
	// Points across the edge from p move opposite to (b-a)×(p-a).
	if r3.Dot(r3.Cross(r3.Sub(b, a), r3.Sub(p, a)), n) > 0 {
		a, b = b, a
	}
	return d3.Hinge(a, b, angle)
}

// Gaps returns, for every glued edge pair of the net, the largest distance
// between vertices that should meet once the pair is glued.
func (f *Folded) Gaps() ([]float64, error) {
	glues, err := f.Mesh.GluePairs()
	if err != nil {
		return nil, err
	}
	gaps := make([]float64, len(glues))
	for i, g := range glues {
		for _, pair := range g.Vertices {
			gaps[i] = math.Max(gaps[i], d3.Dist(f.Mesh.Vertices[pair[0]], f.Mesh.Vertices[pair[1]]))
		}
	}
	return gaps, nil
}

// Closure returns the largest glue gap or vertex spread of the folded net.
// A closed, consistent fold has zero closure.
func (f *Folded) Closure() (float64, error) {
	gaps, err := f.Gaps()
	if err != nil {
		return 0, err
	}
	c := f.Spread
	for _, g := range gaps {
		c = math.Max(c, g)
	}
	return c, nil
}

// Glue joins the glued edges of the folded net. Vertices that meet are merged
// at their average position, glued edge pairs become a single internal edge
// with the fold angle of the resulting solid. Boundary edges are kept.
func (f *Folded) Glue() (*Mesh, error) {
	src := f.Mesh
	glues, err := src.GluePairs()
	if err != nil {
		return nil, err
	}
	class := glueClasses(len(src.Vertices), glues)
	// Average positions per merged vertex class.
	newIdx := make([]int, len(src.Vertices))
	classIdx := make(map[int]int)
	var sums []r3.Vec
	var counts []float64
	for vi, v := range src.Vertices {
		ni, ok := classIdx[class[vi]]
		if !ok {
			ni = len(sums)
			classIdx[class[vi]] = ni
			sums = append(sums, r3.Vec{})
			counts = append(counts, 0)
		}
		newIdx[vi] = ni
		sums[ni] = r3.Add(sums[ni], v)
		counts[ni]++
	}
	glued := &Mesh{Vertices: make([]r3.Vec, len(sums))}
	for i := range sums {
		glued.Vertices[i] = r3.Scale(1/counts[i], sums[i])
	}
	for i, face := range src.Faces {
		nf := Face{newIdx[face[0]], newIdx[face[1]], newIdx[face[2]]}
		if nf[0] == nf[1] || nf[1] == nf[2] || nf[2] == nf[0] {
			return nil, fmt.Errorf("face %d collapses when glued", i)
		}
		glued.Faces = append(glued.Faces, nf)
	}
	seen := make(map[[2]int]int)
	for _, e := range src.Edges {
		v := [2]int{newIdx[e.V[0]], newIdx[e.V[1]]}
		key := edgeKey(v[0], v[1])
		if j, ok := seen[key]; ok {
			// Second half of a glued pair closes the seam.
			glued.Edges[j].Match = Internal
			continue
		}
		match := Internal
		if e.External() {
			// Unmatched so far; glued partners are resolved when the second half arrives.
			match = Boundary
		}
		seen[key] = len(glued.Edges)
		glued.Edges = append(glued.Edges, Edge{V: v, Match: match, Angle: e.Angle})
	}
	// Seams get the fold angle of the solid they close.
	for i, e := range glued.Edges {
		if e.Match != Internal {
			continue
		}
		if len(glued.EdgeFaces(i)) != 2 {
			return nil, fmt.Errorf("glued edge %d-%d: %w", e.V[0], e.V[1], ErrNotManifold)
		}
		glued.Edges[i].Angle, err = glued.dihedral(i)
		if err != nil {
			return nil, err
		}
	}
	return glued, nil
}

var errNoDihedral = errors.New("dihedral angle requires an internal edge shared by two faces")
