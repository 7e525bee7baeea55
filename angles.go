package fold

import (
	"fmt"
	"math"

	"github.com/soypat/fold/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Dihedral returns the fold angle of every internal edge of m, indexed like
// m.Edges. External edges get NaN. The angle is the one Fold would need to
// bring the two faces of an edge from coplanar to their current position,
// so faces must be wound consistently. Coplanar faces yield zero.
func (m *Mesh) Dihedral() ([]float64, error) {
	angles := make([]float64, len(m.Edges))
	for i, e := range m.Edges {
		if e.External() {
			angles[i] = math.NaN()
			continue
		}
		a, err := m.dihedral(i)
		if err != nil {
			return nil, err
		}
		angles[i] = a
	}
	return angles, nil
}

// dihedral returns the signed fold angle between the two faces of edge e.
// It is positive when the second face lies on the normal side of the first.
func (m *Mesh) dihedral(e int) (float64, error) {
	faces := m.EdgeFaces(e)
	if len(faces) != 2 {
		return 0, fmt.Errorf("edge %d belongs to %d faces: %w", e, len(faces), errNoDihedral)
	}
	n1 := m.FaceNormal(faces[0])
	n2 := m.FaceNormal(faces[1])
	edge := m.Edges[e]
	a := m.Vertices[edge.V[0]]
	c2 := m.Vertices[m.Faces[faces[1]].third(edge)]
	angle := d3.Angle(n1, n2)
	if r3.Dot(r3.Sub(c2, a), n1) < 0 {
		angle = -angle
	}
	return angle, nil
}

// SetDihedral stores the current dihedral angles of m into its internal edges.
func (m *Mesh) SetDihedral() error {
	angles, err := m.Dihedral()
	if err != nil {
		return err
	}
	for i := range m.Edges {
		if !m.Edges[i].External() {
			m.Edges[i].Angle = angles[i]
		}
	}
	return nil
}

// CornerAngles returns the interior angle at each corner of every face,
// in face vertex order.
func (m *Mesh) CornerAngles() [][3]float64 {
	angles := make([][3]float64, len(m.Faces))
	for i := range m.Faces {
		c := m.Corners(i)
		for k := 0; k < 3; k++ {
			prev, next := c[(k+2)%3], c[(k+1)%3]
			angles[i][k] = d3.Angle(r3.Sub(next, c[k]), r3.Sub(prev, c[k]))
		}
	}
	return angles
}

// Defects returns the angle defect of every vertex: 2π minus the sum of the
// corner angles meeting there. For a closed mesh the defects add up to 4π
// (Descartes) and a vertex of a convex solid has a positive defect.
// Vertices on no face have a defect of 2π.
func (m *Mesh) Defects() []float64 {
	defects := make([]float64, len(m.Vertices))
	for i := range defects {
		defects[i] = 2 * math.Pi
	}
	for i, corner := range m.CornerAngles() {
		for k, vi := range m.Faces[i] {
			defects[vi] -= corner[k]
		}
	}
	return defects
}
