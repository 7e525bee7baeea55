package tab

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	sdfxrender "github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	"github.com/soypat/fold"
)

// Template returns the solid described by p: the union of its parts minus
// the slots.
func Template(p Params) (sdf.SDF3, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var solids, cuts []sdf.SDF3
	for _, part := range Parts(p) {
		s, err := part.sdf()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", part.Name, err)
		}
		if part.Cut {
			cuts = append(cuts, s)
		} else {
			solids = append(solids, s)
		}
	}
	s := sdf.Union3D(solids...)
	if len(cuts) > 0 {
		s = sdf.Difference3D(s, sdf.Union3D(cuts...))
	}
	if p.Compensate {
		s = p.Material.Scale(s)
	}
	return s, nil
}

// sdf returns the placed box of the part.
func (p Part) sdf() (sdf.SDF3, error) {
	size := sdf.V3{X: p.Size.X, Y: p.Size.Y, Z: p.Size.Z}
	box, err := sdf.Box3D(size, 0)
	if err != nil {
		return nil, err
	}
	// sdfx boxes are centered at the origin.
	m := sdf.Translate3d(sdf.V3{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z})
	if p.Angle != 0 {
		m = m.Mul(sdf.RotateY(p.Angle))
	}
	m = m.Mul(sdf.Translate3d(sdf.V3{X: p.Offset.X, Y: p.Offset.Y, Z: p.Offset.Z}.Add(size.MulScalar(0.5))))
	return sdf.Transform3D(box, m), nil
}

// RenderSTL writes the template described by p to an STL file. The longest
// side of the template is divided into meshCells marching cubes cells.
func RenderSTL(path string, p Params, meshCells int) error {
	if meshCells < 8 {
		return fmt.Errorf("too few mesh cells: %d", meshCells)
	}
	s, err := Template(p)
	if err != nil {
		return err
	}
	// sdfx reports write failures on stdout only so a stale file must not
	// pass for a fresh render.
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	renderFile(s, meshCells, path)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("rendered template: %w", err)
	}
	if info.Size() < stlHeaderSize+stlTriangleSize {
		return errors.New("rendered template has no triangles")
	}
	return nil
}

// renderFile meshes s into an STL file at path.
var renderFile = func(s sdf.SDF3, meshCells int, path string) {
	sdfxrender.ToSTL(s, meshCells, path, &sdfxrender.MarchingCubesOctree{})
}

// Binary STL layout.
const (
	stlHeaderSize   = 84
	stlTriangleSize = 50
)

// AnglesFromMesh returns the distinct fold angle magnitudes of the internal
// edges of m in ascending order, one folded tab per angle. Angles closer than
// tol are merged and coplanar edges are skipped.
func AnglesFromMesh(m *fold.Mesh, tol float64) []float64 {
	var angles []float64
	for _, e := range m.Edges {
		if e.External() {
			continue
		}
		a := math.Abs(e.Angle)
		if a <= tol {
			continue
		}
		angles = insertDistinct(angles, a, tol)
	}
	return angles
}

// insertDistinct inserts a into the sorted slice s unless s already has a
// value within tol of it.
func insertDistinct(s []float64, a, tol float64) []float64 {
	i := 0
	for i < len(s) && s[i] < a {
		i++
	}
	if (i < len(s) && s[i]-a <= tol) || (i > 0 && a-s[i-1] <= tol) {
		return s
	}
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = a
	return s
}
