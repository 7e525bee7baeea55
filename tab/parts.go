package tab

import (
	"fmt"

	"github.com/soypat/fold/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Part is a box of the template. The box spans [0, Size] and is placed by
// translating it by Offset, rotating it by Angle about +Y and translating the
// result by Position, the way OpenSCAD composes translate, rotate and cube.
type Part struct {
	Name     string
	Size     r3.Vec
	Offset   r3.Vec
	Angle    float64 // radians, right hand rule about +Y.
	Position r3.Vec
	// Cut parts are subtracted from the template.
	Cut bool
}

// Transform returns the placement of the part's box.
func (p Part) Transform() d3.Transform {
	var t d3.Transform
	rot := t
	if p.Angle != 0 {
		rot = d3.ComposeTransform(r3.Vec{}, d3.Elem(1), r3.NewRotation(p.Angle, r3.Vec{Y: 1}))
	}
	return t.Translate(p.Position).Mul(rot).Mul(t.Translate(p.Offset))
}

// Corners returns the eight placed corners of the part.
func (p Part) Corners() [8]r3.Vec {
	t := p.Transform()
	var c [8]r3.Vec
	for i := range c {
		v := r3.Vec{}
		if i&1 != 0 {
			v.X = p.Size.X
		}
		if i&2 != 0 {
			v.Y = p.Size.Y
		}
		if i&4 != 0 {
			v.Z = p.Size.Z
		}
		c[i] = t.Transform(v)
	}
	return c
}

// Bounds returns the axis aligned bounding box of the placed part.
func (p Part) Bounds() d3.Box {
	c := p.Corners()
	return d3.Set(c[:]).Bounds()
}

// Parts lists the boxes that make up the template described by p.
// The centerline lies on z in [0, ShellThickness] with x in [0, CenterWidth].
// Left tabs hinge about the line x=0 and right tabs about x=CenterWidth,
// both on the bottom face of the centerline. Folded tabs hang below it and
// are rotated by minus their angle about +Y.
func Parts(p Params) []Part {
	var (
		L     = p.TabLength
		reach = p.TabLength + p.WallThickness
		pitch = p.TabLength + p.TabGap
		tab   = r3.Vec{X: reach, Y: L, Z: p.TabThickness}
	)
	parts := []Part{{
		Name: "centerline",
		Size: r3.Vec{X: p.CenterWidth, Y: float64(p.Count)*L + float64(p.Count-1)*p.TabGap, Z: p.ShellThickness},
	}}
	for _, side := range []struct {
		name  string
		s     Side
		flatX float64 // x of the flat tab corner.
		hinge float64 // x of the fold line.
		reach float64 // x offset of the folded box from its hinge.
	}{
		{name: "left", s: p.Left, flatX: -reach, hinge: 0, reach: -reach},
		{name: "right", s: p.Right, flatX: p.CenterWidth, hinge: p.CenterWidth, reach: 0},
	} {
		if side.s.Flat {
			for i := 0; i < p.Count; i++ {
				parts = append(parts, Part{
					Name:     fmt.Sprintf("%s flat %d", side.name, i),
					Size:     tab,
					Position: r3.Vec{X: side.flatX, Y: float64(i) * pitch},
				})
			}
		}
		for i, a := range side.s.Angles {
			parts = append(parts, Part{
				Name:     fmt.Sprintf("%s fold %d", side.name, i),
				Size:     tab,
				Offset:   r3.Vec{X: side.reach, Z: -p.TabThickness},
				Angle:    -a,
				Position: r3.Vec{X: side.hinge, Y: float64(i) * pitch},
			})
		}
	}
	if p.SlotWidth > 0 {
		w, l := p.slotSize()
		// Cuts overshoot the shell so the difference leaves no skin.
		const overshoot = 0.01
		for i := 0; i < p.Count; i++ {
			parts = append(parts, Part{
				Name: fmt.Sprintf("slot %d", i),
				Size: r3.Vec{X: w, Y: l, Z: p.ShellThickness + 2*overshoot},
				Position: r3.Vec{
					X: (p.CenterWidth - w) / 2,
					Y: float64(i)*pitch + (L-l)/2,
					Z: -overshoot,
				},
				Cut: true,
			})
		}
	}
	return parts
}
