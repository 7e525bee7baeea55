// Package draw plots papercraft nets with gonum/plot.
package draw

import (
	"errors"
	"image/color"
	"math"
	"strconv"

	"github.com/soypat/fold"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
)

var (
	flatColor   = color.RGBA{R: 200, A: 255}
	foldedColor = color.RGBA{B: 200, A: 255}
	edgeColor   = color.Gray{Y: 40}
)

// Config controls what Net draws.
type Config struct {
	Title string
	// Labels writes the vertex index next to every flat vertex.
	Labels bool
}

// Net plots the net viewed from +Z. Internal edges are dashed, boundary edges
// solid and each glued edge pair gets its own color. Net vertices are red.
// If folded is not nil its edges and vertices are drawn in blue projected on
// the XY plane.
func Net(net *fold.Mesh, folded *fold.Folded, cfg Config) (*plot.Plot, error) {
	if len(net.Vertices) == 0 {
		return nil, errors.New("empty net")
	}
	p := plot.New()
	p.Title.Text = cfg.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	glues, err := net.GluePairs()
	if err != nil {
		return nil, err
	}
	pairColor := make(map[int]color.Color, 2*len(glues))
	for i, g := range glues {
		c := plotutil.Color(i)
		pairColor[g.Edges[0]] = c
		pairColor[g.Edges[1]] = c
	}
	for i, e := range net.Edges {
		l, err := plotter.NewLine(segment(net, e))
		if err != nil {
			return nil, err
		}
		l.Width = vg.Points(1)
		l.Color = edgeColor
		switch {
		case !e.External():
			l.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		case e.Glued():
			l.Color = pairColor[i]
			l.Width = vg.Points(2)
		}
		p.Add(l)
	}
	flat, err := scatter(net.Vertices, flatColor)
	if err != nil {
		return nil, err
	}
	p.Add(flat)
	p.Legend.Add("net", flat)

	if folded != nil {
		for _, e := range folded.Mesh.Edges {
			l, err := plotter.NewLine(segment(folded.Mesh, e))
			if err != nil {
				return nil, err
			}
			l.Color = foldedColor
			l.Width = vg.Points(0.5)
			p.Add(l)
		}
		fv, err := scatter(folded.Mesh.Vertices, foldedColor)
		if err != nil {
			return nil, err
		}
		p.Add(fv)
		p.Legend.Add("folded", fv)
	}

	if cfg.Labels {
		lbl := plotter.XYLabels{XYs: make(plotter.XYs, len(net.Vertices)), Labels: make([]string, len(net.Vertices))}
		for i, v := range net.Vertices {
			lbl.XYs[i] = plotter.XY{X: v.X, Y: v.Y}
			lbl.Labels[i] = strconv.Itoa(i)
		}
		labels, err := plotter.NewLabels(lbl)
		if err != nil {
			return nil, err
		}
		p.Add(labels)
	}
	equalAxes(p)
	return p, nil
}

// Save writes the plot to path. The format is taken from the extension.
func Save(p *plot.Plot, path string, width, height vg.Length) error {
	return p.Save(width, height, path)
}

func segment(m *fold.Mesh, e fold.Edge) plotter.XYs {
	a, b := m.Vertices[e.V[0]], m.Vertices[e.V[1]]
	return plotter.XYs{{X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}}
}

func scatter(vertices []r3.Vec, c color.Color) (*plotter.Scatter, error) {
	xys := make(plotter.XYs, len(vertices))
	for i, v := range vertices {
		xys[i] = plotter.XY{X: v.X, Y: v.Y}
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	s.Color = c
	s.Shape = vgdraw.CircleGlyph{}
	s.Radius = vg.Points(2.5)
	return s, nil
}

// equalAxes widens the shorter axis so both span the same length.
func equalAxes(p *plot.Plot) {
	dx := p.X.Max - p.X.Min
	dy := p.Y.Max - p.Y.Min
	span := math.Max(dx, dy) * 1.05
	cx, cy := (p.X.Max+p.X.Min)/2, (p.Y.Max+p.Y.Min)/2
	p.X.Min, p.X.Max = cx-span/2, cx+span/2
	p.Y.Min, p.Y.Max = cy-span/2, cy+span/2
}
