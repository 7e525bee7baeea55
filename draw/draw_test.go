package draw

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/fold"
	"gonum.org/v1/plot/cmpimg"
	"gonum.org/v1/plot/vg"
)

func foldedTetraNet(t *testing.T) (*fold.Mesh, *fold.Folded) {
	t.Helper()
	net, err := fold.LoadMesh("../testdata/tetra_net.yaml")
	if err != nil {
		t.Fatal(err)
	}
	for i := range net.Edges {
		if !net.Edges[i].External() {
			net.Edges[i].Angle = math.Acos(-1. / 3)
		}
	}
	folded, err := fold.Fold(net, 0)
	if err != nil {
		t.Fatal(err)
	}
	return net, folded
}

func TestNetPlot(t *testing.T) {
	net, folded := foldedTetraNet(t)
	var raw [2][]byte
	for i := range raw {
		p, err := Net(net, folded, Config{Title: "tetrahedron", Labels: true})
		if err != nil {
			t.Fatal(err)
		}
		if w, h := p.X.Max-p.X.Min, p.Y.Max-p.Y.Min; math.Abs(w-h) > 1e-9 {
			t.Errorf("axes not equal: %g vs %g", w, h)
		}
		if p.X.Min > -2 || p.X.Max < 2 {
			t.Errorf("x axis [%g, %g] does not contain the net", p.X.Min, p.X.Max)
		}
		wt, err := p.WriterTo(8*vg.Centimeter, 8*vg.Centimeter, "png")
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if _, err := wt.WriteTo(&buf); err != nil {
			t.Fatal(err)
		}
		raw[i] = buf.Bytes()
	}
	ok, err := cmpimg.Equal("png", raw[0], raw[1])
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("repeated plots differ")
	}
}

func TestSave(t *testing.T) {
	net, _ := foldedTetraNet(t)
	p, err := Net(net, nil, Config{})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"net.png", "net.svg"} {
		path := filepath.Join(t.TempDir(), name)
		if err := Save(p, path, 10*vg.Centimeter, 10*vg.Centimeter); err != nil {
			t.Fatal(err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
	if _, err := Net(&fold.Mesh{}, nil, Config{}); err == nil {
		t.Error("expected error for empty net")
	}
}
