package view

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/fold/render"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/cmpimg"
)

func tetrahedron() []render.Triangle3 {
	a := r3.Vec{X: 1, Y: 1, Z: 1}
	b := r3.Vec{X: 1, Y: -1, Z: -1}
	c := r3.Vec{X: -1, Y: 1, Z: -1}
	d := r3.Vec{X: -1, Y: -1, Z: 1}
	return []render.Triangle3{
		{V: [3]r3.Vec{a, b, c}},
		{V: [3]r3.Vec{a, c, d}},
		{V: [3]r3.Vec{a, d, b}},
		{V: [3]r3.Vec{b, d, c}},
	}
}

func TestImageDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 160, 90
	var raw [2][]byte
	for i := range raw {
		img, err := Image(tetrahedron(), cfg)
		if err != nil {
			t.Fatal(err)
		}
		if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 90 {
			t.Fatalf("image size %v", b)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatal(err)
		}
		raw[i] = buf.Bytes()
		// The model is at the center of the view.
		r, g, bl, _ := img.At(80, 45).RGBA()
		bg := fauxgl.HexColor(cfg.Background)
		if r>>8 == uint32(bg.R*255+.5) && g>>8 == uint32(bg.G*255+.5) && bl>>8 == uint32(bg.B*255+.5) {
			t.Error("center pixel has the background color")
		}
	}
	ok, err := cmpimg.Equal("png", raw[0], raw[1])
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("repeated renders differ")
	}
}

func TestPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetra.png")
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Supersample = 64, 64, 1
	if err := PNG(path, tetrahedron(), cfg); err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	img, err := png.Decode(fp)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("width %d, want 64", img.Bounds().Dx())
	}
}

func TestImageErrors(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := Image(nil, cfg); err == nil {
		t.Error("expected error for empty model")
	}
	flat := []render.Triangle3{{V: [3]r3.Vec{{}, {X: 1}, {X: 2}}}}
	if _, err := Image(flat, cfg); err == nil {
		t.Error("expected error for degenerate model")
	}
	bad := cfg
	bad.Near = 0
	if _, err := Image(tetrahedron(), bad); err == nil {
		t.Error("expected error for bad frustum")
	}
	bad = cfg
	bad.Width = 0
	if _, err := Image(tetrahedron(), bad); err == nil {
		t.Error("expected error for empty image")
	}
}
