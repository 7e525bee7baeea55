package d3

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestHinge(t *testing.T) {
	const tol = 1e-12
	for _, test := range []struct {
		a, b  r3.Vec
		angle float64
		in    r3.Vec
		want  r3.Vec
	}{
		{a: r3.Vec{}, b: r3.Vec{X: 1}, angle: math.Pi / 2, in: r3.Vec{Y: 1}, want: r3.Vec{Z: 1}},
		{a: r3.Vec{}, b: r3.Vec{X: 1}, angle: -math.Pi / 2, in: r3.Vec{Y: 1}, want: r3.Vec{Z: -1}},
		{a: r3.Vec{}, b: r3.Vec{Z: 2}, angle: math.Pi, in: r3.Vec{X: 1, Z: 5}, want: r3.Vec{X: -1, Z: 5}},
		// Axis off the origin: points on the axis stay put.
		{a: r3.Vec{X: 1, Y: 1}, b: r3.Vec{X: 1, Y: 1, Z: 1}, angle: 1.3, in: r3.Vec{X: 1, Y: 1, Z: -4}, want: r3.Vec{X: 1, Y: 1, Z: -4}},
		{a: r3.Vec{X: 1, Y: 1}, b: r3.Vec{X: 1, Y: 1, Z: 1}, angle: math.Pi / 2, in: r3.Vec{X: 2, Y: 1}, want: r3.Vec{X: 1, Y: 2}},
		{a: r3.Vec{}, b: r3.Vec{X: 1}, angle: 0, in: r3.Vec{X: 3, Y: 2, Z: 1}, want: r3.Vec{X: 3, Y: 2, Z: 1}},
	} {
		got := Hinge(test.a, test.b, test.angle).Transform(test.in)
		if !EqualWithin(got, test.want, tol) {
			t.Errorf("hinge %v->%v by %g of %v: got %v, want %v", test.a, test.b, test.angle, test.in, got, test.want)
		}
	}
}

func TestHingeCompose(t *testing.T) {
	a, b := r3.Vec{X: -1, Y: 2, Z: 0.5}, r3.Vec{X: 3, Y: -1, Z: 2}
	h1 := Hinge(a, b, 0.4)
	h2 := Hinge(a, b, 0.7)
	want := Hinge(a, b, 1.1)
	if got := h1.Mul(h2); !got.equals(want, 1e-12) {
		t.Errorf("composed hinge rotations mismatch: got %v, want %v", got, want)
	}
}

func TestFrameRigid(t *testing.T) {
	a := r3.Vec{X: 1, Y: 2, Z: 3}
	b := r3.Vec{X: 4, Y: 2, Z: 3}
	c := r3.Vec{X: 1, Y: 5, Z: 7}
	f := Frame(a, b, c)
	if got := f.Transform(r3.Vec{}); !EqualWithin(got, a, 1e-12) {
		t.Errorf("frame origin: got %v, want %v", got, a)
	}
	if got := f.Transform(r3.Vec{X: 3}); !EqualWithin(got, b, 1e-12) {
		t.Errorf("frame x axis: got %v, want %v", got, b)
	}
	inv := f.Rigid()
	if !inv.Mul(f).equals(Transform{}, 1e-12) {
		t.Error("rigid inverse times frame is not identity")
	}
	local := inv.Transform(c)
	if math.Abs(local.Z) > 1e-12 {
		t.Errorf("third triangle vertex out of frame plane: %v", local)
	}
	if local.Y <= 0 {
		t.Errorf("third triangle vertex should lie on +Y side of frame: %v", local)
	}
}

func TestTransformIdentity(t *testing.T) {
	v := r3.Vec{X: 1, Y: -2, Z: 3}
	if got := (Transform{}).Transform(v); got != v {
		t.Errorf("zero transform is not identity: got %v", got)
	}
	id := ComposeTransform(r3.Vec{}, Elem(1), r3.Rotation{Real: 1})
	if !id.equals(Transform{}, 1e-15) {
		t.Error("composed identity does not equal zero transform")
	}
}
