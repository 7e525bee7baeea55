// Package view renders triangle models to images for a quick look at a fold.
package view

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/fold/internal/d3"
	"github.com/soypat/fold/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// Config sets up the camera and colors of a render.
type Config struct {
	Width, Height int
	// Supersample renders at a multiple of the output size and downsamples
	// the result for antialiasing.
	Supersample int
	// LookAt is the point the camera looks at.
	LookAt r3.Vec
	// Up is the up direction of the camera.
	Up r3.Vec
	// Eye is the camera position. The model is fit in a cube
	// spanning [-1, 1] centered at the origin before rendering.
	Eye       r3.Vec
	Near, Far float64
	// FOV is the vertical field of view in degrees.
	FOV               float64
	Color, Background string // hex colors
}

// DefaultConfig returns an isometric view of a tan colored model.
func DefaultConfig() Config {
	return Config{
		Width:       768,
		Height:      432,
		Supersample: 2,
		Up:          r3.Vec{Z: 1},
		Eye:         d3.Elem(2.4), // iso view.
		Near:        1,
		Far:         10,
		FOV:         30,
		Color:       "#D2B48C",
		Background:  "#FFF8E3",
	}
}

// Image renders model with a Phong shader.
func Image(model []render.Triangle3, cfg Config) (image.Image, error) {
	if len(model) == 0 {
		return nil, errors.New("no triangles to render")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("image size must be positive")
	}
	if cfg.Supersample < 1 {
		cfg.Supersample = 1
	}
	if !(cfg.Far > cfg.Near && cfg.Near > 0) || cfg.FOV <= 0 || cfg.FOV >= 180 {
		return nil, errors.New("bad camera frustum")
	}
	tris := make([]*fauxgl.Triangle, 0, len(model))
	for _, t := range model {
		if t.Normal() == (r3.Vec{}) {
			continue
		}
		tris = append(tris, fauxgl.NewTriangleForPoints(vec(t.V[0]), vec(t.V[1]), vec(t.V[2])))
	}
	if len(tris) == 0 {
		return nil, errors.New("all triangles are degenerate")
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()

	var (
		width  = cfg.Width * cfg.Supersample
		height = cfg.Height * cfg.Supersample
		eye    = vec(cfg.Eye)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize() // light direction
	)
	context := fauxgl.NewContext(width, height)
	context.ClearColorBufferWith(fauxgl.HexColor(cfg.Background))
	aspect := float64(cfg.Width) / float64(cfg.Height)
	matrix := fauxgl.LookAt(eye, vec(cfg.LookAt), vec(cfg.Up)).Perspective(cfg.FOV, aspect, cfg.Near, cfg.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(cfg.Color)
	context.Shader = shader
	// Paper has two sides; render back faces too.
	context.Cull = fauxgl.CullNone
	context.DrawMesh(mesh)
	img := context.Image()
	if cfg.Supersample > 1 {
		// downsample image for antialiasing
		img = resize.Resize(uint(cfg.Width), uint(cfg.Height), img, resize.Bilinear)
	}
	return img, nil
}

// PNG renders model to a PNG file.
func PNG(path string, model []render.Triangle3, cfg Config) error {
	img, err := Image(model, cfg)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func vec(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}
