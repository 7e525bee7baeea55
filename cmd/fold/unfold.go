package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/soypat/fold"
	"github.com/soypat/fold/draw"
	"github.com/soypat/fold/render"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var unfoldFlags struct {
	root   int
	weld   float64
	out    string
	plot   string
	strict bool
}

var unfoldCmd = &cobra.Command{
	Use:   "unfold MODEL",
	Short: "Unfold a 3D model into a flat net",
	Long: `Cut a 3D model along a spanning tree of its faces and lay it
flat. MODEL is a binary STL file, whose vertices are welded first,
or a mesh file. Overlapping faces are reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := unfoldFlags
		model, err := loadModel(args[0], f.weld)
		if err != nil {
			return err
		}
		log.Debug().Int("vertices", len(model.Vertices)).Int("edges", len(model.Edges)).Int("faces", len(model.Faces)).Msg("model loaded")
		net, err := fold.Unfold(model, f.root)
		if err != nil {
			return err
		}
		overlaps := fold.Overlaps(net)
		for _, o := range overlaps {
			log.Warn().Ints("faces", o[:]).Msg("overlap")
		}
		if f.out != "" {
			if err := fold.SaveMesh(f.out, net); err != nil {
				return err
			}
			log.Info().Str("path", f.out).Int("faces", len(net.Faces)).Msg("wrote net")
		}
		if f.plot != "" {
			p, err := draw.Net(net, nil, draw.Config{Title: args[0]})
			if err != nil {
				return err
			}
			if err := draw.Save(p, f.plot, 15*vg.Centimeter, 15*vg.Centimeter); err != nil {
				return err
			}
		}
		if f.strict && len(overlaps) > 0 {
			return fmt.Errorf("%d face pairs: %w", len(overlaps), errOverlap)
		}
		return nil
	},
}

func init() {
	fl := unfoldCmd.Flags()
	fl.IntVar(&unfoldFlags.root, "root", 0, "face laid on the origin")
	fl.Float64Var(&unfoldFlags.weld, "weld", 1e-6, "STL vertex weld distance")
	fl.StringVarP(&unfoldFlags.out, "out", "o", "", "write net YAML")
	fl.StringVar(&unfoldFlags.plot, "plot", "", "write net plot")
	fl.BoolVar(&unfoldFlags.strict, "strict", false, "fail if net faces overlap")
	rootCmd.AddCommand(unfoldCmd)
}

var errOverlap = errors.New("net faces overlap")

// loadModel reads a mesh file or welds an STL file into a mesh.
func loadModel(path string, weld float64) (*fold.Mesh, error) {
	if !strings.EqualFold(filepath.Ext(path), ".stl") {
		return fold.LoadMesh(path)
	}
	tris, err := render.LoadSTL(path)
	if errors.Is(err, render.ErrNormalMismatch) {
		log.Warn().Err(err).Msg("ignoring stored normals")
	} else if err != nil {
		return nil, err
	}
	return fold.FromTriangles(tris, weld)
}
