package main

import (
	"github.com/rs/zerolog/log"
	"github.com/soypat/fold"
	"github.com/soypat/fold/draw"
	"github.com/soypat/fold/render"
	"github.com/soypat/fold/view"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var foldFlags struct {
	root      int
	stl, png  string
	plot      string
	out       string
	glue      bool
	width     int
	plotWidth float64
}

var foldCmd = &cobra.Command{
	Use:   "fold NET",
	Short: "Fold a net along its internal edges",
	Long: `Fold a net along its internal edges keeping the root face in
place and report how far apart the glued edges end up.

With --glue the glued edges are joined and the resulting solid
is written with --out, its STL with --stl and a preview with --png.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := foldFlags
		net, err := fold.LoadMesh(args[0])
		if err != nil {
			return err
		}
		folded, err := fold.Fold(net, f.root)
		if err != nil {
			return err
		}
		if err := logClosure(folded); err != nil {
			return err
		}
		model := folded.Mesh
		if f.glue {
			model, err = folded.Glue()
			if err != nil {
				return err
			}
			log.Info().Int("vertices", len(model.Vertices)).Int("edges", len(model.Edges)).Msg("glued")
		}
		if f.out != "" {
			if err := fold.SaveMesh(f.out, model); err != nil {
				return err
			}
			log.Info().Str("path", f.out).Msg("wrote mesh")
		}
		if f.stl != "" {
			if err := render.SaveSTL(f.stl, model.Triangles()); err != nil {
				return err
			}
			log.Info().Str("path", f.stl).Msg("wrote STL")
		}
		if f.png != "" {
			cfg := view.DefaultConfig()
			cfg.Width, cfg.Height = f.width, f.width*9/16
			if err := view.PNG(f.png, model.Triangles(), cfg); err != nil {
				return err
			}
			log.Info().Str("path", f.png).Msg("wrote preview")
		}
		if f.plot != "" {
			p, err := draw.Net(net, folded, draw.Config{Title: args[0], Labels: true})
			if err != nil {
				return err
			}
			size := vg.Length(f.plotWidth) * vg.Centimeter
			if err := draw.Save(p, f.plot, size, size); err != nil {
				return err
			}
			log.Info().Str("path", f.plot).Msg("wrote plot")
		}
		return nil
	},
}

func init() {
	fl := foldCmd.Flags()
	fl.IntVar(&foldFlags.root, "root", 0, "face kept in place")
	fl.BoolVar(&foldFlags.glue, "glue", false, "join glued edges into a solid")
	fl.StringVarP(&foldFlags.out, "out", "o", "", "write folded mesh YAML")
	fl.StringVar(&foldFlags.stl, "stl", "", "write folded model STL")
	fl.StringVar(&foldFlags.png, "png", "", "write folded model preview PNG")
	fl.IntVar(&foldFlags.width, "width", 768, "preview width in pixels")
	fl.StringVar(&foldFlags.plot, "plot", "", "write net plot, format from extension (png, svg, pdf)")
	fl.Float64Var(&foldFlags.plotWidth, "plot-size", 15, "net plot size in centimeters")
	rootCmd.AddCommand(foldCmd)
}

// logClosure logs the glue gaps of a folded net.
func logClosure(folded *fold.Folded) error {
	gaps, err := folded.Gaps()
	if err != nil {
		return err
	}
	glues, err := folded.Mesh.GluePairs()
	if err != nil {
		return err
	}
	for i, g := range glues {
		log.Debug().Ints("edges", g.Edges[:]).Float64("gap", gaps[i]).Msg("glue")
	}
	closure, err := folded.Closure()
	if err != nil {
		return err
	}
	ev := log.Info()
	if closure > 1e-6 {
		ev = log.Warn()
	}
	ev.Float64("closure", closure).Float64("spread", folded.Spread).Int("glued pairs", len(glues)).Msg("folded")
	if folded.Spread > 1e-6 {
		log.Warn().Msg("fold angles disagree around a loop of internal edges")
	}
	return nil
}
