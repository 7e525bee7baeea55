package main

import (
	"context"
	"errors"
	"math"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/soypat/fold"
	"github.com/soypat/fold/tab"
	"github.com/spf13/cobra"
)

var tabsFlags struct {
	params   string
	fromMesh string
	stl      string
	scad     string
	openscad string
	compile  bool
	cells    int
}

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "Build a tab-and-slot test template",
	Long: `Build a centerline strip with flat and folded tabs to test how
printed tabs bend. Parameters come from a TOML file (--params) or
the defaults. --from-mesh replaces the left folded tab angles with
the distinct fold angles of a net.

The template is rendered with sdfx (--stl) or written as an
OpenSCAD script (--scad) and optionally compiled with openscad
(--scad and --stl with --compile).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := tabsFlags
		p := tab.DefaultParams()
		var err error
		if f.params != "" {
			p, err = tab.LoadParams(f.params)
			if err != nil {
				return err
			}
		}
		if f.fromMesh != "" {
			net, err := fold.LoadMesh(f.fromMesh)
			if err != nil {
				return err
			}
			p.Left.Angles = tab.AnglesFromMesh(net, 1e-3)
			if len(p.Left.Angles) > p.Count {
				p.Count = len(p.Left.Angles)
			}
			for _, a := range p.Left.Angles {
				log.Debug().Float64("degrees", a*180/math.Pi).Msg("tab angle")
			}
		}
		if f.scad == "" && f.stl == "" {
			return errors.New("nothing to do: set --stl and/or --scad")
		}
		if f.scad != "" {
			if err := writeSCAD(f.scad, p); err != nil {
				return err
			}
			log.Info().Str("path", f.scad).Msg("wrote OpenSCAD script")
		}
		switch {
		case f.stl == "":
		case f.compile:
			if f.scad == "" {
				return errors.New("--compile requires --scad")
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			err = tab.CompileSCAD(ctx, tab.SCADConfig{Binary: f.openscad}, f.scad, f.stl)
			if err != nil {
				return err
			}
			log.Info().Str("path", f.stl).Msg("compiled STL")
		default:
			if err := tab.RenderSTL(f.stl, p, f.cells); err != nil {
				return err
			}
			log.Info().Str("path", f.stl).Int("cells", f.cells).Msg("rendered STL")
		}
		return nil
	},
}

func init() {
	fl := tabsCmd.Flags()
	fl.StringVar(&tabsFlags.params, "params", "", "TOML template parameters")
	fl.StringVar(&tabsFlags.fromMesh, "from-mesh", "", "take folded tab angles from a net")
	fl.StringVar(&tabsFlags.stl, "stl", "", "write template STL")
	fl.StringVar(&tabsFlags.scad, "scad", "", "write OpenSCAD script")
	fl.StringVar(&tabsFlags.openscad, "openscad", "openscad", "OpenSCAD executable")
	fl.BoolVar(&tabsFlags.compile, "compile", false, "compile the script with OpenSCAD instead of rendering with sdfx")
	fl.IntVar(&tabsFlags.cells, "cells", 200, "marching cubes cells along the longest side")
	rootCmd.AddCommand(tabsCmd)
}

func writeSCAD(path string, p tab.Params) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := tab.WriteSCAD(fp, p); err != nil {
		return err
	}
	return fp.Close()
}
