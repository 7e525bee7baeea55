// Package tab builds tab-and-slot test templates for papercraft models:
// a thin centerline strip with rectangular tabs along both sides, some of them
// flat and some bent at the fold angles of a model. The template is exported as
// a solid through sdfx or as an OpenSCAD script.
package tab

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Side configures the tabs along one side of the centerline.
type Side struct {
	// Flat adds a row of tabs lying in the centerline plane.
	Flat bool
	// Angles holds the bend of each folded tab in radians, one tab per angle
	// starting at the first tab position.
	Angles []float64
}

// Params are the template dimensions in millimeters.
type Params struct {
	CenterWidth    float64 // width of the centerline strip along X.
	WallThickness  float64 // added to the tab length along X.
	TabLength      float64 // tab size along Y.
	TabGap         float64 // space between consecutive tabs along Y.
	ShellThickness float64 // thickness of the centerline strip.
	TabThickness   float64
	// SlotWidth is the width of the slot cut through the centerline at every
	// tab position. Zero leaves the centerline whole.
	SlotWidth float64
	// Count is the number of tab positions along Y.
	Count       int
	Left, Right Side
	// Material widens slots so tabs fit once printed.
	Material Material
	// Compensate scales the whole template up by the material shrinkage.
	Compensate bool
}

// DefaultParams returns a five tab template with flat tabs on both sides and
// left tabs bent from 90 to 150 degrees in steps of 15.
func DefaultParams() Params {
	return Params{
		CenterWidth:    2,
		WallThickness:  1,
		TabLength:      5,
		TabGap:         2,
		ShellThickness: 0.2,
		TabThickness:   1,
		Count:          5,
		Left: Side{
			Flat:   true,
			Angles: degrees(90, 105, 120, 135, 150),
		},
		Right:    Side{Flat: true},
		Material: PLA,
	}
}

// Validate checks that p describes a buildable template.
func (p Params) Validate() error {
	for _, d := range []struct {
		name string
		v    float64
	}{
		{"center width", p.CenterWidth},
		{"wall thickness", p.WallThickness},
		{"tab length", p.TabLength},
		{"shell thickness", p.ShellThickness},
		{"tab thickness", p.TabThickness},
	} {
		if !(d.v > 0) || math.IsInf(d.v, 0) {
			return fmt.Errorf("%s must be positive and finite, got %g", d.name, d.v)
		}
	}
	if p.TabGap < 0 || math.IsInf(p.TabGap, 0) || math.IsNaN(p.TabGap) {
		return fmt.Errorf("tab gap must be non-negative, got %g", p.TabGap)
	}
	if p.Count < 1 {
		return errors.New("template needs at least one tab")
	}
	for _, side := range []struct {
		name string
		Side
	}{{"left", p.Left}, {"right", p.Right}} {
		if len(side.Angles) > p.Count {
			return fmt.Errorf("%s side has %d folded tabs but only %d tab positions", side.name, len(side.Angles), p.Count)
		}
		for _, a := range side.Angles {
			if math.IsNaN(a) || math.Abs(a) >= 2*math.Pi {
				return fmt.Errorf("%s side tab angle %g outside (-2π, 2π)", side.name, a)
			}
		}
	}
	if p.Material.Shrink < 0 || p.Material.Shrink >= 1 || p.Material.PullShrink < 0 {
		return fmt.Errorf("bad material shrinkage %+v", p.Material)
	}
	if p.SlotWidth < 0 {
		return fmt.Errorf("negative slot width %g", p.SlotWidth)
	}
	if p.SlotWidth > 0 {
		w, l := p.slotSize()
		if w >= p.CenterWidth {
			return fmt.Errorf("slot width %g with clearance exceeds center width %g", w, p.CenterWidth)
		}
		if l >= p.TabLength+p.TabGap {
			return fmt.Errorf("slot length %g with clearance does not fit between tabs", l)
		}
	}
	return nil
}

// slotSize returns the slot dimensions widened for the material.
func (p Params) slotSize() (width, length float64) {
	return p.Material.InternalDim(p.SlotWidth), p.Material.InternalDim(p.TabLength)
}

// paramsFile is the TOML layout of Params. Angles are in degrees.
type paramsFile struct {
	CenterWidth    float64  `toml:"center_width"`
	WallThickness  float64  `toml:"wall_thickness"`
	TabLength      float64  `toml:"tab_length"`
	TabGap         float64  `toml:"tab_gap"`
	ShellThickness float64  `toml:"shell_thickness"`
	TabThickness   float64  `toml:"tab_thickness"`
	SlotWidth      float64  `toml:"slot_width"`
	Count          int      `toml:"tabs"`
	Material       string   `toml:"material"`
	Compensate     bool     `toml:"compensate"`
	Left           sideFile `toml:"left"`
	Right          sideFile `toml:"right"`
}

type sideFile struct {
	Flat   bool      `toml:"flat"`
	Angles []float64 `toml:"angles"`
}

// LoadParams reads template parameters from a TOML file. Keys missing from
// the file keep their DefaultParams value. Tab angles are given in degrees.
func LoadParams(path string) (Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Params{}, err
	}
	p, err := ParseParams(b)
	if err != nil {
		return Params{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseParams decodes TOML template parameters. See LoadParams.
func ParseParams(data []byte) (Params, error) {
	def := DefaultParams()
	pf := paramsFile{
		CenterWidth:    def.CenterWidth,
		WallThickness:  def.WallThickness,
		TabLength:      def.TabLength,
		TabGap:         def.TabGap,
		ShellThickness: def.ShellThickness,
		TabThickness:   def.TabThickness,
		SlotWidth:      def.SlotWidth,
		Count:          def.Count,
		Material:       def.Material.Name,
		Compensate:     def.Compensate,
		Left:           sideFile{Flat: def.Left.Flat, Angles: toDegrees(def.Left.Angles)},
		Right:          sideFile{Flat: def.Right.Flat, Angles: toDegrees(def.Right.Angles)},
	}
	if err := toml.Unmarshal(data, &pf); err != nil {
		return Params{}, err
	}
	mat, err := MaterialByName(pf.Material)
	if err != nil {
		return Params{}, err
	}
	p := Params{
		CenterWidth:    pf.CenterWidth,
		WallThickness:  pf.WallThickness,
		TabLength:      pf.TabLength,
		TabGap:         pf.TabGap,
		ShellThickness: pf.ShellThickness,
		TabThickness:   pf.TabThickness,
		SlotWidth:      pf.SlotWidth,
		Count:          pf.Count,
		Left:           Side{Flat: pf.Left.Flat, Angles: degrees(pf.Left.Angles...)},
		Right:          Side{Flat: pf.Right.Flat, Angles: degrees(pf.Right.Angles...)},
		Material:       mat,
		Compensate:     pf.Compensate,
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// degrees converts angles in degrees to radians.
func degrees(deg ...float64) []float64 {
	if len(deg) == 0 {
		return nil
	}
	rad := make([]float64, len(deg))
	for i, d := range deg {
		rad[i] = d * math.Pi / 180
	}
	return rad
}

func toDegrees(rad []float64) []float64 {
	deg := make([]float64, len(rad))
	for i, r := range rad {
		deg[i] = r * 180 / math.Pi
	}
	return deg
}
