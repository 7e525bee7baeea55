package tab

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"text/template"

	"gonum.org/v1/gonum/spatial/r3"
)

var scadTemplate = template.Must(template.New("scad").Funcs(template.FuncMap{
	"vec": func(v r3.Vec) string {
		return "[" + num(v.X) + ", " + num(v.Y) + ", " + num(v.Z) + "]"
	},
	// Degrees are rounded to hide radian round trip noise.
	"deg": func(rad float64) string { return num(math.Round(rad*180/math.Pi*1e9) / 1e9) },
	"num": num,
}).Parse(`// Tab template: {{.Count}} tabs, {{len .Solids}} boxes, {{len .Cuts}} cuts.
{{if .Scale}}scale({{num .Scale}}) {{end}}difference() {
	union() {
{{- range .Solids}}
		{{template "part" .}}
{{- end}}
	}
{{- range .Cuts}}
	{{template "part" .}}
{{- end}}
}
{{define "part"}}translate({{vec .Position}}) rotate([0, {{deg .Angle}}, 0]) translate({{vec .Offset}}) cube({{vec .Size}}); // {{.Name}}{{end}}`))

func num(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// WriteSCAD writes an OpenSCAD script of the template described by p.
func WriteSCAD(w io.Writer, p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	data := struct {
		Count        int
		Scale        float64
		Solids, Cuts []Part
	}{Count: p.Count}
	if p.Compensate && p.Material.Shrink != 0 {
		data.Scale = p.Material.ScaleFactor()
	}
	for _, part := range Parts(p) {
		if part.Cut {
			data.Cuts = append(data.Cuts, part)
		} else {
			data.Solids = append(data.Solids, part)
		}
	}
	return scadTemplate.Execute(w, data)
}

// SCADConfig configures the OpenSCAD compiler.
type SCADConfig struct {
	// Binary is the OpenSCAD executable. Defaults to "openscad" looked up in PATH.
	Binary string
	// Args are passed to OpenSCAD before the output flag.
	Args []string
}

// CompileSCAD runs OpenSCAD to compile the script at scadPath into an STL file
// at stlPath. The compiler output is included in the returned error.
func CompileSCAD(ctx context.Context, cfg SCADConfig, scadPath, stlPath string) error {
	if scadPath == "" || stlPath == "" {
		return errors.New("empty scad or stl path")
	}
	bin := cfg.Binary
	if bin == "" {
		bin = "openscad"
	}
	args := append(append([]string(nil), cfg.Args...), "-o", stlPath, scadPath)
	cmd := exec.CommandContext(ctx, bin, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w\n%s", bin, err, bytes.TrimSpace(out.Bytes()))
	}
	return nil
}
