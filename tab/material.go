package tab

import (
	"fmt"
	"strings"

	"github.com/deadsy/sdfx/sdf"
)

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = Material{Name: "pla", Shrink: 0.2e-2, PullShrink: .45} // 0.2% shrinkage
	// Ideal does not shrink. Printed dimensions match the model.
	Ideal = Material{Name: "ideal"}
)

// Material models how a printed part shrinks once it cools down.
type Material struct {
	Name string
	// Shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	Shrink float64
	// PullShrink takes into account viscoelastic shrinkage of internal features.
	PullShrink float64
}

// MaterialByName returns the material with the given name, case insensitive.
func MaterialByName(name string) (Material, error) {
	for _, m := range []Material{PLA, Ideal} {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return Material{}, fmt.Errorf("unknown material %q", name)
}

// Scale grows s so that it has its modelled size after shrinking.
func (m Material) Scale(s sdf.SDF3) sdf.SDF3 {
	if m.Shrink == 0 {
		return s
	}
	return sdf.ScaleUniform3D(s, m.ScaleFactor())
}

// ScaleFactor is the uniform scale applied by Scale.
func (m Material) ScaleFactor() float64 {
	return 1 / (1 - m.Shrink)
}

// InternalDim returns the dimension a hole must be modelled with so that
// a part of size real fits through it once printed.
func (m Material) InternalDim(real float64) float64 {
	if real <= 0 {
		panic("InternalDim only works for non-zero dimensions")
	}
	return real*(m.Shrink+1) + m.PullShrink
}
