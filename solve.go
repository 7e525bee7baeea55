package fold

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/fold/internal/d3"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// Solver methods.
const (
	NelderMead = "nelder-mead"
	BFGS       = "bfgs"
)

// SeedAngles gives every internal edge with a zero fold angle a uniformly
// distributed random angle in [0, π) drawn from src. Non-zero angles and
// external edges are kept.
func SeedAngles(m *Mesh, src rand.Source) {
	seed := distuv.Uniform{Min: 0, Max: math.Pi, Src: src}
	for i := range m.Edges {
		if !m.Edges[i].External() && m.Edges[i].Angle == 0 {
			m.Edges[i].Angle = seed.Rand()
		}
	}
}

// SolveConfig configures Solve. The zero value is a usable configuration.
type SolveConfig struct {
	// Root is the face held in place while folding.
	Root int
	// Method is NelderMead (default) or BFGS with a finite difference gradient.
	Method string
	// MaxEvaluations bounds the number of folds evaluated. Defaults to 20000.
	MaxEvaluations int
	// Tolerance is the largest closure, relative to the net size, at which
	// the net is considered closed. Defaults to 1e-6.
	Tolerance float64
	// Fixed lists internal edges whose fold angle is kept as given.
	Fixed []int
}

// Solution is the result of Solve.
type Solution struct {
	// Mesh is a copy of the net with solved fold angles in (-π, π].
	Mesh *Mesh
	// Closure is the closure of the net folded with the solved angles.
	Closure     float64
	Evaluations int
	Status      optimize.Status
}

// ErrNotClosed is returned by Solve when no fold angles close the net within tolerance.
var ErrNotClosed = errors.New("net does not close")

// Solve searches the internal edge fold angles that bring every pair of
// glued edges together, starting from the angles present in net.
// Angles of zero make a poor starting point since the flat net is a
// stationary point; see SeedAngles. The returned error wraps ErrNotClosed
// along with a usable Solution when the optimizer stalls above tolerance.
func Solve(net *Mesh, cfg SolveConfig) (*Solution, error) {
	if err := net.Validate(); err != nil {
		return nil, err
	}
	if cfg.Method == "" {
		cfg.Method = NelderMead
	}
	if cfg.MaxEvaluations <= 0 {
		cfg.MaxEvaluations = 20000
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 1e-6
	}
	work := net.Clone()
	glues, err := work.GluePairs()
	if err != nil {
		return nil, err
	}
	fixed := make(map[int]bool, len(cfg.Fixed))
	for _, e := range cfg.Fixed {
		if e < 0 || e >= len(work.Edges) || work.Edges[e].External() {
			return nil, fmt.Errorf("fixed edge %d is not an internal edge", e)
		}
		fixed[e] = true
	}
	var free []int
	for i, e := range work.Edges {
		if !e.External() && !fixed[i] {
			free = append(free, i)
		}
	}
	scale := d3.Max(d3.Set(work.Vertices).Bounds().Size())
	if scale == 0 {
		return nil, errors.New("net has zero size")
	}

	var foldErr error
	objective := func(x []float64) float64 {
		for i, e := range free {
			work.Edges[e].Angle = x[i]
		}
		folded, err := Fold(work, cfg.Root)
		if err != nil {
			foldErr = err
			return math.Inf(1)
		}
		return foldResidual(folded, glues) / (scale * scale)
	}
	sol := &Solution{Mesh: work}
	if len(free) > 0 && len(glues) > 0 {
		x0 := make([]float64, len(free))
		for i, e := range free {
			x0[i] = work.Edges[e].Angle
		}
		problem := optimize.Problem{Func: objective}
		var method optimize.Method
		switch cfg.Method {
		case NelderMead:
			method = &optimize.NelderMead{SimplexSize: 0.2}
		case BFGS:
			problem.Grad = func(grad, x []float64) {
				fd.Gradient(grad, objective, x, &fd.Settings{Formula: fd.Central})
			}
			method = &optimize.BFGS{}
		default:
			return nil, fmt.Errorf("unknown solver method %q", cfg.Method)
		}
		settings := &optimize.Settings{
			FuncEvaluations: cfg.MaxEvaluations,
			Converger: &optimize.FunctionConverge{
				Absolute:   cfg.Tolerance * cfg.Tolerance * 1e-4,
				Iterations: 500,
			},
		}
		result, err := optimize.Minimize(problem, x0, settings, method)
		if foldErr != nil {
			return nil, foldErr
		}
		if result == nil {
			return nil, err
		}
		for i, e := range free {
			work.Edges[e].Angle = normalizeAngle(result.X[i])
		}
		sol.Evaluations = result.Stats.FuncEvaluations
		sol.Status = result.Status
	}
	folded, err := Fold(work, cfg.Root)
	if err != nil {
		return nil, err
	}
	sol.Closure, err = folded.Closure()
	if err != nil {
		return nil, err
	}
	if sol.Closure > cfg.Tolerance*scale {
		return sol, fmt.Errorf("closure %g after %d evaluations (%v): %w", sol.Closure, sol.Evaluations, sol.Status, ErrNotClosed)
	}
	return sol, nil
}

// normalizeAngle returns a wrapped into (-π, π].
func normalizeAngle(a float64) float64 {
	a = math.Remainder(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// foldResidual is the sum of squared distances between vertices that should coincide.
func foldResidual(f *Folded, glues []Glue) float64 {
	var sum float64
	for face, corners := range f.Faces {
		for k, vi := range f.Mesh.Faces[face] {
			sum += r3.Norm2(r3.Sub(corners[k], f.Mesh.Vertices[vi]))
		}
	}
	for _, g := range glues {
		for _, pair := range g.Vertices {
			sum += r3.Norm2(r3.Sub(f.Mesh.Vertices[pair[0]], f.Mesh.Vertices[pair[1]]))
		}
	}
	return sum
}
