package main

import (
	"errors"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/soypat/fold"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

var solveFlags struct {
	cfg  fold.SolveConfig
	seed uint64
	out  string
}

var solveCmd = &cobra.Command{
	Use:   "solve NET",
	Short: "Solve the fold angles that close a net",
	Long: `Search the internal edge fold angles that bring every pair of
glued edges together. Internal edges with a zero angle are seeded
with a random angle first since a flat net does not fold by itself.
The solved net is written even if it does not close.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := solveFlags
		net, err := fold.LoadMesh(args[0])
		if err != nil {
			return err
		}
		fold.SeedAngles(net, rand.NewSource(f.seed))
		sol, err := fold.Solve(net, f.cfg)
		if err != nil && !errors.Is(err, fold.ErrNotClosed) {
			return err
		}
		solveErr := err
		for i, e := range sol.Mesh.Edges {
			if !e.External() {
				log.Debug().Int("edge", i).Ints("vertices", e.V[:]).Float64("degrees", e.Angle*180/math.Pi).Msg("fold angle")
			}
		}
		log.Info().Float64("closure", sol.Closure).Int("evaluations", sol.Evaluations).Stringer("status", sol.Status).Msg("solved")
		if f.out != "" {
			if err := fold.SaveMesh(f.out, sol.Mesh); err != nil {
				return err
			}
			log.Info().Str("path", f.out).Msg("wrote solved net")
		}
		return solveErr
	},
}

func init() {
	fl := solveCmd.Flags()
	fl.IntVar(&solveFlags.cfg.Root, "root", 0, "face kept in place")
	fl.StringVar(&solveFlags.cfg.Method, "method", fold.NelderMead, "optimization method: nelder-mead or bfgs")
	fl.IntVar(&solveFlags.cfg.MaxEvaluations, "max-evals", 20000, "maximum number of folds evaluated")
	fl.Float64Var(&solveFlags.cfg.Tolerance, "tol", 1e-6, "closure tolerance relative to net size")
	fl.IntSliceVar(&solveFlags.cfg.Fixed, "fixed", nil, "internal edges whose angle is kept")
	fl.Uint64Var(&solveFlags.seed, "seed", 1, "random seed for zero fold angles")
	fl.StringVarP(&solveFlags.out, "out", "o", "", "write solved net YAML")
	rootCmd.AddCommand(solveCmd)
}
