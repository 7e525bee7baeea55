// Command fold folds papercraft nets, solves their fold angles, unfolds 3D
// models into nets and generates tab-and-slot test templates.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "fold",
	Short: "Papercraft net folding and tab templates",
	Long: `Fold triangle nets along their internal edges, solve the fold
angles that close a net, unfold 3D models into nets and build
tab-and-slot templates for 3D printing.

Nets are YAML or JSON5 files:
  vertices: [[x, y, z], ...]
  edges:    [[v0, v1, match, angle], ...]  # match -1 fold, -2 free, else glued edge index
  faces:    [[a, b, c], ...]
Fold angles are in degrees.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug information")
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("fold failed")
		os.Exit(1)
	}
}
