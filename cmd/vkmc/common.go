package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/vkmc/checkpoint"
	"github.com/katalvlaran/vkmc/examples"
	"github.com/katalvlaran/vkmc/vkmcerr"
)

// demoCells is the supercell size of the worked example every subcommand
// runs against; the CLI surface (spec.md §6) fixes the flag set to
// --temp/--nsteps/--batch/--chunk/--seed/--checkpoint/--rate-oracle, with no
// flag for lattice geometry, so the demo problem size is not user-tunable
// here.
const demoCells = 4

// runFlags holds the flag set spec.md §6 assigns to every subcommand.
type runFlags struct {
	temp       float64
	nsteps     int
	batch      int
	chunk      int
	seed       int64
	checkpoint string
	rateOracle string
}

func addCommonFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().Float64Var(&f.temp, "temp", 300, "temperature in Kelvin")
	cmd.Flags().IntVar(&f.nsteps, "nsteps", 1000, "number of steps per trajectory")
	cmd.Flags().IntVar(&f.batch, "batch", 1, "number of independent trajectories")
	cmd.Flags().IntVar(&f.chunk, "chunk", 100, "steps between checkpoint flushes")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "RNG seed")
	cmd.Flags().StringVar(&f.checkpoint, "checkpoint", "", "checkpoint file path to write (an existing file is overwritten, not resumed)")
	cmd.Flags().StringVar(&f.rateOracle, "rate-oracle", "builtin", "rate source: builtin|external")
}

const boltzmannEV = 8.617333262e-5 // eV/K, spec.md §6 beta = 1/(kB*T)

func (f *runFlags) beta() float64 {
	return 1.0 / (boltzmannEV * f.temp)
}

func (f *runFlags) validateOracle() error {
	if f.rateOracle != "builtin" && f.rateOracle != "external" {
		return fmt.Errorf("--rate-oracle must be builtin or external, got %q", f.rateOracle)
	}
	return nil
}

func buildProblem() (*examples.Problem, error) {
	return examples.SimpleCubicTracer(demoCells)
}

// exitCodeFor maps an error from a subcommand to the exit codes spec.md §6
// assigns: 0 success, 2 corrupt checkpoint, 3 oracle failure.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, checkpoint.ErrCorrupt) {
		return 2
	}
	if _, ok := vkmcerr.AsOracleError(err); ok {
		return 3
	}
	return 1
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "vkmc:", err)
	os.Exit(exitCodeFor(err))
}
