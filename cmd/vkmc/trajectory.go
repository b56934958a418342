package main

import (
	"math/rand"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/vkmc/checkpoint"
	"github.com/katalvlaran/vkmc/examples"
	"github.com/katalvlaran/vkmc/kmc"
	"github.com/katalvlaran/vkmc/oracle"
	"github.com/katalvlaran/vkmc/state"
	"github.com/katalvlaran/vkmc/vkmcerr"
)

func newTrajectoryCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "trajectory",
		Short: "run residence-time KMC vacancy trajectories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrajectory(&f)
		},
	}
	addCommonFlags(cmd, &f)
	return cmd
}

func runTrajectory(f *runFlags) error {
	if err := f.validateOracle(); err != nil {
		return err
	}
	problem, err := buildProblem()
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	errs := make([]error, f.batch)
	for traj := 0; traj < f.batch; traj++ {
		wg.Add(1)
		go func(traj int) {
			defer wg.Done()
			errs[traj] = runOneTrajectory(problem, f, traj)
		}(traj)
	}
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

func runOneTrajectory(problem *examples.Problem, f *runFlags, traj int) error {
	species := problem.InitialState()
	st, err := state.New(species, examples.VacancySpecies)
	if err != nil {
		return err
	}
	off := state.Build(problem.Interaction, st)
	lt := state.BuildLocationTable(st, examples.Nspec)
	tracker := kmc.NewAtomTracker(len(species))
	X := make([][3]float64, examples.Nspec)

	src := newTrackedSource(f.seed + int64(traj))
	rng := rand.New(src)

	var opts []kmc.Option
	opts = append(opts, kmc.WithRNG(rng))
	if f.rateOracle == "external" {
		bin := lookupOracleBinary()
		if bin == "" {
			return vkmcerr.NewOracleError(vkmcerr.OracleProcessFailed, "no external oracle binary configured (set VKMC_ORACLE_BIN)")
		}
		opts = append(opts, kmc.WithRateOracle(oracle.NewExternal(bin, ".", oracle.WithBeta(f.beta()))))
	}

	eng, err := kmc.New(problem.Lattice, problem.Interaction, problem.KRA, problem.Jumps, examples.Nspec, examples.VacancySpecies, problem.Nu, f.beta(), opts...)
	if err != nil {
		return err
	}

	elapsed := 0.0
	for step := 0; step < f.nsteps; step++ {
		res, err := eng.Step(st, off, lt, tracker, X)
		if err != nil {
			if vkmcerr.IsAbsorbing(err) {
				break
			}
			return err
		}
		elapsed += res.Dt

		if f.checkpoint != "" && f.chunk > 0 && (step+1)%f.chunk == 0 {
			path := checkpointPath(f.checkpoint, traj)
			rec, err := checkpoint.New(step+1, st.Species, X, elapsed, src)
			if err != nil {
				return err
			}
			if err := checkpoint.Save(path, rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// lookupOracleBinary resolves the external rate-oracle binary path. The
// CLI surface (spec.md §6) fixes --rate-oracle to {builtin|external} with
// no companion path flag, so the binary itself is located via environment,
// matching how the external oracle protocol is described as a collaborator
// detail, not core CLI surface.
func lookupOracleBinary() string {
	return os.Getenv("VKMC_ORACLE_BIN")
}
