package main

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/vkmc/checkpoint"
	"github.com/katalvlaran/vkmc/examples"
	"github.com/katalvlaran/vkmc/state"
	"github.com/katalvlaran/vkmc/sweep"
)

func newThermaliseCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "thermalise",
		Short: "run Metropolis swap sweeps to thermalise a configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThermalise(&f)
		},
	}
	addCommonFlags(cmd, &f)
	return cmd
}

// runThermalise drives f.batch independent sweep trajectories over the demo
// problem (spec.md §5 "trajectory-parallel... no sharing"), each owning its
// own State/OffSite/LocationTable/RNG against the one shared, read-only
// interaction.Tables.
func runThermalise(f *runFlags) error {
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
			errs[traj] = runThermaliseTrajectory(problem, f, traj)
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

func runThermaliseTrajectory(problem *examples.Problem, f *runFlags, traj int) error {
	species := problem.InitialState()
	st, err := state.New(species, examples.VacancySpecies)
	if err != nil {
		return err
	}
	off := state.Build(problem.Interaction, st)
	lt := state.BuildLocationTable(st, examples.Nspec)

	src := newTrackedSource(f.seed + int64(traj))
	rng := rand.New(src)

	eng, err := sweep.New(problem.Interaction, examples.Nspec, examples.VacancySpecies, f.beta(), sweep.WithRNG(rng), sweep.WithDebugRecount(true))
	if err != nil {
		return err
	}

	chunk := f.chunk
	if chunk <= 0 {
		chunk = f.nsteps
	}

	done := 0
	for done < f.nsteps {
		n := chunk
		if done+n > f.nsteps {
			n = f.nsteps - done
		}
		if _, err := eng.Sweep(st, off, lt, n); err != nil {
			return err
		}
		done += n

		if f.checkpoint != "" {
			path := checkpointPath(f.checkpoint, traj)
			rec, err := checkpoint.New(done, st.Species, nil, 0, src)
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

func checkpointPath(base string, traj int) string {
	if traj == 0 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, traj)
}
