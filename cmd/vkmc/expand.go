package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/vkmc/examples"
	"github.com/katalvlaran/vkmc/expansion"
	"github.com/katalvlaran/vkmc/interaction"
	"github.com/katalvlaran/vkmc/state"
)

func newExpandCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "expand",
		Short: "accumulate the rate-weighted vector expansion (W̄, b̄)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(&f)
		},
	}
	addCommonFlags(cmd, &f)
	return cmd
}

func runExpand(f *runFlags) error {
	if err := f.validateOracle(); err != nil {
		return err
	}
	problem, err := buildProblem()
	if err != nil {
		return err
	}

	species := problem.InitialState()
	st, err := state.New(species, examples.VacancySpecies)
	if err != nil {
		return err
	}
	off := state.Build(problem.Interaction, st)

	nvclus := countVectorGroups(problem.Interaction)
	exits := buildExitSet(problem, st)

	res, err := expansion.Compute(problem.Interaction, st, off, nvclus, exits)
	if err != nil {
		return err
	}

	fmt.Printf("W̄ (%dx%d), b̄ (len %d)\n", nvclus, nvclus, len(res.Bbar))
	for i := 0; i < nvclus; i++ {
		for j := 0; j < nvclus; j++ {
			v, _ := res.Wbar.At(i, j)
			fmt.Printf("%12.6g", v)
		}
		fmt.Println()
	}
	fmt.Println(res.Bbar)
	return nil
}

// countVectorGroups returns NVclus: one more than the highest vector-group
// id any interaction carries, or 0 if the compiled tables carry no vector
// clusters at all (spec.md §9 "standardise on length 0").
func countVectorGroups(tbl *interaction.Tables) int {
	max := -1
	for k, nv := range tbl.NumVecs {
		for v := 0; v < nv; v++ {
			if g := tbl.VecGroups[k][v]; g > max {
				max = g
			}
		}
	}
	return max + 1
}

// buildExitSet probes every first-neighbour jump out of the current
// vacancy site, the same candidate enumeration kmc.Engine.candidates uses
// internally, reusing it here only at the granularity expansion.Compute
// needs: a rate and a Δx per candidate exit.
func buildExitSet(problem *examples.Problem, st *state.State) []expansion.Exit {
	var exits []expansion.Exit
	vacSite := st.VacSite
	vacSiteCoord, err := problem.Lattice.IndexSite(vacSite)
	if err != nil {
		return nil
	}
	for _, j := range problem.Jumps {
		if j.BasisA != vacSiteCoord.Basis {
			continue
		}
		finalSite := problem.Lattice.SiteIndex(problem.Lattice.Translate(vacSiteCoord, j.Dx))
		finalSpecies := st.Species[finalSite]
		if finalSpecies == examples.VacancySpecies {
			continue
		}
		exits = append(exits, expansion.Exit{
			SiteA: vacSite, SiteB: finalSite,
			A: examples.VacancySpecies, B: finalSpecies,
			Rate:            problem.Nu[finalSpecies],
			Dx:              [3]float64{float64(j.Dx[0]), float64(j.Dx[1]), float64(j.Dx[2])},
			VacancyObserved: true,
		})
	}
	return exits
}
