// Command vkmc is the CLI surface (spec.md §6), out of the core: it drives
// the library's three runtime modes over a small worked example problem.
//
//	vkmc thermalise  --temp 500 --nsteps 100000 --checkpoint run.ckpt
//	vkmc trajectory  --temp 500 --nsteps 1000000 --checkpoint run.ckpt
//	vkmc expand      --temp 500 --checkpoint run.ckpt
package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the vkmc command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vkmc",
		Short:         "vacancy-mediated kinetic Monte Carlo sampler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newThermaliseCmd(), newTrajectoryCmd(), newExpandCmd())
	return cmd
}
