// Package vkmc is a vacancy-mediated kinetic Monte Carlo simulator for
// multi-component crystalline alloys, built on a vector cluster expansion
// (VCE) of configurational energies and transition-state (KRA) barriers.
//
// 🚀 What is vkmc?
//
//	A cluster-expansion compiler plus a JIT sampler core that brings
//	together:
//	  • Compiler: enumerate symmetry-decorated clusters, build their
//	    group-compatible vector basis, and flatten everything into dense
//	    interaction tables indexed by (site, species)
//	  • Sampler: Metropolis swap sweeps, residence-time KMC vacancy
//	    trajectories, and a rate-weighted vector expansion feeding Onsager
//	    transport coefficients (W̄, b̄)
//
// ✨ Why choose vkmc?
//
//   - Table-driven   — every runtime hot path indexes flat int/float
//     arrays built once at compile time
//   - Symmetry-aware — orbits, stabilisers and Reynolds-operator vector
//     bases are first-class, not bolted on
//   - Revert, not copy — probe/commit/revert against one shared off-site
//     vector; the state space is too large to snapshot
//
// Under the hood, everything is organized under one package per layer:
//
//	lattice/     — L1 crystal/supercell primitive
//	symmetry/    — L2 space-group operations as data
//	cluster/     — L3 geometric orbits (input) + L4 decorated enumerator
//	vecbasis/    — L5 vector basis builder (Reynolds operator, matrix/ops.Eigen)
//	interaction/ — L6 dense interaction tables
//	kra/         — L7 transition-state (KRA) expander
//	state/       — State, per-species location table, C1 off-site counter
//	sweep/       — C2 Metropolis sweep engine
//	kmc/         — C3 KMC trajectory engine + per-atom tracer bookkeeping
//	expansion/   — C4 vector expansion (W̄, b̄)
//	oracle/      — external rate-oracle collaborator (§6)
//	checkpoint/  — bit-exact checkpoint format, atomic rename on flush
//	matrix/      — small dense-matrix primitive + ops.Eigen
//	vkmcerr/     — BuildError / InvariantViolation / OracleError / Absorbing
//	cmd/vkmc/    — thermalise / trajectory / expand CLI
//
// Quick pipeline:
//
//	geometric orbits ──L4──▶ decorated orbits ──L5──▶ vector bases
//	                                  │                     │
//	                                  └────────L6───────────┴──▶ Tables
//	                                                               │
//	                           state.New ──▶ state.Build(off) ◀────┘
//	                                                │
//	                              sweep.Engine / kmc.Engine / expansion.Compute
//
// Dive into DESIGN.md for the grounding ledger and Open Question decisions,
// and SPEC_FULL.md for the complete module-by-module requirements this
// package implements.
//
//	go get github.com/katalvlaran/vkmc
package vkmc
