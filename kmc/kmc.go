// Package kmc implements the KMC trajectory engine (C3): residence-time
// vacancy hops selected by rate-proportional cumulative-sum + binary
// search, plus the per-atom displacement bookkeeping (AtomTracker) needed
// for the tracer-correlation-factor property (spec.md §4.7, §9 "Per-atom
// displacement bookkeeping").
package kmc

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"github.com/katalvlaran/vkmc/interaction"
	"github.com/katalvlaran/vkmc/kra"
	"github.com/katalvlaran/vkmc/lattice"
	"github.com/katalvlaran/vkmc/state"
	"github.com/katalvlaran/vkmc/vkmcerr"
)

// ErrOptionViolation is returned when an invalid Option is supplied.
var ErrOptionViolation = errors.New("kmc: invalid option supplied")

// AbsorbingRateThreshold is the total-rate floor below which a step is
// truncated as an absorbing state (spec.md §4.9).
const AbsorbingRateThreshold = 1e-8

// Jump is a symmetry-unique vacancy jump template, keyed by the basis of
// the site the vacancy currently occupies (spec.md §4.7 "first-neighbour
// jump displacements").
type Jump struct {
	BasisA, BasisB int
	Dx             lattice.Cell
}

// RateOracle lets an external barrier calculator override the analytic
// rate formula for one (state, jump) pair (spec.md §6 "RateList... external
// oracle path"). Returning ok=false falls back to the built-in formula.
type RateOracle interface {
	Rate(species []int, siteA, siteB int) (rate float64, ok bool, err error)
}

// Option configures an Engine via functional arguments.
type Option func(*engineOptions)

type engineOptions struct {
	rng    *rand.Rand
	oracle RateOracle
	err    error
}

func defaultOptions() engineOptions {
	return engineOptions{rng: rand.New(rand.NewSource(1))}
}

// WithRNG seeds the engine's random source.
func WithRNG(rng *rand.Rand) Option {
	return func(o *engineOptions) {
		if rng != nil {
			o.rng = rng
		}
	}
}

// WithRateOracle installs an external rate override (spec.md §6).
func WithRateOracle(o RateOracle) Option {
	return func(opt *engineOptions) { opt.oracle = o }
}

// Engine drives single-vacancy KMC trajectories over a fixed lattice and a
// shared, read-only pair of compiled tables (C1's interaction tables and
// L7's KRA tables).
type Engine struct {
	l       *lattice.Lattice
	itbl    *interaction.Tables
	ktbl    *kra.Tables
	jumps   []Jump
	nspec   int
	vacSpec int
	nu      []float64 // vibrational prefactor per species, nu[vacSpec] == 0
	beta    float64
	opts    engineOptions
}

// New builds a trajectory Engine.
func New(l *lattice.Lattice, itbl *interaction.Tables, ktbl *kra.Tables, jumps []Jump, nspec, vacSpec int, nu []float64, beta float64, opts ...Option) (*Engine, error) {
	if len(nu) != nspec {
		return nil, vkmcerr.NewBuildError(vkmcerr.SpeciesSitesLengthMismatch, "nu length %d != Nspec %d", len(nu), nspec)
	}
	if nu[vacSpec] != 0 {
		return nil, vkmcerr.NewBuildError(vkmcerr.VacSpecConstantNonzero, "nu[vacSpec=%d] = %g, must be 0", vacSpec, nu[vacSpec])
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	return &Engine{l: l, itbl: itbl, ktbl: ktbl, jumps: jumps, nspec: nspec, vacSpec: vacSpec, nu: append([]float64(nil), nu...), beta: beta, opts: o}, nil
}

// StepResult summarises one completed (or absorbing) KMC step.
type StepResult struct {
	Dt        float64
	X         [][3]float64 // running displacement per species
	JumpIndex int
	Absorbing bool
}

type candidate struct {
	jumpIdx      int
	finalSite    int // in the original (untranslated) frame
	finalSpecies int
	dx           lattice.Cell
	rate         float64
}

// Step advances st/off by exactly one KMC hop (spec.md §4.7). tracker may
// be nil if per-atom bookkeeping is not needed. X accumulates the running
// per-species displacement as float64; every increment is an integer
// lattice displacement cast to float64, so the sums stay exact.
func (e *Engine) Step(st *state.State, off *state.OffSite, lt *state.LocationTable, tracker *AtomTracker, X [][3]float64) (StepResult, error) {
	vacNow := st.VacSite
	vacNowSite, err := e.l.IndexSite(vacNow)
	if err != nil {
		return StepResult{}, err
	}

	cands, err := e.candidates(st, vacNowSite)
	if err != nil {
		return StepResult{}, err
	}

	total := 0.0
	for _, c := range cands {
		total += c.rate
	}
	if total < AbsorbingRateThreshold {
		return StepResult{Dt: math.Inf(1), X: X, Absorbing: true}, vkmcerr.ErrAbsorbing
	}

	u := e.opts.rng.Float64()
	jx := selectByCumulativeRate(cands, total, u)
	chosen := cands[jx]

	dt := 1.0 / total
	species := st.Species[vacNow]   // == vacSpec
	hopped := st.Species[chosen.finalSite]

	for sigma := range X {
		if sigma == e.vacSpec {
			X[sigma][0] += float64(chosen.dx[0])
			X[sigma][1] += float64(chosen.dx[1])
			X[sigma][2] += float64(chosen.dx[2])
		} else if sigma == hopped {
			X[sigma][0] -= float64(chosen.dx[0])
			X[sigma][1] -= float64(chosen.dx[1])
			X[sigma][2] -= float64(chosen.dx[2])
		}
	}
	if err := checkDisplacementSumsToZero(X); err != nil {
		return StepResult{}, err
	}

	e.commitSwap(off, vacNow, chosen.finalSite, species, hopped)
	st.Species[vacNow], st.Species[chosen.finalSite] = hopped, species
	lt.Move(vacNow, e.vacSpec, hopped)
	lt.Move(chosen.finalSite, hopped, e.vacSpec)
	st.VacSite = chosen.finalSite

	if tracker != nil {
		tracker.Swap(vacNow, chosen.finalSite, chosen.dx)
	}

	return StepResult{Dt: dt, X: X, JumpIndex: chosen.jumpIdx}, nil
}

// candidates builds the per-jump rate list for the vacancy's current
// position (spec.md §4.7 steps 1-4), translating the vacancy to a fixed
// reference site only to look up the symmetry-unique KRA transition index.
// An error from the rate oracle is returned as is.
func (e *Engine) candidates(st *state.State, vacNowSite lattice.Site) ([]candidate, error) {
	var out []candidate
	for ji, jump := range e.jumps {
		if jump.BasisA != vacNowSite.Basis {
			continue
		}
		finalSite := e.l.SiteIndex(e.l.Translate(lattice.Site{Basis: jump.BasisB, R: vacNowSite.R}, jump.Dx))
		finalSpecies := st.Species[finalSite]
		if finalSpecies == e.vacSpec {
			continue
		}

		deltaE := e.probeSwapEnergy(st, st.VacSite, finalSite, e.vacSpec, finalSpecies)
		deltaEKRA := e.kraBarrier(st, vacNowSite, jump, finalSpecies)

		rate := e.nu[finalSpecies] * math.Exp(-e.beta*(0.5*deltaE+deltaEKRA))
		if e.opts.oracle != nil {
			override, ok, err := e.opts.oracle.Rate(st.Species, st.VacSite, finalSite)
			if err != nil {
				return nil, err
			}
			if ok {
				rate = override
			}
		}
		out = append(out, candidate{jumpIdx: ji, finalSite: finalSite, finalSpecies: finalSpecies, dx: jump.Dx, rate: rate})
	}
	return out, nil
}

// probeSwapEnergy computes ΔE for swapping (siteA,siteB) without mutating
// st or the trajectory's live off vector: build a fresh off view of the
// current state and apply the forward walk to that throwaway copy, the
// way KMC jumps are rare enough to afford (spec.md §4.5).
func (e *Engine) probeSwapEnergy(st *state.State, siteA, siteB, a, b int) float64 {
	off := state.Build(e.itbl, st)
	before := off.Energy
	applyOffWalk(e.itbl, off, siteA, siteB, a, b)
	return off.Energy - before
}

func (e *Engine) commitSwap(off *state.OffSite, siteA, siteB, a, b int) {
	applyOffWalk(e.itbl, off, siteA, siteB, a, b)
}

// applyOffWalk performs the four-step incremental off-site walk of
// spec.md §4.5, mutating off in place.
func applyOffWalk(tbl *interaction.Tables, off *state.OffSite, siteA, siteB, a, b int) {
	dense := tbl.AtSiteSpec
	for _, k := range dense[siteA][a] {
		if off.Off[k] == 0 {
			off.Energy -= tbl.Energy[k]
		}
		off.Off[k]++
	}
	for _, k := range dense[siteB][b] {
		if off.Off[k] == 0 {
			off.Energy -= tbl.Energy[k]
		}
		off.Off[k]++
	}
	for _, k := range dense[siteA][b] {
		off.Off[k]--
		if off.Off[k] == 0 {
			off.Energy += tbl.Energy[k]
		}
	}
	for _, k := range dense[siteB][a] {
		off.Off[k]--
		if off.Off[k] == 0 {
			off.Energy += tbl.Energy[k]
		}
	}
}

// kraBarrier sums Jump2KRAEng over TS interactions that are currently "on"
// (off_TS == 0), on the vacancy-at-origin translated frame (spec.md §4.7
// step 2).
func (e *Engine) kraBarrier(st *state.State, vacNowSite lattice.Site, jump Jump, finalSpecies int) float64 {
	shift := lattice.Cell{-vacNowSite.R[0], -vacNowSite.R[1], -vacNowSite.R[2]}
	translated := e.translatedSpecies(st, shift)
	tsOff := buildTSOffSite(e.ktbl, translated)

	finalSiteTranslated := e.l.SiteIndex(lattice.Site{Basis: jump.BasisB, R: jump.Dx})
	transInd := e.ktbl.TransInd(finalSiteTranslated, finalSpecies)
	if transInd < 0 {
		return e.ktbl.KRASpecConstants[finalSpecies]
	}

	eng := 0.0
	for g, ids := range e.ktbl.JumpInteracts[transInd] {
		for i, id := range ids {
			if tsOff.Off[id] == 0 {
				eng += e.ktbl.Jump2KRAEng[transInd][g][i]
			}
		}
	}
	eng += e.ktbl.KRASpecConstants[finalSpecies]
	return eng
}

func (e *Engine) translatedSpecies(st *state.State, shift lattice.Cell) []int {
	out := make([]int, len(st.Species))
	for i, sp := range st.Species {
		s, err := e.l.IndexSite(i)
		if err != nil {
			continue
		}
		out[e.l.SiteIndex(e.l.Translate(s, shift))] = sp
	}
	return out
}

// tsOffSite mirrors state.OffSite for the TS-interaction table (no energy
// bookkeeping needed: Jump2KRAEng already carries the per-interaction
// contribution).
type tsOffSite struct {
	Off []int
}

func buildTSOffSite(ktbl *kra.Tables, species []int) *tsOffSite {
	off := make([]int, len(ktbl.NumSitesTSInteracts))
	for k := range off {
		mismatch := 0
		for i, site := range ktbl.TSInteractSites[k] {
			if species[site] != ktbl.TSInteractSpecs[k][i] {
				mismatch++
			}
		}
		off[k] = mismatch
	}
	return &tsOffSite{Off: off}
}

// selectByCumulativeRate draws the jump index via cumulative-sum + binary
// search over normalised probabilities (spec.md §4.7 step 5).
func selectByCumulativeRate(cands []candidate, total, u float64) int {
	cum := make([]float64, len(cands))
	running := 0.0
	for i, c := range cands {
		running += c.rate / total
		cum[i] = running
	}
	idx := sort.Search(len(cum), func(i int) bool { return cum[i] >= u })
	if idx >= len(cum) {
		idx = len(cum) - 1
	}
	return idx
}

func checkDisplacementSumsToZero(X [][3]float64) error {
	var sum [3]float64
	for _, x := range X {
		sum[0] += x[0]
		sum[1] += x[1]
		sum[2] += x[2]
	}
	const tol = 1e-9
	if math.Abs(sum[0]) > tol || math.Abs(sum[1]) > tol || math.Abs(sum[2]) > tol {
		return vkmcerr.NewInvariantViolation(vkmcerr.SumOfDisplacementsNonzeroAfterJump, "sum(X) = %v, want zero", sum)
	}
	return nil
}
