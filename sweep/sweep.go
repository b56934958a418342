// Package sweep implements the Metropolis sweep engine (C2): repeated
// trial swaps between two randomly chosen non-vacancy species, accepted or
// rejected against the off-site-derived energy change, using the same
// probe/commit/revert discipline the KMC engine (C3) and vector expansion
// (C4) reuse (spec.md §4.6, §9 "Revert pattern instead of copies").
package sweep

import (
	"errors"
	"math"
	"math/rand"

	"github.com/katalvlaran/vkmc/interaction"
	"github.com/katalvlaran/vkmc/state"
	"github.com/katalvlaran/vkmc/vkmcerr"
)

// ErrOptionViolation is returned when an invalid Option is supplied.
var ErrOptionViolation = errors.New("sweep: invalid option supplied")

// Option configures an Engine via functional arguments.
type Option func(*engineOptions)

type engineOptions struct {
	rng            *rand.Rand
	debugRecount   bool
	onAccept       func(siteA, siteB, a, b int, deltaE float64)
	err            error
}

func defaultOptions() engineOptions {
	return engineOptions{
		rng:      rand.New(rand.NewSource(1)),
		onAccept: func(int, int, int, int, float64) {},
	}
}

// WithRNG seeds the engine's random source. A nil source is ignored.
func WithRNG(rng *rand.Rand) Option {
	return func(o *engineOptions) {
		if rng != nil {
			o.rng = rng
		}
	}
}

// WithDebugRecount enables the full off-site recount at the end of every
// sweep (spec.md §4.6 "State invariant check... debug-mode property").
func WithDebugRecount(on bool) Option {
	return func(o *engineOptions) { o.debugRecount = on }
}

// WithOnAccept registers a callback invoked after every accepted trial.
func WithOnAccept(fn func(siteA, siteB, a, b int, deltaE float64)) Option {
	return func(o *engineOptions) {
		if fn != nil {
			o.onAccept = fn
		}
	}
}

// Engine runs Metropolis trials against a shared, read-only interaction
// table (spec.md §5 "compiled tables... read-only and may be shared").
type Engine struct {
	tbl     *interaction.Tables
	nspec   int
	vacSpec int
	beta    float64
	opts    engineOptions
}

// New builds a sweep Engine for the given interaction tables and inverse
// temperature beta = 1/(kB*T).
func New(tbl *interaction.Tables, nspec, vacSpec int, beta float64, opts ...Option) (*Engine, error) {
	if err := validate(nspec, vacSpec); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	return &Engine{tbl: tbl, nspec: nspec, vacSpec: vacSpec, beta: beta, opts: o}, nil
}

// probe computes the energy delta of swapping (siteA holding a) with
// (siteB holding b) without mutating off, by applying the four-step
// add/subtract walk of spec.md §4.5 and then its exact inverse.
func (e *Engine) probe(off *state.OffSite, siteA, siteB, a, b int) float64 {
	deltaE := e.apply(off, siteA, siteB, a, b)
	e.apply(off, siteA, siteB, b, a) // inverse: swapping (b,a) back undoes the walk
	return deltaE
}

// apply performs the incremental off-site walk for swapping (siteA,siteB)
// from species (a,b) to (b,a), mutating off/Energy in place, and returns
// the resulting energy delta (spec.md §4.5).
func (e *Engine) apply(off *state.OffSite, siteA, siteB, a, b int) float64 {
	before := off.Energy
	dense := e.tbl.AtSiteSpec

	for _, k := range dense[siteA][a] {
		if off.Off[k] == 0 {
			off.Energy -= e.tbl.Energy[k]
		}
		off.Off[k]++
	}
	for _, k := range dense[siteB][b] {
		if off.Off[k] == 0 {
			off.Energy -= e.tbl.Energy[k]
		}
		off.Off[k]++
	}
	for _, k := range dense[siteA][b] {
		off.Off[k]--
		if off.Off[k] == 0 {
			off.Energy += e.tbl.Energy[k]
		}
	}
	for _, k := range dense[siteB][a] {
		off.Off[k]--
		if off.Off[k] == 0 {
			off.Energy += e.tbl.Energy[k]
		}
	}
	return off.Energy - before
}

// Result summarises one completed sweep.
type Result struct {
	Accepted int
	Trials   int
}

// Sweep runs ntrials Metropolis trials against st/off/lt, mutating them on
// every acceptance (spec.md §4.6).
func (e *Engine) Sweep(st *state.State, off *state.OffSite, lt *state.LocationTable, ntrials int) (Result, error) {
	var res Result
	res.Trials = ntrials

	for t := 0; t < ntrials; t++ {
		alpha, beta := e.pickSpeciesPair()
		if lt.Count(alpha) == 0 || lt.Count(beta) == 0 {
			continue
		}
		siteA := e.pickSite(lt, alpha)
		siteB := e.pickSite(lt, beta)
		if siteA == siteB {
			continue
		}

		deltaE := e.probe(off, siteA, siteB, alpha, beta)
		logU := math.Log(e.opts.rng.Float64())
		if -e.beta*deltaE > logU {
			e.apply(off, siteA, siteB, alpha, beta)
			st.Species[siteA], st.Species[siteB] = beta, alpha
			lt.Move(siteA, alpha, beta)
			lt.Move(siteB, beta, alpha)
			res.Accepted++
			e.opts.onAccept(siteA, siteB, alpha, beta, deltaE)
		}
	}

	if e.opts.debugRecount {
		if err := off.Recount(e.tbl, st); err != nil {
			return res, err
		}
	}
	return res, nil
}

// pickSpeciesPair draws two distinct non-vacancy species uniformly.
func (e *Engine) pickSpeciesPair() (int, int) {
	for {
		a := e.opts.rng.Intn(e.nspec)
		b := e.opts.rng.Intn(e.nspec)
		if a == e.vacSpec || b == e.vacSpec || a == b {
			continue
		}
		return a, b
	}
}

func (e *Engine) pickSite(lt *state.LocationTable, sp int) int {
	sites := lt.Sites(sp)
	return sites[e.opts.rng.Intn(len(sites))]
}

// validate catches vacSpec misconfiguration before it can corrupt a sweep.
func validate(nspec, vacSpec int) error {
	if vacSpec < 0 || vacSpec >= nspec {
		return vkmcerr.NewBuildError(vkmcerr.SpeciesSitesLengthMismatch, "vacSpec %d out of range [0,%d)", vacSpec, nspec)
	}
	return nil
}
