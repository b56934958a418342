// Package oracle implements the external rate-oracle collaborator (spec.md
// §6): an optional out-of-process barrier calculator that can override the
// KMC engine's analytic rate formula for a given (state, jump) pair. It satisfies the kmc.RateOracle interface without kmc importing
// os/exec directly, keeping the sampler core free of process machinery
// (spec.md §5 "the only blocking point is the optional external barrier
// oracle").
package oracle

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/katalvlaran/vkmc/vkmcerr"
)

// Option configures an External oracle via functional arguments.
type Option func(*externalOptions)

type externalOptions struct {
	timeout time.Duration
	beta    float64
	writer  func(path string, species []int, siteA, siteB int) error
}

func defaultOptions() externalOptions {
	return externalOptions{timeout: 30 * time.Second, writer: writeStateFile}
}

// WithTimeout bounds how long the external process may run before the call
// fails with vkmcerr.OracleTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *externalOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithBeta sets the inverse temperature used to convert the oracle's
// forward-barrier output into a rate (spec.md §6 "rate = exp(-barrier*beta)").
func WithBeta(beta float64) Option {
	return func(o *externalOptions) { o.beta = beta }
}

// WithStateWriter overrides how the probed state is serialised to disk
// before invoking the oracle binary; tests use this to avoid a real
// filesystem round trip.
func WithStateWriter(fn func(path string, species []int, siteA, siteB int) error) Option {
	return func(o *externalOptions) {
		if fn != nil {
			o.writer = fn
		}
	}
}

// External drives a subprocess barrier oracle (e.g. a LAMMPS/NEB wrapper):
// it writes a state file, invokes the configured binary, and parses a
// single floating-point forward-barrier value from stdout (spec.md §6
// "External oracle protocol").
type External struct {
	binary  string
	workDir string
	opts    externalOptions
}

// NewExternal builds an External oracle that shells out to binary,
// writing scratch state files under workDir.
func NewExternal(binary, workDir string, opts ...Option) *External {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &External{binary: binary, workDir: workDir, opts: o}
}

// Rate implements kmc.RateOracle: it always returns ok=true on success
// (the external path never silently falls back, per spec.md §6 "Oracle
// errors... are fatal to the trajectory").
func (e *External) Rate(species []int, siteA, siteB int) (float64, bool, error) {
	path := fmt.Sprintf("%s/state_%d_%d.txt", e.workDir, siteA, siteB)
	if err := e.opts.writer(path, species, siteA, siteB); err != nil {
		return 0, false, vkmcerr.NewOracleError(vkmcerr.OracleProcessFailed, "writing state file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.opts.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.binary, path)
	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return 0, false, vkmcerr.NewOracleError(vkmcerr.OracleTimeout, "oracle %q exceeded %s", e.binary, e.opts.timeout)
	}
	if err != nil {
		return 0, false, vkmcerr.NewOracleError(vkmcerr.OracleProcessFailed, "oracle %q: %v", e.binary, err)
	}

	barrier, err := parseBarrier(out)
	if err != nil {
		return 0, false, vkmcerr.NewOracleError(vkmcerr.OracleUnparseableOutput, "oracle %q output: %v", e.binary, err)
	}

	return math.Exp(-barrier * e.opts.beta), true, nil
}

// parseBarrier extracts the single forward-barrier float from the
// oracle's stdout: the last non-blank line, parsed as a float64.
func parseBarrier(out []byte) (float64, error) {
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	last := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			last = line
		}
	}
	if last == "" {
		return 0, fmt.Errorf("no output")
	}
	return strconv.ParseFloat(last, 64)
}

// writeStateFile is the default state serialiser: one species per line.
func writeStateFile(path string, species []int, siteA, siteB int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# jump %d -> %d\n", siteA, siteB)
	for _, sp := range species {
		fmt.Fprintln(w, sp)
	}
	return w.Flush()
}
