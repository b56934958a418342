// Package vkmcerr defines the error taxonomy shared by every vkmc package:
// BuildError (compile-time misconfiguration), InvariantViolation (runtime
// guard failure), OracleError (external rate-oracle failure), and the
// non-error Absorbing result.
//
// Propagation policy:
//   - BuildError aborts the whole compile; the tables are permanently wrong.
//   - InvariantViolation aborts only the current trajectory.
//   - OracleError fails only the trajectory that invoked the oracle.
//   - Absorbing is not an error: callers decide whether to terminate or pad.
package vkmcerr

import (
	"errors"
	"fmt"
)

// BuildErrorKind enumerates static misconfiguration reasons (spec.md §7).
type BuildErrorKind int

const (
	SpeciesSitesLengthMismatch BuildErrorKind = iota
	DuplicateInteraction
	VacSpecConstantNonzero
	SupercellNondiagonalUnsupported
)

func (k BuildErrorKind) String() string {
	switch k {
	case SpeciesSitesLengthMismatch:
		return "species_and_sites_length_mismatch"
	case DuplicateInteraction:
		return "duplicate_interaction_during_translation"
	case VacSpecConstantNonzero:
		return "vacSpec_constant_nonzero"
	case SupercellNondiagonalUnsupported:
		return "supercell_nondiagonal_unsupported"
	default:
		return "unknown_build_error"
	}
}

// BuildError signals a static misconfiguration discovered while compiling
// the cluster-expansion tables (L1-L7). It is always fatal to the build.
type BuildError struct {
	Kind BuildErrorKind
	Msg  string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("vkmc: build error [%s]: %s", e.Kind, e.Msg)
}

// NewBuildError constructs a BuildError of the given kind.
func NewBuildError(kind BuildErrorKind, format string, args ...any) error {
	return &BuildError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// InvariantKind enumerates runtime guard failures (spec.md §7, §8).
type InvariantKind int

const (
	OffCountMismatchAfterSweep InvariantKind = iota
	SumOfDisplacementsNonzeroAfterJump
	VacancyCountNotOne
)

func (k InvariantKind) String() string {
	switch k {
	case OffCountMismatchAfterSweep:
		return "off_count_mismatch_after_sweep"
	case SumOfDisplacementsNonzeroAfterJump:
		return "sum_of_displacements_nonzero_after_jump"
	case VacancyCountNotOne:
		return "vacancy_count_not_one"
	default:
		return "unknown_invariant"
	}
}

// InvariantViolation signals a runtime guard failure. It aborts only the
// trajectory in which it occurred; a batch of independent trajectories
// continues past it.
type InvariantViolation struct {
	Kind InvariantKind
	Msg  string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("vkmc: invariant violation [%s]: %s", e.Kind, e.Msg)
}

// NewInvariantViolation constructs an InvariantViolation of the given kind.
func NewInvariantViolation(kind InvariantKind, format string, args ...any) error {
	return &InvariantViolation{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// OracleErrorKind enumerates external rate-oracle failure modes (spec.md §6).
type OracleErrorKind int

const (
	OracleProcessFailed OracleErrorKind = iota
	OracleUnparseableOutput
	OracleTimeout
)

func (k OracleErrorKind) String() string {
	switch k {
	case OracleProcessFailed:
		return "process_failed"
	case OracleUnparseableOutput:
		return "unparseable_output"
	case OracleTimeout:
		return "timeout"
	default:
		return "unknown_oracle_error"
	}
}

// OracleError signals a failure of the external barrier oracle (§6). It
// fails only the trajectory that invoked the oracle.
type OracleError struct {
	Kind OracleErrorKind
	Msg  string
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("vkmc: oracle error [%s]: %s", e.Kind, e.Msg)
}

// NewOracleError constructs an OracleError of the given kind.
func NewOracleError(kind OracleErrorKind, format string, args ...any) error {
	return &OracleError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// ErrAbsorbing is a sentinel (not a fatal error) signalling that the total
// exit rate fell below the absorbing-state threshold (spec.md §4.9): the
// trajectory is truncated with Δt = +∞ and zero displacement.
var ErrAbsorbing = errors.New("vkmc: absorbing state (total rate below threshold)")

// As* helpers let callers branch on taxonomy without importing "errors" directly.

// AsBuildError reports whether err is a *BuildError and returns it.
func AsBuildError(err error) (*BuildError, bool) {
	var be *BuildError
	ok := errors.As(err, &be)
	return be, ok
}

// AsInvariantViolation reports whether err is an *InvariantViolation and returns it.
func AsInvariantViolation(err error) (*InvariantViolation, bool) {
	var iv *InvariantViolation
	ok := errors.As(err, &iv)
	return iv, ok
}

// AsOracleError reports whether err is an *OracleError and returns it.
func AsOracleError(err error) (*OracleError, bool) {
	var oe *OracleError
	ok := errors.As(err, &oe)
	return oe, ok
}

// IsAbsorbing reports whether err is the Absorbing sentinel.
func IsAbsorbing(err error) bool {
	return errors.Is(err, ErrAbsorbing)
}
