// Package checkpoint implements the bit-exact checkpoint format (spec.md
// §6): a typed record of {step, state, X, t, rngState, off_is_valid_flag}
// tagged with a uuid.UUID run id, written with the single-writer,
// atomic-rename-on-flush discipline spec.md §5 requires. Reloading never
// trusts the persisted off-site vector; it reconstructs off from state by
// the same from-scratch pass state.Build already uses for the initial
// build (spec.md §6 "reloading reconstructs off from state").
package checkpoint

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/katalvlaran/vkmc/interaction"
	"github.com/katalvlaran/vkmc/state"
)

// ErrCorrupt is returned by Load when the checkpoint file cannot be decoded
// into a Record. The CLI (§6) maps this to exit code 2.
var ErrCorrupt = errors.New("checkpoint: corrupt checkpoint file")

// RNGMarshaler lets a trajectory's RNG source persist its internal state
// into the checkpoint record and restore it on reload. vkmc does not
// mandate a concrete RNG type; callers wrap whatever source they use.
type RNGMarshaler interface {
	MarshalRNG() ([]byte, error)
	UnmarshalRNG([]byte) error
}

// Record is the persisted per-trajectory checkpoint (spec.md §6).
type Record struct {
	RunID    uuid.UUID
	Step     int
	State    []int
	X        [][3]float64
	T        float64
	RNGState []byte
	OffValid bool
}

// New builds a fresh Record tagging the trajectory with a new run id.
func New(step int, species []int, x [][3]float64, t float64, rng RNGMarshaler) (Record, error) {
	rec := Record{RunID: uuid.New(), Step: step, State: append([]int(nil), species...), X: cloneX(x), T: t}
	if rng != nil {
		raw, err := rng.MarshalRNG()
		if err != nil {
			return Record{}, fmt.Errorf("checkpoint: marshal rng: %w", err)
		}
		rec.RNGState = raw
	}
	return rec, nil
}

func cloneX(x [][3]float64) [][3]float64 {
	out := make([][3]float64, len(x))
	copy(out, x)
	return out
}

// Save writes rec to path with single-writer, atomic-rename semantics: the
// record is encoded to a temp file in the same directory, flushed, and
// renamed into place, so a reader never observes a partially-written
// checkpoint (spec.md §5 "Checkpoints: single-writer per trajectory, atomic
// rename on flush").
func Save(path string, rec Record) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".checkpoint-*.tmp")
	if err != nil {
		return fmt.Errorf("checkpoint: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(rec); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("checkpoint: encode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("checkpoint: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("checkpoint: close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("checkpoint: rename into place: %w", err)
	}
	return nil
}

// Load reads and decodes a Record from path, wrapping any decode failure in
// ErrCorrupt.
func Load(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, fmt.Errorf("checkpoint: open %q: %w", path, err)
	}
	defer f.Close()

	var rec Record
	if err := gob.NewDecoder(f).Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return rec, nil
}

// Reconstruct rebuilds a live State and OffSite from a loaded Record: the
// off-site vector is never trusted from disk, it is recomputed from
// rec.State by state.Build's from-scratch pass (spec.md §6). rec.OffValid
// is not consulted.
func Reconstruct(tbl *interaction.Tables, rec Record, vacSpec int) (*state.State, *state.OffSite, error) {
	st, err := state.New(rec.State, vacSpec)
	if err != nil {
		return nil, nil, fmt.Errorf("checkpoint: reconstruct state: %w", err)
	}
	off := state.Build(tbl, st)
	return st, off, nil
}
