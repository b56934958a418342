package main

import (
	"encoding/binary"
	"fmt"
	"math/rand"
)

// trackedSource wraps a math/rand.Source, counting every Int63 draw so its
// state can be replayed bit-exactly from a (seed, draws) pair on reload —
// the only place the checkpoint.RNGMarshaler contract (spec.md §6) needs to
// be satisfied for a stdlib math/rand source.
type trackedSource struct {
	rand.Source
	seed  int64
	draws uint64
}

func newTrackedSource(seed int64) *trackedSource {
	return &trackedSource{Source: rand.NewSource(seed), seed: seed}
}

// Int63 shadows the embedded Source's method to count draws.
func (s *trackedSource) Int63() int64 {
	s.draws++
	return s.Source.Int63()
}

// Seed reseeds the source and resets the draw counter.
func (s *trackedSource) Seed(seed int64) {
	s.seed = seed
	s.draws = 0
	s.Source.Seed(seed)
}

// MarshalRNG implements checkpoint.RNGMarshaler.
func (s *trackedSource) MarshalRNG() ([]byte, error) {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[0:8], uint64(s.seed))
	binary.BigEndian.PutUint64(buf[8:16], s.draws)
	return buf, nil
}

// UnmarshalRNG implements checkpoint.RNGMarshaler: it reseeds from scratch
// and replays exactly `draws` calls to Int63 to resynchronise the stream.
func (s *trackedSource) UnmarshalRNG(b []byte) error {
	if len(b) != 16 {
		return fmt.Errorf("trackedSource: want 16 bytes, got %d", len(b))
	}
	seed := int64(binary.BigEndian.Uint64(b[0:8]))
	draws := binary.BigEndian.Uint64(b[8:16])

	s.Source = rand.NewSource(seed)
	s.seed = seed
	s.draws = 0
	for i := uint64(0); i < draws; i++ {
		s.Source.Int63()
	}
	s.draws = draws
	return nil
}
