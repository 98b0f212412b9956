// Package generation implements the Generator and dynamic-key expander
// from §4.F: preprocessing a GenerationSchema to resolve its dynamic-key
// and array-length annotations, then synthesizing primitive values
// through a seeded PRNG so the whole pipeline is deterministic given a
// seed. Grounded on services/unifiedmodel/internal/generators/factory.go
// and mongodbgen.go's BaseGenerator-embedding, per-type-override dispatch
// pattern (adapted here from DDL-statement generation to document-value
// generation), with key-shape generation grounded on google/uuid and
// github.com/oklog/ulid/v2, both already present in the teacher's
// dependency graph. No faker library appears anywhere in the retrieval
// pack (services/anchor, services/unifiedmodel, or any other example
// repo's go.mod), so primitive value synthesis is hand-rolled against
// math/rand/v2 rather than adding an external dependency never exercised
// by the teacher or its siblings.
package generation

import (
	"math/rand/v2"
)

// Options tunes one generate() call, per §4.F's signature
// generate(schema, {seed?, useDynamicKeys, useFrequencyDistributions}).
type Options struct {
	Seed                      uint64
	UseDynamicKeys            bool
	UseFrequencyDistributions bool
}

// DefaultOptions returns §4.F's defaults: both expansion features on.
func DefaultOptions(seed uint64) Options {
	return Options{Seed: seed, UseDynamicKeys: true, UseFrequencyDistributions: true}
}

// GeneratorContext carries the per-run mutable state the Generator needs:
// the seeded PRNG, a per-path key counter for uniqueness guarantees, and
// the resolved options. Replaces the ambient/global state §9 flags
// ("global faker seed") with an explicit, pass-by-reference struct — two
// GeneratorContexts built from the same seed produce identical output
// independently, with no shared singleton between them.
type GeneratorContext struct {
	rng     *rand.Rand
	opts    Options
	keySeq  map[string]int
}

// NewContext builds a GeneratorContext seeded deterministically from
// opts.Seed. math/rand/v2's PCG source takes two uint64 halves; the
// second half is derived from the seed via a fixed XOR constant so a
// single uint64 seed stays ergonomic for callers while the generator
// still gets a full 128 bits of internal state.
func NewContext(opts Options) *GeneratorContext {
	src := rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)
	return &GeneratorContext{
		rng:    rand.New(src),
		opts:   opts,
		keySeq: make(map[string]int),
	}
}

// Float64 returns a PRNG draw in [0,1), used both for direct value
// synthesis and as the `u` input to frequency.Sample/frequency.SampleInt.
func (c *GeneratorContext) Float64() float64 { return c.rng.Float64() }

// IntN returns a PRNG draw in [0,n).
func (c *GeneratorContext) IntN(n int) int { return c.rng.IntN(n) }

// Uint64 returns a raw PRNG draw, used by key generators that need more
// entropy than a single float64 affords (ObjectId/ULID/UUID bytes).
func (c *GeneratorContext) Uint64() uint64 { return c.rng.Uint64() }

// NextSeq returns the next 0-based sequence number for path, used by key
// generators to guarantee uniqueness across the n keys generated for one
// dynamic-key subtree without depending on randomness to avoid
// collisions.
func (c *GeneratorContext) NextSeq(path string) int {
	n := c.keySeq[path]
	c.keySeq[path] = n + 1
	return n
}
