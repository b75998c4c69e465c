// SPDX-License-Identifier: MIT
// Package: pcnroute/gen
//
// options.go — functional options and deterministic defaults.
//
// Contract:
//   • Option constructors validate and panic on meaningless input.
//   • Generators themselves return sentinel errors and never panic.
//   • No hidden globals; everything flows through config.

package gen

import (
	"errors"
	"math/rand"
	"strconv"

	"github.com/katalvlaran/pcnroute/network"
)

// Sentinel errors.
var (
	// ErrTooFewVertices is returned when a topology needs more vertices.
	ErrTooFewVertices = errors.New("gen: too few vertices")

	// ErrInvalidProbability is returned for probabilities outside [0,1].
	ErrInvalidProbability = errors.New("gen: probability must be within [0,1]")

	// ErrNeedRandSource is returned when a stochastic generator has no RNG.
	ErrNeedRandSource = errors.New("gen: random source is required")
)

// Deterministic defaults.
const (
	defaultCapacity    = int64(1_000_000)
	defaultBaseFeeMsat = int64(1000)
	defaultFeeRatePPM  = int64(1)
	defaultDelay       = int64(40)
	defaultHTLCMinMsat = int64(1)
)

type config struct {
	idFn      func(int) string
	rng       *rand.Rand
	capLo     int64
	capHi     int64
	biProb    float64
	policy    *network.Policy // nil → derived per channel
	randomFee bool
}

// Option customizes a generator.
type Option func(*config)

func newConfig(opts ...Option) config {
	cfg := config{
		idFn:   strconv.Itoa,
		capLo:  defaultCapacity,
		capHi:  defaultCapacity,
		biProb: 1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithSeed creates a seeded generator; use it to lock outcomes in tests.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand provides an explicit generator. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("gen: WithRand(nil)")
	}
	return func(c *config) {
		c.rng = r
	}
}

// WithIDScheme sets the index → node id function. Panics on nil.
func WithIDScheme(fn func(int) string) Option {
	if fn == nil {
		panic("gen: WithIDScheme(nil)")
	}
	return func(c *config) {
		c.idFn = fn
	}
}

// WithCapacityRange draws channel capacities uniformly from [lo, hi].
// Panics unless 0 < lo <= hi.
func WithCapacityRange(lo, hi int64) Option {
	if lo <= 0 || hi < lo {
		panic("gen: WithCapacityRange requires 0 < lo <= hi")
	}
	return func(c *config) {
		c.capLo, c.capHi = lo, hi
	}
}

// WithBidirectionalProb sets the probability that a channel's reverse record
// is emitted. Panics outside [0,1].
func WithBidirectionalProb(q float64) Option {
	if q < 0 || q > 1 {
		panic("gen: WithBidirectionalProb outside [0,1]")
	}
	return func(c *config) {
		c.biProb = q
	}
}

// WithPolicy uses p for every direction instead of the derived default.
func WithPolicy(p network.Policy) Option {
	return func(c *config) {
		c.policy = &p
	}
}

// WithRandomFees draws base fee, fee rate and delay per direction from the
// generator, approximating the spread of a real snapshot.
func WithRandomFees() Option {
	return func(c *config) {
		c.randomFee = true
	}
}

// capacity returns a capacity for the next channel.
func (c config) capacity() int64 {
	if c.capLo == c.capHi || c.rng == nil {
		return c.capLo
	}
	return c.capLo + c.rng.Int63n(c.capHi-c.capLo+1)
}

// directionPolicy returns the policy of one direction of a channel with total sat.
func (c config) directionPolicy(sat int64) network.Policy {
	if c.policy != nil {
		return *c.policy
	}
	p := network.Policy{
		BaseFeeMsat: defaultBaseFeeMsat,
		FeeRatePPM:  defaultFeeRatePPM,
		HTLCMinMsat: defaultHTLCMinMsat,
		HTLCMaxMsat: sat * network.MsatPerSat,
		Delay:       defaultDelay,
	}
	if c.randomFee && c.rng != nil {
		p.BaseFeeMsat = c.rng.Int63n(2001)
		p.FeeRatePPM = c.rng.Int63n(1001)
		p.Delay = 6 + c.rng.Int63n(139)
	}
	return p
}
