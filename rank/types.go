package rank

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/pcnroute/network"
)

// Sentinel errors for rank computation.
var (
	// ErrNilNetwork is returned when a nil network is passed.
	ErrNilNetwork = errors.New("rank: network is nil")

	// ErrUnknownNode is returned when the destination is not in the network.
	ErrUnknownNode = errors.New("rank: destination not found")

	// ErrBadAmount is returned for non-positive amounts.
	ErrBadAmount = errors.New("rank: amount must be positive")

	// ErrNeedRand is returned when ModeRandom has no random source.
	ErrNeedRand = errors.New("rank: random source is required")
)

// Infinity is the rank of nodes that cannot reach the destination.
const Infinity = int64(math.MaxInt64)

// DefaultMaxWeight bounds random edge weights in ModeRandom.
const DefaultMaxWeight = 10

// Mode selects the relaxation rule.
type Mode int

const (
	// ModeHop counts admissible hops (reverse BFS).
	ModeHop Mode = iota
	// ModeFee weighs each edge by its directional fee for the amount, plus one.
	ModeFee
	// ModeRandom weighs each edge direction by a random integer in [1, MaxWeight].
	ModeRandom
)

// String returns the configuration name of m.
func (m Mode) String() string {
	switch m {
	case ModeHop:
		return "hop"
	case ModeFee:
		return "fee"
	case ModeRandom:
		return "random"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a configuration name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "hop", "":
		return ModeHop, nil
	case "fee":
		return ModeFee, nil
	case "random":
		return ModeRandom, nil
	}
	return ModeHop, fmt.Errorf("rank: unknown mode %q", s)
}

// Rank maps every node to its distance from the destination.
type Rank map[string]int64

// Of returns the rank of node, Infinity if absent.
func (r Rank) Of(node string) int64 {
	if v, ok := r[node]; ok {
		return v
	}
	return Infinity
}

// Reachable reports whether node has a finite rank.
func (r Rank) Reachable(node string) bool {
	return r.Of(node) != Infinity
}

// Options holds rank computation parameters.
type Options struct {
	Mode      Mode
	MaxWeight int64
	Rand      *rand.Rand
}

// Option configures Compute.
type Option func(*Options)

// DefaultOptions returns hop mode with DefaultMaxWeight and no random source.
func DefaultOptions() Options {
	return Options{Mode: ModeHop, MaxWeight: DefaultMaxWeight}
}

// WithMode selects the relaxation rule.
func WithMode(m Mode) Option {
	return func(o *Options) {
		o.Mode = m
	}
}

// WithMaxWeight sets the upper bound of ModeRandom weights. Panics if w <= 0.
func WithMaxWeight(w int64) Option {
	if w <= 0 {
		panic("rank: WithMaxWeight(w<=0)")
	}
	return func(o *Options) {
		o.MaxWeight = w
	}
}

// WithRand provides the generator used by ModeRandom.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) {
		o.Rand = r
	}
}

// Admissible reports whether the direction of ch leaving from may carry
// amountSat for rank and candidate purposes: the channel's total capacity
// covers the amount and the msat amount lies within the directional HTLC
// bounds. Directional capacity and the online flag are checked by routers.
func Admissible(ch *network.Channel, from string, amountSat int64) bool {
	if ch.TotalCapacity < amountSat {
		return false
	}
	return ch.WithinHTLC(from, amountSat)
}
