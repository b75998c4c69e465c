package bloom

import (
	"errors"
	"fmt"
	"math"

	"github.com/spaolacci/murmur3"
)

// Sentinel errors.
var (
	// ErrBadCapacity is returned when the expected item count is zero.
	ErrBadCapacity = errors.New("bloom: expected items must be positive")

	// ErrBadRate is returned for a false-positive rate outside (0,1).
	ErrBadRate = errors.New("bloom: false-positive rate must be within (0,1)")
)

// Filter is a Bloom filter. It is not safe for concurrent mutation.
type Filter struct {
	bits  []uint64
	m     uint64 // number of bits
	k     uint64 // probes per item
	seed  uint32
	count uint
}

// Option configures a Filter.
type Option func(*Filter)

// WithSeed sets the murmur3 seed. Filters with different seeds disagree on
// false positives but never on members.
func WithSeed(seed uint32) Option {
	return func(f *Filter) {
		f.seed = seed
	}
}

// New returns a filter sized for expectedItems at target rate fpRate.
func New(expectedItems uint, fpRate float64, opts ...Option) (*Filter, error) {
	if expectedItems == 0 {
		return nil, ErrBadCapacity
	}
	if !(fpRate > 0 && fpRate < 1) {
		return nil, fmt.Errorf("%w: %v", ErrBadRate, fpRate)
	}

	n := float64(expectedItems)
	m := uint64(math.Ceil(-n * math.Log(fpRate) / (math.Ln2 * math.Ln2)))
	if m == 0 {
		m = 1
	}
	k := uint64(math.Round(float64(m) / n * math.Ln2))
	if k == 0 {
		k = 1
	}

	f := &Filter{
		bits: make([]uint64, (m+63)/64),
		m:    m,
		k:    k,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// locations yields the k bit positions of data.
func (f *Filter) locations(data []byte, visit func(pos uint64) bool) bool {
	h1, h2 := murmur3.Sum128WithSeed(data, f.seed)
	for i := uint64(0); i < f.k; i++ {
		if !visit((h1 + i*h2) % f.m) {
			return false
		}
	}
	return true
}

// Add inserts data.
func (f *Filter) Add(data []byte) {
	f.locations(data, func(pos uint64) bool {
		f.bits[pos>>6] |= 1 << (pos & 63)
		return true
	})
	f.count++
}

// Test reports whether data may have been added. A false result is certain.
func (f *Filter) Test(data []byte) bool {
	return f.locations(data, func(pos uint64) bool {
		return f.bits[pos>>6]&(1<<(pos&63)) != 0
	})
}

// AddString inserts s.
func (f *Filter) AddString(s string) { f.Add([]byte(s)) }

// TestString reports whether s may have been added.
func (f *Filter) TestString(s string) bool { return f.Test([]byte(s)) }

// Len returns the number of Add calls.
func (f *Filter) Len() uint { return f.count }

// Cap returns the size of the bit array.
func (f *Filter) Cap() uint64 { return f.m }

// K returns the number of probes per item.
func (f *Filter) K() uint64 { return f.k }

// EstimatedFalsePositiveRate returns (1 - e^(-k·n/m))^k for the current Len.
func (f *Filter) EstimatedFalsePositiveRate() float64 {
	k, n, m := float64(f.k), float64(f.count), float64(f.m)
	return math.Pow(1-math.Exp(-k*n/m), k)
}
