package gen

import (
	"fmt"

	"github.com/katalvlaran/pcnroute/network"
)

// Record returns an eligible (public, active, enabled) record for direction
// u→v of channel id with policy p.
func Record(id, u, v string, sat int64, p network.Policy) network.Record {
	return network.Record{
		Source:      u,
		Destination: v,
		ChannelID:   id,
		Public:      true,
		Active:      true,
		Satoshis:    sat,
		BaseFeeMsat: p.BaseFeeMsat,
		FeePPM:      p.FeeRatePPM,
		HTLCMinMsat: network.FormatMsat(p.HTLCMinMsat),
		HTLCMaxMsat: network.FormatMsat(p.HTLCMaxMsat),
		Delay:       p.Delay,
	}
}

// channelID renders a short-channel-id style identifier for pair (i, j).
func channelID(i, j int) string {
	return fmt.Sprintf("%dx%dx0", i, j)
}

// emit appends the forward record of channel i–j and, with the configured
// probability, its reverse record.
func (c config) emit(out []network.Record, i, j int) []network.Record {
	u, v := c.idFn(i), c.idFn(j)
	sat := c.capacity()
	id := channelID(i, j)
	out = append(out, Record(id, u, v, sat, c.directionPolicy(sat)))
	if c.biProb >= 1 || (c.rng != nil && c.rng.Float64() < c.biProb) {
		out = append(out, Record(id, v, u, sat, c.directionPolicy(sat)))
	}
	return out
}

// Path returns the line 0–1–…–(n-1). Channels are bidirectional unless
// WithBidirectionalProb lowers the probability (which then needs an RNG).
func Path(n int, opts ...Option) ([]network.Record, error) {
	if n < 2 {
		return nil, fmt.Errorf("Path: n=%d < 2: %w", n, ErrTooFewVertices)
	}
	cfg := newConfig(opts...)
	if cfg.biProb > 0 && cfg.biProb < 1 && cfg.rng == nil {
		return nil, fmt.Errorf("Path: %w", ErrNeedRandSource)
	}
	var out []network.Record
	for i := 0; i+1 < n; i++ {
		out = cfg.emit(out, i, i+1)
	}
	return out, nil
}

// Diamond returns src→a→dst and src→b→dst with the given per-channel
// capacity, all unidirectional, the canonical four-node topology.
// Node ids are "src", "a", "b" and "dst".
func Diamond(sat int64, opts ...Option) []network.Record {
	cfg := newConfig(opts...)
	p := cfg.directionPolicy(sat)
	return []network.Record{
		Record("src-a", "src", "a", sat, p),
		Record("src-b", "src", "b", sat, p),
		Record("a-dst", "a", "dst", sat, p),
		Record("b-dst", "b", "dst", sat, p),
	}
}

// RandomSparse samples an Erdős–Rényi-like channel graph: every unordered
// pair {i, j}, i < j, becomes a channel with probability p.
//
// Contract:
//   - n >= 2 (else ErrTooFewVertices).
//   - 0 <= p <= 1 (else ErrInvalidProbability).
//   - an RNG is required when 0 < p < 1 or when capacities, fees or
//     bidirectionality are randomized (else ErrNeedRandSource).
//
// Complexity: O(n²) Bernoulli trials.
func RandomSparse(n int, p float64, opts ...Option) ([]network.Record, error) {
	if n < 2 {
		return nil, fmt.Errorf("RandomSparse: n=%d < 2: %w", n, ErrTooFewVertices)
	}
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("RandomSparse: p=%.6f: %w", p, ErrInvalidProbability)
	}
	cfg := newConfig(opts...)
	stochastic := (p > 0 && p < 1) || cfg.capLo != cfg.capHi || cfg.randomFee || (cfg.biProb > 0 && cfg.biProb < 1)
	if stochastic && cfg.rng == nil {
		return nil, fmt.Errorf("RandomSparse: %w", ErrNeedRandSource)
	}

	var out []network.Record
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if p < 1 && (p == 0 || cfg.rng.Float64() >= p) {
				continue
			}
			out = cfg.emit(out, i, j)
		}
	}
	return out, nil
}
