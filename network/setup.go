// SPDX-License-Identifier: MIT
// Package: pcnroute/network
//
// setup.go — pre-run perturbations: forcing channels offline and saturating
// channels (pushing all capacity to one direction).
//
// Determinism:
//   - Sampling always starts from id-sorted (or node-sorted) lists, so a
//     fixed seed yields the same selection on every clone of a network.

package network

import (
	"fmt"
	"log/slog"
	"math/rand"
)

// SaturationMode selects which channels Saturate drains.
type SaturationMode string

const (
	// SaturateRandom samples channels uniformly from the whole network.
	SaturateRandom SaturationMode = "random"
	// SaturatePerNode samples a share of every node's outgoing channels.
	SaturatePerNode SaturationMode = "per_node"
	// SaturateRanked takes channels in a caller-supplied order, e.g. by betweenness.
	SaturateRanked SaturationMode = "ranked"
)

// ParseSaturationMode converts s to a SaturationMode.
func ParseSaturationMode(s string) (SaturationMode, error) {
	switch m := SaturationMode(s); m {
	case SaturateRandom, SaturatePerNode, SaturateRanked:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadSaturationMode, s)
}

func checkFraction(f float64) error {
	if f < 0 || f > 1 {
		return fmt.Errorf("%w: %v", ErrBadFraction, f)
	}
	return nil
}

// sample returns count distinct items of ids drawn without replacement.
func sample(ids []string, count int, rng *rand.Rand) []string {
	pool := append([]string(nil), ids...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if count > len(pool) {
		count = len(pool)
	}
	return pool[:count]
}

// MakeOffline marks floor(fraction*|channels|) distinct channels offline and
// returns their ids.
func (n *Network) MakeOffline(fraction float64, rng *rand.Rand) ([]string, error) {
	if err := checkFraction(fraction); err != nil {
		return nil, err
	}
	if fraction == 0 {
		return nil, nil
	}
	if rng == nil {
		return nil, ErrNeedRand
	}

	ids := n.ChannelIDs()
	chosen := sample(ids, int(fraction*float64(len(ids))), rng)
	for _, id := range chosen {
		n.channels[id].Online = false
	}
	n.logger.Info("channels forced offline", slog.Int("count", len(chosen)))
	return chosen, nil
}

// saturate pushes the whole capacity of a channel to direction U→V.
func (n *Network) saturate(ch *Channel) {
	_, _ = n.SetCapacity(ch.U, ch.ID, ch.TotalCapacity)
	_, _ = n.SetCapacity(ch.V, ch.ID, 0)
}

// Saturate drains one direction of a share of channels according to mode and
// returns the saturated channel ids. ranked is consulted only by
// SaturateRanked: rows naming unknown channels are ignored, the budget is
// fraction of the remaining rows, and each node saturates at most one
// channel (its first row). Rows without a node are limited by channel only.
func (n *Network) Saturate(fraction float64, mode SaturationMode, rng *rand.Rand, ranked []RankedChannel) ([]string, error) {
	if err := checkFraction(fraction); err != nil {
		return nil, err
	}
	if _, err := ParseSaturationMode(string(mode)); err != nil {
		return nil, err
	}
	if fraction == 0 {
		return nil, nil
	}
	if rng == nil && mode != SaturateRanked {
		return nil, ErrNeedRand
	}

	var chosen []string
	switch mode {
	case SaturateRandom:
		ids := n.ChannelIDs()
		chosen = sample(ids, int(fraction*float64(len(ids))), rng)

	case SaturatePerNode:
		seen := make(map[string]bool)
		for _, node := range n.Nodes() {
			edges := n.adj[node]
			ids := make([]string, 0, len(edges))
			for _, e := range edges {
				ids = append(ids, e.ChannelID)
			}
			for _, id := range sample(ids, int(fraction*float64(len(ids))), rng) {
				if !seen[id] {
					seen[id] = true
					chosen = append(chosen, id)
				}
			}
		}

	case SaturateRanked:
		known := make([]RankedChannel, 0, len(ranked))
		for _, row := range ranked {
			if _, ok := n.channels[row.ChannelID]; ok {
				known = append(known, row)
			}
		}
		budget := int(fraction * float64(len(known)))
		nodes := make(map[string]bool)
		ids := make(map[string]bool)
		for _, row := range known {
			if len(chosen) == budget {
				break
			}
			if ids[row.ChannelID] || (row.Node != "" && nodes[row.Node]) {
				continue
			}
			ids[row.ChannelID] = true
			if row.Node != "" {
				nodes[row.Node] = true
			}
			chosen = append(chosen, row.ChannelID)
		}
	}

	for _, id := range chosen {
		n.saturate(n.channels[id])
	}
	n.logger.Info("channels saturated",
		slog.String("mode", string(mode)), slog.Int("count", len(chosen)))
	return chosen, nil
}
