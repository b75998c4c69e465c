// Package ledger applies routing decisions to a network: after a router has
// established end-to-end success it commits the amount along the realized
// path, moving capacity from each forward direction to its reverse.
//
// Commit never deducts partially: every hop is resolved to a channel before
// the first capacity changes. Capacity moves through network.SetCapacity, so
// directions that flip between zero and nonzero are published to the
// network's flip listeners (landmark stabilization hooks in there).
package ledger

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/pcnroute/network"
)

// ErrNoChannel is returned when two consecutive path nodes share no channel.
var ErrNoChannel = errors.New("ledger: no channel between consecutive path nodes")

// resolve maps every consecutive pair of path to the first channel u→v.
func resolve(net *network.Network, path []string) ([]network.Edge, error) {
	edges := make([]network.Edge, 0, len(path))
	for i := 0; i+1 < len(path); i++ {
		u, v := path[i], path[i+1]
		ch, ok := net.ChannelBetween(u, v)
		if !ok {
			return nil, fmt.Errorf("%w: %q→%q", ErrNoChannel, u, v)
		}
		edges = append(edges, network.Edge{From: u, To: v, ChannelID: ch.ID})
	}
	return edges, nil
}

// Commit moves amountSat along path: for every hop u→v the capacity of u→v
// becomes max(0, cap-amount) and the capacity of v→u grows by amount. Paths
// with fewer than two nodes are a no-op.
func Commit(net *network.Network, path []string, amountSat int64) error {
	edges, err := resolve(net, path)
	if err != nil {
		return err
	}
	return apply(net, edges, amountSat)
}

// CommitEdges is Commit for a path given as the exact channel directions a
// router traversed, which matters when parallel channels join two nodes.
func CommitEdges(net *network.Network, edges []network.Edge, amountSat int64) error {
	if err := check(net, edges); err != nil {
		return err
	}
	return apply(net, edges, amountSat)
}

// Revert undoes a Commit of the same path and amount. The clamp at zero is
// not recorded, so Revert restores the exact prior state only when no hop
// was clamped.
func Revert(net *network.Network, path []string, amountSat int64) error {
	edges, err := resolve(net, path)
	if err != nil {
		return err
	}
	return apply(net, edges, -amountSat)
}

// check verifies that every edge names a channel joining its endpoints.
func check(net *network.Network, edges []network.Edge) error {
	for _, e := range edges {
		ch, ok := net.Channel(e.ChannelID)
		if !ok || ch.Other(e.From) != e.To || e.From == "" {
			return fmt.Errorf("%w: %q→%q via %q", ErrNoChannel, e.From, e.To, e.ChannelID)
		}
	}
	return nil
}

// apply moves delta along already validated edges.
func apply(net *network.Network, edges []network.Edge, delta int64) error {
	for _, e := range edges {
		ch, _ := net.Channel(e.ChannelID)
		if _, err := net.SetCapacity(e.From, ch.ID, ch.Capacity(e.From)-delta); err != nil {
			return err
		}
		if _, err := net.SetCapacity(e.To, ch.ID, ch.Capacity(e.To)+delta); err != nil {
			return err
		}
	}
	return nil
}
