package rank

import (
	"sort"

	"github.com/katalvlaran/pcnroute/network"
)

// Candidates maps a node to its bounded list of strictly rank-descending
// outgoing edges. Nodes that were never visited are absent.
type Candidates map[string][]network.Edge

// Contains reports whether u→v is a candidate edge.
func (c Candidates) Contains(u, v string) bool {
	for _, e := range c[u] {
		if e.To == v {
			return true
		}
	}
	return false
}

// Pairs returns every candidate (node, neighbor) edge, ordered by node.
func (c Candidates) Pairs() []network.Edge {
	nodes := make([]string, 0, len(c))
	for u := range c {
		nodes = append(nodes, u)
	}
	sort.Strings(nodes)

	var out []network.Edge
	for _, u := range nodes {
		out = append(out, c[u]...)
	}
	return out
}

// Select explores forward from src and collects, for every visited node u,
// the admissible outgoing edges u→v with r[v] < r[u], keeping the k with the
// smallest r[v] (k <= 0 keeps all). The walk continues breadth-first over the
// kept edges, visits each node at most once and stops once dst is dequeued;
// dst maps to an empty list.
func Select(net *network.Network, r Rank, amountSat int64, src, dst string, k int) Candidates {
	out := make(Candidates)
	if net == nil || !net.HasNode(src) {
		return out
	}

	queue := []string{src}
	seen := make(map[string]bool)
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if seen[u] {
			continue
		}
		seen[u] = true
		if u == dst {
			out[u] = []network.Edge{}
			break
		}

		// 1) Strictly descending admissible edges.
		ru := r.Of(u)
		var strict []network.Edge
		for _, e := range net.Neighbors(u) {
			ch, ok := net.Channel(e.ChannelID)
			if !ok || !Admissible(ch, u, amountSat) {
				continue
			}
			if r.Of(e.To) < ru {
				strict = append(strict, e)
			}
		}

		// 2) Keep the k closest to the destination.
		sort.SliceStable(strict, func(i, j int) bool {
			return r.Of(strict[i].To) < r.Of(strict[j].To)
		})
		if k > 0 && len(strict) > k {
			strict = strict[:k]
		}
		out[u] = strict

		// 3) Continue over the kept edges only.
		for _, e := range strict {
			if !seen[e.To] {
				queue = append(queue, e.To)
			}
		}
	}
	return out
}
