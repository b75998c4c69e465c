package landmark

import (
	"log/slog"
	"sort"

	"github.com/katalvlaran/pcnroute/network"
)

// onFlip is the network listener registered by New.
func (r *Router) onFlip(f network.Flip) {
	r.repair(f.From, f.To)
}

// Stabilize repairs every tree around both endpoints of channel id, as a
// capacity flip on it would. Unknown ids are ignored.
func (r *Router) Stabilize(id string) {
	ch, ok := r.net.Channel(id)
	if !ok {
		return
	}
	r.repair(ch.U, ch.V)
}

// repair resets the subtrees of u and then v in every tree.
func (r *Router) repair(u, v string) {
	for t := range r.landmarks {
		for _, node := range []string{u, v} {
			c, ok := r.Coordinate(node, t)
			if !ok || c.Depth() == 0 {
				continue
			}
			r.resetSubtree(t, node, c)
		}
	}
}

// resetSubtree deletes the subtree under prefix in tree t and reinserts its
// members shallowest first. Equal depths are reinserted in node order.
func (r *Router) resetSubtree(t int, root string, prefix Coordinate) {
	// 1) Collect members with their depth before deletion.
	type member struct {
		node  string
		depth int
	}
	var members []member
	for k, c := range r.coords {
		if k.tree == t && c.HasPrefix(prefix) {
			members = append(members, member{k.node, c.Depth()})
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].depth != members[j].depth {
			return members[i].depth < members[j].depth
		}
		return members[i].node < members[j].node
	})

	// 2) Delete.
	for _, m := range members {
		delete(r.coords, key{m.node, t})
	}

	// 3) Reinsert under the best placed neighbor.
	orphans := 0
	for _, m := range members {
		parent, ok := r.parent(t, m.node)
		if !ok {
			orphans++
			continue
		}
		pc := r.coords[key{parent, t}]
		r.assign(m.node, t, pc.Child(r.rng.Uint64()))
	}
	r.logger.Debug("subtree stabilized",
		slog.Int("tree", t),
		slog.String("root", root),
		slog.Int("members", len(members)),
		slog.Int("orphans", orphans))
}

// parent picks the shallowest placed neighbor of node, preferring channels
// with capacity in both directions over channels with capacity in one.
func (r *Router) parent(t int, node string) (string, bool) {
	best, bestDepth := "", -1
	bestBoth := false
	for _, e := range r.net.Neighbors(node) {
		c, ok := r.coords[key{e.To, t}]
		if !ok {
			continue
		}
		ch, ok := r.net.Channel(e.ChannelID)
		if !ok {
			continue
		}
		fwd, back := ch.Capacity(node) > 0, ch.Capacity(e.To) > 0
		if !fwd && !back {
			continue
		}
		both := fwd && back
		switch {
		case bestDepth < 0,
			both && !bestBoth,
			both == bestBoth && c.Depth() < bestDepth:
			best, bestDepth, bestBoth = e.To, c.Depth(), both
		}
	}
	return best, bestDepth >= 0
}
