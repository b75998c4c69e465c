// Package reference implements the deterministic baseline router: a plain
// breadth-first shortest-hop search over edges that can carry the amount
// right now (online, directional capacity, HTLC bounds).
//
// Neighbors are explored in adjacency (record) order and the first
// discovered parent wins, so the same network state always yields the same
// path. The package also exposes Reachable, the read-only probe used to
// validate that a sampled payment has a real path before routers run.
package reference

import (
	"log/slog"

	"github.com/katalvlaran/pcnroute/ledger"
	"github.com/katalvlaran/pcnroute/network"
	"github.com/katalvlaran/pcnroute/routing"
)

// Name is the router's report label.
const Name = "reference"

// walker holds the mutable state of one search.
type walker struct {
	net    *network.Network
	amount int64
	queue  []string // FIFO frontier
	parent map[string]network.Edge // edge that discovered the node
	seen   map[string]bool
}

// search runs BFS from src until dst is discovered and returns the edges
// from src to dst, or nil if dst is unreachable.
func search(net *network.Network, src, dst string, amountSat int64) ([]network.Edge, bool) {
	if !net.HasNode(src) || !net.HasNode(dst) {
		return nil, false
	}
	if src == dst {
		return []network.Edge{}, true
	}
	w := &walker{
		net:    net,
		amount: amountSat,
		parent: make(map[string]network.Edge),
		seen:   map[string]bool{src: true},
	}
	w.queue = append(w.queue, src)

	for len(w.queue) > 0 {
		u := w.queue[0]
		w.queue = w.queue[1:]
		if w.expand(u, dst) {
			return w.pathTo(src, dst), true
		}
	}
	return nil, false
}

// expand enqueues every unseen neighbor reachable over a usable edge and
// reports whether dst was discovered.
func (w *walker) expand(u, dst string) bool {
	for _, e := range w.net.Neighbors(u) {
		if w.seen[e.To] {
			continue
		}
		ch, ok := w.net.Channel(e.ChannelID)
		if !ok || !ch.Usable(u, w.amount) {
			continue
		}
		w.seen[e.To] = true
		w.parent[e.To] = e
		if e.To == dst {
			return true
		}
		w.queue = append(w.queue, e.To)
	}
	return false
}

// pathTo walks parent links back from dst.
func (w *walker) pathTo(src, dst string) []network.Edge {
	var rev []network.Edge
	for cur := dst; cur != src; {
		e := w.parent[cur]
		rev = append(rev, e)
		cur = e.From
	}
	out := make([]network.Edge, len(rev))
	for i, e := range rev {
		out[len(rev)-1-i] = e
	}
	return out
}

// Reachable reports whether a usable path from src to dst exists for
// amountSat and returns its edges. The network is not modified.
func Reachable(net *network.Network, src, dst string, amountSat int64) (bool, []network.Edge) {
	edges, ok := search(net, src, dst, amountSat)
	return ok, edges
}

// Router is the deterministic BFS router.
type Router struct {
	net    *network.Network
	logger *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger for per-payment diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a Router over net.
func New(net *network.Network, opts ...Option) *Router {
	r := &Router{net: net, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements routing.Router.
func (r *Router) Name() string { return Name }

// Route finds the shortest usable path and commits it.
func (r *Router) Route(src, dst string, amountSat int64) routing.Result {
	res := routing.Result{Path: []string{src}}
	edges, ok := search(r.net, src, dst, amountSat)
	if !ok {
		r.logger.Debug("no path", slog.String("src", src), slog.String("dst", dst))
		return res.Fail(routing.UnreachableDestination)
	}
	for _, e := range edges {
		ch, _ := r.net.Channel(e.ChannelID)
		res.Accumulate(ch, e.From, amountSat)
	}
	if err := ledger.CommitEdges(r.net, edges, amountSat); err != nil {
		r.logger.Warn("commit failed", slog.String("err", err.Error()))
		return res.Fail(routing.CommitFailed)
	}
	res.Success = true
	return res
}
