package landmark

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/pcnroute/ledger"
	"github.com/katalvlaran/pcnroute/network"
	"github.com/katalvlaran/pcnroute/routing"
)

// Name is the router's report label.
const Name = "landmark"

// DefaultTrees is the number of landmark trees built by Setup.
const DefaultTrees = 1

// Sentinel errors.
var (
	// ErrNeedRand is returned by New when no random source is configured.
	ErrNeedRand = errors.New("landmark: random source is required")

	// ErrEmptyNetwork is returned by Setup on a network without nodes.
	ErrEmptyNetwork = errors.New("landmark: network has no nodes")

	// ErrUnknownLandmark is returned by Setup when a pinned landmark is not a node.
	ErrUnknownLandmark = errors.New("landmark: pinned landmark not found")
)

// key addresses one coordinate.
type key struct {
	node string
	tree int
}

// Router routes greedily over landmark embeddings of its network and keeps
// them repaired as capacities flip. It is not safe for concurrent use.
type Router struct {
	net     *network.Network
	trees   int
	pinned  []string
	rng     *rand.Rand
	logger  *slog.Logger
	counter prometheus.Counter

	landmarks []string
	coords    map[key]Coordinate
	messages  int64
}

// Option configures a Router.
type Option func(*Router)

// WithTrees sets the number of landmark trees. Panics if n < 1.
func WithTrees(n int) Option {
	if n < 1 {
		panic("landmark: WithTrees(n<1)")
	}
	return func(r *Router) {
		r.trees = n
	}
}

// WithLandmarks pins the landmark nodes instead of choosing them by degree.
// The number of trees becomes len(ids).
func WithLandmarks(ids ...string) Option {
	if len(ids) == 0 {
		panic("landmark: WithLandmarks()")
	}
	return func(r *Router) {
		r.pinned = append([]string(nil), ids...)
	}
}

// WithRand sets the generator for landmark tie-breaks and coordinate suffixes.
func WithRand(rng *rand.Rand) Option {
	return func(r *Router) {
		r.rng = rng
	}
}

// WithLogger sets the logger for setup and stabilization diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMessageCounter mirrors stabilization messages into c.
func WithMessageCounter(c prometheus.Counter) Option {
	return func(r *Router) {
		r.counter = c
	}
}

// New returns a Router over net and subscribes it to the network's capacity
// flips. Call Setup before routing.
func New(net *network.Network, opts ...Option) (*Router, error) {
	r := &Router{
		net:    net,
		trees:  DefaultTrees,
		logger: slog.New(slog.DiscardHandler),
		coords: make(map[key]Coordinate),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		return nil, ErrNeedRand
	}
	net.OnFlip(r.onFlip)
	return r, nil
}

// Name implements routing.Router.
func (r *Router) Name() string { return Name }

// Landmarks returns the tree roots chosen by the last Setup, in tree order.
func (r *Router) Landmarks() []string {
	return append([]string(nil), r.landmarks...)
}

// Coordinate returns node's coordinate in tree, if assigned.
func (r *Router) Coordinate(node string, tree int) (Coordinate, bool) {
	c, ok := r.coords[key{node, tree}]
	return c, ok
}

// Messages returns the number of coordinate assignments since New, across
// every Setup and repair. It always equals what the message counter saw.
func (r *Router) Messages() int64 { return r.messages }

// Setup chooses landmarks and builds every tree from scratch. Existing
// coordinates are discarded; their messages stay counted.
func (r *Router) Setup() error {
	nodes := r.net.Nodes()
	if len(nodes) == 0 {
		return ErrEmptyNetwork
	}

	// 1) Landmarks: pinned, or top out-degree with random tie-breaks.
	if len(r.pinned) > 0 {
		for _, id := range r.pinned {
			if !r.net.HasNode(id) {
				return fmt.Errorf("%w: %q", ErrUnknownLandmark, id)
			}
		}
		r.landmarks = append([]string(nil), r.pinned...)
	} else {
		order := append([]string(nil), nodes...)
		r.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		sort.SliceStable(order, func(i, j int) bool {
			return r.net.Degree(order[i]) > r.net.Degree(order[j])
		})
		r.landmarks = order[:min(r.trees, len(order))]
	}

	// 2) One two-phase tree per landmark.
	r.coords = make(map[key]Coordinate)
	before := r.messages
	for t, root := range r.landmarks {
		r.embed(t, root)
	}
	r.logger.Info("landmark trees built",
		slog.Any("landmarks", r.landmarks),
		slog.Int("coordinates", len(r.coords)),
		slog.Int64("messages", r.messages-before))
	return nil
}

// assign stores a coordinate and counts one stabilization message.
func (r *Router) assign(node string, tree int, c Coordinate) {
	r.coords[key{node, tree}] = c
	r.messages++
	if r.counter != nil {
		r.counter.Inc()
	}
}

// embed builds tree t rooted at root.
func (r *Router) embed(t int, root string) {
	r.assign(root, t, Coordinate{})

	// Phase 1: bidirectional channels only.
	placed := r.grow(t, []string{root}, func(ch *network.Channel) bool { return ch.Bi })

	// Phase 2: from every phase-1 node over any funded channel.
	r.grow(t, placed, func(ch *network.Channel) bool { return ch.TotalCapacity > 0 })
}

// grow runs BFS from queue over channels accepted by admit, assigning child
// coordinates to unplaced nodes. It returns every node it dequeued.
func (r *Router) grow(t int, queue []string, admit func(*network.Channel) bool) []string {
	queue = append([]string(nil), queue...)
	var visited []string
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		visited = append(visited, u)
		cu := r.coords[key{u, t}]
		for _, e := range r.net.Neighbors(u) {
			if _, ok := r.coords[key{e.To, t}]; ok {
				continue
			}
			ch, ok := r.net.Channel(e.ChannelID)
			if !ok || !admit(ch) {
				continue
			}
			r.assign(e.To, t, cu.Child(r.rng.Uint64()))
			queue = append(queue, e.To)
		}
	}
	return visited
}

// Route tries every tree in order and commits the first successful path.
// On failure the counters of the last attempted tree are returned.
func (r *Router) Route(src, dst string, amountSat int64) routing.Result {
	last := routing.Result{Path: []string{src}}.Fail(routing.UnreachableDestination)
	for t := range r.landmarks {
		res, edges := r.walk(t, src, dst, amountSat)
		if !res.Success {
			last = res
			continue
		}
		if err := ledger.CommitEdges(r.net, edges, amountSat); err != nil {
			r.logger.Warn("commit failed", slog.String("err", err.Error()))
			return res.Fail(routing.CommitFailed)
		}
		return res
	}
	r.logger.Debug("route failed",
		slog.String("router", Name),
		slog.String("src", src),
		slog.String("dst", dst),
		slog.String("reason", last.Reason.String()))
	return last
}

// walk forwards greedily in tree t without committing.
func (r *Router) walk(t int, src, dst string, amountSat int64) (routing.Result, []network.Edge) {
	res := routing.Result{Path: []string{src}}
	target, ok := r.Coordinate(dst, t)
	if !ok {
		return res.Fail(routing.UnreachableDestination), nil
	}
	var edges []network.Edge
	for cur := src; cur != dst; {
		here, ok := r.Coordinate(cur, t)
		if !ok {
			return res.Fail(routing.UnreachableDestination), nil
		}

		// Closest usable neighbor strictly nearer than cur.
		var next network.Edge
		best := Distance(here, target)
		found := false
		for _, e := range r.net.Neighbors(cur) {
			ch, ok := r.net.Channel(e.ChannelID)
			if !ok || !ch.Usable(cur, amountSat) {
				continue
			}
			c, ok := r.Coordinate(e.To, t)
			if !ok {
				continue
			}
			if d := Distance(c, target); d < best {
				next, best, found = e, d, true
			}
		}
		if !found {
			return res.Fail(routing.NoAdmissibleEdge), nil
		}

		ch, _ := r.net.Channel(next.ChannelID)
		res.Accumulate(ch, cur, amountSat)
		edges = append(edges, next)
		cur = next.To
	}
	res.Success = true
	return res, edges
}
