// Package gated implements the rank-guided randomized router whose next hops
// are gated by a Bloom filter over the candidate set.
//
// Per payment the router ranks every node by its distance to the destination,
// selects for each visited node a bounded list of strictly closer candidate
// neighbors, and inserts every (node, neighbor) candidate pair into a Bloom
// filter. The source owns its candidate list and picks its first hop from it
// directly. Every later hop only sees the filter: it shuffles all real
// outgoing neighbors and takes the first one that passes the filter and can
// carry the amount. A dead end fails the payment at once; there is no
// backtracking.
//
// Filter false positives may admit edges outside the candidate set, so a walk
// can revisit nodes. Walks longer than the number of nodes fail with
// routing.HopLimit.
package gated

import (
	"errors"
	"log/slog"
	"math/rand"

	"github.com/katalvlaran/pcnroute/bloom"
	"github.com/katalvlaran/pcnroute/ledger"
	"github.com/katalvlaran/pcnroute/network"
	"github.com/katalvlaran/pcnroute/rank"
	"github.com/katalvlaran/pcnroute/routing"
)

// Name is the router's report label.
const Name = "gated"

// Defaults.
const (
	DefaultCandidateWidth = 3000
	DefaultExpectedItems  = 100000
	DefaultFalsePositive  = 1e-7
)

// ErrNeedRand is returned by New when no random source is configured.
var ErrNeedRand = errors.New("gated: random source is required")

// Stats describes the filter of the most recent Route call.
type Stats struct {
	CandidatePairs int
	FilterBits     uint64
	FilterProbes   uint64
}

// Router is the Bloom-gated router. It is not safe for concurrent use.
type Router struct {
	net      *network.Network
	width    int
	expected uint
	rate     float64
	rankOpts []rank.Option
	rng      *rand.Rand
	logger   *slog.Logger
	last     Stats
	filter   *bloom.Filter
}

// Option configures a Router.
type Option func(*Router)

// WithCandidateWidth bounds each node's candidate list; k <= 0 means unbounded.
func WithCandidateWidth(k int) Option {
	return func(r *Router) {
		r.width = k
	}
}

// WithFilter sizes the Bloom filter. Panics if expected is 0 or rate is
// outside (0,1).
func WithFilter(expected uint, rate float64) Option {
	if _, err := bloom.New(expected, rate); err != nil {
		panic("gated: " + err.Error())
	}
	return func(r *Router) {
		r.expected, r.rate = expected, rate
	}
}

// WithRankOptions passes options to rank.Compute. The router's random source
// is supplied to rank first, so ModeRandom works without an explicit
// rank.WithRand.
func WithRankOptions(opts ...rank.Option) Option {
	return func(r *Router) {
		r.rankOpts = append(r.rankOpts, opts...)
	}
}

// WithRand sets the generator used for shuffling, filter seeds and random ranks.
func WithRand(rng *rand.Rand) Option {
	return func(r *Router) {
		r.rng = rng
	}
}

// WithLogger sets the logger for per-payment diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a Router over net. WithRand is required.
func New(net *network.Network, opts ...Option) (*Router, error) {
	r := &Router{
		net:      net,
		width:    DefaultCandidateWidth,
		expected: DefaultExpectedItems,
		rate:     DefaultFalsePositive,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		return nil, ErrNeedRand
	}
	return r, nil
}

// Name implements routing.Router.
func (r *Router) Name() string { return Name }

// Stats returns the filter statistics of the last Route call.
func (r *Router) Stats() Stats { return r.last }

// Admits reports whether the filter of the most recent Route call lets the
// directed pair u→v through. It is false before the first filter is built.
func (r *Router) Admits(u, v string) bool {
	return r.filter != nil && r.filter.TestString(pairKey(u, v))
}

// pairKey is the filter key of the directed pair u→v.
func pairKey(u, v string) string {
	return u + "\x00" + v
}

// Route walks from src towards dst and commits the realized path on success.
func (r *Router) Route(src, dst string, amountSat int64) routing.Result {
	res := routing.Result{Path: []string{src}}
	if src == dst && r.net.HasNode(src) {
		res.Success = true
		return res
	}

	// 1) Rank and candidates.
	opts := append([]rank.Option{rank.WithRand(r.rng)}, r.rankOpts...)
	rk, err := rank.Compute(r.net, dst, amountSat, opts...)
	if err != nil || !rk.Reachable(src) {
		return r.fail(res, routing.UnreachableDestination, src, dst)
	}
	cands := rank.Select(r.net, rk, amountSat, src, dst, r.width)

	// 2) Gossip the candidate pairs through the filter.
	filter, err := r.buildFilter(cands)
	if err != nil {
		return r.fail(res, routing.UnreachableDestination, src, dst)
	}

	// 3) First hop from the source's own candidate list.
	first, ok := r.firstHop(cands[src], src, amountSat)
	if !ok {
		return r.fail(res, routing.NoAdmissibleEdge, src, dst)
	}
	edges := []network.Edge{first}
	r.charge(&res, first, amountSat)

	// 4) Filter-gated walk.
	limit := len(r.net.Nodes())
	prev, cur := src, first.To
	for cur != dst {
		if res.Hops >= limit {
			return r.fail(res, routing.HopLimit, src, dst)
		}
		next, ok := r.nextHop(filter, prev, cur, amountSat)
		if !ok {
			return r.fail(res, routing.NoAdmissibleEdge, src, dst)
		}
		edges = append(edges, next)
		r.charge(&res, next, amountSat)
		prev, cur = cur, next.To
	}

	// 5) Commit.
	if err := ledger.CommitEdges(r.net, edges, amountSat); err != nil {
		r.logger.Warn("commit failed", slog.String("err", err.Error()))
		return r.fail(res, routing.CommitFailed, src, dst)
	}
	res.Success = true
	r.logger.Debug("routed",
		slog.String("router", Name), slog.Int("hops", res.Hops), slog.Int64("fee", res.Fee))
	return res
}

func (r *Router) buildFilter(cands rank.Candidates) (*bloom.Filter, error) {
	filter, err := bloom.New(r.expected, r.rate, bloom.WithSeed(r.rng.Uint32()))
	if err != nil {
		return nil, err
	}
	pairs := cands.Pairs()
	for _, e := range pairs {
		filter.AddString(pairKey(e.From, e.To))
	}
	r.last = Stats{CandidatePairs: len(pairs), FilterBits: filter.Cap(), FilterProbes: filter.K()}
	r.filter = filter
	return filter, nil
}

// firstHop tries the source's candidate edges in random order.
func (r *Router) firstHop(own []network.Edge, src string, amountSat int64) (network.Edge, bool) {
	order := append([]network.Edge(nil), own...)
	r.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	for _, e := range order {
		if ch, ok := r.net.Channel(e.ChannelID); ok && ch.Usable(src, amountSat) {
			return e, true
		}
	}
	return network.Edge{}, false
}

// nextHop shuffles all outgoing edges of cur and returns the first one that
// does not return to prev, passes the filter and can carry the amount.
func (r *Router) nextHop(filter *bloom.Filter, prev, cur string, amountSat int64) (network.Edge, bool) {
	order := append([]network.Edge(nil), r.net.Neighbors(cur)...)
	r.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	for _, e := range order {
		if e.To == prev || !filter.TestString(pairKey(cur, e.To)) {
			continue
		}
		if ch, ok := r.net.Channel(e.ChannelID); ok && ch.Usable(cur, amountSat) {
			return e, true
		}
	}
	return network.Edge{}, false
}

func (r *Router) charge(res *routing.Result, e network.Edge, amountSat int64) {
	ch, _ := r.net.Channel(e.ChannelID)
	res.Accumulate(ch, e.From, amountSat)
}

func (r *Router) fail(res routing.Result, reason routing.Reason, src, dst string) routing.Result {
	r.logger.Debug("route failed",
		slog.String("router", Name),
		slog.String("src", src),
		slog.String("dst", dst),
		slog.String("reason", reason.String()),
		slog.Int("hops", res.Hops))
	return res.Fail(reason)
}
