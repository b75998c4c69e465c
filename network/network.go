// SPDX-License-Identifier: MIT
// Package: pcnroute/network
//
// network.go — the Network type, construction, lookups and capacity mutation.
//
// Determinism:
//   - Neighbors/Predecessors preserve record insertion order.
//   - Nodes and ChannelIDs are returned sorted.

package network

import (
	"fmt"
	"log/slog"
	"sort"
)

// DefaultSplitRatio is the share of TotalCapacity given to direction U→V.
const DefaultSplitRatio = 0.5

// Option configures a Network at construction.
type Option func(*Network)

// WithSplitRatio sets the share of a new channel's total capacity assigned
// to direction U→V; the remainder goes to V→U. Panics outside [0,1].
func WithSplitRatio(r float64) Option {
	if r < 0 || r > 1 {
		panic("network: WithSplitRatio outside [0,1]")
	}
	return func(n *Network) {
		n.splitRatio = r
	}
}

// WithLogger sets the logger used for ingestion and setup diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(n *Network) {
		if l != nil {
			n.logger = l
		}
	}
}

// Network is a directed-capacity multigraph of payment channels.
type Network struct {
	splitRatio float64
	logger     *slog.Logger

	nodes    map[string]struct{}
	order    []string // sorted node cache; nil when stale
	adj      map[string][]Edge
	rev      map[string][]Edge
	channels map[string]*Channel

	listeners []FlipListener
	skipped   int
}

// New returns an empty Network.
func New(opts ...Option) *Network {
	n := &Network{
		splitRatio: DefaultSplitRatio,
		logger:     slog.New(slog.DiscardHandler),
		nodes:      make(map[string]struct{}),
		adj:        make(map[string][]Edge),
		rev:        make(map[string][]Edge),
		channels:   make(map[string]*Channel),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Build constructs a Network from records, skipping ineligible or malformed ones.
func Build(records []Record, opts ...Option) *Network {
	n := New(opts...)
	for _, r := range records {
		n.AddRecord(r)
	}
	n.logger.Debug("network built",
		slog.Int("nodes", len(n.nodes)),
		slog.Int("channels", len(n.channels)),
		slog.Int("skipped", n.skipped))
	return n
}

// AddRecord incorporates one snapshot record. It reports whether the record
// changed the network. Records that are not public, not active, disabled,
// malformed, or repeat an already known direction are skipped.
func (n *Network) AddRecord(r Record) bool {
	if !r.Eligible() {
		return false
	}
	p, total, err := r.parse()
	if err != nil {
		n.skipped++
		n.logger.Debug("skipping malformed record",
			slog.String("channel", r.ChannelID), slog.String("err", err.Error()))
		return false
	}

	if ch, ok := n.channels[r.ChannelID]; ok {
		// A known id supplies the reverse direction only.
		if ch.Bi || r.Source != ch.V || r.Destination != ch.U {
			n.skipped++
			return false
		}
		ch.PolicyV = p
		ch.Bi = true
		n.link(ch.V, ch.U, ch.ID)
		return true
	}

	uv := int64(float64(total) * n.splitRatio)
	ch := &Channel{
		ID:            r.ChannelID,
		U:             r.Source,
		V:             r.Destination,
		CapacityUV:    uv,
		CapacityVU:    total - uv,
		TotalCapacity: total,
		PolicyU:       p,
		MessageFlags:  r.MessageFlags,
		Online:        true,
	}
	n.channels[ch.ID] = ch
	n.addNode(ch.U)
	n.addNode(ch.V)
	n.link(ch.U, ch.V, ch.ID)
	return true
}

func (n *Network) addNode(id string) {
	if _, ok := n.nodes[id]; ok {
		return
	}
	n.nodes[id] = struct{}{}
	n.order = nil
}

// link appends the directed edge to both adjacency relations.
func (n *Network) link(from, to, id string) {
	e := Edge{From: from, To: to, ChannelID: id}
	n.adj[from] = append(n.adj[from], e)
	n.rev[to] = append(n.rev[to], e)
}

// Nodes returns all node ids in ascending order. The slice must not be modified.
func (n *Network) Nodes() []string {
	if n.order == nil {
		n.order = make([]string, 0, len(n.nodes))
		for id := range n.nodes {
			n.order = append(n.order, id)
		}
		sort.Strings(n.order)
	}
	return n.order
}

// HasNode reports whether id is a node of the network.
func (n *Network) HasNode(id string) bool {
	_, ok := n.nodes[id]
	return ok
}

// Neighbors returns the outgoing edges of node. The slice must not be modified.
func (n *Network) Neighbors(node string) []Edge {
	return n.adj[node]
}

// Predecessors returns the incoming edges of node. The slice must not be modified.
func (n *Network) Predecessors(node string) []Edge {
	return n.rev[node]
}

// Degree returns the out-degree of node.
func (n *Network) Degree(node string) int {
	return len(n.adj[node])
}

// Channel returns the channel with the given id.
func (n *Network) Channel(id string) (*Channel, bool) {
	ch, ok := n.channels[id]
	return ch, ok
}

// ChannelIDs returns all channel ids in ascending order.
func (n *Network) ChannelIDs() []string {
	ids := make([]string, 0, len(n.channels))
	for id := range n.channels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ChannelBetween returns the first channel on u's adjacency that reaches v.
func (n *Network) ChannelBetween(u, v string) (*Channel, bool) {
	for _, e := range n.adj[u] {
		if e.To == v {
			return n.channels[e.ChannelID], true
		}
	}
	return nil, false
}

// OnFlip registers a listener for zero/nonzero capacity flips.
func (n *Network) OnFlip(fn FlipListener) {
	if fn != nil {
		n.listeners = append(n.listeners, fn)
	}
}

// SetCapacity sets the capacity of the direction of channel id leaving from,
// clamped at zero. It reports whether the direction flipped between zero and
// nonzero, in which case registered listeners are notified.
func (n *Network) SetCapacity(from, id string, value int64) (bool, error) {
	ch, ok := n.channels[id]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownChannel, id)
	}
	if value < 0 {
		value = 0
	}

	var old int64
	switch from {
	case ch.U:
		old, ch.CapacityUV = ch.CapacityUV, value
	case ch.V:
		old, ch.CapacityVU = ch.CapacityVU, value
	default:
		return false, fmt.Errorf("%w: %q is not an endpoint of %q", ErrUnknownNode, from, id)
	}

	if (old == 0) == (value == 0) {
		return false, nil
	}
	ev := Flip{ChannelID: id, From: from, To: ch.Other(from), Usable: value > 0}
	for _, fn := range n.listeners {
		fn(ev)
	}
	return true, nil
}

// Clone returns a deep copy of the network state. Listeners are not copied.
func (n *Network) Clone() *Network {
	c := &Network{
		splitRatio: n.splitRatio,
		logger:     n.logger,
		nodes:      make(map[string]struct{}, len(n.nodes)),
		adj:        make(map[string][]Edge, len(n.adj)),
		rev:        make(map[string][]Edge, len(n.rev)),
		channels:   make(map[string]*Channel, len(n.channels)),
		skipped:    n.skipped,
	}
	for id := range n.nodes {
		c.nodes[id] = struct{}{}
	}
	for id, edges := range n.adj {
		c.adj[id] = append([]Edge(nil), edges...)
	}
	for id, edges := range n.rev {
		c.rev[id] = append([]Edge(nil), edges...)
	}
	for id, ch := range n.channels {
		cp := *ch
		c.channels[id] = &cp
	}
	return c
}

// Stats returns summary counts.
func (n *Network) Stats() Stats {
	s := Stats{
		Nodes:    len(n.nodes),
		Channels: len(n.channels),
		Skipped:  n.skipped,
	}
	for _, ch := range n.channels {
		if ch.Bi {
			s.Bidirectional++
		}
		if ch.Online {
			s.Online++
		}
	}
	for _, edges := range n.adj {
		s.Edges += len(edges)
	}
	return s
}
