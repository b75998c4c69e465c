package rank

import (
	"container/heap"
	"fmt"

	"github.com/katalvlaran/pcnroute/network"
)

// Compute returns the rank of every node of net with respect to dst for
// amountSat. rank[dst] is 0 and nodes that cannot reach dst over admissible
// edges keep Infinity.
func Compute(net *network.Network, dst string, amountSat int64, opts ...Option) (Rank, error) {
	// 1) Build and validate options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if net == nil {
		return nil, ErrNilNetwork
	}
	if !net.HasNode(dst) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, dst)
	}
	if amountSat <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadAmount, amountSat)
	}
	if cfg.Mode == ModeRandom && cfg.Rand == nil {
		return nil, ErrNeedRand
	}

	// 2) Every node starts unreachable; the destination is the only source.
	nodes := net.Nodes()
	r := make(Rank, len(nodes))
	for _, id := range nodes {
		r[id] = Infinity
	}
	r[dst] = 0

	// 3) Relax with the rule selected by the mode.
	if cfg.Mode == ModeHop {
		reverseBFS(net, r, dst, amountSat)
		return r, nil
	}
	w := &reverseDijkstra{
		net:    net,
		rank:   r,
		amount: amountSat,
		weight: weightFunc(cfg, amountSat),
		done:   make(map[string]bool, len(nodes)),
	}
	w.run(dst)
	return r, nil
}

// reverseBFS relaxes rank[cur]+1 < rank[prev] over admissible reverse edges.
// A node is enqueued each time its rank improves; in unit-weight BFS that
// happens at most once.
func reverseBFS(net *network.Network, r Rank, dst string, amountSat int64) {
	queue := []string{dst}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		next := r[cur] + 1

		for _, e := range net.Predecessors(cur) {
			ch, ok := net.Channel(e.ChannelID)
			if !ok || !Admissible(ch, e.From, amountSat) {
				continue
			}
			if next < r[e.From] {
				r[e.From] = next
				queue = append(queue, e.From)
			}
		}
	}
}

// weightFunc builds the per-edge cost for the weighted modes. Random weights
// are drawn lazily but memoized, so every channel direction has one weight
// for the whole computation.
func weightFunc(cfg Options, amountSat int64) func(ch *network.Channel, from string) int64 {
	if cfg.Mode == ModeFee {
		return func(ch *network.Channel, from string) int64 {
			return ch.Fee(from, amountSat) + 1
		}
	}
	drawn := make(map[network.Edge]int64)
	return func(ch *network.Channel, from string) int64 {
		key := network.Edge{From: from, To: ch.Other(from), ChannelID: ch.ID}
		if w, ok := drawn[key]; ok {
			return w
		}
		w := 1 + cfg.Rand.Int63n(cfg.MaxWeight)
		drawn[key] = w
		return w
	}
}

// reverseDijkstra holds the mutable state of one weighted computation.
type reverseDijkstra struct {
	net    *network.Network
	rank   Rank
	amount int64
	weight func(ch *network.Channel, from string) int64
	done   map[string]bool // finalized nodes
	pq     nodePQ
}

// run processes nodes in increasing rank, lazily skipping stale heap entries.
func (w *reverseDijkstra) run(dst string) {
	heap.Init(&w.pq)
	heap.Push(&w.pq, &nodeItem{id: dst, dist: 0})

	for w.pq.Len() > 0 {
		item := heap.Pop(&w.pq).(*nodeItem)
		if w.done[item.id] {
			continue
		}
		w.done[item.id] = true
		w.relax(item.id)
	}
}

// relax improves predecessors of cur through admissible reverse edges.
func (w *reverseDijkstra) relax(cur string) {
	for _, e := range w.net.Predecessors(cur) {
		if w.done[e.From] {
			continue
		}
		ch, ok := w.net.Channel(e.ChannelID)
		if !ok || !Admissible(ch, e.From, w.amount) {
			continue
		}
		d := w.rank[cur] + w.weight(ch, e.From)
		if d >= w.rank[e.From] {
			continue
		}
		w.rank[e.From] = d
		heap.Push(&w.pq, &nodeItem{id: e.From, dist: d})
	}
}

// nodeItem is a heap entry: a node and its tentative rank.
type nodeItem struct {
	id   string
	dist int64
}

// nodePQ is a min-heap of *nodeItem ordered by dist. Outdated entries stay in
// the heap and are ignored when popped (lazy decrease-key).
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist == pq[j].dist {
		return pq[i].id < pq[j].id
	}
	return pq[i].dist < pq[j].dist
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
