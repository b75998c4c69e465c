// Package rank computes destination-relative distances over a payment-channel
// network and bounds each node's next hops to a small strictly-descending set.
//
// What
//
//   - Compute: a reverse traversal from the destination with rank 0, walking
//     Predecessors. A reverse edge prev→cur is admitted only when the channel's
//     total capacity covers the amount and the amount in msat lies within the
//     HTLC bounds of direction prev→cur. Unreachable nodes keep Infinity.
//   - ModeHop relaxes rank[cur]+1 < rank[prev] breadth-first (reverse BFS).
//   - ModeFee and ModeRandom relax rank[cur]+w < rank[prev] with a min-heap
//     (reverse Dijkstra); w is the directional fee plus one, or a random
//     weight in [1, MaxWeight] drawn once per channel direction.
//   - Select: breadth-first from the source, keeping for every visited node
//     the K admissible edges with the smallest strictly lower neighbor rank.
//     Strict descent makes the candidate graph acyclic.
//
// Determinism
//
//	Final rank values do not depend on traversal order. Candidate ties are
//	broken by adjacency order (stable sort).
//
// Complexity (V = |nodes|, E = |edges|)
//
//   - ModeHop:               O(V + E)
//   - ModeFee / ModeRandom:  O((V + E) log V)
//   - Select:                O(V + E log K)
//
// Errors
//
//   - ErrNilNetwork   if the network pointer is nil.
//   - ErrUnknownNode  if the destination is not part of the network.
//   - ErrBadAmount    if the amount is not positive.
//   - ErrNeedRand     if ModeRandom is used without WithRand.
package rank
