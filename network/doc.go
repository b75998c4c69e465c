// Package network models a payment-channel network as a directed-capacity
// multigraph: every physical channel is one record with independently
// tracked per-direction capacity, fee, HTLC and timelock policy.
//
// What
//
//   - Channel: one link U–V with CapacityUV/CapacityVU, an immutable
//     TotalCapacity split at construction by a configured ratio, and a Policy
//     per direction. All accessors take the node the edge is traversed from.
//   - Network: node set, forward adjacency (Neighbors), reverse adjacency
//     (Predecessors) and the channel table.
//   - Ingestion: Record mirrors one listchannels entry. Only public, active,
//     enabled records are incorporated; a second record for a known channel id
//     supplies the reverse direction's policy and marks the channel Bi.
//     Malformed records are skipped and counted, never reported as errors.
//   - Setup: MakeOffline and Saturate prepare a network before a run;
//     Unconnected reports nodes outside the largest strongly connected component.
//
// Capacity model
//
//	Directional capacities never go negative. They are not re-normalized to
//	TotalCapacity after mutation: capacity that flows one way becomes
//	available the other way, and after clamping the two values may no longer
//	sum to the original total.
//
// Flip notifications
//
//	SetCapacity reports when a direction flips between zero and nonzero and
//	delivers a Flip event to every listener registered with OnFlip. The
//	landmark embedding uses this to repair its coordinate trees.
//
// Concurrency
//
//	A Network is not safe for concurrent mutation. Run independent payments
//	against independent clones (Clone) or serialize access externally.
//
// Complexity (V = |nodes|, E = |directed edges|)
//
//   - AddRecord:     O(1) amortized
//   - Nodes:         O(V log V) on first call after a mutation, cached afterwards
//   - Unconnected:   O(V + E)
//   - Clone:         O(V + E)
package network
