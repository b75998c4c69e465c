// Package gen produces synthetic channel snapshots: deterministic fixtures
// (Path, Diamond) and seeded random sparse topologies (RandomSparse), emitted
// as network.Record values so they go through the same ingestion as real
// listchannels dumps.
//
// Determinism
//
//	Vertex IDs come from the ID scheme in index order; pair trials run in
//	(i asc, j asc) order; every random draw goes through the configured
//	*rand.Rand. A fixed seed therefore yields identical records.
//
// Options
//
//   - WithSeed / WithRand:       random source (required by RandomSparse when 0<p<1).
//   - WithIDScheme:              index → node id.
//   - WithCapacityRange(lo, hi): channel capacity in satoshi, uniform in [lo, hi].
//   - WithBidirectionalProb(q):  probability that the reverse record is emitted.
//   - WithPolicy:                fixed forwarding policy for every direction.
package gen
