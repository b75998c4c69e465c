// Package pcnroute simulates payment routing over payment-channel networks
// and compares three strategies under identical network conditions.
//
// What is inside?
//
//	network/           — directed-capacity channel multigraph, snapshot ingestion,
//	                     offline/saturation setup, capacity flip notifications
//	rank/              — destination ranks (reverse BFS / Dijkstra) and
//	                     strictly descending candidate next hops
//	bloom/             — Bloom filter over murmur3 double hashing
//	ledger/            — commit and revert of a payment along a path
//	routing/           — Result contract shared by all routers
//	routing/reference/ — deterministic BFS baseline and reachability probe
//	routing/gated/     — rank-guided random walk gated by a Bloom filter
//	routing/landmark/  — landmark coordinate embedding with local stabilization
//	gen/               — seeded synthetic snapshots
//	config/            — YAML configuration with validation
//	metrics/           — summaries, CSV rows, Prometheus collectors
//	sim/               — simulation runner over cloned networks
//	cmd/pcnsim/        — command line front end
//
// Execution model
//
//	A network is mutated without locks. One payment's search-then-commit
//	cycle completes before the next begins; the simulation parallelizes only
//	across independent clones, one per router.
//
// Quick start
//
//	net, _ := network.LoadSnapshotFile("listchannels.json")
//	res := reference.New(net).Route(src, dst, 500)
package pcnroute
