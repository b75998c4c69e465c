// Package landmark implements greedy routing over landmark coordinate
// embeddings.
//
// Setup
//
//	The n highest-degree nodes become landmarks, one per tree. Each tree is a
//	breadth-first spanning tree rooted at its landmark: phase 1 follows only
//	bidirectional channels, phase 2 continues from every phase-1 node over
//	any channel with nonzero total capacity. A node's coordinate is its
//	parent's coordinate with one random uint64 appended; the root holds the
//	empty coordinate.
//
// Distance
//
//	Distance(a, b) is the number of coordinate elements left over after the
//	longest common prefix of a and b, i.e. the hop distance between the two
//	nodes in the tree. It is a tree metric.
//
// Forwarding
//
//	Trees are tried in order. In one tree, every hop moves to the usable
//	neighbor whose coordinate is closest to the destination's, provided it
//	is strictly closer than the current node. Distances strictly decrease, so
//	a walk visits every node at most once.
//
// Stabilization
//
//	The router listens for capacity flips on its network. For each endpoint
//	of a flipped channel that holds a coordinate in a tree (landmark roots
//	excepted), the endpoint's subtree is deleted and its members are
//	reinserted shallowest first under already placed neighbors, preferring
//	channels with capacity in both directions. Nodes without a placed
//	neighbor stay unassigned until a later repair reaches them. Every
//	coordinate assignment counts as one stabilization message.
package landmark
