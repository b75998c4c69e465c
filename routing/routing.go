// Package routing holds what every router shares: the Result contract, the
// failure taxonomy and per-hop accounting.
//
// Routing failures are not errors. A router always returns a Result whose
// Success flag is authoritative; on failure the hop, delay and fee counters
// accumulated up to the failing hop are kept, so downstream metrics can
// account for the cost of failed attempts.
package routing

import (
	"fmt"

	"github.com/katalvlaran/pcnroute/network"
)

// Reason classifies the outcome of a routing attempt.
type Reason int

const (
	// None marks a successful attempt.
	None Reason = iota
	// NoAdmissibleEdge: some hop had no neighbor passing the online,
	// capacity and HTLC checks.
	NoAdmissibleEdge
	// UnreachableDestination: the destination has infinite rank, lacks a
	// coordinate, or the search frontier ran out.
	UnreachableDestination
	// HopLimit: a walk exceeded the number of nodes in the network.
	HopLimit
	// CommitFailed: the path was found but the ledger rejected it.
	CommitFailed
)

// String returns the snake_case name used in logs and metric labels.
func (r Reason) String() string {
	switch r {
	case None:
		return "none"
	case NoAdmissibleEdge:
		return "no_admissible_edge"
	case UnreachableDestination:
		return "unreachable_destination"
	case HopLimit:
		return "hop_limit"
	case CommitFailed:
		return "commit_failed"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Result is the uniform outcome of one routing attempt.
type Result struct {
	Success bool
	Hops    int
	Delay   int64    // accumulated timelock delta, blocks
	Fee     int64    // accumulated fee, msat
	Path    []string // realized node sequence, src first
	Reason  Reason
}

// Accumulate charges one hop over ch leaving from for amountSat and appends
// the far endpoint to the path.
func (r *Result) Accumulate(ch *network.Channel, from string, amountSat int64) {
	r.Hops++
	r.Delay += ch.Delay(from)
	r.Fee += ch.Fee(from, amountSat)
	r.Path = append(r.Path, ch.Other(from))
}

// Fail marks r as failed for reason and returns it.
func (r Result) Fail(reason Reason) Result {
	r.Success = false
	r.Reason = reason
	return r
}

// Router routes one payment.
type Router interface {
	// Name identifies the router in reports and metric labels.
	Name() string
	// Route searches a path from src to dst for amountSat and, on success,
	// commits it. Routing failures are reported through the Result.
	Route(src, dst string, amountSat int64) Result
}
