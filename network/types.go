// SPDX-License-Identifier: MIT
// Package: pcnroute/network
//
// types.go — sentinel errors, policy, channel and edge types.

package network

import "errors"

// Sentinel errors returned by network operations.
var (
	// ErrUnknownChannel is returned when a channel id is not in the table.
	ErrUnknownChannel = errors.New("network: unknown channel")

	// ErrUnknownNode is returned when a node is not part of the network or
	// is not an endpoint of the addressed channel.
	ErrUnknownNode = errors.New("network: unknown node")

	// ErrBadFraction is returned when a setup fraction lies outside [0,1].
	ErrBadFraction = errors.New("network: fraction must be within [0,1]")

	// ErrBadSaturationMode is returned for an unrecognized saturation mode.
	ErrBadSaturationMode = errors.New("network: unknown saturation mode")

	// ErrNeedRand is returned when a randomized setup step gets a nil generator.
	ErrNeedRand = errors.New("network: random source is required")
)

// MsatPerSat is the number of millisatoshi in one satoshi.
const MsatPerSat = 1000

// Policy holds the forwarding policy of one channel direction.
type Policy struct {
	BaseFeeMsat int64 // flat fee per forwarded payment
	FeeRatePPM  int64 // proportional fee, parts per million
	HTLCMinMsat int64 // smallest forwardable amount
	HTLCMaxMsat int64 // largest forwardable amount
	Delay       int64 // timelock delta in blocks
}

// Channel is one physical link with independently tracked directions.
// Direction U→V uses CapacityUV and PolicyU; direction V→U uses CapacityVU
// and PolicyV.
type Channel struct {
	ID string
	U  string
	V  string

	CapacityUV    int64
	CapacityVU    int64
	TotalCapacity int64

	PolicyU Policy
	PolicyV Policy

	MessageFlags int

	// Online is false for channels forced offline; they are excluded from routing.
	Online bool
	// Bi is true once both directions' policies are known.
	Bi bool
}

// Edge is one traversable direction of a channel.
type Edge struct {
	From      string
	To        string
	ChannelID string
}

// Flip describes a direction whose capacity moved between zero and nonzero.
type Flip struct {
	ChannelID string
	From      string
	To        string
	// Usable is true when the direction became nonzero.
	Usable bool
}

// FlipListener receives Flip events from SetCapacity.
type FlipListener func(Flip)

// RankedChannel is one row of a centrality ranking: the ranked node and the
// channel it is ranked through.
type RankedChannel struct {
	Node      string
	ChannelID string
}

// Stats is a summary snapshot of a network.
type Stats struct {
	Nodes         int
	Channels      int
	Bidirectional int
	Online        int
	Edges         int
	Skipped       int
}
