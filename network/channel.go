package network

// policy returns the policy of the direction leaving from.
func (c *Channel) policy(from string) (Policy, bool) {
	switch from {
	case c.U:
		return c.PolicyU, true
	case c.V:
		return c.PolicyV, true
	}
	return Policy{}, false
}

// Capacity returns the available capacity leaving from, in satoshi.
// Unknown endpoints yield 0.
func (c *Channel) Capacity(from string) int64 {
	switch from {
	case c.U:
		return c.CapacityUV
	case c.V:
		return c.CapacityVU
	}
	return 0
}

// HTLCMinMsat returns the minimum forwardable amount leaving from.
func (c *Channel) HTLCMinMsat(from string) int64 {
	p, _ := c.policy(from)
	return p.HTLCMinMsat
}

// HTLCMaxMsat returns the maximum forwardable amount leaving from.
func (c *Channel) HTLCMaxMsat(from string) int64 {
	p, _ := c.policy(from)
	return p.HTLCMaxMsat
}

// Delay returns the timelock delta charged leaving from.
func (c *Channel) Delay(from string) int64 {
	p, _ := c.policy(from)
	return p.Delay
}

// Fee returns the fee in msat charged for forwarding amountSat leaving from:
// base + amountSat*rate/1000, i.e. the proportional rate applied to the
// millisatoshi amount. The result is linear in the amount.
func (c *Channel) Fee(from string, amountSat int64) int64 {
	p, ok := c.policy(from)
	if !ok {
		return 0
	}
	return p.BaseFeeMsat + amountSat*p.FeeRatePPM/MsatPerSat
}

// Other returns the endpoint opposite to node, or "" if node is not an endpoint.
func (c *Channel) Other(node string) string {
	switch node {
	case c.U:
		return c.V
	case c.V:
		return c.U
	}
	return ""
}

// WithinHTLC reports whether amountSat, expressed in msat, lies within the
// HTLC bounds of the direction leaving from.
func (c *Channel) WithinHTLC(from string, amountSat int64) bool {
	p, ok := c.policy(from)
	if !ok {
		return false
	}
	msat := amountSat * MsatPerSat
	return msat >= p.HTLCMinMsat && msat <= p.HTLCMaxMsat
}

// Usable reports whether the direction leaving from can carry amountSat right
// now: the channel is online, the directional capacity suffices and the HTLC
// bounds admit the amount. This is the per-hop check shared by all routers.
func (c *Channel) Usable(from string, amountSat int64) bool {
	if !c.Online {
		return false
	}
	if c.Capacity(from) < amountSat {
		return false
	}
	return c.WithinHTLC(from, amountSat)
}
