package sim

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/pcnroute/network"
	"github.com/katalvlaran/pcnroute/routing/reference"
)

// sampler draws payments that are routable on every network.
type sampler struct {
	rng       *rand.Rand
	nodes     []string
	blacklist map[string]bool
	nets      []*network.Network
	min, max  int64
	attempts  int
}

// draw returns distinct endpoints and an amount.
func (s *sampler) draw() Payment {
	i := s.rng.Intn(len(s.nodes))
	j := s.rng.Intn(len(s.nodes) - 1)
	if j >= i {
		j++
	}
	return Payment{
		Src:    s.nodes[i],
		Dst:    s.nodes[j],
		Amount: s.min + s.rng.Int63n(s.max-s.min+1),
	}
}

// routable reports whether p avoids the blacklist and has a real path on
// every network.
func (s *sampler) routable(p Payment) bool {
	if s.blacklist[p.Src] || s.blacklist[p.Dst] {
		return false
	}
	for _, net := range s.nets {
		if ok, _ := reference.Reachable(net, p.Src, p.Dst, p.Amount); !ok {
			return false
		}
	}
	return true
}

// next draws until a routable payment is found or attempts run out.
func (s *sampler) next() (Payment, error) {
	if len(s.nodes) < 2 {
		return Payment{}, fmt.Errorf("%w: fewer than two nodes", ErrNoPaymentPair)
	}
	for a := 0; a < s.attempts; a++ {
		if p := s.draw(); s.routable(p) {
			return p, nil
		}
	}
	return Payment{}, fmt.Errorf("%w after %d draws", ErrNoPaymentPair, s.attempts)
}
