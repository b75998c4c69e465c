package rank_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pcnroute/gen"
	"github.com/katalvlaran/pcnroute/network"
	"github.com/katalvlaran/pcnroute/rank"
)

var wide = network.Policy{HTLCMinMsat: 1, HTLCMaxMsat: 1_000_000_000, BaseFeeMsat: 1000, FeeRatePPM: 1, Delay: 10}

// bruteHops returns the minimum number of admissible hops from every node to
// dst by Bellman–Ford style iteration, used as an oracle.
func bruteHops(net *network.Network, dst string, amount int64) map[string]int64 {
	d := map[string]int64{}
	for _, n := range net.Nodes() {
		d[n] = rank.Infinity
	}
	d[dst] = 0
	for range net.Nodes() {
		for _, u := range net.Nodes() {
			for _, e := range net.Neighbors(u) {
				ch, _ := net.Channel(e.ChannelID)
				if !rank.Admissible(ch, u, amount) || d[e.To] == rank.Infinity {
					continue
				}
				if d[e.To]+1 < d[u] {
					d[u] = d[e.To] + 1
				}
			}
		}
	}
	return d
}

func TestCompute_Errors(t *testing.T) {
	net := network.Build(gen.Diamond(1000, gen.WithPolicy(wide)))
	_, err := rank.Compute(nil, "dst", 1)
	require.ErrorIs(t, err, rank.ErrNilNetwork)
	_, err = rank.Compute(net, "nowhere", 1)
	require.ErrorIs(t, err, rank.ErrUnknownNode)
	_, err = rank.Compute(net, "dst", 0)
	require.ErrorIs(t, err, rank.ErrBadAmount)
	_, err = rank.Compute(net, "dst", 1, rank.WithMode(rank.ModeRandom))
	require.ErrorIs(t, err, rank.ErrNeedRand)
}

func TestCompute_Diamond(t *testing.T) {
	net := network.Build(gen.Diamond(1000, gen.WithPolicy(wide)))
	r, err := rank.Compute(net, "dst", 500)
	require.NoError(t, err)
	require.Equal(t, rank.Rank{"dst": 0, "a": 1, "b": 1, "src": 2}, r)
}

func TestCompute_AdmissibilityPredicate(t *testing.T) {
	recs := gen.Diamond(1000, gen.WithPolicy(wide))
	// src→a can never carry more than 100 sat; a stays ranked but src must go via b.
	recs[0].HTLCMaxMsat = network.FormatMsat(100_000)
	// b→dst has too little total capacity.
	recs[3].Satoshis = 10
	net := network.Build(recs)

	r, err := rank.Compute(net, "dst", 500)
	require.NoError(t, err)
	require.Equal(t, int64(1), r.Of("a"))
	require.False(t, r.Reachable("b"))
	require.False(t, r.Reachable("src"))
	require.Equal(t, rank.Infinity, r.Of("ghost"))
}

func TestCompute_MatchesOracle(t *testing.T) {
	recs, err := gen.RandomSparse(40, 0.08,
		gen.WithSeed(3), gen.WithCapacityRange(100, 2000), gen.WithBidirectionalProb(0.6))
	require.NoError(t, err)
	net := network.Build(recs)

	for _, dst := range net.Nodes()[:5] {
		for _, amount := range []int64{50, 800, 1500} {
			r, err := rank.Compute(net, dst, amount)
			require.NoError(t, err)
			want := bruteHops(net, dst, amount)
			for node, d := range want {
				require.Equal(t, d, r[node], "dst=%s amount=%d node=%s", dst, amount, node)
			}
		}
	}
}

func TestCompute_WeightedModes(t *testing.T) {
	// Line 0–1–2 plus a shortcut 0–2 with a huge base fee.
	recs, err := gen.Path(3, gen.WithPolicy(wide))
	require.NoError(t, err)
	expensive := wide
	expensive.BaseFeeMsat = 1_000_000
	recs = append(recs, gen.Record("short", "0", "2", 1_000_000, expensive))
	net := network.Build(recs)

	hop, err := rank.Compute(net, "2", 100)
	require.NoError(t, err)
	require.Equal(t, int64(1), hop["0"], "shortcut is one hop")

	fee, err := rank.Compute(net, "2", 100, rank.WithMode(rank.ModeFee))
	require.NoError(t, err)
	// Each cheap hop costs 1000 + 100*1/1000 + 1 = 1001.
	require.Equal(t, int64(1001), fee["1"])
	require.Equal(t, int64(2002), fee["0"], "two cheap hops beat the expensive shortcut")

	rnd, err := rank.Compute(net, "2", 100,
		rank.WithMode(rank.ModeRandom), rank.WithMaxWeight(5), rank.WithRand(rand.New(rand.NewSource(1))))
	require.NoError(t, err)
	require.Equal(t, int64(0), rnd["2"])
	require.GreaterOrEqual(t, rnd["1"], int64(1))
	require.LessOrEqual(t, rnd["1"], int64(5))
	require.LessOrEqual(t, rnd["0"], rnd["1"]+5)
}

func TestParseMode(t *testing.T) {
	for _, m := range []rank.Mode{rank.ModeHop, rank.ModeFee, rank.ModeRandom} {
		got, err := rank.ParseMode(m.String())
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
	_, err := rank.ParseMode("teleport")
	require.Error(t, err)
	require.Panics(t, func() { rank.WithMaxWeight(0) })
}
