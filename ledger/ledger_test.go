package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pcnroute/gen"
	"github.com/katalvlaran/pcnroute/ledger"
	"github.com/katalvlaran/pcnroute/network"
)

func TestCommit_Arithmetic(t *testing.T) {
	recs, err := gen.Path(4, gen.WithCapacityRange(1000, 1000))
	require.NoError(t, err)
	net := network.Build(recs)

	// Drain one hop below the amount to exercise the clamp.
	_, err = net.SetCapacity("1", "1x2x0", 100)
	require.NoError(t, err)

	type caps struct{ fwd, rev int64 }
	path := []string{"0", "1", "2", "3"}
	before := map[string]caps{}
	for i := 0; i+1 < len(path); i++ {
		ch, _ := net.ChannelBetween(path[i], path[i+1])
		before[ch.ID] = caps{ch.Capacity(path[i]), ch.Capacity(path[i+1])}
	}

	require.NoError(t, ledger.Commit(net, path, 300))

	for i := 0; i+1 < len(path); i++ {
		ch, _ := net.ChannelBetween(path[i], path[i+1])
		old := before[ch.ID]
		require.Equal(t, max(0, old.fwd-300), ch.Capacity(path[i]), ch.ID)
		require.Equal(t, old.rev+300, ch.Capacity(path[i+1]), ch.ID)
		require.Equal(t, int64(1000), ch.TotalCapacity, "total never re-derived")
	}
}

func TestCommit_ValidatesBeforeMutating(t *testing.T) {
	net := network.Build(gen.Diamond(1000))
	err := ledger.Commit(net, []string{"src", "a", "b"}, 100)
	require.ErrorIs(t, err, ledger.ErrNoChannel)

	ch, _ := net.Channel("src-a")
	require.Equal(t, int64(500), ch.Capacity("src"), "first hop untouched")

	require.NoError(t, ledger.Commit(net, []string{"src"}, 100))
	require.NoError(t, ledger.Commit(net, nil, 100))
}

func TestCommit_PublishesFlips(t *testing.T) {
	net := network.Build(gen.Diamond(1000))
	var flips []network.Flip
	net.OnFlip(func(f network.Flip) { flips = append(flips, f) })

	require.NoError(t, ledger.Commit(net, []string{"src", "a", "dst"}, 500))
	require.Equal(t, []network.Flip{
		{ChannelID: "src-a", From: "src", To: "a", Usable: false},
		{ChannelID: "a-dst", From: "a", To: "dst", Usable: false},
	}, flips)

	flips = nil
	require.NoError(t, ledger.Revert(net, []string{"src", "a", "dst"}, 500))
	require.Len(t, flips, 2)
	require.True(t, flips[0].Usable)

	ch, _ := net.Channel("src-a")
	require.Equal(t, int64(500), ch.Capacity("src"))
	require.Equal(t, int64(500), ch.Capacity("a"))
}

func TestCommitEdges_ParallelChannels(t *testing.T) {
	net := network.Build([]network.Record{
		gen.Record("p1", "x", "y", 1000, network.Policy{HTLCMaxMsat: 1_000_000_000}),
		gen.Record("p2", "x", "y", 4000, network.Policy{HTLCMaxMsat: 1_000_000_000}),
	})
	require.NoError(t, ledger.CommitEdges(net, []network.Edge{{From: "x", To: "y", ChannelID: "p2"}}, 700))

	p1, _ := net.Channel("p1")
	p2, _ := net.Channel("p2")
	require.Equal(t, int64(500), p1.Capacity("x"), "sibling channel untouched")
	require.Equal(t, int64(1300), p2.Capacity("x"))
	require.Equal(t, int64(2700), p2.Capacity("y"))

	err := ledger.CommitEdges(net, []network.Edge{{From: "y", To: "z", ChannelID: "p2"}}, 1)
	require.ErrorIs(t, err, ledger.ErrNoChannel)
}
