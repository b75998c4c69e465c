package network_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/pcnroute/network"
)

// rec returns an eligible record u→v with generous HTLC bounds.
func rec(id, u, v string, sat int64) network.Record {
	return network.Record{
		Source:      u,
		Destination: v,
		ChannelID:   id,
		Public:      true,
		Active:      true,
		Satoshis:    sat,
		BaseFeeMsat: 1000,
		FeePPM:      100,
		HTLCMinMsat: "1msat",
		HTLCMaxMsat: "1000000000msat",
		Delay:       40,
	}
}

type NetworkSuite struct {
	suite.Suite
	net *network.Network
}

func (s *NetworkSuite) SetupTest() {
	s.net = network.Build([]network.Record{
		rec("c1", "A", "B", 1000),
		rec("c1", "B", "A", 1000),
		rec("c2", "B", "C", 500),
	})
}

func (s *NetworkSuite) TestSplitAndPolicies() {
	require := require.New(s.T())
	ch, ok := s.net.Channel("c1")
	require.True(ok)
	require.Equal(int64(500), ch.CapacityUV)
	require.Equal(int64(500), ch.CapacityVU)
	require.Equal(int64(1000), ch.TotalCapacity)
	require.True(ch.Bi, "second record marks the channel bidirectional")

	c2, _ := s.net.Channel("c2")
	require.False(c2.Bi)
	require.Equal(int64(250), c2.Capacity("B"))
	require.Equal(int64(250), c2.Capacity("C"))
	require.Equal(int64(0), c2.Capacity("Z"), "unknown endpoint has no capacity")
	require.Equal(int64(40), c2.Delay("B"))
	require.Equal(int64(0), c2.Delay("C"), "reverse policy unknown until merged")
	require.Equal(int64(1), c2.HTLCMinMsat("B"))
}

func (s *NetworkSuite) TestAdjacency() {
	require := require.New(s.T())
	require.Equal([]string{"A", "B", "C"}, s.net.Nodes())
	require.Len(s.net.Neighbors("A"), 1)
	require.Len(s.net.Neighbors("B"), 2)
	require.Empty(s.net.Neighbors("C"), "c2 is unidirectional")

	preds := s.net.Predecessors("B")
	require.Len(preds, 1)
	require.Equal(network.Edge{From: "A", To: "B", ChannelID: "c1"}, preds[0])

	ch, ok := s.net.ChannelBetween("B", "C")
	require.True(ok)
	require.Equal("c2", ch.ID)
	_, ok = s.net.ChannelBetween("C", "B")
	require.False(ok)
}

func (s *NetworkSuite) TestFee() {
	ch, _ := s.net.Channel("c1")
	// 1000 msat base + 500 sat * 100 ppm / 1000 = 1050 msat.
	s.Require().Equal(int64(1050), ch.Fee("A", 500))
	s.Require().Equal(int64(0), ch.Fee("Z", 500))
}

func (s *NetworkSuite) TestSetCapacityFlips() {
	require := require.New(s.T())
	var events []network.Flip
	s.net.OnFlip(func(f network.Flip) { events = append(events, f) })

	flipped, err := s.net.SetCapacity("A", "c1", 10)
	require.NoError(err)
	require.False(flipped, "nonzero to nonzero is not a flip")

	flipped, err = s.net.SetCapacity("A", "c1", -5)
	require.NoError(err)
	require.True(flipped)
	ch, _ := s.net.Channel("c1")
	require.Equal(int64(0), ch.CapacityUV, "capacity is clamped at zero")

	flipped, err = s.net.SetCapacity("A", "c1", 7)
	require.NoError(err)
	require.True(flipped)
	require.Equal([]network.Flip{
		{ChannelID: "c1", From: "A", To: "B", Usable: false},
		{ChannelID: "c1", From: "A", To: "B", Usable: true},
	}, events)

	_, err = s.net.SetCapacity("A", "nope", 1)
	require.ErrorIs(err, network.ErrUnknownChannel)
	_, err = s.net.SetCapacity("C", "c1", 1)
	require.ErrorIs(err, network.ErrUnknownNode)
}

func (s *NetworkSuite) TestCloneIsIndependent() {
	require := require.New(s.T())
	called := false
	s.net.OnFlip(func(network.Flip) { called = true })

	c := s.net.Clone()
	_, err := c.SetCapacity("A", "c1", 0)
	require.NoError(err)
	require.False(called, "listeners are not carried to clones")

	orig, _ := s.net.Channel("c1")
	require.Equal(int64(500), orig.CapacityUV)
	require.Equal(s.net.Stats(), c.Stats())
}

func TestNetworkSuite(t *testing.T) {
	suite.Run(t, new(NetworkSuite))
}

func TestAddRecord_Filtering(t *testing.T) {
	net := network.New()

	inactive := rec("x1", "A", "B", 100)
	inactive.Active = false
	require.False(t, net.AddRecord(inactive))

	private := rec("x2", "A", "B", 100)
	private.Public = false
	require.False(t, net.AddRecord(private))

	disabled := rec("x3", "A", "B", 100)
	disabled.ChannelFlags = 2
	require.False(t, net.AddRecord(disabled))

	bad := rec("x4", "A", "B", 100)
	bad.HTLCMaxMsat = "lots"
	require.False(t, net.AddRecord(bad))

	self := rec("x5", "A", "A", 100)
	require.False(t, net.AddRecord(self))

	require.True(t, net.AddRecord(rec("ok", "A", "B", 100)))
	require.False(t, net.AddRecord(rec("ok", "A", "B", 100)), "same direction twice is skipped")

	st := net.Stats()
	require.Equal(t, 1, st.Channels)
	require.Equal(t, 3, st.Skipped)
}

func TestWithSplitRatio(t *testing.T) {
	net := network.Build([]network.Record{rec("c", "A", "B", 1001)}, network.WithSplitRatio(0.3))
	ch, _ := net.Channel("c")
	require.Equal(t, int64(300), ch.CapacityUV)
	require.Equal(t, int64(701), ch.CapacityVU)

	require.Panics(t, func() { network.WithSplitRatio(1.5) })
}

func TestParseMsat(t *testing.T) {
	cases := map[string]int64{"": 0, "0msat": 0, "1000msat": 1000, " 42 ": 42}
	for in, want := range cases {
		got, err := network.ParseMsat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := network.ParseMsat("-1msat")
	require.Error(t, err)
	_, err = network.ParseMsat("12sat")
	require.Error(t, err)
	require.Equal(t, "77msat", network.FormatMsat(77))
}

func TestReadSnapshot(t *testing.T) {
	list := `{"channels": [
		{"source":"A","destination":"B","short_channel_id":"1x1x1","public":true,"active":true,
		 "satoshis":2000,"htlc_minimum_msat":"1msat","htlc_maximum_msat":"2000000msat","delay":6},
		"garbage",
		{"source":"B","destination":"A","short_channel_id":"1x1x1","public":true,"active":true,
		 "satoshis":"oops"}
	]}`
	net, err := network.ReadSnapshot(strings.NewReader(list))
	require.NoError(t, err)
	st := net.Stats()
	require.Equal(t, 2, st.Nodes)
	require.Equal(t, 1, st.Channels)
	require.Equal(t, 2, st.Skipped)

	object := `{"channels": {
		"b": {"source":"B","destination":"A","short_channel_id":"9","public":true,"active":true,"satoshis":10},
		"a": {"source":"A","destination":"B","short_channel_id":"9","public":true,"active":true,"satoshis":10}
	}}`
	net, err = network.ReadSnapshot(strings.NewReader(object))
	require.NoError(t, err)
	ch, ok := net.Channel("9")
	require.True(t, ok)
	require.Equal(t, "A", ch.U, "object entries are ingested in key order")
	require.True(t, ch.Bi)

	_, err = network.ReadSnapshot(strings.NewReader("{not json"))
	require.Error(t, err)
}

func TestWriteSnapshotRoundTrip(t *testing.T) {
	var sb strings.Builder
	records := []network.Record{rec("c1", "A", "B", 10), rec("c1", "B", "A", 10)}
	require.NoError(t, network.WriteSnapshot(&sb, records))
	net, err := network.ReadSnapshot(strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Equal(t, 1, net.Stats().Bidirectional)
}

func TestMakeOffline(t *testing.T) {
	build := func() *network.Network {
		return network.Build([]network.Record{
			rec("c1", "A", "B", 10), rec("c2", "B", "C", 10),
			rec("c3", "C", "D", 10), rec("c4", "D", "A", 10),
		})
	}
	a, b := build(), build()
	offA, err := a.MakeOffline(0.5, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	offB, err := b.MakeOffline(0.5, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	require.Len(t, offA, 2)
	require.Equal(t, offA, offB, "same seed selects the same channels")
	require.Equal(t, 2, a.Stats().Online)

	_, err = a.MakeOffline(2, nil)
	require.ErrorIs(t, err, network.ErrBadFraction)
	_, err = a.MakeOffline(0.5, nil)
	require.ErrorIs(t, err, network.ErrNeedRand)
}

func TestSaturate(t *testing.T) {
	net := network.Build([]network.Record{
		rec("c1", "A", "B", 100), rec("c2", "B", "C", 100), rec("c3", "C", "A", 100),
	})

	ranked := []network.RankedChannel{
		{Node: "A", ChannelID: "c2"},
		{Node: "A", ChannelID: "c1"}, // A already saturated one channel
		{Node: "X", ChannelID: "zz"}, // unknown channel
		{Node: "B", ChannelID: "c2"}, // channel already saturated
		{Node: "C", ChannelID: "c1"},
	}
	got, err := net.Saturate(1, network.SaturateRanked, nil, ranked)
	require.NoError(t, err)
	require.Equal(t, []string{"c2", "c1"}, got)
	c2, _ := net.Channel("c2")
	require.Equal(t, int64(100), c2.CapacityUV)
	require.Equal(t, int64(0), c2.CapacityVU)
	c3, _ := net.Channel("c3")
	require.Equal(t, int64(50), c3.CapacityUV, "unranked channel untouched")

	half := network.Build([]network.Record{
		rec("c1", "A", "B", 100), rec("c2", "B", "C", 100), rec("c3", "C", "A", 100),
	})
	got, err = half.Saturate(0.5, network.SaturateRanked, nil, []network.RankedChannel{
		{Node: "A", ChannelID: "c3"}, {Node: "A", ChannelID: "c1"}, {ChannelID: "c2"}, {ChannelID: "c2"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"c3", "c2"}, got, "budget is half of the four known rows")

	got, err = net.Saturate(1, network.SaturatePerNode, rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)
	require.Len(t, got, 3)

	_, err = net.Saturate(0.5, "bogus", nil, nil)
	require.ErrorIs(t, err, network.ErrBadSaturationMode)
	_, err = network.ParseSaturationMode("random")
	require.NoError(t, err)
}

func TestUnconnected(t *testing.T) {
	// A⇄B⇄C is strongly connected; D only has an outgoing unidirectional channel.
	net := network.Build([]network.Record{
		rec("ab", "A", "B", 10), rec("ab", "B", "A", 10),
		rec("bc", "B", "C", 10), rec("bc", "C", "B", 10),
		rec("da", "D", "A", 10),
	})
	require.Equal(t, []string{"D"}, net.Unconnected())

	// Taking B⇄C offline isolates C as well.
	net2 := net.Clone()
	ch, _ := net2.Channel("bc")
	ch.Online = false
	require.Equal(t, []string{"C", "D"}, net2.Unconnected())
	require.Len(t, net2.StronglyConnected(), 3)
}
