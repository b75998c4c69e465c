package bloom_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pcnroute/bloom"
)

func TestNew_Sizing(t *testing.T) {
	f, err := bloom.New(1000, 0.01)
	require.NoError(t, err)
	// -1000·ln(0.01)/ln²2 ≈ 9585.06
	require.Equal(t, uint64(9586), f.Cap())
	require.Equal(t, uint64(7), f.K())
	require.Zero(t, f.Len())
	require.Zero(t, f.EstimatedFalsePositiveRate())

	_, err = bloom.New(0, 0.01)
	require.ErrorIs(t, err, bloom.ErrBadCapacity)
	for _, p := range []float64{0, 1, -0.5, 2} {
		_, err = bloom.New(10, p)
		require.ErrorIs(t, err, bloom.ErrBadRate)
	}
}

func TestNoFalseNegatives(t *testing.T) {
	for _, seed := range []uint32{0, 1, 0xdeadbeef} {
		f, err := bloom.New(500, 0.001, bloom.WithSeed(seed))
		require.NoError(t, err)
		for i := 0; i < 500; i++ {
			f.AddString(fmt.Sprintf("n%d\x00n%d", i, i+1))
		}
		require.Equal(t, uint(500), f.Len())
		for i := 0; i < 500; i++ {
			require.True(t, f.TestString(fmt.Sprintf("n%d\x00n%d", i, i+1)))
		}
	}
}

func TestFalsePositiveRate(t *testing.T) {
	f, err := bloom.New(2000, 0.01)
	require.NoError(t, err)
	for i := 0; i < 2000; i++ {
		f.Add([]byte(fmt.Sprintf("member-%d", i)))
	}
	hits := 0
	const probes = 20000
	for i := 0; i < probes; i++ {
		if f.Test([]byte(fmt.Sprintf("outsider-%d", i))) {
			hits++
		}
	}
	rate := float64(hits) / probes
	require.Less(t, rate, 0.03, "observed rate far above target")
	require.InDelta(t, 0.01, f.EstimatedFalsePositiveRate(), 0.005)
}

func ExampleFilter() {
	f, _ := bloom.New(100, 1e-7)
	f.AddString("alice\x00bob")
	fmt.Println(f.TestString("alice\x00bob"), f.K())
	// Output: true 23
}
