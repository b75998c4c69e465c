package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pcnroute/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "hop", cfg.Rank.Mode)
	require.Equal(t, 3000, cfg.Rank.MaxCandidates)
	require.Equal(t, uint(100000), cfg.Bloom.ExpectedItems)
	require.Equal(t, 1e-7, cfg.Bloom.FalsePositiveRate)
	require.Equal(t, 0.5, cfg.Network.SplitRatio)
	require.Equal(t, 50000, cfg.Simulation.Payments)
	require.Equal(t, config.Seeds{Offline: 42, Saturation: 49, Payments: 88, Routing: 1}, cfg.Simulation.Seeds)
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(`
rank:
  mode: fee
landmark:
  trees: 3
simulation:
  payments: 10
  seeds:
    payments: 7
`))
	require.NoError(t, err)
	require.Equal(t, "fee", cfg.Rank.Mode)
	require.Equal(t, 3, cfg.Landmark.Trees)
	require.Equal(t, 10, cfg.Simulation.Payments)
	require.Equal(t, int64(7), cfg.Simulation.Seeds.Payments)
	require.Equal(t, int64(42), cfg.Simulation.Seeds.Offline, "untouched fields keep defaults")
	require.Equal(t, int64(1000), cfg.Simulation.MaxPayment)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"mode":     "rank: {mode: teleport}",
		"fp rate":  "bloom: {false_positive_rate: 1.5}",
		"trees":    "landmark: {trees: 0}",
		"split":    "network: {split_ratio: 2}",
		"amounts":  "simulation: {min_payment: 500, max_payment: 100}",
		"ranked":   "network: {saturation_mode: ranked}",
		"sat mode": "network: {saturation_mode: betweenness}",
	}
	for name, doc := range cases {
		_, err := config.Parse([]byte(doc))
		require.ErrorIs(t, err, config.ErrInvalid, name)
	}

	_, err := config.Parse([]byte("rank: [not, a, map]"))
	require.Error(t, err)
	require.NotErrorIs(t, err, config.ErrInvalid)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation: {payments: 3}\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Simulation.Payments)

	cfg, err = config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Network.SaturationMode = "per_node"
	data, err := cfg.Marshal()
	require.NoError(t, err)
	back, err := config.Parse(data)
	require.NoError(t, err)
	require.Equal(t, cfg, back)
}
