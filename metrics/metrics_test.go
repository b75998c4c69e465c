package metrics_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/pcnroute/config"
	"github.com/katalvlaran/pcnroute/metrics"
	"github.com/katalvlaran/pcnroute/routing"
)

var sample = []routing.Result{
	{Success: true, Hops: 2, Delay: 80, Fee: 2000},
	{Success: true, Hops: 4, Delay: 120, Fee: 1000},
	{Success: false, Hops: 1, Delay: 40, Fee: 500, Reason: routing.NoAdmissibleEdge},
	{Success: false, Reason: routing.UnreachableDestination},
}

func TestSummarize(t *testing.T) {
	s := metrics.Summarize("gated", sample)
	require.Equal(t, 4, s.Total)
	require.Equal(t, 2, s.Successes)
	require.Equal(t, 2, s.Failures)
	require.Equal(t, 50.0, s.SuccessRate)
	require.Equal(t, 3.0, s.AvgHops, "failed attempts excluded")
	require.Equal(t, 100.0, s.AvgDelay)
	require.Equal(t, 1500.0, s.AvgFee)
	require.Equal(t, map[string]int{"no_admissible_edge": 1, "unreachable_destination": 1}, s.Reasons)

	empty := metrics.Summarize("x", nil)
	require.Zero(t, empty.SuccessRate)
	require.Zero(t, empty.AvgHops)
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, metrics.Report(&buf, metrics.Summarize("gated", sample), config.Default()))
	out := buf.String()
	require.Contains(t, out, "Routing Algorithm: gated")
	require.Contains(t, out, "Success rate: 2/4 (50.00%)")
	require.Contains(t, out, "  no_admissible_edge: 1")
	require.Contains(t, out, "Max candidate per node: 3000")

	buf.Reset()
	require.NoError(t, metrics.Report(&buf, metrics.Summarize("gated", nil), config.Default()))
	require.Equal(t, "No simulation results to report for gated.\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestReport_WriteError(t *testing.T) {
	err := metrics.Report(failingWriter{}, metrics.Summarize("gated", sample), config.Default())
	require.EqualError(t, err, "disk full")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, metrics.WriteCSV(&buf, sample[:3]))
	require.Equal(t, strings.Join([]string{
		"success,hops,delay,fee,reason",
		"true,2,80,2000,none",
		"true,4,120,1000,none",
		"false,1,40,500,no_admissible_edge",
		"",
	}, "\n"), buf.String())

	path := metrics.CSVPath(filepath.Join(t.TempDir(), "run"), "landmark")
	require.True(t, strings.HasSuffix(path, "run_landmark.csv"))
	require.NoError(t, metrics.WriteCSVFile(path, sample))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 5, strings.Count(string(data), "\n"))

	require.Error(t, metrics.WriteCSVFile(filepath.Join(t.TempDir(), "no", "such", "dir.csv"), sample))
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)
	for _, r := range sample {
		c.Observe("gated", r)
	}
	c.StabilizationCounter().Add(3)

	expected := `
# HELP pcnroute_payments_total Routed payments by router and outcome
# TYPE pcnroute_payments_total counter
pcnroute_payments_total{outcome="no_admissible_edge",router="gated"} 1
pcnroute_payments_total{outcome="success",router="gated"} 2
pcnroute_payments_total{outcome="unreachable_destination",router="gated"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "pcnroute_payments_total"))
	require.Equal(t, 3.0, testutil.ToFloat64(c.StabilizationCounter()))

	path := filepath.Join(t.TempDir(), "pcnroute.prom")
	require.NoError(t, metrics.WriteTextfile(path, reg))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "pcnroute_route_hops_bucket")
}
