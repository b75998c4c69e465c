package metrics

import (
	"fmt"
	"io"
	"sort"

	"github.com/katalvlaran/pcnroute/config"
	"github.com/katalvlaran/pcnroute/routing"
)

// Summary is the aggregate of one router's results.
type Summary struct {
	Router      string
	Total       int
	Successes   int
	Failures    int
	SuccessRate float64 // percent
	AvgHops     float64
	AvgDelay    float64
	AvgFee      float64
	Reasons     map[string]int // failures by reason
}

// Summarize aggregates results of router.
func Summarize(router string, results []routing.Result) Summary {
	s := Summary{Router: router, Total: len(results), Reasons: map[string]int{}}
	var hops, delay, fee int64
	for _, r := range results {
		if !r.Success {
			s.Failures++
			s.Reasons[r.Reason.String()]++
			continue
		}
		s.Successes++
		hops += int64(r.Hops)
		delay += r.Delay
		fee += r.Fee
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Successes) / float64(s.Total) * 100
	}
	if s.Successes > 0 {
		n := float64(s.Successes)
		s.AvgHops = float64(hops) / n
		s.AvgDelay = float64(delay) / n
		s.AvgFee = float64(fee) / n
	}
	return s
}

// Report writes the human-readable summary block of s, followed by the run
// parameters from cfg.
func Report(w io.Writer, s Summary, cfg config.Config) error {
	if s.Total == 0 {
		_, err := fmt.Fprintf(w, "No simulation results to report for %s.\n", s.Router)
		return err
	}
	pw := &printer{w: w}
	pw.printf("===== Simulation Metrics =====\n")
	pw.printf("Routing Algorithm: %s\n", s.Router)
	pw.printf("Total payments: %d\n", s.Total)
	pw.printf("Success rate: %d/%d (%.2f%%)\n", s.Successes, s.Total, s.SuccessRate)
	pw.printf("Failures: %d\n", s.Failures)
	for _, reason := range sortedKeys(s.Reasons) {
		pw.printf("  %s: %d\n", reason, s.Reasons[reason])
	}
	pw.printf("Average hops: %.4f\n", s.AvgHops)
	pw.printf("Average delay: %.4f\n", s.AvgDelay)
	pw.printf("Average fees: %.4f\n", s.AvgFee)
	pw.printf("BloomFilter False Positive Rate: %g\n", cfg.Bloom.FalsePositiveRate)
	pw.printf("BloomFilter Expected Items: %d\n", cfg.Bloom.ExpectedItems)
	pw.printf("Min amount: %d, Max amount: %d\n", cfg.Simulation.MinPayment, cfg.Simulation.MaxPayment)
	pw.printf("Max candidate per node: %d\n", cfg.Rank.MaxCandidates)
	pw.printf("Portion of saturated channels: %g\n", cfg.Network.SaturationFraction)
	pw.printf("Portion of offline channels: %g\n", cfg.Network.OfflineFraction)
	return pw.err
}

// printer keeps the first write error and drops later writes.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
