package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/katalvlaran/pcnroute/config"
	"github.com/katalvlaran/pcnroute/gen"
	"github.com/katalvlaran/pcnroute/metrics"
	"github.com/katalvlaran/pcnroute/network"
	"github.com/katalvlaran/pcnroute/sim"
)

type runFlags struct {
	configPath  string
	snapshot    string
	synthetic   int
	syntheticP  float64
	seed        int64
	out         string
	metricsFile string
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a routing simulation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulation(cmd, g, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file (defaults apply when empty)")
	fl.StringVar(&f.snapshot, "snapshot", "", "listchannels JSON snapshot, overrides the configured one")
	fl.IntVar(&f.synthetic, "synthetic", 0, "generate a random network with this many nodes instead of a snapshot")
	fl.Float64Var(&f.syntheticP, "synthetic-p", 0.05, "channel probability of the synthetic network")
	fl.Int64Var(&f.seed, "seed", 1, "seed of the synthetic network")
	fl.StringVarP(&f.out, "out", "o", "", "CSV prefix; writes <prefix>_<router>.csv")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	return cmd
}

func runSimulation(cmd *cobra.Command, g *globalFlags, f *runFlags) error {
	logger, err := g.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.snapshot != "" {
		cfg.Snapshot = f.snapshot
	}

	net, err := loadNetwork(cfg, f, logger)
	if err != nil {
		return err
	}

	opts := []sim.Option{sim.WithLogger(logger)}
	if cfg.Network.SaturationMode == string(network.SaturateRanked) {
		ranking, err := sim.LoadRanking(cfg.Network.RankingFile)
		if err != nil {
			return err
		}
		opts = append(opts, sim.WithRanking(ranking))
	}
	reg := prometheus.NewRegistry()
	opts = append(opts, sim.WithCollector(metrics.NewCollector(reg)))

	runner, err := sim.New(cfg, net, opts...)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	rep, runErr := runner.Run(ctx)
	if rep == nil {
		return runErr
	}
	// Partial reports are still written.
	err = writeOutputs(cmd.OutOrStdout(), rep, cfg, f, reg)
	return multierr.Append(runErr, err)
}

// loadNetwork reads the configured snapshot or builds a synthetic network.
func loadNetwork(cfg config.Config, f *runFlags, logger *slog.Logger) (*network.Network, error) {
	opts := []network.Option{
		network.WithSplitRatio(cfg.Network.SplitRatio),
		network.WithLogger(logger),
	}
	switch {
	case cfg.Snapshot != "":
		return network.LoadSnapshotFile(cfg.Snapshot, opts...)
	case f.synthetic > 0:
		recs, err := gen.RandomSparse(f.synthetic, f.syntheticP,
			gen.WithSeed(f.seed), gen.WithCapacityRange(10_000, 5_000_000), gen.WithRandomFees())
		if err != nil {
			return nil, err
		}
		return network.Build(recs, opts...), nil
	}
	return nil, errors.New("no network: set a snapshot or --synthetic")
}

func writeOutputs(w io.Writer, rep *sim.Report, cfg config.Config, f *runFlags, reg *prometheus.Registry) error {
	var err error
	_, werr := fmt.Fprintf(w, "run %s: %d payments in %s, %d blacklisted nodes, %d stabilization messages\n",
		rep.RunID, len(rep.Payments), rep.Duration, rep.Blacklisted, rep.StabilizationMessages)
	err = multierr.Append(err, werr)
	for _, s := range rep.Summaries {
		err = multierr.Append(err, metrics.Report(w, s, cfg))
	}
	if f.out != "" {
		for _, name := range rep.Routers {
			err = multierr.Append(err, metrics.WriteCSVFile(metrics.CSVPath(f.out, name), rep.Results[name]))
		}
	}
	if f.metricsFile != "" {
		err = multierr.Append(err, metrics.WriteTextfile(f.metricsFile, reg))
	}
	return err
}
