package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/pcnroute/config"
	"github.com/katalvlaran/pcnroute/metrics"
	"github.com/katalvlaran/pcnroute/network"
	"github.com/katalvlaran/pcnroute/rank"
	"github.com/katalvlaran/pcnroute/routing"
	"github.com/katalvlaran/pcnroute/routing/gated"
	"github.com/katalvlaran/pcnroute/routing/landmark"
	"github.com/katalvlaran/pcnroute/routing/reference"
)

// Sentinel errors.
var (
	// ErrNilNetwork is returned by New without a network.
	ErrNilNetwork = errors.New("sim: network is nil")

	// ErrNoPaymentPair is returned when no routable payment was found within
	// MaxResample draws.
	ErrNoPaymentPair = errors.New("sim: no routable payment pair")

	// ErrRouterPanic is returned by Run when a router panicked while routing.
	ErrRouterPanic = errors.New("sim: router panicked")
)

// Payment is one sampled payment.
type Payment struct {
	Src    string
	Dst    string
	Amount int64
}

// Report is the outcome of a run.
type Report struct {
	RunID    uuid.UUID
	Started  time.Time
	Duration time.Duration

	Routers   []string // router names in routing order
	Payments  []Payment
	Results   map[string][]routing.Result // indexed like Payments
	Summaries []metrics.Summary           // in Routers order

	Blacklisted           int
	StabilizationMessages int64
}

// Runner executes one simulation over a base network.
type Runner struct {
	cfg       config.Config
	base      *network.Network
	logger    *slog.Logger
	clock     clock.Clock
	collector *metrics.Collector
	ranking   []network.RankedChannel
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the run logger; routers log through it as well.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock replaces the wall clock used for run timing.
func WithClock(c clock.Clock) Option {
	return func(r *Runner) {
		r.clock = c
	}
}

// WithCollector records every result and stabilization message in c.
func WithCollector(c *metrics.Collector) Option {
	return func(r *Runner) {
		r.collector = c
	}
}

// WithRanking supplies the channel order used by ranked saturation.
func WithRanking(rows []network.RankedChannel) Option {
	return func(r *Runner) {
		r.ranking = rows
	}
}

// New validates cfg and returns a Runner over base. base is never mutated.
func New(cfg config.Config, base *network.Network, opts ...Option) (*Runner, error) {
	if base == nil {
		return nil, ErrNilNetwork
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{
		cfg:    cfg,
		base:   base,
		logger: slog.New(slog.DiscardHandler),
		clock:  clock.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// prepare clones the base network and applies the configured perturbations.
func (r *Runner) prepare() (*network.Network, error) {
	net := r.base.Clone()
	nc := r.cfg.Network
	seeds := r.cfg.Simulation.Seeds
	if _, err := net.MakeOffline(nc.OfflineFraction, rand.New(rand.NewSource(seeds.Offline))); err != nil {
		return nil, err
	}
	mode, err := network.ParseSaturationMode(nc.SaturationMode)
	if err != nil {
		return nil, err
	}
	if _, err := net.Saturate(nc.SaturationFraction, mode, rand.New(rand.NewSource(seeds.Saturation)), r.ranking); err != nil {
		return nil, err
	}
	return net, nil
}

// build creates the three routers over identically prepared clones.
func (r *Runner) build() ([]routing.Router, []*network.Network, *landmark.Router, error) {
	nets := make([]*network.Network, 3)
	for i := range nets {
		net, err := r.prepare()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("sim: prepare network: %w", err)
		}
		nets[i] = net
	}

	mode, err := rank.ParseMode(r.cfg.Rank.Mode)
	if err != nil {
		return nil, nil, nil, err
	}
	seed := r.cfg.Simulation.Seeds.Routing
	g, err := gated.New(nets[0],
		gated.WithRand(rand.New(rand.NewSource(seed))),
		gated.WithCandidateWidth(r.cfg.Rank.MaxCandidates),
		gated.WithFilter(r.cfg.Bloom.ExpectedItems, r.cfg.Bloom.FalsePositiveRate),
		gated.WithRankOptions(rank.WithMode(mode), rank.WithMaxWeight(r.cfg.Rank.MaxWeight)),
		gated.WithLogger(r.logger))
	if err != nil {
		return nil, nil, nil, err
	}

	lmOpts := []landmark.Option{
		landmark.WithRand(rand.New(rand.NewSource(seed + 1))),
		landmark.WithTrees(r.cfg.Landmark.Trees),
		landmark.WithLogger(r.logger),
	}
	if r.collector != nil {
		lmOpts = append(lmOpts, landmark.WithMessageCounter(r.collector.StabilizationCounter()))
	}
	lm, err := landmark.New(nets[1], lmOpts...)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := lm.Setup(); err != nil {
		return nil, nil, nil, err
	}

	ref := reference.New(nets[2], reference.WithLogger(r.logger))
	return []routing.Router{g, lm, ref}, nets, lm, nil
}

// Run executes the configured number of payments. It stops between payments
// when ctx is done and returns ctx's error with the partial report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	started := r.clock.Now()
	routers, nets, lm, err := r.build()
	if err != nil {
		return nil, err
	}

	rep := &Report{
		RunID:   uuid.New(),
		Started: started,
		Results: make(map[string][]routing.Result, len(routers)),
	}
	for _, rt := range routers {
		rep.Routers = append(rep.Routers, rt.Name())
	}
	blacklist := make(map[string]bool)
	for _, id := range nets[1].Unconnected() {
		blacklist[id] = true
	}
	rep.Blacklisted = len(blacklist)

	r.logger.Info("simulation started",
		slog.String("run_id", rep.RunID.String()),
		slog.Int("nodes", len(r.base.Nodes())),
		slog.Int("blacklisted", rep.Blacklisted),
		slog.Int("payments", r.cfg.Simulation.Payments))

	s := &sampler{
		rng:       rand.New(rand.NewSource(r.cfg.Simulation.Seeds.Payments)),
		nodes:     r.base.Nodes(),
		blacklist: blacklist,
		nets:      nets,
		min:       r.cfg.Simulation.MinPayment,
		max:       r.cfg.Simulation.MaxPayment,
		attempts:  r.cfg.Simulation.MaxResample,
	}

	var runErr error
	for i := 0; i < r.cfg.Simulation.Payments; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		p, err := s.next()
		if err != nil {
			runErr = fmt.Errorf("payment %d: %w", i, err)
			break
		}
		results, err := routeAll(routers, p)
		if err != nil {
			runErr = fmt.Errorf("payment %d: %w", i, err)
			break
		}
		rep.Payments = append(rep.Payments, p)
		for j, rt := range routers {
			rep.Results[rt.Name()] = append(rep.Results[rt.Name()], results[j])
			if r.collector != nil {
				r.collector.Observe(rt.Name(), results[j])
			}
		}
		r.logger.Debug("payment routed",
			slog.Int("index", i),
			slog.String("src", p.Src),
			slog.String("dst", p.Dst),
			slog.Int64("amount", p.Amount))
	}

	for _, name := range rep.Routers {
		rep.Summaries = append(rep.Summaries, metrics.Summarize(name, rep.Results[name]))
	}
	rep.StabilizationMessages = lm.Messages()
	rep.Duration = r.clock.Since(started)
	r.logger.Info("simulation finished",
		slog.String("run_id", rep.RunID.String()),
		slog.Int("payments", len(rep.Payments)),
		slog.Duration("duration", rep.Duration),
		slog.Int64("stabilization_messages", rep.StabilizationMessages))
	return rep, runErr
}

// routeAll routes p on every router concurrently. Each router owns its
// network, so the goroutines share no mutable state. A router panic is
// recovered and returned as ErrRouterPanic; the other routers still finish.
func routeAll(routers []routing.Router, p Payment) ([]routing.Result, error) {
	results := make([]routing.Result, len(routers))
	var g errgroup.Group
	for i, rt := range routers {
		g.Go(func() (err error) {
			defer func() {
				if v := recover(); v != nil {
					err = fmt.Errorf("%w: %s: %v", ErrRouterPanic, rt.Name(), v)
				}
			}()
			results[i] = rt.Route(p.Src, p.Dst, p.Amount)
			return nil
		})
	}
	return results, g.Wait()
}
