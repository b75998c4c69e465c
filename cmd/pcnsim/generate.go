package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/katalvlaran/pcnroute/gen"
	"github.com/katalvlaran/pcnroute/network"
)

var errBadCapacityRange = errors.New("capacity range must satisfy 0 < min <= max")

func newGenerateCmd(_ *globalFlags) *cobra.Command {
	var (
		n              int
		p              float64
		seed           int64
		capMin, capMax int64
		biProb         float64
		output         string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic listchannels snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			if capMin <= 0 || capMax < capMin {
				return errBadCapacityRange
			}
			if biProb < 0 || biProb > 1 {
				return gen.ErrInvalidProbability
			}
			recs, err := gen.RandomSparse(n, p,
				gen.WithSeed(seed),
				gen.WithCapacityRange(capMin, capMax),
				gen.WithBidirectionalProb(biProb),
				gen.WithRandomFees())
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return network.WriteSnapshot(cmd.OutOrStdout(), recs)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, f.Close())
			}()
			return network.WriteSnapshot(f, recs)
		},
	}
	fl := cmd.Flags()
	fl.IntVarP(&n, "nodes", "n", 200, "number of nodes")
	fl.Float64VarP(&p, "probability", "p", 0.05, "channel probability per node pair")
	fl.Int64Var(&seed, "seed", 1, "random seed")
	fl.Int64Var(&capMin, "capacity-min", 10_000, "minimum channel capacity, sat")
	fl.Int64Var(&capMax, "capacity-max", 5_000_000, "maximum channel capacity, sat")
	fl.Float64Var(&biProb, "bidirectional", 0.9, "probability that both directions are announced")
	fl.StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	return cmd
}
