package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pcnroute/network"
)

func newInspectCmd(g *globalFlags) *cobra.Command {
	var (
		snapshot string
		edges    bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print statistics of a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := g.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			net, err := network.LoadSnapshotFile(snapshot, network.WithLogger(logger))
			if err != nil {
				return err
			}
			return printNetwork(cmd, net, edges)
		},
	}
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "listchannels JSON snapshot")
	cmd.Flags().BoolVar(&edges, "edges", false, "also list every node's outgoing edges")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

func printNetwork(cmd *cobra.Command, net *network.Network, edges bool) error {
	s := net.Stats()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "nodes\t%d\n", s.Nodes)
	fmt.Fprintf(tw, "channels\t%d\n", s.Channels)
	fmt.Fprintf(tw, "bidirectional\t%d\n", s.Bidirectional)
	fmt.Fprintf(tw, "online\t%d\n", s.Online)
	fmt.Fprintf(tw, "edges\t%d\n", s.Edges)
	fmt.Fprintf(tw, "skipped records\t%d\n", s.Skipped)
	fmt.Fprintf(tw, "outside largest SCC\t%d\n", len(net.Unconnected()))
	if edges {
		for _, node := range net.Nodes() {
			for _, e := range net.Neighbors(node) {
				ch, _ := net.Channel(e.ChannelID)
				fmt.Fprintf(tw, "%s\t→ %s\t%s\tcap=%d\n", node, e.To, e.ChannelID, ch.Capacity(node))
			}
		}
	}
	return tw.Flush()
}
