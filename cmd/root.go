package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wsnelect",
	Short: "Leader-election protocol runner for wireless multi-hop sensor networks",
	Long: `wsnelect runs one of three leader-election protocols — Bully, Ring, or
PraSLE — for a node in a resource-constrained, multi-hop wireless network.
It can run a single node over real UDP multicast, or simulate a whole
network in-process over a shared memory bus.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
