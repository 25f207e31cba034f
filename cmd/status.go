package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"wsnelect/pkg/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show local system info and the resolved node configuration",
	Long:  `Display the running host's info and the protocol configuration that would be used by "run", without starting an engine.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("config")

		fmt.Println("wsnelect Status")
		fmt.Println("===============")
		fmt.Println()

		fmt.Println("Local System:")
		fmt.Printf("  OS: %s\n", runtime.GOOS)
		fmt.Printf("  Arch: %s\n", runtime.GOARCH)
		fmt.Printf("  CPUs: %d\n", runtime.NumCPU())
		hostname, _ := os.Hostname()
		fmt.Printf("  Hostname: %s\n", hostname)
		fmt.Println()

		cfg, err := config.LoadFromFile(path)
		if err != nil {
			fmt.Printf("Configuration (%s): could not load: %v\n", path, err)
			return
		}

		fmt.Printf("Configuration (%s):\n", path)
		fmt.Printf("  Protocol: %s\n", cfg.Protocol)
		fmt.Printf("  Identity source: %s\n", cfg.Node.Identity)
		if cfg.Node.Identity == config.IdentityStatic {
			fmt.Printf("  Static id: %d\n", cfg.Node.StaticID)
		}
		switch cfg.Protocol {
		case "bully":
			fmt.Printf("  Election timeout: %s\n", cfg.Bully.ElectionTimeout())
			fmt.Printf("  Coordinator timeout: %s\n", cfg.Bully.CoordinatorTimeout())
			fmt.Printf("  Alive interval: %s\n", cfg.Bully.AliveInterval())
			fmt.Printf("  Max nodes: %d\n", cfg.Bully.MaxNodes)
		case "ring":
			fmt.Printf("  Ring size: %d\n", cfg.Ring.RingSize)
			fmt.Printf("  Election timeout: %s\n", cfg.Ring.ElectionTimeout())
			fmt.Printf("  Coordinator timeout: %s\n", cfg.Ring.CoordinatorTimeout())
			fmt.Printf("  Alive interval: %s\n", cfg.Ring.AliveInterval())
		case "prasle":
			fmt.Printf("  Network size: %d\n", cfg.Prasle.NetworkSize)
			fmt.Printf("  Topology: %s\n", cfg.Prasle.NetworkTopology)
			fmt.Printf("  K rounds: %d\n", cfg.Prasle.KRounds)
			fmt.Printf("  Round duration: %s\n", cfg.Prasle.RoundDuration())
		}
	},
}

func init() {
	statusCmd.Flags().StringP("config", "c", "node.yaml", "path to the node's YAML configuration file")
	rootCmd.AddCommand(statusCmd)
}
