package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wsnelect/pkg/bully"
	"wsnelect/pkg/config"
	"wsnelect/pkg/engine"
	"wsnelect/pkg/identity"
	"wsnelect/pkg/prasle"
	"wsnelect/pkg/ring"
	"wsnelect/pkg/timer"
	"wsnelect/pkg/transport"
	"wsnelect/pkg/wire"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run this node's leader-election engine over real UDP multicast",
	Long:  `Load a node configuration file and run the configured protocol's engine, joining the network over IPv4 UDP multicast.`,
	Run:   runRun,
}

func init() {
	runCmd.Flags().StringP("config", "c", "node.yaml", "path to the node's YAML configuration file")
	runCmd.Flags().String("group", transport.DefaultMulticastGroup, "UDP multicast group address")
	runCmd.Flags().String("iface", "", "network interface for multicast (empty: kernel default)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) {
	path, _ := cmd.Flags().GetString("config")
	group, _ := cmd.Flags().GetString("group")
	iface, _ := cmd.Flags().GetString("iface")

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		log.Fatalf("wsnelect: %v", err)
	}

	self, err := resolveIdentity(cfg)
	if err != nil {
		log.Fatalf("wsnelect: resolving node identity: %v", err)
	}

	tr, err := transport.NewUDPTransport(group, iface)
	if err != nil {
		log.Fatalf("wsnelect: opening multicast transport: %v", err)
	}

	eng, err := buildEngine(cfg, self, tr, timer.NewRealService())
	if err != nil {
		log.Fatalf("wsnelect: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := eng.Start(ctx); err != nil {
		log.Fatalf("wsnelect: starting %s engine: %v", cfg.Protocol, err)
	}
	log.Printf("wsnelect[%s]: node %d running over %s", cfg.Protocol, self, group)

	leaderCh := eng.LeaderChanges(ctx)
	for {
		select {
		case <-ctx.Done():
			eng.Stop()
			return
		case leader, ok := <-leaderCh:
			if !ok {
				return
			}
			log.Printf("wsnelect[%s]: node %d now sees leader %d (self leader: %v)", cfg.Protocol, self, leader, eng.IsLeader())
		}
	}
}

func resolveIdentity(cfg config.Config) (uint16, error) {
	var source identity.Source
	switch cfg.Node.Identity {
	case config.IdentityStatic:
		source = identity.Static(cfg.Node.StaticID)
	case config.IdentityHostname:
		source = identity.Hostname{}
	case config.IdentityEC2:
		source = identity.NewEC2()
	default:
		return 0, fmt.Errorf("unknown identity source %q", cfg.Node.Identity)
	}

	id, err := source.NodeID()
	if err != nil {
		return 0, err
	}
	return uint16(id), nil
}

func buildEngine(cfg config.Config, self uint16, tr transport.Transport, ts timer.Service) (engine.Engine, error) {
	switch cfg.Protocol {
	case "bully":
		bc := bully.DefaultConfig(wire.NodeID(self))
		bc.ElectionTimeout = cfg.Bully.ElectionTimeout()
		bc.CoordinatorTimeout = cfg.Bully.CoordinatorTimeout()
		bc.AliveInterval = cfg.Bully.AliveInterval()
		bc.RandomDelayMax = cfg.Bully.RandomDelayMax()
		bc.MaxNodes = cfg.Bully.MaxNodes
		return bully.NewDispatcher(bc, tr, ts), nil

	case "ring":
		rc := ring.DefaultConfig(wire.NodeID(self), cfg.Ring.RingSize)
		rc.ElectionTimeout = cfg.Ring.ElectionTimeout()
		rc.CoordinatorTimeout = cfg.Ring.CoordinatorTimeout()
		rc.AliveInterval = cfg.Ring.AliveInterval()
		rc.RandomDelayMax = cfg.Ring.RandomDelayMax()
		return ring.NewDispatcher(rc, tr, ts), nil

	case "prasle":
		pc := prasle.DefaultConfig(wire.NodeID(self), cfg.Prasle.NetworkSize, cfg.Topology())
		pc.K = cfg.Prasle.KRounds
		pc.RoundDuration = cfg.Prasle.RoundDuration()
		pc.NMax = cfg.Prasle.NMax
		pc.RandomDelayMax = cfg.Prasle.RandomDelayMax()
		return prasle.NewDispatcher(pc, tr, ts), nil

	default:
		return nil, fmt.Errorf("unknown protocol %q", cfg.Protocol)
	}
}
