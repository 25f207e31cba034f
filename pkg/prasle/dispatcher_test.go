package prasle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"wsnelect/pkg/engine"
	"wsnelect/pkg/timer"
	"wsnelect/pkg/transport"
	"wsnelect/pkg/wire"
)

func fastConfig(self wire.NodeID, n int) Config {
	cfg := DefaultConfig(self, n, TopologyClique)
	cfg.RoundDuration = 40 * time.Millisecond
	cfg.RandomDelayMax = 5 * time.Millisecond
	return cfg
}

func TestDispatcherCliqueConvergesOnLowestID(t *testing.T) {
	bus := transport.NewBus()
	const n = 4

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatchers := make([]*Dispatcher, 0, n)
	for id := 1; id <= n; id++ {
		tr, err := bus.Join(fmt.Sprintf("node-%d", id))
		if err != nil {
			t.Fatalf("join bus: %v", err)
		}
		d := NewDispatcher(fastConfig(wire.NodeID(id), n), tr, timer.NewRealService())
		dispatchers = append(dispatchers, d)
		if err := d.Start(ctx); err != nil {
			t.Fatalf("start node %d: %v", id, err)
		}
	}
	defer func() {
		for _, d := range dispatchers {
			d.Stop()
		}
	}()

	deadline := time.After(3 * time.Second)
	for {
		allAgree := true
		for _, d := range dispatchers {
			if d.Leader() != 1 {
				allAgree = false
				break
			}
		}
		if allAgree {
			return
		}

		select {
		case <-deadline:
			t.Fatal("nodes did not converge on the lowest-ranked leader in time")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

var _ engine.Engine = (*Dispatcher)(nil)
