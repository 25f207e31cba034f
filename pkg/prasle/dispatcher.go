package prasle

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"wsnelect/pkg/engine"
	"wsnelect/pkg/metrics"
	"wsnelect/pkg/timer"
	"wsnelect/pkg/transport"
	"wsnelect/pkg/wire"
)

// Dispatcher realizes the single cooperative task per node as a goroutine
// draining the transport's receive channel and the timer service's Fired
// channel into the StateMachine, one event at a time. It implements
// engine.Engine.
type Dispatcher struct {
	cfg       Config
	transport transport.Transport
	timers    timer.Service
	sm        *StateMachine
	broadcast *engine.Broadcaster
	metrics   *metrics.Collector

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	receiveCh chan wire.PrasleMessage
}

// NewDispatcher wires a StateMachine to a real transport and timer service.
func NewDispatcher(cfg Config, tr transport.Transport, ts timer.Service) *Dispatcher {
	d := &Dispatcher{
		cfg:       cfg,
		transport: tr,
		timers:    ts,
		broadcast: engine.NewBroadcaster(),
		metrics:   metrics.GetCollector(),
		receiveCh: make(chan wire.PrasleMessage, 32),
	}
	d.sm = New(cfg, d.instrumentedSend(tr.Send), ts)
	return d
}

func (d *Dispatcher) instrumentedSend(send Sender) Sender {
	return func(payload []byte) error {
		d.metrics.IncMessagesSent("prasle", "gossip")
		return send(payload)
	}
}

func (d *Dispatcher) Protocol() string    { return "prasle" }
func (d *Dispatcher) Self() wire.NodeID   { return d.cfg.Self }
func (d *Dispatcher) IsLeader() bool      { return d.sm.IsLeader() }
func (d *Dispatcher) Leader() wire.NodeID { return d.sm.CurrentLeader() }

func (d *Dispatcher) LeaderChanges(ctx context.Context) <-chan wire.NodeID {
	return d.broadcast.LeaderChanges(ctx)
}

func (d *Dispatcher) Watch(ctx context.Context) <-chan engine.StateChange {
	return d.broadcast.Watch(ctx)
}

// Start installs the receive handler, waits the random startup delay,
// bootstraps the round engine, and runs the event loop until ctx is
// cancelled or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("prasle: dispatcher for node %d already running", d.cfg.Self)
	}
	d.running = true
	d.stopCh = make(chan struct{})
	d.mu.Unlock()

	d.transport.SetReceiveHandler(func(payload []byte, sender string) {
		msg, err := wire.UnmarshalPrasle(payload)
		if err != nil {
			d.metrics.IncMessagesDropped("prasle", "malformed")
			log.Printf("prasle[%d]: dropping malformed message from %s: %v", d.cfg.Self, sender, err)
			return
		}
		d.metrics.IncMessagesReceived("prasle", "gossip")
		select {
		case d.receiveCh <- msg:
		default:
			d.metrics.IncMessagesDropped("prasle", "queue_full")
			log.Printf("prasle[%d]: receive queue full, dropping message from %s", d.cfg.Self, sender)
		}
	})

	d.wg.Add(1)
	go d.run(ctx)
	return nil
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()

	delay := time.Duration(rand.Int63n(int64(d.cfg.RandomDelayMax) + 1))
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return
	case <-d.stopCh:
		return
	}

	d.sm.Bootstrap()
	d.metrics.IncElectionsStarted("prasle")
	d.broadcast.Emit(engine.StateChange{Kind: engine.ChangeElectionStart, Timestamp: time.Now()})

	for {
		prevLeader := d.sm.CurrentLeader()
		prevRound := d.sm.Round()
		wasConverged, _ := d.sm.Converged()

		select {
		case <-ctx.Done():
			return
		case <-d.stopCh:
			return
		case name := <-d.timers.Fired():
			d.sm.HandleTimer(name)
		case msg := <-d.receiveCh:
			d.sm.HandleMessage(msg)
		}

		d.emitLeaderIfChanged(prevLeader)
		if d.sm.Round() != prevRound {
			d.broadcast.Emit(engine.StateChange{Kind: engine.ChangeRoundAdvanced, Leader: d.sm.CurrentLeader(), Round: d.sm.Round(), Timestamp: time.Now()})
		}
		if converged, round := d.sm.Converged(); converged && !wasConverged {
			d.metrics.ObserveConvergenceRound(round)
			d.broadcast.Emit(engine.StateChange{Kind: engine.ChangeConverged, Leader: d.sm.CurrentLeader(), Round: round, Timestamp: time.Now()})
			log.Printf("prasle[%d]: converged at round %d on leader %d", d.cfg.Self, round, d.sm.CurrentLeader())
		}
	}
}

func (d *Dispatcher) emitLeaderIfChanged(prev wire.NodeID) {
	cur := d.sm.CurrentLeader()
	if cur != prev {
		d.metrics.IncLeaderChanges("prasle")
		d.broadcast.EmitLeader(cur)
		d.broadcast.Emit(engine.StateChange{Kind: engine.ChangeLeaderElected, Leader: cur, Timestamp: time.Now()})
	}
}

// Stop shuts the dispatcher down and releases the transport and timer
// service.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return fmt.Errorf("prasle: dispatcher for node %d not running", d.cfg.Self)
	}
	d.running = false
	close(d.stopCh)
	d.mu.Unlock()

	d.wg.Wait()
	d.timers.Close()
	return d.transport.Close()
}
