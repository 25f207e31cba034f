// Package prasle implements the PraSLE self-stabilizing, synchronous,
// round-based leader-election engine: each round has a fixed receive window
// followed by a lexicographic-minimum gossip update.
package prasle

import (
	"time"

	"wsnelect/pkg/wire"
)

// TimerRound is the single timer the round engine drives: it fires once per
// round boundary, closing the receive window and triggering the
// update-and-disseminate step.
const TimerRound = "round_timer"

// Config holds the round engine's static parameters.
type Config struct {
	Self     wire.NodeID
	N        int
	Topology Topology

	K             int           // at least the network diameter
	RoundDuration time.Duration // T, the fixed receive-window duration
	NMax          int           // sentinel upper bound for mini's initial value

	// RankingValue generalizes the reference implementation's
	// ranking_value = my_id into a pluggable function, so alternate
	// ranking schemes (e.g. residual energy) can be substituted without
	// touching the round logic.
	RankingValue func(wire.NodeID) wire.NodeID

	RandomDelayMax time.Duration
}

// DefaultConfig returns a Config with K derived from the topology's
// estimated diameter and the reference ranking_value = my_id.
func DefaultConfig(self wire.NodeID, n int, topology Topology) Config {
	k := EstimateDiameter(topology, n)
	if k < 1 {
		k = 1
	}
	return Config{
		Self:           self,
		N:              n,
		Topology:       topology,
		K:              k,
		RoundDuration:  time.Second,
		NMax:           n,
		RankingValue:   func(id wire.NodeID) wire.NodeID { return id },
		RandomDelayMax: 3 * time.Second,
	}
}

// Sender broadcasts an already-encoded PraSLE message.
type Sender func(payload []byte) error

// Timers is the subset of the external timer contract the round engine
// drives directly.
type Timers interface {
	Arm(name string, d time.Duration)
	Rearm(name string)
}

// StateMachine is the deterministic PraSLE round engine. HandleMessage
// accumulates gossip during a round's receive window; HandleTimer(TimerRound)
// closes the window and advances the round.
type StateMachine struct {
	cfg       Config
	send      Sender
	timers    Timers
	neighbors map[wire.NodeID]bool

	roundCounter int
	round        int

	mini    wire.NodeID
	leaderi wire.NodeID

	tempMini    wire.NodeID
	tempLeaderi wire.NodeID

	converged      bool
	convergedRound int

	recvThisRound int
	lastRecvCount int
}

// New constructs a StateMachine with its neighbor table populated from the
// static topology. Call Bootstrap once the random startup delay has
// elapsed.
func New(cfg Config, send Sender, timers Timers) *StateMachine {
	neighbors := make(map[wire.NodeID]bool)
	for _, nb := range Neighbors(cfg.Self, cfg.N, cfg.Topology) {
		neighbors[nb] = true
	}
	rv := cfg.RankingValue(cfg.Self)
	return &StateMachine{
		cfg:          cfg,
		send:         send,
		timers:       timers,
		neighbors:    neighbors,
		roundCounter: cfg.K + 1,
		mini:         wire.NodeID(cfg.NMax + 1),
		leaderi:      cfg.Self,
		tempMini:     rv,
		tempLeaderi:  cfg.Self,
	}
}

// Bootstrap arms the round timer for the first receive window.
func (m *StateMachine) Bootstrap() {
	m.timers.Arm(TimerRound, m.cfg.RoundDuration)
}

// CurrentLeader returns this node's current view of the leader.
func (m *StateMachine) CurrentLeader() wire.NodeID { return m.leaderi }

// IsLeader reports whether this node believes itself to be the leader.
func (m *StateMachine) IsLeader() bool { return m.leaderi == m.cfg.Self }

// Round returns the number of round boundaries crossed since boot.
func (m *StateMachine) Round() int { return m.round }

// Converged reports whether convergence has been recorded — the first round
// that closed with round_counter <= 0 and no change to (mini, leaderi) —
// and the round at which that happened.
func (m *StateMachine) Converged() (bool, int) { return m.converged, m.convergedRound }

// LastRoundReceiveCount returns the number of neighbor messages processed
// during the most recently closed round's window, for telemetry only.
func (m *StateMachine) LastRoundReceiveCount() int { return m.lastRecvCount }

// IsNeighbor reports whether sender is in this node's static neighbor set.
func (m *StateMachine) IsNeighbor(sender wire.NodeID) bool { return m.neighbors[sender] }

// HandleMessage processes one already-decoded PraSLE gossip message. A
// message from a node outside the static neighbor table is dropped — the
// broadcast transport reaches every node, but the round engine's topology
// restricts which edges actually exist.
func (m *StateMachine) HandleMessage(msg wire.PrasleMessage) {
	if msg.SenderID == m.cfg.Self || !m.neighbors[msg.SenderID] {
		return
	}
	m.recvThisRound++
	if wire.Less(msg.MinValue, msg.LeaderID, m.tempMini, m.tempLeaderi) {
		m.tempMini = msg.MinValue
		m.tempLeaderi = msg.LeaderID
	}
}

// HandleTimer processes the expiry of the round timer, closing the current
// receive window.
func (m *StateMachine) HandleTimer(name string) {
	if name != TimerRound {
		return
	}
	m.onRoundExpiry()
}

func (m *StateMachine) onRoundExpiry() {
	m.roundCounter--
	m.round++
	m.lastRecvCount = m.recvThisRound
	m.recvThisRound = 0

	changed := wire.Less(m.tempMini, m.tempLeaderi, m.mini, m.leaderi)
	if changed {
		m.mini, m.leaderi = m.tempMini, m.tempLeaderi
		m.send(wire.PrasleMessage{MinValue: m.mini, LeaderID: m.leaderi, SenderID: m.cfg.Self}.Marshal())
	}

	if m.roundCounter <= 0 && !changed && !m.converged {
		m.converged = true
		m.convergedRound = m.round
	}

	m.timers.Rearm(TimerRound)
}
