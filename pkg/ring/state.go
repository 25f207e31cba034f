// Package ring implements the token-passing Ring leader-election state
// machine: a single ELECTION/COORDINATOR/ALIVE message circulates a static
// logical ring, each node knowing only its successor.
package ring

import (
	"time"

	"wsnelect/pkg/wire"
)

// State is one of the two Ring states.
type State int

const (
	// StateNormal: a leader is known.
	StateNormal State = iota
	// StateElection: a token is circulating and we are waiting for it to
	// complete the loop.
	StateElection
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "NORMAL"
	case StateElection:
		return "ELECTION"
	default:
		return "UNKNOWN"
	}
}

// Timer names armed and rearmed by the StateMachine.
const (
	TimerElection    = "election_timer"
	TimerCoordinator = "coordinator_timer"
	TimerAlive       = "alive_timer"
)

// Config holds the ring's static topology and timer tunables.
type Config struct {
	Self wire.NodeID
	N    int // total ring size; nodes are numbered 1..N
	Next wire.NodeID

	ElectionTimeout    time.Duration // default 8s
	CoordinatorTimeout time.Duration // default 15s
	AliveInterval      time.Duration // default 10s
	RandomDelayMax     time.Duration // default 5s
}

// DefaultConfig returns the timer values named in the configuration surface
// for a ring of size n, with self's successor precomputed.
func DefaultConfig(self wire.NodeID, n int) Config {
	return Config{
		Self:               self,
		N:                  n,
		Next:               NextNodeID(self, n),
		ElectionTimeout:    8 * time.Second,
		CoordinatorTimeout: 15 * time.Second,
		AliveInterval:      10 * time.Second,
		RandomDelayMax:     5 * time.Second,
	}
}

// Sender broadcasts an already-encoded Ring message; the transport is a
// shared broadcast medium, so every node receives it and filters on
// target_node_id.
type Sender func(payload []byte) error

// Timers is the subset of the external timer contract the state machine
// drives directly.
type Timers interface {
	Arm(name string, d time.Duration)
	Rearm(name string)
}

// StateMachine is the deterministic Ring core. Every transition happens
// inside HandleMessage or HandleTimer, synchronously.
type StateMachine struct {
	cfg    Config
	send   Sender
	timers Timers

	state            State
	currentLeader    wire.NodeID
	electionSequence uint16
}

// New constructs a StateMachine. Call Bootstrap once the random startup
// delay has elapsed.
func New(cfg Config, send Sender, timers Timers) *StateMachine {
	return &StateMachine{cfg: cfg, send: send, timers: timers, state: StateNormal}
}

// Bootstrap arms alive_timer and coordinator_timer; only the highest-id node
// sends the first ELECTION (arming election_timer), all other nodes wait on
// coordinator_timer.
func (m *StateMachine) Bootstrap() {
	m.timers.Arm(TimerAlive, m.cfg.AliveInterval)
	m.timers.Arm(TimerCoordinator, m.cfg.CoordinatorTimeout)
	if m.cfg.Self == HighestID(m.cfg.N) {
		m.startElection()
	}
}

// State returns the current state.
func (m *StateMachine) State() State { return m.state }

// CurrentLeader returns the node currently believed to be leader, 0 if none.
func (m *StateMachine) CurrentLeader() wire.NodeID { return m.currentLeader }

// IsLeader reports whether this node believes itself to be the leader.
func (m *StateMachine) IsLeader() bool { return m.currentLeader == m.cfg.Self }

func (m *StateMachine) startElection() {
	m.state = StateElection
	m.electionSequence++
	m.send(wire.RingMessage{
		Type:         wire.RingElection,
		InitiatorID:  m.cfg.Self,
		CandidateID:  m.cfg.Self,
		Sequence:     m.electionSequence,
		TargetNodeID: m.cfg.Next,
	}.Marshal())
	m.timers.Arm(TimerElection, m.cfg.ElectionTimeout)
}

// HandleMessage processes one already-decoded Ring message. Messages not
// addressed to this node (target_node_id != self) are dropped — the
// broadcast transport delivers to everyone, but the ring protocol is
// point-to-point by construction.
func (m *StateMachine) HandleMessage(msg wire.RingMessage) {
	if msg.TargetNodeID != m.cfg.Self {
		return
	}

	switch msg.Type {
	case wire.RingElection:
		m.handleElection(msg)
	case wire.RingCoordinator:
		m.handleCoordinator(msg)
	case wire.RingAlive:
		m.handleAlive(msg)
	}
}

func (m *StateMachine) handleElection(msg wire.RingMessage) {
	if msg.InitiatorID == m.cfg.Self {
		m.currentLeader = msg.CandidateID
		m.state = StateNormal
		m.timers.Rearm(TimerCoordinator)
		m.send(wire.RingMessage{
			Type:         wire.RingCoordinator,
			InitiatorID:  m.cfg.Self,
			CandidateID:  msg.CandidateID,
			Sequence:     msg.Sequence,
			TargetNodeID: m.cfg.Next,
		}.Marshal())
		return
	}

	candidate := msg.CandidateID
	if m.cfg.Self > candidate {
		candidate = m.cfg.Self
	}
	m.state = StateElection
	m.timers.Rearm(TimerElection)
	m.send(wire.RingMessage{
		Type:         wire.RingElection,
		InitiatorID:  msg.InitiatorID,
		CandidateID:  candidate,
		Sequence:     msg.Sequence,
		TargetNodeID: m.cfg.Next,
	}.Marshal())
}

func (m *StateMachine) handleCoordinator(msg wire.RingMessage) {
	if msg.InitiatorID == m.cfg.Self && m.currentLeader == m.cfg.Self {
		return // token has completed the loop; terminate, do not forward
	}

	m.currentLeader = msg.CandidateID
	m.state = StateNormal
	m.timers.Rearm(TimerCoordinator)
	m.send(wire.RingMessage{
		Type:         wire.RingCoordinator,
		InitiatorID:  msg.InitiatorID,
		CandidateID:  msg.CandidateID,
		Sequence:     msg.Sequence,
		TargetNodeID: m.cfg.Next,
	}.Marshal())
}

func (m *StateMachine) handleAlive(msg wire.RingMessage) {
	if msg.InitiatorID == m.cfg.Self {
		return // leader's own heartbeat returned; drop the token
	}

	if msg.InitiatorID == m.currentLeader {
		m.timers.Rearm(TimerCoordinator)
	}
	m.send(wire.RingMessage{
		Type:         wire.RingAlive,
		InitiatorID:  msg.InitiatorID,
		CandidateID:  msg.CandidateID,
		Sequence:     msg.Sequence,
		TargetNodeID: m.cfg.Next,
	}.Marshal())
}

// HandleTimer processes the expiry of a named timer.
func (m *StateMachine) HandleTimer(name string) {
	switch name {
	case TimerElection:
		m.onElectionTimer()
	case TimerCoordinator:
		m.onCoordinatorTimer()
	case TimerAlive:
		m.onAliveTimer()
	}
}

func (m *StateMachine) onElectionTimer() {
	if m.state == StateElection {
		m.startElection() // token presumed lost; re-initiate
	}
}

func (m *StateMachine) onCoordinatorTimer() {
	if m.currentLeader == 0 {
		m.startElection()
	}
	m.timers.Rearm(TimerCoordinator)
}

func (m *StateMachine) onAliveTimer() {
	if m.currentLeader == m.cfg.Self {
		m.send(wire.RingMessage{
			Type:         wire.RingAlive,
			InitiatorID:  m.cfg.Self,
			CandidateID:  m.cfg.Self,
			Sequence:     0,
			TargetNodeID: m.cfg.Next,
		}.Marshal())
	}
	m.timers.Rearm(TimerAlive)
}
