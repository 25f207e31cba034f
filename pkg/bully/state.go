// Package bully implements the priority-based Bully leader-election state
// machine: broadcast ELECTION/ANSWER, COORDINATOR announcement, and ALIVE
// heartbeat with two partition-healing mechanisms.
package bully

import (
	"time"

	"wsnelect/pkg/wire"
)

// State is one of the three Bully states.
type State int

const (
	// StateNormal: a leader is known and trusted.
	StateNormal State = iota
	// StateElection: we broadcast ELECTION and await ANSWER.
	StateElection
	// StateWaitingCoordinator: a higher-priority peer silenced us; we
	// await a COORDINATOR announcement.
	StateWaitingCoordinator
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "NORMAL"
	case StateElection:
		return "ELECTION"
	case StateWaitingCoordinator:
		return "WAITING_COORDINATOR"
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

// Config holds the compile-time/static tunables named in the protocol's
// configuration surface.
type Config struct {
	Self               wire.NodeID
	ElectionTimeout    time.Duration // default 5s
	CoordinatorTimeout time.Duration // default 20s, must be >= 2*AliveInterval+slack
	AliveInterval      time.Duration // default 8s
	RandomDelayMax     time.Duration // default 5s, startup desync
	MaxNodes           int           // duplicate-filter width hint
}

// DefaultConfig returns the timer values named in the specification's
// configuration surface, for Self.
func DefaultConfig(self wire.NodeID) Config {
	return Config{
		Self:               self,
		ElectionTimeout:    5 * time.Second,
		CoordinatorTimeout: 20 * time.Second,
		AliveInterval:      8 * time.Second,
		RandomDelayMax:     5 * time.Second,
		MaxNodes:           32,
	}
}

// Sender broadcasts an already-encoded Bully message. It mirrors the
// external transport's send(payload_bytes) contract narrowed to what the
// state machine needs, so tests can substitute a recording fake without
// constructing a real transport.
type Sender func(payload []byte) error

// Timers is the subset of the external timer contract the state machine
// drives directly.
type Timers interface {
	Arm(name string, d time.Duration)
	Rearm(name string)
}

// StateMachine is the deterministic, synchronously-driven Bully core: every
// mutation happens inside HandleMessage or HandleTimer, to completion,
// matching the single cooperative task per node the protocol assumes.
type StateMachine struct {
	cfg    Config
	send   Sender
	timers Timers

	state                    State
	currentLeader            wire.NodeID
	electionSequence         uint16
	electionResponseReceived bool
	lastSeenElectionSeq      map[wire.NodeID]uint16
}

// New constructs a StateMachine. It does not arm any timers or send any
// messages; call Bootstrap once the random startup delay has elapsed.
func New(cfg Config, send Sender, timers Timers) *StateMachine {
	return &StateMachine{
		cfg:                 cfg,
		send:                send,
		timers:              timers,
		state:               StateNormal,
		lastSeenElectionSeq: make(map[wire.NodeID]uint16),
	}
}

// Bootstrap arms all three timers and starts the initial election, per the
// specified startup sequence (after the caller has already waited the
// random desync delay).
func (m *StateMachine) Bootstrap() {
	m.timers.Arm(TimerAlive, m.cfg.AliveInterval)
	m.timers.Arm(TimerCoordinator, m.cfg.CoordinatorTimeout)
	m.startElection()
}

// State returns the current state, for observability and tests.
func (m *StateMachine) State() State { return m.state }

// CurrentLeader returns the node currently believed to be leader, 0 if
// none.
func (m *StateMachine) CurrentLeader() wire.NodeID { return m.currentLeader }

// IsLeader reports whether this node believes itself to be the leader.
func (m *StateMachine) IsLeader() bool { return m.currentLeader == m.cfg.Self }

// startElection is the start_election operation: no-op if already
// electing, otherwise increments the election sequence and broadcasts.
func (m *StateMachine) startElection() {
	if m.state == StateElection {
		return
	}
	m.state = StateElection
	m.electionSequence++
	m.electionResponseReceived = false
	m.send(wire.BullyMessage{
		Type:     wire.BullyElection,
		NodeID:   m.cfg.Self,
		TargetID: wire.BullyBroadcastTarget,
		Sequence: m.electionSequence,
	}.Marshal())
	m.timers.Arm(TimerElection, m.cfg.ElectionTimeout)
}

// isDuplicateElection applies the asymmetric last_seen >= sequence rule:
// duplicate rejects *equal* sequences too, since election_sequence is
// incremented before send. This prevents replaying a given election round
// rather than guaranteeing monotonicity across rounds.
func (m *StateMachine) isDuplicateElection(sender wire.NodeID, seq uint16) bool {
	last, seen := m.lastSeenElectionSeq[sender]
	return seen && last >= seq
}

// HandleMessage processes one already-decoded Bully message from sender.
// Self-echoes are always ignored.
func (m *StateMachine) HandleMessage(msg wire.BullyMessage) {
	if msg.NodeID == m.cfg.Self {
		return
	}

	switch msg.Type {
	case wire.BullyElection:
		m.handleElection(msg)
	case wire.BullyAnswer:
		m.handleAnswer(msg)
	case wire.BullyCoordinator:
		m.handleCoordinator(msg)
	case wire.BullyAlive:
		m.handleAlive(msg)
	}
}

func (m *StateMachine) handleElection(msg wire.BullyMessage) {
	s := msg.NodeID
	if msg.TargetID != wire.BullyBroadcastTarget && msg.TargetID != m.cfg.Self {
		return
	}

	if m.isDuplicateElection(s, msg.Sequence) {
		return
	}
	m.lastSeenElectionSeq[s] = msg.Sequence

	if m.cfg.Self <= s {
		return
	}

	m.send(wire.BullyMessage{
		Type:     wire.BullyAnswer,
		NodeID:   m.cfg.Self,
		TargetID: s,
		Sequence: msg.Sequence,
	}.Marshal())

	if m.currentLeader == m.cfg.Self {
		m.send(wire.BullyMessage{
			Type:     wire.BullyCoordinator,
			NodeID:   m.cfg.Self,
			TargetID: wire.BullyBroadcastTarget,
			Sequence: m.electionSequence,
		}.Marshal())
	}
}

func (m *StateMachine) handleAnswer(msg wire.BullyMessage) {
	if msg.TargetID != m.cfg.Self || m.state != StateElection {
		return
	}
	m.electionResponseReceived = true
	m.state = StateWaitingCoordinator
	m.timers.Arm(TimerCoordinator, m.cfg.CoordinatorTimeout)
}

func (m *StateMachine) handleCoordinator(msg wire.BullyMessage) {
	s := msg.NodeID
	if s >= m.cfg.Self {
		m.currentLeader = s
		m.state = StateNormal
		m.timers.Arm(TimerCoordinator, m.cfg.CoordinatorTimeout)
		return
	}

	if m.state != StateElection {
		m.startElection()
	}
}

func (m *StateMachine) handleAlive(msg wire.BullyMessage) {
	s := msg.NodeID
	if s > m.cfg.Self && (m.currentLeader == 0 || m.state == StateWaitingCoordinator || s > m.currentLeader) {
		m.currentLeader = s
		m.state = StateNormal
		m.timers.Arm(TimerCoordinator, m.cfg.CoordinatorTimeout)
		return
	}
	if s == m.currentLeader {
		m.timers.Rearm(TimerCoordinator)
	}
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
	if m.electionResponseReceived {
		return
	}
	m.currentLeader = m.cfg.Self
	m.state = StateNormal
	m.send(wire.BullyMessage{
		Type:     wire.BullyCoordinator,
		NodeID:   m.cfg.Self,
		TargetID: wire.BullyBroadcastTarget,
		Sequence: m.electionSequence,
	}.Marshal())
	m.timers.Rearm(TimerAlive)
}

func (m *StateMachine) onCoordinatorTimer() {
	if m.state == StateWaitingCoordinator || m.currentLeader == 0 {
		m.startElection()
	} else if m.currentLeader != m.cfg.Self {
		m.currentLeader = 0
		m.startElection()
	}
	m.timers.Rearm(TimerCoordinator)
}

func (m *StateMachine) onAliveTimer() {
	if m.currentLeader == m.cfg.Self {
		m.send(wire.BullyMessage{
			Type:     wire.BullyAlive,
			NodeID:   m.cfg.Self,
			TargetID: wire.BullyBroadcastTarget,
			Sequence: 0,
		}.Marshal())
	}
	m.timers.Rearm(TimerAlive)
}
