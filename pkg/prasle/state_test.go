package prasle

import (
	"testing"
	"time"

	"wsnelect/pkg/wire"
)

type fakeTimers struct {
	armed map[string]time.Duration
	calls []string
}

func newFakeTimers() *fakeTimers {
	return &fakeTimers{armed: make(map[string]time.Duration)}
}

func (f *fakeTimers) Arm(name string, d time.Duration) {
	f.armed[name] = d
	f.calls = append(f.calls, "arm:"+name)
}

func (f *fakeTimers) Rearm(name string) {
	f.calls = append(f.calls, "rearm:"+name)
}

type fakeSender struct {
	sent []wire.PrasleMessage
}

func (f *fakeSender) send(payload []byte) error {
	msg, err := wire.UnmarshalPrasle(payload)
	if err != nil {
		return err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newMachine(self wire.NodeID, n int, topology Topology) (*StateMachine, *fakeSender, *fakeTimers) {
	sender := &fakeSender{}
	timers := newFakeTimers()
	m := New(DefaultConfig(self, n, topology), sender.send, timers)
	return m, sender, timers
}

func TestInitializationSentinelAndSelfRanking(t *testing.T) {
	m, _, _ := newMachine(3, 5, TopologyClique)

	if m.mini != wire.NodeID(m.cfg.NMax+1) {
		t.Errorf("mini = %d, want sentinel N_MAX+1 = %d", m.mini, m.cfg.NMax+1)
	}
	if m.tempMini != 3 {
		t.Errorf("temp_mini = %d, want ranking_value(3) = 3", m.tempMini)
	}
	if m.leaderi != 3 || m.tempLeaderi != 3 {
		t.Errorf("leaderi/temp_leaderi = %d/%d, want both self (3)", m.leaderi, m.tempLeaderi)
	}
	if m.roundCounter != m.cfg.K+1 {
		t.Errorf("round_counter = %d, want K+1 = %d", m.roundCounter, m.cfg.K+1)
	}
}

func TestBootstrapArmsRoundTimer(t *testing.T) {
	m, _, timers := newMachine(1, 5, TopologyRing)
	m.Bootstrap()
	if _, ok := timers.armed[TimerRound]; !ok {
		t.Error("round_timer not armed at bootstrap")
	}
}

func TestMessageFromNonNeighborIgnored(t *testing.T) {
	m, _, _ := newMachine(1, 5, TopologyLine) // line: node 1's only neighbor is node 2
	m.HandleMessage(wire.PrasleMessage{MinValue: 0, LeaderID: 5, SenderID: 5})

	if m.tempMini != m.cfg.RankingValue(1) {
		t.Errorf("temp_mini changed from non-neighbor message: %d", m.tempMini)
	}
}

func TestSmallerGossipAdoptedAtWindowExpiry(t *testing.T) {
	m, sender, _ := newMachine(3, 5, TopologyClique)

	// Node 1 advertises a smaller (min, leader) pair; clique means every
	// other node is a neighbor.
	m.HandleMessage(wire.PrasleMessage{MinValue: 1, LeaderID: 1, SenderID: 1})
	m.HandleTimer(TimerRound)

	if m.CurrentLeader() != 1 {
		t.Errorf("leader = %d, want 1 after adopting smaller gossip", m.CurrentLeader())
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent = %+v, want one broadcast of the adopted pair", sender.sent)
	}
	if sender.sent[0].MinValue != 1 || sender.sent[0].LeaderID != 1 {
		t.Errorf("broadcast = %+v, want (1,1)", sender.sent[0])
	}
}

func TestNoChangeProducesNoBroadcast(t *testing.T) {
	m, sender, _ := newMachine(1, 5, TopologyClique) // node 1 already has the best possible rank

	// The first round displaces the N_MAX+1 sentinel and announces (1,1).
	m.HandleTimer(TimerRound)
	sender.sent = nil

	m.HandleTimer(TimerRound)

	if len(sender.sent) != 0 {
		t.Errorf("sent %+v, want no broadcast when nothing improves", sender.sent)
	}
}

func TestConvergenceRecordedAfterKRoundsOfSilence(t *testing.T) {
	m, _, _ := newMachine(1, 5, TopologyClique)

	for i := 0; i < m.cfg.K; i++ {
		m.HandleTimer(TimerRound)
		if converged, _ := m.Converged(); converged {
			t.Fatalf("converged too early, after %d of %d rounds", i+1, m.cfg.K)
		}
	}

	m.HandleTimer(TimerRound) // round K+1: round_counter now <= 0
	converged, round := m.Converged()
	if !converged {
		t.Fatal("expected convergence to be recorded at round K+1 with no change")
	}
	if round != m.cfg.K+1 {
		t.Errorf("converged round = %d, want %d", round, m.cfg.K+1)
	}
}

func TestLexicographicOrderingPrefersLowerLeaderOnTie(t *testing.T) {
	m, sender, _ := newMachine(5, 5, TopologyClique)

	m.HandleMessage(wire.PrasleMessage{MinValue: m.tempMini, LeaderID: 2, SenderID: 2})
	m.HandleTimer(TimerRound)

	if m.CurrentLeader() != 2 {
		t.Errorf("leader = %d, want 2 (lower id breaks the min tie)", m.CurrentLeader())
	}
	_ = sender
}

func TestStaleLargerGossipDoesNotDisplaceAdoptedValue(t *testing.T) {
	m, _, _ := newMachine(3, 5, TopologyClique)

	m.HandleMessage(wire.PrasleMessage{MinValue: 1, LeaderID: 1, SenderID: 1})
	m.HandleTimer(TimerRound)
	if m.CurrentLeader() != 1 {
		t.Fatalf("setup: leader = %d, want 1", m.CurrentLeader())
	}

	m.HandleMessage(wire.PrasleMessage{MinValue: 4, LeaderID: 4, SenderID: 4})
	m.HandleTimer(TimerRound)

	if m.CurrentLeader() != 1 {
		t.Errorf("leader = %d, want still 1 (stale larger gossip must not displace it)", m.CurrentLeader())
	}
}
