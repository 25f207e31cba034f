// Package engine defines the common shape shared by all three protocol
// engines (Bully, Ring, PraSLE): start/stop lifecycle, leader queries, and
// change notification. Each protocol package implements Engine with its own
// wire messages and state machine; callers (the CLI, tests) depend only on
// this interface.
package engine

import (
	"context"
	"time"

	"wsnelect/pkg/wire"
)

// Engine is the lifecycle and query surface common to every protocol
// participant.
type Engine interface {
	// Start begins running the protocol's event dispatcher. Returns an
	// error if already started.
	Start(ctx context.Context) error

	// Stop gracefully shuts the dispatcher down and releases the
	// transport and timer service.
	Stop() error

	// Protocol names the running protocol ("bully", "ring", "prasle").
	Protocol() string

	// Self returns this node's own identifier.
	Self() wire.NodeID

	// IsLeader reports whether this node currently believes itself to be
	// the leader.
	IsLeader() bool

	// Leader returns the currently known leader, or 0 if none is known.
	Leader() wire.NodeID

	// LeaderChanges returns a channel of leader ids delivered whenever
	// this node's view of the leader changes. The channel is closed when
	// ctx is cancelled.
	LeaderChanges(ctx context.Context) <-chan wire.NodeID

	// Watch returns a channel of StateChange events for observability.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context) <-chan StateChange
}

// ChangeKind discriminates the StateChange events an Engine emits.
type ChangeKind string

const (
	ChangeLeaderElected ChangeKind = "leader_elected"
	ChangeElectionStart ChangeKind = "election_started"
	ChangeRoundAdvanced ChangeKind = "round_advanced"
	ChangeConverged     ChangeKind = "converged"
)

// StateChange is a single observable event from a running engine.
type StateChange struct {
	Kind      ChangeKind
	Leader    wire.NodeID
	Round     int
	Timestamp time.Time
}
