package engine

import (
	"context"
	"log"
	"sync"

	"wsnelect/pkg/wire"
)

// Broadcaster fans StateChange and leader-id events out to registered
// watchers, the same register-a-channel / remove-it-on-cancel bookkeeping
// this codebase's in-memory cluster election already uses for its Watch and
// LeaderChanges channels. Each protocol engine embeds one.
type Broadcaster struct {
	mu        sync.Mutex
	watchers  []chan StateChange
	leaderChs []chan wire.NodeID
}

// NewBroadcaster constructs an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Watch registers a new StateChange subscriber, closed when ctx is done.
func (b *Broadcaster) Watch(ctx context.Context) <-chan StateChange {
	ch := make(chan StateChange, 16)

	b.mu.Lock()
	b.watchers = append(b.watchers, ch)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, w := range b.watchers {
			if w == ch {
				b.watchers = append(b.watchers[:i], b.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()

	return ch
}

// LeaderChanges registers a new leader-id subscriber, closed when ctx is
// done.
func (b *Broadcaster) LeaderChanges(ctx context.Context) <-chan wire.NodeID {
	ch := make(chan wire.NodeID, 16)

	b.mu.Lock()
	b.leaderChs = append(b.leaderChs, ch)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, w := range b.leaderChs {
			if w == ch {
				b.leaderChs = append(b.leaderChs[:i], b.leaderChs[i+1:]...)
				break
			}
		}
		close(ch)
	}()

	return ch
}

// Emit sends a StateChange to every registered watcher, dropping it for any
// watcher whose buffer is full rather than blocking the dispatcher.
func (b *Broadcaster) Emit(change StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.watchers {
		select {
		case ch <- change:
		default:
			log.Printf("engine: watcher channel full, dropping %s event", change.Kind)
		}
	}
}

// EmitLeader sends a leader id to every registered LeaderChanges watcher.
func (b *Broadcaster) EmitLeader(leader wire.NodeID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.leaderChs {
		select {
		case ch <- leader:
		default:
			log.Printf("engine: leader-change channel full, dropping event")
		}
	}
}
