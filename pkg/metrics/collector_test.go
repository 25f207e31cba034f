package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// resetCollector clears the global collector so each test gets a clean registry.
func resetCollector(t *testing.T) {
	t.Helper()
	if globalCollector != nil {
		prometheus.Unregister(globalCollector.electionsStarted)
		prometheus.Unregister(globalCollector.leaderChanges)
		prometheus.Unregister(globalCollector.messagesSent)
		prometheus.Unregister(globalCollector.messagesReceived)
		prometheus.Unregister(globalCollector.messagesDropped)
		prometheus.Unregister(globalCollector.convergenceRound)
	}
	globalCollector = nil
	once = sync.Once{}
}

func TestGetCollectorSingleton(t *testing.T) {
	resetCollector(t)

	c1 := GetCollector()
	c2 := GetCollector()

	if c1 == nil {
		t.Fatal("expected collector instance, got nil")
	}
	if c1 != c2 {
		t.Fatal("expected singleton collector")
	}
}

func TestCollectorCounters(t *testing.T) {
	resetCollector(t)
	collector := GetCollector()

	collector.IncElectionsStarted("bully")
	collector.IncElectionsStarted("bully")
	collector.IncLeaderChanges("bully")
	collector.IncMessagesSent("bully", "ELECTION")
	collector.IncMessagesReceived("bully", "ELECTION")
	collector.IncMessagesDropped("bully", "duplicate")

	if got := testutil.ToFloat64(collector.electionsStarted.WithLabelValues("bully")); got != 2 {
		t.Fatalf("expected electionsStarted[bully]=2, got %v", got)
	}
	if got := testutil.ToFloat64(collector.leaderChanges.WithLabelValues("bully")); got != 1 {
		t.Fatalf("expected leaderChanges[bully]=1, got %v", got)
	}
	if got := testutil.ToFloat64(collector.messagesSent.WithLabelValues("bully", "ELECTION")); got != 1 {
		t.Fatalf("expected messagesSent[bully,ELECTION]=1, got %v", got)
	}
	if got := testutil.ToFloat64(collector.messagesDropped.WithLabelValues("bully", "duplicate")); got != 1 {
		t.Fatalf("expected messagesDropped[bully,duplicate]=1, got %v", got)
	}
}

func TestCollectorConvergenceHistogram(t *testing.T) {
	resetCollector(t)
	collector := GetCollector()

	collector.ObserveConvergenceRound(3)
	collector.ObserveConvergenceRound(5)

	if count := testutil.CollectAndCount(collector.convergenceRound); count != 1 {
		t.Fatalf("expected histogram to collect once, got %d", count)
	}
}
