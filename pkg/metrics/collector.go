// Package metrics exposes a Prometheus collector for the three election
// protocols: elections/rounds started, leader changes, messages sent,
// received, and dropped, and PraSLE's convergence-round histogram.
package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the process-wide election metrics, labeled by protocol
// name so a single binary running any of the three engines exports under
// the same metric family.
type Collector struct {
	electionsStarted *prometheus.CounterVec
	leaderChanges    *prometheus.CounterVec
	messagesSent     *prometheus.CounterVec
	messagesReceived *prometheus.CounterVec
	messagesDropped  *prometheus.CounterVec
	convergenceRound prometheus.Histogram
	mu               sync.Mutex
}

var (
	globalCollector *Collector
	once            sync.Once
)

// GetCollector returns the singleton metrics collector, registering its
// metrics with the default Prometheus registry on first use.
func GetCollector() *Collector {
	once.Do(func() {
		globalCollector = &Collector{
			electionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "wsnelect_elections_started_total",
				Help: "Total number of elections or rounds started, by protocol.",
			}, []string{"protocol"}),
			leaderChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "wsnelect_leader_changes_total",
				Help: "Total number of observed leader changes, by protocol.",
			}, []string{"protocol"}),
			messagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "wsnelect_messages_sent_total",
				Help: "Total number of protocol messages sent, by protocol and type.",
			}, []string{"protocol", "type"}),
			messagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "wsnelect_messages_received_total",
				Help: "Total number of protocol messages received, by protocol and type.",
			}, []string{"protocol", "type"}),
			messagesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "wsnelect_messages_dropped_total",
				Help: "Total number of incoming messages dropped by a dispatcher (malformed or receive queue full), by protocol and reason.",
			}, []string{"protocol", "reason"}),
			convergenceRound: prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "wsnelect_prasle_convergence_round",
				Help:    "Round number at which a PraSLE node first recorded convergence.",
				Buckets: prometheus.LinearBuckets(1, 1, 20),
			}),
		}

		prometheus.MustRegister(globalCollector.electionsStarted)
		prometheus.MustRegister(globalCollector.leaderChanges)
		prometheus.MustRegister(globalCollector.messagesSent)
		prometheus.MustRegister(globalCollector.messagesReceived)
		prometheus.MustRegister(globalCollector.messagesDropped)
		prometheus.MustRegister(globalCollector.convergenceRound)
	})

	return globalCollector
}

// IncElectionsStarted records the start of an election or round.
func (c *Collector) IncElectionsStarted(protocol string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.electionsStarted.WithLabelValues(protocol).Inc()
}

// IncLeaderChanges records an observed change in leader.
func (c *Collector) IncLeaderChanges(protocol string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leaderChanges.WithLabelValues(protocol).Inc()
}

// IncMessagesSent records one outgoing message of the given type.
func (c *Collector) IncMessagesSent(protocol, msgType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messagesSent.WithLabelValues(protocol, msgType).Inc()
}

// IncMessagesReceived records one accepted incoming message of the given
// type.
func (c *Collector) IncMessagesReceived(protocol, msgType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messagesReceived.WithLabelValues(protocol, msgType).Inc()
}

// IncMessagesDropped records one rejected incoming message, tagged by the
// reason it was dropped. The dispatchers record "malformed" and
// "queue_full"; messages the state machines ignore (duplicates, self-echoes,
// non-neighbors) are not counted here.
func (c *Collector) IncMessagesDropped(protocol, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messagesDropped.WithLabelValues(protocol, reason).Inc()
}

// ObserveConvergenceRound records the round at which a PraSLE node first
// converged.
func (c *Collector) ObserveConvergenceRound(round int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.convergenceRound.Observe(float64(round))
}

// StartServer starts the Prometheus metrics HTTP server.
func StartServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Starting metrics server on http://localhost%s/metrics\n", addr)
	return http.ListenAndServe(addr, nil)
}
