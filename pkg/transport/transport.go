// Package transport implements the single-hop link-local broadcast contract
// the protocol core depends on: fire-and-forget send, plus a receive
// callback delivering (payload, sender). Two adapters are provided: an
// in-process memory bus for simulation and deterministic tests, and a UDP
// multicast adapter for real single-hop networks.
package transport

// ReceiveFunc is invoked once per inbound datagram with the raw payload and
// an opaque sender identifier (link address). It must not block.
type ReceiveFunc func(payload []byte, sender string)

// Transport is the external collaborator the protocol core talks to. Sends
// are non-blocking and best-effort: the transport need not provide
// reliability, ordering, or duplicate suppression, and a failed send is
// treated by the core as transient loss.
type Transport interface {
	// Send broadcasts payload to every single-hop neighbor.
	Send(payload []byte) error

	// SetReceiveHandler installs the callback invoked on each inbound
	// datagram. Only one handler is active at a time; a later call
	// replaces the previous handler.
	SetReceiveHandler(fn ReceiveFunc)

	// LocalAddr returns this transport's own link address, used so a node
	// can recognize and discard its own broadcasts.
	LocalAddr() string

	// Close releases any underlying resources (sockets, bus registration).
	Close() error
}
