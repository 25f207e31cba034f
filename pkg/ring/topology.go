package ring

import "wsnelect/pkg/wire"

// NextNodeID returns the static successor of self on a ring of size n, node
// ids running 1..n: n wraps back to 1. The topology never changes at
// runtime — a dead intermediate node segments the ring rather than being
// routed around, an accepted limitation of this design.
func NextNodeID(self wire.NodeID, n int) wire.NodeID {
	next := int(self) + 1
	if next > n {
		next = 1
	}
	return wire.NodeID(next)
}

// HighestID returns the node id that bootstraps the first election.
func HighestID(n int) wire.NodeID {
	return wire.NodeID(n)
}
