// Package identity provides implementations of the protocol core's
// identifier contract: a function returning a stable u16 node identifier
// for the local node. The core only ever sees this narrow interface; how a
// deployment derives the value is entirely a matter for the collaborator.
package identity

import "wsnelect/pkg/wire"

// Source returns a stable, strictly-positive NodeID for the local node.
type Source interface {
	NodeID() (wire.NodeID, error)
}

// Static returns a fixed, configured NodeID. This is the default and
// expected source for a statically-topologied Ring or PraSLE deployment,
// where every node's id must be known to its peers ahead of time.
type Static wire.NodeID

// NodeID returns the configured identifier.
func (s Static) NodeID() (wire.NodeID, error) {
	return wire.NodeID(s), nil
}
