// Package wire defines the on-wire message formats for the Bully, Ring, and
// PraSLE leader-election protocols: fixed-layout, little-endian records with
// no framing beyond the transport's own datagram boundary.
package wire

import "fmt"

// NodeID is a stable, strictly-positive 16-bit node identifier. 0 means "no
// known leader" and is never a valid node's own id.
type NodeID uint16

// ErrMalformed is returned by a protocol's Unmarshal when the payload is the
// wrong length or names an unknown message type.
type ErrMalformed struct {
	Protocol string
	Reason   string
}

func (e ErrMalformed) Error() string {
	return fmt.Sprintf("%s: malformed message: %s", e.Protocol, e.Reason)
}
