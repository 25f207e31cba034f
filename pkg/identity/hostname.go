package identity

import (
	"fmt"
	"hash/fnv"
	"os"

	"wsnelect/pkg/wire"
)

// Hostname derives a NodeID by hashing the local hostname, the same
// hostname-as-identity convention used elsewhere in this codebase's cluster
// package. It is useful for ad hoc simulation nodes that don't carry an
// explicit config file entry for their id.
type Hostname struct{}

// NodeID hashes os.Hostname() into the 1..65535 range (0 is reserved for
// "no known leader").
func (Hostname) NodeID() (wire.NodeID, error) {
	host, err := os.Hostname()
	if err != nil {
		return 0, fmt.Errorf("identity: read hostname: %w", err)
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(host))
	return wire.NodeID(h.Sum32()%65535) + 1, nil
}
