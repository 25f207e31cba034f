package wire

import "encoding/binary"

// BullyMessageType discriminates the four Bully message kinds.
type BullyMessageType uint8

const (
	BullyElection    BullyMessageType = 1
	BullyAnswer      BullyMessageType = 2
	BullyCoordinator BullyMessageType = 3
	BullyAlive       BullyMessageType = 4
)

func (t BullyMessageType) String() string {
	switch t {
	case BullyElection:
		return "ELECTION"
	case BullyAnswer:
		return "ANSWER"
	case BullyCoordinator:
		return "COORDINATOR"
	case BullyAlive:
		return "ALIVE"
	default:
		return "UNKNOWN"
	}
}

// BullyBroadcastTarget is the target_id value meaning "everyone".
const BullyBroadcastTarget NodeID = 0

// BullyMessageSize is the fixed wire length of a Bully message in bytes.
const BullyMessageSize = 7

// BullyMessage is the 7-byte Bully wire record:
// {type: u8, node_id: u16, target_id: u16, sequence: u16}.
type BullyMessage struct {
	Type     BullyMessageType
	NodeID   NodeID
	TargetID NodeID
	Sequence uint16
}

// Marshal encodes m into its fixed 7-byte little-endian record.
func (m BullyMessage) Marshal() []byte {
	buf := make([]byte, BullyMessageSize)
	buf[0] = byte(m.Type)
	binary.LittleEndian.PutUint16(buf[1:3], uint16(m.NodeID))
	binary.LittleEndian.PutUint16(buf[3:5], uint16(m.TargetID))
	binary.LittleEndian.PutUint16(buf[5:7], m.Sequence)
	return buf
}

// UnmarshalBully decodes a 7-byte Bully wire record.
func UnmarshalBully(b []byte) (BullyMessage, error) {
	if len(b) != BullyMessageSize {
		return BullyMessage{}, ErrMalformed{Protocol: "bully", Reason: "wrong length"}
	}
	t := BullyMessageType(b[0])
	switch t {
	case BullyElection, BullyAnswer, BullyCoordinator, BullyAlive:
	default:
		return BullyMessage{}, ErrMalformed{Protocol: "bully", Reason: "unknown type code"}
	}
	return BullyMessage{
		Type:     t,
		NodeID:   NodeID(binary.LittleEndian.Uint16(b[1:3])),
		TargetID: NodeID(binary.LittleEndian.Uint16(b[3:5])),
		Sequence: binary.LittleEndian.Uint16(b[5:7]),
	}, nil
}
