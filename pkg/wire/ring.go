package wire

import "encoding/binary"

// RingMessageType discriminates the three Ring message kinds.
type RingMessageType uint8

const (
	RingElection    RingMessageType = 1
	RingCoordinator RingMessageType = 2
	RingAlive       RingMessageType = 3
)

func (t RingMessageType) String() string {
	switch t {
	case RingElection:
		return "ELECTION"
	case RingCoordinator:
		return "COORDINATOR"
	case RingAlive:
		return "ALIVE"
	default:
		return "UNKNOWN"
	}
}

// RingMessageSize is the fixed wire length of a Ring message in bytes.
const RingMessageSize = 9

// RingMessage is the 9-byte Ring wire record:
// {type: u8, initiator_id: u16, candidate_id: u16, sequence: u16, target_node_id: u16}.
// target_node_id names the single successor that may process the message.
type RingMessage struct {
	Type         RingMessageType
	InitiatorID  NodeID
	CandidateID  NodeID
	Sequence     uint16
	TargetNodeID NodeID
}

// Marshal encodes m into its fixed 9-byte little-endian record.
func (m RingMessage) Marshal() []byte {
	buf := make([]byte, RingMessageSize)
	buf[0] = byte(m.Type)
	binary.LittleEndian.PutUint16(buf[1:3], uint16(m.InitiatorID))
	binary.LittleEndian.PutUint16(buf[3:5], uint16(m.CandidateID))
	binary.LittleEndian.PutUint16(buf[5:7], m.Sequence)
	binary.LittleEndian.PutUint16(buf[7:9], uint16(m.TargetNodeID))
	return buf
}

// UnmarshalRing decodes a 9-byte Ring wire record.
func UnmarshalRing(b []byte) (RingMessage, error) {
	if len(b) != RingMessageSize {
		return RingMessage{}, ErrMalformed{Protocol: "ring", Reason: "wrong length"}
	}
	t := RingMessageType(b[0])
	switch t {
	case RingElection, RingCoordinator, RingAlive:
	default:
		return RingMessage{}, ErrMalformed{Protocol: "ring", Reason: "unknown type code"}
	}
	return RingMessage{
		Type:         t,
		InitiatorID:  NodeID(binary.LittleEndian.Uint16(b[1:3])),
		CandidateID:  NodeID(binary.LittleEndian.Uint16(b[3:5])),
		Sequence:     binary.LittleEndian.Uint16(b[5:7]),
		TargetNodeID: NodeID(binary.LittleEndian.Uint16(b[7:9])),
	}, nil
}
