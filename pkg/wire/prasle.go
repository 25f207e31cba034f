package wire

import "encoding/binary"

// PrasleMessageSize is the fixed wire length of a PraSLE message in bytes.
const PrasleMessageSize = 6

// PrasleMessage is the 6-byte PraSLE wire record: {min_value: u16, leader_id:
// u16, sender_id: u16}. There is no type field; every message is gossip of a
// single (min, leader) pair.
type PrasleMessage struct {
	MinValue NodeID
	LeaderID NodeID
	SenderID NodeID
}

// Marshal encodes m into its fixed 6-byte little-endian record.
func (m PrasleMessage) Marshal() []byte {
	buf := make([]byte, PrasleMessageSize)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(m.MinValue))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(m.LeaderID))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(m.SenderID))
	return buf
}

// UnmarshalPrasle decodes a 6-byte PraSLE wire record.
func UnmarshalPrasle(b []byte) (PrasleMessage, error) {
	if len(b) != PrasleMessageSize {
		return PrasleMessage{}, ErrMalformed{Protocol: "prasle", Reason: "wrong length"}
	}
	return PrasleMessage{
		MinValue: NodeID(binary.LittleEndian.Uint16(b[0:2])),
		LeaderID: NodeID(binary.LittleEndian.Uint16(b[2:4])),
		SenderID: NodeID(binary.LittleEndian.Uint16(b[4:6])),
	}, nil
}

// Less implements the <_lex ordering on (min, leader) pairs used by PraSLE:
// (m1, l1) <_lex (m2, l2) iff m1 < m2, or m1 == m2 and l1 < l2.
func Less(m1, l1, m2, l2 NodeID) bool {
	if m1 != m2 {
		return m1 < m2
	}
	return l1 < l2
}
