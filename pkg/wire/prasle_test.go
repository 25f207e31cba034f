package wire

import "testing"

func TestPrasleMarshalRoundTrip(t *testing.T) {
	cases := []PrasleMessage{
		{MinValue: 1, LeaderID: 1, SenderID: 2},
		{MinValue: 7, LeaderID: 3, SenderID: 3},
		{MinValue: 0, LeaderID: 0, SenderID: 1},
	}

	for _, want := range cases {
		b := want.Marshal()
		if len(b) != PrasleMessageSize {
			t.Fatalf("Marshal(%v) produced %d bytes, want %d", want, len(b), PrasleMessageSize)
		}
		got, err := UnmarshalPrasle(b)
		if err != nil {
			t.Fatalf("UnmarshalPrasle(%x): %v", b, err)
		}
		if got != want {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
		}
	}
}

func TestUnmarshalPrasleWrongLength(t *testing.T) {
	if _, err := UnmarshalPrasle(make([]byte, 5)); err == nil {
		t.Error("expected error for 5-byte payload")
	}
}

func TestLess(t *testing.T) {
	tests := []struct {
		m1, l1, m2, l2 NodeID
		want           bool
	}{
		{1, 5, 2, 1, true},   // smaller min wins regardless of leader
		{2, 1, 1, 5, false},
		{3, 1, 3, 2, true},   // equal min, smaller leader wins
		{3, 2, 3, 1, false},
		{3, 3, 3, 3, false},  // equal pair is not less than itself
	}
	for _, tt := range tests {
		if got := Less(tt.m1, tt.l1, tt.m2, tt.l2); got != tt.want {
			t.Errorf("Less(%d,%d,%d,%d) = %v, want %v", tt.m1, tt.l1, tt.m2, tt.l2, got, tt.want)
		}
	}
}
