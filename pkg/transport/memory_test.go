package transport

import "testing"

func TestMemoryTransportBroadcast(t *testing.T) {
	bus := NewBus()

	a, err := bus.Join("node-a")
	if err != nil {
		t.Fatalf("join a: %v", err)
	}
	b, err := bus.Join("node-b")
	if err != nil {
		t.Fatalf("join b: %v", err)
	}
	c, err := bus.Join("node-c")
	if err != nil {
		t.Fatalf("join c: %v", err)
	}

	var gotB, gotC [][]byte
	b.SetReceiveHandler(func(payload []byte, sender string) {
		if sender != "node-a" {
			t.Errorf("b received from unexpected sender %q", sender)
		}
		gotB = append(gotB, payload)
	})
	c.SetReceiveHandler(func(payload []byte, sender string) {
		gotC = append(gotC, payload)
	})

	var gotSelf bool
	a.SetReceiveHandler(func(payload []byte, sender string) {
		gotSelf = true
	})

	if err := a.Send([]byte("hello")); err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotSelf {
		t.Error("sender should not receive its own broadcast")
	}
	if len(gotB) != 1 || string(gotB[0]) != "hello" {
		t.Errorf("node-b got %v, want one message 'hello'", gotB)
	}
	if len(gotC) != 1 || string(gotC[0]) != "hello" {
		t.Errorf("node-c got %v, want one message 'hello'", gotC)
	}
}

func TestMemoryTransportDuplicateJoin(t *testing.T) {
	bus := NewBus()
	if _, err := bus.Join("node-a"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := bus.Join("node-a"); err == nil {
		t.Error("second join with same address should fail")
	}
}

func TestMemoryTransportCloseStopsDelivery(t *testing.T) {
	bus := NewBus()
	a, _ := bus.Join("node-a")
	b, _ := bus.Join("node-b")

	count := 0
	b.SetReceiveHandler(func(payload []byte, sender string) { count++ })

	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := a.Send([]byte("x")); err != nil {
		t.Fatalf("send: %v", err)
	}
	if count != 0 {
		t.Errorf("closed transport received %d messages, want 0", count)
	}
}
