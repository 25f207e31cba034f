package timer

import (
	"testing"
	"time"
)

func TestRealServiceFires(t *testing.T) {
	s := NewRealService()
	defer s.Close()

	s.Arm("election_timer", 10*time.Millisecond)

	select {
	case name := <-s.Fired():
		if name != "election_timer" {
			t.Errorf("got %q, want election_timer", name)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timer did not fire")
	}
}

func TestRealServiceRearmResetsDeadline(t *testing.T) {
	s := NewRealService()
	defer s.Close()

	s.Arm("alive_timer", 30*time.Millisecond)
	time.Sleep(15 * time.Millisecond)
	s.Rearm("alive_timer")
	rearmed := time.Now()

	select {
	case <-s.Fired():
		// The rearm restarts the full 30ms; without it the original
		// deadline would fire about 15ms after the rearm.
		if elapsed := time.Since(rearmed); elapsed < 20*time.Millisecond {
			t.Errorf("fired %v after rearm, want the deadline reset to ~30ms", elapsed)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timer did not fire after rearm")
	}
}

func TestRealServiceStopCancels(t *testing.T) {
	s := NewRealService()
	defer s.Close()

	s.Arm("coordinator_timer", 20*time.Millisecond)
	s.Stop("coordinator_timer")

	select {
	case name := <-s.Fired():
		t.Fatalf("stopped timer fired: %q", name)
	case <-time.After(60 * time.Millisecond):
		// expected: no fire
	}
}
