// Package timer implements the named one-shot timer contract the protocol
// core depends on: arm, rearm, and a single facility to await whichever
// timer fires next.
package timer

import "time"

// Service is the external timer collaborator. A timer is armed with a
// duration and, once armed, can be rearmed (resetting its deadline) by the
// handler that consumes its firing — there is no implicit repeat.
type Service interface {
	// Arm schedules name to fire once after d. Arming an already-armed
	// timer replaces its deadline.
	Arm(name string, d time.Duration)

	// Rearm resets name's deadline to its most recently armed duration.
	// It is a no-op if name was never armed.
	Rearm(name string)

	// Stop cancels name if it is pending. It is a no-op otherwise.
	Stop(name string)

	// Fired delivers the name of each timer as it expires, in expiry
	// order. Consumers are expected to rearm or stop explicitly.
	Fired() <-chan string

	// Close releases the service and stops delivering events.
	Close()
}
