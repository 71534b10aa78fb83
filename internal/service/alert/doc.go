// Package alert implements the SOS countdown controller.
//
// Arming starts a short cancellable countdown; when it reaches the deadline
// the emergency fires, escalating to a full-roster, fixed-duration companion
// session. The escalation rule lives in named policy constants so it can be
// tested independently of the state machine.
package alert
