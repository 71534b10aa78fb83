// Package supervisor composes the alert and session controllers into the
// single source of truth presented to the UI layer.
//
// It routes every external operation through exactly one controller pair,
// which is what enforces the single-countdown and single-session invariants,
// and rebuilds the read-only snapshot for its listeners on every transition
// or tick. It holds no state of its own beyond the listener registry.
package supervisor
