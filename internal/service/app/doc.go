// Package app runs the guardian-server process.
//
// It loads configuration, builds the contact directory, the simulated
// position source and the supervisor, then serves the gateway until the
// context is cancelled, releasing the position subscription on the way out.
package app
