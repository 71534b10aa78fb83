// Package trigger defines the shared Cobra command logic for guardian-sos.
//
// The command talks to a running guardian-server over its HTTP gateway to
// arm, cancel or clear an SOS and prints the resulting state.
package trigger
