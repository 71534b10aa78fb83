// Package gateway exposes the safety core to the UI layer.
//
// It serves the read-only snapshot and the five state-machine operations as
// plain JSON over HTTP, and streams a snapshot frame per transition or tick to
// websocket clients. Rendering stays entirely on the client side; the gateway
// never holds state of its own.
package gateway
