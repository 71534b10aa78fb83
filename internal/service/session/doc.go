// Package session implements the Companion Mode session controller.
//
// A session shares the user's live position with a chosen set of contacts for
// a bounded duration. The controller owns the single active position
// subscription, derives the remaining time on a one-second tick, treats expiry
// as an internally triggered stop, and guards every mutating operation against
// races with timer and subscription callbacks.
package session
