// Package safety contains core domain types for the personal-safety business logic.
//
// It defines Contact (a person positions are shared with), Position (the latest
// known coordinates), the SOS alert states, the companion-session view and the
// read-only Snapshot handed to the presentation layer, with Clone helpers to
// avoid leaking internal references.
package safety
