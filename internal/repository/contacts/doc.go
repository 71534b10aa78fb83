// Package contacts implements the read-only contact directory.
//
// The directory is an external collaborator from the safety core's point of
// view: the core resolves ids to display names and enumerates the full roster
// for SOS escalation, but never writes. FileDirectory loads the roster from a
// YAML file once at startup and exposes the Directory interface the session
// and alert controllers depend on.
package contacts
