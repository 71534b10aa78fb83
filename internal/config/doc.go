// Package config defines runtime settings used by the Guardian Link binaries
// and provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the gateway listen address, the contact roster path,
// the log level and the simulated position source start coordinates.
package config
