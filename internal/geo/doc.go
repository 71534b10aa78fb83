// Package geo defines the position-source collaborator contract.
//
// A Source supplies one-shot fixes and continuous subscriptions; Subscription
// cancellation is idempotent. The package also ships a Simulator source that
// random-walks around a configured starting point so the server can run on
// machines without a real location sensor.
package geo
