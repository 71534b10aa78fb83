// Package clock abstracts time for the safety core.
//
// Controllers never touch the time package directly; they are injected with a
// Clock that supplies "now" and schedules cancellable one-shot and periodic
// callbacks. The System implementation delegates to real timers, while Fake is
// a manually advanced clock that runs due callbacks deterministically so tests
// can drive countdowns and session expiry without sleeping.
package clock
