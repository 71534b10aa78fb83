package clock

import (
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop cancels the schedule. Safe to call more than once; a callback
	// already running is not interrupted, which is why callers guard their
	// callbacks with state checks of their own.
	Stop()
}

// Clock supplies the current time and schedules callbacks.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// AfterFunc runs f once after d elapses.
	AfterFunc(d time.Duration, f func()) Timer
	// TickFunc runs f every interval until the returned timer is stopped.
	TickFunc(interval time.Duration, f func()) Timer
}

// System returns a Clock backed by the real time package.
func System() Clock {
	return systemClock{}
}

// systemClock implements Clock with real timers.
type systemClock struct{}

// Now returns the current wall-clock time.
func (systemClock) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f on a real one-shot timer.
func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return &systemTimer{timer: time.AfterFunc(d, f)}
}

// TickFunc schedules f on a real ticker driven by a background goroutine.
func (systemClock) TickFunc(interval time.Duration, f func()) Timer {
	t := &systemTicker{
		ticker: time.NewTicker(interval),
		stop:   make(chan struct{}),
	}

	go t.run(f)

	return t
}

// systemTimer wraps time.Timer to satisfy the Timer interface.
type systemTimer struct {
	// timer is the underlying one-shot timer.
	timer *time.Timer
}

// Stop cancels the underlying timer.
func (t *systemTimer) Stop() {
	t.timer.Stop()
}

// systemTicker wraps time.Ticker plus the goroutine pumping it.
type systemTicker struct {
	// ticker is the underlying periodic timer.
	ticker *time.Ticker
	// stop signals the pump goroutine to exit.
	stop chan struct{}
	// once guards double Stop calls.
	once sync.Once
}

// run pumps ticker events into the callback until stopped.
func (t *systemTicker) run(f func()) {
	for {
		select {
		case <-t.stop:
			return
		case <-t.ticker.C:
			f()
		}
	}
}

// Stop cancels the ticker and terminates its pump goroutine.
func (t *systemTicker) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.stop)
	})
}
