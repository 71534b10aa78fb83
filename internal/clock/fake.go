package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock for tests.
//
// Callbacks scheduled through AfterFunc/TickFunc run synchronously on the
// goroutine calling Advance, in deadline order, with the fake's "now" set to
// each callback's due time. Stopping a timer removes it immediately, so a
// stopped timer never fires during a later Advance.
type Fake struct {
	// mu protects now and timers.
	mu sync.Mutex
	// now is the fake current time.
	now time.Time
	// timers holds all pending schedules.
	timers []*fakeTimer
}

// NewFake returns a Fake positioned at the provided start time.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake current time.
func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// AfterFunc schedules f to run once when the fake clock reaches now+d.
func (c *Fake) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{
		clock: c,
		at:    c.now.Add(d),
		f:     f,
	}
	c.timers = append(c.timers, t)

	return t
}

// TickFunc schedules f to run every interval of fake time until stopped.
func (c *Fake) TickFunc(interval time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{
		clock:    c,
		at:       c.now.Add(interval),
		interval: interval,
		f:        f,
	}
	c.timers = append(c.timers, t)

	return t
}

// Advance moves the fake clock forward by d, firing every due callback in
// deadline order. Callbacks may schedule or stop timers; newly scheduled
// timers that fall due within the remaining window fire in the same call.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)

	for {
		t := c.nextDueLocked(target)
		if t == nil {
			break
		}

		c.now = t.at

		if t.interval > 0 {
			t.at = t.at.Add(t.interval)
		} else {
			t.stopped = true
		}

		// Run the callback without holding the clock lock so it can
		// schedule or stop timers itself.
		c.mu.Unlock()
		t.f()
		c.mu.Lock()
	}

	c.now = target
	c.mu.Unlock()
}

// nextDueLocked returns the earliest pending timer due at or before target.
func (c *Fake) nextDueLocked(target time.Time) *fakeTimer {
	var next *fakeTimer

	pending := c.timers[:0]

	for _, t := range c.timers {
		if t.stopped {
			continue
		}

		pending = append(pending, t)

		if t.at.After(target) {
			continue
		}

		if next == nil || t.at.Before(next.at) {
			next = t
		}
	}

	c.timers = pending

	return next
}

// fakeTimer is a schedule entry owned by a Fake clock.
type fakeTimer struct {
	// clock is the owning fake clock.
	clock *Fake
	// at is the next due time.
	at time.Time
	// interval is the repeat period; zero means one-shot.
	interval time.Duration
	// f is the callback to run.
	f func()
	// stopped marks the timer as cancelled or exhausted.
	stopped bool
}

// Stop cancels the timer so it never fires again.
func (t *fakeTimer) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	t.stopped = true
}
