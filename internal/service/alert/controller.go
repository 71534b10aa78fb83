package alert

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/Assas2401419/Guardian-Link/internal/clock"
	"github.com/Assas2401419/Guardian-Link/internal/domain/safety"
	"github.com/Assas2401419/Guardian-Link/internal/logger"
	"github.com/Assas2401419/Guardian-Link/internal/repository/contacts"
)

const (
	// CountdownDuration is how long the user has to cancel an armed SOS
	// before it fires.
	CountdownDuration = 5 * time.Second

	// countdownTick is the cadence of the displayed countdown updates.
	countdownTick = time.Second

	// SOSShareDuration is the escalation policy: a fired SOS always shares
	// with the full contact roster for this long, overriding any session
	// the user already had running.
	SOSShareDuration = 60 * time.Minute
)

// Sessions is the slice of the session controller the alert machine drives.
type Sessions interface {
	Start(ctx context.Context, ids []safety.ContactID, duration time.Duration) error
	Stop()
}

// Controller owns the SOS alert state machine (Idle / Arming / Active).
//
// Invalid transitions are no-ops, never failures. Both countdown handles, the
// display tick and the fire deadline, are released atomically with every
// transition out of Arming; a generation counter checked under the mutex
// drops any callback that slipped past cancellation.
type Controller struct {
	// ctx carries the scoped logger for timer callbacks.
	ctx context.Context
	// clk schedules the countdown tick and fire deadline.
	clk clock.Clock
	// sessions is the companion-session controller escalated into on fire.
	sessions Sessions
	// directory enumerates the full roster for the escalation rule.
	directory contacts.Directory
	// notify is invoked after every observable change, never under mu.
	notify func()

	// mu serializes all state mutations.
	mu sync.Mutex
	// state is the current machine state.
	state safety.SOSState
	// remaining is the displayed countdown in whole seconds, never negative.
	remaining int
	// deadline is when the armed countdown fires.
	deadline time.Time
	// tick drives the per-second countdown display.
	tick clock.Timer
	// fire is the one-shot deadline timer.
	fire clock.Timer
	// gen invalidates callbacks from cancelled countdowns.
	gen uint64
}

// New creates an alert controller in the Idle state.
func New(ctx context.Context, clk clock.Clock, sessions Sessions, directory contacts.Directory) *Controller {
	return &Controller{
		ctx:       logger.WithName(ctx, "alert"),
		clk:       clk,
		sessions:  sessions,
		directory: directory,
		notify:    func() {},
		state:     safety.SOSIdle,
	}
}

// SetOnChange registers the observer called after every observable change.
// Must be called before the controller is used.
func (c *Controller) SetOnChange(fn func()) {
	if fn != nil {
		c.notify = fn
	}
}

// Start arms the SOS countdown. No-op when already Arming or Active.
func (c *Controller) Start() {
	c.mu.Lock()

	if c.state != safety.SOSIdle {
		c.mu.Unlock()
		logger.Debugf(c.ctx, "SOS start ignored in state %s", c.state)

		return
	}

	c.gen++
	gen := c.gen

	c.state = safety.SOSArming
	c.deadline = c.clk.Now().Add(CountdownDuration)
	c.remaining = int(CountdownDuration / time.Second)

	c.tick = c.clk.TickFunc(countdownTick, func() { c.onTick(gen) })
	c.fire = c.clk.AfterFunc(CountdownDuration, func() { c.onFireDeadline(gen) })

	c.mu.Unlock()

	logger.InfoKV(c.ctx, "SOS armed", "countdown", CountdownDuration.String())
	c.notify()
}

// Cancel aborts an armed countdown and returns to Idle. Both timers are
// stopped before the transition is observable. No-op outside Arming.
func (c *Controller) Cancel() {
	c.mu.Lock()

	if c.state != safety.SOSArming {
		c.mu.Unlock()
		logger.Debugf(c.ctx, "SOS cancel ignored in state %s", c.state)

		return
	}

	c.stopTimersLocked()
	c.state = safety.SOSIdle
	c.remaining = 0
	c.deadline = time.Time{}
	c.mu.Unlock()

	logger.Info(c.ctx, "SOS cancelled")
	c.notify()
}

// MarkSafe clears a fired emergency and stops any running companion session.
// No-op outside Active.
func (c *Controller) MarkSafe() {
	c.mu.Lock()

	if c.state != safety.SOSActive {
		c.mu.Unlock()
		logger.Debugf(c.ctx, "Mark safe ignored in state %s", c.state)

		return
	}

	c.mu.Unlock()

	// Stop the session first: observers must never see the alert cleared
	// while the emergency share is still running.
	c.sessions.Stop()

	c.mu.Lock()

	if c.state == safety.SOSActive {
		c.gen++
		c.state = safety.SOSIdle
	}

	c.mu.Unlock()

	logger.Info(c.ctx, "Marked safe, emergency cleared")
	c.notify()
}

// State returns the current machine state and displayed countdown seconds.
func (c *Controller) State() (safety.SOSState, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state, c.remaining
}

// onTick refreshes the displayed countdown from the fire deadline,
// floor-bounded at zero.
func (c *Controller) onTick(gen uint64) {
	c.mu.Lock()

	if gen != c.gen || c.state != safety.SOSArming {
		c.mu.Unlock()

		return
	}

	remaining := int(math.Round(c.deadline.Sub(c.clk.Now()).Seconds()))
	if remaining < 0 {
		remaining = 0
	}

	c.remaining = remaining
	c.mu.Unlock()

	c.notify()
}

// onFireDeadline fires the emergency: the machine goes Active and, when the
// roster is non-empty, escalates into a full-roster session for the fixed
// share window.
func (c *Controller) onFireDeadline(gen uint64) {
	c.mu.Lock()

	if gen != c.gen || c.state != safety.SOSArming {
		c.mu.Unlock()

		return
	}

	c.stopTimersLocked()
	c.state = safety.SOSActive
	c.remaining = 0
	c.deadline = time.Time{}
	c.mu.Unlock()

	logger.Warnf(c.ctx, "SOS fired, emergency is active")
	c.notify()

	roster := c.directory.IDs()
	if len(roster) == 0 {
		logger.WarnKV(c.ctx, "No contacts in directory, emergency share skipped")

		return
	}

	if err := c.sessions.Start(c.ctx, roster, SOSShareDuration); err != nil {
		// The alert stays Active; sharing just could not begin.
		logger.ErrorKV(c.ctx, "Emergency share could not start", "error", err)
	}
}

// stopTimersLocked releases both countdown handles and bumps the generation
// so a timer that already fired logically cannot mutate state. Callers hold mu.
func (c *Controller) stopTimersLocked() {
	c.gen++

	if c.tick != nil {
		c.tick.Stop()
		c.tick = nil
	}

	if c.fire != nil {
		c.fire.Stop()
		c.fire = nil
	}
}
