package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Assas2401419/Guardian-Link/internal/clock"
	"github.com/Assas2401419/Guardian-Link/internal/domain/safety"
	"github.com/Assas2401419/Guardian-Link/internal/geo"
	"github.com/Assas2401419/Guardian-Link/internal/logger"
	"github.com/Assas2401419/Guardian-Link/internal/repository/contacts"
)

// tickInterval is the cadence at which the remaining time is recomputed.
const tickInterval = time.Second

var (
	// ErrNoRecipients is returned when a session start is attempted with an
	// empty contact set. No state changes.
	ErrNoRecipients = errors.New("no recipients selected")
	// ErrLocationUnavailable is returned when the initial position fetch
	// fails at session start. No state changes.
	ErrLocationUnavailable = errors.New("location unavailable")
)

// Controller owns the Companion Mode session lifecycle.
//
// At most one session is live at a time. Starting a new session while one is
// active tears the old one down completely, releasing its subscription, before
// the new one begins. All callbacks are invalidated by a generation counter
// checked under the mutex, so a stopped session can never be resurrected by a
// late tick or position update.
type Controller struct {
	// ctx carries the scoped logger for callbacks that have no caller context.
	ctx context.Context
	// clk schedules the remaining-time tick and supplies "now".
	clk clock.Clock
	// source produces position fixes and subscriptions.
	source geo.Source
	// directory resolves contact ids to display names.
	directory contacts.Directory
	// notify is invoked after every observable change, never under mu.
	notify func()

	// mu serializes all state mutations.
	mu sync.Mutex
	// session is the observable session view.
	session safety.CompanionSession
	// remaining is the displayed remaining time in whole seconds.
	remaining int
	// lastPosition is the latest fix received, nil when cleared.
	lastPosition *safety.Position
	// sub is the exclusively owned live subscription, nil when inactive.
	sub geo.Subscription
	// ticker drives the per-second remaining-time updates.
	ticker clock.Timer
	// gen invalidates callbacks from torn-down sessions.
	gen uint64
}

// New creates a session controller. The context is retained for logging from
// timer and subscription callbacks.
func New(ctx context.Context, clk clock.Clock, source geo.Source, directory contacts.Directory) *Controller {
	return &Controller{
		ctx:       logger.WithName(ctx, "session"),
		clk:       clk,
		source:    source,
		directory: directory,
		notify:    func() {},
	}
}

// SetOnChange registers the observer called after every observable change.
// Must be called before the controller is used.
func (c *Controller) SetOnChange(fn func()) {
	if fn != nil {
		c.notify = fn
	}
}

// Start opens a sharing session with the provided contacts for the provided
// duration, replacing any session already running.
//
// The current position is fetched first; if the fetch fails the controller
// state is left untouched and ErrLocationUnavailable is returned. Contact ids
// unknown to the directory are dropped, not fatal.
func (c *Controller) Start(ctx context.Context, ids []safety.ContactID, duration time.Duration) error {
	if len(ids) == 0 {
		return ErrNoRecipients
	}

	position, err := c.source.Current(ctx)
	if err != nil {
		logger.WarnKV(c.ctx, "Position fetch failed, session not started", "error", err)

		return fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
	}

	names := c.directory.Resolve(ids)

	c.mu.Lock()

	// Release the previous session, subscription included, before anything
	// about the new one becomes live.
	c.teardownLocked()

	c.gen++
	gen := c.gen

	now := c.clk.Now()
	c.session = safety.CompanionSession{
		ID:              uuid.NewString(),
		Active:          true,
		SharedWithNames: names,
		EndTime:         now.Add(duration),
	}
	c.remaining = int(duration / time.Second)
	c.lastPosition = position

	c.sub = c.source.Subscribe(
		func(p *safety.Position) { c.onUpdate(gen, p) },
		func(err error) { c.onError(gen, err) },
	)
	c.ticker = c.clk.TickFunc(tickInterval, func() { c.onTick(gen) })

	id := c.session.ID

	c.mu.Unlock()

	logger.InfoKV(c.ctx, "Companion session started",
		"session_id", id, "recipients", names, "duration", duration.String())
	c.notify()

	return nil
}

// Stop ends the session, releases the subscription and clears the displayed
// position. Idempotent: calling it with no active session is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()

	if !c.session.Active {
		c.mu.Unlock()

		return
	}

	id := c.session.ID

	c.teardownLocked()
	c.mu.Unlock()

	logger.InfoKV(c.ctx, "Companion session stopped", "session_id", id)
	c.notify()
}

// View returns the current session view, the displayed remaining seconds and
// the last known position.
func (c *Controller) View() (*safety.CompanionSession, int, *safety.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.Clone(), c.remaining, c.lastPosition.Clone()
}

// onTick recomputes the remaining time from the end time. Expiry is just a
// stop triggered internally instead of by the user.
func (c *Controller) onTick(gen uint64) {
	c.mu.Lock()

	if gen != c.gen || !c.session.Active {
		c.mu.Unlock()

		return
	}

	remaining := int(math.Round(c.session.EndTime.Sub(c.clk.Now()).Seconds()))
	if remaining > 0 {
		c.remaining = remaining
		c.mu.Unlock()

		c.notify()

		return
	}

	id := c.session.ID

	c.teardownLocked()
	c.mu.Unlock()

	logger.InfoKV(c.ctx, "Companion session expired", "session_id", id)
	c.notify()
}

// onUpdate overwrites the displayed position. Later updates always win; a
// stale generation means the owning session is gone and the fix is dropped.
func (c *Controller) onUpdate(gen uint64, position *safety.Position) {
	c.mu.Lock()

	if gen != c.gen || !c.session.Active {
		c.mu.Unlock()

		return
	}

	c.lastPosition = position
	c.mu.Unlock()

	c.notify()
}

// onError surfaces a subscription failure as a non-fatal warning. The session
// continues with the last known position on display.
func (c *Controller) onError(gen uint64, err error) {
	c.mu.Lock()

	if gen != c.gen || !c.session.Active {
		c.mu.Unlock()

		return
	}

	id := c.session.ID
	c.mu.Unlock()

	logger.WarnKV(c.ctx, "Tracking degraded, keeping session alive",
		"session_id", id, "error", err)
}

// teardownLocked releases every owned resource and resets the session view.
// The subscription is cancelled before state is cleared so late updates are
// provably dropped by the bumped generation. Callers hold mu.
func (c *Controller) teardownLocked() {
	c.gen++

	if c.sub != nil {
		c.sub.Cancel()
		c.sub = nil
	}

	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}

	c.session = safety.CompanionSession{}
	c.remaining = 0
	c.lastPosition = nil
}
