package alert

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Assas2401419/Guardian-Link/internal/clock"
	"github.com/Assas2401419/Guardian-Link/internal/domain/safety"
	"github.com/Assas2401419/Guardian-Link/internal/repository/contacts"
)

// startCall records one escalation into the session controller.
type startCall struct {
	// ids are the recipients passed to Start.
	ids []safety.ContactID
	// duration is the share window passed to Start.
	duration time.Duration
}

// sessionRecorder implements Sessions and records every call.
type sessionRecorder struct {
	// mu protects the recorded calls.
	mu sync.Mutex
	// starts lists every Start invocation.
	starts []startCall
	// stops counts Stop invocations.
	stops int
	// startErr is returned from Start when set.
	startErr error
}

// Start records the escalation request.
func (r *sessionRecorder) Start(_ context.Context, ids []safety.ContactID, duration time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.starts = append(r.starts, startCall{ids: ids, duration: duration})

	return r.startErr
}

// Stop records the stop request.
func (r *sessionRecorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stops++
}

// testRoster returns the directory used throughout the tests.
func testRoster() contacts.Directory {
	return contacts.NewStaticDirectory([]safety.Contact{
		{ID: "alice", Name: "Alice"},
		{ID: "bob", Name: "Bob"},
		{ID: "carol", Name: "Carol"},
	})
}

// newTestController builds a controller on a fake clock with a recorder.
func newTestController(t *testing.T, directory contacts.Directory) (*Controller, *clock.Fake, *sessionRecorder) {
	t.Helper()

	clk := clock.NewFake(time.Unix(1_000_000, 0))
	recorder := new(sessionRecorder)

	return New(context.Background(), clk, recorder, directory), clk, recorder
}

// TestController_StartIsIdempotent verifies arming twice changes nothing and
// that Start from Active is also a no-op.
func TestController_StartIsIdempotent(t *testing.T) {
	t.Parallel()

	c, clk, _ := newTestController(t, testRoster())

	c.Start()

	state, remaining := c.State()
	require.Equal(t, safety.SOSArming, state)
	require.Equal(t, 5, remaining)

	clk.Advance(2 * time.Second)

	// Re-arming mid-countdown must not reset the deadline.
	c.Start()

	state, remaining = c.State()
	require.Equal(t, safety.SOSArming, state)
	require.Equal(t, 3, remaining)

	clk.Advance(3 * time.Second)

	state, _ = c.State()
	require.Equal(t, safety.SOSActive, state)

	// Start from Active stays Active.
	c.Start()

	state, _ = c.State()
	require.Equal(t, safety.SOSActive, state)
}

// TestController_CountdownDisplay verifies the displayed seconds follow the
// deadline one tick at a time and never go negative.
func TestController_CountdownDisplay(t *testing.T) {
	t.Parallel()

	c, clk, _ := newTestController(t, testRoster())

	c.Start()

	for expected := 4; expected >= 1; expected-- {
		clk.Advance(time.Second)

		_, remaining := c.State()
		require.Equal(t, expected, remaining)
	}

	clk.Advance(time.Second)

	state, remaining := c.State()
	require.Equal(t, safety.SOSActive, state)
	require.Zero(t, remaining)
}

// TestController_CancelMidCountdown verifies cancelling at second 3 returns
// to Idle and no tick or fire happens afterwards.
func TestController_CancelMidCountdown(t *testing.T) {
	t.Parallel()

	c, clk, recorder := newTestController(t, testRoster())

	c.Start()
	clk.Advance(3 * time.Second)

	c.Cancel()

	state, remaining := c.State()
	require.Equal(t, safety.SOSIdle, state)
	require.Zero(t, remaining)

	// Wait well past the original deadline: nothing may fire.
	clk.Advance(10 * time.Second)

	state, _ = c.State()
	require.Equal(t, safety.SOSIdle, state)
	require.Empty(t, recorder.starts)
	require.Zero(t, recorder.stops)
}

// TestController_CancelOutsideArming verifies Cancel is a no-op from Idle and
// from Active.
func TestController_CancelOutsideArming(t *testing.T) {
	t.Parallel()

	c, clk, _ := newTestController(t, testRoster())

	c.Cancel()

	state, _ := c.State()
	require.Equal(t, safety.SOSIdle, state)

	c.Start()
	clk.Advance(CountdownDuration)

	c.Cancel()

	state, _ = c.State()
	require.Equal(t, safety.SOSActive, state)
}

// TestController_FireEscalates verifies the countdown reaching its deadline
// transitions to Active and starts a full-roster session for the fixed share
// window.
func TestController_FireEscalates(t *testing.T) {
	t.Parallel()

	c, clk, recorder := newTestController(t, testRoster())

	c.Start()
	clk.Advance(CountdownDuration)

	state, _ := c.State()
	require.Equal(t, safety.SOSActive, state)

	require.Len(t, recorder.starts, 1)
	require.Equal(t, []safety.ContactID{"alice", "bob", "carol"}, recorder.starts[0].ids)
	require.Equal(t, SOSShareDuration, recorder.starts[0].duration)
}

// TestController_FireWithEmptyDirectory verifies the emergency still becomes
// Active when there is nobody to share with.
func TestController_FireWithEmptyDirectory(t *testing.T) {
	t.Parallel()

	c, clk, recorder := newTestController(t, contacts.NewStaticDirectory(nil))

	c.Start()
	clk.Advance(CountdownDuration)

	state, _ := c.State()
	require.Equal(t, safety.SOSActive, state)
	require.Empty(t, recorder.starts)
}

// TestController_FireSurvivesEscalationFailure verifies a failed session
// start leaves the emergency Active.
func TestController_FireSurvivesEscalationFailure(t *testing.T) {
	t.Parallel()

	c, clk, recorder := newTestController(t, testRoster())
	recorder.startErr = context.DeadlineExceeded

	c.Start()
	clk.Advance(CountdownDuration)

	state, _ := c.State()
	require.Equal(t, safety.SOSActive, state)
	require.Len(t, recorder.starts, 1)
}

// TestController_MarkSafe verifies MarkSafe is a no-op from Idle and Arming,
// and from Active clears the alert and stops the session.
func TestController_MarkSafe(t *testing.T) {
	t.Parallel()

	c, clk, recorder := newTestController(t, testRoster())

	// From Idle: no-op.
	c.MarkSafe()

	state, _ := c.State()
	require.Equal(t, safety.SOSIdle, state)
	require.Zero(t, recorder.stops)

	// From Arming: no-op, countdown keeps running.
	c.Start()
	c.MarkSafe()

	state, _ = c.State()
	require.Equal(t, safety.SOSArming, state)
	require.Zero(t, recorder.stops)

	// From Active: clears the alert and the session.
	clk.Advance(CountdownDuration)
	c.MarkSafe()

	state, _ = c.State()
	require.Equal(t, safety.SOSIdle, state)
	require.Equal(t, 1, recorder.stops)

	// The machine is re-armable after a completed lifecycle.
	c.Start()

	state, remaining := c.State()
	require.Equal(t, safety.SOSArming, state)
	require.Equal(t, 5, remaining)
}
