package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Assas2401419/Guardian-Link/internal/clock"
	"github.com/Assas2401419/Guardian-Link/internal/domain/safety"
	"github.com/Assas2401419/Guardian-Link/internal/geo"
	"github.com/Assas2401419/Guardian-Link/internal/repository/contacts"
	"github.com/Assas2401419/Guardian-Link/internal/service/supervisor"
)

// stubSource is a geo.Source with a configurable one-shot failure.
type stubSource struct {
	// err makes Current fail when set.
	err error
}

// Current returns a fixed position or the configured error.
func (s *stubSource) Current(context.Context) (*safety.Position, error) {
	if s.err != nil {
		return nil, s.err
	}

	return &safety.Position{Latitude: 59.33, Longitude: 18.07}, nil
}

// Subscribe hands out an inert subscription.
func (s *stubSource) Subscribe(func(*safety.Position), func(error)) geo.Subscription {
	return inertSubscription{}
}

// inertSubscription delivers nothing and cancels without effect.
type inertSubscription struct{}

// Cancel is a no-op.
func (inertSubscription) Cancel() {}

// newTestHandler builds the gateway over a supervisor on a fake clock.
func newTestHandler(t *testing.T, source geo.Source) http.Handler {
	t.Helper()

	clk := clock.NewFake(time.Unix(1_000_000, 0))
	directory := contacts.NewStaticDirectory([]safety.Contact{
		{ID: "alice", Name: "Alice"},
		{ID: "bob", Name: "Bob"},
	})
	sup := supervisor.New(context.Background(), clk, source, directory)

	return NewServer(context.Background(), sup).Handler()
}

// do executes a request against the handler and decodes the JSON body.
func do(t *testing.T, handler http.Handler, method, path, body string, out any) int {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	if out != nil && recorder.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), out))
	}

	return recorder.Code
}

// TestServer_State verifies the snapshot endpoint reflects the idle core.
func TestServer_State(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, new(stubSource))

	var snapshot safety.Snapshot

	code := do(t, handler, http.MethodGet, "/api/state", "", &snapshot)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, safety.SOSIdle, snapshot.SOSState)
	require.False(t, snapshot.CompanionActive)
}

// TestServer_SessionStartValidation covers malformed bodies and rejected
// parameters.
func TestServer_SessionStartValidation(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, new(stubSource))

	code := do(t, handler, http.MethodPost, "/api/session/start", "{not json", nil)
	require.Equal(t, http.StatusBadRequest, code)

	code = do(t, handler, http.MethodPost, "/api/session/start",
		`{"contact_ids":["alice"],"duration_minutes":0}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, code)

	code = do(t, handler, http.MethodPost, "/api/session/start",
		`{"contact_ids":[],"duration_minutes":15}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, code)
}

// TestServer_SessionStartLocationUnavailable maps the fetch failure to 422.
func TestServer_SessionStartLocationUnavailable(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, &stubSource{err: geo.ErrUnavailable})

	code := do(t, handler, http.MethodPost, "/api/session/start",
		`{"contact_ids":["alice"],"duration_minutes":15}`, nil)
	require.Equal(t, http.StatusUnprocessableEntity, code)
}

// TestServer_SessionLifecycle starts and stops a session over HTTP.
func TestServer_SessionLifecycle(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, new(stubSource))

	var snapshot safety.Snapshot

	code := do(t, handler, http.MethodPost, "/api/session/start",
		`{"contact_ids":["alice","bob"],"duration_minutes":30}`, &snapshot)
	require.Equal(t, http.StatusOK, code)
	require.True(t, snapshot.CompanionActive)
	require.Equal(t, []string{"Alice", "Bob"}, snapshot.SharedWithNames)
	require.Equal(t, 30*60, snapshot.CompanionRemainingSeconds)
	require.NotNil(t, snapshot.LastKnownPosition)

	var stopped safety.Snapshot

	code = do(t, handler, http.MethodPost, "/api/session/stop", "", &stopped)
	require.Equal(t, http.StatusOK, code)
	require.False(t, stopped.CompanionActive)
	require.Nil(t, stopped.LastKnownPosition)
}

// TestServer_SOSFlow arms and cancels the countdown over HTTP; invalid
// transitions are no-ops that still return the snapshot.
func TestServer_SOSFlow(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, new(stubSource))

	var snapshot safety.Snapshot

	code := do(t, handler, http.MethodPost, "/api/sos/arm", "", &snapshot)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, safety.SOSArming, snapshot.SOSState)
	require.Equal(t, 5, snapshot.SOSRemainingSeconds)

	code = do(t, handler, http.MethodPost, "/api/sos/cancel", "", &snapshot)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, safety.SOSIdle, snapshot.SOSState)

	// Cancelling again is a no-op, not an error.
	code = do(t, handler, http.MethodPost, "/api/sos/cancel", "", &snapshot)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, safety.SOSIdle, snapshot.SOSState)

	// Marking safe while idle is likewise a no-op.
	code = do(t, handler, http.MethodPost, "/api/sos/safe", "", &snapshot)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, safety.SOSIdle, snapshot.SOSState)
}
