package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/Assas2401419/Guardian-Link/internal/clock"
	"github.com/Assas2401419/Guardian-Link/internal/domain/safety"
	"github.com/Assas2401419/Guardian-Link/internal/geo"
	"github.com/Assas2401419/Guardian-Link/internal/repository/contacts"
	"github.com/Assas2401419/Guardian-Link/internal/service/alert"
	"github.com/Assas2401419/Guardian-Link/internal/service/session"
)

// Supervisor owns the one alert controller and the one session controller of
// the process and fans their changes out to snapshot listeners.
type Supervisor struct {
	// alerts is the SOS countdown machine.
	alerts *alert.Controller
	// sessions is the companion-session controller.
	sessions *session.Controller

	// mu protects the listener registry.
	mu sync.Mutex
	// listeners receive a fresh snapshot on every change.
	listeners map[int]func(*safety.Snapshot)
	// nextListenerID hands out registry keys.
	nextListenerID int
}

// New wires a supervisor from its collaborators.
func New(ctx context.Context, clk clock.Clock, source geo.Source, directory contacts.Directory) *Supervisor {
	s := &Supervisor{
		listeners: make(map[int]func(*safety.Snapshot)),
	}

	s.sessions = session.New(ctx, clk, source, directory)
	s.alerts = alert.New(ctx, clk, s.sessions, directory)

	s.sessions.SetOnChange(s.broadcast)
	s.alerts.SetOnChange(s.broadcast)

	return s
}

// ArmSOS starts the cancellable SOS countdown.
func (s *Supervisor) ArmSOS() {
	s.alerts.Start()
}

// CancelSOS aborts an armed countdown.
func (s *Supervisor) CancelSOS() {
	s.alerts.Cancel()
}

// MarkSafe clears a fired emergency and any running session.
func (s *Supervisor) MarkSafe() {
	s.alerts.MarkSafe()
}

// StartSession opens a companion session with the given contacts and duration.
func (s *Supervisor) StartSession(ctx context.Context, ids []safety.ContactID, duration time.Duration) error {
	return s.sessions.Start(ctx, ids, duration)
}

// StopSession ends the running companion session, if any.
func (s *Supervisor) StopSession() {
	s.sessions.Stop()
}

// Snapshot assembles the current read-only view of both controllers.
func (s *Supervisor) Snapshot() *safety.Snapshot {
	state, sosRemaining := s.alerts.State()
	view, remaining, position := s.sessions.View()

	return &safety.Snapshot{
		SOSState:                  state,
		SOSRemainingSeconds:       sosRemaining,
		CompanionActive:           view.Active,
		CompanionSessionID:        view.ID,
		CompanionRemainingSeconds: remaining,
		SharedWithNames:           view.SharedWithNames,
		LastKnownPosition:         position,
	}
}

// AddListener registers a snapshot observer and returns its removal func.
// The listener is immediately primed with the current snapshot.
func (s *Supervisor) AddListener(fn func(*safety.Snapshot)) func() {
	s.mu.Lock()
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = fn
	s.mu.Unlock()

	fn(s.Snapshot())

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// broadcast rebuilds the snapshot and hands it to every listener.
func (s *Supervisor) broadcast() {
	snapshot := s.Snapshot()

	s.mu.Lock()
	fns := make([]func(*safety.Snapshot), 0, len(s.listeners))

	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}
