package safety

import "time"

// SOSState is the state of the SOS alert machine.
type SOSState string

const (
	// SOSIdle means no alert is armed or active. It is the initial state and
	// the state reached after every completed alert lifecycle.
	SOSIdle SOSState = "idle"
	// SOSArming means a cancellable countdown is running.
	SOSArming SOSState = "arming"
	// SOSActive means the emergency has fired and has not been cleared yet.
	SOSActive SOSState = "active"
)

// String returns the state as a readable string.
func (s SOSState) String() string {
	return string(s)
}

// CompanionSession is the observable view of a location-sharing session.
// Invariant: Active is true iff EndTime is set iff a position subscription is
// live; the controller owning the session enforces this on every transition.
type CompanionSession struct {
	// ID uniquely identifies this session instance for logging and display.
	ID string
	// Active indicates whether the session is currently sharing.
	Active bool
	// SharedWithNames are the resolved display names of the recipients,
	// in the order the directory returned them.
	SharedWithNames []string
	// EndTime is when the session expires; zero when inactive.
	EndTime time.Time
}

// Clone returns a copy of the session view with its own name slice.
func (s *CompanionSession) Clone() *CompanionSession {
	if s == nil {
		return nil
	}

	cloned := *s

	if s.SharedWithNames != nil {
		cloned.SharedWithNames = make([]string, len(s.SharedWithNames))
		copy(cloned.SharedWithNames, s.SharedWithNames)
	}

	return &cloned
}
