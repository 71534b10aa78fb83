package safety

// Snapshot is the read-only view of the whole safety core handed to the
// presentation layer on every transition or tick. It carries no behaviour;
// the supervisor rebuilds it from the controllers' current state.
type Snapshot struct {
	// SOSState is the current state of the alert machine.
	SOSState SOSState `json:"sos_state"`
	// SOSRemainingSeconds is the countdown display value. It is only
	// meaningful while SOSState is SOSArming and is never negative.
	SOSRemainingSeconds int `json:"sos_remaining_seconds"`
	// CompanionActive indicates whether a sharing session is running.
	CompanionActive bool `json:"companion_active"`
	// CompanionSessionID identifies the running session; empty when inactive.
	CompanionSessionID string `json:"companion_session_id,omitempty"`
	// CompanionRemainingSeconds is the time left in the session, in seconds.
	CompanionRemainingSeconds int `json:"companion_remaining_seconds"`
	// SharedWithNames are the recipients of the running session.
	SharedWithNames []string `json:"shared_with_names,omitempty"`
	// LastKnownPosition is the latest fix received, nil if none yet.
	LastKnownPosition *Position `json:"last_known_position,omitempty"`
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	cloned := *s
	cloned.LastKnownPosition = s.LastKnownPosition.Clone()

	if s.SharedWithNames != nil {
		cloned.SharedWithNames = make([]string, len(s.SharedWithNames))
		copy(cloned.SharedWithNames, s.SharedWithNames)
	}

	return &cloned
}
