package safety

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestContactClone verifies that Clone returns a copy and handles nil safely.
func TestContactClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Contact)(nil).Clone())

	c := &Contact{
		ID:    "mom",
		Name:  "Mom",
		Phone: "+100",
		Email: "mom@example.com",
	}

	d := c.Clone()

	require.Equal(t, c, d)
	require.NotSame(t, c, d)
}

// TestPositionClone verifies position copies and nil handling.
func TestPositionClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Position)(nil).Clone())

	p := &Position{
		Latitude:   52.52,
		Longitude:  13.405,
		CapturedAt: time.Unix(100, 0),
	}

	q := p.Clone()

	require.Equal(t, p, q)
	require.NotSame(t, p, q)
}

// TestCompanionSessionClone verifies the name slice is deep-copied so callers
// cannot mutate controller state through the view.
func TestCompanionSessionClone(t *testing.T) {
	t.Parallel()

	s := &CompanionSession{
		ID:              "abc",
		Active:          true,
		SharedWithNames: []string{"Mom", "Dad"},
		EndTime:         time.Unix(200, 0),
	}

	c := s.Clone()
	require.Equal(t, s, c)

	c.SharedWithNames[0] = "changed"
	require.Equal(t, "Mom", s.SharedWithNames[0])
}

// TestSnapshotClone verifies deep copies of the position and name slice.
func TestSnapshotClone(t *testing.T) {
	t.Parallel()

	s := &Snapshot{
		SOSState:                  SOSActive,
		CompanionActive:           true,
		CompanionRemainingSeconds: 3600,
		SharedWithNames:           []string{"Mom"},
		LastKnownPosition:         &Position{Latitude: 1, Longitude: 2},
	}

	c := s.Clone()
	require.Equal(t, s, c)
	require.NotSame(t, s.LastKnownPosition, c.LastKnownPosition)
}
