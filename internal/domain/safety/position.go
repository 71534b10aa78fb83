package safety

import "time"

// Position is a single geographic fix.
// Positions are ephemeral: only the latest value is retained for display and
// every update overwrites the previous one. No history is kept.
type Position struct {
	// Latitude in decimal degrees.
	Latitude float64 `json:"latitude"`
	// Longitude in decimal degrees.
	Longitude float64 `json:"longitude"`
	// CapturedAt is when the fix was taken.
	CapturedAt time.Time `json:"captured_at"`
}

// Clone returns a copy of the position and handles nil safely.
func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}

	cloned := *p

	return &cloned
}
