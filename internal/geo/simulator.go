package geo

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Assas2401419/Guardian-Link/internal/clock"
	"github.com/Assas2401419/Guardian-Link/internal/domain/safety"
)

const (
	// DefaultUpdateInterval is how often the simulator emits a new fix.
	DefaultUpdateInterval = 2 * time.Second

	// stepDegrees bounds a single random-walk step, roughly ten metres.
	stepDegrees = 0.0001
)

// Simulator is a Source that random-walks around a starting coordinate.
// It never fails, which makes it suitable for demos and local runs.
type Simulator struct {
	// clk schedules the periodic updates.
	clk clock.Clock
	// interval is the delay between emitted fixes.
	interval time.Duration

	// mu protects the current coordinates and rng.
	mu sync.Mutex
	// lat and lon are the current simulated coordinates.
	lat, lon float64
	// rng drives the random walk.
	rng *rand.Rand
}

// NewSimulator creates a simulator starting at the provided coordinates.
func NewSimulator(clk clock.Clock, lat, lon float64, seed int64) *Simulator {
	return &Simulator{
		clk:      clk,
		interval: DefaultUpdateInterval,
		lat:      lat,
		lon:      lon,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Current returns the present simulated fix. It never fails.
func (s *Simulator) Current(_ context.Context) (*safety.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &safety.Position{
		Latitude:   s.lat,
		Longitude:  s.lon,
		CapturedAt: s.clk.Now(),
	}, nil
}

// Subscribe starts emitting a perturbed fix on every interval.
func (s *Simulator) Subscribe(onUpdate func(*safety.Position), _ func(error)) Subscription {
	sub := &simulatorSubscription{}
	sub.timer = s.clk.TickFunc(s.interval, func() {
		onUpdate(s.step())
	})

	return sub
}

// step advances the random walk and returns the new fix.
func (s *Simulator) step() *safety.Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lat += (s.rng.Float64()*2 - 1) * stepDegrees
	s.lon += (s.rng.Float64()*2 - 1) * stepDegrees

	return &safety.Position{
		Latitude:   s.lat,
		Longitude:  s.lon,
		CapturedAt: s.clk.Now(),
	}
}

// simulatorSubscription cancels the ticker backing a simulator feed.
type simulatorSubscription struct {
	// timer is the periodic schedule emitting fixes.
	timer clock.Timer
	// once guards repeated Cancel calls.
	once sync.Once
}

// Cancel stops the feed. Safe to call more than once.
func (s *simulatorSubscription) Cancel() {
	s.once.Do(func() {
		s.timer.Stop()
	})
}
