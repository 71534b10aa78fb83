package geo

import (
	"context"
	"errors"

	"github.com/Assas2401419/Guardian-Link/internal/domain/safety"
)

var (
	// ErrPermissionDenied is returned when the platform refuses access to
	// location services.
	ErrPermissionDenied = errors.New("position permission denied")
	// ErrTimeout is returned when no fix could be obtained in time.
	ErrTimeout = errors.New("position fix timed out")
	// ErrUnavailable is returned when the position source cannot produce a
	// fix for any other reason.
	ErrUnavailable = errors.New("position unavailable")
)

// Subscription is a live position feed owned by exactly one subscriber.
type Subscription interface {
	// Cancel stops delivery of updates. Safe to call more than once.
	Cancel()
}

// Source produces positions, either as a one-shot fix or as a continuous
// subscription that keeps delivering until cancelled.
type Source interface {
	// Current returns the latest fix or one of the package sentinel errors.
	Current(ctx context.Context) (*safety.Position, error)
	// Subscribe starts continuous delivery. Updates go to onUpdate, failures
	// to onError; an error does not terminate the subscription.
	Subscribe(onUpdate func(*safety.Position), onError func(error)) Subscription
}
