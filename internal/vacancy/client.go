// Package vacancy defines the Vacancy Client: the indirection that makes
// the Reservation Dispatcher transport-agnostic. Local and Remote both
// satisfy Client with identical contracts; the Dispatcher never observes
// which one it holds.
package vacancy

import "context"

// ReserveResult mirrors inventory.Outcome as the Client's own result type,
// so the Dispatcher gets the same type from Local (which converts an
// inventory.Outcome) and Remote (which converts the decoded JSON body).
type ReserveResult struct {
	Accepted  bool
	Remaining int
	Message   string
}

// AvailableResult is the Availability Snapshot returned by Available.
type AvailableResult struct {
	Qty int
}

// Client is the capability the Reservation Dispatcher depends on. Local
// holds a direct reference to an in-process inventory.Service; Remote
// holds a shared, long-lived pooled HTTP transport. Both return the
// *apierrors.Error kinds documented on each method.
type Client interface {
	// Reserve attempts to reserve qty units, propagating correlationID for
	// tracing. Returns *apierrors.Error with Kind InvalidQuantity,
	// UpstreamUnavailable, DeadlineExceeded, or InternalError on failure.
	Reserve(ctx context.Context, correlationID string, qty int) (ReserveResult, error)

	// Available returns a possibly-stale snapshot of remaining inventory.
	Available(ctx context.Context) (AvailableResult, error)

	// HealthCheck reports whether the Engine this Client talks to is
	// reachable and healthy. Local is always true (no network to fail).
	HealthCheck(ctx context.Context) bool
}
