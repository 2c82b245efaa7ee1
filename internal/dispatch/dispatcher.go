// Package dispatch implements the Reservation Dispatcher: the
// transport-agnostic purchase pipeline. It validates a request, calls the
// Vacancy Client, and shapes the result into the purchase envelope. The
// Dispatcher is stateless and holds no state across requests.
package dispatch

import (
	"context"
	"time"

	"github.com/kelaslabs/vacancy-system/internal/apierrors"
	"github.com/kelaslabs/vacancy-system/internal/vacancy"
)

// Result is the purchase envelope shape shared by /reserve and /purchase.
type Result struct {
	Success   bool
	Remaining int
	Message   string
}

// AuditRecorder receives a fire-and-forget record of every purchase
// decision, for best-effort export to audit.Log. It must never block or
// fail a purchase — see internal/audit for the non-blocking implementation.
type AuditRecorder interface {
	Record(occurredAt time.Time, correlationID string, qty int, accepted bool, remaining int)
}

type noopAuditRecorder struct{}

func (noopAuditRecorder) Record(time.Time, string, int, bool, int) {}

// Dispatcher orchestrates a purchase over a Vacancy Client. It never
// retries and never mutates local state; it classifies and reports.
type Dispatcher struct {
	client vacancy.Client
	audit  AuditRecorder
}

// New builds a Dispatcher over the given Vacancy Client with no audit
// recording. The Dispatcher does not know or care whether client is Local
// or Remote.
func New(client vacancy.Client) *Dispatcher {
	return &Dispatcher{client: client, audit: noopAuditRecorder{}}
}

// NewWithAudit builds a Dispatcher that additionally records every purchase
// decision through audit, best-effort and out of the critical path.
func NewWithAudit(client vacancy.Client, audit AuditRecorder) *Dispatcher {
	if audit == nil {
		audit = noopAuditRecorder{}
	}
	return &Dispatcher{client: client, audit: audit}
}

// Purchase validates qty, reserves via the Vacancy Client, and shapes the
// Reservation Outcome into a Result.
//
//  1. qty <= 0 fails with InvalidQuantity without calling the client.
//  2. Vacancy Client transport errors (Remote only) surface as
//     UpstreamUnavailable / DeadlineExceeded without retry.
//  3. On accepted, the message is "purchase successful"; otherwise
//     "insufficient inventory", echoing remaining.
func (d *Dispatcher) Purchase(ctx context.Context, correlationID string, qty int) (Result, error) {
	if qty <= 0 {
		return Result{}, apierrors.Invalid("quantity must be positive")
	}

	outcome, err := d.client.Reserve(ctx, correlationID, qty)
	if err != nil {
		if apiErr, ok := apierrors.As(err); ok {
			return Result{}, apiErr
		}
		return Result{}, apierrors.Internal(err.Error())
	}

	d.audit.Record(time.Now().UTC(), correlationID, qty, outcome.Accepted, outcome.Remaining)

	if outcome.Accepted {
		return Result{Success: true, Remaining: outcome.Remaining, Message: "purchase successful"}, nil
	}
	return Result{Success: false, Remaining: outcome.Remaining, Message: "insufficient inventory"}, nil
}

// Available proxies the Vacancy Client's availability read.
func (d *Dispatcher) Available(ctx context.Context) (int, error) {
	res, err := d.client.Available(ctx)
	if err != nil {
		if apiErr, ok := apierrors.As(err); ok {
			return 0, apiErr
		}
		return 0, apierrors.Internal(err.Error())
	}
	return res.Qty, nil
}

// Ready reports whether the Vacancy Client's upstream dependency is
// reachable (always true for Local).
func (d *Dispatcher) Ready(ctx context.Context) bool {
	return d.client.HealthCheck(ctx)
}
