// Package inventory wraps a Stock Cell with the domain-level operations
// Reserve and Available, plus input validation. It is the only package
// that is allowed to mutate a stock.Cell.
package inventory

import (
	"context"
	"fmt"

	"github.com/kelaslabs/vacancy-system/internal/apierrors"
	"github.com/kelaslabs/vacancy-system/internal/stock"
)

// Outcome is the Reservation Outcome: the result of a reserve attempt.
type Outcome struct {
	Accepted  bool
	Remaining int
	Message   string
}

// Exporter receives a fire-and-forget notification of each reservation
// decision, for export to an external system (see events.Exporter). It
// must never block the caller and must never be the reason a reservation
// fails — implementations are expected to drop events under backpressure.
type Exporter interface {
	Export(correlationID string, qty int, outcome Outcome)
}

type noopExporter struct{}

func (noopExporter) Export(string, int, Outcome) {}

// NoopExporter is the zero-cost Exporter used when no external event sink
// is configured.
var NoopExporter Exporter = noopExporter{}

// Service is the domain API over a Stock Cell.
type Service struct {
	cell     *stock.Cell
	exporter Exporter
}

// New builds a Service over cell. A nil exporter is replaced with
// NoopExporter.
func New(cell *stock.Cell, exporter Exporter) *Service {
	if exporter == nil {
		exporter = NoopExporter
	}
	return &Service{cell: cell, exporter: exporter}
}

// Reserve validates qty, delegates to the Stock Cell, and translates the
// result into a Reservation Outcome with a message fixed by policy.
//
// The correlationID is used only for the fire-and-forget export below; it
// has no bearing on the reservation decision itself.
func (s *Service) Reserve(ctx context.Context, correlationID string, qty int) (Outcome, error) {
	if qty <= 0 {
		return Outcome{}, apierrors.Invalid("quantity must be positive")
	}

	accepted, remaining := s.cell.TryDecrement(qty)

	outcome := Outcome{Accepted: accepted, Remaining: remaining}
	if accepted {
		outcome.Message = fmt.Sprintf("reserved %d", qty)
	} else {
		outcome.Message = "insufficient inventory"
	}

	s.exporter.Export(correlationID, qty, outcome)

	return outcome, nil
}

// Available returns an Availability Snapshot: a possibly-stale reading of
// the Stock Cell's total, bounded by the configured cache TTL.
func (s *Service) Available(ctx context.Context) int {
	return s.cell.Snapshot()
}
