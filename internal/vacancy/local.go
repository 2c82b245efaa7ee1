package vacancy

import (
	"context"

	"github.com/kelaslabs/vacancy-system/internal/inventory"
)

// LocalClient calls an in-process inventory.Service directly. No
// suspension point exists beyond the Stock Cell's own critical section;
// no HTTP transport is ever created.
type LocalClient struct {
	service *inventory.Service
}

// NewLocalClient builds a LocalClient over an already-constructed
// inventory.Service.
func NewLocalClient(service *inventory.Service) *LocalClient {
	return &LocalClient{service: service}
}

func (c *LocalClient) Reserve(ctx context.Context, correlationID string, qty int) (ReserveResult, error) {
	outcome, err := c.service.Reserve(ctx, correlationID, qty)
	if err != nil {
		return ReserveResult{}, err
	}
	return ReserveResult{
		Accepted:  outcome.Accepted,
		Remaining: outcome.Remaining,
		Message:   outcome.Message,
	}, nil
}

func (c *LocalClient) Available(ctx context.Context) (AvailableResult, error) {
	return AvailableResult{Qty: c.service.Available(ctx)}, nil
}

func (c *LocalClient) HealthCheck(ctx context.Context) bool {
	return true
}

var _ Client = (*LocalClient)(nil)
