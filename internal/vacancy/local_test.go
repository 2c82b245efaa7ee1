package vacancy

import (
	"context"
	"testing"
	"time"

	"github.com/kelaslabs/vacancy-system/internal/inventory"
	"github.com/kelaslabs/vacancy-system/internal/stock"
)

func TestLocalClient_ReserveAndAvailable(t *testing.T) {
	svc := inventory.New(stock.New(3, time.Second), nil)
	client := NewLocalClient(svc)

	res, err := client.Reserve(context.Background(), "cid", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Accepted || res.Remaining != 1 {
		t.Fatalf("got %+v, want accepted with remaining=1", res)
	}

	avail, err := client.Available(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avail.Qty != 1 {
		t.Fatalf("available=%d, want 1", avail.Qty)
	}

	if !client.HealthCheck(context.Background()) {
		t.Fatal("local client health check must always be true")
	}
}
