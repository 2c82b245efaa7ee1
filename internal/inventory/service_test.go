package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kelaslabs/vacancy-system/internal/apierrors"
	"github.com/kelaslabs/vacancy-system/internal/stock"
)

func TestReserve_InvalidQuantity(t *testing.T) {
	svc := New(stock.New(10, time.Second), nil)

	for _, qty := range []int{0, -1, -100} {
		_, err := svc.Reserve(context.Background(), "cid", qty)
		if err == nil {
			t.Fatalf("qty=%d: expected InvalidQuantity error, got nil", qty)
		}
		apiErr, ok := apierrors.As(err)
		if !ok || apiErr.Kind != apierrors.InvalidQuantity {
			t.Fatalf("qty=%d: expected InvalidQuantity kind, got %v", qty, err)
		}
	}

	// Invalid requests never mutate total.
	if got := svc.Available(context.Background()); got != 10 {
		t.Fatalf("total mutated by invalid requests: got %d, want 10", got)
	}
}

func TestReserve_AcceptAndReject(t *testing.T) {
	svc := New(stock.New(5, time.Second), nil)

	out, err := svc.Reserve(context.Background(), "cid-1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Accepted || out.Remaining != 0 {
		t.Fatalf("got %+v, want accepted with remaining=0", out)
	}

	out, err = svc.Reserve(context.Background(), "cid-2", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Accepted || out.Remaining != 0 {
		t.Fatalf("got %+v, want rejected with remaining=0", out)
	}
}

func TestReserve_ConcurrentDrain(t *testing.T) {
	const initial = 100
	const attempts = 200
	svc := New(stock.New(initial, time.Second), nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, failures := 0, 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := svc.Reserve(context.Background(), "cid", 1)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if out.Accepted {
				successes++
			} else {
				failures++
				if out.Remaining != 0 {
					t.Errorf("rejected outcome remaining = %d, want 0", out.Remaining)
				}
			}
		}()
	}
	wg.Wait()

	if successes != initial {
		t.Fatalf("successes=%d, want %d", successes, initial)
	}
	if failures != attempts-initial {
		t.Fatalf("failures=%d, want %d", failures, attempts-initial)
	}
	if got := svc.Available(context.Background()); got != 0 {
		t.Fatalf("final available=%d, want 0", got)
	}
}

type recordingExporter struct {
	mu     sync.Mutex
	events int
}

func (r *recordingExporter) Export(correlationID string, qty int, outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events++
}

func TestReserve_ExportsAcceptedAndRejectedDecisions(t *testing.T) {
	exp := &recordingExporter{}
	svc := New(stock.New(2, time.Second), exp)

	svc.Reserve(context.Background(), "a", 1)
	svc.Reserve(context.Background(), "b", 1)
	svc.Reserve(context.Background(), "c", 1) // rejected, still exported

	exp.mu.Lock()
	defer exp.mu.Unlock()
	if exp.events != 3 {
		t.Fatalf("exporter saw %d events, want 3", exp.events)
	}
}
