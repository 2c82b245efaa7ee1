package vacancy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kelaslabs/vacancy-system/internal/apierrors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*RemoteClient, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	transport := NewTransport(10, 5)
	client := NewRemoteClient(srv.URL, transport, 2*time.Second)
	return client, srv.Close
}

func TestRemoteClient_ReserveSuccess(t *testing.T) {
	client, closeSrv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reserveWireResponse{Success: true, Remaining: 9, Message: "reserved 1"})
	})
	defer closeSrv()

	res, err := client.Reserve(context.Background(), "cid", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Accepted || res.Remaining != 9 {
		t.Fatalf("got %+v", res)
	}
}

func TestRemoteClient_PeerFiveHundred(t *testing.T) {
	client, closeSrv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errorWireResponse{Error: "internal_error", Detail: "boom"})
	})
	defer closeSrv()

	_, err := client.Reserve(context.Background(), "cid", 1)
	apiErr, ok := apierrors.As(err)
	if !ok || apiErr.Kind != apierrors.UpstreamUnavailable {
		t.Fatalf("got %v, want UpstreamUnavailable", err)
	}
}

func TestRemoteClient_MalformedBody(t *testing.T) {
	client, closeSrv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{not json"))
	})
	defer closeSrv()

	_, err := client.Reserve(context.Background(), "cid", 1)
	apiErr, ok := apierrors.As(err)
	if !ok || apiErr.Kind != apierrors.UpstreamUnavailable {
		t.Fatalf("got %v, want UpstreamUnavailable (malformed body)", err)
	}
}

func TestRemoteClient_DeadlineExceeded(t *testing.T) {
	client, closeSrv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	defer closeSrv()
	client.timeout = 10 * time.Millisecond

	_, err := client.Reserve(context.Background(), "cid", 1)
	apiErr, ok := apierrors.As(err)
	if !ok || apiErr.Kind != apierrors.DeadlineExceeded {
		t.Fatalf("got %v, want DeadlineExceeded", err)
	}
}

func TestRemoteClient_ConnectFailure(t *testing.T) {
	transport := NewTransport(10, 5)
	client := NewRemoteClient("http://127.0.0.1:1", transport, 500*time.Millisecond)

	_, err := client.Reserve(context.Background(), "cid", 1)
	apiErr, ok := apierrors.As(err)
	if !ok || apiErr.Kind != apierrors.UpstreamUnavailable {
		t.Fatalf("got %v, want UpstreamUnavailable", err)
	}
}

func TestRemoteClient_HealthCheck(t *testing.T) {
	client, closeSrv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	defer closeSrv()

	if !client.HealthCheck(context.Background()) {
		t.Fatal("expected healthy")
	}
}
