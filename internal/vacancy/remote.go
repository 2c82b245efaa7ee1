package vacancy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kelaslabs/vacancy-system/internal/apierrors"
)

// RemoteClient calls a peer's HTTP Surface (the Inventory Engine's
// /api/v1 endpoints) over a shared, long-lived, pooled http.Client. It is
// built once at process startup and reused for every call — it must never
// allocate a new transport per request.
type RemoteClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewTransport builds the pooled http.Transport shared by every
// RemoteClient call, bounded by the configured connection caps (default
// ~100 total, ~20 idle), the way wangyingjie930's internal/pkg/httpclient
// configures MaxIdleConns/MaxIdleConnsPerHost on a single reused
// transport.
func NewTransport(maxConnections, maxIdleConnections int) *http.Transport {
	return &http.Transport{
		MaxConnsPerHost:     maxConnections,
		MaxIdleConns:        maxIdleConnections,
		MaxIdleConnsPerHost: maxIdleConnections,
		IdleConnTimeout:     90 * time.Second,
	}
}

// NewRemoteClient builds a RemoteClient against baseURL, sharing transport
// (owned by the process, released on shutdown by the caller) and enforcing
// timeout as the per-request deadline.
func NewRemoteClient(baseURL string, transport *http.Transport, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		baseURL: baseURL,
		timeout: timeout,
		http:    &http.Client{Transport: transport},
	}
}

type reserveWireRequest struct {
	Qty int `json:"qty"`
}

type reserveWireResponse struct {
	Success   bool   `json:"success"`
	Remaining int    `json:"remaining"`
	Message   string `json:"message"`
}

type availableWireResponse struct {
	Qty int `json:"qty"`
}

type errorWireResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (c *RemoteClient) Reserve(ctx context.Context, correlationID string, qty int) (ReserveResult, error) {
	body, err := json.Marshal(reserveWireRequest{Qty: qty})
	if err != nil {
		return ReserveResult{}, apierrors.Internal(err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/reserve", bytes.NewReader(body))
	if err != nil {
		return ReserveResult{}, apierrors.Internal(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Correlation-Id", correlationID)

	resp, err := c.http.Do(req)
	if err != nil {
		return ReserveResult{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ReserveResult{}, classifyPeerStatus(resp)
	}

	var wire reserveWireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return ReserveResult{}, apierrors.Upstream("malformed response body: " + err.Error())
	}

	return ReserveResult{Accepted: wire.Success, Remaining: wire.Remaining, Message: wire.Message}, nil
}

func (c *RemoteClient) Available(ctx context.Context) (AvailableResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/available", nil)
	if err != nil {
		return AvailableResult{}, apierrors.Internal(err.Error())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return AvailableResult{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return AvailableResult{}, classifyPeerStatus(resp)
	}

	var wire availableWireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return AvailableResult{}, apierrors.Upstream("malformed response body: " + err.Error())
	}

	return AvailableResult{Qty: wire.Qty}, nil
}

func (c *RemoteClient) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// classifyTransportError distinguishes a deadline exceeded from any other
// connect/transport failure, per spec.md §4.3.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apierrors.Deadline(err.Error())
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierrors.Deadline(err.Error())
	}
	return apierrors.Upstream(err.Error())
}

// classifyPeerStatus maps a non-200 peer response to UpstreamUnavailable,
// carrying along whatever detail the peer supplied.
func classifyPeerStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var wire errorWireResponse
	if json.Unmarshal(body, &wire) == nil && wire.Detail != "" {
		return apierrors.Upstream(fmt.Sprintf("peer returned %d: %s", resp.StatusCode, wire.Detail))
	}
	return apierrors.Upstream(fmt.Sprintf("peer returned status %d", resp.StatusCode))
}

var _ Client = (*RemoteClient)(nil)
