package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kelaslabs/vacancy-system/internal/dispatch"
	"github.com/kelaslabs/vacancy-system/internal/inventory"
	"github.com/kelaslabs/vacancy-system/internal/stock"
	"github.com/kelaslabs/vacancy-system/internal/vacancy"
)

func newCombinedTestServer(initialStock int) *httptest.Server {
	cell := stock.New(initialStock, time.Second)
	svc := inventory.New(cell, nil)
	client := vacancy.NewLocalClient(svc)
	disp := dispatch.New(client)
	router := NewCombinedRouter(svc, disp, nil, RootInfo{Service: "test"})
	return httptest.NewServer(router)
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reqBody *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reqBody = strings.NewReader(string(b))
	} else {
		reqBody = strings.NewReader("")
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestColdStart_AvailableReportsInitialStock(t *testing.T) {
	srv := newCombinedTestServer(100)
	defer srv.Close()

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/available", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["qty"] != float64(100) {
		t.Fatalf("qty = %v, want 100", body["qty"])
	}
}

func TestSinglePurchase_DecrementsByOne(t *testing.T) {
	srv := newCombinedTestServer(100)
	defer srv.Close()

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/purchase", map[string]int{"qty": 1})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["success"] != true || body["remaining"] != float64(99) {
		t.Fatalf("got %+v", body)
	}
}

func TestDrain_HundredthAndHundredFirst(t *testing.T) {
	srv := newCombinedTestServer(100)
	defer srv.Close()

	var lastBody map[string]any
	for i := 0; i < 100; i++ {
		_, lastBody = doJSON(t, http.MethodPost, srv.URL+"/api/v1/purchase", map[string]int{"qty": 1})
	}
	if lastBody["remaining"] != float64(0) {
		t.Fatalf("100th purchase remaining = %v, want 0", lastBody["remaining"])
	}

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/purchase", map[string]int{"qty": 1})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("101st status = %d, want 200", resp.StatusCode)
	}
	if body["success"] != false || body["remaining"] != float64(0) {
		t.Fatalf("101st got %+v", body)
	}
}

func TestConcurrentDrain_ExactlyInitialStockAccepted(t *testing.T) {
	srv := newCombinedTestServer(100)
	defer srv.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted, rejected := 0, 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/purchase", map[string]int{"qty": 1})
			if resp.StatusCode != http.StatusOK {
				t.Errorf("unexpected status %d", resp.StatusCode)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if body["success"] == true {
				accepted++
			} else {
				rejected++
			}
		}()
	}
	wg.Wait()

	if accepted != 100 || rejected != 100 {
		t.Fatalf("accepted=%d rejected=%d, want 100/100", accepted, rejected)
	}

	_, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/available", nil)
	if body["qty"] != float64(0) {
		t.Fatalf("final available = %v, want 0", body["qty"])
	}
}

func TestInvalidQuantity_RejectedWithoutMutation(t *testing.T) {
	srv := newCombinedTestServer(5)
	defer srv.Close()

	for _, qty := range []int{0, -3} {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/purchase", map[string]int{"qty": qty})
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("qty=%d: status = %d, want 400", qty, resp.StatusCode)
		}
	}

	_, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/available", nil)
	if body["qty"] != float64(5) {
		t.Fatalf("available after invalid requests = %v, want 5", body["qty"])
	}
}

func TestHealth_ReportsHealthy(t *testing.T) {
	srv := newCombinedTestServer(1)
	defer srv.Close()

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/health", nil)
	if resp.StatusCode != http.StatusOK || body["status"] != "healthy" {
		t.Fatalf("got status=%d body=%+v", resp.StatusCode, body)
	}
}

func TestReady_ReflectsLocalClientAlwaysHealthy(t *testing.T) {
	srv := newCombinedTestServer(1)
	defer srv.Close()

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/ready", nil)
	if resp.StatusCode != http.StatusOK || body["status"] != "ready" {
		t.Fatalf("got status=%d body=%+v", resp.StatusCode, body)
	}
}
