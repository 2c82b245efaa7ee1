package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kelaslabs/vacancy-system/internal/dispatch"
)

// PurchaseHandler publishes the Reservation Dispatcher's purchase endpoint
// plus the dispatcher-side health and readiness probes. Owned by the
// process holding the Dispatcher (the ticket side in split mode, or the
// monolith).
type PurchaseHandler struct {
	Dispatcher *dispatch.Dispatcher
}

// Register mounts purchase and /ready. Health is mounted separately via
// RegisterHealth so combined mode can expose a single shared
// /api/v1/health instead of colliding routes.
func (h *PurchaseHandler) Register(r *chi.Mux) {
	// A plain route, not r.Route("/api/v1", ...): in combined mode the
	// InventoryHandler already mounts /api/v1 on this mux, and chi panics
	// when the same prefix is mounted twice.
	r.Post("/api/v1/purchase", h.purchase)
	r.Get("/ready", h.ready)
}

// RegisterHealth mounts GET /api/v1/health standalone, for the ticket
// process in split mode.
func (h *PurchaseHandler) RegisterHealth(r *chi.Mux) {
	r.Get("/api/v1/health", h.health)
}

func (h *PurchaseHandler) purchase(w http.ResponseWriter, r *http.Request) {
	var body reserveBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_quantity", Detail: "invalid json"})
		return
	}

	correlationID := r.Header.Get("X-Correlation-Id")
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	result, err := h.Dispatcher.Purchase(r.Context(), correlationID, body.Qty)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reserveWireResponse{
		Success:   result.Success,
		Remaining: result.Remaining,
		Message:   result.Message,
	})
}

func (h *PurchaseHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "healthy", Service: "ticket-dispatcher"})
}

// ready reports the additive dependency detail ticket/routes.py's readiness
// check surfaces (health_check() against the Vacancy Client), beyond
// spec.md's minimal {"status": "ready"} shape.
func (h *PurchaseHandler) ready(w http.ResponseWriter, r *http.Request) {
	if !h.Dispatcher.Ready(r.Context()) {
		writeJSON(w, http.StatusServiceUnavailable, readyBody{Status: "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, readyBody{
		Status:       "ready",
		Dependencies: map[string]string{"vacancy": "healthy"},
	})
}

type readyBody struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}
