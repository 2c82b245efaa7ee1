package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kelaslabs/vacancy-system/internal/apierrors"
	"github.com/kelaslabs/vacancy-system/internal/inventory"
	"github.com/kelaslabs/vacancy-system/internal/replicaguard"
)

// InventoryHandler publishes the Stock Cell's reserve/available/health
// endpoints under /api/v1, owned by whichever process holds the
// inventory.Service (the Engine in split mode, or the monolith).
type InventoryHandler struct {
	Service *inventory.Service
	Guard   *replicaguard.Guard // optional; nil disables the health detail field
}

// Register mounts reserve/available only. Health is mounted separately via
// RegisterHealth so a combined-mode assembly can expose a single
// /api/v1/health shared between both handlers instead of colliding routes.
func (h *InventoryHandler) Register(r *chi.Mux) {
	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/reserve", h.reserve)
		api.Get("/available", h.available)
	})
}

// RegisterHealth mounts GET /api/v1/health standalone, for the Engine
// process in split mode and for the combined router in co-located mode.
func (h *InventoryHandler) RegisterHealth(r *chi.Mux) {
	r.Get("/api/v1/health", h.health)
}

func (h *InventoryHandler) reserve(w http.ResponseWriter, r *http.Request) {
	var body reserveBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: string(apierrors.InvalidQuantity), Detail: "invalid json"})
		return
	}

	correlationID := r.Header.Get("X-Correlation-Id")
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	outcome, err := h.Service.Reserve(r.Context(), correlationID, body.Qty)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reserveWireResponse{
		Success:   outcome.Accepted,
		Remaining: outcome.Remaining,
		Message:   outcome.Message,
	})
}

func (h *InventoryHandler) available(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, availableWireResponse{Qty: h.Service.Available(r.Context())})
}

func (h *InventoryHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.healthBody())
}

func (h *InventoryHandler) healthBody() healthBody {
	body := healthBody{Status: "healthy", Service: "inventory-engine"}
	if h.Guard != nil && h.Guard.Conflict() {
		body.Details = map[string]any{"replica_conflict": true}
	}
	return body
}

// reserveWireResponse/availableWireResponse mirror the wire shapes the
// Remote Vacancy Client decodes in internal/vacancy/remote.go.
type reserveWireResponse struct {
	Success   bool   `json:"success"`
	Remaining int    `json:"remaining"`
	Message   string `json:"message"`
}

type availableWireResponse struct {
	Qty int `json:"qty"`
}

type healthBody struct {
	Status  string         `json:"status"`
	Service string         `json:"service"`
	Details map[string]any `json:"details,omitempty"`
}

func writeAPIError(w http.ResponseWriter, err error) {
	apiErr, ok := apierrors.As(err)
	if !ok {
		apiErr = apierrors.Internal(err.Error())
	}
	writeJSON(w, apierrors.StatusCode(apiErr.Kind), errorBody{Error: string(apiErr.Kind), Detail: apiErr.Detail})
}
