// Package httpx is the HTTP Surface: framing only. Every semantic decision
// (quantity validation, reservation, purchase classification) lives below
// this package, in inventory and dispatch.
package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds a chi.Mux with the same baseline middleware stack every
// process in this system starts from.
func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

type reserveBody struct {
	Qty int `json:"qty"`
}

// Version is the build version surfaced on the root/info endpoint, matching
// the hardcoded "1.0.0" apps/monolith.py's root handler returns.
const Version = "1.0.0"

// RootInfo is the body of the non-authoritative root/info endpoint every
// process exposes, matching the root handler every process in
// original_source carries (apps/monolith.py, ticket/main.py, vacancy/main.py).
type RootInfo struct {
	Service        string `json:"service"`
	DeploymentMode string `json:"deployment_mode"`
	Version        string `json:"version"`
	VacancyURL     string `json:"vacancy_url,omitempty"`
}

// RegisterRoot mounts the root/info endpoint.
func RegisterRoot(r *chi.Mux, info RootInfo) {
	if info.Version == "" {
		info.Version = Version
	}
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, info)
	})
}
