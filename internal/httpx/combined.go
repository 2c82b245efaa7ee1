package httpx

import (
	"github.com/go-chi/chi/v5"

	"github.com/kelaslabs/vacancy-system/internal/dispatch"
	"github.com/kelaslabs/vacancy-system/internal/inventory"
	"github.com/kelaslabs/vacancy-system/internal/replicaguard"
)

// NewCombinedRouter assembles both HTTP shapes onto a single router for
// co-located mode, against the same in-process inventory.Service the
// Dispatcher's Local Vacancy Client also calls. No Remote Vacancy Client
// and no HTTP transport are created on this path.
func NewCombinedRouter(service *inventory.Service, dispatcher *dispatch.Dispatcher, guard *replicaguard.Guard, info RootInfo) *chi.Mux {
	r := NewRouter()
	RegisterRoot(r, info)

	inv := &InventoryHandler{Service: service, Guard: guard}
	inv.Register(r)
	inv.RegisterHealth(r)
	(&PurchaseHandler{Dispatcher: dispatcher}).Register(r)

	return r
}
