package vacancy

import (
	"net/http"
	"time"

	"github.com/kelaslabs/vacancy-system/internal/config"
	"github.com/kelaslabs/vacancy-system/internal/inventory"
)

// NewFromMode reads Deployment Mode exactly once and returns the
// corresponding Client variant. The Dispatcher never observes which
// variant it has — any leak of that distinction is a design bug.
//
// service is only consulted in co-located mode, where it must be non-nil
// (it may be nil in split mode); transport is only consulted in split mode,
// where nil means a new transport is built from cfg's connection caps.
func NewFromMode(mode config.DeploymentMode, service *inventory.Service, cfg config.Config, transport *http.Transport) Client {
	switch mode {
	case config.CoLocated:
		return NewLocalClient(service)
	default:
		if transport == nil {
			transport = NewTransport(cfg.HTTPMaxConnections, cfg.HTTPKeepaliveConnections)
		}
		var timeout time.Duration = cfg.VacancyTimeout
		return NewRemoteClient(cfg.VacancyURL, transport, timeout)
	}
}
