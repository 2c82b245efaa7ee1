// Command ticket runs the split-mode Reservation Dispatcher: the process
// that owns the Remote Vacancy Client's shared, pooled HTTP transport and
// publishes the purchase endpoint. It never touches the Stock Cell
// directly.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kelaslabs/vacancy-system/internal/audit"
	"github.com/kelaslabs/vacancy-system/internal/config"
	"github.com/kelaslabs/vacancy-system/internal/dispatch"
	"github.com/kelaslabs/vacancy-system/internal/httpx"
	"github.com/kelaslabs/vacancy-system/internal/logging"
	"github.com/kelaslabs/vacancy-system/internal/vacancy"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	cfg.DeploymentMode = config.Split

	log := logging.New(cfg.ServiceName + "-ticket")
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Built once, owned by this process for its whole lifetime, never
	// allocated per request.
	transport := vacancy.NewTransport(cfg.HTTPMaxConnections, cfg.HTTPKeepaliveConnections)
	defer transport.CloseIdleConnections()

	client := vacancy.NewFromMode(cfg.DeploymentMode, nil, cfg, transport)

	var auditLog *audit.Log
	if cfg.AuditDSN != "" {
		pool, err := audit.Connect(ctx, cfg.AuditDSN)
		if err != nil {
			log.Sugar().Warnf("audit log disabled: %v", err)
		} else {
			auditLog = audit.NewLog(pool, 256, log)
			auditLog.Start(ctx)
		}
	}

	var disp *dispatch.Dispatcher
	if auditLog != nil {
		disp = dispatch.NewWithAudit(client, auditLog)
	} else {
		disp = dispatch.New(client)
	}

	router := httpx.NewRouter()
	httpx.RegisterRoot(router, httpx.RootInfo{
		Service:        cfg.ServiceName,
		DeploymentMode: string(cfg.DeploymentMode),
		Version:        httpx.Version,
		VacancyURL:     cfg.VacancyURL,
	})
	purchase := &httpx.PurchaseHandler{Dispatcher: disp}
	purchase.Register(router)
	purchase.RegisterHealth(router)

	srv := &http.Server{Addr: cfg.PurchasePort, Handler: router}

	go func() {
		log.Sugar().Infof("ticket dispatcher listening at %s, upstream %s", cfg.PurchasePort, cfg.VacancyURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Sugar().Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	cancel()
	if auditLog != nil {
		auditLog.WaitClosed()
	}
}
