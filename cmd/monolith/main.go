// Command monolith runs the co-located topology: the Inventory Engine and
// the Reservation Dispatcher share one process and one in-process
// inventory.Service. No Remote Vacancy Client and no HTTP transport are
// created on this path.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/kelaslabs/vacancy-system/internal/audit"
	"github.com/kelaslabs/vacancy-system/internal/config"
	"github.com/kelaslabs/vacancy-system/internal/dispatch"
	"github.com/kelaslabs/vacancy-system/internal/events"
	"github.com/kelaslabs/vacancy-system/internal/httpx"
	"github.com/kelaslabs/vacancy-system/internal/inventory"
	"github.com/kelaslabs/vacancy-system/internal/logging"
	"github.com/kelaslabs/vacancy-system/internal/replicaguard"
	"github.com/kelaslabs/vacancy-system/internal/stock"
	"github.com/kelaslabs/vacancy-system/internal/vacancy"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	cfg.DeploymentMode = config.CoLocated

	log := logging.New(cfg.ServiceName)
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cell := stock.New(cfg.InitialStock, cfg.CacheTTL)

	var exp *events.Exporter
	var exporter inventory.Exporter = inventory.NoopExporter
	if cfg.KafkaBrokers != "" {
		exp = events.NewExporter(strings.Split(cfg.KafkaBrokers, ","), cfg.ReservationTopic, 1024, log)
		exp.Start(ctx)
		exporter = exp
	}

	svc := inventory.New(cell, exporter)

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

	var guard *replicaguard.Guard
	if cfg.ReplicaGuardAddr != "" {
		guard = replicaguard.New(cfg.ReplicaGuardAddr, cfg.ServiceName, uuid.NewString(), log)
		go guard.Run(ctx)
	}

	client := vacancy.NewFromMode(cfg.DeploymentMode, svc, cfg, nil)
	var disp *dispatch.Dispatcher
	if auditLog != nil {
		disp = dispatch.NewWithAudit(client, auditLog)
	} else {
		disp = dispatch.New(client)
	}

	router := httpx.NewCombinedRouter(svc, disp, guard, httpx.RootInfo{
		Service:        cfg.ServiceName,
		DeploymentMode: string(cfg.DeploymentMode),
		Version:        httpx.Version,
	})

	srv := &http.Server{Addr: cfg.CombinedPort, Handler: router}

	go func() {
		log.Sugar().Infof("combined HTTP surface listening at %s", cfg.CombinedPort)
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
	if exp != nil {
		exp.WaitClosed()
	}
	if auditLog != nil {
		auditLog.WaitClosed()
	}
	if guard != nil {
		guard.Close()
	}
}
