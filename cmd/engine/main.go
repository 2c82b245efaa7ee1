// Command engine runs the split-mode Inventory Engine: the process that
// owns the Stock Cell and publishes the inventory endpoints. The
// Reservation Dispatcher, when deployed split, talks to this process over
// HTTP via the Remote Vacancy Client.
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

	"github.com/kelaslabs/vacancy-system/internal/config"
	"github.com/kelaslabs/vacancy-system/internal/events"
	"github.com/kelaslabs/vacancy-system/internal/httpx"
	"github.com/kelaslabs/vacancy-system/internal/inventory"
	"github.com/kelaslabs/vacancy-system/internal/logging"
	"github.com/kelaslabs/vacancy-system/internal/replicaguard"
	"github.com/kelaslabs/vacancy-system/internal/stock"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logging.New(cfg.ServiceName + "-engine")
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

	var guard *replicaguard.Guard
	if cfg.ReplicaGuardAddr != "" {
		guard = replicaguard.New(cfg.ReplicaGuardAddr, cfg.ServiceName, uuid.NewString(), log)
		go guard.Run(ctx)
	}

	router := httpx.NewRouter()
	httpx.RegisterRoot(router, httpx.RootInfo{
		Service:        cfg.ServiceName,
		DeploymentMode: string(cfg.DeploymentMode),
		Version:        httpx.Version,
	})
	inv := &httpx.InventoryHandler{Service: svc, Guard: guard}
	inv.Register(router)
	inv.RegisterHealth(router)

	srv := &http.Server{Addr: cfg.InventoryPort, Handler: router}

	go func() {
		log.Sugar().Infof("inventory engine listening at %s", cfg.InventoryPort)
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
	if guard != nil {
		guard.Close()
	}
}
