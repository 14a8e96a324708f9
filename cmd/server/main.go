package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	checkoutmetrics "labcheckout/internal/checkout/metrics"
	"labcheckout/internal/checkout/service"
	"labcheckout/internal/checkout/store"
	"labcheckout/internal/platform/config"
	"labcheckout/internal/platform/health"
	"labcheckout/internal/platform/logger"
	"labcheckout/internal/platform/metrics"
	"labcheckout/internal/seeder"
	"labcheckout/pkg/platform/audit"
	auditmetrics "labcheckout/pkg/platform/audit/metrics"
	"labcheckout/pkg/platform/audit/publisher"
	"labcheckout/pkg/platform/audit/store/memory"
	request "labcheckout/pkg/platform/middleware/request"
	"labcheckout/pkg/platform/tracer"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, os.Stdout)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clampMode, err := service.ParseClampMode(cfg.CableClamp)
	if err != nil {
		return err
	}

	log.Info("initializing labcheckout",
		"addr", cfg.Addr,
		"clamp_mode", clampMode,
		"audit_buffer", cfg.AuditBuffer,
		"environment", cfg.Environment,
	)

	students := store.NewStudentStore(cfg.StudentCapacity)
	assets := store.NewAssetStore(cfg.AssetCapacity)
	if err := seeder.New(students, assets, log).SeedAll(ctx); err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	metrics.RegisterInventory(reg, students.Len, assets.Len)

	auditStore := memory.NewInMemoryStore()
	auditPublisher := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(cfg.AuditBuffer),
		publisher.WithPublisherLogger(log),
		publisher.WithMetrics(auditmetrics.NewWithRegistry(reg)),
	)
	defer auditPublisher.Close()

	svc, err := service.New(students, assets,
		service.WithLogger(log),
		service.WithAuditor(audit.NewLogger(log, auditPublisher)),
		service.WithMetrics(checkoutmetrics.NewWithRegistry(reg)),
		service.WithTracer(tracer.NewOTel()),
		service.WithClampMode(clampMode),
	)
	if err != nil {
		return err
	}

	probes := health.New(cfg.Environment,
		health.WithInventory(students, assets),
		health.WithClampMode(string(clampMode)),
	)
	probes.RegisterCheck("audit_publisher", auditPublisher.Ready)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(svc, auditStore, probes, reg, request.NewMetricsWithRegistry(reg), log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
