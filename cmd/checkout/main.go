// Command checkout seeds the demo registries and runs the scripted checkout
// requests, printing each outcome and its audit trail to stdout.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"labcheckout/internal/checkout/models"
	"labcheckout/internal/checkout/service"
	"labcheckout/internal/checkout/store"
	"labcheckout/internal/platform/config"
	"labcheckout/internal/platform/logger"
	"labcheckout/internal/seeder"
	"labcheckout/pkg/platform/audit"
	"labcheckout/pkg/platform/audit/publisher"
	"labcheckout/pkg/platform/audit/store/console"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, os.Stderr)

	// Request failures are reported, not fatal; only setup errors change the exit status.
	if err := run(context.Background(), cfg, os.Stdout, log); err != nil {
		log.Error("demo setup failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, out io.Writer, log *slog.Logger) error {
	clampMode, err := service.ParseClampMode(cfg.CableClamp)
	if err != nil {
		return err
	}

	students := store.NewStudentStore(cfg.StudentCapacity)
	assets := store.NewAssetStore(cfg.AssetCapacity)
	if err := seeder.New(students, assets, log).SeedAll(ctx); err != nil {
		return err
	}

	// Synchronous publishing keeps audit lines interleaved with the report lines.
	auditSink := console.New(out, console.WithActions(
		models.AuditActionCheckoutFailed,
		models.AuditActionAttemptFinished,
	))
	auditPublisher := publisher.NewPublisher(auditSink, publisher.WithPublisherLogger(log))
	defer auditPublisher.Close()

	svc, err := service.New(students, assets,
		service.WithLogger(log),
		service.WithAuditor(audit.NewLogger(log, auditPublisher)),
		service.WithReporter(service.NewWriterReporter(out)),
		service.WithClampMode(clampMode),
	)
	if err != nil {
		return err
	}

	for _, req := range seeder.DemoRequests() {
		_, _ = svc.Checkout(ctx, req)
	}
	return nil
}
