package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"labcheckout/internal/checkout/handler"
	"labcheckout/internal/platform/health"
	"labcheckout/pkg/platform/audit"
	request "labcheckout/pkg/platform/middleware/request"
	"labcheckout/pkg/validation"
)

const requestTimeout = 5 * time.Second

func newRouter(
	svc handler.Service,
	auditReader audit.Reader,
	probes *health.Handler,
	gatherer prometheus.Gatherer,
	latency *request.Metrics,
	log *slog.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(request.Recovery(log))
	r.Use(request.Logger(log))
	r.Use(request.LatencyMiddleware(latency))

	probes.Register(r)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(request.Timeout(requestTimeout))
		r.Use(request.BodyLimit(validation.MaxBodySize))
		r.Use(request.ContentTypeJSON)
		handler.New(svc, auditReader, log).Register(r)
	})
	return r
}
