// Package health serves the liveness, readiness and status probes of the
// checkout server. Readiness covers the seeded registries as well as any
// registered component checks.
package health

import (
	"errors"
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"labcheckout/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"

	registriesCheck = "registries"
)

var (
	errStudentsEmpty = errors.New("student registry not seeded")
	errAssetsEmpty   = errors.New("asset registry not seeded")
)

// CheckFunc reports whether a component can serve checkouts. nil means healthy.
type CheckFunc func() error

// Registry is the part of an entity registry the probes look at.
type Registry interface {
	Len() int
	Capacity() int
}

// AssetRegistry also knows how much of the lab is on the shelf.
type AssetRegistry interface {
	Registry
	AvailableCount() int
}

// Handler provides health check endpoints.
type Handler struct {
	startTime   time.Time
	environment string
	clampMode   string
	students    Registry
	assets      AssetRegistry

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// Option configures a Handler.
type Option func(*Handler)

// WithInventory lets the probes report on the registries. Readiness fails
// until both hold at least one entity.
func WithInventory(students Registry, assets AssetRegistry) Option {
	return func(h *Handler) {
		h.students = students
		h.assets = assets
	}
}

// WithClampMode records the cable clamp mode shown on the status endpoint.
func WithClampMode(mode string) Option {
	return func(h *Handler) {
		h.clampMode = mode
	}
}

func New(environment string, opts ...Option) *Handler {
	h := &Handler{
		startTime:   time.Now(),
		environment: environment,
		checks:      make(map[string]CheckFunc),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.students != nil && h.assets != nil {
		h.checks[registriesCheck] = h.checkSeeded
	}
	return h
}

// RegisterCheck adds a named health check for the readiness probe.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

func (h *Handler) checkSeeded() error {
	if h.students.Len() == 0 {
		return errStudentsEmpty
	}
	if h.assets.Len() == 0 {
		return errAssetsEmpty
	}
	return nil
}

type LivenessResponse struct {
	Status string `json:"status"`
}

// HandleLiveness always answers 200 while the process runs.
func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{Status: "alive"})
}

type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HandleReadiness runs every check and answers 503 if any fails.
func (h *Handler) HandleReadiness(w http.ResponseWriter, _ *http.Request) {
	results, ok := h.runChecks()
	response := ReadinessResponse{Status: "ready", Checks: results}
	if !ok {
		response.Status = "not_ready"
		httputil.WriteJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) runChecks() (map[string]string, bool) {
	h.mu.RLock()
	checks := maps.Clone(h.checks)
	h.mu.RUnlock()

	results := make(map[string]string, len(checks))
	ok := true
	for _, name := range slices.Sorted(maps.Keys(checks)) {
		if err := checks[name](); err != nil {
			results[name] = "down: " + err.Error()
			ok = false
			continue
		}
		results[name] = "up"
	}
	return results, ok
}

// RegistryStatus describes one registry. Capacity 0 means unbounded.
type RegistryStatus struct {
	Registered int  `json:"registered"`
	Capacity   int  `json:"capacity"`
	Available  *int `json:"available,omitempty"`
}

type InventoryStatus struct {
	Students RegistryStatus `json:"students"`
	Assets   RegistryStatus `json:"assets"`
}

type StatusResponse struct {
	Status        string           `json:"status"`
	Version       string           `json:"version"`
	Environment   string           `json:"environment"`
	ClampMode     string           `json:"clamp_mode,omitempty"`
	Inventory     *InventoryStatus `json:"inventory,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Timestamp     string           `json:"timestamp"`
}

// HandleStatus reports version, uptime, clamp mode and the lab inventory.
// The status reads "starting" while the registries are still empty.
func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := StatusResponse{
		Status:        statusHealthy,
		Version:       Version,
		Environment:   h.environment,
		ClampMode:     h.clampMode,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	if h.students != nil && h.assets != nil {
		available := h.assets.AvailableCount()
		resp.Inventory = &InventoryStatus{
			Students: RegistryStatus{Registered: h.students.Len(), Capacity: h.students.Capacity()},
			Assets:   RegistryStatus{Registered: h.assets.Len(), Capacity: h.assets.Capacity(), Available: &available},
		}
		if h.checkSeeded() != nil {
			resp.Status = statusStarting
		}
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
