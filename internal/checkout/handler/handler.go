package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"labcheckout/internal/checkout/models"
	dErrors "labcheckout/pkg/domain-errors"
	"labcheckout/pkg/platform/audit"
	"labcheckout/pkg/platform/httputil"
	"labcheckout/pkg/requestcontext"
)

// Service defines the checkout operations exposed over HTTP.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Checkout(ctx context.Context, req models.Request) (*models.Receipt, error)
	GetStudent(ctx context.Context, uid string) (*models.Student, error)
	GetAsset(ctx context.Context, assetID string) (*models.Asset, error)
	ListStudents(ctx context.Context) ([]*models.Student, error)
	ListAssets(ctx context.Context) ([]*models.Asset, error)
}

type Handler struct {
	service Service
	audit   audit.Reader
	logger  *slog.Logger
}

func New(service Service, auditReader audit.Reader, logger *slog.Logger) *Handler {
	return &Handler{service: service, audit: auditReader, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/checkouts", h.HandleCheckout)
	r.Get("/students", h.HandleListStudents)
	r.Get("/students/{uid}", h.HandleGetStudent)
	r.Get("/assets", h.HandleListAssets)
	r.Get("/assets/{id}", h.HandleGetAsset)
	r.Get("/audit", h.HandleListAllAudit)
	r.Get("/audit/{uid}", h.HandleListAudit)
}

// HandleCheckout runs one checkout. Validation happens in the service so that
// rejected requests are audited like any other failure.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeJSON[models.Request](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	receipt, err := h.service.Checkout(ctx, *req)
	if err != nil {
		h.logFailure(ctx, "checkout failed", err, "uid", req.UID, "asset_id", req.AssetID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, receipt)
}

func (h *Handler) HandleListStudents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	students, err := h.service.ListStudents(ctx)
	if err != nil {
		h.logFailure(ctx, "list students failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StudentListResponse{Students: students})
}

func (h *Handler) HandleGetStudent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := chi.URLParam(r, "uid")
	student, err := h.service.GetStudent(ctx, uid)
	if err != nil {
		h.logFailure(ctx, "get student failed", err, "uid", uid)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, student)
}

func (h *Handler) HandleListAssets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assets, err := h.service.ListAssets(ctx)
	if err != nil {
		h.logFailure(ctx, "list assets failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AssetListResponse{Assets: assets})
}

func (h *Handler) HandleGetAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assetID := chi.URLParam(r, "id")
	asset, err := h.service.GetAsset(ctx, assetID)
	if err != nil {
		h.logFailure(ctx, "get asset failed", err, "asset_id", assetID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, asset)
}

// HandleListAudit returns the audit trail of one student, oldest first.
func (h *Handler) HandleListAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := chi.URLParam(r, "uid")
	events, err := h.audit.ListBySubject(ctx, uid)
	if err != nil {
		h.logFailure(ctx, "list audit events failed", err, "uid", uid)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAuditListResponse(uid, events))
}

// HandleListAllAudit returns every recorded audit event, oldest first.
func (h *Handler) HandleListAllAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	events, err := h.audit.ListAll(ctx)
	if err != nil {
		h.logFailure(ctx, "list audit events failed", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAuditListResponse("", events))
}

// logFailure logs caller mistakes at info and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err, "request_id", requestcontext.RequestID(ctx))
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
		return
	}
	h.logger.InfoContext(ctx, msg, attrs...)
}
