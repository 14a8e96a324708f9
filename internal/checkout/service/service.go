package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks StudentStore,AssetStore,Reporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	checkoutmetrics "labcheckout/internal/checkout/metrics"
	"labcheckout/internal/checkout/models"
	dErrors "labcheckout/pkg/domain-errors"
	"labcheckout/pkg/platform/audit"
	"labcheckout/pkg/platform/sync"
	"labcheckout/pkg/platform/tracer"
	"labcheckout/pkg/requestcontext"
)

// StudentStore defines the persistence interface for students.
// Error Contract:
// - FindByUID and IncrementBorrowCount return a CodeNotFound error when the student does not exist
type StudentStore interface {
	FindByUID(ctx context.Context, uid string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	IncrementBorrowCount(ctx context.Context, uid string) (*models.Student, error)
}

// AssetStore defines the persistence interface for assets.
// Error Contract:
// - lookups and mutations return a CodeNotFound error when the asset does not exist
// - MarkBorrowed returns CodeConflict/ReasonAlreadyBorrowed when the asset is already out
type AssetStore interface {
	FindByID(ctx context.Context, assetID string) (*models.Asset, error)
	List(ctx context.Context) ([]*models.Asset, error)
	MarkBorrowed(ctx context.Context, assetID string) (*models.Asset, error)
	Release(ctx context.Context, assetID string) error
}

// Reporter receives the outcome of every checkout attempt before it is audited.
// Exactly one of receipt and err is non-nil.
type Reporter interface {
	Report(ctx context.Context, req models.Request, receipt *models.Receipt, err error)
}

// Service runs checkout requests through validation, lookup, eligibility,
// duration policy and commit.
type Service struct {
	students  StudentStore
	assets    AssetStore
	locks     *sync.ShardedMutex
	auditor   *audit.Logger
	reporter  Reporter
	logger    *slog.Logger
	metrics   *checkoutmetrics.Metrics
	tracer    tracer.Tracer
	clampMode ClampMode
}

type Option func(*Service)

// WithLogger sets the logger instance for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAuditor sets where outcome and attempt-finished events go.
func WithAuditor(auditor *audit.Logger) Option {
	return func(s *Service) {
		s.auditor = auditor
	}
}

// WithReporter sets the caller-facing outcome reporter.
func WithReporter(r Reporter) Option {
	return func(s *Service) {
		s.reporter = r
	}
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *checkoutmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer. Defaults to a no-op tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithClampMode selects whether the cable clamp reaches the receipt.
func WithClampMode(mode ClampMode) Option {
	return func(s *Service) {
		s.clampMode = mode
	}
}

func New(students StudentStore, assets AssetStore, opts ...Option) (*Service, error) {
	if students == nil {
		return nil, errors.New("students store is required")
	}
	if assets == nil {
		return nil, errors.New("assets store is required")
	}
	s := &Service{
		students:  students,
		assets:    assets,
		locks:     sync.NewShardedMutex(),
		clampMode: ClampCosmetic,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.tracer == nil {
		s.tracer = tracer.NewNoop()
	}
	if !s.clampMode.IsValid() {
		return nil, fmt.Errorf("invalid clamp mode %q", s.clampMode)
	}
	return s, nil
}

// Checkout processes one request. On success the asset is unavailable and the
// student's borrow count is one higher; on failure nothing has changed.
// Every call reports its outcome and then audits an attempt-finished note,
// whatever step it stopped at.
func (s *Service) Checkout(ctx context.Context, req models.Request) (receipt *models.Receipt, err error) {
	ctx, _ = requestcontext.EnsureRequestID(ctx)
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanCheckout,
		tracer.String(tracer.AttrUID, req.UID),
		tracer.String(tracer.AttrAssetID, req.AssetID),
		tracer.Int(tracer.AttrRequestedHours, req.Hours),
	)

	// Audit outlives the caller: a disconnected client or a server timeout
	// must not cost the attempt its records.
	defer s.auditAttemptFinished(context.WithoutCancel(ctx), req)
	defer func() {
		s.recordOutcome(context.WithoutCancel(ctx), req, receipt, err, time.Since(start))
		if err != nil {
			span.SetAttributes(
				tracer.String(tracer.AttrErrorCode, string(dErrors.CodeOf(err))),
				tracer.String(tracer.AttrErrorReason, string(dErrors.ReasonOf(err))),
			)
		}
		span.End(err)
	}()

	return s.checkout(ctx, req)
}

func (s *Service) checkout(ctx context.Context, req models.Request) (*models.Receipt, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	// Hold both entities from lookup through commit so eligibility decisions
	// cannot go stale under concurrent callers.
	unlock := s.locks.LockKeys(req.UID, req.AssetID)
	defer unlock()

	student, asset, err := s.lookup(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.checkEligibility(ctx, student, asset); err != nil {
		return nil, err
	}

	hours, notices := s.adjustDuration(ctx, *asset, req.Hours)

	if err := s.commit(ctx, student.UID, asset.ID); err != nil {
		return nil, err
	}

	return &models.Receipt{
		Token:          models.ReceiptToken(asset.ID, student.UID),
		UID:            student.UID,
		AssetID:        asset.ID,
		RequestedHours: req.Hours,
		Hours:          hours,
		Notices:        notices,
	}, nil
}

func (s *Service) validate(ctx context.Context, req models.Request) (err error) {
	_, span := s.tracer.Start(ctx, tracer.SpanValidate)
	defer func() { span.End(err) }()
	return req.Validate()
}

func (s *Service) lookup(ctx context.Context, req models.Request) (student *models.Student, asset *models.Asset, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanLookup)
	defer func() { span.End(err) }()

	student, err = s.students.FindByUID(ctx, req.UID)
	if err != nil {
		return nil, nil, s.storeError(err, "failed to read student")
	}
	asset, err = s.assets.FindByID(ctx, req.AssetID)
	if err != nil {
		return nil, nil, s.storeError(err, "failed to read asset")
	}
	return student, asset, nil
}

func (s *Service) checkEligibility(ctx context.Context, student *models.Student, asset *models.Asset) (err error) {
	_, span := s.tracer.Start(ctx, tracer.SpanEligibility)
	defer func() { span.End(err) }()

	if err := student.CheckEligibility(); err != nil {
		return err
	}
	return asset.CheckAvailability(student.UID)
}

// adjustDuration applies duration policy and returns the hours to put on the receipt.
// In ClampCosmetic mode the clamp only produces a notice.
func (s *Service) adjustDuration(ctx context.Context, asset models.Asset, requested int) (int, []string) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanPolicy)
	defer span.End(nil)

	adjusted, notices := models.AdjustDuration(asset, requested)
	span.SetAttributes(tracer.Int(tracer.AttrGrantedHours, adjusted))
	for _, n := range notices {
		s.logger.InfoContext(ctx, "duration notice",
			"notice", n,
			"asset_id", asset.ID,
			"requested_hours", requested,
			"adjusted_hours", adjusted,
			"clamp_mode", s.clampMode,
			"request_id", requestcontext.RequestID(ctx),
		)
		if s.metrics != nil {
			s.metrics.IncNotice(n)
		}
		span.AddEvent(tracer.EventNotice, tracer.String("notice", n))
	}
	if s.clampMode == ClampApplied {
		return adjusted, notices
	}
	return requested, notices
}

// commit flips the asset and bumps the borrow count. If the second step fails
// the first is undone, so either both mutations stick or neither does.
func (s *Service) commit(ctx context.Context, uid, assetID string) (err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanCommit)
	defer func() { span.End(err) }()

	if _, err := s.assets.MarkBorrowed(ctx, assetID); err != nil {
		return s.storeError(err, "failed to mark asset borrowed")
	}
	if _, err := s.students.IncrementBorrowCount(ctx, uid); err != nil {
		if relErr := s.assets.Release(ctx, assetID); relErr != nil {
			s.logger.ErrorContext(ctx, "failed to release asset after aborted checkout",
				"error", relErr,
				"asset_id", assetID,
				"uid", uid,
			)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("Checkout not committed for UID: %s", uid))
	}
	return nil
}

// storeError passes domain errors through untouched and classifies anything
// else as internal.
func (s *Service) storeError(err error, msg string) error {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

// GetStudent returns a snapshot of one student.
func (s *Service) GetStudent(ctx context.Context, uid string) (*models.Student, error) {
	student, err := s.students.FindByUID(ctx, uid)
	if err != nil {
		return nil, s.storeError(err, "failed to read student")
	}
	return student, nil
}

// GetAsset returns a snapshot of one asset.
func (s *Service) GetAsset(ctx context.Context, assetID string) (*models.Asset, error) {
	asset, err := s.assets.FindByID(ctx, assetID)
	if err != nil {
		return nil, s.storeError(err, "failed to read asset")
	}
	return asset, nil
}

// ListStudents returns all students in registration order.
func (s *Service) ListStudents(ctx context.Context) ([]*models.Student, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, s.storeError(err, "failed to list students")
	}
	return students, nil
}

// ListAssets returns all assets in registration order.
func (s *Service) ListAssets(ctx context.Context) ([]*models.Asset, error) {
	assets, err := s.assets.List(ctx)
	if err != nil {
		return nil, s.storeError(err, "failed to list assets")
	}
	return assets, nil
}
