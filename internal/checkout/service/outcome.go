package service

import (
	"context"
	"fmt"
	"time"

	checkoutmetrics "labcheckout/internal/checkout/metrics"
	"labcheckout/internal/checkout/models"
	dErrors "labcheckout/pkg/domain-errors"
	"labcheckout/pkg/platform/audit"
	"labcheckout/pkg/requestcontext"
)

// recordOutcome reports, audits, logs and counts a finished attempt, in that order.
func (s *Service) recordOutcome(ctx context.Context, req models.Request, receipt *models.Receipt, err error, elapsed time.Duration) {
	if s.reporter != nil {
		s.reporter.Report(ctx, req, receipt, err)
	}

	requestID := requestcontext.RequestID(ctx)
	if err == nil {
		s.auditor.Log(ctx, audit.Event{
			Subject:   req.UID,
			Resource:  req.AssetID,
			Action:    models.AuditActionCheckoutSucceeded,
			Decision:  models.AuditDecisionGranted,
			Message:   receipt.Token,
			RequestID: requestID,
		})
		s.logger.InfoContext(ctx, "checkout committed",
			"uid", req.UID,
			"asset_id", req.AssetID,
			"receipt", receipt.Token,
			"hours", receipt.Hours,
			"request_id", requestID,
		)
		if s.metrics != nil {
			s.metrics.ObserveCheckout(checkoutmetrics.OutcomeOK, "", elapsed.Seconds())
		}
		return
	}

	code, reason := dErrors.CodeOf(err), dErrors.ReasonOf(err)
	s.auditor.Log(ctx, audit.Event{
		Severity:  audit.SeverityError,
		Subject:   req.UID,
		Resource:  req.AssetID,
		Action:    models.AuditActionCheckoutFailed,
		Decision:  models.AuditDecisionDenied,
		Reason:    auditReason(code, reason),
		Message:   err.Error(),
		RequestID: requestID,
	})
	if code == dErrors.CodeInternal {
		s.logger.ErrorContext(ctx, "checkout failed", "error", err, "uid", req.UID, "asset_id", req.AssetID, "request_id", requestID)
	} else {
		s.logger.InfoContext(ctx, "checkout rejected",
			"code", code,
			"reason", reason,
			"message", err.Error(),
			"uid", req.UID,
			"asset_id", req.AssetID,
			"request_id", requestID,
		)
	}
	if s.metrics != nil {
		s.metrics.ObserveCheckout(string(code), string(reason), elapsed.Seconds())
	}
}

// auditAttemptFinished must land exactly once per attempt, so it is never
// dropped under audit backpressure.
func (s *Service) auditAttemptFinished(ctx context.Context, req models.Request) {
	s.auditor.LogRequired(ctx, audit.Event{
		Subject:  req.UID,
		Resource: req.AssetID,
		Action:   models.AuditActionAttemptFinished,
		Message:  fmt.Sprintf("Attempt finished for UID=%s, Asset=%s", req.UID, req.AssetID),
	})
}

func auditReason(code dErrors.Code, reason dErrors.Reason) string {
	if reason == dErrors.ReasonNone {
		return string(code)
	}
	return string(code) + "/" + string(reason)
}
