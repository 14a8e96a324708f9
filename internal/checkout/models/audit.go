package models

// Audit event actions describe what operation occurred.
const (
	AuditActionCheckoutSucceeded = "checkout_succeeded"
	AuditActionCheckoutFailed    = "checkout_failed"
	AuditActionAttemptFinished   = "checkout_attempt_finished"
)

// Audit event decisions record the outcome of the action.
const (
	AuditDecisionGranted = "granted"
	AuditDecisionDenied  = "denied"
)
