// Package tracer provides a lightweight tracing abstraction for checkout processing.
//
// Callers depend on the Tracer interface rather than OpenTelemetry APIs.
//
// Implementations:
//   - NoopTracer: for tests and the demo CLI
//   - OTelTracer: OpenTelemetry adapter for the server
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	// The returned context contains the new span and should be passed to child operations.
	//
	// Example:
	//   ctx, span := tr.Start(ctx, tracer.SpanCheckout,
	//       tracer.String(tracer.AttrAssetID, req.AssetID),
	//   )
	//   defer span.End(nil)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an int attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names used by checkout processing.
const (
	SpanCheckout    = "checkout.process"
	SpanValidate    = "checkout.validate"
	SpanLookup      = "checkout.lookup"
	SpanEligibility = "checkout.eligibility"
	SpanPolicy      = "checkout.policy"
	SpanCommit      = "checkout.commit"
)

// Attribute keys used by checkout processing.
const (
	AttrUID            = "student.uid"
	AttrAssetID        = "asset.id"
	AttrRequestedHours = "hours.requested"
	AttrGrantedHours   = "hours.granted"
	AttrErrorCode      = "error.code"
	AttrErrorReason    = "error.reason"
)

// Event names used by checkout processing.
const (
	EventNotice = "checkout.notice"
)
