package audit

import (
	"context"
	"time"
)

// Severity tells sinks how loudly to report an event.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string
	Timestamp time.Time
	Severity  Severity
	// Subject is who acted (a student UID); Resource is what they acted on (an asset ID).
	Subject   string
	Resource  string
	Action    string
	Decision  string
	Reason    string
	Message   string
	RequestID string
}

// Store persists audit events. Implementations must be safe for concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Reader lists persisted audit events.
type Reader interface {
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
	ListAll(ctx context.Context) ([]Event, error)
}
