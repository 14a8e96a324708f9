package audit

import (
	"context"
	"log/slog"

	"labcheckout/pkg/requestcontext"
)

// Emitter is the interface for audit event emission.
// Satisfied by publisher.Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// RequiredEmitter is implemented by emitters that can deliver an event without
// dropping it, waiting for room if they have to.
type RequiredEmitter interface {
	EmitRequired(ctx context.Context, event Event) error
}

// Logger provides structured audit logging with optional event emission.
// Audit is a side channel: failures are logged, never returned.
type Logger struct {
	textLogger *slog.Logger
	emitter    Emitter
}

// NewLogger creates an audit logger.
// textLogger is used for structured logging; emitter is optional for event persistence.
func NewLogger(textLogger *slog.Logger, emitter Emitter) *Logger {
	return &Logger{
		textLogger: textLogger,
		emitter:    emitter,
	}
}

// Log records event to the text log and the emitter.
// The request ID is taken from ctx when the event does not carry one.
func (l *Logger) Log(ctx context.Context, event Event) {
	l.log(ctx, event, false)
}

// LogRequired is Log for events that must not be dropped. It falls back to
// Emit when the emitter cannot guarantee delivery.
func (l *Logger) LogRequired(ctx context.Context, event Event) {
	l.log(ctx, event, true)
}

func (l *Logger) log(ctx context.Context, event Event, required bool) {
	if l == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.Severity == "" {
		event.Severity = SeverityInfo
	}

	l.logToText(ctx, event)
	l.emitToAudit(ctx, event, required)
}

func (l *Logger) logToText(ctx context.Context, event Event) {
	if l.textLogger == nil {
		return
	}
	level := slog.LevelInfo
	if event.Severity == SeverityError {
		level = slog.LevelWarn
	}
	l.textLogger.Log(ctx, level, event.Action,
		"event", event.Action,
		"log_type", "audit",
		"subject", event.Subject,
		"resource", event.Resource,
		"decision", event.Decision,
		"reason", event.Reason,
		"request_id", event.RequestID,
	)
}

func (l *Logger) emitToAudit(ctx context.Context, event Event, required bool) {
	if l.emitter == nil {
		return
	}
	emit := l.emitter.Emit
	if r, ok := l.emitter.(RequiredEmitter); ok && required {
		emit = r.EmitRequired
	}
	if err := emit(ctx, event); err != nil && l.textLogger != nil {
		l.textLogger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"event", event.Action,
		)
	}
}
