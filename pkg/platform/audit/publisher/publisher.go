package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	dErrors "labcheckout/pkg/domain-errors"
	audit "labcheckout/pkg/platform/audit"
	auditmetrics "labcheckout/pkg/platform/audit/metrics"
	"labcheckout/pkg/requestcontext"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store   audit.Store
	events  chan audit.Event
	wg      sync.WaitGroup
	logger  *slog.Logger
	metrics *auditmetrics.Metrics
	async   bool
	closeMu sync.RWMutex
	closed  bool
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer enables async processing with the specified buffer size.
// Events are queued and persisted in a background goroutine, in emit order.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan audit.Event, size)
			p.async = true
		}
	}
}

// WithPublisherLogger sets a logger for async error reporting.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics records queue and persistence metrics.
func WithMetrics(m *auditmetrics.Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func NewPublisher(store audit.Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.processEvents()
	}
	return p
}

// processEvents runs in a goroutine and persists events from the channel.
func (p *Publisher) processEvents() {
	defer p.wg.Done()
	for event := range p.events {
		if p.metrics != nil {
			p.metrics.DecQueueDepth()
		}
		if err := p.persist(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("failed to persist audit event",
				"error", err,
				"action", event.Action,
				"subject", event.Subject,
			)
		}
	}
}

func (p *Publisher) persist(ctx context.Context, event audit.Event) error {
	start := time.Now()
	err := p.store.Append(ctx, event)
	if p.metrics != nil {
		p.metrics.ObservePersist(time.Since(start).Seconds(), err)
	}
	return err
}

// Close shuts down the async publisher and waits for pending events to drain.
// Emit after Close fails.
func (p *Publisher) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	p.closeMu.Unlock()

	if p.async && p.events != nil {
		close(p.events)
		p.wg.Wait()
	}
}

// Emit publishes an event. In async mode it gives up when ctx is done or the
// buffer is full, counting the event as dropped.
func (p *Publisher) Emit(ctx context.Context, base audit.Event) error {
	base = p.stamp(ctx, base)

	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		return dErrors.New(dErrors.CodeInternal, "audit publisher closed")
	}
	if !p.async {
		return p.persist(ctx, base)
	}

	// Non-blocking send with context cancellation support
	select {
	case p.events <- base:
		if p.metrics != nil {
			p.metrics.IncEventsEnqueued()
			p.metrics.IncQueueDepth()
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		if p.metrics != nil {
			p.metrics.IncEventsDropped()
		}
		if p.logger != nil {
			p.logger.Warn("audit buffer full, event dropped",
				"action", base.Action,
				"subject", base.Subject,
			)
		}
		return dErrors.New(dErrors.CodeInternal, "audit buffer full")
	}
}

// EmitRequired publishes an event that must not be dropped. In async mode it
// waits for buffer room and ignores ctx cancellation.
func (p *Publisher) EmitRequired(ctx context.Context, base audit.Event) error {
	base = p.stamp(ctx, base)

	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		return dErrors.New(dErrors.CodeInternal, "audit publisher closed")
	}
	if !p.async {
		return p.persist(context.WithoutCancel(ctx), base)
	}

	// The worker keeps draining until Close, and Close waits for this read lock.
	p.events <- base
	if p.metrics != nil {
		p.metrics.IncEventsEnqueued()
		p.metrics.IncQueueDepth()
	}
	return nil
}

func (p *Publisher) stamp(ctx context.Context, base audit.Event) audit.Event {
	if base.Timestamp.IsZero() {
		base.Timestamp = requestcontext.Now(ctx)
	}
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return base
}

// Ready reports whether the publisher still accepts events. Used as a readiness check.
func (p *Publisher) Ready() error {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		return dErrors.New(dErrors.CodeInternal, "audit publisher closed")
	}
	return nil
}

var _ audit.RequiredEmitter = (*Publisher)(nil)
