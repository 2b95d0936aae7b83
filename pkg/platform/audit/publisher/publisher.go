// Package publisher emits audit events to a Store, either synchronously
// or through a bounded in-process buffer drained by a background goroutine.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	id "pulsemarket/pkg/domain"
	audit "pulsemarket/pkg/platform/audit"
)

// ErrBufferFull is returned in async mode when the inbox is at capacity.
// Callers treat audit emission as best-effort and must not fail their
// operation on this error.
var ErrBufferFull = errors.New("audit buffer full")

// Publisher writes audit events to a store. In sync mode Emit blocks on
// the store write. With WithAsyncBuffer, Emit enqueues and a background
// goroutine drains the buffer; Close flushes remaining events.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	inbox chan audit.Event
	done  chan struct{}
	once  sync.Once
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous emission with the given buffer size.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, size)
	}
}

// WithLogger sets a logger for drop and drain reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.done = make(chan struct{})
		go p.drain()
	}
	return p
}

// Emit records an audit event. The event timestamp is set to now when
// unset. In async mode a full buffer returns ErrBufferFull rather than
// blocking the caller.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case p.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit event dropped, buffer full",
				"action", event.Action,
				"business_id", event.BusinessID,
			)
		}
		return ErrBufferFull
	}
}

// List returns events for a business, reading through to the store.
func (p *Publisher) List(ctx context.Context, businessID id.BusinessID) ([]audit.Event, error) {
	return p.store.ListByBusiness(ctx, businessID)
}

// Close stops the background drainer and flushes buffered events.
// Safe to call multiple times.
func (p *Publisher) Close() error {
	if p.inbox == nil {
		return nil
	}
	p.once.Do(func() {
		close(p.inbox)
		<-p.done
	})
	return nil
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.inbox {
		if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("failed to persist audit event",
				"action", event.Action,
				"error", err,
			)
		}
	}
}
