// Package publisher emits audit events to an audit.Store.
//
// In the default synchronous mode Emit blocks until the store accepts the
// event. WithAsyncBuffer switches to a buffered channel drained by a single
// goroutine; Close drains what is left. A circuit breaker, when configured,
// drops events while the store is failing instead of piling up timeouts on
// the request path.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "caguard/pkg/platform/audit"
)

// ErrBufferFull is returned by Emit in async mode when the buffer is full.
var ErrBufferFull = errors.New("audit buffer full")

// ErrClosed is returned by Emit in async mode after Close.
var ErrClosed = errors.New("audit publisher closed")

// Publisher emits audit events.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
	breaker *CircuitBreaker
	now     func() time.Time

	bufferSize int
	buffer     chan audit.Event
	done       chan struct{}

	// mu guards closed and the send on buffer against Close.
	mu     sync.RWMutex
	closed bool
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithCircuitBreaker drops events while the store keeps failing.
func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(p *Publisher) {
		p.breaker = cb
	}
}

// WithAsyncBuffer makes Emit non-blocking with a buffer of size events.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.bufferSize = size
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

// NewPublisher creates a publisher writing to store.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.buffer = make(chan audit.Event, p.bufferSize)
		p.done = make(chan struct{})
		go p.drain()
	}
	return p
}

// Emit validates and stamps event, then hands it to the store.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.HolderID == "" {
		return fmt.Errorf("audit event requires HolderID")
	}
	if event.Action == "" {
		return fmt.Errorf("audit event requires Action")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	if p.buffer == nil {
		return p.write(ctx, event)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.metrics.incDropped("closed")
		return ErrClosed
	}
	select {
	case p.buffer <- event:
		return nil
	default:
		p.metrics.incDropped("buffer_full")
		return ErrBufferFull
	}
}

// Close stops the async drain after flushing buffered events. Later Emit
// calls return ErrClosed. It is a no-op in synchronous mode.
func (p *Publisher) Close() error {
	if p.buffer == nil {
		return nil
	}
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.buffer)
	}
	p.mu.Unlock()
	<-p.done
	return nil
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.buffer {
		if err := p.write(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("async audit write failed", "action", event.Action, "holder_id", event.HolderID, "error", err)
		}
	}
}

func (p *Publisher) write(ctx context.Context, event audit.Event) error {
	if p.breaker != nil && !p.breaker.Allow() {
		p.metrics.incDropped("circuit_open")
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit circuit open, dropping event", "action", event.Action, "holder_id", event.HolderID)
		}
		return nil
	}

	start := time.Now()
	err := p.store.Append(ctx, event)
	if err != nil {
		if p.breaker != nil {
			p.breaker.RecordFailure()
			p.metrics.setCircuitOpen(p.breaker.IsOpen())
		}
		p.metrics.incPersistFailures()
		return fmt.Errorf("persist audit event: %w", err)
	}
	if p.breaker != nil {
		p.breaker.RecordSuccess()
		p.metrics.setCircuitOpen(false)
	}
	p.metrics.observePersist(time.Since(start))
	return nil
}
