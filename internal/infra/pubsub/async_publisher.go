package pubsub

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"courier/internal/domain/service"
)

const defaultPublishTimeout = 5 * time.Second

// asyncPublisher hands events to the underlying sink in the background.
// A failed or slow sink is logged and never reaches the caller.
type asyncPublisher struct {
	next    service.EventPublisher
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAsyncPublisher wraps next so that Publish returns immediately
func NewAsyncPublisher(next service.EventPublisher, logger *slog.Logger, timeout time.Duration) service.EventPublisher {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	return &asyncPublisher{
		next:    next,
		logger:  logger,
		timeout: timeout,
	}
}

func (p *asyncPublisher) Publish(ctx context.Context, event *service.DomainEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn("Event dropped after publisher shutdown", slog.String("event_type", event.Type))

		return nil
	}

	// Detach from the request so the event outlives it
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()

		if err := p.next.Publish(publishCtx, event); err != nil {
			p.logger.Warn("Failed to publish event",
				slog.String("event_type", event.Type),
				slog.String("subject_id", event.SubjectID),
				slog.Any("error", err),
			)
		}
	}()

	return nil
}

// Close waits for in-flight events, then closes the sink
func (p *asyncPublisher) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()

	return p.next.Close()
}

func eventAttributes(event *service.DomainEvent) map[string]string {
	attributes := map[string]string{
		"event_type": event.Type,
		"subject_id": event.SubjectID,
	}
	if event.AccountRef != "" {
		attributes["account_ref"] = event.AccountRef
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return attributes
}
