package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"courier/config"
	"courier/internal/domain/service"
	mockService "courier/internal/mocks/service"

	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Connection = config.ConnectionConfig{
		QRTTL:         time.Minute,
		QRMinInterval: 5 * time.Second,
		StartRetry: config.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
		},
	}
	cfg.Dispatch = config.DispatchConfig{
		DefaultDelay:        10 * time.Millisecond,
		MaxRecipientsPerJob: 100,
	}
	cfg.Health = config.HealthConfig{
		ProbeTimeout:          time.Second,
		MaxFailures:           3,
		RefreshAllConcurrency: 4,
	}

	return cfg
}

// eventRecorder keeps every published event
type eventRecorder struct {
	mu     sync.Mutex
	events []*service.DomainEvent
}

func newRecordingPublisher(t *testing.T) (*mockService.MockEventPublisher, *eventRecorder) {
	t.Helper()

	rec := &eventRecorder{}
	publisher := mockService.NewMockEventPublisher(t)
	publisher.EXPECT().Publish(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, event *service.DomainEvent) error {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			rec.events = append(rec.events, event)

			return nil
		}).Maybe()

	return publisher, rec
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}

	return out
}

func (r *eventRecorder) count(eventType string) int {
	n := 0
	for _, t := range r.types() {
		if t == eventType {
			n++
		}
	}

	return n
}
