package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"courier/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalHTTPPublisher_PublishesPushEnvelope(t *testing.T) {
	var got PubSubPushMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-1", r.Header.Get("X-Request-Id"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))
	event := &service.DomainEvent{
		ID:         "evt-1",
		Type:       service.EventJobCompleted,
		RequestID:  "req-1",
		SubjectID:  "job-1",
		OccurredAt: time.Now(),
	}

	require.NoError(t, publisher.Publish(t.Context(), event))

	assert.Equal(t, "evt-1", got.Message.MessageID)
	assert.Equal(t, service.EventJobCompleted, got.Message.Attributes["event_type"])

	data, err := base64.StdEncoding.DecodeString(got.Message.Data)
	require.NoError(t, err)

	var decoded service.DomainEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "job-1", decoded.SubjectID)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := publisher.Publish(t.Context(), &service.DomainEvent{ID: "evt-2", Type: service.EventConnectionError})
	assert.Error(t, err)
}

type failingPublisher struct {
	calls  atomic.Int32
	closed atomic.Bool
}

func (p *failingPublisher) Publish(_ context.Context, _ *service.DomainEvent) error {
	p.calls.Add(1)

	return errors.New("sink down")
}

func (p *failingPublisher) Close() error {
	p.closed.Store(true)

	return nil
}

func TestAsyncPublisher_SwallowsSinkFailures(t *testing.T) {
	sink := &failingPublisher{}
	publisher := NewAsyncPublisher(sink, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Second)

	err := publisher.Publish(t.Context(), &service.DomainEvent{ID: "evt-3", Type: service.EventConnectionCreated})
	require.NoError(t, err)

	require.NoError(t, publisher.Close())
	assert.Equal(t, int32(1), sink.calls.Load())
	assert.True(t, sink.closed.Load())

	// Events after close are dropped without error
	require.NoError(t, publisher.Publish(t.Context(), &service.DomainEvent{ID: "evt-4"}))
	assert.Equal(t, int32(1), sink.calls.Load())
}
