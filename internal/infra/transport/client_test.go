package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courier/config"
	deliverycontext "courier/internal/delivery/context"
	"courier/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(timeout time.Duration) *httpClient {
	return newClient(config.TransportConfig{RequestTimeout: timeout}, &http.Client{})
}

func TestClient_StartSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sessions", r.URL.Path)
		assert.Equal(t, "req-42", r.Header.Get(deliverycontext.HeaderXRequestID))

		var body startSessionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "conn-1", body.SessionID)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"qr","qr":"2@payload"}`))
	}))
	defer srv.Close()

	ctx := deliverycontext.WithRequestID(context.Background(), "req-42")
	status, err := newTestClient(time.Second).StartSession(ctx, srv.URL+"/", "conn-1")
	require.NoError(t, err)

	assert.Equal(t, service.SessionQR, status.Phase)
	assert.Equal(t, "2@payload", status.QRCode)
}

func TestClient_SendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sessions/conn-1/messages", r.URL.Path)

		var msg service.OutboundMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, "15550001111", msg.To)
		assert.Equal(t, "hello Ann", msg.Text)

		_, _ = w.Write([]byte(`{"messageId":"m-1"}`))
	}))
	defer srv.Close()

	res, err := newTestClient(time.Second).SendMessage(context.Background(), srv.URL, "conn-1", service.OutboundMessage{
		To:   "15550001111",
		Type: "text",
		Text: "hello Ann",
	})
	require.NoError(t, err)
	assert.Equal(t, "m-1", res.MessageID)
}

func TestClient_RejectedCarriesReason(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantReason    string
		wantRetriable bool
	}{
		{name: "json reason", status: http.StatusBadRequest, body: `{"reason":"number not on network"}`, wantReason: "number not on network"},
		{name: "json error", status: http.StatusConflict, body: `{"error":"session exists"}`, wantReason: "session exists"},
		{name: "plain text", status: http.StatusBadGateway, body: "upstream closed", wantReason: "upstream closed", wantRetriable: true},
		{name: "empty body", status: http.StatusServiceUnavailable, wantReason: "Service Unavailable", wantRetriable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := newTestClient(time.Second).EndSession(context.Background(), srv.URL, "conn-1")

			var terr *service.TransportError
			require.ErrorAs(t, err, &terr)
			assert.False(t, terr.Unavailable)
			assert.Equal(t, tt.status, terr.StatusCode)
			assert.Equal(t, tt.wantReason, terr.Reason)
			assert.Equal(t, tt.wantRetriable, terr.Retriable())
		})
	}
}

func TestClient_TimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	err := newTestClient(50*time.Millisecond).Ping(context.Background(), srv.URL)

	var terr *service.TransportError
	require.ErrorAs(t, err, &terr)
	assert.True(t, terr.Unavailable)
	assert.True(t, terr.Retriable())
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClient_UnreachableIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := newTestClient(time.Second).GetSessionStatus(context.Background(), addr, "conn-1")

	var terr *service.TransportError
	require.ErrorAs(t, err, &terr)
	assert.True(t, terr.Unavailable)
}

func TestClient_LimiterPerAddress(t *testing.T) {
	c := newClient(config.TransportConfig{RequestTimeout: time.Second, RequestsPerSecond: 5, Burst: 2}, &http.Client{})

	a := c.limiter("http://a")
	assert.Same(t, a, c.limiter("http://a"))
	assert.NotSame(t, a, c.limiter("http://b"))
	assert.Equal(t, 2, a.Burst())
}

func TestClient_PingSkipsLimiter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)

			return
		}
		_, _ = w.Write([]byte(`{"status":"connected"}`))
	}))
	defer srv.Close()

	c := newClient(config.TransportConfig{RequestTimeout: 200 * time.Millisecond, RequestsPerSecond: 0.01, Burst: 1}, &http.Client{})
	require.True(t, c.limiter(srv.URL).Allow())

	_, err := c.GetSessionStatus(context.Background(), srv.URL, "conn-1")
	var terr *service.TransportError
	require.ErrorAs(t, err, &terr)
	assert.True(t, terr.Unavailable)
	assert.Contains(t, terr.Reason, "rate limit wait")

	start := time.Now()
	require.NoError(t, c.Ping(context.Background(), srv.URL))
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}
