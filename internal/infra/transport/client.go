// Package transport implements the HTTP client for transport servers.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"courier/config"
	deliverycontext "courier/internal/delivery/context"
	"courier/internal/domain/service"
	"courier/internal/errors"

	"golang.org/x/time/rate"
)

const maxErrorBody = 4 << 10

type httpClient struct {
	client  *http.Client
	timeout time.Duration
	rps     rate.Limit
	burst   int

	limiters sync.Map // address -> *rate.Limiter
}

// NewClient creates a TransportClient bounded by the configured timeout and
// paced per server address.
func NewClient(cfg *config.Config) service.TransportClient {
	return newClient(cfg.Transport, &http.Client{})
}

func newClient(cfg config.TransportConfig, client *http.Client) *httpClient {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		rps = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &httpClient{
		client:  client,
		timeout: timeout,
		rps:     rps,
		burst:   burst,
	}
}

type startSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

func (c *httpClient) StartSession(ctx context.Context, address, sessionID string) (*service.SessionStatus, error) {
	var status service.SessionStatus
	err := c.do(ctx, "start-session", http.MethodPost, address, "/sessions", startSessionRequest{SessionID: sessionID}, &status)
	if err != nil {
		return nil, err
	}

	return &status, nil
}

func (c *httpClient) GetSessionStatus(ctx context.Context, address, sessionID string) (*service.SessionStatus, error) {
	var status service.SessionStatus
	err := c.do(ctx, "session-status", http.MethodGet, address, "/sessions/"+url.PathEscape(sessionID)+"/status", nil, &status)
	if err != nil {
		return nil, err
	}

	return &status, nil
}

func (c *httpClient) RequestQR(ctx context.Context, address, sessionID string) (*service.SessionStatus, error) {
	var status service.SessionStatus
	err := c.do(ctx, "request-qr", http.MethodPost, address, "/sessions/"+url.PathEscape(sessionID)+"/qr", nil, &status)
	if err != nil {
		return nil, err
	}

	return &status, nil
}

func (c *httpClient) SendMessage(ctx context.Context, address, sessionID string, msg service.OutboundMessage) (*service.SendResult, error) {
	var result service.SendResult
	err := c.do(ctx, "send-message", http.MethodPost, address, "/sessions/"+url.PathEscape(sessionID)+"/messages", msg, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *httpClient) EndSession(ctx context.Context, address, sessionID string) error {
	return c.do(ctx, "end-session", http.MethodDelete, address, "/sessions/"+url.PathEscape(sessionID), nil, nil)
}

// Ping bypasses the address limiter so probe latency is not inflated by queued sends
func (c *httpClient) Ping(ctx context.Context, address string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.roundTrip(ctx, "ping", http.MethodGet, address, "/health", nil, nil)
}

func (c *httpClient) limiter(address string) *rate.Limiter {
	if l, ok := c.limiters.Load(address); ok {
		return l.(*rate.Limiter)
	}
	l, _ := c.limiters.LoadOrStore(address, rate.NewLimiter(c.rps, c.burst))

	return l.(*rate.Limiter)
}

// do paces one bounded call on the address limiter. The timeout covers the wait.
func (c *httpClient) do(ctx context.Context, op, method, address, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter(address).Wait(ctx); err != nil {
		return &service.TransportError{Op: op, Unavailable: true, Reason: "rate limit wait: " + err.Error()}
	}

	return c.roundTrip(ctx, op, method, address, path, in, out)
}

// roundTrip performs the request. Network failures and timeouts become unavailable
// TransportErrors; non-2xx answers carry the server's reason.
func (c *httpClient) roundTrip(ctx context.Context, op, method, address, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "marshal %s request", op)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(address, "/")+path, body)
	if err != nil {
		return errors.Wrapf(err, "build %s request", op)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &service.TransportError{Op: op, Unavailable: true, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return &service.TransportError{Op: op, StatusCode: resp.StatusCode, Reason: errorReason(resp.StatusCode, raw)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}

		return &service.TransportError{Op: op, StatusCode: resp.StatusCode, Reason: "malformed response: " + err.Error()}
	}

	return nil
}

func errorReason(status int, raw []byte) string {
	var er errorResponse
	if err := json.Unmarshal(raw, &er); err == nil {
		for _, s := range []string{er.Reason, er.Error, er.Message} {
			if s != "" {
				return s
			}
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}

	return http.StatusText(status)
}
