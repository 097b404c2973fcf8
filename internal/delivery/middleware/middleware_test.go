package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"courier/config"
	deliverycontext "courier/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newLoggedEcho(buf *bytes.Buffer, debug bool) *echo.Echo {
	logger := slog.New(slog.NewTextHandler(buf, nil))
	cfg := &config.Config{}
	cfg.Env.Debug = debug

	e := echo.New()
	e.Use(NewRequestIDMiddleware(logger).Process)
	e.Use(NewLoggerMiddleware(logger, cfg).Handle)

	return e
}

func TestRequestIDMiddleware_TagsRouteResource(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggedEcho(&buf, false)
	e.GET("/api/v1/connections/:id", func(c echo.Context) error {
		deliverycontext.GetLogger(c.Request().Context()).Info("inside")

		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/connections/abc", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "req-7")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-7", rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.Contains(t, buf.String(), "request_id=req-7")
	assert.Contains(t, buf.String(), "connection_id=abc")
}

func TestRequestIDMiddleware_ReplacesOversizedID(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggedEcho(&buf, false)
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, strings.Repeat("x", maxRequestIDLength+1))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	got := rec.Header().Get(deliverycontext.HeaderXRequestID)
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), maxRequestIDLength)
}

func TestLoggerMiddleware_LogsServerErrorsOutsideDebug(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggedEcho(&buf, false)
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/fail", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway, "upstream") })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.NotContains(t, buf.String(), "HTTP Request")

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Contains(t, buf.String(), "HTTP Request")
	assert.Contains(t, buf.String(), "status=502")
}

func TestLoggerMiddleware_SkipsHealth(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggedEcho(&buf, true)
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotContains(t, buf.String(), "HTTP Request")
}
