package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"courier/config"
	"courier/internal/delivery/api/router/handler"
	deliverycontext "courier/internal/delivery/context"
	domainerrors "courier/internal/domain/errors"
	"courier/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type registrarFunc func(e *echo.Echo)

func (f registrarFunc) RegisterRoutes(e *echo.Echo) { f(e) }

func newTestServer(m *metrics.Metrics) *echo.Echo {
	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "1KB"
	cfg.Metrics.Enabled = m != nil
	cfg.Metrics.Path = "/metrics"

	return newEcho(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), m, registrarFunc(func(e *echo.Echo) {
		e.GET("/health", handler.HealthCheck)
		e.GET("/boom", func(echo.Context) error {
			return domainerrors.ErrTransportUnavailable.WithDetails("dial tcp: refused")
		})
		e.POST("/echo", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
		if m != nil {
			e.GET(cfg.Metrics.Path, echo.WrapHandler(m.Handler()))
		}
	}))
}

func TestServer_Health(t *testing.T) {
	e := newTestServer(nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestServer_ErrorRendering(t *testing.T) {
	e := newTestServer(nil)

	t.Run("unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"HTTP_ERROR"`)
	})

	t.Run("returned app error hides 5xx details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"TRANSPORT_UNAVAILABLE"`)
		assert.NotContains(t, rec.Body.String(), "refused")
	})

	t.Run("body limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 4096))))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestServer_Metrics(t *testing.T) {
	e := newTestServer(metrics.New())

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/health",status="200"} 1`)
}
