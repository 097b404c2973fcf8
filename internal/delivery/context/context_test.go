package context

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestWithLoggerAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), base.With(slog.String("request_id", "r-1")))
	ctx = WithLoggerAttrs(ctx, nil, slog.String("connection_id", "c-1"))

	GetLogger(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=r-1")
	assert.Contains(t, buf.String(), "connection_id=c-1")
}

func TestWithLoggerAttrs_FallsBackOutsideRequest(t *testing.T) {
	var buf bytes.Buffer
	fallback := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLoggerAttrs(context.Background(), fallback, slog.String("job_id", "j-1"))
	GetLoggerOrDefault(ctx, nil).Info("hello")

	assert.Contains(t, buf.String(), "job_id=j-1")

	same := context.Background()
	assert.Equal(t, same, WithLoggerAttrs(same, fallback))
}

func TestGetRequestID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.NotEmpty(t, GetRequestID(c))

	SetRequestID(c, "fixed")
	assert.Equal(t, "fixed", GetRequestID(c))
	assert.Empty(t, GetRequestIDFromContext(context.Background()))
	assert.Equal(t, "fixed", GetRequestIDFromContext(WithRequestID(context.Background(), "fixed")))
}
