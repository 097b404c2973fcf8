package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "courier/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// maxRequestIDLength bounds client supplied IDs; longer ones are replaced
const maxRequestIDLength = 128

// resourceAttrs maps a route prefix to the log attribute its :id param becomes
var resourceAttrs = []struct {
	prefix string
	attr   string
}{
	{prefix: "/api/v1/connections/", attr: "connection_id"},
	{prefix: "/api/v1/jobs/", attr: "job_id"},
	{prefix: "/api/v1/servers/", attr: "server_id"},
}

// RequestIDMiddleware assigns every request an ID and a request-scoped logger
type RequestIDMiddleware struct {
	logger *slog.Logger
}

// NewRequestIDMiddleware creates a new Request ID middleware
func NewRequestIDMiddleware(logger *slog.Logger) *RequestIDMiddleware {
	return &RequestIDMiddleware{
		logger: logger,
	}
}

// Process reuses the X-Request-Id header when present, echoes it back and stores
// a logger tagged with it, plus the connection, job or server ID of the route.
func (m *RequestIDMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := strings.TrimSpace(c.Request().Header.Get(deliverycontext.HeaderXRequestID))
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.New().String()
		}

		deliverycontext.SetRequestID(c, requestID)
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

		attrs := []slog.Attr{slog.String("request_id", requestID)}
		if attr, ok := routeResource(c); ok {
			attrs = append(attrs, attr)
		}

		ctx := deliverycontext.WithRequestID(c.Request().Context(), requestID)
		ctx = deliverycontext.WithLoggerAttrs(ctx, m.logger, attrs...)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

func routeResource(c echo.Context) (slog.Attr, bool) {
	id := c.Param("id")
	if id == "" {
		return slog.Attr{}, false
	}

	path := c.Path()
	for _, r := range resourceAttrs {
		if strings.HasPrefix(path, r.prefix) {
			return slog.String(r.attr, id), true
		}
	}

	return slog.Attr{}, false
}
