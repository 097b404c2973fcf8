package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"courier/config"
	deliverycontext "courier/internal/delivery/context"
	"courier/internal/errors"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func sqlFn() (string, int64) {
	return "SELECT * FROM bulk_jobs", 1
}

func TestGormSlogLogger_Trace(t *testing.T) {
	cfg := &config.Config{}
	cfg.Persistence.SlowQueryThreshold = 10 * time.Millisecond

	t.Run("record not found is silent", func(t *testing.T) {
		var buf bytes.Buffer
		l := newGormSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)), cfg)

		l.Trace(context.Background(), time.Now(), sqlFn, gorm.ErrRecordNotFound)

		assert.Empty(t, buf.String())
	})

	t.Run("failure uses the request logger", func(t *testing.T) {
		var buf, base bytes.Buffer
		l := newGormSlogLogger(slog.New(slog.NewTextHandler(&base, nil)), cfg)
		reqLogger := slog.New(slog.NewTextHandler(&buf, nil)).With(slog.String("request_id", "r-9"))
		ctx := deliverycontext.WithLogger(context.Background(), reqLogger)

		l.Trace(ctx, time.Now(), sqlFn, errors.New("connection reset"))

		assert.Empty(t, base.String())
		assert.Contains(t, buf.String(), "GORM query failed")
		assert.Contains(t, buf.String(), "request_id=r-9")
	})

	t.Run("slow query uses the configured threshold", func(t *testing.T) {
		var buf bytes.Buffer
		l := newGormSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)), cfg)

		l.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, nil)

		assert.Contains(t, buf.String(), "GORM slow query")
		assert.Contains(t, buf.String(), "slowThreshold=10ms")
	})

	t.Run("fast query is silent outside debug", func(t *testing.T) {
		var buf bytes.Buffer
		l := newGormSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)), cfg)

		l.Trace(context.Background(), time.Now(), sqlFn, nil)

		assert.Empty(t, buf.String())
	})
}
