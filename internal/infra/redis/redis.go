// Package redis provides the shared Redis client used by multi-process deployments.
package redis

import (
	"context"
	"log/slog"

	"courier/config"
	"courier/internal/domain/lifecycle"
	"courier/internal/errors"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New returns a connected client, or nil when Redis is disabled
func New(params Params) (*goredis.Client, error) {
	cfg := params.Config.Redis
	if !cfg.Enabled {
		params.Logger.Info("Redis disabled, server slot counters stay in process")

		return nil, nil
	}

	opt, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid redis url")
	}

	client := goredis.NewClient(opt)

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping redis")
			}

			params.Logger.Info("Redis connection established", slog.Int("db", opt.DB))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return errors.WithStack(client.Close())
		},
	})

	return client, nil
}
