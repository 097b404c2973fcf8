// Package persistence selects the repository implementations configured for the process.
package persistence

import (
	"context"
	"log/slog"

	"courier/config"
	"courier/internal/domain/constants"
	"courier/internal/domain/lifecycle"
	"courier/internal/domain/repository"
	"courier/internal/errors"
	"courier/internal/infra/metrics"
	"courier/internal/infra/persistence/memory"
	"courier/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// Repositories is the set of repositories handed to the rest of the graph
type Repositories struct {
	fx.Out

	Servers     repository.ServerRepository
	Connections repository.ConnectionRepository
	Jobs        repository.JobRepository
}

// New builds the repositories for the configured driver. The postgres client is
// only opened when the postgres driver is selected.
func New(params Params) (Repositories, error) {
	switch params.Config.Persistence.Driver {
	case "", constants.PersistenceDriverMemory:
		params.Logger.Info("Using in-memory persistence")

		return Repositories{
			Servers:     memory.NewServerRepository(),
			Connections: memory.NewConnectionRepository(),
			Jobs:        memory.NewJobRepository(),
		}, nil
	case constants.PersistenceDriverPostgres:
		if params.Config.Postgres == nil {
			return Repositories{}, errors.New("postgres driver selected without postgres config")
		}

		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
			Metrics:   params.Metrics,
		})
		if err != nil {
			return Repositories{}, err
		}

		if params.Config.Persistence.AutoMigrate {
			params.Append(fx.Hook{
				OnStart: func(startCtx context.Context) error {
					ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
					defer cancel()

					return postgres.Migrate(ctx, db)
				},
			})
		}

		params.Logger.Info("Using postgres persistence")

		return Repositories{
			Servers:     postgres.NewServerRepository(db),
			Connections: postgres.NewConnectionRepository(db),
			Jobs:        postgres.NewJobRepository(db),
		}, nil
	default:
		return Repositories{}, errors.Errorf("unknown persistence driver %q", params.Config.Persistence.Driver)
	}
}
