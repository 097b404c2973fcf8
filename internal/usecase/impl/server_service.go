package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "courier/internal/delivery/context"
	"courier/internal/domain/entity"
	domainerrors "courier/internal/domain/errors"
	"courier/internal/domain/service"
	"courier/internal/infra/registry"
	"courier/internal/usecase"

	"go.uber.org/fx"
)

// serverService implements the ServerUsecase interface.
type serverService struct {
	registry  *registry.Registry
	publisher service.EventPublisher
	logger    *slog.Logger
}

// ServerServiceParams holds dependencies for ServerService, injected by Fx.
type ServerServiceParams struct {
	fx.In

	Registry  *registry.Registry
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewServerService is the constructor for serverService.
func NewServerService(params ServerServiceParams) usecase.ServerUsecase {
	return &serverService{
		registry:  params.Registry,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

func (srv *serverService) ListServers(ctx context.Context) ([]*entity.Server, error) {
	return srv.registry.List(ctx)
}

// RegisterServer adds an active server to the pool
func (srv *serverService) RegisterServer(ctx context.Context, input *usecase.RegisterServerInput) (*entity.Server, error) {
	if input == nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("input is required")
	}

	server := &entity.Server{
		ID:       strings.TrimSpace(input.ID),
		Address:  strings.TrimRight(strings.TrimSpace(input.Address), "/"),
		Capacity: input.Capacity,
		Status:   entity.ServerStatusActive,
	}
	if err := srv.registry.Register(ctx, server); err != nil {
		return nil, err
	}

	deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Info("Server registered",
		slog.String("server_id", server.ID),
		slog.String("address", server.Address),
		slog.Int("capacity", server.Capacity),
	)

	return srv.registry.Get(ctx, server.ID)
}

// SetServerStatus changes the administrative status of a server
func (srv *serverService) SetServerStatus(ctx context.Context, id string, status entity.ServerStatus) (*entity.Server, error) {
	prev, err := srv.registry.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if prev != status {
		deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Info("Server status set",
			slog.String("server_id", id),
			slog.String("from", string(prev)),
			slog.String("to", string(status)),
		)
		publish(ctx, srv.publisher, srv.logger, newEvent(ctx, service.EventServerStatusChanged, "", id, map[string]string{
			"from": string(prev),
			"to":   string(status),
		}))
	}

	return srv.registry.Get(ctx, id)
}
