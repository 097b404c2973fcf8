package main

import (
	"context"
	"log/slog"
	"os"

	"courier/config"
	"courier/internal/delivery"
	"courier/internal/delivery/api"
	"courier/internal/delivery/api/router/handler"
	"courier/internal/dispatch"
	"courier/internal/domain/service"
	"courier/internal/health"
	logs "courier/internal/infra/log"
	"courier/internal/infra/metrics"
	"courier/internal/infra/persistence"
	"courier/internal/infra/pubsub"
	"courier/internal/infra/qrcode"
	"courier/internal/infra/redis"
	"courier/internal/infra/registry"
	"courier/internal/infra/transport"
	"courier/internal/session"
	"courier/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectHandler(),
		fx.Invoke(
			startHealthMonitor,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		redis.New,
		metrics.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			persistence.New,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			transport.NewClient,
			pubsub.NewEventPublisher,
			newQRCodeService,
			registry.New,
			fx.Annotate(
				session.NewPool,
				fx.As(fx.Self()),
				fx.As(new(dispatch.Sender)),
			),
			impl.NewRecipientReporter,
			dispatch.New,
			health.New,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewServerService,
			impl.NewJobService,
			impl.NewConnectionService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewConnectionHandler,
			handler.NewJobHandler,
			handler.NewServerHandler,
			handler.NewRecipientHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// startHealthMonitor forces the monitor into the graph; it starts and stops with the app
func startHealthMonitor(*health.Monitor) {}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
