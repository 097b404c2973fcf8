package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"courier/config"
	deliverycontext "courier/internal/delivery/context"
	"courier/internal/domain/entity"
	domainerrors "courier/internal/domain/errors"
	"courier/internal/domain/lifecycle"
	"courier/internal/domain/repository"
	"courier/internal/domain/service"
	"courier/internal/errors"
	"courier/internal/infra/metrics"
	"courier/internal/infra/registry"
	"courier/internal/session"
	"courier/internal/usecase"
	"courier/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// connectionService implements the ConnectionUsecase interface.
type connectionService struct {
	connCfg   config.ConnectionConfig
	healthCfg config.HealthConfig
	repo      repository.ConnectionRepository
	registry  *registry.Registry
	pool      *session.Pool
	transport service.TransportClient
	qrCode    service.QRCodeService
	jobs      usecase.JobUsecase
	publisher service.EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// ConnectionServiceParams holds dependencies for ConnectionService, injected by Fx.
type ConnectionServiceParams struct {
	fx.In

	Lc        fx.Lifecycle `optional:"true"`
	Config    *config.Config
	Repo      repository.ConnectionRepository
	Registry  *registry.Registry
	Pool      *session.Pool
	Transport service.TransportClient
	QRCode    service.QRCodeService
	Jobs      usecase.JobUsecase
	Publisher service.EventPublisher
	Metrics   *metrics.Metrics `optional:"true"`
	Logger    *slog.Logger
}

// NewConnectionService is the constructor for connectionService. With a lifecycle the
// stored connections are restored on start.
func NewConnectionService(params ConnectionServiceParams) usecase.ConnectionUsecase {
	srv := &connectionService{
		connCfg:   params.Config.Connection,
		healthCfg: params.Config.Health,
		repo:      params.Repo,
		registry:  params.Registry,
		pool:      params.Pool,
		transport: params.Transport,
		qrCode:    params.QRCode,
		jobs:      params.Jobs,
		publisher: params.Publisher,
		metrics:   params.Metrics,
		logger:    params.Logger,
	}

	if params.Lc != nil {
		params.Lc.Append(fx.Hook{
			OnStart: func(startCtx context.Context) error {
				ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
				defer cancel()

				return srv.Restore(ctx)
			},
		})
	}

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *connectionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateConnection assigns a server, persists the connection and starts its session.
// A failed start is recorded on the returned connection rather than returned.
func (srv *connectionService) CreateConnection(ctx context.Context, input *usecase.CreateConnectionInput) (*entity.DeviceConnection, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	exists, err := srv.repo.ExistsByName(ctx, input.AccountRef, input.DisplayName)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to check connection name")
	}
	if exists {
		return nil, domainerrors.ErrDuplicateName.WithDetails(input.DisplayName)
	}

	server, err := srv.selectServer(ctx, input.PreferredServerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	conn := &entity.DeviceConnection{
		ID:               uuid.New(),
		AccountRef:       input.AccountRef,
		ServerID:         server.ID,
		DisplayName:      input.DisplayName,
		Status:           entity.StatusConnecting(),
		MessageInterval:  input.MessageInterval,
		MaxDailyMessages: input.MaxDailyMessages,
		SlotHeld:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := srv.repo.CreateConnection(ctx, conn); err != nil {
		srv.releaseSlot(ctx, server.ID)
		if errors.Is(err, repository.ErrDuplicateConnectionName) {
			return nil, domainerrors.ErrDuplicateName.WithDetails(input.DisplayName)
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create connection")
	}

	machine := srv.newMachine(conn, server.Address)
	srv.pool.Put(machine)
	srv.metrics.ConnectionStateChanged("", string(entity.StateConnecting))

	srv.log(ctx).Info("Connection created",
		slog.String("connection_id", conn.ID.String()),
		slog.String("account_ref", conn.AccountRef),
		slog.String("server_id", server.ID),
	)
	publish(ctx, srv.publisher, srv.logger, newEvent(ctx, service.EventConnectionCreated, conn.AccountRef, conn.ID.String(), map[string]string{
		"server_id":    server.ID,
		"display_name": conn.DisplayName,
	}))

	// The session must come up even if the caller goes away mid-request
	if err := srv.start(context.WithoutCancel(ctx), machine); err != nil {
		srv.log(ctx).Warn("Session start failed",
			slog.String("connection_id", conn.ID.String()),
			slog.Any("error", err),
		)
	}

	return machine.Snapshot(), nil
}

func validateCreateInput(input *usecase.CreateConnectionInput) error {
	switch {
	case input == nil:
		return domainerrors.ErrValidationFailed.WithDetails("input is required")
	case strings.TrimSpace(input.AccountRef) == "":
		return domainerrors.ErrValidationFailed.WithDetails("account reference is required")
	case strings.TrimSpace(input.DisplayName) == "":
		return domainerrors.ErrValidationFailed.WithDetails("display name is required")
	case input.MessageInterval < 0:
		return domainerrors.ErrValidationFailed.WithDetails("message interval must not be negative")
	case input.MaxDailyMessages < 0:
		return domainerrors.ErrValidationFailed.WithDetails("daily message cap must not be negative")
	}

	return nil
}

// selectServer reserves a slot on the preferred server when it is active with room,
// otherwise on the least loaded active server that accepts the reservation.
func (srv *connectionService) selectServer(ctx context.Context, preferredID string) (*entity.Server, error) {
	if preferredID != "" {
		preferred, err := srv.registry.Get(ctx, preferredID)
		if err == nil && preferred.Status == entity.ServerStatusActive {
			err = srv.registry.ReserveSlot(ctx, preferred.ID)
			if err == nil {
				return preferred, nil
			}
			if !errors.Is(err, domainerrors.ErrCapacityExceeded) {
				return nil, err
			}
		}
	}

	servers, err := srv.registry.ActiveServers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active servers")
	}
	if len(servers) == 0 {
		return nil, domainerrors.ErrNoServerAvailable
	}

	for _, server := range servers {
		if !server.HasCapacity() {
			continue
		}
		err := srv.registry.ReserveSlot(ctx, server.ID)
		if err == nil {
			return server, nil
		}
		// another caller took the last slot between the listing and the reservation
		if !errors.Is(err, domainerrors.ErrCapacityExceeded) {
			return nil, err
		}
	}

	return nil, domainerrors.ErrCapacityExceeded
}

func (srv *connectionService) newMachine(conn *entity.DeviceConnection, address string) *session.Machine {
	var machine *session.Machine
	machine = session.New(conn, address, session.Config{
		QRTTL:         srv.connCfg.QRTTL,
		QRMinInterval: srv.connCfg.QRMinInterval,
	}, session.Deps{
		Transport: srv.transport,
		QRCode:    srv.qrCode,
		Logger:    srv.logger,
		OnChange: func(ctx context.Context, snapshot *entity.DeviceConnection, from entity.ConnectionState) {
			srv.onChange(ctx, machine, snapshot, from)
		},
	})

	return machine
}

// start opens the session, retrying with backoff while the server is unreachable.
// Each attempt holds the server slot again since a failed attempt released it.
func (srv *connectionService) start(ctx context.Context, machine *session.Machine) error {
	retry := srv.connCfg.StartRetry

	return util.Retry(ctx, retry.MaxAttempts, retry.InitialBackoff, isTransportUnavailable, func(ctx context.Context) error {
		if err := srv.holdSlot(ctx, machine); err != nil {
			return err
		}
		_, err := machine.Start(ctx)

		return err
	})
}

// holdSlot reserves a slot for a machine that does not hold one
func (srv *connectionService) holdSlot(ctx context.Context, machine *session.Machine) error {
	if machine.SetSlotHeld(true) {
		return nil
	}

	if err := srv.registry.ReserveSlot(ctx, machine.Snapshot().ServerID); err != nil {
		machine.SetSlotHeld(false)

		return err
	}

	return nil
}

func (srv *connectionService) releaseSlot(ctx context.Context, serverID string) {
	if err := srv.registry.ReleaseSlot(context.WithoutCancel(ctx), serverID); err != nil {
		srv.logger.Error("Failed to release server slot",
			slog.String("server_id", serverID),
			slog.Any("error", err),
		)
	}
}

// onChange runs for every committed transition of a machine, in commit order.
// Slot accounting follows liveness, then the snapshot is stored and announced.
func (srv *connectionService) onChange(ctx context.Context, machine *session.Machine, snapshot *entity.DeviceConnection, from entity.ConnectionState) {
	ctx = context.WithoutCancel(ctx)
	to := snapshot.Status.State()

	if snapshot.Status.IsLive() {
		if !machine.SetSlotHeld(true) {
			// the server reported a live session for a connection that had given its slot back
			if err := srv.registry.ReserveSlot(ctx, snapshot.ServerID); err != nil {
				machine.SetSlotHeld(false)
				srv.logger.Warn("Live session running without a server slot",
					slog.String("connection_id", snapshot.ID.String()),
					slog.String("server_id", snapshot.ServerID),
					slog.Any("error", err),
				)
			}
		}
	} else if machine.SetSlotHeld(false) {
		srv.releaseSlot(ctx, snapshot.ServerID)
	}
	snapshot.SlotHeld = machine.Snapshot().SlotHeld

	if err := srv.repo.UpdateConnection(ctx, snapshot); err != nil {
		srv.logger.Error("Failed to store connection",
			slog.String("connection_id", snapshot.ID.String()),
			slog.String("state", string(to)),
			slog.Any("error", err),
		)
	}

	if from == to && to != entity.StateQRRequired {
		return
	}
	if from != to {
		srv.metrics.ConnectionStateChanged(string(from), string(to))
		srv.logger.Info("Connection state changed",
			slog.String("connection_id", snapshot.ID.String()),
			slog.String("from", string(from)),
			slog.String("to", string(to)),
		)
	}

	if event := connectionEvent(ctx, snapshot, from); event != nil {
		publish(ctx, srv.publisher, srv.logger, event)
	}
}

func connectionEvent(ctx context.Context, snapshot *entity.DeviceConnection, from entity.ConnectionState) *service.DomainEvent {
	attrs := map[string]string{"from": string(from)}
	subject := snapshot.ID.String()

	switch snapshot.Status.State() {
	case entity.StateQRRequired:
		qr := snapshot.Status.QR()
		if qr == nil {
			return nil
		}
		attrs["expires_at"] = qr.ExpiresAt.UTC().Format(time.RFC3339)

		return newEvent(ctx, service.EventConnectionQRUpdated, snapshot.AccountRef, subject, attrs)
	case entity.StateConnected:
		attrs["phone"] = snapshot.Status.Phone()

		return newEvent(ctx, service.EventConnectionConnected, snapshot.AccountRef, subject, attrs)
	case entity.StateError:
		attrs["reason"] = snapshot.Status.Reason()

		return newEvent(ctx, service.EventConnectionError, snapshot.AccountRef, subject, attrs)
	case entity.StateDisconnected:
		return newEvent(ctx, service.EventConnectionDisconnected, snapshot.AccountRef, subject, attrs)
	default:
		return nil
	}
}

// ListConnections returns the stored view; it never calls a transport server
func (srv *connectionService) ListConnections(ctx context.Context, accountRef string) ([]*entity.DeviceConnection, error) {
	conns, err := srv.repo.FindConnectionsByAccount(ctx, accountRef)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list connections")
	}

	for i, conn := range conns {
		if machine, ok := srv.pool.Get(conn.ID); ok {
			conns[i] = machine.Snapshot()
		}
	}

	return conns, nil
}

// GetConnection returns one connection without side effects
func (srv *connectionService) GetConnection(ctx context.Context, id uuid.UUID) (*entity.DeviceConnection, error) {
	if machine, ok := srv.pool.Get(id); ok {
		return machine.Snapshot(), nil
	}

	conn, err := srv.repo.FindConnectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrConnectionNotFound) {
			return nil, domainerrors.ErrConnectionNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find connection")
	}

	return conn, nil
}

func (srv *connectionService) machine(id uuid.UUID) (*session.Machine, error) {
	machine, ok := srv.pool.Get(id)
	if !ok {
		return nil, domainerrors.ErrConnectionNotFound
	}

	return machine, nil
}

// RemoveConnection cancels the queue, tears the session down and deletes the connection.
// A failed teardown does not block the removal.
func (srv *connectionService) RemoveConnection(ctx context.Context, id uuid.UUID) error {
	machine, err := srv.machine(id)
	if err != nil {
		return err
	}
	srv.pool.Delete(id)

	cancelled, err := srv.jobs.ReleaseConnection(ctx, id)
	if err != nil {
		srv.log(ctx).Error("Failed to cancel queue of removed connection",
			slog.String("connection_id", id.String()),
			slog.Any("error", err),
		)
	}

	snapshot := machine.Disconnect(ctx)

	if err := srv.repo.DeleteConnection(ctx, id); err != nil && !errors.Is(err, repository.ErrConnectionNotFound) {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete connection")
	}
	srv.metrics.ConnectionStateChanged(string(snapshot.Status.State()), "")

	srv.log(ctx).Info("Connection removed",
		slog.String("connection_id", id.String()),
		slog.Int("cancelled_recipients", cancelled),
	)
	publish(ctx, srv.publisher, srv.logger, newEvent(ctx, service.EventConnectionRemoved, snapshot.AccountRef, id.String(), map[string]string{
		"server_id": snapshot.ServerID,
	}))

	return nil
}

// RefreshConnection reconciles one connection. Transport failures are recorded on the
// connection, so the caller always gets the resulting state.
func (srv *connectionService) RefreshConnection(ctx context.Context, id uuid.UUID) (*entity.DeviceConnection, error) {
	machine, err := srv.machine(id)
	if err != nil {
		return nil, err
	}

	snapshot, err := machine.Refresh(ctx)
	if err != nil {
		if _, ok := errors.AsType[*service.TransportError](err); !ok {
			return nil, err
		}
		srv.log(ctx).Warn("Connection refresh failed",
			slog.String("connection_id", id.String()),
			slog.Any("error", err),
		)
	}

	return snapshot, nil
}

// RefreshAll reconciles every connection of the account with bounded concurrency
func (srv *connectionService) RefreshAll(ctx context.Context, accountRef string) ([]*entity.DeviceConnection, error) {
	conns, err := srv.repo.FindConnectionsByAccount(ctx, accountRef)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list connections")
	}

	results := make([]*entity.DeviceConnection, len(conns))

	var g errgroup.Group
	g.SetLimit(max(srv.healthCfg.RefreshAllConcurrency, 1))
	for i, conn := range conns {
		g.Go(func() error {
			snapshot, err := srv.RefreshConnection(ctx, conn.ID)
			if err != nil {
				// removed concurrently or not owned by this process
				srv.log(ctx).Warn("Skipping connection during refresh",
					slog.String("connection_id", conn.ID.String()),
					slog.Any("error", err),
				)
				results[i] = conn

				return nil
			}
			results[i] = snapshot

			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// RequestFreshQR asks for a new pairing artifact; nil means the server has none yet
func (srv *connectionService) RequestFreshQR(ctx context.Context, id uuid.UUID) (*entity.QRArtifact, error) {
	machine, err := srv.machine(id)
	if err != nil {
		return nil, err
	}

	artifact, err := machine.RequestFreshQR(ctx)
	if err != nil {
		return nil, transportAppError(err)
	}

	return artifact, nil
}

// Reconnect restarts the session of a connection in Error or Disconnected. When its
// server is no longer active the connection moves to another active server.
func (srv *connectionService) Reconnect(ctx context.Context, id uuid.UUID) (*entity.DeviceConnection, error) {
	machine, err := srv.machine(id)
	if err != nil {
		return nil, err
	}

	current := machine.Snapshot()
	switch state := current.Status.State(); state {
	case entity.StateError, entity.StateDisconnected:
	default:
		return nil, domainerrors.ErrInvalidState.WithDetails("cannot reconnect from state " + string(state))
	}

	server, err := srv.registry.Get(ctx, current.ServerID)
	if err != nil || server.Status != entity.ServerStatusActive {
		if err := srv.reassign(ctx, machine); err != nil {
			return nil, err
		}
	}

	if err := srv.start(context.WithoutCancel(ctx), machine); err != nil {
		if _, ok := errors.AsType[*service.TransportError](err); !ok {
			return nil, err
		}
		srv.log(ctx).Warn("Session restart failed",
			slog.String("connection_id", id.String()),
			slog.Any("error", err),
		)
	}

	return machine.Snapshot(), nil
}

// reassign moves a non-live machine to a new server and leaves the new slot held
func (srv *connectionService) reassign(ctx context.Context, machine *session.Machine) error {
	server, err := srv.selectServer(ctx, "")
	if err != nil {
		return err
	}

	previousID := machine.Snapshot().ServerID
	if err := machine.Reassign(server.ID, server.Address); err != nil {
		srv.releaseSlot(ctx, server.ID)

		return err
	}
	if machine.SetSlotHeld(true) {
		// still counted on the old server
		srv.releaseSlot(ctx, previousID)
	}

	srv.log(ctx).Info("Connection reassigned",
		slog.String("connection_id", machine.ID().String()),
		slog.String("server_id", server.ID),
	)

	return nil
}

// Restore rebuilds the machines of stored connections, realigns the in-process slot
// counters with the connections that hold one and resumes their unfinished jobs.
func (srv *connectionService) Restore(ctx context.Context) error {
	conns, err := srv.repo.FindAllConnections(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load connections")
	}

	counts := make(map[string]int)
	ids := make([]uuid.UUID, 0, len(conns))
	for _, conn := range conns {
		var address string
		if server, err := srv.registry.Get(ctx, conn.ServerID); err == nil {
			address = server.Address
		} else {
			srv.logger.Warn("Connection bound to an unknown server",
				slog.String("connection_id", conn.ID.String()),
				slog.String("server_id", conn.ServerID),
			)
		}
		if conn.SlotHeld {
			counts[conn.ServerID]++
		}

		srv.pool.Put(srv.newMachine(conn, address))
		srv.metrics.ConnectionStateChanged("", string(conn.Status.State()))
		ids = append(ids, conn.ID)
	}

	if err := srv.registry.SyncCounts(ctx, counts); err != nil {
		return errors.Wrap(err, "failed to sync server slot counts")
	}

	if err := srv.jobs.Resume(ctx, ids); err != nil {
		return errors.Wrap(err, "failed to resume jobs")
	}

	srv.logger.Info("Connections restored", slog.Int("connections", len(conns)))

	return nil
}
