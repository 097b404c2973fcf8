package impl

import (
	"context"
	"testing"
	"time"

	"courier/internal/dispatch"
	"courier/internal/domain/entity"
	domainerrors "courier/internal/domain/errors"
	"courier/internal/domain/repository"
	"courier/internal/domain/service"
	"courier/internal/errors"
	"courier/internal/infra/persistence/memory"
	"courier/internal/infra/registry"
	mockService "courier/internal/mocks/service"
	"courier/internal/session"
	"courier/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	addressA = "http://transport-a"
	addressB = "http://transport-b"
)

// connectionServiceFixtures holds all test dependencies for connection service tests.
type connectionServiceFixtures struct {
	service   usecase.ConnectionUsecase
	transport *mockService.MockTransportClient
	events    *eventRecorder
	registry  *registry.Registry
	repo      repository.ConnectionRepository
	jobRepo   repository.JobRepository
	pool      *session.Pool
}

func createTestConnectionService(t *testing.T, servers ...*entity.Server) connectionServiceFixtures {
	t.Helper()

	ctx := context.Background()
	logger := testLogger()
	cfg := testConfig()

	transport := mockService.NewMockTransportClient(t)
	qr := mockService.NewMockQRCodeService(t)
	qr.EXPECT().RenderDataURI(mock.Anything).Return("data:image/png;base64,AAAA", nil).Maybe()
	publisher, events := newRecordingPublisher(t)

	reg := registry.NewWithCounter(memory.NewServerRepository(), registry.NewMemoryCounter(), logger)
	for _, s := range servers {
		require.NoError(t, reg.Register(ctx, s))
	}

	pool := session.NewPool()
	jobRepo := memory.NewJobRepository()
	dispatcher := dispatch.New(dispatch.Params{
		Sender:   pool,
		Reporter: NewRecipientReporter(RecipientReporterParams{Repo: jobRepo, Publisher: publisher, Logger: logger}),
		Logger:   logger,
	})
	t.Cleanup(func() { _ = dispatcher.Stop(context.Background()) })

	jobs := NewJobService(JobServiceParams{
		Config:     cfg,
		Repo:       jobRepo,
		Pool:       pool,
		Dispatcher: dispatcher,
		Publisher:  publisher,
		Logger:     logger,
	})

	repo := memory.NewConnectionRepository()
	svc := NewConnectionService(ConnectionServiceParams{
		Config:    cfg,
		Repo:      repo,
		Registry:  reg,
		Pool:      pool,
		Transport: transport,
		QRCode:    qr,
		Jobs:      jobs,
		Publisher: publisher,
		Logger:    logger,
	})

	return connectionServiceFixtures{
		service:   svc,
		transport: transport,
		events:    events,
		registry:  reg,
		repo:      repo,
		jobRepo:   jobRepo,
		pool:      pool,
	}
}

func server(id, address string, capacity int) *entity.Server {
	return &entity.Server{ID: id, Address: address, Capacity: capacity, Status: entity.ServerStatusActive}
}

func createInput(name string) *usecase.CreateConnectionInput {
	return &usecase.CreateConnectionInput{AccountRef: "acct-1", DisplayName: name}
}

func qrStatus(code string) *service.SessionStatus {
	return &service.SessionStatus{Phase: service.SessionQR, QRCode: code}
}

func connectionCount(t *testing.T, reg *registry.Registry, id string) int {
	t.Helper()

	s, err := reg.Get(context.Background(), id)
	require.NoError(t, err)

	return s.CurrentConnections
}

func TestConnectionService_CreateConnection(t *testing.T) {
	ctx := context.Background()

	t.Run("starts a session and holds a slot", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 2))

		fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.AnythingOfType("string")).
			Return(qrStatus("pair-1"), nil).Once()

		conn, err := fx.service.CreateConnection(ctx, createInput("sales"))
		require.NoError(t, err)

		assert.Equal(t, "a", conn.ServerID)
		assert.Equal(t, entity.StateQRRequired, conn.Status.State())
		require.NotNil(t, conn.Status.QR())
		assert.Equal(t, "pair-1", conn.Status.QR().Code)
		assert.Equal(t, 1, connectionCount(t, fx.registry, "a"))

		stored, err := fx.repo.FindConnectionByID(ctx, conn.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StateQRRequired, stored.Status.State())
		assert.True(t, stored.SlotHeld)

		assert.Equal(t, 1, fx.events.count(service.EventConnectionCreated))
		assert.Equal(t, 1, fx.events.count(service.EventConnectionQRUpdated))
	})

	t.Run("duplicate name fails before any server call", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 2))

		fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
			Return(qrStatus("pair-1"), nil).Once()

		_, err := fx.service.CreateConnection(ctx, createInput("sales"))
		require.NoError(t, err)

		_, err = fx.service.CreateConnection(ctx, createInput("sales"))
		assert.ErrorIs(t, err, domainerrors.ErrDuplicateName)
		assert.Equal(t, 1, connectionCount(t, fx.registry, "a"))
	})

	t.Run("same name on another account is allowed", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 2))

		fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
			Return(qrStatus("pair-1"), nil).Twice()

		_, err := fx.service.CreateConnection(ctx, createInput("sales"))
		require.NoError(t, err)

		other := createInput("sales")
		other.AccountRef = "acct-2"
		_, err = fx.service.CreateConnection(ctx, other)
		require.NoError(t, err)
	})

	t.Run("only server at capacity creates nothing", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 1))

		fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
			Return(qrStatus("pair-1"), nil).Once()

		_, err := fx.service.CreateConnection(ctx, createInput("first"))
		require.NoError(t, err)

		_, err = fx.service.CreateConnection(ctx, createInput("second"))
		assert.ErrorIs(t, err, domainerrors.ErrCapacityExceeded)

		conns, err := fx.service.ListConnections(ctx, "acct-1")
		require.NoError(t, err)
		assert.Len(t, conns, 1)
		assert.Equal(t, 1, connectionCount(t, fx.registry, "a"))
	})

	t.Run("no active server", func(t *testing.T) {
		parked := server("a", addressA, 5)
		parked.Status = entity.ServerStatusMaintenance
		fx := createTestConnectionService(t, parked)

		_, err := fx.service.CreateConnection(ctx, createInput("sales"))
		assert.ErrorIs(t, err, domainerrors.ErrNoServerAvailable)
	})

	t.Run("invalid input", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 5))

		_, err := fx.service.CreateConnection(ctx, &usecase.CreateConnectionInput{AccountRef: "acct-1"})
		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

		in := createInput("sales")
		in.MaxDailyMessages = -1
		_, err = fx.service.CreateConnection(ctx, in)
		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	})
}

func TestConnectionService_CreateConnection_ServerSelection(t *testing.T) {
	ctx := context.Background()

	t.Run("eligible preferred server wins over a lighter one", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 10), server("b", addressB, 10))

		fx.transport.EXPECT().StartSession(mock.Anything, addressB, mock.Anything).
			Return(qrStatus("pair-1"), nil).Once()

		in := createInput("sales")
		in.PreferredServerID = "b"
		conn, err := fx.service.CreateConnection(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "b", conn.ServerID)
	})

	t.Run("preferred server in maintenance falls back", func(t *testing.T) {
		parked := server("b", addressB, 10)
		parked.Status = entity.ServerStatusMaintenance
		fx := createTestConnectionService(t, server("a", addressA, 10), parked)

		fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
			Return(qrStatus("pair-1"), nil).Once()

		in := createInput("sales")
		in.PreferredServerID = "b"
		conn, err := fx.service.CreateConnection(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "a", conn.ServerID)
	})

	t.Run("least loaded server is picked", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 2), server("b", addressB, 10))
		require.NoError(t, fx.registry.ReserveSlot(ctx, "a"))

		fx.transport.EXPECT().StartSession(mock.Anything, addressB, mock.Anything).
			Return(qrStatus("pair-1"), nil).Once()

		conn, err := fx.service.CreateConnection(ctx, createInput("sales"))
		require.NoError(t, err)
		assert.Equal(t, "b", conn.ServerID)
	})
}

func TestConnectionService_CreateConnection_StartFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("rejection is recorded and the slot released", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 2))

		fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
			Return(nil, &service.TransportError{Op: "start", StatusCode: 409, Reason: "account banned"}).Once()

		conn, err := fx.service.CreateConnection(ctx, createInput("sales"))
		require.NoError(t, err)

		assert.Equal(t, entity.StateError, conn.Status.State())
		assert.Equal(t, "account banned", conn.Status.Reason())
		assert.False(t, conn.Status.Retriable())
		assert.False(t, conn.SlotHeld)
		assert.Equal(t, 0, connectionCount(t, fx.registry, "a"))
		assert.Equal(t, 1, fx.events.count(service.EventConnectionError))
	})

	t.Run("unreachable server is retried a bounded number of times", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 2))

		unavailable := &service.TransportError{Op: "start", Unavailable: true, Reason: "connection refused"}
		fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
			Return(nil, unavailable).Times(3)

		conn, err := fx.service.CreateConnection(ctx, createInput("sales"))
		require.NoError(t, err)

		assert.Equal(t, entity.StateError, conn.Status.State())
		assert.True(t, conn.Status.Retriable())
		assert.Equal(t, 0, connectionCount(t, fx.registry, "a"))
	})

	t.Run("retry recovers and holds exactly one slot", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 2))

		fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
			Return(nil, &service.TransportError{Op: "start", Unavailable: true, Reason: "timeout"}).Once()
		fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
			Return(qrStatus("pair-1"), nil).Once()

		conn, err := fx.service.CreateConnection(ctx, createInput("sales"))
		require.NoError(t, err)

		assert.Equal(t, entity.StateQRRequired, conn.Status.State())
		assert.True(t, conn.SlotHeld)
		assert.Equal(t, 1, connectionCount(t, fx.registry, "a"))
	})
}

func TestConnectionService_RemoveConnection_BalancesSlots(t *testing.T) {
	ctx := context.Background()
	fx := createTestConnectionService(t, server("a", addressA, 10))

	fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
		Return(qrStatus("pair-1"), nil).Times(3)
	// teardown failures never block removal
	fx.transport.EXPECT().EndSession(mock.Anything, addressA, mock.Anything).
		Return(&service.TransportError{Op: "end", Unavailable: true, Reason: "timeout"}).Times(3)

	var ids []uuid.UUID
	for _, name := range []string{"one", "two", "three"} {
		conn, err := fx.service.CreateConnection(ctx, createInput(name))
		require.NoError(t, err)
		ids = append(ids, conn.ID)
	}
	assert.Equal(t, 3, connectionCount(t, fx.registry, "a"))

	for _, id := range ids {
		require.NoError(t, fx.service.RemoveConnection(ctx, id))
	}

	assert.Equal(t, 0, connectionCount(t, fx.registry, "a"))

	_, err := fx.service.GetConnection(ctx, ids[0])
	assert.ErrorIs(t, err, domainerrors.ErrConnectionNotFound)
	assert.ErrorIs(t, fx.service.RemoveConnection(ctx, ids[0]), domainerrors.ErrConnectionNotFound)

	conns, err := fx.service.ListConnections(ctx, "acct-1")
	require.NoError(t, err)
	assert.Empty(t, conns)
	assert.Equal(t, 3, fx.events.count(service.EventConnectionRemoved))
}

func TestConnectionService_RemoveConnection_CancelsQueue(t *testing.T) {
	ctx := context.Background()
	fx := createTestConnectionService(t, server("a", addressA, 10))

	fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
		Return(&service.SessionStatus{Phase: service.SessionConnected, Phone: "15550000"}, nil).Once()
	fx.transport.EXPECT().EndSession(mock.Anything, addressA, mock.Anything).Return(nil).Once()

	conn, err := fx.service.CreateConnection(ctx, createInput("sales"))
	require.NoError(t, err)
	require.Equal(t, entity.StateConnected, conn.Status.State())

	future := time.Now().Add(time.Hour)
	job := &entity.BulkJob{ID: uuid.New(), ConnectionID: conn.ID, ScheduledAt: &future, CreatedAt: time.Now()}
	require.NoError(t, fx.jobRepo.CreateJob(ctx, job, []*entity.Recipient{
		{ID: uuid.New(), JobID: job.ID, Destination: "15550101", Status: entity.RecipientPending},
	}))

	require.NoError(t, fx.service.RemoveConnection(ctx, conn.ID))

	counts, err := fx.jobRepo.CountRecipients(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Failed)
	assert.Equal(t, 0, counts.Pending)
}

func TestConnectionService_RefreshConnection(t *testing.T) {
	ctx := context.Background()

	t.Run("scanned session becomes connected", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 2))

		fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
			Return(qrStatus("pair-1"), nil).Once()
		fx.transport.EXPECT().GetSessionStatus(mock.Anything, addressA, mock.Anything).
			Return(&service.SessionStatus{Phase: service.SessionConnected, Phone: "15550000"}, nil).Once()

		conn, err := fx.service.CreateConnection(ctx, createInput("sales"))
		require.NoError(t, err)

		got, err := fx.service.RefreshConnection(ctx, conn.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StateConnected, got.Status.State())
		assert.Equal(t, "15550000", got.PhoneNumber)
		assert.Nil(t, got.Status.QR())
		assert.Equal(t, 1, fx.events.count(service.EventConnectionConnected))

		stored, err := fx.repo.FindConnectionByID(ctx, conn.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StateConnected, stored.Status.State())
	})

	t.Run("unreachable server is recorded, not returned", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 2))

		fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
			Return(qrStatus("pair-1"), nil).Once()
		fx.transport.EXPECT().GetSessionStatus(mock.Anything, addressA, mock.Anything).
			Return(nil, &service.TransportError{Op: "status", Unavailable: true, Reason: "timeout"}).Once()

		conn, err := fx.service.CreateConnection(ctx, createInput("sales"))
		require.NoError(t, err)

		got, err := fx.service.RefreshConnection(ctx, conn.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StateError, got.Status.State())
		assert.True(t, got.Status.Retriable())
		assert.Equal(t, 0, connectionCount(t, fx.registry, "a"))
	})

	t.Run("unknown connection", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 2))

		_, err := fx.service.RefreshConnection(ctx, uuid.New())
		assert.ErrorIs(t, err, domainerrors.ErrConnectionNotFound)
	})
}

func TestConnectionService_RefreshAll(t *testing.T) {
	ctx := context.Background()
	fx := createTestConnectionService(t, server("a", addressA, 10))

	fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
		Return(qrStatus("pair-1"), nil).Times(3)
	fx.transport.EXPECT().GetSessionStatus(mock.Anything, addressA, mock.Anything).
		Return(&service.SessionStatus{Phase: service.SessionConnected, Phone: "15550000"}, nil).Times(3)

	for _, name := range []string{"one", "two", "three"} {
		_, err := fx.service.CreateConnection(ctx, createInput(name))
		require.NoError(t, err)
	}

	conns, err := fx.service.RefreshAll(ctx, "acct-1")
	require.NoError(t, err)
	require.Len(t, conns, 3)
	for _, conn := range conns {
		assert.Equal(t, entity.StateConnected, conn.Status.State())
	}
}

func TestConnectionService_RequestFreshQR(t *testing.T) {
	ctx := context.Background()

	t.Run("within the floor the current artifact is returned", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 2))

		fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
			Return(qrStatus("pair-1"), nil).Once()
		fx.transport.EXPECT().RequestQR(mock.Anything, addressA, mock.Anything).
			Return(qrStatus("pair-2"), nil).Once()

		conn, err := fx.service.CreateConnection(ctx, createInput("sales"))
		require.NoError(t, err)

		first, err := fx.service.RequestFreshQR(ctx, conn.ID)
		require.NoError(t, err)
		require.NotNil(t, first)
		assert.Equal(t, "pair-2", first.Code)

		second, err := fx.service.RequestFreshQR(ctx, conn.ID)
		require.NoError(t, err)
		require.NotNil(t, second)
		assert.Equal(t, first.Code, second.Code)
		assert.Equal(t, first.GeneratedAt, second.GeneratedAt)
	})

	t.Run("transport failure maps to the public taxonomy", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 2))

		fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
			Return(qrStatus("pair-1"), nil).Once()
		fx.transport.EXPECT().RequestQR(mock.Anything, addressA, mock.Anything).
			Return(nil, &service.TransportError{Op: "qr", Unavailable: true, Reason: "timeout"}).Once()

		conn, err := fx.service.CreateConnection(ctx, createInput("sales"))
		require.NoError(t, err)

		_, err = fx.service.RequestFreshQR(ctx, conn.ID)
		assert.ErrorIs(t, err, domainerrors.ErrTransportUnavailable)
	})
}

func TestConnectionService_Reconnect(t *testing.T) {
	ctx := context.Background()

	t.Run("moves to an active server when its own is parked", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 5), server("b", addressB, 5))

		in := createInput("sales")
		in.PreferredServerID = "a"
		fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
			Return(nil, &service.TransportError{Op: "start", StatusCode: 500, Reason: "crashed"}).Once()
		fx.transport.EXPECT().StartSession(mock.Anything, addressB, mock.Anything).
			Return(qrStatus("pair-1"), nil).Once()

		conn, err := fx.service.CreateConnection(ctx, in)
		require.NoError(t, err)
		require.Equal(t, entity.StateError, conn.Status.State())

		_, err = fx.registry.SetStatus(ctx, "a", entity.ServerStatusMaintenance)
		require.NoError(t, err)

		got, err := fx.service.Reconnect(ctx, conn.ID)
		require.NoError(t, err)
		assert.Equal(t, "b", got.ServerID)
		assert.Equal(t, entity.StateQRRequired, got.Status.State())
		assert.Equal(t, 0, connectionCount(t, fx.registry, "a"))
		assert.Equal(t, 1, connectionCount(t, fx.registry, "b"))
	})

	t.Run("live connection cannot be reconnected", func(t *testing.T) {
		fx := createTestConnectionService(t, server("a", addressA, 5))

		fx.transport.EXPECT().StartSession(mock.Anything, addressA, mock.Anything).
			Return(qrStatus("pair-1"), nil).Once()

		conn, err := fx.service.CreateConnection(ctx, createInput("sales"))
		require.NoError(t, err)

		_, err = fx.service.Reconnect(ctx, conn.ID)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidState)
	})
}

func TestConnectionService_Restore(t *testing.T) {
	ctx := context.Background()
	fx := createTestConnectionService(t, server("a", addressA, 5))

	held := &entity.DeviceConnection{
		ID:          uuid.New(),
		AccountRef:  "acct-1",
		ServerID:    "a",
		DisplayName: "sales",
		Status:      entity.StatusConnected("15550000"),
		SlotHeld:    true,
	}
	idle := &entity.DeviceConnection{
		ID:          uuid.New(),
		AccountRef:  "acct-1",
		ServerID:    "a",
		DisplayName: "support",
		Status:      entity.StatusDisconnected(),
	}
	require.NoError(t, fx.repo.CreateConnection(ctx, held))
	require.NoError(t, fx.repo.CreateConnection(ctx, idle))

	require.NoError(t, fx.service.Restore(ctx))

	assert.Equal(t, 1, connectionCount(t, fx.registry, "a"))

	machine, ok := fx.pool.Get(held.ID)
	require.True(t, ok)
	assert.Equal(t, entity.StateConnected, machine.State())

	_, ok = fx.pool.Get(idle.ID)
	assert.True(t, ok)
}

func TestConnectionService_GetConnection_FallsBackToStore(t *testing.T) {
	ctx := context.Background()
	fx := createTestConnectionService(t, server("a", addressA, 5))

	stored := &entity.DeviceConnection{
		ID:          uuid.New(),
		AccountRef:  "acct-1",
		ServerID:    "a",
		DisplayName: "sales",
		Status:      entity.StatusDisconnected(),
	}
	require.NoError(t, fx.repo.CreateConnection(ctx, stored))

	got, err := fx.service.GetConnection(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)

	_, err = fx.service.GetConnection(ctx, uuid.New())
	assert.True(t, errors.Is(err, domainerrors.ErrConnectionNotFound))
}
