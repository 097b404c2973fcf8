package usecase

import (
	"context"
	"time"

	"courier/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateConnectionInput represents the input for creating a device connection
type CreateConnectionInput struct {
	AccountRef        string
	DisplayName       string
	PreferredServerID string
	MessageInterval   time.Duration
	MaxDailyMessages  int
}

// ConnectionUsecase manages device connections and their sessions
type ConnectionUsecase interface {
	// CreateConnection assigns a server and starts a session for a new connection
	CreateConnection(ctx context.Context, input *CreateConnectionInput) (*entity.DeviceConnection, error)

	// ListConnections returns the connections of an account without side effects
	ListConnections(ctx context.Context, accountRef string) ([]*entity.DeviceConnection, error)

	// GetConnection returns one connection
	GetConnection(ctx context.Context, id uuid.UUID) (*entity.DeviceConnection, error)

	// RemoveConnection tears the session down and releases its server slot
	RemoveConnection(ctx context.Context, id uuid.UUID) error

	// RefreshConnection reconciles one connection with its transport server
	RefreshConnection(ctx context.Context, id uuid.UUID) (*entity.DeviceConnection, error)

	// RefreshAll reconciles every connection of an account concurrently
	RefreshAll(ctx context.Context, accountRef string) ([]*entity.DeviceConnection, error)

	// RequestFreshQR asks for a new pairing artifact; nil means not ready yet
	RequestFreshQR(ctx context.Context, id uuid.UUID) (*entity.QRArtifact, error)

	// Reconnect restarts the session of a connection in Error or Disconnected
	Reconnect(ctx context.Context, id uuid.UUID) (*entity.DeviceConnection, error)

	// Restore rebuilds the in-process sessions from storage on startup
	Restore(ctx context.Context) error
}
