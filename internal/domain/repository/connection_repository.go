package repository

import (
	"context"

	"courier/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for connection persistence.
var (
	// ErrConnectionNotFound is returned when a connection is not found or was removed.
	ErrConnectionNotFound = errors.New("connection not found")
	// ErrDuplicateConnectionName is returned when the display name is taken within the account.
	ErrDuplicateConnectionName = errors.New("connection name already exists")
)

// ConnectionRepository defines the persistence operations for device connections.
// Removed connections are soft-deleted and invisible to every finder.
type ConnectionRepository interface {
	// CreateConnection persists a new connection.
	CreateConnection(ctx context.Context, conn *entity.DeviceConnection) error

	// UpdateConnection stores the current snapshot of a connection.
	UpdateConnection(ctx context.Context, conn *entity.DeviceConnection) error

	// FindConnectionByID retrieves a live connection by ID.
	FindConnectionByID(ctx context.Context, id uuid.UUID) (*entity.DeviceConnection, error)

	// FindConnectionsByAccount retrieves all live connections of an account, oldest first.
	FindConnectionsByAccount(ctx context.Context, accountRef string) ([]*entity.DeviceConnection, error)

	// FindAllConnections retrieves every live connection.
	FindAllConnections(ctx context.Context) ([]*entity.DeviceConnection, error)

	// ExistsByName reports whether the account already has a live connection with the name.
	ExistsByName(ctx context.Context, accountRef, displayName string) (bool, error)

	// DeleteConnection soft-deletes a connection.
	DeleteConnection(ctx context.Context, id uuid.UUID) error
}
