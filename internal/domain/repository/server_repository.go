// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"courier/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for server persistence.
var (
	// ErrServerNotFound is returned when a server is not found.
	ErrServerNotFound = errors.New("server not found")
	// ErrDuplicateServer is returned when a server with the same ID already exists.
	ErrDuplicateServer = errors.New("server already exists")
)

// ServerRepository persists the transport server pool. Live counters are owned by
// the registry; the stored CurrentConnections is informational.
type ServerRepository interface {
	// SaveServer inserts or updates a server.
	SaveServer(ctx context.Context, server *entity.Server) error

	// FindServerByID retrieves a server by its ID.
	FindServerByID(ctx context.Context, id string) (*entity.Server, error)

	// ListServers returns every registered server ordered by ID.
	ListServers(ctx context.Context) ([]*entity.Server, error)
}
