package usecase

import (
	"context"

	"courier/internal/domain/entity"
)

// RegisterServerInput represents a transport server to add to the pool
type RegisterServerInput struct {
	ID       string
	Address  string
	Capacity int
}

// ServerUsecase administers the transport server pool
type ServerUsecase interface {
	ListServers(ctx context.Context) ([]*entity.Server, error)
	RegisterServer(ctx context.Context, input *RegisterServerInput) (*entity.Server, error)
	// SetServerStatus changes the administrative status; maintenance is never overridden by probes
	SetServerStatus(ctx context.Context, id string, status entity.ServerStatus) (*entity.Server, error)
}
