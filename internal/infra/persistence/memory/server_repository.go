// Package memory contains in-process repository implementations for single-node deployments and tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"courier/internal/domain/entity"
	"courier/internal/domain/repository"
)

type serverRepository struct {
	mu      sync.RWMutex
	servers map[string]entity.Server
}

// NewServerRepository creates an in-memory ServerRepository
func NewServerRepository() repository.ServerRepository {
	return &serverRepository{servers: make(map[string]entity.Server)}
}

func (repo *serverRepository) SaveServer(_ context.Context, server *entity.Server) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.servers[server.ID] = *server

	return nil
}

func (repo *serverRepository) FindServerByID(_ context.Context, id string) (*entity.Server, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	s, ok := repo.servers[id]
	if !ok {
		return nil, repository.ErrServerNotFound
	}

	return &s, nil
}

func (repo *serverRepository) ListServers(_ context.Context) ([]*entity.Server, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	out := make([]*entity.Server, 0, len(repo.servers))
	for _, s := range repo.servers {
		cp := s
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *entity.Server) int { return cmp.Compare(a.ID, b.ID) })

	return out, nil
}
