package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"courier/internal/domain/entity"
	"courier/internal/domain/repository"

	"github.com/google/uuid"
)

type connectionRepository struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*entity.DeviceConnection
}

// NewConnectionRepository creates an in-memory ConnectionRepository
func NewConnectionRepository() repository.ConnectionRepository {
	return &connectionRepository{conns: make(map[uuid.UUID]*entity.DeviceConnection)}
}

func (repo *connectionRepository) CreateConnection(_ context.Context, conn *entity.DeviceConnection) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.nameTaken(conn.AccountRef, conn.DisplayName, conn.ID) {
		return repository.ErrDuplicateConnectionName
	}
	if conn.ID == uuid.Nil {
		conn.ID = uuid.New()
	}
	now := time.Now()
	conn.CreatedAt = now
	conn.UpdatedAt = now
	repo.conns[conn.ID] = conn.Clone()

	return nil
}

func (repo *connectionRepository) UpdateConnection(_ context.Context, conn *entity.DeviceConnection) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.conns[conn.ID]
	if !ok || stored.DeletedAt != nil {
		return repository.ErrConnectionNotFound
	}
	conn.UpdatedAt = time.Now()
	repo.conns[conn.ID] = conn.Clone()

	return nil
}

func (repo *connectionRepository) FindConnectionByID(_ context.Context, id uuid.UUID) (*entity.DeviceConnection, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	c, ok := repo.conns[id]
	if !ok || c.DeletedAt != nil {
		return nil, repository.ErrConnectionNotFound
	}

	return c.Clone(), nil
}

func (repo *connectionRepository) FindConnectionsByAccount(_ context.Context, accountRef string) ([]*entity.DeviceConnection, error) {
	return repo.filter(func(c *entity.DeviceConnection) bool { return c.AccountRef == accountRef }), nil
}

func (repo *connectionRepository) FindAllConnections(_ context.Context) ([]*entity.DeviceConnection, error) {
	return repo.filter(nil), nil
}

func (repo *connectionRepository) ExistsByName(_ context.Context, accountRef, displayName string) (bool, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	return repo.nameTaken(accountRef, displayName, uuid.Nil), nil
}

func (repo *connectionRepository) DeleteConnection(_ context.Context, id uuid.UUID) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	c, ok := repo.conns[id]
	if !ok || c.DeletedAt != nil {
		return repository.ErrConnectionNotFound
	}
	now := time.Now()
	c.DeletedAt = &now

	return nil
}

func (repo *connectionRepository) nameTaken(accountRef, displayName string, except uuid.UUID) bool {
	for _, c := range repo.conns {
		if c.DeletedAt == nil && c.ID != except && c.AccountRef == accountRef && c.DisplayName == displayName {
			return true
		}
	}

	return false
}

func (repo *connectionRepository) filter(keep func(*entity.DeviceConnection) bool) []*entity.DeviceConnection {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	out := make([]*entity.DeviceConnection, 0)
	for _, c := range repo.conns {
		if c.DeletedAt != nil || (keep != nil && !keep(c)) {
			continue
		}
		out = append(out, c.Clone())
	}
	slices.SortFunc(out, func(a, b *entity.DeviceConnection) int { return a.CreatedAt.Compare(b.CreatedAt) })

	return out
}
