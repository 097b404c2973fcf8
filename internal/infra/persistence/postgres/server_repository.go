// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"courier/internal/domain/entity"
	domainerrors "courier/internal/domain/errors"
	"courier/internal/domain/repository"
	"courier/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// serverRepository implements the repository.ServerRepository interface.
type serverRepository struct {
	db *gorm.DB
}

// NewServerRepository is the constructor for serverRepository.
func NewServerRepository(db *gorm.DB) repository.ServerRepository {
	return &serverRepository{
		db: db,
	}
}

// SaveServer inserts the server or overwrites every mutable column of an existing row.
func (repo *serverRepository) SaveServer(ctx context.Context, server *entity.Server) error {
	serverM := fromServerDomain(server)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"address", "status", "capacity", "current_connections", "latency_ms",
				"consecutive_failures", "last_probed_at", "last_error", "updated_at",
			}),
		}).
		Create(serverM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required server information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to save server")
	}

	server.CreatedAt = serverM.CreatedAt
	server.UpdatedAt = serverM.UpdatedAt

	return nil
}

// FindServerByID retrieves a server by its ID.
func (repo *serverRepository) FindServerByID(ctx context.Context, id string) (*entity.Server, error) {
	var serverM model.ServerModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&serverM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrServerNotFound
		}

		return nil, errors.Wrap(err, "failed to find server by ID")
	}

	return toServerDomain(&serverM), nil
}

// ListServers returns every registered server ordered by ID.
func (repo *serverRepository) ListServers(ctx context.Context) ([]*entity.Server, error) {
	var serverModels []*model.ServerModel

	if err := repo.db.WithContext(ctx).
		Order("id ASC").
		Find(&serverModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list servers")
	}

	servers := make([]*entity.Server, 0, len(serverModels))
	for _, serverM := range serverModels {
		servers = append(servers, toServerDomain(serverM))
	}

	return servers, nil
}

// --- Mapper Functions ---

func toServerDomain(data *model.ServerModel) *entity.Server {
	if data == nil {
		return nil
	}

	return &entity.Server{
		ID:                  data.ID,
		Address:             data.Address,
		Status:              entity.ServerStatus(data.Status),
		Capacity:            data.Capacity,
		CurrentConnections:  data.CurrentConnections,
		Latency:             time.Duration(data.LatencyMs) * time.Millisecond,
		ConsecutiveFailures: data.ConsecutiveFailures,
		LastProbedAt:        data.LastProbedAt,
		LastError:           data.LastError,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}

func fromServerDomain(data *entity.Server) *model.ServerModel {
	if data == nil {
		return nil
	}

	return &model.ServerModel{
		ID:                  data.ID,
		Address:             data.Address,
		Status:              string(data.Status),
		Capacity:            data.Capacity,
		CurrentConnections:  data.CurrentConnections,
		LatencyMs:           data.Latency.Milliseconds(),
		ConsecutiveFailures: data.ConsecutiveFailures,
		LastProbedAt:        data.LastProbedAt,
		LastError:           data.LastError,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}
