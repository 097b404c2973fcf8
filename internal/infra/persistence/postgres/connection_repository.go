package postgres

import (
	"context"
	"time"

	"courier/internal/domain/entity"
	domainerrors "courier/internal/domain/errors"
	"courier/internal/domain/repository"
	"courier/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// connectionRepository implements the repository.ConnectionRepository interface.
type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository is the constructor for connectionRepository.
func NewConnectionRepository(db *gorm.DB) repository.ConnectionRepository {
	return &connectionRepository{
		db: db,
	}
}

// CreateConnection persists a new connection.
func (repo *connectionRepository) CreateConnection(ctx context.Context, conn *entity.DeviceConnection) error {
	if conn.ID == uuid.Nil {
		conn.ID = uuid.New()
	}
	connM := fromConnectionDomain(conn)

	if err := repo.db.WithContext(ctx).Create(connM).Error; err != nil {
		// The partial unique index on (account_ref, display_name) covers live rows only
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateConnectionName
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required connection information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create connection")
	}

	conn.CreatedAt = connM.CreatedAt
	conn.UpdatedAt = connM.UpdatedAt

	return nil
}

// UpdateConnection overwrites the stored snapshot of a live connection.
func (repo *connectionRepository) UpdateConnection(ctx context.Context, conn *entity.DeviceConnection) error {
	connM := fromConnectionDomain(conn)
	connM.UpdatedAt = time.Now()

	result := repo.db.WithContext(ctx).
		Model(&model.ConnectionModel{}).
		Where("id = ?", conn.ID).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(connM)

	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateConnectionName
		}

		return errors.Wrap(result.Error, "failed to update connection")
	}

	if result.RowsAffected == 0 {
		return repository.ErrConnectionNotFound
	}

	conn.UpdatedAt = connM.UpdatedAt

	return nil
}

// FindConnectionByID retrieves a live connection by ID.
func (repo *connectionRepository) FindConnectionByID(ctx context.Context, id uuid.UUID) (*entity.DeviceConnection, error) {
	var connM model.ConnectionModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&connM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrConnectionNotFound
		}

		return nil, errors.Wrap(err, "failed to find connection by ID")
	}

	return toConnectionDomain(&connM), nil
}

// FindConnectionsByAccount retrieves all live connections of an account, oldest first.
func (repo *connectionRepository) FindConnectionsByAccount(ctx context.Context, accountRef string) ([]*entity.DeviceConnection, error) {
	var connModels []*model.ConnectionModel

	if err := repo.db.WithContext(ctx).
		Where("account_ref = ?", accountRef).
		Order("created_at ASC").
		Find(&connModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find connections by account")
	}

	return toConnectionDomains(connModels), nil
}

// FindAllConnections retrieves every live connection.
func (repo *connectionRepository) FindAllConnections(ctx context.Context) ([]*entity.DeviceConnection, error) {
	var connModels []*model.ConnectionModel

	if err := repo.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&connModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find connections")
	}

	return toConnectionDomains(connModels), nil
}

// ExistsByName reports whether the account already has a live connection with the name.
func (repo *connectionRepository) ExistsByName(ctx context.Context, accountRef, displayName string) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.ConnectionModel{}).
		Where("account_ref = ? AND display_name = ?", accountRef, displayName).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check connection name")
	}

	return count > 0, nil
}

// DeleteConnection removes a connection by its ID (soft delete).
func (repo *connectionRepository) DeleteConnection(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ConnectionModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete connection")
	}

	if result.RowsAffected == 0 {
		return repository.ErrConnectionNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toConnectionDomains(connModels []*model.ConnectionModel) []*entity.DeviceConnection {
	conns := make([]*entity.DeviceConnection, 0, len(connModels))
	for _, connM := range connModels {
		conns = append(conns, toConnectionDomain(connM))
	}

	return conns
}

// toConnectionDomain converts a GORM ConnectionModel to a domain DeviceConnection entity.
func toConnectionDomain(data *model.ConnectionModel) *entity.DeviceConnection {
	if data == nil {
		return nil
	}

	var qr *entity.QRArtifact
	if data.QRCode != "" && data.QRGeneratedAt != nil && data.QRExpiresAt != nil {
		qr = &entity.QRArtifact{
			Code:        data.QRCode,
			Image:       data.QRImage,
			GeneratedAt: *data.QRGeneratedAt,
			ExpiresAt:   *data.QRExpiresAt,
		}
	}

	conn := &entity.DeviceConnection{
		ID:               data.ID,
		AccountRef:       data.AccountRef,
		ServerID:         data.ServerID,
		DisplayName:      data.DisplayName,
		PhoneNumber:      data.PhoneNumber,
		Status:           entity.RestoreStatus(entity.ConnectionState(data.State), qr, data.PhoneNumber, data.StatusReason, data.StatusRetriable),
		MessageCount:     data.MessageCount,
		MessageInterval:  time.Duration(data.MessageIntervalMs) * time.Millisecond,
		MaxDailyMessages: data.MaxDailyMessages,
		SlotHeld:         data.SlotHeld,
		LastActivityAt:   data.LastActivityAt,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
	if data.DeletedAt.Valid {
		deletedAt := data.DeletedAt.Time
		conn.DeletedAt = &deletedAt
	}

	return conn
}

// fromConnectionDomain converts a domain DeviceConnection entity to a GORM ConnectionModel.
func fromConnectionDomain(data *entity.DeviceConnection) *model.ConnectionModel {
	if data == nil {
		return nil
	}

	connM := &model.ConnectionModel{
		ID:                data.ID,
		AccountRef:        data.AccountRef,
		ServerID:          data.ServerID,
		DisplayName:       data.DisplayName,
		PhoneNumber:       data.PhoneNumber,
		State:             string(data.Status.State()),
		StatusReason:      data.Status.Reason(),
		StatusRetriable:   data.Status.Retriable(),
		MessageCount:      data.MessageCount,
		MessageIntervalMs: data.MessageInterval.Milliseconds(),
		MaxDailyMessages:  data.MaxDailyMessages,
		SlotHeld:          data.SlotHeld,
		LastActivityAt:    data.LastActivityAt,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
	if phone := data.Status.Phone(); phone != "" {
		connM.PhoneNumber = phone
	}
	if qr := data.Status.QR(); qr != nil {
		generatedAt, expiresAt := qr.GeneratedAt, qr.ExpiresAt
		connM.QRCode = qr.Code
		connM.QRImage = qr.Image
		connM.QRGeneratedAt = &generatedAt
		connM.QRExpiresAt = &expiresAt
	}

	return connM
}
