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

const recipientBatchSize = 500

// jobRepository implements the repository.JobRepository interface.
type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository is the constructor for jobRepository.
func NewJobRepository(db *gorm.DB) repository.JobRepository {
	return &jobRepository{
		db: db,
	}
}

// CreateJob persists a job and its recipients in one transaction.
func (repo *jobRepository) CreateJob(ctx context.Context, job *entity.BulkJob, recipients []*entity.Recipient) error {
	jobM := fromJobDomain(job)
	recipientModels := make([]*model.RecipientModel, 0, len(recipients))
	for _, r := range recipients {
		recipientModels = append(recipientModels, fromRecipientDomain(r))
	}

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(jobM).Error; err != nil {
			return err
		}
		if len(recipientModels) == 0 {
			return nil
		}

		return tx.CreateInBatches(recipientModels, recipientBatchSize).Error
	})
	if err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required job information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create job")
	}

	return nil
}

// FindJobByID retrieves a job by ID.
func (repo *jobRepository) FindJobByID(ctx context.Context, id uuid.UUID) (*entity.BulkJob, error) {
	var jobM model.JobModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&jobM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrJobNotFound
		}

		return nil, errors.Wrap(err, "failed to find job by ID")
	}

	return toJobDomain(&jobM), nil
}

// FindJobsByConnection retrieves the jobs of a connection, newest first.
func (repo *jobRepository) FindJobsByConnection(ctx context.Context, connectionID uuid.UUID) ([]*entity.BulkJob, error) {
	var jobModels []*model.JobModel

	if err := repo.db.WithContext(ctx).
		Where("connection_id = ?", connectionID).
		Order("created_at DESC").
		Find(&jobModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find jobs by connection")
	}

	jobs := make([]*entity.BulkJob, 0, len(jobModels))
	for _, jobM := range jobModels {
		jobs = append(jobs, toJobDomain(jobM))
	}

	return jobs, nil
}

// FindRecipientsByJob retrieves the recipients of a job in submission order.
func (repo *jobRepository) FindRecipientsByJob(ctx context.Context, jobID uuid.UUID) ([]*entity.Recipient, error) {
	var recipientModels []*model.RecipientModel

	if err := repo.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("seq ASC").
		Find(&recipientModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find recipients by job")
	}

	recipients := make([]*entity.Recipient, 0, len(recipientModels))
	for _, recipientM := range recipientModels {
		recipients = append(recipients, toRecipientDomain(recipientM))
	}

	return recipients, nil
}

type statusCount struct {
	Status string
	Count  int
}

// CountRecipients aggregates the recipients of a job by status.
func (repo *jobRepository) CountRecipients(ctx context.Context, jobID uuid.UUID) (entity.JobCounts, error) {
	var rows []statusCount

	if err := repo.db.WithContext(ctx).
		Model(&model.RecipientModel{}).
		Select("status, COUNT(*) AS count").
		Where("job_id = ?", jobID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return entity.JobCounts{}, errors.Wrap(err, "failed to count recipients")
	}

	var counts entity.JobCounts
	for _, row := range rows {
		counts.Total += row.Count
		switch entity.RecipientStatus(row.Status) {
		case entity.RecipientPending:
			counts.Pending += row.Count
		case entity.RecipientSending:
			counts.Sending += row.Count
		case entity.RecipientSent:
			counts.Sent += row.Count
		case entity.RecipientFailed:
			counts.Failed += row.Count
		}
	}

	return counts, nil
}

// TransitionRecipient updates the recipient only while it is still in the from status.
func (repo *jobRepository) TransitionRecipient(ctx context.Context, id uuid.UUID, from, to entity.RecipientStatus, lastError string, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":     string(to),
		"last_error": lastError,
		"updated_at": at,
	}
	if to == entity.RecipientSent {
		updates["sent_at"] = at
	}

	result := repo.db.WithContext(ctx).
		Model(&model.RecipientModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, "failed to transition recipient")
	}

	return result.RowsAffected == 1, nil
}

// FailPendingRecipients marks every pending recipient of a job failed with the reason.
func (repo *jobRepository) FailPendingRecipients(ctx context.Context, jobID uuid.UUID, reason string, at time.Time) (int, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.RecipientModel{}).
		Where("job_id = ? AND status = ?", jobID, string(entity.RecipientPending)).
		Updates(map[string]any{
			"status":     string(entity.RecipientFailed),
			"last_error": reason,
			"updated_at": at,
		})

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to fail pending recipients")
	}

	return int(result.RowsAffected), nil
}

// MarkJobCancelled records the cancellation time once.
func (repo *jobRepository) MarkJobCancelled(ctx context.Context, jobID uuid.UUID, at time.Time) (bool, error) {
	return repo.markOnce(ctx, jobID, "cancelled_at", at)
}

// MarkJobCompleted records the completion time once and reports whether this call set it.
func (repo *jobRepository) MarkJobCompleted(ctx context.Context, jobID uuid.UUID, at time.Time) (bool, error) {
	return repo.markOnce(ctx, jobID, "completed_at", at)
}

func (repo *jobRepository) markOnce(ctx context.Context, jobID uuid.UUID, column string, at time.Time) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.JobModel{}).
		Where("id = ? AND "+column+" IS NULL", jobID).
		Update(column, at)

	if result.Error != nil {
		return false, errors.Wrapf(result.Error, "failed to set %s", column)
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	// Either already set or missing
	if _, err := repo.FindJobByID(ctx, jobID); err != nil {
		return false, err
	}

	return false, nil
}

// --- Mapper Functions ---

func toJobDomain(data *model.JobModel) *entity.BulkJob {
	if data == nil {
		return nil
	}

	delay := entity.FixedDelay(time.Duration(data.DelayFixedMs) * time.Millisecond)
	if data.DelayRandom {
		delay = entity.RandomDelay(
			time.Duration(data.DelayMinMs)*time.Millisecond,
			time.Duration(data.DelayMaxMs)*time.Millisecond,
		)
	}

	return &entity.BulkJob{
		ID:           data.ID,
		ConnectionID: data.ConnectionID,
		Template: entity.MessageTemplate{
			Type:     entity.MessageType(data.MessageType),
			Text:     data.Text,
			MediaURL: data.MediaURL,
			FileName: data.FileName,
		},
		Delay:       delay,
		Priority:    data.Priority,
		ScheduledAt: data.ScheduledAt,
		CreatedAt:   data.CreatedAt,
		CancelledAt: data.CancelledAt,
		CompletedAt: data.CompletedAt,
	}
}

func fromJobDomain(data *entity.BulkJob) *model.JobModel {
	if data == nil {
		return nil
	}

	return &model.JobModel{
		ID:           data.ID,
		ConnectionID: data.ConnectionID,
		MessageType:  string(data.Template.Type),
		Text:         data.Template.Text,
		MediaURL:     data.Template.MediaURL,
		FileName:     data.Template.FileName,
		DelayFixedMs: data.Delay.Fixed.Milliseconds(),
		DelayRandom:  data.Delay.Random,
		DelayMinMs:   data.Delay.Min.Milliseconds(),
		DelayMaxMs:   data.Delay.Max.Milliseconds(),
		Priority:     data.Priority,
		ScheduledAt:  data.ScheduledAt,
		CreatedAt:    data.CreatedAt,
		CancelledAt:  data.CancelledAt,
		CompletedAt:  data.CompletedAt,
	}
}

func toRecipientDomain(data *model.RecipientModel) *entity.Recipient {
	if data == nil {
		return nil
	}

	return &entity.Recipient{
		ID:          data.ID,
		JobID:       data.JobID,
		Seq:         data.Seq,
		Destination: data.Destination,
		Name:        data.Name,
		Status:      entity.RecipientStatus(data.Status),
		LastError:   data.LastError,
		SentAt:      data.SentAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromRecipientDomain(data *entity.Recipient) *model.RecipientModel {
	if data == nil {
		return nil
	}

	return &model.RecipientModel{
		ID:          data.ID,
		JobID:       data.JobID,
		Seq:         data.Seq,
		Destination: data.Destination,
		Name:        data.Name,
		Status:      string(data.Status),
		LastError:   data.LastError,
		SentAt:      data.SentAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
