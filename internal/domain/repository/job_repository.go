package repository

import (
	"context"
	"time"

	"courier/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrJobNotFound is returned when a job is not found.
var ErrJobNotFound = errors.New("job not found")

// JobRepository defines the persistence operations for bulk jobs and their recipients.
type JobRepository interface {
	// CreateJob persists a job together with all of its recipients.
	CreateJob(ctx context.Context, job *entity.BulkJob, recipients []*entity.Recipient) error

	// FindJobByID retrieves a job by ID.
	FindJobByID(ctx context.Context, id uuid.UUID) (*entity.BulkJob, error)

	// FindJobsByConnection retrieves the jobs of a connection, newest first.
	FindJobsByConnection(ctx context.Context, connectionID uuid.UUID) ([]*entity.BulkJob, error)

	// FindRecipientsByJob retrieves the recipients of a job in submission order.
	FindRecipientsByJob(ctx context.Context, jobID uuid.UUID) ([]*entity.Recipient, error)

	// CountRecipients aggregates the recipients of a job by status.
	CountRecipients(ctx context.Context, jobID uuid.UUID) (entity.JobCounts, error)

	// TransitionRecipient moves a recipient from one status to another and reports
	// whether the recipient was still in the expected status.
	TransitionRecipient(ctx context.Context, id uuid.UUID, from, to entity.RecipientStatus, lastError string, at time.Time) (bool, error)

	// FailPendingRecipients marks every pending recipient of a job failed with the reason.
	FailPendingRecipients(ctx context.Context, jobID uuid.UUID, reason string, at time.Time) (int, error)

	// MarkJobCancelled records the cancellation time once.
	MarkJobCancelled(ctx context.Context, jobID uuid.UUID, at time.Time) (bool, error)

	// MarkJobCompleted records the completion time once and reports whether this call set it.
	MarkJobCompleted(ctx context.Context, jobID uuid.UUID, at time.Time) (bool, error)
}
