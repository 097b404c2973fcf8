package usecase

import (
	"context"
	"time"

	"courier/internal/domain/entity"

	"github.com/google/uuid"
)

// RecipientInput is one destination as submitted
type RecipientInput struct {
	Destination string
	Name        string
}

// SubmitJobInput represents a bulk send request
type SubmitJobInput struct {
	ConnectionID uuid.UUID
	Template     entity.MessageTemplate
	Recipients   []RecipientInput
	// Delay falls back to the connection message interval, then the configured default
	Delay       *entity.DelayPolicy
	Priority    int
	ScheduledAt *time.Time
}

// JobUsecase expands bulk jobs into queue entries and tracks their progress
type JobUsecase interface {
	// Submit validates and queues a job; processing is asynchronous
	Submit(ctx context.Context, input *SubmitJobInput) (*entity.JobStatus, error)

	// Status returns the aggregated counts and the estimated remaining time
	Status(ctx context.Context, jobID uuid.UUID) (*entity.JobStatus, error)

	// Cancel fails every pending recipient of a job with reason cancelled
	Cancel(ctx context.Context, jobID uuid.UUID) (*entity.JobStatus, error)

	// CancelConnectionQueue cancels every unfinished job of a connection and
	// returns how many recipients were failed
	CancelConnectionQueue(ctx context.Context, connectionID uuid.UUID) (int, error)

	// ReleaseConnection cancels the queue of a removed connection and stops its worker
	ReleaseConnection(ctx context.Context, connectionID uuid.UUID) (int, error)

	// Recipients lists the recipients of a job in submission order
	Recipients(ctx context.Context, jobID uuid.UUID) ([]*entity.Recipient, error)

	// JobsByConnection lists the jobs of a connection, newest first
	JobsByConnection(ctx context.Context, connectionID uuid.UUID) ([]*entity.JobStatus, error)

	// Resume queues again the pending recipients of unfinished jobs after a restart
	Resume(ctx context.Context, connectionIDs []uuid.UUID) error
}
