package impl

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"courier/internal/dispatch"
	"courier/internal/domain/entity"
	"courier/internal/domain/repository"
	"courier/internal/domain/service"
	"courier/internal/errors"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// recipientReporter records dispatch progress on the stored recipients
type recipientReporter struct {
	repo      repository.JobRepository
	publisher service.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// RecipientReporterParams holds dependencies for RecipientReporter, injected by Fx.
type RecipientReporterParams struct {
	fx.In

	Repo      repository.JobRepository
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewRecipientReporter creates the dispatch.Reporter backed by the job repository
func NewRecipientReporter(params RecipientReporterParams) dispatch.Reporter {
	return &recipientReporter{
		repo:      params.Repo,
		publisher: params.Publisher,
		logger:    params.Logger,
		now:       time.Now,
	}
}

func (r *recipientReporter) MarkSending(ctx context.Context, entry *dispatch.Entry) (bool, error) {
	ok, err := r.repo.TransitionRecipient(ctx, entry.RecipientID, entity.RecipientPending, entity.RecipientSending, "", r.now())
	if err != nil {
		return false, errors.Wrap(err, "failed to mark recipient sending")
	}

	return ok, nil
}

func (r *recipientReporter) MarkSent(ctx context.Context, entry *dispatch.Entry) error {
	return r.settle(ctx, entry, entity.RecipientSent, "")
}

func (r *recipientReporter) MarkFailed(ctx context.Context, entry *dispatch.Entry, reason string) error {
	return r.settle(ctx, entry, entity.RecipientFailed, reason)
}

func (r *recipientReporter) settle(ctx context.Context, entry *dispatch.Entry, to entity.RecipientStatus, reason string) error {
	now := r.now()

	ok, err := r.repo.TransitionRecipient(ctx, entry.RecipientID, entity.RecipientSending, to, reason, now)
	if err != nil {
		return errors.Wrapf(err, "failed to mark recipient %s", to)
	}
	if !ok {
		r.logger.Warn("Recipient left sending before being settled",
			slog.String("recipient_id", entry.RecipientID.String()),
			slog.String("status", string(to)),
		)
	}

	completeIfDone(ctx, r.repo, r.publisher, r.logger, entry.JobID, now)

	return nil
}

// completeIfDone stamps the completion time once every recipient is settled and
// announces it. Only the call that stamps the job publishes.
func completeIfDone(ctx context.Context, repo repository.JobRepository, publisher service.EventPublisher, logger *slog.Logger, jobID uuid.UUID, now time.Time) {
	counts, err := repo.CountRecipients(ctx, jobID)
	if err != nil {
		logger.Error("Failed to count recipients", slog.String("job_id", jobID.String()), slog.Any("error", err))

		return
	}
	if !counts.Done() {
		return
	}

	marked, err := repo.MarkJobCompleted(ctx, jobID, now)
	if err != nil {
		logger.Error("Failed to mark job completed", slog.String("job_id", jobID.String()), slog.Any("error", err))

		return
	}
	if !marked {
		return
	}

	logger.Info("Job completed",
		slog.String("job_id", jobID.String()),
		slog.Int("sent", counts.Sent),
		slog.Int("failed", counts.Failed),
	)
	publish(ctx, publisher, logger, newEvent(ctx, service.EventJobCompleted, "", jobID.String(), map[string]string{
		"total":  strconv.Itoa(counts.Total),
		"sent":   strconv.Itoa(counts.Sent),
		"failed": strconv.Itoa(counts.Failed),
	}))
}
