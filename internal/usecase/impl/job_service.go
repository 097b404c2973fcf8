package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"courier/config"
	deliverycontext "courier/internal/delivery/context"
	"courier/internal/dispatch"
	"courier/internal/domain/entity"
	domainerrors "courier/internal/domain/errors"
	"courier/internal/domain/repository"
	"courier/internal/domain/service"
	"courier/internal/errors"
	"courier/internal/session"
	"courier/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// ReasonInterrupted is recorded for recipients that were mid-send when the process stopped
const ReasonInterrupted = "interrupted"

// jobService implements the JobUsecase interface.
type jobService struct {
	cfg        config.DispatchConfig
	repo       repository.JobRepository
	pool       *session.Pool
	dispatcher *dispatch.Dispatcher
	publisher  service.EventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

// JobServiceParams holds dependencies for JobService, injected by Fx.
type JobServiceParams struct {
	fx.In

	Config     *config.Config
	Repo       repository.JobRepository
	Pool       *session.Pool
	Dispatcher *dispatch.Dispatcher
	Publisher  service.EventPublisher
	Logger     *slog.Logger
}

// NewJobService is the constructor for jobService.
func NewJobService(params JobServiceParams) usecase.JobUsecase {
	return &jobService{
		cfg:        params.Config.Dispatch,
		repo:       params.Repo,
		pool:       params.Pool,
		dispatcher: params.Dispatcher,
		publisher:  params.Publisher,
		logger:     params.Logger,
		now:        time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *jobService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Submit validates the request, stores the job with one recipient per unique destination
// and queues them. It returns before anything is sent.
func (srv *jobService) Submit(ctx context.Context, input *usecase.SubmitJobInput) (*entity.JobStatus, error) {
	if input == nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("input is required")
	}
	if err := validateTemplate(input.Template); err != nil {
		return nil, err
	}

	machine, ok := srv.pool.Get(input.ConnectionID)
	if !ok {
		return nil, domainerrors.ErrConnectionNotFound
	}
	conn := machine.Snapshot()
	if state := conn.Status.State(); state != entity.StateConnected {
		return nil, domainerrors.ErrConnectionNotReady.WithDetails("state " + string(state))
	}

	delay, err := srv.resolveDelay(input.Delay, conn)
	if err != nil {
		return nil, err
	}

	now := srv.now()
	job := &entity.BulkJob{
		ID:           uuid.New(),
		ConnectionID: conn.ID,
		Template:     input.Template,
		Delay:        delay,
		Priority:     input.Priority,
		ScheduledAt:  input.ScheduledAt,
		CreatedAt:    now,
	}

	recipients, err := buildRecipients(job.ID, input.Recipients, now)
	if err != nil {
		return nil, err
	}
	if limit := srv.cfg.MaxRecipientsPerJob; limit > 0 && len(recipients) > limit {
		return nil, domainerrors.ErrInvalidRecipients.WithDetails(fmt.Sprintf("%d recipients exceed the limit of %d", len(recipients), limit))
	}

	if err := srv.repo.CreateJob(ctx, job, recipients); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create job")
	}

	entries := make([]*dispatch.Entry, 0, len(recipients))
	for _, r := range recipients {
		entries = append(entries, newQueueEntry(job, r))
	}
	if err := srv.dispatcher.Enqueue(conn.ID, entries); err != nil {
		if _, failErr := srv.repo.FailPendingRecipients(context.WithoutCancel(ctx), job.ID, entity.ReasonCancelled, srv.now()); failErr != nil {
			srv.log(ctx).Error("Failed to settle unqueued recipients", slog.Any("error", failErr))
		}

		return nil, errors.Wrap(err, "failed to queue job")
	}

	srv.log(ctx).Info("Job submitted",
		slog.String("job_id", job.ID.String()),
		slog.String("connection_id", conn.ID.String()),
		slog.Int("recipients", len(recipients)),
		slog.Int("duplicates_dropped", len(input.Recipients)-len(recipients)),
	)
	publish(ctx, srv.publisher, srv.logger, newEvent(ctx, service.EventJobSubmitted, conn.AccountRef, job.ID.String(), map[string]string{
		"connection_id": conn.ID.String(),
		"recipients":    strconv.Itoa(len(recipients)),
		"priority":      strconv.Itoa(job.Priority),
	}))

	counts := entity.JobCounts{Total: len(recipients), Pending: len(recipients)}

	return &entity.JobStatus{
		Job:                job,
		Counts:             counts,
		EstimatedRemaining: estimateRemaining(job, counts, now),
	}, nil
}

func validateTemplate(t entity.MessageTemplate) error {
	if !t.Type.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("unknown message type " + string(t.Type))
	}

	switch t.Type {
	case entity.MessageTypeText:
		if strings.TrimSpace(t.Text) == "" {
			return domainerrors.ErrValidationFailed.WithDetails("text message requires text")
		}
	case entity.MessageTypeImage, entity.MessageTypeDocument:
		if strings.TrimSpace(t.MediaURL) == "" {
			return domainerrors.ErrValidationFailed.WithDetails(string(t.Type) + " message requires a media url")
		}
	}

	return nil
}

// resolveDelay picks the job policy, then the connection interval, then the configured default
func (srv *jobService) resolveDelay(requested *entity.DelayPolicy, conn *entity.DeviceConnection) (entity.DelayPolicy, error) {
	if requested != nil && !requested.IsZero() {
		switch {
		case requested.Random && (requested.Min < 0 || requested.Max < requested.Min):
			return entity.DelayPolicy{}, domainerrors.ErrValidationFailed.WithDetails("random delay needs 0 <= min <= max")
		case !requested.Random && requested.Fixed < 0:
			return entity.DelayPolicy{}, domainerrors.ErrValidationFailed.WithDetails("delay must not be negative")
		}

		return *requested, nil
	}
	if conn.MessageInterval > 0 {
		return entity.FixedDelay(conn.MessageInterval), nil
	}

	return entity.FixedDelay(srv.cfg.DefaultDelay), nil
}

// buildRecipients normalizes destinations and keeps the first occurrence of each
func buildRecipients(jobID uuid.UUID, inputs []usecase.RecipientInput, now time.Time) ([]*entity.Recipient, error) {
	if len(inputs) == 0 {
		return nil, domainerrors.ErrInvalidRecipients.WithDetails("at least one recipient is required")
	}

	seen := make(map[string]struct{}, len(inputs))
	recipients := make([]*entity.Recipient, 0, len(inputs))
	for i, in := range inputs {
		destination, err := entity.NormalizeDestination(in.Destination)
		if err != nil {
			return nil, domainerrors.ErrInvalidRecipients.WithDetails(fmt.Sprintf("entry %d: %q is not a valid destination", i+1, in.Destination))
		}
		if _, dup := seen[destination]; dup {
			continue
		}
		seen[destination] = struct{}{}

		recipients = append(recipients, &entity.Recipient{
			ID:          uuid.New(),
			JobID:       jobID,
			Seq:         len(recipients),
			Destination: destination,
			Name:        strings.TrimSpace(in.Name),
			Status:      entity.RecipientPending,
			UpdatedAt:   now,
		})
	}

	return recipients, nil
}

func newQueueEntry(job *entity.BulkJob, r *entity.Recipient) *dispatch.Entry {
	rendered := job.Template.Render(r)
	scheduledAt := job.CreatedAt
	if job.ScheduledAt != nil {
		scheduledAt = *job.ScheduledAt
	}

	return &dispatch.Entry{
		RecipientID:  r.ID,
		JobID:        job.ID,
		ConnectionID: job.ConnectionID,
		Message: service.OutboundMessage{
			To:       r.Destination,
			Type:     string(rendered.Type),
			Text:     rendered.Text,
			MediaURL: rendered.MediaURL,
			FileName: rendered.FileName,
		},
		Priority:    job.Priority,
		ScheduledAt: scheduledAt,
		Delay:       job.Delay,
	}
}

// estimateRemaining is the pacing cost of the pending recipients plus the wait for the schedule
func estimateRemaining(job *entity.BulkJob, counts entity.JobCounts, now time.Time) time.Duration {
	if counts.Done() {
		return 0
	}

	remaining := time.Duration(counts.Pending) * job.Delay.Expected()
	if job.ScheduledAt != nil && job.ScheduledAt.After(now) {
		remaining += job.ScheduledAt.Sub(now)
	}

	return remaining
}

func (srv *jobService) findJob(ctx context.Context, jobID uuid.UUID) (*entity.BulkJob, error) {
	job, err := srv.repo.FindJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return nil, domainerrors.ErrJobNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find job")
	}

	return job, nil
}

func (srv *jobService) status(ctx context.Context, job *entity.BulkJob) (*entity.JobStatus, error) {
	counts, err := srv.repo.CountRecipients(ctx, job.ID)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to count recipients")
	}

	return &entity.JobStatus{
		Job:                job,
		Counts:             counts,
		EstimatedRemaining: estimateRemaining(job, counts, srv.now()),
	}, nil
}

// Status returns the aggregated counts of a job
func (srv *jobService) Status(ctx context.Context, jobID uuid.UUID) (*entity.JobStatus, error) {
	job, err := srv.findJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return srv.status(ctx, job)
}

// Cancel fails every pending recipient of the job. Sent and sending recipients are left as they are.
func (srv *jobService) Cancel(ctx context.Context, jobID uuid.UUID) (*entity.JobStatus, error) {
	job, err := srv.findJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	current, err := srv.status(ctx, job)
	if err != nil {
		return nil, err
	}
	if current.Finished() {
		return nil, domainerrors.ErrJobFinished
	}

	srv.dispatcher.CancelJob(job.ConnectionID, job.ID)
	if _, err := srv.cancelPending(ctx, job); err != nil {
		return nil, err
	}

	return srv.Status(ctx, jobID)
}

// cancelPending fails the pending recipients of a job and records the cancellation
func (srv *jobService) cancelPending(ctx context.Context, job *entity.BulkJob) (int, error) {
	now := srv.now()

	n, err := srv.repo.FailPendingRecipients(ctx, job.ID, entity.ReasonCancelled, now)
	if err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to cancel recipients")
	}

	marked, err := srv.repo.MarkJobCancelled(ctx, job.ID, now)
	if err != nil {
		return n, domainerrors.NewDatabaseExecuteError(err, "failed to mark job cancelled")
	}
	if marked || n > 0 {
		srv.log(ctx).Info("Job cancelled",
			slog.String("job_id", job.ID.String()),
			slog.Int("cancelled_recipients", n),
		)
		publish(ctx, srv.publisher, srv.logger, newEvent(ctx, service.EventJobCancelled, "", job.ID.String(), map[string]string{
			"connection_id": job.ConnectionID.String(),
			"cancelled":     strconv.Itoa(n),
		}))
	}

	completeIfDone(ctx, srv.repo, srv.publisher, srv.logger, job.ID, now)

	return n, nil
}

// CancelConnectionQueue cancels every unfinished job of the connection
func (srv *jobService) CancelConnectionQueue(ctx context.Context, connectionID uuid.UUID) (int, error) {
	srv.dispatcher.CancelConnection(connectionID)

	return srv.cancelUnfinished(ctx, connectionID)
}

// ReleaseConnection cancels the queue of a removed connection and stops its worker
func (srv *jobService) ReleaseConnection(ctx context.Context, connectionID uuid.UUID) (int, error) {
	srv.dispatcher.StopConnection(connectionID)

	return srv.cancelUnfinished(ctx, connectionID)
}

func (srv *jobService) cancelUnfinished(ctx context.Context, connectionID uuid.UUID) (int, error) {
	jobs, err := srv.repo.FindJobsByConnection(ctx, connectionID)
	if err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to list jobs")
	}

	total := 0
	for _, job := range jobs {
		if job.CompletedAt != nil {
			continue
		}
		n, err := srv.cancelPending(ctx, job)
		if err != nil {
			return total, err
		}
		total += n
	}

	return total, nil
}

// Recipients lists the recipients of a job in submission order
func (srv *jobService) Recipients(ctx context.Context, jobID uuid.UUID) ([]*entity.Recipient, error) {
	if _, err := srv.findJob(ctx, jobID); err != nil {
		return nil, err
	}

	recipients, err := srv.repo.FindRecipientsByJob(ctx, jobID)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list recipients")
	}

	return recipients, nil
}

// JobsByConnection lists the jobs of a connection with their counts, newest first
func (srv *jobService) JobsByConnection(ctx context.Context, connectionID uuid.UUID) ([]*entity.JobStatus, error) {
	jobs, err := srv.repo.FindJobsByConnection(ctx, connectionID)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list jobs")
	}

	out := make([]*entity.JobStatus, 0, len(jobs))
	for _, job := range jobs {
		status, err := srv.status(ctx, job)
		if err != nil {
			return nil, err
		}
		out = append(out, status)
	}

	return out, nil
}

// Resume queues the pending recipients of every unfinished job again. Recipients caught
// mid-send by the stop are failed: whether the message went out is unknown, and a
// second send could reach the contact twice.
func (srv *jobService) Resume(ctx context.Context, connectionIDs []uuid.UUID) error {
	resumed := 0
	for _, connectionID := range connectionIDs {
		jobs, err := srv.repo.FindJobsByConnection(ctx, connectionID)
		if err != nil {
			return errors.Wrapf(err, "failed to list jobs of connection %s", connectionID)
		}

		for _, job := range jobs {
			if job.CompletedAt != nil {
				continue
			}
			n, err := srv.resumeJob(ctx, job)
			if err != nil {
				return err
			}
			resumed += n
		}
	}

	if resumed > 0 {
		srv.logger.Info("Queued recipients resumed", slog.Int("recipients", resumed))
	}

	return nil
}

func (srv *jobService) resumeJob(ctx context.Context, job *entity.BulkJob) (int, error) {
	recipients, err := srv.repo.FindRecipientsByJob(ctx, job.ID)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to list recipients of job %s", job.ID)
	}

	now := srv.now()
	var entries []*dispatch.Entry
	for _, r := range recipients {
		switch r.Status {
		case entity.RecipientSending:
			if _, err := srv.repo.TransitionRecipient(ctx, r.ID, entity.RecipientSending, entity.RecipientFailed, ReasonInterrupted, now); err != nil {
				return 0, errors.Wrapf(err, "failed to settle recipient %s", r.ID)
			}
		case entity.RecipientPending:
			entries = append(entries, newQueueEntry(job, r))
		}
	}

	if err := srv.dispatcher.Enqueue(job.ConnectionID, entries); err != nil {
		return 0, errors.Wrapf(err, "failed to queue job %s", job.ID)
	}
	completeIfDone(ctx, srv.repo, srv.publisher, srv.logger, job.ID, now)

	return len(entries), nil
}
