package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domainerrors "courier/internal/domain/errors"
	"courier/internal/domain/lifecycle"
	"courier/internal/domain/service"
	"courier/internal/errors"
	"courier/internal/infra/metrics"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// ErrStopped is returned when entries are enqueued after shutdown began
var ErrStopped = errors.New("dispatcher stopped")

// reportRetryDelay postpones an entry whose status could not be recorded
const reportRetryDelay = 5 * time.Second

// Sender delivers one message through a connection
type Sender interface {
	Send(ctx context.Context, connectionID uuid.UUID, msg service.OutboundMessage) error
	// DailyLimit is the per UTC day send cap of the connection, 0 for none
	DailyLimit(connectionID uuid.UUID) int
}

// Reporter records recipient progress. MarkSending must be a compare-and-set
// from pending: false means the recipient was settled elsewhere and is skipped.
type Reporter interface {
	MarkSending(ctx context.Context, entry *Entry) (bool, error)
	MarkSent(ctx context.Context, entry *Entry) error
	MarkFailed(ctx context.Context, entry *Entry, reason string) error
}

// Dispatcher owns one worker goroutine per connection with queued entries
type Dispatcher struct {
	mu      sync.Mutex
	workers map[uuid.UUID]*worker
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	sender   Sender
	reporter Reporter
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// Params holds dependencies for Dispatcher, injected by Fx.
type Params struct {
	fx.In

	Lc       fx.Lifecycle `optional:"true"`
	Sender   Sender
	Reporter Reporter
	Metrics  *metrics.Metrics `optional:"true"`
	Logger   *slog.Logger
}

// New creates a dispatcher. Workers are started lazily on the first enqueue.
func New(params Params) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	d := &Dispatcher{
		workers:  make(map[uuid.UUID]*worker),
		ctx:      ctx,
		cancel:   cancel,
		sender:   params.Sender,
		reporter: params.Reporter,
		metrics:  params.Metrics,
		logger:   params.Logger,
		now:      time.Now,
	}

	if params.Lc != nil {
		params.Lc.Append(fx.Hook{
			OnStop: func(stopCtx context.Context) error {
				ctx, cancel := context.WithTimeout(stopCtx, lifecycle.DefaultTimeout)
				defer cancel()

				return d.Stop(ctx)
			},
		})
	}

	return d
}

// Enqueue appends entries to the connection queue in the given order
func (d *Dispatcher) Enqueue(connectionID uuid.UUID, entries []*Entry) error {
	if len(entries) == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return ErrStopped
	}

	w, ok := d.workers[connectionID]
	if !ok {
		w = d.startWorker(connectionID)
	}

	w.queue.Push(entries...)
	d.metrics.QueueDepthChanged(len(entries))
	w.wakeUp()

	return nil
}

// CancelJob removes the queued entries of a job and returns how many were removed.
// An entry already popped by the worker is skipped before it is sent.
func (d *Dispatcher) CancelJob(connectionID, jobID uuid.UUID) int {
	w := d.worker(connectionID)
	if w == nil {
		return 0
	}

	w.markCancelled(jobID)
	removed := w.queue.RemoveJob(jobID)
	d.metrics.QueueDepthChanged(-len(removed))

	return len(removed)
}

// CancelConnection empties the connection queue and returns the affected job IDs
func (d *Dispatcher) CancelConnection(connectionID uuid.UUID) []uuid.UUID {
	w := d.worker(connectionID)
	if w == nil {
		return nil
	}

	return d.drain(w)
}

// StopConnection empties the queue and stops the worker of a removed connection
func (d *Dispatcher) StopConnection(connectionID uuid.UUID) []uuid.UUID {
	d.mu.Lock()
	w, ok := d.workers[connectionID]
	delete(d.workers, connectionID)
	d.mu.Unlock()

	if !ok {
		return nil
	}

	jobs := d.drain(w)
	w.cancel()

	return jobs
}

func (d *Dispatcher) drain(w *worker) []uuid.UUID {
	removed := w.queue.Drain()
	d.metrics.QueueDepthChanged(-len(removed))

	seen := make(map[uuid.UUID]struct{})
	var jobs []uuid.UUID
	for _, e := range removed {
		if _, dup := seen[e.JobID]; dup {
			continue
		}
		seen[e.JobID] = struct{}{}
		jobs = append(jobs, e.JobID)
		w.markCancelled(e.JobID)
	}

	return jobs
}

// Pending returns the number of queued entries of a connection
func (d *Dispatcher) Pending(connectionID uuid.UUID) int {
	w := d.worker(connectionID)
	if w == nil {
		return 0
	}

	return w.queue.Len()
}

// Stop cancels every worker and waits for them to return
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	d.cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Dispatcher stopped")

		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "dispatcher workers did not stop in time")
	}
}

func (d *Dispatcher) worker(connectionID uuid.UUID) *worker {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.workers[connectionID]
}

// startWorker must be called with d.mu held
func (d *Dispatcher) startWorker(connectionID uuid.UUID) *worker {
	ctx, cancel := context.WithCancel(d.ctx)
	w := &worker{
		connectionID: connectionID,
		queue:        NewQueue(),
		wake:         make(chan struct{}, 1),
		cancelled:    make(map[uuid.UUID]struct{}),
		cancel:       cancel,
		d:            d,
		logger:       d.logger.With(slog.String("connection_id", connectionID.String())),
	}
	d.workers[connectionID] = w

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		w.run(ctx)
	}()

	return w
}

type worker struct {
	connectionID uuid.UUID
	queue        *Queue
	wake         chan struct{}
	cancel       context.CancelFunc
	d            *Dispatcher
	logger       *slog.Logger

	mu        sync.Mutex
	cancelled map[uuid.UUID]struct{}

	// touched only by the worker goroutine
	day       string
	sentToday int
}

func (w *worker) wakeUp() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *worker) markCancelled(jobID uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.cancelled[jobID] = struct{}{}
}

func (w *worker) isCancelled(jobID uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, ok := w.cancelled[jobID]

	return ok
}

func (w *worker) forgetCancelled() {
	w.mu.Lock()
	defer w.mu.Unlock()

	clear(w.cancelled)
}

func (w *worker) run(ctx context.Context) {
	for ctx.Err() == nil {
		now := w.d.now()

		entry, next := w.queue.Next(now)
		if entry == nil {
			if next.IsZero() {
				w.forgetCancelled()
			}
			w.wait(ctx, next)

			continue
		}
		w.d.metrics.QueueDepthChanged(-1)

		if w.isCancelled(entry.JobID) {
			continue
		}

		if until, capped := w.capReached(now); capped {
			w.queue.Requeue(entry)
			w.d.metrics.QueueDepthChanged(1)
			w.logger.Info("Daily message cap reached, pausing until next day",
				slog.Time("resume_at", until),
			)
			w.sleep(ctx, until.Sub(now))

			continue
		}

		if !w.process(ctx, entry) {
			continue
		}

		w.sleep(ctx, entry.Delay.Sample())
	}
}

// process sends one entry and reports whether a send was attempted
func (w *worker) process(ctx context.Context, entry *Entry) bool {
	reportCtx := context.WithoutCancel(ctx)

	claimed, err := w.d.reporter.MarkSending(reportCtx, entry)
	if err != nil {
		w.logger.Error("Failed to mark recipient sending, postponing",
			slog.String("recipient_id", entry.RecipientID.String()),
			slog.Any("error", err),
		)
		entry.ScheduledAt = w.d.now().Add(reportRetryDelay)
		w.queue.Requeue(entry)
		w.d.metrics.QueueDepthChanged(1)

		return false
	}
	if !claimed {
		w.logger.Debug("Recipient already settled, skipping",
			slog.String("recipient_id", entry.RecipientID.String()),
		)

		return false
	}

	if err := w.d.sender.Send(ctx, entry.ConnectionID, entry.Message); err != nil {
		reason := failureReason(err)
		w.logger.Warn("Message send failed",
			slog.String("recipient_id", entry.RecipientID.String()),
			slog.String("reason", reason),
		)
		if err := w.d.reporter.MarkFailed(reportCtx, entry, reason); err != nil {
			w.logger.Error("Failed to record send failure", slog.Any("error", err))
		}
		w.d.metrics.MessageProcessed(metrics.ResultFailed)

		return true
	}

	w.sentToday++
	if err := w.d.reporter.MarkSent(reportCtx, entry); err != nil {
		w.logger.Error("Failed to record sent message", slog.Any("error", err))
	}
	w.d.metrics.MessageProcessed(metrics.ResultSent)

	return true
}

// capReached reports whether the daily cap is used up and when the next UTC day starts
func (w *worker) capReached(now time.Time) (time.Time, bool) {
	limit := w.d.sender.DailyLimit(w.connectionID)
	if limit <= 0 {
		return time.Time{}, false
	}

	utc := now.UTC()
	if day := utc.Format(time.DateOnly); day != w.day {
		w.day = day
		w.sentToday = 0
	}
	if w.sentToday < limit {
		return time.Time{}, false
	}

	y, m, dd := utc.Date()

	return time.Date(y, m, dd+1, 0, 0, 0, 0, time.UTC), true
}

// wait blocks until the next eligible time, a new entry or cancellation
func (w *worker) wait(ctx context.Context, next time.Time) {
	if next.IsZero() {
		select {
		case <-ctx.Done():
		case <-w.wake:
		}

		return
	}

	timer := time.NewTimer(next.Sub(w.d.now()))
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-w.wake:
	case <-timer.C:
	}
}

// sleep is the pacing pause; new entries do not shorten it
func (w *worker) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func failureReason(err error) string {
	if terr, ok := errors.AsType[*service.TransportError](err); ok {
		if terr.Reason != "" {
			return terr.Reason
		}

		return terr.Error()
	}
	if appErr, ok := errors.AsType[domainerrors.AppError](err); ok {
		if appErr.Details() != "" {
			return appErr.Message() + ": " + appErr.Details()
		}

		return appErr.Message()
	}

	return err.Error()
}
