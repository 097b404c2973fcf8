// Package health probes transport servers and confirms connected sessions on a fixed interval.
package health

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"courier/config"
	"courier/internal/domain/entity"
	"courier/internal/domain/service"
	"courier/internal/errors"
	"courier/internal/infra/metrics"
	"courier/internal/infra/registry"
	"courier/internal/session"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// Monitor runs the probe cycle. Probe failures are recorded on the registry and
// never returned; one stuck target only costs its own probe timeout.
type Monitor struct {
	cfg       config.HealthConfig
	registry  *registry.Registry
	transport service.TransportClient
	pool      *session.Pool
	publisher service.EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger

	running atomic.Bool
	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
}

// Params holds dependencies for Monitor, injected by Fx.
type Params struct {
	fx.In

	Lc        fx.Lifecycle `optional:"true"`
	Config    *config.Config
	Registry  *registry.Registry
	Transport service.TransportClient
	Pool      *session.Pool
	Publisher service.EventPublisher
	Metrics   *metrics.Metrics `optional:"true"`
	Logger    *slog.Logger
}

// New creates the monitor; with a lifecycle it starts and stops with the app
func New(params Params) *Monitor {
	m := &Monitor{
		cfg:       params.Config.Health,
		registry:  params.Registry,
		transport: params.Transport,
		pool:      params.Pool,
		publisher: params.Publisher,
		metrics:   params.Metrics,
		logger:    params.Logger,
	}

	if params.Lc != nil {
		params.Lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				m.Start()

				return nil
			},
			OnStop: func(context.Context) error {
				m.Stop()

				return nil
			},
		})
	}

	return m
}

// Start launches the periodic cycle. It returns false when already running.
func (m *Monitor) Start() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running.Load() {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running.Store(true)

	go func() {
		defer close(m.done)

		ticker := time.NewTicker(m.cfg.ProbeInterval)
		defer ticker.Stop()

		m.logger.Info("Health monitor started", slog.Duration("interval", m.cfg.ProbeInterval))

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.safeTick(ctx)
			}
		}
	}()

	return true
}

// Stop cancels the cycle and waits for the running tick to return
func (m *Monitor) Stop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running.Load() {
		return false
	}

	m.cancel()
	<-m.done
	m.running.Store(false)

	m.logger.Info("Health monitor stopped")

	return true
}

func (m *Monitor) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Health tick panic recovered", slog.Any("panic", r))
		}
	}()

	start := time.Now()
	m.RunCycle(ctx)
	m.logger.Debug("Health tick completed", slog.Int64("duration_ms", time.Since(start).Milliseconds()))
}

// RunCycle probes every server, then confirms every Connected session
func (m *Monitor) RunCycle(ctx context.Context) {
	m.ProbeServers(ctx)
	m.ConfirmSessions(ctx)
}

// ProbeServers pings each server in parallel, each bounded by the probe timeout
func (m *Monitor) ProbeServers(ctx context.Context) {
	servers, err := m.registry.List(ctx)
	if err != nil {
		m.logger.Error("Failed to list servers for probing", slog.Any("error", err))

		return
	}

	var g errgroup.Group
	for _, s := range servers {
		g.Go(func() error {
			m.probe(ctx, s)

			return nil
		})
	}
	_ = g.Wait()
}

func (m *Monitor) probe(ctx context.Context, s *entity.Server) {
	probeCtx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout)
	defer cancel()

	start := time.Now()
	err := m.transport.Ping(probeCtx, s.Address)
	latency := time.Since(start)

	m.metrics.ProbeObserved(s.ID, latency, err == nil)

	prev, next, recErr := m.registry.RecordProbe(ctx, s.ID, registry.ProbeOutcome{Latency: latency, Err: err}, m.cfg.MaxFailures)
	if recErr != nil {
		m.logger.Warn("Failed to record probe", slog.String("server_id", s.ID), slog.Any("error", recErr))

		return
	}

	if err != nil {
		m.logger.Warn("Server probe failed",
			slog.String("server_id", s.ID),
			slog.Duration("latency", latency),
			slog.Any("error", err),
		)
	}

	if prev != next {
		m.logger.Info("Server status changed",
			slog.String("server_id", s.ID),
			slog.String("from", string(prev)),
			slog.String("to", string(next)),
		)
		m.publish(ctx, s.ID, prev, next)
	}
}

func (m *Monitor) publish(ctx context.Context, serverID string, prev, next entity.ServerStatus) {
	event := &service.DomainEvent{
		ID:        uuid.NewString(),
		Type:      service.EventServerStatusChanged,
		SubjectID: serverID,
		Attributes: map[string]string{
			"from": string(prev),
			"to":   string(next),
		},
		OccurredAt: time.Now(),
	}
	if err := m.publisher.Publish(ctx, event); err != nil {
		m.logger.Warn("Failed to publish server event", slog.Any("error", errors.WithStack(err)))
	}
}

// ConfirmSessions re-checks every Connected session against its server. Dead
// sessions are demoted through the machine's compare-and-set path.
func (m *Monitor) ConfirmSessions(ctx context.Context) {
	machines := m.pool.InState(entity.StateConnected)
	if len(machines) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(max(m.cfg.RefreshAllConcurrency, 1))
	for _, machine := range machines {
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout)
			defer cancel()

			snapshot, err := machine.Refresh(probeCtx)
			if err != nil {
				m.logger.Warn("Session confirmation failed",
					slog.String("connection_id", machine.ID().String()),
					slog.Any("error", err),
				)

				return nil
			}
			if state := snapshot.Status.State(); state != entity.StateConnected {
				m.logger.Info("Session demoted",
					slog.String("connection_id", machine.ID().String()),
					slog.String("state", string(state)),
				)
			}

			return nil
		})
	}
	_ = g.Wait()
}
