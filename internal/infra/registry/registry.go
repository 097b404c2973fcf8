// Package registry keeps the pool of transport servers and their capacity counters.
package registry

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"courier/config"
	"courier/internal/domain/entity"
	domainerrors "courier/internal/domain/errors"
	"courier/internal/domain/lifecycle"
	"courier/internal/domain/repository"
	"courier/internal/errors"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Registry is the single owner of the server pool. Capacity counters live in the
// SlotCounter; the registry lock is never held across a counter or repository call.
type Registry struct {
	mu      sync.RWMutex
	servers map[string]*entity.Server

	counter SlotCounter
	repo    repository.ServerRepository
	logger  *slog.Logger
	now     func() time.Time
}

// Params holds dependencies for Registry, injected by Fx.
type Params struct {
	fx.In

	Lc     fx.Lifecycle `optional:"true"`
	Config *config.Config
	Repo   repository.ServerRepository
	Redis  *goredis.Client `optional:"true"`
	Logger *slog.Logger
}

// New creates the registry and loads the pool on start
func New(params Params) *Registry {
	var counter SlotCounter
	if params.Redis != nil {
		counter = NewRedisCounter(params.Redis, params.Config.Redis.KeyPrefix)
	} else {
		counter = NewMemoryCounter()
	}

	r := NewWithCounter(params.Repo, counter, params.Logger)

	if params.Lc != nil {
		seeds := params.Config.Servers
		params.Lc.Append(fx.Hook{
			OnStart: func(startCtx context.Context) error {
				ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
				defer cancel()

				return r.Load(ctx, seeds)
			},
		})
	}

	return r
}

// NewWithCounter creates a registry over an explicit counter
func NewWithCounter(repo repository.ServerRepository, counter SlotCounter, logger *slog.Logger) *Registry {
	return &Registry{
		servers: make(map[string]*entity.Server),
		counter: counter,
		repo:    repo,
		logger:  logger,
		now:     time.Now,
	}
}

// Load reads stored servers and registers the configured seeds that are missing
func (r *Registry) Load(ctx context.Context, seeds []config.ServerSeed) error {
	stored, err := r.repo.ListServers(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list servers")
	}

	r.mu.Lock()
	for _, s := range stored {
		r.servers[s.ID] = s
	}
	r.mu.Unlock()

	for _, seed := range seeds {
		err := r.Register(ctx, &entity.Server{
			ID:       seed.ID,
			Address:  seed.Address,
			Capacity: seed.Capacity,
			Status:   entity.ServerStatusActive,
		})
		if err != nil && !errors.Is(err, domainerrors.ErrServerAlreadyExists) {
			return err
		}
	}

	r.logger.Info("Server registry loaded", slog.Int("servers", r.size()))

	return nil
}

func (r *Registry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.servers)
}

// Register adds a server to the pool
func (r *Registry) Register(ctx context.Context, server *entity.Server) error {
	if server.ID == "" || server.Address == "" || server.Capacity <= 0 {
		return domainerrors.ErrValidationFailed.WithReason("server id, address and positive capacity are required")
	}
	if server.Status == "" {
		server.Status = entity.ServerStatusActive
	}
	if !server.Status.IsValid() {
		return domainerrors.ErrValidationFailed.WithReason("unknown server status " + string(server.Status))
	}
	server.Address = strings.TrimRight(server.Address, "/")

	now := r.now()
	server.CreatedAt = now
	server.UpdatedAt = now

	r.mu.Lock()
	if _, exists := r.servers[server.ID]; exists {
		r.mu.Unlock()

		return domainerrors.ErrServerAlreadyExists
	}
	stored := *server
	r.servers[server.ID] = &stored
	r.mu.Unlock()

	if err := r.repo.SaveServer(ctx, &stored); err != nil {
		r.mu.Lock()
		delete(r.servers, server.ID)
		r.mu.Unlock()

		return errors.Wrap(err, "failed to save server")
	}

	return nil
}

// Get returns a snapshot of one server with its live connection count
func (r *Registry) Get(ctx context.Context, id string) (*entity.Server, error) {
	r.mu.RLock()
	s, ok := r.servers[id]
	var snapshot entity.Server
	if ok {
		snapshot = *s
	}
	r.mu.RUnlock()

	if !ok {
		return nil, domainerrors.ErrServerNotFound
	}

	count, err := r.counter.Count(ctx, id)
	if err != nil {
		return nil, err
	}
	snapshot.CurrentConnections = count

	return &snapshot, nil
}

// List returns snapshots of every server ordered by ID
func (r *Registry) List(ctx context.Context) ([]*entity.Server, error) {
	snapshots := r.snapshot(nil)

	for _, s := range snapshots {
		count, err := r.counter.Count(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.CurrentConnections = count
	}

	slices.SortFunc(snapshots, func(a, b *entity.Server) int {
		return strings.Compare(a.ID, b.ID)
	})

	return snapshots, nil
}

// ActiveServers returns the active servers ordered by ascending load, then latency
func (r *Registry) ActiveServers(ctx context.Context) ([]*entity.Server, error) {
	snapshots := r.snapshot(func(s *entity.Server) bool {
		return s.Status == entity.ServerStatusActive
	})

	for _, s := range snapshots {
		count, err := r.counter.Count(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.CurrentConnections = count
	}

	slices.SortFunc(snapshots, func(a, b *entity.Server) int {
		if c := cmp.Compare(a.LoadRatio(), b.LoadRatio()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Latency, b.Latency); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	return snapshots, nil
}

func (r *Registry) snapshot(keep func(*entity.Server) bool) []*entity.Server {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Server, 0, len(r.servers))
	for _, s := range r.servers {
		if keep != nil && !keep(s) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}

	return out
}

// ReserveSlot takes one capacity slot on the server
func (r *Registry) ReserveSlot(ctx context.Context, id string) error {
	r.mu.RLock()
	s, ok := r.servers[id]
	var capacity int
	if ok {
		capacity = s.Capacity
	}
	r.mu.RUnlock()

	if !ok {
		return domainerrors.ErrServerNotFound
	}

	if _, err := r.counter.Reserve(ctx, id, capacity); err != nil {
		if errors.Is(err, ErrSlotsExhausted) {
			return domainerrors.ErrCapacityExceeded.WithDetails(id)
		}

		return err
	}

	return nil
}

// ReleaseSlot gives one capacity slot back to the server
func (r *Registry) ReleaseSlot(ctx context.Context, id string) error {
	if _, err := r.counter.Release(ctx, id); err != nil {
		return err
	}

	return nil
}

// SyncCounts overwrites in-process counters with counts rebuilt from stored connections.
// Shared counters already hold the truth and are left alone.
func (r *Registry) SyncCounts(ctx context.Context, counts map[string]int) error {
	if r.counter.Shared() {
		return nil
	}

	for id, n := range counts {
		if err := r.counter.Reset(ctx, id, n); err != nil {
			return err
		}
	}

	return nil
}

// SetStatus changes the administrative status and returns the previous one
func (r *Registry) SetStatus(ctx context.Context, id string, status entity.ServerStatus) (entity.ServerStatus, error) {
	if !status.IsValid() {
		return "", domainerrors.ErrValidationFailed.WithReason("unknown server status " + string(status))
	}

	r.mu.Lock()
	s, ok := r.servers[id]
	if !ok {
		r.mu.Unlock()

		return "", domainerrors.ErrServerNotFound
	}
	prev := s.Status
	s.Status = status
	s.ConsecutiveFailures = 0
	s.UpdatedAt = r.now()
	stored := *s
	r.mu.Unlock()

	r.persist(ctx, &stored)

	return prev, nil
}

// ProbeOutcome is the result of one liveness probe
type ProbeOutcome struct {
	Latency time.Duration
	Err     error
}

// RecordProbe applies a probe result. A server becomes inactive after maxFailures
// consecutive failures and active again on the next success. Maintenance is never
// changed by probes. It reports the status before and after.
func (r *Registry) RecordProbe(ctx context.Context, id string, outcome ProbeOutcome, maxFailures int) (prev, next entity.ServerStatus, err error) {
	r.mu.Lock()
	s, ok := r.servers[id]
	if !ok {
		r.mu.Unlock()

		return "", "", domainerrors.ErrServerNotFound
	}

	now := r.now()
	prev = s.Status
	s.LastProbedAt = &now
	s.UpdatedAt = now

	if outcome.Err == nil {
		s.Latency = outcome.Latency
		s.ConsecutiveFailures = 0
		s.LastError = ""
		if s.Status == entity.ServerStatusInactive {
			s.Status = entity.ServerStatusActive
		}
	} else {
		s.ConsecutiveFailures++
		s.LastError = outcome.Err.Error()
		if s.Status == entity.ServerStatusActive && s.ConsecutiveFailures >= maxFailures {
			s.Status = entity.ServerStatusInactive
		}
	}
	next = s.Status
	stored := *s
	r.mu.Unlock()

	if prev != next {
		r.persist(ctx, &stored)
	}

	return prev, next, nil
}

func (r *Registry) persist(ctx context.Context, s *entity.Server) {
	if err := r.repo.SaveServer(ctx, s); err != nil {
		r.logger.Warn("Failed to persist server",
			slog.String("server_id", s.ID),
			slog.Any("error", err),
		)
	}
}
