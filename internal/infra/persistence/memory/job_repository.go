package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"courier/internal/domain/entity"
	"courier/internal/domain/repository"

	"github.com/google/uuid"
)

type jobRepository struct {
	mu         sync.RWMutex
	jobs       map[uuid.UUID]*entity.BulkJob
	recipients map[uuid.UUID]*entity.Recipient
	byJob      map[uuid.UUID][]uuid.UUID
}

// NewJobRepository creates an in-memory JobRepository
func NewJobRepository() repository.JobRepository {
	return &jobRepository{
		jobs:       make(map[uuid.UUID]*entity.BulkJob),
		recipients: make(map[uuid.UUID]*entity.Recipient),
		byJob:      make(map[uuid.UUID][]uuid.UUID),
	}
}

func (repo *jobRepository) CreateJob(_ context.Context, job *entity.BulkJob, recipients []*entity.Recipient) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	j := *job
	repo.jobs[job.ID] = &j

	ids := make([]uuid.UUID, 0, len(recipients))
	for _, r := range recipients {
		cp := *r
		repo.recipients[r.ID] = &cp
		ids = append(ids, r.ID)
	}
	repo.byJob[job.ID] = ids

	return nil
}

func (repo *jobRepository) FindJobByID(_ context.Context, id uuid.UUID) (*entity.BulkJob, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	j, ok := repo.jobs[id]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	cp := *j

	return &cp, nil
}

func (repo *jobRepository) FindJobsByConnection(_ context.Context, connectionID uuid.UUID) ([]*entity.BulkJob, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	out := make([]*entity.BulkJob, 0)
	for _, j := range repo.jobs {
		if j.ConnectionID == connectionID {
			cp := *j
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *entity.BulkJob) int { return b.CreatedAt.Compare(a.CreatedAt) })

	return out, nil
}

func (repo *jobRepository) FindRecipientsByJob(_ context.Context, jobID uuid.UUID) ([]*entity.Recipient, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	ids := repo.byJob[jobID]
	out := make([]*entity.Recipient, 0, len(ids))
	for _, id := range ids {
		cp := *repo.recipients[id]
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *entity.Recipient) int { return cmp.Compare(a.Seq, b.Seq) })

	return out, nil
}

func (repo *jobRepository) CountRecipients(_ context.Context, jobID uuid.UUID) (entity.JobCounts, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var counts entity.JobCounts
	for _, id := range repo.byJob[jobID] {
		counts.Add(repo.recipients[id].Status)
	}

	return counts, nil
}

func (repo *jobRepository) TransitionRecipient(_ context.Context, id uuid.UUID, from, to entity.RecipientStatus, lastError string, at time.Time) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	r, ok := repo.recipients[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	r.LastError = lastError
	r.UpdatedAt = at
	if to == entity.RecipientSent {
		sentAt := at
		r.SentAt = &sentAt
	}

	return true, nil
}

func (repo *jobRepository) FailPendingRecipients(_ context.Context, jobID uuid.UUID, reason string, at time.Time) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	n := 0
	for _, id := range repo.byJob[jobID] {
		r := repo.recipients[id]
		if r.Status != entity.RecipientPending {
			continue
		}
		r.Status = entity.RecipientFailed
		r.LastError = reason
		r.UpdatedAt = at
		n++
	}

	return n, nil
}

func (repo *jobRepository) MarkJobCancelled(_ context.Context, jobID uuid.UUID, at time.Time) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	j, ok := repo.jobs[jobID]
	if !ok {
		return false, repository.ErrJobNotFound
	}
	if j.CancelledAt != nil {
		return false, nil
	}
	j.CancelledAt = &at

	return true, nil
}

func (repo *jobRepository) MarkJobCompleted(_ context.Context, jobID uuid.UUID, at time.Time) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	j, ok := repo.jobs[jobID]
	if !ok {
		return false, repository.ErrJobNotFound
	}
	if j.CompletedAt != nil {
		return false, nil
	}
	j.CompletedAt = &at

	return true, nil
}
