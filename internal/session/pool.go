package session

import (
	"context"
	"sync"

	"courier/internal/domain/entity"
	domainerrors "courier/internal/domain/errors"
	"courier/internal/domain/service"

	"github.com/google/uuid"
)

// Pool indexes the live machines of this process by connection ID
type Pool struct {
	mu       sync.RWMutex
	machines map[uuid.UUID]*Machine
}

// NewPool creates an empty pool
func NewPool() *Pool {
	return &Pool{machines: make(map[uuid.UUID]*Machine)}
}

func (p *Pool) Put(m *Machine) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.machines[m.ID()] = m
}

func (p *Pool) Get(id uuid.UUID) (*Machine, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	m, ok := p.machines[id]

	return m, ok
}

func (p *Pool) Delete(id uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.machines, id)
}

// InState returns the machines currently in state
func (p *Pool) InState(state entity.ConnectionState) []*Machine {
	p.mu.RLock()
	all := make([]*Machine, 0, len(p.machines))
	for _, m := range p.machines {
		all = append(all, m)
	}
	p.mu.RUnlock()

	out := all[:0]
	for _, m := range all {
		if m.State() == state {
			out = append(out, m)
		}
	}

	return out
}

// Send delivers a message through the connection's session
func (p *Pool) Send(ctx context.Context, connectionID uuid.UUID, msg service.OutboundMessage) error {
	m, ok := p.Get(connectionID)
	if !ok {
		return domainerrors.ErrConnectionNotFound
	}

	_, err := m.Send(ctx, msg)

	return err
}

// DailyLimit returns the per day cap of the connection, 0 when unknown or unlimited
func (p *Pool) DailyLimit(connectionID uuid.UUID) int {
	m, ok := p.Get(connectionID)
	if !ok {
		return 0
	}

	return m.Snapshot().MaxDailyMessages
}
